package main

import (
	"context"
	"fmt"
	"os"

	"listening-notes-be/pkg/client"

	"github.com/spf13/cobra"
)

var (
	apiURL   string
	apiToken string
	notes    *client.NoteContext
)

var rootCmd = &cobra.Command{
	Use:           "notes",
	Short:         "Work with listening notes from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations["offline"] == "true" {
			return nil
		}
		if apiToken == "" {
			return fmt.Errorf("no token: pass --token or set NOTES_TOKEN")
		}
		notes = client.NewNoteContext(apiURL, apiToken)
		return notes.Refresh(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if notes != nil {
			notes.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "url", envOr("NOTES_API_URL", "http://localhost:3000"), "note API base URL")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", os.Getenv("NOTES_TOKEN"), "bearer token")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, failure(err.Error()))
	}
	return err
}
