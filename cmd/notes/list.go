package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notes",
	RunE: func(cmd *cobra.Command, args []string) error {
		all := notes.ListNotes()
		if len(all) == 0 {
			fmt.Println("No notes yet.")
			return nil
		}
		for _, n := range all {
			fmt.Print(formatNote(n))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
