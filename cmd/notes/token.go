package main

import (
	"fmt"

	"listening-notes-be/internal/config"
	"listening-notes-be/internal/pkg/serverutils"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:         "token <uid>",
	Short:       "Mint a bearer token for uid using JWT_SECRET",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{"offline": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ttl, _ := cmd.Flags().GetDuration("ttl")

		token, err := serverutils.IssueToken(config.Load().Auth.JwtSecret, args[0], ttl)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Duration("ttl", 0, "token lifetime, 0 for no expiry")
	rootCmd.AddCommand(tokenCmd)
}
