package main

import (
	"fmt"

	"listening-notes-be/internal/entity"
	"listening-notes-be/pkg/client"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <note-id>",
	Short: "Remove a note, or a sub-note with --sub",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subID, _ := cmd.Flags().GetString("sub")

		note, ok := findNote(args[0])
		if !ok {
			// deleting an unknown id is harmless server side
			note = entity.NoteWithId{Id: args[0]}
		}

		if subID != "" {
			if !ok {
				return fmt.Errorf("note %s not found", args[0])
			}
			if _, err := notes.UpdateNote(cmd.Context(), client.RemoveSubNote(note, subID)); err != nil {
				return fmt.Errorf("failed to remove sub-note: %w", err)
			}
			fmt.Println(success(fmt.Sprintf("Removed sub-note %s", subID)))
			return nil
		}

		if _, err := notes.DeleteNote(cmd.Context(), note); err != nil {
			return fmt.Errorf("failed to delete note: %w", err)
		}
		fmt.Println(success(fmt.Sprintf("Deleted note %s", note.Id)))
		return nil
	},
}

func init() {
	rmCmd.Flags().String("sub", "", "sub-note id to remove from the note")
	rootCmd.AddCommand(rmCmd)
}
