package main

import (
	"fmt"
	"time"

	"listening-notes-be/internal/entity"
	"listening-notes-be/pkg/client"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a note, or a sub-note with --to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		level, _ := cmd.Flags().GetInt("level")
		important, _ := cmd.Flags().GetBool("important")
		parentID, _ := cmd.Flags().GetString("to")

		lvl := entity.Level(level)
		if !lvl.Valid() {
			return fmt.Errorf("level must be 1, 2 or 3")
		}
		now := time.Now()

		if parentID != "" {
			parent, ok := findNote(parentID)
			if !ok {
				return fmt.Errorf("note %s not found", parentID)
			}
			sub := client.NewSubNote(args[0], description, lvl, important, now)
			if _, err := notes.UpdateNote(cmd.Context(), client.AppendSubNote(parent, sub)); err != nil {
				return fmt.Errorf("failed to add sub-note: %w", err)
			}
			fmt.Println(success(fmt.Sprintf("Added sub-note to %s", parentID)))
			return nil
		}

		note := entity.Note{
			Title:       args[0],
			Description: description,
			Date:        now.UnixMilli(),
			Important:   important,
			Level:       lvl,
		}
		if _, err := notes.AddNote(cmd.Context(), note); err != nil {
			return fmt.Errorf("failed to add note: %w", err)
		}

		all := notes.ListNotes()
		fmt.Println(success(fmt.Sprintf("Added note %s", all[len(all)-1].Id)))
		return nil
	},
}

func findNote(id string) (entity.NoteWithId, bool) {
	for _, n := range notes.ListNotes() {
		if n.Id == id {
			return n, true
		}
	}
	return entity.NoteWithId{}, false
}

func init() {
	addCmd.Flags().StringP("description", "d", "", "note description")
	addCmd.Flags().IntP("level", "l", int(entity.LevelInternal), "1 internal, 2 focused, 3 global")
	addCmd.Flags().BoolP("important", "i", false, "mark as important")
	addCmd.Flags().String("to", "", "parent note id; adds a sub-note instead")
	rootCmd.AddCommand(addCmd)
}
