package main

import (
	"context"
	"flag"
	"log"
	"time"

	"listening-notes-be/internal/bootstrap"
	"listening-notes-be/internal/config"
	"listening-notes-be/internal/entity"
)

func main() {
	uid := flag.String("uid", "demo", "owner of the seeded notes")
	flag.Parse()

	cfg := config.Load()

	repo, closeRepo, err := bootstrap.OpenNoteRepository(cfg.Store)
	if err != nil {
		log.Fatal("Error: Failed to open note store:", err)
	}
	defer closeRepo()

	log.Printf("Seeding notes for %q into %s store...", *uid, cfg.Store.Driver)

	now := time.Now()
	notes := []entity.Note{
		{Title: "Weekly sync", Description: "Action items from the team call", Level: entity.LevelFocused, Important: true,
			SubNotes: []entity.SubNote{
				{Id: "sync-1", Title: "Ship release notes", Level: entity.LevelGlobal, Important: true},
				{Id: "sync-2", Title: "Review onboarding doc", Level: entity.LevelInternal},
			}},
		{Title: "Customer call", Description: "Feedback on the export flow", Level: entity.LevelGlobal},
		{Title: "Podcast ideas", Description: "", Level: entity.LevelInternal},
	}

	ctx := context.Background()
	for i, n := range notes {
		created := now.Add(time.Duration(i) * time.Millisecond)
		n.Date = created.UnixMilli()
		for j := range n.SubNotes {
			n.SubNotes[j].Date = n.Date
		}

		note := &entity.NoteWithId{Note: n, Id: entity.NewNoteID(*uid, created), Uid: *uid}
		if err := repo.Create(ctx, note); err != nil {
			log.Printf("Error creating note '%s': %v", n.Title, err)
			continue
		}
		log.Printf("Created note: %s (%s)", n.Title, note.Id)
	}

	log.Println("Note seeding completed!")
}
