package client

import (
	"time"

	"listening-notes-be/internal/entity"

	"github.com/google/uuid"
)

// NewSubNote builds a sub-note dated now with a fresh random id.
func NewSubNote(title, description string, level entity.Level, important bool, now time.Time) entity.SubNote {
	return entity.SubNote{
		Id:          uuid.NewString(),
		Title:       title,
		Description: description,
		Date:        now.UnixMilli(),
		Important:   important,
		Level:       level,
	}
}

// AppendSubNote returns a copy of note with sub appended to its sub-notes.
func AppendSubNote(note entity.NoteWithId, sub entity.SubNote) entity.NoteWithId {
	subs := make([]entity.SubNote, 0, len(note.SubNotes)+1)
	subs = append(subs, note.SubNotes...)
	note.SubNotes = append(subs, sub)
	return note
}

// RemoveSubNote returns a copy of note without the sub-note with the given id.
func RemoveSubNote(note entity.NoteWithId, id string) entity.NoteWithId {
	subs := make([]entity.SubNote, 0, len(note.SubNotes))
	for _, s := range note.SubNotes {
		if s.Id != id {
			subs = append(subs, s)
		}
	}
	note.SubNotes = subs
	return note
}
