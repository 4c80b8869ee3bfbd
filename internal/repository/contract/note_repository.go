package contract

import (
	"context"
	"errors"

	"listening-notes-be/internal/entity"
)

var ErrNoteNotFound = errors.New("note not found")

// NoteRepository is the document store for notes. One document per note,
// keyed by id. Implementations wrap driver failures in apperror.StorageError.
type NoteRepository interface {
	// FindAllByOwner returns every note whose uid equals uid. Order is store-defined.
	FindAllByOwner(ctx context.Context, uid string) ([]*entity.NoteWithId, error)
	// Create writes note at note.Id. An existing document at that id is overwritten.
	Create(ctx context.Context, note *entity.NoteWithId) error
	// Update overwrites the fields of the document at note.Id. It fails with
	// ErrNoteNotFound when no such document exists.
	Update(ctx context.Context, note *entity.NoteWithId) error
	// Delete removes the document at id. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
}
