package memory

import (
	"context"
	"sort"

	"listening-notes-be/internal/entity"
	"listening-notes-be/internal/pkg/apperror"
	"listening-notes-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// NoteRepository keeps documents in process memory. Nothing expires; the
// janitor is disabled.
type NoteRepository struct {
	cache *cache.Cache
}

func NewNoteRepository() *NoteRepository {
	return &NoteRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

var _ contract.NoteRepository = (*NoteRepository)(nil)

func (r *NoteRepository) FindAllByOwner(ctx context.Context, uid string) ([]*entity.NoteWithId, error) {
	notes := make([]*entity.NoteWithId, 0)
	for _, item := range r.cache.Items() {
		note := item.Object.(*entity.NoteWithId)
		if note.Uid == uid {
			notes = append(notes, cloneNote(note))
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].Id < notes[j].Id })
	return notes, nil
}

func (r *NoteRepository) Create(ctx context.Context, note *entity.NoteWithId) error {
	r.cache.Set(note.Id, cloneNote(note), cache.NoExpiration)
	return nil
}

func (r *NoteRepository) Update(ctx context.Context, note *entity.NoteWithId) error {
	// Replace only succeeds when the key already exists.
	if err := r.cache.Replace(note.Id, cloneNote(note), cache.NoExpiration); err != nil {
		return apperror.NewStorageError("update", contract.ErrNoteNotFound)
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	r.cache.Delete(id)
	return nil
}

func cloneNote(note *entity.NoteWithId) *entity.NoteWithId {
	out := *note
	if note.SubNotes != nil {
		out.SubNotes = make([]entity.SubNote, len(note.SubNotes))
		copy(out.SubNotes, note.SubNotes)
	}
	return &out
}
