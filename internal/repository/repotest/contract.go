// Package repotest holds the behaviour every contract.NoteRepository must share.
package repotest

import (
	"context"
	"testing"

	"listening-notes-be/internal/entity"
	"listening-notes-be/internal/pkg/apperror"
	"listening-notes-be/internal/repository/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func SampleNote(uid, id string) *entity.NoteWithId {
	return &entity.NoteWithId{
		Note: entity.Note{
			Title:       "Call",
			Description: "",
			Date:        1000,
			Important:   false,
			Level:       entity.LevelInternal,
			SubNotes: []entity.SubNote{
				{Id: "s1", Title: "first", Date: 1001, Level: entity.LevelFocused},
				{Id: "s2", Title: "second", Date: 1002, Important: true, Level: entity.LevelGlobal},
			},
		},
		Id:  id,
		Uid: uid,
	}
}

// RunNoteRepositoryContract exercises newRepo against the NoteRepository contract.
func RunNoteRepositoryContract(t *testing.T, newRepo func(t *testing.T) contract.NoteRepository) {
	ctx := context.Background()

	t.Run("list of unknown owner is empty", func(t *testing.T) {
		repo := newRepo(t)

		notes, err := repo.FindAllByOwner(ctx, "nobody")

		require.NoError(t, err)
		assert.NotNil(t, notes)
		assert.Empty(t, notes)
	})

	t.Run("create then list round trips", func(t *testing.T) {
		repo := newRepo(t)
		note := SampleNote("u1", "u1_100")

		require.NoError(t, repo.Create(ctx, note))
		require.NoError(t, repo.Create(ctx, SampleNote("u2", "u2_100")))

		notes, err := repo.FindAllByOwner(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, note, notes[0])
	})

	t.Run("empty and absent sub-note lists stay distinct", func(t *testing.T) {
		repo := newRepo(t)
		empty := SampleNote("u1", "u1_100")
		empty.SubNotes = []entity.SubNote{}
		absent := SampleNote("u1", "u1_200")
		absent.SubNotes = nil
		require.NoError(t, repo.Create(ctx, empty))
		require.NoError(t, repo.Create(ctx, absent))

		notes, err := repo.FindAllByOwner(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.NotNil(t, notes[0].SubNotes)
		assert.Empty(t, notes[0].SubNotes)
		assert.Nil(t, notes[1].SubNotes)

		cleared := SampleNote("u1", "u1_200")
		cleared.SubNotes = []entity.SubNote{}
		require.NoError(t, repo.Update(ctx, cleared))

		notes, err = repo.FindAllByOwner(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, []entity.SubNote{}, notes[1].SubNotes)
	})

	t.Run("create on existing id overwrites", func(t *testing.T) {
		repo := newRepo(t)
		note := SampleNote("u1", "u1_100")
		require.NoError(t, repo.Create(ctx, note))

		again := SampleNote("u1", "u1_100")
		again.Title = "Again"
		require.NoError(t, repo.Create(ctx, again))

		notes, err := repo.FindAllByOwner(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "Again", notes[0].Title)
	})

	t.Run("update replaces fields", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, SampleNote("u1", "u1_100")))

		updated := SampleNote("u1", "u1_100")
		updated.Title = "Renamed"
		updated.Important = true
		updated.Level = entity.LevelGlobal
		updated.SubNotes = updated.SubNotes[:1]
		require.NoError(t, repo.Update(ctx, updated))

		notes, err := repo.FindAllByOwner(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, updated, notes[0])
	})

	t.Run("update of missing note fails", func(t *testing.T) {
		repo := newRepo(t)

		err := repo.Update(ctx, SampleNote("u1", "u1_404"))

		require.Error(t, err)
		assert.True(t, apperror.IsStorage(err))
		assert.ErrorIs(t, err, contract.ErrNoteNotFound)
	})

	t.Run("delete removes and tolerates repeats", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, SampleNote("u1", "u1_100")))
		require.NoError(t, repo.Create(ctx, SampleNote("u1", "u1_200")))

		require.NoError(t, repo.Delete(ctx, "u1_100"))
		require.NoError(t, repo.Delete(ctx, "u1_100"))

		notes, err := repo.FindAllByOwner(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "u1_200", notes[0].Id)
	})

	t.Run("returned notes are copies", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, SampleNote("u1", "u1_100")))

		notes, err := repo.FindAllByOwner(ctx, "u1")
		require.NoError(t, err)
		notes[0].Title = "mutated"
		notes[0].SubNotes[0].Title = "mutated"

		again, err := repo.FindAllByOwner(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Call", again[0].Title)
		assert.Equal(t, "first", again[0].SubNotes[0].Title)
	})
}
