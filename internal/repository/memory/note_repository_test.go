package memory

import (
	"testing"

	"listening-notes-be/internal/repository/contract"
	"listening-notes-be/internal/repository/repotest"
)

func TestNoteRepository(t *testing.T) {
	repotest.RunNoteRepositoryContract(t, func(t *testing.T) contract.NoteRepository {
		return NewNoteRepository()
	})
}
