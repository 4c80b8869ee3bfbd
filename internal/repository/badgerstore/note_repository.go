// Package badgerstore keeps note documents in an embedded Badger database.
//
// Layout:
//
//	note:{id}              -> JSON document
//	owner:{uid}:{id}       -> empty, index for FindAllByOwner
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"listening-notes-be/internal/entity"
	"listening-notes-be/internal/pkg/apperror"
	"listening-notes-be/internal/repository/contract"

	"github.com/dgraph-io/badger/v3"
)

type NoteRepository struct {
	db *badger.DB
}

var _ contract.NoteRepository = (*NoteRepository)(nil)

// Open opens (or creates) a database under dir. An empty dir runs in memory.
func Open(dir string) (*NoteRepository, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return NewNoteRepository(db), nil
}

func NewNoteRepository(db *badger.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func noteKey(id string) []byte {
	return []byte("note:" + id)
}

func ownerPrefix(uid string) []byte {
	return []byte("owner:" + uid + ":")
}

func ownerKey(uid, id string) []byte {
	return append(ownerPrefix(uid), id...)
}

func (r *NoteRepository) FindAllByOwner(ctx context.Context, uid string) ([]*entity.NoteWithId, error) {
	notes := make([]*entity.NoteWithId, 0)
	prefix := ownerPrefix(uid)

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			id := string(it.Item().Key()[len(prefix):])

			item, err := txn.Get(noteKey(id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			var note entity.NoteWithId
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &note)
			}); err != nil {
				return err
			}
			if note.Uid == uid {
				notes = append(notes, &note)
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperror.NewStorageError("list", err)
	}

	return notes, nil
}

func (r *NoteRepository) Create(ctx context.Context, note *entity.NoteWithId) error {
	data, err := json.Marshal(note)
	if err != nil {
		return apperror.NewStorageError("create", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(noteKey(note.Id), data); err != nil {
			return err
		}
		return txn.Set(ownerKey(note.Uid, note.Id), nil)
	})
	if err != nil {
		return apperror.NewStorageError("create", err)
	}
	return nil
}

func (r *NoteRepository) Update(ctx context.Context, note *entity.NoteWithId) error {
	data, err := json.Marshal(note)
	if err != nil {
		return apperror.NewStorageError("update", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(noteKey(note.Id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return contract.ErrNoteNotFound
			}
			return err
		}
		if err := txn.Set(noteKey(note.Id), data); err != nil {
			return err
		}
		return txn.Set(ownerKey(note.Uid, note.Id), nil)
	})
	if err != nil {
		return apperror.NewStorageError("update", err)
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(noteKey(id)); err != nil {
			return err
		}
		return txn.Delete(ownerKey(entity.OwnerOf(id), id))
	})
	if err != nil {
		return apperror.NewStorageError("delete", err)
	}
	return nil
}

func (r *NoteRepository) Close() error {
	return r.db.Close()
}
