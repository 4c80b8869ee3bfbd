// Package redisstore keeps note documents in Redis: one JSON value per note
// plus a set of note ids per owner.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"listening-notes-be/internal/entity"
	"listening-notes-be/internal/pkg/apperror"
	"listening-notes-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

type NoteRepository struct {
	client *redis.Client
	prefix string
}

var _ contract.NoteRepository = (*NoteRepository)(nil)

// NewNoteRepositoryFromURL connects to redisURL and checks the connection.
func NewNoteRepositoryFromURL(redisURL, prefix string) (*NoteRepository, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewNoteRepository(client, prefix), nil
}

func NewNoteRepository(client *redis.Client, prefix string) *NoteRepository {
	return &NoteRepository{
		client: client,
		prefix: prefix,
	}
}

func (r *NoteRepository) noteKey(id string) string {
	return r.prefix + "note:" + id
}

func (r *NoteRepository) ownerKey(uid string) string {
	return r.prefix + "owner:" + uid
}

func (r *NoteRepository) FindAllByOwner(ctx context.Context, uid string) ([]*entity.NoteWithId, error) {
	ids, err := r.client.SMembers(ctx, r.ownerKey(uid)).Result()
	if err != nil {
		return nil, apperror.NewStorageError("list", err)
	}

	notes := make([]*entity.NoteWithId, 0, len(ids))
	if len(ids) == 0 {
		return notes, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.noteKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, apperror.NewStorageError("list", err)
	}

	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// index entry whose document is gone
			continue
		}
		var note entity.NoteWithId
		if err := json.Unmarshal([]byte(raw), &note); err != nil {
			return nil, apperror.NewStorageError("list", fmt.Errorf("decode note: %w", err))
		}
		if note.Uid == uid {
			notes = append(notes, &note)
		}
	}

	return notes, nil
}

func (r *NoteRepository) Create(ctx context.Context, note *entity.NoteWithId) error {
	data, err := json.Marshal(note)
	if err != nil {
		return apperror.NewStorageError("create", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.noteKey(note.Id), data, 0)
		pipe.SAdd(ctx, r.ownerKey(note.Uid), note.Id)
		return nil
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

	// SET ... XX writes only when the document already exists.
	ok, err := r.client.SetXX(ctx, r.noteKey(note.Id), data, 0).Result()
	if err != nil {
		return apperror.NewStorageError("update", err)
	}
	if !ok {
		return apperror.NewStorageError("update", contract.ErrNoteNotFound)
	}

	if err := r.client.SAdd(ctx, r.ownerKey(note.Uid), note.Id).Err(); err != nil {
		return apperror.NewStorageError("update", err)
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.noteKey(id))
		pipe.SRem(ctx, r.ownerKey(entity.OwnerOf(id)), id)
		return nil
	})
	if err != nil {
		return apperror.NewStorageError("delete", err)
	}
	return nil
}

func (r *NoteRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *NoteRepository) Close() error {
	return r.client.Close()
}
