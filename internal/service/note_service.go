// FILE: internal/service/note_service.go
package service

import (
	"context"
	"time"

	"listening-notes-be/internal/dto"
	"listening-notes-be/internal/entity"
	"listening-notes-be/internal/pkg/apperror"
	"listening-notes-be/internal/pkg/logger"
	"listening-notes-be/internal/repository/contract"
	"listening-notes-be/pkg/events"
)

type INoteService interface {
	List(ctx context.Context, uid string) ([]*entity.NoteWithId, error)
	Create(ctx context.Context, uid string, req *dto.NotePayload) (*entity.NoteWithId, error)
	Update(ctx context.Context, uid string, req *dto.NoteWithIdPayload) (*entity.NoteWithId, error)
	Delete(ctx context.Context, uid string, id string) (*dto.DeleteNoteResponse, error)
}

type noteService struct {
	noteRepository contract.NoteRepository
	eventPublisher events.Publisher
	logger         logger.ILogger
	now            func() time.Time
}

// NewNoteService wires the note use cases. eventPublisher may be nil.
func NewNoteService(
	noteRepository contract.NoteRepository,
	eventPublisher events.Publisher,
	log logger.ILogger,
) INoteService {
	return &noteService{
		noteRepository: noteRepository,
		eventPublisher: eventPublisher,
		logger:         log,
		now:            time.Now,
	}
}

func (s *noteService) List(ctx context.Context, uid string) ([]*entity.NoteWithId, error) {
	notes, err := s.noteRepository.FindAllByOwner(ctx, uid)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []*entity.NoteWithId{}
	}
	return notes, nil
}

func (s *noteService) Create(ctx context.Context, uid string, req *dto.NotePayload) (*entity.NoteWithId, error) {
	note := entity.NoteWithId{
		Note: req.ToEntity(),
		Id:   entity.NewNoteID(uid, s.now()),
		Uid:  uid,
	}

	if err := s.noteRepository.Create(ctx, &note); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NoteCreated, &note)

	return &note, nil
}

// Update overwrites a note the caller owns. Both the uid field and the id
// prefix must name the caller.
func (s *noteService) Update(ctx context.Context, uid string, req *dto.NoteWithIdPayload) (*entity.NoteWithId, error) {
	note := req.ToEntity()

	if note.Uid != uid || entity.OwnerOf(note.Id) != uid {
		return nil, apperror.NewAuthError("note not owned by caller", nil)
	}

	if err := s.noteRepository.Update(ctx, &note); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NoteUpdated, &note)

	return &note, nil
}

func (s *noteService) Delete(ctx context.Context, uid string, id string) (*dto.DeleteNoteResponse, error) {
	if entity.OwnerOf(id) != uid {
		return nil, apperror.NewAuthError("note not owned by caller", nil)
	}

	if err := s.noteRepository.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NoteDeleted, &entity.NoteWithId{Id: id, Uid: uid})

	return &dto.DeleteNoteResponse{Id: id}, nil
}

// publish is best effort; a failed event never fails the request.
func (s *noteService) publish(ctx context.Context, eventType string, note *entity.NoteWithId) {
	if s.eventPublisher == nil {
		return
	}

	data := map[string]interface{}{
		"note_id": note.Id,
		"uid":     note.Uid,
	}
	if note.Title != "" {
		data["title"] = note.Title
		data["sub_notes"] = len(note.SubNotes)
	}

	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: s.now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil && s.logger != nil {
		s.logger.Warn("NOTE_SERVICE", "failed to publish note event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
