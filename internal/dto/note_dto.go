package dto

import "listening-notes-be/internal/entity"

type SubNotePayload struct {
	Id          string `json:"id"`
	Title       string `json:"title" validate:"min=1,max=25"`
	Description string `json:"description" validate:"max=100"`
	Date        int64  `json:"date"`
	Important   bool   `json:"important"`
	Level       int    `json:"level" validate:"oneof=1 2 3"`
}

// NotePayload is the body of a create request.
type NotePayload struct {
	Title       string           `json:"title" validate:"min=1,max=25"`
	Description string           `json:"description" validate:"max=100"`
	Date        int64            `json:"date"`
	Important   bool             `json:"important"`
	Level       int              `json:"level" validate:"oneof=1 2 3"`
	SubNotes    []SubNotePayload `json:"subNotes,omitzero" validate:"omitempty,dive"`
}

// NoteWithIdPayload is the body of an update request.
type NoteWithIdPayload struct {
	NotePayload
	Id  string `json:"id"`
	Uid string `json:"uid"`
}

type DeleteNoteResponse struct {
	Id string `json:"id"`
}

func (p *NotePayload) ToEntity() entity.Note {
	note := entity.Note{
		Title:       p.Title,
		Description: p.Description,
		Date:        p.Date,
		Important:   p.Important,
		Level:       entity.Level(p.Level),
	}
	if p.SubNotes != nil {
		note.SubNotes = make([]entity.SubNote, len(p.SubNotes))
		for i, s := range p.SubNotes {
			note.SubNotes[i] = entity.SubNote{
				Id:          s.Id,
				Title:       s.Title,
				Description: s.Description,
				Date:        s.Date,
				Important:   s.Important,
				Level:       entity.Level(s.Level),
			}
		}
	}
	return note
}

func (p *NoteWithIdPayload) ToEntity() entity.NoteWithId {
	return entity.NoteWithId{
		Note: p.NotePayload.ToEntity(),
		Id:   p.Id,
		Uid:  p.Uid,
	}
}
