package mapper

import (
	"listening-notes-be/internal/entity"
	"listening-notes-be/internal/model"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.NoteWithId {
	if n == nil {
		return nil
	}

	var subNotes []entity.SubNote
	if n.SubNotes != nil {
		subNotes = make([]entity.SubNote, len(n.SubNotes))
		for i, s := range n.SubNotes {
			subNotes[i] = entity.SubNote{
				Id:          s.Id,
				Title:       s.Title,
				Description: s.Description,
				Date:        s.Date,
				Important:   s.Important,
				Level:       entity.Level(s.Level),
			}
		}
	}

	return &entity.NoteWithId{
		Note: entity.Note{
			Title:       n.Title,
			Description: n.Description,
			Date:        n.Date,
			Important:   n.Important,
			Level:       entity.Level(n.Level),
			SubNotes:    subNotes,
		},
		Id:  n.Id,
		Uid: n.Uid,
	}
}

func (m *NoteMapper) ToModel(n *entity.NoteWithId) *model.Note {
	if n == nil {
		return nil
	}

	var subNotes []model.SubNote
	if n.SubNotes != nil {
		subNotes = make([]model.SubNote, len(n.SubNotes))
		for i, s := range n.SubNotes {
			subNotes[i] = model.SubNote{
				Id:          s.Id,
				Title:       s.Title,
				Description: s.Description,
				Date:        s.Date,
				Important:   s.Important,
				Level:       int(s.Level),
			}
		}
	}

	return &model.Note{
		Id:          n.Id,
		Uid:         n.Uid,
		Title:       n.Title,
		Description: n.Description,
		Date:        n.Date,
		Important:   n.Important,
		Level:       int(n.Level),
		SubNotes:    subNotes,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.NoteWithId {
	entities := make([]*entity.NoteWithId, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
