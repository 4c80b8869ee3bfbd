package specification

import (
	"gorm.io/gorm"
)

type NoteOwnedBy struct {
	UID string
}

func (s NoteOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notes.uid = ?", s.UID)
}
