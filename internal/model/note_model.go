package model

import (
	"gorm.io/datatypes"
)

type SubNote struct {
	Id          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        int64  `json:"date"`
	Important   bool   `json:"important"`
	Level       int    `json:"level"`
}

// Note is stored as one row per document; sub-notes stay embedded as JSONB.
type Note struct {
	Id          string                       `gorm:"type:varchar(255);primaryKey"`
	Uid         string                       `gorm:"type:varchar(255);not null;index"`
	Title       string                       `gorm:"type:varchar(25);not null"`
	Description string                       `gorm:"type:varchar(100);not null;default:''"`
	Date        int64                        `gorm:"not null"`
	Important   bool                         `gorm:"not null;default:false"`
	Level       int                          `gorm:"type:smallint;not null"`
	SubNotes    datatypes.JSONSlice[SubNote] `gorm:"type:jsonb"`
}

func (Note) TableName() string {
	return "notes"
}
