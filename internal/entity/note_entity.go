package entity

import (
	"strconv"
	"strings"
	"time"
)

type Level int

const (
	LevelInternal Level = 1
	LevelFocused  Level = 2
	LevelGlobal   Level = 3
)

func (l Level) Valid() bool {
	return l >= LevelInternal && l <= LevelGlobal
}

func (l Level) String() string {
	switch l {
	case LevelInternal:
		return "Internal"
	case LevelFocused:
		return "Focused"
	case LevelGlobal:
		return "Global"
	default:
		return "Unknown"
	}
}

// SubNote lives only inside its parent's SubNotes slice.
type SubNote struct {
	Id          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        int64  `json:"date"`
	Important   bool   `json:"important"`
	Level       Level  `json:"level"`
}

// Note is a top-level note. A nil SubNotes is left out of the JSON while an
// empty one is kept as [].
type Note struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        int64     `json:"date"`
	Important   bool      `json:"important"`
	Level       Level     `json:"level"`
	SubNotes    []SubNote `json:"subNotes,omitzero"`
}

// NoteWithId is the persisted document. Id is always "{Uid}_{creationMillis}".
type NoteWithId struct {
	Note
	Id  string `json:"id"`
	Uid string `json:"uid"`
}

const idSeparator = "_"

// NewNoteID builds the storage id for a note created by uid at now.
func NewNoteID(uid string, now time.Time) string {
	return uid + idSeparator + strconv.FormatInt(now.UnixMilli(), 10)
}

// OwnerOf returns the owner prefix of a note id: everything before the first "_".
func OwnerOf(id string) string {
	owner, _, _ := strings.Cut(id, idSeparator)
	return owner
}

func (n *NoteWithId) OwnedBy(uid string) bool {
	return uid != "" && n.Uid == uid && OwnerOf(n.Id) == uid
}
