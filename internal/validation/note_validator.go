// Package validation checks note payloads before they reach the service layer.
//
// A payload is checked in two passes. The shape pass walks the raw JSON and
// reports missing fields, type mismatches and unknown sub-note keys. The
// constraint pass decodes into the dto types and runs validator struct tags
// (lengths, level range). Every problem found is returned as an Issue inside
// an apperror.ValidationError.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"listening-notes-be/internal/dto"
	"listening-notes-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var subNoteShape = shape{
	closed: true,
	fields: []field{
		{name: "title", kind: kindString},
		{name: "description", kind: kindString},
		{name: "date", kind: kindInteger},
		{name: "important", kind: kindBoolean},
		{name: "level", kind: kindInteger},
		{name: "id", kind: kindString},
	},
}

var noteShape = shape{
	closed: false,
	fields: []field{
		{name: "title", kind: kindString},
		{name: "description", kind: kindString},
		{name: "date", kind: kindInteger},
		{name: "important", kind: kindBoolean},
		{name: "level", kind: kindInteger},
		{name: "subNotes", kind: kindArray, optional: true, elem: &subNoteShape},
	},
}

var noteWithIdShape = noteShape.extend(
	field{name: "id", kind: kindString},
	field{name: "uid", kind: kindString},
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseNote validates a create payload.
func ParseNote(body []byte) (*dto.NotePayload, error) {
	body, err := checkShape(noteShape, body)
	if err != nil {
		return nil, err
	}

	var payload dto.NotePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperror.NewValidationError(apperror.Issue{Path: []any{}, Message: "Invalid JSON"})
	}
	if err := checkConstraints(&payload); err != nil {
		return nil, err
	}

	return &payload, nil
}

// ParseNoteWithId validates an update payload: a full persisted note including id and uid.
func ParseNoteWithId(body []byte) (*dto.NoteWithIdPayload, error) {
	body, err := checkShape(noteWithIdShape, body)
	if err != nil {
		return nil, err
	}

	var payload dto.NoteWithIdPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperror.NewValidationError(apperror.Issue{Path: []any{}, Message: "Invalid JSON"})
	}
	if err := checkConstraints(&payload.NotePayload); err != nil {
		return nil, err
	}

	return &payload, nil
}

// ParseNoteID validates the id carried by a delete request.
func ParseNoteID(id string) (string, error) {
	if id == "" {
		return "", apperror.NewValidationError(apperror.Issue{
			Path:    []any{"id"},
			Message: "Required",
		})
	}
	return id, nil
}

// checkShape validates body against s and returns it with whole numbers in
// integer fields rewritten as plain integer literals.
func checkShape(s shape, body []byte) ([]byte, error) {
	if !json.Valid(body) {
		return nil, apperror.NewValidationError(apperror.Issue{Path: []any{}, Message: "Invalid JSON"})
	}
	if issues := s.check(body, nil); len(issues) > 0 {
		return nil, apperror.NewValidationError(issues...)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, apperror.NewValidationError(apperror.Issue{Path: []any{}, Message: "Invalid JSON"})
	}
	if !s.normalize(obj) {
		return body, nil
	}
	normalized, err := json.Marshal(obj)
	if err != nil {
		return nil, apperror.NewValidationError(apperror.Issue{Path: []any{}, Message: "Invalid JSON"})
	}
	return normalized, nil
}

func checkConstraints(payload *dto.NotePayload) error {
	var issues []apperror.Issue

	if err := validate.Struct(payload); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return apperror.NewValidationError(apperror.Issue{Path: []any{}, Message: err.Error()})
		}
		for _, fe := range fieldErrs {
			issues = append(issues, apperror.Issue{
				Path:    namespacePath(fe.Namespace()),
				Message: messageFor(fe),
			})
		}
	}

	seen := make(map[string]int, len(payload.SubNotes))
	for i, sub := range payload.SubNotes {
		if first, dup := seen[sub.Id]; dup {
			issues = append(issues, apperror.Issue{
				Path:    []any{"subNotes", i, "id"},
				Message: fmt.Sprintf("Duplicate sub-note id, already used at index %d", first),
			})
			continue
		}
		seen[sub.Id] = i
	}

	if len(issues) > 0 {
		return apperror.NewValidationError(issues...)
	}
	return nil
}

// namespacePath turns "NotePayload.subNotes[1].title" into ["subNotes", 1, "title"].
func namespacePath(namespace string) []any {
	segments := strings.Split(namespace, ".")
	if len(segments) > 0 {
		segments = segments[1:]
	}

	path := make([]any, 0, len(segments))
	for _, seg := range segments {
		name, rest, hasIndex := strings.Cut(seg, "[")
		path = append(path, name)
		if hasIndex {
			if idx, err := strconv.Atoi(strings.TrimSuffix(rest, "]")); err == nil {
				path = append(path, idx)
			}
		}
	}
	return path
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("String must contain at least %s character(s)", fe.Param())
	case "max":
		return fmt.Sprintf("String must contain at most %s character(s)", fe.Param())
	case "oneof":
		return "Level must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return fmt.Sprintf("Failed on %s", fe.Tag())
	}
}
