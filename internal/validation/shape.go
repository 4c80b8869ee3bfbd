package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"listening-notes-be/internal/pkg/apperror"
)

type jsonKind string

const (
	kindString  jsonKind = "string"
	kindInteger jsonKind = "integer"
	kindNumber  jsonKind = "number"
	kindBoolean jsonKind = "boolean"
	kindArray   jsonKind = "array"
	kindObject  jsonKind = "object"
	kindNull    jsonKind = "null"
)

type field struct {
	name     string
	kind     jsonKind
	optional bool
	elem     *shape // element shape when kind is kindArray
}

// shape describes the JSON layout of an object. A closed shape rejects keys
// it does not declare; an open one ignores them.
type shape struct {
	closed bool
	fields []field
}

func (s shape) extend(fields ...field) shape {
	out := shape{closed: s.closed, fields: make([]field, 0, len(s.fields)+len(fields))}
	out.fields = append(out.fields, s.fields...)
	out.fields = append(out.fields, fields...)
	return out
}

func (s shape) check(raw json.RawMessage, path []any) []apperror.Issue {
	if got := kindOf(raw); got != kindObject {
		return []apperror.Issue{typeIssue(path, kindObject, got)}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return []apperror.Issue{{Path: copyPath(path), Message: "Invalid JSON object"}}
	}

	var issues []apperror.Issue
	declared := make(map[string]struct{}, len(s.fields))
	for _, f := range s.fields {
		declared[f.name] = struct{}{}
		fieldPath := appendPath(path, f.name)

		value, present := obj[f.name]
		if !present {
			if !f.optional {
				issues = append(issues, apperror.Issue{Path: fieldPath, Message: "Required"})
			}
			continue
		}
		issues = append(issues, f.check(value, fieldPath)...)
	}

	if s.closed {
		var unknown []string
		for key := range obj {
			if _, ok := declared[key]; !ok {
				unknown = append(unknown, "'"+key+"'")
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			issues = append(issues, apperror.Issue{
				Path:    copyPath(path),
				Message: "Unrecognized key(s) in object: " + strings.Join(unknown, ", "),
			})
		}
	}

	return issues
}

func (f field) check(raw json.RawMessage, path []any) []apperror.Issue {
	got := kindOf(raw)

	switch f.kind {
	case kindInteger:
		if got != kindNumber {
			return []apperror.Issue{typeIssue(path, kindInteger, got)}
		}
		if _, msg := integerValue(string(bytes.TrimSpace(raw))); msg != "" {
			return []apperror.Issue{{Path: path, Message: msg}}
		}
		return nil
	case kindArray:
		if got != kindArray {
			return []apperror.Issue{typeIssue(path, kindArray, got)}
		}
		if f.elem == nil {
			return nil
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return []apperror.Issue{{Path: path, Message: "Invalid JSON array"}}
		}
		var issues []apperror.Issue
		for i, item := range items {
			issues = append(issues, f.elem.check(item, appendPath(path, i))...)
		}
		return issues
	default:
		if got != f.kind {
			return []apperror.Issue{typeIssue(path, f.kind, got)}
		}
		return nil
	}
}

// normalize rewrites whole numbers written as 1e3 or 1000.0 into plain
// integer literals so they decode into int fields. It reports whether obj changed.
func (s shape) normalize(obj map[string]any) bool {
	changed := false
	for _, f := range s.fields {
		v, ok := obj[f.name]
		if !ok {
			continue
		}
		switch f.kind {
		case kindInteger:
			n, ok := v.(json.Number)
			if !ok {
				continue
			}
			i, msg := integerValue(string(n))
			if msg != "" {
				continue
			}
			if plain := strconv.FormatInt(i, 10); plain != string(n) {
				obj[f.name] = json.Number(plain)
				changed = true
			}
		case kindArray:
			if f.elem == nil {
				continue
			}
			items, _ := v.([]any)
			for _, item := range items {
				if m, ok := item.(map[string]any); ok && f.elem.normalize(m) {
					changed = true
				}
			}
		}
	}
	return changed
}

// integerValue parses a JSON number holding a whole value that fits in int64.
// On failure it returns the issue message instead.
func integerValue(raw string) (int64, string) {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i, ""
	}

	f, _, err := big.ParseFloat(raw, 10, 256, big.ToNearestEven)
	if err != nil || !f.IsInt() {
		return 0, "Expected integer, received float"
	}
	i, acc := f.Int64()
	switch acc {
	case big.Below:
		return 0, fmt.Sprintf("Number must be less than or equal to %d", int64(math.MaxInt64))
	case big.Above:
		return 0, fmt.Sprintf("Number must be greater than or equal to %d", int64(math.MinInt64))
	}
	return i, ""
}

func kindOf(raw json.RawMessage) jsonKind {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return kindNull
	}
	switch trimmed[0] {
	case '"':
		return kindString
	case '{':
		return kindObject
	case '[':
		return kindArray
	case 't', 'f':
		return kindBoolean
	case 'n':
		return kindNull
	default:
		return kindNumber
	}
}

func typeIssue(path []any, want, got jsonKind) apperror.Issue {
	return apperror.Issue{
		Path:    copyPath(path),
		Message: fmt.Sprintf("Expected %s, received %s", want, got),
	}
}

func appendPath(path []any, elem any) []any {
	out := make([]any, len(path), len(path)+1)
	copy(out, path)
	return append(out, elem)
}

func copyPath(path []any) []any {
	out := make([]any, len(path))
	copy(out, path)
	return out
}
