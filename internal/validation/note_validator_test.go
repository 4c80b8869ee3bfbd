package validation

import (
	"math"
	"strings"
	"testing"

	"listening-notes-be/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issuesOf(t *testing.T, err error) []apperror.Issue {
	t.Helper()
	vErr, ok := apperror.AsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	require.NotEmpty(t, vErr.Issues)
	return vErr.Issues
}

func hasIssueAt(issues []apperror.Issue, path string) bool {
	for _, issue := range issues {
		if issue.PathString() == path {
			return true
		}
	}
	return false
}

func TestParseNote_Valid(t *testing.T) {
	body := `{"title":"Call","description":"","date":1000,"important":false,"level":1}`

	payload, err := ParseNote([]byte(body))

	require.NoError(t, err)
	assert.Equal(t, "Call", payload.Title)
	assert.Equal(t, int64(1000), payload.Date)
	assert.Equal(t, 1, payload.Level)
	assert.Nil(t, payload.SubNotes)
}

func TestParseNote_WithSubNotesAndExtraTopLevelKeys(t *testing.T) {
	body := `{
		"title":"Parent","description":"d","date":5,"important":true,"level":3,
		"color":"red",
		"subNotes":[
			{"id":"a","title":"One","description":"","date":6,"important":false,"level":2},
			{"id":"b","title":"Two","description":"x","date":7,"important":true,"level":1}
		]
	}`

	payload, err := ParseNote([]byte(body))

	require.NoError(t, err)
	require.Len(t, payload.SubNotes, 2)
	assert.Equal(t, "a", payload.SubNotes[0].Id)
	assert.Equal(t, "b", payload.SubNotes[1].Id)
}

func TestParseNote_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantPath string
	}{
		{
			name:     "empty title",
			body:     `{"title":"","description":"","date":1,"important":false,"level":1}`,
			wantPath: "title",
		},
		{
			name:     "title too long",
			body:     `{"title":"` + strings.Repeat("a", 26) + `","description":"","date":1,"important":false,"level":1}`,
			wantPath: "title",
		},
		{
			name:     "description too long",
			body:     `{"title":"t","description":"` + strings.Repeat("d", 101) + `","date":1,"important":false,"level":1}`,
			wantPath: "description",
		},
		{
			name:     "level zero",
			body:     `{"title":"t","description":"","date":1,"important":false,"level":0}`,
			wantPath: "level",
		},
		{
			name:     "level four",
			body:     `{"title":"t","description":"","date":1,"important":false,"level":4}`,
			wantPath: "level",
		},
		{
			name:     "level float",
			body:     `{"title":"t","description":"","date":1,"important":false,"level":1.5}`,
			wantPath: "level",
		},
		{
			name:     "missing important",
			body:     `{"title":"t","description":"","date":1,"level":1}`,
			wantPath: "important",
		},
		{
			name:     "date as string",
			body:     `{"title":"t","description":"","date":"yesterday","important":false,"level":1}`,
			wantPath: "date",
		},
		{
			name:     "subNotes not an array",
			body:     `{"title":"t","description":"","date":1,"important":false,"level":1,"subNotes":{}}`,
			wantPath: "subNotes",
		},
		{
			name:     "sub-note with extra key",
			body:     `{"title":"t","description":"","date":1,"important":false,"level":1,"subNotes":[{"id":"a","title":"s","description":"","date":1,"important":false,"level":1,"color":"red"}]}`,
			wantPath: "subNotes.0",
		},
		{
			name:     "sub-note missing id",
			body:     `{"title":"t","description":"","date":1,"important":false,"level":1,"subNotes":[{"title":"s","description":"","date":1,"important":false,"level":1}]}`,
			wantPath: "subNotes.0.id",
		},
		{
			name:     "sub-note title too long",
			body:     `{"title":"t","description":"","date":1,"important":false,"level":1,"subNotes":[{"id":"a","title":"` + strings.Repeat("s", 26) + `","description":"","date":1,"important":false,"level":1}]}`,
			wantPath: "subNotes.0.title",
		},
		{
			name:     "duplicate sub-note ids",
			body:     `{"title":"t","description":"","date":1,"important":false,"level":1,"subNotes":[{"id":"a","title":"s","description":"","date":1,"important":false,"level":1},{"id":"a","title":"s","description":"","date":1,"important":false,"level":1}]}`,
			wantPath: "subNotes.1.id",
		},
		{
			name:     "array body",
			body:     `[]`,
			wantPath: "",
		},
		{
			name:     "malformed json",
			body:     `{"title":`,
			wantPath: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := ParseNote([]byte(tt.body))

			assert.Nil(t, payload)
			issues := issuesOf(t, err)
			assert.True(t, hasIssueAt(issues, tt.wantPath), "no issue at %q in %+v", tt.wantPath, issues)
		})
	}
}

func TestParseNote_ReportsEveryMissingField(t *testing.T) {
	_, err := ParseNote([]byte(`{}`))

	issues := issuesOf(t, err)
	for _, name := range []string{"title", "description", "date", "important", "level"} {
		assert.True(t, hasIssueAt(issues, name), "missing issue for %s", name)
	}
	assert.False(t, hasIssueAt(issues, "subNotes"))
}

func TestParseNoteWithId(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		body := `{"id":"u1_1","uid":"u1","title":"t","description":"","date":1,"important":false,"level":2}`

		payload, err := ParseNoteWithId([]byte(body))

		require.NoError(t, err)
		assert.Equal(t, "u1_1", payload.Id)
		assert.Equal(t, "u1", payload.Uid)
		assert.Equal(t, 2, payload.Level)
	})

	t.Run("missing id and uid", func(t *testing.T) {
		body := `{"title":"t","description":"","date":1,"important":false,"level":2}`

		_, err := ParseNoteWithId([]byte(body))

		issues := issuesOf(t, err)
		assert.True(t, hasIssueAt(issues, "id"))
		assert.True(t, hasIssueAt(issues, "uid"))
	})

	t.Run("uid wrong type", func(t *testing.T) {
		body := `{"id":"u1_1","uid":7,"title":"t","description":"","date":1,"important":false,"level":2}`

		_, err := ParseNoteWithId([]byte(body))

		issues := issuesOf(t, err)
		assert.True(t, hasIssueAt(issues, "uid"))
	})

	t.Run("constraint errors keep json paths", func(t *testing.T) {
		body := `{"id":"u1_1","uid":"u1","title":"","description":"","date":1,"important":false,"level":9}`

		_, err := ParseNoteWithId([]byte(body))

		issues := issuesOf(t, err)
		assert.True(t, hasIssueAt(issues, "title"))
		assert.True(t, hasIssueAt(issues, "level"))
	})
}

func TestParseNoteID(t *testing.T) {
	id, err := ParseNoteID("u1_999")
	require.NoError(t, err)
	assert.Equal(t, "u1_999", id)

	_, err = ParseNoteID("")
	issues := issuesOf(t, err)
	assert.True(t, hasIssueAt(issues, "id"))
}

func TestNamespacePath(t *testing.T) {
	assert.Equal(t, []any{"title"}, namespacePath("NotePayload.title"))
	assert.Equal(t, []any{"subNotes", 3, "level"}, namespacePath("NotePayload.subNotes[3].level"))
}

func TestParseNote_WholeNumbersInAnyNotation(t *testing.T) {
	body := `{"title":"t","description":"","date":1e3,"important":false,"level":2.0,
		"subNotes":[{"id":"a","title":"s","description":"","date":1.5e3,"important":false,"level":3E0}]}`

	payload, err := ParseNote([]byte(body))

	require.NoError(t, err)
	assert.Equal(t, int64(1000), payload.Date)
	assert.Equal(t, 2, payload.Level)
	require.Len(t, payload.SubNotes, 1)
	assert.Equal(t, int64(1500), payload.SubNotes[0].Date)
	assert.Equal(t, 3, payload.SubNotes[0].Level)
}

func TestParseNote_IntegerIssues(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		message string
	}{
		{"fraction", "1000.5", "Expected integer, received float"},
		{"fraction in exponent form", "1.0005e3", "Expected integer, received float"},
		{"above int64", "9223372036854775808", "Number must be less than or equal to 9223372036854775807"},
		{"far above int64", "1e30", "Number must be less than or equal to 9223372036854775807"},
		{"below int64", "-1e19", "Number must be greater than or equal to -9223372036854775808"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"title":"t","description":"","date":` + tt.date + `,"important":false,"level":1}`

			_, err := ParseNote([]byte(body))

			issues := issuesOf(t, err)
			require.Len(t, issues, 1)
			assert.Equal(t, "date", issues[0].PathString())
			assert.Equal(t, tt.message, issues[0].Message)
		})
	}
}

func TestIntegerValue(t *testing.T) {
	for raw, want := range map[string]int64{
		"0": 0, "-0": 0, "42": 42, "1e3": 1000, "1000.0": 1000, "-2.5e1": -25,
		"9223372036854775807": math.MaxInt64,
	} {
		got, msg := integerValue(raw)
		assert.Empty(t, msg, raw)
		assert.Equal(t, want, got, raw)
	}
}
