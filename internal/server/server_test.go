package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"listening-notes-be/internal/bootstrap"
	"listening-notes-be/internal/config"
	"listening-notes-be/internal/entity"
	"listening-notes-be/internal/pkg/apperror"
	"listening-notes-be/internal/pkg/logger"
	"listening-notes-be/internal/pkg/serverutils"
	"listening-notes-be/internal/repository/contract"
	"listening-notes-be/internal/repository/memory"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type spyRepository struct {
	contract.NoteRepository
	writes  int
	failAll error
}

func (r *spyRepository) FindAllByOwner(ctx context.Context, uid string) ([]*entity.NoteWithId, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	return r.NoteRepository.FindAllByOwner(ctx, uid)
}

func (r *spyRepository) Create(ctx context.Context, note *entity.NoteWithId) error {
	r.writes++
	if r.failAll != nil {
		return r.failAll
	}
	return r.NoteRepository.Create(ctx, note)
}

func (r *spyRepository) Update(ctx context.Context, note *entity.NoteWithId) error {
	r.writes++
	if r.failAll != nil {
		return r.failAll
	}
	return r.NoteRepository.Update(ctx, note)
}

func (r *spyRepository) Delete(ctx context.Context, id string) error {
	r.writes++
	if r.failAll != nil {
		return r.failAll
	}
	return r.NoteRepository.Delete(ctx, id)
}

func setupApp(t *testing.T) (*fiber.App, *spyRepository) {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{
			Port:               "0",
			ActivityLogPath:    filepath.Join(t.TempDir(), "activity.log"),
			CorsAllowedOrigins: "*",
		},
		Auth:   config.AuthConfig{JwtSecret: testSecret},
		Events: config.EventsConfig{Topic: "NOTE_EVENTS"},
	}

	repo := &spyRepository{NoteRepository: memory.NewNoteRepository()}
	container := bootstrap.NewContainerWithRepository(cfg, repo, logger.NewNopLogger())
	t.Cleanup(func() { _ = container.Close() })

	return New(cfg, container).GetApp(), repo
}

func tokenFor(t *testing.T, uid string) string {
	t.Helper()
	token, err := serverutils.IssueToken(testSecret, uid, time.Hour)
	require.NoError(t, err)
	return token
}

type response struct {
	status int
	body   []byte
}

func (r response) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, v), string(r.body))
}

func (r response) errorMessage(t *testing.T) string {
	var body serverutils.ErrorBody
	r.decode(t, &body)
	return body.Error
}

func do(t *testing.T, app *fiber.App, method, token, body string, headers map[string]string) response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/api/note", reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, body: raw}
}

const callNote = `{"title":"Call","description":"","date":1000,"important":false,"level":1}`

func TestCreate_AssignsOwnerScopedId(t *testing.T) {
	app, repo := setupApp(t)

	res := do(t, app, http.MethodPut, tokenFor(t, "u1"), callNote, nil)

	require.Equal(t, http.StatusOK, res.status, string(res.body))
	var note entity.NoteWithId
	res.decode(t, &note)
	assert.Regexp(t, `^u1_\d+$`, note.Id)
	assert.Equal(t, "u1", note.Uid)
	assert.Equal(t, "Call", note.Title)
	assert.Equal(t, "", note.Description)
	assert.Equal(t, int64(1000), note.Date)
	assert.False(t, note.Important)
	assert.Equal(t, entity.LevelInternal, note.Level)
	assert.Equal(t, 1, repo.writes)
}

func TestCreate_ThenListRoundTrip(t *testing.T) {
	app, _ := setupApp(t)
	token := tokenFor(t, "u1")
	body := `{"title":"Parent","description":"with subs","date":42,"important":true,"level":2,
		"subNotes":[{"id":"a","title":"Child","description":"","date":43,"important":false,"level":3}]}`

	created := do(t, app, http.MethodPut, token, body, nil)
	require.Equal(t, http.StatusOK, created.status, string(created.body))
	var createdNote entity.NoteWithId
	created.decode(t, &createdNote)

	listed := do(t, app, http.MethodGet, token, "", nil)
	require.Equal(t, http.StatusOK, listed.status)
	var notes []entity.NoteWithId
	listed.decode(t, &notes)

	require.Len(t, notes, 1)
	assert.Equal(t, createdNote, notes[0])
	require.Len(t, notes[0].SubNotes, 1)
	assert.Equal(t, "Child", notes[0].SubNotes[0].Title)

	// other users see nothing
	other := do(t, app, http.MethodGet, tokenFor(t, "u2"), "", nil)
	require.Equal(t, http.StatusOK, other.status)
	assert.JSONEq(t, `[]`, string(other.body))
}

func TestCreate_ValidationErrors(t *testing.T) {
	app, repo := setupApp(t)
	token := tokenFor(t, "u1")

	bodies := map[string]string{
		"empty title":     `{"title":"","description":"","date":1000,"important":false,"level":1}`,
		"long title":      `{"title":"` + strings.Repeat("x", 26) + `","description":"","date":1000,"important":false,"level":1}`,
		"long desc":       `{"title":"t","description":"` + strings.Repeat("x", 101) + `","date":1000,"important":false,"level":1}`,
		"level out":       `{"title":"t","description":"","date":1000,"important":false,"level":4}`,
		"not json":        `title=Call`,
		"strict sub-note": `{"title":"t","description":"","date":1,"important":false,"level":1,"subNotes":[{"id":"a","title":"s","description":"","date":1,"important":false,"level":1,"extra":true}]}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			res := do(t, app, http.MethodPut, token, body, nil)

			require.Equal(t, http.StatusBadRequest, res.status)
			var errBody serverutils.ErrorBody
			res.decode(t, &errBody)
			assert.Equal(t, serverutils.MessageInvalidRequest, errBody.Error)
			assert.NotEmpty(t, errBody.Issues)
		})
	}
	assert.Zero(t, repo.writes)
}

func TestCreate_EmptyTitleReferencesTitle(t *testing.T) {
	app, _ := setupApp(t)

	res := do(t, app, http.MethodPut, tokenFor(t, "u1"),
		`{"title":"","description":"","date":1000,"important":false,"level":1}`, nil)

	require.Equal(t, http.StatusBadRequest, res.status)
	var errBody serverutils.ErrorBody
	res.decode(t, &errBody)
	require.Len(t, errBody.Issues, 1)
	assert.Equal(t, []any{"title"}, errBody.Issues[0].Path)
}

func TestEveryEndpointRequiresToken(t *testing.T) {
	app, repo := setupApp(t)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, serverutils.UserClaims{
		Uid:              "u1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	foreign, err := serverutils.IssueToken("other-secret", "u1", time.Hour)
	require.NoError(t, err)

	noUid, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tokens := map[string]string{
		"missing":      "",
		"garbage":      "not-a-jwt",
		"expired":      expired,
		"wrong secret": foreign,
		"no uid claim": noUid,
	}
	requests := []struct {
		method string
		body   string
		header map[string]string
	}{
		{http.MethodGet, "", nil},
		{http.MethodPut, callNote, nil},
		{http.MethodPatch, `{"id":"u1_1","uid":"u1","title":"t","description":"","date":1,"important":false,"level":1}`, nil},
		{http.MethodDelete, "", map[string]string{"id": "u1_1"}},
	}

	for name, token := range tokens {
		for _, r := range requests {
			t.Run(name+" "+r.method, func(t *testing.T) {
				res := do(t, app, r.method, token, r.body, r.header)

				assert.Equal(t, http.StatusUnauthorized, res.status)
				assert.Equal(t, serverutils.MessageUnauthorized, res.errorMessage(t))
			})
		}
	}
	assert.Zero(t, repo.writes)
}

func TestAuthorizationHeaderWithoutBearerScheme(t *testing.T) {
	app, _ := setupApp(t)
	req := httptest.NewRequest(http.MethodGet, "/api/note", nil)
	req.Header.Set("Authorization", "Basic "+tokenFor(t, "u1"))

	resp, err := app.Test(req, -1)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpdate(t *testing.T) {
	app, repo := setupApp(t)
	token := tokenFor(t, "u1")

	created := do(t, app, http.MethodPut, token, callNote, nil)
	require.Equal(t, http.StatusOK, created.status)
	var note entity.NoteWithId
	created.decode(t, &note)

	t.Run("owner update echoes payload", func(t *testing.T) {
		note.Title = "Call back"
		note.Important = true
		note.SubNotes = []entity.SubNote{{Id: "x", Title: "detail", Date: 5, Level: entity.LevelFocused}}
		body, err := json.Marshal(note)
		require.NoError(t, err)

		res := do(t, app, http.MethodPatch, token, string(body), nil)

		require.Equal(t, http.StatusOK, res.status, string(res.body))
		var echoed entity.NoteWithId
		res.decode(t, &echoed)
		assert.Equal(t, note, echoed)

		listed := do(t, app, http.MethodGet, token, "", nil)
		var notes []entity.NoteWithId
		listed.decode(t, &notes)
		require.Len(t, notes, 1)
		assert.Equal(t, note, notes[0])
	})

	t.Run("id owned by someone else", func(t *testing.T) {
		writes := repo.writes
		body := `{"id":"u2_123","uid":"u1","title":"t","description":"","date":1,"important":false,"level":1}`

		res := do(t, app, http.MethodPatch, token, body, nil)

		assert.Equal(t, http.StatusUnauthorized, res.status)
		assert.Equal(t, serverutils.MessageUnauthorized, res.errorMessage(t))
		assert.Equal(t, writes, repo.writes)
	})

	t.Run("uid of someone else", func(t *testing.T) {
		writes := repo.writes
		body := `{"id":"u1_123","uid":"u2","title":"t","description":"","date":1,"important":false,"level":1}`

		res := do(t, app, http.MethodPatch, token, body, nil)

		assert.Equal(t, http.StatusUnauthorized, res.status)
		assert.Equal(t, writes, repo.writes)
	})

	t.Run("validation before authorization", func(t *testing.T) {
		writes := repo.writes
		body := `{"id":"u2_123","uid":"u2","title":"","description":"","date":1,"important":false,"level":1}`

		res := do(t, app, http.MethodPatch, token, body, nil)

		assert.Equal(t, http.StatusBadRequest, res.status)
		assert.Equal(t, serverutils.MessageInvalidRequest, res.errorMessage(t))
		assert.Equal(t, writes, repo.writes)
	})

	t.Run("missing note is a generic error", func(t *testing.T) {
		body := `{"id":"u1_404","uid":"u1","title":"t","description":"","date":1,"important":false,"level":1}`

		res := do(t, app, http.MethodPatch, token, body, nil)

		assert.Equal(t, http.StatusBadRequest, res.status)
		assert.Equal(t, serverutils.MessageSomethingWentWrong, res.errorMessage(t))
	})
}

func TestDelete(t *testing.T) {
	app, repo := setupApp(t)
	token := tokenFor(t, "u1")

	t.Run("owner deletes, twice", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			res := do(t, app, http.MethodDelete, token, "", map[string]string{"id": "u1_999"})

			require.Equal(t, http.StatusOK, res.status)
			assert.JSONEq(t, `{"id":"u1_999"}`, string(res.body))
		}
	})

	t.Run("removes the note", func(t *testing.T) {
		created := do(t, app, http.MethodPut, token, callNote, nil)
		var note entity.NoteWithId
		created.decode(t, &note)

		res := do(t, app, http.MethodDelete, token, "", map[string]string{"id": note.Id})
		require.Equal(t, http.StatusOK, res.status)

		listed := do(t, app, http.MethodGet, token, "", nil)
		assert.JSONEq(t, `[]`, string(listed.body))
	})

	t.Run("missing id header", func(t *testing.T) {
		writes := repo.writes

		res := do(t, app, http.MethodDelete, token, "", nil)

		require.Equal(t, http.StatusBadRequest, res.status)
		var errBody serverutils.ErrorBody
		res.decode(t, &errBody)
		require.NotEmpty(t, errBody.Issues)
		assert.Equal(t, []any{"id"}, errBody.Issues[0].Path)
		assert.Equal(t, writes, repo.writes)
	})

	t.Run("foreign id", func(t *testing.T) {
		writes := repo.writes

		res := do(t, app, http.MethodDelete, token, "", map[string]string{"id": "u2_999"})

		assert.Equal(t, http.StatusUnauthorized, res.status)
		assert.Equal(t, writes, repo.writes)
	})
}

func TestStorageFailuresAreGeneric400(t *testing.T) {
	app, repo := setupApp(t)
	repo.failAll = apperror.NewStorageError("driver", errors.New("connection reset by peer"))
	token := tokenFor(t, "u1")

	cases := []struct {
		method string
		body   string
		header map[string]string
	}{
		{http.MethodGet, "", nil},
		{http.MethodPut, callNote, nil},
		{http.MethodPatch, `{"id":"u1_1","uid":"u1","title":"t","description":"","date":1,"important":false,"level":1}`, nil},
		{http.MethodDelete, "", map[string]string{"id": "u1_1"}},
	}

	for _, c := range cases {
		t.Run(c.method, func(t *testing.T) {
			res := do(t, app, c.method, token, c.body, c.header)

			assert.Equal(t, http.StatusBadRequest, res.status)
			assert.Equal(t, serverutils.MessageSomethingWentWrong, res.errorMessage(t))
			assert.NotContains(t, string(res.body), "connection reset")
		})
	}
}

func TestUnexpectedErrorIsNotUnauthorized(t *testing.T) {
	app, repo := setupApp(t)
	repo.failAll = errors.New("boom")

	res := do(t, app, http.MethodGet, tokenFor(t, "u1"), "", nil)

	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, serverutils.MessageSomethingWentWrong, res.errorMessage(t))
}

func TestUnknownRoute(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/nothing", nil), -1)

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEmptySubNotesSurviveRoundTrip(t *testing.T) {
	app, _ := setupApp(t)
	token := tokenFor(t, "u1")
	body := `{"title":"Call","description":"","date":1000,"important":false,"level":1,"subNotes":[]}`

	created := do(t, app, http.MethodPut, token, body, nil)
	require.Equal(t, http.StatusOK, created.status, string(created.body))
	var fields map[string]json.RawMessage
	created.decode(t, &fields)
	require.Contains(t, fields, "subNotes")
	assert.JSONEq(t, `[]`, string(fields["subNotes"]))

	var note entity.NoteWithId
	created.decode(t, &note)
	expected := `{"title":"Call","description":"","date":1000,"important":false,"level":1,"subNotes":[],"id":"` +
		note.Id + `","uid":"u1"}`
	assert.JSONEq(t, expected, string(created.body))

	listed := do(t, app, http.MethodGet, token, "", nil)
	require.Equal(t, http.StatusOK, listed.status)
	assert.JSONEq(t, `[`+expected+`]`, string(listed.body))

	patched := do(t, app, http.MethodPatch, token, expected, nil)
	require.Equal(t, http.StatusOK, patched.status, string(patched.body))
	assert.JSONEq(t, expected, string(patched.body))

	listed = do(t, app, http.MethodGet, token, "", nil)
	assert.JSONEq(t, `[`+expected+`]`, string(listed.body))
}

func TestAbsentSubNotesStayAbsent(t *testing.T) {
	app, _ := setupApp(t)
	token := tokenFor(t, "u1")

	created := do(t, app, http.MethodPut, token, callNote, nil)
	require.Equal(t, http.StatusOK, created.status)
	var fields map[string]json.RawMessage
	created.decode(t, &fields)
	assert.NotContains(t, fields, "subNotes")

	listed := do(t, app, http.MethodGet, token, "", nil)
	var notes []map[string]json.RawMessage
	listed.decode(t, &notes)
	require.Len(t, notes, 1)
	assert.NotContains(t, notes[0], "subNotes")
}

func TestCreate_AcceptsWholeNumbersInExponentForm(t *testing.T) {
	app, _ := setupApp(t)

	res := do(t, app, http.MethodPut, tokenFor(t, "u1"),
		`{"title":"Call","description":"","date":1e3,"important":false,"level":1.0}`, nil)

	require.Equal(t, http.StatusOK, res.status, string(res.body))
	var note entity.NoteWithId
	res.decode(t, &note)
	assert.Equal(t, int64(1000), note.Date)
	assert.Equal(t, entity.LevelInternal, note.Level)
}
