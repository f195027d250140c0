package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockprep/backend/internal/api"
	"github.com/mockprep/backend/internal/auth"
	"github.com/mockprep/backend/internal/domain/interview"
	"github.com/mockprep/backend/internal/service"
	"github.com/mockprep/backend/internal/store"
	"github.com/mockprep/backend/internal/worker"
)

const secret = "test-secret"

type stubGenerator struct {
	err error
}

func (g stubGenerator) Generate(ctx context.Context, skill string) ([]string, error) {
	if g.err != nil {
		return nil, g.err
	}
	return []string{"What is a list?", "Explain the GIL", "What is a decorator?"}, nil
}

type stubEvaluator struct {
	err error
}

func (e stubEvaluator) Evaluate(ctx context.Context, question, answer string) (interview.Evaluation, error) {
	if e.err != nil {
		return interview.Evaluation{}, e.err
	}
	scores := map[string]int{"ordered sequence": 6, "interpreter lock": 4, "wraps a function": 8}
	return interview.Evaluation{Score: scores[answer], Feedback: "ok"}, nil
}

// brokenStore fails every result write.
type brokenStore struct {
	*store.SQLStore
}

func (brokenStore) SaveResult(ctx context.Context, r *interview.Result) error {
	return errors.New("disk full")
}

type testServer struct {
	handler http.Handler
	tokens  *auth.Tokens
}

func newTestServer(t *testing.T, gen stubGenerator, eval stubEvaluator, broken bool) *testServer {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var results store.ResultStore = db
	if broken {
		results = brokenStore{db}
	}

	pool := worker.NewPool(2, 4)
	t.Cleanup(pool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewInterviewService(store.NewSessionStore(10, time.Hour), results, gen, eval, pool, logger)

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, api.NewHandler(svc, db, logger))

	tokens := auth.NewTokens(secret)
	return &testServer{handler: tokens.WithAuth(mux), tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, email string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if email != "" {
		tok, err := s.tokens.Sign(auth.Identity{Email: email, Name: "Test User"}, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func answer(text string) api.AnswerRequest {
	return api.AnswerRequest{Answer: &text}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestInterviewFlow(t *testing.T) {
	srv := newTestServer(t, stubGenerator{}, stubEvaluator{}, false)
	const email = "ada@example.com"

	rec := srv.do(t, http.MethodPost, "/interview/start", email, api.StartRequest{Skill: "  Python "})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	q := decode[api.QuestionResponse](t, rec)
	assert.Equal(t, "Python", q.Skill)
	assert.Equal(t, "What is a list?", q.Question)
	assert.Equal(t, 1, q.Index)
	assert.Equal(t, 3, q.Total)

	rec = srv.do(t, http.MethodPost, "/interview/answer", email, answer("ordered sequence"))
	require.Equal(t, http.StatusOK, rec.Code)
	q = decode[api.QuestionResponse](t, rec)
	assert.False(t, q.Done)
	assert.Equal(t, "Explain the GIL", q.Question)
	assert.Equal(t, 2, q.Index)

	rec = srv.do(t, http.MethodGet, "/interview/current", email, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[api.QuestionResponse](t, rec).Index)

	srv.do(t, http.MethodPost, "/interview/answer", email, answer("interpreter lock"))
	rec = srv.do(t, http.MethodPost, "/interview/answer", email, answer("wraps a function"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	done := decode[api.CompletedResponse](t, rec)
	assert.True(t, done.Done)
	assert.True(t, done.Saved)
	require.NotNil(t, done.Result)
	assert.Equal(t, 18, done.Result.TotalScore)
	assert.Equal(t, 30, done.Result.MaxScore)
	require.Len(t, done.Result.Evaluations, 3)
	assert.Equal(t, "Explain the GIL", done.Result.Evaluations[1].Question)
	assert.Equal(t, "interpreter lock", done.Result.Evaluations[1].Answer)

	rec = srv.do(t, http.MethodPost, "/interview/answer", email, answer("one more"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "invalid_state", decode[api.ErrorBody](t, rec).Error.Kind)

	rec = srv.do(t, http.MethodGet, "/interview/results", email, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]api.ResultSummaryResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, done.Result.ID, list[0].ID)
	assert.Equal(t, 18, list[0].TotalScore)

	rec = srv.do(t, http.MethodGet, "/interview/results/"+done.Result.ID, email, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 18, decode[api.ResultResponse](t, rec).TotalScore)

	rec = srv.do(t, http.MethodGet, "/interview/results/"+done.Result.ID, "someone@example.com", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		gen    stubGenerator
		method string
		path   string
		email  string
		body   any
		status int
		kind   string
	}{
		{"no token", stubGenerator{}, http.MethodPost, "/interview/start", "", api.StartRequest{Skill: "Go"}, http.StatusUnauthorized, "unauthenticated"},
		{"blank skill", stubGenerator{}, http.MethodPost, "/interview/start", "a@example.com", api.StartRequest{Skill: " "}, http.StatusBadRequest, "invalid_input"},
		{"unknown field", stubGenerator{}, http.MethodPost, "/interview/start", "a@example.com", map[string]string{"topic": "Go"}, http.StatusBadRequest, "invalid_input"},
		{"generator down", stubGenerator{err: interview.GenerationFailed("model unreachable", errors.New("dial"))}, http.MethodPost, "/interview/start", "a@example.com", api.StartRequest{Skill: "Go"}, http.StatusBadGateway, "generation"},
		{"answer without session", stubGenerator{}, http.MethodPost, "/interview/answer", "a@example.com", answer("x"), http.StatusNotFound, "session_not_found"},
		{"missing answer field", stubGenerator{}, http.MethodPost, "/interview/answer", "a@example.com", map[string]string{}, http.StatusBadRequest, "invalid_input"},
		{"empty answer without session", stubGenerator{}, http.MethodPost, "/interview/answer", "a@example.com", answer(""), http.StatusNotFound, "session_not_found"},
		{"current without session", stubGenerator{}, http.MethodGet, "/interview/current", "a@example.com", nil, http.StatusNotFound, "session_not_found"},
		{"unknown result", stubGenerator{}, http.MethodGet, "/interview/results/nope", "a@example.com", nil, http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.gen, stubEvaluator{}, false)
			rec := srv.do(t, tt.method, tt.path, tt.email, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.kind, decode[api.ErrorBody](t, rec).Error.Kind)
		})
	}
}

func TestEvaluationFailureAllowsRetry(t *testing.T) {
	srv := newTestServer(t, stubGenerator{}, stubEvaluator{err: interview.EvaluationFailed("evaluation timed out", context.DeadlineExceeded)}, false)
	const email = "b@example.com"

	srv.do(t, http.MethodPost, "/interview/start", email, api.StartRequest{Skill: "Python"})
	srv.do(t, http.MethodPost, "/interview/answer", email, answer("a"))
	srv.do(t, http.MethodPost, "/interview/answer", email, answer("b"))
	rec := srv.do(t, http.MethodPost, "/interview/answer", email, answer("c"))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "evaluation", decode[api.ErrorBody](t, rec).Error.Kind)

	rec = srv.do(t, http.MethodGet, "/interview/current", email, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	q := decode[api.QuestionResponse](t, rec)
	assert.Equal(t, "What is a decorator?", q.Question)
	assert.Equal(t, 3, q.Index)
}

func TestPersistenceFailureReturnsResult(t *testing.T) {
	srv := newTestServer(t, stubGenerator{}, stubEvaluator{}, true)
	const email = "c@example.com"

	srv.do(t, http.MethodPost, "/interview/start", email, api.StartRequest{Skill: "Python"})
	srv.do(t, http.MethodPost, "/interview/answer", email, answer("ordered sequence"))
	srv.do(t, http.MethodPost, "/interview/answer", email, answer("interpreter lock"))
	rec := srv.do(t, http.MethodPost, "/interview/answer", email, answer("wraps a function"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[api.UnsavedResponse](t, rec)
	assert.False(t, body.Saved)
	assert.Equal(t, "persistence", body.Error.Kind)
	require.NotNil(t, body.Result)
	assert.Equal(t, 18, body.Result.TotalScore)

	rec = srv.do(t, http.MethodGet, "/interview/current", email, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	current := decode[api.CompletedResponse](t, rec)
	assert.True(t, current.Done)
	assert.False(t, current.Saved)
}

func TestGetUser(t *testing.T) {
	srv := newTestServer(t, stubGenerator{}, stubEvaluator{}, false)

	rec := srv.do(t, http.MethodGet, "/user", "new@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[api.UserResponse](t, rec)
	assert.Equal(t, "new@example.com", first.Email)
	assert.Equal(t, "Test User", first.Name)
	assert.True(t, first.New)

	rec = srv.do(t, http.MethodGet, "/user", "new@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[api.UserResponse](t, rec).New)
}

func TestCORS_Preflight(t *testing.T) {
	h := api.CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight should not reach the handler")
	}))
	req := httptest.NewRequest(http.MethodOptions, "/interview/start", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
