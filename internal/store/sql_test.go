package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockprep/backend/internal/domain/interview"
	"github.com/mockprep/backend/internal/store"
)

func newTestStore(t *testing.T) *store.SQLStore {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func completedResult(t *testing.T, email, skill string, scores ...int) *interview.Result {
	t.Helper()
	sess := interview.New(email)
	questions := make([]string, len(scores))
	for i := range scores {
		questions[i] = skill + " question " + string(rune('A'+i))
	}
	require.NoError(t, sess.Begin(skill, questions))

	evals := make([]interview.Evaluation, len(scores))
	for i, sc := range scores {
		require.NoError(t, sess.SubmitAnswer("answer "+string(rune('A'+i))))
		evals[i] = interview.Evaluation{Score: sc, Feedback: "Score: " + string(rune('0'+sc)) + "/10"}
	}

	r, err := interview.NewResult(sess, evals)
	require.NoError(t, err)
	return r
}

func TestSaveResult_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	r := completedResult(t, "user@example.com", "Python", 6, 4, 8)

	require.NoError(t, s.SaveResult(ctx, r))

	got, err := s.GetResult(ctx, r.ID)
	require.NoError(t, err)

	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, r.SessionID, got.SessionID)
	assert.Equal(t, r.Email, got.Email)
	assert.Equal(t, r.Skill, got.Skill)
	assert.Equal(t, r.Questions, got.Questions)
	assert.Equal(t, r.Answers, got.Answers)
	assert.Equal(t, r.Evaluations, got.Evaluations)
	assert.Equal(t, 18, got.TotalScore)
	assert.True(t, r.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", r.CreatedAt, got.CreatedAt)
}

func TestSaveResult_WriteOnce(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	r := completedResult(t, "user@example.com", "Go", 5)

	require.NoError(t, s.SaveResult(ctx, r))
	assert.Error(t, s.SaveResult(ctx, r), "saving the same result twice should fail")
}

func TestGetResult_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetResult(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListResultsByEmail(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	older := completedResult(t, "a@example.com", "Go", 3, 4)
	older.CreatedAt = time.Now().Add(-time.Hour).UTC()
	newer := completedResult(t, "a@example.com", "Rust", 9)
	other := completedResult(t, "b@example.com", "Go", 1)

	for _, r := range []*interview.Result{older, newer, other} {
		require.NoError(t, s.SaveResult(ctx, r))
	}

	got, err := s.ListResultsByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, "Rust", got[0].Skill)
	assert.Equal(t, 1, got[0].Questions)
	assert.Equal(t, older.ID, got[1].ID)
	assert.Equal(t, 7, got[1].TotalScore)
	assert.Equal(t, 2, got[1].Questions)

	none, err := s.ListResultsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	exists, err := s.ExistsByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.SaveUser(ctx, "user@example.com", "Ada"))

	exists, err = s.ExistsByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	// A second login for the same email is not an error.
	require.NoError(t, s.SaveUser(ctx, "user@example.com", "Ada Lovelace"))
}
