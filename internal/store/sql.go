// internal/store/sql.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/mockprep/backend/internal/domain/interview"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    email TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS interview_results (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    email TEXT NOT NULL,
    skill TEXT NOT NULL,
    questions TEXT NOT NULL,
    answers TEXT NOT NULL,
    evaluations TEXT NOT NULL,
    total_score INTEGER NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_interview_results_email ON interview_results (email, created_at);
`

// SQLStore is a ResultStore over database/sql. It runs on SQLite (modernc)
// or PostgreSQL (pgx); queries are written with "?" placeholders and
// rebound for Postgres.
type SQLStore struct {
	db       *sql.DB
	postgres bool
}

var _ ResultStore = (*SQLStore)(nil)

// Open picks the driver from the DSN: postgres:// and postgresql:// URLs use
// pgx, anything else is treated as a SQLite path.
func Open(dsn string) (*SQLStore, error) {
	dsn = strings.TrimSpace(dsn)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return openDB("pgx", dsn, true)
	}
	return NewSQLite(dsn)
}

func NewSQLite(dbPath string) (*SQLStore, error) {
	return openDB("sqlite", dbPath, false)
}

func openDB(driver, dsn string, postgres bool) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if !postgres {
		// A single connection avoids SQLITE_BUSY between concurrent writers.
		db.SetMaxOpenConns(1)
	}

	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	return &SQLStore{db: db, postgres: postgres}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// ============================================================================
// Users
// ============================================================================

func (s *SQLStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.rebind("SELECT COUNT(*) FROM users WHERE email = ?"), email).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SaveUser records the user. Saving an existing email is a no-op.
func (s *SQLStore) SaveUser(ctx context.Context, email, name string) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind("INSERT INTO users (email, name, created_at) VALUES (?, ?, ?) ON CONFLICT (email) DO NOTHING"),
		email, name, formatTime(time.Now()),
	)
	return err
}

// ============================================================================
// Results
// ============================================================================

type storedEvaluation struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

func (s *SQLStore) SaveResult(ctx context.Context, r *interview.Result) error {
	questionsJSON, err := json.Marshal(r.Questions)
	if err != nil {
		return err
	}
	answersJSON, err := json.Marshal(r.Answers)
	if err != nil {
		return err
	}
	evals := make([]storedEvaluation, len(r.Evaluations))
	for i, e := range r.Evaluations {
		evals[i] = storedEvaluation{Score: e.Score, Feedback: e.Feedback}
	}
	evaluationsJSON, err := json.Marshal(evals)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO interview_results
			(id, session_id, email, skill, questions, answers, evaluations, total_score, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		r.ID, r.SessionID, r.Email, r.Skill,
		string(questionsJSON), string(answersJSON), string(evaluationsJSON),
		r.TotalScore, formatTime(r.CreatedAt),
	)
	return err
}

func (s *SQLStore) GetResult(ctx context.Context, id string) (*interview.Result, error) {
	var r interview.Result
	var questionsJSON, answersJSON, evaluationsJSON, createdAt string

	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT id, session_id, email, skill, questions, answers, evaluations, total_score, created_at
			FROM interview_results WHERE id = ?`),
		id,
	).Scan(&r.ID, &r.SessionID, &r.Email, &r.Skill, &questionsJSON, &answersJSON, &evaluationsJSON, &r.TotalScore, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(questionsJSON), &r.Questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	if err := json.Unmarshal([]byte(answersJSON), &r.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	var evals []storedEvaluation
	if err := json.Unmarshal([]byte(evaluationsJSON), &evals); err != nil {
		return nil, fmt.Errorf("decode evaluations: %w", err)
	}
	r.Evaluations = make([]interview.Evaluation, len(evals))
	for i, e := range evals {
		r.Evaluations[i] = interview.Evaluation{Score: e.Score, Feedback: e.Feedback}
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	return &r, nil
}

func (s *SQLStore) ListResultsByEmail(ctx context.Context, email string) ([]ResultSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT id, skill, questions, total_score, created_at
			FROM interview_results WHERE email = ? ORDER BY created_at DESC`),
		email,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []ResultSummary
	for rows.Next() {
		var sum ResultSummary
		var questionsJSON, createdAt string
		if err := rows.Scan(&sum.ID, &sum.Skill, &questionsJSON, &sum.TotalScore, &createdAt); err != nil {
			return nil, err
		}
		var questions []string
		if err := json.Unmarshal([]byte(questionsJSON), &questions); err != nil {
			return nil, fmt.Errorf("decode questions: %w", err)
		}
		sum.Questions = len(questions)
		if sum.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// Timestamps are stored as fixed-width RFC 3339 text so they sort correctly
// as strings on both backends.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode timestamp %q: %w", s, err)
	}
	return t, nil
}
