package store

import (
	"context"
	"errors"
	"time"

	"github.com/mockprep/backend/internal/domain/interview"
)

var (
	ErrNotFound = errors.New("not found")
)

// ResultStore persists completed interview results and the users that own
// them.
type ResultStore interface {
	SaveResult(ctx context.Context, r *interview.Result) error
	GetResult(ctx context.Context, id string) (*interview.Result, error)
	ListResultsByEmail(ctx context.Context, email string) ([]ResultSummary, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SaveUser(ctx context.Context, email, name string) error
}

// ResultSummary is a result without its transcript, for listings.
type ResultSummary struct {
	ID         string
	Skill      string
	Questions  int
	TotalScore int
	CreatedAt  time.Time
}
