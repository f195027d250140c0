package interview

import (
	"time"

	"github.com/mockprep/backend/internal/id"
)

const (
	MinScore = 0
	MaxScore = 10
)

// Evaluation is the scored judgment of a single answer.
type Evaluation struct {
	Score    int
	Feedback string
}

// Result is the write-once record of a completed, scored session.
type Result struct {
	ID          string
	SessionID   string
	Email       string
	Skill       string
	Questions   []string
	Answers     []string
	Evaluations []Evaluation
	TotalScore  int
	CreatedAt   time.Time
}

// NewResult builds the result of a completed session.
// evaluations must line up one-to-one with the session's questions.
func NewResult(s *Session, evaluations []Evaluation) (*Result, error) {
	if s.State != StateComplete {
		return nil, InvalidState("interview is not complete")
	}
	if len(evaluations) != len(s.Questions) {
		return nil, InvalidInput("evaluation count does not match question count")
	}

	return &Result{
		ID:          id.GenerateID(),
		SessionID:   s.ID,
		Email:       s.UserID,
		Skill:       s.Skill,
		Questions:   append([]string(nil), s.Questions...),
		Answers:     append([]string(nil), s.Answers...),
		Evaluations: append([]Evaluation(nil), evaluations...),
		TotalScore:  TotalScore(evaluations),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// TotalScore sums the evaluation scores.
func TotalScore(evaluations []Evaluation) int {
	total := 0
	for _, e := range evaluations {
		total += e.Score
	}
	return total
}

// MaxTotal is the best achievable aggregate for the result.
func (r *Result) MaxTotal() int {
	return len(r.Questions) * MaxScore
}
