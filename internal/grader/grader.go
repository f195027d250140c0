package grader

import (
	"context"

	"github.com/mockprep/backend/internal/domain/interview"
)

// QuestionGenerator produces interview questions for a skill.
type QuestionGenerator interface {
	// Generate returns a non-empty ordered list of questions.
	Generate(ctx context.Context, skill string) ([]string, error)
}

// AnswerEvaluator scores one answer to one question.
// Implementations may call an LLM, use heuristics, or return canned results (for tests).
type AnswerEvaluator interface {
	Evaluate(ctx context.Context, question, answer string) (interview.Evaluation, error)
}
