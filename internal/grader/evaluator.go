package grader

import (
	"context"
	"errors"
	"text/template"
	"time"

	"github.com/mockprep/backend/internal/domain/interview"
	"github.com/mockprep/backend/internal/llm"
)

// LLMAnswerEvaluator asks a text-generation model to score an answer out of
// 10 and parses the score from its reply.
type LLMAnswerEvaluator struct {
	client  llm.Client
	timeout time.Duration
	prompt  *template.Template
}

var _ AnswerEvaluator = (*LLMAnswerEvaluator)(nil)

// EvaluatorOptions tunes an LLMAnswerEvaluator. Zero values select defaults.
type EvaluatorOptions struct {
	Timeout time.Duration
	Prompt  string
}

func NewAnswerEvaluator(client llm.Client, opts EvaluatorOptions) (*LLMAnswerEvaluator, error) {
	if opts.Prompt == "" {
		opts.Prompt = DefaultEvaluationPrompt
	}
	tmpl, err := parseTemplate("evaluation", opts.Prompt)
	if err != nil {
		return nil, err
	}
	return &LLMAnswerEvaluator{
		client:  client,
		timeout: opts.Timeout,
		prompt:  tmpl,
	}, nil
}

// Evaluate scores the answer. A reply without a readable score is not an
// error: it yields score 0 with the reply kept as feedback.
func (e *LLMAnswerEvaluator) Evaluate(ctx context.Context, question, answer string) (interview.Evaluation, error) {
	prompt, err := render(e.prompt, evaluationPromptData{Question: question, Answer: answer})
	if err != nil {
		return interview.Evaluation{}, interview.EvaluationFailed("build prompt", err)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	text, err := e.client.Generate(ctx, prompt)
	switch {
	case errors.Is(err, llm.ErrEmptyResponse):
		return interview.Evaluation{Score: 0}, nil
	case errors.Is(err, context.DeadlineExceeded):
		return interview.Evaluation{}, interview.EvaluationFailed("evaluation timed out", err)
	case err != nil:
		return interview.Evaluation{}, interview.EvaluationFailed("evaluation failed", err)
	}

	return ParseEvaluation(text), nil
}
