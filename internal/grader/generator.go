package grader

import (
	"context"
	"errors"
	"fmt"
	"text/template"
	"time"

	"github.com/mockprep/backend/internal/domain/interview"
	"github.com/mockprep/backend/internal/llm"
)

const DefaultQuestionCount = 5

// LLMQuestionGenerator asks a text-generation model for questions and parses
// one question per line.
type LLMQuestionGenerator struct {
	client  llm.Client
	count   int
	timeout time.Duration
	prompt  *template.Template
}

var _ QuestionGenerator = (*LLMQuestionGenerator)(nil)

// GeneratorOptions tunes an LLMQuestionGenerator. Zero values select defaults.
type GeneratorOptions struct {
	Count   int
	Timeout time.Duration
	Prompt  string
}

func NewQuestionGenerator(client llm.Client, opts GeneratorOptions) (*LLMQuestionGenerator, error) {
	if opts.Count <= 0 {
		opts.Count = DefaultQuestionCount
	}
	if opts.Prompt == "" {
		opts.Prompt = DefaultQuestionPrompt
	}
	tmpl, err := parseTemplate("question", opts.Prompt)
	if err != nil {
		return nil, err
	}
	return &LLMQuestionGenerator{
		client:  client,
		count:   opts.Count,
		timeout: opts.Timeout,
		prompt:  tmpl,
	}, nil
}

func (g *LLMQuestionGenerator) Generate(ctx context.Context, skill string) ([]string, error) {
	skill, err := interview.NormalizeSkill(skill)
	if err != nil {
		return nil, err
	}

	prompt, err := render(g.prompt, questionPromptData{Skill: skill, Count: g.count})
	if err != nil {
		return nil, interview.GenerationFailed("build prompt", err)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	text, err := g.client.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, interview.GenerationFailed("question generation timed out", err)
		}
		return nil, interview.GenerationFailed("question generation failed", err)
	}

	questions := ParseQuestions(text)
	if len(questions) == 0 {
		return nil, interview.GenerationFailed(fmt.Sprintf("no questions found in model output for %q", skill), nil)
	}
	return questions, nil
}
