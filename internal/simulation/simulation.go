// simulation/simulation.go
package simulation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mockprep/backend/internal/domain/interview"
	"github.com/mockprep/backend/internal/llm"
	"github.com/mockprep/backend/internal/service"
)

// Script is a scripted candidate: a skill and the answers given in order.
type Script struct {
	User    string   `yaml:"user"`
	Skill   string   `yaml:"skill"`
	Answers []string `yaml:"answers"`
}

// ErrOutOfAnswers is returned when the interview asks more questions than
// the script has answers for.
var ErrOutOfAnswers = errors.New("simulation: script ran out of answers")

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}
	if sc.User == "" {
		sc.User = "simulated@example.com"
	}
	return &sc, nil
}

// DefaultScript mirrors a typical Python screening round.
func DefaultScript() *Script {
	return &Script{
		User:  "simulated@example.com",
		Skill: "Python",
		Answers: []string{
			"A list is an ordered, mutable sequence that can hold mixed types.",
			"The GIL lets only one thread run Python bytecode at a time.",
			"A decorator wraps a function to extend its behaviour without changing it.",
			"Generators yield values lazily instead of building the whole list.",
			"I don't know.",
		},
	}
}

// Run plays the script against the service and prints every step to out.
func Run(ctx context.Context, svc *service.InterviewService, sc *Script, out io.Writer) (*service.Step, error) {
	step, err := svc.Start(ctx, sc.User, sc.Skill)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Session started: %s (%s, %d questions)\n", step.SessionID, step.Skill, step.Total)

	for _, answer := range sc.Answers {
		fmt.Fprintf(out, "\nQ%d: %s\nA: %s\n", step.Index+1, step.Question, answer)

		step, err = svc.SubmitAnswer(ctx, sc.User, answer)
		if err != nil && !interview.IsKind(err, interview.KindPersistence) {
			return nil, err
		}
		if step.Done {
			printResult(out, step)
			return step, err
		}
	}
	return step, ErrOutOfAnswers
}

func printResult(out io.Writer, step *service.Step) {
	r := step.Result
	for i, e := range r.Evaluations {
		fmt.Fprintf(out, "\n=== Question %d ===\n", i+1)
		fmt.Fprintf(out, "Score: %d/%d\n", e.Score, interview.MaxScore)
		fmt.Fprintf(out, "Feedback: %s\n", e.Feedback)
	}
	fmt.Fprintf(out, "\nTotal: %d/%d (saved: %t)\n", r.TotalScore, r.MaxTotal(), step.Saved)
}

// CannedQuestions answers every prompt with a numbered list of questions
// about nothing in particular. It stands in for a model when running offline.
func CannedQuestions(n int) llm.Client {
	return llm.ClientFunc(func(ctx context.Context, prompt string) (string, error) {
		var b strings.Builder
		for i := 1; i <= n; i++ {
			fmt.Fprintf(&b, "%d. Sample question number %d?\n", i, i)
		}
		return b.String(), nil
	})
}

// CannedScores scores the answer in the prompt by its length: two points per
// word after the last "Answer:" marker, capped at 10.
func CannedScores() llm.Client {
	return llm.ClientFunc(func(ctx context.Context, prompt string) (string, error) {
		answer := prompt
		if i := strings.LastIndex(prompt, "Answer:"); i >= 0 {
			answer = prompt[i+len("Answer:"):]
			if j := strings.IndexByte(answer, '\n'); j >= 0 {
				answer = answer[:j]
			}
		}
		score := min(len(strings.Fields(answer))*2, interview.MaxScore)
		return fmt.Sprintf("Score: %d/10 - Reason: canned evaluation.", score), nil
	})
}
