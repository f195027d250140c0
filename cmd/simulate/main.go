// Command simulate plays a scripted interview through the service and
// prints each question, answer and score. By default it runs offline with
// canned questions and scores; -live uses the configured model.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mockprep/backend/internal/grader"
	"github.com/mockprep/backend/internal/infrastructure/config"
	"github.com/mockprep/backend/internal/llm"
	"github.com/mockprep/backend/internal/service"
	"github.com/mockprep/backend/internal/simulation"
	"github.com/mockprep/backend/internal/store"
	"github.com/mockprep/backend/internal/worker"
)

func main() {
	scriptPath := flag.String("script", "", "YAML script with skill and answers (default: built-in Python round)")
	dbPath := flag.String("db", "", "database to store the result in (default: temporary file)")
	live := flag.Bool("live", false, "use the configured model instead of canned replies")
	verbose := flag.Bool("v", false, "log service events to stderr")
	flag.Parse()

	logOut := io.Discard
	if *verbose {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logOut, nil))
	ctx := context.Background()

	sc := simulation.DefaultScript()
	if *scriptPath != "" {
		var err error
		if sc, err = simulation.LoadScript(*scriptPath); err != nil {
			fail(err)
		}
	}

	if *dbPath == "" {
		dir, err := os.MkdirTemp("", "mockprep-sim")
		if err != nil {
			fail(err)
		}
		defer os.RemoveAll(dir)
		*dbPath = filepath.Join(dir, "sim.db")
	}
	db, err := store.Open(*dbPath)
	if err != nil {
		fail(err)
	}
	defer db.Close()

	questionClient, scoreClient := simulation.CannedQuestions(len(sc.Answers)), simulation.CannedScores()
	iv := config.DefaultInterview()
	iv.QuestionCount = len(sc.Answers)
	timeout := 60 * time.Second
	if *live {
		cfg, err := config.Load()
		if err != nil {
			fail(err)
		}
		client, err := llm.NewClient(ctx, cfg.LLMProvider, cfg.LLMURL, cfg.LLMModel, cfg.LLMAPIKey)
		if err != nil {
			fail(err)
		}
		questionClient, scoreClient = client, client
		iv.QuestionPrompt, iv.EvaluationPrompt = cfg.Interview.QuestionPrompt, cfg.Interview.EvaluationPrompt
		timeout = cfg.LLMTimeout
	}

	generator, err := grader.NewQuestionGenerator(questionClient, grader.GeneratorOptions{
		Count:   iv.QuestionCount,
		Timeout: timeout,
		Prompt:  iv.QuestionPrompt,
	})
	if err != nil {
		fail(err)
	}
	evaluator, err := grader.NewAnswerEvaluator(scoreClient, grader.EvaluatorOptions{
		Timeout: timeout,
		Prompt:  iv.EvaluationPrompt,
	})
	if err != nil {
		fail(err)
	}

	pool := worker.NewPool(3, 10)
	defer pool.Close()

	svc := service.NewInterviewService(store.NewSessionStore(1, time.Hour), db, generator, evaluator, pool, logger)
	if _, err := simulation.Run(ctx, svc, sc, os.Stdout); err != nil {
		fail(err)
	}
}

func fail(err error) {
	slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("simulation failed", "error", err)
	os.Exit(1)
}
