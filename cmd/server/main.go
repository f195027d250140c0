package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/mockprep/backend/internal/api"
	"github.com/mockprep/backend/internal/auth"
	"github.com/mockprep/backend/internal/grader"
	"github.com/mockprep/backend/internal/infrastructure/config"
	"github.com/mockprep/backend/internal/llm"
	"github.com/mockprep/backend/internal/service"
	"github.com/mockprep/backend/internal/store"
	"github.com/mockprep/backend/internal/worker"

	_ "github.com/mockprep/backend/docs" // generated swagger docs
)

// @title           MockPrep API
// @version         1.0
// @description     Mock interview practice: generated questions per skill, scored answers, and a history of past results.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	client, err := llm.NewClient(context.Background(), cfg.LLMProvider, cfg.LLMURL, cfg.LLMModel, cfg.LLMAPIKey)
	if err != nil {
		logger.Error("failed to create llm client", "error", err)
		os.Exit(1)
	}

	generator, err := grader.NewQuestionGenerator(client, grader.GeneratorOptions{
		Count:   cfg.Interview.QuestionCount,
		Timeout: cfg.LLMTimeout,
		Prompt:  cfg.Interview.QuestionPrompt,
	})
	if err != nil {
		logger.Error("invalid question prompt", "error", err)
		os.Exit(1)
	}
	evaluator, err := grader.NewAnswerEvaluator(client, grader.EvaluatorOptions{
		Timeout: cfg.LLMTimeout,
		Prompt:  cfg.Interview.EvaluationPrompt,
	})
	if err != nil {
		logger.Error("invalid evaluation prompt", "error", err)
		os.Exit(1)
	}

	pool := worker.NewPool(cfg.EvalWorkers, cfg.EvalWorkers*4)
	defer pool.Close()

	sessions := store.NewSessionStore(cfg.MaxSessions, cfg.SessionTTL)
	interviews := service.NewInterviewService(sessions, db, generator, evaluator, pool, logger,
		service.WithScoringTimeout(cfg.ScoringTimeout()),
	)
	handler := api.NewHandler(interviews, db, logger)
	tokens := auth.NewTokens(cfg.JWTSecret)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → Auth → mux ───────────────
	logged := api.Logging(logger)(api.CORS(tokens.WithAuth(mux)))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout(),
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server",
		"address", cfg.ServerAddress,
		"llm_provider", cfg.LLMProvider,
		"llm_model", cfg.LLMModel,
		"questions", cfg.Interview.QuestionCount,
		"scoring_timeout", cfg.ScoringTimeout(),
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
