// internal/service/interview.go
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mockprep/backend/internal/domain/interview"
	"github.com/mockprep/backend/internal/grader"
	"github.com/mockprep/backend/internal/store"
	"github.com/mockprep/backend/internal/worker"
)

// Step is what the user sees after an interview operation: either the next
// question to answer or, once all questions are answered, the scored result.
type Step struct {
	SessionID string
	Skill     string
	State     interview.State

	// Pending question, 0-based Index of Total. Empty once Done.
	Question string
	Index    int
	Total    int

	Done   bool
	Result *interview.Result
	// Saved is false when the result was scored but could not be persisted.
	Saved bool
}

// InterviewService drives interview sessions: it generates questions on
// start, records answers in order, and scores and persists the session when
// the last answer arrives.
type InterviewService struct {
	sessions  *store.SessionStore
	results   store.ResultStore
	generator grader.QuestionGenerator
	evaluator grader.AnswerEvaluator
	pool      *worker.Pool
	logger    *slog.Logger

	scoringTimeout time.Duration
}

// Option configures an InterviewService.
type Option func(*InterviewService)

// WithScoringTimeout bounds the evaluation of a finished session as a whole.
// Evaluations still running at the deadline fail with an evaluation error.
func WithScoringTimeout(d time.Duration) Option {
	return func(s *InterviewService) {
		s.scoringTimeout = d
	}
}

func NewInterviewService(
	sessions *store.SessionStore,
	results store.ResultStore,
	generator grader.QuestionGenerator,
	evaluator grader.AnswerEvaluator,
	pool *worker.Pool,
	logger *slog.Logger,
	opts ...Option,
) *InterviewService {
	s := &InterviewService{
		sessions:  sessions,
		results:   results,
		generator: generator,
		evaluator: evaluator,
		pool:      pool,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start generates questions for skill and makes the new session the user's
// current one, replacing any previous session.
func (s *InterviewService) Start(ctx context.Context, userID, skill string) (*Step, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, interview.Unauthenticated()
	}
	skill, err := interview.NormalizeSkill(skill)
	if err != nil {
		return nil, err
	}

	questions, err := s.generator.Generate(ctx, skill)
	if err != nil {
		s.logger.Error("question generation failed", "user", userID, "skill", skill, "error", err)
		return nil, err
	}

	sess := interview.New(userID)
	if err := sess.Begin(skill, questions); err != nil {
		return nil, err
	}
	s.sessions.Put(userID, sess)

	s.logger.Info("interview started",
		"user", userID,
		"session_id", sess.ID,
		"skill", skill,
		"questions", len(questions),
	)
	return pendingStep(sess), nil
}

// SubmitAnswer records the answer to the current question. The user's
// session stays locked for the whole call, so concurrent submissions are
// applied one after another and a session is scored at most once.
func (s *InterviewService) SubmitAnswer(ctx context.Context, userID, answer string) (*Step, error) {
	sess, release, err := s.acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := sess.SubmitAnswer(answer); err != nil {
		return nil, err
	}
	if sess.State != interview.StateComplete {
		return pendingStep(sess), nil
	}

	evaluations, err := s.evaluate(ctx, sess)
	if err != nil {
		s.logger.Error("evaluation failed", "user", userID, "session_id", sess.ID, "error", err)
		// Reopen the last question so the caller can resubmit it.
		if rerr := sess.Retract(); rerr != nil {
			s.logger.Error("failed to reopen session", "session_id", sess.ID, "error", rerr)
		}
		return nil, err
	}

	result, err := interview.NewResult(sess, evaluations)
	if err != nil {
		return nil, err
	}
	sess.Result = result

	step := completeStep(sess)
	if err := s.results.SaveResult(ctx, result); err != nil {
		s.logger.Error("failed to save result",
			"user", userID,
			"session_id", sess.ID,
			"result_id", result.ID,
			"total_score", result.TotalScore,
			"error", err,
		)
		return step, interview.PersistenceFailed("result was scored but not saved", err)
	}
	step.Saved = true

	s.logger.Info("interview completed",
		"user", userID,
		"session_id", sess.ID,
		"result_id", result.ID,
		"total_score", result.TotalScore,
	)
	return step, nil
}

// Current returns the user's pending question, or the result of their
// completed session.
func (s *InterviewService) Current(ctx context.Context, userID string) (*Step, error) {
	sess, release, err := s.acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	if sess.State == interview.StateComplete && sess.Result != nil {
		step := completeStep(sess)
		_, err := s.results.GetResult(ctx, sess.Result.ID)
		step.Saved = err == nil
		return step, nil
	}
	return pendingStep(sess), nil
}

// History lists the user's persisted results, newest first.
func (s *InterviewService) History(ctx context.Context, userID string) ([]store.ResultSummary, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, interview.Unauthenticated()
	}
	return s.results.ListResultsByEmail(ctx, userID)
}

// Result loads one persisted result. Results of other users are reported as
// not found.
func (s *InterviewService) Result(ctx context.Context, userID, resultID string) (*interview.Result, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, interview.Unauthenticated()
	}
	r, err := s.results.GetResult(ctx, resultID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && r.Email != userID) {
		return nil, interview.NotFound("result not found")
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *InterviewService) acquire(ctx context.Context, userID string) (*interview.Session, func(), error) {
	if strings.TrimSpace(userID) == "" {
		return nil, nil, interview.Unauthenticated()
	}
	sess, release, err := s.sessions.Acquire(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, interview.SessionNotFound()
	}
	if err != nil {
		return nil, nil, err
	}
	return sess, release, nil
}

// evaluate scores every answered pair on the shared pool, keeping the
// question order.
func (s *InterviewService) evaluate(ctx context.Context, sess *interview.Session) ([]interview.Evaluation, error) {
	if s.scoringTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.scoringTimeout)
		defer cancel()
	}
	evaluations, err := worker.Map(ctx, s.pool, sess.Pairs(),
		func(ctx context.Context, p interview.Pair) (interview.Evaluation, error) {
			return s.evaluator.Evaluate(ctx, p.Question, p.Answer)
		})
	if err != nil {
		if interview.KindOf(err) == interview.KindInternal {
			return nil, interview.EvaluationFailed("evaluation interrupted", err)
		}
		return nil, err
	}
	return evaluations, nil
}

func pendingStep(sess *interview.Session) *Step {
	q, i, _ := sess.CurrentQuestion()
	return &Step{
		SessionID: sess.ID,
		Skill:     sess.Skill,
		State:     sess.State,
		Question:  q,
		Index:     i,
		Total:     len(sess.Questions),
	}
}

func completeStep(sess *interview.Session) *Step {
	return &Step{
		SessionID: sess.ID,
		Skill:     sess.Skill,
		State:     sess.State,
		Index:     len(sess.Answers),
		Total:     len(sess.Questions),
		Done:      true,
		Result:    sess.Result,
	}
}
