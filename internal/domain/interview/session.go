package interview

import (
	"strings"
	"time"

	"github.com/mockprep/backend/internal/id"
)

// State is the position of a Session in its lifecycle.
type State int

const (
	StateAwaitingSkill State = iota
	StateQuestionsReady
	StateInProgress
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateAwaitingSkill:
		return "awaiting_skill"
	case StateQuestionsReady:
		return "questions_ready"
	case StateInProgress:
		return "in_progress"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Session is one user's interview attempt.
// It is not safe for concurrent use; callers serialize access per user.
type Session struct {
	ID        string
	UserID    string
	Skill     string
	Questions []string
	Answers   []string
	State     State
	CreatedAt time.Time

	// Result is set by the controller once the session completes and has
	// been scored. It is nil before completion.
	Result *Result
}

// New creates a session waiting for a skill.
func New(userID string) *Session {
	return &Session{
		ID:        id.GenerateID(),
		UserID:    userID,
		Answers:   []string{},
		State:     StateAwaitingSkill,
		CreatedAt: time.Now().UTC(),
	}
}

// NormalizeSkill trims the skill and rejects blank values.
func NormalizeSkill(skill string) (string, error) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return "", InvalidInput("skill is required")
	}
	return skill, nil
}

// Begin records the skill and its generated questions.
func (s *Session) Begin(skill string, questions []string) error {
	if s.State != StateAwaitingSkill {
		return InvalidState("session already has questions")
	}
	skill, err := NormalizeSkill(skill)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return InvalidInput("at least one question is required")
	}
	for _, q := range questions {
		if strings.TrimSpace(q) == "" {
			return InvalidInput("questions must not be blank")
		}
	}

	s.Skill = skill
	s.Questions = append([]string(nil), questions...)
	s.Answers = []string{}
	s.State = StateQuestionsReady
	return nil
}

// SubmitAnswer appends the answer for the current question.
// It moves the session to StateInProgress, or to StateComplete when the
// last question has been answered.
func (s *Session) SubmitAnswer(answer string) error {
	switch s.State {
	case StateAwaitingSkill:
		return InvalidState("interview has not started")
	case StateComplete:
		return InvalidState("interview is already complete")
	}
	if len(s.Answers) >= len(s.Questions) {
		return InvalidState("all questions have been answered")
	}

	s.Answers = append(s.Answers, answer)
	if len(s.Answers) == len(s.Questions) {
		s.State = StateComplete
	} else {
		s.State = StateInProgress
	}
	return nil
}

// Retract removes the final answer of a completed session that has not been
// scored yet, so the submission can be retried.
func (s *Session) Retract() error {
	if s.State != StateComplete || s.Result != nil {
		return InvalidState("only an unscored complete session can be reopened")
	}
	s.Answers = s.Answers[:len(s.Answers)-1]
	if len(s.Answers) == 0 {
		s.State = StateQuestionsReady
	} else {
		s.State = StateInProgress
	}
	return nil
}

// CurrentQuestion returns the question awaiting an answer.
// ok is false when the session has none pending.
func (s *Session) CurrentQuestion() (question string, index int, ok bool) {
	if s.State == StateAwaitingSkill || s.State == StateComplete {
		return "", 0, false
	}
	i := len(s.Answers)
	if i >= len(s.Questions) {
		return "", 0, false
	}
	return s.Questions[i], i, true
}

// Pairs returns the answered question/answer pairs in order.
func (s *Session) Pairs() []Pair {
	pairs := make([]Pair, len(s.Answers))
	for i, a := range s.Answers {
		pairs[i] = Pair{Question: s.Questions[i], Answer: a}
	}
	return pairs
}

// Pair is one question together with the user's answer.
type Pair struct {
	Question string
	Answer   string
}
