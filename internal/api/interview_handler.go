// internal/api/interview_handler.go
package api

import (
	"net/http"
	"time"

	"github.com/mockprep/backend/internal/auth"
	"github.com/mockprep/backend/internal/domain/interview"
	"github.com/mockprep/backend/internal/service"
	"github.com/mockprep/backend/internal/store"
)

// ── Request / Response DTOs ──

type StartRequest struct {
	Skill string `json:"skill"`
}

// AnswerRequest carries the answer text. An empty string is a valid answer;
// a missing field is not.
type AnswerRequest struct {
	Answer *string `json:"answer" binding:"required"`
}

// QuestionResponse carries the pending question. Index is 1-based.
type QuestionResponse struct {
	SessionID string `json:"session_id"`
	Skill     string `json:"skill"`
	Done      bool   `json:"done"`
	Question  string `json:"question,omitempty"`
	Index     int    `json:"index"`
	Total     int    `json:"total"`
}

type EvaluationResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

type ResultResponse struct {
	ID          string               `json:"id"`
	Skill       string               `json:"skill"`
	TotalScore  int                  `json:"total_score"`
	MaxScore    int                  `json:"max_score"`
	Evaluations []EvaluationResponse `json:"evaluations"`
	CreatedAt   time.Time            `json:"created_at"`
}

type CompletedResponse struct {
	SessionID string          `json:"session_id"`
	Skill     string          `json:"skill"`
	Done      bool            `json:"done"`
	Result    *ResultResponse `json:"result"`
	Saved     bool            `json:"saved"`
}

// UnsavedResponse is returned when a session was scored but its result
// could not be stored.
type UnsavedResponse struct {
	Error  ErrorDetail     `json:"error"`
	Saved  bool            `json:"saved"`
	Result *ResultResponse `json:"result"`
}

type ResultSummaryResponse struct {
	ID         string    `json:"id"`
	Skill      string    `json:"skill"`
	Questions  int       `json:"questions"`
	TotalScore int       `json:"total_score"`
	MaxScore   int       `json:"max_score"`
	CreatedAt  time.Time `json:"created_at"`
}

// ── Handlers ──

// startInterview godoc
// @Summary      Start an interview
// @Description  Generates questions for the skill and returns the first one. Replaces any session in progress.
// @Tags         interview
// @Accept       json
// @Produce      json
// @Param        body  body      StartRequest  true  "Skill to practice"
// @Success      201   {object}  QuestionResponse
// @Failure      400   {object}  ErrorBody
// @Failure      401   {object}  ErrorBody
// @Failure      502   {object}  ErrorBody
// @Security     BearerAuth
// @Router       /interview/start [post]
func (h *Handler) startInterview(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var req StartRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	step, err := h.interviews.Start(r.Context(), id.Email, req.Skill)
	if h.handleError(w, r, err) {
		return
	}
	respondJSON(w, http.StatusCreated, toQuestionResponse(step))
}

// submitAnswer godoc
// @Summary      Answer the current question
// @Description  Records the answer. After the last answer the session is scored and the result returned.
// @Tags         interview
// @Accept       json
// @Produce      json
// @Param        body  body      AnswerRequest  true  "Answer text"
// @Success      200   {object}  CompletedResponse
// @Failure      400   {object}  ErrorBody
// @Failure      404   {object}  ErrorBody
// @Failure      409   {object}  ErrorBody
// @Failure      500   {object}  UnsavedResponse
// @Failure      502   {object}  ErrorBody
// @Security     BearerAuth
// @Router       /interview/answer [post]
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var req AnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Answer == nil {
		respondError(w, http.StatusBadRequest, interview.KindInvalidInput, "answer is required")
		return
	}

	step, err := h.interviews.SubmitAnswer(r.Context(), id.Email, *req.Answer)
	if err != nil && step != nil && interview.IsKind(err, interview.KindPersistence) {
		h.logger.Warn("returning unsaved result", "user", id.Email, "session_id", step.SessionID)
		respondJSON(w, http.StatusInternalServerError, UnsavedResponse{
			Error:  ErrorDetail{Kind: string(interview.KindPersistence), Message: err.Error()},
			Saved:  false,
			Result: toResultResponse(step.Result),
		})
		return
	}
	if h.handleError(w, r, err) {
		return
	}
	respondStep(w, step)
}

// currentInterview godoc
// @Summary      Show the current interview
// @Description  Returns the pending question, or the result if the session is complete.
// @Tags         interview
// @Produce      json
// @Success      200  {object}  QuestionResponse
// @Failure      401  {object}  ErrorBody
// @Failure      404  {object}  ErrorBody
// @Security     BearerAuth
// @Router       /interview/current [get]
func (h *Handler) currentInterview(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	step, err := h.interviews.Current(r.Context(), id.Email)
	if h.handleError(w, r, err) {
		return
	}
	respondStep(w, step)
}

// listResults godoc
// @Summary      List past results
// @Tags         interview
// @Produce      json
// @Success      200  {array}   ResultSummaryResponse
// @Failure      401  {object}  ErrorBody
// @Security     BearerAuth
// @Router       /interview/results [get]
func (h *Handler) listResults(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	summaries, err := h.interviews.History(r.Context(), id.Email)
	if h.handleError(w, r, err) {
		return
	}

	resp := make([]ResultSummaryResponse, len(summaries))
	for i, s := range summaries {
		resp[i] = toSummaryResponse(s)
	}
	respondJSON(w, http.StatusOK, resp)
}

// getResult godoc
// @Summary      Get one past result
// @Tags         interview
// @Produce      json
// @Param        resultID  path      string  true  "Result ID"
// @Success      200       {object}  ResultResponse
// @Failure      401       {object}  ErrorBody
// @Failure      404       {object}  ErrorBody
// @Security     BearerAuth
// @Router       /interview/results/{resultID} [get]
func (h *Handler) getResult(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	result, err := h.interviews.Result(r.Context(), id.Email, r.PathValue("resultID"))
	if h.handleError(w, r, err) {
		return
	}
	respondJSON(w, http.StatusOK, toResultResponse(result))
}

// ── Mapping ──

func respondStep(w http.ResponseWriter, step *service.Step) {
	if step.Done {
		respondJSON(w, http.StatusOK, CompletedResponse{
			SessionID: step.SessionID,
			Skill:     step.Skill,
			Done:      true,
			Result:    toResultResponse(step.Result),
			Saved:     step.Saved,
		})
		return
	}
	respondJSON(w, http.StatusOK, toQuestionResponse(step))
}

func toQuestionResponse(step *service.Step) QuestionResponse {
	return QuestionResponse{
		SessionID: step.SessionID,
		Skill:     step.Skill,
		Question:  step.Question,
		Index:     step.Index + 1,
		Total:     step.Total,
	}
}

func toResultResponse(r *interview.Result) *ResultResponse {
	if r == nil {
		return nil
	}
	evals := make([]EvaluationResponse, len(r.Evaluations))
	for i, e := range r.Evaluations {
		evals[i] = EvaluationResponse{
			Question: r.Questions[i],
			Answer:   r.Answers[i],
			Score:    e.Score,
			Feedback: e.Feedback,
		}
	}
	return &ResultResponse{
		ID:          r.ID,
		Skill:       r.Skill,
		TotalScore:  r.TotalScore,
		MaxScore:    r.MaxTotal(),
		Evaluations: evals,
		CreatedAt:   r.CreatedAt,
	}
}

func toSummaryResponse(s store.ResultSummary) ResultSummaryResponse {
	return ResultSummaryResponse{
		ID:         s.ID,
		Skill:      s.Skill,
		Questions:  s.Questions,
		TotalScore: s.TotalScore,
		MaxScore:   s.Questions * interview.MaxScore,
		CreatedAt:  s.CreatedAt,
	}
}
