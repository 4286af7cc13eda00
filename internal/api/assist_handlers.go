package api

import (
	"net/http"

	"github.com/studia-app/studia/internal/assist"
)

// assistEnabled guards the LLM-backed endpoints. They answer 503 when the
// process runs without an assistant configured.
func (h *Handler) assistEnabled(w http.ResponseWriter) bool {
	if h.draft == nil {
		errorResponse(w, "assistant is not enabled", http.StatusServiceUnavailable)
		return false
	}
	return true
}

type draftPlanRequest struct {
	Description string `json:"description"`
	Create      bool   `json:"create"`
}

// DraftPlan turns a natural language description into a plan draft. With
// create=true the draft is persisted as a study plan for the caller.
func (h *Handler) DraftPlan(w http.ResponseWriter, r *http.Request) {
	if !h.assistEnabled(w) {
		return
	}

	var req draftPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Description == "" {
		errorResponse(w, "description is required", http.StatusBadRequest)
		return
	}

	draft, err := h.draft.Draft(r.Context(), req.Description)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	if !req.Create {
		jsonResponse(w, map[string]interface{}{"draft": draft}, http.StatusOK)
		return
	}

	p, err := draft.ToPlan(userID(r))
	if err != nil {
		errorResponse(w, err.Error(), http.StatusBadGateway)
		return
	}
	if err := h.plans.Create(r.Context(), p); err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, map[string]interface{}{"draft": draft, "plan": toPlanDTO(p)}, http.StatusCreated)
}

type chatRequest struct {
	History []assist.ChatTurn `json:"history"`
	Message string            `json:"message"`
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	if !h.assistEnabled(w) {
		return
	}

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		errorResponse(w, "message is required", http.StatusBadRequest)
		return
	}

	reply, err := h.chat.Reply(r.Context(), req.History, req.Message)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, map[string]string{"reply": reply}, http.StatusOK)
}

type quizRequest struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

func (h *Handler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	if !h.assistEnabled(w) {
		return
	}

	var req quizRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Topic == "" {
		errorResponse(w, "topic is required", http.StatusBadRequest)
		return
	}

	quiz, err := h.quiz.Generate(r.Context(), req.Topic, req.Count)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, quiz, http.StatusOK)
}

// SummarizePlan writes a progress narrative for an owned plan.
func (h *Handler) SummarizePlan(w http.ResponseWriter, r *http.Request) {
	if !h.assistEnabled(w) {
		return
	}

	p, err := h.ownedPlan(r)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	summary, err := h.summary.Summarize(r.Context(), p)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, map[string]string{"summary": summary}, http.StatusOK)
}

// GenerateInsight produces a pacing insight and stores it on the plan.
func (h *Handler) GenerateInsight(w http.ResponseWriter, r *http.Request) {
	if !h.assistEnabled(w) {
		return
	}

	p, err := h.ownedPlan(r)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	content, err := h.insight.PaceInsight(r.Context(), p)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	updated, err := h.plans.AddInsight(r.Context(), p.ID, "pace", content)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, toPlanDTO(updated), http.StatusOK)
}
