package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/studia-app/studia/internal/assist"
	"github.com/studia-app/studia/internal/auth"
	"github.com/studia-app/studia/internal/llm"
	"github.com/studia-app/studia/internal/notify"
	"github.com/studia-app/studia/internal/repository"
	"github.com/studia-app/studia/internal/service"
)

// Handler carries the services every endpoint dispatches to.
type Handler struct {
	users  service.UserService
	plans  service.PlanService
	tasks  service.TaskService
	stats  service.StatsService
	tokens *auth.TokenManager
	hub    *notify.Hub

	// Assist services are nil when the LLM is disabled; their endpoints
	// answer 503 in that case.
	draft   assist.PlanDraftService
	chat    assist.ChatService
	summary assist.SummaryService
	quiz    assist.QuizService
	insight assist.InsightService

	llmClient llm.Client
	log       *zap.Logger
	upgrader  websocket.Upgrader
}

// HandlerConfig bundles the dependencies for NewHandler.
type HandlerConfig struct {
	Users  service.UserService
	Plans  service.PlanService
	Tasks  service.TaskService
	Stats  service.StatsService
	Tokens *auth.TokenManager
	Hub    *notify.Hub

	Draft   assist.PlanDraftService
	Chat    assist.ChatService
	Summary assist.SummaryService
	Quiz    assist.QuizService
	Insight assist.InsightService

	LLMClient llm.Client
	Log       *zap.Logger
}

func NewHandler(cfg HandlerConfig) *Handler {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		users:     cfg.Users,
		plans:     cfg.Plans,
		tasks:     cfg.Tasks,
		stats:     cfg.Stats,
		tokens:    cfg.Tokens,
		hub:       cfg.Hub,
		draft:     cfg.Draft,
		chat:      cfg.Chat,
		summary:   cfg.Summary,
		quiz:      cfg.Quiz,
		insight:   cfg.Insight,
		llmClient: cfg.LLMClient,
		log:       log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func errorResponse(w http.ResponseWriter, message string, status int) {
	jsonResponse(w, map[string]string{"error": message}, status)
}

// serviceError maps domain and service errors onto HTTP statuses. Unknown
// errors become a 500 with a generic message so internals never leak.
func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		errorResponse(w, "not found", http.StatusNotFound)
	case errors.Is(err, service.ErrEmailTaken):
		errorResponse(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrInvalidCredentials):
		errorResponse(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, service.ErrTaskTerminal),
		errors.Is(err, service.ErrTopicAlreadyCompleted),
		errors.Is(err, service.ErrSessionAlreadyClosed):
		errorResponse(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrInvalidTaskType):
		errorResponse(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrNoSuchTopic),
		errors.Is(err, service.ErrNoSuchSession):
		errorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, llm.ErrUnavailable), errors.Is(err, llm.ErrTimeout):
		errorResponse(w, "assistant unavailable", http.StatusServiceUnavailable)
	case errors.Is(err, llm.ErrInvalidOutput), errors.Is(err, llm.ErrRetryExhausted):
		errorResponse(w, "assistant produced no usable output", http.StatusBadGateway)
	default:
		h.log.Error("request failed", zap.Error(err))
		errorResponse(w, "internal error", http.StatusInternalServerError)
	}
}

// decodeJSON decodes the request body into dst. An empty body leaves dst
// at its zero value so endpoints with all-optional fields accept bare
// POSTs.
func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// HealthCheck reports process liveness and LLM reachability.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	llmAvailable := false
	if h.llmClient != nil {
		llmAvailable = h.llmClient.Available(ctx)
	}

	jsonResponse(w, map[string]interface{}{
		"status":        "ok",
		"llm_available": llmAvailable,
		"timestamp":     time.Now().UTC(),
	}, http.StatusOK)
}
