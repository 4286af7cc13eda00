package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/studia-app/studia/internal/domain"
	"github.com/studia-app/studia/internal/repository"
)

type createTaskRequest struct {
	PlanID       string   `json:"plan_id"`
	Title        string   `json:"title"`
	Subject      string   `json:"subject"`
	Topic        string   `json:"topic"`
	Type         string   `json:"type"`
	Priority     string   `json:"priority"`
	Difficulty   string   `json:"difficulty"`
	Scheduled    string   `json:"scheduled_date"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	EstimatedMin int      `json:"estimated_min"`
	Recurrence   string   `json:"recurrence"`
	Tags         []string `json:"tags"`
	Color        string   `json:"color"`
}

func (req *createTaskRequest) toDomain(ownerID string) (*domain.Task, error) {
	scheduled, err := time.Parse(wireDateLayout, req.Scheduled)
	if err != nil {
		return nil, errors.New("scheduled_date must be YYYY-MM-DD")
	}
	return &domain.Task{
		UserID:       ownerID,
		PlanID:       req.PlanID,
		Title:        req.Title,
		Subject:      req.Subject,
		Topic:        req.Topic,
		Type:         req.Type,
		Priority:     domain.Priority(req.Priority),
		Difficulty:   domain.Difficulty(req.Difficulty),
		Scheduled:    scheduled,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		EstimatedMin: req.EstimatedMin,
		Recurrence:   req.Recurrence,
		Tags:         req.Tags,
		Color:        req.Color,
	}, nil
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}

	t, err := req.toDomain(userID(r))
	if err != nil {
		errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.tasks.Create(r.Context(), t); err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, toTaskDTO(t), http.StatusCreated)
}

// taskFilterFromQuery builds a repository filter from query parameters:
// status, plan_id, from, to (YYYY-MM-DD), limit, offset.
func taskFilterFromQuery(r *http.Request) (repository.TaskFilter, error) {
	var f repository.TaskFilter
	q := r.URL.Query()

	f.PlanID = q.Get("plan_id")
	f.Status = domain.TaskStatus(q.Get("status"))

	if raw := q.Get("from"); raw != "" {
		from, err := time.Parse(wireDateLayout, raw)
		if err != nil {
			return f, errors.New("from must be YYYY-MM-DD")
		}
		f.From = &from
	}
	if raw := q.Get("to"); raw != "" {
		to, err := time.Parse(wireDateLayout, raw)
		if err != nil {
			return f, errors.New("to must be YYYY-MM-DD")
		}
		f.To = &to
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return f, errors.New("limit must be a non-negative integer")
		}
		f.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return f, errors.New("offset must be a non-negative integer")
		}
		f.Offset = offset
	}
	return f, nil
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	filter, err := taskFilterFromQuery(r)
	if err != nil {
		errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	tasks, err := h.tasks.ListByUser(r.Context(), userID(r), filter)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, toTaskDTOs(tasks), http.StatusOK)
}

// ownedTask fetches the task and hides other users' tasks behind a 404.
func (h *Handler) ownedTask(r *http.Request) (*domain.Task, error) {
	t, err := h.tasks.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		return nil, err
	}
	if t.UserID != userID(r) {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.ownedTask(r)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, toTaskDTO(t), http.StatusOK)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.ownedTask(r)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	if err := h.tasks.Delete(r.Context(), t.ID); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type completeTaskRequest struct {
	Notes  string `json:"notes"`
	Rating int    `json:"rating"`
}

func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.ownedTask(r)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	var req completeTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}

	done, err := h.tasks.Complete(r.Context(), t.ID, req.Notes, req.Rating)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, toTaskDTO(done), http.StatusOK)
}

func (h *Handler) CancelTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.ownedTask(r)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	cancelled, err := h.tasks.Cancel(r.Context(), t.ID)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, toTaskDTO(cancelled), http.StatusOK)
}

type startSessionRequest struct {
	DurationMin int    `json:"duration_min"`
	Kind        string `json:"kind"` // "work" (default), "short_break", "long_break"
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	t, err := h.ownedTask(r)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var updated *domain.Task
	switch kind := domain.SessionKind(req.Kind); kind {
	case domain.SessionWork, "":
		updated, err = h.tasks.StartPomodoro(r.Context(), t.ID, req.DurationMin)
	case domain.SessionShortBreak, domain.SessionLongBreak:
		updated, err = h.tasks.StartBreak(r.Context(), t.ID, req.DurationMin, kind)
	default:
		errorResponse(w, "unknown session kind", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, toTaskDTO(updated), http.StatusCreated)
}

func (h *Handler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	t, err := h.ownedTask(r)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		errorResponse(w, "session index must be an integer", http.StatusBadRequest)
		return
	}

	updated, err := h.tasks.CompletePomodoro(r.Context(), t.ID, index)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, toTaskDTO(updated), http.StatusOK)
}
