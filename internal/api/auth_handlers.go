package api

import (
	"net/http"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, authResponse{Token: token, User: toUserDTO(user)}, http.StatusCreated)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, authResponse{Token: token, User: toUserDTO(user)}, http.StatusOK)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), userID(r))
	if err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, toUserDTO(user), http.StatusOK)
}

func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesDTO
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.UpdatePreferences(r.Context(), userID(r), req.toDomain())
	if err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, toUserDTO(user), http.StatusOK)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), userID(r)); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.UserStats(r.Context(), userID(r))
	if err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, map[string]interface{}{
		"user":            toUserDTO(stats.User),
		"active_plans":    stats.ActivePlans,
		"tasks_completed": stats.TasksCompleted,
		"tasks_pending":   stats.TasksPending,
		"total_study_min": stats.TotalStudyMin,
	}, http.StatusOK)
}
