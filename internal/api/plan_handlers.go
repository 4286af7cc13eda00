package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/studia-app/studia/internal/domain"
	"github.com/studia-app/studia/internal/repository"
)

type createPlanRequest struct {
	Title            string              `json:"title"`
	Subject          string              `json:"subject"`
	ExamDate         string              `json:"exam_date"`
	TotalHoursTarget float64             `json:"total_hours_target"`
	DailyHoursTarget float64             `json:"daily_hours_target"`
	Difficulty       string              `json:"difficulty"`
	Priority         string              `json:"priority"`
	Topics           []createTopicInput  `json:"topics"`
	WeeklyGoals      []weeklyGoalDTO     `json:"weekly_goals"`
	Milestones       []createMilestoneIn `json:"milestones"`
}

type createTopicInput struct {
	Name           string   `json:"name"`
	Subtopics      []string `json:"subtopics"`
	EstimatedHours float64  `json:"estimated_hours"`
	Difficulty     string   `json:"difficulty"`
	Priority       int      `json:"priority"`
	Notes          string   `json:"notes"`
}

type createMilestoneIn struct {
	Title            string `json:"title"`
	TargetDate       string `json:"target_date"`
	TargetPercentage int    `json:"target_percentage"`
}

func (req *createPlanRequest) toDomain(ownerID string) (*domain.StudyPlan, error) {
	examDate, err := time.Parse(wireDateLayout, req.ExamDate)
	if err != nil {
		return nil, errors.New("exam_date must be YYYY-MM-DD")
	}

	p := &domain.StudyPlan{
		UserID:           ownerID,
		Title:            req.Title,
		Subject:          req.Subject,
		ExamDate:         examDate,
		TotalHoursTarget: req.TotalHoursTarget,
		DailyHoursTarget: req.DailyHoursTarget,
		Difficulty:       domain.Difficulty(req.Difficulty),
		Priority:         domain.Priority(req.Priority),
	}
	for _, t := range req.Topics {
		difficulty := domain.Difficulty(t.Difficulty)
		if difficulty == "" {
			difficulty = p.Difficulty
		}
		p.Topics = append(p.Topics, domain.Topic{
			Name:           t.Name,
			Subtopics:      t.Subtopics,
			EstimatedHours: t.EstimatedHours,
			Difficulty:     difficulty,
			Priority:       t.Priority,
			Notes:          t.Notes,
		})
	}
	for _, g := range req.WeeklyGoals {
		start, err := time.Parse(wireDateLayout, g.StartDate)
		if err != nil {
			return nil, errors.New("weekly goal start_date must be YYYY-MM-DD")
		}
		end, err := time.Parse(wireDateLayout, g.EndDate)
		if err != nil {
			return nil, errors.New("weekly goal end_date must be YYYY-MM-DD")
		}
		p.WeeklyGoals = append(p.WeeklyGoals, domain.WeeklyGoal{
			Week:        g.Week,
			StartDate:   start,
			EndDate:     end,
			TargetHours: g.TargetHours,
			TopicHours:  g.TopicHours,
		})
	}
	for _, m := range req.Milestones {
		target, err := time.Parse(wireDateLayout, m.TargetDate)
		if err != nil {
			return nil, errors.New("milestone target_date must be YYYY-MM-DD")
		}
		p.Milestones = append(p.Milestones, domain.Milestone{
			Title:            m.Title,
			TargetDate:       target,
			TargetPercentage: m.TargetPercentage,
		})
	}
	return p, nil
}

func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := req.toDomain(userID(r))
	if err != nil {
		errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.plans.Create(r.Context(), p); err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, toPlanDTO(p), http.StatusCreated)
}

func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("include_archived") == "true"
	plans, err := h.plans.ListByUser(r.Context(), userID(r), includeArchived)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, toPlanDTOs(plans), http.StatusOK)
}

// ownedPlan fetches the plan and hides other users' plans behind a 404.
func (h *Handler) ownedPlan(r *http.Request) (*domain.StudyPlan, error) {
	p, err := h.plans.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		return nil, err
	}
	if p.UserID != userID(r) {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownedPlan(r)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, toPlanDTO(p), http.StatusOK)
}

func (h *Handler) ArchivePlan(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownedPlan(r)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	if err := h.plans.Archive(r.Context(), p.ID); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownedPlan(r)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	if err := h.plans.Delete(r.Context(), p.ID); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type completeTopicRequest struct {
	TopicIndex int `json:"topic_index"`
}

func (h *Handler) CompleteTopic(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownedPlan(r)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	var req completeTopicRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.plans.CompleteTopic(r.Context(), p.ID, req.TopicIndex)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, toPlanDTO(updated), http.StatusOK)
}

type logHoursRequest struct {
	Hours float64 `json:"hours"`
}

func (h *Handler) LogStudyHours(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownedPlan(r)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	var req logHoursRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Hours <= 0 {
		errorResponse(w, "hours must be positive", http.StatusBadRequest)
		return
	}

	updated, err := h.plans.LogStudyHours(r.Context(), p.ID, req.Hours)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, toPlanDTO(updated), http.StatusOK)
}

func (h *Handler) PlanPace(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownedPlan(r)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	pace, err := h.plans.Pace(r.Context(), p.ID)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, map[string]interface{}{
		"remaining_hours":         pace.RemainingHours,
		"days_remaining":          pace.DaysRemaining,
		"recommended_daily_hours": pace.RecommendedDailyHours,
		"percentage_complete":     pace.PercentageComplete,
		"on_track":                pace.OnTrack,
	}, http.StatusOK)
}

type addInsightRequest struct {
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

func (h *Handler) AddInsight(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownedPlan(r)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	var req addInsightRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Kind == "" || req.Content == "" {
		errorResponse(w, "kind and content are required", http.StatusBadRequest)
		return
	}

	updated, err := h.plans.AddInsight(r.Context(), p.ID, req.Kind, req.Content)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	jsonResponse(w, toPlanDTO(updated), http.StatusOK)
}
