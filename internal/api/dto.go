package api

import (
	"time"

	"github.com/studia-app/studia/internal/domain"
)

// The wire types keep JSON concerns out of the domain package. Dates with
// day granularity travel as "YYYY-MM-DD", timestamps as RFC 3339.

const wireDateLayout = "2006-01-02"

type preferencesDTO struct {
	DailyHoursTarget float64 `json:"daily_hours_target"`
	PreferredTime    string  `json:"preferred_time"`
	SessionMin       int     `json:"session_min"`
	ShortBreakMin    int     `json:"short_break_min"`
	LongBreakMin     int     `json:"long_break_min"`
}

type badgeDTO struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	EarnedAt    time.Time `json:"earned_at"`
}

type streakDTO struct {
	Current       int    `json:"current"`
	Longest       int    `json:"longest"`
	LastStudyDate string `json:"last_study_date,omitempty"`
}

type gamificationDTO struct {
	TotalPoints int        `json:"total_points"`
	Level       int        `json:"level"`
	Badges      []badgeDTO `json:"badges"`
	Streak      streakDTO  `json:"streak"`
}

type userDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Preferences  preferencesDTO  `json:"preferences"`
	Gamification gamificationDTO `json:"gamification"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toUserDTO(u *domain.User) userDTO {
	dto := userDTO{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Preferences: preferencesDTO{
			DailyHoursTarget: u.Preferences.DailyHoursTarget,
			PreferredTime:    u.Preferences.PreferredTime,
			SessionMin:       u.Preferences.SessionMin,
			ShortBreakMin:    u.Preferences.ShortBreakMin,
			LongBreakMin:     u.Preferences.LongBreakMin,
		},
		Gamification: gamificationDTO{
			TotalPoints: u.Gamification.TotalPoints,
			Level:       u.Gamification.Level,
			Badges:      []badgeDTO{},
			Streak: streakDTO{
				Current: u.Gamification.Streak.Current,
				Longest: u.Gamification.Streak.Longest,
			},
		},
		CreatedAt: u.CreatedAt,
	}
	if last := u.Gamification.Streak.LastStudyDate; last != nil {
		dto.Gamification.Streak.LastStudyDate = last.Format(wireDateLayout)
	}
	for _, b := range u.Gamification.Badges {
		dto.Gamification.Badges = append(dto.Gamification.Badges, badgeDTO{
			Name:        b.Name,
			Description: b.Description,
			Icon:        b.Icon,
			EarnedAt:    b.EarnedAt,
		})
	}
	return dto
}

func (p preferencesDTO) toDomain() domain.StudyPreferences {
	return domain.StudyPreferences{
		DailyHoursTarget: p.DailyHoursTarget,
		PreferredTime:    p.PreferredTime,
		SessionMin:       p.SessionMin,
		ShortBreakMin:    p.ShortBreakMin,
		LongBreakMin:     p.LongBreakMin,
	}
}

type topicDTO struct {
	Name           string     `json:"name"`
	Subtopics      []string   `json:"subtopics,omitempty"`
	EstimatedHours float64    `json:"estimated_hours"`
	Difficulty     string     `json:"difficulty"`
	Priority       int        `json:"priority"`
	Completed      bool       `json:"completed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

type weeklyGoalDTO struct {
	Week        int                `json:"week"`
	StartDate   string             `json:"start_date"`
	EndDate     string             `json:"end_date"`
	TargetHours float64            `json:"target_hours"`
	ActualHours float64            `json:"actual_hours"`
	TopicHours  map[string]float64 `json:"topic_hours,omitempty"`
	Completed   bool               `json:"completed"`
}

type milestoneDTO struct {
	Title            string     `json:"title"`
	TargetDate       string     `json:"target_date"`
	TargetPercentage int        `json:"target_percentage"`
	Completed        bool       `json:"completed"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

type insightDTO struct {
	Kind        string    `json:"kind"`
	Content     string    `json:"content"`
	GeneratedAt time.Time `json:"generated_at"`
}

type progressDTO struct {
	TopicsCompleted    int     `json:"topics_completed"`
	TopicsTotal        int     `json:"topics_total"`
	PercentageComplete int     `json:"percentage_complete"`
	HoursStudied       float64 `json:"hours_studied"`
	DaysRemaining      int     `json:"days_remaining"`
	OnTrack            bool    `json:"on_track"`
}

type planDTO struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	Title            string          `json:"title"`
	Subject          string          `json:"subject"`
	ExamDate         string          `json:"exam_date"`
	TotalHoursTarget float64         `json:"total_hours_target"`
	DailyHoursTarget float64         `json:"daily_hours_target"`
	Difficulty       string          `json:"difficulty"`
	Priority         string          `json:"priority"`
	Status           string          `json:"status"`
	Topics           []topicDTO      `json:"topics"`
	WeeklyGoals      []weeklyGoalDTO `json:"weekly_goals,omitempty"`
	Milestones       []milestoneDTO  `json:"milestones,omitempty"`
	Insights         []insightDTO    `json:"insights,omitempty"`
	Progress         progressDTO     `json:"progress"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func toPlanDTO(p *domain.StudyPlan) planDTO {
	dto := planDTO{
		ID:               p.ID,
		UserID:           p.UserID,
		Title:            p.Title,
		Subject:          p.Subject,
		ExamDate:         p.ExamDate.Format(wireDateLayout),
		TotalHoursTarget: p.TotalHoursTarget,
		DailyHoursTarget: p.DailyHoursTarget,
		Difficulty:       string(p.Difficulty),
		Priority:         string(p.Priority),
		Status:           string(p.Status),
		Topics:           []topicDTO{},
		Progress: progressDTO{
			TopicsCompleted:    p.Progress.TopicsCompleted,
			TopicsTotal:        p.Progress.TopicsTotal,
			PercentageComplete: p.Progress.PercentageComplete,
			HoursStudied:       p.Progress.HoursStudied,
			DaysRemaining:      p.Progress.DaysRemaining,
			OnTrack:            p.Progress.OnTrack,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	for _, t := range p.Topics {
		dto.Topics = append(dto.Topics, topicDTO{
			Name:           t.Name,
			Subtopics:      t.Subtopics,
			EstimatedHours: t.EstimatedHours,
			Difficulty:     string(t.Difficulty),
			Priority:       t.Priority,
			Completed:      t.Completed,
			CompletedAt:    t.CompletedAt,
			Notes:          t.Notes,
		})
	}
	for _, g := range p.WeeklyGoals {
		dto.WeeklyGoals = append(dto.WeeklyGoals, weeklyGoalDTO{
			Week:        g.Week,
			StartDate:   g.StartDate.Format(wireDateLayout),
			EndDate:     g.EndDate.Format(wireDateLayout),
			TargetHours: g.TargetHours,
			ActualHours: g.ActualHours,
			TopicHours:  g.TopicHours,
			Completed:   g.Completed,
		})
	}
	for _, m := range p.Milestones {
		dto.Milestones = append(dto.Milestones, milestoneDTO{
			Title:            m.Title,
			TargetDate:       m.TargetDate.Format(wireDateLayout),
			TargetPercentage: m.TargetPercentage,
			Completed:        m.Completed,
			CompletedAt:      m.CompletedAt,
		})
	}
	for _, in := range p.Insights {
		dto.Insights = append(dto.Insights, insightDTO{
			Kind:        in.Kind,
			Content:     in.Content,
			GeneratedAt: in.GeneratedAt,
		})
	}
	return dto
}

type completionDTO struct {
	Percentage  int       `json:"percentage"`
	CompletedAt time.Time `json:"completed_at"`
	Notes       string    `json:"notes,omitempty"`
	Rating      int       `json:"rating,omitempty"`
}

type sessionDTO struct {
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	DurationMin int        `json:"duration_min"`
	Completed   bool       `json:"completed"`
	Kind        string     `json:"kind"`
}

type reminderDTO struct {
	At   time.Time `json:"at"`
	Sent bool      `json:"sent"`
}

type taskDTO struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	PlanID       string         `json:"plan_id,omitempty"`
	Title        string         `json:"title"`
	Subject      string         `json:"subject,omitempty"`
	Topic        string         `json:"topic,omitempty"`
	Type         string         `json:"type"`
	Priority     string         `json:"priority"`
	Difficulty   string         `json:"difficulty"`
	Status       string         `json:"status"`
	Scheduled    string         `json:"scheduled_date"`
	StartTime    string         `json:"start_time"`
	EndTime      string         `json:"end_time"`
	EstimatedMin int            `json:"estimated_min"`
	ActualMin    int            `json:"actual_min"`
	Completion   *completionDTO `json:"completion,omitempty"`
	Sessions     []sessionDTO   `json:"sessions,omitempty"`
	Reminders    []reminderDTO  `json:"reminders,omitempty"`
	Recurrence   string         `json:"recurrence,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
	Color        string         `json:"color,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func toTaskDTO(t *domain.Task) taskDTO {
	dto := taskDTO{
		ID:           t.ID,
		UserID:       t.UserID,
		PlanID:       t.PlanID,
		Title:        t.Title,
		Subject:      t.Subject,
		Topic:        t.Topic,
		Type:         t.Type,
		Priority:     string(t.Priority),
		Difficulty:   string(t.Difficulty),
		Status:       string(t.Status),
		Scheduled:    t.Scheduled.Format(wireDateLayout),
		StartTime:    t.StartTime,
		EndTime:      t.EndTime,
		EstimatedMin: t.EstimatedMin,
		ActualMin:    t.ActualMin,
		Recurrence:   t.Recurrence,
		Tags:         t.Tags,
		Color:        t.Color,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if c := t.Completion; c != nil {
		dto.Completion = &completionDTO{
			Percentage:  c.Percentage,
			CompletedAt: c.CompletedAt,
			Notes:       c.Notes,
			Rating:      c.Rating,
		}
	}
	for _, s := range t.Sessions {
		dto.Sessions = append(dto.Sessions, sessionDTO{
			StartedAt:   s.StartedAt,
			EndedAt:     s.EndedAt,
			DurationMin: s.DurationMin,
			Completed:   s.Completed,
			Kind:        string(s.Kind),
		})
	}
	for _, r := range t.Reminders {
		dto.Reminders = append(dto.Reminders, reminderDTO{At: r.At, Sent: r.Sent})
	}
	return dto
}

func toTaskDTOs(tasks []*domain.Task) []taskDTO {
	dtos := make([]taskDTO, 0, len(tasks))
	for _, t := range tasks {
		dtos = append(dtos, toTaskDTO(t))
	}
	return dtos
}

func toPlanDTOs(plans []*domain.StudyPlan) []planDTO {
	dtos := make([]planDTO, 0, len(plans))
	for _, p := range plans {
		dtos = append(dtos, toPlanDTO(p))
	}
	return dtos
}
