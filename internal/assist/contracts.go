package assist

import (
	"fmt"
	"time"

	"github.com/studia-app/studia/internal/domain"
)

// PlanDraft is the structured study plan the LLM produces from a natural
// language description. Dates travel as "YYYY-MM-DD" strings until the
// draft is converted to a domain plan.
type PlanDraft struct {
	Title      string       `json:"title"`
	Subject    string       `json:"subject"`
	ExamDate   string       `json:"exam_date"`
	TotalHours float64      `json:"total_hours"`
	DailyHours float64      `json:"daily_hours"`
	Difficulty string       `json:"difficulty"`
	Topics     []DraftTopic `json:"topics"`
	Confidence float64      `json:"confidence"`
}

type DraftTopic struct {
	Name           string   `json:"name"`
	Subtopics      []string `json:"subtopics,omitempty"`
	EstimatedHours float64  `json:"estimated_hours"`
	Priority       int      `json:"priority"` // 1-10
}

// ToPlan converts the draft into a study plan owned by userID. The service
// layer fills IDs, status, and derived progress on create.
func (d *PlanDraft) ToPlan(userID string) (*domain.StudyPlan, error) {
	examDate, err := time.Parse("2006-01-02", d.ExamDate)
	if err != nil {
		return nil, fmt.Errorf("invalid exam date %q: %w", d.ExamDate, err)
	}

	difficulty := domain.Difficulty(d.Difficulty)
	switch difficulty {
	case domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard:
	default:
		difficulty = domain.DifficultyMedium
	}

	p := &domain.StudyPlan{
		UserID:           userID,
		Title:            d.Title,
		Subject:          d.Subject,
		ExamDate:         examDate,
		TotalHoursTarget: d.TotalHours,
		DailyHoursTarget: d.DailyHours,
		Difficulty:       difficulty,
	}
	for _, t := range d.Topics {
		p.Topics = append(p.Topics, domain.Topic{
			Name:           t.Name,
			Subtopics:      t.Subtopics,
			EstimatedHours: t.EstimatedHours,
			Difficulty:     difficulty,
			Priority:       t.Priority,
		})
	}
	return p, nil
}

// ChatTurn records a single exchange in a study chat conversation.
type ChatTurn struct {
	Role    string `json:"role"` // "User" or "Assistant"
	Content string `json:"content"`
}

// Quiz is a set of multiple choice questions on a topic.
type Quiz struct {
	Topic     string         `json:"topic"`
	Questions []QuizQuestion `json:"questions"`
}

type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation,omitempty"`
}
