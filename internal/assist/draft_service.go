package assist

import (
	"context"
	"fmt"

	"github.com/studia-app/studia/internal/llm"
)

// PlanDraftService turns a natural language description into a structured
// study plan draft.
type PlanDraftService interface {
	Draft(ctx context.Context, description string) (*PlanDraft, error)
}

type planDraftService struct {
	client llm.Client
}

// NewPlanDraftService creates a PlanDraftService backed by an LLM client.
func NewPlanDraftService(client llm.Client) PlanDraftService {
	return &planDraftService{client: client}
}

func (s *planDraftService) Draft(ctx context.Context, description string) (*PlanDraft, error) {
	if description == "" {
		return nil, fmt.Errorf("description is required")
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskPlanDraft,
		SystemPrompt: planDraftSystemPrompt,
		UserPrompt:   description,
	})
	if err != nil {
		return nil, fmt.Errorf("plan draft failed: %w", err)
	}

	draft, err := llm.ExtractJSON[PlanDraft](resp.Text, validatePlanDraft)
	if err != nil {
		return nil, fmt.Errorf("failed to extract plan draft: %w", err)
	}
	return &draft, nil
}

func validatePlanDraft(d PlanDraft) error {
	if d.Title == "" {
		return fmt.Errorf("title field is required")
	}
	if d.ExamDate == "" {
		return fmt.Errorf("exam_date field is required")
	}
	if len(d.Topics) == 0 {
		return fmt.Errorf("at least one topic is required")
	}
	for i, t := range d.Topics {
		if t.Name == "" {
			return fmt.Errorf("topic %d has no name", i)
		}
	}
	return nil
}
