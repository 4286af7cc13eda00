package assist

import (
	"context"
	"fmt"

	"github.com/studia-app/studia/internal/llm"
)

const (
	defaultQuizQuestions = 5
	maxQuizQuestions     = 20
)

// QuizService generates multiple choice revision quizzes.
type QuizService interface {
	Generate(ctx context.Context, topic string, count int) (*Quiz, error)
}

type quizService struct {
	client llm.Client
}

func NewQuizService(client llm.Client) QuizService {
	return &quizService{client: client}
}

func (s *quizService) Generate(ctx context.Context, topic string, count int) (*Quiz, error) {
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if count <= 0 {
		count = defaultQuizQuestions
	}
	if count > maxQuizQuestions {
		count = maxQuizQuestions
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskQuiz,
		SystemPrompt: quizSystemPrompt,
		UserPrompt:   fmt.Sprintf("Topic: %s\nNumber of questions: %d", topic, count),
	})
	if err != nil {
		return nil, fmt.Errorf("quiz generation failed: %w", err)
	}

	quiz, err := llm.ExtractJSON[Quiz](resp.Text, validateQuiz)
	if err != nil {
		return nil, fmt.Errorf("failed to extract quiz: %w", err)
	}
	return &quiz, nil
}

func validateQuiz(q Quiz) error {
	if len(q.Questions) == 0 {
		return fmt.Errorf("at least one question is required")
	}
	for i, question := range q.Questions {
		if question.Question == "" {
			return fmt.Errorf("question %d has no text", i)
		}
		if len(question.Options) < 2 {
			return fmt.Errorf("question %d needs at least two options", i)
		}
		if question.AnswerIndex < 0 || question.AnswerIndex >= len(question.Options) {
			return fmt.Errorf("question %d answer_index %d out of range", i, question.AnswerIndex)
		}
	}
	return nil
}
