package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/studia-app/studia/internal/llm"
)

// ChatService answers free-form study questions in a multi-turn
// conversation. Replies are plain text, not structured output.
type ChatService interface {
	Reply(ctx context.Context, history []ChatTurn, message string) (string, error)
}

type chatService struct {
	client llm.Client
}

func NewChatService(client llm.Client) ChatService {
	return &chatService{client: client}
}

func (s *chatService) Reply(ctx context.Context, history []ChatTurn, message string) (string, error) {
	if message == "" {
		return "", fmt.Errorf("message is required")
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskChat,
		SystemPrompt: chatSystemPrompt,
		UserPrompt:   buildChatPrompt(history, message),
	})
	if err != nil {
		return "", fmt.Errorf("chat failed: %w", err)
	}

	reply := strings.TrimSpace(resp.Text)
	if reply == "" {
		return "", llm.ErrInvalidOutput
	}
	return reply, nil
}

func buildChatPrompt(history []ChatTurn, currentMessage string) string {
	var b strings.Builder
	for _, turn := range history {
		b.WriteString(turn.Role)
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n\n")
	}
	b.WriteString("User: ")
	b.WriteString(currentMessage)
	return b.String()
}
