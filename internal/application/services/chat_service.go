package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
	"github.com/Qu4nh/AI-Life-Coach/internal/infrastructure/logger"
	"github.com/Qu4nh/AI-Life-Coach/internal/llm"
	"github.com/Qu4nh/AI-Life-Coach/internal/planning"
)

// ChatService drives the onboarding interview conversation.
type ChatService struct {
	client llm.Client
	logger *logger.Logger
}

// NewChatService creates a new chat service
func NewChatService(client llm.Client, logger *logger.Logger) *ChatService {
	return &ChatService{client: client, logger: logger}
}

// Reply answers the latest user turn of the onboarding conversation. The
// transcript is trimmed so history starts at the first user turn, since the
// UI opens with a canned greeting from the coach.
func (s *ChatService) Reply(ctx context.Context, userID uuid.UUID, messages []planning.ConversationMessage) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("%w: conversation is empty", entities.ErrInvalidInput)
	}

	trimmed := trimToFirstUserTurn(messages)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("%w: conversation has no user turn", entities.ErrInvalidInput)
	}

	last := trimmed[len(trimmed)-1]
	if last.Role != planning.RoleUser || strings.TrimSpace(last.Content) == "" {
		return "", fmt.Errorf("%w: conversation must end with a user message", entities.ErrInvalidInput)
	}

	history := make([]llm.Message, 0, len(trimmed)-1)
	for _, m := range trimmed[:len(trimmed)-1] {
		history = append(history, llm.Message{Role: m.Role, Content: m.Content})
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: planning.ChatSystemPrompt(),
		UserPrompt:   last.Content,
		History:      history,
	})
	if err != nil {
		s.logger.LogGeneration("chat", userID.String(), 0, err)
		return "", mapGenerationError(err)
	}

	s.logger.LogGeneration("chat", userID.String(), resp.LatencyMs, nil)
	return resp.Text, nil
}

func trimToFirstUserTurn(messages []planning.ConversationMessage) []planning.ConversationMessage {
	for i, m := range messages {
		if m.Role == planning.RoleUser {
			return messages[i:]
		}
	}
	return nil
}
