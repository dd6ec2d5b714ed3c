package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
	"github.com/Qu4nh/AI-Life-Coach/internal/infrastructure/logger"
	"github.com/Qu4nh/AI-Life-Coach/internal/llm"
	"github.com/Qu4nh/AI-Life-Coach/internal/planning"
)

func TestChatReplyTrimsLeadingModelTurns(t *testing.T) {
	stub := &stubLLM{text: "Bạn có thể dành bao nhiêu thời gian mỗi ngày?"}
	svc := NewChatService(stub, logger.NewNop())

	reply, err := svc.Reply(context.Background(), uuid.New(), []planning.ConversationMessage{
		{Role: planning.RoleModel, Content: "Chào bạn! Mục tiêu của bạn là gì?"},
		{Role: planning.RoleUser, Content: "Mình muốn học guitar"},
		{Role: planning.RoleModel, Content: "Tuyệt! Bạn đã từng chơi nhạc cụ nào chưa?"},
		{Role: planning.RoleUser, Content: "Chưa, mình là người mới hoàn toàn"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bạn có thể dành bao nhiêu thời gian mỗi ngày?", reply)

	// The canned greeting before the first user turn is dropped; the rest of
	// the transcript becomes history and the final user turn is the prompt.
	require.Len(t, stub.last.History, 2)
	assert.Equal(t, planning.RoleUser, stub.last.History[0].Role)
	assert.Equal(t, "Mình muốn học guitar", stub.last.History[0].Content)
	assert.Equal(t, "Chưa, mình là người mới hoàn toàn", stub.last.UserPrompt)
	assert.NotEmpty(t, stub.last.SystemPrompt)
}

func TestChatReplyProviderQuotaSurfacesAsRateLimited(t *testing.T) {
	stub := &stubLLM{err: fmt.Errorf("gemini: %w", llm.ErrRateLimited)}
	svc := NewChatService(stub, logger.NewNop())

	_, err := svc.Reply(context.Background(), uuid.New(), []planning.ConversationMessage{
		{Role: planning.RoleUser, Content: "Mình muốn học guitar"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrRateLimited)
	assert.NotErrorIs(t, err, entities.ErrUpstreamUnavailable)
}

func TestChatReplyRejectsBadTranscripts(t *testing.T) {
	svc := NewChatService(&stubLLM{text: "ok"}, logger.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Reply(ctx, userID, nil)
	assert.ErrorIs(t, err, entities.ErrInvalidInput)

	_, err = svc.Reply(ctx, userID, []planning.ConversationMessage{
		{Role: planning.RoleModel, Content: "Chào bạn!"},
	})
	assert.ErrorIs(t, err, entities.ErrInvalidInput)

	_, err = svc.Reply(ctx, userID, []planning.ConversationMessage{
		{Role: planning.RoleUser, Content: "Mình muốn học guitar"},
		{Role: planning.RoleModel, Content: "Tuyệt!"},
	})
	assert.ErrorIs(t, err, entities.ErrInvalidInput, "conversation must end with a user turn")
}
