package service

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educast/studio/internal/apperror"
	"github.com/educast/studio/internal/chat"
	"github.com/educast/studio/internal/model"
)

type fakeChatRepo struct {
	msgs   []model.ChatMessage
	nextID int
}

func (f *fakeChatRepo) Append(_ context.Context, msg *model.ChatMessage) error {
	f.nextID++
	msg.ID = "msg-" + strconv.Itoa(f.nextID)
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	f.msgs = append(f.msgs, *msg)
	return nil
}

func (f *fakeChatRepo) History(_ context.Context, userID, sessionID string, limit int) ([]model.ChatMessage, error) {
	out := []model.ChatMessage{}
	for _, m := range f.msgs {
		if m.UserID == userID && (sessionID == "" || m.SessionID == sessionID) {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeChatRepo) ClearSession(_ context.Context, userID, sessionID string) (int, error) {
	kept := f.msgs[:0]
	deleted := 0
	for _, m := range f.msgs {
		if m.UserID == userID && (sessionID == "" || m.SessionID == sessionID) {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	f.msgs = kept
	return deleted, nil
}

func newTestChatService(repo *fakeChatRepo) *ChatService {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewChatService(repo, chat.NewResponder(1), logger)
}

func TestChatSend(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := newTestChatService(repo)
	user := testUser("u1", model.RoleUser)
	ctx := context.Background()

	ex, err := svc.Send(ctx, user, "tell me about gatsby", "")
	require.NoError(t, err)
	assert.NotEmpty(t, ex.SessionID, "a session id is minted when absent")
	assert.True(t, ex.UserMsg.IsUser)
	assert.False(t, ex.Reply.IsUser)
	assert.Contains(t, ex.Reply.Message, "The Great Gatsby")
	assert.Len(t, repo.msgs, 2, "both sides of the exchange are stored")

	// Same session id sticks for the follow-up.
	followup, err := svc.Send(ctx, user, "thanks!", ex.SessionID)
	require.NoError(t, err)
	assert.Equal(t, ex.SessionID, followup.SessionID)
}

func TestChatSend_EmptyMessage(t *testing.T) {
	svc := newTestChatService(&fakeChatRepo{})

	_, err := svc.Send(context.Background(), testUser("u1", model.RoleUser), "   ", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestChatHistoryLimits(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := newTestChatService(repo)
	user := testUser("u1", model.RoleUser)
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		_, err := svc.Send(ctx, user, "message "+strconv.Itoa(i), "s1")
		require.NoError(t, err)
	}

	// limit <= 0 falls back to 50, and the cap is 100.
	history, err := svc.History(ctx, user, "s1", 0)
	require.NoError(t, err)
	assert.Len(t, history, 50)

	history, err = svc.History(ctx, user, "s1", 1000)
	require.NoError(t, err)
	assert.Len(t, history, 100)
}

func TestChatClearSession(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := newTestChatService(repo)
	user := testUser("u1", model.RoleUser)
	ctx := context.Background()

	_, err := svc.Send(ctx, user, "hello", "s1")
	require.NoError(t, err)
	_, err = svc.Send(ctx, user, "hello again", "s2")
	require.NoError(t, err)

	deleted, err := svc.ClearSession(ctx, user, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	remaining, err := svc.History(ctx, user, "", 100)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}
