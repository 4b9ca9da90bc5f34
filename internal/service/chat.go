package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rs/xid"

	"github.com/educast/studio/internal/apperror"
	"github.com/educast/studio/internal/chat"
	"github.com/educast/studio/internal/model"
	"github.com/educast/studio/internal/repository"
)

// ChatService runs the scripted assistant and keeps per-user history.
type ChatService struct {
	history   repository.ChatRepository
	responder *chat.Responder
	logger    *slog.Logger
}

// NewChatService wires the chat business logic.
func NewChatService(history repository.ChatRepository, responder *chat.Responder, logger *slog.Logger) *ChatService {
	return &ChatService{history: history, responder: responder, logger: logger}
}

// Exchange is one user message and the assistant's reply.
type Exchange struct {
	SessionID string             `json:"session_id"`
	UserMsg   *model.ChatMessage `json:"user_message"`
	Reply     *model.ChatMessage `json:"reply"`
}

// Send stores the user's message, generates a reply and stores that
// too. A missing session id starts a new session.
func (s *ChatService) Send(ctx context.Context, user *model.User, message, sessionID string) (*Exchange, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperror.ValidationFailed("message", "message is required")
	}
	if sessionID == "" {
		sessionID = xid.New().String()
	}

	userMsg := &model.ChatMessage{
		UserID:    user.ID,
		Message:   message,
		IsUser:    true,
		SessionID: sessionID,
	}
	if err := s.history.Append(ctx, userMsg); err != nil {
		return nil, err
	}

	reply := &model.ChatMessage{
		UserID:    user.ID,
		Message:   s.responder.Reply(message),
		IsUser:    false,
		SessionID: sessionID,
	}
	if err := s.history.Append(ctx, reply); err != nil {
		return nil, err
	}

	return &Exchange{SessionID: sessionID, UserMsg: userMsg, Reply: reply}, nil
}

const maxHistoryLimit = 100

// History returns the user's messages oldest-first.
func (s *ChatService) History(ctx context.Context, user *model.User, sessionID string, limit int) ([]model.ChatMessage, error) {
	if limit < 1 {
		limit = 50
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.history.History(ctx, user.ID, sessionID, limit)
}

// ClearSession removes one session's messages and reports how many.
func (s *ChatService) ClearSession(ctx context.Context, user *model.User, sessionID string) (int, error) {
	deleted, err := s.history.ClearSession(ctx, user.ID, sessionID)
	if err != nil {
		return 0, err
	}
	s.logger.Info("chat session cleared",
		slog.String("userID", user.ID),
		slog.String("sessionID", sessionID),
		slog.Int("deleted", deleted))
	return deleted, nil
}
