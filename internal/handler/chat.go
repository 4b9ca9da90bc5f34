package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/educast/studio/internal/apperror"
	"github.com/educast/studio/internal/auth"
	"github.com/educast/studio/internal/service"
)

// ChatHandler exposes the study assistant endpoints.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// HandleSend exchanges one message with the assistant.
//
// POST /api/chat {"message", "session_id"?}
func (h *ChatHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	var req struct {
		Message   string `json:"message"`
		SessionID string `json:"session_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	exchange, err := h.chat.Send(r.Context(), user, req.Message, req.SessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Message processed", map[string]any{
		"session_id": exchange.SessionID,
		"response":   exchange.Reply.Message,
		"timestamp":  exchange.Reply.Timestamp,
	})
}

// HandleHistory returns the user's messages oldest-first.
//
// GET /api/chat/history?session_id=&limit=
func (h *ChatHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	history, err := h.chat.History(r.Context(), user, r.URL.Query().Get("session_id"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Chat history retrieved", map[string]any{
		"history": history,
		"count":   len(history),
	})
}

// HandleClearSession deletes one session's messages.
//
// DELETE /api/chat/history/{session}
func (h *ChatHandler) HandleClearSession(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	deleted, err := h.chat.ClearSession(r.Context(), user, chi.URLParam(r, "session"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Chat session cleared", map[string]any{"deleted": deleted})
}
