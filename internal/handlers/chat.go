package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"serenity-backend/internal/middleware"
	"serenity-backend/internal/models"
	"serenity-backend/internal/services"
)

// titleLen is how much of the message becomes the display title.
const titleLen = 30

type chatRepository interface {
	Create(ctx context.Context, chat *models.Chat) error
	ListByUser(ctx context.Context, userID int64) ([]models.Chat, error)
	GetByID(ctx context.Context, id int64) (*models.Chat, error)
	DeleteByID(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) error
}

type completionClient interface {
	Complete(ctx context.Context, message string) (string, error)
}

type ChatHandler struct {
	chatRepo   chatRepository
	completion completionClient
	logger     *zap.Logger
}

func NewChatHandler(chatRepo chatRepository, completion completionClient, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatRepo:   chatRepo,
		completion: completion,
		logger:     logger,
	}
}

// SendMessage relays the message to the completion API and, only after a
// successful reply, persists the exchange. A failed upstream call never
// writes a row.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is required", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	reply, err := h.completion.Complete(r.Context(), message)
	if err != nil {
		var upstream *services.UpstreamError
		if errors.As(err, &upstream) {
			h.logger.Warn("upstream completion failed",
				zap.Int64("user_id", userID),
				zap.Error(err))
			handleServiceError(w, r, upstream)
			return
		}
		h.logger.Error("completion failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
		return
	}

	chat := &models.Chat{
		UserID:   userID,
		Title:    truncateTitle(message),
		Message:  message,
		Response: reply,
	}
	if err := h.chatRepo.Create(r.Context(), chat); err != nil {
		h.logger.Error("failed to save chat", zap.Int64("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save chat", r))
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply})
}

// History returns every chat row owned by the session user, oldest first.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	chats, err := h.chatRepo.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list history", zap.Int64("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load history", r))
		return
	}

	writeJSON(w, http.StatusOK, chats)
}

// DeleteChat removes one chat row. The caller must own it.
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid chat ID", r))
		return
	}

	chat, err := h.chatRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Chat not found", r))
			return
		}
		h.logger.Error("failed to load chat", zap.Int64("chat_id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
		return
	}

	if chat.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return
	}

	if err := h.chatRepo.DeleteByID(r.Context(), id); err != nil {
		h.logger.Error("failed to delete chat", zap.Int64("chat_id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete chat", r))
		return
	}

	writeJSON(w, http.StatusOK, models.StatusResponse{Status: "success"})
}

// ClearHistory removes all chat rows belonging to the session user.
func (h *ChatHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.chatRepo.DeleteByUser(r.Context(), userID); err != nil {
		h.logger.Error("failed to clear history", zap.Int64("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to clear history", r))
		return
	}

	writeJSON(w, http.StatusOK, models.StatusResponse{Status: "all history cleared"})
}

func truncateTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= titleLen {
		return message
	}
	return string(runes[:titleLen])
}
