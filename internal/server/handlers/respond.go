// Package handlers содержит HTTP обработчики API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/folio/internal/server/collection"
	"github.com/iudanet/folio/internal/server/content"
	"github.com/iudanet/folio/internal/server/library"
	"github.com/iudanet/folio/internal/server/storage"
	"github.com/iudanet/folio/internal/validation"
	"github.com/iudanet/folio/pkg/api"
)

// maxBodySize ограничение размера тела JSON запроса
const maxBodySize = 1 << 20

// responder общие методы ответа для всех обработчиков
type responder struct {
	logger *slog.Logger
}

// sendJSON отправляет JSON ответ
func (h responder) sendJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func (h responder) sendError(w http.ResponseWriter, message string, statusCode int) {
	h.sendJSON(w, api.ErrorResponse{Error: message}, statusCode)
}

// decodeJSON читает тело запроса в v; при ошибке отвечает 400 и возвращает false
func (h responder) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(v); err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode request body", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// sendServiceError переводит ошибку сервиса в HTTP статус.
// Неизвестные ошибки логируются и отдаются клиенту как 500 без деталей.
func (h responder) sendServiceError(ctx context.Context, w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, validation.ErrInvalid):
		h.sendError(w, validation.Message(err), http.StatusBadRequest)
	case errors.Is(err, collection.ErrIndexOutOfRange):
		h.sendError(w, "index out of range", http.StatusBadRequest)
	case errors.Is(err, storage.ErrInvalidKey):
		h.sendError(w, "invalid key", http.StatusBadRequest)
	case errors.Is(err, collection.ErrNotFound),
		errors.Is(err, content.ErrNotFound),
		errors.Is(err, library.ErrNotFound):
		h.sendError(w, "not found", http.StatusNotFound)
	case errors.Is(err, content.ErrConflict):
		h.sendError(w, "a post with this title already exists", http.StatusConflict)
	default:
		h.logger.ErrorContext(ctx, "request failed", slog.String("op", op), slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
	}
}
