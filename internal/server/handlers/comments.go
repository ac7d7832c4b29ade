package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/folio/internal/server/comments"
	"github.com/iudanet/folio/pkg/api"
)

// CommentsHandler обрабатывает /api/comments
type CommentsHandler struct {
	responder
	comments *comments.Service
}

// NewCommentsHandler создает handler комментариев
func NewCommentsHandler(logger *slog.Logger, svc *comments.Service) *CommentsHandler {
	return &CommentsHandler{
		responder: responder{logger: logger},
		comments:  svc,
	}
}

// List обрабатывает GET /api/comments?slug=
func (h *CommentsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.comments.List(r.Context(), r.URL.Query().Get("slug"))
	if err != nil {
		h.sendServiceError(r.Context(), w, err, "list comments")
		return
	}
	h.sendJSON(w, list, http.StatusOK)
}

// Create обрабатывает POST /api/comments
func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CommentRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	c, err := h.comments.Add(r.Context(), req.Slug, req.Author, req.Content, req.ParentID)
	if err != nil {
		h.sendServiceError(r.Context(), w, err, "add comment")
		return
	}

	h.logger.InfoContext(r.Context(), "comment added",
		slog.String("slug", req.Slug),
		slog.String("id", c.ID))
	h.sendJSON(w, c, http.StatusCreated)
}

// Delete обрабатывает DELETE /api/comments?slug=&id=
func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	removed, err := h.comments.Delete(r.Context(), q.Get("slug"), q.Get("id"))
	if err != nil {
		h.sendServiceError(r.Context(), w, err, "delete comment")
		return
	}

	h.logger.InfoContext(r.Context(), "comments deleted",
		slog.String("slug", q.Get("slug")),
		slog.Int("removed", removed))
	h.sendJSON(w, api.SuccessResponse{Success: true}, http.StatusOK)
}
