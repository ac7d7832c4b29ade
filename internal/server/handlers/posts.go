package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/folio/internal/models"
	"github.com/iudanet/folio/internal/server/content"
	"github.com/iudanet/folio/pkg/api"
)

// PostsHandler обрабатывает /api/posts
type PostsHandler struct {
	responder
	posts *content.Store
}

// NewPostsHandler создает handler постов
func NewPostsHandler(logger *slog.Logger, posts *content.Store) *PostsHandler {
	return &PostsHandler{
		responder: responder{logger: logger},
		posts:     posts,
	}
}

type postUpdateRequest struct {
	Slug string `json:"slug"`
	content.PostInput
}

// List обрабатывает GET /api/posts.
// ?slug= возвращает один пост, ?featured=true только избранные.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if slug := q.Get("slug"); slug != "" {
		post, err := h.posts.Get(ctx, slug)
		if err != nil {
			h.sendServiceError(ctx, w, err, "get post")
			return
		}
		h.sendJSON(w, post, http.StatusOK)
		return
	}

	posts, err := h.posts.List(ctx)
	if err != nil {
		h.sendServiceError(ctx, w, err, "list posts")
		return
	}

	if q.Get("featured") == "true" {
		featured := make([]models.Post, 0, len(posts))
		for _, p := range posts {
			if p.Featured {
				featured = append(featured, p)
			}
		}
		posts = featured
	}

	h.sendJSON(w, posts, http.StatusOK)
}

// Tags обрабатывает GET /api/posts/tags
func (h *PostsHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.posts.Tags(r.Context())
	if err != nil {
		h.sendServiceError(r.Context(), w, err, "list tags")
		return
	}
	h.sendJSON(w, tags, http.StatusOK)
}

// Categories обрабатывает GET /api/posts/categories
func (h *PostsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.posts.Categories(r.Context())
	if err != nil {
		h.sendServiceError(r.Context(), w, err, "list categories")
		return
	}
	h.sendJSON(w, categories, http.StatusOK)
}

// Create обрабатывает POST /api/posts
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in content.PostInput
	if !h.decodeJSON(w, r, &in) {
		return
	}

	slug, err := h.posts.Create(r.Context(), in)
	if err != nil {
		h.sendServiceError(r.Context(), w, err, "create post")
		return
	}

	h.sendJSON(w, api.PostCreatedResponse{
		Success: true,
		Slug:    slug,
		Message: "post created",
	}, http.StatusCreated)
}

// Update обрабатывает PUT /api/posts, slug передается в теле
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req postUpdateRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.posts.Update(r.Context(), req.Slug, req.PostInput); err != nil {
		h.sendServiceError(r.Context(), w, err, "update post")
		return
	}

	h.sendJSON(w, api.PostCreatedResponse{
		Success: true,
		Slug:    req.Slug,
		Message: "post updated",
	}, http.StatusOK)
}

// Delete обрабатывает DELETE /api/posts?slug=
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.posts.Delete(r.Context(), r.URL.Query().Get("slug")); err != nil {
		h.sendServiceError(r.Context(), w, err, "delete post")
		return
	}
	h.sendJSON(w, api.SuccessResponse{Success: true, Message: "post deleted"}, http.StatusOK)
}
