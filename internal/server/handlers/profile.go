package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/folio/internal/models"
	"github.com/iudanet/folio/internal/server/profile"
	"github.com/iudanet/folio/pkg/api"
)

// ProfileHandler обрабатывает /api/profile и /api/author
type ProfileHandler struct {
	responder
	profile *profile.Service
}

// NewProfileHandler создает handler профиля
func NewProfileHandler(logger *slog.Logger, svc *profile.Service) *ProfileHandler {
	return &ProfileHandler{
		responder: responder{logger: logger},
		profile:   svc,
	}
}

// Get обрабатывает GET /api/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.profile.Get(r.Context())
	if err != nil {
		h.sendServiceError(r.Context(), w, err, "get profile")
		return
	}
	h.sendJSON(w, p, http.StatusOK)
}

// Update обрабатывает PUT /api/profile: текстовые поля и необязательный массив slides
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var upd profile.Update
	if !h.decodeJSON(w, r, &upd) {
		return
	}

	p, err := h.profile.Update(r.Context(), upd)
	if err != nil {
		h.sendServiceError(r.Context(), w, err, "update profile")
		return
	}
	h.sendJSON(w, p, http.StatusOK)
}

// AddSlide обрабатывает POST /api/profile
func (h *ProfileHandler) AddSlide(w http.ResponseWriter, r *http.Request) {
	var slide models.ProfileSlide
	if !h.decodeJSON(w, r, &slide) {
		return
	}

	created, err := h.profile.AddSlide(r.Context(), slide)
	if err != nil {
		h.sendServiceError(r.Context(), w, err, "add profile slide")
		return
	}
	h.sendJSON(w, created, http.StatusCreated)
}

// RemoveSlide обрабатывает DELETE /api/profile?id=
func (h *ProfileHandler) RemoveSlide(w http.ResponseWriter, r *http.Request) {
	if err := h.profile.RemoveSlide(r.Context(), r.URL.Query().Get("id")); err != nil {
		h.sendServiceError(r.Context(), w, err, "remove profile slide")
		return
	}
	h.sendJSON(w, api.SuccessResponse{Success: true}, http.StatusOK)
}

// Author обрабатывает GET /api/author
func (h *ProfileHandler) Author(w http.ResponseWriter, r *http.Request) {
	a, err := h.profile.Author(r.Context())
	if err != nil {
		h.sendServiceError(r.Context(), w, err, "get author")
		return
	}
	h.sendJSON(w, a, http.StatusOK)
}

// UpdateAuthor обрабатывает PUT /api/author
func (h *ProfileHandler) UpdateAuthor(w http.ResponseWriter, r *http.Request) {
	var upd profile.AuthorUpdate
	if !h.decodeJSON(w, r, &upd) {
		return
	}

	a, err := h.profile.UpdateAuthor(r.Context(), upd)
	if err != nil {
		h.sendServiceError(r.Context(), w, err, "update author")
		return
	}
	h.sendJSON(w, a, http.StatusOK)
}
