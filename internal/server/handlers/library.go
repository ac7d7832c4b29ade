package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/folio/internal/models"
	"github.com/iudanet/folio/internal/server/library"
	"github.com/iudanet/folio/pkg/api"
)

// LibraryHandler обрабатывает /api/biblioteca
type LibraryHandler struct {
	responder
	library *library.Service
}

// NewLibraryHandler создает handler библиотеки
func NewLibraryHandler(logger *slog.Logger, svc *library.Service) *LibraryHandler {
	return &LibraryHandler{
		responder: responder{logger: logger},
		library:   svc,
	}
}

type libraryCreatedResponse struct {
	Item    models.LibraryItem `json:"item"`
	Success bool               `json:"success"`
}

// List обрабатывает GET /api/biblioteca
func (h *LibraryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.library.List(r.Context())
	if err != nil {
		h.sendServiceError(r.Context(), w, err, "list library")
		return
	}
	h.sendJSON(w, items, http.StatusOK)
}

// Create обрабатывает POST /api/biblioteca
func (h *LibraryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in library.ItemInput
	if !h.decodeJSON(w, r, &in) {
		return
	}

	item, err := h.library.Add(r.Context(), in)
	if err != nil {
		h.sendServiceError(r.Context(), w, err, "add library item")
		return
	}
	h.sendJSON(w, libraryCreatedResponse{Item: item, Success: true}, http.StatusCreated)
}

// Delete обрабатывает DELETE /api/biblioteca: id в ?id= или в теле {"id": ...}
func (h *LibraryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" && r.Body != nil {
		var req api.DeleteRequest
		// Пустое или битое тело означает отсутствие id
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err == nil {
			id = req.ID
		}
	}

	if err := h.library.Delete(r.Context(), id); err != nil {
		h.sendServiceError(r.Context(), w, err, "delete library item")
		return
	}
	h.sendJSON(w, api.SuccessResponse{Success: true}, http.StatusOK)
}
