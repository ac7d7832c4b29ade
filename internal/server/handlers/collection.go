package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/iudanet/folio/internal/models"
	"github.com/iudanet/folio/internal/server/collection"
	"github.com/iudanet/folio/internal/validation"
	"github.com/iudanet/folio/pkg/api"
)

// CollectionHandler обслуживает упорядоченную коллекцию (слайды, соцсети)
type CollectionHandler[T any, P collection.Record[T]] struct {
	responder
	store   *collection.Store[T, P]
	prepare func(rec *T) error
}

// NewCollectionHandler создает handler коллекции.
// prepare проверяет и нормализует запись перед добавлением.
func NewCollectionHandler[T any, P collection.Record[T]](logger *slog.Logger, store *collection.Store[T, P], prepare func(rec *T) error) *CollectionHandler[T, P] {
	return &CollectionHandler[T, P]{
		responder: responder{logger: logger},
		store:     store,
		prepare:   prepare,
	}
}

// List обрабатывает GET: записи по возрастанию order
func (h *CollectionHandler[T, P]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		h.sendServiceError(r.Context(), w, err, "list")
		return
	}
	h.sendJSON(w, items, http.StatusOK)
}

// Create обрабатывает POST: добавляет запись в конец
func (h *CollectionHandler[T, P]) Create(w http.ResponseWriter, r *http.Request) {
	var rec T
	if !h.decodeJSON(w, r, &rec) {
		return
	}

	if h.prepare != nil {
		if err := h.prepare(&rec); err != nil {
			h.sendServiceError(r.Context(), w, err, "create")
			return
		}
	}

	created, err := h.store.Append(r.Context(), rec)
	if err != nil {
		h.sendServiceError(r.Context(), w, err, "create")
		return
	}
	h.sendJSON(w, created, http.StatusCreated)
}

// Update обрабатывает PUT. Варианты тела:
//   - ?swap=i,j: меняет местами две позиции, тело не читается
//   - массив: заменяет коллекцию в указанном порядке
//   - объект с id: обновляет переданные поля записи
func (h *CollectionHandler[T, P]) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if swap := r.URL.Query().Get("swap"); swap != "" {
		i, j, ok := parseSwap(swap)
		if !ok {
			h.sendError(w, "swap must be two indexes: i,j", http.StatusBadRequest)
			return
		}
		items, err := h.store.Swap(ctx, i, j)
		if err != nil {
			h.sendServiceError(ctx, w, err, "swap")
			return
		}
		h.sendJSON(w, items, http.StatusOK)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			h.sendError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if h.prepare != nil {
			for i := range items {
				if err := h.prepare(&items[i]); err != nil {
					h.sendServiceError(ctx, w, err, "replace")
					return
				}
			}
		}
		result, err := h.store.ReplaceAll(ctx, items)
		if err != nil {
			h.sendServiceError(ctx, w, err, "replace")
			return
		}
		h.sendJSON(w, result, http.StatusOK)
		return
	}

	// Сначала проверяем, что тело вообще подходит под T
	var head T
	if err := json.Unmarshal(body, &head); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	id := P(&head).GetID()
	if id == "" {
		h.sendError(w, "id is required", http.StatusBadRequest)
		return
	}

	// Поверх текущей записи декодируются только переданные поля,
	// затем запись проверяется так же, как при создании
	updated, err := h.store.Update(ctx, id, func(rec *T) error {
		if err := json.Unmarshal(body, rec); err != nil {
			return validation.Invalidf("invalid request body")
		}
		if h.prepare != nil {
			return h.prepare(rec)
		}
		return nil
	})
	if err != nil {
		h.sendServiceError(ctx, w, err, "update")
		return
	}
	h.sendJSON(w, updated, http.StatusOK)
}

// Delete обрабатывает DELETE ?id=
func (h *CollectionHandler[T, P]) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.sendError(w, "id is required", http.StatusBadRequest)
		return
	}

	if err := h.store.Remove(r.Context(), id); err != nil {
		h.sendServiceError(r.Context(), w, err, "delete")
		return
	}
	h.sendJSON(w, api.SuccessResponse{Success: true}, http.StatusOK)
}

func parseSwap(s string) (int, int, bool) {
	a, b, found := strings.Cut(s, ",")
	if !found {
		return 0, 0, false
	}
	i, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, false
	}
	j, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, false
	}
	return i, j, true
}

// PrepareHeroSlide требует src и определяет тип медиа по расширению
func PrepareHeroSlide(s *models.HeroSlide) error {
	s.Src = strings.TrimSpace(s.Src)
	if s.Src == "" {
		return validation.Invalidf("src is required")
	}
	if s.Type == "" {
		s.Type = models.DetectMediaType(s.Src)
	}
	s.Title = strings.TrimSpace(s.Title)
	s.Subtitle = strings.TrimSpace(s.Subtitle)
	s.Link = strings.TrimSpace(s.Link)
	return nil
}

// PrepareSocialLink требует name
func PrepareSocialLink(l *models.SocialLink) error {
	l.Name = strings.TrimSpace(l.Name)
	if l.Name == "" {
		return validation.Invalidf("name is required")
	}
	l.URL = strings.TrimSpace(l.URL)
	l.Description = strings.TrimSpace(l.Description)
	return nil
}
