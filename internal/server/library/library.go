// Package library хранит метаданные документов библиотеки (PDF).
// Сами файлы загружаются отдельно; запись ссылается на уже сохраненный файл.
package library

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/iudanet/folio/internal/models"
	"github.com/iudanet/folio/internal/server/content"
	"github.com/iudanet/folio/internal/server/storage"
	"github.com/iudanet/folio/internal/validation"
)

const (
	// Key ключ документа библиотеки
	Key = "biblioteca"

	// DefaultCategory категория документа, если не указана
	DefaultCategory = "General"

	uploadsPath = "/uploads/biblioteca/"
)

// ErrNotFound документ с указанным id отсутствует
var ErrNotFound = errors.New("library item not found")

// ItemInput метаданные нового документа
type ItemInput struct {
	Pages        *int     `json:"pages,omitempty"`
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	FileName     string   `json:"fileName"`
	OriginalName string   `json:"originalName"`
	URL          string   `json:"url"`
	CoverURL     string   `json:"coverUrl,omitempty"`
	Tags         []string `json:"tags"`
	FileSize     int64    `json:"fileSize"`
}

// Service управляет списком документов
type Service struct {
	docs storage.DocumentStore
	now  func() time.Time
}

// NewService создает сервис библиотеки
func NewService(docs storage.DocumentStore) *Service {
	return &Service{docs: docs, now: time.Now}
}

// List возвращает документы, новые первыми
func (s *Service) List(ctx context.Context) ([]models.LibraryItem, error) {
	items, _, err := storage.GetJSON(ctx, s.docs, Key, []models.LibraryItem{})
	if err != nil {
		return nil, fmt.Errorf("failed to read library: %w", err)
	}
	return items, nil
}

// Add регистрирует документ в начале списка
func (s *Service) Add(ctx context.Context, in ItemInput) (models.LibraryItem, error) {
	title := strings.TrimSpace(in.Title)
	original := strings.TrimSpace(in.OriginalName)
	if title == "" && original == "" {
		return models.LibraryItem{}, validation.Invalidf("title or originalName is required")
	}

	name := original
	if name == "" {
		name = title
	}
	base := content.Slugify(strings.TrimSuffix(name, ".pdf"))
	if base == "" {
		return models.LibraryItem{}, validation.Invalidf("invalid document name")
	}

	now := s.now()
	id := fmt.Sprintf("%s-%d", base, now.UnixMilli())

	item := models.LibraryItem{
		ID:           id,
		Title:        title,
		Author:       strings.TrimSpace(in.Author),
		Description:  strings.TrimSpace(in.Description),
		Category:     strings.TrimSpace(in.Category),
		FileName:     strings.TrimSpace(in.FileName),
		OriginalName: original,
		URL:          strings.TrimSpace(in.URL),
		CoverURL:     strings.TrimSpace(in.CoverURL),
		Tags:         cleanTags(in.Tags),
		FileSize:     in.FileSize,
		Pages:        in.Pages,
		UploadedAt:   now.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
	if item.Title == "" {
		item.Title = strings.TrimSuffix(original, ".pdf")
	}
	if item.Category == "" {
		item.Category = DefaultCategory
	}
	if item.FileName == "" {
		item.FileName = id + ".pdf"
	}
	if item.URL == "" {
		item.URL = uploadsPath + item.FileName
	}

	_, err := storage.UpdateJSON(ctx, s.docs, Key, []models.LibraryItem{}, func(items *[]models.LibraryItem) error {
		*items = slices.Insert(*items, 0, item)
		return nil
	})
	if err != nil {
		return models.LibraryItem{}, err
	}

	return item, nil
}

// Delete удаляет документ по id
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return validation.Invalidf("id is required")
	}

	_, err := storage.UpdateJSON(ctx, s.docs, Key, []models.LibraryItem{}, func(items *[]models.LibraryItem) error {
		idx := slices.IndexFunc(*items, func(it models.LibraryItem) bool { return it.ID == id })
		if idx == -1 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		*items = slices.Delete(*items, idx, idx+1)
		return nil
	})
	return err
}

func cleanTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
