// Package comments хранит ветки комментариев к постам, по документу на пост.
package comments

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/iudanet/folio/internal/models"
	"github.com/iudanet/folio/internal/server/storage"
	"github.com/iudanet/folio/internal/validation"
)

// Лимиты длины в символах
const (
	MaxAuthorLen  = 50
	MaxContentLen = 2000
)

// Cascade определяет, что удаляется вместе с комментарием
type Cascade string

const (
	// CascadeDirect удаляет комментарий и прямые ответы на него
	CascadeDirect Cascade = "direct"
	// CascadeDeep удаляет все поддерево ответов
	CascadeDeep Cascade = "deep"
)

// Service управляет комментариями
type Service struct {
	docs    storage.DocumentStore
	now     func() time.Time
	cascade Cascade
}

// NewService создает сервис комментариев
func NewService(docs storage.DocumentStore, cascade Cascade) *Service {
	if cascade != CascadeDeep {
		cascade = CascadeDirect
	}
	return &Service{
		docs:    docs,
		cascade: cascade,
		now:     time.Now,
	}
}

func key(slug string) string {
	return "comments/" + slug
}

// List возвращает комментарии поста в порядке добавления
func (s *Service) List(ctx context.Context, slug string) ([]models.Comment, error) {
	if err := validation.ValidateSlug(slug); err != nil {
		return nil, err
	}

	list, _, err := storage.GetJSON(ctx, s.docs, key(slug), []models.Comment{})
	if err != nil {
		return nil, fmt.Errorf("failed to read comments: %w", err)
	}
	return list, nil
}

// Add добавляет комментарий. author и content очищаются от HTML и проверяются по длине.
// parentID, если задан, должен ссылаться на существующий комментарий этого поста.
func (s *Service) Add(ctx context.Context, slug, author, content, parentID string) (models.Comment, error) {
	if err := validation.ValidateSlug(slug); err != nil {
		return models.Comment{}, err
	}

	cleanAuthor, err := validation.CleanText("author", author, MaxAuthorLen)
	if err != nil {
		return models.Comment{}, err
	}
	cleanContent, err := validation.CleanText("content", content, MaxContentLen)
	if err != nil {
		return models.Comment{}, err
	}

	now := s.now()
	comment := models.Comment{
		ID:      models.NewID(now),
		Author:  cleanAuthor,
		Content: cleanContent,
		Date:    now.UTC().Format(time.RFC3339),
	}
	if parentID = strings.TrimSpace(parentID); parentID != "" {
		comment.ParentID = &parentID
	}

	_, err = storage.UpdateJSON(ctx, s.docs, key(slug), []models.Comment{}, func(list *[]models.Comment) error {
		if comment.ParentID != nil && !slices.ContainsFunc(*list, func(c models.Comment) bool {
			return c.ID == parentID
		}) {
			return validation.Invalidf("parent comment not found")
		}
		*list = append(*list, comment)
		return nil
	})
	if err != nil {
		return models.Comment{}, err
	}

	return comment, nil
}

// Delete удаляет комментарий вместе с ответами согласно режиму каскада.
// Возвращает число удаленных комментариев; отсутствующий id не ошибка.
func (s *Service) Delete(ctx context.Context, slug, id string) (int, error) {
	if err := validation.ValidateSlug(slug); err != nil {
		return 0, err
	}
	if id == "" {
		return 0, validation.Invalidf("id is required")
	}

	removed := 0
	_, err := storage.UpdateJSON(ctx, s.docs, key(slug), []models.Comment{}, func(list *[]models.Comment) error {
		doomed := s.collect(*list, id)
		before := len(*list)
		*list = slices.DeleteFunc(*list, func(c models.Comment) bool {
			_, ok := doomed[c.ID]
			return ok
		})
		removed = before - len(*list)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}

// collect возвращает множество id для удаления
func (s *Service) collect(list []models.Comment, id string) map[string]struct{} {
	doomed := map[string]struct{}{id: {}}

	parentOf := func(c models.Comment) string {
		if c.ParentID == nil {
			return ""
		}
		return *c.ParentID
	}

	if s.cascade == CascadeDirect {
		for _, c := range list {
			if parentOf(c) == id {
				doomed[c.ID] = struct{}{}
			}
		}
		return doomed
	}

	// Поддерево: повторяем проход, пока множество растет
	for grown := true; grown; {
		grown = false
		for _, c := range list {
			if _, ok := doomed[c.ID]; ok {
				continue
			}
			if _, ok := doomed[parentOf(c)]; ok {
				doomed[c.ID] = struct{}{}
				grown = true
			}
		}
	}
	return doomed
}
