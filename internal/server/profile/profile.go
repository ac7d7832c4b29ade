// Package profile хранит баннер профиля со слайдами и карточку автора.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iudanet/folio/internal/models"
	"github.com/iudanet/folio/internal/server/collection"
	"github.com/iudanet/folio/internal/server/storage"
	"github.com/iudanet/folio/internal/validation"
)

// Ключи документов
const (
	ProfileKey = "profile-slides"
	AuthorKey  = "author"
)

// Update частичное изменение профиля: nil поля не меняются
type Update struct {
	Name     *string                `json:"name"`
	Subtitle *string                `json:"subtitle"`
	Bio      *string                `json:"bio"`
	Slides   *[]models.ProfileSlide `json:"slides"`
}

// AuthorUpdate частичное изменение карточки автора
type AuthorUpdate struct {
	Name    *string `json:"name"`
	Role    *string `json:"role"`
	Bio     *string `json:"bio"`
	Photo   *string `json:"photo"`
	Email   *string `json:"email"`
	Twitter *string `json:"twitter"`
}

// Service управляет профилем и автором
type Service struct {
	docs   storage.DocumentStore
	slides *collection.Store[models.ProfileSlide, *models.ProfileSlide]
}

// NewService создает сервис профиля
func NewService(docs storage.DocumentStore) *Service {
	return &Service{
		docs: docs,
		slides: collection.New(docs, ProfileKey,
			collection.WithCodec[models.ProfileSlide, *models.ProfileSlide](slidesCodec{})),
	}
}

// Get возвращает профиль, слайды по возрастанию order
func (s *Service) Get(ctx context.Context) (models.Profile, error) {
	p, _, err := storage.GetJSON(ctx, s.docs, ProfileKey, models.DefaultProfile())
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}

	slides, err := s.slides.List(ctx)
	if err != nil {
		return models.Profile{}, err
	}
	p.Slides = slides

	return p, nil
}

// Update меняет текстовые поля и, если передан, весь список слайдов
func (s *Service) Update(ctx context.Context, upd Update) (models.Profile, error) {
	return storage.UpdateJSON(ctx, s.docs, ProfileKey, models.DefaultProfile(), func(p *models.Profile) error {
		if upd.Name != nil {
			p.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Subtitle != nil {
			p.Subtitle = strings.TrimSpace(*upd.Subtitle)
		}
		if upd.Bio != nil {
			p.Bio = strings.TrimSpace(*upd.Bio)
		}
		if upd.Slides != nil {
			slides := make([]models.ProfileSlide, len(*upd.Slides))
			copy(slides, *upd.Slides)
			for i := range slides {
				if slides[i].ID == "" {
					return validation.Invalidf("slide id is required")
				}
			}
			collection.Reindex(slides)
			p.Slides = slides
		}
		if p.Slides == nil {
			p.Slides = []models.ProfileSlide{}
		}
		return nil
	})
}

// AddSlide добавляет слайд в конец баннера
func (s *Service) AddSlide(ctx context.Context, slide models.ProfileSlide) (models.ProfileSlide, error) {
	slide.Src = strings.TrimSpace(slide.Src)
	if slide.Src == "" {
		return models.ProfileSlide{}, validation.Invalidf("src is required")
	}
	if slide.Type == "" {
		slide.Type = models.DetectMediaType(slide.Src)
	}
	slide.Caption = strings.TrimSpace(slide.Caption)

	return s.slides.Append(ctx, slide)
}

// RemoveSlide удаляет слайд по id; отсутствующий id не ошибка
func (s *Service) RemoveSlide(ctx context.Context, id string) error {
	if id == "" {
		return validation.Invalidf("id is required")
	}
	return s.slides.Remove(ctx, id)
}

// Author возвращает карточку автора; поля, которых нет в документе, берутся по умолчанию
func (s *Service) Author(ctx context.Context) (models.Author, error) {
	a, _, err := storage.GetJSON(ctx, s.docs, AuthorKey, models.DefaultAuthor())
	if err != nil {
		return models.Author{}, fmt.Errorf("failed to read author: %w", err)
	}
	return a, nil
}

// UpdateAuthor применяет частичное изменение карточки автора
func (s *Service) UpdateAuthor(ctx context.Context, upd AuthorUpdate) (models.Author, error) {
	return storage.UpdateJSON(ctx, s.docs, AuthorKey, models.DefaultAuthor(), func(a *models.Author) error {
		set := func(dst *string, src *string) {
			if src != nil {
				*dst = *src
			}
		}
		set(&a.Name, upd.Name)
		set(&a.Role, upd.Role)
		set(&a.Bio, upd.Bio)
		set(&a.Photo, upd.Photo)
		set(&a.Email, upd.Email)
		set(&a.Twitter, upd.Twitter)
		return nil
	})
}

// slidesCodec хранит слайды в поле slides документа профиля,
// не трогая остальные поля
type slidesCodec struct{}

func (slidesCodec) Decode(doc []byte) ([]models.ProfileSlide, error) {
	var p models.Profile
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, err
	}
	if p.Slides == nil {
		p.Slides = []models.ProfileSlide{}
	}
	return p.Slides, nil
}

func (slidesCodec) Encode(doc []byte, items []models.ProfileSlide) ([]byte, error) {
	p := models.DefaultProfile()
	if doc != nil {
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, err
		}
	}
	p.Slides = items
	return storage.MarshalDocument(p)
}
