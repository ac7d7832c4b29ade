// Package content хранит посты блога как Markdown-файлы с YAML frontmatter,
// по одному файлу <slug>.md на пост.
package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/iudanet/folio/internal/fsutil"
	"github.com/iudanet/folio/internal/models"
	"github.com/iudanet/folio/internal/validation"
)

const (
	ext = ".md"

	// DefaultCategory категория поста, если не указана
	DefaultCategory = "general"
	// DefaultType тип поста, если не указан
	DefaultType = "article"

	dateLayout = "2006-01-02"
)

// PostInput поля поста, которые задает автор
type PostInput struct {
	Title    string   `json:"title"`
	Heading  string   `json:"heading"`
	Date     string   `json:"date"`
	Category string   `json:"category"`
	Type     string   `json:"type"`
	Excerpt  string   `json:"excerpt"`
	Cover    string   `json:"cover"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Featured bool     `json:"featured"`
}

// Store репозиторий постов в каталоге dir
type Store struct {
	logger *slog.Logger
	locks  *fsutil.KeyedMutex
	now    func() time.Time
	dir    string
}

// NewStore создает репозиторий; каталог создается при первой записи
func NewStore(logger *slog.Logger, dir string) *Store {
	return &Store{
		logger: logger,
		dir:    dir,
		locks:  fsutil.NewKeyedMutex(),
		now:    time.Now,
	}
}

func (s *Store) path(slug string) string {
	return filepath.Join(s.dir, slug+ext)
}

// Create создает пост, slug выводится из заголовка.
// Возвращает ErrConflict, если пост с таким slug уже есть; существующий файл не меняется.
func (s *Store) Create(ctx context.Context, in PostInput) (string, error) {
	if err := validateInput(in); err != nil {
		return "", err
	}

	slug := Slugify(in.Title)
	if slug == "" {
		return "", validation.Invalidf("title must contain letters or digits")
	}

	unlock := s.locks.Lock(slug)
	defer unlock()

	exists, err := s.exists(slug)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("%w: %s", ErrConflict, slug)
	}

	if err := s.write(ctx, slug, in); err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "post created", slog.String("slug", slug))
	return slug, nil
}

// Update полностью перезаписывает существующий пост
func (s *Store) Update(ctx context.Context, slug string, in PostInput) error {
	if err := validation.ValidateSlug(slug); err != nil {
		return err
	}
	if err := validateInput(in); err != nil {
		return err
	}

	unlock := s.locks.Lock(slug)
	defer unlock()

	exists, err := s.exists(slug)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, slug)
	}

	if err := s.write(ctx, slug, in); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "post updated", slog.String("slug", slug))
	return nil
}

// Delete удаляет файл поста
func (s *Store) Delete(ctx context.Context, slug string) error {
	if err := validation.ValidateSlug(slug); err != nil {
		return err
	}

	unlock := s.locks.Lock(slug)
	defer unlock()

	if err := os.Remove(s.path(slug)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, slug)
		}
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.logger.InfoContext(ctx, "post deleted", slog.String("slug", slug))
	return nil
}

// Get читает один пост
func (s *Store) Get(ctx context.Context, slug string) (models.Post, error) {
	if err := validation.ValidateSlug(slug); err != nil {
		return models.Post{}, err
	}

	data, err := os.ReadFile(s.path(slug))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Post{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
		}
		return models.Post{}, fmt.Errorf("failed to read post: %w", err)
	}

	return parse(slug, data)
}

// List читает все посты каталога, новые первыми (при равной дате по slug).
// Файлы с битым frontmatter пропускаются с предупреждением в логе.
func (s *Store) List(ctx context.Context) ([]models.Post, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.Post{}, nil
		}
		return nil, fmt.Errorf("failed to read posts directory: %w", err)
	}

	posts := make([]models.Post, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ext) {
			continue
		}
		slug := strings.TrimSuffix(name, ext)
		if validation.ValidateSlug(slug) != nil {
			continue
		}

		post, err := s.Get(ctx, slug)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping unreadable post",
				slog.String("slug", slug),
				slog.Any("error", err))
			continue
		}
		posts = append(posts, post)
	}

	slices.SortFunc(posts, func(a, b models.Post) int {
		if c := strings.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Slug, b.Slug)
	})

	return posts, nil
}

// Tags возвращает отсортированный список уникальных тегов
func (s *Store) Tags(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, func(p models.Post) []string { return p.Tags })
}

// Categories возвращает отсортированный список уникальных категорий
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, func(p models.Post) []string { return []string{p.Category} })
}

func (s *Store) distinct(ctx context.Context, values func(models.Post) []string) ([]string, error) {
	posts, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, p := range posts {
		for _, v := range values(p) {
			if v != "" {
				out = append(out, v)
			}
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (s *Store) exists(slug string) (bool, error) {
	_, err := os.Stat(s.path(slug))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat post: %w", err)
}

func (s *Store) write(ctx context.Context, slug string, in PostInput) error {
	post := models.Post{
		Title:    strings.TrimSpace(in.Title),
		Slug:     slug,
		Heading:  strings.TrimSpace(in.Heading),
		Date:     in.Date,
		Category: in.Category,
		Tags:     in.Tags,
		Type:     in.Type,
		Excerpt:  in.Excerpt,
		Cover:    in.Cover,
		Featured: in.Featured,
		Content:  in.Content,
	}
	if post.Date == "" {
		post.Date = s.now().Format(dateLayout)
	}
	if post.Category == "" {
		post.Category = DefaultCategory
	}
	if post.Type == "" {
		post.Type = DefaultType
	}

	data, err := render(post)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := fsutil.WriteFileAtomic(s.path(slug), data, 0o644); err != nil {
		return fmt.Errorf("failed to write post: %w", err)
	}
	return nil
}

func validateInput(in PostInput) error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return validation.Invalidf("title and content are required")
	}
	if in.Date != "" {
		if _, err := time.Parse(dateLayout, in.Date); err != nil {
			return validation.Invalidf("date must be in YYYY-MM-DD format")
		}
	}
	return nil
}
