// Package collection реализует упорядоченную коллекцию записей поверх DocumentStore.
// Поле order всегда образует плотную последовательность 0..N-1, совпадающую с позицией в массиве.
package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/iudanet/folio/internal/models"
	"github.com/iudanet/folio/internal/server/storage"
	"github.com/iudanet/folio/internal/validation"
)

// Record ограничение для указателя на запись коллекции
type Record[T any] interface {
	*T
	GetID() string
	SetID(id string)
	GetOrder() int
	SetOrder(order int)
}

// Codec извлекает список записей из документа и встраивает его обратно.
// Позволяет хранить коллекцию внутри документа с другими полями (профиль).
type Codec[T any] interface {
	Decode(doc []byte) ([]T, error)
	Encode(doc []byte, items []T) ([]byte, error)
}

// Store хранит коллекцию записей под одним ключом документа
type Store[T any, P Record[T]] struct {
	docs  storage.DocumentStore
	codec Codec[T]
	seed  func() []T
	now   func() time.Time
	key   string
}

// Option настраивает Store
type Option[T any, P Record[T]] func(*Store[T, P])

// WithCodec задает формат документа (по умолчанию JSON-массив)
func WithCodec[T any, P Record[T]](codec Codec[T]) Option[T, P] {
	return func(s *Store[T, P]) {
		s.codec = codec
	}
}

// WithSeed задает записи, которые используются пока документ не создан
func WithSeed[T any, P Record[T]](seed func() []T) Option[T, P] {
	return func(s *Store[T, P]) {
		s.seed = seed
	}
}

// WithClock подменяет источник времени для генерации id
func WithClock[T any, P Record[T]](now func() time.Time) Option[T, P] {
	return func(s *Store[T, P]) {
		s.now = now
	}
}

// New создает коллекцию под ключом key
func New[T any, P Record[T]](docs storage.DocumentStore, key string, opts ...Option[T, P]) *Store[T, P] {
	s := &Store[T, P]{
		docs:  docs,
		key:   key,
		codec: ArrayCodec[T]{},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List возвращает записи по возрастанию order
func (s *Store[T, P]) List(ctx context.Context) ([]T, error) {
	doc, err := s.docs.Get(ctx, s.key)
	if err != nil && !errors.Is(err, storage.ErrDocumentNotFound) {
		return nil, fmt.Errorf("failed to read %s: %w", s.key, err)
	}

	return s.decode(doc)
}

// Append добавляет запись в конец: новый id и order = текущая длина
func (s *Store[T, P]) Append(ctx context.Context, rec T) (T, error) {
	var created T

	err := s.update(ctx, func(items []T) ([]T, error) {
		p := P(&rec)
		p.SetID(models.NewID(s.now()))
		p.SetOrder(len(items))
		created = rec
		return append(items, rec), nil
	})
	return created, err
}

// Update применяет patch к записи с указанным id.
// Поля, которые patch не трогает, сохраняют прежние значения.
// Ошибка patch отменяет запись целиком.
func (s *Store[T, P]) Update(ctx context.Context, id string, patch func(rec *T) error) (T, error) {
	var updated T

	err := s.update(ctx, func(items []T) ([]T, error) {
		idx := indexOf[T, P](items, id)
		if idx == -1 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		rec := items[idx]
		if err := patch(&rec); err != nil {
			return nil, err
		}

		// id и позицию patch менять не может
		p := P(&rec)
		p.SetID(id)
		p.SetOrder(idx)

		items[idx] = rec
		updated = rec
		return items, nil
	})
	return updated, err
}

// Remove удаляет запись и переиндексирует остальные.
// Отсутствующий id не считается ошибкой.
func (s *Store[T, P]) Remove(ctx context.Context, id string) error {
	return s.update(ctx, func(items []T) ([]T, error) {
		return slices.DeleteFunc(items, func(item T) bool {
			return P(&item).GetID() == id
		}), nil
	})
}

// ReplaceAll заменяет коллекцию целиком в указанном порядке.
// Записям без id выдается новый; повторяющийся id отклоняется.
func (s *Store[T, P]) ReplaceAll(ctx context.Context, items []T) ([]T, error) {
	var result []T

	err := s.update(ctx, func([]T) ([]T, error) {
		next := slices.Clone(items)
		if next == nil {
			next = []T{}
		}
		seen := make(map[string]struct{}, len(next))
		for i := range next {
			p := P(&next[i])
			if p.GetID() == "" {
				p.SetID(models.NewID(s.now()))
			}
			if _, dup := seen[p.GetID()]; dup {
				return nil, validation.Invalidf("duplicate id %q", p.GetID())
			}
			seen[p.GetID()] = struct{}{}
		}
		result = next
		return next, nil
	})
	return result, err
}

// Swap меняет местами записи на позициях i и j
func (s *Store[T, P]) Swap(ctx context.Context, i, j int) ([]T, error) {
	var result []T

	err := s.update(ctx, func(items []T) ([]T, error) {
		if i < 0 || j < 0 || i >= len(items) || j >= len(items) {
			return nil, fmt.Errorf("%w: %d,%d of %d", ErrIndexOutOfRange, i, j, len(items))
		}
		items[i], items[j] = items[j], items[i]
		result = items
		return items, nil
	})
	return result, err
}

// update выполняет read-modify-write в одной транзакции хранилища
// и восстанавливает плотный порядок перед записью
func (s *Store[T, P]) update(ctx context.Context, fn func(items []T) ([]T, error)) error {
	return s.docs.Update(ctx, s.key, func(doc []byte) ([]byte, error) {
		items, err := s.decode(doc)
		if err != nil {
			return nil, err
		}

		next, err := fn(items)
		if err != nil {
			return nil, err
		}

		Reindex[T, P](next)
		return s.codec.Encode(doc, next)
	})
}

// decode читает записи из документа, отсортированные по order
func (s *Store[T, P]) decode(doc []byte) ([]T, error) {
	if doc == nil {
		if s.seed != nil {
			return s.seed(), nil
		}
		return []T{}, nil
	}

	items, err := s.codec.Decode(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.key, err)
	}

	slices.SortStableFunc(items, func(a, b T) int {
		return P(&a).GetOrder() - P(&b).GetOrder()
	})
	return items, nil
}

// Reindex присваивает order = позиция в срезе
func Reindex[T any, P Record[T]](items []T) {
	for i := range items {
		P(&items[i]).SetOrder(i)
	}
}

func indexOf[T any, P Record[T]](items []T, id string) int {
	return slices.IndexFunc(items, func(item T) bool {
		return P(&item).GetID() == id
	})
}

// ArrayCodec хранит коллекцию как JSON-массив
type ArrayCodec[T any] struct{}

// Decode implements Codec
func (ArrayCodec[T]) Decode(doc []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(doc, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Encode implements Codec
func (ArrayCodec[T]) Encode(_ []byte, items []T) ([]byte, error) {
	return storage.MarshalDocument(items)
}
