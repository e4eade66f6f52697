// Пакет recordstore — долговременное хранилище последовательностей записей.
//
// Collection — типизированная коллекция поверх Backend (JSON-файл или SQLite).
// Все циклы чтение→изменение→запись выполняются под мьютексом коллекции:
// конкурентные вызовы внутри процесса сериализуются и не теряют обновления.
// Формат хранения скрыт за Backend, вызывающий код видит только
// ReadAll / Append / Replace / Update.
package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Ошибки хранилища записей.
var (
	// ErrStorage — носитель недоступен или содержимое повреждено.
	ErrStorage = errors.New("ошибка хранилища записей")
	// ErrNotFound — ни одна запись не удовлетворяет условию.
	ErrNotFound = errors.New("запись не найдена")
)

// Имена коллекций.
const (
	CollectionIdentities = "users"
	CollectionDetails    = "details"
)

// Backend — носитель последовательности JSON-документов.
// Порядок документов стабилен: Append добавляет в конец,
// ReplaceAt заменяет документ на месте.
type Backend interface {
	// Load читает всю последовательность. Повреждённое содержимое —
	// ошибка целиком, частичный результат не возвращается.
	Load(ctx context.Context) ([]json.RawMessage, error)
	// Append добавляет документ в конец.
	Append(ctx context.Context, doc json.RawMessage) error
	// ReplaceAt заменяет документ с порядковым номером pos (в порядке Load).
	ReplaceAt(ctx context.Context, pos int, doc json.RawMessage) error
	// Close освобождает ресурсы носителя.
	Close() error
}

// Collection — коллекция записей типа T поверх Backend.
type Collection[T any] struct {
	name    string
	mu      sync.Mutex
	backend Backend
	logger  *slog.Logger
}

// NewCollection создаёт коллекцию с указанным именем.
func NewCollection[T any](name string, backend Backend, logger *slog.Logger) *Collection[T] {
	return &Collection[T]{
		name:    name,
		backend: backend,
		logger:  logger.With(slog.String("component", "recordstore"), slog.String("collection", name)),
	}
}

// ReadAll читает и декодирует все записи коллекции.
func (c *Collection[T]) ReadAll(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.readAll(ctx)
}

// Append добавляет запись в конец коллекции.
func (c *Collection[T]) Append(ctx context.Context, rec T) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: сериализация записи %s: %w", ErrStorage, c.name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.backend.Append(ctx, doc); err != nil {
		return err
	}

	c.logger.Debug("Запись добавлена")
	return nil
}

// Replace заменяет первую запись, для которой match возвращает true,
// сохраняя её позицию. ErrNotFound, если совпадений нет.
func (c *Collection[T]) Replace(ctx context.Context, match func(T) bool, rec T) error {
	_, err := c.Update(ctx, match, func(cur *T) error {
		*cur = rec
		return nil
	})
	return err
}

// Update находит первую запись по match, применяет к ней mutate и
// записывает результат на место — всё в одной критической секции.
// Ошибка mutate прерывает операцию без записи.
// Возвращает сохранённую запись.
func (c *Collection[T]) Update(ctx context.Context, match func(T) bool, mutate func(*T) error) (T, error) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.readAll(ctx)
	if err != nil {
		return zero, err
	}

	pos := -1
	for i, rec := range records {
		if match(rec) {
			pos = i
			break
		}
	}
	if pos == -1 {
		return zero, ErrNotFound
	}

	updated := records[pos]
	if err := mutate(&updated); err != nil {
		return zero, err
	}

	doc, err := json.Marshal(updated)
	if err != nil {
		return zero, fmt.Errorf("%w: сериализация записи %s: %w", ErrStorage, c.name, err)
	}
	if err := c.backend.ReplaceAt(ctx, pos, doc); err != nil {
		return zero, err
	}

	c.logger.Debug("Запись обновлена", slog.Int("position", pos))
	return updated, nil
}

// Close закрывает носитель коллекции.
func (c *Collection[T]) Close() error {
	return c.backend.Close()
}

func (c *Collection[T]) readAll(ctx context.Context) ([]T, error) {
	docs, err := c.backend.Load(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]T, 0, len(docs))
	for i, doc := range docs {
		var rec T
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, fmt.Errorf("%w: запись %d коллекции %s: %w", ErrStorage, i, c.name, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
