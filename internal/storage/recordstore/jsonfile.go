package recordstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONFile — Backend поверх плоского файла с JSON-массивом.
// Каждая операция читает файл целиком; запись — полная перезапись
// через temp → fsync → atomic rename.
type JSONFile struct {
	path string
}

// OpenJSONFile открывает файл коллекции. Отсутствующий файл создаётся
// с пустым массивом.
func OpenJSONFile(path string) (*JSONFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: не удалось создать директорию %s: %w", ErrStorage, dir, err)
	}

	f := &JSONFile{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := f.save(nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrStorage, path, err)
	}

	return f, nil
}

// Load читает и разбирает весь файл.
func (f *JSONFile) Load(_ context.Context) ([]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: чтение %s: %w", ErrStorage, f.path, err)
	}

	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: разбор %s: %w", ErrStorage, f.path, err)
	}
	return docs, nil
}

// Append читает файл, добавляет документ и перезаписывает файл целиком.
func (f *JSONFile) Append(ctx context.Context, doc json.RawMessage) error {
	docs, err := f.Load(ctx)
	if err != nil {
		return err
	}
	return f.save(append(docs, doc))
}

// ReplaceAt читает файл, заменяет документ pos и перезаписывает файл.
func (f *JSONFile) ReplaceAt(ctx context.Context, pos int, doc json.RawMessage) error {
	docs, err := f.Load(ctx)
	if err != nil {
		return err
	}
	if pos < 0 || pos >= len(docs) {
		return ErrNotFound
	}
	docs[pos] = doc
	return f.save(docs)
}

// Close — файл не держится открытым.
func (f *JSONFile) Close() error {
	return nil
}

func (f *JSONFile) save(docs []json.RawMessage) error {
	if docs == nil {
		docs = []json.RawMessage{}
	}
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: сериализация %s: %w", ErrStorage, f.path, err)
	}

	tmpPath := f.path + ".tmp"

	tmp, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("%w: создание временного файла: %w", ErrStorage, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: запись %s: %w", ErrStorage, f.path, err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: fsync %s: %w", ErrStorage, f.path, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: закрытие %s: %w", ErrStorage, f.path, err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: атомарное переименование %s: %w", ErrStorage, f.path, err)
	}

	return nil
}
