package recordstore

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bigkaa/profilestore/internal/domain/model"
)

// Типы носителя.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// sqliteFileName — имя файла базы в директории данных.
const sqliteFileName = "profiles.db"

// Stores — коллекции сервиса: учётные записи и ревизии деталей.
type Stores struct {
	Identities *Collection[model.Identity]
	Details    *Collection[model.Detail]

	closers []func() error
}

// Open открывает коллекции на выбранном носителе в dataDir.
// json — users.json и details.json, sqlite — profiles.db.
func Open(kind, dataDir string, logger *slog.Logger) (*Stores, error) {
	switch kind {
	case BackendJSON:
		users, err := OpenJSONFile(filepath.Join(dataDir, CollectionIdentities+".json"))
		if err != nil {
			return nil, err
		}
		details, err := OpenJSONFile(filepath.Join(dataDir, CollectionDetails+".json"))
		if err != nil {
			return nil, err
		}
		return newStores(users, details, logger), nil

	case BackendSQLite:
		if err := os.MkdirAll(dataDir, 0o750); err != nil {
			return nil, fmt.Errorf("%w: не удалось создать директорию %s: %w", ErrStorage, dataDir, err)
		}
		db, err := OpenSQLite(filepath.Join(dataDir, sqliteFileName))
		if err != nil {
			return nil, err
		}
		s := newStores(db.Collection(CollectionIdentities), db.Collection(CollectionDetails), logger)
		s.closers = append(s.closers, db.Close)
		return s, nil

	default:
		return nil, fmt.Errorf("неизвестный тип хранилища %q, допустимые: %s, %s", kind, BackendJSON, BackendSQLite)
	}
}

func newStores(identities, details Backend, logger *slog.Logger) *Stores {
	return &Stores{
		Identities: NewCollection[model.Identity](CollectionIdentities, identities, logger),
		Details:    NewCollection[model.Detail](CollectionDetails, details, logger),
		closers:    []func() error{identities.Close, details.Close},
	}
}

// Close закрывает все коллекции и носитель.
func (s *Stores) Close() error {
	var errs []error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
