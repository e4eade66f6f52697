package recordstore

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteDB — встроенная база SQLite, в которой все коллекции хранятся
// в одной таблице records. Порядок записей — по id (порядок вставки).
type SQLiteDB struct {
	db *sql.DB
}

// OpenSQLite открывает или создаёт базу по пути path и применяет схему.
// Одно соединение: SQLite допускает только одного писателя.
func OpenSQLite(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: открытие %s: %w", ErrStorage, path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: подключение к %s: %w", ErrStorage, path, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %q: %w", ErrStorage, pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: применение схемы: %w", ErrStorage, err)
	}

	return &SQLiteDB{db: db}, nil
}

// Collection возвращает Backend для коллекции name.
func (s *SQLiteDB) Collection(name string) Backend {
	return &sqliteCollection{db: s.db, name: name}
}

// Close закрывает базу.
func (s *SQLiteDB) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

type sqliteCollection struct {
	db   *sql.DB
	name string
}

func (c *sqliteCollection) Load(ctx context.Context) ([]json.RawMessage, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT doc FROM records WHERE collection = ? ORDER BY id`, c.name)
	if err != nil {
		return nil, fmt.Errorf("%w: чтение коллекции %s: %w", ErrStorage, c.name, err)
	}
	defer rows.Close()

	var docs []json.RawMessage
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("%w: чтение коллекции %s: %w", ErrStorage, c.name, err)
		}
		if !json.Valid([]byte(doc)) {
			return nil, fmt.Errorf("%w: повреждённый документ в коллекции %s", ErrStorage, c.name)
		}
		docs = append(docs, json.RawMessage(doc))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: чтение коллекции %s: %w", ErrStorage, c.name, err)
	}
	return docs, nil
}

func (c *sqliteCollection) Append(ctx context.Context, doc json.RawMessage) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO records (collection, doc) VALUES (?, ?)`, c.name, string(doc))
	if err != nil {
		return fmt.Errorf("%w: вставка в коллекцию %s: %w", ErrStorage, c.name, err)
	}
	return nil
}

func (c *sqliteCollection) ReplaceAt(ctx context.Context, pos int, doc json.RawMessage) error {
	res, err := c.db.ExecContext(ctx,
		`UPDATE records SET doc = ?
		 WHERE id = (SELECT id FROM records WHERE collection = ? ORDER BY id LIMIT 1 OFFSET ?)`,
		string(doc), c.name, pos)
	if err != nil {
		return fmt.Errorf("%w: обновление коллекции %s: %w", ErrStorage, c.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: обновление коллекции %s: %w", ErrStorage, c.name, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close — соединение принадлежит SQLiteDB.
func (c *sqliteCollection) Close() error {
	return nil
}
