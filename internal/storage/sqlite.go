package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteBackend keeps the document in a SQLite database, one row per cell
// and one row per task.
type SQLiteBackend struct {
	db *sql.DB
}

func OpenSQLite(dbPath string) (*SQLiteBackend, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteBackend{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteBackend) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteBackend) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS cells (
	idx INTEGER PRIMARY KEY,
	color TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS days (
	day TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS tasks (
	day TEXT NOT NULL,
	pos INTEGER NOT NULL,
	body TEXT NOT NULL,
	PRIMARY KEY (day, pos)
);`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *SQLiteBackend) Read() (Document, error) {
	doc := EmptyDocument()

	rows, err := s.db.Query(`SELECT color FROM cells ORDER BY idx;`)
	if err != nil {
		return Document{}, fmt.Errorf("read cells: %w", err)
	}
	for rows.Next() {
		var color string
		if err := rows.Scan(&color); err != nil {
			rows.Close()
			return Document{}, fmt.Errorf("read cells: %w", err)
		}
		doc.Colors = append(doc.Colors, color)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return Document{}, fmt.Errorf("read cells: %w", err)
	}
	rows.Close()

	// Days are listed separately so a day with an empty list survives.
	rows, err = s.db.Query(`SELECT day FROM days;`)
	if err != nil {
		return Document{}, fmt.Errorf("read days: %w", err)
	}
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			rows.Close()
			return Document{}, fmt.Errorf("read days: %w", err)
		}
		doc.Tasks[day] = []string{}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return Document{}, fmt.Errorf("read days: %w", err)
	}
	rows.Close()

	rows, err = s.db.Query(`SELECT day, body FROM tasks ORDER BY day, pos;`)
	if err != nil {
		return Document{}, fmt.Errorf("read tasks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var day, body string
		if err := rows.Scan(&day, &body); err != nil {
			return Document{}, fmt.Errorf("read tasks: %w", err)
		}
		doc.Tasks[day] = append(doc.Tasks[day], body)
	}
	if err := rows.Err(); err != nil {
		return Document{}, fmt.Errorf("read tasks: %w", err)
	}
	return doc, nil
}

// Write replaces every stored row in a single transaction.
func (s *SQLiteBackend) Write(doc Document) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cells;`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM tasks;`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM days;`); err != nil {
		return err
	}
	for i, color := range doc.Colors {
		if _, err := tx.Exec(`INSERT INTO cells (idx, color) VALUES (?, ?);`, i, color); err != nil {
			return fmt.Errorf("write cell %d: %w", i, err)
		}
	}
	for day, list := range doc.Tasks {
		if _, err := tx.Exec(`INSERT INTO days (day) VALUES (?);`, day); err != nil {
			return fmt.Errorf("write day %s: %w", day, err)
		}
		for pos, body := range list {
			if _, err := tx.Exec(`INSERT INTO tasks (day, pos, body) VALUES (?, ?, ?);`, day, pos, body); err != nil {
				return fmt.Errorf("write task %s/%d: %w", day, pos, err)
			}
		}
	}
	return tx.Commit()
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
