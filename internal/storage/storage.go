// Package storage saves and restores the calendar colours and task lists.
package storage

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Document is everything that survives a restart: one colour per calendar
// cell in grid order and the task lists keyed by day of year.
type Document struct {
	Colors []string            `json:"colors" yaml:"colors" toml:"colors"`
	Tasks  map[string][]string `json:"tasks" yaml:"tasks" toml:"tasks"`
}

func EmptyDocument() Document {
	return Document{Colors: []string{}, Tasks: map[string][]string{}}
}

func (d Document) normalized() Document {
	if d.Colors == nil {
		d.Colors = []string{}
	}
	if d.Tasks == nil {
		d.Tasks = map[string][]string{}
	}
	for k, v := range d.Tasks {
		if v == nil {
			d.Tasks[k] = []string{}
		}
	}
	return d
}

type Backend interface {
	Read() (Document, error)
	Write(Document) error
	Close() error
}

// Open picks a backend by name. An empty name means the file backend.
func Open(kind, path string, logger *log.Logger) (Backend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("state path is empty")
	}
	switch strings.ToLower(kind) {
	case "", BackendFile:
		return NewFileBackend(path), nil
	case BackendSQLite:
		b, err := openSQLiteOrReset(path, logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}

// openSQLiteOrReset moves an unreadable database to <path>.corrupt and
// starts a fresh one, so a damaged state file costs the saved state but
// not the session.
func openSQLiteOrReset(path string, logger *log.Logger) (*SQLiteBackend, error) {
	b, err := OpenSQLite(path)
	if err == nil {
		return b, nil
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return nil, err
	}
	aside := path + ".corrupt"
	logger.Warn("could not open state database, starting fresh", "err", err, "moved_to", aside)
	if renameErr := os.Rename(path, aside); renameErr != nil {
		return nil, fmt.Errorf("move aside %s: %w", path, renameErr)
	}
	return OpenSQLite(path)
}

// Gateway loads state once at startup and saves it once on exit.
type Gateway struct {
	backend Backend
	logger  *log.Logger
}

func NewGateway(backend Backend, logger *log.Logger) *Gateway {
	return &Gateway{backend: backend, logger: logger}
}

// Load never fails: a missing or unreadable state file yields an empty
// document and a log line.
func (g *Gateway) Load() Document {
	doc, err := g.backend.Read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			g.logger.Info("no saved state, starting fresh")
		} else {
			g.logger.Warn("could not load saved state, starting fresh", "err", err)
		}
		return EmptyDocument()
	}
	doc = doc.normalized()
	g.logger.Debug("loaded state", "cells", len(doc.Colors), "days", len(doc.Tasks))
	return doc
}

func (g *Gateway) Save(doc Document) error {
	doc = doc.normalized()
	if err := g.backend.Write(doc); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	g.logger.Info("saved state", "cells", len(doc.Colors), "days", len(doc.Tasks))
	return nil
}

func (g *Gateway) Close() error {
	return g.backend.Close()
}
