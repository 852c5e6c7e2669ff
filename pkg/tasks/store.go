// Package tasks persists the ordered task list the game's admin panel
// edits. The admin API replaces the whole list at once, so the store's
// write path is a single transactional swap.
package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/livbubble/bubblebot/pkg/logger"
)

// Task is one entry of the ordered task list shown in the game.
type Task struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Store is the sqlite-backed task list.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// NewStore creates a store for the given database path.
func NewStore(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

// Start opens the database and creates the schema.
func (s *Store) Start(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.dbPath), 0755); err != nil {
		return fmt.Errorf("create tasks db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", s.dbPath+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		return fmt.Errorf("open tasks db: %w", err)
	}
	s.db = db

	if err := s.initSchema(); err != nil {
		return fmt.Errorf("init tasks schema: %w", err)
	}

	logger.InfoCF("tasks", "task store started", map[string]interface{}{
		"db_path": s.dbPath,
	})
	return nil
}

// Stop closes the database.
func (s *Store) Stop(ctx context.Context) error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Health pings the database.
func (s *Store) Health() error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return s.db.Ping()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		done INTEGER DEFAULT 0,
		position INTEGER NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_position ON tasks(position);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns the task list in order. An empty database is an empty
// list, never an error.
func (s *Store) Load() ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id, title, done FROM tasks ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		var t Task
		var done int
		if err := rows.Scan(&t.ID, &t.Title, &done); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Done = done != 0
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Replace swaps the whole list in one transaction, preserving the given
// order. Tasks without an ID get one assigned.
func (s *Store) Replace(tasks []Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for i, t := range tasks {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		done := 0
		if t.Done {
			done = 1
		}
		_, err := tx.Exec(
			`INSERT INTO tasks (id, title, done, position, updated_at) VALUES (?, ?, ?, ?, ?)`,
			t.ID, t.Title, done, i, now,
		)
		if err != nil {
			return fmt.Errorf("insert task %q: %w", t.Title, err)
		}
	}

	return tx.Commit()
}
