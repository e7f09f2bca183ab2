package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/relevance"

	_ "github.com/glebarez/go-sqlite"
)

var _ output.MemoryStore = (*Store)(nil)

// Store keeps facts in a single sqlite table and ranks them lexically on
// recall.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func New(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create memory dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS memories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create memories table: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Remember(ctx context.Context, fact string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memories (text, created_at) VALUES (?, ?)`,
		fact, s.now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert memory: %w", err)
	}
	return nil
}

// Recall returns up to k facts formatted with their timestamp, most relevant
// first. Facts sharing no term with query are not returned.
func (s *Store) Recall(ctx context.Context, query string, k int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT text, created_at FROM memories ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query memories: %w", err)
	}
	defer rows.Close()

	var texts, stamps []string
	for rows.Next() {
		var text, stamp string
		if err := rows.Scan(&text, &stamp); err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		texts = append(texts, text)
		stamps = append(stamps, stamp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memories: %w", err)
	}

	var out []string
	for _, i := range relevance.TopK(query, texts, k) {
		if relevance.Score(query, texts[i]) == 0 {
			break
		}
		out = append(out, fmt.Sprintf("%s (Recalled from %s)", texts[i], stamps[i]))
	}
	return out, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
