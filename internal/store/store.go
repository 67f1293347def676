// Package store caches preprocessed posts in a SQLite file so reruns can
// skip preprocessing.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	sq "github.com/Masterminds/squirrel"
	"github.com/abelbrown/ggmine/internal/logging"
	"github.com/abelbrown/ggmine/internal/post"
	_ "modernc.org/sqlite"
)

// FileName is the cache file name inside the data directory.
const FileName = "cache.db"

// Store is the post cache. Concrete type, safe for concurrent use; callers
// should still keep to one writer per file.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Exists reports whether a cache file is present at path. It does not
// check whether the cache matches the current dataset.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Open opens or creates the cache at path. ":memory:" gives an in-memory
// cache that lives until Close.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	// One connection keeps :memory: a single database and serializes writes.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping cache: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(s.db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (s *Store) createTables(db execer) error {
	schema := `
	CREATE TABLE IF NOT EXISTS posts (
		seq INTEGER PRIMARY KEY,
		id INTEGER NOT NULL,
		text TEXT NOT NULL,
		author TEXT NOT NULL,
		timestamp_ms INTEGER NOT NULL,
		hashtags TEXT NOT NULL DEFAULT '[]'
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Save replaces the whole cache with posts in one transaction.
func (s *Store) Save(posts []post.Post) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec("DROP TABLE IF EXISTS posts"); err != nil {
		return fmt.Errorf("drop posts: %w", err)
	}
	if err = s.createTables(tx); err != nil {
		return err
	}

	query, _, err := sq.Insert("posts").
		Columns("seq", "id", "text", "author", "timestamp_ms", "hashtags").
		Values(0, 0, "", "", 0, "").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range posts {
		tags, mErr := json.Marshal(nonNil(p.Hashtags))
		if mErr != nil {
			return fmt.Errorf("encode hashtags of post %d: %w", p.ID, mErr)
		}
		if _, err = stmt.Exec(i, p.ID, p.Text, p.Author, p.Timestamp, string(tags)); err != nil {
			return fmt.Errorf("insert post %d: %w", p.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	logging.Info("Cache saved", "posts", len(posts))
	return nil
}

// Load returns every cached post in the order it was saved.
func (s *Store) Load() ([]post.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query, args, err := sq.Select("id", "text", "author", "timestamp_ms", "hashtags").
		From("posts").
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []post.Post
	for rows.Next() {
		var p post.Post
		var tags string
		if err := rows.Scan(&p.ID, &p.Text, &p.Author, &p.Timestamp, &tags); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &p.Hashtags); err != nil {
			return nil, fmt.Errorf("decode hashtags of post %d: %w", p.ID, err)
		}
		if len(p.Hashtags) == 0 {
			p.Hashtags = nil
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

// Count returns the number of cached posts.
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query, args, err := sq.Select("COUNT(*)").From("posts").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var n int
	if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
