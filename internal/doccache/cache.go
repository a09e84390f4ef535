// Package doccache keeps rendered documents in a local SQLite file so an
// unchanged plan revision is not drawn twice.
package doccache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Key identifies one rendering of one plan revision. The client name and
// tool labels are part of the key because both are drawn from library
// records that change independently of the plan.
type Key struct {
	PlanID     string
	UpdatedAt  time.Time
	Style      string
	Weeks      []int
	ClientName string
	Tools      map[string]string
}

// Hash is the stable cache key for k.
func (k Key) Hash() string {
	weeks := make([]string, len(k.Weeks))
	for i, w := range k.Weeks {
		weeks[i] = strconv.Itoa(w)
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%s|%s|%q", k.PlanID, k.UpdatedAt.UTC().UnixNano(), k.Style, strings.Join(weeks, ","), k.ClientName)

	ids := make([]string, 0, len(k.Tools))
	for id := range k.Tools {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(h, "|%q=%q", id, k.Tools[id])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Entry is a cached document.
type Entry struct {
	Filename    string
	ContentType string
	Pages       int
	Data        []byte
	CreatedAt   time.Time
}

// Cache stores documents in dir/documents.db.
type Cache struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at dir/documents.db.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "documents.db"))
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}
	// sqlite allows one writer at a time.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		key          TEXT PRIMARY KEY,
		plan_id      TEXT NOT NULL,
		filename     TEXT NOT NULL,
		content_type TEXT NOT NULL,
		pages        INTEGER NOT NULL,
		data         BLOB NOT NULL,
		created_at   INTEGER NOT NULL
	)`)
	if err == nil {
		_, err = db.Exec(`CREATE INDEX IF NOT EXISTS documents_plan_id ON documents (plan_id)`)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache table: %w", err)
	}

	return &Cache{db: db}, nil
}

// Get returns the cached entry for k. ok is false on a miss.
func (c *Cache) Get(k Key) (Entry, bool, error) {
	var e Entry
	var created int64
	err := c.db.QueryRow(
		`SELECT filename, content_type, pages, data, created_at FROM documents WHERE key = ?`,
		k.Hash(),
	).Scan(&e.Filename, &e.ContentType, &e.Pages, &e.Data, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("reading cached document: %w", err)
	}
	e.CreatedAt = time.Unix(0, created).UTC()
	return e, true, nil
}

// Put stores e under k, replacing any previous entry.
func (c *Cache) Put(k Key, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO documents (key, plan_id, filename, content_type, pages, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		k.Hash(), k.PlanID, e.Filename, e.ContentType, e.Pages, e.Data, e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("storing cached document: %w", err)
	}
	return nil
}

// Invalidate drops every cached rendering of a plan and returns how many
// were removed.
func (c *Cache) Invalidate(planID string) (int64, error) {
	res, err := c.db.Exec(`DELETE FROM documents WHERE plan_id = ?`, planID)
	if err != nil {
		return 0, fmt.Errorf("invalidating plan %s: %w", planID, err)
	}
	return res.RowsAffected()
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}
