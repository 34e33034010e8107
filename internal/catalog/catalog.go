// Package catalog is an offline card source: a local SQLite copy of the
// card database, searched by fuzzy name match. It satisfies
// search.Searcher so the list controller can run without the network.
package catalog

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/abelbrown/cardscope/internal/card"
	"github.com/abelbrown/cardscope/internal/search"
	"github.com/sahilm/fuzzy"
	_ "modernc.org/sqlite"
)

// DefaultLimit caps how many matches one search returns.
const DefaultLimit = 200

// Catalog handles SQLite persistence of the card catalog. Concrete type.
// Thread-safety: all methods are safe for concurrent use.
type Catalog struct {
	db    *sql.DB
	mu    sync.RWMutex
	limit int
}

// Open creates a Catalog at dbPath, creating tables if needed.
// ":memory:" opens a private in-memory database.
func Open(dbPath string) (*Catalog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("catalog: open database: %w", err)
	}

	// An in-memory database lives and dies with its one connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("catalog: enable WAL mode: %w", err)
		}
	}

	c := &Catalog{db: db, limit: DefaultLimit}
	if err := c.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: create tables: %w", err)
	}
	return c, nil
}

func (c *Catalog) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cards (
		set_code TEXT NOT NULL,
		number TEXT NOT NULL,
		name TEXT NOT NULL,
		raw TEXT NOT NULL,
		imported_at DATETIME NOT NULL,
		PRIMARY KEY (set_code, number)
	);

	CREATE INDEX IF NOT EXISTS idx_cards_name ON cards(name);
	`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// SetLimit changes the maximum number of matches per search.
func (c *Catalog) SetLimit(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n <= 0 {
		n = DefaultLimit
	}
	c.limit = n
}

// Close closes the database.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Close()
}

// Import upserts raw records keyed by (set, number) in one transaction.
// Returns the number of rows written.
func (c *Catalog) Import(raws []card.Raw) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(raws) == 0 {
		return 0, nil
	}

	tx, err := c.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("catalog: begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO cards (set_code, number, name, raw, imported_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(set_code, number) DO UPDATE SET
			name = excluded.name,
			raw = excluded.raw,
			imported_at = excluded.imported_at
	`)
	if err != nil {
		return 0, fmt.Errorf("catalog: prepare import: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	written := 0
	for _, raw := range raws {
		data, err := json.Marshal(raw)
		if err != nil {
			return written, fmt.Errorf("catalog: encode %s: %w", card.ID(raw.Set, raw.Number), err)
		}
		if _, err := stmt.Exec(raw.Set, raw.Number, raw.Name, string(data), now); err != nil {
			return written, fmt.Errorf("catalog: insert %s: %w", card.ID(raw.Set, raw.Number), err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("catalog: commit import: %w", err)
	}
	return written, nil
}

// ImportJSON reads a card dump and imports it. The dump may be a bare
// array of records or a search response envelope with a "data" array.
func (c *Catalog) ImportJSON(r io.Reader) (int, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("catalog: read dump: %w", err)
	}

	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '{' {
		var env search.Result
		if err := json.Unmarshal(body, &env); err != nil {
			return 0, fmt.Errorf("catalog: parse dump envelope: %w", err)
		}
		return c.Import(env.Records())
	}
	if len(body) == 0 || body[0] != '[' {
		return 0, fmt.Errorf("catalog: dump is neither an array nor a data envelope")
	}
	return c.Import(card.DecodeList(body))
}

// Count returns the number of cards in the catalog.
func (c *Catalog) Count() (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("catalog: count: %w", err)
	}
	return n, nil
}

// entries implements fuzzy.Source over catalog names.
type entries []entry

type entry struct {
	name string
	raw  string
}

func (e entries) String(i int) string { return e[i].name }
func (e entries) Len() int            { return len(e) }

// Search returns the catalog cards whose names fuzzily match term, best
// match first, wrapped in the same envelope the HTTP API returns.
func (c *Catalog) Search(ctx context.Context, term string) (search.Result, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows, err := c.db.QueryContext(ctx, `SELECT name, raw FROM cards ORDER BY set_code, number`)
	if err != nil {
		return search.Result{}, fmt.Errorf("catalog: query cards: %w", err)
	}
	defer rows.Close()

	var all entries
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.name, &e.raw); err != nil {
			return search.Result{}, fmt.Errorf("catalog: scan card: %w", err)
		}
		e.name = strings.ToLower(e.name)
		all = append(all, e)
	}
	if err := rows.Err(); err != nil {
		return search.Result{}, fmt.Errorf("catalog: iterate cards: %w", err)
	}

	matches := fuzzy.FindFrom(strings.ToLower(strings.TrimSpace(term)), all)
	if len(matches) > c.limit {
		matches = matches[:c.limit]
	}

	raws := make([]card.Raw, 0, len(matches))
	for _, m := range matches {
		var raw card.Raw
		if err := json.Unmarshal([]byte(all[m.Index].raw), &raw); err != nil {
			return search.Result{}, fmt.Errorf("catalog: decode card: %w", err)
		}
		raws = append(raws, raw)
	}
	return search.NewResult(raws)
}
