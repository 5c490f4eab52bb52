//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
			filename UNINDEXED,
			title,
			body,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, filename, title, body string) error {
	_, _ = tx.Exec(`DELETE FROM notes_fts WHERE filename = ?`, filename)
	_, err := tx.Exec(`INSERT INTO notes_fts (filename, title, body) VALUES (?, ?, ?)`,
		filename, title, body)
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, filename string) {
	_, _ = tx.Exec(`DELETE FROM notes_fts WHERE filename = ?`, filename)
}

// Search performs an FTS5 full-text search and returns matching results with
// snippets. Every whitespace-separated term must match; terms are quoted so
// user input never reaches the FTS5 query syntax.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	match := matchExpr(query)
	if match == "" {
		return nil, nil
	}
	rows, err := db.conn.Query(`
		SELECT filename,
		       title,
		       snippet(notes_fts, 2, '[', ']', '...', 16)
		FROM notes_fts
		WHERE notes_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Filename, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// matchExpr turns free text into an FTS5 expression of quoted terms, the
// last one a prefix match.
func matchExpr(query string) string {
	terms := strings.Fields(query)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	if len(terms) > 0 {
		terms[len(terms)-1] += "*"
	}
	return strings.Join(terms, " ")
}
