// Package search keeps the full-text index of album photos. Each photo is
// indexed once per locale with a title and a content field.
package search

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/vbonduro/photoalbum/internal/domain"
	"github.com/vbonduro/photoalbum/internal/pagination"
)

// DefaultMaxLimit caps how many hits are scored to compute a search total.
const DefaultMaxLimit = 500

type Index struct {
	db       *sql.DB
	locales  map[string]bool
	maxLimit int
}

// NewIndex returns an index serving the given locales. maxLimit <= 0 uses
// DefaultMaxLimit.
func NewIndex(db *sql.DB, locales []string, maxLimit int) *Index {
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}
	set := make(map[string]bool, len(locales))
	for _, l := range locales {
		set[normalizeLocale(l)] = true
	}
	return &Index{db: db, locales: set, maxLimit: maxLimit}
}

func normalizeLocale(locale string) string {
	return strings.ToLower(strings.TrimSpace(locale))
}

// HasLocale reports whether an index is kept for locale.
func (ix *Index) HasLocale(locale string) bool {
	return ix.locales[normalizeLocale(locale)]
}

// Document builds the indexed title and content of a photo.
func Document(p *domain.Photo) (title, content string) {
	title = strings.TrimSuffix(p.FileName, filepath.Ext(p.FileName))
	title = strings.ReplaceAll(title, "-", " ")

	parts := make([]string, 0, 2)
	if p.Description != "" {
		parts = append(parts, p.Description)
	}
	if kw := p.Keywords(); len(kw) > 0 {
		parts = append(parts, strings.Join(kw, " "))
	}
	return title, strings.Join(parts, "\n")
}

// Add indexes p for locale, replacing any previous entry.
func (ix *Index) Add(ctx context.Context, p *domain.Photo, locale string) error {
	locale = normalizeLocale(locale)
	if !ix.locales[locale] {
		return fmt.Errorf("no search index for locale %q", locale)
	}
	title, content := Document(p)

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM photos_fts WHERE photo_id = ? AND locale = ?
	`, p.ID, locale); err != nil {
		return fmt.Errorf("failed to clear index entry: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO photos_fts (photo_id, locale, title, content) VALUES (?, ?, ?, ?)
	`, p.ID, locale, title, content); err != nil {
		return fmt.Errorf("failed to index photo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit index entry: %w", err)
	}
	return nil
}

// Remove drops every index entry of a photo.
func (ix *Index) Remove(ctx context.Context, photoID int64) error {
	if _, err := ix.db.ExecContext(ctx, `
		DELETE FROM photos_fts WHERE photo_id = ?
	`, photoID); err != nil {
		return fmt.Errorf("failed to remove index entry: %w", err)
	}
	return nil
}

// Result is one page of search hits.
type Result struct {
	IDs   []int64
	Total int
}

// Search runs q against the locale's index and returns the photo ids of the
// requested page, best match first. Total counts hits up to the max limit.
func (ix *Index) Search(ctx context.Context, locale, q string, page, pageLen int) (*Result, error) {
	locale = normalizeLocale(locale)
	pq := ParseQuery(q)
	if pq.Empty() {
		return &Result{IDs: []int64{}}, nil
	}
	where, args := hitsFilter(pq, locale)

	res := &Result{IDs: []int64{}}
	if err := ix.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM (
			SELECT photo_id FROM photos_fts
			WHERE `+where+`
			LIMIT ?
		)
	`, append(args, ix.maxLimit)...).Scan(&res.Total); err != nil {
		return nil, fmt.Errorf("failed to count search hits: %w", err)
	}

	order := "rank"
	if pq.Match == "" {
		order = "photo_id DESC"
	}
	rows, err := ix.db.QueryContext(ctx, `
		SELECT photo_id FROM photos_fts
		WHERE `+where+`
		ORDER BY `+order+`
		LIMIT ? OFFSET ?
	`, append(args, pageLen, pagination.Offset(page, pageLen))...)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan search hit: %w", err)
		}
		res.IDs = append(res.IDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search hits: %w", err)
	}

	return res, nil
}

// hitsFilter renders the WHERE clause selecting the hits of pq in locale.
func hitsFilter(pq Query, locale string) (string, []any) {
	conds := []string{"locale = ?"}
	args := []any{locale}
	if pq.Match != "" {
		conds = append(conds, "photos_fts MATCH ?")
		args = append(args, pq.Match)
	}
	if pq.Exclude != "" {
		conds = append(conds, `photo_id NOT IN (
			SELECT photo_id FROM photos_fts WHERE photos_fts MATCH ? AND locale = ?
		)`)
		args = append(args, pq.Exclude, locale)
	}
	return strings.Join(conds, " AND "), args
}
