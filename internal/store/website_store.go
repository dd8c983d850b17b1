package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vbonduro/photoalbum/internal/domain"
)

type WebsiteStore struct {
	db *sql.DB
}

func NewWebsiteStore(db *sql.DB) *WebsiteStore {
	return &WebsiteStore{db: db}
}

func (s *WebsiteStore) GetByID(ctx context.Context, id int64) (*domain.Website, error) {
	w := &domain.Website{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, photoalbum_new, photoalbum_new_anonymous,
		       photoalbum_comment, photoalbum_anonymous, photoalbum_anonymous_user
		FROM websites WHERE id = ?
	`, id).Scan(&w.ID, &w.Name, &w.PhotoalbumNew, &w.PhotoalbumNewAnon,
		&w.PhotoalbumComment, &w.PhotoalbumAnonymous, &w.PhotoalbumAnonUserID)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get website: %w", err)
	}

	return w, nil
}

// Update stores the photo album switches of w.
func (s *WebsiteStore) Update(ctx context.Context, w *domain.Website) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE websites SET name = ?, photoalbum_new = ?, photoalbum_new_anonymous = ?,
		       photoalbum_comment = ?, photoalbum_anonymous = ?, photoalbum_anonymous_user = ?
		WHERE id = ?
	`, w.Name, w.PhotoalbumNew, w.PhotoalbumNewAnon, w.PhotoalbumComment,
		w.PhotoalbumAnonymous, w.PhotoalbumAnonUserID, w.ID)
	if err != nil {
		return fmt.Errorf("failed to update website: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("website not found")
	}

	return nil
}
