package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/vbonduro/photoalbum/internal/domain"
)

type CommentStore struct {
	db *sql.DB
}

func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

func (s *CommentStore) Create(ctx context.Context, photoID, userID int64, description string) (*domain.Comment, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (photo_id, user_id, description) VALUES (?, ?, ?)
	`, photoID, userID, description)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *CommentStore) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	c := &domain.Comment{User: &domain.User{}}
	err := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.photo_id, c.user_id, c.description, c.active, c.create_date,
		       u.id, u.display_name, u.email, u.created_at
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.id = ?
	`, id).Scan(&c.ID, &c.PhotoID, &c.UserID, &c.Description, &c.Active, &c.CreatedAt,
		&c.User.ID, &c.User.DisplayName, &c.User.Email, &c.User.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return c, nil
}

// ListActiveByPhotoID returns the active comments of a photo, oldest first.
func (s *CommentStore) ListActiveByPhotoID(ctx context.Context, photoID int64) ([]*domain.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.photo_id, c.user_id, c.description, c.active, c.create_date,
		       u.id, u.display_name, u.email, u.created_at
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.photo_id = ? AND c.active = 1
		ORDER BY c.create_date ASC, c.id ASC
	`, photoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var comments []*domain.Comment
	for rows.Next() {
		c := &domain.Comment{User: &domain.User{}}
		if err := rows.Scan(&c.ID, &c.PhotoID, &c.UserID, &c.Description, &c.Active, &c.CreatedAt,
			&c.User.ID, &c.User.DisplayName, &c.User.Email, &c.User.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}

func (s *CommentStore) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE comments SET active = ? WHERE id = ?
	`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("comment not found")
	}

	return nil
}
