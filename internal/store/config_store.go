package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vbonduro/photoalbum/internal/domain"
)

// ConfigStore reads and writes the singleton photoalbum_config row.
type ConfigStore struct {
	db *sql.DB
}

func NewConfigStore(db *sql.DB) *ConfigStore {
	return &ConfigStore{db: db}
}

func (s *ConfigStore) Get(ctx context.Context) (*domain.AlbumConfig, error) {
	cfg := &domain.AlbumConfig{}
	err := s.db.QueryRowContext(ctx, `
		SELECT max_size FROM photoalbum_config WHERE id = 1
	`).Scan(&cfg.MaxSize)

	if err == sql.ErrNoRows {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo album config: %w", err)
	}

	return cfg, nil
}

func (s *ConfigStore) SetMaxSize(ctx context.Context, maxSize int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO photoalbum_config (id, max_size) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET max_size = excluded.max_size
	`, maxSize)
	if err != nil {
		return fmt.Errorf("failed to set max size: %w", err)
	}
	return nil
}
