package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vbonduro/photoalbum/internal/domain"
	"github.com/vbonduro/photoalbum/internal/photostore"
	"github.com/vbonduro/photoalbum/internal/store"
)

type adminWebsiteRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Website, error)
	Update(ctx context.Context, w *domain.Website) error
}

type adminUserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, displayName, email string) (*domain.User, error)
}

type adminPhotoRepository interface {
	FindOne(ctx context.Context, f store.PhotoFilter) (*domain.Photo, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

type adminCommentRepository interface {
	SetActive(ctx context.Context, id int64, active bool) error
}

type adminConfigRepository interface {
	SetMaxSize(ctx context.Context, maxSize int64) error
}

// indexRemover is the subset of search.Index that AdminService requires.
type indexRemover interface {
	Remove(ctx context.Context, photoID int64) error
}

// AdminRepositories groups the stores AdminService writes.
type AdminRepositories struct {
	Websites adminWebsiteRepository
	Users    adminUserRepository
	Config   adminConfigRepository
	Photos   adminPhotoRepository
	Comments adminCommentRepository
}

// AdminService holds the maintenance operations run by the site operator:
// moderation, users and album switches.
type AdminService struct {
	websites adminWebsiteRepository
	users    adminUserRepository
	config   adminConfigRepository
	photos   adminPhotoRepository
	comments adminCommentRepository
	index    indexRemover
	photoStg photostore.PhotoStore
	siteID   int64
	logger   *slog.Logger
}

func NewAdminService(repos AdminRepositories, index indexRemover, photoStg photostore.PhotoStore, siteID int64, logger *slog.Logger) *AdminService {
	return &AdminService{
		websites: repos.Websites,
		users:    repos.Users,
		config:   repos.Config,
		photos:   repos.Photos,
		comments: repos.Comments,
		index:    index,
		photoStg: photoStg,
		siteID:   siteID,
		logger:   logger,
	}
}

func (s *AdminService) photo(ctx context.Context, id int64) (*domain.Photo, error) {
	p, err := s.photos.FindOne(ctx, store.PhotoFilter{IDs: []int64{id}})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// SetPhotoActive shows or hides a photo everywhere in the album.
func (s *AdminService) SetPhotoActive(ctx context.Context, id int64, active bool) error {
	if _, err := s.photo(ctx, id); err != nil {
		return err
	}
	if err := s.photos.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.logger.Info("photo updated", "photo_id", id, "active", active)
	return nil
}

// DeletePhoto removes a photo with its comments, its search entries and its
// stored image.
func (s *AdminService) DeletePhoto(ctx context.Context, id int64) error {
	p, err := s.photo(ctx, id)
	if err != nil {
		return err
	}
	if err := s.photos.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.index.Remove(ctx, id); err != nil {
		return fmt.Errorf("photo %d deleted but still indexed: %w", id, err)
	}
	if err := s.photoStg.Delete(ctx, p.StorageKey); err != nil && !errors.Is(err, photostore.ErrNotFound) {
		s.logger.Error("failed to remove stored photo", "storage_key", p.StorageKey, "error", err)
	}
	s.logger.Info("photo deleted", "photo_id", id)
	return nil
}

// SetCommentActive shows or hides a comment.
func (s *AdminService) SetCommentActive(ctx context.Context, id int64, active bool) error {
	if err := s.comments.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.logger.Info("comment updated", "comment_id", id, "active", active)
	return nil
}

// CreateUser registers a user that photos and comments can be owned by.
func (s *AdminService) CreateUser(ctx context.Context, displayName, email string) (*domain.User, error) {
	if displayName == "" {
		return nil, errors.New("display name is required")
	}
	u, err := s.users.Create(ctx, displayName, email)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created", "user_id", u.ID)
	return u, nil
}

// SetMaxSize sets the largest accepted image in bytes. Zero restores the
// default.
func (s *AdminService) SetMaxSize(ctx context.Context, maxSize int64) error {
	if maxSize < 0 {
		return fmt.Errorf("max size must not be negative, got %d", maxSize)
	}
	return s.config.SetMaxSize(ctx, maxSize)
}

// UpdateWebsite applies fn to the configured website and stores it. An
// anonymous user set by fn must exist.
func (s *AdminService) UpdateWebsite(ctx context.Context, fn func(w *domain.Website)) (*domain.Website, error) {
	w, err := s.websites.GetByID(ctx, s.siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get website: %w", err)
	}
	if w == nil {
		return nil, ErrNotFound
	}
	fn(w)

	if w.PhotoalbumAnonUserID != nil {
		u, err := s.users.GetByID(ctx, *w.PhotoalbumAnonUserID)
		if err != nil {
			return nil, fmt.Errorf("failed to get anonymous user: %w", err)
		}
		if u == nil {
			return nil, fmt.Errorf("anonymous user %d: %w", *w.PhotoalbumAnonUserID, ErrNotFound)
		}
	}

	if err := s.websites.Update(ctx, w); err != nil {
		return nil, err
	}
	s.logger.Info("website updated", "website_id", w.ID)
	return w, nil
}
