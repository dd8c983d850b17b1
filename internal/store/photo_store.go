package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vbonduro/photoalbum/internal/domain"
)

// PhotoFilter is the set of conditions a photo search is restricted to.
// Zero-valued fields add no condition, except IDs: a non-nil empty slice
// matches nothing.
type PhotoFilter struct {
	IDs          []int64
	UserID       int64
	Keyword      string
	WebsiteID    int64
	Visibilities []domain.Visibility
	ActiveOnly   bool
}

func (f PhotoFilter) where() (string, []any) {
	var conds []string
	var args []any

	if f.IDs != nil {
		if len(f.IDs) == 0 {
			return "WHERE 1 = 0", nil
		}
		conds = append(conds, "p.id IN ("+placeholders(len(f.IDs))+")")
		for _, id := range f.IDs {
			args = append(args, id)
		}
	}
	if f.UserID != 0 {
		conds = append(conds, "p.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.Keyword != "" {
		conds = append(conds, `LOWER(p.metakeywords) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(f.Keyword))+"%")
	}
	if f.ActiveOnly {
		conds = append(conds, "p.active = 1")
	}
	if f.Visibilities != nil {
		if len(f.Visibilities) == 0 {
			return "WHERE 1 = 0", nil
		}
		conds = append(conds, "p.visibility IN ("+placeholders(len(f.Visibilities))+")")
		for _, v := range f.Visibilities {
			args = append(args, string(v))
		}
	}
	if f.WebsiteID != 0 {
		conds = append(conds, "EXISTS (SELECT 1 FROM photo_websites pw WHERE pw.photo_id = p.id AND pw.website_id = ?)")
		args = append(args, f.WebsiteID)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// NewPhoto carries the fields of a photo about to be created.
type NewPhoto struct {
	UserID       int64
	FileName     string
	StorageKey   string
	MimeType     string
	Description  string
	MetaKeywords string
	Visibility   domain.Visibility
	WebsiteIDs   []int64
}

type PhotoStore struct {
	db *sql.DB
}

func NewPhotoStore(db *sql.DB) *PhotoStore {
	return &PhotoStore{db: db}
}

const photoColumns = `
	p.id, p.user_id, p.file_name, p.storage_key, p.mime_type, p.description,
	p.metakeywords, p.visibility, p.active, p.photo_create_date,
	u.id, u.display_name, u.email, u.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhoto(row rowScanner) (*domain.Photo, error) {
	p := &domain.Photo{User: &domain.User{}}
	var visibility string
	err := row.Scan(&p.ID, &p.UserID, &p.FileName, &p.StorageKey, &p.MimeType, &p.Description,
		&p.MetaKeywords, &visibility, &p.Active, &p.CreatedAt,
		&p.User.ID, &p.User.DisplayName, &p.User.Email, &p.User.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Visibility = domain.Visibility(visibility)
	return p, nil
}

// Create inserts the photo and links it to its websites in one transaction.
func (s *PhotoStore) Create(ctx context.Context, np NewPhoto) (*domain.Photo, error) {
	visibility := np.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPublic
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO photos (user_id, file_name, storage_key, mime_type, description, metakeywords, visibility)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, np.UserID, np.FileName, np.StorageKey, np.MimeType, np.Description, np.MetaKeywords, string(visibility))
	if err != nil {
		return nil, fmt.Errorf("failed to create photo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	for _, websiteID := range np.WebsiteIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO photo_websites (photo_id, website_id) VALUES (?, ?)
		`, id, websiteID); err != nil {
			return nil, fmt.Errorf("failed to link photo to website %d: %w", websiteID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit photo: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *PhotoStore) GetByID(ctx context.Context, id int64) (*domain.Photo, error) {
	photo, err := scanPhoto(s.db.QueryRowContext(ctx, `
		SELECT `+photoColumns+`
		FROM photos p JOIN users u ON u.id = p.user_id
		WHERE p.id = ?
	`, id))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}

	return photo, nil
}

// FindOne returns the first photo matching f, or nil when none does.
func (s *PhotoStore) FindOne(ctx context.Context, f PhotoFilter) (*domain.Photo, error) {
	photos, err := s.Find(ctx, f, 0, 1)
	if err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		return nil, nil
	}
	return photos[0], nil
}

// Find returns the photos matching f, newest first. A limit <= 0 means no limit.
func (s *PhotoStore) Find(ctx context.Context, f PhotoFilter, offset, limit int) ([]*domain.Photo, error) {
	where, args := f.where()
	if limit <= 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+photoColumns+`
		FROM photos p JOIN users u ON u.id = p.user_id
		`+where+`
		ORDER BY p.photo_create_date DESC, p.id DESC
		LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search photos: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var photos []*domain.Photo
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, photo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}

	return photos, nil
}

func (s *PhotoStore) Count(ctx context.Context, f PhotoFilter) (int, error) {
	where, args := f.where()
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM photos p `+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count photos: %w", err)
	}
	return n, nil
}

func (s *PhotoStore) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE photos SET active = ? WHERE id = ?
	`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update photo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("photo not found")
	}

	return nil
}

func (s *PhotoStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM photos WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("photo not found")
	}

	return nil
}
