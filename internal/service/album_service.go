package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/vbonduro/photoalbum/internal/domain"
	"github.com/vbonduro/photoalbum/internal/i18n"
	"github.com/vbonduro/photoalbum/internal/metrics"
	"github.com/vbonduro/photoalbum/internal/pagination"
	"github.com/vbonduro/photoalbum/internal/photostore"
	"github.com/vbonduro/photoalbum/internal/search"
	"github.com/vbonduro/photoalbum/internal/session"
	"github.com/vbonduro/photoalbum/internal/slug"
	"github.com/vbonduro/photoalbum/internal/store"
	"github.com/vbonduro/photoalbum/internal/vision"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrUploadDisabled    = errors.New("new images are disabled")
	ErrLoginRequired     = errors.New("anonymous users are not allowed")
	ErrTooLarge          = errors.New("image is too large")
	ErrInvalidImage      = errors.New("unsupported image type")
	ErrCommentsDisabled  = errors.New("comments are disabled")
	ErrEmptyComment      = errors.New("comment is empty")
	ErrSearchUnavailable = errors.New("search is unavailable")
)

// AllowedImageMIME is the set of image types accepted for upload.
var AllowedImageMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// UnknownFileName is used when no file name can be derived from an upload.
const UnknownFileName = "unknown.jpg"

// websiteRepository is the subset of store.WebsiteStore that AlbumService requires.
type websiteRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Website, error)
}

// userRepository is the subset of store.UserStore that AlbumService requires.
type userRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// configRepository is the subset of store.ConfigStore that AlbumService requires.
type configRepository interface {
	Get(ctx context.Context) (*domain.AlbumConfig, error)
}

// photoRepository is the subset of store.PhotoStore that AlbumService requires.
type photoRepository interface {
	Create(ctx context.Context, np store.NewPhoto) (*domain.Photo, error)
	FindOne(ctx context.Context, f store.PhotoFilter) (*domain.Photo, error)
	Find(ctx context.Context, f store.PhotoFilter, offset, limit int) ([]*domain.Photo, error)
	Count(ctx context.Context, f store.PhotoFilter) (int, error)
}

// commentRepository is the subset of store.CommentStore that AlbumService requires.
type commentRepository interface {
	Create(ctx context.Context, photoID, userID int64, description string) (*domain.Comment, error)
	ListActiveByPhotoID(ctx context.Context, photoID int64) ([]*domain.Comment, error)
}

// searchIndex is the subset of search.Index that AlbumService requires.
type searchIndex interface {
	HasLocale(locale string) bool
	Add(ctx context.Context, p *domain.Photo, locale string) error
	Search(ctx context.Context, locale, q string, page, pageLen int) (*search.Result, error)
}

// notifier is the subset of mail.Notifier that AlbumService requires.
type notifier interface {
	PhotoPublished(ctx context.Context, event string, photo *domain.Photo, url string)
	CommentPublished(ctx context.Context, event string, photo *domain.Photo, comment *domain.Comment, url string)
}

// Options are the album settings that come from configuration.
type Options struct {
	SiteID        int64
	PageLimit     int
	Comments      bool
	SearchEnabled bool
	// BaseURL prefixes the photo links written into notifications.
	BaseURL string
}

// Repositories groups the stores AlbumService reads and writes.
type Repositories struct {
	Websites websiteRepository
	Users    userRepository
	Config   configRepository
	Photos   photoRepository
	Comments commentRepository
}

type AlbumService struct {
	websites   websiteRepository
	users      userRepository
	config     configRepository
	photos     photoRepository
	comments   commentRepository
	index      searchIndex
	photoStg   photostore.PhotoStore
	tagger     vision.Tagger
	notifier   notifier
	translator *i18n.Translator
	opts       Options
	logger     *slog.Logger
}

// NewAlbumService wires the album logic. tagger may be nil.
func NewAlbumService(
	repos Repositories,
	index searchIndex,
	photoStg photostore.PhotoStore,
	tagger vision.Tagger,
	notifier notifier,
	translator *i18n.Translator,
	opts Options,
	logger *slog.Logger,
) *AlbumService {
	if opts.PageLimit <= 0 {
		opts.PageLimit = 20
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &AlbumService{
		websites:   repos.Websites,
		users:      repos.Users,
		config:     repos.Config,
		photos:     repos.Photos,
		comments:   repos.Comments,
		index:      index,
		photoStg:   photoStg,
		tagger:     tagger,
		notifier:   notifier,
		translator: translator,
		opts:       opts,
		logger:     logger,
	}
}

// Website returns the configured website, or ErrNotFound.
func (s *AlbumService) Website(ctx context.Context) (*domain.Website, error) {
	w, err := s.websites.GetByID(ctx, s.opts.SiteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get website: %w", err)
	}
	if w == nil {
		return nil, ErrNotFound
	}
	return w, nil
}

// visibleFilter restricts photos to the active ones of the website that the
// viewer may see.
func visibleFilter(w *domain.Website, viewer *session.Session) store.PhotoFilter {
	return store.PhotoFilter{
		ActiveOnly:   true,
		Visibilities: viewer.Visibilities(),
		WebsiteID:    w.ID,
	}
}

// Page is one page of a photo listing.
type Page struct {
	Website    *domain.Website
	Photos     []*domain.Photo
	Pagination *pagination.Pagination
}

func (s *AlbumService) listPage(ctx context.Context, w *domain.Website, f store.PhotoFilter, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	total, err := s.photos.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	photos, err := s.photos.Find(ctx, f, pagination.Offset(page, s.opts.PageLimit), s.opts.PageLimit)
	if err != nil {
		return nil, err
	}
	return &Page{
		Website:    w,
		Photos:     photos,
		Pagination: pagination.New(page, s.opts.PageLimit, total),
	}, nil
}

// ListPhotos returns a page of the album, newest first.
func (s *AlbumService) ListPhotos(ctx context.Context, viewer *session.Session, page int) (*Page, error) {
	w, err := s.Website(ctx)
	if err != nil {
		return nil, err
	}
	return s.listPage(ctx, w, visibleFilter(w, viewer), page)
}

// PhotoDetail is a photo with the comments shown under it.
type PhotoDetail struct {
	Website         *domain.Website
	Photo           *domain.Photo
	Comments        []*domain.Comment
	CommentsEnabled bool
}

func (s *AlbumService) visiblePhoto(ctx context.Context, w *domain.Website, viewer *session.Session, id int64) (*domain.Photo, error) {
	f := visibleFilter(w, viewer)
	f.IDs = []int64{id}
	photo, err := s.photos.FindOne(ctx, f)
	if err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, ErrNotFound
	}
	return photo, nil
}

// GetPhoto returns a photo the viewer may see. Comments are loaded only when
// they are enabled.
func (s *AlbumService) GetPhoto(ctx context.Context, viewer *session.Session, id int64) (*PhotoDetail, error) {
	w, err := s.Website(ctx)
	if err != nil {
		return nil, err
	}
	photo, err := s.visiblePhoto(ctx, w, viewer, id)
	if err != nil {
		return nil, err
	}

	detail := &PhotoDetail{Website: w, Photo: photo, CommentsEnabled: s.opts.Comments}
	if s.opts.Comments {
		detail.Comments, err = s.comments.ListActiveByPhotoID(ctx, photo.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments: %w", err)
		}
	}
	return detail, nil
}

// PhotoImage opens the stored image of a photo the viewer may see. The
// caller must close the reader.
func (s *AlbumService) PhotoImage(ctx context.Context, viewer *session.Session, id int64) (io.ReadCloser, string, error) {
	w, err := s.Website(ctx)
	if err != nil {
		return nil, "", err
	}
	photo, err := s.visiblePhoto(ctx, w, viewer, id)
	if err != nil {
		return nil, "", err
	}
	rc, mimeType, err := s.photoStg.Get(ctx, photo.StorageKey)
	if errors.Is(err, photostore.ErrNotFound) {
		s.logger.Warn("photo blob missing", "photo_id", photo.ID, "storage_key", photo.StorageKey)
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open photo: %w", err)
	}
	if photo.MimeType != "" {
		mimeType = photo.MimeType
	}
	return rc, mimeType, nil
}

// PhotosByKey lists the photos whose keywords contain key.
func (s *AlbumService) PhotosByKey(ctx context.Context, viewer *session.Session, key string, page int) (*Page, error) {
	w, err := s.Website(ctx)
	if err != nil {
		return nil, err
	}
	f := visibleFilter(w, viewer)
	f.Keyword = key
	return s.listPage(ctx, w, f, page)
}

// UserPage is a listing of one user's photos.
type UserPage struct {
	*Page
	User *domain.User
}

// PhotosByUser lists a user's photos. An unknown user, or one without
// visible photos, is ErrNotFound.
func (s *AlbumService) PhotosByUser(ctx context.Context, viewer *session.Session, userID int64, page int) (*UserPage, error) {
	w, err := s.Website(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	f := visibleFilter(w, viewer)
	f.UserID = user.ID
	p, err := s.listPage(ctx, w, f, page)
	if err != nil {
		return nil, err
	}
	if p.Pagination.Total == 0 {
		return nil, ErrNotFound
	}
	return &UserPage{Page: p, User: user}, nil
}

// SearchPage is one page of full-text search results.
type SearchPage struct {
	*Page
	Query string
}

// Search runs a full-text query in the locale's index. An empty query
// yields an empty page.
func (s *AlbumService) Search(ctx context.Context, viewer *session.Session, locale, q string, page int) (*SearchPage, error) {
	w, err := s.Website(ctx)
	if err != nil {
		return nil, err
	}
	if !s.opts.SearchEnabled || !s.index.HasLocale(locale) {
		return nil, ErrSearchUnavailable
	}
	if page < 1 {
		page = 1
	}

	q = strings.TrimSpace(q)
	result := &SearchPage{
		Page: &Page{
			Website:    w,
			Photos:     []*domain.Photo{},
			Pagination: pagination.New(page, s.opts.PageLimit, 0),
		},
		Query: q,
	}
	if q == "" {
		return result, nil
	}

	hits, err := s.index.Search(ctx, locale, q, page, s.opts.PageLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search photos: %w", err)
	}
	metrics.RecordSearch(hits.Total)

	// Search hits are not bound to a website.
	photos, err := s.photos.Find(ctx, store.PhotoFilter{
		IDs:          hits.IDs,
		ActiveOnly:   true,
		Visibilities: viewer.Visibilities(),
	}, 0, 0)
	if err != nil {
		return nil, err
	}
	result.Photos = photos
	result.Pagination = pagination.New(page, s.opts.PageLimit, hits.Total)
	return result, nil
}

// CanUpload reports whether the viewer may publish new images.
func (s *AlbumService) CanUpload(ctx context.Context, viewer *session.Session) (*domain.Website, error) {
	w, err := s.Website(ctx)
	if err != nil {
		return nil, err
	}
	if !w.PhotoalbumNew {
		metrics.RecordUploadRejected("disabled")
		return nil, ErrUploadDisabled
	}
	if !w.PhotoalbumNewAnon && !viewer.HasUser() {
		metrics.RecordUploadRejected("anonymous")
		return nil, ErrLoginRequired
	}
	return w, nil
}

// MaxSize is the largest accepted image in bytes.
func (s *AlbumService) MaxSize(ctx context.Context) (int64, error) {
	cfg, err := s.config.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get album config: %w", err)
	}
	return cfg.EffectiveMaxSize(), nil
}

// NewPhotoRequest is a validated upload.
type NewPhotoRequest struct {
	Lang        language.Tag
	FileName    string
	Data        []byte
	Description string
	Keywords    string
}

// NewPhoto publishes an uploaded image: it is stored, attached to the
// website as an active public photo, indexed for search and announced by
// email.
func (s *AlbumService) NewPhoto(ctx context.Context, viewer *session.Session, req NewPhotoRequest) (*domain.Photo, error) {
	w, err := s.CanUpload(ctx, viewer)
	if err != nil {
		return nil, err
	}

	maxSize, err := s.MaxSize(ctx)
	if err != nil {
		return nil, err
	}
	if int64(len(req.Data)) > maxSize {
		metrics.RecordUploadRejected("too_large")
		return nil, ErrTooLarge
	}

	mimeType := DetectImageMIME(req.Data)
	if mimeType == "" {
		metrics.RecordUploadRejected("invalid_type")
		return nil, ErrInvalidImage
	}

	owner, err := ownerID(w, viewer)
	if err != nil {
		return nil, err
	}

	s.logger.Info("upload photo started", "user_id", owner, "mime_type", mimeType, "bytes", len(req.Data))

	keywords := strings.TrimSpace(req.Keywords)
	if keywords == "" {
		keywords = s.suggestKeywords(ctx, req.Data, mimeType)
	}

	storageKey, err := s.photoStg.Save(ctx, fmt.Sprintf("user_%d", owner), mimeType, bytes.NewReader(req.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}
	s.logger.Debug("photo saved", "storage_key", storageKey)

	photo, err := s.photos.Create(ctx, store.NewPhoto{
		UserID:       owner,
		FileName:     FileName(req.FileName),
		StorageKey:   storageKey,
		MimeType:     mimeType,
		Description:  strings.TrimSpace(req.Description),
		MetaKeywords: keywords,
		Visibility:   domain.VisibilityPublic,
		WebsiteIDs:   []int64{w.ID},
	})
	if err != nil {
		if derr := s.photoStg.Delete(ctx, storageKey); derr != nil {
			s.logger.Error("failed to remove orphaned photo", "storage_key", storageKey, "error", derr)
		}
		return nil, fmt.Errorf("failed to create photo: %w", err)
	}

	locale := i18n.Locale(req.Lang)
	if s.index.HasLocale(locale) {
		if err := s.index.Add(ctx, photo, locale); err != nil {
			// The photo is published; it only misses from search results.
			s.logger.Error("failed to index photo", "photo_id", photo.ID, "locale", locale, "error", err)
		}
	}

	metrics.RecordPhotoPublished()
	s.logger.Info("photo published", "photo_id", photo.ID, "file_name", photo.FileName)

	s.notifier.PhotoPublished(ctx, s.translator.Printer(req.Lang).Sprintf(i18n.MsgNewImageSubject), photo, s.photoURL(req.Lang, photo.ID))
	return photo, nil
}

// suggestKeywords asks the tagger for keywords. Failures leave the photo
// without keywords.
func (s *AlbumService) suggestKeywords(ctx context.Context, data []byte, mimeType string) string {
	if s.tagger == nil {
		return ""
	}
	start := time.Now()
	keywords, err := s.tagger.Tag(ctx, bytes.NewReader(data), mimeType)
	metrics.RecordTagger(time.Since(start), err)
	if err != nil {
		s.logger.Warn("keyword tagging failed", "error", err)
		return ""
	}
	s.logger.Info("keyword tagging complete", "keywords", len(keywords))
	return strings.Join(keywords, ",")
}

// CommentRequest is a comment posted on a photo.
type CommentRequest struct {
	Lang    language.Tag
	PhotoID int64
	Comment string
}

// AddComment publishes a comment on a photo the viewer may see.
func (s *AlbumService) AddComment(ctx context.Context, viewer *session.Session, req CommentRequest) (*domain.Comment, error) {
	w, err := s.Website(ctx)
	if err != nil {
		return nil, err
	}
	photo, err := s.visiblePhoto(ctx, w, viewer, req.PhotoID)
	if err != nil {
		return nil, err
	}

	switch {
	case !w.PhotoalbumComment:
		metrics.RecordCommentRejected("disabled")
		return nil, ErrCommentsDisabled
	case !w.PhotoalbumAnonymous && !viewer.HasUser():
		metrics.RecordCommentRejected("anonymous")
		return nil, ErrLoginRequired
	case strings.TrimSpace(req.Comment) == "":
		metrics.RecordCommentRejected("empty")
		return nil, ErrEmptyComment
	}

	owner, err := ownerID(w, viewer)
	if err != nil {
		return nil, err
	}

	comment, err := s.comments.Create(ctx, photo.ID, owner, req.Comment)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	metrics.RecordCommentPublished()
	s.logger.Info("comment published", "photo_id", photo.ID, "comment_id", comment.ID)

	s.notifier.CommentPublished(ctx, s.translator.Printer(req.Lang).Sprintf(i18n.MsgNewCommentSubject), photo, comment, s.photoURL(req.Lang, photo.ID))
	return comment, nil
}

// ownerID is the session user, or the website's anonymous user.
func ownerID(w *domain.Website, viewer *session.Session) (int64, error) {
	if viewer.HasUser() {
		return viewer.UserID, nil
	}
	if w.PhotoalbumAnonUserID == nil {
		return 0, fmt.Errorf("website %d has no anonymous user", w.ID)
	}
	return *w.PhotoalbumAnonUserID, nil
}

func (s *AlbumService) photoURL(lang language.Tag, id int64) string {
	return fmt.Sprintf("%s/%s/photoalbum/%d", s.opts.BaseURL, i18n.Locale(lang), id)
}

// FileName derives the stored file name of an upload from its client file
// name: the slug of the stem plus the extension of its MIME type. It falls
// back to UnknownFileName.
func FileName(clientName string) string {
	base := path.Base(strings.ReplaceAll(clientName, `\`, "/"))
	mimeType := GuessMIME(base)
	if mimeType == "" {
		return UnknownFileName
	}
	_, subtype, _ := strings.Cut(mimeType, "/")
	stem := slug.Make(strings.TrimSuffix(base, path.Ext(base)))
	if stem == "" || subtype == "" {
		return UnknownFileName
	}
	return strings.ToLower(stem) + "." + subtype
}

// GuessMIME returns the MIME type implied by a file name's extension, without
// parameters, or "" when the extension is unknown.
func GuessMIME(fileName string) string {
	mimeType := mime.TypeByExtension(strings.ToLower(path.Ext(fileName)))
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.TrimSpace(mimeType)
}

// AllowedFileName reports whether the file name's extension maps to an
// accepted image type.
func AllowedFileName(fileName string) bool {
	return AllowedImageMIME[GuessMIME(fileName)]
}

// DetectImageMIME sniffs the image type of data, returning "" when it is not
// an accepted image.
func DetectImageMIME(data []byte) string {
	mimeType := http.DetectContentType(data)
	if !AllowedImageMIME[mimeType] {
		return ""
	}
	return mimeType
}
