package web

import (
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/photoalbum/internal/i18n"
	"github.com/vbonduro/photoalbum/internal/logging"
	"github.com/vbonduro/photoalbum/internal/pagination"
	"github.com/vbonduro/photoalbum/internal/session"
)

func (s *Server) handleListPhotos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, err := s.service.ListPhotos(ctx, session.FromContext(ctx), parsePage(r))
	if err != nil {
		s.serviceError(w, r, err, "list photos failed")
		return
	}

	s.render(w, r, map[string]any{
		"Page":        page,
		"Breadcrumbs": s.breadcrumbs(r),
	}, "pages/photos.html")
}

func (s *Server) handlePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	detail, err := s.service.GetPhoto(ctx, session.FromContext(ctx), id)
	if err != nil {
		s.serviceError(w, r, err, "get photo failed")
		return
	}

	var crumbs []breadcrumb
	if owner := detail.Photo.User; owner != nil {
		u := urlsFor(i18n.LanguageFrom(ctx))
		crumbs = append(crumbs, breadcrumb{URL: u.user(owner.ID), Name: owner.RecName()})
	}
	s.render(w, r, map[string]any{
		"Website":         detail.Website,
		"Photo":           detail.Photo,
		"Comments":        detail.Comments,
		"CommentsEnabled": detail.CommentsEnabled,
		"Breadcrumbs":     s.breadcrumbs(r, crumbs...),
	}, "pages/photo.html")
}

func (s *Server) handlePhotoImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	rc, mimeType, err := s.service.PhotoImage(ctx, session.FromContext(ctx), id)
	if err != nil {
		s.serviceError(w, r, err, "get photo image failed")
		return
	}
	defer closeWithLog(rc, "photo image", logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := io.Copy(w, rc); err != nil {
		logger.Error("failed to stream photo", "photo_id", id, "error", err)
	}
}

func (s *Server) handlePhotosByKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(key); err == nil {
			key = unescaped
		}
	}

	ctx := r.Context()
	page, err := s.service.PhotosByKey(ctx, session.FromContext(ctx), key, parsePage(r))
	if err != nil {
		s.serviceError(w, r, err, "list photos by key failed")
		return
	}

	u := urlsFor(i18n.LanguageFrom(ctx))
	s.render(w, r, map[string]any{
		"Page":        page,
		"Key":         key,
		"Breadcrumbs": s.breadcrumbs(r, breadcrumb{URL: u.key(key), Name: key}),
	}, "pages/key.html")
}

func (s *Server) handlePhotosByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r, "user")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	page, err := s.service.PhotosByUser(ctx, session.FromContext(ctx), userID, parsePage(r))
	if err != nil {
		s.serviceError(w, r, err, "list photos by user failed")
		return
	}

	u := urlsFor(i18n.LanguageFrom(ctx))
	s.render(w, r, map[string]any{
		"Page":        page,
		"Breadcrumbs": s.breadcrumbs(r, breadcrumb{URL: u.user(page.User.ID), Name: page.User.RecName()}),
	}, "pages/user.html")
}

func parseID(r *http.Request, param string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, param), 10, 64)
}

func parsePage(r *http.Request) int {
	return pagination.ParsePage(r.URL.Query().Get("page"))
}
