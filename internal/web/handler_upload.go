package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/vbonduro/photoalbum/internal/i18n"
	"github.com/vbonduro/photoalbum/internal/logging"
	"github.com/vbonduro/photoalbum/internal/service"
	"github.com/vbonduro/photoalbum/internal/session"
)

const (
	// multipartOverhead is the room left in the request body for the form
	// fields and part headers next to the image.
	multipartOverhead = 1 << 20
	maxFormMemory     = 32 << 20
)

// uploadLimit caps the upload request body for images of up to maxSize
// bytes. Larger bodies are answered as too large.
func uploadLimit(maxSize int64) int64 {
	return maxSize + multipartOverhead
}

// sizeInMB renders a byte count in whole megabytes for the too-large message.
func sizeInMB(n int64) int64 {
	return n / 1000000
}

func (s *Server) handleNewPhotoForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := s.service.CanUpload(ctx, session.FromContext(ctx)); err != nil {
		s.uploadRefused(w, r, err)
		return
	}
	s.renderNewForm(w, r, &PhotoForm{}, nil)
}

func (s *Server) handleNewPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	viewer := session.FromContext(ctx)

	if _, err := s.service.CanUpload(ctx, viewer); err != nil {
		s.uploadRefused(w, r, err)
		return
	}

	maxSize, err := s.service.MaxSize(ctx)
	if err != nil {
		s.serviceError(w, r, err, "get max size failed")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, uploadLimit(maxSize))
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.uploadRefused(w, r, service.ErrTooLarge)
			return
		}
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logger.Error("failed to remove multipart files", "error", err)
		}
	}()

	form := &PhotoForm{
		Description: r.FormValue("description"),
		Keywords:    r.FormValue("keywords"),
	}
	file, header, err := r.FormFile("photo")
	switch {
	case err == nil:
		defer closeWithLog(file, "upload file", logger)
		form.FileName = header.Filename
	case errors.Is(err, http.ErrMissingFile):
	default:
		http.Error(w, "failed to read form file", http.StatusBadRequest)
		return
	}

	p := s.printer(r)
	if errs := form.Validate(p); errs != nil {
		s.renderNewForm(w, r, form, errs)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusInternalServerError)
		logger.Error("read upload failed", "error", err)
		return
	}

	photo, err := s.service.NewPhoto(ctx, viewer, service.NewPhotoRequest{
		Lang:        i18n.LanguageFrom(ctx),
		FileName:    form.FileName,
		Data:        data,
		Description: form.Description,
		Keywords:    form.Keywords,
	})
	if errors.Is(err, service.ErrInvalidImage) {
		s.renderNewForm(w, r, form, map[string]string{"photo": p.Sprintf(i18n.MsgSelectImage)})
		return
	}
	if err != nil {
		s.uploadRefused(w, r, err)
		return
	}

	s.flash(w, r, session.FlashSuccess, p.Sprintf(i18n.MsgImagePublished))
	http.Redirect(w, r, urlsFor(i18n.LanguageFrom(ctx)).photo(photo.ID), http.StatusSeeOther)
}

// uploadRefused answers an upload the service turned down with a flash and
// a redirect. Other errors fall through to serviceError.
func (s *Server) uploadRefused(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	p := s.printer(r)
	u := urlsFor(i18n.LanguageFrom(ctx))

	switch {
	case errors.Is(err, service.ErrUploadDisabled):
		s.flash(w, r, session.FlashDanger, p.Sprintf(i18n.MsgNewDisabled))
		http.Redirect(w, r, u.photos(), http.StatusSeeOther)
	case errors.Is(err, service.ErrLoginRequired):
		s.flash(w, r, session.FlashDanger, p.Sprintf(i18n.MsgNewAnonymous))
		http.Redirect(w, r, s.loginURL(u.lang), http.StatusSeeOther)
	case errors.Is(err, service.ErrTooLarge):
		maxSize, serr := s.service.MaxSize(ctx)
		if serr != nil {
			s.serviceError(w, r, serr, "get max size failed")
			return
		}
		s.flash(w, r, session.FlashDanger, p.Sprintf(i18n.MsgImageTooLarge, sizeInMB(maxSize)))
		http.Redirect(w, r, u.newPhoto(), http.StatusSeeOther)
	default:
		s.serviceError(w, r, err, "upload photo failed")
	}
}

func (s *Server) renderNewForm(w http.ResponseWriter, r *http.Request, form *PhotoForm, errs map[string]string) {
	if errs == nil {
		errs = map[string]string{}
	}
	s.render(w, r, map[string]any{
		"Form":        form,
		"Errors":      errs,
		"Breadcrumbs": s.breadcrumbs(r, breadcrumb{Name: s.printer(r).Sprintf(i18n.MsgNew)}),
	}, "pages/new.html")
}
