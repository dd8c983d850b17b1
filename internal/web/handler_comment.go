package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/vbonduro/photoalbum/internal/i18n"
	"github.com/vbonduro/photoalbum/internal/service"
	"github.com/vbonduro/photoalbum/internal/session"
)

const maxCommentBytes = 64 * 1024

// handleComment publishes a comment. Apart from an unknown photo, every
// outcome is a flash and a redirect back to the photo.
func (s *Server) handleComment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCommentBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	photoID, err := strconv.ParseInt(r.PostFormValue("photo"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	tag := i18n.LanguageFrom(ctx)
	p := s.printer(r)
	_, err = s.service.AddComment(ctx, session.FromContext(ctx), service.CommentRequest{
		Lang:    tag,
		PhotoID: photoID,
		Comment: r.PostFormValue("comment"),
	})
	switch {
	case err == nil:
		s.flash(w, r, session.FlashSuccess, p.Sprintf(i18n.MsgCommentPublished))
	case errors.Is(err, service.ErrCommentsDisabled):
		s.flash(w, r, session.FlashDanger, p.Sprintf(i18n.MsgCommentsDisabled))
	case errors.Is(err, service.ErrLoginRequired):
		s.flash(w, r, session.FlashDanger, p.Sprintf(i18n.MsgCommentsAnonymous))
	case errors.Is(err, service.ErrEmptyComment):
		s.flash(w, r, session.FlashDanger, p.Sprintf(i18n.MsgEmptyComment))
	default:
		s.serviceError(w, r, err, "add comment failed")
		return
	}

	http.Redirect(w, r, urlsFor(tag).photo(photoID), http.StatusSeeOther)
}
