package web

import (
	"net/http"
	"strings"

	"github.com/vbonduro/photoalbum/internal/i18n"
	"github.com/vbonduro/photoalbum/internal/session"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tag := i18n.LanguageFrom(ctx)
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	page, err := s.service.Search(ctx, session.FromContext(ctx), i18n.Locale(tag), q, parsePage(r))
	if err != nil {
		s.serviceError(w, r, err, "search failed")
		return
	}

	u := urlsFor(tag)
	s.render(w, r, map[string]any{
		"Page":        page,
		"Query":       q,
		"Breadcrumbs": s.breadcrumbs(r, breadcrumb{URL: u.search(), Name: s.printer(r).Sprintf(i18n.MsgSearch)}),
	}, "pages/search.html")
}
