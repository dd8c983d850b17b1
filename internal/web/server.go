package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vbonduro/photoalbum/internal/i18n"
	"github.com/vbonduro/photoalbum/internal/logging"
	"github.com/vbonduro/photoalbum/internal/metrics"
	"github.com/vbonduro/photoalbum/internal/pagination"
	"github.com/vbonduro/photoalbum/internal/service"
	"github.com/vbonduro/photoalbum/internal/session"
)

// Config holds the web settings that are not owned by the service.
type Config struct {
	SiteTitle string
	// LoginURL is where anonymous visitors are sent to log in. A "{lang}"
	// placeholder is replaced with the request language.
	LoginURL string
	// Uploads and comments accepted per client IP and minute. Zero disables
	// the limit.
	UploadRateLimit  int
	CommentRateLimit int
}

type Server struct {
	service    *service.AlbumService
	templates  fs.FS
	sessions   *session.Store
	translator *i18n.Translator
	cfg        Config
	router     chi.Router
	logger     *slog.Logger
}

func NewServer(svc *service.AlbumService, tmpl fs.FS, sessions *session.Store, translator *i18n.Translator, cfg Config, logger *slog.Logger) *Server {
	if cfg.LoginURL == "" {
		cfg.LoginURL = "/login"
	}
	s := &Server{
		service:    svc,
		templates:  tmpl,
		sessions:   sessions,
		translator: translator,
		cfg:        cfg,
		router:     chi.NewRouter(),
		logger:     logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(metricsMiddleware)
	r.Use(s.sessions.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, urlsFor(s.translator.Default()).photos(), http.StatusSeeOther)
	})

	r.Route("/{lang}/photoalbum", func(r chi.Router) {
		r.Use(s.languageMiddleware)

		r.Get("/", s.handleListPhotos)
		r.Get("/search", s.handleSearch)
		r.Get("/search/", s.handleSearch)
		r.Get("/key/{key}", s.handlePhotosByKey)
		r.Get("/user/{user}", s.handlePhotosByUser)
		r.Get("/new", s.handleNewPhotoForm)
		r.With(rateLimit(s.cfg.UploadRateLimit)).Post("/new", s.handleNewPhoto)
		r.With(rateLimit(s.cfg.CommentRateLimit)).Post("/comment", s.handleComment)
		r.Get("/{id}", s.handlePhoto)
		r.Get("/{id}/image", s.handlePhotoImage)
	})
}

// rateLimit limits requests per client IP and minute.
func rateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByIP(perMinute, time.Minute)
}

// languageMiddleware resolves the {lang} prefix. Unsupported languages are
// not found.
func (s *Server) languageMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tag, ok := s.translator.Match(chi.URLParam(r, "lang"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLanguage(r.Context(), tag)))
	})
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data:; "+
				"form-action 'self'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// requestLogger logs every request and stores a request-scoped logger in
// the context for handlers.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := s.logger.With("request_id", middleware.GetReqID(r.Context()))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logging.WithLogger(r.Context(), logger)))
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		metrics.RecordHTTPRequest(r.Method, route, rec.status, time.Since(start))
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// urls builds the blueprint paths for one language.
type urls struct {
	lang string
}

func urlsFor(tag language.Tag) urls {
	return urls{lang: i18n.Locale(tag)}
}

func (u urls) base() string          { return "/" + u.lang + "/photoalbum" }
func (u urls) photos() string        { return u.base() + "/" }
func (u urls) photo(id int64) string { return u.base() + "/" + strconv.FormatInt(id, 10) }
func (u urls) image(id int64) string { return u.photo(id) + "/image" }
func (u urls) key(k string) string   { return u.base() + "/key/" + url.PathEscape(k) }
func (u urls) user(id int64) string  { return u.base() + "/user/" + strconv.FormatInt(id, 10) }
func (u urls) search() string        { return u.base() + "/search/" }
func (u urls) newPhoto() string      { return u.base() + "/new" }
func (u urls) comment() string       { return u.base() + "/comment" }

// pageURL is the current request URL with its page parameter replaced.
func pageURL(current *url.URL, page int) string {
	q := current.Query()
	q.Set("page", strconv.Itoa(page))
	return current.Path + "?" + q.Encode()
}

func (s *Server) loginURL(lang string) string {
	return strings.ReplaceAll(s.cfg.LoginURL, "{lang}", lang)
}

func (s *Server) printer(r *http.Request) *message.Printer {
	return s.translator.Printer(i18n.LanguageFrom(r.Context()))
}

func (s *Server) tmplFuncs(r *http.Request) template.FuncMap {
	p := s.printer(r)
	u := urlsFor(i18n.LanguageFrom(r.Context()))
	return template.FuncMap{
		"t":          func(key string, args ...any) string { return p.Sprintf(key, args...) },
		"photosURL":  u.photos,
		"photoURL":   u.photo,
		"imageURL":   u.image,
		"keyURL":     u.key,
		"userURL":    u.user,
		"searchURL":  u.search,
		"newURL":     u.newPhoto,
		"commentURL": u.comment,
		"pageURL":    func(page int) string { return pageURL(r.URL, page) },
		"pageInfo": func(pg *pagination.Pagination) template.HTML {
			// The format is a catalog entry and the values are integers.
			return template.HTML(pg.Info(p.Sprintf(i18n.MsgDisplay)))
		},
		"date": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	}
}

type breadcrumb struct {
	URL  string
	Name string
}

// breadcrumbs starts the trail at the album and appends extra.
func (s *Server) breadcrumbs(r *http.Request, extra ...breadcrumb) []breadcrumb {
	u := urlsFor(i18n.LanguageFrom(r.Context()))
	crumbs := []breadcrumb{{URL: u.photos(), Name: s.printer(r).Sprintf(i18n.MsgPhotoAlbum)}}
	return append(crumbs, extra...)
}

var layoutFiles = []string{"base.html", "partials/photo_grid.html", "partials/pagination.html"}

// renderPage parses the layout plus files and executes "base" with data.
// The page is buffered so a failing template never sends half a document.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any, files ...string) error {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Query"]; !ok {
		data["Query"] = ""
	}
	data["Lang"] = i18n.Locale(i18n.LanguageFrom(r.Context()))
	data["SiteTitle"] = s.cfg.SiteTitle
	data["Session"] = session.FromContext(r.Context())
	data["Flashes"] = s.sessions.PopFlashes(w, r)

	tmpl, err := template.New("").Funcs(s.tmplFuncs(r)).ParseFS(s.templates, slices.Concat(layoutFiles, files)...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = buf.WriteTo(w)
	return err
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, data map[string]any, files ...string) {
	if err := s.renderPage(w, r, data, files...); err != nil {
		logging.FromContext(r.Context()).Error("render page error", "error", err)
	}
}

// flash queues a message for the next page. A failure only loses the message.
func (s *Server) flash(w http.ResponseWriter, r *http.Request, category, msg string) {
	if err := s.sessions.AddFlash(w, r, category, msg); err != nil {
		logging.FromContext(r.Context()).Error("failed to add flash", "error", err)
	}
}

// serviceError answers a failed service call: not found and unavailable
// features are 404, anything else is logged and 500.
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrSearchUnavailable) {
		http.NotFound(w, r)
		return
	}
	logging.FromContext(r.Context()).Error(msg, "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// closeWithLog closes c and logs any error. Intended for use with defer.
func closeWithLog(c io.Closer, name string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close "+name, "error", err)
	}
}
