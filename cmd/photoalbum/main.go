package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vbonduro/photoalbum/internal/config"
	"github.com/vbonduro/photoalbum/internal/db"
	"github.com/vbonduro/photoalbum/internal/i18n"
	"github.com/vbonduro/photoalbum/internal/logging"
	"github.com/vbonduro/photoalbum/internal/mail"
	"github.com/vbonduro/photoalbum/internal/photostore/local"
	"github.com/vbonduro/photoalbum/internal/search"
	"github.com/vbonduro/photoalbum/internal/service"
	"github.com/vbonduro/photoalbum/internal/session"
	"github.com/vbonduro/photoalbum/internal/store"
	"github.com/vbonduro/photoalbum/internal/vision"
	claudevision "github.com/vbonduro/photoalbum/internal/vision/claude"
	ollamavision "github.com/vbonduro/photoalbum/internal/vision/ollama"
	"github.com/vbonduro/photoalbum/internal/web"
	"github.com/vbonduro/photoalbum/internal/web/templates"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	if err := run(cfg, logger); err != nil {
		logger.Error("photoalbum stopped", "error", err)
		cleanup()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	photoStg, err := local.NewLocalPhotoStore(cfg.Photos.Path)
	if err != nil {
		return err
	}

	translator, err := i18n.New(cfg.Site.Languages)
	if err != nil {
		return err
	}

	sessions, err := session.NewStore(session.Options{
		Secret:     cfg.Session.Secret,
		CookieName: cfg.Session.Cookie,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	})
	if err != nil {
		return err
	}

	notifier, err := mail.NewNotifier(newMailSender(cfg, logger), cfg.Mail.DefaultSender, cfg.Site.Title, logger)
	if err != nil {
		return err
	}

	albumService := service.NewAlbumService(
		service.Repositories{
			Websites: store.NewWebsiteStore(database),
			Users:    store.NewUserStore(database),
			Config:   store.NewConfigStore(database),
			Photos:   store.NewPhotoStore(database),
			Comments: store.NewCommentStore(database),
		},
		search.NewIndex(database, cfg.Search.Locales, cfg.Search.MaxLimit),
		photoStg,
		newTagger(cfg, logger),
		notifier,
		translator,
		service.Options{
			SiteID:        cfg.Site.ID,
			PageLimit:     cfg.Album.PaginationLimit,
			Comments:      cfg.Album.Comments,
			SearchEnabled: cfg.Search.Enabled,
			BaseURL:       cfg.Server.BaseURL,
		},
		logger,
	)

	server := web.NewServer(albumService, templates.FS, sessions, translator, web.Config{
		SiteTitle:        cfg.Site.Title,
		LoginURL:         cfg.Site.LoginURL,
		UploadRateLimit:  cfg.RateLimit.Uploads,
		CommentRateLimit: cfg.RateLimit.Comments,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.ListenAndServe(ctx, cfg.Server.ListenAddr)
}

// newMailSender returns nil, which disables notifications, when no SMTP host
// is configured.
func newMailSender(cfg *config.Config, logger *slog.Logger) mail.Sender {
	if cfg.Mail.Host == "" {
		logger.Info("mail disabled: no SMTP host configured")
		return nil
	}
	sender, err := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		UseTLS:   cfg.Mail.UseTLS,
		Timeout:  cfg.Mail.Timeout,
	})
	if err != nil {
		logger.Error("mail disabled: invalid SMTP settings", "error", err)
		return nil
	}
	logger.Info("mail enabled", "host", cfg.Mail.Host, "port", cfg.Mail.Port)
	return sender
}

// newTagger returns the configured keyword tagger behind a circuit breaker,
// or nil when tagging is disabled.
func newTagger(cfg *config.Config, logger *slog.Logger) vision.Tagger {
	var backend vision.Tagger
	switch cfg.Tagger.Backend {
	case "claude":
		logger.Info("using Claude keyword tagger", "model", cfg.Tagger.ClaudeModel)
		backend = claudevision.NewClaudeTagger(cfg.Tagger.ClaudeAPIKey, cfg.Tagger.ClaudeModel, "")
	case "ollama":
		logger.Info("using Ollama keyword tagger", "model", cfg.Tagger.OllamaModel)
		backend = ollamavision.NewOllamaTagger(cfg.Tagger.OllamaHost, cfg.Tagger.OllamaModel)
	default:
		logger.Info("keyword tagger disabled")
		return nil
	}
	return vision.NewBreakerTagger(backend, vision.BreakerSettings{}, logger)
}
