// Package mail sends the album's notification emails.
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	texttemplate "text/template"

	"github.com/vbonduro/photoalbum/internal/domain"
	"github.com/vbonduro/photoalbum/internal/metrics"
)

//go:embed templates/*
var templateFS embed.FS

// Notification is the data every email template renders.
type Notification struct {
	SiteTitle string
	Photo     *domain.Photo
	Comment   *domain.Comment
	URL       string
}

// Notifier renders and sends the new photo and new comment emails. The
// sender and the recipient are both the configured default sender.
type Notifier struct {
	sender        Sender
	defaultSender string
	siteTitle     string
	logger        *slog.Logger
	text          *texttemplate.Template
	html          *htmltemplate.Template
}

// NewNotifier returns a notifier delivering through sender. A nil sender or
// an empty defaultSender disables delivery.
func NewNotifier(sender Sender, defaultSender, siteTitle string, logger *slog.Logger) (*Notifier, error) {
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse html templates: %w", err)
	}
	return &Notifier{
		sender:        sender,
		defaultSender: defaultSender,
		siteTitle:     siteTitle,
		logger:        logger,
		text:          text,
		html:          html,
	}, nil
}

// Enabled reports whether emails are actually delivered.
func (n *Notifier) Enabled() bool {
	return n.sender != nil && n.defaultSender != ""
}

// PhotoPublished announces a new photo. event is the localized subject suffix.
func (n *Notifier) PhotoPublished(ctx context.Context, event string, photo *domain.Photo, url string) {
	n.notify(ctx, "new_photo", event, Notification{
		SiteTitle: n.siteTitle,
		Photo:     photo,
		URL:       url,
	})
}

// CommentPublished announces a new comment on photo.
func (n *Notifier) CommentPublished(ctx context.Context, event string, photo *domain.Photo, comment *domain.Comment, url string) {
	n.notify(ctx, "new_comment", event, Notification{
		SiteTitle: n.siteTitle,
		Photo:     photo,
		Comment:   comment,
		URL:       url,
	})
}

// notify never fails the caller: render and delivery errors are only logged.
func (n *Notifier) notify(ctx context.Context, name, event string, data Notification) {
	logger := n.logger.With("template", name)
	if !n.Enabled() {
		logger.Debug("mail disabled, skipping notification")
		return
	}

	msg, err := n.render(name, event, data)
	if err != nil {
		metrics.RecordNotification(name, err)
		logger.Error("failed to render notification", "error", err)
		return
	}

	err = n.sender.Send(ctx, msg)
	metrics.RecordNotification(name, err)
	if err != nil {
		logger.Error("failed to send notification", "to", msg.To, "error", err)
		return
	}
	logger.Info("notification sent", "to", msg.To, "subject", msg.Subject)
}

func (n *Notifier) render(name, event string, data Notification) (Message, error) {
	var text, html bytes.Buffer
	if err := n.text.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return Message{}, fmt.Errorf("failed to render %s.txt: %w", name, err)
	}
	if err := n.html.ExecuteTemplate(&html, name+".html", data); err != nil {
		return Message{}, fmt.Errorf("failed to render %s.html: %w", name, err)
	}
	return Message{
		From:    n.defaultSender,
		To:      n.defaultSender,
		Subject: fmt.Sprintf("%s - %s", n.siteTitle, event),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
