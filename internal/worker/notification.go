package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
	"github.com/oksasatya/go-medicine-tracker/pkg/mailer"
	tpl "github.com/oksasatya/go-medicine-tracker/pkg/mailer/templates"
)

// ErrPermanent marks messages that can never be delivered; they are dropped
// instead of requeued.
var ErrPermanent = errors.New("permanent delivery failure")

// Sender delivers one email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Processor turns queued notification jobs into emails. With a nil Mail
// the job is only logged.
type Processor struct {
	Users   repo.UserRepository
	Mail    Sender
	AppName string
	Logger  *logrus.Logger
}

// Handle processes one message body. Errors wrapping ErrPermanent should not
// be retried.
func (p *Processor) Handle(ctx context.Context, body []byte) error {
	var job mailer.NotificationJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrPermanent, err)
	}
	if job.UserID == "" || job.Title == "" {
		return fmt.Errorf("%w: missing user_id or title", ErrPermanent)
	}
	entry := p.Logger.WithFields(logrus.Fields{"user_id": job.UserID, "kind": job.Kind})

	if p.Mail == nil {
		entry.WithField("title", job.Title).Info("notification received (delivery disabled)")
		return nil
	}

	u, err := p.Users.GetByID(ctx, job.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("%w: user %s not found", ErrPermanent, job.UserID)
	}
	if err != nil {
		return err
	}

	subject, text, html, err := tpl.Render(tpl.Notification, tpl.NotificationData{
		AppName: p.AppName,
		Email:   u.Email,
		Title:   job.Title,
		Body:    job.Body,
		Kind:    job.Kind,
		TimeAt:  job.SentAt,
	})
	if err != nil {
		return fmt.Errorf("%w: render: %v", ErrPermanent, err)
	}
	if err := p.Mail.Send(ctx, u.Email, subject, text, html); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	entry.Info("notification emailed")
	return nil
}
