package push

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-medicine-tracker/internal/application"
	"github.com/oksasatya/go-medicine-tracker/pkg/helpers"
	"github.com/oksasatya/go-medicine-tracker/pkg/mailer"
)

// RabbitSink hands notifications to the push queue; the notification
// worker delivers them.
type RabbitSink struct {
	Publisher *helpers.RabbitPublisher
	Now       func() time.Time
}

func NewRabbitSink(p *helpers.RabbitPublisher) *RabbitSink {
	return &RabbitSink{Publisher: p, Now: time.Now}
}

func (s *RabbitSink) Send(ctx context.Context, userID, title, body string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.Publisher.PublishJSON(ctx, mailer.NotificationJob{
		UserID: userID,
		Title:  title,
		Body:   body,
		Kind:   application.NotificationKind(ctx),
		SentAt: s.Now().UTC(),
	})
}

// LogSink only logs. It is used when no broker is configured.
type LogSink struct {
	Logger *logrus.Logger
}

func (s *LogSink) Send(ctx context.Context, userID, title, body string) error {
	s.Logger.WithFields(logrus.Fields{
		"user_id": userID,
		"kind":    application.NotificationKind(ctx),
		"title":   title,
		"body":    body,
	}).Info("push notification (log only)")
	return nil
}

var (
	_ application.PushSink = (*RabbitSink)(nil)
	_ application.PushSink = (*LogSink)(nil)
)
