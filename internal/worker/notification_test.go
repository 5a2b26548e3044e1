package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-medicine-tracker/internal/application"
	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	"github.com/oksasatya/go-medicine-tracker/internal/infrastructure/memory"
	"github.com/oksasatya/go-medicine-tracker/pkg/mailer"
)

type sentMail struct{ to, subject, text, html string }

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, text, html})
	return nil
}

func newProcessor(t *testing.T, mail Sender) (*Processor, string) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	st := memory.NewStore()
	u := &entity.User{Email: "ada@example.com", Password: "x", PasswordLastChanged: time.Now()}
	require.NoError(t, st.Users().Create(context.Background(), u))
	return &Processor{Users: st.Users(), Mail: mail, AppName: "Pillbox", Logger: logger}, u.ID
}

func body(t *testing.T, job mailer.NotificationJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestHandleEmailsNotification(t *testing.T) {
	mail := &fakeSender{}
	p, uid := newProcessor(t, mail)

	err := p.Handle(context.Background(), body(t, mailer.NotificationJob{
		UserID: uid,
		Title:  "Medicine Reminder",
		Body:   "Time to take Aspirin",
		Kind:   application.NotificationDoseReminder,
		SentAt: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	}))

	require.NoError(t, err)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "ada@example.com", mail.sent[0].to)
	assert.Equal(t, "[Pillbox] Medicine Reminder", mail.sent[0].subject)
	assert.Contains(t, mail.sent[0].text, "Time to take Aspirin")
	assert.Contains(t, mail.sent[0].html, "01 May 2024")
}

func TestHandleWithoutMailerOnlyLogs(t *testing.T) {
	p, uid := newProcessor(t, nil)

	assert.NoError(t, p.Handle(context.Background(), body(t, mailer.NotificationJob{UserID: uid, Title: "x"})))
}

func TestHandlePermanentFailures(t *testing.T) {
	p, _ := newProcessor(t, &fakeSender{})

	err := p.Handle(context.Background(), []byte("{"))
	assert.ErrorIs(t, err, ErrPermanent)

	err = p.Handle(context.Background(), body(t, mailer.NotificationJob{Title: "no user"}))
	assert.ErrorIs(t, err, ErrPermanent)

	err = p.Handle(context.Background(), body(t, mailer.NotificationJob{UserID: "ghost", Title: "x"}))
	assert.ErrorIs(t, err, ErrPermanent)
}

func TestHandleSendFailureIsRetryable(t *testing.T) {
	p, uid := newProcessor(t, &fakeSender{err: errors.New("mailgun 503")})

	err := p.Handle(context.Background(), body(t, mailer.NotificationJob{UserID: uid, Title: "x"}))

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPermanent)
}
