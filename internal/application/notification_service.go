package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	repo "github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
)

// NotificationService produces dose reminders and expiry alerts. Users
// without a device token are skipped. Delivery failures are logged and
// never stop a sweep.
type NotificationService struct {
	Schedules    repo.ScheduleRepository
	Medicines    repo.MedicineRepository
	Users        repo.UserRepository
	Push         PushSink
	ExpiryWindow time.Duration
	Logger       *logrus.Logger
}

func NewNotificationService(s repo.ScheduleRepository, m repo.MedicineRepository, u repo.UserRepository, push PushSink, window time.Duration, logger *logrus.Logger) *NotificationService {
	return &NotificationService{Schedules: s, Medicines: m, Users: u, Push: push, ExpiryWindow: window, Logger: logger}
}

// deviceTokens caches lookups for the duration of one sweep.
type deviceTokens struct {
	users repo.UserRepository
	seen  map[string]string
}

func (d *deviceTokens) get(ctx context.Context, userID string) (string, error) {
	if tok, ok := d.seen[userID]; ok {
		return tok, nil
	}
	u, err := d.users.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		d.seen[userID] = ""
		return "", nil
	}
	if err != nil {
		return "", err
	}
	d.seen[userID] = u.DeviceToken
	return u.DeviceToken, nil
}

func (s *NotificationService) send(ctx context.Context, kind, userID, title, body string) bool {
	if err := s.Push.Send(WithNotificationKind(ctx, kind), userID, title, body); err != nil {
		incr(metricPushFailures)
		s.Logger.WithError(err).WithField("user_id", userID).Warn("push notification failed")
		return false
	}
	return true
}

// SendDoseReminders notifies owners of schedules due at now's minute and
// returns how many notifications were handed to the sink.
func (s *NotificationService) SendDoseReminders(ctx context.Context, now time.Time) (int, error) {
	tod := entity.TimeOfDay{Hour: now.Hour(), Minute: now.Minute()}
	schedules, err := s.Schedules.ListActiveAt(ctx, tod)
	if err != nil {
		return 0, err
	}
	tokens := &deviceTokens{users: s.Users, seen: map[string]string{}}
	sent := 0
	for i := range schedules {
		sc := &schedules[i]
		if !sc.DueAt(now) {
			continue
		}
		m, err := s.Medicines.GetByID(ctx, sc.MedicineID)
		if err != nil || !m.IsActive() {
			continue
		}
		tok, err := tokens.get(ctx, sc.UserID)
		if err != nil {
			s.Logger.WithError(err).WithField("user_id", sc.UserID).Warn("reminder user lookup failed")
			continue
		}
		if tok == "" {
			continue
		}
		body := fmt.Sprintf("Time to take %s", m.Name)
		if m.Dosage != "" {
			body += fmt.Sprintf(" (%s)", m.Dosage)
		}
		if s.send(ctx, NotificationDoseReminder, sc.UserID, "Medicine Reminder", body) {
			sent++
			incr(metricReminders)
		}
	}
	if sent > 0 {
		s.Logger.WithFields(logrus.Fields{"time_of_day": tod.String(), "sent": sent}).Info("dose reminders sent")
	}
	return sent, nil
}

// SendExpiryAlerts warns owners of ACTIVE medicines that expire within the
// configured window, counted from the start of now's day.
func (s *NotificationService) SendExpiryAlerts(ctx context.Context, now time.Time) (int, error) {
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	meds, err := s.Medicines.ListExpiring(ctx, from, from.Add(s.ExpiryWindow))
	if err != nil {
		return 0, err
	}
	tokens := &deviceTokens{users: s.Users, seen: map[string]string{}}
	sent := 0
	for _, m := range meds {
		tok, err := tokens.get(ctx, m.UserID)
		if err != nil {
			s.Logger.WithError(err).WithField("user_id", m.UserID).Warn("expiry user lookup failed")
			continue
		}
		if tok == "" {
			continue
		}
		body := fmt.Sprintf("%s expires on %s", m.Name, m.ExpiryDate.Format("2006-01-02"))
		if s.send(ctx, NotificationExpiryAlert, m.UserID, "Medicine Expiring Soon", body) {
			sent++
			incr(metricExpiryAlerts)
		}
	}
	if sent > 0 {
		s.Logger.WithField("sent", sent).Info("expiry alerts sent")
	}
	return sent, nil
}
