package jobs

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	JobDoseReminders = "dose_reminders"
	JobExpiryAlerts  = "expiry_alerts"
	JobPurgeRevoked  = "purge_revoked_tokens"
)

type DoseReminderSender interface {
	SendDoseReminders(ctx context.Context, now time.Time) (int, error)
}

type ExpiryAlertSender interface {
	SendExpiryAlerts(ctx context.Context, now time.Time) (int, error)
}

type RevocationPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Specs are robfig/cron expressions, evaluated in UTC.
type Specs struct {
	Reminders string
	Expiry    string
	Purge     string
}

type job struct {
	spec string
	run  func(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler runs the notification and housekeeping sweeps.
type Scheduler struct {
	cron    *cron.Cron
	jobs    map[string]job
	logger  *logrus.Logger
	timeout time.Duration
	now     func() time.Time
}

func New(specs Specs, reminders DoseReminderSender, expiry ExpiryAlertSender, purger RevocationPurger, logger *logrus.Logger) (*Scheduler, error) {
	adapter := cronLogger{logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(adapter),
			cron.WithChain(cron.Recover(adapter), cron.SkipIfStillRunning(adapter)),
		),
		jobs:    map[string]job{},
		logger:  logger,
		timeout: 50 * time.Second,
		now:     time.Now,
	}

	s.jobs[JobDoseReminders] = job{specs.Reminders, func(ctx context.Context, now time.Time) (int64, error) {
		n, err := reminders.SendDoseReminders(ctx, now.Truncate(time.Minute))
		return int64(n), err
	}}
	s.jobs[JobExpiryAlerts] = job{specs.Expiry, func(ctx context.Context, now time.Time) (int64, error) {
		n, err := expiry.SendExpiryAlerts(ctx, now)
		return int64(n), err
	}}
	s.jobs[JobPurgeRevoked] = job{specs.Purge, purger.PurgeExpired}

	for _, name := range s.Names() {
		if _, err := s.cron.AddFunc(s.jobs[name].spec, func() { _ = s.Run(context.Background(), name) }); err != nil {
			return nil, fmt.Errorf("schedule %s (%q): %w", name, s.jobs[name].spec, err)
		}
	}
	return s, nil
}

// Names lists the registered jobs in a stable order.
func (s *Scheduler) Names() []string {
	names := make([]string, 0, len(s.jobs))
	for n := range s.jobs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Run executes one job immediately with the scheduler's timeout.
func (s *Scheduler) Run(ctx context.Context, name string) error {
	j, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	began := time.Now()
	n, err := j.run(ctx, s.now().UTC())
	entry := s.logger.WithFields(logrus.Fields{"job": name, "count": n, "took_ms": time.Since(began).Milliseconds()})
	if err != nil {
		entry.WithError(err).Error("job failed")
		return err
	}
	entry.Info("job finished")
	return nil
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop waits for running jobs to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// cronLogger adapts logrus to cron.Logger.
type cronLogger struct{ l *logrus.Logger }

func fields(kv []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return f
}

func (c cronLogger) Info(msg string, kv ...interface{}) {
	c.l.WithFields(fields(kv)).Debug("cron: " + msg)
}

func (c cronLogger) Error(err error, msg string, kv ...interface{}) {
	c.l.WithFields(fields(kv)).WithError(err).Error("cron: " + msg)
}
