package entity

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is how often a schedule repeats.
type Frequency string

const (
	FrequencyDaily    Frequency = "DAILY"
	FrequencyWeekly   Frequency = "WEEKLY"
	FrequencyBiweekly Frequency = "BIWEEKLY"
	FrequencyMonthly  Frequency = "MONTHLY"
	FrequencyCustom   Frequency = "CUSTOM"
)

// ParseFrequency returns DAILY for an empty string.
func ParseFrequency(s string) (Frequency, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return FrequencyDaily, nil
	}
	switch f := Frequency(s); f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyCustom:
		return f, nil
	default:
		return "", fmt.Errorf("unknown frequency %q", s)
	}
}

// TimeOfDay is a wall-clock minute, e.g. 08:30.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS" (seconds are dropped).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// At reports whether now falls in this minute.
func (t TimeOfDay) At(now time.Time) bool {
	return now.Hour() == t.Hour && now.Minute() == t.Minute
}

// Schedule is a recurring reminder attached to a medicine. ProfileID and
// UserID are copied from the medicine when the schedule is created.
type Schedule struct {
	ID         string
	MedicineID string
	ProfileID  string
	UserID     string
	TimeOfDay  TimeOfDay
	Frequency  Frequency
	Active     bool
	CreatedAt  time.Time
}

// SameSlot reports whether two schedules collide on the active-slot rule.
func (s *Schedule) SameSlot(medicineID string, tod TimeOfDay, freq Frequency) bool {
	return s.MedicineID == medicineID && s.TimeOfDay == tod && s.Frequency == freq
}

// DueAt reports whether an active schedule should fire at now.
// Weekly and biweekly schedules repeat on the weekday they were created,
// monthly ones on the same day of month (clamped to the month's last day).
// CUSTOM carries no recurrence rule and fires daily.
func (s *Schedule) DueAt(now time.Time) bool {
	if !s.Active || !s.TimeOfDay.At(now) {
		return false
	}
	created := s.CreatedAt.In(now.Location())
	switch s.Frequency {
	case FrequencyWeekly:
		return now.Weekday() == created.Weekday()
	case FrequencyBiweekly:
		if now.Weekday() != created.Weekday() {
			return false
		}
		days := int(dateOf(now).Sub(dateOf(created)).Hours() / 24)
		return days >= 0 && (days/7)%2 == 0
	case FrequencyMonthly:
		day := created.Day()
		if last := lastDayOfMonth(now); day > last {
			day = last
		}
		return now.Day() == day
	default:
		return true
	}
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
