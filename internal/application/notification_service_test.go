package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
)

func TestSendDoseReminders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := time.Date(2026, 6, 1, 7, 0, 0, 0, time.UTC) // a Monday
	f.store.Now = func() time.Time { return created }

	ana := f.register(t, "ana@example.com")
	bob := f.register(t, "bob@example.com")
	require.NoError(t, f.users.UpdateDeviceToken(ctx, ana.UserID, "device-ana"))

	pa := f.newProfile(t, ana.UserID, "Me")
	pb := f.newProfile(t, bob.UserID, "Me")
	daily := f.newMedicine(t, ana.UserID, pa.ID, "Aspirin", 10)
	weekly := f.newMedicine(t, ana.UserID, pa.ID, "Vitamin D", 10)
	silent := f.newMedicine(t, bob.UserID, pb.ID, "Insulin", 10)

	at := entity.TimeOfDay{Hour: 8, Minute: 15}
	_, err := f.sched.Create(ctx, ana.UserID, daily.ID, ScheduleInput{TimeOfDay: at})
	require.NoError(t, err)
	_, err = f.sched.Create(ctx, ana.UserID, weekly.ID, ScheduleInput{TimeOfDay: at, Frequency: entity.FrequencyWeekly})
	require.NoError(t, err)
	_, err = f.sched.Create(ctx, bob.UserID, silent.ID, ScheduleInput{TimeOfDay: at})
	require.NoError(t, err)

	push := &fakePush{}
	svc := NewNotificationService(f.store.Schedules(), f.store.Medicines(), f.store.Users(), push, 30*24*time.Hour, f.logger)

	// Tuesday: only the daily schedule fires; bob has no device token
	n, err := svc.SendDoseReminders(ctx, time.Date(2026, 6, 2, 8, 15, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, push.sent, 1)
	assert.Equal(t, ana.UserID, push.sent[0].UserID)
	assert.Contains(t, push.sent[0].Body, "Aspirin")
	assert.Equal(t, NotificationDoseReminder, push.sent[0].Kind)

	// next Monday both of ana's schedules fire
	push.sent = nil
	n, err = svc.SendDoseReminders(ctx, time.Date(2026, 6, 8, 8, 15, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// other minutes fire nothing
	n, err = svc.SendDoseReminders(ctx, time.Date(2026, 6, 8, 8, 16, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSendDoseRemindersSurvivesSinkFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana@example.com")
	require.NoError(t, f.users.UpdateDeviceToken(ctx, ana.UserID, "device-ana"))
	p := f.newProfile(t, ana.UserID, "Me")
	m := f.newMedicine(t, ana.UserID, p.ID, "Aspirin", 10)
	_, err := f.sched.Create(ctx, ana.UserID, m.ID, ScheduleInput{TimeOfDay: entity.TimeOfDay{Hour: 8}})
	require.NoError(t, err)

	push := &fakePush{err: errors.New("broker down")}
	svc := NewNotificationService(f.store.Schedules(), f.store.Medicines(), f.store.Users(), push, time.Hour, f.logger)

	n, err := svc.SendDoseReminders(ctx, time.Date(2026, 6, 2, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSendExpiryAlerts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	ana := f.register(t, "ana@example.com")
	require.NoError(t, f.users.UpdateDeviceToken(ctx, ana.UserID, "device-ana"))
	p := f.newProfile(t, ana.UserID, "Me")

	soon := medicineInput("Amoxicillin", 5)
	soon.ExpiryDate = now.AddDate(0, 0, 10)
	later := medicineInput("Vitamin C", 5)
	later.ExpiryDate = now.AddDate(0, 3, 0)
	gone := medicineInput("Cough Syrup", 5)
	gone.ExpiryDate = now.AddDate(0, 0, 5)

	_, err := f.meds.Create(ctx, ana.UserID, p.ID, soon)
	require.NoError(t, err)
	_, err = f.meds.Create(ctx, ana.UserID, p.ID, later)
	require.NoError(t, err)
	inactive, err := f.meds.Create(ctx, ana.UserID, p.ID, gone)
	require.NoError(t, err)
	require.NoError(t, f.meds.Delete(ctx, ana.UserID, p.ID, inactive.ID))

	push := &fakePush{}
	svc := NewNotificationService(f.store.Schedules(), f.store.Medicines(), f.store.Users(), push, 30*24*time.Hour, f.logger)

	n, err := svc.SendExpiryAlerts(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, push.sent, 1)
	assert.Equal(t, "Medicine Expiring Soon", push.sent[0].Title)
	assert.Equal(t, "Amoxicillin expires on 2026-06-11", push.sent[0].Body)
	assert.Equal(t, NotificationExpiryAlert, push.sent[0].Kind)
}
