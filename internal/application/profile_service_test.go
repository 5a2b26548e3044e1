package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	repo "github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
)

func TestProfileNamesAreUniquePerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana@example.com")
	bob := f.register(t, "bob@example.com")

	f.newProfile(t, ana.UserID, "Mom")
	_, err := f.profile.Create(ctx, ana.UserID, " Mom ")
	assert.ErrorIs(t, err, ErrDuplicateProfileName)
	_, err = f.profile.Create(ctx, ana.UserID, "MOM")
	assert.ErrorIs(t, err, ErrDuplicateProfileName)

	// another user may reuse the name
	_, err = f.profile.Create(ctx, bob.UserID, "Mom")
	assert.NoError(t, err)

	dad := f.newProfile(t, ana.UserID, "Dad")
	_, err = f.profile.Update(ctx, ana.UserID, dad.ID, "mom")
	assert.ErrorIs(t, err, ErrDuplicateProfileName)

	// renaming to its own name, in any case, is not a conflict
	p, err := f.profile.Update(ctx, ana.UserID, dad.ID, "DAD")
	require.NoError(t, err)
	assert.Equal(t, "DAD", p.Name)
}

func TestProfileAccessIsScopedToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana@example.com")
	bob := f.register(t, "bob@example.com")
	p := f.newProfile(t, ana.UserID, "Mom")

	_, err := f.profile.Get(ctx, bob.UserID, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.profile.Get(ctx, ana.UserID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.profile.Update(ctx, bob.UserID, p.ID, "Hacked")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.profile.Delete(ctx, bob.UserID, p.ID), ErrNotFound)

	list, err := f.profile.List(ctx, bob.UserID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.profile.List(ctx, "")
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestProfileDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana@example.com")
	mom := f.newProfile(t, ana.UserID, "Mom")
	dad := f.newProfile(t, ana.UserID, "Dad")

	m1 := f.newMedicine(t, ana.UserID, mom.ID, "Aspirin", 10)
	m2 := f.newMedicine(t, ana.UserID, mom.ID, "Vitamin D", 30)
	keep := f.newMedicine(t, ana.UserID, dad.ID, "Insulin", 5)
	for _, m := range []*entity.Medicine{m1, m2, keep} {
		_, err := f.sched.Create(ctx, ana.UserID, m.ID, ScheduleInput{TimeOfDay: entity.TimeOfDay{Hour: 8}})
		require.NoError(t, err)
	}

	require.NoError(t, f.profile.Delete(ctx, ana.UserID, mom.ID))

	_, err := f.profile.Get(ctx, ana.UserID, mom.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, m := range []*entity.Medicine{m1, m2} {
		got, err := f.meds.Get(ctx, ana.UserID, m.ID, true)
		require.NoError(t, err)
		assert.Equal(t, entity.MedicineInactive, got.Status)
		_, err = f.meds.Get(ctx, ana.UserID, m.ID, false)
		assert.ErrorIs(t, err, ErrNotFound)
	}

	left, err := f.sched.List(ctx, ana.UserID, ScheduleQuery{IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, keep.ID, left[0].MedicineID)
}

type failingSchedules struct {
	repo.ScheduleRepository
}

func (failingSchedules) DeleteByProfile(context.Context, string) (int64, error) {
	return 0, errors.New("disk on fire")
}

func TestProfileDeleteRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana@example.com")
	mom := f.newProfile(t, ana.UserID, "Mom")
	m := f.newMedicine(t, ana.UserID, mom.ID, "Aspirin", 10)
	_, err := f.sched.Create(ctx, ana.UserID, m.ID, ScheduleInput{TimeOfDay: entity.TimeOfDay{Hour: 8}})
	require.NoError(t, err)

	f.profile.Schedules = failingSchedules{f.store.Schedules()}
	assert.Error(t, f.profile.Delete(ctx, ana.UserID, mom.ID))

	_, err = f.profile.Get(ctx, ana.UserID, mom.ID)
	require.NoError(t, err)

	got, err := f.meds.Get(ctx, ana.UserID, m.ID, false)
	require.NoError(t, err)
	assert.Equal(t, entity.MedicineActive, got.Status)
	scheds, err := f.sched.List(ctx, ana.UserID, ScheduleQuery{})
	require.NoError(t, err)
	assert.Len(t, scheds, 1)
}
