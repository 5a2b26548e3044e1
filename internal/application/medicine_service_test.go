package application

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	repo "github.com/oksasatya/go-medicine-tracker/internal/domain/repository"
)

func TestMedicineCreateRequiresProfileOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana@example.com")
	bob := f.register(t, "bob@example.com")
	p := f.newProfile(t, ana.UserID, "Mom")

	_, err := f.meds.Create(ctx, bob.UserID, p.ID, medicineInput("Aspirin", 10))
	assert.ErrorIs(t, err, ErrOwnership)
	_, err = f.meds.Create(ctx, ana.UserID, "missing", medicineInput("Aspirin", 10))
	assert.ErrorIs(t, err, ErrOwnership)

	_, err = f.meds.Create(ctx, ana.UserID, p.ID, medicineInput("Aspirin", 0))
	assert.ErrorIs(t, err, ErrValidation)

	m, err := f.meds.Create(ctx, ana.UserID, p.ID, medicineInput("Aspirin", 10))
	require.NoError(t, err)
	assert.Equal(t, entity.MedicineActive, m.Status)
	assert.Equal(t, ana.UserID, m.UserID)
	assert.Equal(t, p.ID, m.ProfileID)
}

func TestMedicineReadsHideForeignAndInactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana@example.com")
	bob := f.register(t, "bob@example.com")
	p := f.newProfile(t, ana.UserID, "Mom")
	other := f.newProfile(t, ana.UserID, "Dad")
	m := f.newMedicine(t, ana.UserID, p.ID, "Aspirin", 10)

	_, err := f.meds.Get(ctx, bob.UserID, m.ID, true)
	assert.ErrorIs(t, err, ErrNotFound)

	// wrong profile in the path is indistinguishable from a missing medicine
	_, err = f.meds.Update(ctx, ana.UserID, other.ID, m.ID, medicineInput("X", 1))
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := f.meds.List(ctx, bob.UserID, MedicineQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
	list, err = f.meds.List(ctx, ana.UserID, MedicineQuery{ProfileID: other.ID})
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, f.meds.Delete(ctx, ana.UserID, p.ID, m.ID))
	list, err = f.meds.List(ctx, ana.UserID, MedicineQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
	list, err = f.meds.List(ctx, ana.UserID, MedicineQuery{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMedicineDeleteRemovesSchedules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana@example.com")
	p := f.newProfile(t, ana.UserID, "Mom")
	m := f.newMedicine(t, ana.UserID, p.ID, "Aspirin", 10)
	_, err := f.sched.Create(ctx, ana.UserID, m.ID, ScheduleInput{TimeOfDay: entity.TimeOfDay{Hour: 9}})
	require.NoError(t, err)

	require.NoError(t, f.meds.Delete(ctx, ana.UserID, p.ID, m.ID))

	scheds, err := f.sched.List(ctx, ana.UserID, ScheduleQuery{MedicineID: m.ID, IncludeInactive: true})
	require.NoError(t, err)
	assert.Empty(t, scheds)
	assert.ErrorIs(t, f.meds.Delete(ctx, ana.UserID, p.ID, m.ID), ErrNotFound)
}

func TestTakeDoseStopsAtZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana@example.com")
	p := f.newProfile(t, ana.UserID, "Mom")
	m := f.newMedicine(t, ana.UserID, p.ID, "Aspirin", 2)

	got, err := f.meds.TakeDose(ctx, ana.UserID, p.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
	got, err = f.meds.TakeDose(ctx, ana.UserID, p.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)

	_, err = f.meds.TakeDose(ctx, ana.UserID, p.ID, m.ID)
	assert.ErrorIs(t, err, ErrInvalidOperation)

	stored, err := f.meds.Get(ctx, ana.UserID, m.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Quantity)
}

func TestTakeDoseConcurrentNeverNegative(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana@example.com")
	p := f.newProfile(t, ana.UserID, "Mom")
	m := f.newMedicine(t, ana.UserID, p.ID, "Aspirin", 5)

	var ok, rejected atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.meds.TakeDose(ctx, ana.UserID, p.ID, m.ID); err == nil {
				ok.Add(1)
			} else if assert.ErrorIs(t, err, ErrInvalidOperation) {
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), ok.Load())
	assert.Equal(t, int32(15), rejected.Load())
	stored, err := f.meds.Get(ctx, ana.UserID, m.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Quantity)
}

func TestTakeDoseForeignUser(t *testing.T) {
	f := newFixture(t)
	ana := f.register(t, "ana@example.com")
	bob := f.register(t, "bob@example.com")
	p := f.newProfile(t, ana.UserID, "Mom")
	m := f.newMedicine(t, ana.UserID, p.ID, "Aspirin", 5)

	_, err := f.meds.TakeDose(context.Background(), bob.UserID, p.ID, m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMedicineUpdateDropsReplacedImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana@example.com")
	p := f.newProfile(t, ana.UserID, "Mom")

	in := medicineInput("Aspirin", 10)
	in.ImageURL = "https://img.test/old.png"
	m, err := f.meds.Create(ctx, ana.UserID, p.ID, in)
	require.NoError(t, err)

	in.ImageURL = "https://img.test/new.png"
	in.Quantity = 7
	got, err := f.meds.Update(ctx, ana.UserID, p.ID, m.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Quantity)
	assert.Equal(t, []string{"https://img.test/old.png"}, f.images.deleted)

	// unchanged image is kept
	_, err = f.meds.Update(ctx, ana.UserID, p.ID, m.ID, in)
	require.NoError(t, err)
	assert.Len(t, f.images.deleted, 1)
}

func TestUploadImageAcceptsOnlyImages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.meds.UploadImage(ctx, "u-1", []byte("%PDF"), "application/pdf")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.meds.UploadImage(ctx, "u-1", nil, "image/png")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.meds.UploadImage(ctx, "", []byte{1}, "image/png")
	assert.ErrorIs(t, err, ErrAuthRequired)

	url, err := f.meds.UploadImage(ctx, "u-1", []byte{0x89, 'P', 'N', 'G'}, "image/png")
	require.NoError(t, err)
	assert.NotEmpty(t, url)

	f.meds.Images = nil
	_, err = f.meds.UploadImage(ctx, "u-1", []byte{1}, "image/png")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestListWithProfile(t *testing.T) {
	f := newFixture(t)
	ana := f.register(t, "ana@example.com")
	mom := f.newProfile(t, ana.UserID, "Mom")
	dad := f.newProfile(t, ana.UserID, "Dad")
	f.newMedicine(t, ana.UserID, mom.ID, "Aspirin", 1)
	f.newMedicine(t, ana.UserID, dad.ID, "Insulin", 1)

	out, err := f.meds.ListWithProfile(context.Background(), ana.UserID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	names := map[string]string{}
	for _, mp := range out {
		names[mp.Medicine.Name] = mp.ProfileName
	}
	assert.Equal(t, map[string]string{"Aspirin": "Mom", "Insulin": "Dad"}, names)
}

// deleteBeforeUpdate deactivates the medicine right before the update is
// written, the way a concurrent Delete would.
type deleteBeforeUpdate struct {
	repo.MedicineRepository
}

func (r deleteBeforeUpdate) Update(ctx context.Context, m *entity.Medicine) error {
	if err := r.MedicineRepository.SetStatus(ctx, m.ID, entity.MedicineInactive); err != nil {
		return err
	}
	return r.MedicineRepository.Update(ctx, m)
}

func TestMedicineUpdateNeverRevivesDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana@example.com")
	me := f.newProfile(t, ana.UserID, "Me")
	m := f.newMedicine(t, ana.UserID, me.ID, "Aspirin", 10)

	f.meds.Medicines = deleteBeforeUpdate{f.store.Medicines()}
	_, err := f.meds.Update(ctx, ana.UserID, me.ID, m.ID, medicineInput("Aspirin Forte", 5))
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := f.store.Medicines().GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MedicineInactive, got.Status)
	assert.Equal(t, "Aspirin", got.Name)
	assert.Equal(t, 10, got.Quantity)
}

// profileGoneAfterCheck deletes the profile right after the ownership check
// passes, the way a concurrent profile delete would.
type profileGoneAfterCheck struct {
	repo.ProfileRepository
}

func (r profileGoneAfterCheck) ExistsByUserAndID(ctx context.Context, userID, id string) (bool, error) {
	ok, err := r.ProfileRepository.ExistsByUserAndID(ctx, userID, id)
	if err != nil || !ok {
		return ok, err
	}
	return true, r.ProfileRepository.Delete(ctx, id)
}

func TestMedicineCreateOnDeletedProfileIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana@example.com")
	me := f.newProfile(t, ana.UserID, "Me")

	f.meds.Profiles = profileGoneAfterCheck{f.store.Profiles()}
	_, err := f.meds.Create(ctx, ana.UserID, me.ID, medicineInput("Aspirin", 10))
	assert.ErrorIs(t, err, ErrOwnership)

	meds, err := f.meds.List(ctx, ana.UserID, MedicineQuery{IncludeInactive: true})
	require.NoError(t, err)
	assert.Empty(t, meds)
}
