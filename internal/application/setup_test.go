package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-medicine-tracker/internal/domain/entity"
	"github.com/oksasatya/go-medicine-tracker/internal/infrastructure/memory"
	"github.com/oksasatya/go-medicine-tracker/pkg/helpers"
)

const testSecret = "test-secret-test-secret-test-secret"

type fixture struct {
	store   *memory.Store
	logger  *logrus.Logger
	jwt     *helpers.JWTManager
	auth    *AuthService
	revoke  *RevocationService
	profile *ProfileService
	meds    *MedicineService
	sched   *ScheduleService
	users   *UserService
	images  *fakeImages
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger, _ := test.NewNullLogger()
	jwt, err := helpers.NewJWTManager(testSecret, time.Hour)
	require.NoError(t, err)

	st := memory.NewStore()
	images := &fakeImages{}
	return &fixture{
		store:   st,
		logger:  logger,
		jwt:     jwt,
		auth:    NewAuthService(st.Users(), jwt, logger),
		revoke:  NewRevocationService(st.RevokedTokens(), logger),
		profile: NewProfileService(st.Profiles(), st.Medicines(), st.Schedules(), st, logger),
		meds:    NewMedicineService(st.Medicines(), st.Profiles(), st.Schedules(), st, images, logger),
		sched:   NewScheduleService(st.Schedules(), st.Medicines(), logger),
		users:   NewUserService(st.Users(), logger),
		images:  images,
	}
}

func (f *fixture) register(t *testing.T, email string) *AuthResult {
	t.Helper()
	res, err := f.auth.Register(context.Background(), email, "password1")
	require.NoError(t, err)
	return res
}

func (f *fixture) newProfile(t *testing.T, userID, name string) *entity.Profile {
	t.Helper()
	p, err := f.profile.Create(context.Background(), userID, name)
	require.NoError(t, err)
	return p
}

func medicineInput(name string, qty int) MedicineInput {
	return MedicineInput{
		Name:       name,
		Dosage:     "1 tablet",
		Quantity:   qty,
		ExpiryDate: time.Now().AddDate(1, 0, 0),
		Composition: []entity.Composition{
			{Name: name, StrengthValue: 500, StrengthUnit: "mg"},
		},
	}
}

func (f *fixture) newMedicine(t *testing.T, userID, profileID, name string, qty int) *entity.Medicine {
	t.Helper()
	m, err := f.meds.Create(context.Background(), userID, profileID, medicineInput(name, qty))
	require.NoError(t, err)
	return m
}

type fakeImages struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeImages) Upload(_ context.Context, data []byte, contentType string) (string, error) {
	return "https://img.test/" + contentType, nil
}

func (f *fakeImages) Delete(_ context.Context, url string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return true, nil
}

type sentPush struct {
	UserID, Title, Body, Kind string
}

type fakePush struct {
	mu   sync.Mutex
	sent []sentPush
	err  error
}

func (f *fakePush) Send(ctx context.Context, userID, title, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentPush{userID, title, body, NotificationKind(ctx)})
	return nil
}
