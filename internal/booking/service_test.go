package booking

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bluemoon1528/clusters/internal/auth"
	"github.com/bluemoon1528/clusters/internal/catalog"
	"github.com/bluemoon1528/clusters/internal/config"
	"github.com/bluemoon1528/clusters/internal/kvstore"
	"github.com/bluemoon1528/clusters/internal/ledger"
	"github.com/bluemoon1528/clusters/internal/model"
	"github.com/bluemoon1528/clusters/internal/queue"
	"github.com/bluemoon1528/clusters/internal/remote"
)

type mockRemote struct {
	mock.Mock
}

func (m *mockRemote) FetchAll(ctx context.Context) ([]model.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Booking), args.Error(1)
}

func (m *mockRemote) Save(ctx context.Context, b model.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockRemote) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRemote) PushAll(ctx context.Context, batch []model.Booking) error {
	return m.Called(ctx, batch).Error(0)
}

// capturingFeed records every snapshot event a test run publishes.
type capturingFeed struct {
	events []queue.SnapshotEvent
}

func (f *capturingFeed) publish(_ context.Context, ev queue.SnapshotEvent) error {
	f.events = append(f.events, ev)
	return nil
}

// newTestService builds a service over in-memory storage, the seeded local
// movie catalog, an anonymous gate with one bootstrapped super account, and
// the given remote store.
func newTestService(t *testing.T, r RemoteStore) (*Service, *capturingFeed) {
	t.Helper()
	cfg := config.Config{
		Instance:        "test",
		JWTSecret:       "test-secret",
		SessionTTLHours: 1,
		BcryptCost:      4,
	}
	kv := kvstore.NewMemoryStore()
	gate := auth.NewGate(cfg, nil, kv)
	gate.Bootstrap(context.Background(), "root", "root-pw")
	feed := &capturingFeed{}
	svc := New(cfg, ledger.New(kv), r, catalog.NewLocal(kv), gate, kv, feed.publish)
	return svc, feed
}

func loginSuper(t *testing.T, svc *Service) {
	t.Helper()
	_, _, err := svc.Gate().Login(context.Background(), "root", "root-pw")
	require.NoError(t, err)
}

func validInput() CreateInput {
	return CreateInput{
		MovieID:       1,
		ShowType:      model.ShowTypeFilmClub,
		TicketCount:   2,
		CustomerName:  "Arun Kumar",
		CustomerPhone: "9876543210",
		CustomerEmail: "arun@example.com",
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t, new(mockRemote))
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"unknown movie", func(in *CreateInput) { in.MovieID = 9999 }},
		{"blank customer name", func(in *CreateInput) { in.CustomerName = "   " }},
		{"unknown show type", func(in *CreateInput) { in.ShowType = "Midnight Premiere" }},
		{"negative ticket count", func(in *CreateInput) { in.TicketCount = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, _, err := svc.Create(ctx, in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Zero(t, svc.Stats().TotalBookings, "rejected submissions must not reach the ledger")
}

// failingCatalog stands in for a remote catalog whose backing store is down.
type failingCatalog struct{}

func (failingCatalog) List(context.Context) ([]model.Movie, error) {
	return nil, errors.New("catalog: connection reset")
}
func (failingCatalog) GetByID(context.Context, int64) (model.Movie, error) {
	return model.Movie{}, errors.New("catalog: connection reset")
}
func (failingCatalog) Save(context.Context, model.Movie) (model.Movie, error) {
	return model.Movie{}, errors.New("catalog: connection reset")
}
func (failingCatalog) Delete(context.Context, int64) error {
	return errors.New("catalog: connection reset")
}

func TestCreateCatalogFailureIsNotValidation(t *testing.T) {
	cfg := config.Config{Instance: "test", JWTSecret: "test-secret", SessionTTLHours: 1, BcryptCost: 4}
	kv := kvstore.NewMemoryStore()
	gate := auth.NewGate(cfg, nil, kv)
	svc := New(cfg, ledger.New(kv), new(mockRemote), failingCatalog{}, gate, kv, nil)

	_, _, err := svc.Create(context.Background(), validInput())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation,
		"a catalog transport failure is not the customer's mistake")
	assert.Empty(t, svc.Bookings())
}

func TestCreateFixesPriceAndPublishes(t *testing.T) {
	r := new(mockRemote)
	r.On("Save", mock.Anything, mock.AnythingOfType("model.Booking")).Return(nil)
	svc, feed := newTestService(t, r)

	b, cloudErr, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Empty(t, cloudErr)
	assert.Equal(t, 300.0, b.BasePrice)
	assert.Equal(t, 0.0, b.GST)
	assert.Equal(t, 300.0, b.Total)
	assert.Equal(t, "Action Thriller", b.MovieName)
	assert.NotEmpty(t, b.Date, "schedule must default from the catalog entry")

	r.AssertExpectations(t)
	require.Len(t, feed.events, 1)
	assert.Equal(t, "test", feed.events[0].Source)
	require.Len(t, feed.events[0].Bookings, 1)
	assert.Equal(t, b.ID, feed.events[0].Bookings[0].ID)
}

func TestCreateKeepsLocalWriteWhenCloudIsDown(t *testing.T) {
	// An unconfigured remote store fails every call; the booking must still
	// land locally, with the failure reported alongside.
	svc, _ := newTestService(t, remote.NewBookings(nil))

	b, cloudErr, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, cloudErr)
	assert.Contains(t, cloudErr, remote.ErrUnavailable.Error())

	bookings := svc.Bookings()
	require.Len(t, bookings, 1)
	assert.Equal(t, b.ID, bookings[0].ID)
}

func TestClearAllRequiresSuper(t *testing.T) {
	svc, _ := newTestService(t, remote.NewBookings(nil))
	ctx := context.Background()
	_, _, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.ClearAll(ctx)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
	assert.Equal(t, 1, svc.Stats().TotalBookings, "ledger must be untouched after a rejected clear")

	loginSuper(t, svc)
	n, err := svc.ClearAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Zero(t, svc.Stats().TotalBookings)
}

func TestDeleteGuardsAndRemoves(t *testing.T) {
	r := new(mockRemote)
	r.On("Save", mock.Anything, mock.AnythingOfType("model.Booking")).Return(nil)
	r.On("Delete", mock.Anything, mock.AnythingOfType("string")).Return(nil)
	svc, _ := newTestService(t, r)
	ctx := context.Background()

	b, _, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Delete(ctx, b.ID)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
	assert.Len(t, svc.Bookings(), 1)

	loginSuper(t, svc)
	_, err = svc.Delete(ctx, "TKT0XXXXX")
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	cloudErr, err := svc.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, cloudErr)
	assert.Empty(t, svc.Bookings())
	r.AssertCalled(t, "Delete", mock.Anything, b.ID)
}

func TestPushGuards(t *testing.T) {
	r := new(mockRemote)
	svc, _ := newTestService(t, r)
	ctx := context.Background()

	_, err := svc.Push(ctx, true)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	loginSuper(t, svc)
	_, err = svc.Push(ctx, true)
	assert.ErrorIs(t, err, ErrValidation, "pushing an empty ledger is rejected")

	r.On("Save", mock.Anything, mock.AnythingOfType("model.Booking")).Return(nil)
	_, _, err = svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Push(ctx, false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	r.AssertNotCalled(t, "PushAll")

	r.On("PushAll", mock.Anything, mock.AnythingOfType("[]model.Booking")).Return(nil)
	n, err := svc.Push(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	r.AssertExpectations(t)
}

func TestPullMergesWithOverwrite(t *testing.T) {
	r := new(mockRemote)
	r.On("Save", mock.Anything, mock.AnythingOfType("model.Booking")).Return(nil)
	svc, _ := newTestService(t, r)
	ctx := context.Background()

	local, _, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	// The cloud copy of the local record was edited remotely, and one record
	// exists only in the cloud.
	edited := local
	edited.CustomerName = "Edited Remotely"
	cloudOnly := model.Booking{ID: "TKT1700000000000ABCDE", MovieName: "Drama Masterpiece",
		ShowType: model.ShowTypeClusterPreview, TicketCount: 3, Total: 4720}
	r.On("FetchAll", mock.Anything).Return([]model.Booking{edited, cloudOnly}, nil)

	_, _, err = svc.Pull(ctx)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	loginSuper(t, svc)
	res, fetched, err := svc.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fetched)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 1, res.Updated)

	bookings := svc.Bookings()
	require.Len(t, bookings, 2)
	assert.Equal(t, "Edited Remotely", bookings[0].CustomerName, "pull must adopt the cloud copy")
}

func TestMergeFromRemoteInsertOnly(t *testing.T) {
	r := new(mockRemote)
	r.On("Save", mock.Anything, mock.AnythingOfType("model.Booking")).Return(nil)
	svc, _ := newTestService(t, r)
	ctx := context.Background()

	local, _, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	edited := local
	edited.CustomerName = "Edited Remotely"
	res, err := svc.MergeFromRemote(ctx, []model.Booking{edited}, false)
	require.NoError(t, err)
	assert.Zero(t, res.Added)
	assert.Zero(t, res.Updated)
	assert.Equal(t, local.CustomerName, svc.Bookings()[0].CustomerName,
		"the live feed never clobbers a local record")
}

func jpegDataURL(size int) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(make([]byte, size))
}

func TestTheatreQRDefaultAndSave(t *testing.T) {
	svc, _ := newTestService(t, new(mockRemote))
	ctx := context.Background()

	assert.Equal(t, DefaultTheatreQR, svc.TheatreQR(ctx))

	err := svc.SaveTheatreQR(ctx, jpegDataURL(64), "", "")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	loginSuper(t, svc)
	uploaded := jpegDataURL(64)
	require.NoError(t, svc.SaveTheatreQR(ctx, uploaded, "", ""))
	assert.Equal(t, uploaded, svc.TheatreQR(ctx))
}

func TestSaveTheatreQRChallenge(t *testing.T) {
	svc, _ := newTestService(t, new(mockRemote))
	ctx := context.Background()

	err := svc.SaveTheatreQR(ctx, jpegDataURL(64), "root", "wrong")
	assert.ErrorIs(t, err, auth.ErrWrongCredential)
	assert.Nil(t, svc.Gate().Current())

	// A successful challenge both saves the image and leaves a session in
	// place for the rest of the process.
	require.NoError(t, svc.SaveTheatreQR(ctx, jpegDataURL(64), "root", "root-pw"))
	sess := svc.Gate().Current()
	require.NotNil(t, sess)
	assert.True(t, sess.IsSuper)
}

func TestSaveTheatreQRImageValidation(t *testing.T) {
	svc, _ := newTestService(t, new(mockRemote))
	ctx := context.Background()
	loginSuper(t, svc)

	err := svc.SaveTheatreQR(ctx, "data:image/png;base64,AAAA", "", "")
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.SaveTheatreQR(ctx, "data:image/jpeg;base64,@@not-base64@@", "", "")
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.SaveTheatreQR(ctx, jpegDataURL(maxQRBytes+1), "", "")
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, DefaultTheatreQR, svc.TheatreQR(ctx), "rejected uploads must not replace the QR")
}
