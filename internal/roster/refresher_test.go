package roster_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozfortress/slurwatch/internal/logger"
	"github.com/ozfortress/slurwatch/internal/mocks"
	"github.com/ozfortress/slurwatch/internal/roster"
	"github.com/ozfortress/slurwatch/internal/store/schema"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func newTestRefresher(t *testing.T, ctrl *gomock.Controller, cfg roster.RefresherConfig) (*roster.Refresher, *mocks.MockProber, *mocks.MockStore) {
	t.Helper()
	prober := mocks.NewMockProber(ctrl)
	st := mocks.NewMockStore(ctrl)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Sleep(gomock.Any()).AnyTimes()
	return roster.NewRefresher(&cfg, prober, st, clock), prober, st
}

func foundProfile(rosterID, steamID int64, name string) *roster.Profile {
	return &roster.Profile{
		RosterID:    rosterID,
		SteamID64:   &steamID,
		DisplayName: name,
		ProfileURL:  "https://ozfortress.com/users/x",
	}
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("stops after not-found streak", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		refresher, prober, st := newTestRefresher(t, ctrl, roster.RefresherConfig{
			MaxProbes:      300,
			NotFoundStreak: 20,
			ProbeDelay:     time.Millisecond,
		})

		st.EXPECT().GetMaxRosterID(ctx).Return(int64(1000), nil)
		// Empty frontier: every probe is a miss, exactly 20 probes happen.
		prober.EXPECT().Probe(ctx, gomock.Any()).Return(nil, roster.ErrNotFound).Times(20)

		result, err := refresher.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, 20, result.Checked)
		assert.Equal(t, 0, result.Changed)
		assert.Equal(t, 0, result.Errored)
	})

	t.Run("probe budget caps the scan", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		refresher, prober, st := newTestRefresher(t, ctrl, roster.RefresherConfig{
			MaxProbes:      5,
			NotFoundStreak: 20,
		})

		st.EXPECT().GetMaxRosterID(ctx).Return(int64(0), nil)
		prober.EXPECT().Probe(ctx, gomock.Any()).Return(foundProfile(1, 76561197994110447, "p"), nil).Times(5)
		st.EXPECT().UpsertPlayer(ctx, gomock.Any()).Return(nil).Times(5)

		result, err := refresher.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, result.Checked)
		assert.Equal(t, 5, result.Changed)
	})

	t.Run("found entry resets the streak", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		refresher, prober, st := newTestRefresher(t, ctrl, roster.RefresherConfig{
			MaxProbes:      10,
			NotFoundStreak: 3,
		})

		st.EXPECT().GetMaxRosterID(ctx).Return(int64(100), nil)

		// Two misses, a hit, then three misses triggering the stop.
		gomock.InOrder(
			prober.EXPECT().Probe(ctx, int64(101)).Return(nil, roster.ErrNotFound),
			prober.EXPECT().Probe(ctx, int64(102)).Return(nil, roster.ErrNotFound),
			prober.EXPECT().Probe(ctx, int64(103)).Return(foundProfile(103, 76561197994110447, "p"), nil),
			prober.EXPECT().Probe(ctx, int64(104)).Return(nil, roster.ErrNotFound),
			prober.EXPECT().Probe(ctx, int64(105)).Return(nil, roster.ErrNotFound),
			prober.EXPECT().Probe(ctx, int64(106)).Return(nil, roster.ErrNotFound),
		)
		st.EXPECT().UpsertPlayer(ctx, gomock.Any()).Return(nil)

		result, err := refresher.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, 6, result.Checked)
		assert.Equal(t, 1, result.Changed)
	})

	t.Run("transport failure skips the id without touching the streak", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		refresher, prober, st := newTestRefresher(t, ctrl, roster.RefresherConfig{
			MaxProbes:      10,
			NotFoundStreak: 2,
		})

		st.EXPECT().GetMaxRosterID(ctx).Return(int64(0), nil)

		gomock.InOrder(
			prober.EXPECT().Probe(ctx, int64(1)).Return(nil, roster.ErrNotFound),
			prober.EXPECT().Probe(ctx, int64(2)).Return(nil, errors.New("timeout")),
			prober.EXPECT().Probe(ctx, int64(3)).Return(nil, roster.ErrNotFound),
		)

		result, err := refresher.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Checked)
		assert.Equal(t, 1, result.Errored)
		assert.Equal(t, 0, result.Changed)
	})

	t.Run("scan starts above the stored frontier", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		refresher, prober, st := newTestRefresher(t, ctrl, roster.RefresherConfig{
			MaxProbes:      1,
			NotFoundStreak: 20,
		})

		st.EXPECT().GetMaxRosterID(ctx).Return(int64(5000), nil)
		prober.EXPECT().Probe(ctx, int64(5001)).Return(nil, roster.ErrNotFound)

		_, err := refresher.Refresh(ctx)
		require.NoError(t, err)
	})

	t.Run("empty display name gets a placeholder", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		refresher, prober, st := newTestRefresher(t, ctrl, roster.RefresherConfig{
			MaxProbes:      1,
			NotFoundStreak: 20,
		})

		st.EXPECT().GetMaxRosterID(ctx).Return(int64(100), nil)
		prober.EXPECT().Probe(ctx, int64(101)).Return(&roster.Profile{RosterID: 101}, nil)
		st.EXPECT().UpsertPlayer(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, player *schema.Player) error {
			assert.Equal(t, "user_101", player.DisplayName)
			assert.Nil(t, player.SteamID64)
			return nil
		})

		result, err := refresher.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Changed)
	})

	t.Run("frontier read failure aborts the run", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		refresher, _, st := newTestRefresher(t, ctrl, roster.RefresherConfig{
			MaxProbes:      10,
			NotFoundStreak: 20,
		})

		st.EXPECT().GetMaxRosterID(ctx).Return(int64(0), errors.New("db down"))

		_, err := refresher.Refresh(ctx)
		require.Error(t, err)
	})

	t.Run("upsert failure counts as errored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		refresher, prober, st := newTestRefresher(t, ctrl, roster.RefresherConfig{
			MaxProbes:      1,
			NotFoundStreak: 20,
		})

		st.EXPECT().GetMaxRosterID(ctx).Return(int64(0), nil)
		prober.EXPECT().Probe(ctx, int64(1)).Return(foundProfile(1, 76561197994110447, "p"), nil)
		st.EXPECT().UpsertPlayer(ctx, gomock.Any()).Return(errors.New("constraint violation"))

		result, err := refresher.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Errored)
		assert.Equal(t, 0, result.Changed)
	})
}
