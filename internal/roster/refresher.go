package roster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ozfortress/slurwatch/internal/adapter"
	"github.com/ozfortress/slurwatch/internal/logger"
	"github.com/ozfortress/slurwatch/internal/store"
	"github.com/ozfortress/slurwatch/internal/store/schema"
)

// RefresherConfig holds configuration for the roster refresher
type RefresherConfig struct {
	// MaxProbes is the upper bound on ids probed per run
	MaxProbes int
	// NotFoundStreak stops the scan after this many consecutive not-found
	// results; roster ids are assigned densely, so a long run of gaps means
	// the frontier has been reached
	NotFoundStreak int
	// ProbeDelay is the politeness delay between probes
	ProbeDelay time.Duration
}

// Result reports the outcome of one refresh run
type Result struct {
	// Checked is the number of ids probed
	Checked int
	// Changed is the number of entries created or updated
	Changed int
	// Errored is the number of probes skipped due to transport failures;
	// those ids contribute to neither the found count nor the streak
	Errored int
}

// Refresher incrementally discovers new roster entries by scanning forward
// from the highest known roster id.
type Refresher struct {
	config *RefresherConfig
	prober Prober
	store  store.Store
	clock  adapter.Clock
}

// NewRefresher creates a new roster refresher
func NewRefresher(config *RefresherConfig, prober Prober, st store.Store, clock adapter.Clock) *Refresher {
	return &Refresher{
		config: config,
		prober: prober,
		store:  st,
		clock:  clock,
	}
}

// Refresh probes forward from max(roster_id) until the probe budget is
// exhausted or the not-found streak threshold is reached. Found entries are
// upserted per-id, so a mid-run crash loses at most the current id.
func (r *Refresher) Refresh(ctx context.Context) (Result, error) {
	base, err := r.store.GetMaxRosterID(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read roster frontier: %w", err)
	}

	logger.Info("roster refresh starting", zap.Int64("base", base), zap.Int("max_probes", r.config.MaxProbes))

	var result Result
	streak := 0

	for i := 1; i <= r.config.MaxProbes; i++ {
		rosterID := base + int64(i)

		profile, err := r.prober.Probe(ctx, rosterID)
		result.Checked++

		switch {
		case errors.Is(err, ErrNotFound):
			streak++
			logger.Debug("roster id not found", zap.Int64("roster_id", rosterID), zap.Int("streak", streak))
		case err != nil:
			// Transport failures are skipped, not retried: the id stays
			// unprobed this run and counts toward neither found nor
			// not-found.
			result.Errored++
			logger.Warn("roster probe failed, skipping id",
				zap.Int64("roster_id", rosterID), zap.Error(err))
		default:
			streak = 0
			if err := r.store.UpsertPlayer(ctx, playerFromProfile(profile)); err != nil {
				result.Errored++
				logger.Warn("roster upsert failed",
					zap.Int64("roster_id", rosterID), zap.Error(err))
			} else {
				result.Changed++
				logger.Info("roster entry discovered",
					zap.Int64("roster_id", rosterID),
					zap.Int64p("steamid64", profile.SteamID64),
					zap.String("name", profile.DisplayName))
			}
		}

		if streak >= r.config.NotFoundStreak {
			logger.Info("roster refresh stopping on not-found streak", zap.Int("streak", streak))
			break
		}

		if i < r.config.MaxProbes && r.config.ProbeDelay > 0 {
			r.clock.Sleep(r.config.ProbeDelay)
		}
	}

	logger.Info("roster refresh complete",
		zap.Int("checked", result.Checked),
		zap.Int("changed", result.Changed),
		zap.Int("errored", result.Errored))

	return result, nil
}

// playerFromProfile maps a probed profile to its roster row, applying the
// placeholder-name invariant: display_name is never empty once stored.
func playerFromProfile(profile *Profile) *schema.Player {
	name := profile.DisplayName
	if name == "" {
		name = fmt.Sprintf("user_%d", profile.RosterID)
	}

	profileURL := profile.ProfileURL
	return &schema.Player{
		RosterID:        profile.RosterID,
		SteamID64:       profile.SteamID64,
		DisplayName:     name,
		ProfileURL:      &profileURL,
		SteamProfileURL: profile.SteamProfileURL(),
	}
}
