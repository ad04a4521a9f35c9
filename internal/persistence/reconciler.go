package persistence

import (
	"context"
	"questlog/internal/models"
	"questlog/internal/persistence/interfaces"
	"questlog/internal/providers"
	"questlog/internal/trackers"

	"golang.org/x/sync/errgroup"
)

// Reconcile picks the working document from the two stored copies. The cloud
// copy is adopted only when its lastSavedAt is strictly newer; ties keep the
// local copy. Both candidates are backfilled before the comparison is used.
func Reconcile(local, cloud *models.AppState) (*models.AppState, bool) {
	if cloud == nil {
		if local == nil {
			return models.DefaultState(), false
		}
		return local, false
	}
	if local == nil {
		local = models.DefaultState()
	}

	trackers.BackfillState(local)
	trackers.BackfillState(cloud)

	if cloud.SavedAtMillis() > local.SavedAtMillis() {
		return cloud, true
	}
	return local, false
}

type Reconciler struct {
	local  interfaces.LocalStoreInterface
	cloud  interfaces.CloudStoreInterface
	logger providers.Logger
}

func NewReconciler(local interfaces.LocalStoreInterface, cloud interfaces.CloudStoreInterface, logger providers.Logger) *Reconciler {
	return &Reconciler{local: local, cloud: cloud, logger: logger}
}

// Init loads both stores concurrently and reconciles them. Read failures on
// either side are logged and treated as absent. An adopted cloud copy is
// written back to the local store before Init returns.
func (r *Reconciler) Init(ctx context.Context) (*models.AppState, error) {
	var local, cloud *models.AppState

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		state, err := r.local.Load()
		if err != nil {
			r.logger.Errorf(providers.TypeSync, "Local state unreadable, starting without it: %s", err)
			return nil
		}
		local = state
		return nil
	})
	if r.cloud.Enabled() {
		g.Go(func() error {
			state, err := r.cloud.Load(gctx)
			if err != nil {
				r.logger.Warnf(providers.TypeSync, "Cloud state unavailable: %s", err)
				return nil
			}
			cloud = state
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state, adopted := Reconcile(local, cloud)
	if cloud == nil {
		// the load-time backfill still applies without a cloud copy
		trackers.BackfillState(state)
	}
	if adopted {
		r.logger.Infof(providers.TypeSync, "Adopted cloud state saved at %s", state.LastSavedAt)
		if err := r.local.Save(state); err != nil {
			r.logger.Errorf(providers.TypeSync, "Unable to persist adopted cloud state: %s", err)
		}
	}
	return state, nil
}
