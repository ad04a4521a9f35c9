package persistence

import (
	"context"
	"questlog/internal/models"
	"questlog/internal/persistence/interfaces"
	"questlog/internal/providers"
	"questlog/internal/structures"
	"sync"
	"time"

	"go.uber.org/atomic"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseInFlight
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseInFlight:
		return "in-flight"
	default:
		return "idle"
	}
}

// Autosave writes every committed document to the local store right away and
// to the cloud after a quiet period. Only the last document of a burst
// reaches the cloud.
type Autosave struct {
	local    interfaces.LocalStoreInterface
	cloud    interfaces.CloudStoreInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	debounce time.Duration
	now      func() time.Time

	localMu sync.Mutex

	mu       sync.Mutex
	idle     *sync.Cond
	timer    *time.Timer
	gen      uint64
	pending  *models.AppState
	inflight int
	stopped  bool
	lastErr  error
	lastSync time.Time
	flights  sync.WaitGroup

	localWrites  atomic.Int64
	cloudWrites  atomic.Int64
	failedWrites atomic.Int64
	coalesced    atomic.Int64
}

func NewAutosave(conf *structures.Config, local interfaces.LocalStoreInterface, cloud interfaces.CloudStoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Autosave {
	debounce := conf.Device.SyncDebounce
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	a := &Autosave{
		local:    local,
		cloud:    cloud,
		logger:   logger,
		metrics:  metrics,
		debounce: debounce,
		now:      models.Now,
	}
	a.idle = sync.NewCond(&a.mu)
	return a
}

// Notify is called with every new document. The local store receives it as
// published. The cloud copy is restamped on a shallow copy when it is sent.
func (a *Autosave) Notify(state *models.AppState) {
	if state == nil {
		return
	}
	a.metrics.SetLibrarySize(len(state.Library))
	a.saveLocal(state)

	if !a.cloud.Enabled() {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	if a.pending != nil {
		a.coalesced.Inc()
		a.metrics.IncCoalescedWrites()
	}
	a.pending = state
	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	gen := a.gen
	a.timer = time.AfterFunc(a.debounce, func() { a.fire(gen) })
}

func (a *Autosave) saveLocal(state *models.AppState) {
	a.localMu.Lock()
	defer a.localMu.Unlock()

	if err := a.local.Save(state); err != nil {
		a.logger.Errorf(providers.TypeSync, "Local write failed: %s", err)
		return
	}
	a.localWrites.Inc()
}

// fire runs on the timer goroutine. A timer superseded by a later Notify
// does nothing.
func (a *Autosave) fire(gen uint64) {
	a.mu.Lock()
	var snap *models.AppState
	if gen == a.gen {
		snap = a.takeLocked()
	}
	a.mu.Unlock()
	if snap == nil {
		return
	}
	_ = a.send(context.Background(), snap)
}

// takeLocked moves the pending document in flight. Callers must call send
// with the result when it is not nil.
func (a *Autosave) takeLocked() *models.AppState {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if a.pending == nil {
		return nil
	}
	snap := *a.pending
	a.pending = nil
	a.inflight++
	a.flights.Add(1)
	return &snap
}

func (a *Autosave) send(ctx context.Context, snap *models.AppState) error {
	defer a.flights.Done()

	snap.Stamp(a.now())
	err := a.cloud.Save(ctx, snap)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.inflight--
	if a.inflight == 0 {
		a.idle.Broadcast()
	}
	a.lastErr = err
	if err != nil {
		a.failedWrites.Inc()
		a.logger.Errorf(providers.TypeSync, "Cloud write failed: %s", err)
		return err
	}
	a.cloudWrites.Inc()
	a.lastSync = a.now()
	a.logger.Debugf(providers.TypeSync, "Cloud write done, saved at %s", snap.LastSavedAt)
	return nil
}

// Flush sends the pending document immediately instead of waiting for the
// timer, then waits until no cloud write is in flight.
func (a *Autosave) Flush(ctx context.Context) error {
	a.mu.Lock()
	snap := a.takeLocked()
	a.mu.Unlock()

	var err error
	if snap != nil {
		err = a.send(ctx, snap)
	}

	a.mu.Lock()
	for a.inflight > 0 {
		a.idle.Wait()
	}
	a.mu.Unlock()
	return err
}

// Stop cancels the timer, drops any pending document and waits for writes
// already in flight.
func (a *Autosave) Stop() {
	a.mu.Lock()
	a.stopped = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.pending = nil
	a.mu.Unlock()

	a.flights.Wait()
}

func (a *Autosave) Phase() Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phaseLocked()
}

func (a *Autosave) phaseLocked() Phase {
	switch {
	case a.inflight > 0:
		return PhaseInFlight
	case a.pending != nil:
		return PhasePending
	default:
		return PhaseIdle
	}
}

func (a *Autosave) Status() interfaces.SyncStatus {
	a.mu.Lock()
	defer a.mu.Unlock()

	st := interfaces.SyncStatus{
		Phase:        a.phaseLocked().String(),
		CloudEnabled: a.cloud.Enabled(),
		Online:       a.cloud.Enabled() && a.lastErr == nil,
		LocalWrites:  a.localWrites.Load(),
		CloudWrites:  a.cloudWrites.Load(),
		FailedWrites: a.failedWrites.Load(),
		Coalesced:    a.coalesced.Load(),
	}
	if a.lastErr != nil {
		st.LastError = a.lastErr.Error()
	}
	if !a.lastSync.IsZero() {
		t := a.lastSync
		st.LastSyncAt = &t
	}
	return st
}
