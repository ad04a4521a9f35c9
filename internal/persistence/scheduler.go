package persistence

import (
	"context"
	"questlog/internal/models"
	"questlog/internal/persistence/interfaces"
	"questlog/internal/providers"
	"questlog/internal/structures"
	"sync"

	"github.com/roylee0704/gron"
)

// Scheduler drives the device lifecycle: restore on start, periodic backup
// pruning, and flushing the autosave pipeline on shutdown.
type Scheduler struct {
	config     *structures.Config
	logger     providers.Logger
	reconciler *Reconciler
	autosave   interfaces.AutosaveInterface
	backups    interfaces.BackupStoreInterface
	cron       *gron.Cron
	opsMu      sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Device.PruneInterval

	if interval > 0 {
		s.cron.AddFunc(gron.Every(interval), func() {
			s.opsMu.Lock()
			defer s.opsMu.Unlock()
			s.prune()
		})
	}

	s.cron.Start()
}

func (s *Scheduler) prune() {
	removed, err := s.backups.Prune(models.Now())
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while pruning backups: %s", err)
		return
	}
	if removed > 0 {
		s.logger.Infof(providers.TypeApp, "Pruned %d expired backups", removed)
	}
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	s.autosave.Stop()
}

// Restore reconciles the local and cloud documents into the working state.
func (s *Scheduler) Restore(ctx context.Context) (*models.AppState, error) {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	state, err := s.reconciler.Init(ctx)
	if err != nil {
		return nil, err
	}
	s.prune()
	return state, nil
}

// Persist pushes a pending cloud write out now.
func (s *Scheduler) Persist(ctx context.Context) error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeSync, "Flushing pending cloud write...")
	err := s.autosave.Flush(ctx)
	if err != nil {
		s.logger.Errorf(providers.TypeSync, "Error while flushing cloud write: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, reconciler *Reconciler, autosave interfaces.AutosaveInterface, backups interfaces.BackupStoreInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:     config,
		logger:     logger,
		reconciler: reconciler,
		autosave:   autosave,
		backups:    backups,
	}
}
