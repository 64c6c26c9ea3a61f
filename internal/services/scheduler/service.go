// Package scheduler runs the background maintenance jobs: value-log garbage
// collection on the store and the stale-position sweep.
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/tripscout/tripscout/internal/common"
	"github.com/tripscout/tripscout/internal/interfaces"
)

// Service wraps the cron runner.
type Service struct {
	config  *common.MaintenanceConfig
	storage interfaces.StorageManager
	locator interfaces.Locator
	cron    *cron.Cron
	logger  arbor.ILogger
	running bool
}

func NewService(config *common.MaintenanceConfig, storage interfaces.StorageManager, locator interfaces.Locator, logger arbor.ILogger) *Service {
	return &Service{
		config:  config,
		storage: storage,
		locator: locator,
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start registers the maintenance job and starts the cron runner. Disabled
// configuration is a no-op.
func (s *Service) Start() error {
	if !s.config.Enabled {
		s.logger.Info().Msg("Maintenance schedule disabled")
		return nil
	}
	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if _, err := s.cron.AddFunc(s.config.Schedule, s.runMaintenance); err != nil {
		return fmt.Errorf("failed to add maintenance job: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info().Str("schedule", s.config.Schedule).Msg("Maintenance schedule started")
	return nil
}

// Stop halts the cron runner and waits for a running job to finish.
func (s *Service) Stop() {
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info().Msg("Maintenance schedule stopped")
}

func (s *Service) runMaintenance() {
	if err := s.storage.RunGC(); err != nil {
		s.logger.Warn().Err(err).Msg("Value log GC failed")
	}
	s.locator.SweepCache()
	s.logger.Debug().Msg("Maintenance pass completed")
}
