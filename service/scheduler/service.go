// Package scheduler drives the time-based lifecycle of pending requests.
// On every tick it asks the engine to sweep for expired deadlines and due
// escalations.  The scheduler holds no state of its own; all decisions live
// in the engine so a missed or delayed tick only postpones, never corrupts.
package scheduler

import (
	"context"
	"os"
	"time"

	"github.com/arbiterhq/arbiter/internal/clock"
	"github.com/arbiterhq/arbiter/service/workflow"
	"github.com/rs/zerolog"
)

// Config represents scheduler configuration
type Config struct {
	// PollingInterval is how often pending requests are swept
	PollingInterval time.Duration
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		PollingInterval: time.Minute,
	}
}

// Service periodically sweeps pending requests
type Service struct {
	config     Config
	engine     *workflow.Service
	logger     zerolog.Logger
	shutdownCh chan struct{}
}

// New creates a scheduler service
func New(engine *workflow.Service, config Config) *Service {
	if config.PollingInterval <= 0 {
		config.PollingInterval = DefaultConfig().PollingInterval
	}
	return &Service{
		config:     config,
		engine:     engine,
		logger:     zerolog.New(os.Stderr).With().Timestamp().Str("component", "scheduler").Logger(),
		shutdownCh: make(chan struct{}),
	}
}

// Start begins the sweep loop
func (s *Service) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.config.PollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.shutdownCh:
			return nil
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("sweep failed")
			}
		}
	}
}

// Tick runs a single sweep at the current clock time.
func (s *Service) Tick(ctx context.Context) error {
	expired, escalated, err := s.engine.Sweep(ctx, clock.Now())
	if err != nil {
		return err
	}
	if expired > 0 || escalated > 0 {
		s.logger.Info().Int("expired", expired).Int("escalated", escalated).Msg("sweep completed")
	}
	return nil
}

// Shutdown stops the scheduler
func (s *Service) Shutdown() {
	close(s.shutdownCh)
}
