package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/olla-del-barrio/dish-sync/internal/adapter"
	"github.com/olla-del-barrio/dish-sync/internal/config"
	"github.com/olla-del-barrio/dish-sync/internal/logger"
	"github.com/olla-del-barrio/dish-sync/internal/pipeline"
)

const (
	SCHEDULER_NAME = "dish-sync-scheduler"

	STATUS_COMPLETE = "COMPLETE"
	STATUS_PARTIAL  = "PARTIAL"

	DEFAULT_INTERVAL           = 5 * time.Minute
	DEFAULT_HEARTBEAT_INTERVAL = 30 * time.Second
)

var (
	// ErrSyncInProgress is returned by TriggerNow while another run is in flight
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrSyncDisabled is returned by TriggerNow when required configuration is missing
	ErrSyncDisabled = errors.New("sync disabled: required configuration missing")
)

// SchedulerConfig holds configuration for the sync scheduler
type SchedulerConfig struct {
	Interval          time.Duration     // Time between sync runs
	HeartbeatInterval time.Duration     // Time between heartbeat logs
	KeyGroups         []config.KeyGroup // Configuration state reported at startup and in heartbeats
}

// Complete reports whether every required key group is configured
func (c *SchedulerConfig) Complete() bool {
	for _, g := range c.KeyGroups {
		if g.Required && !g.Configured() {
			return false
		}
	}
	return true
}

func (c *SchedulerConfig) missingKeys() []string {
	var missing []string
	for _, g := range c.KeyGroups {
		if g.Required {
			missing = append(missing, g.Missing...)
		}
	}
	return missing
}

// Scheduler runs the sync on a fixed interval, one run at a time
type Scheduler interface {
	Sweeper

	// TriggerNow runs a sync on the caller's goroutine and returns its summary
	TriggerNow(ctx context.Context) (*pipeline.Summary, error)

	// LastSummary returns the summary of the last finished run, nil before the first one
	LastSummary() *pipeline.Summary

	// Syncing reports whether a run is in flight
	Syncing() bool

	// ConfigComplete reports whether the sync is enabled
	ConfigComplete() bool
}

type syncScheduler struct {
	config *SchedulerConfig
	runner pipeline.Runner
	clock  adapter.Clock

	running  atomic.Bool
	syncing  atomic.Bool
	inFlight sync.WaitGroup

	mu      sync.RWMutex
	last    *pipeline.Summary
	runs    int
	skipped int

	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewScheduler creates a new sync scheduler. runner may be nil when the configuration is incomplete.
// Non-positive intervals are replaced by the defaults.
func NewScheduler(config *SchedulerConfig, runner pipeline.Runner, clock adapter.Clock) Scheduler {
	cfg := *config
	if cfg.Interval <= 0 {
		logger.Warn("Invalid sync interval, using default",
			zap.Duration("interval", cfg.Interval),
			zap.Duration("default", DEFAULT_INTERVAL),
		)
		cfg.Interval = DEFAULT_INTERVAL
	}
	if cfg.HeartbeatInterval <= 0 {
		logger.Warn("Invalid heartbeat interval, using default",
			zap.Duration("interval", cfg.HeartbeatInterval),
			zap.Duration("default", DEFAULT_HEARTBEAT_INTERVAL),
		)
		cfg.HeartbeatInterval = DEFAULT_HEARTBEAT_INTERVAL
	}

	return &syncScheduler{
		config:    &cfg,
		runner:    runner,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the scheduler's name
func (s *syncScheduler) Name() string {
	return SCHEDULER_NAME
}

// Start logs the configuration report, runs the first sync immediately and then
// ticks the sync and the heartbeat independently
func (s *syncScheduler) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("scheduler already running")
	}
	defer close(s.stoppedCh)

	s.logConfiguration(ctx)

	heartbeat := s.clock.NewTicker(s.config.HeartbeatInterval)
	defer heartbeat.Stop()

	var syncC <-chan time.Time
	if s.enabled() {
		ticker := s.clock.NewTicker(s.config.Interval)
		defer ticker.Stop()
		syncC = ticker.C()

		logger.InfoCtx(ctx, "Sync scheduled", zap.Duration("interval", s.config.Interval))
		s.tick(ctx)
	} else {
		logger.WarnCtx(ctx, "Sync not scheduled, required configuration is missing",
			zap.Strings("missing", s.config.missingKeys()),
		)
	}

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Scheduler stopping due to context cancellation", zap.Error(ctx.Err()))
			return nil
		case <-s.stopChan:
			logger.InfoCtx(ctx, "Scheduler stop requested")
			return nil
		case <-heartbeat.C():
			s.logHeartbeat(ctx)
		case <-syncC:
			s.tick(ctx)
		}
	}
}

// Stop ends the loop and waits for an in-flight run
func (s *syncScheduler) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	logger.InfoCtx(ctx, "Stopping scheduler")
	close(s.stopChan)

	done := make(chan struct{})
	go func() {
		<-s.stoppedCh
		s.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.InfoCtx(ctx, "Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Scheduler stop interrupted by context timeout")
		return ctx.Err()
	}
}

// tick starts a run in the background unless one is already in flight
func (s *syncScheduler) tick(ctx context.Context) {
	if !s.syncing.CompareAndSwap(false, true) {
		s.mu.Lock()
		s.skipped++
		s.mu.Unlock()
		logger.WarnCtx(ctx, "Previous sync still running, skipping tick")
		return
	}

	s.inFlight.Add(1)
	go func() {
		defer s.inFlight.Done()
		defer s.syncing.Store(false)
		s.runOnce(ctx)
	}()
}

func (s *syncScheduler) TriggerNow(ctx context.Context) (*pipeline.Summary, error) {
	if !s.enabled() {
		return nil, ErrSyncDisabled
	}
	if !s.syncing.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}

	s.inFlight.Add(1)
	defer s.inFlight.Done()
	defer s.syncing.Store(false)

	logger.InfoCtx(ctx, "Sync triggered manually")
	return s.runOnce(ctx)
}

// runOnce runs the sync and records its summary. Callers hold the single-flight flag.
func (s *syncScheduler) runOnce(ctx context.Context) (*pipeline.Summary, error) {
	summary, err := s.runner.Run(ctx)
	if summary == nil {
		summary = &pipeline.Summary{State: pipeline.StateFailed, FinishedAt: s.clock.Now()}
		if err != nil {
			summary.Error = err.Error()
		}
	}

	s.mu.Lock()
	s.last = summary.Clone()
	s.runs++
	s.mu.Unlock()

	return summary, err
}

func (s *syncScheduler) LastSummary() *pipeline.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last.Clone()
}

func (s *syncScheduler) Syncing() bool {
	return s.syncing.Load()
}

func (s *syncScheduler) ConfigComplete() bool {
	return s.config.Complete()
}

func (s *syncScheduler) enabled() bool {
	return s.runner != nil && s.config.Complete()
}

// logConfiguration reports each key group as configured or missing
func (s *syncScheduler) logConfiguration(ctx context.Context) {
	for _, g := range s.config.KeyGroups {
		if g.Configured() {
			logger.InfoCtx(ctx, "Configuration group configured",
				zap.String("group", g.Name),
				zap.Bool("required", g.Required),
			)
			continue
		}
		logger.WarnCtx(ctx, "Configuration group missing",
			zap.String("group", g.Name),
			zap.Bool("required", g.Required),
			zap.Strings("keys", g.Missing),
		)
	}

	logger.InfoCtx(ctx, "Configuration status",
		zap.String("status", s.status()),
		zap.Duration("interval", s.config.Interval),
		zap.Duration("heartbeat_interval", s.config.HeartbeatInterval),
	)
}

func (s *syncScheduler) logHeartbeat(ctx context.Context) {
	s.mu.RLock()
	last := s.last
	runs := s.runs
	skipped := s.skipped
	s.mu.RUnlock()

	fields := []zap.Field{
		zap.String("status", s.status()),
		zap.Bool("syncing", s.syncing.Load()),
		zap.Int("runs", runs),
		zap.Int("skipped_ticks", skipped),
	}
	if last != nil {
		fields = append(fields,
			zap.String("last_run_id", last.RunID),
			zap.String("last_state", string(last.State)),
			zap.Duration("since_last_run", s.clock.Since(last.FinishedAt)),
		)
	}

	logger.InfoCtx(ctx, "Heartbeat", fields...)
}

func (s *syncScheduler) status() string {
	if s.config.Complete() {
		return STATUS_COMPLETE
	}
	return STATUS_PARTIAL
}
