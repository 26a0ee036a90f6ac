package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"crypto-quote-service/internal/domain/entities"
	"crypto-quote-service/internal/domain/interfaces"
	"crypto-quote-service/internal/infrastructure/logging"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule refresca el universo cada 5 minutos
const DefaultSchedule = "@every 5m"

// Parser acepta expresiones de 5 campos, segundos opcionales y descriptores (@every, @hourly)
var Parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Config holds the refresh job settings
type Config struct {
	Schedule   string
	RunTimeout time.Duration
}

// RefreshScheduler ejecuta el refresher sobre cron; una ejecución nunca se solapa consigo misma
type RefreshScheduler struct {
	cron    *cron.Cron
	runner  interfaces.RefreshRunner
	config  Config
	entryID cron.EntryID

	mu      sync.Mutex
	started bool
	runs    int
}

// New registers the refresh job without starting it
func New(runner interfaces.RefreshRunner, config Config) (*RefreshScheduler, error) {
	if config.Schedule == "" {
		config.Schedule = DefaultSchedule
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = 2 * time.Minute
	}

	logger := NewCronLogger(logging.GlobalLogrus())
	s := &RefreshScheduler{
		cron: cron.New(
			cron.WithParser(Parser),
			cron.WithLocation(time.UTC),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		runner: runner,
		config: config,
	}

	id, err := s.cron.AddFunc(config.Schedule, s.runOnce)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", config.Schedule, err)
	}
	s.entryID = id
	return s, nil
}

// runOnce es el job registrado en cron
func (s *RefreshScheduler) runOnce() {
	ctx := logging.WithRequestID(context.Background(), logging.GenerateRequestID())
	ctx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	result := s.runner.Run(ctx)

	s.mu.Lock()
	s.runs++
	s.mu.Unlock()

	if result.Status != entities.RefreshSuccess {
		logging.Warn(ctx, "Scheduled refresh did not succeed", logging.Fields{
			"status": string(result.Status),
		})
	}
}

// Start begins scheduling in the background
func (s *RefreshScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.cron.Start()

	logging.Info(ctx, "Refresh scheduler started", logging.Fields{
		"schedule": s.config.Schedule,
		"next_run": s.NextRun().Format(time.RFC3339),
	})
}

// Stop stops scheduling and waits for a running job until ctx expires
func (s *RefreshScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		logging.Info(ctx, "Refresh scheduler stopped", nil)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("refresh scheduler stop: %w", ctx.Err())
	}
}

// NextRun returns the next activation after now
func (s *RefreshScheduler) NextRun() time.Time {
	return s.cron.Entry(s.entryID).Schedule.Next(time.Now().UTC())
}

// Runs returns how many scheduled runs completed
func (s *RefreshScheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}
