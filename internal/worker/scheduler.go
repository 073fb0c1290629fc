package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pratik-mahalle/horizon/internal/pkg/logger"
)

// Task is one unit of background work
type Task func(ctx context.Context) error

// Scheduler runs named background tasks on cron schedules
type Scheduler struct {
	cron    *cron.Cron
	logger  *logger.Logger
	timeout time.Duration

	mu      sync.Mutex
	entries map[string]cron.EntryID
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewScheduler creates a scheduler. Each run gets at most timeout.
func NewScheduler(log *logger.Logger, timeout time.Duration) *Scheduler {
	if log == nil {
		log = logger.Discard()
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  log,
		timeout: timeout,
		entries: make(map[string]cron.EntryID),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Register adds task under name. spec accepts standard five-field cron
// expressions and descriptors such as "@every 5m".
func (s *Scheduler) Register(name, spec string, task Task) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid schedule for %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("task %s already registered", name)
	}

	id, err := s.cron.AddFunc(spec, func() { s.run(name, task) })
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	s.entries[name] = id

	s.logger.WithFields(map[string]interface{}{
		"task":     name,
		"schedule": spec,
	}).Debug("Task registered")

	return nil
}

// RunNow executes a registered task immediately on the caller's goroutine
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	id, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("task %s not registered", name)
	}

	s.cron.Entry(id).WrappedJob.Run()
	return nil
}

// Tasks returns the registered task names
func (s *Scheduler) Tasks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	return names
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
	s.logger.WithFields(map[string]interface{}{
		"tasks": len(s.entries),
	}).Info("Scheduler started")
}

// Stop stops the scheduler and waits for running tasks to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) run(name string, task Task) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.WithFields(map[string]interface{}{
				"task":  name,
				"panic": rec,
			}).Error("Task panicked")
		}
	}()

	start := time.Now()
	if err := task(ctx); err != nil {
		s.logger.With("task", name).ErrorWithErr(err, "Task failed")
		return
	}
	s.logger.WithFields(map[string]interface{}{
		"task":     name,
		"duration": time.Since(start).Milliseconds(),
	}).Debug("Task completed")
}
