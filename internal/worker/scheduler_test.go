package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/pratik-mahalle/horizon/internal/pkg/logger"
)

type countingCleaner struct{ calls atomic.Int32 }

func (c *countingCleaner) Cleanup() { c.calls.Add(1) }

type flakyPinger struct{ err error }

func (p *flakyPinger) Ping(ctx context.Context) error { return p.err }

func TestScheduler_Register(t *testing.T) {
	s := NewScheduler(logger.Discard(), 0)
	noop := func(ctx context.Context) error { return nil }

	tests := []struct {
		name    string
		task    string
		spec    string
		wantErr bool
	}{
		{"descriptor", "a", "@every 5m", false},
		{"five field", "b", "*/10 * * * *", false},
		{"duplicate", "a", "@hourly", true},
		{"garbage", "c", "every now and then", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Register(tt.task, tt.spec, noop)
			if (err != nil) != tt.wantErr {
				t.Errorf("Register() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if got := len(s.Tasks()); got != 2 {
		t.Errorf("Tasks() = %d, want 2", got)
	}
}

func TestScheduler_RunNow(t *testing.T) {
	s := NewScheduler(logger.Discard(), 0)
	cleaner := &countingCleaner{}

	if err := s.Register(TaskRateLimitCleanup, "@every 5m", CleanupTask(cleaner)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := s.RunNow(TaskRateLimitCleanup); err != nil {
		t.Fatalf("RunNow() error = %v", err)
	}
	if got := cleaner.calls.Load(); got != 1 {
		t.Errorf("Cleanup calls = %d, want 1", got)
	}
	if err := s.RunNow("missing"); err == nil {
		t.Error("RunNow(missing) error = nil")
	}
}

func TestScheduler_TaskPanicIsContained(t *testing.T) {
	s := NewScheduler(logger.Discard(), 0)
	_ = s.Register("boom", "@every 1h", func(ctx context.Context) error { panic("boom") })

	if err := s.RunNow("boom"); err != nil {
		t.Errorf("RunNow() error = %v", err)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(logger.Discard(), 0)
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}

func TestProbeTask_ReportsTransitions(t *testing.T) {
	p := &flakyPinger{err: errors.New("down")}
	task := ProbeTask(p, logger.Discard())
	ctx := context.Background()

	if err := task(ctx); err == nil {
		t.Error("first failure not reported")
	}
	if err := task(ctx); err != nil {
		t.Errorf("repeated failure reported again: %v", err)
	}

	p.err = nil
	if err := task(ctx); err != nil {
		t.Errorf("recovery returned %v", err)
	}

	p.err = errors.New("down again")
	if err := task(ctx); err == nil {
		t.Error("failure after recovery not reported")
	}
}
