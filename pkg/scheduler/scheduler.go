// Package scheduler runs periodic jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	applogger "GannForce/pkg/logger"
)

type Scheduler struct {
	cron    *cron.Cron
	log     *applogger.Logger
	baseCtx context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	running map[string]bool
}

// New creates a scheduler. Specs accept an optional leading seconds field.
func New(l *applogger.Logger) *Scheduler {
	if l == nil {
		l = applogger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &Scheduler{
		cron:    cron.New(cron.WithParser(parser)),
		log:     l,
		baseCtx: ctx,
		cancel:  cancel,
		running: make(map[string]bool),
	}
}

// Add registers job under name. A run is skipped while the previous one
// with the same name is still in progress.
func (s *Scheduler) Add(name, spec string, job func(context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	s.log.Info("job scheduled", applogger.String("job", name), applogger.String("spec", spec))
	return nil
}

func (s *Scheduler) run(name string, job func(context.Context) error) {
	s.mu.Lock()
	if s.running[name] {
		s.mu.Unlock()
		s.log.Warn("job still running, skipping", applogger.String("job", name))
		return
	}
	s.running[name] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.running, name)
		s.mu.Unlock()
	}()

	if err := job(s.baseCtx); err != nil {
		s.log.Error("job failed", applogger.String("job", name), applogger.Error(err))
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}
