// SPDX-License-Identifier: MPL-2.0

package regen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/verstraete-jonatan/indexify/internal/barrel"
)

// InitialTrigger is the Trigger value of the pass run on subscription.
const InitialTrigger = "initial"

type (
	// Runner performs one full regeneration pass.
	Runner interface {
		RunOnce(ctx context.Context) (*barrel.Report, error)
	}

	// Source delivers change notifications. Watch blocks until ctx is done
	// or the source fails, calling notify for every change under its root.
	// notify must be safe to call from any goroutine.
	Source interface {
		Watch(ctx context.Context, notify func(path string)) error
	}

	// Result describes one finished pass.
	Result struct {
		// Seq numbers passes of a subscription from 1.
		Seq int
		// Trigger is the changed path that requested the pass, or
		// InitialTrigger.
		Trigger string
		Report  *barrel.Report
		Err     error
	}

	// Config holds the collaborators of an Orchestrator.
	Config struct {
		Runner Runner
		// Source may be nil; passes are then requested only through
		// Subscription.Trigger.
		Source Source
		// OnPass is called from the worker goroutine after every pass.
		OnPass func(Result)
		// Logger defaults to slog.Default().
		Logger *slog.Logger
	}

	// Orchestrator starts independent watch subscriptions. It holds no
	// per-subscription state.
	Orchestrator struct {
		cfg    Config
		logger *slog.Logger
	}

	// Subscription is a running watch. Stop it to release the source.
	Subscription struct {
		o        *Orchestrator
		requests chan string
		cancel   context.CancelFunc
		done     chan struct{}
		stopOnce sync.Once

		mu  sync.Mutex
		err error
	}
)

// New validates cfg and returns an Orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Runner == nil {
		return nil, errors.New("regen: runner is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{cfg: cfg, logger: logger}, nil
}

// Start queues the initial pass, subscribes to the source and returns the
// subscription handle. The subscription ends when ctx is cancelled, when
// Stop is called, or when the source fails.
func (o *Orchestrator) Start(ctx context.Context) (*Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("regen: start: %w", err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		o:        o,
		requests: make(chan string, 1),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	s.requests <- InitialTrigger

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.work(subCtx)
	}()

	if o.cfg.Source != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := o.cfg.Source.Watch(subCtx, s.Trigger)
			if err != nil && subCtx.Err() == nil {
				o.logger.Error("change notifications stopped", "error", err)
				s.setErr(fmt.Errorf("regen: watch: %w", err))
				cancel()
			}
		}()
	}

	go func() {
		wg.Wait()
		close(s.done)
	}()
	return s, nil
}

// Stop ends s and waits for any in-flight pass to finish.
func (o *Orchestrator) Stop(s *Subscription) error {
	if s == nil {
		return nil
	}
	return s.Stop()
}

// Trigger requests a full pass. It never blocks: if a pass is already
// queued, the request is folded into it.
func (s *Subscription) Trigger(path string) {
	select {
	case s.requests <- path:
	default:
	}
}

// Stop cancels the subscription and waits until the worker and the source
// have returned. A pass that is running completes first. It returns the
// source failure, if any.
func (s *Subscription) Stop() error {
	s.stopOnce.Do(s.cancel)
	return s.Wait()
}

// Wait blocks until the subscription ends and returns the source failure,
// if any. Context cancellation is a clean end and yields nil.
func (s *Subscription) Wait() error {
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Done is closed when the subscription has ended.
func (s *Subscription) Done() <-chan struct{} { return s.done }

func (s *Subscription) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *Subscription) work(ctx context.Context) {
	// Passes never observe cancellation; Stop waits for them instead.
	passCtx := context.WithoutCancel(ctx)
	seq := 0
	for {
		select {
		case <-ctx.Done():
			return
		case trigger := <-s.requests:
			if ctx.Err() != nil {
				return
			}
			seq++
			s.run(passCtx, seq, trigger)
		}
	}
}

func (s *Subscription) run(ctx context.Context, seq int, trigger string) {
	logger := s.o.logger.With("pass", seq, "trigger", trigger)
	logger.Debug("pass started")

	report, err := s.o.cfg.Runner.RunOnce(ctx)
	if err != nil {
		// A failed pass is reported; later notifications still run.
		logger.Error("pass failed", "error", err)
	}
	if s.o.cfg.OnPass != nil {
		s.o.cfg.OnPass(Result{Seq: seq, Trigger: trigger, Report: report, Err: err})
	}
}
