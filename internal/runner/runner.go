package runner

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/hachemboudoukha/bestbuy-streaming-pipeline/internal/generator/domain"
	"github.com/hachemboudoukha/bestbuy-streaming-pipeline/internal/metrics"
	"github.com/hachemboudoukha/bestbuy-streaming-pipeline/pkg/logger"
)

// State tracks the lifecycle of the generate/publish loop.
type State int32

const (
	StateStarting State = iota
	StateRunning
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "STARTING"
	case StateRunning:
		return "RUNNING"
	case StateDraining:
		return "DRAINING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// Generator produces one transaction per call.
type Generator interface {
	Next() domain.Transaction
}

// Publisher is the delivery pipeline the runner feeds.
type Publisher interface {
	Publish(ctx context.Context, tx domain.Transaction) error
	Drain(timeout time.Duration) error
	Accepted() int64
	Delivered() int64
	Failed() int64
}

// Option customizes a Runner.
type Option func(*Runner)

// WithInterval sets the base delay between iterations.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) { r.interval = d }
}

// WithJitter adds up to d of uniform random delay on top of the base
// interval.
func WithJitter(d time.Duration) Option {
	return func(r *Runner) { r.jitter = d }
}

// WithDrainTimeout bounds the final shutdown drain.
func WithDrainTimeout(d time.Duration) Option {
	return func(r *Runner) { r.drainTimeout = d }
}

// Runner drives the generate/publish cycle until cancelled, then
// drains the pipeline exactly once. A single goroutine calls Run; the
// state is atomic only so tests can observe transitions.
type Runner struct {
	gen          Generator
	pub          Publisher
	interval     time.Duration
	jitter       time.Duration
	drainTimeout time.Duration
	rng          *rand.Rand

	state atomic.Int32
}

// New validates the collaborators and returns a Runner in the
// STARTING state. Absent collaborators are a fatal misconfiguration,
// not something to retry.
func New(gen Generator, pub Publisher, opts ...Option) (*Runner, error) {
	if gen == nil {
		return nil, fmt.Errorf("runner requires a generator")
	}
	if pub == nil {
		return nil, fmt.Errorf("runner requires a publisher")
	}

	r := &Runner{
		gen:          gen,
		pub:          pub,
		interval:     100 * time.Millisecond,
		drainTimeout: 30 * time.Second,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.state.Store(int32(StateStarting))
	return r, nil
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	return State(r.state.Load())
}

// Run repeats {synthesize, publish, pace} until ctx is cancelled, then
// drains. Cancellation is checked at iteration boundaries only, never
// mid-synthesis. Per-event publish failures are logged and the loop
// moves on to the next event.
func (r *Runner) Run(ctx context.Context) error {
	r.state.Store(int32(StateRunning))
	logger.Logger.Info().
		Dur("interval", r.interval).
		Dur("jitter", r.jitter).
		Msg("Starting data generator")

	for {
		select {
		case <-ctx.Done():
			return r.drain()
		default:
		}

		tx := r.gen.Next()
		metrics.EventsGenerated.Inc()

		if err := r.pub.Publish(ctx, tx); err != nil {
			if ctx.Err() != nil {
				// Cancelled during a backpressure wait; the message was
				// never accepted, move straight to draining.
				return r.drain()
			}
			logger.Logger.Error().
				Err(err).
				Str("transaction_id", tx.TransactionID).
				Msg("Failed to publish event")
		} else {
			logger.Logger.Info().
				Str("product", tx.ProductName).
				Str("status", tx.Status).
				Msg("Event sent")
		}

		select {
		case <-ctx.Done():
			return r.drain()
		case <-time.After(r.pace()):
		}
	}
}

func (r *Runner) drain() error {
	r.state.Store(int32(StateDraining))
	logger.Logger.Info().Msg("Draining delivery pipeline")

	err := r.pub.Drain(r.drainTimeout)

	logger.Logger.Info().
		Int64("accepted", r.pub.Accepted()).
		Int64("delivered", r.pub.Delivered()).
		Int64("failed", r.pub.Failed()).
		Msg("Data generator stopped")

	r.state.Store(int32(StateStopped))
	return err
}

func (r *Runner) pace() time.Duration {
	d := r.interval
	if r.jitter > 0 {
		d += time.Duration(r.rng.Int63n(int64(r.jitter)))
	}
	return d
}
