package runner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hachemboudoukha/bestbuy-streaming-pipeline/internal/generator/domain"
)

type fakeGenerator struct {
	mu    sync.Mutex
	count int
}

func (f *fakeGenerator) Next() domain.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count++
	return domain.Transaction{TransactionID: "tx", ProductName: "TV-1", Status: domain.StatusCompleted}
}

func (f *fakeGenerator) generated() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

type fakePublisher struct {
	mu         sync.Mutex
	published  int
	drains     int
	publishErr error
	blockOnCtx bool
}

func (f *fakePublisher) Publish(ctx context.Context, tx domain.Transaction) error {
	if f.blockOnCtx {
		<-ctx.Done()
		return ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published++
	return nil
}

func (f *fakePublisher) Drain(timeout time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drains++
	return nil
}

func (f *fakePublisher) Accepted() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(f.published)
}

func (f *fakePublisher) Delivered() int64 { return f.Accepted() }
func (f *fakePublisher) Failed() int64    { return 0 }

func (f *fakePublisher) drainCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.drains
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(nil, &fakePublisher{})
	assert.Error(t, err)

	_, err = New(&fakeGenerator{}, nil)
	assert.Error(t, err)

	r, err := New(&fakeGenerator{}, &fakePublisher{})
	require.NoError(t, err)
	assert.Equal(t, StateStarting, r.State())
}

func TestRun_CancelDrainsExactlyOnce(t *testing.T) {
	gen := &fakeGenerator{}
	pub := &fakePublisher{}

	r, err := New(gen, pub, WithInterval(time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	require.NoError(t, r.Run(ctx))

	assert.Equal(t, StateStopped, r.State())
	assert.Equal(t, 1, pub.drainCount())
	assert.Greater(t, gen.generated(), 0)
	assert.Equal(t, gen.generated(), pub.published)
}

func TestRun_PublishErrorDoesNotStopLoop(t *testing.T) {
	gen := &fakeGenerator{}
	pub := &fakePublisher{publishErr: errors.New("enqueue failed")}

	r, err := New(gen, pub, WithInterval(time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, r.Run(ctx))

	assert.Equal(t, StateStopped, r.State())
	assert.Greater(t, gen.generated(), 1, "loop should continue past publish failures")
	assert.Equal(t, 1, pub.drainCount())
}

func TestRun_CancelledDuringPublishDrains(t *testing.T) {
	gen := &fakeGenerator{}
	pub := &fakePublisher{blockOnCtx: true}

	r, err := New(gen, pub, WithInterval(time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	require.NoError(t, r.Run(ctx))

	assert.Equal(t, StateStopped, r.State())
	assert.Equal(t, 1, pub.drainCount())
	assert.Equal(t, 1, gen.generated())
}

func TestRun_JitterStaysWithinBounds(t *testing.T) {
	r, err := New(&fakeGenerator{}, &fakePublisher{},
		WithInterval(10*time.Millisecond),
		WithJitter(5*time.Millisecond),
	)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		d := r.pace()
		assert.GreaterOrEqual(t, d, 10*time.Millisecond)
		assert.Less(t, d, 15*time.Millisecond)
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "STARTING", StateStarting.String())
	assert.Equal(t, "RUNNING", StateRunning.String())
	assert.Equal(t, "DRAINING", StateDraining.String())
	assert.Equal(t, "STOPPED", StateStopped.String())
}
