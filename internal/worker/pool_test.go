package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockResult struct {
	id  int
	err error
}

func (r *mockResult) GetError() error {
	return r.err
}

type mockJob struct {
	id        int
	duration  time.Duration
	shouldErr bool
	executed  *int32
	inFlight  *int32
	peak      *int32
}

func (j *mockJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.inFlight != nil {
		n := atomic.AddInt32(j.inFlight, 1)
		defer atomic.AddInt32(j.inFlight, -1)
		for {
			p := atomic.LoadInt32(j.peak)
			if n <= p || atomic.CompareAndSwapInt32(j.peak, p, n) {
				break
			}
		}
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return &mockResult{id: j.id, err: ctx.Err()}
		}
	}
	if j.shouldErr {
		return &mockResult{id: j.id, err: errors.New("job error")}
	}
	return &mockResult{id: j.id}
}

func TestNewPool(t *testing.T) {
	ctx := context.Background()

	if p := NewPool(ctx, 5); p.workers != 5 {
		t.Errorf("expected 5 workers, got %d", p.workers)
	}
	if p := NewPool(ctx, 0); p.workers != 1 {
		t.Errorf("expected default 1 worker for 0 input, got %d", p.workers)
	}
	if p := NewPool(ctx, -1); p.workers != 1 {
		t.Errorf("expected default 1 worker for negative input, got %d", p.workers)
	}
}

func TestPool_ResultsInSubmissionOrder(t *testing.T) {
	pool := NewPool(context.Background(), 3)
	pool.Start()

	var executed int32
	count := 50
	for i := 0; i < count; i++ {
		// Earlier jobs sleep longer so completion order differs from submission order.
		pool.Submit(&mockJob{id: i, duration: time.Duration(count-i) * 100 * time.Microsecond, executed: &executed})
	}

	results := pool.Wait()
	if len(results) != count {
		t.Fatalf("expected %d results, got %d", count, len(results))
	}
	if atomic.LoadInt32(&executed) != int32(count) {
		t.Errorf("expected %d executed jobs, got %d", count, executed)
	}
	for i, r := range results {
		if got := r.(*mockResult).id; got != i {
			t.Fatalf("results[%d] holds job %d", i, got)
		}
	}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()

	var inFlight, peak int32
	for i := 0; i < 12; i++ {
		pool.Submit(&mockJob{id: i, duration: 5 * time.Millisecond, inFlight: &inFlight, peak: &peak})
	}
	pool.Wait()

	if peak > 2 {
		t.Errorf("peak concurrency %d exceeds 2 workers", peak)
	}
}

func TestPool_Errors(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()

	pool.Submit(&mockJob{id: 0})
	pool.Submit(&mockJob{id: 1, shouldErr: true})

	results := pool.Wait()
	if results[0].GetError() != nil {
		t.Errorf("job 0: unexpected error %v", results[0].GetError())
	}
	if results[1].GetError() == nil {
		t.Error("job 1: expected error")
	}
}

func TestPool_ParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(ctx, 1)
	pool.Start()

	pool.Submit(&mockJob{id: 0, duration: time.Second})
	cancel()

	results := pool.Wait()
	if len(results) != 1 {
		t.Fatalf("expected 1 result slot, got %d", len(results))
	}
	if r := results[0]; r != nil && !errors.Is(r.GetError(), context.Canceled) {
		t.Errorf("expected cancellation error, got %v", r.GetError())
	}
}

func TestPool_Shutdown(t *testing.T) {
	pool := NewPool(context.Background(), 1)
	pool.Start()

	var executed int32
	pool.Submit(&mockJob{id: 0, duration: 5 * time.Second, executed: &executed})
	pool.Submit(&mockJob{id: 1, duration: 5 * time.Second, executed: &executed})

	time.Sleep(20 * time.Millisecond)
	start := time.Now()
	pool.Shutdown()
	results := pool.Wait()

	if time.Since(start) > 2*time.Second {
		t.Error("Shutdown did not cancel the running job")
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 result slots, got %d", len(results))
	}
	if r := results[0]; r != nil && !errors.Is(r.GetError(), context.Canceled) {
		t.Errorf("expected cancellation error, got %v", r.GetError())
	}
}

func TestJobFunc(t *testing.T) {
	pool := NewPool(context.Background(), 1)
	pool.Start()
	pool.Submit(JobFunc(func(ctx context.Context) Result { return &mockResult{id: 7} }))

	results := pool.Wait()
	if results[0].(*mockResult).id != 7 {
		t.Errorf("unexpected result %+v", results[0])
	}
}
