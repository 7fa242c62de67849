package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// mockResult implements Result
type mockResult struct {
	id  int
	err error
}

func (r *mockResult) GetError() error {
	return r.err
}

// mockJob implements Job
type mockJob struct {
	id        int
	duration  time.Duration
	shouldErr bool
	executed  *int32 // atomic counter
}

func (j *mockJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
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
	p1 := NewPool(context.Background(), 5)
	if p1.workers != 5 {
		t.Errorf("expected 5 workers, got %d", p1.workers)
	}

	p2 := NewPool(context.Background(), 0)
	if p2.workers != 1 {
		t.Errorf("expected default 1 worker for 0 input, got %d", p2.workers)
	}

	p3 := NewPool(context.Background(), -1)
	if p3.workers != 1 {
		t.Errorf("expected default 1 worker for negative input, got %d", p3.workers)
	}

	//nolint:staticcheck // nil context is tolerated
	p4 := NewPool(nil, 2)
	if p4.ctx == nil {
		t.Error("expected background context for nil input")
	}
}

func TestPool_Run(t *testing.T) {
	var executed int32
	jobs := make([]Job, 10)
	for i := range jobs {
		jobs[i] = &mockJob{id: i, executed: &executed}
	}

	results := NewPool(context.Background(), 3).Run(jobs)

	if len(results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(results))
	}
	if atomic.LoadInt32(&executed) != 10 {
		t.Errorf("expected 10 executions, got %d", executed)
	}
	for i, r := range results {
		if r == nil {
			t.Fatalf("result %d missing", i)
		}
		if r.GetError() != nil {
			t.Errorf("unexpected error at %d: %v", i, r.GetError())
		}
	}
}

func TestPool_Run_PreservesOrder(t *testing.T) {
	// Earlier jobs take longer so completion order is reversed
	jobs := make([]Job, 5)
	for i := range jobs {
		jobs[i] = &mockJob{id: i, duration: time.Duration(5-i) * 10 * time.Millisecond}
	}

	results := NewPool(context.Background(), 5).Run(jobs)

	for i, r := range results {
		if got := r.(*mockResult).id; got != i {
			t.Errorf("position %d holds result of job %d", i, got)
		}
	}
}

func TestPool_Run_Empty(t *testing.T) {
	results := NewPool(context.Background(), 2).Run(nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestPool_Concurrency(t *testing.T) {
	const workers = 3

	var (
		mu        sync.Mutex
		active    int
		maxActive int
	)

	jobs := make([]Job, 12)
	for i := range jobs {
		jobs[i] = jobFunc(func(ctx context.Context) Result {
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			time.Sleep(20 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
			return &mockResult{}
		})
	}

	NewPool(context.Background(), workers).Run(jobs)

	if maxActive > workers {
		t.Errorf("expected at most %d concurrent jobs, saw %d", workers, maxActive)
	}
	if maxActive < 2 {
		t.Errorf("expected jobs to run concurrently, max active was %d", maxActive)
	}
}

func TestPool_ErrorHandling(t *testing.T) {
	jobs := []Job{
		&mockJob{id: 0},
		&mockJob{id: 1, shouldErr: true},
		&mockJob{id: 2},
	}

	results := NewPool(context.Background(), 2).Run(jobs)

	for i, r := range results {
		hasErr := r.GetError() != nil
		if hasErr != (i == 1) {
			t.Errorf("job %d: unexpected error state %v", i, r.GetError())
		}
	}
}

func TestPool_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := make([]Job, 20)
	for i := range jobs {
		jobs[i] = &mockJob{id: i, duration: time.Second}
	}

	done := make(chan []Result)
	go func() {
		done <- NewPool(ctx, 2).Run(jobs)
	}()

	select {
	case results := <-done:
		if len(results) != len(jobs) {
			t.Fatalf("expected %d slots, got %d", len(jobs), len(results))
		}
		for i, r := range results {
			if r != nil && r.GetError() == nil {
				t.Errorf("job %d completed despite cancelled context", i)
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()
	pool.Shutdown()

	done := make(chan bool)
	go func() {
		done <- pool.Submit(&mockJob{})
	}()

	select {
	case ok := <-done:
		if ok {
			t.Error("expected Submit to refuse jobs after shutdown")
		}
	case <-time.After(time.Second):
		t.Fatal("Submit blocked after shutdown")
	}
}

func TestPool_Shutdown(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()

	for i := 0; i < 2; i++ {
		pool.Submit(&mockJob{duration: 5 * time.Second})
	}

	start := time.Now()
	pool.Shutdown()

	if time.Since(start) > time.Second {
		t.Error("shutdown waited for long-running jobs instead of cancelling them")
	}
}

type jobFunc func(ctx context.Context) Result

func (f jobFunc) Execute(ctx context.Context) Result {
	return f(ctx)
}
