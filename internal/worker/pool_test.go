package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/ppiankov/scout/internal/extract"
	"github.com/ppiankov/scout/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubResolver echoes the finding ID and counts calls.
// When block is set it waits for ctx before returning.
type stubResolver struct {
	calls   int32
	active  int32
	peak    int32
	delay   time.Duration
	block   bool
	started chan struct{}
	once    sync.Once
}

func (r *stubResolver) Resolve(ctx context.Context, f model.ResearchFinding) extract.Result {
	atomic.AddInt32(&r.calls, 1)
	cur := atomic.AddInt32(&r.active, 1)
	defer atomic.AddInt32(&r.active, -1)
	for {
		peak := atomic.LoadInt32(&r.peak)
		if cur <= peak || atomic.CompareAndSwapInt32(&r.peak, peak, cur) {
			break
		}
	}

	if r.started != nil {
		r.once.Do(func() { close(r.started) })
	}
	if r.block {
		<-ctx.Done()
	}
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	return extract.Result{FindingID: f.ID, Source: extract.SourceRules}
}

func extractJob(i int, r Resolver) *ExtractJob {
	return &ExtractJob{
		Index:    i,
		Finding:  model.ResearchFinding{ID: findingID(i)},
		Resolver: r,
	}
}

func findingID(i int) string {
	return fmt.Sprintf("f%d", i)
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
}

func TestPool_ExtractJobsKeepIndex(t *testing.T) {
	resolver := &stubResolver{}
	pool := NewPool(context.Background(), 3)
	pool.Start()

	count := 20
	for i := 0; i < count; i++ {
		pool.Submit(extractJob(i, resolver))
	}

	results := pool.Wait()
	if len(results) != count {
		t.Fatalf("expected %d results, got %d", count, len(results))
	}
	if got := atomic.LoadInt32(&resolver.calls); got != int32(count) {
		t.Errorf("expected %d resolver calls, got %d", count, got)
	}

	seen := make(map[int]bool, count)
	for _, res := range results {
		r, ok := res.(*ExtractResult)
		if !ok {
			t.Fatalf("unexpected result type %T", res)
		}
		if r.Err != nil {
			t.Errorf("job %d: unexpected error %v", r.Index, r.Err)
		}
		if r.FindingID != findingID(r.Index) {
			t.Errorf("job %d: finding %q does not match index", r.Index, r.FindingID)
		}
		seen[r.Index] = true
	}
	if len(seen) != count {
		t.Errorf("expected %d distinct indexes, got %d", count, len(seen))
	}
}

func TestPool_Concurrency(t *testing.T) {
	workers := 4
	resolver := &stubResolver{delay: 10 * time.Millisecond}
	pool := NewPool(context.Background(), workers)
	pool.Start()

	for i := 0; i < 20; i++ {
		pool.Submit(extractJob(i, resolver))
	}
	pool.Wait()

	peak := atomic.LoadInt32(&resolver.peak)
	if peak > int32(workers) {
		t.Errorf("max concurrency %d exceeded workers %d", peak, workers)
	}
	if peak <= 1 {
		t.Logf("Warning: max concurrency was %d, expected > 1", peak)
	}
}

func TestExtractJob_CancelledContextYieldsErr(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := &stubResolver{}
	res := extractJob(7, resolver).Execute(ctx).(*ExtractResult)

	if !errors.Is(res.GetError(), context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", res.GetError())
	}
	if res.Index != 7 || res.FindingID != findingID(7) {
		t.Errorf("cancelled result lost its identity: index %d finding %q", res.Index, res.FindingID)
	}
	if atomic.LoadInt32(&resolver.calls) != 0 {
		t.Error("resolver should not run on a cancelled context")
	}
}

func TestPool_ParentContextCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(ctx, 2)
	pool.Start()

	cancel()
	if pool.ctx.Err() == nil {
		t.Error("expected pool context to follow parent")
	}

	pool.Submit(extractJob(0, &stubResolver{}))
	for _, res := range pool.Wait() {
		if !errors.Is(res.GetError(), context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", res.GetError())
		}
	}
}

func TestResultCollector(t *testing.T) {
	c := NewResultCollector()
	c.Add(&ExtractResult{Index: 0})
	c.Add(&ExtractResult{Index: 1, Err: errors.New("err")})

	res := c.Results()
	if len(res) != 2 {
		t.Errorf("expected 2 results, got %d", len(res))
	}
	if res[1].GetError() == nil {
		t.Error("expected second result to carry its error")
	}
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()
	pool.Shutdown()

	done := make(chan bool)
	go func() {
		done <- pool.Submit(extractJob(0, &stubResolver{}))
	}()

	select {
	case ok := <-done:
		if ok {
			t.Error("expected Submit to refuse jobs after shutdown")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Submit after shutdown blocked")
	}
}

func TestPool_ShutdownCancelsRunningJob(t *testing.T) {
	resolver := &stubResolver{block: true, started: make(chan struct{})}
	pool := NewPool(context.Background(), 1)
	pool.Start()

	pool.Submit(extractJob(0, resolver))
	<-resolver.started

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Shutdown did not cancel the running job")
	}

	results := pool.collector.Results()
	if len(results) != 1 {
		t.Fatalf("expected the running job's result to be collected, got %d", len(results))
	}
}

func TestPool_ManyJobsDoNotBlockSubmit(t *testing.T) {
	resolver := &stubResolver{}
	pool := NewPool(context.Background(), 1)
	pool.Start()

	done := make(chan []Result)
	go func() {
		for i := 0; i < 100; i++ {
			pool.Submit(extractJob(i, resolver))
		}
		done <- pool.Wait()
	}()

	select {
	case results := <-done:
		if len(results) != 100 {
			t.Errorf("expected 100 results, got %d", len(results))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("submitting more jobs than the queue holds blocked")
	}
}
