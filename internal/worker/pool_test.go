package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mockprep/backend/internal/worker"
)

func TestMap_PreservesOrder(t *testing.T) {
	p := worker.NewPool(4, 4)
	defer p.Close()

	items := []int{5, 1, 4, 2, 3}
	got, err := worker.Map(context.Background(), p, items, func(ctx context.Context, n int) (int, error) {
		// Later items finish first.
		time.Sleep(time.Duration(n) * time.Millisecond)
		return n * 10, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{50, 10, 40, 20, 30}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestMap_BoundsConcurrency(t *testing.T) {
	p := worker.NewPool(2, 0)
	defer p.Close()

	var running, peak int32
	items := make([]int, 10)
	_, err := worker.Map(context.Background(), p, items, func(ctx context.Context, _ int) (struct{}, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return struct{}{}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peak > 2 {
		t.Errorf("expected at most 2 concurrent jobs, saw %d", peak)
	}
}

func TestMap_ReturnsFirstRealError(t *testing.T) {
	p := worker.NewPool(3, 3)
	defer p.Close()

	boom := errors.New("boom")
	_, err := worker.Map(context.Background(), p, []int{1, 2, 3}, func(ctx context.Context, n int) (int, error) {
		if n == 2 {
			return 0, boom
		}
		<-ctx.Done()
		return 0, ctx.Err()
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestMap_Empty(t *testing.T) {
	p := worker.NewPool(1, 0)
	defer p.Close()

	got, err := worker.Map(context.Background(), p, nil, func(ctx context.Context, n int) (int, error) {
		t.Error("fn should not be called")
		return 0, nil
	})
	if err != nil || len(got) != 0 {
		t.Errorf("expected empty result, got %v, %v", got, err)
	}
}

func TestSubmit_AfterClose(t *testing.T) {
	p := worker.NewPool(1, 1)
	p.Close()

	if err := p.Submit(context.Background(), func() {}); !errors.Is(err, worker.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
