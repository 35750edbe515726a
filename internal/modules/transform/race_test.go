// README: Concurrency tests for the cache and batch orchestrator (run with -race).
package transform

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"bridget/internal/types"
)

func TestConcurrentBatchesShareCache(t *testing.T) {
	svc := newTestService(true)
	ctx := context.Background()
	points := seattleBatch(2_000)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.TransformBatch(ctx, points, types.SystemRawAPI, types.SystemSeattleReference, "b1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent batch failed: %v", err)
		}
	}
}

func TestConcurrentCacheMutationAndInvalidation(t *testing.T) {
	c := newTestCache(64, 256, true)
	var wg sync.WaitGroup

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				id := types.BridgeID(fmt.Sprintf("b%d", i%100))
				c.SetPoint(types.SystemRawAPI, types.SystemWGS84, id, 47.6, -122.3, types.Point{Lat: float64(w), Lon: float64(i)})
				c.GetPoint(types.SystemRawAPI, types.SystemWGS84, id, 47.6, -122.3)
				c.SetMatrix(types.SystemRawAPI, types.SystemWGS84, id, Identity())
				c.GetMatrix(types.SystemRawAPI, types.SystemWGS84, id)
			}
		}(w)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			c.InvalidateAll()
			c.Stats()
		}
	}()

	wg.Wait()

	// Version bumps must be monotonic and reflected in stats.
	if c.Version() < 50 {
		t.Errorf("version = %d, want >= 50", c.Version())
	}
}

func TestConcurrentBatchWithDifferentBridges(t *testing.T) {
	svc := newTestService(true)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		id := types.BridgeID(fmt.Sprintf("bridge-%d", i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.TransformBatch(ctx, seattleBatch(300), types.SystemRawAPI, types.SystemSeattleReference, id)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent batch failed: %v", err)
		}
	}
}
