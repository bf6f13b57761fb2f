package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/IvanBrykalov/pecache/cache"
	"github.com/IvanBrykalov/pecache/internal/config"
	"github.com/IvanBrykalov/pecache/metrics/prom"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

type benchCache = cache.Cache[string, int, int, int64]

// result is the total time one worker spent on all rounds of one size.
type result struct {
	size    int
	elapsed time.Duration
}

// run executes the workload and prints one "<size>  <micros>" line per size.
// With several workers each runs its own cache and the reported time is
// the slowest worker's.
func run(ctx context.Context, w config.Workload, out io.Writer, logger *log.Logger) error {
	reg := prometheus.NewRegistry()
	metrics := prom.New(reg, "pecache", "bench", nil)

	if w.HTTPAddr != "" {
		srv := newServer(w.HTTPAddr, reg)
		go func() {
			logger.Printf("[INFO] serving metrics on %s", w.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("[ERROR] metrics server: %v", err)
			}
		}()
		defer shutdown(srv, logger)
	}

	for _, size := range w.Sizes {
		elapsed, err := measure(ctx, w, size, metrics, logger)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "%d  %d\n", size, elapsed.Microseconds()); err != nil {
			return err
		}
	}
	return nil
}

// measure runs w.Rounds fill/drain cycles of size on w.Workers caches.
func measure(ctx context.Context, w config.Workload, size int, m cache.Metrics, logger *log.Logger) (time.Duration, error) {
	// Keys are generated up front so uuid cost stays out of the timing.
	keys := make([]string, size)
	for i := range keys {
		keys[i] = uuid.NewString()
	}

	var (
		mu      sync.Mutex
		slowest time.Duration
	)
	g, ctx := errgroup.WithContext(ctx)
	for id := 0; id < w.Workers; id++ {
		id := id
		g.Go(func() error {
			c := cache.New[string, int, int, int64](cache.Options[string, int, int, int64]{
				Metrics: m,
				Logger:  logger,
			})
			r, err := fillDrain(ctx, c, w, keys)
			if err != nil {
				return fmt.Errorf("worker %d: %w", id, err)
			}
			mu.Lock()
			if r.elapsed > slowest {
				slowest = r.elapsed
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return slowest, nil
}

// fillDrain fills c to len(keys) and shrinks its capacity to zero, w.Rounds
// times. Priorities and expiries are assigned cyclically from w.
func fillDrain(ctx context.Context, c benchCache, w config.Workload, keys []string) (result, error) {
	res := result{size: len(keys)}
	for round := 0; round < w.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		start := time.Now()
		c.ResetClock()
		c.SetCapacity(len(keys))
		for i, k := range keys {
			prio := w.Priorities[i%len(w.Priorities)]
			exp := w.Expiries[i%len(w.Expiries)]
			if err := c.Set(k, i, prio, exp); err != nil {
				return res, fmt.Errorf("set %s: %w", k, err)
			}
		}
		for n := len(keys) - 1; n >= 0; n-- {
			c.SetCapacity(n)
		}
		res.elapsed += time.Since(start)

		if !c.Empty() {
			return res, fmt.Errorf("round %d: %d entries left after drain", round, c.Len())
		}
	}
	return res, nil
}
