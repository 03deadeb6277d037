package renderer

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TileFunc renders a single tile
type TileFunc func(ctx context.Context, tile *Tile) error

// WorkerPool manages parallel tile rendering. Tiles are handed out from a
// shared queue; the first failing tile cancels the rest.
type WorkerPool struct {
	numWorkers int
	logger     *zap.Logger
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// Non-positive counts use one worker per CPU.
func NewWorkerPool(numWorkers int, logger *zap.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerPool{numWorkers: numWorkers, logger: logger}
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// Run renders every tile with render and returns the number of tiles that
// completed. Cancelling ctx stops workers between tiles.
func (wp *WorkerPool) Run(ctx context.Context, tiles []*Tile, render TileFunc) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	queue := make(chan *Tile)
	var completed atomic.Int64

	g.Go(func() error {
		defer close(queue)
		for _, tile := range tiles {
			select {
			case queue <- tile:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	workers := min(wp.numWorkers, max(len(tiles), 1))
	for id := 0; id < workers; id++ {
		id := id
		g.Go(func() error {
			for tile := range queue {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := render(ctx, tile); err != nil {
					return fmt.Errorf("worker %d: tile %d: %w", id, tile.ID, err)
				}
				completed.Add(1)
			}
			wp.logger.Debug("worker finished", zap.Int("worker", id))
			return nil
		})
	}

	err := g.Wait()
	return int(completed.Load()), err
}
