// Package downloader fans item descriptors out to a fixed pool of workers
// and turns each item page into one outcome.
package downloader

import (
	"context"
	"fmt"
	"sync"

	"github.com/vrsandeep/tokyo-links/internal/logger"
	"github.com/vrsandeep/tokyo-links/internal/models"
)

const (
	// DefaultPoolSize is the worker count used when none is configured.
	DefaultPoolSize = 5
	// MaxPoolSize caps the worker count to stay within the site's rate tolerance.
	MaxPoolSize = 16
)

// ProcessFunc handles one descriptor.
type ProcessFunc func(ctx context.Context, d models.ItemDescriptor) models.ItemOutcome

// Dispatcher runs a ProcessFunc over descriptors with bounded concurrency.
type Dispatcher struct {
	poolSize int
	log      logger.Logger
}

// NewDispatcher creates a Dispatcher with poolSize workers, clamped to
// [1, MaxPoolSize]; a non-positive size selects DefaultPoolSize.
func NewDispatcher(poolSize int, log logger.Logger) *Dispatcher {
	switch {
	case poolSize <= 0:
		poolSize = DefaultPoolSize
	case poolSize > MaxPoolSize:
		poolSize = MaxPoolSize
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Dispatcher{poolSize: poolSize, log: log}
}

// PoolSize returns the number of workers a run starts.
func (d *Dispatcher) PoolSize() int { return d.poolSize }

// Run processes every descriptor and blocks until all outcomes are in. The
// result has exactly one outcome per descriptor, in completion order.
func (d *Dispatcher) Run(ctx context.Context, descs []models.ItemDescriptor, process ProcessFunc) []models.ItemOutcome {
	sink := NewMemorySink(len(descs))
	d.RunInto(ctx, descs, process, sink)
	return sink.Outcomes()
}

// RunInto is Run with a caller-supplied sink. Once ctx is cancelled no new
// descriptor is started; those left over are recorded as fetch failures
// carrying the context error.
func (d *Dispatcher) RunInto(ctx context.Context, descs []models.ItemDescriptor, process ProcessFunc, sink ResultSink) {
	jobQueue := make(chan models.ItemDescriptor)
	workers := min(d.poolSize, max(len(descs), 1))

	var wg sync.WaitGroup
	for i := 1; i <= workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			d.worker(ctx, id, jobQueue, process, sink)
		}(i)
	}

feed:
	for i, desc := range descs {
		if ctx.Err() != nil {
			d.skipRemaining(ctx, descs[i:], sink)
			break
		}
		select {
		case jobQueue <- desc:
		case <-ctx.Done():
			d.skipRemaining(ctx, descs[i:], sink)
			break feed
		}
	}
	close(jobQueue)
	wg.Wait()
}

func (d *Dispatcher) worker(ctx context.Context, id int, jobs <-chan models.ItemDescriptor, process ProcessFunc, sink ResultSink) {
	for desc := range jobs {
		if err := ctx.Err(); err != nil {
			sink.Add(models.Failure(desc, models.FailureFetch, fmt.Errorf("%w: %w", models.ErrFetch, err)))
			continue
		}
		outcome := d.safeProcess(ctx, desc, process)
		if outcome.OK() {
			d.log.Info("Item done",
				logger.Int("worker", id),
				logger.String("type", string(desc.Type)),
				logger.Int("index", desc.Index),
				logger.String("url", outcome.Selected.DownloadURL))
		} else {
			d.log.Warn("Item failed",
				logger.Int("worker", id),
				logger.String("type", string(desc.Type)),
				logger.Int("index", desc.Index),
				logger.String("reason", outcome.Reason.String()),
				logger.Error(outcome.Err))
		}
		sink.Add(outcome)
	}
}

// safeProcess converts a panic in process into a parse failure so that one
// bad page cannot take down its siblings.
func (d *Dispatcher) safeProcess(ctx context.Context, desc models.ItemDescriptor, process ProcessFunc) (outcome models.ItemOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = models.Failure(desc, models.FailureParse, fmt.Errorf("%w: panic while processing %s: %v", models.ErrParse, desc.PageURL, r))
		}
	}()
	outcome = process(ctx, desc)
	outcome.Descriptor = desc
	return outcome
}

func (d *Dispatcher) skipRemaining(ctx context.Context, rest []models.ItemDescriptor, sink ResultSink) {
	d.log.Warn("Run cancelled, skipping remaining items", logger.Int("skipped", len(rest)), logger.Error(ctx.Err()))
	for _, desc := range rest {
		sink.Add(models.Failure(desc, models.FailureFetch, fmt.Errorf("%w: %w", models.ErrFetch, ctx.Err())))
	}
}
