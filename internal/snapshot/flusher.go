package snapshot

import (
	"context"
	"time"

	"github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/moneyflow"
	"github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/quote"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/logger"
)

// Flusher is the single consumer of the shared flush queues. It drains
// closed buckets on an interval and batch-persists them with the copy
// protocol, with a final drain on shutdown.
type Flusher struct {
	quotes quote.Store
	flows  moneyflow.Store
	quoteQ *Queue[quote.BatchEntry]
	flowQ  *Queue[moneyflow.BatchEntry]
	log    logger.Interface

	interval  time.Duration
	batchSize int
}

// NewFlusher creates a flusher draining up to batchSize entries per queue
// every interval.
func NewFlusher(
	quotes quote.Store,
	flows moneyflow.Store,
	quoteQ *Queue[quote.BatchEntry],
	flowQ *Queue[moneyflow.BatchEntry],
	interval time.Duration,
	batchSize int,
	log logger.Interface,
) *Flusher {
	return &Flusher{
		quotes:    quotes,
		flows:     flows,
		quoteQ:    quoteQ,
		flowQ:     flowQ,
		interval:  interval,
		batchSize: batchSize,
		log:       log,
	}
}

// Run drains the queues until ctx is done, then performs a final drain so
// closed buckets are not lost on shutdown.
func (f *Flusher) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.drain(context.WithoutCancel(ctx))
			return
		case <-ticker.C:
			f.flush(ctx)
		}
	}
}

// drain flushes repeatedly until both queues are empty. Only used on
// shutdown, after tick ingestion has stopped producing.
func (f *Flusher) drain(ctx context.Context) {
	for f.quoteQ.Len() > 0 || f.flowQ.Len() > 0 {
		f.flush(ctx)
	}
}

// flush persists one drain cycle from each queue. Failed batches are logged
// and dropped rather than requeued: requeueing against a down store would
// deadlock tick ingestion on a full queue.
func (f *Flusher) flush(ctx context.Context) {
	if entries := f.quoteQ.TryDrain(f.batchSize); len(entries) > 0 {
		if err := f.quotes.StoreBatch(ctx, entries); err != nil {
			f.log.ErrorContext(ctx, err, logger.Field{
				Key:   "batch",
				Value: "quote",
			})
		}
	}
	if entries := f.flowQ.TryDrain(f.batchSize); len(entries) > 0 {
		if err := f.flows.StoreBatch(ctx, entries); err != nil {
			f.log.ErrorContext(ctx, err, logger.Field{
				Key:   "batch",
				Value: "money_flow",
			})
		}
	}
}
