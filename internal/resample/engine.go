// Package resample builds derived-frequency series by folding source bars
// into coarser time buckets in the instrument's exchange timezone.
package resample

import (
	"time"

	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/series"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/freq"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/logger"
)

// Engine derives coarser series from base series. It satisfies the
// registry's Deriver contract.
type Engine struct {
	log logger.Interface
}

// NewEngine returns a derivation engine.
func NewEngine(log logger.Interface) *Engine {
	return &Engine{log: log}
}

// DeriveFrom resamples src into a new series at the target frequency. The
// result is backfilled from all bars already present in src and then kept
// current from src's update events. The returned series carries the source's
// loaded state.
func (e *Engine) DeriveFrom(src *series.Series, target freq.Frequency, loc *time.Location) *series.Series {
	if loc == nil {
		loc = time.UTC
	}

	out := series.New(target)
	if from, ok := src.Earliest(); ok {
		to, _ := src.Latest()
		e.recompute(src, out, target, loc, from, to)
	}
	if src.Loaded() {
		out.MarkLoaded()
	}

	src.OnUpdate(func(ev series.Event) {
		e.recompute(src, out, target, loc, ev.From, ev.To)
	})
	return out
}

// recompute rebuilds every target bucket overlapping [from, to]. The window
// is widened to bucket boundaries so a partial source update still yields
// fully folded buckets.
func (e *Engine) recompute(src, out *series.Series, target freq.Frequency, loc *time.Location, from, to time.Time) {
	lo := target.Round(from, loc)
	hi := target.NextBucket(to, loc).Add(-time.Millisecond)
	bars := src.Range(lo, hi)
	if len(bars) == 0 {
		return
	}

	var (
		cur   *series.Quote
		flush []series.Bar
	)
	for _, b := range bars {
		q, ok := b.(*series.Quote)
		if !ok {
			continue
		}
		bucket := target.Round(q.Timestamp, loc)
		if cur == nil || !cur.Timestamp.Equal(bucket) {
			if cur != nil {
				flush = append(flush, cur)
			}
			cur = &series.Quote{
				Timestamp: bucket,
				Open:      q.Open,
				High:      q.High,
				Low:       q.Low,
				Close:     q.Close,
				Volume:    q.Volume,
				Amount:    q.Amount,
				FromLocal: true,
			}
			continue
		}
		fold(cur, q)
	}
	if cur != nil {
		flush = append(flush, cur)
	}

	for _, b := range flush {
		out.Upsert(b)
	}
}

// fold merges one source bar into an open target bucket. The source walk is
// ascending, so open stays the first bar's open and close tracks the last.
func fold(dst, q *series.Quote) {
	if q.High > dst.High {
		dst.High = q.High
	}
	if q.Low > 0 && (dst.Low == 0 || q.Low < dst.Low) {
		dst.Low = q.Low
	}
	dst.Close = q.Close
	dst.Volume += q.Volume
	dst.Amount += q.Amount
}
