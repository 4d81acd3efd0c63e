package ouroborosstego

import (
	"context"
	"sync/atomic"
	"time"
)

// OperationCounts holds the number of embed and extract calls since the
// counters were last drained.
type OperationCounts struct {
	Embeds   uint64
	Extracts uint64
}

// DrainCounters returns the operation counts and resets them to zero.
func (s *Stego) DrainCounters() OperationCounts {
	return OperationCounts{
		Embeds:   atomic.SwapUint64(&s.embedCounter, 0),
		Extracts: atomic.SwapUint64(&s.extractCounter, 0),
	}
}

// StartOperationCounter logs the embed and extract operations of every
// interval until ctx is done.
func (s *Stego) StartOperationCounter(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				counts := s.DrainCounters()
				s.log.WithField("embed_ops", counts.Embeds).
					WithField("extract_ops", counts.Extracts).
					WithField("interval", interval.String()).
					Info("Codec operations per interval")
			}
		}
	}()
}
