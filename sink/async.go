package sink

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/godamri/helix-audit/engine"
)

// Async decorates a Sink with a bounded buffer and a single writer
// goroutine. It is for NON-AUTHORITATIVE mirrors only (a Kafka copy of
// a trail whose system of record is Postgres): Append reports success
// as soon as the batch is queued, which breaks the engine's
// flush-failure contract for a primary destination.
type Async struct {
	batches   chan []engine.Entry
	next      Sink
	logger    *slog.Logger
	wg        sync.WaitGroup
	closeOnce sync.Once

	blockOnFull bool

	dropCount   uint64
	lastLogTime time.Time
	dropMu      sync.Mutex
}

func NewAsync(next Sink, bufferSize int, blockOnFull bool, logger *slog.Logger) *Async {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &Async{
		batches:     make(chan []engine.Entry, bufferSize),
		next:        next,
		logger:      logger,
		blockOnFull: blockOnFull,
		lastLogTime: time.Now(),
	}

	a.wg.Add(1)
	go a.worker()

	return a
}

func (a *Async) Append(ctx context.Context, entries []engine.Entry) error {
	batch := make([]engine.Entry, len(entries))
	copy(batch, entries)

	if a.blockOnFull {
		select {
		case a.batches <- batch:
			return nil
		case <-ctx.Done():
			a.handleDrop(len(batch))
			return ctx.Err()
		}
	}

	select {
	case a.batches <- batch:
		return nil
	default:
		a.handleDrop(len(batch))
		return nil
	}
}

// handleDrop counts dropped batches and logs at most once per 5s window
// so a saturated mirror doesn't also saturate the logs.
func (a *Async) handleDrop(entries int) {
	currentDrops := atomic.AddUint64(&a.dropCount, uint64(entries))

	if time.Since(a.lastLogTime) < 5*time.Second {
		return
	}

	a.dropMu.Lock()
	defer a.dropMu.Unlock()

	if time.Since(a.lastLogTime) >= 5*time.Second {
		a.logger.Warn("audit mirror buffer full, batches dropped",
			"strategy", "drop_on_full",
			"total_dropped_entries", currentDrops,
		)
		atomic.StoreUint64(&a.dropCount, 0)
		a.lastLogTime = time.Now()
	}
}

func (a *Async) worker() {
	defer a.wg.Done()

	for batch := range a.batches {
		if err := a.next.Append(context.Background(), batch); err != nil {
			a.logger.Error("audit mirror append failed", "entries", len(batch), "error", err)
		}
	}
}

// Close drains the buffer and stops the worker.
func (a *Async) Close() error {
	a.closeOnce.Do(func() {
		close(a.batches)
	})
	a.wg.Wait()
	return nil
}
