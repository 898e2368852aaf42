package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/homestay/rental-api/internal/core/ports"
	"github.com/homestay/rental-api/internal/pkg/metrics"
)

const (
	defaultWorkers       = 4
	channelBuffer        = 256
	defaultDeleteTimeout = 15 * time.Second
)

// PhotoCleaner removes discarded photos in the background. References are
// sharded across a fixed set of workers by hash so repeated discards of the
// same reference are handled by one worker.
type PhotoCleaner struct {
	workers []chan string
	store   ports.MediaStore
	timeout time.Duration
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewPhotoCleaner creates a PhotoCleaner with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used; if timeout <= 0,
// defaultDeleteTimeout is used.
func NewPhotoCleaner(numWorkers int, store ports.MediaStore, timeout time.Duration, log zerolog.Logger) *PhotoCleaner {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if timeout <= 0 {
		timeout = defaultDeleteTimeout
	}
	c := &PhotoCleaner{
		workers: make([]chan string, numWorkers),
		store:   store,
		timeout: timeout,
		log:     log,
	}
	for i := range c.workers {
		c.workers[i] = make(chan string, channelBuffer)
	}
	return c
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or once Close has drained their channel.
func (c *PhotoCleaner) Start(ctx context.Context) {
	for i, ch := range c.workers {
		c.wg.Add(1)
		go c.runWorker(ctx, i, ch)
	}
}

// Discard enqueues refs for deletion without blocking. References arriving
// after Close, or while a worker channel is full, are dropped and logged.
func (c *PhotoCleaner) Discard(refs ...string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if c.closed {
			metrics.MediaDeletionsTotal.WithLabelValues("cleanup", "dropped").Inc()
			c.log.Warn().Str("ref", ref).Msg("photo cleaner closed, reference dropped")
			continue
		}

		idx := c.shardIndex(ref)
		select {
		case c.workers[idx] <- ref:
			metrics.CleanupQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(c.workers[idx])))
		default:
			metrics.MediaDeletionsTotal.WithLabelValues("cleanup", "dropped").Inc()
			c.log.Warn().Str("ref", ref).Int("worker_id", idx).Msg("photo cleanup queue full, reference dropped")
		}
	}
}

// Close stops accepting references and waits for queued ones to be processed.
func (c *PhotoCleaner) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for _, ch := range c.workers {
		close(ch)
	}
	c.mu.Unlock()

	c.wg.Wait()
}

// shardIndex maps a reference deterministically to a worker index.
func (c *PhotoCleaner) shardIndex(ref string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ref))
	return int(h.Sum32() % uint32(len(c.workers)))
}

func (c *PhotoCleaner) runWorker(ctx context.Context, id int, ch <-chan string) {
	defer c.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			return
		case ref, ok := <-ch:
			if !ok {
				return
			}
			metrics.CleanupQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			c.delete(ctx, id, ref)
		}
	}
}

func (c *PhotoCleaner) delete(ctx context.Context, workerID int, ref string) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.store.Delete(ctx, ref); err != nil {
		metrics.MediaDeletionsTotal.WithLabelValues("cleanup", "error").Inc()
		c.log.Error().Err(err).
			Str("ref", ref).
			Str("backend", c.store.Name()).
			Int("worker_id", workerID).
			Msg("photo cleanup failed")
		return
	}
	metrics.MediaDeletionsTotal.WithLabelValues("cleanup", "success").Inc()
}
