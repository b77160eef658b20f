package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/crosscheck-io/crosscheck/pkg/kafka"
	"github.com/crosscheck-io/crosscheck/pkg/logger"
)

const (
	defaultBatchSize     = 50
	defaultFlushInterval = 2 * time.Second
)

// Collector buffers scan events and publishes them to Kafka in batches.
// Record never blocks the scan path: when the buffer is full the event
// is dropped and counted.
type Collector struct {
	producer *kafka.Producer
	logger   *slog.Logger

	mu      sync.Mutex
	pending []kafka.Event
	dropped int64

	flushInterval time.Duration
	batchSize     int
	stop          chan struct{}
	done          chan struct{}
}

// NewCollector creates a Collector publishing to the given producer.
// A nil producer makes every Record a no-op.
func NewCollector(producer *kafka.Producer) *Collector {
	return &Collector{
		producer:      producer,
		logger:        logger.WithComponent("analytics-collector"),
		pending:       make([]kafka.Event, 0, defaultBatchSize),
		flushInterval: defaultFlushInterval,
		batchSize:     defaultBatchSize,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start launches the background flush loop.
func (c *Collector) Start(ctx context.Context) {
	go c.loop(ctx)
}

// Record enqueues an event for publication.
func (c *Collector) Record(event ScanEvent) {
	if c.producer == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) >= c.batchSize*4 {
		c.dropped++
		return
	}
	c.pending = append(c.pending, kafka.Event{
		Key:   event.Type,
		Value: event,
	})
}

func (c *Collector) loop(ctx context.Context) {
	defer close(c.done)
	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.flush(ctx)
		case <-c.stop:
			c.flush(context.Background())
			return
		case <-ctx.Done():
			return
		}
	}
}

func (c *Collector) flush(ctx context.Context) {
	c.mu.Lock()
	if len(c.pending) == 0 {
		c.mu.Unlock()
		return
	}
	batch := c.pending
	c.pending = make([]kafka.Event, 0, c.batchSize)
	dropped := c.dropped
	c.dropped = 0
	c.mu.Unlock()

	if dropped > 0 {
		c.logger.Warn("events dropped under backpressure", "count", dropped)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.producer.PublishBatch(ctx, batch); err != nil {
		c.logger.Error("failed to publish event batch", "count", len(batch), "error", err)
	}
}

// Close flushes remaining events and stops the loop.
func (c *Collector) Close() {
	if c.producer == nil {
		return
	}
	close(c.stop)
	<-c.done
}
