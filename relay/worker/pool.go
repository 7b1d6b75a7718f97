// Package worker provides an asynchronous worker pool that publishes chat
// telemetry events through an eventstream.Publisher.
//
// The pool decouples publishing from the relay's streaming path so that a
// slow or unavailable event backend never delays an answer.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/planora/planora/pkg/eventstream"
	"github.com/planora/planora/pkg/metrics"
)

var (
	defaultNumWorkers     uint = 2
	defaultJobQueueSize   uint = 256
	defaultPublishTimeout      = 10 * time.Second
)

// Job is a unit of work for the worker pool to execute against.
type Job struct {
	Event *eventstream.ChatRelayedEvent
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Publisher receives every dequeued event.
	Publisher eventstream.Publisher

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// Metrics counts failed and dropped publishes. Optional.
	Metrics *metrics.Metrics

	Logger *slog.Logger
}

// Pool publishes events asynchronously via a worker pool.
type Pool struct {
	config *Config
	logger *slog.Logger
	wg     sync.WaitGroup

	mu     sync.RWMutex
	queue  chan Job
	closed bool
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.Publisher == nil {
		return nil, fmt.Errorf("worker pool requires a publisher")
	}

	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	wp := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: logger,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns true if enqueued, false if the queue is full or the pool is
// closed, resulting in the job being dropped.
func (p *Pool) Enqueue(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.logger.Warn("job not queued, pool closed", "event_id", eventID(job))
		p.config.Metrics.PublishFailed()
		return false
	}

	select {
	case p.queue <- job:
		p.logger.Debug("job queued", "event_id", eventID(job))
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped", "event_id", eventID(job))
		p.config.Metrics.PublishFailed()
		return false
	}
}

// Close stops accepting jobs and waits for in-flight jobs to drain.
// Call this during graceful shutdown after the relay HTTP server has stopped.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", "worker_id", id)

	for job := range p.queue {
		p.processJob(job)
	}

	p.logger.Debug("worker stopped", "worker_id", id)
}

func (p *Pool) processJob(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultPublishTimeout)
	defer cancel()

	if err := p.config.Publisher.PublishChat(ctx, job.Event); err != nil {
		p.config.Metrics.PublishFailed()
		p.logger.Error("publishing chat event failed",
			"event_id", eventID(job),
			"error", err,
		)
		return
	}

	p.logger.Debug("chat event published", "event_id", eventID(job))
}

func eventID(job Job) string {
	if job.Event == nil {
		return ""
	}
	return job.Event.EventID
}
