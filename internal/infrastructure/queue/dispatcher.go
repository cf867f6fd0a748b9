package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/devforum/qa-board/internal/api/metrics"
	"github.com/devforum/qa-board/internal/core/ports"
)

const (
	defaultWorkers = 4
	defaultBuffer  = 256
	jobTimeout     = 10 * time.Second
)

// Dispatcher runs notification fan-out off the request path. Jobs are routed
// to a fixed set of workers by hashing the question ID, so notifications for
// one question are created in the order their writes committed.
type Dispatcher struct {
	workers []chan ports.NotificationJob
	service ports.NotificationService
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// buffering up to buffer jobs. Non-positive values fall back to defaults.
func NewDispatcher(numWorkers, buffer int, service ports.NotificationService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	d := &Dispatcher{
		workers: make([]chan ports.NotificationJob, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.NotificationJob, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit when ctx is cancelled or
// when Shutdown has drained their channel.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a job to the worker responsible for its question. It never
// blocks: when the worker's buffer is full, or the dispatcher is shutting
// down, the job is dropped and logged.
func (d *Dispatcher) Enqueue(job ports.NotificationJob) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(job, "dispatcher stopped")
		return
	}

	idx := d.shardIndex(job.QuestionID)
	select {
	case d.workers[idx] <- job:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		d.drop(job, "queue full")
	}
}

func (d *Dispatcher) drop(job ports.NotificationJob, reason string) {
	metrics.NotificationJobsTotal.WithLabelValues("dropped").Inc()
	d.log.Warn().
		Str("question_id", job.QuestionID).
		Str("source", string(job.Source)).
		Str("reason", reason).
		Msg("notification job dropped")
}

// Shutdown stops accepting jobs and waits until the workers have drained
// what is already queued, or until ctx expires.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a question ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(questionID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(questionID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.NotificationJob) {
	defer d.wg.Done()
	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			d.process(ctx, id, job)
		}
	}
}

// process runs one job. Failures are logged and counted; the worker moves on.
func (d *Dispatcher) process(ctx context.Context, workerID int, job ports.NotificationJob) {
	start := time.Now()
	jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	err := d.service.Dispatch(jobCtx, job)
	metrics.NotificationDispatchDuration.WithLabelValues(string(job.Source)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.NotificationJobsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("question_id", job.QuestionID).
			Str("source", string(job.Source)).
			Int("worker_id", workerID).
			Msg("notification dispatch failed")
		return
	}
	metrics.NotificationJobsTotal.WithLabelValues("processed").Inc()
}
