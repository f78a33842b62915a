package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gnana997/syntaxdoc/pkg/extractor"
	"github.com/gnana997/syntaxdoc/pkg/util"
)

// ErrPoolStopped is returned by Submit after Stop.
var ErrPoolStopped = errors.New("worker pool is stopped")

// UnitOutcome is what a worker produced for one compilation unit. Exactly
// one of Result and Err is set.
type UnitOutcome struct {
	Path    string
	Seq     int // submission order
	Result  *extractor.FileResult
	Err     error
	Elapsed time.Duration
}

// Failure returns the outcome as a UnitError. Only valid when Err is set.
func (o UnitOutcome) Failure() UnitError {
	return UnitError{Path: o.Path, Err: o.Err}
}

type unitJob struct {
	path string
	seq  int
}

// WorkerPool extracts compilation units on a fixed set of goroutines.
//
// **Architecture:**
//   - A buffered jobs channel feeds the workers
//   - One outcomes channel carries successes and failures alike
//   - Cancellation through the parent context, checked between units
//
// **Usage:**
//
//	pool := NewWorkerPool(ctx, numWorkers, extractor, files, logger)
//	pool.Start()
//	go func() {
//	    defer pool.Stop()
//	    for _, path := range paths {
//	        if pool.Submit(path) != nil {
//	            return
//	        }
//	    }
//	}()
//	for outcome := range pool.Outcomes() {
//	    // ...
//	}
type WorkerPool struct {
	numWorkers int
	jobs       chan unitJob
	outcomes   chan UnitOutcome
	wg         sync.WaitGroup
	extractor  *extractor.Extractor
	files      util.FileCache
	logger     *slog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool
	submitMu   sync.Mutex

	// Statistics
	seq           int // guarded by submitMu
	jobsSubmitted atomic.Int64
	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
	jobsSkipped   atomic.Int64
	busyNanos     atomic.Int64
}

// NewWorkerPool creates a worker pool.
//
// Parameters:
//   - ctx: Cancelling it stops workers before their next unit
//   - numWorkers: Number of worker goroutines (0 = util.GetOptimalPoolSize)
//   - extractor: Extractor instance for processing files
//   - files: Optional memory-mapped source cache; nil reads with os.ReadFile
//   - logger: Logger for worker messages
func NewWorkerPool(ctx context.Context, numWorkers int, extractor *extractor.Extractor, files util.FileCache, logger *slog.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = util.GetOptimalPoolSize()
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		numWorkers: numWorkers,
		jobs:       make(chan unitJob, numWorkers*2),
		outcomes:   make(chan UnitOutcome, numWorkers),
		extractor:  extractor,
		files:      files,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start spawns the workers. It must be called before Submit.
func (wp *WorkerPool) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		wp.logger.Warn("WorkerPool already started")
		return
	}

	wp.logger.Debug("Starting worker pool", "workers", wp.numWorkers)
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			wp.logger.Debug("Worker cancelled", "worker_id", id)
			return
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			if wp.ctx.Err() != nil {
				wp.jobsSkipped.Add(1)
				continue
			}
			wp.outcomes <- wp.extract(id, job)
		}
	}
}

// extract reads and extracts one unit.
func (wp *WorkerPool) extract(workerID int, job unitJob) (outcome UnitOutcome) {
	start := time.Now()
	outcome = UnitOutcome{Path: job.path, Seq: job.seq}
	defer func() {
		outcome.Elapsed = time.Since(start)
		wp.busyNanos.Add(int64(outcome.Elapsed))
	}()

	content, err := wp.read(job.path)
	if err != nil {
		wp.jobsFailed.Add(1)
		outcome.Err = fmt.Errorf("failed to read file: %w", err)
		return outcome
	}

	outcome.Result, outcome.Err = wp.extractor.ExtractFile(job.path, content)
	if outcome.Err != nil {
		wp.logger.Debug("Extraction error", "worker_id", workerID, "file", job.path, "error", outcome.Err)
		wp.jobsFailed.Add(1)
		return outcome
	}
	wp.jobsProcessed.Add(1)
	return outcome
}

func (wp *WorkerPool) read(path string) ([]byte, error) {
	if wp.files == nil {
		return os.ReadFile(path)
	}
	mf, err := wp.files.Get(path)
	if errors.Is(err, util.ErrCacheFull) {
		wp.logger.Debug("File cache full, reading directly", "file", path)
		return os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return mf.Data, nil
}

// Submit enqueues a unit. It blocks while the queue is full, until a worker
// frees a slot or the context is cancelled.
func (wp *WorkerPool) Submit(path string) error {
	wp.submitMu.Lock()
	defer wp.submitMu.Unlock()

	if wp.jobsClosed.Load() {
		return ErrPoolStopped
	}
	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool cancelled: %w", wp.ctx.Err())
	case wp.jobs <- unitJob{path: path, seq: wp.seq}:
		wp.seq++
		wp.jobsSubmitted.Add(1)
		return nil
	}
}

// Outcomes returns the outcomes channel. It is closed by Stop once every
// worker has exited.
func (wp *WorkerPool) Outcomes() <-chan UnitOutcome {
	return wp.outcomes
}

// FinishSubmitting closes the queue. Workers exit once it is drained.
// Safe to call more than once.
func (wp *WorkerPool) FinishSubmitting() {
	if !wp.jobsClosed.CompareAndSwap(false, true) {
		return
	}
	wp.submitMu.Lock()
	close(wp.jobs)
	wp.submitMu.Unlock()
	wp.logger.Debug("Jobs channel closed", "total_submitted", wp.jobsSubmitted.Load())
}

// Stop closes the queue, waits for in-flight units and closes the outcomes
// channel. Outcomes still buffered stay readable; a consumer must keep
// draining while Stop runs. Safe to call more than once.
func (wp *WorkerPool) Stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}

	wp.FinishSubmitting()
	wp.wg.Wait()
	close(wp.outcomes)
	wp.cancel()

	stats := wp.GetStats()
	wp.logger.Debug("Worker pool stopped",
		"jobs_submitted", stats.JobsSubmitted,
		"jobs_processed", stats.JobsProcessed,
		"jobs_failed", stats.JobsFailed,
		"jobs_skipped", stats.JobsSkipped,
		"busy", stats.Busy)
}

// GetStats returns current worker pool statistics.
func (wp *WorkerPool) GetStats() WorkerPoolStats {
	return WorkerPoolStats{
		NumWorkers:     wp.numWorkers,
		JobsSubmitted:  wp.jobsSubmitted.Load(),
		JobsProcessed:  wp.jobsProcessed.Load(),
		JobsFailed:     wp.jobsFailed.Load(),
		JobsSkipped:    wp.jobsSkipped.Load(),
		QueueLength:    len(wp.jobs),
		OutcomesQueued: len(wp.outcomes),
		Busy:           time.Duration(wp.busyNanos.Load()),
	}
}

// WorkerPoolStats contains statistics about the worker pool.
type WorkerPoolStats struct {
	NumWorkers     int
	JobsSubmitted  int64
	JobsProcessed  int64
	JobsFailed     int64
	JobsSkipped    int64
	QueueLength    int           // units waiting for a worker
	OutcomesQueued int           // outcomes waiting to be consumed
	Busy           time.Duration // summed time workers spent on units
}
