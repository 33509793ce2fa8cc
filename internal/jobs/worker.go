package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/huvtsp/alumni/pkg/models"
	"github.com/huvtsp/alumni/pkg/repository"
)

const (
	defaultIdleWait  = 500 * time.Millisecond
	defaultErrorWait = time.Second
)

type WorkerPool struct {
	repo        repository.JobQueue
	handlers    map[string]Handler
	logger      *slog.Logger
	workerCount int
	idleWait    time.Duration
	errorWait   time.Duration
	backoff     func(attempt int) time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

func NewWorkerPool(repo repository.JobQueue, handlers map[string]Handler, logger *slog.Logger, workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkerPool{
		repo:        repo,
		handlers:    handlers,
		logger:      logger,
		workerCount: workerCount,
		idleWait:    defaultIdleWait,
		errorWait:   defaultErrorWait,
		backoff:     BackoffDuration,
		stop:        make(chan struct{}),
	}
}

// SetPollInterval changes how long an idle worker waits before polling again.
func (p *WorkerPool) SetPollInterval(d time.Duration) {
	if d > 0 {
		p.idleWait = d
	}
}

// SetBackoff replaces the retry schedule.
func (p *WorkerPool) SetBackoff(fn func(attempt int) time.Duration) {
	if fn != nil {
		p.backoff = fn
	}
}

// Start launches the worker goroutines
func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Stop signals workers to stop and waits for them
func (p *WorkerPool) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
	p.wg.Wait()
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stop:
			p.logger.Info("worker stopping", "id", id)
			return
		case <-ctx.Done():
			p.logger.Info("context canceled, worker exiting", "id", id)
			return
		default:
		}

		job, err := p.repo.FetchNext(ctx)
		if err != nil {
			p.logger.Error("fetch job", "err", err)
			p.wait(ctx, p.errorWait)
			continue
		}
		if job == nil {
			p.wait(ctx, p.idleWait)
			continue
		}
		p.process(ctx, job)
	}
}

func (p *WorkerPool) wait(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-p.stop:
	case <-ctx.Done():
	}
}

// process runs one claimed job and records the outcome.
func (p *WorkerPool) process(ctx context.Context, job *models.BackgroundJob) {
	log := p.logger.With("job_id", job.ID, "type", job.Type)

	h, ok := p.handlers[job.Type]
	if !ok {
		job.Status = StatusFailed
		job.LastError = "no handler"
		if err := p.repo.MoveToDeadLetter(ctx, job); err != nil {
			log.Error("move to dead letter", "err", err)
		}
		return
	}

	err := p.run(ctx, h, job)
	if err == nil {
		job.Status = StatusDone
		job.LastError = ""
		if upErr := p.repo.UpdateJob(ctx, job); upErr != nil {
			log.Error("mark job done", "err", upErr)
		}
		return
	}

	job.Attempts++
	job.LastError = err.Error()
	if IsPermanent(err) || job.Attempts >= job.MaxAttempts {
		job.Status = StatusFailed
		log.Warn("job failed permanently", "attempts", job.Attempts, "err", err)
		if mvErr := p.repo.MoveToDeadLetter(ctx, job); mvErr != nil {
			log.Error("move to dead letter", "err", mvErr)
		}
		return
	}

	t := time.Now().Add(p.backoff(job.Attempts))
	job.NextTryAt = &t
	job.Status = StatusRetry
	if upErr := p.repo.UpdateJob(ctx, job); upErr != nil {
		log.Error("update job for retry", "err", upErr)
	}
}

// run calls h, turning a panic into an error so the worker survives.
func (p *WorkerPool) run(ctx context.Context, h Handler, job *models.BackgroundJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Permanent(panicError{r})
		}
	}()
	return h(ctx, job)
}

type panicError struct{ v any }

func (e panicError) Error() string { return "handler panic: " + toString(e.v) }

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case error:
		return x.Error()
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// Enqueue convenience helper that creates a job and persists it
func (p *WorkerPool) Enqueue(ctx context.Context, typ string, payload any, priority int, maxAttempts int) (int64, error) {
	return Enqueue(ctx, p.repo, typ, payload, priority, maxAttempts)
}

// Enqueue marshals payload and stores a job that is due now.
func Enqueue(ctx context.Context, q repository.JobQueue, typ string, payload any, priority int, maxAttempts int) (int64, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	j := &models.BackgroundJob{Type: typ, Payload: b, Priority: priority, MaxAttempts: maxAttempts, ScheduledAt: time.Now()}
	return q.Enqueue(ctx, j)
}
