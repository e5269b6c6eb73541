package linkmeta

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/links/internal/logger"
)

const (
	// DefaultWorkers is the number of concurrent fetches.
	DefaultWorkers = 4
	// DefaultQueueSize is the number of fetches allowed to wait for a worker.
	DefaultQueueSize = 64
)

// Doer fetches the Detail of a URL. *Fetcher implements it.
type Doer interface {
	Fetch(ctx context.Context, rawURL string) (*Detail, error)
}

// Result is delivered once per submitted fetch.
type Result struct {
	Detail *Detail
	Err    error
}

type job struct {
	ctx context.Context
	url string
	out chan Result
}

// Pool runs fetches on its own goroutines so that slow remote hosts only ever
// hold pool workers, never request-serving goroutines.
type Pool struct {
	fetcher Doer
	workers int
	jobs    chan job
	logger  logger.Logger
	stopCh  chan struct{}
	stop    sync.Once
	wg      sync.WaitGroup
}

// NewPool creates a pool. Non-positive sizes select the defaults.
func NewPool(fetcher Doer, workers, queueSize int, log logger.Logger) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Pool{
		fetcher: fetcher,
		workers: workers,
		jobs:    make(chan job, queueSize),
		logger:  log,
		stopCh:  make(chan struct{}),
	}
}

// Start launches the workers. They run until Stop, so queued fetches are
// still served while the HTTP server drains.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.work()
		}()
	}
	p.logger.Info("link detail pool started",
		logger.Int("workers", p.workers),
		logger.Int("queue", cap(p.jobs)))
}

// Stop stops the workers and waits for in-flight fetches to return.
// Jobs still queued are answered with ErrStopped.
func (p *Pool) Stop() {
	p.stop.Do(func() { close(p.stopCh) })
	p.wg.Wait()

	for {
		select {
		case j := <-p.jobs:
			j.out <- Result{Err: ErrStopped}
		default:
			return
		}
	}
}

// Submit validates rawURL and queues its fetch. The returned channel receives
// exactly one Result. Invalid URLs fail here, before any I/O.
func (p *Pool) Submit(ctx context.Context, rawURL string) (<-chan Result, error) {
	if _, err := ParseTarget(rawURL); err != nil {
		return nil, err
	}
	select {
	case <-p.stopCh:
		return nil, ErrStopped
	default:
	}

	j := job{ctx: ctx, url: rawURL, out: make(chan Result, 1)}
	select {
	case p.jobs <- j:
		return j.out, nil
	default:
		return nil, ErrBusy
	}
}

// Fetch submits rawURL and waits for its result or for ctx to be done.
// A fetch abandoned by its caller is cancelled through the same ctx.
func (p *Pool) Fetch(ctx context.Context, rawURL string) (*Detail, error) {
	out, err := p.Submit(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	select {
	case res := <-out:
		return res.Detail, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Pool) work() {
	for {
		select {
		case <-p.stopCh:
			return
		case j := <-p.jobs:
			p.run(j)
		}
	}
}

func (p *Pool) run(j job) {
	if err := j.ctx.Err(); err != nil {
		p.logger.Debug("skipping abandoned link detail fetch", logger.String("url", j.url))
		j.out <- Result{Err: err}
		return
	}

	start := time.Now()
	detail, err := p.fetcher.Fetch(j.ctx, j.url)
	if err != nil {
		p.logger.Debug("link detail fetch failed",
			logger.String("url", j.url),
			logger.Duration("duration", time.Since(start)),
			logger.Error(err))
	} else {
		p.logger.Debug("link detail fetched",
			logger.String("url", j.url),
			logger.Duration("duration", time.Since(start)))
	}
	j.out <- Result{Detail: detail, Err: err}
}
