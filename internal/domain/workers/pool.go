package workers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/filecore/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/filecore/internal/logging"
	"github.com/GriffinCanCode/filecore/internal/shared/id"
	"github.com/GriffinCanCode/filecore/internal/shared/paths"
	"github.com/GriffinCanCode/filecore/internal/shared/types"
)

// DefaultSearchBuffer is the Found backlog a search keeps before blocking
const DefaultSearchBuffer = 64

// Options configures a Pool
type Options struct {
	SearchBuffer int
	WalkWorkers  int
	CasePolicy   paths.CasePolicy
	Logger       *logging.Logger
	Metrics      *monitoring.Metrics
}

// Pool owns a session's background jobs
type Pool struct {
	opts    Options
	log     *logging.Logger
	metrics *monitoring.Metrics

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	jobs   map[id.JobID]*Job
	scan   *Job // Latest size scan, protected by mu
	closed bool
}

// NewPool creates an empty pool
func NewPool(opts Options) *Pool {
	if opts.SearchBuffer <= 0 {
		opts.SearchBuffer = DefaultSearchBuffer
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		opts:    opts,
		log:     opts.Logger.Named("workers"),
		metrics: opts.Metrics,
		ctx:     ctx,
		cancel:  cancel,
		jobs:    make(map[id.JobID]*Job),
	}
}

// StartSizeScan totals the bytes under target, cancelling any size scan
// already running in this pool.
func (p *Pool) StartSizeScan(target paths.Path) *Job {
	job := newJob(p.ctx, KindSizeScan, target, "", 1)

	p.mu.Lock()
	previous := p.scan
	p.scan = job
	p.mu.Unlock()

	if previous != nil {
		previous.Cancel()
	}

	p.launch(job, func(ctx context.Context) {
		bytes, err := sizeOf(ctx, target, p.opts.WalkWorkers)
		ev := job.finish(Completed{Bytes: bytes}, err, true)
		if c, ok := ev.(Completed); ok && p.metrics != nil {
			p.metrics.AddScannedBytes(c.Bytes)
		}
	})
	return job
}

// StartNameSearch streams every directory named exactly query and every
// other entry whose name starts with query, below root. At the pseudo-root
// every volume is searched.
func (p *Pool) StartNameSearch(query string, root paths.Path) *Job {
	job := newJob(p.ctx, KindNameSearch, root, query, p.opts.SearchBuffer)

	p.launch(job, func(ctx context.Context) {
		err := p.search(ctx, job, query, root)
		job.finish(Finished{}, err, false)
	})
	return job
}

func (p *Pool) launch(job *Job, run func(ctx context.Context)) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		job.Cancel()
		job.finish(nil, nil, true)
		close(job.done)
		return
	}
	p.jobs[job.id] = job
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		defer close(job.done)
		defer job.cancel()

		job.setRunning()
		if p.metrics != nil {
			p.metrics.JobStarted(string(job.kind))
		}
		start := time.Now()
		p.log.Info("job started",
			zap.String("job_id", job.id.String()),
			zap.String("kind", string(job.kind)),
			zap.String("target", job.target.String()))

		run(job.ctx)

		state := job.State()
		if p.metrics != nil {
			p.metrics.JobFinished(string(job.kind), string(state))
		}
		p.log.Info("job finished",
			zap.String("job_id", job.id.String()),
			zap.String("state", string(state)),
			zap.Duration("duration", time.Since(start)))
	}()
}

// Get returns a job started by this pool
func (p *Pool) Get(jobID id.JobID) (*Job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	job, ok := p.jobs[jobID]
	return job, ok
}

// Jobs returns every tracked job in start order
func (p *Pool) Jobs() []*Job {
	p.mu.Lock()
	jobs := make([]*Job, 0, len(p.jobs))
	for _, j := range p.jobs {
		jobs = append(jobs, j)
	}
	p.mu.Unlock()

	sort.Slice(jobs, func(i, k int) bool { return jobs[i].id < jobs[k].id })
	return jobs
}

// Cancel cancels a job by ID
func (p *Pool) Cancel(jobID id.JobID) error {
	job, ok := p.Get(jobID)
	if !ok {
		return fmt.Errorf("%w: job %s", types.ErrNotFound, jobID)
	}
	job.Cancel()
	return nil
}

// Forget drops a finished job from the pool
func (p *Pool) Forget(jobID id.JobID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if job, ok := p.jobs[jobID]; ok && job.State().IsTerminal() {
		delete(p.jobs, jobID)
	}
}

// Close cancels every job, discards unread events and waits for the
// goroutines to exit. Jobs started afterwards are cancelled immediately.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	jobs := make([]*Job, 0, len(p.jobs))
	for _, j := range p.jobs {
		jobs = append(jobs, j)
	}
	p.mu.Unlock()

	p.cancel()
	for _, j := range jobs {
		j.Discard()
	}
	p.wg.Wait()
}
