package async

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Task func(ctx context.Context)

// WorkerPool runs tasks on a fixed set of goroutines. Tasks get a context
// derived from the pool's, bounded by TaskTimeout when it is non-zero.
type WorkerPool struct {
	tasks   chan Task
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	log     *zap.Logger

	// mu orders Submit against Shutdown so no task lands in the buffer
	// after the final drain
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

type PoolOption func(*WorkerPool)

func WithTaskTimeout(d time.Duration) PoolOption {
	return func(p *WorkerPool) { p.timeout = d }
}

func NewWorkerPool(parent context.Context, size int, log *zap.Logger, opts ...PoolOption) *WorkerPool {
	if size < 1 {
		size = 1
	}
	ctx, cancel := context.WithCancel(parent)
	p := &WorkerPool{
		tasks:  make(chan Task, size),
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}
	for _, opt := range opts {
		opt(p)
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			p.run(id, task)
		}
	}
}

func (p *WorkerPool) run(id int, task Task) {
	ctx, cancel := p.ctx, context.CancelFunc(func() {})
	if p.timeout > 0 {
		ctx, cancel = context.WithTimeout(p.ctx, p.timeout)
	}
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			p.log.Error("task panicked", zap.Int("worker", id), zap.Any("panic", r))
		}
	}()
	task(ctx)
}

// Submit blocks until the task is queued or the pool is shut down. It reports
// whether the task was accepted; an accepted task always runs, with a
// cancelled context if the pool shuts down first.
func (p *WorkerPool) Submit(task Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed || p.ctx.Err() != nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		return false
	case p.tasks <- task:
		return true
	}
}

// TrySubmit queues the task only if a slot is free right now.
func (p *WorkerPool) TrySubmit(task Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed || p.ctx.Err() != nil {
		return false
	}
	select {
	case p.tasks <- task:
		return true
	default:
		return false
	}
}

func (p *WorkerPool) Shutdown() {
	p.closeOnce.Do(func() {
		p.cancel()

		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()

		p.wg.Wait()
		for {
			select {
			case task := <-p.tasks:
				p.run(-1, task)
			default:
				return
			}
		}
	})
}
