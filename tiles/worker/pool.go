package worker

import (
	"context"
	"time"
)

// Task is one unit of background work. Work must honor ctx.
type Task struct {
	Ctx  context.Context
	Work func(ctx context.Context) error
}

// Pool runs tasks on a bounded set of workers. Tile loads go through it
// so a fast pan can't spawn an unbounded stampede of requests.
type Pool struct {
	tasks chan Task
	quit  chan struct{}
}

const taskTimeout = 10 * time.Second

func NewPool(maxWorkers int) *Pool {
	p := &Pool{
		tasks: make(chan Task, 256),
		quit:  make(chan struct{}),
	}
	for i := 0; i < maxWorkers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for {
		select {
		case <-p.quit:
			return
		case task := <-p.tasks:
			ctx := task.Ctx
			if ctx == nil {
				ctx = context.Background()
			}
			select {
			case <-ctx.Done():
				continue // abandoned before it started
			default:
			}
			ctx, cancel := context.WithTimeout(ctx, taskTimeout)
			_ = task.Work(ctx)
			cancel()
		}
	}
}

// Submit queues a task. Returns false when the queue is full or the pool
// is shut down; callers are expected to resubmit on a later frame.
func (p *Pool) Submit(task Task) bool {
	select {
	case p.tasks <- task:
		return true
	case <-p.quit:
		return false
	default:
		return false
	}
}

func (p *Pool) Shutdown() {
	close(p.quit)
}
