package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
)

var ErrQueueFull = errors.New("worker queue full")

type Task = func(ctx context.Context) error

// Pool runs fire-and-forget tasks on a fixed number of goroutines. Submit never
// blocks: a saturated queue rejects the task.
type Pool struct {
	wg       sync.WaitGroup
	jobs     chan namedTask
	quit     chan struct{}
	stopOnce sync.Once
	n        int
	log      *zerolog.Logger
}

type namedTask struct {
	name string
	run  Task
}

func NewPool(workers int, logger *zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "WorkerPool").Logger()
	return &Pool{
		jobs: make(chan namedTask, workers*4),
		quit: make(chan struct{}),
		n:    workers,
		log:  &l,
	}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-p.quit:
					return
				case t := <-p.jobs:
					p.run(ctx, id, t)
				}
			}
		}(i)
	}
}

func (p *Pool) run(ctx context.Context, id int, t namedTask) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Int("worker", id).Str("task", t.name).Interface("panic", r).Msg("task panicked")
		}
	}()
	if err := t.run(ctx); err != nil {
		p.log.Warn().Err(err).Int("worker", id).Str("task", t.name).Msg("task failed")
		return
	}
	p.log.Debug().Int("worker", id).Str("task", t.name).Msg("task done")
}

// Stop signals workers to exit and waits for in-flight tasks. Queued tasks
// that have not started are dropped.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.quit) })
	p.wg.Wait()
}

func (p *Pool) Submit(name string, task Task) error {
	if task == nil {
		return errors.New("nil task")
	}
	select {
	case <-p.quit:
		return errors.New("worker pool stopped")
	default:
	}
	select {
	case p.jobs <- namedTask{name: name, run: task}:
		return nil
	default:
		return ErrQueueFull
	}
}
