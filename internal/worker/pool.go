package worker

import (
	"sync"

	"github.com/baharkarakas/finflow-backend/internal/metrics"
)

type task func()

// Pool runs submitted tasks on a fixed number of goroutines. Queue depth is
// exported through metrics.WorkerQueueDepth.
type Pool struct {
	wg   sync.WaitGroup
	jobs chan task
	once sync.Once
}

func NewPool(n int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{jobs: make(chan task, 1024)}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				metrics.WorkerQueueDepth.Dec()
				job()
			}
		}()
	}
	return p
}

// Submit blocks while the queue is full. It must not be called after Stop.
func (p *Pool) Submit(f func()) {
	metrics.WorkerQueueDepth.Inc()
	p.jobs <- f
}

// Stop drains the queue and waits for running tasks. Safe to call twice.
func (p *Pool) Stop() {
	p.once.Do(func() { close(p.jobs) })
	p.wg.Wait()
}
