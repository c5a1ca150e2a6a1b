package worker

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

const DefaultCount = 5

type Call func(ctx context.Context) error

// Pool fans queued calls out to a fixed set of goroutines. Push blocks until
// a worker takes the call; StopWait closes the queue and returns once the
// last queued call has finished. A call's error is logged, never returned:
// the sweep driving the pool treats every call as independent.
type Pool struct {
	count   uint8
	queue   chan Call
	drained chan struct{}
	stopped bool
}

func NewPool(ctx context.Context, count uint8) Pool {
	pool := Pool{
		count:   count,
		queue:   make(chan Call),
		drained: make(chan struct{}),
	}
	pool.start(ctx)

	return pool
}

func (p *Pool) start(ctx context.Context) {
	var wg sync.WaitGroup

	wg.Add(int(p.count))

	for i := 0; i < int(p.count); i++ {
		go func() {
			defer wg.Done()
			p.work(ctx)
		}()
	}

	go func() {
		wg.Wait()
		p.drained <- struct{}{}
	}()
}

func (p *Pool) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Warnf("worker: stopping: %v", ctx.Err())
			return

		case call, ok := <-p.queue:
			if !ok {
				return
			}
			if err := call(ctx); err != nil {
				log.Errorf("worker: call failed: %v", err)
			}
		}
	}
}

func (p *Pool) Push(call Call) {
	p.queue <- call
}

func (p *Pool) StopWait() {
	if p.stopped {
		return
	}
	close(p.queue)

	<-p.drained

	p.stopped = true
}
