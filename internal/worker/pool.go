package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/secretary/internal/common"
)

// Task is one unit of work for a key
type Task func(ctx context.Context)

// KeyedPool runs tasks of the same key strictly in submission order while
// distinct keys proceed concurrently. A key's goroutine exits once its queue
// drains and is started again by the next Submit.
type KeyedPool struct {
	logger  arbor.ILogger
	name    string
	mu      sync.Mutex
	queues  map[int64][]Task // a present key has a running worker
	stopped bool
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewKeyedPool creates a pool. name prefixes worker goroutine names in logs.
func NewKeyedPool(name string, logger arbor.ILogger) *KeyedPool {
	ctx, cancel := context.WithCancel(context.Background())

	return &KeyedPool{
		logger: logger,
		name:   name,
		queues: make(map[int64][]Task),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Submit queues task behind earlier tasks of key. It returns false once the
// pool is stopped.
func (p *KeyedPool) Submit(key int64, task Task) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return false
	}

	pending, running := p.queues[key]
	p.queues[key] = append(pending, task)

	if !running {
		p.wg.Add(1)
		common.SafeGo(p.logger, fmt.Sprintf("%s-%d", p.name, key), func() {
			p.drain(key)
		})
	}
	return true
}

// Active returns the number of keys with a running worker
func (p *KeyedPool) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queues)
}

// Stop drops queued tasks, cancels the context of running ones and waits
// for every worker to return.
func (p *KeyedPool) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	p.logger.Info().Str("pool", p.name).Msg("Stopping worker pool...")
	p.cancel()
	p.wg.Wait()
	p.logger.Info().Str("pool", p.name).Msg("Worker pool stopped")
}

func (p *KeyedPool) drain(key int64) {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		pending := p.queues[key]
		if len(pending) == 0 || p.ctx.Err() != nil {
			if dropped := len(pending); dropped > 0 {
				p.logger.Warn().
					Int64("key", key).
					Int("dropped", dropped).
					Msg("Worker pool stopped with queued tasks")
			}
			delete(p.queues, key)
			p.mu.Unlock()
			return
		}
		task := pending[0]
		p.queues[key] = pending[1:]
		p.mu.Unlock()

		p.run(key, task)
	}
}

// run executes one task. A panic is logged and the key's queue keeps going.
func (p *KeyedPool) run(key int64, task Task) {
	defer common.RecoverPanic(p.logger, fmt.Sprintf("%s-%d", p.name, key))
	task(p.ctx)
}
