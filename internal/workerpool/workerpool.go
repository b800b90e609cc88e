// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package workerpool supplies the goroutines that run pipeline workers.
// Workers are sharded to reduce contention, reused while idle and bounded
// by a maximum; tasks submitted while every worker is busy wait in an
// overflow queue drained by the workers as they finish.
package workerpool

import (
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/tochemey/disruptor/internal/queue"
	"github.com/tochemey/disruptor/internal/ticker"
)

const (
	maxShards = 128

	workerIdle    int32 = 0
	workerWorking int32 = 1
	workerClosed  int32 = 2
)

// WorkerPool manages a bounded set of reusable goroutines.
type WorkerPool struct {
	passivateAfter time.Duration
	numShards      int
	maxWorkers     int
	shards         []*poolShard
	overflow       *queue.Linked[func()]

	mutex          sync.RWMutex
	started        atomic.Bool
	stopped        atomic.Bool
	spawnedWorkers atomic.Int64

	cleaner *ticker.Ticker
	done    chan struct{}
	wg      sync.WaitGroup
}

type worker struct {
	workChan chan func()
	shard    *poolShard
	lastUsed atomic.Int64
	state    atomic.Int32
}

type poolShard struct {
	wp          *WorkerPool
	idleWorker1 atomic.Pointer[worker]
	idleWorker2 atomic.Pointer[worker]
	idleWorkers []*worker
	mu          sync.Mutex
}

// New creates a new worker pool with the given options.
func New(opts ...Option) *WorkerPool {
	wp := &WorkerPool{
		passivateAfter: time.Second,
		numShards:      1,
		overflow:       queue.NewLinked[func()](),
	}

	for _, opt := range opts {
		opt.Apply(wp)
	}

	wp.numShards = min(max(wp.numShards, 1), maxShards)
	if wp.maxWorkers < 0 {
		wp.maxWorkers = 0
	}
	return wp
}

// GetSpawnedWorkers returns the current count of live workers.
func (wp *WorkerPool) GetSpawnedWorkers() int {
	return int(wp.spawnedWorkers.Load())
}

// MaxWorkers returns the bound on live workers, zero when unbounded
func (wp *WorkerPool) MaxWorkers() int {
	return wp.maxWorkers
}

// Pending returns the number of tasks waiting for a free worker
func (wp *WorkerPool) Pending() int {
	return int(wp.overflow.Len())
}

// Start initializes the worker pool and begins the passivation routine.
// It's safe to call Start multiple times.
func (wp *WorkerPool) Start() {
	wp.mutex.Lock()
	defer wp.mutex.Unlock()
	if wp.started.Load() {
		return
	}

	wp.shards = make([]*poolShard, wp.numShards)
	for i := range wp.shards {
		wp.shards[i] = &poolShard{wp: wp, idleWorkers: make([]*worker, 0, 64)}
	}

	wp.cleaner = ticker.New(wp.passivateAfter)
	wp.done = make(chan struct{})
	wp.cleaner.Start()
	wp.wg.Add(1)
	go wp.cleanup()

	wp.started.Store(true)
}

// Stop shuts the pool down. Idle workers exit immediately and busy ones
// exit once their current task returns. Queued tasks are dropped.
func (wp *WorkerPool) Stop() {
	wp.mutex.Lock()
	if !wp.started.Load() || wp.stopped.Swap(true) {
		wp.mutex.Unlock()
		return
	}
	close(wp.done)
	wp.mutex.Unlock()

	wp.wg.Wait()
	wp.cleaner.Stop()

	for _, shard := range wp.shards {
		for _, w := range shard.drainIdle() {
			w.close()
		}
	}
	for {
		if _, ok := wp.overflow.Pop(); !ok {
			break
		}
	}
}

// SubmitWork hands task to a worker. It never blocks: when every worker is
// busy and the bound is reached, the task waits in the overflow queue.
// It returns false when the pool is not running.
func (wp *WorkerPool) SubmitWork(task func()) bool {
	wp.mutex.RLock()
	if !wp.started.Load() || wp.stopped.Load() {
		wp.mutex.RUnlock()
		return false
	}
	wp.mutex.RUnlock()

	shard := wp.shards[rand.IntN(wp.numShards)]
	if w := shard.acquireIdle(); w != nil {
		w.workChan <- task
		return true
	}

	if wp.reserveWorker() {
		w := &worker{workChan: make(chan func()), shard: shard}
		w.state.Store(workerWorking)
		go w.run()
		w.workChan <- task
		return true
	}

	wp.overflow.Push(task)
	wp.kick()
	return true
}

func (wp *WorkerPool) reserveWorker() bool {
	for {
		spawned := wp.spawnedWorkers.Load()
		if wp.maxWorkers > 0 && spawned >= int64(wp.maxWorkers) {
			return false
		}
		if wp.spawnedWorkers.CompareAndSwap(spawned, spawned+1) {
			return true
		}
	}
}

// kick wakes one idle worker so it drains the overflow queue.
func (wp *WorkerPool) kick() {
	for _, shard := range wp.shards {
		if w := shard.acquireIdle(); w != nil {
			w.workChan <- func() {}
			return
		}
	}
}

func (w *worker) run() {
	shard := w.shard
	wp := shard.wp
	defer wp.spawnedWorkers.Dec()

	for task := range w.workChan {
		task()
		for {
			next, ok := wp.overflow.Pop()
			if !ok {
				break
			}
			next()
		}

		if !shard.setIdle(w) {
			return
		}

		// a task may have been queued while this worker was going idle
		if !wp.overflow.IsEmpty() {
			wp.kick()
		}
	}
}

func (w *worker) close() {
	if w.state.CompareAndSwap(workerIdle, workerClosed) {
		close(w.workChan)
	}
}

func (shard *poolShard) acquireIdle() *worker {
	for _, slot := range []*atomic.Pointer[worker]{&shard.idleWorker1, &shard.idleWorker2} {
		if w := slot.Swap(nil); w != nil {
			if w.state.CompareAndSwap(workerIdle, workerWorking) {
				return w
			}
		}
	}

	shard.mu.Lock()
	defer shard.mu.Unlock()
	for len(shard.idleWorkers) > 0 {
		last := len(shard.idleWorkers) - 1
		w := shard.idleWorkers[last]
		shard.idleWorkers[last] = nil
		shard.idleWorkers = shard.idleWorkers[:last]
		if w.state.CompareAndSwap(workerIdle, workerWorking) {
			return w
		}
	}
	return nil
}

// setIdle parks the worker. It returns false when the pool is stopping.
func (shard *poolShard) setIdle(w *worker) bool {
	if shard.wp.stopped.Load() {
		return false
	}

	w.lastUsed.Store(time.Now().UnixNano())
	w.state.Store(workerIdle)

	if shard.idleWorker1.CompareAndSwap(nil, w) || shard.idleWorker2.CompareAndSwap(nil, w) {
		return shard.stillRunning(w)
	}

	shard.mu.Lock()
	shard.idleWorkers = append(shard.idleWorkers, w)
	shard.mu.Unlock()
	return shard.stillRunning(w)
}

// stillRunning handles a Stop racing with setIdle: the worker reclaims
// itself and exits.
func (shard *poolShard) stillRunning(w *worker) bool {
	if !shard.wp.stopped.Load() {
		return true
	}
	return !w.state.CompareAndSwap(workerIdle, workerClosed)
}

func (shard *poolShard) drainIdle() []*worker {
	var workers []*worker
	for _, slot := range []*atomic.Pointer[worker]{&shard.idleWorker1, &shard.idleWorker2} {
		if w := slot.Swap(nil); w != nil {
			workers = append(workers, w)
		}
	}
	shard.mu.Lock()
	workers = append(workers, shard.idleWorkers...)
	clear(shard.idleWorkers)
	shard.idleWorkers = shard.idleWorkers[:0]
	shard.mu.Unlock()
	return workers
}

// cleanup closes the workers idle for longer than passivateAfter.
func (wp *WorkerPool) cleanup() {
	defer wp.wg.Done()
	for {
		select {
		case <-wp.done:
			return
		case <-wp.cleaner.Ticks:
		}

		cutoff := time.Now().Add(-wp.passivateAfter).UnixNano()
		for _, shard := range wp.shards {
			for _, slot := range []*atomic.Pointer[worker]{&shard.idleWorker1, &shard.idleWorker2} {
				if w := slot.Load(); w != nil && w.lastUsed.Load() < cutoff && slot.CompareAndSwap(w, nil) {
					w.close()
				}
			}

			shard.mu.Lock()
			kept := shard.idleWorkers[:0]
			var expired []*worker
			for _, w := range shard.idleWorkers {
				if w.lastUsed.Load() < cutoff {
					expired = append(expired, w)
					continue
				}
				kept = append(kept, w)
			}
			clear(shard.idleWorkers[len(kept):])
			shard.idleWorkers = kept
			shard.mu.Unlock()

			for _, w := range expired {
				w.close()
			}
		}
	}
}
