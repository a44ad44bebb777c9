package engine

import (
	"runtime"
	"sync"
)

// WorkerPool runs detector jobs on a bounded set of goroutines. Pools are
// created per analysis call and closed once the suite has joined; no worker
// state survives between calls.
type WorkerPool struct {
	workers  int
	jobQueue chan func()
	wg       sync.WaitGroup
	started  sync.Once
	stopped  sync.Once
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// Non-positive worker counts default to the CPU count.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &WorkerPool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Start launches the workers. Safe to call more than once.
func (wp *WorkerPool) Start() {
	wp.started.Do(func() {
		for i := 0; i < wp.workers; i++ {
			go wp.worker()
		}
	})
}

func (wp *WorkerPool) worker() {
	for job := range wp.jobQueue {
		job()
		wp.wg.Done()
	}
}

// Submit queues a job, blocking if the queue is full.
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.jobQueue <- job
}

// Wait blocks until every submitted job has completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Close shuts down the pool. Safe to call more than once; pending jobs are
// drained before the workers exit.
func (wp *WorkerPool) Close() {
	wp.stopped.Do(func() {
		close(wp.jobQueue)
	})
}
