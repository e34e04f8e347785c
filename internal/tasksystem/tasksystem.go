// Package tasksystem is a bounded worker pool that never aborts early: one
// task panicking or returning an error is logged and the rest keep running,
// matching original_source/src/orc.cpp's work_counter/do_work pair. See
// DESIGN.md for why this is not built on golang.org/x/sync/errgroup.
package tasksystem

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/apex/log"
)

// System is a fixed-size worker pool fed by a queue buffered to four tasks
// per worker. Submit blocks the caller while that queue is full; Wait blocks
// until every submitted task has returned, panicked, or errored.
//
// A zero System is not usable; construct one with New.
type System struct {
	tasks chan func() error
	wg    sync.WaitGroup

	serialMu sync.Mutex // orders the "print queue" below the task workers
}

// New starts a pool of workers sized to runtime.GOMAXPROCS(0), matching
// orc.cpp's stlab::default_executor sizing (one worker per hardware
// thread). Pass a positive workers to override.
func New(workers int) *System {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	s := &System{tasks: make(chan func() error, workers*4)}
	for i := 0; i < workers; i++ {
		go s.loop()
	}
	return s
}

func (s *System) loop() {
	for f := range s.tasks {
		s.run(f)
	}
}

func (s *System) run(f func() error) {
	defer s.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("task panicked: %v", r)
		}
	}()

	if err := f(); err != nil {
		log.WithError(err).Error("task failed")
	}
}

// Submit enqueues f to run on a worker. f's error return is logged, not
// propagated — matching do_work's "a task that terminates abnormally logs
// and does not stop the others" contract.
func (s *System) Submit(f func() error) {
	s.wg.Add(1)
	s.tasks <- f
}

// Wait blocks until every task submitted so far has completed. Matches
// work_counter::wait.
func (s *System) Wait() {
	s.wg.Wait()
}

// Close shuts the pool's workers down. Call only after Wait returns and no
// further Submit calls will be made.
func (s *System) Close() {
	close(s.tasks)
}

// PrintSafe serializes writes to fmt.Print-family output across goroutines,
// matching orc.cpp's cout_safe/cerr_safe (a single mutex guarding an
// ostream), so concurrent callers never interleave output.
func (s *System) PrintSafe(f func()) {
	s.serialMu.Lock()
	defer s.serialMu.Unlock()
	f()
}

// Sprint is a convenience wrapper that serializes printing a pre-built
// string, matching a common cout_safe([&](auto& s){ s << ...; }) call site.
func (s *System) Sprint(format string, args ...any) {
	s.PrintSafe(func() {
		fmt.Print(fmt.Sprintf(format, args...))
	})
}
