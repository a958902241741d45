package vm

import (
	"io"
	"sync/atomic"
)

// Worker is one interpreter instance: its own program counter,
// evaluation stack, variable store, return slot, and channel endpoints.
// It is mutated exclusively by its own fetch-dispatch loop (Run); no
// field here is ever touched by another goroutine once the worker has
// started, except through the synchronous channels in senders/
// receivers, which is the only sanctioned cross-worker data path.
type Worker struct {
	id      uint64
	program *Program

	pc    Word
	stack []Word
	vars  map[string]Word
	ret   *Word

	senders   map[uint64]chan<- Word
	receivers map[uint64]<-chan Word

	counter *atomic.Uint64

	trace io.Writer
	log   io.Writer
}

// NewRootWorker builds worker 0, the one the Loader hands off to. Its
// shared counter starts at 1 so the first child SPAWN allocates id 1.
func NewRootWorker(program *Program, log io.Writer) *Worker {
	counter := &atomic.Uint64{}
	counter.Store(1)
	return &Worker{
		id:        0,
		program:   program,
		pc:        ZeroWord,
		stack:     make([]Word, 0, 16),
		vars:      make(map[string]Word),
		senders:   make(map[uint64]chan<- Word),
		receivers: make(map[uint64]<-chan Word),
		counter:   counter,
		log:       log,
	}
}

// ID returns the worker's identity (0 for the root).
func (w *Worker) ID() uint64 {
	return w.id
}

// ReturnValue reports the worker's return value, if it has set one.
func (w *Worker) ReturnValue() (Word, bool) {
	if w.ret == nil {
		return Word{}, false
	}
	return *w.ret, true
}

func (w *Worker) push(v Word) {
	w.stack = append(w.stack, v)
}

func (w *Worker) pop() (Word, error) {
	if len(w.stack) == 0 {
		return Word{}, errStackUnderflow
	}
	top := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	return top, nil
}

func (w *Worker) setReturn(v Word) {
	ret := v
	w.ret = &ret
}
