package vm

import "fmt"

// execSpawn is the one opcode that mutates more than its own worker: it
// allocates two children, wires a channel pair from each child back to
// the spawning worker, and hands both off to their own goroutines.
func execSpawn(w *Worker) error {
	startB, err := w.pop()
	if err != nil {
		return err
	}
	argcB, err := w.pop()
	if err != nil {
		return err
	}
	startA, err := w.pop()
	if err != nil {
		return err
	}
	argcA, err := w.pop()
	if err != nil {
		return err
	}

	bArgs, err := popN(w, argcB.Uint64())
	if err != nil {
		return err
	}
	aArgs, err := popN(w, argcA.Uint64())
	if err != nil {
		return err
	}

	// A is allocated before B.
	idA := w.counter.Add(1) - 1
	idB := w.counter.Add(1) - 1

	chanA := make(chan Word)
	chanB := make(chan Word)

	childA := &Worker{
		id:        idA,
		program:   w.program,
		pc:        startA,
		stack:     aArgs,
		vars:      make(map[string]Word),
		senders:   map[uint64]chan<- Word{w.id: chanA},
		receivers: make(map[uint64]<-chan Word),
		counter:   w.counter,
		trace:     w.trace,
		log:       w.log,
	}
	childB := &Worker{
		id:        idB,
		program:   w.program,
		pc:        startB,
		stack:     bArgs,
		vars:      make(map[string]Word),
		senders:   map[uint64]chan<- Word{w.id: chanB},
		receivers: make(map[uint64]<-chan Word),
		counter:   w.counter,
		trace:     w.trace,
		log:       w.log,
	}

	w.receivers[idA] = chanA
	w.receivers[idB] = chanB

	go runChild(childA)
	go runChild(childB)

	return nil
}

// popN pops n Words off w's stack in order, so the last Word popped
// from the caller ends up last in the returned slice (i.e. on top once
// it becomes the new worker's initial stack).
func popN(w *Worker, n uint64) ([]Word, error) {
	if n > uint64(len(w.stack)) {
		return nil, errStackUnderflow
	}
	vals := make([]Word, 0, n)
	for i := uint64(0); i < n; i++ {
		v, err := w.pop()
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// runChild drives a spawned worker to completion. Its return value is
// not observable by anyone else; a fatal error is reported to the
// shared diagnostic log, since there is no join point to propagate it
// through.
func runChild(w *Worker) {
	if err := w.Run(); err != nil {
		if w.log != nil {
			fmt.Fprintf(w.log, "[worker %d] %s\n", w.id, err)
		}
	}
}
