package vm

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strconv"
)

// Run drives the fetch-dispatch cycle until the worker's return slot is
// set or a fatal error occurs. On either exit it closes the channels this
// worker owns as a sender, so a parent blocked on RecvChannel observes
// the peer-gone condition instead of deadlocking forever once this
// worker is actually done.
func (w *Worker) Run() error {
	defer func() {
		for _, ch := range w.senders {
			close(ch)
		}
	}()

	for w.ret == nil {
		pos := w.pc.Uint64()
		indexed, ok := w.program.Fetch(pos)
		if !ok {
			return fmt.Errorf("Instruction doesn't exist at %s position", w.pc)
		}

		if w.trace != nil {
			fmt.Fprintf(w.trace, "[worker %d] pc=%d stack=%v %s\n", w.id, pos, w.stack, indexed.Instruction)
		}

		// Advance by one before dispatch; opcodes that jump overwrite
		// this afterward.
		next, err := CheckedAdd(w.pc, NewWord(1))
		if err != nil {
			return wrapLine(indexed.SourceLine, err)
		}
		w.pc = next

		if err := execOne(w, indexed.Instruction); err != nil {
			return wrapLine(indexed.SourceLine, err)
		}
	}
	return nil
}

// Interpret loads and runs a complete program text as the root worker
// (identity 0) and returns its result. The garbage collector is disabled
// for the duration of the tight fetch-dispatch loop, since function
// calls and allocations are comparatively expensive there.
func Interpret(source string, opts ...Option) (Word, error) {
	program, errs := Load(source)
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return Word{}, fmt.Errorf("%d parse error(s):\n%s", len(errs), joinLines(msgs))
	}

	root := NewRootWorker(program, os.Stdout)
	for _, opt := range opts {
		opt(root)
	}

	restoreGC := disableGC()
	defer restoreGC()

	if err := root.Run(); err != nil {
		return Word{}, err
	}

	v, _ := root.ReturnValue()
	return v, nil
}

// Option configures the root worker before it starts running.
type Option func(*Worker)

// WithLog directs the LOG opcode's output and spawned workers'
// unobserved-error reports to w instead of os.Stdout.
func WithLog(w io.Writer) Option {
	return func(root *Worker) { root.log = w }
}

// WithTrace turns on the interpreter's internal per-instruction trace
// sink: one line per cycle naming the worker, program counter, stack,
// and decoded instruction. Not part of the program-visible contract -
// purely a diagnostic aid, off by default.
func WithTrace(w io.Writer) Option {
	return func(root *Worker) { root.trace = w }
}

func disableGC() func() {
	key, ok := os.LookupEnv("GOGC")
	if !ok {
		key = "100"
	}
	gcPercent, err := strconv.ParseInt(key, 10, 32)
	if err != nil {
		gcPercent = 100
	}
	debug.SetGCPercent(-1)
	return func() { debug.SetGCPercent(int(gcPercent)) }
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
