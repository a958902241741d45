package vm

import "fmt"

// execOne is the opcode dispatch table: a total transition function over
// Worker for each opcode. It does not own the fetch-dispatch loop or
// advance the program counter past what each case documents - that's
// Worker.Run's job.
func execOne(w *Worker, instr Instruction) error {
	switch instr.Op {
	case OpLoadVal:
		w.push(instr.Arg)
		return nil

	case OpWriteVar:
		v, err := w.pop()
		if err != nil {
			return err
		}
		w.vars[instr.Name] = v
		return nil

	case OpReadVar:
		v, ok := w.vars[instr.Name]
		if !ok {
			return fmt.Errorf("Variable '%s' doesn't exist", instr.Name)
		}
		w.push(v)
		return nil

	case OpAdd:
		a, err := w.pop()
		if err != nil {
			return err
		}
		b, err := w.pop()
		if err != nil {
			return err
		}
		sum, err := CheckedAdd(a, b)
		if err != nil {
			return err
		}
		w.push(sum)
		return nil

	case OpSub:
		rhs, err := w.pop()
		if err != nil {
			return err
		}
		lhs, err := w.pop()
		if err != nil {
			return err
		}
		diff, err := CheckedSub(lhs, rhs)
		if err != nil {
			return err
		}
		w.push(diff)
		return nil

	case OpMultiply:
		a, err := w.pop()
		if err != nil {
			return err
		}
		b, err := w.pop()
		if err != nil {
			return err
		}
		prod, err := CheckedMul(a, b)
		if err != nil {
			return err
		}
		w.push(prod)
		return nil

	case OpReturnValue:
		v, err := w.pop()
		if err != nil {
			return err
		}
		w.setReturn(v)
		return nil

	case OpJump:
		target, err := w.pop()
		if err != nil {
			return err
		}
		w.pc = target
		return nil

	case OpJumpLessThan:
		return condJump(w, func(lhs, rhs Word) bool { return lhs.Less(rhs) })

	case OpJumpGreaterThan:
		return condJump(w, func(lhs, rhs Word) bool { return lhs.Greater(rhs) })

	case OpJumpEqual:
		return condJump(w, func(lhs, rhs Word) bool { return lhs.Equal(rhs) })

	case OpSendChannel:
		return execSend(w)

	case OpRecvChannel:
		return execRecv(w)

	case OpLog:
		v, err := w.pop()
		if err != nil {
			return err
		}
		if w.log != nil {
			fmt.Fprintf(w.log, ">>> %s\n", v)
		}
		return nil

	case OpSpawn:
		return execSpawn(w)

	default:
		return fmt.Errorf("instruction not recognized: %s", instr.Op)
	}
}

// condJump implements the three conditional jumps. The target is
// popped unconditionally even when the branch is not taken; only the
// program counter update is conditional.
func condJump(w *Worker, relation func(lhs, rhs Word) bool) error {
	target, err := w.pop()
	if err != nil {
		return err
	}
	rhs, err := w.pop()
	if err != nil {
		return err
	}
	lhs, err := w.pop()
	if err != nil {
		return err
	}
	if relation(lhs, rhs) {
		w.pc = target
	}
	return nil
}

func execSend(w *Worker) error {
	channelID, err := w.pop()
	if err != nil {
		return err
	}
	data, err := w.pop()
	if err != nil {
		return err
	}
	ch, ok := w.senders[channelID.Uint64()]
	if !ok {
		return errChannelMissing
	}
	ch <- data
	return nil
}

func execRecv(w *Worker) error {
	channelID, err := w.pop()
	if err != nil {
		return err
	}
	ch, ok := w.receivers[channelID.Uint64()]
	if !ok {
		return errChannelMissing
	}
	v, ok := <-ch
	if !ok {
		return errChannelPeerGone
	}
	w.push(v)
	return nil
}
