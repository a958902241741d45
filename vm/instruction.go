package vm

import "fmt"

// Instruction is a tagged variant over Op. Arg carries the immediate
// Word operand for LOAD_VAL; Name carries the variable identifier for
// WRITE_VAR/READ_VAR. Every other opcode carries no payload.
type Instruction struct {
	Op   Op
	Arg  Word
	Name string
}

func (i Instruction) String() string {
	switch i.Op {
	case OpLoadVal:
		return fmt.Sprintf("%s %s", i.Op, i.Arg)
	case OpWriteVar, OpReadVar:
		return fmt.Sprintf("%s %s", i.Op, i.Name)
	default:
		return i.Op.String()
	}
}

// IndexedInstruction pairs a decoded Instruction with the 0-based
// source-line index it came from. The index exists only for
// diagnostics; execution addresses positions in the decoded sequence,
// which is the index of an IndexedInstruction within a Program.
type IndexedInstruction struct {
	Instruction Instruction
	SourceLine  int
}

// Program is an ordered, immutable sequence of decoded instructions,
// shared by every worker spawned from it.
type Program struct {
	instructions []IndexedInstruction
}

// Len returns the number of decoded instructions.
func (p *Program) Len() int {
	return len(p.instructions)
}

// Fetch returns the indexed instruction at decoded position pos, or
// false if pos is out of range.
func (p *Program) Fetch(pos uint64) (IndexedInstruction, bool) {
	if pos >= uint64(len(p.instructions)) {
		return IndexedInstruction{}, false
	}
	return p.instructions[pos], true
}
