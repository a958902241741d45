package vm

import (
	"fmt"
	"strings"
)

// tokenStream is a small pull-based token reader: operand parsing pulls
// tokens one at a time and errors on running out early, and expectEnd
// additionally rejects trailing tokens an instruction's grammar doesn't
// call for.
type tokenStream struct {
	toks []string
	pos  int
}

func newTokenStream(fields []string) *tokenStream {
	return &tokenStream{toks: fields}
}

func (ts *tokenStream) next() (string, bool) {
	if ts.pos >= len(ts.toks) {
		return "", false
	}
	tok := ts.toks[ts.pos]
	ts.pos++
	return tok, true
}

func (ts *tokenStream) expectEnd() error {
	if ts.pos < len(ts.toks) {
		return fmt.Errorf("unexpected operand: %s", strings.Join(ts.toks[ts.pos:], " "))
	}
	return nil
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r <= ' ' || r == 0x7f {
			return false
		}
	}
	return true
}

// rawLine is one retained (non-comment, non-blank) source line together
// with the source-line index it came from, before it has been turned
// into an Instruction.
type rawLine struct {
	sourceLine int
	fields     []string
}

// Load parses a complete program text into a Program. Every malformed
// line is collected into the returned error slice; the loader never
// returns a partial program alongside errors - it accumulates every
// parse error before returning rather than stopping at the first one.
func Load(source string) (*Program, []error) {
	lines := strings.Split(source, "\n")

	raw := make([]rawLine, 0, len(lines))
	for i, line := range lines {
		if strings.HasPrefix(line, "//") || line == "" {
			continue
		}
		raw = append(raw, rawLine{sourceLine: i, fields: strings.Fields(line)})
	}

	var errs []error
	instrs := make([]IndexedInstruction, 0, len(raw))
	for _, rl := range raw {
		instr, err := parseLine(rl.fields)
		if err != nil {
			errs = append(errs, ParseError{Line: rl.sourceLine, Reason: err.Error()})
			continue
		}
		instrs = append(instrs, IndexedInstruction{Instruction: instr, SourceLine: rl.sourceLine})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &Program{instructions: instrs}, nil
}

func parseLine(fields []string) (Instruction, error) {
	if len(fields) == 0 {
		return Instruction{}, fmt.Errorf("empty instruction")
	}

	mnemonic := fields[0]
	op, ok := mnemonicToOp[mnemonic]
	if !ok {
		return Instruction{}, fmt.Errorf("unknown mnemonic: %s", mnemonic)
	}

	ts := newTokenStream(fields[1:])

	switch op {
	case OpLoadVal:
		tok, ok := ts.next()
		if !ok {
			return Instruction{}, fmt.Errorf("%s requires a word literal operand", op)
		}
		arg, err := ParseWord(tok)
		if err != nil {
			return Instruction{}, err
		}
		if err := ts.expectEnd(); err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Arg: arg}, nil

	case OpWriteVar, OpReadVar:
		tok, ok := ts.next()
		if !ok {
			return Instruction{}, fmt.Errorf("%s requires an identifier operand", op)
		}
		if !isIdentifier(tok) {
			return Instruction{}, fmt.Errorf("%q is not a valid identifier", tok)
		}
		if err := ts.expectEnd(); err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Name: tok}, nil

	default:
		if err := ts.expectEnd(); err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op}, nil
	}
}
