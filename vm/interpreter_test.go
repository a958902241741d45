package vm

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func program(lines ...string) string {
	return strings.Join(lines, "\n")
}

// Basic arithmetic with variable bindings.
func TestArithmeticScenario(t *testing.T) {
	src := program(
		"LOAD_VAL 1",
		"WRITE_VAR x",
		"LOAD_VAL 2",
		"WRITE_VAR y",
		"READ_VAR x",
		"LOAD_VAL 1",
		"ADD",
		"READ_VAR y",
		"MULTIPLY",
		"RETURN_VALUE",
	)
	result, err := Interpret(src)
	require.NoError(t, err)
	require.Equal(t, "4", result.String())
}

// Larger expression: x=1,y=2,z=56, w=z+x+y=59, returns
// (w+33) + ((x+1)*y*z) = 316.
func TestLargerExpressionScenario(t *testing.T) {
	src := program(
		"LOAD_VAL 1",
		"WRITE_VAR x",
		"LOAD_VAL 2",
		"WRITE_VAR y",
		"LOAD_VAL 56",
		"WRITE_VAR z",
		"READ_VAR z",
		"READ_VAR x",
		"ADD",
		"READ_VAR y",
		"ADD",
		"WRITE_VAR w",
		"READ_VAR w",
		"LOAD_VAL 33",
		"ADD",
		"READ_VAR x",
		"LOAD_VAL 1",
		"ADD",
		"READ_VAR y",
		"MULTIPLY",
		"READ_VAR z",
		"MULTIPLY",
		"ADD",
		"RETURN_VALUE",
	)
	result, err := Interpret(src)
	require.NoError(t, err)
	require.Equal(t, "316", result.String())
}

// Unconditional jump to a decoded position.
func TestUnconditionalJumpScenario(t *testing.T) {
	lines := []string{
		"LOAD_VAL 1",  // 0
		"WRITE_VAR x", // 1
		"LOAD_VAL 26", // 2
		"JUMP",        // 3
	}
	for i := 4; i < 26; i++ {
		lines = append(lines, "LOAD_VAL 0") // dead filler, positions 4..25
	}
	lines = append(lines,
		"READ_VAR x",   // 26
		"RETURN_VALUE", // 27
	)
	result, err := Interpret(program(lines...))
	require.NoError(t, err)
	require.Equal(t, "1", result.String())
}

// Looping 12^15 by countdown and MULTIPLY.
func TestLoopingPowScenario(t *testing.T) {
	src := program(
		"LOAD_VAL 12",      // 0
		"WRITE_VAR base",   // 1
		"LOAD_VAL 15",      // 2
		"WRITE_VAR count",  // 3
		"LOAD_VAL 1",       // 4
		"WRITE_VAR result", // 5
		"READ_VAR count",   // 6 (loop top)
		"LOAD_VAL 0",       // 7
		"LOAD_VAL 20",      // 8
		"JUMP_EQUAL",       // 9
		"READ_VAR result",  // 10
		"READ_VAR base",    // 11
		"MULTIPLY",         // 12
		"WRITE_VAR result", // 13
		"READ_VAR count",   // 14
		"LOAD_VAL 1",       // 15
		"SUB",              // 16
		"WRITE_VAR count",  // 17
		"LOAD_VAL 6",       // 18
		"JUMP",             // 19
		"READ_VAR result",  // 20
		"RETURN_VALUE",     // 21
	)
	result, err := Interpret(src)
	require.NoError(t, err)
	require.Equal(t, "15407021574586368", result.String())
}

// Iterative two-variable Fibonacci at n=33.
func TestFibonacciScenario(t *testing.T) {
	src := program(
		"LOAD_VAL 0",       // 0
		"WRITE_VAR a",      // 1
		"LOAD_VAL 1",       // 2
		"WRITE_VAR b",      // 3
		"LOAD_VAL 32",      // 4
		"WRITE_VAR count",  // 5
		"READ_VAR count",   // 6 (loop top)
		"LOAD_VAL 0",       // 7
		"LOAD_VAL 24",      // 8
		"JUMP_EQUAL",       // 9
		"READ_VAR a",       // 10
		"READ_VAR b",       // 11
		"ADD",              // 12
		"WRITE_VAR temp",   // 13
		"READ_VAR b",       // 14
		"WRITE_VAR a",      // 15
		"READ_VAR temp",    // 16
		"WRITE_VAR b",      // 17
		"READ_VAR count",   // 18
		"LOAD_VAL 1",       // 19
		"SUB",              // 20
		"WRITE_VAR count",  // 21
		"LOAD_VAL 6",       // 22
		"JUMP",             // 23
		"READ_VAR b",       // 24
		"RETURN_VALUE",     // 25
	)
	result, err := Interpret(src)
	require.NoError(t, err)
	require.Equal(t, "3524578", result.String())
}

// Spawn two children, each sends a word back to the parent over its
// own rendezvous channel; the parent sums them.
func TestSpawnChannelScenario(t *testing.T) {
	src := program(
		"LOAD_VAL 0",    // 0 argc_A
		"LOAD_VAL 11",   // 1 start_A
		"LOAD_VAL 0",    // 2 argc_B
		"LOAD_VAL 16",   // 3 start_B
		"SPAWN",         // 4
		"LOAD_VAL 1",    // 5 channel id for child A (id 1)
		"RECV_CHANNEL",  // 6
		"LOAD_VAL 2",    // 7 channel id for child B (id 2)
		"RECV_CHANNEL",  // 8
		"ADD",           // 9
		"RETURN_VALUE",  // 10
		"LOAD_VAL 20",   // 11 child A: data
		"LOAD_VAL 0",    // 12 child A: channel id (parent is 0)
		"SEND_CHANNEL",  // 13
		"LOAD_VAL 0",    // 14 child A: dummy return
		"RETURN_VALUE",  // 15
		"LOAD_VAL 22",   // 16 child B: data
		"LOAD_VAL 0",    // 17 child B: channel id (parent is 0)
		"SEND_CHANNEL",  // 18
		"LOAD_VAL 0",    // 19 child B: dummy return
		"RETURN_VALUE",  // 20
	)
	result, err := Interpret(src)
	require.NoError(t, err)
	require.Equal(t, "42", result.String())
}

func TestReadUnboundVariableFails(t *testing.T) {
	_, err := Interpret(program("READ_VAR nope", "RETURN_VALUE"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "Variable 'nope' doesn't exist")
	require.Contains(t, err.Error(), "Line: 0")
}

func TestStackUnderflowFails(t *testing.T) {
	_, err := Interpret(program("ADD", "RETURN_VALUE"))
	require.Error(t, err)
}

func TestOutOfRangeFetchFails(t *testing.T) {
	_, err := Interpret(program("LOAD_VAL 99", "JUMP"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "Instruction doesn't exist at 99 position")
}

func TestOverflowingAddFails(t *testing.T) {
	max := maxWord.String()
	_, err := Interpret(program(
		"LOAD_VAL "+max,
		"LOAD_VAL 1",
		"ADD",
		"RETURN_VALUE",
	))
	require.Error(t, err)
}

func TestLoadValRoundTripForArbitraryWord(t *testing.T) {
	for _, n := range []uint64{0, 1, 12345, 1 << 40} {
		result, err := Interpret(program("LOAD_VAL "+strconv.FormatUint(n, 10), "RETURN_VALUE"))
		require.NoError(t, err)
		require.Equal(t, strconv.FormatUint(n, 10), result.String())
	}
}
