package calculator

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(t *testing.T, label string) Input {
	t.Helper()
	in, ok := Classify(label)
	require.True(t, ok, "label %q", label)
	return in
}

func press(t *testing.T, s State, labels ...string) State {
	t.Helper()
	for _, label := range labels {
		s = Reduce(s, key(t, label))
	}
	return s
}

func TestFresh(t *testing.T) {
	s := Fresh()
	assert.Equal(t, "0", s.FirstOperand)
	assert.Equal(t, "0", s.CurrentOperand)
	assert.Equal(t, OpNone, s.PendingOperator)
	assert.False(t, s.HasPending())
}

func TestClearIsAbsorbing(t *testing.T) {
	states := []State{
		Fresh(),
		{FirstOperand: "8", CurrentOperand: "3.5", PendingOperator: OpDiv},
		{FirstOperand: "Error", CurrentOperand: ErrorText},
		press(t, Fresh(), "1", "2", "+", "3", "*"),
	}
	for _, s := range states {
		assert.Equal(t, Fresh(), Reduce(s, Input{Kind: KindClear}))
	}
}

func TestDigit(t *testing.T) {
	tests := []struct {
		current string
		digit   string
		want    string
	}{
		{current: "0", digit: "5", want: "5"},
		{current: "-0", digit: "5", want: "5"},
		{current: "12", digit: "3", want: "123"},
		{current: "0.", digit: "0", want: "0.0"},
		{current: "0.0", digit: "7", want: "0.07"},
		{current: "-4", digit: "2", want: "-42"},
		{current: ErrorText, digit: "4", want: "4"},
	}

	for _, tc := range tests {
		t.Run(tc.current+"+"+tc.digit, func(t *testing.T) {
			s := State{FirstOperand: "0", CurrentOperand: tc.current}
			got := Reduce(s, key(t, tc.digit))
			assert.Equal(t, tc.want, got.CurrentOperand)
			assert.Equal(t, s.FirstOperand, got.FirstOperand)
		})
	}
}

func TestDigitStopsAtMaxInputLength(t *testing.T) {
	s := Fresh()
	for i := 0; i < MaxInputLength+4; i++ {
		s = Reduce(s, key(t, "9"))
	}
	assert.Len(t, s.CurrentOperand, MaxInputLength)

	neg := State{FirstOperand: "0", CurrentOperand: "-" + s.CurrentOperand}
	assert.Equal(t, neg, Reduce(neg, key(t, "1")))
	assert.Equal(t, neg, Reduce(neg, key(t, ".")))
}

func TestDecimal(t *testing.T) {
	tests := []struct {
		current string
		want    string
	}{
		{current: "0", want: "0."},
		{current: "12", want: "12."},
		{current: "12.", want: "12."},
		{current: "1.5", want: "1.5"},
		{current: ErrorText, want: "0."},
	}

	for _, tc := range tests {
		t.Run(tc.current, func(t *testing.T) {
			s := State{FirstOperand: "0", CurrentOperand: tc.current}
			once := Reduce(s, key(t, "."))
			twice := Reduce(once, key(t, "."))
			assert.Equal(t, tc.want, once.CurrentOperand)
			assert.Equal(t, once, twice)
		})
	}
}

func TestToggleSign(t *testing.T) {
	tests := []struct {
		current string
		once    string
		twice   string
	}{
		{current: "0", once: "0", twice: "0"},
		{current: "-0", once: "0", twice: "0"},
		{current: "5", once: "-5", twice: "5"},
		{current: "2.50", once: "-2.5", twice: "2.5"},
		{current: "3.", once: "-3", twice: "3"},
		{current: "0.", once: "0", twice: "0"},
		{current: ErrorText, once: "0", twice: "0"},
	}

	for _, tc := range tests {
		t.Run(tc.current, func(t *testing.T) {
			s := State{FirstOperand: "7", CurrentOperand: tc.current, PendingOperator: OpAdd}
			once := Reduce(s, key(t, "+/-"))
			twice := Reduce(once, key(t, "+/-"))

			assert.Equal(t, tc.once, once.CurrentOperand)
			assert.Equal(t, tc.twice, twice.CurrentOperand)
			assert.Equal(t, "7", twice.FirstOperand)
			assert.Equal(t, OpAdd, twice.PendingOperator)
		})
	}
}

func TestToggleSignRoundTripsNumerically(t *testing.T) {
	for _, current := range []string{"1", "-1", "42.125", "0.001", "123456789", "1234567.1234567", "0.0000000000001"} {
		s := State{FirstOperand: "0", CurrentOperand: current}
		got := press(t, s, "+/-", "+/-")

		want, err := strconv.ParseFloat(current, 64)
		require.NoError(t, err)
		v, err := strconv.ParseFloat(got.CurrentOperand, 64)
		require.NoError(t, err)
		assert.Equal(t, want, v, current)
	}
}

func TestToggleSignAtMaxInputLengthIsStable(t *testing.T) {
	for _, d := range []string{"9", "1", "7"} {
		s := Fresh()
		for i := 0; i < MaxInputLength+1; i++ {
			s = Reduce(s, key(t, d))
		}
		typed := s.CurrentOperand
		require.Len(t, typed, MaxInputLength)

		toggled := Reduce(s, key(t, "+/-"))
		assert.Equal(t, "-"+typed, toggled.CurrentOperand)
		assert.Equal(t, typed, Reduce(toggled, key(t, "+/-")).CurrentOperand)
	}

	frac := press(t, Fresh(), "0", ".")
	for i := 0; i < MaxInputLength; i++ {
		frac = Reduce(frac, key(t, "3"))
	}
	require.Len(t, frac.CurrentOperand, MaxInputLength)
	assert.Equal(t, frac.CurrentOperand, press(t, frac, "+/-", "+/-").CurrentOperand)
}

func TestBinaryOpCapturesOperand(t *testing.T) {
	s := press(t, Fresh(), "4", "2", "-")
	assert.Equal(t, State{FirstOperand: "42", CurrentOperand: "0", PendingOperator: OpSub}, s)
}

func TestBinaryOpReplacesOperatorWithoutOperand(t *testing.T) {
	// "3 + *" evaluates 3+0 and keeps the new operator.
	s := press(t, Fresh(), "3", "+", "*")
	assert.Equal(t, State{FirstOperand: "3", CurrentOperand: "0", PendingOperator: OpMul}, s)
}

func TestChainedOperatorsEvaluateEagerly(t *testing.T) {
	s := press(t, Fresh(), "2", "+", "3", "*")
	assert.Equal(t, "5", s.FirstOperand)
	assert.Equal(t, OpMul, s.PendingOperator)
	assert.Equal(t, "0", s.CurrentOperand)

	s = press(t, s, "4", "=")
	assert.Equal(t, "20", s.CurrentOperand)
	assert.Equal(t, OpNone, s.PendingOperator)
}

func TestEquals(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{name: "add", keys: []string{"7", "+", "5", "="}, want: "12"},
		{name: "subtract below zero", keys: []string{"3", "-", "8", "="}, want: "-5"},
		{name: "multiply decimals", keys: []string{"1", ".", "5", "*", "4", "="}, want: "6"},
		{name: "divide", keys: []string{"1", "/", "4", "="}, want: "0.25"},
		{name: "modulus", keys: []string{"1", "7", "%", "5", "="}, want: "2"},
		{name: "negative modulus", keys: []string{"7", "+/-", "%", "3", "="}, want: "-1"},
		{name: "divide by zero", keys: []string{"8", "/", "0", "="}, want: ErrorText},
		{name: "modulus by zero", keys: []string{"8", "%", "0", "="}, want: ErrorText},
		{name: "negative zero result", keys: []string{"0", "-", "0", "="}, want: "0"},
		{name: "partial decimal operand", keys: []string{"2", ".", "+", "1", "="}, want: "3"},
		{name: "float rounding", keys: []string{"0", ".", "1", "+", "0", ".", "2", "="}, want: "0.30000000000000004"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := press(t, Fresh(), tc.keys...)
			assert.Equal(t, tc.want, s.CurrentOperand)
			assert.Equal(t, "0", s.FirstOperand)
			assert.False(t, s.HasPending())
		})
	}
}

func TestEqualsWithoutPendingOperatorIsNoop(t *testing.T) {
	s := State{FirstOperand: "9", CurrentOperand: "4"}
	assert.Equal(t, s, Reduce(s, key(t, "=")))
}

func TestDivisionByZeroYieldsError(t *testing.T) {
	s := State{FirstOperand: "8", CurrentOperand: "0", PendingOperator: OpDiv}
	got := Reduce(s, key(t, "="))
	assert.Equal(t, ErrorText, got.CurrentOperand)
	assert.True(t, got.IsError())
}

func TestErrorRecovery(t *testing.T) {
	s := press(t, Fresh(), "8", "/", "0", "=")
	require.True(t, s.IsError())

	assert.Equal(t, "3", press(t, s, "3").CurrentOperand)

	// The error literal as first operand makes the next evaluation fall back
	// to the typed operand.
	s = press(t, s, "+", "6", "=")
	assert.Equal(t, "6", s.CurrentOperand)
}

func TestChainingIntoDivisionByZero(t *testing.T) {
	s := press(t, Fresh(), "5", "/", "0", "+")
	assert.Equal(t, ErrorText, s.FirstOperand)
	assert.Equal(t, OpAdd, s.PendingOperator)

	s = press(t, s, "2", "=")
	assert.Equal(t, "2", s.CurrentOperand)
}

func TestOverflowYieldsError(t *testing.T) {
	s := State{FirstOperand: "1e308", CurrentOperand: "10", PendingOperator: OpMul}
	assert.Equal(t, ErrorText, Reduce(s, key(t, "=")).CurrentOperand)
}

func TestCompute(t *testing.T) {
	assert.Equal(t, "5", Compute("2", "3", OpAdd))
	assert.Equal(t, "3", Compute("junk", "3", OpAdd))
	assert.Equal(t, "junk", Compute("2", "junk", OpMul))
	assert.Equal(t, "3", Compute("2", "3", OpNone))
	assert.Equal(t, ErrorText, Compute("2", "0", OpDiv))
	assert.Equal(t, ErrorText, Compute("2", "-0", OpMod))
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 5, want: "5"},
		{in: -5, want: "-5"},
		{in: 2.5, want: "2.5"},
		{in: 0, want: "0"},
		{in: 1e21, want: "1000000000000000000000"},
		{in: 0.000001, want: "0.000001"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatNumber(tc.in))
	}

	assert.Equal(t, "0", FormatNumber(math.Copysign(0, -1)))
	assert.Equal(t, ErrorText, FormatNumber(math.Inf(1)))
	assert.Equal(t, ErrorText, FormatNumber(math.NaN()))
}

func TestReduceIgnoresMalformedInput(t *testing.T) {
	s := State{FirstOperand: "1", CurrentOperand: "2", PendingOperator: OpAdd}
	assert.Equal(t, s, Reduce(s, Input{Kind: Kind(99)}))
	assert.Equal(t, s, Reduce(s, Input{Kind: KindDigit, Digit: 'x'}))
	assert.Equal(t, s, Reduce(s, Input{Kind: KindBinaryOp, Op: "^"}))
}
