package calculator

import (
	"math"
	"strconv"
	"strings"
)

// Reduce returns the state that follows s after in. It is pure and total.
func Reduce(s State, in Input) State {
	switch in.Kind {
	case KindClear:
		return Fresh()
	case KindToggleSign:
		return toggleSign(s)
	case KindDecimal:
		return decimal(s)
	case KindDigit:
		return digit(s, in.Digit)
	case KindBinaryOp:
		return binaryOp(s, in.Op)
	case KindEquals:
		return equals(s)
	default:
		return s
	}
}

// editable returns the operand text to edit, treating the error marker as zero.
func editable(s State) string {
	if s.IsError() {
		return "0"
	}
	return s.CurrentOperand
}

func inputLength(operand string) int {
	return len(strings.TrimPrefix(operand, "-"))
}

func toggleSign(s State) State {
	v, err := strconv.ParseFloat(editable(s), 64)
	if err != nil {
		v = 0
	}
	s.CurrentOperand = FormatNumber(-v)
	return s
}

func decimal(s State) State {
	cur := editable(s)
	if strings.Contains(cur, ".") || inputLength(cur) >= MaxInputLength {
		return s
	}
	s.CurrentOperand = cur + "."
	return s
}

func digit(s State, d byte) State {
	if d < '0' || d > '9' {
		return s
	}

	cur := editable(s)
	switch {
	case cur == "0" || cur == "-0":
		s.CurrentOperand = string(d)
	case inputLength(cur) >= MaxInputLength:
		return s
	default:
		s.CurrentOperand = cur + string(d)
	}
	return s
}

func binaryOp(s State, op Op) State {
	if !op.Valid() {
		return s
	}

	first := s.CurrentOperand
	if s.HasPending() {
		first = Compute(s.FirstOperand, s.CurrentOperand, s.PendingOperator)
	}

	return State{
		FirstOperand:    first,
		CurrentOperand:  "0",
		PendingOperator: op,
	}
}

func equals(s State) State {
	if !s.HasPending() {
		return s
	}

	return State{
		FirstOperand:   "0",
		CurrentOperand: Compute(s.FirstOperand, s.CurrentOperand, s.PendingOperator),
	}
}

// Compute applies op to the textual operands and returns the display text of
// the result. If either operand does not parse, or op is not a supported
// operator, current is returned unchanged. A zero right operand for "/" or
// "%" yields ErrorText.
func Compute(first, current string, op Op) string {
	a, err := strconv.ParseFloat(first, 64)
	if err != nil {
		return current
	}
	b, err := strconv.ParseFloat(current, 64)
	if err != nil {
		return current
	}

	var r float64
	switch op {
	case OpAdd:
		r = a + b
	case OpSub:
		r = a - b
	case OpMul:
		r = a * b
	case OpDiv:
		if b == 0 {
			return ErrorText
		}
		r = a / b
	case OpMod:
		if b == 0 {
			return ErrorText
		}
		r = math.Mod(a, b)
	default:
		return current
	}

	return FormatNumber(r)
}

// FormatNumber renders v as display text: shortest exact decimal, no
// exponent, no trailing ".0", and never "-0". Non-finite values render as
// ErrorText.
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrorText
	}
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
