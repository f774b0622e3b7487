package calculator

// ErrorText is the display value produced by division or modulus by zero and
// by results that are not finite.
const ErrorText = "Error"

// MaxInputLength bounds how many characters (sign excluded) typed input may
// reach. Fifteen digits is what a float64 holds exactly, so typed operands
// survive ToggleSign unchanged. Computed results are not capped.
const MaxInputLength = 15

// Op is a binary operator symbol. The zero value means no operator is pending.
type Op string

const (
	OpNone Op = ""
	OpAdd  Op = "+"
	OpSub  Op = "-"
	OpMul  Op = "*"
	OpDiv  Op = "/"
	OpMod  Op = "%"
)

// Valid reports whether op is one of the five supported operators.
func (op Op) Valid() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		return true
	default:
		return false
	}
}

// State is an immutable snapshot of the calculator. Transitions return a new
// State; nothing ever modifies one in place.
type State struct {
	FirstOperand    string `json:"first_operand"`
	CurrentOperand  string `json:"current_operand"`
	PendingOperator Op     `json:"pending_operator,omitempty"`
}

// Fresh returns the reset state.
func Fresh() State {
	return State{
		FirstOperand:   "0",
		CurrentOperand: "0",
	}
}

// Display is the text rendered to the user.
func (s State) Display() string {
	return s.CurrentOperand
}

// HasPending reports whether an operator is waiting for its right operand.
func (s State) HasPending() bool {
	return s.PendingOperator != OpNone
}

// IsError reports whether the display holds the error marker.
func (s State) IsError() bool {
	return s.CurrentOperand == ErrorText
}
