package calculator

import "strings"

// Kind classifies a key press.
type Kind int

const (
	KindClear Kind = iota
	KindToggleSign
	KindDecimal
	KindDigit
	KindBinaryOp
	KindEquals
)

func (k Kind) String() string {
	switch k {
	case KindClear:
		return "clear"
	case KindToggleSign:
		return "toggle_sign"
	case KindDecimal:
		return "decimal"
	case KindDigit:
		return "digit"
	case KindBinaryOp:
		return "binary_op"
	case KindEquals:
		return "equals"
	default:
		return "unknown"
	}
}

// Input is a classified key press. Digit is set for KindDigit, Op for
// KindBinaryOp.
type Input struct {
	Kind  Kind
	Digit byte
	Op    Op
}

// Label returns the keypad label that produces in.
func (in Input) Label() string {
	switch in.Kind {
	case KindClear:
		return "AC"
	case KindToggleSign:
		return "+/-"
	case KindDecimal:
		return "."
	case KindDigit:
		return string(in.Digit)
	case KindBinaryOp:
		return string(in.Op)
	case KindEquals:
		return "="
	default:
		return ""
	}
}

func (in Input) String() string {
	return in.Kind.String() + "(" + in.Label() + ")"
}

// Classify maps a raw key label to an Input. Surrounding whitespace is
// ignored. Blank or unrecognized labels report false.
func Classify(label string) (Input, bool) {
	label = strings.TrimSpace(label)

	switch label {
	case "":
		return Input{}, false
	case "AC":
		return Input{Kind: KindClear}, true
	case "+/-":
		return Input{Kind: KindToggleSign}, true
	case ".":
		return Input{Kind: KindDecimal}, true
	case "=":
		return Input{Kind: KindEquals}, true
	}

	if len(label) != 1 {
		return Input{}, false
	}

	if c := label[0]; c >= '0' && c <= '9' {
		return Input{Kind: KindDigit, Digit: c}, true
	}

	if op := Op(label); op.Valid() {
		return Input{Kind: KindBinaryOp, Op: op}, true
	}

	return Input{}, false
}

// Layout is the fixed keypad, row by row. The blank entry is a spacer.
var Layout = [5][4]string{
	{"AC", "+/-", "%", "/"},
	{"7", "8", "9", "*"},
	{"4", "5", "6", "-"},
	{"1", "2", "3", "+"},
	{"0", "   ", ".", "="},
}

// LayoutRows returns a copy of Layout as nested slices.
func LayoutRows() [][]string {
	rows := make([][]string, 0, len(Layout))
	for _, row := range Layout {
		rows = append(rows, append([]string(nil), row[:]...))
	}
	return rows
}
