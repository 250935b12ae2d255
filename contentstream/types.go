package contentstream

// LineCap represents the line cap style (J operator).
type LineCap int

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

// Color is an RGB color with components in [0, 1].
type Color struct{ R, G, B float64 }

var (
	Black = Color{}
	White = Color{1, 1, 1}
)

// OperandKind tags the value held by an Operand.
type OperandKind int

const (
	OperandNumber OperandKind = iota
	OperandName
	OperandString
	OperandArray
	OperandOther
)

// Operand is one parsed operand of a content stream operator.
type Operand struct {
	Kind   OperandKind
	Number float64
	Name   string
	String []byte
	Array  []Operand
	Raw    string
}

// Operation is an operator with the operands that precede it.
type Operation struct {
	Operator string
	Operands []Operand
}
