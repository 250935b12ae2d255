package contentstream

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
)

// OperatorHandler is called for every operator the Processor dispatches.
type OperatorHandler interface {
	Handle(op Operation) error
}

// HandlerFunc adapts a function to OperatorHandler.
type HandlerFunc func(op Operation) error

func (f HandlerFunc) Handle(op Operation) error { return f(op) }

// Processor replays a content stream through registered handlers.
// Operators without a handler are skipped.
type Processor struct{ handlers map[string]OperatorHandler }

func NewProcessor() *Processor                                    { return &Processor{handlers: make(map[string]OperatorHandler)} }
func (p *Processor) RegisterHandler(op string, h OperatorHandler) { p.handlers[op] = h }

func (p *Processor) Process(ctx context.Context, stream []byte) error {
	ops, err := Parse(stream)
	if err != nil {
		return err
	}
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		if h, ok := p.handlers[op.Operator]; ok {
			if err := h.Handle(op); err != nil {
				return fmt.Errorf("%s: %w", op.Operator, err)
			}
		}
	}
	return nil
}

// ShownText returns the string operands of every Tj and TJ operator, in
// stream order.
func ShownText(stream []byte) ([]string, error) {
	var out []string
	p := NewProcessor()
	p.RegisterHandler("Tj", HandlerFunc(func(op Operation) error {
		if len(op.Operands) != 1 || op.Operands[0].Kind != OperandString {
			return fmt.Errorf("expected one string operand")
		}
		out = append(out, string(op.Operands[0].String))
		return nil
	}))
	p.RegisterHandler("TJ", HandlerFunc(func(op Operation) error {
		if len(op.Operands) != 1 || op.Operands[0].Kind != OperandArray {
			return fmt.Errorf("expected one array operand")
		}
		var s []byte
		for _, item := range op.Operands[0].Array {
			if item.Kind == OperandString {
				s = append(s, item.String...)
			}
		}
		out = append(out, string(s))
		return nil
	}))
	if err := p.Process(context.Background(), stream); err != nil {
		return nil, err
	}
	return out, nil
}

// Parse splits a content stream into operations. Inline images and
// dictionaries are not supported.
func Parse(data []byte) ([]Operation, error) {
	l := &lexer{data: data}
	var ops []Operation
	var stack []Operand
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			break
		}
		if tok.Kind == OperandOther {
			ops = append(ops, Operation{Operator: tok.Raw, Operands: stack})
			stack = nil
			continue
		}
		stack = append(stack, *tok)
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("dangling operands: %d", len(stack))
	}
	return ops, nil
}

type lexer struct {
	data []byte
	pos  int
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// next returns the next token, or nil at the end of input. Operators are
// returned with Kind OperandOther.
func (l *lexer) next() (*Operand, error) {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if isSpace(c) {
			l.pos++
			continue
		}
		if c == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		break
	}
	if l.pos >= len(l.data) {
		return nil, nil
	}
	c := l.data[l.pos]
	switch {
	case c == '(':
		s, err := l.literal()
		if err != nil {
			return nil, err
		}
		return &Operand{Kind: OperandString, String: s}, nil
	case c == '<':
		s, err := l.hexString()
		if err != nil {
			return nil, err
		}
		return &Operand{Kind: OperandString, String: s}, nil
	case c == '/':
		l.pos++
		return &Operand{Kind: OperandName, Name: l.word()}, nil
	case c == '[':
		l.pos++
		var items []Operand
		for {
			tok, err := l.next()
			if err != nil {
				return nil, err
			}
			if tok == nil {
				return nil, fmt.Errorf("unterminated array")
			}
			if tok.Kind == OperandOther && tok.Raw == "]" {
				return &Operand{Kind: OperandArray, Array: items}, nil
			}
			items = append(items, *tok)
		}
	case c == ']':
		l.pos++
		return &Operand{Kind: OperandOther, Raw: "]"}, nil
	case isDelim(c):
		return nil, fmt.Errorf("unexpected %q at offset %d", c, l.pos)
	}
	w := l.word()
	if n, err := strconv.ParseFloat(w, 64); err == nil {
		return &Operand{Kind: OperandNumber, Number: n, Raw: w}, nil
	}
	return &Operand{Kind: OperandOther, Raw: w}, nil
}

func (l *lexer) word() string {
	start := l.pos
	for l.pos < len(l.data) && !isSpace(l.data[l.pos]) && !isDelim(l.data[l.pos]) {
		l.pos++
	}
	return string(l.data[start:l.pos])
}

func (l *lexer) literal() ([]byte, error) {
	start := l.pos
	l.pos++ // (
	depth := 1
	var out []byte
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '\\':
			if l.pos >= len(l.data) {
				return nil, fmt.Errorf("unterminated escape at offset %d", start)
			}
			e := l.data[l.pos]
			l.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\n':
			case '0', '1', '2', '3', '4', '5', '6', '7':
				v := int(e - '0')
				for i := 0; i < 2 && l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '7'; i++ {
					v = v*8 + int(l.data[l.pos]-'0')
					l.pos++
				}
				out = append(out, byte(v))
			default:
				out = append(out, e)
			}
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return out, nil
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return nil, fmt.Errorf("unterminated string at offset %d", start)
}

func (l *lexer) hexString() ([]byte, error) {
	start := l.pos
	l.pos++ // <
	var digits []byte
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		if c == '>' {
			if len(digits)%2 == 1 {
				digits = append(digits, '0')
			}
			out := make([]byte, hex.DecodedLen(len(digits)))
			if _, err := hex.Decode(out, digits); err != nil {
				return nil, fmt.Errorf("hex string at offset %d: %w", start, err)
			}
			return out, nil
		}
		if !isSpace(c) {
			digits = append(digits, c)
		}
	}
	return nil, fmt.Errorf("unterminated hex string at offset %d", start)
}
