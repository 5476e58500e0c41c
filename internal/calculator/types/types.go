package types

import "fmt"

type TokenType int

const (
	TokenNumber TokenType = iota
	TokenOperator
)

func (t TokenType) String() string {
	switch t {
	case TokenNumber:
		return "number"
	case TokenOperator:
		return "operator"
	default:
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
}

// Operator is a binary operator symbol.
type Operator byte

const (
	OpAdd Operator = '+'
	OpSub Operator = '-'
	OpMul Operator = '*'
	OpDiv Operator = '/'
	OpMod Operator = '%'
	OpPow Operator = '^'
)

// Operators lists every recognized operator symbol.
const Operators = "+-*/%^"

func (op Operator) String() string {
	return string(op)
}

// Valid reports whether op is one of Operators.
func (op Operator) Valid() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpPow:
		return true
	}
	return false
}

// Precedence ranks op: 3 for ^, 2 for * / %, 1 for + -, 0 if unknown.
func (op Operator) Precedence() int {
	switch op {
	case OpPow:
		return 3
	case OpMul, OpDiv, OpMod:
		return 2
	case OpAdd, OpSub:
		return 1
	default:
		return 0
	}
}

// RightAssociative reports whether chains of op group from the right.
func (op Operator) RightAssociative() bool {
	return op == OpPow
}

type Token struct {
	Type  TokenType
	Value float64
	Op    Operator
	// Pos is the byte offset of the first byte of the token in the input.
	Pos int
}

func (t Token) String() string {
	if t.Type == TokenOperator {
		return fmt.Sprintf("%s:%s@%d", t.Type, t.Op, t.Pos)
	}
	return fmt.Sprintf("%s:%g@%d", t.Type, t.Value, t.Pos)
}

// Expression is a flat infix expression. Operators[i] sits between
// Operands[i] and Operands[i+1].
type Expression struct {
	Operands  []float64
	Operators []Operator
}

// Clone returns a deep copy of e.
func (e Expression) Clone() Expression {
	c := Expression{
		Operands:  make([]float64, len(e.Operands)),
		Operators: make([]Operator, len(e.Operators)),
	}
	copy(c.Operands, e.Operands)
	copy(c.Operators, e.Operators)
	return c
}

func (e Expression) String() string {
	if len(e.Operands) == 0 {
		return ""
	}
	s := fmt.Sprintf("%g", e.Operands[0])
	for i, op := range e.Operators {
		if i+1 >= len(e.Operands) {
			break
		}
		s += fmt.Sprintf(" %s %g", op, e.Operands[i+1])
	}
	return s
}
