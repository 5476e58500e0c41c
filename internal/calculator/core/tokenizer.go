package core

import (
	"errors"
	"strconv"
	"unicode"
	"unicode/utf8"

	errs "distr-calc/internal/calculator/errors"
	types "distr-calc/internal/calculator/types"
	utils "distr-calc/internal/calculator/utils"
)

// Scan splits input into alternating operand and operator tokens. A '-' that
// appears where an operand is expected and is immediately followed by a
// digit or '.' becomes part of the number.
func Scan(input string) ([]types.Token, error) {
	var tokens []types.Token
	expectOperand := true
	i := 0

	for i < len(input) {
		ch := input[i]

		if ch >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(input[i:])
			if r != utf8.RuneError && unicode.IsSpace(r) {
				i += size
				continue
			}
			return nil, errs.Parsef(i, "unknown character %q", input[i:i+size])
		}
		if unicode.IsSpace(rune(ch)) {
			i++
			continue
		}

		if utils.IsNumberChar(ch) || (ch == '-' && expectOperand && i+1 < len(input) && utils.IsNumberChar(input[i+1])) {
			if !expectOperand {
				return nil, errs.Parsef(i, "missing operator before number")
			}
			start := i
			if ch == '-' {
				i++
			}
			end, err := scanNumber(input, i)
			if err != nil {
				return nil, err
			}
			value, err := strconv.ParseFloat(input[start:end], 64)
			// Out of range literals keep the IEEE value ParseFloat returns.
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				return nil, errs.Parsef(start, "invalid number %q", input[start:end])
			}
			tokens = append(tokens, types.Token{Type: types.TokenNumber, Value: value, Pos: start})
			expectOperand = false
			i = end
			continue
		}

		if utils.IsOperator(ch) {
			if expectOperand {
				if len(tokens) == 0 {
					return nil, errs.Parsef(i, "expression cannot start with operator '%c'", ch)
				}
				return nil, errs.Parsef(i, "two operators '%s' and '%c' cannot be next to each other", tokens[len(tokens)-1].Op, ch)
			}
			tokens = append(tokens, types.Token{Type: types.TokenOperator, Op: types.Operator(ch), Pos: i})
			expectOperand = true
			i++
			continue
		}

		return nil, errs.Parsef(i, "unknown character %q", input[i:i+1])
	}

	if len(tokens) == 0 {
		return nil, errs.Parsef(-1, "expression cannot be empty")
	}
	if expectOperand {
		last := tokens[len(tokens)-1]
		return nil, errs.Parsef(last.Pos, "expression cannot end with operator '%s'", last.Op)
	}
	return tokens, nil
}

// scanNumber returns the end offset of the literal starting at start.
func scanNumber(input string, start int) (int, error) {
	i := start
	dotCount := 0
	digits := 0
	for i < len(input) && utils.IsNumberChar(input[i]) {
		if input[i] == '.' {
			dotCount++
			if dotCount > 1 {
				return 0, errs.Parsef(i, "invalid number format with multiple dots")
			}
		} else {
			digits++
		}
		i++
	}
	if digits == 0 {
		return 0, errs.Parsef(start, "number has no digits")
	}
	return i, nil
}

// Tokenize scans input and splits the tokens into an Expression.
func Tokenize(input string) (types.Expression, error) {
	tokens, err := Scan(input)
	if err != nil {
		return types.Expression{}, err
	}

	expr := types.Expression{
		Operands:  make([]float64, 0, len(tokens)/2+1),
		Operators: make([]types.Operator, 0, len(tokens)/2),
	}
	for _, tok := range tokens {
		switch tok.Type {
		case types.TokenNumber:
			expr.Operands = append(expr.Operands, tok.Value)
		case types.TokenOperator:
			expr.Operators = append(expr.Operators, tok.Op)
		}
	}
	if err := Validate(expr); err != nil {
		return types.Expression{}, err
	}
	return expr, nil
}

// Validate checks that expr has one more operand than operators and that
// every operator is known.
func Validate(expr types.Expression) error {
	if len(expr.Operands) == 0 {
		return errs.Parsef(-1, "expression has no operands")
	}
	if len(expr.Operands) != len(expr.Operators)+1 {
		return errs.Parsef(-1, "%d operands do not match %d operators", len(expr.Operands), len(expr.Operators))
	}
	for _, op := range expr.Operators {
		if !op.Valid() {
			return errs.Parsef(-1, "unknown operator %q", op.String())
		}
	}
	return nil
}
