package core

import (
	"math"

	errs "distr-calc/internal/calculator/errors"
	types "distr-calc/internal/calculator/types"
	"distr-calc/internal/logger"

	"go.uber.org/zap"
)

// Evaluate reduces expr to a single value in three passes: ^ from right to
// left, then * / % and finally + - from left to right. expr is not modified.
func Evaluate(expr types.Expression) (float64, error) {
	if err := Validate(expr); err != nil {
		return 0, err
	}

	r := &reducer{
		nums: append([]float64(nil), expr.Operands...),
		ops:  append([]types.Operator(nil), expr.Operators...),
		log:  logger.Named("evaluator"),
	}
	r.trace("initial state")

	r.reducePower()
	if err := r.reduceLeft(2); err != nil {
		return 0, err
	}
	if err := r.reduceLeft(1); err != nil {
		return 0, err
	}

	if len(r.nums) != 1 || len(r.ops) != 0 {
		return 0, errs.Parsef(-1, "reduction left %d operands", len(r.nums))
	}
	return r.nums[0], nil
}

// EvaluateExpression tokenizes input and evaluates it.
func EvaluateExpression(input string) (float64, error) {
	expr, err := Tokenize(input)
	if err != nil {
		return 0, err
	}
	return Evaluate(expr)
}

type reducer struct {
	nums []float64
	ops  []types.Operator
	log  *zap.Logger
}

// reducePower folds every ^ into its left operand. Scanning from the right
// makes 2^3^2 group as 2^(3^2).
func (r *reducer) reducePower() {
	for i := len(r.ops) - 1; i >= 0; i-- {
		if r.ops[i] != types.OpPow {
			continue
		}
		result := math.Pow(r.nums[i], r.nums[i+1])
		r.step(i, result)
	}
}

// reduceLeft folds every operator of the given precedence left to right.
func (r *reducer) reduceLeft(precedence int) error {
	i := 0
	for i < len(r.ops) {
		op := r.ops[i]
		if op.Precedence() != precedence {
			i++
			continue
		}
		result, err := apply(r.nums[i], r.nums[i+1], op)
		if err != nil {
			r.log.Debug("reduction aborted",
				zap.Float64("left", r.nums[i]),
				zap.String("operator", op.String()),
				zap.Float64("right", r.nums[i+1]),
				zap.Error(err),
			)
			return err
		}
		r.step(i, result)
	}
	return nil
}

// step replaces nums[i] with result and splices out nums[i+1] and ops[i].
func (r *reducer) step(i int, result float64) {
	r.log.Debug("processing",
		zap.Float64("left", r.nums[i]),
		zap.String("operator", r.ops[i].String()),
		zap.Float64("right", r.nums[i+1]),
		zap.Float64("result", result),
	)
	r.nums[i] = result
	r.nums = append(r.nums[:i+1], r.nums[i+2:]...)
	r.ops = append(r.ops[:i], r.ops[i+1:]...)
	r.trace("after operation")
}

func (r *reducer) trace(msg string) {
	if ce := r.log.Check(zap.DebugLevel, msg); ce != nil {
		ops := make([]string, len(r.ops))
		for i, op := range r.ops {
			ops[i] = op.String()
		}
		ce.Write(zap.Float64s("numbers", r.nums), zap.Strings("operators", ops))
	}
}

func apply(a, b float64, op types.Operator) (float64, error) {
	switch op {
	case types.OpAdd:
		return a + b, nil
	case types.OpSub:
		return a - b, nil
	case types.OpMul:
		return a * b, nil
	case types.OpDiv:
		if b == 0 {
			return 0, errs.Domainf("division by zero")
		}
		return a / b, nil
	case types.OpMod:
		if b == 0 {
			return 0, errs.Domainf("modulo by zero")
		}
		return math.Mod(a, b), nil
	case types.OpPow:
		return math.Pow(a, b), nil
	default:
		return 0, errs.Parsef(-1, "unknown operator %q", op.String())
	}
}
