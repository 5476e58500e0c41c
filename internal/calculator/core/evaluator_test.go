package core

import (
	"math"
	"strconv"
	"sync"
	"testing"

	errs "distr-calc/internal/calculator/errors"
	types "distr-calc/internal/calculator/types"
	"distr-calc/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestEvaluateExpression(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"7", 7},
		{"-7.5", -7.5},
		{"2+3*4", 14},
		{"2^3^2", 512},
		{"45+45*5/3", 120},
		{"10-4-3", 3},
		{"100/10/5", 2},
		{"2*3^2", 18},
		{"7%4*2", 6},
		{"2+7%4", 5},
		{"5--3", 8},
		{"-2^2", 4},
		{".5*4", 2},
		{"1 + 2", 3},
		{"-5.5%2", -1.5},
		{"2^-1", 0.5},
		{"1+2*3^2-4/2", 17},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := EvaluateExpression(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEvaluateExpression_SingleOperand(t *testing.T) {
	for _, v := range []float64{0, 1, 3.5, -42, 1234567.125} {
		input := strconv.FormatFloat(v, 'f', -1, 64)
		got, err := EvaluateExpression(input)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestEvaluateExpression_DomainErrors(t *testing.T) {
	for _, input := range []string{"10/0", "10%0", "1+10/0", "5/0.0", "2^2/0*3", "1/-0"} {
		t.Run(input, func(t *testing.T) {
			_, err := EvaluateExpression(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrDomain)
			assert.NotErrorIs(t, err, errs.ErrParse)
			assert.Equal(t, "division by zero or invalid operation", errs.Message(err))
		})
	}
}

func TestEvaluateExpression_ParseErrors(t *testing.T) {
	for _, input := range []string{"+5", "5+", "5**3", "", "2 x 3"} {
		t.Run(input, func(t *testing.T) {
			_, err := EvaluateExpression(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrParse)
			assert.Equal(t, "invalid expression format", errs.Message(err))
		})
	}
}

func TestEvaluateExpression_Overflow(t *testing.T) {
	got, err := EvaluateExpression("10^400")
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, 1))

	got, err = EvaluateExpression("-1^0.5")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))
}

func TestEvaluateExpression_AdditiveMatchesLeftToRight(t *testing.T) {
	inputs := []string{"1-2+3-4+5", "10-20-30", "0.5+0.25-1", "-1--1+-1"}
	for _, input := range inputs {
		expr, err := Tokenize(input)
		require.NoError(t, err)

		want := expr.Operands[0]
		for i, op := range expr.Operators {
			if op == types.OpAdd {
				want += expr.Operands[i+1]
			} else {
				want -= expr.Operands[i+1]
			}
		}

		got, err := Evaluate(expr)
		require.NoError(t, err)
		assert.Equal(t, want, got, input)
	}
}

func TestEvaluateExpression_Idempotent(t *testing.T) {
	first, err := EvaluateExpression("3+4*2^2-6/3%5")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := EvaluateExpression("3+4*2^2-6/3%5")
			assert.NoError(t, err)
			assert.Equal(t, first, got)
		}()
	}
	wg.Wait()
}

func TestEvaluate_DoesNotMutateInput(t *testing.T) {
	expr := types.Expression{
		Operands:  []float64{2, 3, 4},
		Operators: []types.Operator{types.OpAdd, types.OpMul},
	}
	snapshot := expr.Clone()

	got, err := Evaluate(expr)
	require.NoError(t, err)
	assert.Equal(t, 14.0, got)
	assert.Equal(t, snapshot, expr)
}

func TestEvaluate_RejectsMismatchedExpression(t *testing.T) {
	_, err := Evaluate(types.Expression{Operands: []float64{1}, Operators: []types.Operator{types.OpAdd}})
	assert.ErrorIs(t, err, errs.ErrParse)
}

func TestEvaluate_TracesReductionSteps(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	logger.SetLogger(zap.New(obs))
	t.Cleanup(func() { logger.SetLogger(zap.NewNop()) })

	_, err := EvaluateExpression("45+45*5/3")
	require.NoError(t, err)

	steps := logs.FilterMessage("processing").All()
	require.Len(t, steps, 3)
	assert.Equal(t, "*", steps[0].ContextMap()["operator"])
	assert.Equal(t, "/", steps[1].ContextMap()["operator"])
	assert.Equal(t, "+", steps[2].ContextMap()["operator"])
	assert.Equal(t, 120.0, steps[2].ContextMap()["result"])
	assert.Equal(t, 1, logs.FilterMessage("initial state").Len())
}
