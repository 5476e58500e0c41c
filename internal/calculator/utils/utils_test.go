package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatResult(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{120, "120"},
		{0.5, "0.5"},
		{-1.25, "-1.25"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{math.Inf(1), "+Inf"},
		{math.Inf(-1), "-Inf"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatResult(tt.in))
	}
}

func TestCharClasses(t *testing.T) {
	for _, ch := range []byte("+-*/%^") {
		assert.True(t, IsOperator(ch), string(ch))
	}
	assert.False(t, IsOperator('('))
	assert.True(t, IsNumberChar('.'))
	assert.True(t, IsDigit('9'))
	assert.False(t, IsDigit('.'))
}
