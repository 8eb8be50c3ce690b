package utils

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// ToFloat converte valores vindos do banco ou de formulários (número ou texto) para float64.
// Valores não numéricos, nulos, NaN ou infinitos viram 0.
func ToFloat(v any) float64 {
	if p, ok := v.(*string); ok {
		if p == nil {
			return 0
		}
		v = *p
	}
	if str, ok := v.(string); ok {
		v = strings.TrimSpace(str)
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// SafeDivide devolve 0 quando o divisor é zero
func SafeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
