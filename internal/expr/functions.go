package expr

import (
	"math"
	"sort"
	"strings"
)

type builtin struct {
	min, max int // max < 0 means variadic
	f1       func(float64) float64
	f2       func(a, b float64) float64
	fn       func(args []float64) float64
}

var builtins = map[string]builtin{
	"exp":   {min: 1, max: 1, f1: math.Exp},
	"ln":    {min: 1, max: 1, f1: math.Log},
	"log":   {min: 1, max: 2, f1: math.Log, f2: func(base, x float64) float64 { return math.Log(x) / math.Log(base) }},
	"log10": {min: 1, max: 1, f1: math.Log10},
	"log2":  {min: 1, max: 1, f1: math.Log2},
	"sqrt":  {min: 1, max: 1, f1: math.Sqrt},
	"abs":   {min: 1, max: 1, f1: math.Abs},
	"floor": {min: 1, max: 1, f1: math.Floor},
	"ceil":  {min: 1, max: 1, f1: math.Ceil},
	"sin":   {min: 1, max: 1, f1: math.Sin},
	"cos":   {min: 1, max: 1, f1: math.Cos},
	"tan":   {min: 1, max: 1, f1: math.Tan},
	"sinh":  {min: 1, max: 1, f1: math.Sinh},
	"cosh":  {min: 1, max: 1, f1: math.Cosh},
	"tanh":  {min: 1, max: 1, f1: math.Tanh},
	"pow":   {min: 2, max: 2, f2: math.Pow},
	"min":   {min: 1, max: -1, f1: func(a float64) float64 { return a }, f2: math.Min, fn: minOf},
	"max":   {min: 1, max: -1, f1: func(a float64) float64 { return a }, f2: math.Max, fn: maxOf},
	"hill":  {min: 3, max: 3, fn: hill},
}

// Builtins lists the callable function names.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupBuiltin(name string) (builtin, bool) {
	b, ok := builtins[strings.ToLower(name)]
	return b, ok
}

func minOf(args []float64) float64 {
	m := args[0]
	for _, v := range args[1:] {
		m = math.Min(m, v)
	}
	return m
}

func maxOf(args []float64) float64 {
	m := args[0]
	for _, v := range args[1:] {
		m = math.Max(m, v)
	}
	return m
}

// hill(x, k, n) = x^n / (k^n + x^n)
func hill(args []float64) float64 {
	xn := math.Pow(args[0], args[2])
	return xn / (math.Pow(args[1], args[2]) + xn)
}
