package expr

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slots(names ...string) Resolver {
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	return ResolverFunc(func(name string) (Node, error) {
		if i, ok := index[name]; ok {
			return &Ref{Slot: i, Name: name}, nil
		}
		if name == "k" {
			return &Number{Value: 0.5}, nil
		}
		return nil, fmt.Errorf("no binding for %s", name)
	})
}

func compileString(t *testing.T, src string, r Resolver) Func {
	t.Helper()
	n, err := Parse(src)
	require.NoError(t, err)
	resolved, err := Resolve(n, r)
	require.NoError(t, err)
	f, err := Compile(resolved)
	require.NoError(t, err)
	return f
}

func TestCompile_Arithmetic(t *testing.T) {
	r := slots("A", "B")
	x := []float64{3, 4}

	tests := []struct {
		src  string
		want float64
	}{
		{"k*A", 1.5},
		{"A + B * 2", 11},
		{"(A + B) * 2", 14},
		{"A - B - 1", -2},
		{"A / B", 0.75},
		{"A ^ 2", 9},
		{"A ** 2", 9},
		{"2 ^ 3 ^ 2", 512},
		{"-A ^ 2", -9},
		{"exp(0)", 1},
		{"ln(exp(2))", 2},
		{"log(exp(1))", 1},
		{"log(2, 8)", 3},
		{"log10(1000)", 3},
		{"sqrt(B)", 2},
		{"pow(B, 0.5)", 2},
		{"abs(-A)", 3},
		{"min(A, B, 1)", 1},
		{"max(A, B)", 4},
		{"MAX(A)", 3},
		{"hill(A, A, 2)", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f := compileString(t, tt.src, r)
			assert.InDelta(t, tt.want, f(x), 1e-12)
		})
	}
}

func TestCompile_ReadsCurrentState(t *testing.T) {
	f := compileString(t, "k*A*B", slots("A", "B"))
	assert.Equal(t, 0.5*2*3, f([]float64{2, 3}))
	assert.Equal(t, 0.5*5*7, f([]float64{5, 7}))
}

func TestCompile_DivisionByZeroIsInf(t *testing.T) {
	f := compileString(t, "A / B", slots("A", "B"))
	assert.True(t, math.IsInf(f([]float64{1, 0}), 1))
}

func TestCompile_Errors(t *testing.T) {
	_, err := Compile(&Ident{Name: "q"})
	assert.ErrorIs(t, err, ErrUnresolved)

	n, err := Parse("nosuch(A)")
	require.NoError(t, err)
	resolved, err := Resolve(n, slots("A"))
	require.NoError(t, err)
	_, err = Compile(resolved)
	assert.ErrorIs(t, err, ErrUnknownFunction)

	n, err = Parse("exp(A, A)")
	require.NoError(t, err)
	resolved, err = Resolve(n, slots("A"))
	require.NoError(t, err)
	_, err = Compile(resolved)
	assert.ErrorIs(t, err, ErrArity)
}

func TestResolve_JoinsAllFailures(t *testing.T) {
	n, err := Parse("p*A + q*B")
	require.NoError(t, err)

	_, err = Resolve(n, slots("A"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p")
	assert.Contains(t, err.Error(), "q")
	assert.Contains(t, err.Error(), "B")
}

func TestResolve_StringShowsSlots(t *testing.T) {
	n, err := Parse("k * A / (1 + B)")
	require.NoError(t, err)
	resolved, err := Resolve(n, slots("A", "B"))
	require.NoError(t, err)
	assert.Equal(t, "0.5 * x[0] / (1 + x[1])", resolved.String())
}

func TestResolve_KeepsErrorTypes(t *testing.T) {
	sentinel := errors.New("collision")
	n, err := Parse("A + Z")
	require.NoError(t, err)
	_, err = Resolve(n, ResolverFunc(func(name string) (Node, error) {
		if name == "Z" {
			return nil, sentinel
		}
		return &Ref{Slot: 0, Name: name}, nil
	}))
	assert.ErrorIs(t, err, sentinel)
}

func TestBuiltins(t *testing.T) {
	names := Builtins()
	assert.Contains(t, names, "exp")
	assert.Contains(t, names, "hill")
	assert.IsIncreasing(t, names)
}
