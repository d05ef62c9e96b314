package compiler

import (
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/searles/fractview/expr"
	"github.com/searles/fractview/parser"
)

func compile(t *testing.T, src string, opts Options) *Executable {
	t.Helper()
	e, diags := parser.Parse(src)
	if len(diags) > 0 {
		t.Fatalf("Parse(%q): %v", src, diags)
	}
	return New(NewPools(), opts).Compile(e)
}

// =============================================================================
// Lowering Tests
// =============================================================================

func TestCompile_Fusion(t *testing.T) {
	tests := []struct {
		src      string
		fused    int
		unfused  int
		disasm   string
		lastSwap bool
	}{
		{"z*c", 2, 3, "mul z", false},
		{"c - sin z", 3, 4, "sub swap c", true},
		{"sqr z + c", 3, 4, "add swap c", true},
		{"z^3", 2, 2, "powi 3", false},
		{"z^2.5", 2, 3, "pow #0 (2.5+0i)", false},
		{"sin z * cos z", 5, 5, "mul [2]", false},
		{"z + p", 2, 3, "load $p", false},
		{"z[2] - 7", 2, 3, "add z[2]", false},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			x := compile(t, tt.src, Options{})
			if x.Len() != tt.fused {
				t.Errorf("Len() = %d, want %d\n%s", x.Len(), tt.fused, x)
			}
			if !strings.Contains(x.String(), tt.disasm) {
				t.Errorf("disassembly lacks %q:\n%s", tt.disasm, x)
			}
			code := x.Code()
			if got := code[len(code)-1].Swap; got != tt.lastSwap && code[len(code)-1].Code == Binary {
				t.Errorf("last Swap = %v, want %v\n%s", got, tt.lastSwap, x)
			}
			if y := compile(t, tt.src, Options{NoFusion: true}); y.Len() != tt.unfused {
				t.Errorf("unfused Len() = %d, want %d\n%s", y.Len(), tt.unfused, y)
			}
		})
	}
}

func TestCompile_SharedPools(t *testing.T) {
	pools := NewPools()
	c := New(pools, Options{})
	for _, src := range []string{"1.5 z + P", "1.5 c p", "p - 1.5"} {
		e, _ := parser.Parse(src)
		c.Compile(e)
	}
	if n := len(pools.Consts()); n != 2 {
		t.Errorf("constant pool size = %d, want 2 (1.5 and -1.5)", n)
	}
	if n := pools.NumParams(); n != 1 {
		t.Errorf("parameter pool size = %d, want 1", n)
	}
	if i, ok := pools.ParamIndex("P"); !ok || i != 0 {
		t.Errorf("ParamIndex(P) = %d, %v, want 0, true", i, ok)
	}
}

func TestCompile_Aliases(t *testing.T) {
	x := compile(t, "zr + ci", Options{})
	got := x.Eval(complex(1, 2), []complex128{complex(3, 4)}, 0, nil)
	if got != 5 {
		t.Errorf("zr + ci = %v, want 5", got)
	}
}

func TestExecutable_MaxLag(t *testing.T) {
	tests := []struct {
		src  string
		want int
	}{
		{"c", 0},
		{"sqr z + c", 1},
		{"z + z[3] * z[2]", 3},
	}
	for _, tt := range tests {
		if got := compile(t, tt.src, Options{}).MaxLag(); got != tt.want {
			t.Errorf("MaxLag(%q) = %d, want %d", tt.src, got, tt.want)
		}
	}
}

func TestExecutable_PanicsOnShortHistory(t *testing.T) {
	x := compile(t, "z[3]", Options{})
	defer func() {
		if recover() == nil {
			t.Error("Eval with a short history did not panic")
		}
	}()
	x.Eval(0, []complex128{1, 2}, 0, nil)
}

func TestExecutable_PanicsOnMalformedStream(t *testing.T) {
	x := &Executable{code: []Instr{{Code: Unary, Op: expr.Sin}}, pools: NewPools()}
	defer func() {
		if recover() == nil {
			t.Error("malformed stream did not panic")
		}
	}()
	x.Eval(0, []complex128{0}, 0, nil)
}

// =============================================================================
// Equivalence Tests
// =============================================================================

var leaves = []expr.Expr{
	expr.NewVar("z"),
	expr.NewVar("c"),
	expr.NewVar("n"),
	expr.NewVar("p"),
	expr.NewVar("q"),
	expr.NewVar("zi"),
	expr.Lag(2),
	expr.Lag(3),
}

func randomTree(rng *rand.Rand, depth int) expr.Expr {
	if depth == 0 || rng.IntN(4) == 0 {
		switch rng.IntN(4) {
		case 0:
			return expr.N(complex(float64(rng.IntN(9)-4), 0))
		case 1:
			return expr.N(complex(rng.NormFloat64(), rng.NormFloat64()))
		}
		return leaves[rng.IntN(len(leaves))]
	}
	ops := expr.Ops()
	op := ops[rng.IntN(len(ops))]
	args := make([]expr.Expr, op.Arity())
	for i := range args {
		args[i] = randomTree(rng, depth-1)
	}
	return expr.Apply(op, args...)
}

func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func same(a, b complex128) bool {
	return sameFloat(real(a), real(b)) && sameFloat(imag(a), imag(b))
}

func randomComplex(rng *rand.Rand) complex128 {
	return complex(4*rng.Float64()-2, 4*rng.Float64()-2)
}

func TestExecutable_MatchesTreeEval(t *testing.T) {
	for _, noFusion := range []bool{false, true} {
		rng := rand.New(rand.NewPCG(3, 5))
		evals := 0
		for range 250 {
			e := randomTree(rng, 5)
			pools := NewPools()
			x := New(pools, Options{NoFusion: noFusion}).Compile(e)

			for range 40 {
				env := &expr.Env{
					Point:   randomComplex(rng),
					History: []complex128{randomComplex(rng), randomComplex(rng), randomComplex(rng)},
					N:       rng.IntN(100),
					Params:  map[string]complex128{"p": randomComplex(rng), "q": randomComplex(rng)},
				}
				params := make([]complex128, pools.NumParams())
				for i, name := range pools.Params() {
					params[i] = env.Params[name]
				}
				want := expr.Eval(e, env)
				got := x.Eval(env.Point, env.History, env.N, params)
				if !same(got, want) {
					t.Fatalf("NoFusion=%v: %v at c=%v history=%v: compiled %v, tree %v\n%s",
						noFusion, e, env.Point, env.History, got, want, x)
				}
				evals++
			}
		}
		if evals < 10000 {
			t.Errorf("only %d evaluations", evals)
		}
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkEval_Mandelbrot(b *testing.B) {
	e, _ := parser.Parse("sqr z + c")
	x := New(NewPools(), Options{}).Compile(e)
	history := []complex128{complex(0.1, 0.2)}
	for b.Loop() {
		history[0] = x.Eval(complex(-0.5, 0.5), history, 1, nil)
		if real(history[0])*real(history[0]) > 4 {
			history[0] = 0
		}
	}
}
