package formula

import (
	"math/big"
	"testing"
)

func TestDefaultSymbols(t *testing.T) {
	cases := []struct {
		name  string
		kind  SymbolKind
		tier  int8
		assoc Assoc
		arity int
	}{
		{"~", SymbolUnary, 0, RightAssoc, 1},
		{"+", SymbolUnary, 0, RightAssoc, 1},
		{"-", SymbolUnary, 0, RightAssoc, 1},
		{"**", SymbolBinary, 1, RightAssoc, 2},
		{"*", SymbolBinary, 2, LeftAssoc, 2},
		{"/", SymbolBinary, 2, LeftAssoc, 2},
		{"%", SymbolBinary, 2, LeftAssoc, 2},
		{"+", SymbolBinary, 3, LeftAssoc, 2},
		{"-", SymbolBinary, 3, LeftAssoc, 2},
		{"sqrt", SymbolFunc, 0, LeftAssoc, 1},
		{"func", SymbolFunc, 0, LeftAssoc, 0},
		{"D", SymbolFunc, 0, LeftAssoc, 3},
	}
	reg := DefaultRegistry()
	for _, c := range cases {
		var s *Symbol
		switch c.kind {
		case SymbolUnary:
			s = reg.Unary(c.name)
		case SymbolBinary:
			s = reg.Binary(c.name)
		case SymbolFunc:
			s = reg.Function(c.name)
		}
		if s == nil {
			t.Errorf("no symbol %q of kind %d", c.name, c.kind)
			continue
		}
		if s.Name != c.name || s.Kind != c.kind || s.Tier != c.tier || s.Assoc != c.assoc || s.Arity() != c.arity {
			t.Errorf("%q: want %+v, got %+v with arity %d", c.name, c, *s, s.Arity())
		}
	}
	if s := reg.Binary("~"); s != nil {
		t.Errorf("~ is binary: %+v", *s)
	}
	if s := reg.Function("pi"); s != nil {
		t.Errorf("pi is a function: %+v", *s)
	}
}

func TestSymbolPrefixes(t *testing.T) {
	for _, s := range []string{"~", "*", "**", "/", "%", "+", "-", "(", ")", ","} {
		if !defaultRegistry.symbolPrefix(s) {
			t.Errorf("%q is not a symbol prefix", s)
		}
	}
	for _, s := range []string{"", "***", "=", "x", "1", "sqrt", "*-"} {
		if defaultRegistry.symbolPrefix(s) {
			t.Errorf("%q is a symbol prefix", s)
		}
	}
}

func TestPopsBefore(t *testing.T) {
	reg := defaultRegistry
	cases := []struct {
		top, cur *Symbol
		pop      bool
	}{
		{reg.Binary("+"), reg.Binary("-"), true},
		{reg.Binary("*"), reg.Binary("+"), true},
		{reg.Binary("+"), reg.Binary("*"), false},
		{reg.Binary("**"), reg.Binary("**"), false},
		{reg.Binary("**"), reg.Binary("*"), true},
		{reg.Unary("-"), reg.Binary("**"), true},
		{reg.Unary("-"), reg.Unary("-"), false},
		{reg.Binary("**"), reg.Unary("-"), false},
	}
	for _, c := range cases {
		if got := c.top.popsBefore(c.cur); got != c.pop {
			t.Errorf("%s (tier %d) before %s (tier %d): want %t, got %t", c.top.Name, c.top.Tier, c.cur.Name, c.cur.Tier, c.pop, got)
		}
	}
}

func TestRegistryOptions(t *testing.T) {
	twice := Monadic(func(out, in *big.Float) *big.Float {
		return out.Add(in, in)
	})
	reg := NewRegistry(DisableDefaultFuncs(), RegisterFunc("twice", twice))
	if got, want := reg.Funcs(), []string{"twice"}; len(got) != 1 || got[0] != want[0] {
		t.Errorf("want funcs %q, got %q", want, got)
	}
	env := NewEnv(SetVar("sqrt", big.NewFloat(5)))
	r, err := Exec(reg, env, "twice(sqrt)")
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := r.Value.Float64(); f != 10 {
		t.Errorf("want 10, got %g", r.Value)
	}
	if _, err := Exec(reg, env, "sqrt(4)"); err == nil {
		t.Error("disabled sqrt still callable")
	}
	// The default registry is unaffected.
	if defaultRegistry.Function("twice") != nil || defaultRegistry.Function("sqrt") == nil {
		t.Errorf("default registry changed: %q", defaultRegistry.Funcs())
	}

	reg = NewRegistry(RegisterFunc("D", nil))
	if reg.Function("D") != nil || reg.Function("sqrt") == nil {
		t.Errorf("removing D gave %q", reg.Funcs())
	}
}

func TestRegisterFuncName(t *testing.T) {
	for _, name := range []string{"", "1x", "a-b", "**"} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("registering %q didn't panic", name)
				}
			}()
			RegisterFunc(name, Sum(1))
		}()
	}
}

func TestSum(t *testing.T) {
	env := NewEnv()
	for n := 0; n < 5; n++ {
		f := Sum(n)
		if f.Arity() != n {
			t.Errorf("Sum(%d) has arity %d", n, f.Arity())
		}
		invoc := make([]*big.Float, n)
		for i := range invoc {
			invoc[i] = big.NewFloat(float64(i + 1))
		}
		r := new(big.Float).SetPrec(env.Prec())
		if err := f.Call(env, invoc, r); err != nil {
			t.Fatal(err)
		}
		if got, want := r.Cmp(big.NewFloat(float64(n*(n+1)/2))), 0; got != want {
			t.Errorf("Sum(%d) gave %g", n, r)
		}
	}
}
