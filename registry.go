package formula

import (
	"errors"
	"math/big"
	"sort"
)

// Func is a native computation from reals to a real. The evaluator calls it
// with exactly Arity operands.
type Func interface {
	// Call evaluates the function. The operands are passed in invoc, in the
	// order they appear in the formula. The function must set r to its result
	// and should not use the value of r otherwise. r has the precision of env.
	// Call may modify the elements of invoc.
	Call(env *Env, invoc []*big.Float, r *big.Float) error

	// Arity returns the number of operands the function consumes.
	Arity() int
}

// Assoc is the associativity of an operator.
type Assoc int8

const (
	// LeftAssoc groups repeated applications left to right.
	LeftAssoc Assoc = iota
	// RightAssoc groups repeated applications right to left.
	RightAssoc
)

// SymbolKind distinguishes functions from binary and prefix operators.
type SymbolKind int8

const (
	// SymbolFunc is a function called with an argument list.
	SymbolFunc SymbolKind = iota
	// SymbolBinary is an infix operator.
	SymbolBinary
	// SymbolUnary is a prefix operator.
	SymbolUnary
)

// Symbol describes an operator or function.
type Symbol struct {
	// Name is the text of the symbol in formulas.
	Name string
	// Kind is whether the symbol is a function or an operator.
	Kind SymbolKind
	// Tier is the binding tier of an operator. Lower binds tighter.
	Tier int8
	// Assoc is the associativity of an operator.
	Assoc Assoc
	// Fn computes the symbol's result.
	Fn Func
}

// Arity returns the number of operands the symbol consumes.
func (s *Symbol) Arity() int {
	return s.Fn.Arity()
}

// popsBefore reports whether s, already on the operator stack, must be
// emitted before pushing cur.
func (s *Symbol) popsBefore(cur *Symbol) bool {
	if cur.Assoc == RightAssoc {
		return s.Tier < cur.Tier
	}
	return s.Tier <= cur.Tier
}

// Registry is the set of operators and functions known to the pipeline. A
// Registry is immutable once created and safe for concurrent use.
type Registry struct {
	binary map[string]*Symbol
	unary  map[string]*Symbol
	funcs  map[string]*Symbol
	// prefixes holds every non-empty prefix of every operator and
	// punctuation symbol.
	prefixes map[string]bool
}

// punctuation contains the symbols which group expressions and separate
// function arguments.
var punctuation = []string{"(", ")", ","}

var defaultops = []Symbol{
	{Name: "~", Kind: SymbolUnary, Tier: 0, Assoc: RightAssoc, Fn: UnaryOp(complement)},
	{Name: "+", Kind: SymbolUnary, Tier: 0, Assoc: RightAssoc, Fn: UnaryOp(plus)},
	{Name: "-", Kind: SymbolUnary, Tier: 0, Assoc: RightAssoc, Fn: UnaryOp(neg)},
	{Name: "**", Kind: SymbolBinary, Tier: 1, Assoc: RightAssoc, Fn: BinaryOp(pow)},
	{Name: "*", Kind: SymbolBinary, Tier: 2, Assoc: LeftAssoc, Fn: BinaryOp(mul)},
	{Name: "/", Kind: SymbolBinary, Tier: 2, Assoc: LeftAssoc, Fn: BinaryOp(quo)},
	{Name: "%", Kind: SymbolBinary, Tier: 2, Assoc: LeftAssoc, Fn: BinaryOp(rem)},
	{Name: "+", Kind: SymbolBinary, Tier: 3, Assoc: LeftAssoc, Fn: BinaryOp(add)},
	{Name: "-", Kind: SymbolBinary, Tier: 3, Assoc: LeftAssoc, Fn: BinaryOp(sub)},
}

var globalfuncs = map[string]Func{
	"sqrt": Monadic((*big.Float).Sqrt),
	"func": Niladic(func(out *big.Float) *big.Float {
		return out.SetInt64(123)
	}),
	"D": Sum(3),
}

// RegistryOption is an option for creating a registry.
type RegistryOption interface {
	registryOption(funcs map[string]Func) map[string]Func
}

type (
	funcopt struct {
		name string
		fn   Func
	}
	nodefaultsopt struct{}
)

// RegisterFunc adds a function to a registry. To remove a default function,
// pass nil for fn. Panics if name is not a valid identifier.
func RegisterFunc(name string, fn Func) RegistryOption {
	if !isIdent(name) {
		panic("formula: invalid function name " + name)
	}
	return funcopt{name, fn}
}

func (o funcopt) registryOption(funcs map[string]Func) map[string]Func {
	if o.fn == nil {
		delete(funcs, o.name)
		return funcs
	}
	funcs[o.name] = o.fn
	return funcs
}

// DisableDefaultFuncs removes all default functions from a registry. Their
// names are parsed as variables instead. Functions registered by later options
// are kept.
func DisableDefaultFuncs() RegistryOption {
	return nodefaultsopt{}
}

func (nodefaultsopt) registryOption(funcs map[string]Func) map[string]Func {
	for k := range globalfuncs {
		delete(funcs, k)
	}
	return funcs
}

// NewRegistry creates a registry holding the default operators and functions,
// modified by the given options in order.
func NewRegistry(opts ...RegistryOption) *Registry {
	funcs := make(map[string]Func, len(globalfuncs))
	for k, v := range globalfuncs {
		funcs[k] = v
	}
	for _, opt := range opts {
		funcs = opt.registryOption(funcs)
	}
	reg := Registry{
		binary:   make(map[string]*Symbol),
		unary:    make(map[string]*Symbol),
		funcs:    make(map[string]*Symbol, len(funcs)),
		prefixes: make(map[string]bool),
	}
	for i := range defaultops {
		s := defaultops[i]
		switch s.Kind {
		case SymbolBinary:
			reg.binary[s.Name] = &s
		case SymbolUnary:
			reg.unary[s.Name] = &s
		}
		reg.addPrefixes(s.Name)
	}
	for _, p := range punctuation {
		reg.addPrefixes(p)
	}
	for k, v := range funcs {
		reg.funcs[k] = &Symbol{Name: k, Kind: SymbolFunc, Fn: v}
	}
	return &reg
}

func (reg *Registry) addPrefixes(sym string) {
	for i := 1; i <= len(sym); i++ {
		reg.prefixes[sym[:i]] = true
	}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry holding the default operators and
// functions.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Binary returns the binary operator named by text, or nil if there is none.
func (reg *Registry) Binary(text string) *Symbol {
	return reg.binary[text]
}

// Unary returns the prefix operator named by text, or nil if there is none.
func (reg *Registry) Unary(text string) *Symbol {
	return reg.unary[text]
}

// Function returns the function named by text, or nil if there is none.
func (reg *Registry) Function(text string) *Symbol {
	return reg.funcs[text]
}

// Funcs returns the sorted names of the registered functions.
func (reg *Registry) Funcs() []string {
	names := make([]string, 0, len(reg.funcs))
	for k := range reg.funcs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// symbolPrefix reports whether s is a prefix of some operator or
// punctuation symbol.
func (reg *Registry) symbolPrefix(s string) bool {
	return reg.prefixes[s]
}

// lookup gets the symbol which a classified token applies, or nil if the
// token is an operand or punctuation.
func (reg *Registry) lookup(tok Token) *Symbol {
	switch tok.Kind {
	case TokenOp:
		return reg.binary[tok.Text]
	case TokenUnary:
		return reg.unary[tok.Text]
	case TokenFunc:
		return reg.funcs[tok.Text]
	default:
		return nil
	}
}

type monadic struct {
	f func(out, in *big.Float) *big.Float
}

func (m monadic) Call(env *Env, invoc []*big.Float, r *big.Float) (err error) {
	in := invoc[0]
	x := new(big.Float).Copy(in)
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		err = rec.(error) // panic if not error
		if errors.As(err, new(*DomainError)) {
			return
		}
		if errors.As(err, &big.ErrNaN{}) {
			err = &DomainError{X: x, Arg: 1}
			return
		}
		panic(err)
	}()
	m.f(r, in)
	return nil
}

func (monadic) Arity() int {
	return 1
}

// Monadic wraps a function of one variable into a Func. f must set out to its
// result, to the precision of out; its return value is always ignored. If f is
// called on an argument outside f's domain, it should panic with an error of
// type big.ErrNaN, or that unwraps to it.
func Monadic(f func(out, in *big.Float) *big.Float) Func {
	return monadic{f}
}

type niladic struct {
	f func(out *big.Float) *big.Float
}

func (n niladic) Call(env *Env, invoc []*big.Float, r *big.Float) error {
	n.f(r)
	return nil
}

func (niladic) Arity() int {
	return 0
}

// Niladic wraps a function of zero variables, generally a function which
// computes a constant, into a Func. f must set out to its result; its return
// value is always ignored. Unlike Monadic, the wrapped function is expected
// never to panic.
func Niladic(f func(out *big.Float) *big.Float) Func {
	return niladic{f}
}

type unaryop func(out, x *big.Float) error

func (f unaryop) Call(env *Env, invoc []*big.Float, r *big.Float) error {
	return f(r, invoc[0])
}

func (unaryop) Arity() int {
	return 1
}

// UnaryOp wraps a fallible function of one operand into a Func.
func UnaryOp(f func(out, x *big.Float) error) Func {
	return unaryop(f)
}

type binaryop func(out, x, y *big.Float) error

func (f binaryop) Call(env *Env, invoc []*big.Float, r *big.Float) error {
	return f(r, invoc[0], invoc[1])
}

func (binaryop) Arity() int {
	return 2
}

// BinaryOp wraps a fallible function of two operands into a Func.
func BinaryOp(f func(out, x, y *big.Float) error) Func {
	return binaryop(f)
}

type sum int

func (n sum) Call(env *Env, invoc []*big.Float, r *big.Float) error {
	r.SetInt64(0)
	for _, v := range invoc {
		r.Add(r, v)
	}
	return nil
}

func (n sum) Arity() int {
	return int(n)
}

// Sum returns a Func which adds exactly n operands.
func Sum(n int) Func {
	if n < 0 {
		panic("formula: negative arity")
	}
	return sum(n)
}
