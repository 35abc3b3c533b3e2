package formula

import (
	"errors"
	"math/big"
	"sort"
	"strings"
	"unicode/utf8"

	"fortio.org/log"
	"github.com/zephyrtronium/bigfloat"
)

// Env is the variable environment shared by evaluations. A new Env holds the
// constant pi. It is not safe to use an Env concurrently; see Session.
type Env struct {
	nums  map[string]*big.Float
	names map[string]*big.Float
	// pi is the built-in value of pi, so that Clone can recompute it when
	// the precision changes.
	pi   *big.Float
	prec uint
}

// EnvOption is an option used when creating an environment.
type EnvOption interface {
	envOption()
}

type (
	varopt struct {
		name string
		val  *big.Float
	}
	varsopt map[string]*big.Float
	precopt uint
)

func (varopt) envOption()  {}
func (varsopt) envOption() {}
func (precopt) envOption() {}

// SetVar sets the value of a variable in the environment.
func SetVar(name string, val *big.Float) EnvOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the environment.
func SetVars(vars map[string]*big.Float) EnvOption {
	return varsopt(vars)
}

// Prec sets the precision of calculations in bits. A precision of 0 selects
// the default of 64.
func Prec(prec uint) EnvOption {
	if prec == 0 {
		prec = 64
	}
	return precopt(prec)
}

// NewEnv creates a new environment holding pi. If no precision is given, the
// default is 64.
func NewEnv(opts ...EnvOption) *Env {
	prec := lastPrec(opts, 64)
	pi := bigfloat.Pi(new(big.Float).SetPrec(prec))
	env := Env{
		nums:  make(map[string]*big.Float),
		names: map[string]*big.Float{"pi": pi},
		pi:    pi,
		prec:  prec,
	}
	return env.Clone(opts...)
}

// lastPrec finds the last precision option, or def if there is none.
func lastPrec(opts []EnvOption, def uint) uint {
	for i := len(opts) - 1; i >= 0; i-- {
		if p, ok := opts[i].(precopt); ok {
			return uint(p)
		}
	}
	return def
}

// Set sets the value of a variable. Returns env for chaining.
func (env *Env) Set(name string, value *big.Float) *Env {
	if env.names == nil {
		env.names = make(map[string]*big.Float)
	}
	env.names[name] = new(big.Float).SetPrec(env.prec).Set(value)
	return env
}

// Lookup returns a copy of the value of a variable. If there is no such
// variable in the environment, then the result is nil.
func (env *Env) Lookup(name string) *big.Float {
	v := env.names[name]
	if v == nil {
		return nil
	}
	return new(big.Float).Copy(v)
}

// Names returns the sorted names of the variables in the environment.
func (env *Env) Names() []string {
	names := make([]string, 0, len(env.names))
	for k := range env.names {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Prec returns the precision to which values are computed in the environment.
func (env *Env) Prec() uint {
	return env.prec
}

// Clone creates a copy of an environment and applies options to it.
func (env *Env) Clone(opts ...EnvOption) *Env {
	n := Env{
		nums:  make(map[string]*big.Float, len(env.nums)),
		names: make(map[string]*big.Float, len(env.names)),
		prec:  lastPrec(opts, env.prec),
	}
	// Copy numbers only if the new precision is no higher than the old, so
	// that we always use the precision we need.
	if n.prec <= env.prec {
		for k, v := range env.nums {
			n.nums[k] = new(big.Float).SetPrec(n.prec).Set(v)
		}
	}
	// Values are never modified in place, so at the same precision we can
	// just copy pointers.
	for name, val := range env.names {
		switch {
		case val == env.pi && n.prec != env.prec:
			val = bigfloat.Pi(new(big.Float).SetPrec(n.prec))
			n.pi = val
		case val == env.pi:
			n.pi = val
		case n.prec != env.prec:
			val = new(big.Float).SetPrec(n.prec).Set(val)
		}
		n.names[name] = val
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.names[opt.name] = new(big.Float).SetPrec(n.prec).Set(opt.val)
		case varsopt:
			for k, v := range opt {
				n.names[k] = new(big.Float).SetPrec(n.prec).Set(v)
			}
		case precopt:
			// Already done. Do nothing.
		default:
			panic("formula: unknown option type")
		}
	}
	return &n
}

// num gets a possibly cached number from its text.
func (env *Env) num(s string) (*big.Float, bool) {
	if r := env.nums[s]; r != nil {
		return r, true
	}
	// Base 0 accepts the 0x prefix and otherwise parses decimal.
	r, _, err := new(big.Float).SetPrec(env.prec).Parse(s, 0)
	if err != nil {
		return nil, false
	}
	if env.nums == nil {
		env.nums = make(map[string]*big.Float)
	}
	env.nums[s] = r
	return r, true
}

// operand is an entry on the evaluation stack. Literal operands are resolved
// only when an operator consumes them.
type operand struct {
	tok Token
	// val is the computed value, or nil if tok has not been resolved.
	val *big.Float
}

// resolve gets the value of an operand. The result may be modified.
func (env *Env) resolve(x operand) (*big.Float, error) {
	if x.val != nil {
		return x.val, nil
	}
	if v := env.names[x.tok.Text]; v != nil {
		return new(big.Float).SetPrec(env.prec).Set(v), nil
	}
	if x.tok.Kind == TokenNum || x.tok.Kind == TokenHex {
		if v, ok := env.num(x.tok.Text); ok {
			return new(big.Float).SetPrec(env.prec).Set(v), nil
		}
	}
	return nil, &ResolutionError{Col: x.tok.Pos, Name: x.tok.Text}
}

// Program is a compiled formula in postfix order. A Program is immutable and
// may be evaluated any number of times with any environment.
type Program struct {
	reg *Registry
	src string
	// col is the column at which src begins in the formula it came from.
	col int
	rpn []Token
}

// Compile tokenizes, validates, and linearizes an expression using the
// symbols of reg, or of the default registry if reg is nil.
func Compile(reg *Registry, src string) (*Program, error) {
	if reg == nil {
		reg = defaultRegistry
	}
	return compile(reg, src, 1)
}

func compile(reg *Registry, src string, col int) (*Program, error) {
	l := lex(src, reg)
	l.col = col
	raw := l.all()
	toks, err := validate(reg, raw, l.col)
	if err != nil {
		return nil, err
	}
	rpn, err := linearize(reg, toks)
	if err != nil {
		return nil, err
	}
	prog := &Program{reg: reg, src: src, col: col, rpn: rpn}
	log.LogVf("compiled %q to %v", src, prog)
	return prog, nil
}

// String renders the program in postfix order. Prefix operators have a u
// prefix, e.g. "1 u- 2 -".
func (prog *Program) String() string {
	var b strings.Builder
	for i, tok := range prog.rpn {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok.rpn())
	}
	return b.String()
}

// Tokens returns the program's tokens in postfix order.
func (prog *Program) Tokens() []Token {
	return append([]Token(nil), prog.rpn...)
}

// Source returns the expression the program was compiled from.
func (prog *Program) Source() string {
	return prog.src
}

// Vars returns the sorted names of the variables the program reads.
func (prog *Program) Vars() []string {
	seen := make(map[string]bool)
	var names []string
	for _, tok := range prog.rpn {
		if tok.Kind == TokenIdent && !seen[tok.Text] {
			seen[tok.Text] = true
			names = append(names, tok.Text)
		}
	}
	sort.Strings(names)
	return names
}

// Eval evaluates the program with an environment. Eval never assigns
// variables; see Exec.
func (prog *Program) Eval(env *Env) (*big.Float, error) {
	stack := make([]operand, 0, len(prog.rpn))
	for _, tok := range prog.rpn {
		sym := prog.reg.lookup(tok)
		if sym == nil {
			stack = append(stack, operand{tok: tok})
			continue
		}
		n := sym.Arity()
		if tok.Kind == TokenFunc && tok.argc != n {
			return nil, &ArityError{Col: tok.Pos, Func: tok.Text, Want: n, Have: tok.argc}
		}
		if len(stack) < n {
			return nil, &ArityError{Col: tok.Pos, Func: tok.Text, Want: n, Have: len(stack)}
		}
		args := stack[len(stack)-n:]
		invoc := make([]*big.Float, n)
		for i, x := range args {
			v, err := env.resolve(x)
			if err != nil {
				return nil, err
			}
			invoc[i] = v
		}
		r := new(big.Float).SetPrec(env.prec)
		if err := sym.Fn.Call(env, invoc, r); err != nil {
			var de *DomainError
			if errors.As(err, &de) && de.Func == "" {
				de.Func = tok.rpn()
			}
			return nil, err
		}
		log.LogVf("%s %v = %g", tok.rpn(), invoc, r)
		stack = append(stack[:len(stack)-n], operand{tok: tok, val: r})
	}
	switch len(stack) {
	case 0:
		return nil, &SyntaxError{Col: prog.col, Msg: msgUnexpectedEnd}
	case 1:
		return env.resolve(stack[0])
	default:
		// Not reachable from validated input.
		x := stack[1].tok
		return nil, &SyntaxError{Col: x.Pos, Token: x.Text, Msg: msgSyntax}
	}
}

// Result is the outcome of executing a formula.
type Result struct {
	// Value is the value of the expression.
	Value *big.Float
	// Name is the variable the value was assigned to, or the empty string if
	// the formula is not an assignment.
	Name string
	// Prog is the compiled expression.
	Prog *Program
}

// Exec evaluates a formula, which is either an expression or an assignment
// "name = expression". An assignment stores the value in env only if the
// expression evaluates successfully. If reg is nil, the default registry is
// used.
func Exec(reg *Registry, env *Env, formula string) (Result, error) {
	if reg == nil {
		reg = defaultRegistry
	}
	return execute(reg, env, formula, func(src string, col int) (*Program, error) {
		return compile(reg, src, col)
	})
}

// execute implements Exec with a given compiler, which receives the
// expression text and the column where it starts.
func execute(reg *Registry, env *Env, formula string, comp func(string, int) (*Program, error)) (Result, error) {
	name, src, col, err := splitAssign(reg, formula)
	if err != nil {
		return Result{}, err
	}
	prog, err := comp(src, col)
	if err != nil {
		return Result{}, err
	}
	v, err := prog.Eval(env)
	if err != nil {
		return Result{}, err
	}
	if name != "" {
		env.Set(name, v)
		log.LogVf("assigned %s = %g", name, v)
	}
	return Result{Value: v, Name: name, Prog: prog}, nil
}

// splitAssign separates an assignment target from its expression. For a
// formula without an assignment, name is empty. col is the column at which
// src begins.
func splitAssign(reg *Registry, formula string) (name, src string, col int, err error) {
	k := strings.IndexByte(formula, '=')
	if k < 0 {
		return "", formula, 1, nil
	}
	if j := strings.IndexByte(formula[k+1:], '='); j >= 0 {
		c := utf8.RuneCountInString(formula[:k+1+j]) + 1
		return "", "", 0, &SyntaxError{Col: c, Token: "=", Msg: msgMultipleAssign}
	}
	name = strings.TrimSpace(formula[:k])
	if !isIdent(name) || reg.Function(name) != nil {
		return "", "", 0, &SyntaxError{Col: 1, Token: name, Msg: msgAssignTarget}
	}
	return name, formula[k+1:], utf8.RuneCountInString(formula[:k+1]) + 1, nil
}

// EvalString is a shortcut to compile and evaluate an expression with the
// default registry in a new environment.
func EvalString(src string, opts ...EnvOption) (*big.Float, error) {
	prog, err := Compile(nil, src)
	if err != nil {
		return nil, err
	}
	return prog.Eval(NewEnv(opts...))
}
