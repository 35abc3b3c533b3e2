package formula

import (
	"math/big"
	"strconv"
)

// Messages used by SyntaxError.
const (
	msgIllegalIdent   = "illegal identifier"
	msgNoBracket      = "no corresponding brackets"
	msgSyntax         = "syntax error"
	msgIllegalComma   = "illegal comma"
	msgUnexpectedEnd  = "unexpected end of formula"
	msgNotFunc        = "not a function"
	msgNoCall         = "function requires call arguments"
	msgMultipleAssign = "multiple assignments"
	msgAssignTarget   = "illegal assignment target"
)

// SyntaxError is an error indicating that a formula does not match the
// grammar. It implements InputError.
type SyntaxError struct {
	// Col is the position of the offending token.
	Col int
	// Token is the offending token, or the empty string at the end of input.
	Token string
	// Msg describes the problem, e.g. "illegal comma".
	Msg string
}

func (err *SyntaxError) Error() string {
	if err.Token == "" {
		return errpos(err.Col, err.Msg)
	}
	return errpos(err.Col, err.Msg+" "+strconv.Quote(err.Token))
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// ArityError is an error indicating an operator or function applied to the
// wrong number of operands. It implements InputError.
type ArityError struct {
	// Col is the position of the operator or function name.
	Col int
	// Func is the operator or function.
	Func string
	// Want is the arity of Func.
	Want int
	// Have is the number of operands that were available.
	Have int
}

func (err *ArityError) Error() string {
	msg := "missing arguments"
	if err.Have > err.Want {
		msg = "too many arguments"
	}
	return errpos(err.Col, msg+" to "+err.Func+": want "+strconv.Itoa(err.Want)+", have "+strconv.Itoa(err.Have))
}

func (err *ArityError) Pos() int {
	return err.Col
}

// ResolutionError is an error indicating an operand which is neither a
// defined variable nor a number. It implements InputError.
type ResolutionError struct {
	// Col is the position of the operand.
	Col int
	// Name is the operand text.
	Name string
}

func (err *ResolutionError) Error() string {
	return errpos(err.Col, "invalid variable "+strconv.Quote(err.Name))
}

func (err *ResolutionError) Pos() int {
	return err.Col
}

// DomainError is an error returned when an operator or function is applied to
// operands outside its domain. DomainError unwraps to big.ErrNaN.
type DomainError struct {
	// X is the out-of-domain argument.
	X *big.Float
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the operator or function.
	Func string
}

func (err *DomainError) Error() string {
	r := err.X.String() + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

func (err *DomainError) Unwrap() error {
	return big.ErrNaN{}
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*ArityError)(nil)
	_ InputError = (*ResolutionError)(nil)
)
