package formula

import "strconv"

// Token is a lexical token of a formula. The tokenizer produces tokens with
// kind TokenRaw; the grammar validator classifies them.
type Token struct {
	// Text is the token as it appeared in the formula.
	Text string
	// Kind is the classification of the token.
	Kind TokenKind
	// Pos is the 1-based rune column of the start of the token.
	Pos int

	// argc is the number of arguments supplied to a function call token.
	argc int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// rpn renders the token as it appears in an RPN listing.
func (t Token) rpn() string {
	if t.Kind == TokenUnary {
		return "u" + t.Text
	}
	return t.Text
}

// TokenKind is the classification of a token.
type TokenKind int8

const (
	// TokenRaw is a token which has not been classified.
	TokenRaw TokenKind = iota
	// TokenNum is a decimal number, e.g. 1.5.
	TokenNum
	// TokenHex is a hexadecimal integer, e.g. 0x1F.
	TokenHex
	// TokenIdent is a variable name.
	TokenIdent
	// TokenFunc is the name of a registered function in call position.
	TokenFunc
	// TokenOp is a binary operator.
	TokenOp
	// TokenUnary is a prefix operator.
	TokenUnary
	// TokenOpen is an open parenthesis.
	TokenOpen
	// TokenClose is a close parenthesis.
	TokenClose
	// TokenSep is a function argument separator.
	TokenSep
)

//go:generate go mod edit -require=golang.org/x/tools@v0.24.0
//go:generate go mod download
//go:generate go run golang.org/x/tools/cmd/stringer -type=TokenKind -trimprefix=Token
//go:generate go mod tidy
