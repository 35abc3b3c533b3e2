package formula

import (
	"iter"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	src string
	reg *Registry
	// off is the byte offset of the next rune to scan.
	off int
	// col is the 1-based rune column of the next rune to scan.
	col int
}

func lex(src string, reg *Registry) *lexer {
	return &lexer{
		src: src,
		reg: reg,
		col: 1,
	}
}

// next scans the next raw token from the input. The result is false once the
// input is exhausted.
//
// A token grows one rune at a time for as long as the grown text is a prefix
// of some operator or punctuation symbol. When it cannot grow that way, it
// ends if it is itself a symbol prefix or if the next rune begins a symbol;
// otherwise it keeps growing. Numbers and names accumulate freely while
// symbols split eagerly, preferring the longest symbol, e.g. ** over *.
// Whitespace always ends a token.
func (l *lexer) next() (Token, bool) {
	for l.off < len(l.src) {
		r, sz := utf8.DecodeRuneInString(l.src[l.off:])
		if !unicode.IsSpace(r) {
			break
		}
		l.off += sz
		l.col++
	}
	if l.off >= len(l.src) {
		return Token{}, false
	}
	start, pos := l.off, l.col
	_, sz := utf8.DecodeRuneInString(l.src[l.off:])
	l.off += sz
	l.col++
	for l.off < len(l.src) {
		r, sz := utf8.DecodeRuneInString(l.src[l.off:])
		if unicode.IsSpace(r) {
			break
		}
		if !l.reg.symbolPrefix(l.src[start:l.off+sz]) {
			if l.reg.symbolPrefix(l.src[start:l.off]) || l.reg.symbolPrefix(l.src[l.off:l.off+sz]) {
				break
			}
		}
		l.off += sz
		l.col++
	}
	return Token{Text: l.src[start:l.off], Kind: TokenRaw, Pos: pos}, true
}

// all scans every remaining token.
func (l *lexer) all() []Token {
	var toks []Token
	for tok, ok := l.next(); ok; tok, ok = l.next() {
		toks = append(toks, tok)
	}
	return toks
}

// Tokenize splits a formula into raw token strings using the operator and
// punctuation symbols of reg, or of the default registry if reg is nil. The
// sequence is lazy and restarts from the beginning each time it is ranged
// over. Tokenizing never fails; invalid tokens are reported by Compile.
func Tokenize(src string, reg *Registry) iter.Seq[string] {
	if reg == nil {
		reg = defaultRegistry
	}
	return func(yield func(string) bool) {
		l := lex(src, reg)
		for tok, ok := l.next(); ok; tok, ok = l.next() {
			if !yield(tok.Text) {
				return
			}
		}
	}
}
