package formula

// expr    = term { ("+" | "-") term }
// term    = factor { ("**" | "*" | "/" | "%") factor }
// factor  = ("+" | "-" | "~") factor | factor2
// factor2 = "(" expr ")" | item
// item    = literal [ "(" [ arglist ] ")" ]
// arglist = expr { "," expr }
// literal = decimal | hex | ident
//
// The parser only recognizes; precedence among the operators of a term is
// resolved afterward by linearize.

// parser is a recursive-descent recognizer over a raw token slice. It emits
// the same tokens in the same order, classified.
type parser struct {
	reg  *Registry
	toks []Token
	// k is the index of the next unconsumed token.
	k   int
	out []Token
	// end is the column just past the input.
	end int
}

// validate checks that toks form exactly one expression. The result holds
// the same tokens, classified, with prefix operators marked as TokenUnary.
func validate(reg *Registry, toks []Token, end int) ([]Token, error) {
	p := parser{
		reg:  reg,
		toks: toks,
		out:  make([]Token, 0, len(toks)),
		end:  end,
	}
	if err := p.expr(); err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		// Unconsumed input.
		if tok.Text == "," {
			return nil, &SyntaxError{Col: tok.Pos, Token: tok.Text, Msg: msgIllegalComma}
		}
		return nil, &SyntaxError{Col: tok.Pos, Token: tok.Text, Msg: msgSyntax}
	}
	return p.out, nil
}

func (p *parser) peek() (Token, bool) {
	if p.k >= len(p.toks) {
		return Token{}, false
	}
	return p.toks[p.k], true
}

// accept consumes the next token as kind if its text is one of texts.
func (p *parser) accept(kind TokenKind, texts ...string) bool {
	tok, ok := p.peek()
	if !ok {
		return false
	}
	for _, s := range texts {
		if tok.Text == s {
			tok.Kind = kind
			p.out = append(p.out, tok)
			p.k++
			return true
		}
	}
	return false
}

func (p *parser) expr() error {
	if err := p.term(); err != nil {
		return err
	}
	for p.accept(TokenOp, "+", "-") {
		if err := p.term(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) term() error {
	if err := p.factor(); err != nil {
		return err
	}
	for p.accept(TokenOp, "**", "*", "/", "%") {
		if err := p.factor(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) factor() error {
	if p.accept(TokenUnary, "+", "-", "~") {
		return p.factor()
	}
	return p.factor2()
}

func (p *parser) factor2() error {
	open, _ := p.peek()
	if !p.accept(TokenOpen, "(") {
		return p.item()
	}
	if err := p.expr(); err != nil {
		return err
	}
	return p.close(open)
}

// close consumes the close bracket matching open.
func (p *parser) close(open Token) error {
	if p.accept(TokenClose, ")") {
		return nil
	}
	tok, ok := p.peek()
	switch {
	case !ok:
		return &SyntaxError{Col: open.Pos, Token: open.Text, Msg: msgNoBracket}
	case tok.Text == ",":
		return &SyntaxError{Col: tok.Pos, Token: tok.Text, Msg: msgIllegalComma}
	default:
		return &SyntaxError{Col: tok.Pos, Token: tok.Text, Msg: msgSyntax}
	}
}

func (p *parser) item() error {
	tok, ok := p.peek()
	if !ok {
		return &SyntaxError{Col: p.end, Msg: msgUnexpectedEnd}
	}
	if p.reg.symbolPrefix(tok.Text) {
		if tok.Text == "," {
			return &SyntaxError{Col: tok.Pos, Token: tok.Text, Msg: msgIllegalComma}
		}
		return &SyntaxError{Col: tok.Pos, Token: tok.Text, Msg: msgSyntax}
	}
	tok.Kind = classify(tok.Text)
	if tok.Kind == TokenRaw {
		return &SyntaxError{Col: tok.Pos, Token: tok.Text, Msg: msgIllegalIdent}
	}
	p.k++
	fn := tok.Kind == TokenIdent && p.reg.Function(tok.Text) != nil
	if fn {
		tok.Kind = TokenFunc
	}
	at := len(p.out)
	p.out = append(p.out, tok)
	open, _ := p.peek()
	if !p.accept(TokenOpen, "(") {
		if fn {
			return &SyntaxError{Col: tok.Pos, Token: tok.Text, Msg: msgNoCall}
		}
		return nil
	}
	if !fn {
		return &SyntaxError{Col: tok.Pos, Token: tok.Text, Msg: msgNotFunc}
	}
	if p.accept(TokenClose, ")") {
		// Niladic call.
		return nil
	}
	n, err := p.arglist()
	if err != nil {
		return err
	}
	p.out[at].argc = n
	return p.close(open)
}

// arglist parses one or more comma-separated expressions and returns their
// number.
func (p *parser) arglist() (int, error) {
	n := 0
	for {
		if err := p.expr(); err != nil {
			return 0, err
		}
		n++
		if !p.accept(TokenSep, ",") {
			return n, nil
		}
	}
}

// classify determines the kind of a literal token, or TokenRaw if it is not a
// valid literal.
func classify(text string) TokenKind {
	switch {
	case isDecimal(text):
		return TokenNum
	case isHex(text):
		return TokenHex
	case isIdent(text):
		return TokenIdent
	default:
		return TokenRaw
	}
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

// isDecimal reports whether s is digits with an optional fractional part. At
// least one digit must follow the point, if there is one.
func isDecimal(s string) bool {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == len(s) {
		return i > 0
	}
	if s[i] != '.' {
		return false
	}
	i++
	j := i
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	return j == len(s) && j > i
}

// isHex reports whether s is a 0x-prefixed hexadecimal integer.
func isHex(s string) bool {
	if len(s) < 3 || s[0] != '0' || s[1] != 'x' {
		return false
	}
	for i := 2; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return false
		}
	}
	return true
}

// isIdent reports whether s is a letter or underscore followed by letters,
// digits, and underscores.
func isIdent(s string) bool {
	if s == "" || !isLetter(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isLetter(s[i]) && !isDigit(s[i]) {
			return false
		}
	}
	return true
}
