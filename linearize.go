package formula

import (
	"github.com/edwingeng/deque"
)

// linearize converts validated tokens to postfix order by shunting-yard.
// Function tokens are emitted after their closing bracket, so each follows
// all of its arguments.
func linearize(reg *Registry, toks []Token) ([]Token, error) {
	out := make([]Token, 0, len(toks))
	stack := deque.NewDeque()
	// unwind moves operators to the output up to the nearest open bracket,
	// which it leaves on the stack. Reports whether one was found.
	unwind := func() bool {
		for stack.Len() != 0 {
			top := stack.Back().(Token)
			if top.Kind == TokenOpen {
				return true
			}
			out = append(out, top)
			stack.PopBack()
		}
		return false
	}
	for _, tok := range toks {
		switch tok.Kind {
		case TokenFunc, TokenOpen:
			stack.PushBack(tok)
		case TokenSep:
			if !unwind() {
				return nil, &SyntaxError{Col: tok.Pos, Token: tok.Text, Msg: msgIllegalComma}
			}
		case TokenOp, TokenUnary:
			cur := reg.lookup(tok)
			if cur == nil {
				panic("formula: unregistered operator " + tok.String())
			}
			for stack.Len() != 0 {
				top := stack.Back().(Token)
				if top.Kind != TokenOp && top.Kind != TokenUnary {
					break
				}
				if !reg.lookup(top).popsBefore(cur) {
					break
				}
				out = append(out, top)
				stack.PopBack()
			}
			stack.PushBack(tok)
		case TokenClose:
			if !unwind() {
				return nil, &SyntaxError{Col: tok.Pos, Token: tok.Text, Msg: msgNoBracket}
			}
			stack.PopBack()
			if stack.Len() != 0 {
				if top := stack.Back().(Token); top.Kind == TokenFunc {
					out = append(out, top)
					stack.PopBack()
				}
			}
		default:
			out = append(out, tok)
		}
	}
	for stack.Len() != 0 {
		top := stack.PopBack().(Token)
		if top.Kind == TokenOpen {
			return nil, &SyntaxError{Col: top.Pos, Token: top.Text, Msg: msgNoBracket}
		}
		out = append(out, top)
	}
	return out, nil
}
