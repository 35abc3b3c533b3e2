package formula

import (
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"
)

func FuzzTokenize(f *testing.F) {
	f.Add("x")
	f.Add("1 ** -2")
	f.Add("1×2")
	f.Add("sqrt(a,\tb) *** \xff")
	f.Fuzz(func(t *testing.T, s string) {
		var want strings.Builder
		for i := 0; i < len(s); {
			r, sz := utf8.DecodeRuneInString(s[i:])
			if !unicode.IsSpace(r) {
				want.WriteString(s[i : i+sz])
			}
			i += sz
		}
		var got strings.Builder
		for tok := range Tokenize(s, nil) {
			if tok == "" {
				t.Fatalf("empty token from %q", s)
			}
			got.WriteString(tok)
		}
		if got.String() != want.String() {
			t.Errorf("tokens of %q join to %q, want %q", s, got.String(), want.String())
		}
	})
}
