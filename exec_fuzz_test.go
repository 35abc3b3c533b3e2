package formula_test

import (
	"math/big"
	"testing"

	"github.com/zephyrtronium/formula"
)

func FuzzExec(f *testing.F) {
	f.Add("x")
	f.Add("y = x + 1")
	f.Add("1×2")
	f.Add("D(1, 2, sqrt(-x))")
	f.Add("~-~0x7f % (3 ** -2)")
	f.Fuzz(func(t *testing.T, s string) {
		env := formula.NewEnv(formula.SetVar("x", new(big.Float)))
		formula.Exec(nil, env, s)
	})
}
