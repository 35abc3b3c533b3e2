package formula

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// maxPowBits bounds |y*log2(x)| for x**y. Beyond it the result exponent is
// outside the range of big.Float, so the result is ±Inf or 0 without calling
// into bigfloat.
const maxPowBits = 1 << 32

func plus(out, x *big.Float) error {
	out.Set(x)
	return nil
}

func neg(out, x *big.Float) error {
	out.Neg(x)
	return nil
}

// complement truncates x toward zero to a 64-bit integer and takes its
// bitwise complement.
func complement(out, x *big.Float) error {
	if x.IsInf() {
		return &DomainError{X: new(big.Float).Copy(x), Arg: 1}
	}
	t, _ := x.Int(nil)
	if !t.IsInt64() {
		return &DomainError{X: new(big.Float).Copy(x), Arg: 1}
	}
	out.SetInt64(^t.Int64())
	return nil
}

func add(out, x, y *big.Float) error {
	// Inf-Inf has no value.
	if x.IsInf() && y.IsInf() && x.Signbit() != y.Signbit() {
		return &DomainError{X: new(big.Float).Copy(y), Arg: 2}
	}
	out.Add(x, y)
	return nil
}

func sub(out, x, y *big.Float) error {
	if x.IsInf() && y.IsInf() && x.Signbit() == y.Signbit() {
		return &DomainError{X: new(big.Float).Copy(y), Arg: 2}
	}
	out.Sub(x, y)
	return nil
}

func mul(out, x, y *big.Float) error {
	if x.IsInf() && y.Sign() == 0 || x.Sign() == 0 && y.IsInf() {
		return &DomainError{X: new(big.Float).Copy(y), Arg: 2}
	}
	out.Mul(x, y)
	return nil
}

func quo(out, x, y *big.Float) error {
	// Guard against invalid divisions, 0/0 or inf/inf.
	if x.Sign() == 0 && y.Sign() == 0 || x.IsInf() && y.IsInf() {
		return &DomainError{X: new(big.Float).Copy(y), Arg: 2}
	}
	out.Quo(x, y)
	return nil
}

// rem computes the truncated remainder x - y*trunc(x/y), which has the sign
// of x.
func rem(out, x, y *big.Float) error {
	switch {
	case y.Sign() == 0:
		return &DomainError{X: new(big.Float).Copy(y), Arg: 2}
	case x.IsInf():
		return &DomainError{X: new(big.Float).Copy(x), Arg: 1}
	case y.IsInf():
		out.Set(x)
		return nil
	}
	q := new(big.Float).SetPrec(out.Prec()).Quo(x, y)
	if q.IsInf() {
		// Exponent overflow.
		return &DomainError{X: new(big.Float).Copy(y), Arg: 2}
	}
	t, _ := q.Int(nil)
	q.SetInt(t)
	q.Mul(q, y)
	out.Sub(x, q)
	return nil
}

// pow computes x**y. Integer exponents use repeated squaring, so they admit
// negative bases. Other exponents go through bigfloat.Pow at the precision of
// out. Integer exponents too large for repeated squaring are computed on |x|
// and take their sign from the parity of y.
func pow(out, x, y *big.Float) error {
	if y.IsInt() {
		if n, acc := y.Int64(); acc == big.Exact {
			powint(out, x, n)
			return nil
		}
	}
	neg := false
	if x.Sign() < 0 {
		if !y.IsInt() {
			return &DomainError{X: new(big.Float).Copy(x), Arg: 1}
		}
		t, _ := y.Int(nil)
		neg = t.Bit(0) == 1
		x = new(big.Float).Abs(x)
	}
	switch {
	case y.IsInf():
		c := x.Cmp(big.NewFloat(1))
		switch {
		case c == 0:
			out.SetInt64(1)
		case (c > 0) == (y.Sign() > 0):
			out.SetInf(false)
		default:
			out.SetInt64(0)
		}
	case x.Sign() == 0:
		if y.Sign() < 0 {
			out.SetInf(false)
		} else {
			out.SetInt64(0)
		}
	case x.IsInf():
		if y.Sign() < 0 {
			out.SetInt64(0)
		} else {
			out.SetInf(false)
		}
	case x.Cmp(big.NewFloat(1)) == 0:
		out.SetInt64(1)
	default:
		powreal(out, x, y)
	}
	if neg {
		out.Neg(out)
	}
	return nil
}

// powreal computes x**y for finite positive x other than 1 and finite y.
func powreal(out, x, y *big.Float) {
	m := new(big.Float)
	e := x.MantExp(m)
	mf, _ := m.Float64()
	yf, _ := y.Float64()
	bits := yf * (math.Log2(mf) + float64(e))
	if math.IsNaN(bits) {
		// y overflows float64 and x rounds to 1.
		bits = math.Inf(x.Cmp(big.NewFloat(1)) * y.Sign())
	}
	switch {
	case bits > maxPowBits:
		out.SetInf(false)
	case bits < -maxPowBits:
		out.SetInt64(0)
	default:
		// Pow may return a different Float than the one it is given.
		out.Set(bigfloat.Pow(new(big.Float).SetPrec(out.Prec()), x, y))
	}
}

func powint(out, x *big.Float, n int64) {
	u := uint64(n)
	if n < 0 {
		u = uint64(-(n + 1)) + 1
	}
	b := new(big.Float).SetPrec(out.Prec()).Set(x)
	r := new(big.Float).SetPrec(out.Prec()).SetInt64(1)
	for u > 0 {
		if u&1 != 0 {
			r.Mul(r, b)
		}
		u >>= 1
		if u > 0 {
			b.Mul(b, b)
		}
	}
	if n < 0 {
		r.Quo(big.NewFloat(1), r)
	}
	out.Set(r)
}
