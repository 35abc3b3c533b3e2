// Package formula evaluates arithmetic formulas with arbitrary-precision
// floating-point values.
//
// A formula is an expression like "3 + 4 * 2 / (1 - 5) ** 2 ** 3", or an
// assignment like "x = sqrt(2)" which stores its value for later formulas.
// Operators, from most to least binding, are prefix ~ + -, then ** (which
// groups right to left), then * / %, then binary + -. Numbers are decimal,
// e.g. 1.5, or hexadecimal integers, e.g. 0x1F. Functions are called with
// parenthesized argument lists, e.g. D(1, 2, 3).
//
// Evaluation is a pipeline: the formula is split into tokens, checked against
// the grammar, reordered into postfix by shunting-yard, and evaluated on a
// stack. Compile runs the first three stages once so that a Program can be
// evaluated many times. Exec runs everything, including assignment, against
// an Env. A Session pairs a Registry and an Env for use by a single caller or
// many.
package formula
