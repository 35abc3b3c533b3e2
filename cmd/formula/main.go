package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"fortio.org/log"
	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"

	"github.com/zephyrtronium/formula"
)

const usage = `usage: formula [-evCh] [-p bits] [-D name=formula]... [-f file] [formula...]

Evaluates formulas given as arguments, or one per line from a file or from
standard input when there are no arguments. Lines which are blank or begin
with # are skipped.

  -p bits          precision of calculations in bits (default 64, at most 65536)
  -D name=formula  define a variable before evaluating (any number of times)
  -f file          read formulas from file, or standard input if file is -
  -e               print each formula in postfix order before its result
  -v               log each compilation and evaluation step
  -C               disable colored output
  -h               print this help
`

func main() {
	var (
		prec    uint = 64
		defs    []string
		inname  string
		echo    bool
		verbose bool
	)
	opts, optind, err := getopt.Getopts(os.Args, "p:D:f:evCh")
	if err != nil {
		fmt.Fprint(os.Stderr, usage)
		log.Fatalf("%v", err)
	}
	for _, opt := range opts {
		switch opt.Option {
		case 'p':
			prec, err = parsePrec(opt.Value)
			if err != nil {
				log.Fatalf("%v", err)
			}
		case 'D':
			defs = append(defs, opt.Value)
		case 'f':
			inname = opt.Value
		case 'e':
			echo = true
		case 'v':
			verbose = true
		case 'C':
			color.NoColor = true
		case 'h':
			fmt.Print(usage)
			return
		}
	}
	args := os.Args[optind:]
	if verbose {
		log.SetLogLevel(log.Verbose)
	}

	s := formula.NewSession(nil, formula.Prec(prec))
	for _, d := range defs {
		if err := define(s, d); err != nil {
			log.Fatalf("%v", err)
		}
	}

	failed := 0
	switch {
	case inname != "" && inname != "-":
		f, err := os.Open(inname)
		if err != nil {
			log.Fatalf("%v", err)
		}
		failed += run(s, f, os.Stdout, echo)
		f.Close()
	case inname == "-", len(args) == 0:
		failed += run(s, os.Stdin, os.Stdout, echo)
	}
	for _, arg := range args {
		if !exec(s, arg, os.Stdout, echo) {
			failed++
		}
	}
	if failed != 0 {
		os.Exit(1)
	}
}

// maxPrec is the largest precision -p accepts. Computing pi for a new session
// takes time superlinear in the precision.
const maxPrec = 1 << 16

// parsePrec parses the argument to -p.
func parsePrec(s string) (uint, error) {
	p, err := strconv.ParseUint(s, 10, 32)
	if err != nil || p == 0 || p > maxPrec {
		return 0, fmt.Errorf("precision (%q) must be an integer from 1 to %d", s, maxPrec)
	}
	return uint(p), nil
}

// define evaluates a -D definition, which must be an assignment.
func define(s *formula.Session, d string) error {
	r, err := s.Exec(d)
	if err != nil {
		return fmt.Errorf("defining %q: %w", d, err)
	}
	if r.Name == "" {
		return fmt.Errorf(`definitions must be "name=formula", not %q`, d)
	}
	return nil
}

// run executes each line of in as a formula and returns the number that
// failed.
func run(s *formula.Session, in io.Reader, out io.Writer, echo bool) int {
	failed := 0
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !exec(s, line, out, echo) {
			failed++
		}
	}
	if err := sc.Err(); err != nil {
		log.Errf("reading input: %v", err)
		failed++
	}
	return failed
}

// exec executes a single formula and prints its result or error.
func exec(s *formula.Session, src string, out io.Writer, echo bool) bool {
	r, err := s.Exec(src)
	if err != nil {
		color.New(color.FgRed).Fprintf(out, "error: %v\n", err)
		return false
	}
	if echo {
		fmt.Fprintf(out, "%v : ", r.Prog)
	}
	if r.Name != "" {
		fmt.Fprintf(out, "%s = %g\n", r.Name, r.Value)
		return true
	}
	fmt.Fprintf(out, "%g\n", r.Value)
	return true
}
