package formula

import (
	"math/big"
	"sync"

	"fortio.org/log"
	"github.com/google/uuid"
	"github.com/segmentio/fasthash/fnv1a"
)

// maxCached is the number of compiled programs a session keeps before it
// discards its cache.
const maxCached = 1024

// Session evaluates formulas one at a time against its own environment. It is
// safe to use a Session concurrently.
type Session struct {
	mu    sync.Mutex
	id    uuid.UUID
	reg   *Registry
	env   *Env
	progs map[uint64]*Program
}

// NewSession creates a session with a new environment. If reg is nil, the
// default registry is used.
func NewSession(reg *Registry, opts ...EnvOption) *Session {
	if reg == nil {
		reg = defaultRegistry
	}
	s := &Session{
		id:    uuid.New(),
		reg:   reg,
		env:   NewEnv(opts...),
		progs: make(map[uint64]*Program),
	}
	log.LogVf("session %v started with precision %d", s.id, s.env.Prec())
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Exec evaluates a formula as Exec does, using the session's registry and
// environment.
func (s *Session) Exec(formula string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return execute(s.reg, s.env, formula, s.compile)
}

// Compile compiles an expression using the session's registry, reusing a
// previous compilation of the same text if there is one.
func (s *Session) Compile(src string) (*Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.compile(src, 1)
}

// compile looks up a cached program for src or compiles it. s.mu must be
// held.
func (s *Session) compile(src string, col int) (*Program, error) {
	h := fnv1a.AddString64(fnv1a.AddUint64(fnv1a.Init64, uint64(col)), src)
	if prog := s.progs[h]; prog != nil && prog.src == src && prog.col == col {
		return prog, nil
	}
	prog, err := compile(s.reg, src, col)
	if err != nil {
		return nil, err
	}
	if len(s.progs) >= maxCached {
		s.progs = make(map[uint64]*Program)
	}
	s.progs[h] = prog
	return prog, nil
}

// Lookup returns a copy of the value of a variable in the session, or nil if
// there is no such variable.
func (s *Session) Lookup(name string) *big.Float {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.env.Lookup(name)
}

// Env returns a snapshot of the session's environment.
func (s *Session) Env() *Env {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.env.Clone()
}

// Registry returns the session's registry.
func (s *Session) Registry() *Registry {
	return s.reg
}
