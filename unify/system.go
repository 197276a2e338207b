package unify

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sanity-io/litter"
	"github.com/smasher164/xid"

	"github.com/smasher164/tyeq/unionfind"
)

// shared is the state common to every System in one tree.
type shared struct {
	arena *unionfind.Arena[Var]
	names map[int]string
	cfg   *config
}

// System is one scope of a unification problem. Systems form a tree through
// Subsystem and all share one arena. While a subsystem is active its parent
// is suspended; finishing the subsystem resumes the parent.
type System struct {
	sh       *shared
	level    Level
	parent   *System
	child    *System
	finished bool
}

// New creates a top-level System at level 0 backed by a fresh arena and
// passes it to f. The arena is released when f returns or panics.
func New[Out any](f func(*System) Out, opts ...Option) Out {
	cfg := newConfig(opts)
	return unionfind.With(func(a *unionfind.Arena[Var]) Out {
		s := &System{sh: &shared{arena: a, names: make(map[int]string), cfg: cfg}}
		cfg.log.Debug("open system", "level", s.level)
		return f(s)
	}, cfg.arena...)
}

func (s *System) Level() Level {
	return s.level
}

func (s *System) live() {
	if s.sh.arena.Released() {
		panic(errors.Wrap(unionfind.ErrReleased, "system outlived its arena"))
	}
}

func (s *System) active() {
	s.live()
	if s.finished {
		panic(errors.Wrapf(ErrFinished, "level %d", s.level))
	}
	s.readable()
}

// sees reports whether handles scoped to scope are valid in s.
func (s *System) sees(scope *System) bool {
	if scope == nil {
		return true
	}
	for p := s; p != nil; p = p.parent {
		if p == scope {
			return true
		}
	}
	return false
}

// readable panics if s cannot be inspected: its arena is gone or a
// subsystem holds it.
func (s *System) readable() {
	s.live()
	if s.child != nil {
		panic(errors.Wrapf(ErrSuspended, "level %d has an active subsystem at level %d", s.level, s.child.level))
	}
}

func (s *System) check(t Type) {
	s.readable()
	if !s.sh.arena.Owns(t.key) {
		panic(errors.Wrapf(unionfind.ErrForeignKey, "%v does not belong to this system", t))
	}
	if !s.sees(t.scope) {
		panic(errors.Wrapf(ErrInvalidHandle, "%v from level %d used at level %d", t, t.scope.level, s.level))
	}
}

func (s *System) mk(v Var, scope *System) Type {
	return Type{key: s.sh.arena.Allocate(v), scope: scope}
}

func (s *System) Fresh() Type {
	s.active()
	return s.mk(Unsolved{Level: s.level}, s)
}

// FreshNamed is Fresh with a display name used by Show. The name must be an
// identifier.
func (s *System) FreshNamed(name string) Type {
	s.active()
	if !isIdent(name) {
		panic(errors.Wrapf(ErrInvalidName, "%q", name))
	}
	t := s.mk(Unsolved{Level: s.level}, s)
	s.sh.names[t.key.Index()] = name
	return t
}

func isIdent(name string) bool {
	for i, ch := range name {
		if i == 0 && !(ch == '_' || xid.Start(ch)) {
			return false
		}
		if i > 0 && !xid.Continue(ch) {
			return false
		}
	}
	return name != ""
}

// Int returns a quantified handle, since Int carries no variable identity.
func (s *System) Int() Type {
	s.active()
	return s.mk(Solved{Head: Int{}}, nil)
}

// Arrow builds domain -> rng. The result is scoped to the deeper of the two
// arguments.
func (s *System) Arrow(domain, rng Type) Type {
	s.active()
	s.check(domain)
	s.check(rng)
	scope := domain.scope
	if rng.scope != nil && (scope == nil || rng.scope.level > scope.level) {
		scope = rng.scope
	}
	return s.mk(Solved{Head: Arrow{Domain: domain.key, Range: rng.key}}, scope)
}

// Subsystem opens a scope one level deeper that shares s's arena. s is
// suspended until the subsystem is finished.
func (s *System) Subsystem() *System {
	s.active()
	child := &System{sh: s.sh, level: s.level + 1, parent: s}
	s.child = child
	s.sh.cfg.log.Debug("open subsystem", "level", child.level)
	return child
}

// Finish ends s. No further allocation or unification is possible on it,
// and its parent, if any, is resumed.
func (s *System) Finish() *Finished {
	s.active()
	s.finished = true
	if s.parent != nil {
		s.parent.child = nil
	}
	s.sh.cfg.log.Debug("finish system", "level", s.level)
	return &Finished{sys: s}
}

// LevelOf returns the recorded level of t if it is unsolved.
func (s *System) LevelOf(t Type) (Level, bool) {
	s.check(t)
	if u, ok := s.sh.arena.Read(t.key).(Unsolved); ok {
		return u.Level, true
	}
	return 0, false
}

// Resolved returns the current state of t's representative.
func (s *System) Resolved(t Type) Var {
	s.check(t)
	return s.sh.arena.Read(t.key)
}

// Equivalent reports whether t1 and t2 have already been merged.
func (s *System) Equivalent(t1, t2 Type) bool {
	s.check(t1)
	s.check(t2)
	return s.sh.arena.Equivalent(t1.key, t2.key)
}

func (s *System) Classes() [][]unionfind.Key {
	s.readable()
	return s.sh.arena.Classes()
}

type class struct {
	Keys  []unionfind.Key
	Value Var
}

// Dump renders every class of the arena with its current value.
func (s *System) Dump() string {
	s.readable()
	a := s.sh.arena
	return litter.Sdump(lo.Map(a.Classes(), func(keys []unionfind.Key, _ int) class {
		return class{Keys: keys, Value: a.Read(keys[0])}
	}))
}

// Finished is the read-only export stage of a System.
type Finished struct {
	sys *System
}

func (f *Finished) Level() Level {
	return f.sys.level
}

// Quantify exports t from the finished scope as a handle usable by the
// parent and by sibling scopes.
func (f *Finished) Quantify(t Type) Type {
	f.sys.check(t)
	return Type{key: t.key, scope: nil}
}

// Generalizable returns, in creation order, the unsolved variables reachable
// from t that are still owned by the finished scope or a scope below it.
// Variables unified with one from an enclosing scope were promoted to that
// scope's level and are not included.
func (f *Finished) Generalizable(t Type) []Type {
	f.sys.check(t)
	return lo.FilterMap(f.sys.free(t.key), func(k unionfind.Key, _ int) (Type, bool) {
		u := f.sys.sh.arena.Read(k).(Unsolved)
		return Type{key: k, scope: nil}, u.Level >= f.sys.level
	})
}
