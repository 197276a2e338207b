package unify

import (
	"fmt"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"github.com/smasher164/tyeq/unionfind"
)

// Equal reports whether t1 and t2 can be made equal, merging variables as
// needed. A false result leaves the slots of the mismatched heads untouched,
// but merges performed before the mismatch was found are kept.
func (s *System) Equal(t1, t2 Type) bool {
	s.active()
	s.check(t1)
	s.check(t2)
	return s.unify(t1.key, t2.key)
}

func (s *System) unify(k1, k2 unionfind.Key) bool {
	a := s.sh.arena
	r1, v1 := a.Find(k1)
	r2, v2 := a.Find(k2)
	if r1 == r2 {
		return true
	}
	ok := true
	switch v1 := v1.(type) {
	case Unsolved:
		if v2, isSolved := v2.(Solved); isSolved {
			ok = s.bind(r1, v1.Level, v2.Head)
		}
	case Solved:
		switch v2 := v2.(type) {
		case Unsolved:
			ok = s.bind(r2, v2.Level, v1.Head)
		case Solved:
			ok = s.unifyHeads(v1.Head, v2.Head)
		}
	}
	if ok {
		ok = unionfind.Union(a, r1, r2, true, merge)
	}
	if ok {
		s.keepName(r1, r2)
	}
	s.sh.cfg.log.Debug("unify", "left", k1, "right", k2, "ok", ok)
	return ok
}

// keepName moves a display name onto the merged representative.
func (s *System) keepName(r1, r2 unionfind.Key) {
	root, _ := s.sh.arena.Find(r1)
	if _, ok := s.sh.names[root.Index()]; ok {
		return
	}
	for _, k := range []unionfind.Key{r1, r2} {
		if name, ok := s.sh.names[k.Index()]; ok {
			s.sh.names[root.Index()] = name
			return
		}
	}
}

// unifyHeads unifies the children of two compatible heads. Incompatible
// heads are left for merge to veto.
func (s *System) unifyHeads(h1, h2 Head) bool {
	switch h1 := h1.(type) {
	case Int:
		return true
	case Arrow:
		if h2, ok := h2.(Arrow); ok {
			return s.unify(h1.Domain, h2.Domain) && s.unify(h1.Range, h2.Range)
		}
		return true
	}
	panic(fmt.Sprintf("unimplemented: %T", h1))
}

// merge decides the value of two merged classes. Unsolved variables escape
// to the shallower of their levels.
func merge(v1, v2 Var) (Var, bool, bool) {
	switch v1 := v1.(type) {
	case Unsolved:
		switch v2 := v2.(type) {
		case Unsolved:
			if v2.Level < v1.Level {
				return v2, true, true
			}
			return v1, true, true
		case Solved:
			return v2, true, true
		}
	case Solved:
		switch v2 := v2.(type) {
		case Unsolved:
			return v1, true, true
		case Solved:
			if compatible(v1.Head, v2.Head) {
				return v1, true, true
			}
			return nil, false, false
		}
	}
	panic(fmt.Sprintf("unimplemented: %T, %T", v1, v2))
}

func compatible(h1, h2 Head) bool {
	switch h1.(type) {
	case Int:
		_, ok := h2.(Int)
		return ok
	case Arrow:
		_, ok := h2.(Arrow)
		return ok
	}
	panic(fmt.Sprintf("unimplemented: %T", h1))
}

// bind prepares variable v at level to be solved to h. It fails if v occurs
// in h, and otherwise lowers every variable in h to at most level.
func (s *System) bind(v unionfind.Key, level Level, h Head) bool {
	if s.sh.cfg.occurs && s.occurs(v, h) {
		s.sh.cfg.log.Debug("occurs check failed", "var", v)
		return false
	}
	a := s.sh.arena
	for _, k := range s.free(children(h)...) {
		if u := a.Read(k).(Unsolved); u.Level > level {
			a.Set(k, Unsolved{Level: level})
		}
	}
	return true
}

func (s *System) occurs(v unionfind.Key, h Head) bool {
	return lo.Contains(s.free(children(h)...), v)
}

// children returns the keys an arrow refers to.
func children(h Head) []unionfind.Key {
	if h, ok := h.(Arrow); ok {
		return []unionfind.Key{h.Domain, h.Range}
	}
	return nil
}

// free returns the representatives of the unsolved variables reachable from
// roots, in creation order.
func (s *System) free(roots ...unionfind.Key) []unionfind.Key {
	a := s.sh.arena
	seen := make(map[unionfind.Key]bool)
	vars := make(map[int]unionfind.Key)
	stack := slices.Clone(roots)
	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		r, v := a.Find(k)
		if seen[r] {
			continue
		}
		seen[r] = true
		switch v := v.(type) {
		case Unsolved:
			vars[r.Index()] = r
		case Solved:
			stack = append(stack, children(v.Head)...)
		}
	}
	order := lo.Keys(vars)
	slices.Sort(order)
	return lo.Map(order, func(idx, _ int) unionfind.Key { return vars[idx] })
}
