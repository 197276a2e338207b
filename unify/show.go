package unify

import (
	"fmt"
	"strings"

	"github.com/smasher164/tyeq/unionfind"
)

// Show renders t with Int, right-associative arrows, and either the
// variable's name or 't followed by its key index for unsolved variables.
func (s *System) Show(t Type) string {
	s.check(t)
	var b strings.Builder
	s.show(&b, t.key, false, make(map[unionfind.Key]bool))
	return b.String()
}

func (s *System) show(b *strings.Builder, k unionfind.Key, parens bool, visiting map[unionfind.Key]bool) {
	r, v := s.sh.arena.Find(k)
	if visiting[r] {
		b.WriteString("...")
		return
	}
	switch v := v.(type) {
	case Unsolved:
		if name, ok := s.sh.names[r.Index()]; ok {
			b.WriteString(name)
		} else {
			fmt.Fprintf(b, "'t%d", r.Index())
		}
	case Solved:
		switch h := v.Head.(type) {
		case Int:
			b.WriteString("Int")
		case Arrow:
			visiting[r] = true
			if parens {
				b.WriteByte('(')
			}
			s.show(b, h.Domain, true, visiting)
			b.WriteString(" -> ")
			s.show(b, h.Range, false, visiting)
			if parens {
				b.WriteByte(')')
			}
			delete(visiting, r)
		}
	}
}
