// Package unionfind implements a disjoint-set arena. Values live in slots
// addressed by Keys, and every Key is branded with the identity of the arena
// that minted it.
package unionfind

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

var (
	ErrForeignKey = errors.New("key belongs to a different arena")
	ErrReleased   = errors.New("arena has been released")
)

type Key struct {
	arena uuid.UUID
	index int
}

// Index is the creation order of the key within its arena.
func (k Key) Index() int {
	return k.index
}

func (k Key) String() string {
	return fmt.Sprintf("k%d", k.index)
}

// slot is either a leaf holding a value or a branch pointing toward the
// representative.
type slot[V any] struct {
	leaf  bool
	value V
	next  int
	rank  int
}

type Arena[V any] struct {
	id       uuid.UUID
	slots    []slot[V]
	byRank   bool
	released bool
}

type Option func(*config)

type config struct {
	byRank   bool
	capacity int
}

// WithUnionByRank makes the root of the taller tree survive a union.
// Ties keep the first key as the representative.
func WithUnionByRank() Option {
	return func(c *config) { c.byRank = true }
}

func WithCapacity(n int) Option {
	return func(c *config) { c.capacity = n }
}

func New[V any](opts ...Option) *Arena[V] {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return &Arena[V]{
		id:     uuid.New(),
		slots:  make([]slot[V], 0, c.capacity),
		byRank: c.byRank,
	}
}

// With creates an arena, passes it to f, and releases it when f returns,
// even if f panics.
func With[V, Out any](f func(*Arena[V]) Out, opts ...Option) Out {
	a := New[V](opts...)
	defer a.Release()
	return f(a)
}

func (a *Arena[V]) Release() {
	a.released = true
	a.slots = nil
}

func (a *Arena[V]) Released() bool {
	return a.released
}

func (a *Arena[V]) Len() int {
	a.live()
	return len(a.slots)
}

func (a *Arena[V]) live() {
	if a.released {
		panic(errors.Wrapf(ErrReleased, "arena %s", a.id))
	}
}

func (a *Arena[V]) check(k Key) int {
	a.live()
	if k.arena != a.id {
		panic(errors.Wrapf(ErrForeignKey, "%v used with arena %s", k, a.id))
	}
	return k.index
}

func (a *Arena[V]) Allocate(v V) Key {
	a.live()
	k := Key{arena: a.id, index: len(a.slots)}
	a.slots = append(a.slots, slot[V]{leaf: true, value: v})
	return k
}

// Find returns the representative of k and its value. Every slot visited on
// the way is rewritten to point directly at the representative.
func (a *Arena[V]) Find(k Key) (Key, V) {
	i := a.check(k)
	root := i
	for !a.slots[root].leaf {
		root = a.slots[root].next
	}
	for i != root {
		next := a.slots[i].next
		a.slots[i].next = root
		i = next
	}
	return Key{arena: a.id, index: root}, a.slots[root].value
}

func (a *Arena[V]) Read(k Key) V {
	_, v := a.Find(k)
	return v
}

// Set replaces the value of k's class.
func (a *Arena[V]) Set(k Key, v V) {
	root, _ := a.Find(k)
	a.slots[root.index].value = v
}

// Owns reports whether k was minted by a.
func (a *Arena[V]) Owns(k Key) bool {
	return !a.released && k.arena == a.id
}

func (a *Arena[V]) Equivalent(k1, k2 Key) bool {
	r1, _ := a.Find(k1)
	r2, _ := a.Find(k2)
	return r1 == r2
}

// Union merges the classes of k1 and k2. If they are already one class, dflt
// is returned and merge is not called. Otherwise merge decides the value of
// the merged class; when it reports false both classes are left untouched
// and only its result is returned.
//
// merge must not mutate a.
func Union[V, R any](a *Arena[V], k1, k2 Key, dflt R, merge func(v1, v2 V) (V, bool, R)) R {
	r1, v1 := a.Find(k1)
	r2, v2 := a.Find(k2)
	if r1 == r2 {
		return dflt
	}
	v, ok, result := merge(v1, v2)
	if ok {
		a.link(r1.index, r2.index, v)
	}
	return result
}

// Merge is Union without a separate result: it reports whether k1 and k2
// are in the same class afterwards.
func (a *Arena[V]) Merge(k1, k2 Key, merge func(v1, v2 V) (V, bool)) bool {
	return Union(a, k1, k2, true, func(v1, v2 V) (V, bool, bool) {
		v, ok := merge(v1, v2)
		return v, ok, ok
	})
}

// UnionWith merges k1 and k2 unconditionally, giving the class value v.
func (a *Arena[V]) UnionWith(k1, k2 Key, v V) {
	a.Merge(k1, k2, func(V, V) (V, bool) { return v, true })
}

func (a *Arena[V]) link(root, other int, v V) {
	if a.byRank && a.slots[other].rank > a.slots[root].rank {
		root, other = other, root
	}
	if a.slots[root].rank == a.slots[other].rank {
		a.slots[root].rank++
	}
	a.slots[root].value = v
	a.slots[other] = slot[V]{next: root, rank: a.slots[other].rank}
}

// Classes returns the current partition. Each class is sorted by creation
// order and classes are ordered by their smallest key.
func (a *Arena[V]) Classes() [][]Key {
	a.live()
	keys := lo.Map(lo.Range(len(a.slots)), func(i, _ int) Key {
		return Key{arena: a.id, index: i}
	})
	root := func(k Key) int {
		r, _ := a.Find(k)
		return r.index
	}
	byRoot := lo.GroupBy(keys, root)
	return lo.FilterMap(keys, func(k Key, _ int) ([]Key, bool) {
		class := byRoot[root(k)]
		return class, class[0] == k
	})
}

func (a *Arena[V]) String() string {
	if a.released {
		return fmt.Sprintf("arena %s (released)", a.id)
	}
	return fmt.Sprintf("arena %s %s", a.id, pretty.Sprint(a.slots))
}
