// Package unify decides equality between type expressions built from Int and
// Arrow, merging unsolved type variables as equalities are discovered.
// Variables record the nesting level of the System that created them.
package unify

import "github.com/smasher164/tyeq/unionfind"

type Level uint32

// Var is the state of an arena slot: Unsolved or Solved.
type Var interface {
	isVar()
}

var (
	_ Var = Unsolved{}
	_ Var = Solved{}
)

type Unsolved struct {
	Level Level
}

func (Unsolved) isVar() {}

type Solved struct {
	Head Head
}

func (Solved) isVar() {}

// Head is the structural shape of a solved variable: Int or Arrow.
type Head interface {
	isHead()
}

var (
	_ Head = Int{}
	_ Head = Arrow{}
)

type Int struct{}

func (Int) isHead() {}

type Arrow struct {
	Domain unionfind.Key
	Range  unionfind.Key
}

func (Arrow) isHead() {}

// Type is a handle to an arena slot, tagged with the System it is valid in.
// A nil scope means the handle carries no scope-local identity and may be
// used anywhere in its arena.
type Type struct {
	key   unionfind.Key
	scope *System
}

func (t Type) Key() unionfind.Key {
	return t.key
}

// Quantified reports whether t is free of scope-local identity.
func (t Type) Quantified() bool {
	return t.scope == nil
}

func (t Type) String() string {
	return t.key.String()
}
