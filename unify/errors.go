package unify

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/smasher164/tyeq/unionfind"
)

var (
	// ErrInvalidHandle is raised when a handle is used outside the scope it
	// was created in, e.g. a subsystem variable passed to its parent before
	// being quantified.
	ErrInvalidHandle = errors.New("invalid cross-scope handle")
	ErrSuspended     = errors.New("system is suspended by an active subsystem")
	ErrFinished      = errors.New("system is finished")
	ErrInvalidName   = errors.New("invalid type variable name")
)

var sentinels = []error{
	ErrInvalidHandle,
	ErrSuspended,
	ErrFinished,
	ErrInvalidName,
	unionfind.ErrForeignKey,
	unionfind.ErrReleased,
}

// Catch runs f and returns the misuse error it panicked with, if any.
// Panics that are not misuse errors are propagated.
func Catch(f func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(error); ok && lo.ContainsBy(sentinels, func(sentinel error) bool {
			return errors.Is(e, sentinel)
		}) {
			err = e
			return
		}
		panic(r)
	}()
	f()
	return nil
}
