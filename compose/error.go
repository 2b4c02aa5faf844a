package compose

import (
	"fmt"

	"github.com/coregx/wfst/fst"
)

// ErrorKind classifies compose package errors.
type ErrorKind uint8

const (
	// InvalidCompositeState indicates a state id not assigned by this
	// ComposeFst's state table was queried.
	InvalidCompositeState ErrorKind = iota
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidCompositeState:
		return "InvalidCompositeState"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", uint8(k))
	}
}

// Error is the typed error returned by this package.
type Error struct {
	Kind    ErrorKind
	Message string
	StateId fst.StateId
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: state %d", e.Message, e.StateId)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
