package matcher

import "fmt"

// ErrorKind classifies matcher errors.
type ErrorKind uint8

const (
	// IncompatibleMatchType indicates a filter was constructed with
	// matchers whose match-types make look-ahead impossible (spec.md
	// §7).
	IncompatibleMatchType ErrorKind = iota
)

func (k ErrorKind) String() string {
	switch k {
	case IncompatibleMatchType:
		return "IncompatibleMatchType"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", uint8(k))
	}
}

// Error is the typed error returned by matcher construction.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// ErrIncompatibleMatchType is the sentinel for IncompatibleMatchType
// (matchers that can't agree on a look-ahead direction). No constructor
// in this module returns it.
var ErrIncompatibleMatchType = &Error{
	Kind:    IncompatibleMatchType,
	Message: "matcher: incompatible match types for look-ahead",
}
