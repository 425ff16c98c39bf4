package numfmt

import "fmt"

// Kind classifies an Error.
type Kind int

const (
	KindCapacity Kind = iota + 1
	KindInvalid
	KindParseLocale
)

func (k Kind) String() string {
	switch k {
	case KindCapacity:
		return "capacity"
	case KindInvalid:
		return "invalid"
	case KindParseLocale:
		return "parse locale"
	default:
		return "unknown"
	}
}

// Error is returned by builders and locale lookups.
type Error struct {
	Kind  Kind
	Field string
	Len   int
	Cap   int
	Msg   string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindCapacity:
		return fmt.Sprintf("numfmt: %s of %d bytes exceeds capacity of %d bytes", e.Field, e.Len, e.Cap)
	case KindParseLocale:
		return fmt.Sprintf("numfmt: unknown locale %q", e.Msg)
	default:
		return fmt.Sprintf("numfmt: invalid %s: %s", e.Field, e.Msg)
	}
}

func capacityError(field string, n, limit int) *Error {
	return &Error{Kind: KindCapacity, Field: field, Len: n, Cap: limit}
}
