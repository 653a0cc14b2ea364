package apperr

import "errors"

// Kind is the machine-readable classification of an error.
type Kind string

const (
	KindValidation      Kind = "validation_error"
	KindNotFound        Kind = "not_found"
	KindForbidden       Kind = "forbidden"
	KindSlotConflict    Kind = "slot_conflict"
	KindUnauthenticated Kind = "unauthenticated"
	KindDependency      Kind = "dependency_failure"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e Error) Error() string {
	return e.Message
}

func New(kind Kind, message string) error {
	return Error{Kind: kind, Message: message}
}

func Validation(message string) error {
	return Error{Kind: KindValidation, Message: message}
}

func NotFound(message string) error {
	return Error{Kind: KindNotFound, Message: message}
}

func Forbidden(message string) error {
	return Error{Kind: KindForbidden, Message: message}
}

func SlotConflict(message string) error {
	return Error{Kind: KindSlotConflict, Message: message}
}

func Unauthenticated(message string) error {
	return Error{Kind: KindUnauthenticated, Message: message}
}

func Dependency(message string) error {
	return Error{Kind: KindDependency, Message: message}
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var ae Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or an empty kind for untagged errors.
func KindOf(err error) Kind {
	var ae Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}
