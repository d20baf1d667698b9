// Package errors defines the closed error taxonomy shared by every layer.
// Storage and services return *Error values; handlers map them to HTTP
// status codes via StatusCode. Unexpected failures stay plain errors and
// surface as 500.
package errors

import (
	stderrors "errors"
	"net/http"
)

type Kind int

const (
	KindNotFound Kind = iota + 1
	KindAccessDenied
	KindThreadClosed
	KindMissingFields
	KindConflict
	KindInternal
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindAccessDenied, KindThreadClosed:
		return http.StatusForbidden
	case KindMissingFields:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// KindOf extracts the taxonomy kind from any error in the chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

func ThreadNotFound() *Error     { return NotFound("Thread") }
func CommentNotFound() *Error    { return NotFound("Comment") }
func ExamNotFound() *Error       { return NotFound("Exam") }
func CourseNotFound() *Error     { return NotFound("Course") }
func DepartmentNotFound() *Error { return NotFound("Department") }
func FacultyNotFound() *Error    { return NotFound("Faculty") }

func AccessDenied(message string) *Error {
	return &Error{Kind: KindAccessDenied, Message: message}
}

func ThreadClosed() *Error {
	return &Error{Kind: KindThreadClosed, Message: "Thread is closed"}
}

func MissingFields(message string) *Error {
	return &Error{Kind: KindMissingFields, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}
