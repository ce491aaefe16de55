package graph

import "fmt"

// ErrorKind distinguishes the fatal error conditions the Graph Serializer
// can raise. Unresolved dependency references and role selectors that
// resolve to no nodes are not errors: the serializer drops them and logs at
// Debug level.
type ErrorKind string

// The fatal error kinds a serialization run can surface.
const (
	// ErrKindTaskVersionUnsupported is raised when a non-stage task's
	// declared version predates cross-dependency support.
	ErrKindTaskVersionUnsupported = ErrorKind("TaskVersionUnsupported")
	// ErrKindUnknownGroupMember is raised when a group task references a
	// sub-task id that does not exist in the catalog.
	ErrKindUnknownGroupMember = ErrorKind("UnknownGroupMember")
	// ErrKindSerializerError wraps an error raised by an external serializer.
	ErrKindSerializerError = ErrorKind("SerializerError")
)

// Error is the single user-visible failure type a serialization run can
// return: a machine-readable Kind plus a human-readable context string
// identifying the offending task.
type Error struct {
	Kind   ErrorKind
	TaskID string
	Detail string
	Cause  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: task %q", e.Kind, e.TaskID)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes the wrapped cause, if any, to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

func errTaskVersionUnsupported(taskID, version, minimum string) error {
	return &Error{
		Kind:   ErrKindTaskVersionUnsupported,
		TaskID: taskID,
		Detail: fmt.Sprintf("version %s is below the minimum supported version %s", version, minimum),
	}
}

func errUnknownGroupMember(groupID, memberID string) error {
	return &Error{
		Kind:   ErrKindUnknownGroupMember,
		TaskID: groupID,
		Detail: fmt.Sprintf("references unknown task %q", memberID),
	}
}

func errSerializer(taskID string, cause error) error {
	return &Error{
		Kind:   ErrKindSerializerError,
		TaskID: taskID,
		Cause:  cause,
	}
}
