package sqlite

import "fmt"

// ErrorKind partitions engine failures by the phase that produced them.
type ErrorKind int

const (
	// KindConnection covers failures opening or closing the database handle.
	KindConnection ErrorKind = iota + 1
	// KindStatement covers prepare and bind failures.
	KindStatement
	// KindStep covers failures while advancing a statement through its rows.
	KindStep
	// KindColumnType reports a column storage class outside the five known
	// classes. It indicates an engine contract violation.
	KindColumnType
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindStatement:
		return "statement"
	case KindStep:
		return "step"
	case KindColumnType:
		return "column type"
	default:
		return "unknown"
	}
}

// Error is the typed failure returned by every engine-facing operation.
// Code holds the native SQLite result code where one exists, 0 otherwise;
// Message carries the engine's error string verbatim.
type Error struct {
	Kind    ErrorKind
	Code    int
	Message string
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("sqlite: %s error %d: %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("sqlite: %s error: %s", e.Kind, e.Message)
}
