package sqlite

import "bytes"

// Value is the closed set of types SQLite stores and returns. Exactly five
// variants exist: Null, Integer, Real, Text and Blob. It is the only
// vocabulary for both bound parameters and materialized column values.
type Value interface {
	isValue()
}

// Null is the SQL NULL storage class.
type Null struct{}

// Integer is a 64-bit signed integer binding or column value.
type Integer int64

// Real is a double-precision float binding or column value.
type Real float64

// Text is a UTF-8 string binding or column value.
type Text string

// Blob is an arbitrary byte sequence binding or column value.
type Blob []byte

func (Null) isValue()    {}
func (Integer) isValue() {}
func (Real) isValue()    {}
func (Text) isValue()    {}
func (Blob) isValue()    {}

// Equal reports whether a and b carry the same variant and the same
// payload. Variants never compare equal across kinds: Integer(0), Real(0)
// and Null{} are three distinct values. Blobs compare bytewise.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Integer:
		bv, ok := b.(Integer)
		return ok && av == bv
	case Real:
		bv, ok := b.(Real)
		return ok && av == bv
	case Text:
		bv, ok := b.(Text)
		return ok && av == bv
	case Blob:
		bv, ok := b.(Blob)
		return ok && bytes.Equal(av, bv)
	default:
		return false
	}
}
