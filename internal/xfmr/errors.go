package xfmr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrorKind classifies construction and derivation faults.
type ErrorKind string

const (
	KindMissingField             ErrorKind = "missing_field"
	KindUnparsableNumeric        ErrorKind = "unparsable_numeric"
	KindUnknownTopology          ErrorKind = "unknown_topology"
	KindInconsistentWindingCount ErrorKind = "inconsistent_winding_count"
)

// Error reports a fault on a single device. Processing of other devices is
// not affected by it.
type Error struct {
	Kind   ErrorKind
	Device string
	Field  string
	Value  string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Device != "" {
		b.WriteString(" in " + e.Device)
	}
	if e.Field != "" {
		b.WriteString(" field " + e.Field)
	}
	if e.Value != "" {
		b.WriteString(" value " + strconv.Quote(e.Value))
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err, or any error it wraps, is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var xe *Error
	if !errors.As(err, &xe) {
		return false
	}
	if xe.Kind == kind {
		return true
	}
	return IsKind(xe.Err, kind)
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) ErrorKind {
	var xe *Error
	if errors.As(err, &xe) {
		return xe.Kind
	}
	return ""
}

func missingField(device, field string) *Error {
	return &Error{Kind: KindMissingField, Device: device, Field: field}
}

func windingCountError(device, format string, args ...any) *Error {
	return &Error{Kind: KindInconsistentWindingCount, Device: device, Err: fmt.Errorf(format, args...)}
}

// fieldReader pulls required values out of a query row and remembers the
// first failure, so constructors can read every field and check once.
type fieldReader struct {
	device string
	err    *Error
}

func (r *fieldReader) str(field string, v *string) string {
	if r.err != nil {
		return ""
	}
	if v == nil || strings.TrimSpace(*v) == "" {
		r.err = missingField(r.device, field)
		return ""
	}
	return strings.TrimSpace(*v)
}

func (r *fieldReader) float(field string, v *string) float64 {
	s := r.str(field, v)
	if r.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		r.err = &Error{Kind: KindUnparsableNumeric, Device: r.device, Field: field, Value: s, Err: err}
		return 0
	}
	return f
}

func (r *fieldReader) int(field string, v *string) int {
	s := r.str(field, v)
	if r.err != nil {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		r.err = &Error{Kind: KindUnparsableNumeric, Device: r.device, Field: field, Value: s, Err: err}
		return 0
	}
	return n
}

func (r *fieldReader) failed() error {
	if r.err == nil {
		return nil
	}
	return r.err
}
