package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseAllocate Phase = "allocate" // array and store acquisition
	PhaseRelease  Phase = "release"  // store teardown
	PhaseMask     Phase = "mask"     // blank-value algebra
	PhaseConvert  Phase = "convert"  // kind conversion and promotion
	PhaseAccess   Phase = "access"   // typed views and element access
	PhaseParse    Phase = "parse"    // text table parsing
	PhaseConfig   Phase = "config"   // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindShape        Kind = "shape"
	KindType         Kind = "type"
	KindAllocation   Kind = "allocation"
	KindIO           Kind = "io"
	KindConversion   Kind = "conversion"
	KindOutOfBounds  Kind = "out_of_bounds"
	KindReleased     Kind = "released"
	KindInvalidData  Kind = "invalid_data"
	KindInvalidInput Kind = "invalid_input"
)

// Sentinels for kind-only matching with errors.Is, regardless of phase.
var (
	ErrShape      = &Error{Kind: KindShape}
	ErrType       = &Error{Kind: KindType}
	ErrAllocation = &Error{Kind: KindAllocation}
	ErrIO         = &Error{Kind: KindIO}
	ErrConversion = &Error{Kind: KindConversion}
	ErrReleased   = &Error{Kind: KindReleased}
)

// Error is the structured error type used throughout the module.
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	Op         string
	ScalarKind string
	Path       string
	Detail     string
	Shape      []int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if e.ScalarKind != "" || len(e.Shape) > 0 {
		b.WriteString(": ")
		if e.ScalarKind != "" {
			b.WriteString("kind ")
			b.WriteString(e.ScalarKind)
		}
		if len(e.Shape) > 0 {
			if e.ScalarKind != "" {
				b.WriteString(", ")
			}
			b.WriteString("shape ")
			b.WriteString(FormatShape(e.Shape))
		}
	}

	if e.Path != "" {
		b.WriteString(" (")
		b.WriteString(e.Path)
		b.WriteByte(')')
	}

	if e.Detail != "" {
		if e.ScalarKind != "" || len(e.Shape) > 0 || e.Path != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a phase
// matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// FormatShape renders a shape as [d0,d1,...].
func FormatShape(shape []int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, d := range shape {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(d))
	}
	b.WriteByte(']')
	return b.String()
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the operation name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// ScalarKind sets the offending scalar kind name
func (b *Builder) ScalarKind(k string) *Builder {
	b.err.ScalarKind = k
	return b
}

// Shape sets the offending shape
func (b *Builder) Shape(shape []int) *Builder {
	b.err.Shape = append([]int(nil), shape...)
	return b
}

// Path sets the file-system path involved
func (b *Builder) Path(p string) *Builder {
	b.err.Path = p
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// ZeroDimension creates the shape error for a non-positive dimension
func ZeroDimension(op, kind string, shape []int, dim int) *Error {
	return &Error{
		Phase:      PhaseAllocate,
		Kind:       KindShape,
		Op:         op,
		ScalarKind: kind,
		Shape:      append([]int(nil), shape...),
		Detail: fmt.Sprintf("zero-length dimension: dsize[%d] is %d", dim, shape[dim]),
		Value:  dim,
	}
}

// ShapeMismatch creates a shape error for two operands that must match
func ShapeMismatch(phase Phase, op string, a, b []int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindShape,
		Op:     op,
		Shape:  append([]int(nil), a...),
		Detail: fmt.Sprintf("shape %s does not match %s", FormatShape(a), FormatShape(b)),
	}
}

// Unsupported creates a type error for a scalar kind that is not supported
func Unsupported(phase Phase, op, kind string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindType,
		Op:         op,
		ScalarKind: kind,
		Detail:     "unsupported scalar kind",
	}
}

// TypeMismatch creates a type error for a Go type that does not match the array kind
func TypeMismatch(phase Phase, op, kind, goType string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindType,
		Op:         op,
		ScalarKind: kind,
		Detail:     fmt.Sprintf("Go type %s does not hold %s elements", goType, kind),
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(op, kind string, shape []int, size int, cause error) *Error {
	return &Error{
		Phase:      PhaseAllocate,
		Kind:       KindAllocation,
		Op:         op,
		ScalarKind: kind,
		Shape:      append([]int(nil), shape...),
		Detail:     fmt.Sprintf("failed to acquire %d bytes", size),
		Cause:      cause,
	}
}

// Overflow creates a shape error for an element count or byte length that
// does not fit the address space
func Overflow(op, kind string, shape []int, what string) *Error {
	return &Error{
		Phase:      PhaseAllocate,
		Kind:       KindShape,
		Op:         op,
		ScalarKind: kind,
		Shape:      append([]int(nil), shape...),
		Detail:     fmt.Sprintf("%s overflows the addressable size", what),
	}
}

// IO creates a file-system error for a path
func IO(phase Phase, op, path string, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindIO,
		Op:    op,
		Path:  path,
		Cause: cause,
	}
}

// ConversionUnsupported creates a conversion error for an unsupported target kind
func ConversionUnsupported(op, from, to string) *Error {
	return &Error{
		Phase:      PhaseConvert,
		Kind:       KindConversion,
		Op:         op,
		ScalarKind: to,
		Detail:     fmt.Sprintf("cannot convert %s to %s", from, to),
	}
}

// Released creates the error returned when a released array or store is used
func Released(phase Phase, op string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindReleased,
		Op:     op,
		Detail: "already released",
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, op string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Op:     op,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, op, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Op:     op,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
