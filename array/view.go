package array

import (
	"fmt"
	"unsafe"

	"github.com/wippyai/dataset/errors"
	"github.com/wippyai/dataset/scalar"
)

// realElem is the subset of scalar.Element that converts to and from
// float64 with a plain Go conversion.
type realElem interface {
	uint8 | int8 | uint16 | int16 | uint32 | int32 | uint64 | int64 | float32 | float64
}

// view reinterprets the store as []T. The caller has already matched T to
// the array kind. Stores are aligned for every element type.
func view[T scalar.Element](a *Array) []T {
	if a.n == 0 {
		return nil
	}
	b := a.st.Bytes()
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), a.n)
}

func kindHolds[T scalar.Element](k scalar.Kind) bool {
	tk := scalar.KindOf[T]()
	return tk == k || (tk == scalar.KindI8 && k == scalar.KindLogical)
}

// Values returns the elements of a as []T without copying. Writes through
// the slice change the array. T must be the Go type of the array kind
// (int8 for logical arrays).
func Values[T scalar.Element](a *Array) ([]T, error) {
	if err := a.checkLive(errors.PhaseAccess, "Values"); err != nil {
		return nil, err
	}
	if !kindHolds[T](a.kind) {
		var zero T
		return nil, errors.TypeMismatch(errors.PhaseAccess, "Values", a.kind.String(), fmt.Sprintf("%T", zero))
	}
	return view[T](a), nil
}

// Strings returns the elements of a string array without copying.
func Strings(a *Array) ([]string, error) {
	if err := a.checkLive(errors.PhaseAccess, "Strings"); err != nil {
		return nil, err
	}
	if a.kind != scalar.KindString {
		return nil, errors.TypeMismatch(errors.PhaseAccess, "Strings", a.kind.String(), "string")
	}
	return a.strs[:a.n], nil
}

// At returns element i boxed in its Go element type.
func (a *Array) At(i int) (any, error) {
	if err := a.checkIndex("At", i); err != nil {
		return nil, err
	}
	switch a.kind {
	case scalar.KindLogical, scalar.KindI8:
		return view[int8](a)[i], nil
	case scalar.KindU8:
		return view[uint8](a)[i], nil
	case scalar.KindU16:
		return view[uint16](a)[i], nil
	case scalar.KindI16:
		return view[int16](a)[i], nil
	case scalar.KindU32:
		return view[uint32](a)[i], nil
	case scalar.KindI32:
		return view[int32](a)[i], nil
	case scalar.KindU64:
		return view[uint64](a)[i], nil
	case scalar.KindI64:
		return view[int64](a)[i], nil
	case scalar.KindF32:
		return view[float32](a)[i], nil
	case scalar.KindF64:
		return view[float64](a)[i], nil
	case scalar.KindC64:
		return view[complex64](a)[i], nil
	case scalar.KindC128:
		return view[complex128](a)[i], nil
	case scalar.KindString:
		return a.strs[i], nil
	}
	return nil, errors.Unsupported(errors.PhaseAccess, "At", a.kind.String())
}

// Float64At returns element i of a real numeric array as float64.
func (a *Array) Float64At(i int) (float64, error) {
	if err := a.checkIndex("Float64At", i); err != nil {
		return 0, err
	}
	switch a.kind {
	case scalar.KindLogical, scalar.KindI8:
		return float64(view[int8](a)[i]), nil
	case scalar.KindU8:
		return float64(view[uint8](a)[i]), nil
	case scalar.KindU16:
		return float64(view[uint16](a)[i]), nil
	case scalar.KindI16:
		return float64(view[int16](a)[i]), nil
	case scalar.KindU32:
		return float64(view[uint32](a)[i]), nil
	case scalar.KindI32:
		return float64(view[int32](a)[i]), nil
	case scalar.KindU64:
		return float64(view[uint64](a)[i]), nil
	case scalar.KindI64:
		return float64(view[int64](a)[i]), nil
	case scalar.KindF32:
		return float64(view[float32](a)[i]), nil
	case scalar.KindF64:
		return view[float64](a)[i], nil
	}
	return 0, errors.TypeMismatch(errors.PhaseAccess, "Float64At", a.kind.String(), "float64")
}

// SetFloat64 stores v into element i of a real numeric array using a Go
// numeric conversion.
func (a *Array) SetFloat64(i int, v float64) error {
	if err := a.checkIndex("SetFloat64", i); err != nil {
		return err
	}
	switch a.kind {
	case scalar.KindLogical, scalar.KindI8:
		setReal(view[int8](a), i, v)
	case scalar.KindU8:
		setReal(view[uint8](a), i, v)
	case scalar.KindU16:
		setReal(view[uint16](a), i, v)
	case scalar.KindI16:
		setReal(view[int16](a), i, v)
	case scalar.KindU32:
		setReal(view[uint32](a), i, v)
	case scalar.KindI32:
		setReal(view[int32](a), i, v)
	case scalar.KindU64:
		setReal(view[uint64](a), i, v)
	case scalar.KindI64:
		setReal(view[int64](a), i, v)
	case scalar.KindF32:
		setReal(view[float32](a), i, v)
	case scalar.KindF64:
		setReal(view[float64](a), i, v)
	default:
		return errors.TypeMismatch(errors.PhaseAccess, "SetFloat64", a.kind.String(), "float64")
	}
	return nil
}

// Set stores v into element i. v must have the Go element type of the
// array kind.
func (a *Array) Set(i int, v any) error {
	if err := a.checkIndex("Set", i); err != nil {
		return err
	}
	switch a.kind {
	case scalar.KindLogical, scalar.KindI8:
		return setTyped(a, view[int8](a), i, v)
	case scalar.KindU8:
		return setTyped(a, view[uint8](a), i, v)
	case scalar.KindU16:
		return setTyped(a, view[uint16](a), i, v)
	case scalar.KindI16:
		return setTyped(a, view[int16](a), i, v)
	case scalar.KindU32:
		return setTyped(a, view[uint32](a), i, v)
	case scalar.KindI32:
		return setTyped(a, view[int32](a), i, v)
	case scalar.KindU64:
		return setTyped(a, view[uint64](a), i, v)
	case scalar.KindI64:
		return setTyped(a, view[int64](a), i, v)
	case scalar.KindF32:
		return setTyped(a, view[float32](a), i, v)
	case scalar.KindF64:
		return setTyped(a, view[float64](a), i, v)
	case scalar.KindC64:
		return setTyped(a, view[complex64](a), i, v)
	case scalar.KindC128:
		return setTyped(a, view[complex128](a), i, v)
	case scalar.KindString:
		return setTyped(a, a.strs[:a.n], i, v)
	}
	return errors.Unsupported(errors.PhaseAccess, "Set", a.kind.String())
}

func setTyped[T any](a *Array, s []T, i int, v any) error {
	x, ok := v.(T)
	if !ok {
		return errors.TypeMismatch(errors.PhaseAccess, "Set", a.kind.String(), typeName(v))
	}
	s[i] = x
	return nil
}

func setReal[T realElem](s []T, i int, v float64) {
	s[i] = T(v)
}

func (a *Array) checkIndex(op string, i int) error {
	if err := a.checkLive(errors.PhaseAccess, op); err != nil {
		return err
	}
	if i < 0 || i >= a.n {
		return errors.OutOfBounds(errors.PhaseAccess, op, i, a.n)
	}
	return nil
}
