package array

import (
	"math"

	"go.uber.org/zap"

	"github.com/wippyai/dataset/errors"
	"github.com/wippyai/dataset/scalar"
)

// IsBlankAt reports whether element i holds the blank of the array kind.
// Floating and complex kinds test for NaN. It panics if i is out of range.
func (a *Array) IsBlankAt(i int) bool {
	if i < 0 || i >= a.n {
		panic(errors.OutOfBounds(errors.PhaseAccess, "IsBlankAt", i, a.n))
	}
	switch a.kind {
	case scalar.KindLogical, scalar.KindI8:
		return view[int8](a)[i] == scalar.BlankI8
	case scalar.KindU8:
		return view[uint8](a)[i] == scalar.BlankU8
	case scalar.KindU16:
		return view[uint16](a)[i] == scalar.BlankU16
	case scalar.KindI16:
		return view[int16](a)[i] == scalar.BlankI16
	case scalar.KindU32:
		return view[uint32](a)[i] == scalar.BlankU32
	case scalar.KindI32:
		return view[int32](a)[i] == scalar.BlankI32
	case scalar.KindU64:
		return view[uint64](a)[i] == scalar.BlankU64
	case scalar.KindI64:
		return view[int64](a)[i] == scalar.BlankI64
	case scalar.KindF32:
		return scalar.IsBlankF32(view[float32](a)[i])
	case scalar.KindF64:
		return scalar.IsBlankF64(view[float64](a)[i])
	case scalar.KindC64:
		return scalar.IsBlankC64(view[complex64](a)[i])
	case scalar.KindC128:
		return scalar.IsBlankC128(view[complex128](a)[i])
	case scalar.KindString:
		return a.strs[i] == scalar.BlankString
	}
	return false
}

func countIf[T any](s []T, pred func(T) bool) int {
	n := 0
	for _, v := range s {
		if pred(v) {
			n++
		}
	}
	return n
}

func countBlank[T scalar.Element](a *Array) int {
	return countIf(view[T](a), scalar.BlankPredicate[T]())
}

// CountBlank returns the number of blank elements.
func CountBlank(a *Array) int {
	if a.released {
		return 0
	}
	switch a.kind {
	case scalar.KindLogical, scalar.KindI8:
		return countBlank[int8](a)
	case scalar.KindU8:
		return countBlank[uint8](a)
	case scalar.KindU16:
		return countBlank[uint16](a)
	case scalar.KindI16:
		return countBlank[int16](a)
	case scalar.KindU32:
		return countBlank[uint32](a)
	case scalar.KindI32:
		return countBlank[int32](a)
	case scalar.KindU64:
		return countBlank[uint64](a)
	case scalar.KindI64:
		return countBlank[int64](a)
	case scalar.KindF32:
		return countBlank[float32](a)
	case scalar.KindF64:
		return countBlank[float64](a)
	case scalar.KindC64:
		return countBlank[complex64](a)
	case scalar.KindC128:
		return countBlank[complex128](a)
	case scalar.KindString:
		return countIf(a.strs[:a.n], isBlankString)
	}
	return 0
}

// HasBlank scans the array and reports whether any element is blank.
func HasBlank(a *Array) bool {
	return CountBlank(a) > 0
}

func isBlankString(s string) bool { return s == scalar.BlankString }

func maskSlice[T any](dst []T, pred []float32, blank T) {
	for i := range dst {
		if pred[i] != 0 {
			dst[i] = blank
		}
	}
}

func maskTyped[T scalar.Element](a *Array, pred []float32) {
	maskSlice(view[T](a), pred, scalar.BlankOf[T]())
}

// MaskByPredicate writes the blank of a's kind wherever pred is non-zero.
// pred must have a's shape. It is read as f32 so that fractional masks
// (coverage maps with values between 0 and 1) still blank; other kinds are
// converted first. The blank flag is set only if some element was masked.
func MaskByPredicate(a, pred *Array) error {
	const op = "MaskByPredicate"

	if err := a.checkLive(errors.PhaseMask, op); err != nil {
		return err
	}
	if err := pred.checkLive(errors.PhaseMask, op); err != nil {
		return err
	}
	if !ShapesEqual(a, pred) {
		return errors.ShapeMismatch(errors.PhaseMask, op, a.shape, pred.shape)
	}

	mask := pred
	if pred.kind != scalar.KindF32 {
		converted, err := Convert(pred, scalar.KindF32)
		if err != nil {
			return err
		}
		defer func() {
			if err := converted.Release(); err != nil {
				Logger().Warn("release converted predicate", zap.Error(err))
			}
		}()
		mask = converted
	}
	m := view[float32](mask)

	hasBlank := false
	for _, v := range m {
		if v != 0 {
			hasBlank = true
			break
		}
	}
	if !hasBlank {
		return nil
	}
	a.anyBlank = true

	switch a.kind {
	case scalar.KindLogical, scalar.KindI8:
		maskTyped[int8](a, m)
	case scalar.KindU8:
		maskTyped[uint8](a, m)
	case scalar.KindU16:
		maskTyped[uint16](a, m)
	case scalar.KindI16:
		maskTyped[int16](a, m)
	case scalar.KindU32:
		maskTyped[uint32](a, m)
	case scalar.KindI32:
		maskTyped[int32](a, m)
	case scalar.KindU64:
		maskTyped[uint64](a, m)
	case scalar.KindI64:
		maskTyped[int64](a, m)
	case scalar.KindF32:
		maskTyped[float32](a, m)
	case scalar.KindF64:
		maskTyped[float64](a, m)
	case scalar.KindC64:
		maskTyped[complex64](a, m)
	case scalar.KindC128:
		maskTyped[complex128](a, m)
	case scalar.KindString:
		maskSlice(a.strs[:a.n], m, scalar.BlankString)
	default:
		return errors.Unsupported(errors.PhaseMask, op, a.kind.String())
	}
	return nil
}

func replaceSlice[T any](s []T, pred func(T) bool, v T) {
	for i := range s {
		if pred(s[i]) {
			s[i] = v
		}
	}
}

func replaceTyped[T scalar.Element](a *Array, value any) error {
	v, ok := value.(T)
	if !ok {
		return errors.TypeMismatch(errors.PhaseMask, "ReplaceBlank", a.kind.String(), typeName(value))
	}
	replaceSlice(view[T](a), scalar.BlankPredicate[T](), v)
	return nil
}

// ReplaceBlank overwrites every blank element with value, which must have
// the Go type of a's kind. The element count and blank flag are unchanged.
func ReplaceBlank(a *Array, value any) error {
	const op = "ReplaceBlank"

	if err := a.checkLive(errors.PhaseMask, op); err != nil {
		return err
	}
	switch a.kind {
	case scalar.KindLogical, scalar.KindI8:
		return replaceTyped[int8](a, value)
	case scalar.KindU8:
		return replaceTyped[uint8](a, value)
	case scalar.KindU16:
		return replaceTyped[uint16](a, value)
	case scalar.KindI16:
		return replaceTyped[int16](a, value)
	case scalar.KindU32:
		return replaceTyped[uint32](a, value)
	case scalar.KindI32:
		return replaceTyped[int32](a, value)
	case scalar.KindU64:
		return replaceTyped[uint64](a, value)
	case scalar.KindI64:
		return replaceTyped[int64](a, value)
	case scalar.KindF32:
		return replaceTyped[float32](a, value)
	case scalar.KindF64:
		return replaceTyped[float64](a, value)
	case scalar.KindC64:
		return replaceTyped[complex64](a, value)
	case scalar.KindC128:
		return replaceTyped[complex128](a, value)
	case scalar.KindString:
		v, ok := value.(string)
		if !ok {
			return errors.TypeMismatch(errors.PhaseMask, op, a.kind.String(), typeName(value))
		}
		replaceSlice(a.strs[:a.n], isBlankString, v)
		return nil
	}
	return errors.Unsupported(errors.PhaseMask, op, a.kind.String())
}

// compact moves the elements that are not blank to the front, keeping
// their order, and returns how many there are.
func compact[T any](s []T, pred func(T) bool) int {
	j := 0
	for _, v := range s {
		if !pred(v) {
			s[j] = v
			j++
		}
	}
	return j
}

func compactTyped[T scalar.Element](a *Array) int {
	return compact(view[T](a), scalar.BlankPredicate[T]())
}

// RemoveBlank drops every blank element in place, keeping the order of the
// rest. The array becomes one-dimensional with the surviving count, which
// may be zero. The store is not reallocated; its tail stays owned until
// Release.
func RemoveBlank(a *Array) error {
	const op = "RemoveBlank"

	if err := a.checkLive(errors.PhaseMask, op); err != nil {
		return err
	}
	var n int
	switch a.kind {
	case scalar.KindLogical, scalar.KindI8:
		n = compactTyped[int8](a)
	case scalar.KindU8:
		n = compactTyped[uint8](a)
	case scalar.KindU16:
		n = compactTyped[uint16](a)
	case scalar.KindI16:
		n = compactTyped[int16](a)
	case scalar.KindU32:
		n = compactTyped[uint32](a)
	case scalar.KindI32:
		n = compactTyped[int32](a)
	case scalar.KindU64:
		n = compactTyped[uint64](a)
	case scalar.KindI64:
		n = compactTyped[int64](a)
	case scalar.KindF32:
		n = compactTyped[float32](a)
	case scalar.KindF64:
		n = compactTyped[float64](a)
	case scalar.KindC64:
		n = compactTyped[complex64](a)
	case scalar.KindC128:
		n = compactTyped[complex128](a)
	case scalar.KindString:
		n = compact(a.strs[:a.n], isBlankString)
		clear(a.strs[n:])
	default:
		return errors.Unsupported(errors.PhaseMask, op, a.kind.String())
	}

	if removed := a.n - n; removed > 0 {
		Logger().Debug("removed blank elements",
			zap.Stringer("kind", a.kind),
			zap.Int("removed", removed),
			zap.Int("remaining", n))
	}
	a.n = n
	a.shape = []int{n}
	a.anyBlank = false
	return nil
}

func maskRange[T realElem](a *Array, lo, hi float64) bool {
	s := view[T](a)
	isBlank := scalar.BlankPredicate[T]()
	blank := scalar.BlankOf[T]()
	masked := false
	for i, v := range s {
		if isBlank(v) {
			continue
		}
		f := float64(v)
		if (!math.IsNaN(lo) && f < lo) || (!math.IsNaN(hi) && f >= hi) {
			s[i] = blank
			masked = true
		}
	}
	return masked
}

// MaskOutOfRange blanks every element below lo or at/above hi. A NaN bound
// is not applied. Only real numeric kinds are accepted.
func MaskOutOfRange(a *Array, lo, hi float64) error {
	const op = "MaskOutOfRange"

	if err := a.checkLive(errors.PhaseMask, op); err != nil {
		return err
	}
	if math.IsNaN(lo) && math.IsNaN(hi) {
		return nil
	}

	var masked bool
	switch a.kind {
	case scalar.KindLogical, scalar.KindI8:
		masked = maskRange[int8](a, lo, hi)
	case scalar.KindU8:
		masked = maskRange[uint8](a, lo, hi)
	case scalar.KindU16:
		masked = maskRange[uint16](a, lo, hi)
	case scalar.KindI16:
		masked = maskRange[int16](a, lo, hi)
	case scalar.KindU32:
		masked = maskRange[uint32](a, lo, hi)
	case scalar.KindI32:
		masked = maskRange[int32](a, lo, hi)
	case scalar.KindU64:
		masked = maskRange[uint64](a, lo, hi)
	case scalar.KindI64:
		masked = maskRange[int64](a, lo, hi)
	case scalar.KindF32:
		masked = maskRange[float32](a, lo, hi)
	case scalar.KindF64:
		masked = maskRange[float64](a, lo, hi)
	default:
		return errors.TypeMismatch(errors.PhaseMask, op, a.kind.String(), "float64")
	}
	if masked {
		a.anyBlank = true
	}
	return nil
}
