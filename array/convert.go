package array

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/dataset/errors"
	"github.com/wippyai/dataset/scalar"
)

// Convert returns a new array of kind target holding a's elements under Go
// numeric conversion. The shape, blank flag and backing policy carry over
// and a is left untouched. Integer and float blanks are converted like any
// other value; only the string kind maps blanks to and from "n/a". Text that
// does not parse as the target kind becomes the target blank.
func Convert(a *Array, target scalar.Kind) (*Array, error) {
	const op = "Convert"

	if err := a.checkLive(errors.PhaseConvert, op); err != nil {
		return nil, err
	}
	if !target.Supported() {
		return nil, errors.ConversionUnsupported(op, a.kind.String(), target.String())
	}
	if target == a.kind {
		return a.Copy()
	}

	out, err := a.allocLike(target)
	if err != nil {
		return nil, err
	}
	out.anyBlank = a.anyBlank

	var ok bool
	switch a.kind {
	case scalar.KindLogical, scalar.KindI8:
		ok = fromReal(out, view[int8](a))
	case scalar.KindU8:
		ok = fromReal(out, view[uint8](a))
	case scalar.KindU16:
		ok = fromReal(out, view[uint16](a))
	case scalar.KindI16:
		ok = fromReal(out, view[int16](a))
	case scalar.KindU32:
		ok = fromReal(out, view[uint32](a))
	case scalar.KindI32:
		ok = fromReal(out, view[int32](a))
	case scalar.KindU64:
		ok = fromReal(out, view[uint64](a))
	case scalar.KindI64:
		ok = fromReal(out, view[int64](a))
	case scalar.KindF32:
		ok = fromReal(out, view[float32](a))
	case scalar.KindF64:
		ok = fromReal(out, view[float64](a))
	case scalar.KindC64:
		ok = fromC64(out, view[complex64](a))
	case scalar.KindC128:
		ok = fromC128(out, view[complex128](a))
	case scalar.KindString:
		ok = fromStrings(out, a.strs[:a.n])
	}
	if !ok {
		if rerr := out.Release(); rerr != nil {
			Logger().Warn("release partial conversion", zap.Error(rerr))
		}
		return nil, errors.ConversionUnsupported(op, a.kind.String(), target.String())
	}

	Logger().Debug("converted array",
		zap.Stringer("from", a.kind),
		zap.Stringer("to", target),
		zap.Int("len", a.n))
	return out, nil
}

// ConvertRelease converts a and releases it. When a already has kind target
// it is returned as is. On error a is left alive.
func ConvertRelease(a *Array, target scalar.Kind) (*Array, error) {
	if a.checkLive(errors.PhaseConvert, "ConvertRelease") == nil && a.kind == target {
		return a, nil
	}
	out, err := Convert(a, target)
	if err != nil {
		return nil, err
	}
	if err := a.Release(); err != nil {
		Logger().Warn("release converted input", zap.Error(err))
	}
	return out, nil
}

func castSlice[S, D realElem](dst []D, src []S) {
	for i, v := range src {
		dst[i] = D(v)
	}
}

func formatSlice[S scalar.Element](dst []string, src []S) {
	isBlank := scalar.BlankPredicate[S]()
	for i, v := range src {
		if isBlank(v) {
			dst[i] = scalar.BlankString
			continue
		}
		dst[i] = scalar.FormatValue(v)
	}
}

// fromReal fills out from a real numeric source. It reports false when the
// target kind is not one it can produce.
func fromReal[S realElem](out *Array, src []S) bool {
	switch out.kind {
	case scalar.KindLogical, scalar.KindI8:
		castSlice(view[int8](out), src)
	case scalar.KindU8:
		castSlice(view[uint8](out), src)
	case scalar.KindU16:
		castSlice(view[uint16](out), src)
	case scalar.KindI16:
		castSlice(view[int16](out), src)
	case scalar.KindU32:
		castSlice(view[uint32](out), src)
	case scalar.KindI32:
		castSlice(view[int32](out), src)
	case scalar.KindU64:
		castSlice(view[uint64](out), src)
	case scalar.KindI64:
		castSlice(view[int64](out), src)
	case scalar.KindF32:
		castSlice(view[float32](out), src)
	case scalar.KindF64:
		castSlice(view[float64](out), src)
	case scalar.KindC64:
		dst := view[complex64](out)
		for i, v := range src {
			dst[i] = complex(float32(v), 0)
		}
	case scalar.KindC128:
		dst := view[complex128](out)
		for i, v := range src {
			dst[i] = complex(float64(v), 0)
		}
	case scalar.KindString:
		formatSlice(out.strs[:out.n], src)
	default:
		return false
	}
	return true
}

func fromC64(out *Array, src []complex64) bool {
	switch out.kind {
	case scalar.KindC128:
		dst := view[complex128](out)
		for i, v := range src {
			dst[i] = complex128(v)
		}
		return true
	case scalar.KindString:
		formatSlice(out.strs[:out.n], src)
		return true
	}
	re := make([]float32, len(src))
	for i, v := range src {
		re[i] = real(v)
	}
	return fromReal(out, re)
}

func fromC128(out *Array, src []complex128) bool {
	switch out.kind {
	case scalar.KindC64:
		dst := view[complex64](out)
		for i, v := range src {
			dst[i] = complex64(v)
		}
		return true
	case scalar.KindString:
		formatSlice(out.strs[:out.n], src)
		return true
	}
	re := make([]float64, len(src))
	for i, v := range src {
		re[i] = real(v)
	}
	return fromReal(out, re)
}

// parseSlice parses every string as kind k. Blank or unparsable text becomes
// the blank of T. It reports whether any blank was written.
func parseSlice[T scalar.Element](dst []T, src []string, k scalar.Kind) bool {
	blank := scalar.BlankOf[T]()
	wrote := false
	for i, s := range src {
		if s == scalar.BlankString {
			dst[i] = blank
			wrote = true
			continue
		}
		v, err := scalar.ParseValue(k, s)
		if err != nil {
			dst[i] = blank
			wrote = true
			continue
		}
		dst[i] = v.(T)
	}
	return wrote
}

func fromStrings(out *Array, src []string) bool {
	var wrote bool
	switch out.kind {
	case scalar.KindLogical, scalar.KindI8:
		wrote = parseSlice(view[int8](out), src, out.kind)
	case scalar.KindU8:
		wrote = parseSlice(view[uint8](out), src, out.kind)
	case scalar.KindU16:
		wrote = parseSlice(view[uint16](out), src, out.kind)
	case scalar.KindI16:
		wrote = parseSlice(view[int16](out), src, out.kind)
	case scalar.KindU32:
		wrote = parseSlice(view[uint32](out), src, out.kind)
	case scalar.KindI32:
		wrote = parseSlice(view[int32](out), src, out.kind)
	case scalar.KindU64:
		wrote = parseSlice(view[uint64](out), src, out.kind)
	case scalar.KindI64:
		wrote = parseSlice(view[int64](out), src, out.kind)
	case scalar.KindF32:
		wrote = parseSlice(view[float32](out), src, out.kind)
	case scalar.KindF64:
		wrote = parseSlice(view[float64](out), src, out.kind)
	case scalar.KindC64:
		wrote = parseSlice(view[complex64](out), src, out.kind)
	case scalar.KindC128:
		wrote = parseSlice(view[complex128](out), src, out.kind)
	default:
		return false
	}
	if wrote {
		out.anyBlank = true
	}
	return true
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
