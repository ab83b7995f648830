package scalar

import (
	"strconv"
	"strings"

	"github.com/wippyai/dataset/errors"
)

// ParseValue parses text into the Go element type of k. Surrounding
// whitespace is ignored; "nan" parses to NaN for the floating kinds.
func ParseValue(k Kind, s string) (any, error) {
	t := strings.TrimSpace(s)
	var (
		v   any
		err error
	)
	switch k {
	case KindLogical, KindI8:
		var x int64
		x, err = strconv.ParseInt(t, 10, 8)
		v = int8(x)
	case KindU8:
		var x uint64
		x, err = strconv.ParseUint(t, 10, 8)
		v = uint8(x)
	case KindU16:
		var x uint64
		x, err = strconv.ParseUint(t, 10, 16)
		v = uint16(x)
	case KindI16:
		var x int64
		x, err = strconv.ParseInt(t, 10, 16)
		v = int16(x)
	case KindU32:
		var x uint64
		x, err = strconv.ParseUint(t, 10, 32)
		v = uint32(x)
	case KindI32:
		var x int64
		x, err = strconv.ParseInt(t, 10, 32)
		v = int32(x)
	case KindU64:
		v, err = strconv.ParseUint(t, 10, 64)
	case KindI64:
		v, err = strconv.ParseInt(t, 10, 64)
	case KindF32:
		var x float64
		x, err = strconv.ParseFloat(t, 32)
		v = float32(x)
	case KindF64:
		v, err = strconv.ParseFloat(t, 64)
	case KindC64:
		var x complex128
		x, err = strconv.ParseComplex(t, 64)
		v = complex64(x)
	case KindC128:
		v, err = strconv.ParseComplex(t, 128)
	case KindString:
		return s, nil
	default:
		return nil, errors.Unsupported(errors.PhaseParse, "ParseValue", k.String())
	}
	if err != nil {
		return nil, errors.New(errors.PhaseParse, errors.KindInvalidData).
			Op("ParseValue").
			ScalarKind(k.String()).
			Value(s).
			Cause(err).
			Detail("cannot parse %q", s).
			Build()
	}
	return v, nil
}

// FormatValue renders one element for text output. Floats use the
// shortest representation that parses back to the same value.
func FormatValue(v any) string {
	switch x := v.(type) {
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case complex64:
		return strconv.FormatComplex(complex128(x), 'g', -1, 64)
	case complex128:
		return strconv.FormatComplex(x, 'g', -1, 128)
	case string:
		return x
	}
	return ""
}
