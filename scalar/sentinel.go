package scalar

import (
	"math"

	"github.com/wippyai/dataset/errors"
)

// Element is the set of Go types that back numeric kinds. KindLogical and
// KindI8 share int8.
type Element interface {
	uint8 | int8 | uint16 | int16 | uint32 | int32 | uint64 | int64 |
		float32 | float64 | complex64 | complex128
}

// Blank values for the integer and string kinds. Unsigned kinds reserve
// their maximum, signed kinds their minimum.
const (
	BlankLogical int8   = math.MinInt8
	BlankU8      uint8  = math.MaxUint8
	BlankI8      int8   = math.MinInt8
	BlankU16     uint16 = math.MaxUint16
	BlankI16     int16  = math.MinInt16
	BlankU32     uint32 = math.MaxUint32
	BlankI32     int32  = math.MinInt32
	BlankU64     uint64 = math.MaxUint64
	BlankI64     int64  = math.MinInt64
	BlankString         = "n/a"
)

// BlankF32 returns the float32 blank (NaN). Compare with IsBlankF32, never ==.
func BlankF32() float32 { return float32(math.NaN()) }

// BlankF64 returns the float64 blank (NaN).
func BlankF64() float64 { return math.NaN() }

// BlankC64 returns the complex64 blank, NaN in both parts.
func BlankC64() complex64 { return complex(BlankF32(), BlankF32()) }

// BlankC128 returns the complex128 blank, NaN in both parts.
func BlankC128() complex128 { return complex(math.NaN(), math.NaN()) }

func IsBlankF32(v float32) bool { return math.IsNaN(float64(v)) }

func IsBlankF64(v float64) bool { return math.IsNaN(v) }

// IsBlankC64 reports whether both parts of v are NaN.
func IsBlankC64(v complex64) bool {
	return math.IsNaN(float64(real(v))) && math.IsNaN(float64(imag(v)))
}

func IsBlankC128(v complex128) bool {
	return math.IsNaN(real(v)) && math.IsNaN(imag(v))
}

// Blank returns the blank value of k as its Go element type.
func Blank(k Kind) (any, error) {
	switch k {
	case KindLogical:
		return BlankLogical, nil
	case KindU8:
		return BlankU8, nil
	case KindI8:
		return BlankI8, nil
	case KindU16:
		return BlankU16, nil
	case KindI16:
		return BlankI16, nil
	case KindU32:
		return BlankU32, nil
	case KindI32:
		return BlankI32, nil
	case KindU64:
		return BlankU64, nil
	case KindI64:
		return BlankI64, nil
	case KindF32:
		return BlankF32(), nil
	case KindF64:
		return BlankF64(), nil
	case KindC64:
		return BlankC64(), nil
	case KindC128:
		return BlankC128(), nil
	case KindString:
		return BlankString, nil
	}
	return nil, errors.Unsupported(errors.PhaseMask, "Blank", k.String())
}

// BlankLiteral is the token that stands for a blank in text tables when a
// column declares no blank token of its own.
func BlankLiteral(k Kind) string {
	switch k {
	case KindLogical, KindI8:
		return "-128"
	case KindU8:
		return "255"
	case KindU16:
		return "65535"
	case KindI16:
		return "-32768"
	case KindU32:
		return "4294967295"
	case KindI32:
		return "-2147483648"
	case KindU64:
		return "18446744073709551615"
	case KindI64:
		return "-9223372036854775808"
	case KindF32, KindF64, KindC64, KindC128:
		return "nan"
	case KindString:
		return BlankString
	}
	return ""
}

// BlankOf returns the blank value for the Go type T.
func BlankOf[T Element]() T {
	var zero T
	var v any
	switch any(zero).(type) {
	case uint8:
		v = BlankU8
	case int8:
		v = BlankI8
	case uint16:
		v = BlankU16
	case int16:
		v = BlankI16
	case uint32:
		v = BlankU32
	case int32:
		v = BlankI32
	case uint64:
		v = BlankU64
	case int64:
		v = BlankI64
	case float32:
		v = BlankF32()
	case float64:
		v = BlankF64()
	case complex64:
		v = BlankC64()
	case complex128:
		v = BlankC128()
	}
	return v.(T)
}

// BlankPredicate returns the blank test for T. Floating and complex types
// test for NaN; integer types compare against their reserved value.
func BlankPredicate[T Element]() func(T) bool {
	var zero T
	var p any
	switch any(zero).(type) {
	case float32:
		p = IsBlankF32
	case float64:
		p = IsBlankF64
	case complex64:
		p = IsBlankC64
	case complex128:
		p = IsBlankC128
	default:
		b := BlankOf[T]()
		return func(v T) bool { return v == b }
	}
	return p.(func(T) bool)
}

// KindOf returns the kind backing the Go type T. int8 maps to KindI8.
func KindOf[T Element]() Kind {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return KindU8
	case int8:
		return KindI8
	case uint16:
		return KindU16
	case int16:
		return KindI16
	case uint32:
		return KindU32
	case int32:
		return KindI32
	case uint64:
		return KindU64
	case int64:
		return KindI64
	case float32:
		return KindF32
	case float64:
		return KindF64
	case complex64:
		return KindC64
	case complex128:
		return KindC128
	}
	return KindBit
}

// IsBlankValue reports whether v is the blank of kind k. v must hold the
// Go element type of k; any other value reports false.
func IsBlankValue(k Kind, v any) bool {
	switch x := v.(type) {
	case int8:
		return (k == KindI8 || k == KindLogical) && x == BlankI8
	case uint8:
		return k == KindU8 && x == BlankU8
	case uint16:
		return k == KindU16 && x == BlankU16
	case int16:
		return k == KindI16 && x == BlankI16
	case uint32:
		return k == KindU32 && x == BlankU32
	case int32:
		return k == KindI32 && x == BlankI32
	case uint64:
		return k == KindU64 && x == BlankU64
	case int64:
		return k == KindI64 && x == BlankI64
	case float32:
		return k == KindF32 && IsBlankF32(x)
	case float64:
		return k == KindF64 && IsBlankF64(x)
	case complex64:
		return k == KindC64 && IsBlankC64(x)
	case complex128:
		return k == KindC128 && IsBlankC128(x)
	case string:
		return k == KindString && x == BlankString
	}
	return false
}
