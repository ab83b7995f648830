package scalar

import (
	"strconv"
	"strings"
	"unsafe"

	"github.com/wippyai/dataset/errors"
)

// Kind identifies the element type of an array. The zero value is KindBit,
// which is declared but never supported.
type Kind uint8

const (
	KindBit Kind = iota
	KindLogical
	KindU8
	KindI8
	KindU16
	KindI16
	KindU32
	KindI32
	KindU64
	KindI64
	KindF32
	KindF64
	KindC64
	KindC128
	KindString

	numKinds
)

var kindNames = [...]string{
	KindBit:     "bit",
	KindLogical: "logical",
	KindU8:      "u8",
	KindI8:      "i8",
	KindU16:     "u16",
	KindI16:     "i16",
	KindU32:     "u32",
	KindI32:     "i32",
	KindU64:     "u64",
	KindI64:     "i64",
	KindF32:     "f32",
	KindF64:     "f64",
	KindC64:     "c64",
	KindC128:    "c128",
	KindString:  "string",
}

// stringWidth is the size of a Go string descriptor. String elements are
// held by the Go heap, so this is the per-element cost of the descriptor
// rather than of the text.
const stringWidth = int(unsafe.Sizeof(""))

var kindWidths = [...]int{
	KindBit:     0,
	KindLogical: 1,
	KindU8:      1,
	KindI8:      1,
	KindU16:     2,
	KindI16:     2,
	KindU32:     4,
	KindI32:     4,
	KindU64:     8,
	KindI64:     8,
	KindF32:     4,
	KindF64:     8,
	KindC64:     8,
	KindC128:    16,
	KindString:  stringWidth,
}

// Promotion ranks. Within a width the unsigned kind sits below the signed
// one, floats sit above every integer, complex above floats, and strings
// above everything.
var kindRanks = [...]int{
	KindBit:     -1,
	KindLogical: 0,
	KindU8:      1,
	KindI8:      2,
	KindU16:     3,
	KindI16:     4,
	KindU32:     5,
	KindI32:     6,
	KindU64:     7,
	KindI64:     8,
	KindF32:     9,
	KindF64:     10,
	KindC64:     11,
	KindC128:    12,
	KindString:  13,
}

// Kinds lists every supported kind in promotion order.
func Kinds() []Kind {
	return []Kind{
		KindLogical, KindU8, KindI8, KindU16, KindI16, KindU32, KindI32,
		KindU64, KindI64, KindF32, KindF64, KindC64, KindC128, KindString,
	}
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Supported reports whether arrays of this kind can be allocated.
func (k Kind) Supported() bool {
	return k > KindBit && k < numKinds
}

// Width returns the byte width of one element, or 0 for an unsupported kind.
func (k Kind) Width() int {
	if !k.Supported() {
		return 0
	}
	return kindWidths[k]
}

func (k Kind) IsUnsigned() bool {
	switch k {
	case KindU8, KindU16, KindU32, KindU64:
		return true
	}
	return false
}

func (k Kind) IsSigned() bool {
	switch k {
	case KindLogical, KindI8, KindI16, KindI32, KindI64:
		return true
	}
	return false
}

func (k Kind) IsInteger() bool {
	return k.IsUnsigned() || k.IsSigned()
}

func (k Kind) IsFloat() bool {
	return k == KindF32 || k == KindF64
}

func (k Kind) IsComplex() bool {
	return k == KindC64 || k == KindC128
}

// IsNumeric reports whether values of the kind can be read as float64.
func (k Kind) IsNumeric() bool {
	return k.IsInteger() || k.IsFloat()
}

// Rank returns the promotion rank of k.
func Rank(k Kind) (int, error) {
	if !k.Supported() {
		return 0, errors.Unsupported(errors.PhaseConvert, "Rank", k.String())
	}
	return kindRanks[k], nil
}

// CommonKind returns whichever of a and b ranks higher. Binary operations
// convert both operands to it first.
func CommonKind(a, b Kind) (Kind, error) {
	ra, err := Rank(a)
	if err != nil {
		return KindBit, err
	}
	rb, err := Rank(b)
	if err != nil {
		return KindBit, err
	}
	if ra >= rb {
		return a, nil
	}
	return b, nil
}

// Code returns the type code used in column-info comments.
func Code(k Kind) string {
	if k == KindString {
		return "str"
	}
	return k.String()
}

// ParseCode maps a column-info type code to a kind. For strings the
// declared width follows the code ("str20"); width is 0 for other kinds.
func ParseCode(code string) (k Kind, width int, err error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if rest, ok := strings.CutPrefix(code, "str"); ok {
		if rest == "" {
			return KindString, 0, nil
		}
		n, convErr := strconv.Atoi(rest)
		if convErr != nil || n <= 0 {
			return KindBit, 0, errors.New(errors.PhaseParse, errors.KindType).
				Op("ParseCode").
				Value(code).
				Detail("invalid string width in type code %q", code).
				Build()
		}
		return KindString, n, nil
	}
	for i := KindLogical; i < numKinds; i++ {
		if kindNames[i] == code {
			return i, 0, nil
		}
	}
	return KindBit, 0, errors.New(errors.PhaseParse, errors.KindType).
		Op("ParseCode").
		Value(code).
		Detail("unknown type code %q", code).
		Build()
}
