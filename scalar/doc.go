// Package scalar defines the closed set of element kinds an array can hold,
// their byte widths, their promotion order, and the blank (missing value)
// reserved for each.
//
// # Kinds
//
//	logical  1 byte, stored as int8
//	u8 i8    1 byte
//	u16 i16  2 bytes
//	u32 i32  4 bytes
//	u64 i64  8 bytes
//	f32 f64  IEEE 754 binary32 / binary64
//	c64 c128 complex with f32 / f64 parts
//	string   Go string (heap only)
//
// KindBit is named so that requests for packed bits can be rejected; it is
// never supported.
//
// # Blanks
//
// Unsigned integers reserve their maximum value, signed integers their
// minimum, floating and complex kinds NaN, and strings "n/a". A NaN never
// compares equal to itself, so floating blanks must be detected with
// IsBlankF32/IsBlankF64 or BlankPredicate, not with ==.
//
// # Promotion
//
// CommonKind picks the higher-ranked of two kinds:
//
//	logical < u8 < i8 < u16 < i16 < u32 < i32 < u64 < i64 < f32 < f64 < c64 < c128 < string
package scalar
