// Package array provides Array, an n-dimensional typed buffer whose memory
// comes from a store.Store, plus the operations that work on blanks.
//
// Allocation validates the kind and shape before touching memory:
//
//	a, err := array.Allocate(scalar.KindF32, []int{3, 4}, array.Options{
//	    Zero:   true,
//	    Policy: store.PolicyMapped,
//	})
//	if err != nil {
//	    return err
//	}
//	defer a.Release()
//
// Values and Strings expose the elements as a Go slice without copying.
//
// # Blanks
//
// MaskByPredicate, MaskOutOfRange and string conversion write blanks.
// ReplaceBlank overwrites them and RemoveBlank compacts them away, leaving
// a one-dimensional array. AnyBlank is a hint set by masking, not a scan;
// use HasBlank or CountBlank for an exact answer.
//
// # Conversion
//
// Convert produces a new array of another kind with Go numeric conversion
// semantics and the same backing policy. ConvertRelease does the same and
// releases the input.
package array
