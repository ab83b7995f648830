// Package errors provides structured error types for the dataset module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the operation name, the offending scalar kind and shape,
// an optional file-system path, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseAllocate, errors.KindShape).
//		Op("Allocate").
//		ScalarKind("f32").
//		Shape([]int{3, 0}).
//		Detail("zero-length dimension").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ZeroDimension("Allocate", "f32", shape, 1)
//	err := errors.ShapeMismatch(errors.PhaseMask, "MaskByPredicate", a, b)
//
// All errors implement the standard error interface and support errors.Is/As.
// The package-level sentinels (ErrShape, ErrType, ...) match on kind alone:
//
//	if errors.Is(err, dserrors.ErrShape) { ... }
package errors
