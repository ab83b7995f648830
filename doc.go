// Package dataset provides typed, shaped array containers for numeric and
// text data, with an explicit notion of blank (missing) values.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct responsibilities:
//
//	dataset/
//	├── scalar/      Element kinds, widths, promotion order and blank values
//	├── store/       Heap and file-mapped memory regions that back arrays
//	├── array/       Array container, blank masking/compaction, conversion
//	├── txttable/    Plain-text tables with column-info comments
//	├── config/      YAML configuration with environment overrides
//	├── errors/      Structured error types for debugging
//	└── cmd/dsarr/   Command-line inspection and transformation of tables
//
// # Quick Start
//
// Allocate, mask and compact an array:
//
//	a, err := array.Allocate(scalar.KindF32, []int{3, 4}, array.Options{Zero: true})
//	if err != nil {
//	    return err
//	}
//	defer a.Release()
//
//	if err := array.MaskByPredicate(a, mask); err != nil {
//	    return err
//	}
//	if err := array.RemoveBlank(a); err != nil {
//	    return err
//	}
//
// Large arrays can be backed by temporary files instead of Go memory:
//
//	p := store.NewProvider(store.Config{ScratchDir: "/scratch"})
//	defer p.Close()
//	al := array.NewAllocator(p)
//	big, err := al.Allocate(scalar.KindF64, []int{4096, 4096}, array.Options{
//	    Policy: store.PolicyMapped,
//	})
//
// # Blank Values
//
// Every kind reserves one value as its blank: the maximum for unsigned
// integers, the minimum for signed integers, NaN for floating and complex
// kinds, and "n/a" for strings. See package scalar.
//
// # Logging
//
// Library packages log through zap and are silent by default. Install a
// logger with store.SetLogger, array.SetLogger and txttable.SetLogger.
//
// # Error Handling
//
// Errors are *errors.Error values carrying a phase, a kind and the shape or
// path involved. Match broad categories with the sentinels:
//
//	if errors.Is(err, dserrors.ErrShape) { ... }
package dataset
