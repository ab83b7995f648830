package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:      PhaseAllocate,
				Kind:       KindShape,
				Op:         "Allocate",
				ScalarKind: "f32",
				Shape:      []int{3, 0},
				Detail:     "zero-length dimension",
			},
			contains: []string{"[allocate]", "shape", "Allocate", "kind f32", "[3,0]", "zero-length dimension"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseConvert,
				Kind:  KindConversion,
			},
			contains: []string{"[convert]", "conversion"},
		},
		{
			name: "error with path and cause",
			err: &Error{
				Phase: PhaseAllocate,
				Kind:  KindIO,
				Path:  ".dataset/mmap_x",
				Cause: errors.New("disk full"),
			},
			contains: []string{"[allocate]", "io", ".dataset/mmap_x", "caused by", "disk full"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseRelease,
		Kind:  KindIO,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not reach cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseMask,
		Kind:  KindShape,
		Op:    "MaskByPredicate",
	}

	if !err.Is(&Error{Phase: PhaseMask, Kind: KindShape}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseAllocate, Kind: KindShape}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseMask, Kind: KindType}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrShape) {
		t.Error("phase-less sentinel should match on kind")
	}
	if errors.Is(err, ErrType) {
		t.Error("sentinel of another kind should not match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	shape := []int{4, 5}
	err := New(PhaseConvert, KindConversion).
		Op("Convert").
		ScalarKind("bit").
		Shape(shape).
		Path("x").
		Value(42).
		Cause(cause).
		Detail("cannot convert %s to %s", "f32", "bit").
		Build()

	shape[0] = 99
	if err.Shape[0] != 4 {
		t.Error("Shape should be copied")
	}
	if err.Op != "Convert" || err.ScalarKind != "bit" || err.Path != "x" {
		t.Errorf("unexpected fields: %+v", err)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "cannot convert f32 to bit" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("ZeroDimension", func(t *testing.T) {
		err := ZeroDimension("Allocate", "i16", []int{2, 0, 3}, 1)
		if !errors.Is(err, ErrShape) {
			t.Errorf("Kind = %v, want %v", err.Kind, KindShape)
		}
		if err.ScalarKind != "i16" {
			t.Errorf("ScalarKind = %q, want i16", err.ScalarKind)
		}
		if got := err.Error(); !strings.Contains(got, "kind i16, shape [2,0,3]") {
			t.Errorf("Error() = %q", got)
		}
		if !strings.Contains(err.Detail, "zero-length dimension") {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("ShapeMismatch", func(t *testing.T) {
		err := ShapeMismatch(PhaseMask, "MaskByPredicate", []int{3, 4}, []int{4, 3})
		if err.Kind != KindShape || err.Phase != PhaseMask {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if !strings.Contains(err.Error(), "[4,3]") {
			t.Errorf("message should name both shapes: %s", err)
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseAllocate, "Allocate", "bit")
		if !errors.Is(err, ErrType) {
			t.Errorf("Kind = %v, want %v", err.Kind, KindType)
		}
	})

	t.Run("AllocationFailed", func(t *testing.T) {
		err := AllocationFailed("Allocate", "f64", []int{8}, 64, errors.New("nope"))
		if !errors.Is(err, ErrAllocation) {
			t.Errorf("Kind = %v, want %v", err.Kind, KindAllocation)
		}
		if !strings.Contains(err.Detail, "64") {
			t.Errorf("Detail = %v, should contain size", err.Detail)
		}
	})

	t.Run("IO", func(t *testing.T) {
		err := IO(PhaseAllocate, "mmap", "/tmp/x", errors.New("EACCES"))
		if !errors.Is(err, ErrIO) {
			t.Errorf("Kind = %v, want %v", err.Kind, KindIO)
		}
	})

	t.Run("ConversionUnsupported", func(t *testing.T) {
		err := ConversionUnsupported("Convert", "f32", "bit")
		if !errors.Is(err, ErrConversion) {
			t.Errorf("Kind = %v, want %v", err.Kind, KindConversion)
		}
	})

	t.Run("Released", func(t *testing.T) {
		err := Released(PhaseRelease, "Release")
		if !errors.Is(err, ErrReleased) {
			t.Errorf("Kind = %v, want %v", err.Kind, KindReleased)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseAccess, "Float64At", 10, 5)
		if err.Value != 10 {
			t.Errorf("Value = %v, want 10", err.Value)
		}
	})
}

func TestFormatShape(t *testing.T) {
	tests := []struct {
		shape []int
		want  string
	}{
		{nil, "[]"},
		{[]int{7}, "[7]"},
		{[]int{3, 4, 5}, "[3,4,5]"},
	}
	for _, tt := range tests {
		if got := FormatShape(tt.shape); got != tt.want {
			t.Errorf("FormatShape(%v) = %q, want %q", tt.shape, got, tt.want)
		}
	}
}
