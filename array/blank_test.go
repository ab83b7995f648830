package array

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dserrors "github.com/wippyai/dataset/errors"
	"github.com/wippyai/dataset/scalar"
	"github.com/wippyai/dataset/store"
)

func fromFloat64s(t *testing.T, al *Allocator, k scalar.Kind, vals []float64) *Array {
	t.Helper()
	a := mustAllocate(t, al, k, []int{len(vals)}, store.PolicyHeap)
	for i, v := range vals {
		require.NoError(t, a.SetFloat64(i, v))
	}
	return a
}

func TestMaskByPredicate_AllZeroIsNoop(t *testing.T) {
	al := newTestAllocator(t)

	for _, k := range scalar.Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			a := mustAllocate(t, al, k, []int{2, 3}, store.PolicyHeap)
			before := a.Bytes()
			if before != nil {
				before = append([]byte(nil), before...)
			}
			pred := mustAllocate(t, al, scalar.KindU8, []int{2, 3}, store.PolicyHeap)

			require.NoError(t, MaskByPredicate(a, pred))
			assert.False(t, a.AnyBlank())
			assert.Equal(t, before, a.Bytes())
			assert.Equal(t, 0, CountBlank(a))
		})
	}
}

func TestMaskByPredicate_EveryKind(t *testing.T) {
	al := newTestAllocator(t)

	for _, k := range scalar.Kinds() {
		for _, p := range policies {
			t.Run(k.String()+"/"+p.String(), func(t *testing.T) {
				a := mustAllocate(t, al, k, []int{4}, p)
				pred := mustAllocate(t, al, scalar.KindI32, []int{4}, store.PolicyHeap)
				pv, _ := Values[int32](pred)
				pv[1], pv[3] = 1, -7

				require.NoError(t, MaskByPredicate(a, pred))
				assert.True(t, a.AnyBlank())
				assert.False(t, a.IsBlankAt(0))
				assert.True(t, a.IsBlankAt(1))
				assert.False(t, a.IsBlankAt(2))
				assert.True(t, a.IsBlankAt(3))
				assert.Equal(t, 2, CountBlank(a))
				assert.True(t, HasBlank(a))

				got, err := a.At(1)
				require.NoError(t, err)
				assert.True(t, scalar.IsBlankValue(k, got))
			})
		}
	}
}

func TestMaskByPredicate_FractionalMask(t *testing.T) {
	al := newTestAllocator(t)

	a := fromFloat64s(t, al, scalar.KindI32, []float64{1, 2, 3})
	pred := fromFloat64s(t, al, scalar.KindF64, []float64{0, 0.25, math.NaN()})

	require.NoError(t, MaskByPredicate(a, pred))
	v, _ := Values[int32](a)
	assert.Equal(t, []int32{1, scalar.BlankI32, scalar.BlankI32}, v)
}

func TestMaskByPredicate_ShapeMismatch(t *testing.T) {
	al := newTestAllocator(t)

	a := mustAllocate(t, al, scalar.KindF32, []int{3, 4}, store.PolicyHeap)
	for _, shape := range [][]int{{4, 3}, {12}, {3, 4, 1}} {
		pred := mustAllocate(t, al, scalar.KindU8, shape, store.PolicyHeap)
		pv, _ := Values[uint8](pred)
		pv[0] = 1

		err := MaskByPredicate(a, pred)
		assert.ErrorIs(t, err, dserrors.ErrShape)
		assert.False(t, a.AnyBlank())
		assert.Equal(t, 0, CountBlank(a))
	}
}

func TestBlankDetection_NaNAware(t *testing.T) {
	al := newTestAllocator(t)

	f := fromFloat64s(t, al, scalar.KindF64, []float64{1, math.NaN(), 3})
	assert.True(t, f.IsBlankAt(1))
	assert.Equal(t, 1, CountBlank(f))

	c := mustAllocate(t, al, scalar.KindC128, []int{3}, store.PolicyHeap)
	cv, _ := Values[complex128](c)
	cv[0] = scalar.BlankC128()
	cv[1] = complex(math.NaN(), 0)
	cv[2] = complex(1, 1)
	assert.True(t, c.IsBlankAt(0))
	assert.False(t, c.IsBlankAt(1))
	assert.Equal(t, 1, CountBlank(c))
}

func TestReplaceBlank(t *testing.T) {
	al := newTestAllocator(t)

	f := fromFloat64s(t, al, scalar.KindF32, []float64{1, math.NaN(), math.NaN(), 4})
	f.SetAnyBlank(true)
	require.NoError(t, ReplaceBlank(f, float32(-1)))
	v, _ := Values[float32](f)
	assert.Equal(t, []float32{1, -1, -1, 4}, v)
	assert.True(t, f.AnyBlank())
	assert.Equal(t, 4, f.Len())

	u := fromFloat64s(t, al, scalar.KindU16, []float64{math.MaxUint16, 2})
	require.NoError(t, ReplaceBlank(u, uint16(0)))
	uv, _ := Values[uint16](u)
	assert.Equal(t, []uint16{0, 2}, uv)

	err := ReplaceBlank(u, 0)
	assert.ErrorIs(t, err, dserrors.ErrType)
	err = ReplaceBlank(u, nil)
	assert.ErrorIs(t, err, dserrors.ErrType)

	s := mustAllocate(t, al, scalar.KindString, []int{2}, store.PolicyHeap)
	sv, _ := Strings(s)
	sv[0], sv[1] = scalar.BlankString, "x"
	require.NoError(t, ReplaceBlank(s, "-"))
	assert.Equal(t, []string{"-", "x"}, sv)
}

func TestRemoveBlank_KeepsOrder(t *testing.T) {
	al := newTestAllocator(t)

	for _, p := range policies {
		t.Run(p.String(), func(t *testing.T) {
			a := mustAllocate(t, al, scalar.KindI16, []int{2, 4}, p)
			v, _ := Values[int16](a)
			copy(v, []int16{5, scalar.BlankI16, 7, 8, scalar.BlankI16, scalar.BlankI16, 1, 0})
			a.SetAnyBlank(true)

			require.NoError(t, RemoveBlank(a))
			assert.Equal(t, 5, a.Len())
			assert.Equal(t, []int{5}, a.Shape())
			assert.Equal(t, 1, a.Dims())
			assert.False(t, a.AnyBlank())

			got, _ := Values[int16](a)
			if diff := cmp.Diff([]int16{5, 7, 8, 1, 0}, got); diff != "" {
				t.Errorf("compacted values (-want +got):\n%s", diff)
			}
			assert.Len(t, a.Bytes(), 5*2)
		})
	}
}

func TestRemoveBlank_Floats(t *testing.T) {
	al := newTestAllocator(t)

	a := fromFloat64s(t, al, scalar.KindF64, []float64{math.NaN(), 2, math.NaN(), 4})
	require.NoError(t, RemoveBlank(a))
	got, _ := Values[float64](a)
	assert.Empty(t, cmp.Diff([]float64{2, 4}, got, cmpopts.EquateNaNs()))
}

func TestRemoveBlank_AllBlank(t *testing.T) {
	al := newTestAllocator(t)

	a := fromFloat64s(t, al, scalar.KindF32, []float64{math.NaN(), math.NaN()})
	require.NoError(t, RemoveBlank(a))
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, []int{0}, a.Shape())

	v, err := Values[float32](a)
	require.NoError(t, err)
	assert.Empty(t, v)

	c, err := Convert(a, scalar.KindF64)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	require.NoError(t, c.Release())
}

func TestRemoveBlank_Strings(t *testing.T) {
	al := newTestAllocator(t)

	s := mustAllocate(t, al, scalar.KindString, []int{4}, store.PolicyHeap)
	sv, _ := Strings(s)
	copy(sv, []string{"a", scalar.BlankString, "b", scalar.BlankString})

	require.NoError(t, RemoveBlank(s))
	got, _ := Strings(s)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestMaskOutOfRange(t *testing.T) {
	al := newTestAllocator(t)

	a := fromFloat64s(t, al, scalar.KindF32, []float64{-5, 0, 2.5, 10, 11, math.NaN()})
	require.NoError(t, MaskOutOfRange(a, 0, 10))
	assert.True(t, a.AnyBlank())
	for i, want := range []bool{true, false, false, true, true, true} {
		assert.Equal(t, want, a.IsBlankAt(i), "index %d", i)
	}

	require.NoError(t, RemoveBlank(a))
	v, _ := Values[float32](a)
	assert.Equal(t, []float32{0, 2.5}, v)
}

func TestMaskOutOfRange_OpenBounds(t *testing.T) {
	al := newTestAllocator(t)

	a := fromFloat64s(t, al, scalar.KindU8, []float64{1, 100, 200})
	require.NoError(t, MaskOutOfRange(a, math.NaN(), 150))
	v, _ := Values[uint8](a)
	assert.Equal(t, []uint8{1, 100, scalar.BlankU8}, v)

	b := fromFloat64s(t, al, scalar.KindI64, []float64{1, 2})
	require.NoError(t, MaskOutOfRange(b, math.NaN(), math.NaN()))
	assert.False(t, b.AnyBlank())

	require.NoError(t, MaskOutOfRange(b, 0, 100))
	assert.False(t, b.AnyBlank())

	s := mustAllocate(t, al, scalar.KindString, []int{1}, store.PolicyHeap)
	assert.ErrorIs(t, MaskOutOfRange(s, 0, 1), dserrors.ErrType)
}
