package array

import (
	"math"
	"math/bits"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/dataset/errors"
	"github.com/wippyai/dataset/scalar"
	"github.com/wippyai/dataset/store"
)

// Array is a shaped, typed buffer whose memory lives in an exclusively
// owned store. String arrays keep their elements in Go memory instead.
//
// An Array is not safe for concurrent mutation. Distinct arrays are
// independent.
type Array struct {
	st       store.Store
	alloc    *Allocator
	strs     []string
	shape    []int
	n        int
	kind     scalar.Kind
	anyBlank bool
	released bool
}

// Options controls a single allocation.
type Options struct {
	// Zero requests zero-filled contents. Both store variants hand out
	// zeroed memory, so this only records intent.
	Zero bool
	// Policy selects heap or mapped backing.
	Policy store.Policy
}

// Allocator creates arrays whose stores come from one provider.
type Allocator struct {
	stores *store.Provider
}

// NewAllocator creates an allocator over p.
func NewAllocator(p *store.Provider) *Allocator {
	return &Allocator{stores: p}
}

var (
	defaultAllocator     *Allocator
	defaultAllocatorOnce sync.Once
)

// DefaultAllocator returns the allocator over store.Default().
func DefaultAllocator() *Allocator {
	defaultAllocatorOnce.Do(func() {
		defaultAllocator = NewAllocator(store.Default())
	})
	return defaultAllocator
}

// Provider returns the store provider behind the allocator.
func (al *Allocator) Provider() *store.Provider {
	return al.stores
}

// Allocate creates an array with the default allocator.
func Allocate(k scalar.Kind, shape []int, opts Options) (*Array, error) {
	return DefaultAllocator().Allocate(k, shape, opts)
}

// Allocate validates the kind and shape, computes the element count and
// byte length without overflow, and acquires a store of exactly that length.
// On error no array is returned and nothing is left allocated.
func (al *Allocator) Allocate(k scalar.Kind, shape []int, opts Options) (*Array, error) {
	const op = "Allocate"

	if !k.Supported() {
		return nil, errors.Unsupported(errors.PhaseAllocate, op, k.String())
	}
	if len(shape) == 0 {
		return nil, errors.New(errors.PhaseAllocate, errors.KindShape).
			Op(op).
			ScalarKind(k.String()).
			Detail("at least one dimension is required").
			Build()
	}
	for i, d := range shape {
		if d <= 0 {
			return nil, errors.ZeroDimension(op, k.String(), shape, i)
		}
	}

	n, ok := elementCount(shape)
	if !ok {
		return nil, errors.Overflow(op, k.String(), shape, "element count")
	}
	size, ok := mulInt(n, k.Width())
	if !ok {
		return nil, errors.Overflow(op, k.String(), shape, "byte length")
	}

	a := &Array{
		kind:  k,
		shape: slices.Clone(shape),
		n:     n,
		alloc: al,
	}

	if k == scalar.KindString {
		if opts.Policy == store.PolicyMapped {
			Logger().Warn("string arrays cannot be mapped, using heap",
				zap.Ints("shape", shape))
		}
		a.strs = make([]string, n)
		return a, nil
	}

	st, err := al.stores.Acquire(opts.Policy, size, opts.Zero)
	if err != nil {
		return nil, errors.AllocationFailed(op, k.String(), shape, size, err)
	}
	a.st = st

	Logger().Debug("allocated array",
		zap.Stringer("kind", k),
		zap.Ints("shape", shape),
		zap.Stringer("backing", st.Policy()),
		zap.Int("bytes", size))
	return a, nil
}

func elementCount(shape []int) (int, bool) {
	n := uint64(1)
	for _, d := range shape {
		hi, lo := bits.Mul64(n, uint64(d))
		if hi != 0 || lo > math.MaxInt {
			return 0, false
		}
		n = lo
	}
	return int(n), true
}

func mulInt(a, b int) (int, bool) {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt {
		return 0, false
	}
	return int(lo), true
}

// ShapesEqual reports whether a and b have the same dimensionality and the
// same size along every dimension.
func ShapesEqual(a, b *Array) bool {
	return slices.Equal(a.shape, b.shape)
}

// Release tears down the store. A second call returns an
// errors.KindReleased error and has no other effect.
func (a *Array) Release() error {
	if a.released {
		return errors.Released(errors.PhaseRelease, "Release")
	}
	a.released = true
	a.strs = nil
	if a.st == nil {
		return nil
	}
	return a.st.Release()
}

func (a *Array) Kind() scalar.Kind { return a.kind }

// Shape returns a copy of the dimension sizes.
func (a *Array) Shape() []int { return slices.Clone(a.shape) }

// Dims returns the number of dimensions.
func (a *Array) Dims() int { return len(a.shape) }

// Len returns the element count.
func (a *Array) Len() int { return a.n }

// AnyBlank reports whether a masking step has written blanks.
func (a *Array) AnyBlank() bool { return a.anyBlank }

// SetAnyBlank records that the array may hold blanks. Readers that fill an
// array directly use it.
func (a *Array) SetAnyBlank(v bool) { a.anyBlank = v }

func (a *Array) Released() bool { return a.released }

// Backing returns the store policy. String arrays always report heap.
func (a *Array) Backing() store.Policy {
	if a.st == nil {
		return store.PolicyHeap
	}
	return a.st.Policy()
}

// Path returns the mapped backing file, or "".
func (a *Array) Path() string {
	if a.st == nil {
		return ""
	}
	return a.st.Path()
}

// Bytes returns the raw element bytes, Len()*Kind().Width() long. It is nil
// for string arrays and after Release.
func (a *Array) Bytes() []byte {
	if a.released || a.st == nil {
		return nil
	}
	return a.st.Bytes()[:a.n*a.kind.Width()]
}

// Copy returns an independent array with the same kind, shape, contents,
// blank flag and backing policy.
func (a *Array) Copy() (*Array, error) {
	if a.released {
		return nil, errors.Released(errors.PhaseAllocate, "Copy")
	}
	out, err := a.allocLike(a.kind)
	if err != nil {
		return nil, err
	}
	if a.kind == scalar.KindString {
		copy(out.strs, a.strs[:a.n])
	} else {
		copy(out.Bytes(), a.Bytes())
	}
	out.anyBlank = a.anyBlank
	return out, nil
}

// allocLike allocates an array of kind k with a's shape and backing. An
// array emptied by RemoveBlank has shape [0], which Allocate rejects, so a
// one-element store is taken and the result is trimmed to match.
func (a *Array) allocLike(k scalar.Kind) (*Array, error) {
	if a.n > 0 {
		return a.alloc.Allocate(k, a.shape, Options{Policy: a.Backing()})
	}
	out, err := a.alloc.Allocate(k, []int{1}, Options{Policy: a.Backing()})
	if err != nil {
		return nil, err
	}
	out.n = 0
	out.shape = []int{0}
	return out, nil
}

func (a *Array) checkLive(phase errors.Phase, op string) error {
	if a.released {
		return errors.Released(phase, op)
	}
	return nil
}
