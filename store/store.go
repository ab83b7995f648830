package store

import (
	"github.com/wippyai/dataset/errors"
)

// Store is the owned memory region behind an array. The only
// implementations are *Heap and *Mapped.
//
// A Store is owned by exactly one array. Release must be called once; a
// second call returns an errors.KindReleased error and does nothing else.
type Store interface {
	// Bytes returns the full region. The slice is invalid after Release.
	Bytes() []byte
	// Len returns the region length in bytes.
	Len() int
	Policy() Policy
	// Path returns the backing file for mapped stores and "" otherwise.
	Path() string
	Release() error

	sealed()
}

// Heap is a store held in Go memory.
type Heap struct {
	buf      []byte
	released bool
}

var _ Store = (*Heap)(nil)

func newHeap(n int) *Heap {
	return &Heap{buf: alignedBytes(n)}
}

func (h *Heap) Bytes() []byte { return h.buf }
func (h *Heap) Len() int { return len(h.buf) }
func (h *Heap) Policy() Policy { return PolicyHeap }
func (h *Heap) Path() string { return "" }
func (h *Heap) sealed() {}
func (h *Heap) Released() bool { return h.released }

// Release drops the reference to the buffer.
func (h *Heap) Release() error {
	if h.released {
		return errors.Released(errors.PhaseRelease, "Heap.Release")
	}
	h.released = true
	h.buf = nil
	return nil
}
