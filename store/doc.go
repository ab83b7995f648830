// Package store provides the memory regions that back arrays.
//
// A Store is one of two variants behind a sealed interface:
//
//   - *Heap: a cache-line aligned block of Go memory.
//   - *Mapped: a temporary file in the scratch directory, mapped shared
//     read/write for its full length.
//
// The caller picks the variant with a Policy; nothing is chosen by size.
//
// # Mapped stores
//
// Acquisition creates the scratch directory if needed, opens
// <ScratchDir>/<FilePrefix><uuid> with O_CREATE|O_EXCL (so concurrent
// callers in any thread or process never share a path), writes the final
// byte to extend the file, and maps it. Any failure is an errors.KindIO
// error and leaves nothing behind.
//
// Release unmaps, closes and deletes the file. A failed delete is logged
// through Logger and not returned.
//
// # Ownership
//
// Each store is released exactly once by its owner. Provider.Close
// releases mapped stores that were never released:
//
//	p := store.NewProvider(store.Config{ScratchDir: dir})
//	defer p.Close()
//
//	s, err := p.Acquire(store.PolicyMapped, 4096, true)
//	if err != nil {
//	    return err
//	}
//	defer s.Release()
package store
