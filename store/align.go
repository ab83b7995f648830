package store

import "unsafe"

// cacheLineSize is the alignment of heap stores. It covers the widest
// element (complex128) so typed views over the bytes are always aligned.
const cacheLineSize = 64

// alignedBytes allocates n bytes whose first element sits on a cache line
// boundary.
func alignedBytes(n int) []byte {
	if n == 0 {
		return nil
	}
	buf := make([]byte, n+cacheLineSize-1)

	ptr := uintptr(unsafe.Pointer(&buf[0]))
	offset := uintptr(0)
	if mod := ptr % cacheLineSize; mod != 0 {
		offset = cacheLineSize - mod
	}
	return buf[offset : offset+uintptr(n) : offset+uintptr(n)]
}

func isAligned(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&b[0]))%cacheLineSize == 0
}
