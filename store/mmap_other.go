//go:build !unix

package store

import (
	stderrors "errors"
	"os"
)

var errNoMmap = stderrors.New("memory-mapped backing is not available on this platform")

func mapFile(_ *os.File, _ int) ([]byte, error) {
	return nil, errNoMmap
}

func unmapRegion(_ []byte) error {
	return nil
}
