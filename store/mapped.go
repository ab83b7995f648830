package store

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wippyai/dataset/errors"
)

// maxNameAttempts bounds retries when a generated name already exists.
const maxNameAttempts = 16

// Mapped is a store backed by a shared mapping of a temporary file in the
// scratch directory. The file is removed on Release.
type Mapped struct {
	file     *os.File
	data     []byte
	path     string
	owner    *Provider
	released atomic.Bool
}

var _ Store = (*Mapped)(nil)

func (m *Mapped) Bytes() []byte { return m.data }
func (m *Mapped) Len() int { return len(m.data) }
func (m *Mapped) Policy() Policy { return PolicyMapped }
func (m *Mapped) Path() string { return m.path }
func (m *Mapped) sealed() {}
func (m *Mapped) Released() bool { return m.released.Load() }

// Release unmaps the region, closes the file and deletes it. Unmap and
// close failures are returned. A failed delete is only logged: the data is
// already unreachable. Release may race Provider.Close; exactly one of them
// tears the store down.
func (m *Mapped) Release() error {
	if !m.claim() {
		return errors.Released(errors.PhaseRelease, "Mapped.Release")
	}
	return m.teardown()
}

// claim marks the store released and reports whether this call did so.
func (m *Mapped) claim() bool {
	return m.released.CompareAndSwap(false, true)
}

func (m *Mapped) teardown() error {
	if m.owner != nil {
		m.owner.forget(m)
	}

	var first error
	if err := unmapRegion(m.data); err != nil {
		first = errors.IO(errors.PhaseRelease, "munmap", m.path, err)
	}
	m.data = nil

	if err := m.file.Close(); err != nil && first == nil {
		first = errors.IO(errors.PhaseRelease, "close", m.path, err)
	}

	if err := os.Remove(m.path); err != nil {
		Logger().Warn("remove mapped backing file",
			zap.String("path", m.path),
			zap.Error(err))
	} else {
		Logger().Debug("released mapped store", zap.String("path", m.path))
	}
	return first
}

// openMapped runs the four acquisition steps: ensure the scratch directory,
// create a new uniquely named file, extend it to n bytes by writing its last
// byte, and map it shared read/write. Any failure undoes the earlier steps.
func openMapped(cfg Config, n int) (*Mapped, error) {
	if err := os.MkdirAll(cfg.ScratchDir, 0o755); err != nil {
		return nil, errors.IO(errors.PhaseAllocate, "mkdir", cfg.ScratchDir, err)
	}

	f, path, err := createUnique(cfg.ScratchDir, cfg.FilePrefix)
	if err != nil {
		return nil, err
	}

	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(path)
	}

	if _, err := f.Seek(int64(n)-1, io.SeekStart); err != nil {
		cleanup()
		return nil, errors.New(errors.PhaseAllocate, errors.KindIO).
			Op("seek").
			Path(path).
			Cause(err).
			Detail("unable to move file position by %d bytes", n-1).
			Build()
	}
	if _, err := f.Write([]byte{0}); err != nil {
		cleanup()
		return nil, errors.New(errors.PhaseAllocate, errors.KindIO).
			Op("write").
			Path(path).
			Cause(err).
			Detail("unable to write one byte at position %d", n-1).
			Build()
	}

	data, err := mapFile(f, n)
	if err != nil {
		cleanup()
		return nil, errors.IO(errors.PhaseAllocate, "mmap", path, err)
	}

	return &Mapped{file: f, data: data, path: path}, nil
}

// createUnique creates <dir>/<prefix><uuid> with O_EXCL, so two callers in
// any thread or process can never open the same path.
func createUnique(dir, prefix string) (*os.File, string, error) {
	var lastErr error
	for range maxNameAttempts {
		path := filepath.Join(dir, prefix+uuid.NewString())
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			return f, path, nil
		}
		if !stderrors.Is(err, fs.ErrExist) {
			return nil, "", errors.IO(errors.PhaseAllocate, "create", path, err)
		}
		lastErr = err
	}
	return nil, "", errors.New(errors.PhaseAllocate, errors.KindIO).
		Op("create").
		Path(dir).
		Cause(lastErr).
		Detail("no unique name after %d attempts", maxNameAttempts).
		Build()
}
