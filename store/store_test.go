package store

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	dserrors "github.com/wippyai/dataset/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p := NewProvider(Config{ScratchDir: filepath.Join(t.TempDir(), ".dataset")})
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
	}{
		{"", PolicyHeap},
		{"heap", PolicyHeap},
		{"Mapped", PolicyMapped},
		{"mmap", PolicyMapped},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParsePolicy("disk")
	assert.Error(t, err)
	assert.Equal(t, "mapped", PolicyMapped.String())
	assert.Equal(t, "unknown", Policy(9).String())
}

func TestConfig_Defaults(t *testing.T) {
	p := NewProvider(Config{})
	assert.Equal(t, DefaultScratchDir, p.Config().ScratchDir)
	assert.Equal(t, DefaultFilePrefix, p.Config().FilePrefix)
	assert.Same(t, Default(), Default())
}

func TestHeap_AcquireRelease(t *testing.T) {
	p := newTestProvider(t)

	s, err := p.Acquire(PolicyHeap, 100, true)
	require.NoError(t, err)
	assert.Equal(t, 100, s.Len())
	assert.Equal(t, PolicyHeap, s.Policy())
	assert.Empty(t, s.Path())
	assert.True(t, isAligned(s.Bytes()))
	for _, b := range s.Bytes() {
		require.Zero(t, b)
	}

	require.NoError(t, s.Release())
	assert.Nil(t, s.Bytes())

	err = s.Release()
	assert.ErrorIs(t, err, dserrors.ErrReleased)
}

func TestHeap_Limit(t *testing.T) {
	p := NewProvider(Config{MaxHeapBytes: 64})

	_, err := p.Acquire(PolicyHeap, 65, false)
	assert.ErrorIs(t, err, dserrors.ErrAllocation)

	s, err := p.Acquire(PolicyHeap, 64, false)
	require.NoError(t, err)
	require.NoError(t, s.Release())
}

func TestAcquire_InvalidInput(t *testing.T) {
	p := newTestProvider(t)

	_, err := p.Acquire(PolicyHeap, 0, true)
	require.Error(t, err)

	_, err = p.Acquire(Policy(7), 8, true)
	require.Error(t, err)
}

func TestMapped_AcquireRelease(t *testing.T) {
	p := newTestProvider(t)

	s, err := p.Acquire(PolicyMapped, 4000, true)
	require.NoError(t, err)
	assert.Equal(t, PolicyMapped, s.Policy())
	assert.Equal(t, 4000, s.Len())
	assert.Equal(t, 1, p.Live())

	path := s.Path()
	assert.Equal(t, p.Config().ScratchDir, filepath.Dir(path))
	assert.Contains(t, filepath.Base(path), DefaultFilePrefix)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, info.Size(), int64(4000))

	for _, b := range s.Bytes() {
		require.Zero(t, b)
	}
	s.Bytes()[0] = 7
	s.Bytes()[3999] = 9

	require.NoError(t, s.Release())
	assert.Equal(t, 0, p.Live())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "backing file should be deleted")

	assert.ErrorIs(t, s.Release(), dserrors.ErrReleased)
}

func TestMapped_WritesReachFile(t *testing.T) {
	p := newTestProvider(t)

	s, err := p.Acquire(PolicyMapped, 16, true)
	require.NoError(t, err)
	copy(s.Bytes(), "0123456789abcdef")

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef", string(data[:16]))

	require.NoError(t, s.Release())
}

func TestMapped_ScratchDirFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	p := NewProvider(Config{ScratchDir: filepath.Join(blocker, "scratch")})
	_, err := p.Acquire(PolicyMapped, 8, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, dserrors.ErrIO)
	assert.Equal(t, 0, p.Live())
}

func TestMapped_UniquePathsConcurrent(t *testing.T) {
	p := newTestProvider(t)

	const workers = 32
	const perWorker = 64

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				s, err := p.Acquire(PolicyMapped, 8, true)
				if err != nil {
					errs <- err
					return
				}
				mu.Lock()
				seen[s.Path()] = struct{}{}
				mu.Unlock()
				if err := s.Release(); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Len(t, seen, workers*perWorker)
	assert.Equal(t, 0, p.Live())
}

func TestProvider_CloseReleasesLeaked(t *testing.T) {
	p := NewProvider(Config{ScratchDir: filepath.Join(t.TempDir(), "scratch")})

	a, err := p.Acquire(PolicyMapped, 32, true)
	require.NoError(t, err)
	b, err := p.Acquire(PolicyMapped, 32, true)
	require.NoError(t, err)
	require.NoError(t, b.Release())
	assert.Equal(t, 1, p.Live())

	require.NoError(t, p.Close())
	assert.Equal(t, 0, p.Live())
	_, err = os.Stat(a.Path())
	assert.True(t, os.IsNotExist(err))

	_, err = p.Acquire(PolicyMapped, 32, true)
	assert.ErrorIs(t, err, dserrors.ErrAllocation)

	require.NoError(t, p.Close())
}

func TestProvider_CloseRacesRelease(t *testing.T) {
	for range 50 {
		p := NewProvider(Config{ScratchDir: filepath.Join(t.TempDir(), "scratch")})
		s, err := p.Acquire(PolicyMapped, 64, true)
		require.NoError(t, err)
		path := s.Path()

		var (
			wg         sync.WaitGroup
			releaseErr error
			closeErr   error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			releaseErr = s.Release()
		}()
		go func() {
			defer wg.Done()
			closeErr = p.Close()
		}()
		wg.Wait()

		require.NoError(t, closeErr)
		if releaseErr != nil {
			assert.ErrorIs(t, releaseErr, dserrors.ErrReleased)
		}
		assert.True(t, s.(*Mapped).Released())
		assert.Equal(t, 0, p.Live())
		assert.NoFileExists(t, path)
	}
}

func TestProvider_AcquireRacesClose(t *testing.T) {
	scratch := filepath.Join(t.TempDir(), "scratch")
	p := NewProvider(Config{ScratchDir: scratch})

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers + 1)
	for range workers {
		go func() {
			defer wg.Done()
			for range 20 {
				s, err := p.Acquire(PolicyMapped, 16, true)
				if err != nil {
					assert.ErrorIs(t, err, dserrors.ErrAllocation)
					return
				}
				_ = s.Release()
			}
		}()
	}
	go func() {
		defer wg.Done()
		assert.NoError(t, p.Close())
	}()
	wg.Wait()

	assert.Equal(t, 0, p.Live())
	entries, err := os.ReadDir(scratch)
	if err == nil {
		assert.Empty(t, entries, "backing files left behind")
	}
}

func TestProvider_RemoveScratchIfEmpty(t *testing.T) {
	scratch := filepath.Join(t.TempDir(), "scratch")
	p := NewProvider(Config{ScratchDir: scratch})
	defer p.Close()

	removed, err := p.RemoveScratchIfEmpty()
	require.NoError(t, err)
	assert.False(t, removed, "missing directory is not removed")

	s, err := p.Acquire(PolicyMapped, 8, true)
	require.NoError(t, err)

	removed, err = p.RemoveScratchIfEmpty()
	require.NoError(t, err)
	assert.False(t, removed, "directory still holds a backing file")

	require.NoError(t, s.Release())
	removed, err = p.RemoveScratchIfEmpty()
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = os.Stat(scratch)
	assert.True(t, os.IsNotExist(err))
}

func TestAlignedBytes(t *testing.T) {
	for _, n := range []int{1, 3, 8, 63, 64, 65, 1000} {
		b := alignedBytes(n)
		assert.Len(t, b, n)
		assert.Equal(t, n, cap(b))
		assert.True(t, isAligned(b))
	}
	assert.Nil(t, alignedBytes(0))
}
