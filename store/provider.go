package store

import (
	stderrors "errors"
	"io/fs"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/dataset/errors"
)

// Provider acquires stores under one configuration and keeps track of the
// mapped stores it handed out until they are released.
type Provider struct {
	cfg    Config
	live   map[*Mapped]struct{}
	mu     sync.Mutex
	closed bool
}

// NewProvider creates a provider. Empty config fields take their defaults.
func NewProvider(cfg Config) *Provider {
	return &Provider{
		cfg:  cfg.withDefaults(),
		live: make(map[*Mapped]struct{}),
	}
}

var (
	defaultProvider     *Provider
	defaultProviderOnce sync.Once
)

// Default returns the provider built from DefaultConfig.
func Default() *Provider {
	defaultProviderOnce.Do(func() {
		defaultProvider = NewProvider(DefaultConfig())
	})
	return defaultProvider
}

// Config returns the provider configuration with defaults applied.
func (p *Provider) Config() Config {
	return p.cfg
}

// Acquire returns a region of exactly n bytes. Heap regions are always
// zeroed. Mapped regions come from a freshly extended file, which reads
// as zeros too, so zero only documents the caller's intent.
func (p *Provider) Acquire(policy Policy, n int, zero bool) (Store, error) {
	if n <= 0 {
		return nil, errors.New(errors.PhaseAllocate, errors.KindInvalidInput).
			Op("Acquire").
			Detail("store length must be positive, got %d", n).
			Build()
	}

	switch policy {
	case PolicyHeap:
		if p.cfg.MaxHeapBytes > 0 && int64(n) > p.cfg.MaxHeapBytes {
			return nil, errors.New(errors.PhaseAllocate, errors.KindAllocation).
				Op("Acquire").
				Detail("heap store of %d bytes exceeds limit of %d", n, p.cfg.MaxHeapBytes).
				Build()
		}
		return newHeap(n), nil

	case PolicyMapped:
		p.mu.Lock()
		closed := p.closed
		p.mu.Unlock()
		if closed {
			return nil, errors.New(errors.PhaseAllocate, errors.KindAllocation).
				Op("Acquire").
				Detail("provider closed").
				Build()
		}

		m, err := openMapped(p.cfg, n)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			if rerr := m.Release(); rerr != nil {
				Logger().Warn("release store acquired after close", zap.Error(rerr))
			}
			return nil, errors.New(errors.PhaseAllocate, errors.KindAllocation).
				Op("Acquire").
				Path(m.path).
				Detail("provider closed").
				Build()
		}
		m.owner = p
		p.live[m] = struct{}{}
		p.mu.Unlock()

		Logger().Debug("acquired mapped store",
			zap.String("path", m.path),
			zap.Int("bytes", n),
			zap.Bool("zero", zero))
		return m, nil
	}

	return nil, errors.New(errors.PhaseAllocate, errors.KindInvalidInput).
		Op("Acquire").
		Value(policy).
		Detail("unknown backing policy %d", policy).
		Build()
}

func (p *Provider) forget(m *Mapped) {
	p.mu.Lock()
	delete(p.live, m)
	p.mu.Unlock()
}

// Live returns the number of mapped stores not yet released.
func (p *Provider) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}

// Close releases every mapped store still outstanding and refuses further
// mapped acquisitions. It returns the first release error.
func (p *Provider) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	leaked := make([]*Mapped, 0, len(p.live))
	for m := range p.live {
		leaked = append(leaked, m)
	}
	p.mu.Unlock()

	var first error
	for _, m := range leaked {
		// The owner may be releasing it right now.
		if !m.claim() {
			continue
		}
		Logger().Warn("releasing leaked mapped store", zap.String("path", m.path))
		if err := m.teardown(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// RemoveScratchIfEmpty deletes the scratch directory when nothing is left
// in it. It reports whether the directory was removed.
func (p *Provider) RemoveScratchIfEmpty() (bool, error) {
	entries, err := os.ReadDir(p.cfg.ScratchDir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, errors.IO(errors.PhaseRelease, "readdir", p.cfg.ScratchDir, err)
	}
	if len(entries) > 0 {
		return false, nil
	}
	if err := os.Remove(p.cfg.ScratchDir); err != nil {
		return false, errors.IO(errors.PhaseRelease, "rmdir", p.cfg.ScratchDir, err)
	}
	return true, nil
}
