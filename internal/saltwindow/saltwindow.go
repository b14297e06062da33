// Package saltwindow owns the rotation cadence of the pseudonymization salt.
// The transformation core treats the salt as an opaque per-call input; this
// package decides when a window ends and a fresh salt begins.
package saltwindow

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SaltSize is the number of random bytes generated per window.
const SaltSize = 32

// Source hands out the salt for the current rotation window. A nil salt with
// a nil error means pseudonymization is disabled and every address maps to
// the zero address.
type Source interface {
	Current() ([]byte, error)
}

// Static is a fixed salt that never rotates. Useful for tests and for
// replaying a window deterministically.
type Static []byte

func (s Static) Current() ([]byte, error) { return s, nil }

// Disabled never supplies a salt.
type Disabled struct{}

func (Disabled) Current() ([]byte, error) { return nil, nil }

// Provider regenerates a SaltSize-byte salt from crypto/rand whenever the
// current one is older than the window. The check happens lazily on read, so
// an idle stream does not burn entropy.
type Provider struct {
	window time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu        sync.Mutex
	salt      []byte
	refreshed time.Time
}

func New(window time.Duration, logger *zap.Logger) *Provider {
	return &Provider{
		window: window,
		now:    time.Now,
		logger: logger,
	}
}

// Current returns the salt for the current window, rotating first if the
// window has elapsed. A failure to draw randomness is returned as an error
// rather than falling back to a weaker salt.
func (p *Provider) Current() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.salt != nil && p.now().Sub(p.refreshed) < p.window {
		return p.salt, nil
	}

	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "failed to generate window salt")
	}
	p.salt = salt
	p.refreshed = p.now()
	p.logger.Info("Window salt rotated.", zap.Duration("window", p.window))
	return p.salt, nil
}
