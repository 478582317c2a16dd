package vaultcrypt

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Session is the single owner of a MasterContext between unlock and lock.
// It is safe for concurrent use.
//
// Lock waits for in-flight Do calls to return, then zeroes the key bytes and
// wipes every secret revealed through the session.
// An idle timer locks the session when no activity is recorded for the
// configured timeout.
type Session struct {
	cfg *sessionConfig

	mu      sync.RWMutex
	ctx     *MasterContext
	timer   *time.Timer
	epoch   uint64 // bumped on every timer reset and lock so stale idle timers do nothing
	reveals []*RevealedSecret
	closed  bool
}

// NewSession creates a locked session.
func NewSession(opts ...SessionOption) *Session {
	cfg := defaultSessionConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Session{cfg: cfg}
}

// Unlock derives the master context and installs it, replacing (and zeroing)
// any previous one. Derivation runs without holding the session lock, so
// concurrent readers of the old context are not blocked by it.
//
// The returned context belongs to the session: it is zeroed on Lock, after
// which any further use fails with ErrContextDestroyed.
func (s *Session) Unlock(passphrase string, masterSalt []byte) (*MasterContext, error) {
	ctx, err := s.cfg.derive(passphrase, masterSalt)
	if err != nil {
		s.cfg.logger.WithFields(logrus.Fields{
			"event": "unlock_failed",
		}).Debug("vaultcrypt: unlock failed")
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ctx.Destroy()
		return nil, ErrLocked
	}
	old := s.ctx
	s.ctx = ctx
	s.resetTimerLocked()
	s.mu.Unlock()

	old.Destroy()

	s.cfg.logger.WithFields(logrus.Fields{
		"event":        "unlocked",
		"idle_timeout": s.cfg.idleTimeout,
	}).Debug("vaultcrypt: session unlocked")

	return ctx, nil
}

// Lock zeroes the master context. It is a no-op on a locked session.
func (s *Session) Lock() {
	if s.lock() {
		s.cfg.logger.WithFields(logrus.Fields{
			"event": "locked",
		}).Debug("vaultcrypt: session locked")
	}
}

// lock reports whether a context was destroyed.
func (s *Session) lock() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lockLocked()
}

func (s *Session) lockLocked() bool {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.epoch++
	s.closeRevealsLocked()
	if s.ctx == nil {
		return false
	}
	s.ctx.Destroy()
	s.ctx = nil
	return true
}

// Locked reports whether the session holds no master context.
func (s *Session) Locked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctx == nil
}

// Touch records user activity and restarts the idle timer.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx != nil {
		s.resetTimerLocked()
	}
}

// Do runs fn with the master context while holding the session open. Lock
// blocks until fn returns. fn must not retain the context or call back into
// the session. Do counts as activity for the idle timer.
func (s *Session) Do(fn func(ctx *MasterContext) error) error {
	s.Touch()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ctx == nil {
		return ErrLocked
	}
	return fn(s.ctx)
}

// Close locks the session permanently; later Unlock calls fail with ErrLocked.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockLocked()
	s.closed = true
}

// resetTimerLocked (re)arms the idle timer. Caller holds s.mu.
func (s *Session) resetTimerLocked() {
	if s.cfg.idleTimeout <= 0 {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.epoch++
	epoch := s.epoch
	s.timer = time.AfterFunc(s.cfg.idleTimeout, func() {
		s.idleLock(epoch)
	})
}

// idleLock locks the session if nothing has happened since the timer was armed.
func (s *Session) idleLock(epoch uint64) {
	s.mu.Lock()
	if s.epoch != epoch || s.ctx == nil {
		s.mu.Unlock()
		return
	}
	s.lockLocked()
	s.mu.Unlock()

	s.cfg.logger.WithFields(logrus.Fields{
		"event":        "idle_lock",
		"idle_timeout": s.cfg.idleTimeout,
	}).Info("vaultcrypt: session locked after inactivity")
}
