package vaultcrypt

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RevealedSecret holds decrypted plaintext until a caller-visible deadline.
// After the deadline, or after Close, the bytes are wiped and reads fail with
// ErrRevealExpired. It is safe for concurrent use.
type RevealedSecret struct {
	mu        sync.Mutex
	plaintext []byte
	expiresAt time.Time
	now       func() time.Time
}

// NewRevealedSecret copies plaintext into a handle that expires after ttl.
func NewRevealedSecret(plaintext []byte, ttl time.Duration) *RevealedSecret {
	return newRevealedSecret(append([]byte(nil), plaintext...), ttl, time.Now)
}

// newRevealedSecret takes ownership of plaintext.
func newRevealedSecret(plaintext []byte, ttl time.Duration, now func() time.Time) *RevealedSecret {
	return &RevealedSecret{
		plaintext: plaintext,
		expiresAt: now().Add(ttl),
		now:       now,
	}
}

// ExpiresAt returns the deadline after which the secret is unreadable.
func (r *RevealedSecret) ExpiresAt() time.Time {
	return r.expiresAt
}

// Expired reports whether the secret can no longer be read.
func (r *RevealedSecret) Expired() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.expiredLocked()
}

func (r *RevealedSecret) expiredLocked() bool {
	if r.plaintext == nil {
		return true
	}
	if !r.now().Before(r.expiresAt) {
		wipe(r.plaintext)
		r.plaintext = nil
		return true
	}
	return false
}

// Bytes returns a copy of the plaintext.
func (r *RevealedSecret) Bytes() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.expiredLocked() {
		return nil, ErrRevealExpired
	}
	return append([]byte(nil), r.plaintext...), nil
}

// Text returns the plaintext as a string.
func (r *RevealedSecret) Text() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.expiredLocked() {
		return "", ErrRevealExpired
	}
	return string(r.plaintext), nil
}

// Secret parses the plaintext as a secret document.
func (r *RevealedSecret) Secret() (*Secret, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.expiredLocked() {
		return nil, ErrRevealExpired
	}
	return ParseSecret(r.plaintext, UntitledTitle), nil
}

// Close wipes the plaintext immediately.
func (r *RevealedSecret) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.plaintext != nil {
		wipe(r.plaintext)
		r.plaintext = nil
	}
}

// String keeps the plaintext out of formatted output and logs.
func (r *RevealedSecret) String() string {
	return "[revealed secret]"
}

// Reveal decrypts an item into a handle that expires after ttl
// (the session's reveal TTL when ttl <= 0). Locking the session closes every
// handle it revealed.
func (s *Session) Reveal(item *SealedItem, ttl time.Duration) (*RevealedSecret, error) {
	revealed, err := s.RevealAll([]*SealedItem{item}, ttl)
	if err != nil {
		return nil, err
	}
	return revealed[0], nil
}

// RevealAll decrypts several items at once, sharing one deadline. It is
// all-or-nothing: if any item fails to decrypt, nothing is revealed.
func (s *Session) RevealAll(items []*SealedItem, ttl time.Duration) ([]*RevealedSecret, error) {
	if ttl <= 0 {
		ttl = s.cfg.revealTTL
	}

	var revealed []*RevealedSecret
	err := s.Do(func(ctx *MasterContext) error {
		plaintexts := make([][]byte, 0, len(items))
		for _, item := range items {
			pt, err := item.Open(ctx)
			if err != nil {
				for _, p := range plaintexts {
					wipe(p)
				}
				return err
			}
			plaintexts = append(plaintexts, pt)
		}
		revealed = make([]*RevealedSecret, 0, len(plaintexts))
		for _, pt := range plaintexts {
			revealed = append(revealed, newRevealedSecret(pt, ttl, s.cfg.now))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !s.track(revealed) {
		for _, r := range revealed {
			r.Close()
		}
		return nil, ErrLocked
	}

	s.cfg.logger.WithFields(logrus.Fields{
		"event": "revealed",
		"count": len(revealed),
		"ttl":   ttl,
	}).Debug("vaultcrypt: secrets revealed")

	return revealed, nil
}

// track registers handles so Lock can close them. It reports false if the
// session locked in the meantime.
func (s *Session) track(revealed []*RevealedSecret) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return false
	}
	kept := s.reveals[:0]
	for _, r := range s.reveals {
		if !r.Expired() {
			kept = append(kept, r)
		}
	}
	s.reveals = append(kept, revealed...)
	return true
}

// closeRevealsLocked closes every tracked handle. Caller holds s.mu.
func (s *Session) closeRevealsLocked() {
	for _, r := range s.reveals {
		r.Close()
	}
	s.reveals = nil
}
