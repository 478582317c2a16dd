package vaultcrypt

import (
	"fmt"
	"sync"

	"github.com/awnumar/memguard"
)

// MasterContext holds the keys derived at unlock. It lives in memory only:
// nothing in it is ever encoded, persisted or sent to the server, apart from
// the non-secret master salt.
//
// The caller owns the context. Cipher functions read it and never retain it
// beyond a single call. It is safe for concurrent use, including Destroy:
// each cipher call holds a read lock from its destroyed check through its
// last read of key bytes, so it either completes with intact keys or fails
// with ErrContextDestroyed.
type MasterContext struct {
	mu             sync.RWMutex
	masterKey      [KeySize]byte
	masterSalt     [MasterSaltSize]byte
	encryptionRoot [KeySize]byte // AES-256 root for per-item keys
	searchKey      [KeySize]byte // HMAC-SHA256 key for title blind indexes
	destroyed      bool
}

// MasterSalt returns a copy of the salt the context was derived with.
func (c *MasterContext) MasterSalt() []byte {
	salt := make([]byte, MasterSaltSize)
	copy(salt, c.masterSalt[:])
	return salt
}

// Destroy zeros all key material. It waits for in-flight cipher calls on the
// context to finish. The context is unusable afterwards and every operation
// on it returns ErrContextDestroyed.
func (c *MasterContext) Destroy() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroyed = true
	wipe(c.masterKey[:])
	wipe(c.encryptionRoot[:])
	wipe(c.searchKey[:])
}

// Destroyed reports whether Destroy has been called.
func (c *MasterContext) Destroyed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.destroyed
}

// acquire read-locks a usable context. On success the caller must release
// it with c.mu.RUnlock once it has finished reading key bytes.
func (c *MasterContext) acquire() error {
	if c == nil {
		return fmt.Errorf("%w: master context is nil", ErrInvalidInput)
	}
	c.mu.RLock()
	if c.destroyed {
		c.mu.RUnlock()
		return ErrContextDestroyed
	}
	return nil
}

// usable rejects nil and destroyed contexts.
func (c *MasterContext) usable() error {
	if err := c.acquire(); err != nil {
		return err
	}
	c.mu.RUnlock()
	return nil
}

// wipe overwrites b with zeros.
func wipe(b []byte) {
	memguard.WipeBytes(b)
}
