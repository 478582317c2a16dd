package vaultcrypt

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestRevealedSecret_ReadUntilDeadline(t *testing.T) {
	clock := newFakeClock()
	pt := []byte("hunter2")
	r := newRevealedSecret(pt, 30*time.Second, clock.Now)

	require.Equal(t, clock.Now().Add(30*time.Second), r.ExpiresAt())
	require.False(t, r.Expired())

	text, err := r.Text()
	require.NoError(t, err)
	require.Equal(t, "hunter2", text)

	clock.Advance(29 * time.Second)
	b, err := r.Bytes()
	require.NoError(t, err)
	require.Equal(t, []byte("hunter2"), b)

	clock.Advance(time.Second)
	require.True(t, r.Expired())

	_, err = r.Bytes()
	require.ErrorIs(t, err, ErrRevealExpired)
	_, err = r.Text()
	require.ErrorIs(t, err, ErrRevealExpired)
	_, err = r.Secret()
	require.ErrorIs(t, err, ErrRevealExpired)

	// Owned buffer is wiped on expiry.
	require.Equal(t, make([]byte, len(pt)), pt)
}

func TestRevealedSecret_BytesReturnsCopy(t *testing.T) {
	r := NewRevealedSecret([]byte("abc"), time.Minute)

	b, err := r.Bytes()
	require.NoError(t, err)
	b[0] = 'X'

	text, err := r.Text()
	require.NoError(t, err)
	require.Equal(t, "abc", text)
}

func TestNewRevealedSecret_CopiesInput(t *testing.T) {
	pt := []byte("value")
	r := NewRevealedSecret(pt, time.Minute)
	r.Close()
	require.Equal(t, []byte("value"), pt)
}

func TestRevealedSecret_Close(t *testing.T) {
	r := NewRevealedSecret([]byte("abc"), time.Minute)
	r.Close()
	r.Close()

	require.True(t, r.Expired())
	_, err := r.Text()
	require.ErrorIs(t, err, ErrRevealExpired)
}

func TestRevealedSecret_Secret(t *testing.T) {
	r := NewRevealedSecret([]byte(`{"title":"Bank","fields":[{"label":"pin","value":"0000","sensitive":true}]}`), time.Minute)

	doc, err := r.Secret()
	require.NoError(t, err)
	require.Equal(t, "Bank", doc.Title)
	require.Equal(t, []Field{{Label: "pin", Value: "0000", Sensitive: true}}, doc.Fields)
}

func TestRevealedSecret_NotFormatted(t *testing.T) {
	r := NewRevealedSecret([]byte("hunter2"), time.Minute)
	require.Equal(t, "[revealed secret]", fmt.Sprint(r))
	require.NotContains(t, fmt.Sprintf("%v %s", r, r), "hunter2")
}

func TestSession_Reveal(t *testing.T) {
	clock := newFakeClock()
	s, hook := newTestSession(t, WithClock(clock.Now), WithRevealTTL(10*time.Second))
	ctx, err := s.Unlock("pass", testSalt(0xc1))
	require.NoError(t, err)

	sealed, err := EncryptSecretString("p@ssw0rd", ctx)
	require.NoError(t, err)

	r, err := s.Reveal(sealed, 0)
	require.NoError(t, err)
	require.Equal(t, clock.Now().Add(10*time.Second), r.ExpiresAt())
	require.True(t, hasEvent(hook, "revealed"))

	text, err := r.Text()
	require.NoError(t, err)
	require.Equal(t, "p@ssw0rd", text)

	clock.Advance(10 * time.Second)
	_, err = r.Text()
	require.ErrorIs(t, err, ErrRevealExpired)

	// Explicit TTL overrides the session default.
	r, err = s.Reveal(sealed, time.Hour)
	require.NoError(t, err)
	require.Equal(t, clock.Now().Add(time.Hour), r.ExpiresAt())
}

func TestSession_RevealLocked(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := testContext(t, "pass", testSalt(0xc2))
	sealed, err := EncryptSecretString("value", ctx)
	require.NoError(t, err)

	_, err = s.Reveal(sealed, 0)
	require.ErrorIs(t, err, ErrLocked)
}

func TestSession_RevealAll(t *testing.T) {
	s, _ := newTestSession(t)
	ctx, err := s.Unlock("pass", testSalt(0xc3))
	require.NoError(t, err)

	values := []string{"one", "two", "three"}
	items := make([]*SealedItem, len(values))
	for i, v := range values {
		items[i], err = EncryptSecretString(v, ctx)
		require.NoError(t, err)
	}

	revealed, err := s.RevealAll(items, time.Minute)
	require.NoError(t, err)
	require.Len(t, revealed, len(values))
	for i, r := range revealed {
		text, err := r.Text()
		require.NoError(t, err)
		require.Equal(t, values[i], text)
		require.Equal(t, revealed[0].ExpiresAt(), r.ExpiresAt())
	}
}

func TestSession_RevealAllIsAllOrNothing(t *testing.T) {
	s, _ := newTestSession(t)
	ctx, err := s.Unlock("pass", testSalt(0xc4))
	require.NoError(t, err)

	good, err := EncryptSecretString("good", ctx)
	require.NoError(t, err)
	bad, err := EncryptSecretString("bad", ctx)
	require.NoError(t, err)
	bad.Ciphertext = flipBit(bad.Ciphertext, 3)

	revealed, err := s.RevealAll([]*SealedItem{good, bad}, time.Minute)
	require.ErrorIs(t, err, ErrAuthenticationFailed)
	require.Nil(t, revealed)
	require.Empty(t, s.reveals)
}

func TestSession_LockWipesReveals(t *testing.T) {
	s, _ := newTestSession(t)
	ctx, err := s.Unlock("pass", testSalt(0xc5))
	require.NoError(t, err)

	sealed, err := EncryptSecretString("secret", ctx)
	require.NoError(t, err)
	r, err := s.Reveal(sealed, time.Hour)
	require.NoError(t, err)

	s.Lock()

	require.True(t, r.Expired())
	_, err = r.Text()
	require.ErrorIs(t, err, ErrRevealExpired)
}

func TestSession_TrackDropsExpiredHandles(t *testing.T) {
	clock := newFakeClock()
	s, _ := newTestSession(t, WithClock(clock.Now))
	ctx, err := s.Unlock("pass", testSalt(0xc6))
	require.NoError(t, err)

	sealed, err := EncryptSecretString("secret", ctx)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := s.Reveal(sealed, time.Second)
		require.NoError(t, err)
	}
	clock.Advance(2 * time.Second)

	_, err = s.Reveal(sealed, time.Second)
	require.NoError(t, err)
	require.Len(t, s.reveals, 1)
}
