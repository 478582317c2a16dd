package vaultcrypt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// testIterations keeps PBKDF2 cheap in tests; the full count is covered by
// TestDeriveMasterContext_FullIterations.
const testIterations = 1000

// testSalt returns a deterministic 16-byte salt.
func testSalt(seed byte) []byte {
	return bytes.Repeat([]byte{seed}, MasterSaltSize)
}

// testContext derives a context at the reduced iteration count.
func testContext(t testing.TB, passphrase string, salt []byte) *MasterContext {
	t.Helper()
	ctx, err := deriveMasterContext(passphrase, salt, testIterations)
	require.NoError(t, err)
	return ctx
}

// fastDerive is a Session derive hook at the reduced iteration count.
func fastDerive(passphrase string, salt []byte) (*MasterContext, error) {
	return deriveMasterContext(passphrase, salt, testIterations)
}

// flipBit returns a copy of b with one bit inverted.
func flipBit(b []byte, bit int) []byte {
	out := append([]byte(nil), b...)
	out[bit/8] ^= 1 << (bit % 8)
	return out
}
