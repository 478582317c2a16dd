package vaultcrypt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlindIndex_Deterministic(t *testing.T) {
	ctx := testContext(t, "title-pass", NewMasterSalt())

	h1, err := ComputeTitleBlindIndex("Example", ctx)
	require.NoError(t, err)
	h2, err := ComputeTitleBlindIndex("Example", ctx)
	require.NoError(t, err)
	h3, err := ComputeTitleBlindIndex("Different", ctx)
	require.NoError(t, err)

	require.True(t, bytes.Equal(h1, h2), "same title should produce same index")
	require.False(t, bytes.Equal(h1, h3), "different titles should produce different indexes")
}

func TestBlindIndex_StableAcrossReDerivation(t *testing.T) {
	salt := testSalt(0x41)
	ctx1 := testContext(t, "title-pass", salt)
	ctx2 := testContext(t, "title-pass", salt)

	h1, err := ComputeTitleBlindIndexText("GitHub", ctx1)
	require.NoError(t, err)
	h2, err := ComputeTitleBlindIndexText("GitHub", ctx2)
	require.NoError(t, err)

	require.Equal(t, h1, h2)
}

func TestBlindIndex_DifferentContexts(t *testing.T) {
	ctx1 := testContext(t, "pass", testSalt(0x42))
	ctx2 := testContext(t, "pass", testSalt(0x43))

	h1, _ := ComputeTitleBlindIndex("Example", ctx1)
	h2, _ := ComputeTitleBlindIndex("Example", ctx2)

	require.False(t, bytes.Equal(h1, h2), "same title under different contexts should differ")
}

func TestBlindIndex_OutputSize(t *testing.T) {
	ctx := testContext(t, "pass", testSalt(0x44))

	for _, title := range []string{"", "short", "medium length title", strings.Repeat("x", 10000)} {
		idx, err := ComputeTitleBlindIndex(title, ctx)
		require.NoError(t, err)
		require.Len(t, idx, BlindIndexSize, "blind index should always be 32 bytes (SHA256)")
	}
}

func TestBlindIndex_IsHMACUnderSearchKey(t *testing.T) {
	ctx := testContext(t, "pass", testSalt(0x45))

	idx, err := ComputeTitleBlindIndex("Example", ctx)
	require.NoError(t, err)

	require.Equal(t, computeHMAC(&ctx.searchKey, []byte("Example")), idx)
	require.NotEqual(t, computeHMAC(&ctx.encryptionRoot, []byte("Example")), idx,
		"blind index must not use the encryption root")
}

func TestBlindIndex_CaseSensitive(t *testing.T) {
	ctx := testContext(t, "pass", testSalt(0x46))

	h1, _ := ComputeTitleBlindIndex("GitHub", ctx)
	h2, _ := ComputeTitleBlindIndex("github", ctx)

	require.False(t, bytes.Equal(h1, h2), "blind index should be case-sensitive by default")
}

func TestBlindIndex_Normalized(t *testing.T) {
	ctx := testContext(t, "pass", testSalt(0x47))

	h1, err := ComputeTitleBlindIndexNormalized("  GitHub   Work ", ctx, NormalizeTitle)
	require.NoError(t, err)
	h2, err := ComputeTitleBlindIndex("github work", ctx)
	require.NoError(t, err)

	require.Equal(t, h1, h2)
}

func TestBlindIndexText_Decodes(t *testing.T) {
	ctx := testContext(t, "pass", testSalt(0x48))

	text, err := ComputeTitleBlindIndexText("Example", ctx)
	require.NoError(t, err)

	raw, err := FromText(text)
	require.NoError(t, err)
	idx, _ := ComputeTitleBlindIndex("Example", ctx)
	require.Equal(t, idx, raw)
}

func TestMatchTitle(t *testing.T) {
	ctx := testContext(t, "pass", testSalt(0x49))
	idx, _ := ComputeTitleBlindIndex("Example", ctx)

	ok, err := MatchTitle(idx, "Example", ctx)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = MatchTitle(idx, "Different", ctx)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = MatchTitle(idx[:16], "Example", ctx)
	require.NoError(t, err)
	require.False(t, ok)
}
