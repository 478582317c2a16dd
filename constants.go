package vaultcrypt

// Sizes of the fixed-length fields exchanged with the server.
const (
	// KeySize is the size of every derived key (AES-256 and HMAC-SHA256).
	KeySize = 32
	// MasterSaltSize is the size of the per-account master salt.
	MasterSaltSize = 16
	// ItemSaltSize is the size of the per-item HKDF salt.
	ItemSaltSize = 16
	// ShareSaltSize is the size of the one-time share PBKDF2 salt.
	ShareSaltSize = 16
	// NonceSize is the AES-GCM nonce (iv) size.
	NonceSize = 12
	// TagSize is the AES-GCM authentication tag size appended to ciphertexts.
	TagSize = 16
	// BlindIndexSize is the size of an HMAC-SHA256 title tag.
	BlindIndexSize = 32
)

// KDF work factors. These are fixed: existing vaults were derived with them
// and there is no parameter record stored alongside the master salt.
const (
	// MasterIterations is the PBKDF2-HMAC-SHA256 iteration count for the master key.
	MasterIterations = 600000
	// ShareIterations is the PBKDF2-HMAC-SHA256 iteration count for one-time share keys.
	ShareIterations = 200000
)

// HKDF info labels. Distinct labels keep the subkeys independent.
const (
	infoEncryptionRoot = "aami-enc-root"
	infoSearch         = "aami-search"
	infoItem           = "aami-item"
)
