// Package vaultcrypt is the client-side cryptographic core of an end-to-end
// encrypted secret vault. The server stores only ciphertext, ivs, salts and
// blind indexes; keys and plaintext exist only on the client.
//
// # Key Derivation
//
// A passphrase and the account's 16-byte master salt are stretched with
// PBKDF2-HMAC-SHA256 (600000 iterations) into a master key, which HKDF-SHA256
// fans out into two independent keys: an encryption root and a search key.
// The result is a [MasterContext], held in memory for the session only.
//
//	salt := vaultcrypt.NewMasterSalt() // at registration; the server stores it
//	ctx, err := vaultcrypt.DeriveMasterContext(passphrase, salt)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctx.Destroy()
//
// # Item Encryption
//
// Each item is encrypted with AES-256-GCM under its own key, expanded from
// the encryption root with a fresh random item salt. Ciphertext, iv and salt
// must be stored together.
//
//	sealed, err := vaultcrypt.EncryptSecretString("super-secret-value", ctx)
//	plaintext, err := vaultcrypt.DecryptSecret(sealed.Ciphertext, sealed.IV, sealed.Salt, ctx)
//
// Any tag mismatch returns [ErrAuthenticationFailed], whatever the cause.
//
// # Blind Index
//
// [ComputeTitleBlindIndex] tags a title with HMAC-SHA256 under the search key,
// so the server can match equal titles without learning them. It is an exact
// match index; the server can see which items share a title.
//
// # One-Time Shares
//
// [EncryptOneTimePayload] encrypts under a key stretched from a share
// passphrase (PBKDF2, 200000 iterations). It is independent of any master
// context. Link expiry and single use are server policy.
//
// # Sessions
//
// [Session] owns the master context between Unlock and Lock, zeroes keys on
// Lock, locks itself after inactivity, and hands out [RevealedSecret] handles
// that stop yielding plaintext after their deadline.
//
// # Wire Encoding
//
// Binary fields cross the wire as standard base64 ([ToText], [FromText]) in
// [ItemRecord] and [ShareRecord]. Keys are never encoded.
package vaultcrypt
