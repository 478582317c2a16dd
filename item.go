package vaultcrypt

// SealedItem is the at-rest triple for one vault item. All three fields must
// be persisted together: losing the iv or the salt makes the ciphertext
// permanently undecryptable.
type SealedItem struct {
	Ciphertext []byte // AES-256-GCM ciphertext || tag
	IV         []byte // 12-byte nonce, fresh per encryption
	Salt       []byte // 16-byte per-item HKDF salt, fresh per encryption
}

// EncryptSecret encrypts plaintext under a key derived for this item alone:
//
//	itemKey    = HKDF-SHA256(encryptionRootKey, itemSalt, "aami-item", 32)
//	ciphertext = AES-256-GCM(itemKey, iv, plaintext)
//
// A new item salt and iv are drawn on every call, so editing an item always
// produces a new triple and never reuses a nonce under an old key.
func EncryptSecret(plaintext []byte, ctx *MasterContext) (*SealedItem, error) {
	itemSalt := randomBytes(ItemSaltSize)
	iv := randomBytes(NonceSize)

	itemKey, err := deriveItemKey(ctx, itemSalt)
	if err != nil {
		return nil, err
	}
	defer wipe(itemKey[:])

	ciphertext, err := sealGCM(itemKey[:], iv, plaintext)
	if err != nil {
		return nil, err
	}

	return &SealedItem{
		Ciphertext: ciphertext,
		IV:         iv,
		Salt:       itemSalt,
	}, nil
}

// DecryptSecret re-derives the item key and decrypts. It returns
// ErrAuthenticationFailed on any tag mismatch (wrong context, tampering or
// corruption) and never returns partial plaintext.
func DecryptSecret(ciphertext, iv, itemSalt []byte, ctx *MasterContext) ([]byte, error) {
	if err := checkCiphertext("ciphertext", ciphertext); err != nil {
		return nil, err
	}
	if err := checkSize("iv", iv, NonceSize); err != nil {
		return nil, err
	}
	if err := checkSize("item salt", itemSalt, ItemSaltSize); err != nil {
		return nil, err
	}
	itemKey, err := deriveItemKey(ctx, itemSalt)
	if err != nil {
		return nil, err
	}
	defer wipe(itemKey[:])

	return openGCM(itemKey[:], iv, ciphertext)
}

// EncryptSecretString encrypts a UTF-8 string.
func EncryptSecretString(plaintext string, ctx *MasterContext) (*SealedItem, error) {
	return EncryptSecret([]byte(plaintext), ctx)
}

// DecryptSecretString decrypts to a string.
func DecryptSecretString(ciphertext, iv, itemSalt []byte, ctx *MasterContext) (string, error) {
	plaintext, err := DecryptSecret(ciphertext, iv, itemSalt, ctx)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// Open decrypts the sealed item.
func (s *SealedItem) Open(ctx *MasterContext) ([]byte, error) {
	return DecryptSecret(s.Ciphertext, s.IV, s.Salt, ctx)
}

// deriveItemKey expands the encryption root with the item salt. The root is
// read under the context lock; the returned key is an independent copy.
func deriveItemKey(ctx *MasterContext, itemSalt []byte) ([KeySize]byte, error) {
	var key [KeySize]byte
	if err := ctx.acquire(); err != nil {
		return key, err
	}
	defer ctx.mu.RUnlock()

	if err := hkdfDerive(ctx.encryptionRoot[:], itemSalt, infoItem, key[:]); err != nil {
		return key, err
	}
	return key, nil
}
