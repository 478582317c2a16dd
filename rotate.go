package vaultcrypt

// ReEncryptItem decrypts an item and encrypts it again under the same
// context with a fresh item salt and iv. Use it when an item is rewritten
// so the new triple never reuses the old nonce.
func ReEncryptItem(item *SealedItem, ctx *MasterContext) (*SealedItem, error) {
	return RekeyItem(item, ctx, ctx)
}

// RekeyItem moves an item from one master context to another, as when the
// master passphrase changes and a new master salt is issued.
//
// Returns error if decryption under from fails; nothing is encrypted in that case.
func RekeyItem(item *SealedItem, from, to *MasterContext) (*SealedItem, error) {
	if err := to.usable(); err != nil {
		return nil, err
	}

	plaintext, err := item.Open(from)
	if err != nil {
		return nil, err
	}
	defer wipe(plaintext)

	return EncryptSecret(plaintext, to)
}

// RekeySecretRecord moves a server record to a new master context and
// recomputes its title blind index from the decrypted title, since the old
// index was keyed by the old search key. ID, tags and version are carried over.
//
// IMPORTANT: the record is re-indexed with NormalizeNone, matching SealSecret.
func RekeySecretRecord(rec *ItemRecord, from, to *MasterContext) (*ItemRecord, error) {
	doc, err := OpenSecret(rec, from)
	if err != nil {
		return nil, err
	}

	out, err := SealSecret(doc, to)
	if err != nil {
		return nil, err
	}
	out.ID = rec.ID
	out.Tags = append([]string(nil), rec.Tags...)
	out.Version = rec.Version
	return out, nil
}
