package vaultcrypt

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Default titles used when a decrypted document carries none.
const (
	UntitledTitle     = "(untitled)"
	SharedSecretTitle = "Shared secret"
)

// Field is one labelled value of a secret (username, password, note...).
type Field struct {
	Label     string `json:"label"`
	Value     string `json:"value"`
	Sensitive bool   `json:"sensitive,omitempty"`
}

// Secret is the JSON document stored inside an item or share payload.
// Older documents carry a single Value instead of Fields.
type Secret struct {
	Title  string  `json:"title,omitempty"`
	Fields []Field `json:"fields,omitempty"`
	Value  string  `json:"value,omitempty"`
}

// ParseSecret interprets decrypted plaintext. Documents with a fields array
// are used as-is; a legacy value becomes one sensitive field labelled with the
// title; any other JSON becomes one sensitive field holding the raw plaintext.
// Plaintext that is not JSON, or is JSON null, becomes one sensitive field
// labelled "Secret". defaultTitle fills in a missing title.
//
// Members are read independently, so a malformed fields member does not
// discard the title or value.
func ParseSecret(plaintext []byte, defaultTitle string) *Secret {
	if !json.Valid(plaintext) || string(bytes.TrimSpace(plaintext)) == "null" {
		return &Secret{
			Title:  defaultTitle,
			Fields: []Field{{Label: "Secret", Value: string(plaintext), Sensitive: true}},
		}
	}

	// Non-object JSON leaves members empty and falls through to the raw plaintext.
	var members map[string]json.RawMessage
	_ = json.Unmarshal(plaintext, &members)

	title := defaultTitle
	if t, ok := jsonText(members["title"]); ok {
		title = t
	}

	if fields, ok := jsonFields(members["fields"]); ok {
		return &Secret{Title: title, Fields: fields}
	}
	if value, ok := jsonText(members["value"]); ok {
		return &Secret{
			Title:  title,
			Fields: []Field{{Label: title, Value: value, Sensitive: true}},
		}
	}
	return &Secret{
		Title:  title,
		Fields: []Field{{Label: title, Value: string(plaintext), Sensitive: true}},
	}
}

// jsonText renders a member as text: strings unquoted, other non-null
// values as their JSON encoding. Absent and null members report false.
func jsonText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return string(raw), true
}

// jsonFields decodes a fields member. Anything other than an array of
// field objects reports false.
func jsonFields(raw json.RawMessage) ([]Field, bool) {
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var fields []Field
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// Share returns a copy of the secret holding only the fields at the given
// indexes, in the order given, for a one-time link.
func (s *Secret) Share(indexes ...int) (*Secret, error) {
	if len(indexes) == 0 {
		return nil, fmt.Errorf("%w: select at least one field to share", ErrInvalidInput)
	}
	out := &Secret{Title: s.Title, Fields: make([]Field, 0, len(indexes))}
	for _, i := range indexes {
		if i < 0 || i >= len(s.Fields) {
			return nil, fmt.Errorf("%w: field index %d out of range", ErrInvalidInput, i)
		}
		out.Fields = append(out.Fields, s.Fields[i])
	}
	return out, nil
}

// SealJSON encrypts a JSON-serializable value as an item.
func SealJSON[T any](data T, ctx *MasterContext) (*SealedItem, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	defer wipe(jsonBytes)
	return EncryptSecret(jsonBytes, ctx)
}

// OpenJSON decrypts an item and unmarshals its JSON.
func OpenJSON[T any](item *SealedItem, ctx *MasterContext) (T, error) {
	var zero T

	plaintext, err := item.Open(ctx)
	if err != nil {
		return zero, err
	}
	defer wipe(plaintext)

	var result T
	if err := json.Unmarshal(plaintext, &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return result, nil
}

// SealSecret encrypts the document and indexes its title, producing a record
// ready to send to the server.
func SealSecret(doc *Secret, ctx *MasterContext) (*ItemRecord, error) {
	sealed, err := SealJSON(doc, ctx)
	if err != nil {
		return nil, err
	}
	idx, err := ComputeTitleBlindIndexText(doc.Title, ctx)
	if err != nil {
		return nil, err
	}
	rec := sealed.Record()
	rec.TitleHMAC = idx
	return rec, nil
}

// OpenSecret decrypts a record into a document.
func OpenSecret(rec *ItemRecord, ctx *MasterContext) (*Secret, error) {
	plaintext, err := rec.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer wipe(plaintext)
	return ParseSecret(plaintext, UntitledTitle), nil
}

// ShareSecret encrypts the document as a one-time share payload.
func ShareSecret(doc *Secret, sharePassphrase string) (*ShareRecord, error) {
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	defer wipe(jsonBytes)

	payload, err := EncryptOneTimePayload(jsonBytes, sharePassphrase)
	if err != nil {
		return nil, err
	}
	return payload.Record(), nil
}

// OpenShare decrypts a one-time share record into a document.
func OpenShare(rec *ShareRecord, sharePassphrase string) (*Secret, error) {
	plaintext, err := rec.Open(sharePassphrase)
	if err != nil {
		return nil, err
	}
	defer wipe(plaintext)
	return ParseSecret(plaintext, SharedSecretTitle), nil
}
