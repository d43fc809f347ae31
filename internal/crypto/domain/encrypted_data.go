package domain

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/allisson/journalcrypt/internal/errors"
)

// EncryptedData is the result of an AEAD encryption.
//
// Ciphertext excludes the authentication tag, which lives in AuthTag. IV is
// the 12-byte nonce used for this encryption and is never reused under the
// same key.
type EncryptedData struct {
	Ciphertext []byte
	IV         []byte
	AuthTag    []byte
}

// NewEncryptedData splits the output of an AEAD seal (ciphertext||tag).
func NewEncryptedData(iv, sealed []byte) (*EncryptedData, error) {
	if len(sealed) < TagSize {
		return nil, ErrEncryptionFailed
	}
	split := len(sealed) - TagSize
	return &EncryptedData{
		Ciphertext: append([]byte(nil), sealed[:split]...),
		IV:         append([]byte(nil), iv...),
		AuthTag:    append([]byte(nil), sealed[split:]...),
	}, nil
}

// Sealed returns ciphertext||tag, the form AEAD implementations open.
func (e *EncryptedData) Sealed() []byte {
	out := make([]byte, 0, len(e.Ciphertext)+len(e.AuthTag))
	out = append(out, e.Ciphertext...)
	return append(out, e.AuthTag...)
}

// Validate checks the structural shape: IV and tag sizes. It says nothing
// about authenticity.
func (e *EncryptedData) Validate() error {
	if e == nil || len(e.IV) != NonceSize || len(e.AuthTag) != TagSize {
		return ErrDecryptionFailed
	}
	return nil
}

type encryptedDataJSON struct {
	Version    int    `json:"version"`
	Ciphertext []byte `json:"ciphertext"`
	IV         []byte `json:"iv"`
	AuthTag    []byte `json:"auth_tag"`
}

// MarshalJSON encodes the versioned JSON layout.
func (e EncryptedData) MarshalJSON() ([]byte, error) {
	return json.Marshal(encryptedDataJSON{
		Version:    EncryptedDataVersion,
		Ciphertext: e.Ciphertext,
		IV:         e.IV,
		AuthTag:    e.AuthTag,
	})
}

// UnmarshalJSON decodes the versioned JSON layout.
func (e *EncryptedData) UnmarshalJSON(data []byte) error {
	var raw encryptedDataJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(ErrInvalidPackage, "malformed encrypted data")
	}
	if raw.Version != EncryptedDataVersion {
		return errors.Wrapf(ErrInvalidPackage, "unsupported encrypted data version %d", raw.Version)
	}
	e.Ciphertext = raw.Ciphertext
	e.IV = raw.IV
	e.AuthTag = raw.AuthTag
	return nil
}

// String returns the compact form v1:<iv>:<ciphertext>:<tag>, base64 encoded.
func (e EncryptedData) String() string {
	enc := base64.StdEncoding
	return "v" + strconv.Itoa(EncryptedDataVersion) + ":" +
		enc.EncodeToString(e.IV) + ":" +
		enc.EncodeToString(e.Ciphertext) + ":" +
		enc.EncodeToString(e.AuthTag)
}

// ParseEncryptedData parses the compact form produced by String.
func ParseEncryptedData(s string) (*EncryptedData, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 || parts[0] != "v"+strconv.Itoa(EncryptedDataVersion) {
		return nil, errors.Wrap(ErrInvalidPackage, "malformed encrypted data string")
	}

	enc := base64.StdEncoding
	iv, err := enc.DecodeString(parts[1])
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPackage, "malformed iv")
	}
	ciphertext, err := enc.DecodeString(parts[2])
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPackage, "malformed ciphertext")
	}
	tag, err := enc.DecodeString(parts[3])
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPackage, "malformed auth tag")
	}

	return &EncryptedData{Ciphertext: ciphertext, IV: iv, AuthTag: tag}, nil
}
