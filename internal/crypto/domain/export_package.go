package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/journalcrypt/internal/errors"
)

// ExportPackage carries encrypted data together with its data key, the key
// itself sealed under a password. It is the unit of backup and device transfer.
//
// WrappedKey is sealed with KeyIdentifier and Algorithm as associated data, so
// a package whose identifier or algorithm was altered fails to unwrap.
type ExportPackage struct {
	Version       int                      `json:"version"`
	ID            uuid.UUID                `json:"id"`
	KeyIdentifier string                   `json:"key_identifier"`
	Algorithm     Algorithm                `json:"algorithm"`
	WrappedKey    PasswordEncryptedPackage `json:"wrapped_key"`
	Payload       EncryptedData            `json:"payload"`
	CreatedAt     time.Time                `json:"created_at"`
}

// Validate checks the version and the structural shape of both sealed parts.
func (p *ExportPackage) Validate() error {
	if p == nil {
		return ErrInvalidPackage
	}
	if p.Version != ExportPackageVersion {
		return errors.Wrapf(ErrInvalidPackage, "unsupported export package version %d", p.Version)
	}
	if p.KeyIdentifier == "" {
		return ErrInvalidIdentifier
	}
	if !p.Algorithm.Valid() {
		return ErrUnsupportedAlgorithm
	}
	if err := p.WrappedKey.Validate(); err != nil {
		return err
	}
	return p.Payload.Validate()
}

// MarshalExportPackage encodes an export package as indented JSON.
func MarshalExportPackage(p *ExportPackage) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// UnmarshalExportPackage decodes and validates an export package.
func UnmarshalExportPackage(data []byte) (*ExportPackage, error) {
	var p ExportPackage
	if err := json.Unmarshal(data, &p); err != nil {
		if errors.Is(err, ErrInvalidPackage) {
			return nil, err
		}
		return nil, errors.Wrap(ErrInvalidPackage, "malformed export package")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
