package domain

// KDFParams describes how a key was derived from a password. Packages carry
// their own parameters so they stay decryptable after defaults change.
type KDFParams struct {
	Algorithm  KDFAlgorithm `json:"algorithm"`
	Iterations uint32       `json:"iterations"`        // PBKDF2 iterations or argon2id time cost
	Memory     uint32       `json:"memory,omitempty"`  // argon2id memory in KiB
	Threads    uint8        `json:"threads,omitempty"` // argon2id parallelism
	KeyLength  uint32       `json:"key_length"`
}

// Validate rejects unknown algorithms and parameters outside the floors and
// ceilings.
func (p KDFParams) Validate() error {
	if p.KeyLength != KeySize {
		return ErrInvalidKDFParams
	}
	switch p.Algorithm {
	case PBKDF2SHA256:
		if p.Iterations < MinPBKDF2Iterations || p.Iterations > MaxPBKDF2Iterations {
			return ErrInvalidKDFParams
		}
	case Argon2id:
		if p.Iterations < MinArgon2Time || p.Iterations > MaxArgon2Time {
			return ErrInvalidKDFParams
		}
		if p.Memory < MinArgon2MemoryKiB || p.Memory > MaxArgon2MemoryKiB {
			return ErrInvalidKDFParams
		}
		if p.Threads == 0 || p.Threads > MaxArgon2Threads {
			return ErrInvalidKDFParams
		}
	default:
		return ErrUnsupportedAlgorithm
	}
	return nil
}

// PasswordEncryptedPackage is data sealed under a password-derived key.
// The KDF output is always used with AES-256-GCM.
type PasswordEncryptedPackage struct {
	Data EncryptedData `json:"data"`
	Salt []byte        `json:"salt"`
	KDF  KDFParams     `json:"kdf"`
}

// Validate checks salt bounds, KDF parameters and the shape of the sealed data.
func (p *PasswordEncryptedPackage) Validate() error {
	if p == nil {
		return ErrInvalidPackage
	}
	if len(p.Salt) < MinSaltSize || len(p.Salt) > MaxSaltSize {
		return ErrInvalidKDFParams
	}
	if err := p.KDF.Validate(); err != nil {
		return err
	}
	return p.Data.Validate()
}
