// Package mocks provides mock implementations of the crypto use case
// interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
)

// MockKeyStore is a mock implementation of KeyStore.
type MockKeyStore struct {
	mock.Mock
}

// NewMockKeyStore creates a MockKeyStore whose expectations are asserted on cleanup.
func NewMockKeyStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockKeyStore {
	m := &MockKeyStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Get mocks the Get method of KeyStore.
func (m *MockKeyStore) Get(ctx context.Context, identifier string) (*cryptoDomain.DataKey, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.DataKey), args.Error(1)
}

// Put mocks the Put method of KeyStore.
func (m *MockKeyStore) Put(ctx context.Context, key *cryptoDomain.DataKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// Delete mocks the Delete method of KeyStore.
func (m *MockKeyStore) Delete(ctx context.Context, identifier string) error {
	args := m.Called(ctx, identifier)
	return args.Error(0)
}

// Exists mocks the Exists method of KeyStore.
func (m *MockKeyStore) Exists(ctx context.Context, identifier string) (bool, error) {
	args := m.Called(ctx, identifier)
	return args.Bool(0), args.Error(1)
}

// MockKeyUseCase is a mock implementation of KeyUseCase.
type MockKeyUseCase struct {
	mock.Mock
}

// NewMockKeyUseCase creates a MockKeyUseCase whose expectations are asserted on cleanup.
func NewMockKeyUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockKeyUseCase {
	m := &MockKeyUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// GenerateDataKey mocks the GenerateDataKey method of KeyUseCase.
func (m *MockKeyUseCase) GenerateDataKey(ctx context.Context, identifier string) error {
	args := m.Called(ctx, identifier)
	return args.Error(0)
}

// GetDataKey mocks the GetDataKey method of KeyUseCase.
func (m *MockKeyUseCase) GetDataKey(ctx context.Context, identifier string) (*cryptoDomain.DataKey, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.DataKey), args.Error(1)
}

// GetOrCreateDataKey mocks the GetOrCreateDataKey method of KeyUseCase.
func (m *MockKeyUseCase) GetOrCreateDataKey(
	ctx context.Context,
	identifier string,
) (*cryptoDomain.DataKey, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.DataKey), args.Error(1)
}

// InstallDataKey mocks the InstallDataKey method of KeyUseCase.
func (m *MockKeyUseCase) InstallDataKey(ctx context.Context, key *cryptoDomain.DataKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// DeleteKey mocks the DeleteKey method of KeyUseCase.
func (m *MockKeyUseCase) DeleteKey(ctx context.Context, identifier string) error {
	args := m.Called(ctx, identifier)
	return args.Error(0)
}

// KeyExists mocks the KeyExists method of KeyUseCase.
func (m *MockKeyUseCase) KeyExists(ctx context.Context, identifier string) (bool, error) {
	args := m.Called(ctx, identifier)
	return args.Bool(0), args.Error(1)
}

// MockEncryptionUseCase is a mock implementation of EncryptionUseCase.
type MockEncryptionUseCase struct {
	mock.Mock
}

// NewMockEncryptionUseCase creates a MockEncryptionUseCase whose expectations
// are asserted on cleanup.
func NewMockEncryptionUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEncryptionUseCase {
	m := &MockEncryptionUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// EncryptData mocks the EncryptData method of EncryptionUseCase.
func (m *MockEncryptionUseCase) EncryptData(
	ctx context.Context,
	data []byte,
	keyID string,
) (*cryptoDomain.EncryptedData, error) {
	args := m.Called(ctx, data, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.EncryptedData), args.Error(1)
}

// DecryptData mocks the DecryptData method of EncryptionUseCase.
func (m *MockEncryptionUseCase) DecryptData(
	ctx context.Context,
	encrypted *cryptoDomain.EncryptedData,
	keyID string,
) ([]byte, error) {
	args := m.Called(ctx, encrypted, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// EncryptFile mocks the EncryptFile method of EncryptionUseCase.
func (m *MockEncryptionUseCase) EncryptFile(ctx context.Context, src, dst, keyID string) (string, error) {
	args := m.Called(ctx, src, dst, keyID)
	return args.String(0), args.Error(1)
}

// DecryptFile mocks the DecryptFile method of EncryptionUseCase.
func (m *MockEncryptionUseCase) DecryptFile(ctx context.Context, src, dst, keyID, iv string) error {
	args := m.Called(ctx, src, dst, keyID, iv)
	return args.Error(0)
}

// EncryptWithPassword mocks the EncryptWithPassword method of EncryptionUseCase.
func (m *MockEncryptionUseCase) EncryptWithPassword(
	ctx context.Context,
	data []byte,
	password string,
) (*cryptoDomain.PasswordEncryptedPackage, error) {
	args := m.Called(ctx, data, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.PasswordEncryptedPackage), args.Error(1)
}

// DecryptWithPassword mocks the DecryptWithPassword method of EncryptionUseCase.
func (m *MockEncryptionUseCase) DecryptWithPassword(
	ctx context.Context,
	pkg *cryptoDomain.PasswordEncryptedPackage,
	password string,
) ([]byte, error) {
	args := m.Called(ctx, pkg, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// GenerateEncryptionKey mocks the GenerateEncryptionKey method of EncryptionUseCase.
func (m *MockEncryptionUseCase) GenerateEncryptionKey(ctx context.Context, keyID string) error {
	args := m.Called(ctx, keyID)
	return args.Error(0)
}

// ExportEncryptedData mocks the ExportEncryptedData method of EncryptionUseCase.
func (m *MockEncryptionUseCase) ExportEncryptedData(
	ctx context.Context,
	encrypted *cryptoDomain.EncryptedData,
	keyID string,
	password string,
) (*cryptoDomain.ExportPackage, error) {
	args := m.Called(ctx, encrypted, keyID, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.ExportPackage), args.Error(1)
}

// ImportEncryptedData mocks the ImportEncryptedData method of EncryptionUseCase.
func (m *MockEncryptionUseCase) ImportEncryptedData(
	ctx context.Context,
	pkg *cryptoDomain.ExportPackage,
	password string,
) (*cryptoDomain.EncryptedData, string, error) {
	args := m.Called(ctx, pkg, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*cryptoDomain.EncryptedData), args.String(1), args.Error(2)
}

// VerifyFileIntegrity mocks the VerifyFileIntegrity method of EncryptionUseCase.
func (m *MockEncryptionUseCase) VerifyFileIntegrity(
	ctx context.Context,
	path, expectedChecksum string,
) (bool, error) {
	args := m.Called(ctx, path, expectedChecksum)
	return args.Bool(0), args.Error(1)
}

// ComputeFileChecksum mocks the ComputeFileChecksum method of EncryptionUseCase.
func (m *MockEncryptionUseCase) ComputeFileChecksum(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

// MockKeyDeriver is a mock implementation of KeyDeriver.
type MockKeyDeriver struct {
	mock.Mock
}

// NewMockKeyDeriver creates a MockKeyDeriver whose expectations are asserted on cleanup.
func NewMockKeyDeriver(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockKeyDeriver {
	m := &MockKeyDeriver{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// DeriveKey mocks the DeriveKey method of KeyDeriver.
func (m *MockKeyDeriver) DeriveKey(password, salt []byte, params cryptoDomain.KDFParams) ([]byte, error) {
	args := m.Called(password, salt, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
