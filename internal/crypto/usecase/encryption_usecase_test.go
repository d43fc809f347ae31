package usecase

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
	"github.com/allisson/journalcrypt/internal/crypto/repository"
	cryptoService "github.com/allisson/journalcrypt/internal/crypto/service"
	"github.com/allisson/journalcrypt/internal/crypto/usecase/mocks"
)

const (
	testPassword  = "Quiet-Harbor-Lantern-42"
	testChunkSize = 16
)

var testKDF = cryptoDomain.KDFParams{
	Algorithm:  cryptoDomain.PBKDF2SHA256,
	Iterations: cryptoDomain.MinPBKDF2Iterations,
	KeyLength:  cryptoDomain.KeySize,
}

type testEngine struct {
	uc    *encryptionUseCase
	keys  KeyUseCase
	store *repository.MemoryKeyStore
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	return newTestEngineWithLimiter(t, rate.NewLimiter(rate.Inf, 1))
}

func newTestEngineWithLimiter(t *testing.T, limiter *rate.Limiter) *testEngine {
	t.Helper()
	store := repository.NewMemoryKeyStore()
	keys := NewKeyUseCase(store, cryptoService.NewKeyGenerator(), cryptoDomain.AESGCM, discardLogger())
	uc := NewEncryptionUseCase(
		keys,
		cryptoService.NewAEADManager(),
		cryptoService.NewKeyGenerator(),
		cryptoService.NewKeyDeriver(),
		cryptoService.NewPasswordValidator(12, 3),
		limiter,
		EncryptionConfig{KDF: testKDF, SaltSize: cryptoDomain.MinSaltSize, FileChunkSize: testChunkSize},
		discardLogger(),
	).(*encryptionUseCase)
	return &testEngine{uc: uc, keys: keys, store: store}
}

func writeTestFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// assertNoTempFiles fails if a temp file was left behind in dir.
func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
}

func TestEncryptionUseCase_EncryptDecryptData(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - round trip creates key on first use", func(t *testing.T) {
		e := newTestEngine(t)

		encrypted, err := e.uc.EncryptData(ctx, []byte("Dear diary"), "journal-42")
		require.NoError(t, err)
		assert.Len(t, encrypted.IV, cryptoDomain.NonceSize)
		assert.Len(t, encrypted.AuthTag, cryptoDomain.TagSize)
		assert.NotContains(t, string(encrypted.Ciphertext), "Dear diary")

		exists, err := e.keys.KeyExists(ctx, "journal-42")
		require.NoError(t, err)
		assert.True(t, exists)

		plaintext, err := e.uc.DecryptData(ctx, encrypted, "journal-42")
		require.NoError(t, err)
		assert.Equal(t, []byte("Dear diary"), plaintext)
	})

	t.Run("Success - empty plaintext", func(t *testing.T) {
		e := newTestEngine(t)

		encrypted, err := e.uc.EncryptData(ctx, nil, "journal-42")
		require.NoError(t, err)
		assert.Empty(t, encrypted.Ciphertext)

		plaintext, err := e.uc.DecryptData(ctx, encrypted, "journal-42")
		require.NoError(t, err)
		assert.Empty(t, plaintext)
	})

	t.Run("Success - fresh IV per call", func(t *testing.T) {
		e := newTestEngine(t)

		a, err := e.uc.EncryptData(ctx, []byte("same"), "journal-42")
		require.NoError(t, err)
		b, err := e.uc.EncryptData(ctx, []byte("same"), "journal-42")
		require.NoError(t, err)

		assert.NotEqual(t, a.IV, b.IV)
		assert.NotEqual(t, a.Ciphertext, b.Ciphertext)
	})

	t.Run("Success - chacha20 key", func(t *testing.T) {
		e := newTestEngine(t)
		key := testDataKey("journal-42", 0x11)
		key.Algorithm = cryptoDomain.ChaCha20
		require.NoError(t, e.keys.InstallDataKey(ctx, key))

		encrypted, err := e.uc.EncryptData(ctx, []byte("entry"), "journal-42")
		require.NoError(t, err)
		plaintext, err := e.uc.DecryptData(ctx, encrypted, "journal-42")
		require.NoError(t, err)
		assert.Equal(t, []byte("entry"), plaintext)
	})

	t.Run("Success - journal entry keeps its length", func(t *testing.T) {
		e := newTestEngine(t)
		entry := []byte("Today I walked along the harbor wall.")
		require.Len(t, entry, 37)

		encrypted, err := e.uc.EncryptData(ctx, entry, "journal-42")
		require.NoError(t, err)
		assert.Len(t, encrypted.IV, 12)
		assert.Len(t, encrypted.AuthTag, 16)
		assert.Len(t, encrypted.Ciphertext, len(entry))

		plaintext, err := e.uc.DecryptData(ctx, encrypted, "journal-42")
		require.NoError(t, err)
		assert.Equal(t, entry, plaintext)

		plaintext, err = e.uc.DecryptData(ctx, encrypted, "journal-43")
		assert.Nil(t, plaintext)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyRetrievalFailed)
	})

	t.Run("Error - decrypt under a missing key never creates it", func(t *testing.T) {
		e := newTestEngine(t)
		encrypted, err := e.uc.EncryptData(ctx, []byte("Dear diary"), "journal-42")
		require.NoError(t, err)

		plaintext, err := e.uc.DecryptData(ctx, encrypted, "journal-43")
		assert.Nil(t, plaintext)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyRetrievalFailed)

		exists, err := e.keys.KeyExists(ctx, "journal-43")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Error - wrong key", func(t *testing.T) {
		e := newTestEngine(t)
		encrypted, err := e.uc.EncryptData(ctx, []byte("Dear diary"), "journal-42")
		require.NoError(t, err)
		require.NoError(t, e.keys.GenerateDataKey(ctx, "journal-44"))

		plaintext, err := e.uc.DecryptData(ctx, encrypted, "journal-44")
		assert.Nil(t, plaintext)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("Error - tampering", func(t *testing.T) {
		e := newTestEngine(t)
		encrypted, err := e.uc.EncryptData(ctx, []byte("Dear diary"), "journal-42")
		require.NoError(t, err)

		tamper := map[string]func(d *cryptoDomain.EncryptedData){
			"ciphertext": func(d *cryptoDomain.EncryptedData) { d.Ciphertext[0] ^= 0x01 },
			"iv":         func(d *cryptoDomain.EncryptedData) { d.IV[0] ^= 0x01 },
			"tag":        func(d *cryptoDomain.EncryptedData) { d.AuthTag[15] ^= 0x80 },
			"short iv":   func(d *cryptoDomain.EncryptedData) { d.IV = d.IV[:8] },
			"no tag":     func(d *cryptoDomain.EncryptedData) { d.AuthTag = nil },
		}
		for name, fn := range tamper {
			t.Run(name, func(t *testing.T) {
				d := &cryptoDomain.EncryptedData{
					Ciphertext: append([]byte(nil), encrypted.Ciphertext...),
					IV:         append([]byte(nil), encrypted.IV...),
					AuthTag:    append([]byte(nil), encrypted.AuthTag...),
				}
				fn(d)

				plaintext, err := e.uc.DecryptData(ctx, d, "journal-42")
				assert.Nil(t, plaintext)
				assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
			})
		}
	})
}

func TestEncryptionUseCase_EncryptDataConcurrent(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	ids := []string{"journal-1", "journal-2", "journal-3", "journal-4", "journal-5", "journal-6", "journal-7", "journal-8"}
	results := make([]*cryptoDomain.EncryptedData, len(ids))

	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			encrypted, err := e.uc.EncryptData(ctx, []byte("entry for "+id), id)
			if err != nil {
				return err
			}
			results[i] = encrypted
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i, id := range ids {
		plaintext, err := e.uc.DecryptData(ctx, results[i], id)
		require.NoError(t, err)
		assert.Equal(t, []byte("entry for "+id), plaintext)

		other := ids[(i+1)%len(ids)]
		plaintext, err = e.uc.DecryptData(ctx, results[i], other)
		assert.Nil(t, plaintext)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed, "%s opened under %s", id, other)
	}
}

func TestEncryptionUseCase_EncryptDecryptFile(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - round trip across chunk boundaries", func(t *testing.T) {
		for _, size := range []int{0, 1, testChunkSize - 1, testChunkSize, testChunkSize + 1, 5*testChunkSize + 3} {
			e := newTestEngine(t)
			dir := t.TempDir()
			data := bytes.Repeat([]byte("j"), size)
			src := writeTestFile(t, dir, "entry.txt", data)
			enc := filepath.Join(dir, "entry.enc")
			dec := filepath.Join(dir, "entry.dec")

			iv, err := e.uc.EncryptFile(ctx, src, enc, "journal-42")
			require.NoError(t, err, "size %d", size)
			rawIV, err := base64.StdEncoding.DecodeString(iv)
			require.NoError(t, err)
			assert.Len(t, rawIV, cryptoDomain.NonceSize)

			chunks := max(1, (size+testChunkSize-1)/testChunkSize)
			info, err := os.Stat(enc)
			require.NoError(t, err)
			assert.Equal(t, int64(size+chunks*cryptoDomain.TagSize), info.Size(), "size %d", size)

			require.NoError(t, e.uc.DecryptFile(ctx, enc, dec, "journal-42", iv), "size %d", size)
			got, err := os.ReadFile(dec)
			require.NoError(t, err)
			assert.Equal(t, data, got, "size %d", size)
			assertNoTempFiles(t, dir)
		}
	})

	newEncrypted := func(t *testing.T, e *testEngine) (dir, enc, iv string) {
		t.Helper()
		dir = t.TempDir()
		src := writeTestFile(t, dir, "entry.txt", bytes.Repeat([]byte("abcdefgh"), 6))
		enc = filepath.Join(dir, "entry.enc")
		iv, err := e.uc.EncryptFile(ctx, src, enc, "journal-42")
		require.NoError(t, err)
		return dir, enc, iv
	}

	sealedChunk := testChunkSize + cryptoDomain.TagSize

	t.Run("Error - tampered byte leaves no output", func(t *testing.T) {
		e := newTestEngine(t)
		dir, enc, iv := newEncrypted(t, e)
		raw, err := os.ReadFile(enc)
		require.NoError(t, err)
		raw[sealedChunk+3] ^= 0x01
		require.NoError(t, os.WriteFile(enc, raw, 0o600))
		dec := filepath.Join(dir, "entry.dec")

		err = e.uc.DecryptFile(ctx, enc, dec, "journal-42", iv)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		assert.NoFileExists(t, dec)
		assertNoTempFiles(t, dir)
	})

	t.Run("Error - truncated at chunk boundary", func(t *testing.T) {
		e := newTestEngine(t)
		dir, enc, iv := newEncrypted(t, e)
		raw, err := os.ReadFile(enc)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(enc, raw[:2*sealedChunk], 0o600))

		err = e.uc.DecryptFile(ctx, enc, filepath.Join(dir, "entry.dec"), "journal-42", iv)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("Error - reordered chunks", func(t *testing.T) {
		e := newTestEngine(t)
		dir, enc, iv := newEncrypted(t, e)
		raw, err := os.ReadFile(enc)
		require.NoError(t, err)
		swapped := append([]byte(nil), raw[sealedChunk:2*sealedChunk]...)
		swapped = append(swapped, raw[:sealedChunk]...)
		swapped = append(swapped, raw[2*sealedChunk:]...)
		require.NoError(t, os.WriteFile(enc, swapped, 0o600))

		err = e.uc.DecryptFile(ctx, enc, filepath.Join(dir, "entry.dec"), "journal-42", iv)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("Error - wrong iv", func(t *testing.T) {
		e := newTestEngine(t)
		dir, enc, _ := newEncrypted(t, e)
		other := base64.StdEncoding.EncodeToString(make([]byte, cryptoDomain.NonceSize))

		err := e.uc.DecryptFile(ctx, enc, filepath.Join(dir, "entry.dec"), "journal-42", other)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)

		err = e.uc.DecryptFile(ctx, enc, filepath.Join(dir, "entry.dec"), "journal-42", "not base64!")
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("Error - failed decrypt keeps existing destination", func(t *testing.T) {
		e := newTestEngine(t)
		dir, enc, _ := newEncrypted(t, e)
		dec := writeTestFile(t, dir, "entry.dec", []byte("previous"))
		other := base64.StdEncoding.EncodeToString(make([]byte, cryptoDomain.NonceSize))

		err := e.uc.DecryptFile(ctx, enc, dec, "journal-42", other)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)

		got, err := os.ReadFile(dec)
		require.NoError(t, err)
		assert.Equal(t, []byte("previous"), got)
	})

	t.Run("Error - missing source", func(t *testing.T) {
		e := newTestEngine(t)
		dir := t.TempDir()

		_, err := e.uc.EncryptFile(ctx, filepath.Join(dir, "absent"), filepath.Join(dir, "out"), "journal-42")
		assert.ErrorIs(t, err, cryptoDomain.ErrFileSystem)
		assert.NoFileExists(t, filepath.Join(dir, "out"))
	})

	t.Run("Error - missing destination directory", func(t *testing.T) {
		e := newTestEngine(t)
		dir := t.TempDir()
		src := writeTestFile(t, dir, "entry.txt", []byte("data"))

		_, err := e.uc.EncryptFile(ctx, src, filepath.Join(dir, "nope", "out"), "journal-42")
		assert.ErrorIs(t, err, cryptoDomain.ErrFileSystem)
	})

	t.Run("Error - missing key for decrypt", func(t *testing.T) {
		e := newTestEngine(t)
		dir, enc, iv := newEncrypted(t, e)

		err := e.uc.DecryptFile(ctx, enc, filepath.Join(dir, "entry.dec"), "journal-43", iv)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyRetrievalFailed)
	})

	t.Run("Error - canceled context", func(t *testing.T) {
		e := newTestEngine(t)
		require.NoError(t, e.keys.GenerateDataKey(ctx, "journal-42"))
		dir := t.TempDir()
		src := writeTestFile(t, dir, "entry.txt", bytes.Repeat([]byte("x"), 10*testChunkSize))
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := e.uc.EncryptFile(canceled, src, filepath.Join(dir, "out"), "journal-42")
		assert.ErrorIs(t, err, context.Canceled)
		assert.NoFileExists(t, filepath.Join(dir, "out"))
		assertNoTempFiles(t, dir)
	})
}

func TestEncryptionUseCase_Password(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - round trip", func(t *testing.T) {
		e := newTestEngine(t)

		pkg, err := e.uc.EncryptWithPassword(ctx, []byte("recovery phrase"), testPassword)
		require.NoError(t, err)
		assert.Len(t, pkg.Salt, cryptoDomain.MinSaltSize)
		assert.Equal(t, testKDF, pkg.KDF)

		plaintext, err := e.uc.DecryptWithPassword(ctx, pkg, testPassword)
		require.NoError(t, err)
		assert.Equal(t, []byte("recovery phrase"), plaintext)
	})

	t.Run("Success - argon2id parameters travel with the package", func(t *testing.T) {
		e := newTestEngine(t)
		e.uc.cfg.KDF = cryptoDomain.KDFParams{
			Algorithm:  cryptoDomain.Argon2id,
			Iterations: cryptoDomain.MinArgon2Time,
			Memory:     cryptoDomain.MinArgon2MemoryKiB,
			Threads:    1,
			KeyLength:  cryptoDomain.KeySize,
		}
		pkg, err := e.uc.EncryptWithPassword(ctx, []byte("entry"), testPassword)
		require.NoError(t, err)

		e.uc.cfg.KDF = testKDF
		plaintext, err := e.uc.DecryptWithPassword(ctx, pkg, testPassword)
		require.NoError(t, err)
		assert.Equal(t, []byte("entry"), plaintext)
	})

	t.Run("Success - fresh salt per package", func(t *testing.T) {
		e := newTestEngine(t)

		a, err := e.uc.EncryptWithPassword(ctx, []byte("x"), testPassword)
		require.NoError(t, err)
		b, err := e.uc.EncryptWithPassword(ctx, []byte("x"), testPassword)
		require.NoError(t, err)
		assert.NotEqual(t, a.Salt, b.Salt)
	})

	t.Run("Error - weak password", func(t *testing.T) {
		e := newTestEngine(t)

		for _, password := range []string{"", "short", "aaaaaaaaaaaaaaaa", "alllowercaseletters"} {
			pkg, err := e.uc.EncryptWithPassword(ctx, []byte("x"), password)
			assert.Nil(t, pkg)
			assert.ErrorIs(t, err, cryptoDomain.ErrPasswordTooWeak, "password %q", password)
		}
	})

	t.Run("Error - weak password never reaches the kdf", func(t *testing.T) {
		e := newTestEngine(t)
		deriver := mocks.NewMockKeyDeriver(t)
		e.uc.deriver = deriver

		pkg, err := e.uc.EncryptWithPassword(ctx, []byte("x"), "password")
		assert.Nil(t, pkg)
		assert.ErrorIs(t, err, cryptoDomain.ErrPasswordTooWeak)
		deriver.AssertNotCalled(t, "DeriveKey", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error - wrong password", func(t *testing.T) {
		e := newTestEngine(t)
		pkg, err := e.uc.EncryptWithPassword(ctx, []byte("x"), testPassword)
		require.NoError(t, err)

		plaintext, err := e.uc.DecryptWithPassword(ctx, pkg, "Quiet-Harbor-Lantern-43")
		assert.Nil(t, plaintext)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("Error - downgraded kdf parameters", func(t *testing.T) {
		e := newTestEngine(t)
		pkg, err := e.uc.EncryptWithPassword(ctx, []byte("x"), testPassword)
		require.NoError(t, err)
		pkg.KDF.Iterations = 1000

		_, err = e.uc.DecryptWithPassword(ctx, pkg, testPassword)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKDFParams)
	})

	t.Run("Error - pbkdf2 iterations above ceiling", func(t *testing.T) {
		e := newTestEngine(t)
		pkg, err := e.uc.EncryptWithPassword(ctx, []byte("x"), testPassword)
		require.NoError(t, err)
		pkg.KDF.Iterations = 4_000_000_000

		start := time.Now()
		plaintext, err := e.uc.DecryptWithPassword(ctx, pkg, testPassword)
		assert.Nil(t, plaintext)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKDFParams)
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("Error - argon2id memory above ceiling", func(t *testing.T) {
		e := newTestEngine(t)
		pkg, err := e.uc.EncryptWithPassword(ctx, []byte("x"), testPassword)
		require.NoError(t, err)
		pkg.KDF = cryptoDomain.KDFParams{
			Algorithm:  cryptoDomain.Argon2id,
			Iterations: 1,
			Memory:     0xFFFFFFFF,
			Threads:    1,
			KeyLength:  cryptoDomain.KeySize,
		}

		plaintext, err := e.uc.DecryptWithPassword(ctx, pkg, testPassword)
		assert.Nil(t, plaintext)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKDFParams)
	})

	t.Run("Error - short salt", func(t *testing.T) {
		e := newTestEngine(t)
		pkg, err := e.uc.EncryptWithPassword(ctx, []byte("x"), testPassword)
		require.NoError(t, err)
		pkg.Salt = pkg.Salt[:8]

		_, err = e.uc.DecryptWithPassword(ctx, pkg, testPassword)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKDFParams)
	})

	t.Run("Error - rate limited attempt with canceled context", func(t *testing.T) {
		e := newTestEngineWithLimiter(t, rate.NewLimiter(rate.Every(time.Hour), 1))
		pkg, err := e.uc.EncryptWithPassword(ctx, []byte("x"), testPassword)
		require.NoError(t, err)

		_, err = e.uc.DecryptWithPassword(ctx, pkg, testPassword)
		require.NoError(t, err)

		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err = e.uc.DecryptWithPassword(canceled, pkg, testPassword)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})
}

func TestEncryptionUseCase_ExportImport(t *testing.T) {
	ctx := context.Background()

	export := func(t *testing.T, e *testEngine) (*cryptoDomain.EncryptedData, *cryptoDomain.ExportPackage) {
		t.Helper()
		encrypted, err := e.uc.EncryptData(ctx, []byte("Dear diary"), "journal-42")
		require.NoError(t, err)
		pkg, err := e.uc.ExportEncryptedData(ctx, encrypted, "journal-42", testPassword)
		require.NoError(t, err)
		return encrypted, pkg
	}

	t.Run("Success - move to another device", func(t *testing.T) {
		source := newTestEngine(t)
		encrypted, pkg := export(t, source)
		assert.Equal(t, "journal-42", pkg.KeyIdentifier)
		assert.Equal(t, cryptoDomain.ExportPackageVersion, pkg.Version)

		raw, err := cryptoDomain.MarshalExportPackage(pkg)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "Dear diary")
		decoded, err := cryptoDomain.UnmarshalExportPackage(raw)
		require.NoError(t, err)

		target := newTestEngine(t)
		payload, keyID, err := target.uc.ImportEncryptedData(ctx, decoded, testPassword)
		require.NoError(t, err)
		assert.Equal(t, "journal-42", keyID)
		assert.Equal(t, encrypted.Ciphertext, payload.Ciphertext)

		plaintext, err := target.uc.DecryptData(ctx, payload, keyID)
		require.NoError(t, err)
		assert.Equal(t, []byte("Dear diary"), plaintext)

		sourceKey, err := source.keys.GetDataKey(ctx, "journal-42")
		require.NoError(t, err)
		targetKey, err := target.keys.GetDataKey(ctx, "journal-42")
		require.NoError(t, err)
		assert.Equal(t, sourceKey.Key, targetKey.Key)
	})

	t.Run("Success - imported key is stamped with the install time", func(t *testing.T) {
		exportedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		installedAt := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

		source := newTestEngine(t)
		source.uc.now = func() time.Time { return exportedAt }
		_, pkg := export(t, source)
		assert.Equal(t, exportedAt, pkg.CreatedAt)

		target := newTestEngine(t)
		target.uc.now = func() time.Time { return installedAt }
		_, _, err := target.uc.ImportEncryptedData(ctx, pkg, testPassword)
		require.NoError(t, err)

		key, err := target.store.Get(ctx, "journal-42")
		require.NoError(t, err)
		assert.Equal(t, installedAt, key.CreatedAt)
	})

	t.Run("Success - importing twice is idempotent", func(t *testing.T) {
		source := newTestEngine(t)
		_, pkg := export(t, source)

		_, _, err := source.uc.ImportEncryptedData(ctx, pkg, testPassword)
		require.NoError(t, err)
		_, _, err = source.uc.ImportEncryptedData(ctx, pkg, testPassword)
		require.NoError(t, err)
	})

	t.Run("Error - wrong password installs nothing", func(t *testing.T) {
		_, pkg := export(t, newTestEngine(t))
		target := newTestEngine(t)

		_, _, err := target.uc.ImportEncryptedData(ctx, pkg, "Quiet-Harbor-Lantern-43")
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)

		exists, err := target.keys.KeyExists(ctx, "journal-42")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Error - swapped identifier", func(t *testing.T) {
		_, pkg := export(t, newTestEngine(t))
		pkg.KeyIdentifier = "journal-99"
		target := newTestEngine(t)

		_, _, err := target.uc.ImportEncryptedData(ctx, pkg, testPassword)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)

		exists, err := target.keys.KeyExists(ctx, "journal-99")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Error - swapped algorithm", func(t *testing.T) {
		_, pkg := export(t, newTestEngine(t))
		pkg.Algorithm = cryptoDomain.ChaCha20

		_, _, err := newTestEngine(t).uc.ImportEncryptedData(ctx, pkg, testPassword)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("Error - conflicting key on target", func(t *testing.T) {
		_, pkg := export(t, newTestEngine(t))
		target := newTestEngine(t)
		require.NoError(t, target.keys.GenerateDataKey(ctx, "journal-42"))

		_, _, err := target.uc.ImportEncryptedData(ctx, pkg, testPassword)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyConflict)
	})

	t.Run("Error - data not encrypted under the key", func(t *testing.T) {
		e := newTestEngine(t)
		encrypted, err := e.uc.EncryptData(ctx, []byte("Dear diary"), "journal-42")
		require.NoError(t, err)
		require.NoError(t, e.keys.GenerateDataKey(ctx, "journal-44"))

		pkg, err := e.uc.ExportEncryptedData(ctx, encrypted, "journal-44", testPassword)
		assert.Nil(t, pkg)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("Error - missing key", func(t *testing.T) {
		e := newTestEngine(t)
		encrypted, err := e.uc.EncryptData(ctx, []byte("Dear diary"), "journal-42")
		require.NoError(t, err)

		_, err = e.uc.ExportEncryptedData(ctx, encrypted, "journal-43", testPassword)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyRetrievalFailed)
	})

	t.Run("Error - weak export password", func(t *testing.T) {
		e := newTestEngine(t)
		encrypted, err := e.uc.EncryptData(ctx, []byte("Dear diary"), "journal-42")
		require.NoError(t, err)

		_, err = e.uc.ExportEncryptedData(ctx, encrypted, "journal-42", "password")
		assert.ErrorIs(t, err, cryptoDomain.ErrPasswordTooWeak)
	})

	t.Run("Error - invalid package", func(t *testing.T) {
		e := newTestEngine(t)

		_, _, err := e.uc.ImportEncryptedData(ctx, nil, testPassword)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidPackage)
	})
}

func TestEncryptionUseCase_GenerateEncryptionKey(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	require.NoError(t, e.uc.GenerateEncryptionKey(ctx, "journal-42"))
	assert.ErrorIs(t, e.uc.GenerateEncryptionKey(ctx, "journal-42"), cryptoDomain.ErrKeyAlreadyExists)
}

func TestEncryptionUseCase_VerifyFileIntegrity(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	data := []byte("the quick brown fox")
	path := writeTestFile(t, dir, "entry.txt", data)
	sum := sha256.Sum256(data)
	expected := hex.EncodeToString(sum[:])

	e := newTestEngine(t)

	t.Run("Success - match", func(t *testing.T) {
		ok, err := e.uc.VerifyFileIntegrity(ctx, path, expected)
		require.NoError(t, err)
		assert.True(t, ok)

		computed, err := e.uc.ComputeFileChecksum(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, expected, computed)
	})

	t.Run("Success - uppercase checksum", func(t *testing.T) {
		ok, err := e.uc.VerifyFileIntegrity(ctx, path, strings.ToUpper(expected))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Success - mismatch is not an error", func(t *testing.T) {
		other := sha256.Sum256([]byte("something else"))

		ok, err := e.uc.VerifyFileIntegrity(ctx, path, hex.EncodeToString(other[:]))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Error - malformed checksum", func(t *testing.T) {
		for _, checksum := range []string{"", "abc", strings.Repeat("z", 64), expected + "00"} {
			ok, err := e.uc.VerifyFileIntegrity(ctx, path, checksum)
			assert.False(t, ok)
			assert.ErrorIs(t, err, cryptoDomain.ErrInvalidChecksum, "checksum %q", checksum)
		}
	})

	t.Run("Error - missing file", func(t *testing.T) {
		ok, err := e.uc.VerifyFileIntegrity(ctx, filepath.Join(dir, "absent"), expected)
		assert.False(t, ok)
		assert.ErrorIs(t, err, cryptoDomain.ErrFileSystem)
	})
}
