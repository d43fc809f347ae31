package usecase

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/journalcrypt/internal/crypto/service"
	"github.com/allisson/journalcrypt/internal/errors"
)

// Chunked file format v1
//
// The plaintext is split into chunks of chunkSize bytes (the last one may be
// shorter, and an empty file yields one empty chunk). Chunk i is sealed with:
//
//	nonce = IV with its last 8 bytes XORed with big-endian i
//	aad   = version || big-endian i || final flag
//
// and the sealed chunks are concatenated. The final flag detects truncation
// at a chunk boundary, the index detects reordering. The IV is not embedded.

// chunkNonce derives the nonce of chunk i from the file IV.
func chunkNonce(iv []byte, i uint64) []byte {
	nonce := make([]byte, len(iv))
	copy(nonce, iv)
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], i)
	off := len(nonce) - len(ctr)
	for j := range ctr {
		nonce[off+j] ^= ctr[j]
	}
	return nonce
}

// chunkAAD binds a chunk to its position and to whether it is the last one.
func chunkAAD(i uint64, final bool) []byte {
	aad := make([]byte, 10)
	aad[0] = cryptoDomain.FileFormatVersion
	binary.BigEndian.PutUint64(aad[1:9], i)
	if final {
		aad[9] = 1
	}
	return aad
}

// readChunk fills buf as far as the reader allows. A short or empty read at
// the end of the stream is not an error.
func readChunk(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return n, nil
	}
	return n, err
}

// ioError marks a read or write failure as a file system error.
type ioError struct{ err error }

func (e ioError) Error() string { return e.err.Error() }
func (e ioError) Unwrap() error { return e.err }

// sealStream encrypts r into w chunk by chunk. It reads one chunk ahead to
// know which chunk is final.
func sealStream(
	ctx context.Context,
	r io.Reader,
	w io.Writer,
	aead cryptoService.AEAD,
	iv []byte,
	chunkSize int,
) error {
	cur := make([]byte, chunkSize)
	next := make([]byte, chunkSize)
	defer cryptoDomain.Zero(cur, next)

	n, err := readChunk(r, cur)
	if err != nil {
		return ioError{err}
	}

	for i := uint64(0); ; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		m, err := readChunk(r, next)
		if err != nil {
			return ioError{err}
		}
		final := m == 0

		sealed, err := aead.SealWithNonce(chunkNonce(iv, i), cur[:n], chunkAAD(i, final))
		if err != nil {
			return errors.Wrap(cryptoDomain.ErrEncryptionFailed, err.Error())
		}
		if _, err := w.Write(sealed); err != nil {
			return ioError{err}
		}
		if final {
			return nil
		}
		cur, next, n = next, cur, m
	}
}

// openStream decrypts r into w. Any chunk failing authentication aborts with
// ErrDecryptionFailed; the caller discards whatever was written.
func openStream(
	ctx context.Context,
	r io.Reader,
	w io.Writer,
	aead cryptoService.AEAD,
	iv []byte,
	chunkSize int,
) error {
	sealedSize := chunkSize + aead.Overhead()
	cur := make([]byte, sealedSize)
	next := make([]byte, sealedSize)

	n, err := readChunk(r, cur)
	if err != nil {
		return ioError{err}
	}

	for i := uint64(0); ; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		m, err := readChunk(r, next)
		if err != nil {
			return ioError{err}
		}
		final := m == 0

		plaintext, err := aead.Decrypt(cur[:n], chunkNonce(iv, i), chunkAAD(i, final))
		if err != nil {
			return cryptoDomain.ErrDecryptionFailed
		}
		_, err = w.Write(plaintext)
		cryptoDomain.Zero(plaintext)
		if err != nil {
			return ioError{err}
		}
		if final {
			return nil
		}
		cur, next, n = next, cur, m
	}
}

// transformFile runs fn from src into a temp file next to dst and renames it
// into place only when fn succeeds. On any failure the temp file is removed
// and dst is left untouched.
func transformFile(src, dst string, fn func(r io.Reader, w io.Writer) error) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(cryptoDomain.ErrFileSystem, err.Error())
	}
	defer func() { _ = in.Close() }()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return errors.Wrap(cryptoDomain.ErrFileSystem, err.Error())
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o600); err != nil {
		return errors.Wrap(cryptoDomain.ErrFileSystem, err.Error())
	}

	bw := bufio.NewWriter(tmp)
	if err = fn(bufio.NewReader(in), bw); err != nil {
		var ioErr ioError
		if errors.As(err, &ioErr) {
			return errors.Wrap(cryptoDomain.ErrFileSystem, ioErr.Error())
		}
		return err
	}
	if err = bw.Flush(); err != nil {
		return errors.Wrap(cryptoDomain.ErrFileSystem, err.Error())
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(cryptoDomain.ErrFileSystem, err.Error())
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(cryptoDomain.ErrFileSystem, err.Error())
	}
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return errors.Wrap(cryptoDomain.ErrFileSystem, err.Error())
	}
	return nil
}

// contextReader stops reading once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
