package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"hdxsfx/pkg/spec"

	"golang.org/x/crypto/pbkdf2"
)

// ErrBadSeal is returned when sealed data lacks the HDX seal magic.
var ErrBadSeal = errors.New("security: not a sealed HDX payload")

// DeriveKey produces a 32-byte key from password and salt.
func DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, spec.KDFIterations, spec.KeySize, sha256.New)
}

// NewSalt returns n random bytes.
func NewSalt(n int) ([]byte, error) {
	salt := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// Encrypt seals data with AES-GCM under a random nonce prepended to the output.
func Encrypt(data []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, data, nil), nil
}

// Decrypt opens data produced by Encrypt.
func Decrypt(data []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, io.ErrUnexpectedEOF
	}
	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

// Seal wraps a standalone sound file: seal magic, then Encrypt output.
func Seal(data []byte, key []byte) ([]byte, error) {
	enc, err := Encrypt(data, key)
	if err != nil {
		return nil, err
	}
	return append([]byte(spec.SealMagic), enc...), nil
}

// Unseal reverses Seal.
func Unseal(data []byte, key []byte) ([]byte, error) {
	if !IsSealed(data) {
		return nil, ErrBadSeal
	}
	return Decrypt(data[len(spec.SealMagic):], key)
}

// IsSealed reports whether data starts with the seal magic.
func IsSealed(data []byte) bool {
	return len(data) >= len(spec.SealMagic) && string(data[:len(spec.SealMagic)]) == spec.SealMagic
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
