package database

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

var (
	errCursorFormat = errors.New("invalid cursor format")
	errCursorSize   = errors.New("invalid cursor size")
	errCursorOpen   = errors.New("cursor decryption failed")
)

// cursorCrypto seals pagination cursors so clients cannot forge offsets.
type cursorCrypto struct {
	aead cipher.AEAD
}

func newCursorCrypto(secretKey []byte) (*cursorCrypto, error) {
	block, err := aes.NewCipher(secretKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &cursorCrypto{aead: gcm}, nil
}

func (cc *cursorCrypto) encrypt(value string) (string, error) {
	nonce := make([]byte, cc.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := cc.aead.Seal(nonce, nonce, []byte(value), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (cc *cursorCrypto) decrypt(cursor string) (string, error) {
	if cursor == "" {
		return "", nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return "", errCursorFormat
	}

	nonceSize := cc.aead.NonceSize()
	if len(decoded) < nonceSize {
		return "", errCursorSize
	}

	plaintext, err := cc.aead.Open(nil, decoded[:nonceSize], decoded[nonceSize:], nil)
	if err != nil {
		return "", errCursorOpen
	}

	return string(plaintext), nil
}
