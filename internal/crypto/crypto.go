package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

var (
	ErrInvalidKey         = errors.New("encryption key must be 32 bytes")
	ErrMalformedCipher    = errors.New("ciphertext is not valid base64")
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

// minCiphertextLen is one AES block; anything shorter cannot be client output.
const minCiphertextLen = aes.BlockSize

// Cipher seals small server-side secrets such as TOTP seeds with AES-256-GCM.
type Cipher struct {
	key []byte
}

func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKey
	}
	return &Cipher{key: key}, nil
}

// Encrypt returns base64 ciphertext with the nonce prepended.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	gcm, err := c.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrMalformedCipher
	}

	gcm, err := c.gcm()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", ErrCiphertextTooShort
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func (c *Cipher) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// ValidateCiphertext checks that client-encrypted entry content is base64
// and at least one cipher block long. The server never holds the key.
func ValidateCiphertext(s string) error {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return ErrMalformedCipher
	}
	if len(data) < minCiphertextLen {
		return ErrCiphertextTooShort
	}
	return nil
}
