package services

import (
	"errors"
	"fmt"

	"moodjournal/internal/crypto"
	"moodjournal/internal/models"
)

var ErrEncryptionDisabled = errors.New("server encryption key is not configured")

// EncryptionService wraps the crypto package with domain-specific methods.
// A nil key leaves secret sealing disabled; entry validation still works.
type EncryptionService struct {
	cipher *crypto.Cipher
}

func NewEncryptionService(key []byte) (*EncryptionService, error) {
	if len(key) == 0 {
		return &EncryptionService{}, nil
	}
	c, err := crypto.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &EncryptionService{cipher: c}, nil
}

func (s *EncryptionService) Enabled() bool {
	return s != nil && s.cipher != nil
}

// SealSecret encrypts a TOTP seed before storing it on the user row.
func (s *EncryptionService) SealSecret(secret string) (string, error) {
	if !s.Enabled() {
		return "", ErrEncryptionDisabled
	}
	return s.cipher.Encrypt(secret)
}

// TwoFactorSecret decrypts the stored TOTP seed of a user.
func (s *EncryptionService) TwoFactorSecret(u *models.User) (string, error) {
	if !s.Enabled() {
		return "", ErrEncryptionDisabled
	}
	if u.TwoFactorSecret == nil {
		return "", errors.New("no two-factor secret stored")
	}
	secret, err := s.cipher.Decrypt(*u.TwoFactorSecret)
	if err != nil {
		return "", fmt.Errorf("decrypt two-factor secret: %w", err)
	}
	return secret, nil
}

// ValidateEntry checks the shape of client-encrypted content. Plaintext
// entries always pass.
func (s *EncryptionService) ValidateEntry(e *models.Entry) error {
	if !e.IsEncrypted {
		return nil
	}
	if err := crypto.ValidateCiphertext(e.Content); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	return nil
}
