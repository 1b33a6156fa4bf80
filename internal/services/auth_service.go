package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	"moodjournal/internal/models"
	"moodjournal/internal/repository"
)

const totpIssuer = "MoodJournal"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrWrongPassword       = errors.New("current password is incorrect")
	ErrTwoFactorRequired   = errors.New("two-factor code required")
	ErrInvalidTwoFactor    = errors.New("invalid two-factor code")
	ErrTwoFactorNotStarted = errors.New("two-factor setup has not been started")
	ErrTwoFactorDisabled   = errors.New("two-factor authentication is not enabled")
)

// AuthService owns password hashing, token issuance and TOTP verification.
type AuthService struct {
	users     repository.UserRepository
	secrets   *EncryptionService
	jwtSecret []byte
	expiry    time.Duration
	now       func() time.Time
}

func NewAuthService(users repository.UserRepository, secrets *EncryptionService, jwtSecret []byte, expiry time.Duration) *AuthService {
	return &AuthService{users: users, secrets: secrets, jwtSecret: jwtSecret, expiry: expiry, now: time.Now}
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, *models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.users.Create(ctx, strings.TrimSpace(name), normaliseEmail(email), string(hashed))
	if err != nil {
		return "", nil, err
	}
	token, err := s.IssueToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login checks credentials and, for accounts with 2FA on, the TOTP code.
func (s *AuthService) Login(ctx context.Context, email, password, code string) (string, *models.User, error) {
	user, err := s.users.ByEmail(ctx, normaliseEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	if user.TwoFactorEnabled {
		if code == "" {
			return "", nil, ErrTwoFactorRequired
		}
		if err := s.verifyCode(user, code); err != nil {
			return "", nil, err
		}
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) IssueToken(userID int) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": now.Add(s.expiry).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int, current, next string) error {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrWrongPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, userID, string(hashed))
}

// SetupTwoFactor generates a fresh TOTP seed and stores it sealed but not
// yet enabled. The caller shows the secret and otpauth URL to the user once.
func (s *AuthService) SetupTwoFactor(ctx context.Context, userID int) (secret, otpauthURL string, err error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return "", "", err
	}
	key, err := totp.Generate(totp.GenerateOpts{Issuer: totpIssuer, AccountName: user.Email})
	if err != nil {
		return "", "", fmt.Errorf("generate totp key: %w", err)
	}
	sealed, err := s.secrets.SealSecret(key.Secret())
	if err != nil {
		return "", "", err
	}
	if err := s.users.SetTwoFactor(ctx, userID, &sealed, false); err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

func (s *AuthService) EnableTwoFactor(ctx context.Context, userID int, code string) error {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.TwoFactorSecret == nil {
		return ErrTwoFactorNotStarted
	}
	if err := s.verifyCode(user, code); err != nil {
		return err
	}
	return s.users.SetTwoFactor(ctx, userID, user.TwoFactorSecret, true)
}

func (s *AuthService) DisableTwoFactor(ctx context.Context, userID int, code string) error {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.TwoFactorEnabled {
		return ErrTwoFactorDisabled
	}
	if err := s.verifyCode(user, code); err != nil {
		return err
	}
	return s.users.SetTwoFactor(ctx, userID, nil, false)
}

func (s *AuthService) verifyCode(user *models.User, code string) error {
	secret, err := s.secrets.TwoFactorSecret(user)
	if err != nil {
		return err
	}
	if !totp.Validate(strings.TrimSpace(code), secret) {
		return ErrInvalidTwoFactor
	}
	return nil
}
