package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/refverify/engine/internal/config"
	"github.com/refverify/engine/internal/domain"
)

var (
	ErrInvalidToken  = errors.New("invalid or expired service token")
	ErrKeyNotFound   = errors.New("api key not found")
	ErrKeyRevoked    = errors.New("api key has been revoked")
	ErrInvalidAPIKey = errors.New("invalid api key")
)

// ServiceClaims identifies the calling system a service token was issued
// to, rather than a human user session.
type ServiceClaims struct {
	Label string `json:"label"`
	jwt.RegisteredClaims
}

// AuthUsecase issues and validates the bearer credentials that gate the
// verification HTTP API: long-lived JWT service tokens, or bcrypt-hashed
// API keys backed by an optional Postgres store.
type AuthUsecase struct {
	keyRepo domain.APIKeyRepository
	cfg     *config.AuthConfig
}

// NewAuthUsecase builds an AuthUsecase. keyRepo is nil when DB.URL is
// unset — in that mode only IssueServiceToken/ValidateServiceToken and
// the static bootstrap token are available.
func NewAuthUsecase(keyRepo domain.APIKeyRepository, cfg *config.AuthConfig) *AuthUsecase {
	return &AuthUsecase{keyRepo: keyRepo, cfg: cfg}
}

// IssueServiceToken mints a JWT for a calling system, valid for
// cfg.TokenExpiry.
func (u *AuthUsecase) IssueServiceToken(label string) (string, error) {
	expiresAt := time.Now().Add(u.cfg.TokenExpiry)
	claims := &ServiceClaims{
		Label: label,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   label,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.cfg.JWTSecret))
}

// ValidateServiceToken verifies signature and expiry and returns the
// embedded claims.
func (u *AuthUsecase) ValidateServiceToken(tokenString string) (*ServiceClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ServiceClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*ServiceClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CreateAPIKey generates a random key, stores its bcrypt hash, and
// returns the plaintext key exactly once — it is never recoverable
// afterward.
func (u *AuthUsecase) CreateAPIKey(ctx context.Context, label string) (plaintext string, record *domain.APIKey, err error) {
	if u.keyRepo == nil {
		return "", nil, errors.New("api key store is not configured (no DB.URL)")
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", nil, err
	}
	plaintext = base64.RawURLEncoding.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	record = &domain.APIKey{
		ID:        uuid.New(),
		Label:     label,
		KeyHash:   string(hash),
		CreatedAt: time.Now(),
	}
	if err := u.keyRepo.Create(ctx, record); err != nil {
		return "", nil, err
	}
	return plaintext, record, nil
}

// RevokeAPIKey marks a key unusable without deleting its audit record.
func (u *AuthUsecase) RevokeAPIKey(ctx context.Context, id uuid.UUID) error {
	if u.keyRepo == nil {
		return errors.New("api key store is not configured (no DB.URL)")
	}
	return u.keyRepo.Revoke(ctx, id)
}

// AuthenticateAPIKey checks a presented plaintext key against every
// stored hash, since bcrypt hashes can't be looked up by value. A
// matched but revoked key is rejected with ErrKeyRevoked.
func (u *AuthUsecase) AuthenticateAPIKey(ctx context.Context, plaintext string) (*domain.APIKey, error) {
	if u.keyRepo == nil {
		return nil, errors.New("api key store is not configured (no DB.URL)")
	}
	keys, err := u.keyRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		if bcrypt.CompareHashAndPassword([]byte(k.KeyHash), []byte(plaintext)) == nil {
			if k.Revoked {
				return nil, ErrKeyRevoked
			}
			_ = u.keyRepo.TouchLastUsed(ctx, k.ID)
			return k, nil
		}
	}
	return nil, ErrInvalidAPIKey
}
