package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vocali/vocali-backend/app/entity"
	"github.com/vocali/vocali-backend/config"
)

// ErrInvalidToken covers every token failure mode: bad signature, expiry,
// malformed payload and account-status gating. Callers must not be able to
// tell them apart.
var ErrInvalidToken = errors.New("invalid or expired token")

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type TokenClaims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// UserLookup resolves a token subject to a user record.
type UserLookup func(ctx context.Context, email string) (*entity.User, error)

// TokenService issues and validates stateless HS256 tokens. Validity is
// determined solely by signature and expiry, never by server-side lookup.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type TokenServiceOption func(*TokenService)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) TokenServiceOption {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewTokenService(cfg *config.Config, opts ...TokenServiceOption) *TokenService {
	svc := &TokenService{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// IssueAccessToken signs a short-lived access token for the subject email.
// A non-positive ttl falls back to the configured default. The second return
// value is the expiry as epoch seconds.
func (s *TokenService) IssueAccessToken(email string, ttl time.Duration) (string, int64, error) {
	if ttl <= 0 {
		ttl = s.accessTTL
	}
	token, expiresAt, err := s.issue(email, TokenTypeAccess, ttl)
	if err != nil {
		return "", 0, err
	}
	return token, expiresAt.Unix(), nil
}

// IssueRefreshToken signs a long-lived refresh token for the subject email.
func (s *TokenService) IssueRefreshToken(email string) (string, error) {
	token, _, err := s.issue(email, TokenTypeRefresh, s.refreshTTL)
	return token, err
}

func (s *TokenService) issue(email, tokenType string, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(ttl)

	claims := &TokenClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseClaims verifies signature and expiry. Any failure comes back as
// ErrInvalidToken.
func (s *TokenService) ParseClaims(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ResolveUser maps an access token to its user. It fails closed: expired or
// forged tokens, refresh tokens, unknown subjects and inactive or unverified
// accounts are all ErrInvalidToken. Store errors propagate untranslated.
func (s *TokenService) ResolveUser(ctx context.Context, tokenString string, lookup UserLookup) (*entity.User, error) {
	claims, err := s.ParseClaims(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, ErrInvalidToken
	}

	user, err := lookup(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive || !user.IsVerified {
		return nil, ErrInvalidToken
	}
	return user, nil
}
