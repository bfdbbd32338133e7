package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vocali/vocali-backend/app/entity"
	"github.com/vocali/vocali-backend/app/repository"
	"github.com/vocali/vocali-backend/config"
)

var (
	ErrDuplicateEmail            = errors.New("email already registered")
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrEmailNotVerified          = errors.New("email not verified")
	ErrInvalidOrExpiredCode      = errors.New("invalid or expired code")
	ErrNotFoundOrAlreadyVerified = errors.New("user not found or already verified")
	ErrUserNotFound              = errors.New("user not found")
)

// TokenPair is the result of a successful authentication.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
}

// AuthService drives the signup, confirmation, signin and password-reset
// flows. All expiry comparisons use the injected clock (UTC).
type AuthService struct {
	users  repository.UserStore
	tokens *TokenService
	sender Sender
	cfg    *config.Config
	now    func() time.Time
}

type AuthServiceOption func(*AuthService)

func WithAuthClock(now func() time.Time) AuthServiceOption {
	return func(s *AuthService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewAuthService(users repository.UserStore, tokens *TokenService, sender Sender, cfg *config.Config, opts ...AuthServiceOption) *AuthService {
	svc := &AuthService{
		users:  users,
		tokens: tokens,
		sender: sender,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Signup creates an unverified user with a fresh confirmation code and
// delivers the code out-of-band. It returns no tokens.
func (s *AuthService) Signup(ctx context.Context, email, password, firstName, lastName string) error {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicateEmail
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}

	code, err := GenerateCode()
	if err != nil {
		return err
	}
	expires := s.now().Add(s.cfg.CodeTTL)

	user := &entity.User{
		Email:                   email,
		FirstName:               firstName,
		LastName:                lastName,
		HashedPassword:          hashed,
		IsActive:                true,
		IsVerified:              false,
		ConfirmationCode:        &code,
		ConfirmationCodeExpires: &expires,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	s.deliver(ctx, email, code)
	return nil
}

// ConfirmSignup consumes the confirmation code and marks the user verified.
// The check runs against a row-locked read so that of two concurrent
// attempts with the same code only one can succeed.
func (s *AuthService) ConfirmSignup(ctx context.Context, email, code string) (*TokenPair, error) {
	var user *entity.User
	err := s.users.Transaction(ctx, func(tx repository.UserStore) error {
		u, err := tx.FindByEmailForUpdate(ctx, email)
		if err != nil {
			return err
		}
		if u == nil || u.ConfirmationCode == nil || u.ConfirmationCodeExpires == nil ||
			*u.ConfirmationCode != code || s.now().After(*u.ConfirmationCodeExpires) {
			return ErrInvalidOrExpiredCode
		}

		u.IsVerified = true
		u.ConfirmationCode = nil
		u.ConfirmationCodeExpires = nil
		if err := tx.Update(ctx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.issuePair(user.Email)
}

// ResendConfirmation overwrites the confirmation code for a still-unverified
// user and delivers the new one. The read and write happen under one row
// lock so a concurrently committed confirmation is never overwritten with a
// stale unverified snapshot.
func (s *AuthService) ResendConfirmation(ctx context.Context, email string) error {
	code, err := GenerateCode()
	if err != nil {
		return err
	}
	expires := s.now().Add(s.cfg.CodeTTL)

	err = s.users.Transaction(ctx, func(tx repository.UserStore) error {
		user, err := tx.FindByEmailForUpdate(ctx, email)
		if err != nil {
			return err
		}
		if user == nil || user.IsVerified {
			return ErrNotFoundOrAlreadyVerified
		}

		user.ConfirmationCode = &code
		user.ConfirmationCodeExpires = &expires
		return tx.Update(ctx, user)
	})
	if err != nil {
		return err
	}

	s.deliver(ctx, email, code)
	return nil
}

// Signin verifies the credentials and issues a token pair. An absent user
// and a wrong password are indistinguishable to the caller.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !VerifyPassword(password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, ErrEmailNotVerified
	}

	return s.issuePair(user.Email)
}

// ForgotPassword sets a reset code on the account and delivers it. Like
// ResendConfirmation, the code is written under a row lock so the record the
// save is based on cannot go stale between read and write.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	code, err := GenerateCode()
	if err != nil {
		return err
	}
	expires := s.now().Add(s.cfg.CodeTTL)

	err = s.users.Transaction(ctx, func(tx repository.UserStore) error {
		user, err := tx.FindByEmailForUpdate(ctx, email)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		user.ResetCode = &code
		user.ResetCodeExpires = &expires
		return tx.Update(ctx, user)
	})
	if err != nil {
		return err
	}

	s.deliver(ctx, email, code)
	return nil
}

// ConfirmForgotPassword consumes the reset code and replaces the password.
func (s *AuthService) ConfirmForgotPassword(ctx context.Context, email, code, newPassword string) error {
	return s.users.Transaction(ctx, func(tx repository.UserStore) error {
		user, err := tx.FindByEmailForUpdate(ctx, email)
		if err != nil {
			return err
		}
		if user == nil || user.ResetCode == nil || user.ResetCodeExpires == nil ||
			*user.ResetCode != code || s.now().After(*user.ResetCodeExpires) {
			return ErrInvalidOrExpiredCode
		}

		hashed, err := HashPassword(newPassword)
		if err != nil {
			return err
		}

		user.HashedPassword = hashed
		user.ResetCode = nil
		user.ResetCodeExpires = nil
		return tx.Update(ctx, user)
	})
}

// Refresh exchanges a valid refresh token for a fresh pair. When
// RefreshChecksAccount is set, the subject must still resolve to an active,
// verified user; otherwise the token alone is enough.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ParseClaims(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	if s.cfg.RefreshChecksAccount {
		user, err := s.users.FindByEmail(ctx, claims.Subject)
		if err != nil {
			return nil, err
		}
		if user == nil || !user.IsActive || !user.IsVerified {
			return nil, ErrInvalidToken
		}
	}

	return s.issuePair(claims.Subject)
}

// Logout acknowledges a client-side token discard. Tokens are stateless, so
// a still-valid token cannot be invalidated server side.
func (s *AuthService) Logout(context.Context) error {
	return nil
}

// CurrentUser resolves an access token to its account.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*entity.User, error) {
	return s.tokens.ResolveUser(ctx, token, s.users.FindByEmail)
}

func (s *AuthService) issuePair(email string) (*TokenPair, error) {
	access, expiresAt, err := s.tokens.IssueAccessToken(email, 0)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(email)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

// Delivery runs after the state change committed; a failure is logged and
// the user retries via the resend flow.
func (s *AuthService) deliver(ctx context.Context, email, code string) {
	if err := s.sender.Send(ctx, email, code); err != nil {
		logrus.WithError(err).WithField("email", email).Error("Failed to deliver code")
	}
}
