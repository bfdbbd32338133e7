package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	httpdto "github.com/vocali/vocali-backend/app/dto/http"
	"github.com/vocali/vocali-backend/app/entity"
	"github.com/vocali/vocali-backend/app/service"
	"github.com/vocali/vocali-backend/config"
)

type authService interface {
	Signup(ctx context.Context, email, password, firstName, lastName string) error
	ConfirmSignup(ctx context.Context, email, code string) (*service.TokenPair, error)
	ResendConfirmation(ctx context.Context, email string) error
	Signin(ctx context.Context, email, password string) (*service.TokenPair, error)
	ForgotPassword(ctx context.Context, email string) error
	ConfirmForgotPassword(ctx context.Context, email, code, newPassword string) error
	Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error)
	Logout(ctx context.Context) error
}

type AuthController struct {
	authService authService
	cfg         *config.Config
	now         func() time.Time
}

type AuthControllerOption func(*AuthController)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) AuthControllerOption {
	return func(c *AuthController) {
		if now != nil {
			c.now = now
		}
	}
}

func NewAuthController(authService authService, cfg *config.Config, opts ...AuthControllerOption) *AuthController {
	ctrl := &AuthController{
		authService: authService,
		cfg:         cfg,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(ctrl)
	}
	return ctrl
}

func (c *AuthController) Signup(ctx echo.Context) error {
	var req httpdto.SignupRequest
	if err := ctx.Bind(&req); err != nil {
		logrus.WithError(err).Debug("Failed to bind signup request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		logrus.WithField("email", req.Email).Debug("Signup validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	logrus.WithField("email", req.Email).Info("Signup request received")
	err := c.authService.Signup(ctx.Request().Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateEmail) {
			logrus.WithField("email", req.Email).Warn("Signup failed: email already registered")
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "Email already registered"})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Signup failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithField("email", req.Email).Info("User created")
	return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "User created, check email for confirmation code"})
}

func (c *AuthController) ConfirmSignup(ctx echo.Context) error {
	var req httpdto.ConfirmSignupRequest
	if err := ctx.Bind(&req); err != nil {
		logrus.WithError(err).Debug("Failed to bind confirm signup request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		logrus.Debug("Confirm signup validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	pair, err := c.authService.ConfirmSignup(ctx.Request().Context(), req.Email, req.ConfirmationCode)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrExpiredCode) {
			logrus.WithField("email", req.Email).Warn("Confirm signup failed: invalid or expired code")
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "Invalid or expired code"})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Confirm signup failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithField("email", req.Email).Info("Account confirmed")
	return ctx.JSON(http.StatusOK, httpdto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (c *AuthController) ResendConfirmation(ctx echo.Context) error {
	var req httpdto.ResendConfirmationRequest
	if err := ctx.Bind(&req); err != nil {
		logrus.WithError(err).Debug("Failed to bind resend confirmation request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		logrus.Debug("Resend confirmation validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	err := c.authService.ResendConfirmation(ctx.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrNotFoundOrAlreadyVerified) {
			logrus.WithField("email", req.Email).Warn("Resend confirmation failed: not found or already verified")
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "User not found or already verified"})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Resend confirmation failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithField("email", req.Email).Info("Confirmation code resent")
	return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "Code resent"})
}

func (c *AuthController) Signin(ctx echo.Context) error {
	var req httpdto.SigninRequest
	if err := ctx.Bind(&req); err != nil {
		logrus.WithError(err).Debug("Failed to bind signin request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		logrus.WithField("email", req.Email).Debug("Signin validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	logrus.WithField("email", req.Email).Info("Signin request received")
	pair, err := c.authService.Signin(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			logrus.WithField("email", req.Email).Warn("Signin failed: invalid credentials")
			return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "Invalid credentials"})
		}
		if errors.Is(err, service.ErrEmailNotVerified) {
			logrus.WithField("email", req.Email).Warn("Signin failed: email not verified")
			return ctx.JSON(http.StatusForbidden, httpdto.ErrorResponse{Error: "Email not verified"})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Signin failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithField("email", req.Email).Info("Signin successful")
	return ctx.JSON(http.StatusOK, httpdto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (c *AuthController) ForgotPassword(ctx echo.Context) error {
	var req httpdto.ForgotPasswordRequest
	if err := ctx.Bind(&req); err != nil {
		logrus.WithError(err).Debug("Failed to bind forgot password request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		logrus.Debug("Forgot password validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	logrus.WithField("email", req.Email).Info("Password reset requested")
	err := c.authService.ForgotPassword(ctx.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			logrus.WithField("email", req.Email).Warn("Forgot password failed: user not found")
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "User not found"})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Forgot password failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "Reset code sent to email"})
}

func (c *AuthController) ConfirmForgotPassword(ctx echo.Context) error {
	var req httpdto.ConfirmForgotPasswordRequest
	if err := ctx.Bind(&req); err != nil {
		logrus.WithError(err).Debug("Failed to bind confirm forgot password request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		logrus.Debug("Confirm forgot password validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	err := c.authService.ConfirmForgotPassword(ctx.Request().Context(), req.Email, req.ConfirmationCode, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrExpiredCode) {
			logrus.WithField("email", req.Email).Warn("Confirm forgot password failed: invalid or expired code")
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "Invalid or expired code"})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Confirm forgot password failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithField("email", req.Email).Info("Password reset successful")
	return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "Password reset successful"})
}

func (c *AuthController) Refresh(ctx echo.Context) error {
	var req httpdto.RefreshRequest
	if err := ctx.Bind(&req); err != nil {
		logrus.WithError(err).Debug("Failed to bind refresh request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		logrus.Debug("Refresh validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	pair, err := c.authService.Refresh(ctx.Request().Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			logrus.Warn("Refresh failed: invalid token")
			return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "invalid token"})
		}
		logrus.WithError(err).Error("Refresh failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, httpdto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (c *AuthController) Logout(ctx echo.Context) error {
	if err := c.authService.Logout(ctx.Request().Context()); err != nil {
		logrus.WithError(err).Error("Logout failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}
	return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "Logged out"})
}

func (c *AuthController) Me(ctx echo.Context) error {
	user, ok := ctx.Get("user").(*entity.User)
	if !ok {
		logrus.Warn("Me failed: missing user in context")
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "invalid token"})
	}

	now := c.now()
	status := "inactive"
	if user.IsActive {
		status = "active"
	}

	return ctx.JSON(http.StatusOK, httpdto.MeResponse{
		User: httpdto.UserProfile{
			Sub:           user.ID,
			Email:         user.Email,
			Name:          user.FirstName + " " + user.LastName,
			FirstName:     user.FirstName,
			LastName:      user.LastName,
			EmailVerified: user.IsVerified,
			UserStatus:    status,
			Enabled:       user.IsActive,
			TokenUse:      "auth",
			Scope:         "user",
			AuthTime:      now.Unix(),
			IssuedAt:      now.Unix(),
			ExpiresAt:     now.Add(c.cfg.AccessTokenTTL).Unix(),
		},
	})
}
