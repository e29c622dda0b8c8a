package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"campus-auth/internal/model"
	"campus-auth/internal/upstream"
	"campus-auth/pkg/apierror"
)

// AccountStore is the slice of the upstream store that owns credentials.
// It hashes and verifies passwords itself; this service never sees a hash.
type AccountStore interface {
	SignUp(ctx context.Context, email string, password string) (string, error)
	SignIn(ctx context.Context, email string, password string) (string, error)
}

// ProfileStore is the slice of the upstream store that owns profile rows.
type ProfileStore interface {
	ProfileByEmail(ctx context.Context, email string) (*model.Profile, error)
	Profile(ctx context.Context, id string) (model.Profile, error)
	UpdateProfile(ctx context.Context, id string, fields map[string]any) error
}

type AuthService struct {
	secret   []byte
	tokenTTL time.Duration
	accounts AccountStore
	profiles ProfileStore
	validate *validator.Validate
}

func NewAuthService(secret string, tokenTTL time.Duration, accounts AccountStore, profiles ProfileStore) (*AuthService, error) {
	if secret == "" {
		return nil, errors.New("signing secret is required")
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	return &AuthService{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		accounts: accounts,
		profiles: profiles,
		validate: validator.New(),
	}, nil
}

// Register creates an account in the upstream store and issues a token.
// Validation runs before any store call, so rejected input has no side
// effects. The duplicate pre-check is advisory; the store's own uniqueness
// enforcement is the final arbiter, and a duplicate rejection from signup
// maps to the same conflict answer.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthPayload, error) {
	if err := s.validateRegister(req); err != nil {
		return model.AuthPayload{}, err
	}

	existing, err := s.profiles.ProfileByEmail(ctx, req.Email)
	if err != nil {
		// The store still enforces uniqueness at signup.
		slog.Warn("duplicate pre-check failed", "error", err)
	}
	if existing != nil {
		return model.AuthPayload{}, model.ErrUserAlreadyExists
	}

	userID, err := s.accounts.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrUserAlreadyExists) {
			return model.AuthPayload{}, err
		}
		return model.AuthPayload{}, apierror.New("UPSTREAM_ERROR", upstreamMessage(err, "failed to create user"), http.StatusInternalServerError)
	}

	// Display name is not identity-critical; registration succeeds even if
	// this write is lost.
	s.bestEffort("update profile username", func() error {
		return s.profiles.UpdateProfile(ctx, userID, map[string]any{"username": req.Name})
	})

	token, err := s.mintToken(userID)
	if err != nil {
		return model.AuthPayload{}, fmt.Errorf("sign token: %w", err)
	}

	return model.AuthPayload{
		Message: "user registered successfully",
		User:    model.AuthUser{ID: userID, Name: req.Name, Email: req.Email},
		Token:   token,
	}, nil
}

// Login verifies credentials against the upstream store and issues a token.
// Every credential failure surfaces as the same answer.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthPayload, error) {
	if err := s.validate.Struct(req); err != nil {
		return model.AuthPayload{}, apierror.New("BAD_REQUEST", "email and password are required", http.StatusBadRequest)
	}

	userID, err := s.accounts.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			return model.AuthPayload{}, err
		}
		return model.AuthPayload{}, fmt.Errorf("sign in: %w", err)
	}

	// Enrichment only; login does not fail when the profile row is missing.
	name := ""
	if profile, profileErr := s.profiles.Profile(ctx, userID); profileErr == nil {
		name = profile.Username
	} else {
		slog.Warn("profile lookup after login failed", "user_id", userID, "error", profileErr)
	}

	token, err := s.mintToken(userID)
	if err != nil {
		return model.AuthPayload{}, fmt.Errorf("sign token: %w", err)
	}

	return model.AuthPayload{
		Message: "login successful",
		User:    model.AuthUser{ID: userID, Name: name, Email: req.Email},
		Token:   token,
	}, nil
}

// VerifyToken checks signature and expiry and returns the subject claim.
// Tampered, expired, malformed and wrongly-signed tokens are deliberately
// indistinguishable to the caller.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", model.ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", model.ErrTokenInvalid
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return "", model.ErrTokenInvalid
	}

	return subject, nil
}

// UserProfile resolves a verified token subject to the /me projection.
func (s *AuthService) UserProfile(ctx context.Context, userID string) (model.Profile, error) {
	profile, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.Profile{}, err
		}
		return model.Profile{}, fmt.Errorf("fetch profile: %w", err)
	}

	return profile, nil
}

func (s *AuthService) mintToken(userID string) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": now.Add(s.tokenTTL).Unix(),
	})

	return token.SignedString(s.secret)
}

// bestEffort runs a step whose failure must not fail the operation.
func (s *AuthService) bestEffort(op string, fn func() error) {
	if err := fn(); err != nil {
		slog.Warn("best-effort step failed", "op", op, "error", err)
	}
}

func (s *AuthService) validateRegister(req model.RegisterRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	for _, fieldErr := range fieldErrs {
		if fieldErr.Tag() == "required" {
			return apierror.New("BAD_REQUEST", "name, email and password are required", http.StatusBadRequest)
		}
	}

	for _, fieldErr := range fieldErrs {
		switch fieldErr.Field() {
		case "Email":
			return apierror.New("BAD_REQUEST", "invalid email format", http.StatusBadRequest)
		case "Password":
			return apierror.New("BAD_REQUEST", "password must be at least 8 characters long", http.StatusBadRequest)
		}
	}

	return apierror.New("BAD_REQUEST", "invalid request", http.StatusBadRequest)
}

func upstreamMessage(err error, fallback string) string {
	var upErr *upstream.Error
	if errors.As(err, &upErr) && upErr.Message != "" {
		return upErr.Message
	}

	return fallback
}
