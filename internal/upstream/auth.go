package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"campus-auth/internal/model"
)

type accountUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SignUp creates an account. Password hashing happens inside the store.
// The auth API answers with either the bare user record or a session
// envelope wrapping it, depending on whether confirmation is enabled.
func (c *Client) SignUp(ctx context.Context, email string, password string) (string, error) {
	var out struct {
		accountUser
		User *accountUser `json:"user"`
	}

	err := c.do(ctx, http.MethodPost, "/auth/v1/signup", nil,
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		var upErr *Error
		if errors.As(err, &upErr) && isDuplicateAccount(upErr) {
			return "", model.ErrUserAlreadyExists
		}
		return "", err
	}

	switch {
	case out.ID != "":
		return out.ID, nil
	case out.User != nil && out.User.ID != "":
		return out.User.ID, nil
	}

	return "", fmt.Errorf("signup response carried no user id")
}

// SignIn verifies credentials via the password grant. Every client-side
// rejection collapses to ErrInvalidCredentials so callers cannot tell an
// unknown email from a wrong password.
func (c *Client) SignIn(ctx context.Context, email string, password string) (string, error) {
	query := url.Values{"grant_type": []string{"password"}}

	var out struct {
		AccessToken string       `json:"access_token"`
		User        *accountUser `json:"user"`
	}

	err := c.do(ctx, http.MethodPost, "/auth/v1/token", query,
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		var upErr *Error
		if errors.As(err, &upErr) && upErr.Status < 500 {
			return "", model.ErrInvalidCredentials
		}
		return "", err
	}

	if out.User == nil || out.User.ID == "" {
		return "", fmt.Errorf("sign-in response carried no user id")
	}

	return out.User.ID, nil
}

func isDuplicateAccount(err *Error) bool {
	if err.Status != http.StatusBadRequest && err.Status != http.StatusUnprocessableEntity {
		return false
	}

	msg := strings.ToLower(err.Message)
	return strings.Contains(msg, "already registered") || strings.Contains(msg, "already exists")
}
