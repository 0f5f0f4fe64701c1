package clients

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/orbitalfinances/orbital/internal/domain"
)

type authResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

// Login exchanges email and password for credentials.
func (a *API) Login(ctx context.Context, email, password string) (domain.Credentials, error) {
	body := map[string]string{"email": email, "password": password}
	payload, err := a.do(ctx, http.MethodPost, "/auth/login", body)
	if err != nil {
		return domain.Credentials{}, err
	}

	var resp authResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return domain.Credentials{}, errors.Wrap(err, "decode login response")
	}
	creds := domain.Credentials{UserID: resp.UserID, Token: resp.Token}
	if !creds.Present() {
		return domain.Credentials{}, &domain.ConsistencyError{Field: "token", Reason: "is missing"}
	}
	return creds, nil
}

// Register creates an account and returns credentials for it.
// New traders start unapproved; trading is enabled once an admin
// approves the account.
func (a *API) Register(ctx context.Context, name, email, password string) (domain.Credentials, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	payload, err := a.do(ctx, http.MethodPost, "/auth/register", body)
	if err != nil {
		return domain.Credentials{}, err
	}

	var resp authResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return domain.Credentials{}, errors.Wrap(err, "decode register response")
	}
	creds := domain.Credentials{UserID: resp.UserID, Token: resp.Token}
	if !creds.Present() {
		return domain.Credentials{}, &domain.ConsistencyError{Field: "token", Reason: "is missing"}
	}
	return creds, nil
}
