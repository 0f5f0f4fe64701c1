package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/orbitalfinances/orbital/pkg/retrier"
)

// User backend user record visible to administrators.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Approved bool   `json:"approved"`
}

// Users lists all user records. Admin only.
func (a *API) Users(ctx context.Context) ([]User, error) {
	payload, err := retrier.DoWithData(a.retrier, ctx, func(ctx context.Context) ([]byte, error) {
		return a.do(ctx, http.MethodGet, "/admin/users", nil)
	})
	if err != nil {
		return nil, err
	}

	var users []User
	if err := json.Unmarshal(payload, &users); err != nil {
		return nil, errors.Wrap(err, "decode users response")
	}
	return users, nil
}

// ApproveTrader enables trading for a pending trader account. Admin only.
func (a *API) ApproveTrader(ctx context.Context, userID string) error {
	_, err := a.do(ctx, http.MethodPost, fmt.Sprintf("/admin/traders/%s/approve", userID), nil)
	return err
}

// RejectTrader declines a pending trader account. Admin only.
func (a *API) RejectTrader(ctx context.Context, userID string) error {
	_, err := a.do(ctx, http.MethodPost, fmt.Sprintf("/admin/traders/%s/reject", userID), nil)
	return err
}

// UpdateUser edits a user record. Admin only. Empty fields are left
// unchanged by the backend.
func (a *API) UpdateUser(ctx context.Context, userID string, fields map[string]string) error {
	_, err := a.do(ctx, http.MethodPatch, fmt.Sprintf("/admin/users/%s", userID), fields)
	return err
}
