package domain

// Credentials identity of the logged-in user, obtained from the auth
// collaborator and passed explicitly to every component that needs it.
type Credentials struct {
	// UserID backend id of the user.
	UserID string
	// Token bearer credential sent verbatim in the Authorization header.
	// The backend issues it with the "Bearer " prefix already applied.
	Token string
}

// Present reports whether the user is logged in.
func (c Credentials) Present() bool {
	return c.UserID != "" && c.Token != ""
}
