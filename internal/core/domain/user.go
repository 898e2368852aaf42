package domain

// User is an identity record. PasswordHash is empty for accounts created
// through a federated provider.
type User struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	GoogleID     string `json:"googleId,omitempty"`
}

// Session is the identity carried by a verified session token.
type Session struct {
	Username string
	UserID   string
}

// FederatedProfile is the subset of a provider profile used to find or
// create a local account.
type FederatedProfile struct {
	ProviderID  string
	DisplayName string
	Email       string
}
