package shared

// shared types across the application

// AuthClaims is the identity carried by an access token.
type AuthClaims struct {
	UserID   string `json:"user_id"`  // user identifier(UUID)
	UserName string `json:"username"` // username at issue time, informational only
}
