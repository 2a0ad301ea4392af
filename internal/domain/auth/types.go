package auth

import "time"

// AnonymousOwner owns every profile when authentication is disabled.
const AnonymousOwner = "anonymous"

// Config drives authentication behavior. An empty Secret disables auth.
type Config struct {
	Secret   string
	TokenTTL time.Duration
}

// Token is a signed bearer token.
type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Claims are extracted from the JWT token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}
