package globals

import "os"

// Context keys
type ContextKey string

const CustomerTokenKey ContextKey = "customerToken"

// JwtSecret signs and verifies the bearer tokens guarding the subscription
// management routes.
var JwtSecret = []byte(jwtSecret())

func jwtSecret() string {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return secret
	}
	return "dev_secret_key"
}
