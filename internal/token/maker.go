package token

import (
	"time"
)

// Maker issues and verifies access tokens for the admin dashboard.
// The service itself only verifies; CreateToken serves tooling and tests.
type Maker interface {
	CreateToken(subject string, role string, duration time.Duration) (token string, payload *Payload, err error)
	VerifyToken(tokenString string) (payload *Payload, err error)
}
