package domain

import "time"

// AccessToken describes an issued token. Tokens are stateless JWTs returned
// to the caller once and never persisted; validity is purely a function of
// signature and expiry.
type AccessToken struct {
	Token     string
	SubjectID string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
