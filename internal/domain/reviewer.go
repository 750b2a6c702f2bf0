package domain

import "time"

// Reviewer is a moderator credential record. The identity store owns it; the
// gateway only reads it to verify logins. PasswordHash is bcrypt and must
// never appear in logs or responses.
type Reviewer struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
