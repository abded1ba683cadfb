package users

import "time"

// User is the internal account behind an identity-provider subject.
// ExternalID is unique and immutable after creation; Email and Name are
// display metadata only and never feed key derivation.
type User struct {
	ID         string
	ExternalID string
	Email      string
	Name       string
	CreatedAt  time.Time
}
