package models

import (
	"time"
)

// OTPChallenge is a short-lived one-time code issued to prove control of a
// phone number. At most one live (unconsumed, unexpired) challenge exists per
// phone; requesting a new one deletes the previous.
type OTPChallenge struct {
	BaseModel
	Phone        string    `gorm:"index" json:"phone"`
	Code         string    `json:"code"`
	ExpiresAt    time.Time `json:"expires_at"`
	AttemptCount int       `json:"attempt_count"`
	Consumed     bool      `json:"consumed"`
}

// Live reports whether the challenge can still be verified at the given time.
func (c *OTPChallenge) Live(now time.Time) bool {
	return !c.Consumed && c.ExpiresAt.After(now)
}
