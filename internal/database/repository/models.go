package repository

import "time"

// Profile represents a saved activation-profile row.
type Profile struct {
	ID               string
	Label            string
	SMDPAddress      string
	ActivationCode   string
	ConfirmationCode string
	Raw              string // original payload as scanned, kept for diagnostics
	Source           string // qr | text | manual
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Scan represents one intake attempt.
type Scan struct {
	ID        string
	Payload   string
	Outcome   string // parsed | repaired | failed
	Problem   string
	ProfileID *string
	CreatedAt time.Time
}
