// Package model holds the persistent domain records.
package model

import "time"

// TextRecord is a stored paste. HashValue is the public lookup key and is
// always a token that was reserved from the shared hash pool; Location points
// at the blob holding the raw content.
type TextRecord struct {
	ID             string     `json:"id"`
	Location       string     `json:"location"`
	HashValue      string     `json:"hash_value"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Expired reports whether the record is past its expiration date. Records
// without an expiration never expire.
func (t *TextRecord) Expired(now time.Time) bool {
	return t.ExpirationDate != nil && !t.ExpirationDate.After(now)
}
