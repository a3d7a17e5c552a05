package models

import (
	"time"
)

// Patient is a registered patient. The password reset credential lives on
// the row itself: ResetToken and ResetTokenExpiry are always set and cleared
// together.
type Patient struct {
	BaseModel
	Name             string     `gorm:"size:100" json:"name"`
	Email            string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Contact          string     `gorm:"size:30" json:"contact,omitempty"`
	Password         string     `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	ResetToken       *string    `gorm:"size:16;index" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
}

// ResetTokenExpired reports whether the stored reset token is stale at now.
// An expiry equal to now is still valid.
func (p *Patient) ResetTokenExpired(now time.Time) bool {
	return p.ResetTokenExpiry == nil || p.ResetTokenExpiry.Before(now)
}

// ClearResetToken drops the stored token and its expiry.
func (p *Patient) ClearResetToken() {
	p.ResetToken = nil
	p.ResetTokenExpiry = nil
}
