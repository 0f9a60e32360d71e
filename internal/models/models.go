package models

import "time"

// User is an operator credential. Soft-deleted rows keep their data but are
// excluded from every active-view lookup; deletion never removes the row.
type User struct {
	UserID       string     `gorm:"primaryKey;size:50"        json:"user_id"`
	// no unique index on username: soft-deleted rows stay in the table and
	// the name must be reusable. Uniqueness is enforced against the active
	// view at create time.
	Username     string     `gorm:"index;not null;size:100"   json:"username"`
	UsernameNorm string     `gorm:"index;not null;size:100"   json:"-"`
	Name         string     `gorm:"not null;size:200"         json:"name"`
	Role         string     `gorm:"not null;size:20"          json:"role"`
	Active       bool       `gorm:"not null;default:true"     json:"active"`
	PasswordHash string     `gorm:"not null;size:256"         json:"-"`
	Salt         string     `gorm:"not null;size:128"         json:"-"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"            json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	DeletedAt    *time.Time `gorm:"index"                     json:"-"`
	DeletedBy    *string    `gorm:"size:50"                   json:"-"`
}

// RefreshToken persists only the hash of the opaque raw token; the raw value
// leaves the server exactly once, at issuance.
type RefreshToken struct {
	TokenID   string     `gorm:"primaryKey;size:50"      json:"token_id"`
	UserID    string     `gorm:"index;not null;size:50"  json:"user_id"`
	TokenHash string     `gorm:"uniqueIndex;not null;size:256" json:"-"`
	ExpiresAt int64      `gorm:"index;not null"          json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime"          json:"created_at"`
	Revoked   bool       `gorm:"not null;default:false"  json:"revoked"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

func (t *RefreshToken) Expired(now time.Time) bool {
	return now.Unix() > t.ExpiresAt
}

func (t *RefreshToken) IsValid(now time.Time) bool {
	return !t.Revoked && !t.Expired(now)
}
