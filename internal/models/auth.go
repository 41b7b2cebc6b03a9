package models

import (
	"time"
)

type User struct {
	Base
	Username     string     `gorm:"uniqueIndex;not null" json:"username" validate:"required,min=3"`
	PasswordHash string     `gorm:"not null" json:"-"`
	PersonID     string     `gorm:"type:uuid;not null" json:"personId"`
	Person       *Person    `json:"person,omitempty"`
	Active       bool       `gorm:"not null;default:true" json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	Roles        []UserRole `gorm:"foreignKey:UserID" json:"roles,omitempty"`
}

// UserSession is the server-side record for an issued bearer token. A token
// is only accepted while its session row exists and is unexpired, which makes
// otherwise-stateless JWTs revocable.
type UserSession struct {
	Base
	UserID    string    `gorm:"type:uuid;not null;index" json:"userId"`
	User      *User     `json:"user,omitempty"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
}

// PasswordReset rows are single use: consumed tokens are deleted, expired
// ones purged by the scheduler.
type PasswordReset struct {
	Base
	UserID    string    `gorm:"type:uuid;not null;index" json:"userId"`
	User      *User     `json:"user,omitempty"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
}
