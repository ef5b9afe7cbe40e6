package models

import (
	"fmt"
	"time"
)

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleInstructor UserRole = "instructor"
	RoleStudent    UserRole = "student"
)

// Valid reports whether the role is one of the three provisioned roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleInstructor, RoleStudent:
		return true
	}
	return false
}

// User is provisioned out-of-band in the identity provider and mirrored
// here. The service never creates or mutates users; `sub` is the external
// identity the token's subject claim resolves against.
type User struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Subject  string   `json:"-" gorm:"column:sub;uniqueIndex;size:255;not null"`
	Username string   `json:"username" gorm:"size:255;not null"`
	Role     UserRole `json:"role" gorm:"size:32;not null"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// AvatarRecord marks that an avatar blob exists for a user. At most one
// per user; the blob itself lives in the avatar bucket under ObjectKey.
type AvatarRecord struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

func (AvatarRecord) TableName() string {
	return "avatars"
}

// AvatarObjectKey is the deterministic blob key for a user's avatar.
func AvatarObjectKey(userID uint) string {
	return fmt.Sprintf("%d.png", userID)
}
