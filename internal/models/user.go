package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FullName          string             `bson:"fullName" json:"fullName"`
	Email             string             `bson:"email" json:"email"`
	Password          string             `bson:"password" json:"-"` // Hide from JSON responses
	Role              Role               `bson:"role" json:"role"`
	IsBlocked         bool               `bson:"isBlocked" json:"isBlocked"`
	IsProfileComplete bool               `bson:"isProfileComplete" json:"isProfileComplete"`
	Profile           *Profile           `bson:"profile,omitempty" json:"profile,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsAdmin reports whether the account carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasProfile reports whether a non-empty profile is embedded.
func (u *User) HasProfile() bool {
	return u.Profile != nil && !u.Profile.IsZero()
}

// UserSummary is the public projection returned by moderation endpoints.
type UserSummary struct {
	ID        primitive.ObjectID `json:"_id"`
	FullName  string             `json:"fullName"`
	Email     string             `json:"email"`
	Role      Role               `json:"role"`
	IsBlocked bool               `json:"isBlocked"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		IsBlocked: u.IsBlocked,
	}
}

// ProfileOwner is the projection returned next to a public profile.
type ProfileOwner struct {
	ID                primitive.ObjectID `json:"_id"`
	FullName          string             `json:"fullName"`
	Email             string             `json:"email"`
	IsBlocked         bool               `json:"isBlocked"`
	IsProfileComplete bool               `json:"isProfileComplete"`
}

func (u *User) Owner() ProfileOwner {
	return ProfileOwner{
		ID:                u.ID,
		FullName:          u.FullName,
		Email:             u.Email,
		IsBlocked:         u.IsBlocked,
		IsProfileComplete: u.IsProfileComplete,
	}
}

// UserQuery filters user counts. Nil fields are not constrained.
type UserQuery struct {
	Role       Role
	Blocked    *bool
	HasProfile *bool
}
