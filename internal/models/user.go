package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	// RoleSubmitter files complaints and manages its own pending ones.
	RoleSubmitter Role = "student"
	// RoleManager triages and deletes complaints of every submitter.
	RoleManager Role = "manager"
)

func (r Role) Valid() bool {
	return r == RoleSubmitter || r == RoleManager
}

// User is the identity used to expand complaint submitters in responses.
type User struct {
	ID    string `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string `gorm:"type:text;not null" json:"name"`
	Email string `gorm:"type:text;uniqueIndex" json:"email"`
	Role  Role   `gorm:"type:text;not null" json:"role"`
}

// BeforeCreate is a GORM hook that assigns a UUID to users created without one.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// Actor is the authenticated caller of a request as resolved from its bearer token.
type Actor struct {
	ID   string
	Role Role
}
