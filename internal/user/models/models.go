// Package models defines the user account shapes.
package models

import "github.com/google/uuid"

// User types. Accounts created before the field existed carry an empty
// value and are backfilled to standard on first read.
const (
	UserTypeStandard = "standard"
	UserTypeAdmin    = "admin"
)

// User is one account record.
type User struct {
	ID       uuid.UUID
	Name     string
	Email    string
	UserType string
	Verified bool
	IDFile   string
}

// IsAdmin reports whether the account holds the admin user type.
func (u *User) IsAdmin() bool {
	return u != nil && u.UserType == UserTypeAdmin
}

// Profile is the self-service account view.
type Profile struct {
	UserType  string `json:"user_type"`
	Name      string `json:"name"`
	Verified  bool   `json:"verified"`
	HasIDFile bool   `json:"id_file"`
}
