// Package models defines the core data models for the WallFrame platform.
//
// The models in this package represent the central data structures shared
// across WallFrame services. They are designed for serialization (JSON),
// database persistence, and cross-service transport.
//
// User Model:
//
// The [User] type represents a registered account — the record that the
// authentication core resolves a verified credential against. Every
// authenticated request in the platform carries a User loaded from the
// user store; the account's [Role] drives authorization decisions.
package models

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// UserSchemaVersion identifies the current schema version of the User
// model. Increment this when making breaking changes to the struct fields
// or serialization format to support schema migration.
const UserSchemaVersion = 1

// Role represents the authorization level of a user account. Roles are
// coarse-grained: fine-grained permissions are derived from the role by
// the auth package's permission map.
type Role string

const (
	// RoleUser is the default role assigned at registration. Users can
	// browse the gallery and manage their own wishlist.
	RoleUser Role = "user"

	// RoleAdmin grants full access, including moderation and upload
	// management surfaces.
	RoleAdmin Role = "admin"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether the role is one of the recognized values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// User represents a registered WallFrame account.
//
// Every field is annotated with both JSON tags (for API serialization) and
// db tags (for database mapping). Optional fields use omitempty to exclude
// zero values from serialized output.
//
// Credential material (password hashes) deliberately does not appear on
// this type; it never leaves the user store.
type User struct {
	// ID is the unique identifier for this account (UUID v4). Token
	// subjects resolve to this value.
	ID string `json:"id" db:"id"`

	// Username is the unique display handle chosen at registration.
	Username string `json:"username" db:"username"`

	// Email is the unique contact address for the account.
	Email string `json:"email" db:"email"`

	// Role is the authorization level of the account.
	// See [Role] for valid values.
	Role Role `json:"role" db:"role"`

	// Wishlist holds the IDs of wallpapers the user has saved. Nil
	// wishlists are normalized to an empty slice by [NewUser], so this
	// field is always present in JSON output for constructor-created
	// users (at minimum as an empty array).
	Wishlist []string `json:"wishlist" db:"wishlist"`

	// Verified reports whether the account's email address has been
	// confirmed. Unverified accounts can authenticate but may be gated
	// by handlers.
	Verified bool `json:"verified" db:"verified"`

	// CreatedAt is the UTC timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the UTC timestamp when the account record was last
	// modified.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewUser creates a new User record with a generated UUID, the default
// [RoleUser] role, an empty wishlist, and UTC timestamps.
//
// Returns an error if username or email is empty, or if email does not
// parse as an address. These fields are required because accounts cannot
// be meaningfully created without them.
func NewUser(username, email string) (*User, error) {
	if username == "" {
		return nil, errors.New("models: user username must not be empty")
	}
	if email == "" {
		return nil, errors.New("models: user email must not be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("models: user email %q is not a valid address: %w", email, err)
	}

	now := time.Now().UTC()
	return &User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     email,
		Role:      RoleUser,
		Wishlist:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Validate checks that all required fields are present and that the role
// is a recognized value. Returns the first validation error encountered,
// or nil if the user is valid.
//
// Required fields: ID, Username, Email, Role (must be valid).
// Timestamps (CreatedAt, UpdatedAt) must not be zero.
func (u *User) Validate() error {
	if u.ID == "" {
		return errors.New("models: user ID is required")
	}
	if u.Username == "" {
		return errors.New("models: user username is required")
	}
	if u.Email == "" {
		return errors.New("models: user email is required")
	}
	if !u.Role.Valid() {
		return fmt.Errorf("models: invalid user role %q", u.Role)
	}
	if u.CreatedAt.IsZero() {
		return errors.New("models: user created_at is required")
	}
	if u.UpdatedAt.IsZero() {
		return errors.New("models: user updated_at is required")
	}
	return nil
}

// IsAdmin reports whether the account holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasWished reports whether the given wallpaper ID appears on the user's
// wishlist.
func (u *User) HasWished(wallpaperID string) bool {
	for _, id := range u.Wishlist {
		if id == wallpaperID {
			return true
		}
	}
	return false
}
