// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/geocrowd/internal/models"
)

// MaxPasswordBytes is the longest password bcrypt can compare exactly.
const MaxPasswordBytes = 72

var (
	ErrEmptyAdminEmail   = errors.New("admin email is required")
	ErrAdminPasswordLong = fmt.Errorf("admin password exceeds %d bytes", MaxPasswordBytes)
	ErrInvalidBcryptCost = fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
)

// Authenticator maps credentials to a role. The admin password is kept only
// as a bcrypt hash computed once at construction.
type Authenticator struct {
	email        []byte
	passwordHash []byte
}

// NewAuthenticator hashes password with the given bcrypt cost.
func NewAuthenticator(email, password string, cost int) (*Authenticator, error) {
	if email == "" {
		return nil, ErrEmptyAdminEmail
	}
	if len(password) > MaxPasswordBytes {
		return nil, ErrAdminPasswordLong
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, ErrInvalidBcryptCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	return &Authenticator{
		email:        []byte(email),
		passwordHash: hash,
	}, nil
}

// Login returns RoleAdmin when creds exactly match the configured admin pair
// and RoleUser otherwise. It never fails.
func (a *Authenticator) Login(creds models.Credentials) models.Role {
	if a.matches(creds.Email, creds.Password) {
		return models.RoleAdmin
	}
	return models.RoleUser
}

func (a *Authenticator) matches(email, password string) bool {
	emailMatch := subtle.ConstantTimeCompare([]byte(email), a.email) == 1

	// bcrypt only sees the first 72 bytes, so a longer candidate could
	// collide with the configured password.
	if len(password) > MaxPasswordBytes {
		return false
	}
	passwordMatch := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) == nil

	return emailMatch && passwordMatch
}
