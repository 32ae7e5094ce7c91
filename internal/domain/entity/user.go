package entity

import "strings"

// User is the slice of the identity record the review engine reads.
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// HasVerifiedPhone relies on the identity provider only exposing phone
// numbers that completed verification.
func (u *User) HasVerifiedPhone() bool {
	return strings.TrimSpace(u.Phone) != ""
}
