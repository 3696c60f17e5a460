package users

import (
	"fmt"
	"regexp"
	"unicode"
)

// RoleType represents the durable permission level attached to a user record
type RoleType string

const (
	RoleUser       RoleType = "user"        // Regular shopper account
	RoleMinorAdmin RoleType = "minor-admin" // Content, moderation, and support tools
	RoleMainAdmin  RoleType = "main-admin"  // Full control, bound to the reserved email

	// RoleMajorAdmin is only ever held by the synthesized bypass identity
	// configured at startup. It never reaches the admin panel.
	RoleMajorAdmin RoleType = "major-admin"
)

// User represents a registered storefront account. Passwords are stored and
// compared as opaque plaintext strings, faithfully to the system this
// reimplements; hardening them is explicitly out of scope.
type User struct {
	Username string   `json:"username"` // Unique key
	Email    string   `json:"email"`    // Unique, compared case-sensitively
	Password string   `json:"password"`
	Role     RoleType `json:"role"`
}

var emailFormat = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks the provided email address against the storefront's
// accepted format.
func ValidateEmail(email string) bool {
	return emailFormat.MatchString(email)
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}
