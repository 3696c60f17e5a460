package auth

import (
	apperrors "github.com/devunion/storefront-auth/internal/errors"
	"github.com/devunion/storefront-auth/users"
)

// RegistrationForm carries the signup fields as submitted.
type RegistrationForm struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// RegistrationResult reports either success or the per-field validation
// errors. All failing checks are reported together rather than first-wins.
type RegistrationResult struct {
	OK      bool              `json:"ok"`
	Role    users.RoleType    `json:"role,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Register validates the form and creates the user record. The reserved
// main-admin email is force-assigned the main-admin role, and only for the
// first-ever account; after that it can never back a signup again. A new
// account is never auto-authenticated.
func (s *Service) Register(form RegistrationForm) (*RegistrationResult, error) {
	fieldErrors := map[string]string{}

	if form.Username == "" {
		fieldErrors["username"] = "Field required"
	}
	if !users.ValidateEmail(form.Email) {
		fieldErrors["email"] = "Please use a valid email address, such as user@example.com."
	}
	if err := users.ValidatePasswordStrength(form.Password); err != nil {
		fieldErrors["password"] = "Password must have at least 8 characters, 1 lowercase, 1 uppercase and 1 numeric character."
	}
	if form.Password != form.ConfirmPassword {
		fieldErrors["confirmPassword"] = "Passwords must match exactly."
	}

	if _, err := s.repos.Users.GetByUsername(form.Username); err == nil {
		fieldErrors["username"] = "Username already in use."
	} else if !apperrors.Is(err, apperrors.ErrUserNotFound) {
		return nil, apperrors.Wrapf(err, "[Service.Register] GetByUsername")
	}

	if _, err := s.repos.Users.GetByEmail(form.Email); err == nil {
		fieldErrors["email"] = "Email already in use."
	} else if !apperrors.Is(err, apperrors.ErrUserNotFound) {
		return nil, apperrors.Wrapf(err, "[Service.Register] GetByEmail")
	}

	count, err := s.repos.Users.Count()
	if err != nil {
		return nil, apperrors.Wrapf(err, "[Service.Register] Count")
	}

	reservedEmail := s.admin.GetReservedMainAdminEmail()
	if form.Email == reservedEmail && count > 0 {
		fieldErrors["email"] = "This email is reserved for the main admin and cannot be reused."
	}

	if len(fieldErrors) > 0 {
		return &RegistrationResult{Errors: fieldErrors}, nil
	}

	role := users.RoleUser
	message := "Account created. Please log in to continue."
	if form.Email == reservedEmail {
		role = users.RoleMainAdmin
		message = "Main admin account created. Full access is now available on login."
	}

	if err := s.repos.Users.Upsert(&users.User{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
		Role:     role,
	}); err != nil {
		return nil, apperrors.Wrapf(err, "[Service.Register] Upsert")
	}

	return &RegistrationResult{OK: true, Role: role, Message: message}, nil
}
