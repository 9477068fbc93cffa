package user

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/common"
	"github.com/amirasaad/backoffice/pkg/utils"
	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when a user cannot be found in the
	// repository.
	ErrUserNotFound = fmt.Errorf("user %w", domain.ErrNotFound)
	// ErrUsernameTaken is returned when the username is already used,
	// ignoring case and including deleted users.
	ErrUsernameTaken = fmt.Errorf("username %w", domain.ErrAlreadyExists)
	// ErrEmailTaken is returned when the email is already used.
	ErrEmailTaken = fmt.Errorf("email %w", domain.ErrAlreadyExists)
	// ErrUserUnauthorized is returned when credentials do not match.
	ErrUserUnauthorized = fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
)

// Role is the authorization role of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a back-office login.
type User struct {
	common.Identity
	common.Audit
	Username  string
	Email     string
	Password  string
	Role      Role
	Avatar    string
	IsDeleted bool
}

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// IsAdmin reports whether the actor has the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccess reports whether the actor may act on resources owned by ownerID.
func (a Actor) CanAccess(ownerID uuid.UUID) bool {
	return a.IsAdmin() || a.ID == ownerID
}

// New creates a new User with a hashed password, fresh identity and
// current timestamps.
func New(username, email, password string, role Role) (*User, error) {
	username = strings.TrimSpace(username)
	email = utils.NormalizeEmail(email)
	if err := Validate(username, email, password, role); err != nil {
		return nil, err
	}
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		Identity: common.NewIdentity(),
		Audit:    common.NewAudit(),
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Role:     role,
	}, nil
}

// Validate checks every user field and reports all failures together.
func Validate(username, email, password string, role Role) error {
	v := &domain.ValidationError{}
	validateUsername(v, username)
	validateEmail(v, email)
	validatePassword(v, password)
	v.Check(role.Valid(), "role", "must be one of USER, ADMIN")
	return v.Err()
}

func validateUsername(v *domain.ValidationError, username string) {
	n := utf8.RuneCountInString(strings.TrimSpace(username))
	v.Check(n >= 3 && n <= 50, "username", "must be between 3 and 50 characters")
}

func validateEmail(v *domain.ValidationError, email string) {
	v.Check(utils.IsEmail(email), "email", "must be a valid email address")
}

func validatePassword(v *domain.ValidationError, password string) {
	v.Check(len(password) >= 6, "password", "must be at least 6 characters")
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return utils.CheckPasswordHash(password, u.Password)
}

// Rename changes the username.
func (u *User) Rename(username string) error {
	username = strings.TrimSpace(username)
	v := &domain.ValidationError{}
	validateUsername(v, username)
	if err := v.Err(); err != nil {
		return err
	}
	u.Username = username
	u.Touch()
	return nil
}

// ChangeEmail replaces the email address.
func (u *User) ChangeEmail(email string) error {
	email = utils.NormalizeEmail(email)
	v := &domain.ValidationError{}
	validateEmail(v, email)
	if err := v.Err(); err != nil {
		return err
	}
	u.Email = email
	u.Touch()
	return nil
}

// ChangePassword hashes and stores a new password.
func (u *User) ChangePassword(password string) error {
	v := &domain.ValidationError{}
	validatePassword(v, password)
	if err := v.Err(); err != nil {
		return err
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashed
	u.Touch()
	return nil
}

// SetAvatar records the storage location of the user's avatar.
func (u *User) SetAvatar(location string) {
	u.Avatar = location
	u.Touch()
}

// MarkDeleted soft deletes the user.
func (u *User) MarkDeleted() {
	u.IsDeleted = true
	u.Touch()
}

// Actor returns the user as an operation actor.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}
