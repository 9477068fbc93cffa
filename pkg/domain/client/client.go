package client

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/common"
	"github.com/amirasaad/backoffice/pkg/utils"
	"github.com/google/uuid"
)

var (
	ErrClientNotFound = fmt.Errorf("client %w", domain.ErrNotFound)
	ErrDNITaken       = fmt.Errorf("dni %w", domain.ErrAlreadyExists)
	ErrEmailTaken     = fmt.Errorf("client email %w", domain.ErrAlreadyExists)
	// ErrUserHasClient is returned when the user already owns a client
	// profile, deleted or not.
	ErrUserHasClient = fmt.Errorf("client for user %w", domain.ErrAlreadyExists)
)

const dniLetters = "TRWAGMYFPDXBNJZSQVHLCKE"

var dniRe = regexp.MustCompile(`^[0-9]{8}[A-Z]$`)

// Client is the banking customer profile attached to a user.
type Client struct {
	common.Identity
	common.Audit
	UserID    uuid.UUID
	DNI       string
	Email     string
	Name      string
	Surname   string
	Phone     string
	Address   string
	IsDeleted bool
}

// Profile holds the user supplied client fields.
type Profile struct {
	DNI     string
	Email   string
	Name    string
	Surname string
	Phone   string
	Address string
}

func (p Profile) normalize() Profile {
	return Profile{
		DNI:     NormalizeDNI(p.DNI),
		Email:   utils.NormalizeEmail(p.Email),
		Name:    strings.TrimSpace(p.Name),
		Surname: strings.TrimSpace(p.Surname),
		Phone:   strings.TrimSpace(p.Phone),
		Address: strings.TrimSpace(p.Address),
	}
}

// New creates a client for userID after validating the profile.
func New(userID uuid.UUID, p Profile) (*Client, error) {
	p = p.normalize()
	v := &domain.ValidationError{}
	v.Check(userID != uuid.Nil, "user", "must reference a user")
	validateProfile(v, p)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return &Client{
		Identity: common.NewIdentity(),
		Audit:    common.NewAudit(),
		UserID:   userID,
		DNI:      p.DNI,
		Email:    p.Email,
		Name:     p.Name,
		Surname:  p.Surname,
		Phone:    p.Phone,
		Address:  p.Address,
	}, nil
}

func validateProfile(v *domain.ValidationError, p Profile) {
	v.Check(ValidDNI(p.DNI), "dni", "must be 8 digits followed by a matching control letter")
	v.Check(utils.IsEmail(p.Email), "email", "must be a valid email address")
	v.Check(!common.IsBlank(p.Name), "name", "must not be blank")
	v.Check(!common.IsBlank(p.Surname), "surname", "must not be blank")
}

// Update replaces the profile fields; the owning user never changes.
func (c *Client) Update(p Profile) error {
	p = p.normalize()
	v := &domain.ValidationError{}
	validateProfile(v, p)
	if err := v.Err(); err != nil {
		return err
	}
	c.DNI = p.DNI
	c.Email = p.Email
	c.Name = p.Name
	c.Surname = p.Surname
	c.Phone = p.Phone
	c.Address = p.Address
	c.Touch()
	return nil
}

// Profile returns the current user supplied fields.
func (c *Client) Profile() Profile {
	return Profile{
		DNI:     c.DNI,
		Email:   c.Email,
		Name:    c.Name,
		Surname: c.Surname,
		Phone:   c.Phone,
		Address: c.Address,
	}
}

// MarkDeleted soft deletes the client.
func (c *Client) MarkDeleted() {
	c.IsDeleted = true
	c.Touch()
}

// NormalizeDNI trims and upper-cases a DNI.
func NormalizeDNI(dni string) string {
	return strings.ToUpper(strings.TrimSpace(dni))
}

// ValidDNI checks the format and control letter of a normalized DNI.
func ValidDNI(dni string) bool {
	if !dniRe.MatchString(dni) {
		return false
	}
	n, err := strconv.Atoi(dni[:8])
	if err != nil {
		return false
	}
	return dni[8] == dniLetters[n%23]
}
