package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role controls access to the admin surface.
type Role string

// Supported roles.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Password length bounds. The upper bound is bcrypt's input limit.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// Farmer validation errors.
var (
	ErrEmptyFarmerID       = errors.New("farmer ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyFirstName      = errors.New("first name cannot be empty")
	ErrEmptyLastName       = errors.New("last name cannot be empty")
	ErrEmptyPhone          = errors.New("phone cannot be empty")
	ErrEmptyLocation       = errors.New("location cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrInvalidRole         = errors.New("invalid role")
	ErrCannotDeleteSelf    = errors.New("cannot delete your own account")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// Farmer is a registered user of AgriNathi. Admins are farmers with the
// admin role.
type Farmer struct {
	ID             uuid.UUID  `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Location       string     `json:"location"`
	FarmSize       string     `json:"farm_size,omitempty"`
	Role           Role       `json:"role"`
	Password       string     `json:"-"` // plaintext, only set between registration and hashing
	HashedPassword string     `json:"-"`
	RegisteredAt   time.Time  `json:"registration_date"`
	LastLoginAt    *time.Time `json:"last_login"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewFarmerParams carries the registration form.
type NewFarmerParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	Location  string
	FarmSize  string
}

// NewFarmer builds a farmer with the user role from registration details.
// The e-mail is normalized to lower case. The caller must hash the password
// before storing the farmer.
func NewFarmer(p NewFarmerParams) (*Farmer, error) {
	now := time.Now().UTC()
	f := &Farmer{
		ID:           uuid.New(),
		FirstName:    strings.TrimSpace(p.FirstName),
		LastName:     strings.TrimSpace(p.LastName),
		Email:        NormalizeEmail(p.Email),
		Phone:        strings.TrimSpace(p.Phone),
		Location:     strings.TrimSpace(p.Location),
		FarmSize:     strings.TrimSpace(p.FarmSize),
		Role:         RoleUser,
		Password:     p.Password,
		RegisteredAt: now,
		UpdatedAt:    now,
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// NormalizeEmail trims and lower-cases an e-mail address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FullName joins first and last name.
func (f *Farmer) FullName() string {
	return strings.TrimSpace(f.FirstName + " " + f.LastName)
}

// IsAdmin reports whether the farmer may use admin endpoints.
func (f *Farmer) IsAdmin() bool {
	return f.Role == RoleAdmin
}

// Validate checks if the Farmer has valid data.
func (f *Farmer) Validate() error {
	if f.ID == uuid.Nil {
		return ErrEmptyFarmerID
	}
	if f.FirstName == "" {
		return ErrEmptyFirstName
	}
	if f.LastName == "" {
		return ErrEmptyLastName
	}
	if f.Email == "" {
		return ErrEmptyEmail
	}
	if !validEmail(f.Email) {
		return ErrInvalidEmail
	}
	if f.Phone == "" {
		return ErrEmptyPhone
	}
	if f.Location == "" {
		return ErrEmptyLocation
	}
	if !f.Role.IsValid() {
		return ErrInvalidRole
	}

	if f.Password != "" {
		return ValidatePassword(f.Password)
	}
	if f.HashedPassword == "" {
		return ErrEmptyPassword
	}
	return nil
}

// ValidatePassword enforces the password length bounds.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return ErrEmptyPassword
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return strings.Contains(email[at+1:], ".")
}
