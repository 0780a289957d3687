package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func validFarmerParams() NewFarmerParams {
	return NewFarmerParams{
		FirstName: "Thandi",
		LastName:  "Mkhize",
		Email:     "  Thandi@Example.CO.ZA ",
		Password:  "secret1",
		Phone:     "0821234567",
		Location:  "Pietermaritzburg",
		FarmSize:  "5 hectares",
	}
}

func TestNewFarmer(t *testing.T) {
	f, err := NewFarmer(validFarmerParams())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if f.ID == uuid.Nil {
		t.Error("Expected non-nil UUID")
	}
	if f.Email != "thandi@example.co.za" {
		t.Errorf("Expected normalized email, got %q", f.Email)
	}
	if f.Role != RoleUser {
		t.Errorf("Expected role %q, got %q", RoleUser, f.Role)
	}
	if f.LastLoginAt != nil {
		t.Error("Expected no last login on registration")
	}
	if f.RegisteredAt.IsZero() {
		t.Error("Expected registration date to be set")
	}
	if f.FullName() != "Thandi Mkhize" {
		t.Errorf("Unexpected full name %q", f.FullName())
	}
}

func TestNewFarmerValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *NewFarmerParams)
		want   error
	}{
		{"missing first name", func(p *NewFarmerParams) { p.FirstName = " " }, ErrEmptyFirstName},
		{"missing last name", func(p *NewFarmerParams) { p.LastName = "" }, ErrEmptyLastName},
		{"missing email", func(p *NewFarmerParams) { p.Email = "" }, ErrEmptyEmail},
		{"bad email", func(p *NewFarmerParams) { p.Email = "thandi" }, ErrInvalidEmail},
		{"email without domain dot", func(p *NewFarmerParams) { p.Email = "thandi@localhost" }, ErrInvalidEmail},
		{"missing phone", func(p *NewFarmerParams) { p.Phone = "" }, ErrEmptyPhone},
		{"missing location", func(p *NewFarmerParams) { p.Location = "" }, ErrEmptyLocation},
		{"short password", func(p *NewFarmerParams) { p.Password = "abc12" }, ErrPasswordTooShort},
		{"long password", func(p *NewFarmerParams) { p.Password = strings.Repeat("a", 73) }, ErrPasswordTooLong},
		{"missing password", func(p *NewFarmerParams) { p.Password = "" }, ErrEmptyPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validFarmerParams()
			tt.mutate(&p)
			_, err := NewFarmer(p)
			if err != tt.want {
				t.Errorf("Expected error %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFarmerValidateStoredFarmer(t *testing.T) {
	f := Farmer{
		ID:             uuid.New(),
		FirstName:      "Sipho",
		LastName:       "Dlamini",
		Email:          "sipho@example.com",
		Phone:          "0831234567",
		Location:       "Durban",
		Role:           RoleAdmin,
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Expected stored farmer to validate, got %v", err)
	}
	if !f.IsAdmin() {
		t.Error("Expected admin role")
	}

	f.Role = "superuser"
	if err := f.Validate(); err != ErrInvalidRole {
		t.Errorf("Expected %v, got %v", ErrInvalidRole, err)
	}
}
