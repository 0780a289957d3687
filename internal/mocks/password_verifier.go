package mocks

import "github.com/agrinathi/agrinathi-api/internal/service/auth"

// MockPasswordVerifier is a hand-written auth.PasswordVerifier.
type MockPasswordVerifier struct {
	// ShouldSucceed makes Compare accept any password when CompareFn is nil.
	ShouldSucceed bool
	CompareFn     func(hashedPassword, password string) error

	Calls int
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Compare implements auth.PasswordVerifier.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.Calls++
	switch {
	case m.CompareFn != nil:
		return m.CompareFn(hashedPassword, password)
	case m.ShouldSucceed:
		return nil
	default:
		return auth.ErrPasswordMismatch
	}
}
