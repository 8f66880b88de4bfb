package mocks

import "errors"

// MockPasswordVerifier implements auth.PasswordVerifier. With no CompareFn
// set, Compare succeeds or fails according to ShouldSucceed.
type MockPasswordVerifier struct {
	ShouldSucceed bool
	CompareFn     func(hashedPassword, password string) error

	CompareCallCount  int
	CompareCalledWith struct {
		HashedPassword string
		Password       string
	}
}

func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.CompareCallCount++
	m.CompareCalledWith.HashedPassword = hashedPassword
	m.CompareCalledWith.Password = password

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return errors.New("password mismatch")
}
