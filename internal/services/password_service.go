package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordService hashes and verifies passwords with bcrypt
type PasswordService struct {
	cost int
}

// NewPasswordService creates a hasher with the given bcrypt cost
func NewPasswordService(cost int) *PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordService{cost: cost}
}

// Hash returns a freshly salted digest of password
func (s *PasswordService) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", &HashingError{Err: err}
	}
	return string(digest), nil
}

// Verify reports whether password matches digest. A wrong password is (false, nil);
// a digest bcrypt cannot read is a HashingError.
func (s *PasswordService) Verify(password, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, &HashingError{Err: err}
	}
}
