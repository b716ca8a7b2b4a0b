package auth

import (
	"golang.org/x/crypto/bcrypt"

	apperrors "cozinhai/internal/errors"
)

const bcryptCost = 10

// bcrypt only reads the first 72 bytes of its input.
const bcryptMaxInput = 72

// Salt derives the per-user salt from the (normalized) email.
//
// The salt is deterministic and depends on a public field. It is kept for
// compatibility with hashes already on file; bcrypt's own random salt still
// applies on top of it.
func Salt(email string) string {
	return email + "$"
}

// FitsHashInput reports whether Salt(email)+password is short enough for
// bcrypt to read all of it.
func FitsHashInput(email, password string) bool {
	return len(Salt(email))+len(password) <= bcryptMaxInput
}

// HashPassword returns the bcrypt hash of Salt(email)+password. Inputs bcrypt
// would truncate are refused with ErrPasswordTooLong.
func HashPassword(email, password string) (string, error) {
	if !FitsHashInput(email, password) {
		return "", apperrors.ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(Salt(email)+password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword reports whether password matches hash for the given email.
// The comparison is constant time. Overlong inputs never match, since bcrypt
// would only see a prefix of them.
func ComparePassword(hash, email, password string) bool {
	if !FitsHashInput(email, password) {
		CompareDummy(password)
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(Salt(email)+password)) == nil
}

// dummyHash is compared against when no user exists so that unknown emails
// cost the same as wrong passwords.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("cozinhai-dummy-password"), bcryptCost)

// CompareDummy burns one bcrypt comparison and always reports false.
func CompareDummy(password string) bool {
	in := []byte(password)
	if len(in) > bcryptMaxInput {
		in = in[:bcryptMaxInput]
	}
	_ = bcrypt.CompareHashAndPassword(dummyHash, in)
	return false
}
