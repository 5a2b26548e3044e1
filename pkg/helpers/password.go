package helpers

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// dummyHash has the same cost as stored hashes.
var dummyHash = sync.OnceValue(func() string {
	h, err := HashPassword("no-such-account")
	if err != nil {
		panic(err)
	}
	return h
})

// CompareDummy does the bcrypt work of a real comparison and always reports
// false. Logins for unknown emails call it so they take as long as a wrong
// password for a known one.
func CompareDummy(plain string) bool {
	_ = CompareHashAndPassword(dummyHash(), plain)
	return false
}
