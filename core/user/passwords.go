package user

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/rubrica/core"
)

// Passwords turns a password into its stored form and checks candidates against it.
type Passwords interface {
	Hash(pwd string) (string, error)
	Check(stored, pwd string) bool
}

// PlainPasswords stores and compares passwords as-is.
type PlainPasswords struct{}

func (PlainPasswords) Hash(pwd string) (string, error) { return pwd, nil }
func (PlainPasswords) Check(stored, pwd string) bool   { return stored == pwd }

// BcryptPasswords stores bcrypt hashes.
type BcryptPasswords struct {
	Cost int
}

func (p BcryptPasswords) Hash(pwd string) (string, error) {
	cost := p.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (BcryptPasswords) Check(stored, pwd string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(pwd)) == nil
}

// NewPasswords picks the password scheme from conf.
func NewPasswords(conf *core.Config) Passwords {
	if conf.Auth.HashPasswords {
		return BcryptPasswords{}
	}
	return PlainPasswords{}
}
