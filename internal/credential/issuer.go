package credential

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const maxRegenerateAttempts = 16

var ErrNoFreshPassword = errors.New("credential: could not generate a password different from the previous one")

// Issued carries a generated password. Plain is shown to the operator once; only Hash is stored.
type Issued struct {
	Plain string
	Hash  string
}

// Issuer generates passwords and hashes them with bcrypt.
type Issuer struct {
	generator *Generator
	cost      int
}

func NewIssuer(generator *Generator, cost int) *Issuer {
	if generator == nil {
		generator = NewGenerator()
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Issuer{generator: generator, cost: cost}
}

func (i *Issuer) Issue(name, rollNo string) (*Issued, error) {
	plain, err := i.generator.Generate(name, rollNo)
	if err != nil {
		return nil, err
	}
	return i.hash(plain)
}

// Reissue generates passwords until one does not match previousHash.
func (i *Issuer) Reissue(name, rollNo, previousHash string) (*Issued, error) {
	for attempt := 0; attempt < maxRegenerateAttempts; attempt++ {
		plain, err := i.generator.Generate(name, rollNo)
		if err != nil {
			return nil, err
		}
		if Matches(previousHash, plain) {
			continue
		}
		return i.hash(plain)
	}
	return nil, ErrNoFreshPassword
}

func (i *Issuer) hash(plain string) (*Issued, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), i.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &Issued{Plain: plain, Hash: string(hash)}, nil
}

// Matches reports whether plain is the password behind hash.
func Matches(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
