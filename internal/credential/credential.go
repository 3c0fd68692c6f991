// Package credential builds the initial passwords handed to new and reset accounts.
package credential

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Symbols is the set the two trailing characters are drawn from.
const Symbols = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

const (
	suffixLen  = 3
	symbolsLen = 2
)

var (
	ErrEmptyName   = errors.New("credential: name is required")
	ErrShortRollNo  = errors.New("credential: rollNo must have at least 3 characters")
)

// Generator produces passwords from a display name and roll number.
type Generator struct {
	rand io.Reader
}

func NewGenerator() *Generator {
	return &Generator{rand: rand.Reader}
}

// NewGeneratorWithSource is used by tests to make the symbol draw reproducible.
func NewGeneratorWithSource(src io.Reader) *Generator {
	return &Generator{rand: src}
}

// Generate returns Capitalize(first name token) + upper(last 3 of rollNo) + 2 symbols.
func (g *Generator) Generate(name, rollNo string) (string, error) {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return "", ErrEmptyName
	}
	rollNo = strings.TrimSpace(rollNo)
	if utf8.RuneCountInString(rollNo) < suffixLen {
		return "", ErrShortRollNo
	}

	runes := []rune(rollNo)
	var b strings.Builder
	b.WriteString(Capitalize(tokens[0]))
	b.WriteString(strings.ToUpper(string(runes[len(runes)-suffixLen:])))

	max := big.NewInt(int64(len(Symbols)))
	for i := 0; i < symbolsLen; i++ {
		n, err := rand.Int(g.rand, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(Symbols[n.Int64()])
	}

	return b.String(), nil
}

// Generate uses the process-wide crypto/rand source.
func Generate(name, rollNo string) (string, error) {
	return NewGenerator().Generate(name, rollNo)
}

// Capitalize upper-cases the first rune and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
