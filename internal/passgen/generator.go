// Package passgen generates random passwords from visually unambiguous
// character classes.
package passgen

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/passvault/internal/common"
)

const (
	MinLength     = 8
	MaxLength     = 64
	DefaultLength = 16
)

// Character classes. Look-alikes (I, O, l, o, 0, 1) are left out on purpose
// so generated passwords survive being read aloud or retyped.
const (
	Uppercase = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	Lowercase = "abcdefghijkmnpqrstuvwxyz"
	Numbers   = "23456789"
	Symbols   = "!@#$%&*_-+=?"
)

// Options selects the length and the enabled character classes.
type Options struct {
	Length           int
	IncludeUppercase bool
	IncludeLowercase bool
	IncludeNumbers   bool
	IncludeSymbols   bool
}

// DefaultOptions is 16 characters drawn from every class.
func DefaultOptions() Options {
	return Options{
		Length:           DefaultLength,
		IncludeUppercase: true,
		IncludeLowercase: true,
		IncludeNumbers:   true,
		IncludeSymbols:   true,
	}
}

// Pool concatenates the enabled classes in class order.
func (o Options) Pool() string {
	pool := ""
	if o.IncludeUppercase {
		pool += Uppercase
	}
	if o.IncludeLowercase {
		pool += Lowercase
	}
	if o.IncludeNumbers {
		pool += Numbers
	}
	if o.IncludeSymbols {
		pool += Symbols
	}
	return pool
}

// Generator draws characters from crypto/rand.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns a password of exactly opts.Length characters, each picked
// uniformly and independently from the pool. Class coverage is not
// guaranteed.
func (g *Generator) Generate(opts Options) (string, error) {
	if opts.Length < MinLength || opts.Length > MaxLength {
		return "", fmt.Errorf("%w: password length must be between %d and %d", common.ErrorValidation, MinLength, MaxLength)
	}

	pool := opts.Pool()
	if pool == "" {
		return "", fmt.Errorf("%w: at least one character class must be selected", common.ErrorValidation)
	}

	max := big.NewInt(int64(len(pool)))
	out := make([]byte, opts.Length)

	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("random source error: %w", err)
		}
		out[i] = pool[n.Int64()]
	}

	return string(out), nil
}
