package crypto

import (
	"errors"
	"strings"
)

const (
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars     = "0123456789"
	// symbolChars is every printable ASCII punctuation character. Keep it
	// stable: the default pool size (94) depends on it.
	symbolChars = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

	DefaultLength = 16
)

var ErrEmptyCharset = errors.New("character set is empty")

// CharacterClass identifies one of the fixed character sets a pool is built from.
type CharacterClass int

const (
	Lowercase CharacterClass = iota
	Uppercase
	Digits
	Symbols
)

// Chars returns the literal characters of the class, in order.
func (c CharacterClass) Chars() string {
	switch c {
	case Lowercase:
		return lowercaseChars
	case Uppercase:
		return uppercaseChars
	case Digits:
		return digitChars
	case Symbols:
		return symbolChars
	}
	return ""
}

func (c CharacterClass) String() string {
	switch c {
	case Lowercase:
		return "lowercase"
	case Uppercase:
		return "uppercase"
	case Digits:
		return "digits"
	case Symbols:
		return "symbols"
	}
	return "unknown"
}

// Policy describes which character classes a password may draw from.
type Policy struct {
	Length         int
	IncludeSymbols bool
	IncludeNumbers bool
	LettersOnly    bool
}

// DefaultPolicy returns 16 characters drawn from letters, digits and symbols.
func DefaultPolicy() Policy {
	return Policy{
		Length:         DefaultLength,
		IncludeSymbols: true,
		IncludeNumbers: true,
	}
}

// Classes resolves the policy into the ordered list of classes to draw from.
// LettersOnly wins over the include flags.
func (p Policy) Classes() []CharacterClass {
	classes := []CharacterClass{Lowercase, Uppercase}
	if p.LettersOnly {
		return classes
	}
	if p.IncludeNumbers {
		classes = append(classes, Digits)
	}
	if p.IncludeSymbols {
		classes = append(classes, Symbols)
	}
	return classes
}

// CharPool is an immutable ordered set of distinct characters eligible for
// selection.
type CharPool struct {
	chars string
}

// NewCharPool concatenates the given classes, dropping any character already
// present. It fails with ErrEmptyCharset if nothing remains.
func NewCharPool(classes ...CharacterClass) (CharPool, error) {
	var sb strings.Builder
	var seen [256]bool

	for _, class := range classes {
		chars := class.Chars()
		for i := 0; i < len(chars); i++ {
			if seen[chars[i]] {
				continue
			}
			seen[chars[i]] = true
			sb.WriteByte(chars[i])
		}
	}

	if sb.Len() == 0 {
		return CharPool{}, ErrEmptyCharset
	}
	return CharPool{chars: sb.String()}, nil
}

// BuildCharPool resolves a policy into its character pool.
func BuildCharPool(policy Policy) (CharPool, error) {
	return NewCharPool(policy.Classes()...)
}

// Len returns the number of characters in the pool.
func (p CharPool) Len() int {
	return len(p.chars)
}

// Contains reports whether r is a member of the pool.
func (p CharPool) Contains(r rune) bool {
	return strings.ContainsRune(p.chars, r)
}

func (p CharPool) String() string {
	return p.chars
}
