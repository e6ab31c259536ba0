// Package commit holds the conventional-commit vocabulary used by ai-commit.
package commit

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Type is a conventional-commit category token.
type Type string

// Conventional commit types, in the order they are offered to the user.
const (
	Feat     Type = "feat"
	Fix      Type = "fix"
	Docs     Type = "docs"
	Style    Type = "style"
	Refactor Type = "refactor"
	Test     Type = "test"
	Chore    Type = "chore"
)

// Types is the closed set of commit types. Index i is presented to users as i+1.
var Types = []Type{Feat, Fix, Docs, Style, Refactor, Test, Chore}

// ErrUnknownType is returned when a value is not one of Types.
var ErrUnknownType = errors.New("unknown commit type")

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// Valid reports whether t belongs to Types.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Names returns the commit types as plain strings.
func Names() []string {
	names := make([]string, 0, len(Types))
	for _, t := range Types {
		names = append(names, string(t))
	}
	return names
}

// ParseType validates value against Types.
func ParseType(value string) (Type, error) {
	t := Type(strings.TrimSpace(value))
	if !t.Valid() {
		return "", errors.Wrapf(ErrUnknownType, "%q", value)
	}
	return t, nil
}

// TypeFromIndex maps a zero-based index onto Types.
func TypeFromIndex(idx int) (Type, error) {
	if idx < 0 || idx >= len(Types) {
		return "", errors.Wrapf(ErrUnknownType, "index %d", idx)
	}
	return Types[idx], nil
}

// Compose builds the full commit message "<type>: <message>".
func Compose(t Type, message string) string {
	return string(t) + ": " + message
}
