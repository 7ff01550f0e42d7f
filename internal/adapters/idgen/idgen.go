// Package idgen generates human-readable attendee codes backed by nanoid.
package idgen

import (
	"fmt"
	"regexp"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Digits is the alphabet of the random portion of a code.
const Digits = "0123456789"

// DefaultLength is the number of random digits after the prefix.
const DefaultLength = 5

// CodeGenerator produces codes of the form PREFIX-NNNNN.
type CodeGenerator struct {
	prefix  string
	length  int
	pattern *regexp.Regexp
}

// NewCodeGenerator returns a CodeGenerator for prefix with DefaultLength digits.
func NewCodeGenerator(prefix string) *CodeGenerator {
	return &CodeGenerator{
		prefix:  prefix,
		length:  DefaultLength,
		pattern: regexp.MustCompile(fmt.Sprintf(`^%s-\d{%d}$`, regexp.QuoteMeta(prefix), DefaultLength)),
	}
}

// Generate returns a new random code.
func (g *CodeGenerator) Generate() (string, error) {
	id, err := nanoid.Generate(Digits, g.length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return g.prefix + "-" + id, nil
}

// Pattern returns the regular expression every generated code matches.
func (g *CodeGenerator) Pattern() string {
	return g.pattern.String()
}

// Valid reports whether s has the shape of a generated code.
func (g *CodeGenerator) Valid(s string) bool {
	return g.pattern.MatchString(s)
}
