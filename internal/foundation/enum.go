// Package foundation holds small generic helpers shared by configuration code.
package foundation

import (
	"strings"
)

// Normalizer maps loosely written configuration values (any case, surrounding
// space, aliases) onto a closed set of values.
type Normalizer[T comparable] struct {
	values map[string]T
}

// NewNormalizer builds a normalizer from spelling -> value pairs. Keys are
// matched case-insensitively.
func NewNormalizer[T comparable](values map[string]T) *Normalizer[T] {
	n := &Normalizer[T]{values: make(map[string]T, len(values))}
	for k, v := range values {
		n.values[fold(k)] = v
	}
	return n
}

// Lookup returns the value for raw and whether it was recognised.
func (n *Normalizer[T]) Lookup(raw string) (T, bool) {
	v, ok := n.values[fold(raw)]
	return v, ok
}

// Normalize returns the value for raw, or the zero value when unrecognised.
func (n *Normalizer[T]) Normalize(raw string) T {
	v, _ := n.Lookup(raw)
	return v
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
