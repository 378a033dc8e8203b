package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ObjectNamer names hosted objects. Names must be unique per call and safe to
// use as a single path segment.
type ObjectNamer interface {
	ObjectName(owner string) (string, error)
}

// TimeOrderedNamer prefixes a UUIDv7 with the sanitized owner, so objects of
// one athlete list together in upload order.
type TimeOrderedNamer struct {
	newUUID func() (uuid.UUID, error)
}

func NewTimeOrderedNamer() *TimeOrderedNamer {
	return &TimeOrderedNamer{newUUID: uuid.NewV7}
}

func (n *TimeOrderedNamer) ObjectName(owner string) (string, error) {
	value, err := n.newUUID()
	if err != nil {
		return "", fmt.Errorf("generate object id: %w", err)
	}

	owner = SanitizeSegment(owner)
	if owner == "" {
		return value.String(), nil
	}
	return owner + "_" + value.String(), nil
}

// SanitizeSegment keeps ASCII letters, digits, '-' and '_' and replaces
// everything else with '_'.
func SanitizeSegment(v string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(v))
}
