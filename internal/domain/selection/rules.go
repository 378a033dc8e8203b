package selection

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownSlot      = errors.New("unknown image slot")
	ErrEmptySelection   = errors.New("no images selected")
	ErrSlotCardinality  = errors.New("slot accepts exactly one image")
	ErrMissingImageURL  = errors.New("selected image url is required")
	ErrMissingAthleteID = errors.New("athlete id is required")
)

// Slot is a finalization target on an athlete.
type Slot string

const (
	SlotHero    Slot = "hero"
	SlotCover   Slot = "cover"
	SlotGallery Slot = "gallery"
)

// Single reports whether the slot holds exactly one image.
func (s Slot) Single() bool {
	return s == SlotHero || s == SlotCover
}

func (s Slot) Valid() bool {
	switch s {
	case SlotHero, SlotCover, SlotGallery:
		return true
	default:
		return false
	}
}

// Image is an operator-chosen candidate image.
type Image struct {
	URL    string
	Source string
	Text   string
}

// Validate checks a selection request without touching any dependency.
func Validate(slot Slot, athleteID string, images []Image) error {
	if !slot.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	if strings.TrimSpace(athleteID) == "" {
		return ErrMissingAthleteID
	}
	if len(images) == 0 {
		return ErrEmptySelection
	}
	if slot.Single() && len(images) != 1 {
		return fmt.Errorf("%w: %s got %d", ErrSlotCardinality, slot, len(images))
	}
	for i, img := range images {
		if strings.TrimSpace(img.URL) == "" {
			return fmt.Errorf("%w: index %d", ErrMissingImageURL, i)
		}
	}

	return nil
}

// Distinct drops images whose trimmed URL already appeared earlier in the list.
func Distinct(images []Image) []Image {
	seen := make(map[string]struct{}, len(images))
	out := make([]Image, 0, len(images))
	for _, img := range images {
		img.URL = strings.TrimSpace(img.URL)
		if _, ok := seen[img.URL]; ok {
			continue
		}
		seen[img.URL] = struct{}{}
		out = append(out, img)
	}
	return out
}

// IsRuleViolation reports whether err came from Validate.
func IsRuleViolation(err error) bool {
	return errors.Is(err, ErrUnknownSlot) ||
		errors.Is(err, ErrEmptySelection) ||
		errors.Is(err, ErrSlotCardinality) ||
		errors.Is(err, ErrMissingImageURL) ||
		errors.Is(err, ErrMissingAthleteID)
}
