package athlete

import (
	"strings"
	"time"
)

type Discipline struct {
	Name string
	Code string
}

type Team struct {
	Name string
}

type SocialHandles struct {
	Facebook  string
	Instagram string
	LinkedIn  string
	Twitter   string
}

type PhysicalAttributes struct {
	HeightCM     *float64
	WeightKG     *float64
	DominantHand string
}

type FederationAffiliation struct {
	AthleteIDWithinFederation string
	BodyName                  string
	BodyURL                   string
}

// Athlete is the canonical athlete record. Only HeroImage and CoverImage are
// written by this service.
type Athlete struct {
	ID                     string
	DisplayName            string
	FirstName              string
	LastName               string
	DateOfBirth            *time.Time
	DateOfBirthRaw         string
	YearOfBirth            int
	Nationality            string
	Gender                 string
	Disciplines            []Discipline
	Teams                  []Team
	FederationAffiliations []FederationAffiliation
	Events                 []string
	SocialHandles          SocialHandles
	PhysicalAttributes     PhysicalAttributes
	HeroImage              string
	CoverImage             string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Name returns the best available human readable name.
func (a Athlete) Name() string {
	if name := strings.TrimSpace(a.DisplayName); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
}

// ImageField names one of the scalar finalized image slots.
type ImageField string

const (
	ImageFieldHero  ImageField = "hero"
	ImageFieldCover ImageField = "cover"
)

func (f ImageField) Valid() bool {
	return f == ImageFieldHero || f == ImageFieldCover
}
