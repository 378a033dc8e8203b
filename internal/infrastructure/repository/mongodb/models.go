package mongodb

import (
	"time"

	"github.com/riskibarqy/athlete-imagery/internal/domain/athlete"
	"github.com/riskibarqy/athlete-imagery/internal/domain/candidate"
	"github.com/riskibarqy/athlete-imagery/internal/domain/gallery"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	CollectionAthletes   = "athletes"
	CollectionCandidates = "scraped_image_urls"
	CollectionGallery    = "gallery_images"
)

// Field names of the athlete image slots. cover lives in image_url for
// compatibility with records written before the hero slot existed.
const (
	fieldHeroImage  = "hero_image"
	fieldCoverImage = "image_url"
)

type disciplineDocument struct {
	Name string `bson:"name"`
	Code string `bson:"code"`
}

type teamDocument struct {
	Name string `bson:"name"`
}

type federationAffiliationDocument struct {
	AthleteIDWithinFederation string `bson:"athlete_id_within_federation"`
	BodyName                  string `bson:"body_name"`
	BodyURL                   string `bson:"body_url"`
}

type socialHandlesDocument struct {
	Facebook  string `bson:"facebook,omitempty"`
	Instagram string `bson:"instagram,omitempty"`
	LinkedIn  string `bson:"linkedIn,omitempty"`
	Twitter   string `bson:"twitter,omitempty"`
}

type physicalAttributesDocument struct {
	Height       *float64 `bson:"height,omitempty"`
	Weight       *float64 `bson:"weight,omitempty"`
	DominantHand string   `bson:"dominant_hand,omitempty"`
}

type athleteDocument struct {
	ID                     bson.ObjectID                   `bson:"_id"`
	DisplayName            string                          `bson:"display_name"`
	FirstName              string                          `bson:"first_name"`
	LastName               string                          `bson:"last_name"`
	Disciplines            []disciplineDocument            `bson:"disciplines,omitempty"`
	Teams                  []teamDocument                  `bson:"teams,omitempty"`
	DateOfBirth            *time.Time                      `bson:"date_of_birth,omitempty"`
	DateOfBirthRaw         string                          `bson:"date_of_birth_raw,omitempty"`
	YearOfBirth            int                             `bson:"year_of_birth,omitempty"`
	Nationality            string                          `bson:"nationality,omitempty"`
	Gender                 string                          `bson:"gender,omitempty"`
	Events                 []string                        `bson:"events,omitempty"`
	FederationAffiliations []federationAffiliationDocument `bson:"federation_affiliations,omitempty"`
	SocialHandles          socialHandlesDocument           `bson:"social_handles"`
	PhysicalAttributes     physicalAttributesDocument      `bson:"physical_attributes"`
	HeroImage              string                          `bson:"hero_image,omitempty"`
	CoverImage             string                          `bson:"image_url,omitempty"`
	CreatedAt              time.Time                       `bson:"created_at"`
	UpdatedAt              time.Time                       `bson:"updated_at"`
}

func (d athleteDocument) toDomain() athlete.Athlete {
	out := athlete.Athlete{
		ID:             d.ID.Hex(),
		DisplayName:    d.DisplayName,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		DateOfBirth:    d.DateOfBirth,
		DateOfBirthRaw: d.DateOfBirthRaw,
		YearOfBirth:    d.YearOfBirth,
		Nationality:    d.Nationality,
		Gender:         d.Gender,
		Events:         append([]string(nil), d.Events...),
		SocialHandles: athlete.SocialHandles{
			Facebook:  d.SocialHandles.Facebook,
			Instagram: d.SocialHandles.Instagram,
			LinkedIn:  d.SocialHandles.LinkedIn,
			Twitter:   d.SocialHandles.Twitter,
		},
		PhysicalAttributes: athlete.PhysicalAttributes{
			HeightCM:     d.PhysicalAttributes.Height,
			WeightKG:     d.PhysicalAttributes.Weight,
			DominantHand: d.PhysicalAttributes.DominantHand,
		},
		HeroImage:  d.HeroImage,
		CoverImage: d.CoverImage,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	for _, disc := range d.Disciplines {
		out.Disciplines = append(out.Disciplines, athlete.Discipline{Name: disc.Name, Code: disc.Code})
	}
	for _, t := range d.Teams {
		out.Teams = append(out.Teams, athlete.Team{Name: t.Name})
	}
	for _, f := range d.FederationAffiliations {
		out.FederationAffiliations = append(out.FederationAffiliations, athlete.FederationAffiliation{
			AthleteIDWithinFederation: f.AthleteIDWithinFederation,
			BodyName:                  f.BodyName,
			BodyURL:                   f.BodyURL,
		})
	}
	return out
}

type candidateImageDocument struct {
	URL    string `bson:"url"`
	Text   string `bson:"text,omitempty"`
	Source string `bson:"source,omitempty"`
}

type candidateDocument struct {
	ID               bson.ObjectID            `bson:"_id"`
	AthleteID        bson.ObjectID            `bson:"athlete_id"`
	AthleteName      string                   `bson:"athlete_name"`
	Discipline       string                   `bson:"discipline,omitempty"`
	ImageURLs        []candidateImageDocument `bson:"image_urls"`
	TotalImagesFound int                      `bson:"total_images_found"`
	CreatedAt        time.Time                `bson:"created_at"`
	UpdatedAt        time.Time                `bson:"updated_at"`
}

func (d candidateDocument) toDomain() candidate.Set {
	images := make([]candidate.Image, 0, len(d.ImageURLs))
	for _, img := range d.ImageURLs {
		images = append(images, candidate.Image{URL: img.URL, Text: img.Text, Source: img.Source})
	}
	return candidate.Set{
		ID:               d.ID.Hex(),
		AthleteID:        d.AthleteID.Hex(),
		AthleteName:      d.AthleteName,
		Discipline:       d.Discipline,
		Images:           images,
		TotalImagesFound: d.TotalImagesFound,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

type galleryDocument struct {
	ID          bson.ObjectID `bson:"_id"`
	AthleteID   bson.ObjectID `bson:"athlete_id"`
	AthleteName string        `bson:"athlete_name,omitempty"`
	URL         string        `bson:"url"`
	OriginalURL string        `bson:"original_url"`
	Source      string        `bson:"source,omitempty"`
	Text        string        `bson:"text,omitempty"`
	SelectedAt  time.Time     `bson:"selected_at"`
	CreatedAt   time.Time     `bson:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt"`
}

func (d galleryDocument) toDomain() gallery.Entry {
	return gallery.Entry{
		ID:          d.ID.Hex(),
		AthleteID:   d.AthleteID.Hex(),
		AthleteName: d.AthleteName,
		URL:         d.URL,
		OriginalURL: d.OriginalURL,
		Source:      d.Source,
		Text:        d.Text,
		SelectedAt:  d.SelectedAt,
		CreatedAt:   d.CreatedAt,
	}
}

func galleryToDomain(docs []galleryDocument) []gallery.Entry {
	out := make([]gallery.Entry, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out
}
