package memory

import (
	"time"

	"github.com/riskibarqy/athlete-imagery/internal/domain/athlete"
	"github.com/riskibarqy/athlete-imagery/internal/domain/candidate"
)

const (
	AthleteIDSprinter = "65f0a1c2e4b0a1b2c3d4e5f1"
	AthleteIDSwimmer  = "65f0a1c2e4b0a1b2c3d4e5f2"
	AthleteIDClimber  = "65f0a1c2e4b0a1b2c3d4e5f3"
	// AthleteIDOrphan has a candidate set but no athlete record.
	AthleteIDOrphan = "65f0a1c2e4b0a1b2c3d4e5f4"
)

var seedTime = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

func SeedAthletes() []athlete.Athlete {
	return []athlete.Athlete{
		{
			ID:          AthleteIDSprinter,
			DisplayName: "Lalu Muhammad Zohri",
			FirstName:   "Lalu Muhammad",
			LastName:    "Zohri",
			Nationality: "Indonesia",
			Gender:      "male",
			YearOfBirth: 2000,
			Disciplines: []athlete.Discipline{{Name: "100 Metres", Code: "100M"}},
			Teams:       []athlete.Team{{Name: "Indonesia"}},
			CreatedAt:   seedTime,
			UpdatedAt:   seedTime,
		},
		{
			ID:          AthleteIDSwimmer,
			DisplayName: "Azzahra Permatahani",
			Nationality: "Indonesia",
			Gender:      "female",
			Disciplines: []athlete.Discipline{{Name: "Individual Medley", Code: "IM"}},
			CreatedAt:   seedTime,
			UpdatedAt:   seedTime,
		},
		{
			ID:          AthleteIDClimber,
			DisplayName: "Veddriq Leonardo",
			Nationality: "Indonesia",
			Gender:      "male",
			Disciplines: []athlete.Discipline{{Name: "Speed", Code: "SPD"}},
			Events:      []string{"Paris 2024"},
			CreatedAt:   seedTime,
			UpdatedAt:   seedTime,
		},
	}
}

func SeedCandidates() []candidate.Set {
	return []candidate.Set{
		seedCandidate("cand-001", AthleteIDSprinter, "Lalu Muhammad Zohri", "Athletics", 3),
		seedCandidate("cand-002", AthleteIDSwimmer, "Azzahra Permatahani", "Swimming", 2),
		seedCandidate("cand-003", AthleteIDClimber, "Veddriq Leonardo", "Sport Climbing", 4),
		seedCandidate("cand-004", AthleteIDOrphan, "Rifda Irfanaluthfi", "Artistic Gymnastics", 2),
	}
}

func seedCandidate(id, athleteID, name, discipline string, n int) candidate.Set {
	images := make([]candidate.Image, 0, n)
	for i := 1; i <= n; i++ {
		images = append(images, candidate.Image{
			URL:    "https://picsum.photos/seed/" + id + "-" + string(rune('0'+i)) + "/800/600",
			Text:   name,
			Source: "picsum",
		})
	}
	return candidate.Set{
		ID:               id,
		AthleteID:        athleteID,
		AthleteName:      name,
		Discipline:       discipline,
		Images:           images,
		TotalImagesFound: n,
		CreatedAt:        seedTime,
		UpdatedAt:        seedTime,
	}
}
