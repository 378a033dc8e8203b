package candidate

import "time"

// Image is one scraped candidate image.
type Image struct {
	URL    string
	Text   string
	Source string
}

// Set is the scraper output for one athlete. Read-only for this service.
type Set struct {
	ID               string
	AthleteID        string
	AthleteName      string
	Discipline       string
	Images           []Image
	TotalImagesFound int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
