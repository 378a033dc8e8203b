package gallery

import "time"

// Entry is one finalized gallery image. (AthleteID, OriginalURL) is unique per
// athlete by construction of AppendIfAbsent.
type Entry struct {
	ID          string
	AthleteID   string
	AthleteName string
	URL         string
	OriginalURL string
	Source      string
	Text        string
	SelectedAt  time.Time
	CreatedAt   time.Time
}
