package gallery

import "context"

type Repository interface {
	// AppendIfAbsent inserts entry unless the athlete already has an entry with
	// the same OriginalURL. appended reports whether a new entry was written.
	AppendIfAbsent(ctx context.Context, entry Entry) (appended bool, err error)
	ListByAthlete(ctx context.Context, athleteID string) ([]Entry, error)
}
