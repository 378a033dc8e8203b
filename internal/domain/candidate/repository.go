package candidate

import "context"

type Repository interface {
	Count(ctx context.Context) (int64, error)
	// SearchByName matches athlete_name case-insensitively as a substring.
	SearchByName(ctx context.Context, query string, limit int) ([]Set, error)
}
