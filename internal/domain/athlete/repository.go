package athlete

import (
	"context"
	"time"
)

type Repository interface {
	// GetByID reports ok=false for unknown and malformed ids.
	GetByID(ctx context.Context, id string) (Athlete, bool, error)
	// SetImage overwrites one image slot. It reports ok=false when no athlete matched.
	SetImage(ctx context.Context, id string, field ImageField, url string, updatedAt time.Time) (bool, error)
}
