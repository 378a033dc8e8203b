package review

import "context"

type Repository interface {
	// ListPage returns candidate sets in natural order with their joins.
	ListPage(ctx context.Context, skip, limit int) ([]Row, error)
}
