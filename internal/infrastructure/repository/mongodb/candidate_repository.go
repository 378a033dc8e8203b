package mongodb

import (
	"context"
	"fmt"
	"regexp"

	"github.com/riskibarqy/athlete-imagery/internal/domain/candidate"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type CandidateRepository struct {
	coll *mongo.Collection
}

func NewCandidateRepository(db *mongo.Database) *CandidateRepository {
	return &CandidateRepository{coll: db.Collection(CollectionCandidates)}
}

func (r *CandidateRepository) Count(ctx context.Context) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count candidate sets: %w", err)
	}
	return total, nil
}

func (r *CandidateRepository) SearchByName(ctx context.Context, query string, limit int) ([]candidate.Set, error) {
	filter := bson.D{{Key: "athlete_name", Value: bson.Regex{
		Pattern: regexp.QuoteMeta(query),
		Options: "i",
	}}}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("search candidate sets: %w", err)
	}

	var docs []candidateDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode candidate sets: %w", err)
	}

	out := make([]candidate.Set, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
