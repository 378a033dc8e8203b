package mongodb

import (
	"context"
	"fmt"

	"github.com/riskibarqy/athlete-imagery/internal/domain/review"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ReviewRepository pages candidate sets and left-joins athletes and gallery
// entries inside one aggregation.
type ReviewRepository struct {
	coll *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{coll: db.Collection(CollectionCandidates)}
}

type reviewRowDocument struct {
	candidateDocument `bson:",inline"`
	Athlete           []athleteDocument `bson:"athlete"`
	Gallery           []galleryDocument `bson:"gallery"`
}

func reviewPipeline(skip, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$skip", Value: int64(skip)}},
		{{Key: "$limit", Value: int64(limit)}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: CollectionAthletes},
			{Key: "localField", Value: "athlete_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "athlete"},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: CollectionGallery},
			{Key: "localField", Value: "athlete_id"},
			{Key: "foreignField", Value: "athlete_id"},
			{Key: "as", Value: "gallery"},
		}}},
	}
}

func (r *ReviewRepository) ListPage(ctx context.Context, skip, limit int) ([]review.Row, error) {
	if limit <= 0 {
		return []review.Row{}, nil
	}
	if skip < 0 {
		skip = 0
	}

	cursor, err := r.coll.Aggregate(ctx, reviewPipeline(skip, limit))
	if err != nil {
		return nil, fmt.Errorf("aggregate review page: %w", err)
	}

	var docs []reviewRowDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode review page: %w", err)
	}

	rows := make([]review.Row, 0, len(docs))
	for _, d := range docs {
		row := review.Row{
			Candidate: d.candidateDocument.toDomain(),
			Gallery:   galleryToDomain(d.Gallery),
		}
		if len(d.Athlete) > 0 {
			a := d.Athlete[0].toDomain()
			row.Athlete = &a
		}
		rows = append(rows, row)
	}

	return rows, nil
}
