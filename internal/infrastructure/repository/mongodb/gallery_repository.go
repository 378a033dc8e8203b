package mongodb

import (
	"context"
	"fmt"

	"github.com/riskibarqy/athlete-imagery/internal/domain/gallery"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type GalleryRepository struct {
	coll *mongo.Collection
}

func NewGalleryRepository(db *mongo.Database) *GalleryRepository {
	return &GalleryRepository{coll: db.Collection(CollectionGallery)}
}

// AppendIfAbsent is a single conditional upsert keyed on athlete and source
// URL, so an existing entry is never modified.
func (r *GalleryRepository) AppendIfAbsent(ctx context.Context, entry gallery.Entry) (bool, error) {
	athleteID, err := bson.ObjectIDFromHex(entry.AthleteID)
	if err != nil {
		return false, fmt.Errorf("parse athlete id %q: %w", entry.AthleteID, err)
	}

	filter := bson.D{
		{Key: "athlete_id", Value: athleteID},
		{Key: "original_url", Value: entry.OriginalURL},
	}
	update := bson.D{{Key: "$setOnInsert", Value: bson.D{
		{Key: "athlete_name", Value: entry.AthleteName},
		{Key: "url", Value: entry.URL},
		{Key: "source", Value: entry.Source},
		{Key: "text", Value: entry.Text},
		{Key: "selected_at", Value: entry.SelectedAt},
		{Key: "createdAt", Value: entry.CreatedAt},
		{Key: "updatedAt", Value: entry.CreatedAt},
	}}}

	res, err := r.coll.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("upsert gallery entry: %w", err)
	}

	return res.UpsertedCount > 0, nil
}

func (r *GalleryRepository) ListByAthlete(ctx context.Context, athleteID string) ([]gallery.Entry, error) {
	oid, err := bson.ObjectIDFromHex(athleteID)
	if err != nil {
		return []gallery.Entry{}, nil
	}

	cursor, err := r.coll.Find(ctx,
		bson.D{{Key: "athlete_id", Value: oid}},
		options.Find().SetSort(bson.D{{Key: "selected_at", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find gallery entries: %w", err)
	}

	var docs []galleryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode gallery entries: %w", err)
	}

	return galleryToDomain(docs), nil
}
