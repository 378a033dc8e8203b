package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/athlete-imagery/internal/domain/athlete"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type AthleteRepository struct {
	coll *mongo.Collection
}

func NewAthleteRepository(db *mongo.Database) *AthleteRepository {
	return &AthleteRepository{coll: db.Collection(CollectionAthletes)}
}

func (r *AthleteRepository) GetByID(ctx context.Context, id string) (athlete.Athlete, bool, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return athlete.Athlete{}, false, nil
	}

	var doc athleteDocument
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return athlete.Athlete{}, false, nil
	}
	if err != nil {
		return athlete.Athlete{}, false, fmt.Errorf("find athlete by id: %w", err)
	}

	return doc.toDomain(), true, nil
}

func (r *AthleteRepository) SetImage(ctx context.Context, id string, field athlete.ImageField, url string, updatedAt time.Time) (bool, error) {
	var column string
	switch field {
	case athlete.ImageFieldHero:
		column = fieldHeroImage
	case athlete.ImageFieldCover:
		column = fieldCoverImage
	default:
		return false, fmt.Errorf("unsupported image field %q", field)
	}

	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: column, Value: url},
			{Key: "updated_at", Value: updatedAt},
		}}},
	)
	if err != nil {
		return false, fmt.Errorf("update athlete %s: %w", column, err)
	}

	return res.MatchedCount > 0, nil
}
