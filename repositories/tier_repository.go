package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ascentium/clubbonus_backend/config"
	"github.com/ascentium/clubbonus_backend/models"
	"github.com/ascentium/clubbonus_backend/services"
)

// TierRepository backs the engine's TierSource with the club_tiers
// collection.
type TierRepository struct {
	collection *mongo.Collection
}

func NewTierRepository(db *mongo.Client) *TierRepository {
	return &TierRepository{
		collection: config.GetCollection(db, "club_tiers"),
	}
}

func (r *TierRepository) GetTier(ctx context.Context, id primitive.ObjectID) (*models.ClubTier, error) {
	var tier models.ClubTier
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tier)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, services.ErrTierNotFound
		}
		return nil, fmt.Errorf("finding tier %s: %w", id.Hex(), err)
	}
	return &tier, nil
}

// ActiveTiers returns active tiers in display order.
func (r *TierRepository) ActiveTiers(ctx context.Context) ([]models.ClubTier, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"isActive": true},
		options.Find().SetSort(bson.D{{Key: "rank", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("finding active tiers: %w", err)
	}
	defer cursor.Close(ctx)

	var tiers []models.ClubTier
	if err := cursor.All(ctx, &tiers); err != nil {
		return nil, err
	}
	return tiers, nil
}
