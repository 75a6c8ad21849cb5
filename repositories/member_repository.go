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

// MemberRepository backs the engine's MemberSource with the members
// collection.
type MemberRepository struct {
	collection *mongo.Collection
}

func NewMemberRepository(db *mongo.Client) *MemberRepository {
	return &MemberRepository{
		collection: config.GetCollection(db, "members"),
	}
}

func (r *MemberRepository) GetMember(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	var member models.Member
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, services.ErrMemberNotFound
		}
		return nil, fmt.Errorf("finding member %s: %w", id.Hex(), err)
	}
	return &member, nil
}

// DirectRecruits returns the ids sponsored directly by sponsorID. Only
// ids are projected; the tree walk never needs full documents.
func (r *MemberRepository) DirectRecruits(ctx context.Context, sponsorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"sponsorId": sponsorID},
		options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("finding recruits of %s: %w", sponsorID.Hex(), err)
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cursor.Err()
}

// EligibleMembers returns every member the monthly run considers: ACTIVE
// with KYC APPROVED or VERIFIED.
func (r *MemberRepository) EligibleMembers(ctx context.Context) ([]models.Member, error) {
	filter := bson.M{
		"status":    models.MemberStatusActive,
		"kycStatus": bson.M{"$in": []string{models.KYCStatusApproved, models.KYCStatusVerified}},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("finding eligible members: %w", err)
	}
	defer cursor.Close(ctx)

	var members []models.Member
	if err := cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// GetWallet returns the wallet snapshot used by dashboards.
func (r *MemberRepository) GetWallet(ctx context.Context, id primitive.ObjectID) (*models.WalletResponse, error) {
	member, err := r.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.WalletResponse{
		MemberID:      member.ID,
		MemberCode:    member.MemberCode,
		WalletBalance: models.MoneyString(models.ToDecimal(member.WalletBalance)),
		TotalEarned:   models.MoneyString(models.ToDecimal(member.TotalEarned)),
	}, nil
}
