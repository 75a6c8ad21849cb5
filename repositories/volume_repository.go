package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ascentium/clubbonus_backend/config"
	"github.com/ascentium/clubbonus_backend/models"
)

// VolumeRepository sums business volume server-side with aggregation
// pipelines, so the engine never pages transaction documents into memory.
type VolumeRepository struct {
	investments *mongo.Collection
	repayments  *mongo.Collection
}

func NewVolumeRepository(db *mongo.Client) *VolumeRepository {
	return &VolumeRepository{
		investments: config.GetCollection(db, "investments"),
		repayments:  config.GetCollection(db, "repayments"),
	}
}

// InvestmentVolume sums principals of volume-counting investments made by
// the given members, windowed on createdAt.
func (r *VolumeRepository) InvestmentVolume(ctx context.Context, memberIDs []primitive.ObjectID, from, to *time.Time) (decimal.Decimal, error) {
	match := bson.M{
		"memberId": bson.M{"$in": memberIDs},
		"status":   bson.M{"$in": models.VolumeCountingInvestmentStatuses},
	}
	if window := dateWindow(from, to); window != nil {
		match["createdAt"] = window
	}
	return r.sumAmounts(ctx, r.investments, match, "$amount")
}

// RepaymentVolume sums PAID repayment amounts attributed to the given
// members, windowed on the repayment's own paid date.
func (r *VolumeRepository) RepaymentVolume(ctx context.Context, memberIDs []primitive.ObjectID, from, to *time.Time) (decimal.Decimal, error) {
	match := bson.M{
		"memberId": bson.M{"$in": memberIDs},
		"status":   models.RepaymentStatusPaid,
	}
	if window := dateWindow(from, to); window != nil {
		match["paidAt"] = window
	}
	return r.sumAmounts(ctx, r.repayments, match, "$paidAmount")
}

func (r *VolumeRepository) sumAmounts(ctx context.Context, coll *mongo.Collection, match bson.M, field string) (decimal.Decimal, error) {
	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": field},
		}},
	}

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return decimal.Zero, fmt.Errorf("aggregating %s volume: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	// No matching documents means zero volume, not an error.
	if !cursor.Next(ctx) {
		return decimal.Zero, cursor.Err()
	}

	var result struct {
		Total primitive.Decimal128 `bson:"total"`
	}
	if err := cursor.Decode(&result); err != nil {
		return decimal.Zero, err
	}
	return models.ToDecimal(result.Total), nil
}

func dateWindow(from, to *time.Time) bson.M {
	if from == nil && to == nil {
		return nil
	}
	window := bson.M{}
	if from != nil {
		window["$gte"] = *from
	}
	if to != nil {
		window["$lte"] = *to
	}
	return window
}
