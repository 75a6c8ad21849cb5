// services/volume_aggregator.go
package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VolumeAggregator computes team business volume: the sum of qualifying
// investment principals plus paid repayment amounts across a member and
// all of their recruitment descendants. Amounts stay decimal end to end;
// rounding happens only where figures leave the engine.
type VolumeAggregator struct {
	tree    *TreeResolver
	volumes VolumeSource
}

func NewVolumeAggregator(tree *TreeResolver, volumes VolumeSource) *VolumeAggregator {
	return &VolumeAggregator{tree: tree, volumes: volumes}
}

// TeamVolume sums the business volume of memberID and every descendant
// inside the optional [from, to] window. With both bounds nil the sum is
// all-time; with only to set it is all activity through that instant,
// which is the usual "as of end of month" call.
func (a *VolumeAggregator) TeamVolume(ctx context.Context, memberID primitive.ObjectID, from, to *time.Time) (decimal.Decimal, error) {
	ids, err := a.tree.DescendantIDs(ctx, memberID)
	if err != nil {
		return decimal.Zero, err
	}
	ids = append(ids, memberID)
	return a.MemberSetVolume(ctx, ids, from, to)
}

// MemberSetVolume sums investment and repayment volume for an explicit
// member set. The leg analyzer uses it to price a branch without walking
// the tree twice.
func (a *VolumeAggregator) MemberSetVolume(ctx context.Context, memberIDs []primitive.ObjectID, from, to *time.Time) (decimal.Decimal, error) {
	if len(memberIDs) == 0 {
		return decimal.Zero, nil
	}

	invested, err := a.volumes.InvestmentVolume(ctx, memberIDs, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	repaid, err := a.volumes.RepaymentVolume(ctx, memberIDs, from, to)
	if err != nil {
		return decimal.Zero, err
	}

	return invested.Add(repaid), nil
}
