// services/leg_analyzer.go
package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var oneHundred = decimal.NewFromInt(100)

// LegVolume is the team volume of one leg: the subtree rooted at a direct
// recruit, inclusive of the recruit.
type LegVolume struct {
	BranchID primitive.ObjectID `json:"branchId"`
	Volume   decimal.Decimal    `json:"volume"`
}

// BalanceResult is the full breakdown of a balancing-rule check, kept on
// the qualification record for audit.
type BalanceResult struct {
	Passed          bool                `json:"passed"`
	StrongestLeg    *primitive.ObjectID `json:"strongestLeg,omitempty"`
	StrongestVolume decimal.Decimal     `json:"strongestVolume"`
	OtherLegsVolume decimal.Decimal     `json:"otherLegsVolume"`
	StrongPercent   decimal.Decimal     `json:"strongPercent"`
	WeakPercent     decimal.Decimal     `json:"weakPercent"`
	TotalVolume     decimal.Decimal     `json:"totalVolume"`
	Reason          string              `json:"reason,omitempty"`
}

// LegAnalyzer partitions a member's team volume by direct-recruit branch
// and applies the balancing rule against a tier's cap and floor shares.
type LegAnalyzer struct {
	tree    *TreeResolver
	volumes *VolumeAggregator
}

func NewLegAnalyzer(tree *TreeResolver, volumes *VolumeAggregator) *LegAnalyzer {
	return &LegAnalyzer{tree: tree, volumes: volumes}
}

// LegVolumes returns one entry per direct recruit of memberID, priced by
// that branch's own TeamVolume, sorted by volume descending. Ties break
// on the branch id hex so repeated calls order identically. A member with
// no recruits yields an empty list.
func (l *LegAnalyzer) LegVolumes(ctx context.Context, memberID primitive.ObjectID, from, to *time.Time) ([]LegVolume, error) {
	branches, err := l.tree.DirectRecruits(ctx, memberID)
	if err != nil {
		return nil, err
	}

	legs := make([]LegVolume, 0, len(branches))
	for _, branch := range branches {
		volume, err := l.volumes.TeamVolume(ctx, branch, from, to)
		if err != nil {
			return nil, err
		}
		legs = append(legs, LegVolume{BranchID: branch, Volume: volume})
	}

	sort.Slice(legs, func(i, j int) bool {
		if !legs[i].Volume.Equal(legs[j].Volume) {
			return legs[i].Volume.GreaterThan(legs[j].Volume)
		}
		return legs[i].BranchID.Hex() < legs[j].BranchID.Hex()
	})

	return legs, nil
}

// CheckBalance applies the balancing rule: the strongest leg may supply
// at most strongCapPct% of requiredVolume, and the remaining legs
// together must supply at least weakFloorPct% of it. Reported shares are
// computed against the actual leg total, the pass/fail test against
// requiredVolume.
func (l *LegAnalyzer) CheckBalance(ctx context.Context, memberID primitive.ObjectID, requiredVolume, strongCapPct, weakFloorPct decimal.Decimal, from, to *time.Time) (*BalanceResult, error) {
	legs, err := l.LegVolumes(ctx, memberID, from, to)
	if err != nil {
		return nil, err
	}

	if len(legs) == 0 {
		return &BalanceResult{Passed: false, Reason: "no direct recruits"}, nil
	}

	strongest := legs[0]
	others := decimal.Zero
	for _, leg := range legs[1:] {
		others = others.Add(leg.Volume)
	}
	total := strongest.Volume.Add(others)

	result := &BalanceResult{
		StrongestLeg:    &strongest.BranchID,
		StrongestVolume: strongest.Volume,
		OtherLegsVolume: others,
		TotalVolume:     total,
	}
	if total.IsPositive() {
		result.StrongPercent = strongest.Volume.Mul(oneHundred).Div(total)
		result.WeakPercent = others.Mul(oneHundred).Div(total)
	}

	strongCap := requiredVolume.Mul(strongCapPct).Div(oneHundred)
	weakFloor := requiredVolume.Mul(weakFloorPct).Div(oneHundred)

	switch {
	case strongest.Volume.GreaterThan(strongCap):
		result.Reason = "strongest leg exceeds the cap share of required volume"
	case others.LessThan(weakFloor):
		result.Reason = "remaining legs fall short of the floor share of required volume"
	default:
		result.Passed = true
	}

	return result, nil
}
