// services/evaluator.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ascentium/clubbonus_backend/models"
)

// EvalResult is the outcome of evaluating one (member, tier, month)
// triple. Exactly one terminal status is set; Balance and the monetary
// figures are filled as far as the evaluation got.
type EvalResult struct {
	MemberID           primitive.ObjectID `json:"memberId"`
	TierID             primitive.ObjectID `json:"tierId"`
	Month              string             `json:"month"`
	Status             string             `json:"status"`
	Reason             string             `json:"reason,omitempty"`
	TotalTeamVolume    decimal.Decimal    `json:"totalTeamVolume"`
	CurrentMonthVolume decimal.Decimal    `json:"currentMonthVolume"`
	RequiredVolume     decimal.Decimal    `json:"requiredVolume"`
	RequiredNewSales   decimal.Decimal    `json:"requiredNewSales"`
	Balance            *BalanceResult     `json:"balance,omitempty"`
	TDS                TDSBreakdown       `json:"tds"`
}

// Qualified reports whether the evaluation ended in QUALIFIED.
func (r *EvalResult) Qualified() bool {
	return r.Status == models.QualificationStatusQualified
}

// QualificationEvaluator runs the ordered qualification checks for a
// member against a tier in a target month. It is read-only; persisting
// the outcome is the Distributor's job.
type QualificationEvaluator struct {
	members MemberSource
	tiers   TierSource
	volumes *VolumeAggregator
	legs    *LegAnalyzer
	tdsPct  decimal.Decimal
}

func NewQualificationEvaluator(members MemberSource, tiers TierSource, volumes *VolumeAggregator, legs *LegAnalyzer) *QualificationEvaluator {
	return &QualificationEvaluator{
		members: members,
		tiers:   tiers,
		volumes: volumes,
		legs:    legs,
		tdsPct:  DefaultTDSPercent,
	}
}

// Evaluate runs the qualification state machine and returns its terminal
// state. Checks short-circuit in order: activation, KYC, tier activation,
// total team volume, current-month new sales, leg balancing. A missing
// member or tier is a data error, not a disqualification.
func (e *QualificationEvaluator) Evaluate(ctx context.Context, memberID, tierID primitive.ObjectID, month string) (*EvalResult, error) {
	monthStart, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}
	monthStart, monthEnd := MonthBounds(monthStart)

	result := &EvalResult{MemberID: memberID, TierID: tierID, Month: month}

	member, err := e.members.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !member.IsActive() {
		result.Status = models.DisqualifiedActivation
		result.Reason = fmt.Sprintf("member is %s, club bonus requires ACTIVE", member.Status)
		return result, nil
	}
	if !member.IsKYCCleared() {
		result.Status = models.DisqualifiedKYC
		result.Reason = fmt.Sprintf("member KYC is %s, club bonus requires APPROVED or VERIFIED", member.KYCStatus)
		return result, nil
	}

	tier, err := e.tiers.GetTier(ctx, tierID)
	if err != nil {
		return nil, err
	}
	if !tier.IsActive {
		result.Status = models.DisqualifiedActivation
		result.Reason = fmt.Sprintf("tier %s is inactive", tier.Name)
		return result, nil
	}

	required := models.ToDecimal(tier.RequiredTeamVolume)
	result.RequiredVolume = required

	// All-time team volume through the end of the target month.
	totalVolume, err := e.volumes.TeamVolume(ctx, memberID, nil, &monthEnd)
	if err != nil {
		return nil, err
	}
	result.TotalTeamVolume = totalVolume
	if totalVolume.LessThan(required) {
		result.Status = models.DisqualifiedVolume
		result.Reason = fmt.Sprintf("team volume %s below required %s",
			models.MoneyString(totalVolume), models.MoneyString(required))
		return result, nil
	}

	// New sales inside the target month itself.
	monthVolume, err := e.volumes.TeamVolume(ctx, memberID, &monthStart, &monthEnd)
	if err != nil {
		return nil, err
	}
	requiredNewSales := required.Mul(models.ToDecimal(tier.NewSalesPercent)).Div(oneHundred)
	result.CurrentMonthVolume = monthVolume
	result.RequiredNewSales = requiredNewSales
	if monthVolume.LessThan(requiredNewSales) {
		result.Status = models.DisqualifiedNewSales
		result.Reason = fmt.Sprintf("current month volume %s below required new sales %s",
			models.MoneyString(monthVolume), models.MoneyString(requiredNewSales))
		return result, nil
	}

	balance, err := e.legs.CheckBalance(ctx, memberID, required,
		models.ToDecimal(tier.StrongLegCapPercent),
		models.ToDecimal(tier.WeakLegsFloorPercent),
		nil, &monthEnd)
	if err != nil {
		return nil, err
	}
	result.Balance = balance
	if !balance.Passed {
		result.Status = models.DisqualifiedBalancing
		result.Reason = balance.Reason
		return result, nil
	}

	gross := totalVolume.Mul(models.ToDecimal(tier.BonusPercent)).Div(oneHundred)
	result.TDS = Withhold(gross, e.tdsPct)
	result.Status = models.QualificationStatusQualified
	return result, nil
}

// ToQualification converts an evaluation outcome into the record the
// Distributor persists.
func (r *EvalResult) ToQualification(now time.Time) *models.ClubQualification {
	q := &models.ClubQualification{
		MemberID:           r.MemberID,
		TierID:             r.TierID,
		Month:              r.Month,
		TotalTeamVolume:    models.ToDecimal128(r.TotalTeamVolume),
		CurrentMonthVolume: models.ToDecimal128(r.CurrentMonthVolume),
		GrossBonus:         models.ToDecimal128(r.TDS.Gross.Round(2)),
		TDSPercent:         models.ToDecimal128(r.TDS.Percent),
		TDSAmount:          models.ToDecimal128(r.TDS.TDSAmount),
		NetBonus:           models.ToDecimal128(r.TDS.NetAmount.Round(2)),
		Status:             r.Status,
		Reason:             r.Reason,
		CreatedAt:          now,
	}
	if r.Balance != nil {
		q.StrongestLegID = r.Balance.StrongestLeg
		q.StrongestLegVolume = models.ToDecimal128(r.Balance.StrongestVolume)
		q.OtherLegsVolume = models.ToDecimal128(r.Balance.OtherLegsVolume)
		q.StrongLegPercent = models.ToDecimal128(r.Balance.StrongPercent.Round(2))
		q.WeakLegsPercent = models.ToDecimal128(r.Balance.WeakPercent.Round(2))
	}
	return q
}
