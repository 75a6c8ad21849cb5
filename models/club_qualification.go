// models/club_qualification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Qualification statuses. One terminal status is chosen per evaluation.
const (
	QualificationStatusQualified = "QUALIFIED"
	// DisqualifiedActivation covers an inactive member or an inactive tier.
	DisqualifiedActivation = "DISQUALIFIED_ACTIVATION"
	DisqualifiedKYC        = "DISQUALIFIED_KYC"
	// DisqualifiedVolume is insufficient all-time team volume. Kept separate
	// from DISQUALIFIED_ACTIVATION so reports can tell the two causes apart.
	DisqualifiedVolume    = "DISQUALIFIED_VOLUME"
	DisqualifiedNewSales  = "DISQUALIFIED_NEW_SALES"
	DisqualifiedBalancing = "DISQUALIFIED_BALANCING"
	// QualificationStatusError marks a pair whose evaluation failed with an
	// unexpected error during a batch run. Never produced by the evaluator.
	QualificationStatusError = "ERROR"
)

// ClubQualification records the outcome of evaluating one (member, tier,
// month) triple. Exactly one document may exist per triple; a unique
// compound index on memberId+tierId+month enforces it. Documents are
// immutable once written, except for the IncomeID back-link set inside the
// same distribution transaction.
type ClubQualification struct {
	ID                 primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	MemberID           primitive.ObjectID   `json:"memberId" bson:"memberId"`
	TierID             primitive.ObjectID   `json:"tierId" bson:"tierId"`
	Month              string               `json:"month" bson:"month"` // "YYYY-MM"
	TotalTeamVolume    primitive.Decimal128 `json:"totalTeamVolume" bson:"totalTeamVolume"`
	CurrentMonthVolume primitive.Decimal128 `json:"currentMonthVolume" bson:"currentMonthVolume"`
	StrongestLegID     *primitive.ObjectID  `json:"strongestLegId,omitempty" bson:"strongestLegId,omitempty"`
	StrongestLegVolume primitive.Decimal128 `json:"strongestLegVolume" bson:"strongestLegVolume"`
	OtherLegsVolume    primitive.Decimal128 `json:"otherLegsVolume" bson:"otherLegsVolume"`
	StrongLegPercent   primitive.Decimal128 `json:"strongLegPercent" bson:"strongLegPercent"`
	WeakLegsPercent    primitive.Decimal128 `json:"weakLegsPercent" bson:"weakLegsPercent"`
	GrossBonus         primitive.Decimal128 `json:"grossBonus" bson:"grossBonus"`
	TDSPercent         primitive.Decimal128 `json:"tdsPercent" bson:"tdsPercent"`
	TDSAmount          primitive.Decimal128 `json:"tdsAmount" bson:"tdsAmount"`
	NetBonus           primitive.Decimal128 `json:"netBonus" bson:"netBonus"`
	Status             string               `json:"status" bson:"status"`
	Reason             string               `json:"reason,omitempty" bson:"reason,omitempty"`
	IncomeID           *primitive.ObjectID  `json:"incomeId,omitempty" bson:"incomeId,omitempty"`
	CreatedAt          time.Time            `json:"createdAt" bson:"createdAt"`
}
