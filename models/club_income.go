// models/club_income.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Income statuses. This subsystem writes APPROVED only; the payout
// subsystem moves entries to PAID.
const (
	IncomeStatusApproved = "APPROVED"
	IncomeStatusPaid     = "PAID"
)

// ClubIncome is an income ledger entry for a qualified club bonus. It is
// created in the same transaction as its ClubQualification and never
// without one.
type ClubIncome struct {
	ID              primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	QualificationID primitive.ObjectID   `json:"qualificationId" bson:"qualificationId"`
	MemberID        primitive.ObjectID   `json:"memberId" bson:"memberId"`
	TierID          primitive.ObjectID   `json:"tierId" bson:"tierId"`
	Month           string               `json:"month" bson:"month"`
	NetAmount       primitive.Decimal128 `json:"netAmount" bson:"netAmount"`
	Status          string               `json:"status" bson:"status"`
	CreatedAt       time.Time            `json:"createdAt" bson:"createdAt"`
	PaidAt          *time.Time           `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
}
