// models/investment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Investment statuses
const (
	InvestmentStatusPending   = "PENDING"
	InvestmentStatusActive    = "ACTIVE"
	InvestmentStatusCompleted = "COMPLETED"
	InvestmentStatusMatured   = "MATURED"
	InvestmentStatusCancelled = "CANCELLED"
)

// Investment is a primary booking made by a member. Its principal amount
// counts toward team business volume for the member and every ancestor,
// but only while the investment is ACTIVE, COMPLETED or MATURED.
type Investment struct {
	ID        primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	MemberID  primitive.ObjectID   `json:"memberId" bson:"memberId"`
	Amount    primitive.Decimal128 `json:"amount" bson:"amount"`
	Status    string               `json:"status" bson:"status"`
	PlanName  string               `json:"planName,omitempty" bson:"planName,omitempty"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// VolumeCountingInvestmentStatuses are the investment statuses whose
// principal contributes to business volume.
var VolumeCountingInvestmentStatuses = []string{
	InvestmentStatusActive,
	InvestmentStatusCompleted,
	InvestmentStatusMatured,
}
