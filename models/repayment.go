// models/repayment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repayment statuses
const (
	RepaymentStatusDue    = "DUE"
	RepaymentStatusPaid   = "PAID"
	RepaymentStatusWaived = "WAIVED"
)

// Repayment is one installment against an investment. MemberID is
// denormalized from the parent investment so volume aggregation can
// attribute the paid amount without a join. Only PAID repayments count,
// windowed on PaidAt rather than CreatedAt.
type Repayment struct {
	ID           primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	InvestmentID primitive.ObjectID   `json:"investmentId" bson:"investmentId"`
	MemberID     primitive.ObjectID   `json:"memberId" bson:"memberId"`
	PaidAmount   primitive.Decimal128 `json:"paidAmount" bson:"paidAmount"`
	Status       string               `json:"status" bson:"status"`
	DueDate      time.Time            `json:"dueDate" bson:"dueDate"`
	PaidAt       *time.Time           `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	CreatedAt    time.Time            `json:"createdAt" bson:"createdAt"`
}
