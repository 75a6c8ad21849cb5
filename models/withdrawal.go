package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Withdrawal is a payout request against a member's wallet. The club
// bonus engine only credits wallets; withdrawal processing belongs to the
// payout subsystem. The model lives here because the reporting routes
// expose a read-only listing per member.
type Withdrawal struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	MemberID        primitive.ObjectID   `bson:"memberId" json:"memberId"`
	Amount          primitive.Decimal128 `bson:"amount" json:"amount"`
	Status          string               `bson:"status" json:"status"` // "pending", "approved", "rejected"
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
	ProcessedAt     *time.Time           `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
	AdminID         *primitive.ObjectID  `bson:"adminId,omitempty" json:"adminId,omitempty"`
	AdminNote       string               `bson:"adminNote,omitempty" json:"adminNote,omitempty"`
	MemberNote      string               `bson:"memberNote,omitempty" json:"memberNote,omitempty"`
	RejectionReason string               `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
}
