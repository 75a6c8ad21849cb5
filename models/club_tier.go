// models/club_tier.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClubTier holds the thresholds and percentages for one club bonus level.
// Tiers are independent: a member may qualify for several tiers in the
// same month, each paid on its own percentage.
type ClubTier struct {
	ID                   primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Rank                 int                  `json:"rank" bson:"rank"` // display order, unique
	Name                 string               `json:"name" bson:"name" validate:"required"`
	RequiredTeamVolume   primitive.Decimal128 `json:"requiredTeamVolume" bson:"requiredTeamVolume"`
	BonusPercent         primitive.Decimal128 `json:"bonusPercent" bson:"bonusPercent"`                 // % of team volume paid as gross bonus
	NewSalesPercent      primitive.Decimal128 `json:"newSalesPercent" bson:"newSalesPercent"`           // min current-month volume as % of required
	StrongLegCapPercent  primitive.Decimal128 `json:"strongLegCapPercent" bson:"strongLegCapPercent"`   // max share of required volume from one leg
	WeakLegsFloorPercent primitive.Decimal128 `json:"weakLegsFloorPercent" bson:"weakLegsFloorPercent"` // min share of required volume from the rest
	IsActive             bool                 `json:"isActive" bson:"isActive"`
	CreatedAt            time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt" bson:"updatedAt"`
}
