// services/sources.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ascentium/clubbonus_backend/models"
)

var (
	ErrMemberNotFound   = errors.New("member not found")
	ErrTierNotFound     = errors.New("tier not found")
	ErrAlreadyProcessed = errors.New("qualification already exists for this member, tier and month")
)

// MemberSource provides member reads for the engine. The Mongo
// implementation lives in repositories; tests use in-memory fakes.
type MemberSource interface {
	GetMember(ctx context.Context, id primitive.ObjectID) (*models.Member, error)
	// DirectRecruits returns the ids of members sponsored directly by sponsorID.
	DirectRecruits(ctx context.Context, sponsorID primitive.ObjectID) ([]primitive.ObjectID, error)
	// EligibleMembers returns every ACTIVE member with cleared KYC.
	EligibleMembers(ctx context.Context) ([]models.Member, error)
}

// TierSource provides club tier reads.
type TierSource interface {
	GetTier(ctx context.Context, id primitive.ObjectID) (*models.ClubTier, error)
	// ActiveTiers returns active tiers ordered by rank.
	ActiveTiers(ctx context.Context) ([]models.ClubTier, error)
}

// VolumeSource sums qualifying financial activity for a set of members.
// A nil bound leaves that side of the window open.
type VolumeSource interface {
	// InvestmentVolume sums principal amounts of ACTIVE/COMPLETED/MATURED
	// investments made by the given members, windowed on createdAt.
	InvestmentVolume(ctx context.Context, memberIDs []primitive.ObjectID, from, to *time.Time) (decimal.Decimal, error)
	// RepaymentVolume sums paid amounts of PAID repayments attributed to
	// the given members, windowed on paidAt.
	RepaymentVolume(ctx context.Context, memberIDs []primitive.ObjectID, from, to *time.Time) (decimal.Decimal, error)
}

// PersistResult reports the ids written by a distribution transaction.
type PersistResult struct {
	QualificationID primitive.ObjectID
	IncomeID        *primitive.ObjectID
}

// QualificationStore persists distribution outcomes. PersistQualification
// must be atomic: the qualification row, the income row and the wallet
// credit all land or none do. A duplicate (member, tier, month) insert
// must surface ErrAlreadyProcessed.
type QualificationStore interface {
	HasQualification(ctx context.Context, memberID, tierID primitive.ObjectID, month string) (bool, error)
	PersistQualification(ctx context.Context, q *models.ClubQualification) (*PersistResult, error)
	SaveRun(ctx context.Context, run *models.DistributionRun) error
}

// RunLocker serializes monthly runs across replicas. A nil RunLocker is
// allowed and means no cross-process locking.
type RunLocker interface {
	Acquire(ctx context.Context, month string) (bool, error)
	Release(ctx context.Context, month string) error
}
