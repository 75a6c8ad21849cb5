// models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member statuses
const (
	MemberStatusActive     = "ACTIVE"
	MemberStatusPending    = "PENDING"
	MemberStatusSuspended  = "SUSPENDED"
	MemberStatusTerminated = "TERMINATED"
)

// KYC statuses
const (
	KYCStatusApproved = "APPROVED"
	KYCStatusVerified = "VERIFIED"
	KYCStatusPending  = "PENDING"
	KYCStatusRejected = "REJECTED"
)

// Member model. SponsorID points at the recruiter who placed this member;
// root members carry no sponsor. The sponsor relation forms a forest.
type Member struct {
	ID            primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	MemberCode    string               `json:"memberCode" bson:"memberCode"`
	FullName      string               `json:"fullName" bson:"fullName"`
	Email         string               `json:"email,omitempty" bson:"email,omitempty"`
	Phone         string               `json:"phone,omitempty" bson:"phone,omitempty"`
	Status        string               `json:"status" bson:"status"`       // ACTIVE, PENDING, SUSPENDED, TERMINATED
	KYCStatus     string               `json:"kycStatus" bson:"kycStatus"` // APPROVED, VERIFIED, PENDING, REJECTED
	SponsorID     *primitive.ObjectID  `json:"sponsorId,omitempty" bson:"sponsorId,omitempty"`
	WalletBalance primitive.Decimal128 `json:"walletBalance" bson:"walletBalance"`
	TotalEarned   primitive.Decimal128 `json:"totalEarned" bson:"totalEarned"`
	CreatedAt     time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// IsActive reports whether the member can participate in club bonus runs.
func (m *Member) IsActive() bool {
	return m.Status == MemberStatusActive
}

// IsKYCCleared reports whether the member's KYC state allows payouts.
func (m *Member) IsKYCCleared() bool {
	return m.KYCStatus == KYCStatusApproved || m.KYCStatus == KYCStatusVerified
}

// WalletResponse is the wallet snapshot returned to dashboards.
type WalletResponse struct {
	MemberID      primitive.ObjectID `json:"memberId"`
	MemberCode    string             `json:"memberCode"`
	WalletBalance string             `json:"walletBalance"`
	TotalEarned   string             `json:"totalEarned"`
}
