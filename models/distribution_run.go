// models/distribution_run.go
package models

import (
	"time"
)

// TierSummary is the per-tier outcome of one monthly run.
type TierSummary struct {
	TierID       string `json:"tierId" bson:"tierId"`
	TierName     string `json:"tierName" bson:"tierName"`
	Rank         int    `json:"rank" bson:"rank"`
	Qualified    int    `json:"qualified" bson:"qualified"`
	Disqualified int    `json:"disqualified" bson:"disqualified"`
	Skipped      int    `json:"skipped" bson:"skipped"` // already processed in an earlier run
	Errors       int    `json:"errors" bson:"errors"`
	Disbursed    string `json:"disbursed" bson:"disbursed"` // total net paid for this tier
}

// DistributionRun is the audit row persisted after every monthly batch,
// whether triggered by the scheduler or by an admin.
type DistributionRun struct {
	RunID          string        `json:"runId" bson:"runId"` // uuid
	Month          string        `json:"month" bson:"month"`
	TriggeredBy    string        `json:"triggeredBy" bson:"triggeredBy"` // "scheduler" or admin user id
	StartedAt      time.Time     `json:"startedAt" bson:"startedAt"`
	FinishedAt     time.Time     `json:"finishedAt" bson:"finishedAt"`
	Tiers          []TierSummary `json:"tiers" bson:"tiers"`
	TotalQualified int           `json:"totalQualified" bson:"totalQualified"`
	TotalErrors    int           `json:"totalErrors" bson:"totalErrors"`
	TotalDisbursed string        `json:"totalDisbursed" bson:"totalDisbursed"`
}
