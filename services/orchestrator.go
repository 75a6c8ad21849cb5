// services/orchestrator.go
package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ascentium/clubbonus_backend/models"
)

const defaultRunWorkers = 4

// PairOutcome is one (member, tier) entry in a run summary.
type PairOutcome struct {
	MemberID primitive.ObjectID `json:"memberId"`
	Status   string             `json:"status"`
	Reason   string             `json:"reason,omitempty"`
}

// TierRunSummary accumulates outcomes for one tier during a run.
type TierRunSummary struct {
	Tier         models.ClubTier `json:"tier"`
	Qualified    int             `json:"qualified"`
	Disqualified int             `json:"disqualified"`
	Skipped      int             `json:"skipped"`
	Errors       int             `json:"errors"`
	Disbursed    decimal.Decimal `json:"disbursed"`
	Outcomes     []PairOutcome   `json:"outcomes"`
}

// RunSummary is the full result of one monthly distribution.
type RunSummary struct {
	RunID          string           `json:"runId"`
	Month          string           `json:"month"`
	TriggeredBy    string           `json:"triggeredBy"`
	StartedAt      time.Time        `json:"startedAt"`
	FinishedAt     time.Time        `json:"finishedAt"`
	Tiers          []TierRunSummary `json:"tiers"`
	TotalQualified int              `json:"totalQualified"`
	TotalErrors    int              `json:"totalErrors"`
	TotalDisbursed decimal.Decimal  `json:"totalDisbursed"`
}

// Orchestrator drives the monthly batch: every active tier crossed with
// every eligible member, distributed through a bounded worker pool. One
// member's failure never aborts the batch; it is recorded as an ERROR
// outcome and the loop moves on.
type Orchestrator struct {
	members     MemberSource
	tiers       TierSource
	distributor *Distributor
	store       QualificationStore
	locker      RunLocker
	workers     int
}

func NewOrchestrator(members MemberSource, tiers TierSource, distributor *Distributor, store QualificationStore, locker RunLocker, workers int) *Orchestrator {
	if workers <= 0 {
		workers = defaultRunWorkers
	}
	return &Orchestrator{
		members:     members,
		tiers:       tiers,
		distributor: distributor,
		store:       store,
		locker:      locker,
		workers:     workers,
	}
}

// RunMonthly distributes the club bonus for the given month key, or for
// the previous calendar month when month is empty. It always returns a
// summary, even when every pair failed.
func (o *Orchestrator) RunMonthly(ctx context.Context, month, triggeredBy string) (*RunSummary, error) {
	if month == "" {
		month = PreviousMonth(time.Now().UTC())
	}
	if _, err := ParseMonth(month); err != nil {
		return nil, err
	}

	if o.locker != nil {
		acquired, err := o.locker.Acquire(ctx, month)
		if err != nil {
			log.Printf("Run lock unavailable for %s, continuing unlocked: %v", month, err)
		} else if !acquired {
			return nil, fmt.Errorf("distribution for %s is already running", month)
		} else {
			defer func() {
				if err := o.locker.Release(context.Background(), month); err != nil {
					log.Printf("Failed to release run lock for %s: %v", month, err)
				}
			}()
		}
	}

	summary := &RunSummary{
		RunID:          uuid.NewString(),
		Month:          month,
		TriggeredBy:    triggeredBy,
		StartedAt:      time.Now().UTC(),
		TotalDisbursed: decimal.Zero,
	}

	tiers, err := o.tiers.ActiveTiers(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading active tiers: %w", err)
	}
	members, err := o.members.EligibleMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading eligible members: %w", err)
	}

	log.Printf("Club distribution %s starting for %s: %d tiers, %d members",
		summary.RunID, month, len(tiers), len(members))

	for _, tier := range tiers {
		if err := ctx.Err(); err != nil {
			// Cooperative abort between tiers; processed pairs are already
			// committed and a re-run will skip them.
			break
		}
		tierSummary := o.runTier(ctx, tier, members, month)
		summary.Tiers = append(summary.Tiers, tierSummary)
		summary.TotalQualified += tierSummary.Qualified
		summary.TotalErrors += tierSummary.Errors
		summary.TotalDisbursed = summary.TotalDisbursed.Add(tierSummary.Disbursed)
	}

	summary.FinishedAt = time.Now().UTC()
	if err := o.store.SaveRun(ctx, summary.ToRun()); err != nil {
		log.Printf("Failed to persist distribution run %s: %v", summary.RunID, err)
	}

	log.Printf("Club distribution %s finished: %d qualified, %d errors, %s disbursed",
		summary.RunID, summary.TotalQualified, summary.TotalErrors,
		models.MoneyString(summary.TotalDisbursed))

	return summary, nil
}

type pairResult struct {
	outcome PairOutcome
	net     decimal.Decimal
	skipped bool
}

// runTier pushes every member through the distributor for one tier using
// a bounded worker pool.
func (o *Orchestrator) runTier(ctx context.Context, tier models.ClubTier, members []models.Member, month string) TierRunSummary {
	summary := TierRunSummary{Tier: tier, Disbursed: decimal.Zero}

	jobs := make(chan primitive.ObjectID)
	results := make(chan pairResult)

	var wg sync.WaitGroup
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for memberID := range jobs {
				results <- o.distributePair(ctx, memberID, tier.ID, month)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, member := range members {
			if ctx.Err() != nil {
				return
			}
			select {
			case jobs <- member.ID:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		if res.skipped {
			summary.Skipped++
			continue
		}
		summary.Outcomes = append(summary.Outcomes, res.outcome)
		switch res.outcome.Status {
		case models.QualificationStatusQualified:
			summary.Qualified++
			summary.Disbursed = summary.Disbursed.Add(res.net)
		case models.QualificationStatusError:
			summary.Errors++
		default:
			summary.Disqualified++
		}
	}

	return summary
}

// distributePair isolates one member's distribution: any error, including
// a panic from bad data, becomes an ERROR outcome instead of taking the
// batch down.
func (o *Orchestrator) distributePair(ctx context.Context, memberID, tierID primitive.ObjectID, month string) (res pairResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Distribution panic for member %s tier %s: %v", memberID.Hex(), tierID.Hex(), r)
			res = pairResult{outcome: PairOutcome{
				MemberID: memberID,
				Status:   models.QualificationStatusError,
				Reason:   fmt.Sprintf("panic: %v", r),
			}}
		}
	}()

	dist, err := o.distributor.Distribute(ctx, memberID, tierID, month)
	if err != nil {
		log.Printf("Distribution error for member %s tier %s: %v", memberID.Hex(), tierID.Hex(), err)
		return pairResult{outcome: PairOutcome{
			MemberID: memberID,
			Status:   models.QualificationStatusError,
			Reason:   err.Error(),
		}}
	}
	if dist.AlreadyProcessed {
		return pairResult{skipped: true}
	}

	return pairResult{
		outcome: PairOutcome{MemberID: memberID, Status: dist.Status, Reason: dist.Reason},
		net:     dist.NetAmount,
	}
}

// ToRun converts the in-memory summary to its persisted audit form.
func (s *RunSummary) ToRun() *models.DistributionRun {
	run := &models.DistributionRun{
		RunID:          s.RunID,
		Month:          s.Month,
		TriggeredBy:    s.TriggeredBy,
		StartedAt:      s.StartedAt,
		FinishedAt:     s.FinishedAt,
		TotalQualified: s.TotalQualified,
		TotalErrors:    s.TotalErrors,
		TotalDisbursed: models.MoneyString(s.TotalDisbursed),
	}
	for _, t := range s.Tiers {
		run.Tiers = append(run.Tiers, models.TierSummary{
			TierID:       t.Tier.ID.Hex(),
			TierName:     t.Tier.Name,
			Rank:         t.Tier.Rank,
			Qualified:    t.Qualified,
			Disqualified: t.Disqualified,
			Skipped:      t.Skipped,
			Errors:       t.Errors,
			Disbursed:    models.MoneyString(t.Disbursed),
		})
	}
	return run
}
