package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ascentium/clubbonus_backend/models"
)

// fakeMemberSource serves a hand-built sponsor forest from memory.
type fakeMemberSource struct {
	members  map[primitive.ObjectID]*models.Member
	children map[primitive.ObjectID][]primitive.ObjectID

	recruitsErr error
}

func newFakeMemberSource() *fakeMemberSource {
	return &fakeMemberSource{
		members:  map[primitive.ObjectID]*models.Member{},
		children: map[primitive.ObjectID][]primitive.ObjectID{},
	}
}

// addMember registers an active, KYC-approved member under sponsor.
// A nil sponsor makes it a root.
func (f *fakeMemberSource) addMember(sponsor *primitive.ObjectID) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.members[id] = &models.Member{
		ID:        id,
		Status:    models.MemberStatusActive,
		KYCStatus: models.KYCStatusApproved,
		SponsorID: sponsor,
	}
	if sponsor != nil {
		f.children[*sponsor] = append(f.children[*sponsor], id)
	}
	return id
}

func (f *fakeMemberSource) GetMember(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	member, ok := f.members[id]
	if !ok {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

func (f *fakeMemberSource) DirectRecruits(ctx context.Context, sponsorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	if f.recruitsErr != nil {
		return nil, f.recruitsErr
	}
	return f.children[sponsorID], nil
}

func (f *fakeMemberSource) EligibleMembers(ctx context.Context) ([]models.Member, error) {
	var out []models.Member
	for _, m := range f.members {
		if m.IsActive() && m.IsKYCCleared() {
			out = append(out, *m)
		}
	}
	return out, nil
}

// volEvent is one fake volume-contributing transaction.
type volEvent struct {
	member primitive.ObjectID
	amount decimal.Decimal
	at     time.Time
}

// fakeVolumeSource sums events in memory with the same window semantics
// as the Mongo aggregation.
type fakeVolumeSource struct {
	investments []volEvent
	repayments  []volEvent
}

func (f *fakeVolumeSource) addInvestment(member primitive.ObjectID, amount int64, at time.Time) {
	f.investments = append(f.investments, volEvent{member, decimal.NewFromInt(amount), at})
}

func (f *fakeVolumeSource) addRepayment(member primitive.ObjectID, amount int64, at time.Time) {
	f.repayments = append(f.repayments, volEvent{member, decimal.NewFromInt(amount), at})
}

func sumEvents(events []volEvent, memberIDs []primitive.ObjectID, from, to *time.Time) decimal.Decimal {
	inSet := map[primitive.ObjectID]bool{}
	for _, id := range memberIDs {
		inSet[id] = true
	}
	total := decimal.Zero
	for _, ev := range events {
		if !inSet[ev.member] {
			continue
		}
		if from != nil && ev.at.Before(*from) {
			continue
		}
		if to != nil && ev.at.After(*to) {
			continue
		}
		total = total.Add(ev.amount)
	}
	return total
}

func (f *fakeVolumeSource) InvestmentVolume(ctx context.Context, memberIDs []primitive.ObjectID, from, to *time.Time) (decimal.Decimal, error) {
	return sumEvents(f.investments, memberIDs, from, to), nil
}

func (f *fakeVolumeSource) RepaymentVolume(ctx context.Context, memberIDs []primitive.ObjectID, from, to *time.Time) (decimal.Decimal, error) {
	return sumEvents(f.repayments, memberIDs, from, to), nil
}

// fakeTierSource serves tiers from memory.
type fakeTierSource struct {
	tiers map[primitive.ObjectID]*models.ClubTier
}

func newFakeTierSource() *fakeTierSource {
	return &fakeTierSource{tiers: map[primitive.ObjectID]*models.ClubTier{}}
}

func dec128(v int64) primitive.Decimal128 {
	return models.ToDecimal128(decimal.NewFromInt(v))
}

// addTier registers an active tier with the given thresholds.
func (f *fakeTierSource) addTier(rank int, required, bonusPct, newSalesPct, strongCap, weakFloor int64) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.tiers[id] = &models.ClubTier{
		ID:                   id,
		Rank:                 rank,
		Name:                 fmt.Sprintf("Tier %d", rank),
		RequiredTeamVolume:   dec128(required),
		BonusPercent:         dec128(bonusPct),
		NewSalesPercent:      dec128(newSalesPct),
		StrongLegCapPercent:  dec128(strongCap),
		WeakLegsFloorPercent: dec128(weakFloor),
		IsActive:             true,
	}
	return id
}

func (f *fakeTierSource) GetTier(ctx context.Context, id primitive.ObjectID) (*models.ClubTier, error) {
	tier, ok := f.tiers[id]
	if !ok {
		return nil, ErrTierNotFound
	}
	return tier, nil
}

func (f *fakeTierSource) ActiveTiers(ctx context.Context) ([]models.ClubTier, error) {
	var out []models.ClubTier
	for _, t := range f.tiers {
		if t.IsActive {
			out = append(out, *t)
		}
	}
	return out, nil
}

// fakeStore mimics the transactional Mongo store: unique triple key,
// wallet credits applied together with the record.
type fakeStore struct {
	mu      sync.Mutex
	records map[string]*models.ClubQualification
	wallets map[primitive.ObjectID]decimal.Decimal
	runs    []*models.DistributionRun

	persistErrFor map[primitive.ObjectID]error // inject per-member failures
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records:       map[string]*models.ClubQualification{},
		wallets:       map[primitive.ObjectID]decimal.Decimal{},
		persistErrFor: map[primitive.ObjectID]error{},
	}
}

func tripleKey(memberID, tierID primitive.ObjectID, month string) string {
	return memberID.Hex() + "|" + tierID.Hex() + "|" + month
}

func (f *fakeStore) HasQualification(ctx context.Context, memberID, tierID primitive.ObjectID, month string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.records[tripleKey(memberID, tierID, month)]
	return ok, nil
}

func (f *fakeStore) PersistQualification(ctx context.Context, q *models.ClubQualification) (*PersistResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.persistErrFor[q.MemberID]; err != nil {
		return nil, err
	}

	key := tripleKey(q.MemberID, q.TierID, q.Month)
	if _, ok := f.records[key]; ok {
		return nil, ErrAlreadyProcessed
	}

	q.ID = primitive.NewObjectID()
	f.records[key] = q
	result := &PersistResult{QualificationID: q.ID}

	if q.Status == models.QualificationStatusQualified {
		incomeID := primitive.NewObjectID()
		q.IncomeID = &incomeID
		result.IncomeID = &incomeID
		balance := f.wallets[q.MemberID]
		f.wallets[q.MemberID] = balance.Add(models.ToDecimal(q.NetBonus))
	}

	return result, nil
}

func (f *fakeStore) SaveRun(ctx context.Context, run *models.DistributionRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, run)
	return nil
}

// engine bundles a fully wired in-memory stack for tests.
type engine struct {
	members     *fakeMemberSource
	volumes     *fakeVolumeSource
	tiers       *fakeTierSource
	store       *fakeStore
	tree        *TreeResolver
	aggregator  *VolumeAggregator
	legs        *LegAnalyzer
	evaluator   *QualificationEvaluator
	distributor *Distributor
}

func newEngine() *engine {
	members := newFakeMemberSource()
	volumes := &fakeVolumeSource{}
	tiers := newFakeTierSource()
	store := newFakeStore()

	tree := NewTreeResolver(members)
	aggregator := NewVolumeAggregator(tree, volumes)
	legs := NewLegAnalyzer(tree, aggregator)
	evaluator := NewQualificationEvaluator(members, tiers, aggregator, legs)
	distributor := NewDistributor(evaluator, store)

	return &engine{
		members:     members,
		volumes:     volumes,
		tiers:       tiers,
		store:       store,
		tree:        tree,
		aggregator:  aggregator,
		legs:        legs,
		evaluator:   evaluator,
		distributor: distributor,
	}
}

func (e *engine) orchestrator(workers int) *Orchestrator {
	return NewOrchestrator(e.members, e.tiers, e.distributor, e.store, nil, workers)
}

// midMonth is a timestamp safely inside the test month.
var midMonth = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

const testMonth = "2025-03"
