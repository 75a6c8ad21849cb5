package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ascentium/clubbonus_backend/models"
)

func TestDistributeQualifiedCreditsWallet(t *testing.T) {
	e, root, tier := qualifyingEngine()

	result, err := e.distributor.Distribute(context.Background(), root, tier, testMonth)
	require.NoError(t, err)

	assert.True(t, result.Qualified)
	assert.False(t, result.AlreadyProcessed)
	assert.Equal(t, models.QualificationStatusQualified, result.Status)
	assert.False(t, result.QualificationID.IsZero())
	require.NotNil(t, result.IncomeID)
	assert.True(t, result.NetAmount.Equal(decimal.NewFromInt(19000)))

	// Wallet credited with exactly the net amount, once.
	assert.True(t, e.store.wallets[root].Equal(decimal.NewFromInt(19000)))

	record, ok := e.store.records[tripleKey(root, tier, testMonth)]
	require.True(t, ok)
	assert.Equal(t, models.QualificationStatusQualified, record.Status)
	assert.Equal(t, result.IncomeID, record.IncomeID)
	assert.True(t, models.ToDecimal(record.GrossBonus).Equal(decimal.NewFromInt(20000)))
	assert.True(t, models.ToDecimal(record.TDSAmount).Equal(decimal.NewFromInt(1000)))
}

func TestDistributeDisqualifiedRecordsWithoutPayout(t *testing.T) {
	e, root, tier := qualifyingEngine()
	e.members.members[root].KYCStatus = models.KYCStatusPending

	result, err := e.distributor.Distribute(context.Background(), root, tier, testMonth)
	require.NoError(t, err)

	assert.False(t, result.Qualified)
	assert.Equal(t, models.DisqualifiedKYC, result.Status)
	assert.Nil(t, result.IncomeID)
	assert.True(t, result.NetAmount.IsZero())
	assert.True(t, e.store.wallets[root].IsZero())

	// The disqualification itself is persisted for audit.
	_, ok := e.store.records[tripleKey(root, tier, testMonth)]
	assert.True(t, ok)
}

func TestDistributeSecondCallIsNoOp(t *testing.T) {
	e, root, tier := qualifyingEngine()

	first, err := e.distributor.Distribute(context.Background(), root, tier, testMonth)
	require.NoError(t, err)
	require.True(t, first.Qualified)

	second, err := e.distributor.Distribute(context.Background(), root, tier, testMonth)
	require.NoError(t, err)

	assert.True(t, second.AlreadyProcessed)
	assert.False(t, second.Qualified)
	assert.True(t, second.NetAmount.IsZero())

	// No double credit.
	assert.True(t, e.store.wallets[root].Equal(decimal.NewFromInt(19000)))
	assert.Len(t, e.store.records, 1)
}

// A duplicate-key error from a concurrent insert is absorbed, not
// surfaced as a failure.
func TestDistributeAbsorbsInsertRace(t *testing.T) {
	e, root, tier := qualifyingEngine()
	e.store.persistErrFor[root] = ErrAlreadyProcessed

	result, err := e.distributor.Distribute(context.Background(), root, tier, testMonth)
	require.NoError(t, err)
	assert.True(t, result.AlreadyProcessed)
}

func TestDistributePersistFailurePropagates(t *testing.T) {
	e, root, tier := qualifyingEngine()
	boom := errors.New("write concern timeout")
	e.store.persistErrFor[root] = boom

	_, err := e.distributor.Distribute(context.Background(), root, tier, testMonth)
	assert.ErrorIs(t, err, boom)
	assert.True(t, e.store.wallets[root].IsZero())
}

func TestDistributeMissingMember(t *testing.T) {
	e := newEngine()
	tier := e.tiers.addTier(1, 1000000, 2, 10, 60, 40)

	_, err := e.distributor.Distribute(context.Background(), primitive.NewObjectID(), tier, testMonth)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}
