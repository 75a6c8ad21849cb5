package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMonthlyMixedPopulation(t *testing.T) {
	// One qualifying member (root of a balanced 600k/400k team), its
	// two recruits (short on volume), and one member with no team.
	e, _, _ := qualifyingEngine()
	e.members.addMember(nil)

	summary, err := e.orchestrator(2).RunMonthly(context.Background(), testMonth, "test")
	require.NoError(t, err)

	assert.Equal(t, testMonth, summary.Month)
	assert.Equal(t, "test", summary.TriggeredBy)
	assert.NotEmpty(t, summary.RunID)
	assert.False(t, summary.FinishedAt.Before(summary.StartedAt))

	require.Len(t, summary.Tiers, 1)
	tier := summary.Tiers[0]
	assert.Equal(t, 1, tier.Qualified)
	assert.Equal(t, 3, tier.Disqualified)
	assert.Equal(t, 0, tier.Skipped)
	assert.Equal(t, 0, tier.Errors)
	assert.True(t, tier.Disbursed.Equal(decimal.NewFromInt(19000)))

	assert.Equal(t, 1, summary.TotalQualified)
	assert.True(t, summary.TotalDisbursed.Equal(decimal.NewFromInt(19000)))

	// Every evaluated pair leaves an audit record, qualified or not.
	assert.Len(t, e.store.records, 4)

	// The run itself is persisted.
	require.Len(t, e.store.runs, 1)
	run := e.store.runs[0]
	assert.Equal(t, summary.RunID, run.RunID)
	assert.Equal(t, "19000.00", run.TotalDisbursed)
}

// Re-running the same month must change nothing: every pair is skipped
// and wallets stay where the first run left them.
func TestRunMonthlyIdempotent(t *testing.T) {
	e, root, _ := qualifyingEngine()

	orch := e.orchestrator(2)
	first, err := orch.RunMonthly(context.Background(), testMonth, "test")
	require.NoError(t, err)
	require.Equal(t, 1, first.TotalQualified)

	recordsAfterFirst := len(e.store.records)
	walletAfterFirst := e.store.wallets[root]

	second, err := orch.RunMonthly(context.Background(), testMonth, "retry")
	require.NoError(t, err)

	assert.Equal(t, 0, second.TotalQualified)
	assert.True(t, second.TotalDisbursed.IsZero())
	require.Len(t, second.Tiers, 1)
	assert.Equal(t, recordsAfterFirst, second.Tiers[0].Skipped)
	assert.Empty(t, second.Tiers[0].Outcomes)

	assert.Len(t, e.store.records, recordsAfterFirst)
	assert.True(t, e.store.wallets[root].Equal(walletAfterFirst))
}

// One member's store failure is recorded as an error outcome while the
// rest of the batch completes normally.
func TestRunMonthlyIsolatesFailures(t *testing.T) {
	e, root, _ := qualifyingEngine()
	broken := e.members.addMember(nil)
	e.store.persistErrFor[broken] = errors.New("transient write failure")

	summary, err := e.orchestrator(2).RunMonthly(context.Background(), testMonth, "test")
	require.NoError(t, err)

	require.Len(t, summary.Tiers, 1)
	tier := summary.Tiers[0]
	assert.Equal(t, 1, tier.Qualified)
	assert.Equal(t, 1, tier.Errors)
	assert.Equal(t, 1, summary.TotalErrors)

	// The healthy member still got paid.
	assert.True(t, e.store.wallets[root].Equal(decimal.NewFromInt(19000)))

	var errOutcome bool
	for _, o := range tier.Outcomes {
		if o.MemberID == broken {
			assert.Contains(t, o.Reason, "transient write failure")
			errOutcome = true
		}
	}
	assert.True(t, errOutcome)
}

func TestRunMonthlyMultipleTiers(t *testing.T) {
	e, root, _ := qualifyingEngine()
	// A second, higher tier out of reach for everyone.
	e.tiers.addTier(2, 5000000, 3, 10, 60, 40)

	summary, err := e.orchestrator(4).RunMonthly(context.Background(), testMonth, "test")
	require.NoError(t, err)

	require.Len(t, summary.Tiers, 2)
	assert.Equal(t, 1, summary.TotalQualified)
	assert.True(t, summary.TotalDisbursed.Equal(decimal.NewFromInt(19000)))
	assert.True(t, e.store.wallets[root].Equal(decimal.NewFromInt(19000)))
}

func TestRunMonthlyInvalidMonth(t *testing.T) {
	e := newEngine()
	_, err := e.orchestrator(1).RunMonthly(context.Background(), "March 2025", "test")
	assert.Error(t, err)
}

func TestRunMonthlyDefaultsToPreviousMonth(t *testing.T) {
	e := newEngine()
	e.tiers.addTier(1, 1000000, 2, 10, 60, 40)

	summary, err := e.orchestrator(1).RunMonthly(context.Background(), "", "scheduler")
	require.NoError(t, err)
	assert.Equal(t, PreviousMonth(time.Now().UTC()), summary.Month)
}

func TestRunMonthlyCancelledContext(t *testing.T) {
	e, _, _ := qualifyingEngine()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := e.orchestrator(2).RunMonthly(ctx, testMonth, "test")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalQualified)
	assert.Empty(t, e.store.records)
}
