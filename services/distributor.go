// services/distributor.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DistributeResult reports what one distribution call did.
type DistributeResult struct {
	Qualified        bool                `json:"qualified"`
	AlreadyProcessed bool                `json:"alreadyProcessed"`
	Status           string              `json:"status"`
	Reason           string              `json:"reason,omitempty"`
	QualificationID  primitive.ObjectID  `json:"qualificationId,omitempty"`
	IncomeID         *primitive.ObjectID `json:"incomeId,omitempty"`
	NetAmount        decimal.Decimal     `json:"netAmount"`
}

// Distributor evaluates one (member, tier, month) pair and persists the
// outcome. The store call is a single transaction, so a qualification
// record, its income entry and the wallet credit land together or not at
// all. Re-running a month is safe: an existing record for the triple is
// detected up front, and a concurrent duplicate insert is absorbed via
// the unique index.
type Distributor struct {
	evaluator *QualificationEvaluator
	store     QualificationStore
}

func NewDistributor(evaluator *QualificationEvaluator, store QualificationStore) *Distributor {
	return &Distributor{evaluator: evaluator, store: store}
}

// Distribute runs the evaluator and persists the outcome for the triple.
// When a record for the triple already exists the call is a no-op
// reporting AlreadyProcessed.
func (d *Distributor) Distribute(ctx context.Context, memberID, tierID primitive.ObjectID, month string) (*DistributeResult, error) {
	exists, err := d.store.HasQualification(ctx, memberID, tierID, month)
	if err != nil {
		return nil, err
	}
	if exists {
		return &DistributeResult{AlreadyProcessed: true}, nil
	}

	eval, err := d.evaluator.Evaluate(ctx, memberID, tierID, month)
	if err != nil {
		return nil, err
	}

	record := eval.ToQualification(time.Now().UTC())
	persisted, err := d.store.PersistQualification(ctx, record)
	if err != nil {
		if errors.Is(err, ErrAlreadyProcessed) {
			// Another worker won the race for this triple; its record stands.
			return &DistributeResult{AlreadyProcessed: true}, nil
		}
		return nil, err
	}

	result := &DistributeResult{
		Qualified:       eval.Qualified(),
		Status:          eval.Status,
		Reason:          eval.Reason,
		QualificationID: persisted.QualificationID,
		IncomeID:        persisted.IncomeID,
	}
	if eval.Qualified() {
		result.NetAmount = eval.TDS.NetAmount
	}
	return result, nil
}
