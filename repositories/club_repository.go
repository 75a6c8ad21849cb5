package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ascentium/clubbonus_backend/config"
	"github.com/ascentium/clubbonus_backend/models"
	"github.com/ascentium/clubbonus_backend/services"
)

// ClubRepository persists distribution outcomes. It implements the
// engine's QualificationStore and carries the read queries behind the
// reporting routes.
type ClubRepository struct {
	client         *mongo.Client
	qualifications *mongo.Collection
	incomes        *mongo.Collection
	members        *mongo.Collection
	runs           *mongo.Collection
	withdrawals    *mongo.Collection
}

func NewClubRepository(db *mongo.Client) *ClubRepository {
	return &ClubRepository{
		client:         db,
		qualifications: config.GetCollection(db, "club_qualifications"),
		incomes:        config.GetCollection(db, "club_incomes"),
		members:        config.GetCollection(db, "members"),
		runs:           config.GetCollection(db, "distribution_runs"),
		withdrawals:    config.GetCollection(db, "withdrawals"),
	}
}

// HasQualification reports whether a record already exists for the
// (member, tier, month) triple.
func (r *ClubRepository) HasQualification(ctx context.Context, memberID, tierID primitive.ObjectID, month string) (bool, error) {
	count, err := r.qualifications.CountDocuments(ctx, bson.M{
		"memberId": memberID,
		"tierId":   tierID,
		"month":    month,
	})
	if err != nil {
		return false, fmt.Errorf("checking qualification existence: %w", err)
	}
	return count > 0, nil
}

// PersistQualification writes one distribution outcome atomically: the
// qualification record always, and for a QUALIFIED record also the income
// entry, the wallet credit and the income back-link. Everything rolls
// back together on failure. A duplicate insert against the unique
// (memberId, tierId, month) index maps to ErrAlreadyProcessed, which
// gives concurrent workers insert-or-ignore semantics.
func (r *ClubRepository) PersistQualification(ctx context.Context, q *models.ClubQualification) (*services.PersistResult, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("starting session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		insert, err := r.qualifications.InsertOne(sessCtx, q)
		if err != nil {
			return nil, err
		}
		qualID := insert.InsertedID.(primitive.ObjectID)
		persisted := &services.PersistResult{QualificationID: qualID}

		if q.Status != models.QualificationStatusQualified {
			return persisted, nil
		}

		income := models.ClubIncome{
			QualificationID: qualID,
			MemberID:        q.MemberID,
			TierID:          q.TierID,
			Month:           q.Month,
			NetAmount:       q.NetBonus,
			Status:          models.IncomeStatusApproved,
			CreatedAt:       q.CreatedAt,
		}
		incomeInsert, err := r.incomes.InsertOne(sessCtx, income)
		if err != nil {
			return nil, err
		}
		incomeID := incomeInsert.InsertedID.(primitive.ObjectID)
		persisted.IncomeID = &incomeID

		// Atomic credit; no read-modify-write on the wallet.
		walletUpdate, err := r.members.UpdateByID(sessCtx, q.MemberID, bson.M{
			"$inc": bson.M{
				"walletBalance": q.NetBonus,
				"totalEarned":   q.NetBonus,
			},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		})
		if err != nil {
			return nil, err
		}
		if walletUpdate.MatchedCount == 0 {
			return nil, services.ErrMemberNotFound
		}

		if _, err := r.qualifications.UpdateByID(sessCtx, qualID, bson.M{
			"$set": bson.M{"incomeId": incomeID},
		}); err != nil {
			return nil, err
		}

		return persisted, nil
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, services.ErrAlreadyProcessed
		}
		return nil, fmt.Errorf("persisting qualification: %w", err)
	}

	return result.(*services.PersistResult), nil
}

// SaveRun stores the audit row for a finished monthly batch.
func (r *ClubRepository) SaveRun(ctx context.Context, run *models.DistributionRun) error {
	_, err := r.runs.InsertOne(ctx, run)
	if err != nil {
		return fmt.Errorf("saving distribution run: %w", err)
	}
	return nil
}

// ListQualifications returns qualification records filtered by month
// and/or member, newest first.
func (r *ClubRepository) ListQualifications(ctx context.Context, month string, memberID *primitive.ObjectID) ([]models.ClubQualification, error) {
	filter := bson.M{}
	if month != "" {
		filter["month"] = month
	}
	if memberID != nil {
		filter["memberId"] = *memberID
	}

	cursor, err := r.qualifications.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("listing qualifications: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.ClubQualification
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListIncomes returns a member's club income entries, newest first.
func (r *ClubRepository) ListIncomes(ctx context.Context, memberID primitive.ObjectID) ([]models.ClubIncome, error) {
	cursor, err := r.incomes.Find(ctx,
		bson.M{"memberId": memberID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("listing incomes: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.ClubIncome
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListWithdrawals returns a member's withdrawal requests, newest first.
// Read-only here; processing belongs to the payout subsystem.
func (r *ClubRepository) ListWithdrawals(ctx context.Context, memberID primitive.ObjectID) ([]models.Withdrawal, error) {
	cursor, err := r.withdrawals.Find(ctx,
		bson.M{"memberId": memberID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("listing withdrawals: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.Withdrawal
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}
