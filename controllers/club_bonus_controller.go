package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ascentium/clubbonus_backend/models"
	"github.com/ascentium/clubbonus_backend/repositories"
	"github.com/ascentium/clubbonus_backend/services"
)

// runTimeout bounds a full monthly batch; per-handler reads use the
// usual 10s request timeout.
const (
	readTimeout = 10 * time.Second
	runTimeout  = 30 * time.Minute
)

type ClubBonusController struct {
	orchestrator *services.Orchestrator
	evaluator    *services.QualificationEvaluator
	legs         *services.LegAnalyzer
	volumes      *services.VolumeAggregator
	members      *repositories.MemberRepository
	tiers        *repositories.TierRepository
	club         *repositories.ClubRepository
}

func NewClubBonusController(
	orchestrator *services.Orchestrator,
	evaluator *services.QualificationEvaluator,
	legs *services.LegAnalyzer,
	volumes *services.VolumeAggregator,
	members *repositories.MemberRepository,
	tiers *repositories.TierRepository,
	club *repositories.ClubRepository,
) *ClubBonusController {
	return &ClubBonusController{
		orchestrator: orchestrator,
		evaluator:    evaluator,
		legs:         legs,
		volumes:      volumes,
		members:      members,
		tiers:        tiers,
		club:         club,
	}
}

// DistributeRequest is the body of the manual distribution trigger.
type DistributeRequest struct {
	Month string `json:"month,omitempty"` // "YYYY-MM", defaults to the previous month
}

// RunDistribution triggers the monthly club bonus batch. The engine is
// idempotent, so re-triggering an already-distributed month only skips
// processed pairs.
func (cc *ClubBonusController) RunDistribution(c echo.Context) error {
	var req DistributeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
			Data:    err.Error(),
		})
	}

	triggeredBy := "admin"
	if userID, ok := c.Get("userId").(string); ok && userID != "" {
		triggeredBy = userID
	}

	// The batch outlives the HTTP request's default deadline.
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	summary, err := cc.orchestrator.RunMonthly(ctx, req.Month, triggeredBy)
	if err != nil {
		log.Printf("Distribution trigger failed: %v", err)
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Distribution could not start",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Distribution completed",
		Data:    summary,
	})
}

// Evaluate previews one member's qualification for a tier and month
// without persisting anything. Backs the status dashboards.
func (cc *ClubBonusController) Evaluate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()

	memberID, err := primitive.ObjectIDFromHex(c.Param("memberId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid member ID format",
		})
	}
	tierID, err := primitive.ObjectIDFromHex(c.Param("tierId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid tier ID format",
		})
	}

	month := c.QueryParam("month")
	if month == "" {
		month = services.FormatMonth(time.Now().UTC())
	}

	result, err := cc.evaluator.Evaluate(ctx, memberID, tierID, month)
	if err != nil {
		return cc.evalError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Qualification evaluated",
		Data:    result,
	})
}

// GetProgress returns a member's volume and leg breakdown for a month,
// plus the balancing check against a tier when tierId is provided.
func (cc *ClubBonusController) GetProgress(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()

	memberID, err := primitive.ObjectIDFromHex(c.Param("memberId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid member ID format",
		})
	}

	month := c.QueryParam("month")
	if month == "" {
		month = services.FormatMonth(time.Now().UTC())
	}
	monthStart, err := services.ParseMonth(month)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid month, expected YYYY-MM",
		})
	}
	monthStart, monthEnd := services.MonthBounds(monthStart)

	totalVolume, err := cc.volumes.TeamVolume(ctx, memberID, nil, &monthEnd)
	if err != nil {
		return cc.evalError(c, err)
	}
	monthVolume, err := cc.volumes.TeamVolume(ctx, memberID, &monthStart, &monthEnd)
	if err != nil {
		return cc.evalError(c, err)
	}
	legs, err := cc.legs.LegVolumes(ctx, memberID, nil, &monthEnd)
	if err != nil {
		return cc.evalError(c, err)
	}

	data := echo.Map{
		"memberId":           memberID,
		"month":              month,
		"totalTeamVolume":    models.MoneyString(totalVolume),
		"currentMonthVolume": models.MoneyString(monthVolume),
		"legs":               legs,
	}

	if tierHex := c.QueryParam("tierId"); tierHex != "" {
		tierID, err := primitive.ObjectIDFromHex(tierHex)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid tier ID format",
			})
		}
		tier, err := cc.tiers.GetTier(ctx, tierID)
		if err != nil {
			return cc.evalError(c, err)
		}
		balance, err := cc.legs.CheckBalance(ctx, memberID,
			models.ToDecimal(tier.RequiredTeamVolume),
			models.ToDecimal(tier.StrongLegCapPercent),
			models.ToDecimal(tier.WeakLegsFloorPercent),
			nil, &monthEnd)
		if err != nil {
			return cc.evalError(c, err)
		}
		data["tier"] = tier
		data["balance"] = balance
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Progress fetched successfully",
		Data:    data,
	})
}

// ListQualifications returns qualification records for audit screens.
func (cc *ClubBonusController) ListQualifications(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()

	var memberID *primitive.ObjectID
	if hex := c.QueryParam("memberId"); hex != "" {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid member ID format",
			})
		}
		memberID = &id
	}

	records, err := cc.club.ListQualifications(ctx, c.QueryParam("month"), memberID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Qualifications fetched successfully",
		Data:    records,
	})
}

// ListIncomes returns a member's club income ledger entries.
func (cc *ClubBonusController) ListIncomes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()

	memberID, err := primitive.ObjectIDFromHex(c.Param("memberId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid member ID format",
		})
	}

	entries, err := cc.club.ListIncomes(ctx, memberID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Incomes fetched successfully",
		Data:    entries,
	})
}

// GetWallet returns a member's wallet snapshot.
func (cc *ClubBonusController) GetWallet(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()

	memberID, err := primitive.ObjectIDFromHex(c.Param("memberId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid member ID format",
		})
	}

	wallet, err := cc.members.GetWallet(ctx, memberID)
	if err != nil {
		return cc.evalError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Wallet fetched successfully",
		Data:    wallet,
	})
}

// ListTiers returns the active tier configuration, in display order.
func (cc *ClubBonusController) ListTiers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()

	tiers, err := cc.tiers.ActiveTiers(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Tiers fetched successfully",
		Data:    tiers,
	})
}

// ListWithdrawals returns a member's withdrawal requests (read-only view
// over the payout subsystem's data).
func (cc *ClubBonusController) ListWithdrawals(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()

	memberID, err := primitive.ObjectIDFromHex(c.Param("memberId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid member ID format",
		})
	}

	requests, err := cc.club.ListWithdrawals(ctx, memberID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdrawals fetched successfully",
		Data:    requests,
	})
}

// evalError translates engine errors to HTTP responses: missing ids are
// 404s, anything else a 500.
func (cc *ClubBonusController) evalError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrMemberNotFound):
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Member not found",
		})
	case errors.Is(err, services.ErrTierNotFound):
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Tier not found",
		})
	default:
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}
}
