// routes/club_routes.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/ascentium/clubbonus_backend/controllers"
	"github.com/ascentium/clubbonus_backend/middleware"
)

// RegisterClubRoutes registers the club bonus routes: the distribution
// trigger, the read-only evaluation preview and the reporting surface.
func RegisterClubRoutes(e *echo.Echo, clubController *controllers.ClubBonusController) {
	clubGroup := e.Group("/api/club")
	clubGroup.Use(middleware.JWTMiddleware())

	// Batch trigger (scheduler or admin)
	clubGroup.POST("/distribute", clubController.RunDistribution)

	// Read-only previews for dashboards
	clubGroup.GET("/evaluate/:memberId/:tierId", clubController.Evaluate)
	clubGroup.GET("/progress/:memberId", clubController.GetProgress)

	// Reporting
	clubGroup.GET("/qualifications", clubController.ListQualifications)
	clubGroup.GET("/incomes/:memberId", clubController.ListIncomes)
	clubGroup.GET("/wallet/:memberId", clubController.GetWallet)
	clubGroup.GET("/tiers", clubController.ListTiers)
	clubGroup.GET("/withdrawals/:memberId", clubController.ListWithdrawals)
}
