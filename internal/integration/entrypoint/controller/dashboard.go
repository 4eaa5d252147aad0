package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/ledger/internal/application/usecase/auth"
	"github.com/finance-tracker/ledger/internal/application/usecase/dashboard"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
)

// DashboardController exposes the per-user dashboard: its filters, the
// transactions they select, the summary cards and the category directory.
type DashboardController struct {
	dashboards *dashboard.Registry
	identities identityResolver
	presenter  *dto.Presenter
}

// NewDashboardController creates a new dashboard controller instance.
func NewDashboardController(
	getCurrentUserUseCase *auth.GetCurrentUserUseCase,
	dashboards *dashboard.Registry,
	presenter *dto.Presenter,
) *DashboardController {
	return &DashboardController{
		dashboards: dashboards,
		identities: identityResolver{getCurrentUserUseCase: getCurrentUserUseCase},
		presenter:  presenter,
	}
}

// Get handles GET /dashboard requests. A failed load is reported in the
// response's error field alongside the last good state.
func (c *DashboardController) Get(ctx *gin.Context) {
	identity, ok := c.identities.resolve(ctx)
	if !ok {
		return
	}

	view := c.dashboards.ViewFor(identity)
	_ = view.EnsureLoaded(ctx.Request.Context())

	ctx.JSON(http.StatusOK, c.presenter.Dashboard(view.Snapshot()))
}

// ApplyFilters handles PUT /dashboard/filters requests.
func (c *DashboardController) ApplyFilters(ctx *gin.Context) {
	identity, ok := c.identities.resolve(ctx)
	if !ok {
		return
	}

	var req dto.FiltersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeInvalidFilter),
		})
		return
	}

	filters, err := req.ToFilterState()
	if err != nil {
		handleTransactionError(ctx, err)
		return
	}

	view := c.dashboards.ViewFor(identity)
	if err := view.ApplyFilters(ctx.Request.Context(), filters); err != nil && domainerror.IsValidation(err) {
		handleTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, c.presenter.Dashboard(view.Snapshot()))
}

// ClearFilters handles DELETE /dashboard/filters requests.
func (c *DashboardController) ClearFilters(ctx *gin.Context) {
	identity, ok := c.identities.resolve(ctx)
	if !ok {
		return
	}

	view := c.dashboards.ViewFor(identity)
	_ = view.ClearFilters(ctx.Request.Context())

	ctx.JSON(http.StatusOK, c.presenter.Dashboard(view.Snapshot()))
}
