package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/usecase/auth"
	"github.com/finance-tracker/ledger/internal/application/usecase/dashboard"
	"github.com/finance-tracker/ledger/internal/application/usecase/transaction"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/middleware"
)

// TransactionController handles transaction endpoints. Reads are stateless;
// commands go through the user's dashboard so it is re-fetched afterwards.
type TransactionController struct {
	listUseCase *transaction.ListTransactionsUseCase
	dashboards  *dashboard.Registry
	identities  identityResolver
	presenter   *dto.Presenter
}

// NewTransactionController creates a new transaction controller instance.
func NewTransactionController(
	listUseCase *transaction.ListTransactionsUseCase,
	getCurrentUserUseCase *auth.GetCurrentUserUseCase,
	dashboards *dashboard.Registry,
	presenter *dto.Presenter,
) *TransactionController {
	return &TransactionController{
		listUseCase: listUseCase,
		dashboards:  dashboards,
		identities:  identityResolver{getCurrentUserUseCase: getCurrentUserUseCase},
		presenter:   presenter,
	}
}

// List handles GET /transactions?dateFrom&dateTo&categoryId&type requests.
func (c *TransactionController) List(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	var req dto.FiltersRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid query parameters",
			Code:  string(domainerror.ErrCodeInvalidFilter),
		})
		return
	}

	filters, err := req.ToFilterState()
	if err != nil {
		handleTransactionError(ctx, err)
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), transaction.ListTransactionsInput{
		UserID: userID,
		Filter: filters,
	})
	if err != nil {
		handleTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, c.presenter.TransactionList(filters, output))
}

// Create handles POST /transactions requests.
func (c *TransactionController) Create(ctx *gin.Context) {
	view, ok := c.view(ctx)
	if !ok {
		return
	}

	var req dto.TransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeMissingTransactionFields),
		})
		return
	}

	if _, err := view.Create(ctx.Request.Context(), req.ToDraft()); err != nil {
		handleTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, c.presenter.Dashboard(view.Snapshot()))
}

// Update handles PUT /transactions/:id requests.
func (c *TransactionController) Update(ctx *gin.Context) {
	view, ok := c.view(ctx)
	if !ok {
		return
	}

	transactionID, ok := parseTransactionID(ctx)
	if !ok {
		return
	}

	var req dto.TransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeMissingTransactionFields),
		})
		return
	}

	if _, err := view.Update(ctx.Request.Context(), transactionID, req.ToDraft()); err != nil {
		handleTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, c.presenter.Dashboard(view.Snapshot()))
}

// Delete handles DELETE /transactions/:id requests.
func (c *TransactionController) Delete(ctx *gin.Context) {
	view, ok := c.view(ctx)
	if !ok {
		return
	}

	transactionID, ok := parseTransactionID(ctx)
	if !ok {
		return
	}

	if err := view.Delete(ctx.Request.Context(), transactionID); err != nil {
		handleTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, c.presenter.Dashboard(view.Snapshot()))
}

// view returns the dashboard of the signed-in user, loading it first if
// this is the user's first request.
func (c *TransactionController) view(ctx *gin.Context) (*dashboard.View, bool) {
	identity, ok := c.identities.resolve(ctx)
	if !ok {
		return nil, false
	}
	view := c.dashboards.ViewFor(identity)
	_ = view.EnsureLoaded(ctx.Request.Context())
	return view, true
}

func parseTransactionID(ctx *gin.Context) (uuid.UUID, bool) {
	transactionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid transaction ID format",
			Code:  string(domainerror.ErrCodeTransactionNotFound),
		})
		return uuid.Nil, false
	}
	return transactionID, true
}
