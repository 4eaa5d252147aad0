package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/ledger/internal/application/usecase/auth"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/middleware"
)

// identityResolver loads the signed-in user of a request.
type identityResolver struct {
	getCurrentUserUseCase *auth.GetCurrentUserUseCase
}

// resolve returns the identity behind the request's access token. On failure
// it writes the error response and returns false.
func (r identityResolver) resolve(ctx *gin.Context) (*entity.Identity, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return nil, false
	}

	output, err := r.getCurrentUserUseCase.Execute(ctx.Request.Context(), auth.GetCurrentUserInput{
		UserID: userID,
	})
	if err != nil {
		handleAuthError(ctx, err)
		return nil, false
	}
	return output.Identity, true
}
