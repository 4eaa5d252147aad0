package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/ledger/internal/application/usecase/auth"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
)

// UserController handles user endpoints.
type UserController struct {
	identities identityResolver
}

// NewUserController creates a new user controller instance.
func NewUserController(getCurrentUserUseCase *auth.GetCurrentUserUseCase) *UserController {
	return &UserController{
		identities: identityResolver{getCurrentUserUseCase: getCurrentUserUseCase},
	}
}

// Me handles GET /users/me requests.
func (c *UserController) Me(ctx *gin.Context) {
	identity, ok := c.identities.resolve(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, dto.ToUserResponse(identity))
}
