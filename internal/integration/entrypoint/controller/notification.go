package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/middleware"
)

// NotificationController hands out pending notifications.
type NotificationController struct {
	feed adapter.NotificationFeed
}

// NewNotificationController creates a new notification controller instance.
func NewNotificationController(feed adapter.NotificationFeed) *NotificationController {
	return &NotificationController{feed: feed}
}

// Drain handles GET /notifications requests. Returned notifications are
// removed from the feed.
func (c *NotificationController) Drain(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	notifications, err := c.feed.Drain(ctx.Request.Context(), userID)
	if err != nil {
		slog.Error("Failed to drain notifications", "user_id", userID, "error", err)
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{
			Error: "Failed to retrieve notifications",
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ToNotificationListResponse(notifications))
}
