package controllers

import (
	"net/http"

	"github.com/caesariomj/jogjaelectrik-sub000/providers"
	"github.com/caesariomj/jogjaelectrik-sub000/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentController handles the gateway's webhook callbacks.
type PaymentController struct {
	orderService services.OrderService
	gateway      providers.PaymentGateway
	logger       *zap.Logger
}

// NewPaymentController creates a new PaymentController.
func NewPaymentController(orderService services.OrderService, gateway providers.PaymentGateway, logger *zap.Logger) *PaymentController {
	return &PaymentController{orderService: orderService, gateway: gateway, logger: logger}
}

// HandleNotification handles POST /payments/notifications. The gateway
// retries on non-2xx, so only signature failures are rejected; events the
// handler does not care about are acknowledged.
func (pc *PaymentController) HandleNotification(ctx *gin.Context) {
	notif, err := pc.gateway.ParseNotification(ctx.Request)
	if err != nil {
		pc.logger.Warn("Rejected payment notification", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification"})
		return
	}
	if notif == nil {
		ctx.JSON(http.StatusOK, gin.H{"message": "Ignored"})
		return
	}

	if svcErr := pc.orderService.HandlePaymentNotification(ctx.Request.Context(), notif); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "OK"})
}
