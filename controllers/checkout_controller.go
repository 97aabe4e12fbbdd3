package controllers

import (
	"net/http"

	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/caesariomj/jogjaelectrik-sub000/services"
	"github.com/gin-gonic/gin"
)

// CheckoutController handles HTTP requests for placing orders.
type CheckoutController struct {
	checkoutService services.CheckoutService
}

// NewCheckoutController creates a new CheckoutController.
func NewCheckoutController(checkoutService services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkoutService: checkoutService}
}

// Checkout handles POST /checkout.
func (cc *CheckoutController) Checkout(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req models.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	resp, svcErr := cc.checkoutService.Checkout(ctx.Request.Context(), actor, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}
