package controllers

import (
	"net/http"

	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/caesariomj/jogjaelectrik-sub000/services"
	"github.com/gin-gonic/gin"
)

// ShippingController handles HTTP requests for shipping rate quotes.
type ShippingController struct {
	shippingService services.ShippingService
	cartService     services.CartService
}

// NewShippingController creates a new ShippingController.
func NewShippingController(shippingService services.ShippingService, cartService services.CartService) *ShippingController {
	return &ShippingController{shippingService: shippingService, cartService: cartService}
}

// QuoteRates handles POST /shipping/quotes. The parcel weight is derived
// from the caller's cart, never taken from the request.
func (sc *ShippingController) QuoteRates(ctx *gin.Context) {
	userID, ok := requireUserUUID(ctx)
	if !ok {
		return
	}

	var req models.QuoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, svcErr := sc.cartService.GetCart(ctx.Request.Context(), userID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	totals := services.Totals(cart)
	if totals.WeightGrams <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
		return
	}

	options, svcErr := sc.shippingService.Quote(ctx.Request.Context(), userID, req.DestinationCityID, totals.WeightGrams, req.Courier)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"options": options, "weight_grams": totals.WeightGrams})
}
