package controllers

import (
	"net/http"

	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/caesariomj/jogjaelectrik-sub000/services"
	"github.com/gin-gonic/gin"
)

// CartController handles HTTP requests for cart operations.
type CartController struct {
	cartService services.CartService
}

// NewCartController creates a new CartController.
func NewCartController(cartService services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// GetCart handles GET /cart.
func (cc *CartController) GetCart(ctx *gin.Context) {
	userID, ok := requireUserUUID(ctx)
	if !ok {
		return
	}

	cart, svcErr := cc.cartService.GetCart(ctx.Request.Context(), userID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"cart": cart, "totals": services.Totals(cart)})
}

// AddItem handles POST /cart/items.
func (cc *CartController) AddItem(ctx *gin.Context) {
	userID, ok := requireUserUUID(ctx)
	if !ok {
		return
	}

	var req models.AddItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, svcErr := cc.cartService.AddItem(ctx.Request.Context(), userID, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"cart": cart, "totals": services.Totals(cart)})
}

// UpdateItemQuantity handles PATCH /cart/items/:itemID. Quantity zero
// removes the item.
func (cc *CartController) UpdateItemQuantity(ctx *gin.Context) {
	userID, ok := requireUserUUID(ctx)
	if !ok {
		return
	}
	itemID, ok := pathUUID(ctx, "itemID")
	if !ok {
		return
	}

	var req models.UpdateQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, svcErr := cc.cartService.UpdateQuantity(ctx.Request.Context(), userID, itemID, req.Quantity)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"cart": cart, "totals": services.Totals(cart)})
}

// RemoveItem handles DELETE /cart/items/:itemID.
func (cc *CartController) RemoveItem(ctx *gin.Context) {
	userID, ok := requireUserUUID(ctx)
	if !ok {
		return
	}
	itemID, ok := pathUUID(ctx, "itemID")
	if !ok {
		return
	}

	if svcErr := cc.cartService.RemoveItem(ctx.Request.Context(), userID, itemID); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Item removed"})
}

// ClearCart handles DELETE /cart.
func (cc *CartController) ClearCart(ctx *gin.Context) {
	userID, ok := requireUserUUID(ctx)
	if !ok {
		return
	}

	if svcErr := cc.cartService.ClearCart(ctx.Request.Context(), userID); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// ApplyDiscount handles POST /cart/discount.
func (cc *CartController) ApplyDiscount(ctx *gin.Context) {
	userID, ok := requireUserUUID(ctx)
	if !ok {
		return
	}

	var req models.ApplyDiscountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	applied, svcErr := cc.cartService.ApplyDiscount(ctx.Request.Context(), userID, req.Code)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"discount": applied})
}

// RemoveDiscount handles DELETE /cart/discount.
func (cc *CartController) RemoveDiscount(ctx *gin.Context) {
	userID, ok := requireUserUUID(ctx)
	if !ok {
		return
	}

	if svcErr := cc.cartService.RemoveDiscount(ctx.Request.Context(), userID); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Discount removed"})
}
