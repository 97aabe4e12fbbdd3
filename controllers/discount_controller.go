package controllers

import (
	"net/http"

	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/caesariomj/jogjaelectrik-sub000/services"
	"github.com/gin-gonic/gin"
)

// DiscountController handles HTTP requests for discount management.
type DiscountController struct {
	discountService services.DiscountService
}

// NewDiscountController creates a new DiscountController.
func NewDiscountController(discountService services.DiscountService) *DiscountController {
	return &DiscountController{discountService: discountService}
}

// CreateDiscount handles POST /discounts (admin only).
func (dc *DiscountController) CreateDiscount(ctx *gin.Context) {
	var req models.CreateDiscountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	discount, svcErr := dc.discountService.Create(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"discount": discount})
}

// DeactivateDiscount handles DELETE /discounts/:code (admin only).
func (dc *DiscountController) DeactivateDiscount(ctx *gin.Context) {
	code := ctx.Param("code")
	if code == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Discount code is required"})
		return
	}

	if svcErr := dc.discountService.Deactivate(ctx.Request.Context(), code); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Discount deactivated"})
}

// ListDiscounts handles GET /discounts (admin only).
func (dc *DiscountController) ListDiscounts(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)

	discounts, total, svcErr := dc.discountService.List(ctx.Request.Context(), page, limit)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	totalPages := int64(0)
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"discounts": discounts,
		"meta": gin.H{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": totalPages,
			"has_more":    total > int64(page*limit),
		},
	})
}
