package controllers

import (
	"context"
	"net/http"

	"github.com/caesariomj/jogjaelectrik-sub000/authz"
	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/caesariomj/jogjaelectrik-sub000/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderController handles HTTP requests for order lifecycle operations.
type OrderController struct {
	orderService   services.OrderService
	invoiceService services.InvoiceService
}

// NewOrderController creates a new OrderController.
func NewOrderController(orderService services.OrderService, invoiceService services.InvoiceService) *OrderController {
	return &OrderController{orderService: orderService, invoiceService: invoiceService}
}

// GetOrder handles GET /orders/:orderID.
func (oc *OrderController) GetOrder(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	orderID, ok := pathUUID(ctx, "orderID")
	if !ok {
		return
	}

	order, svcErr := oc.orderService.GetOrder(ctx.Request.Context(), actor, orderID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// GetMyOrders handles GET /orders.
func (oc *OrderController) GetMyOrders(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	page, limit := parsePaginationParams(ctx)

	resp, svcErr := oc.orderService.GetUserOrders(ctx.Request.Context(), actor, page, limit)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetAllOrders handles GET /admin/orders (admin only).
func (oc *OrderController) GetAllOrders(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	page, limit := parsePaginationParams(ctx)

	resp, svcErr := oc.orderService.GetAllOrders(ctx.Request.Context(), actor, page, limit)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// CancelOrder handles POST /orders/:orderID/cancel.
func (oc *OrderController) CancelOrder(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	orderID, ok := pathUUID(ctx, "orderID")
	if !ok {
		return
	}

	var req models.CancelOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := oc.orderService.CancelOrder(ctx.Request.Context(), actor, orderID, &req); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Order canceled"})
}

// ConfirmProcessing handles POST /admin/orders/:orderID/process (admin only).
func (oc *OrderController) ConfirmProcessing(ctx *gin.Context) {
	oc.transition(ctx, oc.orderService.ConfirmProcessing, "Order is being processed")
}

// ShipOrder handles POST /admin/orders/:orderID/ship (admin only).
func (oc *OrderController) ShipOrder(ctx *gin.Context) {
	oc.transition(ctx, oc.orderService.ShipOrder, "Order shipped")
}

// FinishOrder handles POST /orders/:orderID/finish.
func (oc *OrderController) FinishOrder(ctx *gin.Context) {
	oc.transition(ctx, oc.orderService.FinishOrder, "Order completed")
}

// RateProducts handles POST /orders/:orderID/reviews.
func (oc *OrderController) RateProducts(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	orderID, ok := pathUUID(ctx, "orderID")
	if !ok {
		return
	}

	var req models.RateProductsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := oc.orderService.RateProducts(ctx.Request.Context(), actor, orderID, &req); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Reviews saved"})
}

// DownloadInvoice handles GET /orders/:orderID/invoice.
func (oc *OrderController) DownloadInvoice(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	orderID, ok := pathUUID(ctx, "orderID")
	if !ok {
		return
	}

	file, filename, svcErr := oc.invoiceService.GenerateInvoice(ctx.Request.Context(), actor, orderID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Header("Content-Transfer-Encoding", "binary")

	if err := file.Write(ctx.Writer); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write invoice"})
		return
	}
}

func (oc *OrderController) transition(ctx *gin.Context, fn func(c context.Context, actor authz.Actor, orderID uuid.UUID) *services.ServiceError, message string) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	orderID, ok := pathUUID(ctx, "orderID")
	if !ok {
		return
	}

	if svcErr := fn(ctx.Request.Context(), actor, orderID); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": message})
}
