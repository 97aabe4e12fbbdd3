package services

import (
	"context"
	"fmt"

	"github.com/caesariomj/jogjaelectrik-sub000/authz"
	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/google/uuid"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
)

// InvoiceService renders a spreadsheet invoice for a paid order.
type InvoiceService interface {
	GenerateInvoice(ctx context.Context, actor authz.Actor, orderID uuid.UUID) (*xlsx.File, string, *ServiceError)
}

type invoiceServiceImpl struct {
	orderSvc OrderService
	logger   *zap.Logger
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(orderSvc OrderService, logger *zap.Logger) InvoiceService {
	return &invoiceServiceImpl{orderSvc: orderSvc, logger: logger}
}

// GenerateInvoice builds the invoice workbook. Only orders whose payment
// has gone through have an invoice; an unpaid or failed order does not.
func (s *invoiceServiceImpl) GenerateInvoice(ctx context.Context, actor authz.Actor, orderID uuid.UUID) (*xlsx.File, string, *ServiceError) {
	order, svcErr := s.orderSvc.GetOrder(ctx, actor, orderID)
	if svcErr != nil {
		return nil, "", svcErr
	}
	if order.Payment == nil || !paymentSettled(order.Payment.Status) {
		return nil, "", stateConflictError("An invoice is only available once the order is paid")
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Invoice")
	if err != nil {
		s.logger.Error("Failed to create invoice sheet",
			zap.String("operation", "GenerateInvoice"),
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		return nil, "", persistenceError()
	}

	addPair := func(label string, value interface{}) {
		row := sheet.AddRow()
		row.AddCell().SetValue(label)
		row.AddCell().SetValue(value)
	}

	addPair("Invoice", order.OrderNumber)
	addPair("Date", order.CreatedAt.Format("2006-01-02 15:04:05"))
	addPair("Recipient", order.RecipientName)
	addPair("City", order.CityName)
	sheet.AddRow()

	headerRow := sheet.AddRow()
	for _, h := range []string{"Product", "Variant", "Price", "Qty", "Amount"} {
		headerRow.AddCell().SetValue(h)
	}
	for _, detail := range order.OrderDetails {
		row := sheet.AddRow()
		row.AddCell().SetValue(detail.ProductName)
		row.AddCell().SetValue(detail.VariantName)
		row.AddCell().SetValue(detail.Price)
		row.AddCell().SetValue(detail.Quantity)
		row.AddCell().SetValue(detail.Price * int64(detail.Quantity))
	}
	sheet.AddRow()

	addPair("Subtotal", order.Subtotal)
	if order.DiscountAmount != 0 {
		addPair("Discount", order.DiscountAmount)
	}
	addPair(fmt.Sprintf("Shipping (%s %s)", order.CourierCode, order.CourierService), order.ShippingCost)
	addPair("Total", order.Total)
	addPair("Payment method", order.Payment.Method)
	addPair("Payment status", order.Payment.Status)

	filename := fmt.Sprintf("invoice-%s.xlsx", order.OrderNumber)
	return file, filename, nil
}

func paymentSettled(status string) bool {
	return status == models.PaymentStatusPaid || status == models.PaymentStatusSettled
}
