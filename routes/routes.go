package routes

import (
	"github.com/caesariomj/jogjaelectrik-sub000/controllers"
	"github.com/caesariomj/jogjaelectrik-sub000/middleware"
	"github.com/gin-gonic/gin"
)

// Controllers bundles every controller the router mounts.
type Controllers struct {
	Cart     *controllers.CartController
	Discount *controllers.DiscountController
	Shipping *controllers.ShippingController
	Checkout *controllers.CheckoutController
	Order    *controllers.OrderController
	Payment  *controllers.PaymentController
}

// Register sets up all storefront routes.
func Register(r *gin.Engine, c Controllers, jwtSecret []byte) {
	// The gateway signs its webhook; it carries no user token.
	r.POST("/payments/notifications", c.Payment.HandleNotification)

	authed := r.Group("")
	authed.Use(middleware.RequireAuth(jwtSecret))

	cartRoutes := authed.Group("/cart")
	cartRoutes.GET("", c.Cart.GetCart)
	cartRoutes.DELETE("", c.Cart.ClearCart)
	cartRoutes.POST("/items", c.Cart.AddItem)
	cartRoutes.PATCH("/items/:itemID", c.Cart.UpdateItemQuantity)
	cartRoutes.DELETE("/items/:itemID", c.Cart.RemoveItem)
	cartRoutes.POST("/discount", c.Cart.ApplyDiscount)
	cartRoutes.DELETE("/discount", c.Cart.RemoveDiscount)

	authed.POST("/shipping/quotes", c.Shipping.QuoteRates)
	authed.POST("/checkout", c.Checkout.Checkout)

	orderRoutes := authed.Group("/orders")
	orderRoutes.GET("", c.Order.GetMyOrders)
	orderRoutes.GET("/:orderID", c.Order.GetOrder)
	orderRoutes.POST("/:orderID/cancel", c.Order.CancelOrder)
	orderRoutes.POST("/:orderID/finish", c.Order.FinishOrder)
	orderRoutes.POST("/:orderID/reviews", c.Order.RateProducts)
	orderRoutes.GET("/:orderID/invoice", c.Order.DownloadInvoice)

	adminRoutes := authed.Group("/admin")
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.GET("/orders", c.Order.GetAllOrders)
	adminRoutes.POST("/orders/:orderID/process", c.Order.ConfirmProcessing)
	adminRoutes.POST("/orders/:orderID/ship", c.Order.ShipOrder)
	adminRoutes.POST("/orders/:orderID/cancel", c.Order.CancelOrder)
	adminRoutes.POST("/discounts", c.Discount.CreateDiscount)
	adminRoutes.GET("/discounts", c.Discount.ListDiscounts)
	adminRoutes.DELETE("/discounts/:code", c.Discount.DeactivateDiscount)
}
