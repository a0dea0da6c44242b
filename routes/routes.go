package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roshan-ds-tech/shreshta-backend-final/handlers"
	customMiddleware "github.com/roshan-ds-tech/shreshta-backend-final/middleware"
)

func SetupRoutes(e *echo.Echo) {
	// Public routes
	e.POST("/signup", handlers.SignUp)
	e.POST("/login", handlers.LoginUser)

	e.GET("/profile", handlers.GetProfile)
	e.PUT("/profile", handlers.UpdateProfile)
	e.POST("/profile/upload-image", handlers.UploadProfileImage)

	// Checkout flow
	e.POST("/shipping/quote", handlers.ShippingQuote)
	e.POST("/create-razorpay-order", handlers.CreateRazorpayOrder)
	e.POST("/verify-payment-save-order", handlers.VerifyPaymentAndSaveOrder)

	// Orders
	e.GET("/orders", handlers.GetUserOrders)
	e.GET("/orders/:orderId/tracking", handlers.GetOrderTracking)
	e.POST("/orders/:orderId/cancel", handlers.CancelOrder)

	// Catalog
	e.GET("/products", handlers.GetProducts)
	e.GET("/products/:id", handlers.GetProduct)

	// Admin routes behind the JWT guard
	admin := e.Group("/admin")
	admin.Use(customMiddleware.AuthMiddleware())
	admin.POST("/products", handlers.CreateProduct)
	admin.PUT("/products/:id", handlers.UpdateProduct)
	admin.DELETE("/products/:id", handlers.DeleteProduct)
	admin.GET("/coupons", handlers.GetCoupons)
	admin.POST("/coupons", handlers.CreateCoupon)
	admin.PUT("/coupons/:id", handlers.UpdateCoupon)
	admin.DELETE("/coupons/:id", handlers.DeleteCoupon)

	// Uploaded profile images
	e.Static("/media", "media")

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
