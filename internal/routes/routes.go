package routes

import (
	"github.com/gin-gonic/gin"

	"greenbag_back_end/internal/handlers/admin"
	"greenbag_back_end/internal/handlers/payment"
	"greenbag_back_end/internal/handlers/product"
	"greenbag_back_end/internal/handlers/store"
	"greenbag_back_end/internal/handlers/user"
	"greenbag_back_end/internal/middleware"
	"greenbag_back_end/internal/models"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// Auth
	api.POST("/auth/signup", user.Signup)
	api.POST("/auth/signin", user.Signin)

	// Catalogue public
	api.GET("/products", product.HomePage)
	api.GET("/products/search", product.SearchProducts)
	api.GET("/products/:id", product.GetProduct)
	api.GET("/products/:id/reviews", product.GetReviews)

	// Routes authentifiées
	authed := api.Group("")
	authed.Use(middleware.AuthRequired())
	{
		authed.GET("/me", user.GetProfile)
		authed.PUT("/me", user.UpdateProfile)
		authed.DELETE("/me", user.DeleteAccount)

		authed.GET("/cart", user.GetCart)
		authed.POST("/cart", user.AddToCart)
		authed.PUT("/cart/:id", user.UpdateCartLine)
		authed.DELETE("/cart/:id", user.RemoveCartLine)

		authed.GET("/orders", user.GetMyOrders)
		authed.GET("/orders/ws", user.OrderStatusWebSocket)
		authed.GET("/orders/:orderId/qr", user.GetOrderQR)

		authed.GET("/cards", user.GetSavedCard)
		authed.POST("/cards", user.SaveCard)

		authed.POST("/products/:id/reviews", product.AddReview)

		authed.POST("/checkout", payment.PlaceOrder)
	}

	// Routes boutique
	storeGroup := api.Group("/store")
	storeGroup.Use(middleware.AuthRequired(), middleware.RequireRole(models.RoleStore))
	{
		storeGroup.GET("/products", store.MyProducts)
		storeGroup.POST("/products", store.AddProduct)
		storeGroup.PUT("/products/:id", store.UpdateProduct)
		storeGroup.PUT("/products/:id/eco", store.SetEcoDetails)
		storeGroup.POST("/products/:id/image", store.UploadImage)
		storeGroup.DELETE("/products/:id", store.DeleteProduct)

		storeGroup.GET("/orders", store.GetOrders)
		storeGroup.PUT("/orders/:orderId/status", store.UpdateOrderStatus)
	}

	// Routes admin
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthRequired(), middleware.RequireRole(models.RoleAdmin))
	{
		adminGroup.GET("/stores", admin.ListStores)
		adminGroup.POST("/stores", admin.CreateStore)
		adminGroup.PUT("/stores/:email", admin.UpdateStore)
		adminGroup.DELETE("/stores/:email", admin.DeleteStore)

		adminGroup.GET("/orders", admin.AllOrders)
		adminGroup.GET("/sync-journal", admin.SyncJournal)
	}
}
