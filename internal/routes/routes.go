package routes

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/grocerydash/grocery-dashboard-golang/internal/handlers"
	"github.com/grocerydash/grocery-dashboard-golang/internal/middleware"
)

// CORSMiddleware tells the browser which frontend origin may call us.
// The origin is configurable so the deployed dashboard and a local dev
// frontend can both be served.
func CORSMiddleware() gin.HandlerFunc {
	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}

	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		// Preflight OPTIONS requests get an empty 204.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	// CORS must run before anything else.
	router.Use(CORSMiddleware())

	api := router.Group("/api")
	{
		// --- Ping Route (Public) ---
		api.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		api.POST("/auth/register", h.RegisterUser)
		api.POST("/auth/login", h.LoginUser)
		api.POST("/admin/auth/register", h.RegisterAdmin)
		api.POST("/admin/auth/login", h.LoginAdmin)
		api.POST("/delivery/auth/register", h.RegisterCourier)
		api.POST("/delivery/auth/login", h.LoginCourier)

		// --- Public Product Routes ---
		api.GET("/products", h.ListProducts)
		api.GET("/products/featured-products/top", h.FeaturedProducts)
		api.GET("/products/category/:category", h.ProductsByCategory)
		api.GET("/products/:id", h.GetProduct)
		api.GET("/products/:id/related", h.RelatedProducts)
		api.GET("/products/:id/other-stores", h.ProductOtherStores)

		// --- Public Store Routes ---
		api.GET("/stores", h.ListStores)
		api.GET("/stores/top/store", h.TopStores)
		api.GET("/stores/:id", h.GetStore)
		api.GET("/stores/:id/products", h.StoreProducts)

		// --- Public Category Routes ---
		api.GET("/categories", h.ListCategories)
		api.GET("/categories/featured", h.FeaturedCategories)
		api.GET("/categories/category/:id", h.GetCategory)

		// --- Customer Routes (Login Required) ---
		customer := api.Group("/")
		customer.Use(middleware.CustomerAuth(h.DB))
		{
			customer.GET("/auth/me", h.GetCurrentUser)
			customer.PUT("/user", h.UpdateUser)

			customer.GET("/carts", h.GetCart)
			customer.POST("/carts", h.AddToCart)
			customer.PUT("/carts/:id", h.UpdateCartItem)
			customer.DELETE("/carts/:id", h.DeleteCartItem)

			customer.POST("/orders", h.PlaceOrders)
			customer.GET("/orders", h.ListMyOrders)
			customer.GET("/orders/:id", h.GetOrder)
			customer.POST("/orders/:id/verify-payment", h.VerifyPayment)
		}

		// --- Store-Admin Routes ---
		admin := api.Group("/")
		admin.Use(middleware.AdminAuth(h.DB))
		{
			admin.GET("/admin/auth/me", h.GetCurrentAdmin)
			admin.GET("/admin/auth/store/me", h.GetMyStore)

			admin.POST("/stores", h.CreateStore)

			admin.POST("/products", h.CreateProduct)
			admin.PUT("/products/:id", h.UpdateProduct)

			admin.POST("/categories", h.CreateCategory)
			admin.PUT("/categories/category/:id", h.UpdateCategory)
			admin.DELETE("/categories/category/:id", h.DeleteCategory)

			admin.GET("/orders/all/dashboard", h.ListStoreOrders)
			admin.GET("/orders/:id/dashboard", h.GetStoreOrder)
		}

		// --- Delivery-Courier Routes ---
		delivery := api.Group("/delivery")
		delivery.Use(middleware.CourierAuth(h.DB))
		{
			delivery.GET("/auth/me", h.GetCurrentCourier)
			delivery.GET("/orders", h.ListDeliveryOrders)
			delivery.GET("/orders/:id", h.GetDeliveryOrder)
			delivery.PUT("/orders/:id/status", h.UpdateDeliveryStatus)
		}
	}

	return router
}
