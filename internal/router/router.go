package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/agrimarket-dev/agrimarket/internal/handlers"
	"github.com/agrimarket-dev/agrimarket/internal/middleware"
	"github.com/agrimarket-dev/agrimarket/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", middleware.AuthMiddleware(), handlers.NotificationSocket)
		api.GET("/event-types", handlers.ListEventTypes)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.POST("/logout", middleware.AuthMiddleware(), handlers.Logout)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.DELETE("/me", middleware.AuthMiddleware(), handlers.DeleteAccount)
		}

		farmers := api.Group("/farmers")
		{
			farmers.GET("", handlers.ListFarmers)
			farmers.GET("/:farmer_id", handlers.GetFarmer)
			farmers.PATCH("/:farmer_id", middleware.AuthMiddleware(), handlers.UpdateFarmer)
		}

		// Authenticated farmer's own resources
		my := api.Group("/my", middleware.AuthMiddleware())
		{
			my.GET("/products", handlers.FarmerProducts)
			my.GET("/orders", handlers.FarmerOrders)
		}

		products := api.Group("/products")
		{
			products.GET("", handlers.ListProducts)
			products.GET("/:product_id", handlers.GetProduct)
			products.POST("", middleware.AuthMiddleware(), handlers.CreateProduct)
			products.PUT("/:product_id", middleware.AuthMiddleware(), handlers.UpdateProduct)
			products.DELETE("/:product_id", middleware.AuthMiddleware(), handlers.DeleteProduct)

			products.GET("/:product_id/reviews", handlers.ListProductReviews)
			products.POST("/:product_id/reviews", middleware.AuthMiddleware(), handlers.CreateReview)
		}

		orders := api.Group("/orders", middleware.AuthMiddleware())
		{
			orders.POST("", handlers.CreateOrder)
			orders.GET("", handlers.ListOrders)
			orders.GET("/:order_id", handlers.GetOrder)
			orders.PATCH("/:order_id/status", handlers.UpdateOrderStatus)
		}

		api.GET("/recent-orders", middleware.AuthMiddleware(), handlers.RecentOrders)

		export := api.Group("/export", middleware.AuthMiddleware())
		{
			export.GET("/orders", handlers.ExportOrdersCSV)
			export.GET("/calendar", handlers.ExportEventsICS)
		}

		notifications := api.Group("/notifications", middleware.AuthMiddleware())
		{
			notifications.GET("", handlers.ListNotifications)
			notifications.POST("", handlers.CreateNotification)
			notifications.PATCH("/:notification_id/read", handlers.MarkNotificationRead)
		}

		events := api.Group("/events", middleware.AuthMiddleware())
		{
			events.GET("", handlers.ListEvents)
			events.POST("", handlers.CreateEvent)
			events.GET("/:event_id", handlers.GetEvent)
			events.PATCH("/:event_id", handlers.UpdateEvent)
			events.DELETE("/:event_id", handlers.DeleteEvent)
		}

		api.GET("/calendar", middleware.AuthMiddleware(), handlers.CalendarView)

		stats := api.Group("/stats", middleware.AuthMiddleware())
		{
			stats.GET("/farm", handlers.FarmStats)
			stats.GET("/user", handlers.UserStats)
			stats.GET("/notifications", handlers.UnreadNotificationCount)
		}
	}

	return r
}
