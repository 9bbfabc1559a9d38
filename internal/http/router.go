package api

import (
	"log"
	stdhttp "net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	intconfig "busline/internal/config"
	h "busline/internal/http/handlers"
	"busline/internal/http/middleware"
)

func NewRouter(env intconfig.Env, handlers *h.Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	secret := []byte(env.JWTSecret)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.Health)
		api.GET("/ws", handlers.Subscribe)

		auth := api.Group("/auth")
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)

		api.GET("/routes", handlers.ListRoutes)
		api.GET("/routes/search", handlers.SearchRoutes)

		api.GET("/schedules", handlers.ListSchedules)
		api.GET("/schedules/search", handlers.SearchSchedules)
		api.GET("/schedules/:id", handlers.GetSchedule)

		api.GET("/buses/locations", handlers.ListBusLocations)

		bookings := api.Group("/bookings", middleware.Auth(secret))
		bookings.POST("", handlers.CreateBooking)
		bookings.GET("/user", handlers.ListUserBookings)
		bookings.POST("/:id/cancel", handlers.CancelBooking)
		bookings.GET("/:id/eticket", handlers.BookingETicket)

		payment := api.Group("/payment", middleware.Auth(secret))
		payment.POST("/process", handlers.ProcessPayment)

		admin := api.Group("/admin", middleware.Auth(secret), middleware.AdminOnly())
		admin.POST("/routes", handlers.CreateRoute)
		admin.PUT("/routes/:id/deactivate", handlers.DeactivateRoute)
		admin.POST("/buses", handlers.CreateBus)
		admin.PUT("/buses/:id/deactivate", handlers.DeactivateBus)
		admin.POST("/schedules", handlers.CreateSchedule)
		admin.PUT("/schedules/:id/cancel", handlers.CancelSchedule)
		admin.GET("/analytics", handlers.AnalyticsSummary)
		admin.POST("/predictions", handlers.CreatePrediction)
		admin.PUT("/predictions/:id/actual", handlers.RecordPredictionActual)
		admin.GET("/predictions", handlers.ListPredictions)
	}

	return r
}
