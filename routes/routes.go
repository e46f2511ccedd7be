package routes

import (
	"net/http"
	"time"

	"careline/handlers"
	"careline/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterChatRoutes registers the conversational endpoint.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.POST("/chat", hb.ChatHandler)
	}
}

// RegisterAppointmentRoutes registers appointment directory endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.GET("", hb.AvailabilityHandler)
		api.POST("/book", hb.BookAppointmentHandler)
		api.GET("/doctors", hb.DoctorsHandler)
	}
}

// RegisterHRRoutes registers HR knowledge base endpoints.
func RegisterHRRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/hr/policies", hb.HRPoliciesHandler)
		api.GET("/company/info", hb.CompanyInfoHandler)
	}
}

// RegisterSessionRoutes registers session inspection endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/session")
	{
		api.GET("/:id", hb.GetSessionHandler)
		api.DELETE("/:id", hb.DeleteSessionHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "backends": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterChatRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
	RegisterHRRoutes(r, hb)
	RegisterSessionRoutes(r, hb)
	RegisterHealthRoute(r)
}
