package api

import (
	stdhttp "net/http"

	intconfig "travellink/internal/config"
	h "travellink/internal/http/handlers"
	"travellink/internal/http/middleware"
	"travellink/internal/utils"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, app *h.App) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.LogWarn("", "router", "trusted_proxies", err.Error())
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"code":   "not_found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	optional := middleware.AuthOptional(app.Tokens)
	required := middleware.AuthRequired(app.Tokens)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", app.Login)
		auth.GET("/me", required, app.Me)

		// Booking flow: guests may book, a logged-in customer gets their details prefilled
		bookings := api.Group("/bookings")
		bookings.POST("/quote", app.Quote)
		bookings.POST("/flows", optional, app.CreateFlow)
		bookings.GET("/flows/:id", app.GetFlow)
		bookings.POST("/flows/:id/payment", app.SubmitFlowPayment)
		bookings.GET("/flows/:id/receipt", app.FlowReceipt)

		// Persisted bookings
		bookings.GET("", required, app.ListBookings)
		bookings.GET("/:id", required, app.GetBooking)
		bookings.GET("/:id/receipt", required, app.BookingReceipt)
		bookings.POST("/:id/cancel", required, app.CancelBooking)

		// Documents
		docs := api.Group("/docs")
		docs.POST("/itinerary", app.ItineraryPDF)
		docs.POST("/agent-profile", app.AgentProfilePDF)

		// Itineraries: the public catalogue shows active listings, agencies manage their own
		itineraries := api.Group("/itineraries")
		itineraries.GET("", app.ListItineraries)
		itineraries.GET("/mine", required, middleware.RequireRoles("agency", "admin"), app.MyItineraries)
		itineraries.GET("/:id", optional, app.GetItinerary)
		itineraries.GET("/:id/pdf", optional, app.StoredItineraryPDF)
		itineraries.POST("", required, middleware.RequireRoles("agency"), app.CreateItinerary)
		itineraries.PUT("/:id", required, middleware.RequireRoles("agency", "admin"), app.UpdateItinerary)
		itineraries.PATCH("/:id/active", required, middleware.RequireRoles("agency", "admin"), app.SetItineraryActive)

		// Leads
		leads := api.Group("/leads")
		leads.POST("", app.CreateLead)
		leads.GET("", required, app.ListLeads)
		leads.PUT("/:id/status", required, middleware.RequireRoles("agency", "admin"), app.UpdateLeadStatus)

		// Dashboards
		api.GET("/dashboard", required, app.Dashboard)
		api.GET("/analytics", required, middleware.RequireRoles("admin"), app.Analytics)
	}

	h.SetRouter(r)
	return r
}
