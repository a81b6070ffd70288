package handlers

import (
	"net/http"

	"travellink/internal/domain/models"
	"travellink/internal/http/middleware"
	"travellink/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/dashboard
func (a *App) Dashboard(c *gin.Context) {
	d, err := services.DashboardService{Bookings: a.Bookings, Leads: a.Leads}.
		For(c.Request.Context(), middleware.CurrentRole(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GET /api/analytics
func (a *App) Analytics(c *gin.Context) {
	s, err := services.AnalyticsService{Bookings: a.Bookings, Leads: a.Leads}.
		Summary(c.Request.Context(), bookingFilterFromQuery(c), leadFilterFromQuery(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func bookingFilterFromQuery(c *gin.Context) models.BookingFilter {
	return models.BookingFilter{
		CustomerEmail: c.Query("customerEmail"),
		AgencyName:    c.Query("agency"),
	}
}

func leadFilterFromQuery(c *gin.Context) models.LeadFilter {
	f := models.LeadFilter{AgentName: c.Query("agency")}
	if st, ok := models.ParseLeadStatus(c.Query("status")); ok {
		f.Status = st
	}
	return f
}
