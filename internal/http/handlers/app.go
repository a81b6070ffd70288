package handlers

import (
	"travellink/internal/http/middleware"
	"travellink/internal/layout"
	"travellink/internal/services"

	"github.com/gin-gonic/gin"
)

// App carries the collaborators shared by every handler.
type App struct {
	Flows       *services.FlowRegistry
	Bookings    services.BookingStore
	Leads       services.LeadStore
	Itineraries services.ItineraryStore
	Accounts    *services.AccountDirectory
	Tokens      services.TokenService
	Engine      layout.Engine
}

func (a *App) docs(c *gin.Context) services.DocsService {
	return services.DocsService{Engine: a.Engine, RequestID: middleware.GetRequestID(c)}
}

func (a *App) leads(c *gin.Context) services.LeadService {
	return services.LeadService{Store: a.Leads, RequestID: middleware.GetRequestID(c)}
}

func (a *App) itineraries(c *gin.Context) services.ItineraryService {
	return services.ItineraryService{Store: a.Itineraries, RequestID: middleware.GetRequestID(c)}
}
