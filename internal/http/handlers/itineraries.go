package handlers

import (
	"net/http"

	"travellink/internal/domain"
	"travellink/internal/http/middleware"
	"travellink/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/itineraries?agent=
func (a *App) ListItineraries(c *gin.Context) {
	out, err := a.itineraries(c).Catalogue(c.Request.Context(), c.Query("agent"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"itineraries": out, "count": len(out)})
}

// GET /api/itineraries/mine
func (a *App) MyItineraries(c *gin.Context) {
	out, err := a.itineraries(c).Mine(c.Request.Context(), middleware.CurrentRole(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"itineraries": out, "count": len(out)})
}

// GET /api/itineraries/:id
func (a *App) GetItinerary(c *gin.Context) {
	it, err := a.itineraries(c).Get(c.Request.Context(), middleware.CurrentRole(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// POST /api/itineraries
func (a *App) CreateItinerary(c *gin.Context) {
	var in services.ItineraryInput
	if !BindJSONOrError(c, &in) {
		return
	}
	it, err := a.itineraries(c).Create(c.Request.Context(), middleware.CurrentRole(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

// PUT /api/itineraries/:id
func (a *App) UpdateItinerary(c *gin.Context) {
	var in services.ItineraryInput
	if !BindJSONOrError(c, &in) {
		return
	}
	it, err := a.itineraries(c).Update(c.Request.Context(), middleware.CurrentRole(c), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

type activeRequest struct {
	Active *bool `json:"active"`
}

// PATCH /api/itineraries/:id/active
func (a *App) SetItineraryActive(c *gin.Context) {
	var req activeRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Active == nil {
		RespondDomainError(c, domain.ValidationError{Field: "active", Msg: "is required"})
		return
	}
	it, err := a.itineraries(c).SetActive(c.Request.Context(), middleware.CurrentRole(c), c.Param("id"), *req.Active)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// GET /api/itineraries/:id/pdf
func (a *App) StoredItineraryPDF(c *gin.Context) {
	it, err := a.itineraries(c).Get(c.Request.Context(), middleware.CurrentRole(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	doc, err := a.docs(c).GenerateItinerary(it, nil)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendPDF(c, doc.Filename, doc.Content)
}
