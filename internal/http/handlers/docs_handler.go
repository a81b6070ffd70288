package handlers

import (
	"travellink/internal/domain/models"

	"github.com/gin-gonic/gin"
)

type itineraryDocRequest struct {
	Itinerary models.Itinerary `json:"itinerary"`
	Agent     *models.Agent    `json:"agent,omitempty"`
}

type agentProfileDocRequest struct {
	Agent       models.Agent       `json:"agent"`
	Description string             `json:"description"`
	Packages    []models.Itinerary `json:"packages"`
}

// POST /api/docs/itinerary
func (a *App) ItineraryPDF(c *gin.Context) {
	var req itineraryDocRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	doc, err := a.docs(c).GenerateItinerary(req.Itinerary, req.Agent)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendPDF(c, doc.Filename, doc.Content)
}

// POST /api/docs/agent-profile
func (a *App) AgentProfilePDF(c *gin.Context) {
	var req agentProfileDocRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	doc, err := a.docs(c).GenerateAgentProfile(req.Agent, req.Description, req.Packages)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendPDF(c, doc.Filename, doc.Content)
}
