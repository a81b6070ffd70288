package handlers

import (
	"net/http"

	"travellink/internal/http/middleware"
	"travellink/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/leads
func (a *App) CreateLead(c *gin.Context) {
	var in services.LeadInput
	if !BindJSONOrError(c, &in) {
		return
	}
	lead, err := a.leads(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lead)
}

// GET /api/leads?status=
func (a *App) ListLeads(c *gin.Context) {
	out, err := a.leads(c).List(c.Request.Context(), middleware.CurrentRole(c), c.Query("status"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": out, "count": len(out)})
}

type leadStatusRequest struct {
	Status string `json:"status"`
}

// PUT /api/leads/:id/status
func (a *App) UpdateLeadStatus(c *gin.Context) {
	var req leadStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	lead, err := a.leads(c).UpdateStatus(c.Request.Context(), middleware.CurrentRole(c), c.Param("id"), req.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}
