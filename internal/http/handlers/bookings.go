package handlers

import (
	"context"
	"net/http"

	"travellink/internal/domain"
	"travellink/internal/domain/models"
	"travellink/internal/http/middleware"
	"travellink/internal/services"
	"travellink/internal/utils"

	"github.com/gin-gonic/gin"
)

type quoteRequest struct {
	PricePerPerson float64 `json:"pricePerPerson" validate:"gte=0"`
	Travelers      int     `json:"travelers" validate:"gte=1,lte=50"`
}

type quoteResponse struct {
	models.Charges
	Formatted map[string]string `json:"formatted"`
}

// POST /api/bookings/quote
func (a *App) Quote(c *gin.Context) {
	var req quoteRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := services.ValidateStruct(req); err != nil {
		RespondDomainError(c, err)
		return
	}
	ch := services.ComputeCharges(req.PricePerPerson * float64(req.Travelers))
	c.JSON(http.StatusOK, quoteResponse{
		Charges: ch,
		Formatted: map[string]string{
			"base":       utils.FormatINR(ch.Base),
			"gst":        utils.FormatINR(ch.GST),
			"serviceFee": utils.FormatINR(ch.ServiceFee),
			"total":      utils.FormatINR(ch.Total),
		},
	})
}

// POST /api/bookings/flows
func (a *App) CreateFlow(c *gin.Context) {
	var req models.BookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if rc, ok := middleware.CurrentUser(c); ok {
		if _, isCustomer := rc.Role.(domain.Customer); isCustomer {
			req.CustomerEmail = utils.Safe(req.CustomerEmail, rc.Email)
			req.CustomerName = utils.Safe(req.CustomerName, rc.Name)
		}
	}

	flow, err := a.Flows.Start(req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "booking", "start_flow", "flow="+flow.ID())
	c.JSON(http.StatusCreated, flow.Snapshot())
}

// GET /api/bookings/flows/:id
func (a *App) GetFlow(c *gin.Context) {
	flow, err := a.Flows.Get(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow.Snapshot())
}

// POST /api/bookings/flows/:id/payment
func (a *App) SubmitFlowPayment(c *gin.Context) {
	flow, err := a.Flows.Get(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	var card models.CardDetails
	if !BindJSONOrError(c, &card) {
		return
	}

	// A started charge runs to completion even if the client goes away.
	ctx := context.WithoutCancel(c.Request.Context())
	rec, err := flow.SubmitPayment(ctx, middleware.GetRequestID(c), card)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":   services.StateConfirmation,
		"booking": rec,
	})
}

// GET /api/bookings/flows/:id/receipt
func (a *App) FlowReceipt(c *gin.Context) {
	flow, err := a.Flows.Get(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	rec, ok := flow.Record()
	if !ok {
		RespondDomainError(c, domain.ConflictError{Resource: "booking flow", Msg: "payment not completed yet"})
		return
	}
	doc, err := a.docs(c).GenerateConfirmation(rec)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendPDF(c, doc.Filename, doc.Content)
}

// GET /api/bookings
func (a *App) ListBookings(c *gin.Context) {
	out, err := services.BookingService{Store: a.Bookings, RequestID: middleware.GetRequestID(c)}.
		List(c.Request.Context(), middleware.CurrentRole(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out, "count": len(out)})
}

// GET /api/bookings/:id
func (a *App) GetBooking(c *gin.Context) {
	rec, err := services.BookingService{Store: a.Bookings, RequestID: middleware.GetRequestID(c)}.
		Get(c.Request.Context(), middleware.CurrentRole(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// POST /api/bookings/:id/cancel
func (a *App) CancelBooking(c *gin.Context) {
	rec, err := services.BookingService{Store: a.Bookings, RequestID: middleware.GetRequestID(c)}.
		Cancel(c.Request.Context(), middleware.CurrentRole(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GET /api/bookings/:id/receipt
func (a *App) BookingReceipt(c *gin.Context) {
	rec, err := services.BookingService{Store: a.Bookings}.
		Get(c.Request.Context(), middleware.CurrentRole(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	doc, err := a.docs(c).GenerateConfirmation(rec)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendPDF(c, doc.Filename, doc.Content)
}
