package services

import (
	"context"
	"strings"
	"time"

	"travellink/internal/domain"
	"travellink/internal/domain/models"
	"travellink/internal/utils"

	"github.com/google/uuid"
)

// LeadInput is the inquiry form submitted by a customer.
type LeadInput struct {
	ItineraryID    string `json:"itineraryId"`
	ItineraryTitle string `json:"itineraryTitle"`
	AgentID        string `json:"agentId"`
	AgentName      string `json:"agentName" validate:"required"`
	CustomerName   string `json:"customerName" validate:"required"`
	CustomerEmail  string `json:"customerEmail" validate:"required,email"`
	CustomerPhone  string `json:"customerPhone"`
	Message        string `json:"message" validate:"required"`
	Destination    string `json:"destination"`
	TravelDate     string `json:"travelDate"`
	GroupSize      int    `json:"groupSize" validate:"gte=0,lte=100"`
	BudgetRange    string `json:"budgetRange"`
	Source         string `json:"source"`
}

type LeadService struct {
	Store     LeadStore
	RequestID string
	Now       func() time.Time
}

func (s LeadService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

func (s LeadService) Create(ctx context.Context, in LeadInput) (models.Lead, error) {
	in.AgentName = strings.TrimSpace(in.AgentName)
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	in.Message = strings.TrimSpace(in.Message)
	if err := ValidateStruct(in); err != nil {
		return models.Lead{}, err
	}

	now := s.now()
	lead := models.Lead{
		ID:             "lead_" + uuid.NewString(),
		ItineraryID:    in.ItineraryID,
		ItineraryTitle: in.ItineraryTitle,
		AgentID:        in.AgentID,
		AgentName:      in.AgentName,
		CustomerName:   in.CustomerName,
		CustomerEmail:  in.CustomerEmail,
		CustomerPhone:  strings.TrimSpace(in.CustomerPhone),
		Message:        in.Message,
		Destination:    in.Destination,
		TravelDate:     in.TravelDate,
		GroupSize:      in.GroupSize,
		BudgetRange:    in.BudgetRange,
		Source:         utils.Safe(in.Source, "website"),
		Status:         models.LeadNew,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Store.SaveLead(ctx, lead); err != nil {
		return models.Lead{}, domain.InternalError{Msg: "failed to save lead", Err: err}
	}
	utils.LogEvent(s.RequestID, "leads", "create", "lead="+lead.ID+" agent="+lead.AgentName)
	return lead, nil
}

// LeadFilterFor scopes a listing to what role may see.
func LeadFilterFor(role domain.Role) (models.LeadFilter, error) {
	switch r := role.(type) {
	case domain.Customer:
		return models.LeadFilter{CustomerEmail: r.Email}, nil
	case domain.Agency:
		return models.LeadFilter{AgentName: r.CompanyName}, nil
	case domain.Admin:
		return models.LeadFilter{}, nil
	default:
		return models.LeadFilter{}, domain.UnauthorizedError{Msg: "role required"}
	}
}

func (s LeadService) List(ctx context.Context, role domain.Role, status string) ([]models.Lead, error) {
	f, err := LeadFilterFor(role)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(status) != "" {
		st, ok := models.ParseLeadStatus(status)
		if !ok {
			return nil, domain.ValidationError{Field: "status", Msg: "must be one of new, contacted, converted, closed"}
		}
		f.Status = st
	}
	leads, err := s.Store.ListLeads(ctx, f)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to list leads", Err: err}
	}
	return leads, nil
}

// UpdateStatus moves a lead between statuses. Agencies may only touch their own
// leads and must be verified; customers may not change status at all.
func (s LeadService) UpdateStatus(ctx context.Context, role domain.Role, id, status string) (models.Lead, error) {
	st, ok := models.ParseLeadStatus(status)
	if !ok {
		return models.Lead{}, domain.ValidationError{Field: "status", Msg: "must be one of new, contacted, converted, closed"}
	}

	switch r := role.(type) {
	case domain.Admin:
	case domain.Agency:
		if !r.Verified {
			return models.Lead{}, domain.ForbiddenError{Action: "manage leads before verification", Role: r.Name()}
		}
		lead, err := s.Store.GetLead(ctx, id)
		if err != nil {
			return models.Lead{}, err
		}
		if !strings.EqualFold(lead.AgentName, r.CompanyName) {
			return models.Lead{}, domain.NotFoundError{Resource: "lead"}
		}
	case domain.Customer:
		return models.Lead{}, domain.ForbiddenError{Action: "update lead status", Role: r.Name()}
	default:
		return models.Lead{}, domain.UnauthorizedError{Msg: "role required"}
	}

	lead, err := s.Store.UpdateLeadStatus(ctx, id, st, s.now())
	if err != nil {
		return models.Lead{}, err
	}
	utils.LogEvent(s.RequestID, "leads", "update_status", "lead="+id+" status="+string(st))
	return lead, nil
}
