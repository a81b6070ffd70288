package services

import (
	"context"

	"travellink/internal/domain"
	"travellink/internal/domain/models"
)

// Dashboard is the role-specific landing payload. Only the fields for the caller's role are set.
type Dashboard struct {
	Role     string                 `json:"role"`
	Notice   string                 `json:"notice,omitempty"`
	Bookings []models.BookingRecord `json:"bookings,omitempty"`
	Leads    []models.Lead          `json:"leads,omitempty"`
	Stats    *Summary               `json:"stats,omitempty"`
}

type DashboardService struct {
	Bookings BookingStore
	Leads    LeadStore
}

func (s DashboardService) For(ctx context.Context, role domain.Role) (Dashboard, error) {
	analytics := AnalyticsService{Bookings: s.Bookings, Leads: s.Leads}

	switch r := role.(type) {
	case domain.Customer:
		bookings, err := BookingService{Store: s.Bookings}.List(ctx, r)
		if err != nil {
			return Dashboard{}, err
		}
		return Dashboard{Role: r.Name(), Bookings: bookings}, nil

	case domain.Agency:
		d := Dashboard{Role: r.Name()}
		if !r.Verified {
			d.Notice = "Your agency is pending verification. Listings and leads unlock once an admin approves it."
			return d, nil
		}
		leads, err := LeadService{Store: s.Leads}.List(ctx, r, "")
		if err != nil {
			return Dashboard{}, err
		}
		stats, err := analytics.Summary(ctx, models.BookingFilter{AgencyName: r.CompanyName}, models.LeadFilter{AgentName: r.CompanyName})
		if err != nil {
			return Dashboard{}, err
		}
		d.Leads = leads
		d.Stats = &stats
		return d, nil

	case domain.Admin:
		stats, err := analytics.Summary(ctx, models.BookingFilter{}, models.LeadFilter{})
		if err != nil {
			return Dashboard{}, err
		}
		return Dashboard{Role: r.Name(), Stats: &stats}, nil

	default:
		return Dashboard{}, domain.UnauthorizedError{Msg: "role required"}
	}
}
