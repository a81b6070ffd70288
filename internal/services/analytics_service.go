package services

import (
	"context"

	"travellink/internal/domain"
	"travellink/internal/domain/models"
)

type Summary struct {
	TotalBookings  int                       `json:"totalBookings"`
	Cancelled      int                       `json:"cancelled"`
	Revenue        float64                   `json:"revenue"`
	Travelers      int                       `json:"travelers"`
	TotalLeads     int                       `json:"totalLeads"`
	LeadsByStatus  map[models.LeadStatus]int `json:"leadsByStatus"`
	ConversionRate float64                   `json:"conversionRate"`
}

// AnalyticsService aggregates bookings and leads. Revenue is the sum of charged amounts
// over bookings that were not cancelled.
type AnalyticsService struct {
	Bookings BookingStore
	Leads    LeadStore
}

func Summarize(bookings []models.BookingRecord, leads []models.Lead) Summary {
	s := Summary{LeadsByStatus: map[models.LeadStatus]int{
		models.LeadNew:       0,
		models.LeadContacted: 0,
		models.LeadConverted: 0,
		models.LeadClosed:    0,
	}}
	for _, b := range bookings {
		s.TotalBookings++
		if b.Status == models.BookingStatusCancelled {
			s.Cancelled++
			continue
		}
		s.Revenue += b.Payment.Amount
		s.Travelers += b.Travel.Travelers
	}
	for _, l := range leads {
		s.TotalLeads++
		s.LeadsByStatus[l.Status]++
	}
	if s.TotalLeads > 0 {
		s.ConversionRate = float64(s.LeadsByStatus[models.LeadConverted]) / float64(s.TotalLeads) * 100
	}
	return s
}

func (s AnalyticsService) Summary(ctx context.Context, bf models.BookingFilter, lf models.LeadFilter) (Summary, error) {
	var (
		bookings []models.BookingRecord
		leads    []models.Lead
		err      error
	)
	if s.Bookings != nil {
		if bookings, err = s.Bookings.ListBookings(ctx, bf); err != nil {
			return Summary{}, domain.InternalError{Msg: "failed to load bookings", Err: err}
		}
	}
	if s.Leads != nil {
		if leads, err = s.Leads.ListLeads(ctx, lf); err != nil {
			return Summary{}, domain.InternalError{Msg: "failed to load leads", Err: err}
		}
	}
	return Summarize(bookings, leads), nil
}
