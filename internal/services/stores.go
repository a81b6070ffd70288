package services

import (
	"context"
	"time"

	"travellink/internal/domain/models"
)

// BookingStore persists confirmed bookings. Implementations live in repositories.
type BookingStore interface {
	SaveBooking(ctx context.Context, rec models.BookingRecord) error
	GetBooking(ctx context.Context, id string) (models.BookingRecord, error)
	ListBookings(ctx context.Context, f models.BookingFilter) ([]models.BookingRecord, error)
	// UpdateBookingStatus returns the updated record, or domain.NotFoundError for an unknown id.
	UpdateBookingStatus(ctx context.Context, id, status string) (models.BookingRecord, error)
}

// ItineraryStore persists agency listings. Save rejects a known id with
// domain.ConflictError; Get and Update return domain.NotFoundError for unknown ids.
type ItineraryStore interface {
	SaveItinerary(ctx context.Context, it models.Itinerary) error
	UpdateItinerary(ctx context.Context, it models.Itinerary) error
	GetItinerary(ctx context.Context, id string) (models.Itinerary, error)
	ListItineraries(ctx context.Context, f models.ItineraryFilter) ([]models.Itinerary, error)
}

// LeadStore persists inquiries. Get and UpdateStatus return domain.NotFoundError for unknown ids.
type LeadStore interface {
	SaveLead(ctx context.Context, lead models.Lead) error
	GetLead(ctx context.Context, id string) (models.Lead, error)
	ListLeads(ctx context.Context, f models.LeadFilter) ([]models.Lead, error)
	UpdateLeadStatus(ctx context.Context, id string, status models.LeadStatus, at time.Time) (models.Lead, error)
}
