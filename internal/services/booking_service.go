package services

import (
	"context"
	"strings"

	"travellink/internal/domain"
	"travellink/internal/domain/models"
	"travellink/internal/utils"
)

// BookingService reads confirmed bookings on behalf of a role.
type BookingService struct {
	Store     BookingStore
	RequestID string
}

// BookingFilterFor scopes a listing to what role may see.
func BookingFilterFor(role domain.Role) (models.BookingFilter, error) {
	switch r := role.(type) {
	case domain.Customer:
		return models.BookingFilter{CustomerEmail: r.Email}, nil
	case domain.Agency:
		return models.BookingFilter{AgencyName: r.CompanyName}, nil
	case domain.Admin:
		return models.BookingFilter{}, nil
	default:
		return models.BookingFilter{}, domain.UnauthorizedError{Msg: "role required"}
	}
}

func (s BookingService) List(ctx context.Context, role domain.Role) ([]models.BookingRecord, error) {
	f, err := BookingFilterFor(role)
	if err != nil {
		return nil, err
	}
	out, err := s.Store.ListBookings(ctx, f)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to list bookings", Err: err}
	}
	return out, nil
}

func (s BookingService) Get(ctx context.Context, role domain.Role, id string) (models.BookingRecord, error) {
	f, err := BookingFilterFor(role)
	if err != nil {
		return models.BookingRecord{}, err
	}
	rec, err := s.Store.GetBooking(ctx, id)
	if err != nil {
		return models.BookingRecord{}, err
	}
	// same case-insensitive match the stores apply to listings
	if (f.CustomerEmail != "" && !strings.EqualFold(rec.Customer.Email, f.CustomerEmail)) ||
		(f.AgencyName != "" && !strings.EqualFold(rec.AgencyName, f.AgencyName)) {
		return models.BookingRecord{}, domain.NotFoundError{Resource: "booking"}
	}
	return rec, nil
}

// Cancel moves a confirmed booking to cancelled. The caller must be able to Get it.
func (s BookingService) Cancel(ctx context.Context, role domain.Role, id string) (models.BookingRecord, error) {
	rec, err := s.Get(ctx, role, id)
	if err != nil {
		return models.BookingRecord{}, err
	}
	if rec.Status == models.BookingStatusCancelled {
		return models.BookingRecord{}, domain.ConflictError{Resource: "booking", Msg: "booking is already cancelled"}
	}
	out, err := s.Store.UpdateBookingStatus(ctx, rec.ID, models.BookingStatusCancelled)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.BookingRecord{}, err
		}
		return models.BookingRecord{}, domain.InternalError{Msg: "failed to cancel booking", Err: err}
	}
	utils.LogEvent(s.RequestID, "booking", "cancel", "booking="+rec.ID+" confirmation="+rec.ConfirmationNumber)
	return out, nil
}
