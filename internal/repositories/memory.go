package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"travellink/internal/domain"
	"travellink/internal/domain/models"
)

// MemoryBookingStore keeps bookings for the life of the process. Used when DB_DSN is empty.
type MemoryBookingStore struct {
	mu    sync.RWMutex
	items map[string]models.BookingRecord
}

func NewMemoryBookingStore() *MemoryBookingStore {
	return &MemoryBookingStore{items: make(map[string]models.BookingRecord)}
}

func (s *MemoryBookingStore) SaveBooking(_ context.Context, rec models.BookingRecord) error {
	if strings.TrimSpace(rec.ID) == "" {
		return domain.ValidationError{Field: "id", Msg: "is required"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[rec.ID]; ok {
		return domain.ConflictError{Resource: "booking", Msg: "id " + rec.ID + " already stored"}
	}
	s.items[rec.ID] = cloneBooking(rec)
	return nil
}

func (s *MemoryBookingStore) GetBooking(_ context.Context, id string) (models.BookingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.items[id]
	if !ok {
		return models.BookingRecord{}, domain.NotFoundError{Resource: "booking"}
	}
	return cloneBooking(rec), nil
}

func (s *MemoryBookingStore) ListBookings(_ context.Context, f models.BookingFilter) ([]models.BookingRecord, error) {
	s.mu.RLock()
	out := make([]models.BookingRecord, 0, len(s.items))
	for _, rec := range s.items {
		if matchBooking(rec, f) {
			out = append(out, cloneBooking(rec))
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Payment.Timestamp.After(out[j].Payment.Timestamp)
	})
	return out, nil
}

func (s *MemoryBookingStore) UpdateBookingStatus(_ context.Context, id, status string) (models.BookingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.items[id]
	if !ok {
		return models.BookingRecord{}, domain.NotFoundError{Resource: "booking"}
	}
	rec.Status = status
	s.items[id] = rec
	return cloneBooking(rec), nil
}

func matchBooking(rec models.BookingRecord, f models.BookingFilter) bool {
	if f.CustomerEmail != "" && !strings.EqualFold(rec.Customer.Email, f.CustomerEmail) {
		return false
	}
	if f.AgencyName != "" && !strings.EqualFold(rec.AgencyName, f.AgencyName) {
		return false
	}
	return true
}

func cloneBooking(rec models.BookingRecord) models.BookingRecord {
	rec.Itinerary = append([]models.ItineraryDay(nil), rec.Itinerary...)
	return rec
}

// MemoryLeadStore keeps leads for the life of the process.
type MemoryLeadStore struct {
	mu    sync.RWMutex
	items map[string]models.Lead
}

func NewMemoryLeadStore() *MemoryLeadStore {
	return &MemoryLeadStore{items: make(map[string]models.Lead)}
}

func (s *MemoryLeadStore) SaveLead(_ context.Context, lead models.Lead) error {
	if strings.TrimSpace(lead.ID) == "" {
		return domain.ValidationError{Field: "id", Msg: "is required"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[lead.ID] = lead
	return nil
}

func (s *MemoryLeadStore) GetLead(_ context.Context, id string) (models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lead, ok := s.items[id]
	if !ok {
		return models.Lead{}, domain.NotFoundError{Resource: "lead"}
	}
	return lead, nil
}

func (s *MemoryLeadStore) ListLeads(_ context.Context, f models.LeadFilter) ([]models.Lead, error) {
	s.mu.RLock()
	out := make([]models.Lead, 0, len(s.items))
	for _, l := range s.items {
		if MatchLead(l, f) {
			out = append(out, l)
		}
	}
	s.mu.RUnlock()
	SortLeads(out)
	return out, nil
}

func (s *MemoryLeadStore) UpdateLeadStatus(_ context.Context, id string, status models.LeadStatus, at time.Time) (models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lead, ok := s.items[id]
	if !ok {
		return models.Lead{}, domain.NotFoundError{Resource: "lead"}
	}
	lead.Status = status
	lead.UpdatedAt = at
	s.items[id] = lead
	return lead, nil
}

// MatchLead applies f to one lead. Agent names compare case-insensitively.
func MatchLead(l models.Lead, f models.LeadFilter) bool {
	if f.AgentName != "" && !strings.EqualFold(l.AgentName, f.AgentName) {
		return false
	}
	if f.CustomerEmail != "" && !strings.EqualFold(l.CustomerEmail, f.CustomerEmail) {
		return false
	}
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	return true
}

// SortLeads orders newest first, ties broken by id.
func SortLeads(leads []models.Lead) {
	sort.Slice(leads, func(i, j int) bool {
		if !leads[i].CreatedAt.Equal(leads[j].CreatedAt) {
			return leads[i].CreatedAt.After(leads[j].CreatedAt)
		}
		return leads[i].ID < leads[j].ID
	})
}
