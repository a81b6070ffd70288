package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"travellink/internal/domain"
	"travellink/internal/domain/models"
)

// MemoryItineraryStore keeps listings for the life of the process.
type MemoryItineraryStore struct {
	mu    sync.RWMutex
	items map[string]models.Itinerary
}

func NewMemoryItineraryStore() *MemoryItineraryStore {
	return &MemoryItineraryStore{items: make(map[string]models.Itinerary)}
}

func (s *MemoryItineraryStore) SaveItinerary(_ context.Context, it models.Itinerary) error {
	if strings.TrimSpace(it.ID) == "" {
		return domain.ValidationError{Field: "id", Msg: "is required"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[it.ID]; ok {
		return domain.ConflictError{Resource: "itinerary", Msg: "id " + it.ID + " already stored"}
	}
	s.items[it.ID] = cloneItinerary(it)
	return nil
}

func (s *MemoryItineraryStore) UpdateItinerary(_ context.Context, it models.Itinerary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[it.ID]; !ok {
		return domain.NotFoundError{Resource: "itinerary"}
	}
	s.items[it.ID] = cloneItinerary(it)
	return nil
}

func (s *MemoryItineraryStore) GetItinerary(_ context.Context, id string) (models.Itinerary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return models.Itinerary{}, domain.NotFoundError{Resource: "itinerary"}
	}
	return cloneItinerary(it), nil
}

func (s *MemoryItineraryStore) ListItineraries(_ context.Context, f models.ItineraryFilter) ([]models.Itinerary, error) {
	s.mu.RLock()
	out := make([]models.Itinerary, 0, len(s.items))
	for _, it := range s.items {
		if MatchItinerary(it, f) {
			out = append(out, cloneItinerary(it))
		}
	}
	s.mu.RUnlock()
	SortItineraries(out)
	return out, nil
}

// MatchItinerary applies f to one listing. Agent names compare case-insensitively.
func MatchItinerary(it models.Itinerary, f models.ItineraryFilter) bool {
	if f.AgentName != "" && !strings.EqualFold(it.AgentName, f.AgentName) {
		return false
	}
	if f.ActiveOnly && !it.Active {
		return false
	}
	return true
}

// SortItineraries orders newest first, ties broken by id.
func SortItineraries(items []models.Itinerary) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}

func cloneItinerary(it models.Itinerary) models.Itinerary {
	it.Days = append([]models.ItineraryDay(nil), it.Days...)
	return it
}
