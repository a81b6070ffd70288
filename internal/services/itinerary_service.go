package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"travellink/internal/domain"
	"travellink/internal/domain/models"
	"travellink/internal/utils"

	"github.com/google/uuid"
)

// ItineraryInput is the listing form an agency fills in to create or edit a package.
type ItineraryInput struct {
	Title          string                `json:"title" validate:"required"`
	Destination    string                `json:"destination" validate:"required"`
	Description    string                `json:"description" validate:"required"`
	PricePerPerson float64               `json:"pricePerPerson" validate:"gte=0"`
	DurationDays   int                   `json:"durationDays" validate:"gte=1,lte=60"`
	DurationNights int                   `json:"durationNights" validate:"gte=0,lte=60"`
	Category       string                `json:"category"`
	Days           []models.ItineraryDay `json:"days"`
}

func (in ItineraryInput) normalized() ItineraryInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Destination = strings.TrimSpace(in.Destination)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	return in
}

// ItineraryService manages agency listings. Verified agencies own the listings they
// publish; admins may edit any listing.
type ItineraryService struct {
	Store     ItineraryStore
	RequestID string
	Now       func() time.Time
}

func (s ItineraryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

// Catalogue lists active listings, optionally for one agency.
func (s ItineraryService) Catalogue(ctx context.Context, agent string) ([]models.Itinerary, error) {
	out, err := s.Store.ListItineraries(ctx, models.ItineraryFilter{AgentName: strings.TrimSpace(agent), ActiveOnly: true})
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to list itineraries", Err: err}
	}
	return out, nil
}

// Mine lists every listing the caller manages, inactive ones included.
func (s ItineraryService) Mine(ctx context.Context, role domain.Role) ([]models.Itinerary, error) {
	var f models.ItineraryFilter
	switch r := role.(type) {
	case domain.Admin:
	case domain.Agency:
		f.AgentName = r.CompanyName
	case domain.Customer:
		return nil, domain.ForbiddenError{Action: "manage itineraries", Role: r.Name()}
	default:
		return nil, domain.UnauthorizedError{Msg: "role required"}
	}
	out, err := s.Store.ListItineraries(ctx, f)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to list itineraries", Err: err}
	}
	return out, nil
}

// Get returns an active listing to anyone. Inactive listings are only visible
// to their agency and to admins.
func (s ItineraryService) Get(ctx context.Context, role domain.Role, id string) (models.Itinerary, error) {
	it, err := s.Store.GetItinerary(ctx, strings.TrimSpace(id))
	if err != nil {
		return models.Itinerary{}, err
	}
	if it.Active {
		return it, nil
	}
	switch r := role.(type) {
	case domain.Admin:
		return it, nil
	case domain.Agency:
		if strings.EqualFold(it.AgentName, r.CompanyName) {
			return it, nil
		}
	}
	return models.Itinerary{}, domain.NotFoundError{Resource: "itinerary"}
}

func (s ItineraryService) Create(ctx context.Context, role domain.Role, in ItineraryInput) (models.Itinerary, error) {
	var agency domain.Agency
	switch r := role.(type) {
	case domain.Agency:
		if !r.Verified {
			return models.Itinerary{}, domain.ForbiddenError{Action: "publish itineraries before verification", Role: r.Name()}
		}
		agency = r
	case nil:
		return models.Itinerary{}, domain.UnauthorizedError{Msg: "role required"}
	default:
		return models.Itinerary{}, domain.ForbiddenError{Action: "publish itineraries", Role: r.Name()}
	}

	in = in.normalized()
	if err := ValidateStruct(in); err != nil {
		return models.Itinerary{}, err
	}

	now := s.now()
	it := models.Itinerary{
		ID:        "itin_" + uuid.NewString(),
		AgentName: agency.CompanyName,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyInput(&it, in)
	if err := s.Store.SaveItinerary(ctx, it); err != nil {
		return models.Itinerary{}, domain.InternalError{Msg: "failed to save itinerary", Err: err}
	}
	utils.LogEvent(s.RequestID, "itineraries", "create", "itinerary="+it.ID+" agent="+it.AgentName)
	return it, nil
}

// Update replaces the editable fields. Owner, rating, active flag and creation time are kept.
func (s ItineraryService) Update(ctx context.Context, role domain.Role, id string, in ItineraryInput) (models.Itinerary, error) {
	it, err := s.managed(ctx, role, id)
	if err != nil {
		return models.Itinerary{}, err
	}
	in = in.normalized()
	if err := ValidateStruct(in); err != nil {
		return models.Itinerary{}, err
	}
	applyInput(&it, in)
	it.UpdatedAt = s.now()
	if err := s.save(ctx, it); err != nil {
		return models.Itinerary{}, err
	}
	utils.LogEvent(s.RequestID, "itineraries", "update", "itinerary="+it.ID)
	return it, nil
}

// SetActive publishes or hides a listing.
func (s ItineraryService) SetActive(ctx context.Context, role domain.Role, id string, active bool) (models.Itinerary, error) {
	it, err := s.managed(ctx, role, id)
	if err != nil {
		return models.Itinerary{}, err
	}
	it.Active = active
	it.UpdatedAt = s.now()
	if err := s.save(ctx, it); err != nil {
		return models.Itinerary{}, err
	}
	utils.LogEvent(s.RequestID, "itineraries", "set_active", "itinerary="+it.ID+" active="+strconv.FormatBool(active))
	return it, nil
}

// managed loads a listing the caller may change. Other agencies' listings read as missing.
func (s ItineraryService) managed(ctx context.Context, role domain.Role, id string) (models.Itinerary, error) {
	switch r := role.(type) {
	case domain.Admin:
	case domain.Agency:
		if !r.Verified {
			return models.Itinerary{}, domain.ForbiddenError{Action: "manage itineraries before verification", Role: r.Name()}
		}
	case domain.Customer:
		return models.Itinerary{}, domain.ForbiddenError{Action: "manage itineraries", Role: r.Name()}
	default:
		return models.Itinerary{}, domain.UnauthorizedError{Msg: "role required"}
	}

	it, err := s.Store.GetItinerary(ctx, strings.TrimSpace(id))
	if err != nil {
		return models.Itinerary{}, err
	}
	if a, ok := role.(domain.Agency); ok && !strings.EqualFold(it.AgentName, a.CompanyName) {
		return models.Itinerary{}, domain.NotFoundError{Resource: "itinerary"}
	}
	return it, nil
}

func (s ItineraryService) save(ctx context.Context, it models.Itinerary) error {
	if err := s.Store.UpdateItinerary(ctx, it); err != nil {
		if domain.IsNotFound(err) {
			return err
		}
		return domain.InternalError{Msg: "failed to update itinerary", Err: err}
	}
	return nil
}

func applyInput(it *models.Itinerary, in ItineraryInput) {
	it.Title = in.Title
	it.Destination = in.Destination
	it.Description = in.Description
	it.PricePerPerson = in.PricePerPerson
	it.DurationDays = in.DurationDays
	it.DurationNights = in.DurationNights
	it.Category = in.Category
	it.Days = append([]models.ItineraryDay(nil), in.Days...)
}
