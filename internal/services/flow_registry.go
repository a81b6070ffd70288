package services

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"travellink/internal/domain"
	"travellink/internal/domain/models"
	"travellink/internal/utils"

	"github.com/google/uuid"
)

// Defaults applied to a flow request that leaves the package fields blank.
const (
	DefaultPackageTitle   = "Adventure Package"
	DefaultAgencyName     = "Mountain Explorers"
	DefaultPricePerPerson = 15999
	DefaultTravelers      = 2
)

// DefaultFlowTTL is how long an abandoned flow is kept.
const DefaultFlowTTL = 30 * time.Minute

// FlowRegistry owns the live booking flows of this process. Flows never share state.
type FlowRegistry struct {
	deps FlowDeps

	// TTL bounds unpaid flows and confirmed flows whose booking could not be stored.
	// Zero keeps them until restart.
	TTL time.Duration

	mu    sync.RWMutex
	flows map[string]*BookingFlow
}

func NewFlowRegistry(deps FlowDeps) *FlowRegistry {
	return &FlowRegistry{deps: deps, TTL: DefaultFlowTTL, flows: make(map[string]*BookingFlow)}
}

// ApplyBookingDefaults fills blank package fields with the standard adventure package.
func ApplyBookingDefaults(req models.BookingRequest) models.BookingRequest {
	if strings.TrimSpace(req.PackageTitle) == "" {
		req.PackageTitle = DefaultPackageTitle
	}
	if strings.TrimSpace(req.AgencyName) == "" {
		req.AgencyName = DefaultAgencyName
	}
	if req.PricePerPerson == 0 {
		req.PricePerPerson = DefaultPricePerPerson
	}
	if req.Travelers == 0 {
		req.Travelers = DefaultTravelers
	}
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	return req
}

// Start validates req and opens a new flow in the Payment state.
func (r *FlowRegistry) Start(req models.BookingRequest) (*BookingFlow, error) {
	req = ApplyBookingDefaults(req)
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	f := NewBookingFlow("flow_"+uuid.NewString(), req, r.deps)
	r.mu.Lock()
	r.flows[f.ID()] = f
	r.mu.Unlock()
	return f, nil
}

func (r *FlowRegistry) Get(id string) (*BookingFlow, error) {
	r.mu.RLock()
	f, ok := r.flows[strings.TrimSpace(id)]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.NotFoundError{Resource: "booking flow"}
	}
	return f, nil
}

func (r *FlowRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.flows)
}

// Sweep drops every flow that has expired at now and returns how many went.
func (r *FlowRegistry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, f := range r.flows {
		if f.expired(now, r.TTL) {
			delete(r.flows, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (r *FlowRegistry) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := r.Sweep(now.UTC()); n > 0 {
				utils.LogEvent("", "booking", "sweep", "evicted "+strconv.Itoa(n)+" flows")
			}
		}
	}
}
