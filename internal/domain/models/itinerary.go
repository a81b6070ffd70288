package models

import "time"

// Itinerary is a travel package listing as shown to customers. Inactive
// listings are hidden from the public catalogue but kept for their agency.
type Itinerary struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Destination    string         `json:"destination"`
	PricePerPerson float64        `json:"pricePerPerson"`
	DurationDays   int            `json:"durationDays"`
	DurationNights int            `json:"durationNights"`
	Description    string         `json:"description"`
	Category       string         `json:"category"`
	Rating         float64        `json:"rating,omitempty"`
	AgentName      string         `json:"agentName,omitempty"`
	Days           []ItineraryDay `json:"days,omitempty"`
	Active         bool           `json:"active"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// ItineraryFilter narrows ItineraryStore listings. Empty fields match everything.
type ItineraryFilter struct {
	AgentName  string
	ActiveOnly bool
}

// Agent is an agency profile.
type Agent struct {
	CompanyName   string `json:"companyName"`
	ContactPhone  string `json:"contactPhone"`
	ContactEmail  string `json:"contactEmail"`
	WebsiteURL    string `json:"websiteUrl,omitempty"`
	Location      string `json:"location"`
	LicenseNumber string `json:"licenseNumber,omitempty"`
}
