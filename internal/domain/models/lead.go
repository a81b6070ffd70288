package models

import (
	"strings"
	"time"
)

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadConverted LeadStatus = "converted"
	LeadClosed    LeadStatus = "closed"
)

func ParseLeadStatus(s string) (LeadStatus, bool) {
	switch LeadStatus(strings.ToLower(strings.TrimSpace(s))) {
	case LeadNew:
		return LeadNew, true
	case LeadContacted:
		return LeadContacted, true
	case LeadConverted:
		return LeadConverted, true
	case LeadClosed:
		return LeadClosed, true
	}
	return "", false
}

// Lead is a customer inquiry addressed to an agency, optionally about one itinerary.
type Lead struct {
	ID             string     `json:"id"`
	ItineraryID    string     `json:"itineraryId,omitempty"`
	ItineraryTitle string     `json:"itineraryTitle,omitempty"`
	AgentID        string     `json:"agentId,omitempty"`
	AgentName      string     `json:"agentName,omitempty"`
	CustomerName   string     `json:"customerName"`
	CustomerEmail  string     `json:"customerEmail"`
	CustomerPhone  string     `json:"customerPhone,omitempty"`
	Message        string     `json:"message"`
	Destination    string     `json:"destination,omitempty"`
	TravelDate     string     `json:"travelDate,omitempty"`
	GroupSize      int        `json:"groupSize,omitempty"`
	BudgetRange    string     `json:"budgetRange,omitempty"`
	Source         string     `json:"source,omitempty"`
	Status         LeadStatus `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// LeadFilter narrows LeadStore listings. Empty fields match everything.
type LeadFilter struct {
	AgentName     string
	CustomerEmail string
	Status        LeadStatus
}
