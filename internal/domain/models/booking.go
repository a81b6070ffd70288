package models

import "time"

// BookingRequest is the pre-payment selection collected from the customer.
type BookingRequest struct {
	PackageID      string         `json:"packageId"`
	PackageTitle   string         `json:"packageTitle" validate:"required"`
	AgencyName     string         `json:"agencyName"`
	PricePerPerson float64        `json:"pricePerPerson" validate:"gte=0"`
	Travelers      int            `json:"travelers" validate:"gte=1,lte=50"`
	TravelDate     string         `json:"travelDate"`
	DurationText   string         `json:"duration,omitempty"`
	CustomerName   string         `json:"customerName" validate:"required"`
	CustomerEmail  string         `json:"customerEmail" validate:"required,email"`
	CustomerPhone  string         `json:"customerPhone"`
	Itinerary      []ItineraryDay `json:"itinerary,omitempty"`
}

// BaseAmount is the amount charged for the request, before GST and service fee.
func (r BookingRequest) BaseAmount() float64 {
	return r.PricePerPerson * float64(r.Travelers)
}

type ItineraryDay struct {
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ContactInfo struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type CustomerDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type TravelDetails struct {
	Date      string `json:"date"`
	Travelers int    `json:"travelers"`
	Duration  string `json:"duration"`
}

type PaymentDetails struct {
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	PaymentID     string    `json:"paymentId"`
	TransactionID string    `json:"transactionId"`
	Method        string    `json:"method"`
	Timestamp     time.Time `json:"timestamp"`
}

// Charges is the quoted breakdown for a base amount. Values are unrounded.
type Charges struct {
	Base       float64 `json:"base"`
	GST        float64 `json:"gst"`
	ServiceFee float64 `json:"serviceFee"`
	Total      float64 `json:"total"`
}

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// BookingRecord is the confirmed booking produced from a successful payment.
type BookingRecord struct {
	ID                 string          `json:"id"`
	ConfirmationNumber string          `json:"confirmationNumber"`
	PackageID          string          `json:"packageId"`
	PackageTitle       string          `json:"packageTitle"`
	AgencyName         string          `json:"agencyName"`
	AgencyContact      ContactInfo     `json:"agencyContact"`
	Customer           CustomerDetails `json:"customerDetails"`
	Travel             TravelDetails   `json:"travelDetails"`
	Payment            PaymentDetails  `json:"paymentDetails"`
	Charges            Charges         `json:"charges"`
	Status             string          `json:"status"`
	Itinerary          []ItineraryDay  `json:"itinerary"`
}

// BookingFilter narrows BookingStore listings. Empty fields match everything.
type BookingFilter struct {
	CustomerEmail string
	AgencyName    string
}
