package services

import (
	"fmt"
	"strings"

	"travellink/internal/domain"
	"travellink/internal/domain/models"
	"travellink/internal/layout"
	"travellink/internal/utils"
)

// DocsService renders itinerary, agent profile and booking confirmation PDFs.
type DocsService struct {
	Engine    layout.Engine
	RequestID string
}

func (s DocsService) generate(action string, spec layout.DocumentSpec) (layout.Document, error) {
	doc, err := s.Engine.Generate(spec)
	if err != nil {
		utils.LogWarn(s.RequestID, "docs", action, err.Error())
		return layout.Document{}, err
	}
	utils.LogEvent(s.RequestID, "docs", action, fmt.Sprintf("file=%s pages=%d", doc.Filename, doc.Pages))
	return doc, nil
}

func (s DocsService) GenerateItinerary(it models.Itinerary, agent *models.Agent) (layout.Document, error) {
	return s.generate("generate_itinerary", ItinerarySpec(it, agent))
}

func (s DocsService) GenerateAgentProfile(agent models.Agent, description string, packages []models.Itinerary) (layout.Document, error) {
	return s.generate("generate_agent_profile", AgentProfileSpec(agent, description, packages))
}

func (s DocsService) GenerateConfirmation(rec models.BookingRecord) (layout.Document, error) {
	if strings.TrimSpace(rec.ConfirmationNumber) == "" {
		return layout.Document{}, domain.DocumentError{Field: "confirmationNumber"}
	}
	return s.generate("generate_confirmation", ConfirmationSpec(rec))
}

func durationLabel(days, nights int) string {
	if days <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d Days / %d Nights", days, nights)
}

func contactFor(agent models.Agent) *layout.ContactBlock {
	return &layout.ContactBlock{
		CompanyName:   agent.CompanyName,
		Phone:         agent.ContactPhone,
		Email:         agent.ContactEmail,
		Website:       agent.WebsiteURL,
		Location:      agent.Location,
		LicenseNumber: agent.LicenseNumber,
	}
}

// ItinerarySpec lays out one package. Day entries come from it.Days when present,
// otherwise the engine repeats its standard schedule for DurationDays.
func ItinerarySpec(it models.Itinerary, agent *models.Agent) layout.DocumentSpec {
	spec := layout.DocumentSpec{
		Kind:        layout.KindItinerary,
		HeaderTitle: "Travel Itinerary",
		Title:       it.Title,
		Subtitle:    it.Destination,
		AgencyName:  it.AgentName,
		Facts: []layout.KeyFact{
			{Label: "Duration", Value: durationLabel(it.DurationDays, it.DurationNights)},
			{Label: "Price", Value: utils.FormatINR(it.PricePerPerson) + " per person"},
			{Label: "Category", Value: utils.Safe(it.Category, "-")},
		},
		Description:  it.Description,
		DurationDays: it.DurationDays,
	}
	if it.Rating > 0 {
		spec.Facts = append(spec.Facts, layout.KeyFact{Label: "Rating", Value: fmt.Sprintf("%.1f/5.0", it.Rating)})
	}
	if agent != nil {
		spec.Contact = contactFor(*agent)
		spec.AgencyName = utils.Safe(agent.CompanyName, spec.AgencyName)
	}
	for _, d := range it.Days {
		spec.Schedule = append(spec.Schedule, layout.ScheduleEntry{
			Label:    fmt.Sprintf("Day %d", d.Day),
			Activity: strings.TrimSpace(d.Title + ": " + d.Description),
		})
	}
	return spec
}

func AgentProfileSpec(agent models.Agent, description string, packages []models.Itinerary) layout.DocumentSpec {
	spec := layout.DocumentSpec{
		Kind:        layout.KindAgentProfile,
		Title:       agent.CompanyName,
		AgencyName:  agent.CompanyName,
		Contact:     contactFor(agent),
		Description: description,
	}
	for _, p := range packages {
		rating := ""
		if p.Rating > 0 {
			rating = fmt.Sprintf("%.1f/5.0", p.Rating)
		}
		spec.Packages = append(spec.Packages, layout.PackageSummary{
			Title:    p.Title,
			Location: p.Destination,
			Duration: durationLabel(p.DurationDays, p.DurationNights),
			Price:    utils.FormatINR(p.PricePerPerson),
			Rating:   rating,
		})
	}
	return spec
}

// ConfirmationSpec is the printable receipt for a confirmed booking.
func ConfirmationSpec(rec models.BookingRecord) layout.DocumentSpec {
	kf := func(label, value string) layout.KeyFact { return layout.KeyFact{Label: label, Value: value} }

	spec := layout.DocumentSpec{
		Kind:        layout.KindConfirmation,
		HeaderTitle: "BOOKING CONFIRMATION",
		Title:       "Booking Confirmation " + rec.ConfirmationNumber,
		Reference:   rec.ConfirmationNumber,
		AgencyName:  rec.AgencyName,
		Sections: []layout.Section{
			{Heading: "Confirmation Details", Lines: []layout.KeyFact{
				kf("Confirmation Number", rec.ConfirmationNumber),
				kf("Booking ID", rec.ID),
				kf("Booking Date", rec.Payment.Timestamp.Format("02 Jan 2006")),
				kf("Status", strings.ToUpper(rec.Status)),
			}},
			{Heading: "Package Details", Lines: []layout.KeyFact{
				kf("Package", rec.PackageTitle),
				kf("Agency", rec.AgencyName),
				kf("Travel Date", utils.FormatDisplayDate(rec.Travel.Date)),
				kf("Duration", rec.Travel.Duration),
				kf("Travelers", fmt.Sprintf("%d", rec.Travel.Travelers)),
			}},
			{Heading: "Customer Details", Lines: []layout.KeyFact{
				kf("Name", rec.Customer.Name),
				kf("Email", rec.Customer.Email),
				kf("Phone", rec.Customer.Phone),
			}},
			{Heading: "Payment Details", Lines: []layout.KeyFact{
				kf("Amount Paid", utils.FormatINR(rec.Payment.Amount)),
				kf("Payment ID", rec.Payment.PaymentID),
				kf("Transaction ID", rec.Payment.TransactionID),
				kf("Payment Method", strings.ToUpper(rec.Payment.Method)),
			}},
			{Heading: "Agency Contact Information", Lines: []layout.KeyFact{
				kf("Phone", rec.AgencyContact.Phone),
				kf("Email", rec.AgencyContact.Email),
				kf("Address", rec.AgencyContact.Address),
			}},
		},
	}
	for _, d := range rec.Itinerary {
		spec.Schedule = append(spec.Schedule, layout.ScheduleEntry{
			Label:    fmt.Sprintf("Day %d", d.Day),
			Activity: d.Title + ": " + d.Description,
		})
	}
	return spec
}
