package layout

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"travellink/internal/domain"
	"travellink/internal/utils"
)

// Engine turns DocumentSpecs into paginated documents. It holds no per-document
// state, so one Engine may serve concurrent Generate calls.
type Engine struct {
	NewRenderer func(title string) Renderer
	Now         func() time.Time
}

func NewEngine() Engine {
	return Engine{
		NewRenderer: func(title string) Renderer { return NewPDFRenderer(title) },
		Now:         time.Now,
	}
}

// Generate renders spec. Any renderer failure discards the whole document.
func (e Engine) Generate(spec DocumentSpec) (Document, error) {
	if err := validateSpec(spec); err != nil {
		return Document{}, err
	}

	newRenderer := e.NewRenderer
	if newRenderer == nil {
		newRenderer = func(title string) Renderer { return NewPDFRenderer(title) }
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	r := newRenderer(spec.Title)
	_, h := r.PageSize()
	c := NewCursor(h)

	switch spec.Kind {
	case KindItinerary:
		c = renderItinerary(r, c, spec, now())
	case KindAgentProfile:
		c = renderAgentProfile(r, c, spec, now())
	case KindConfirmation:
		c = renderConfirmation(r, c, spec)
	}

	if err := r.Err(); err != nil {
		return Document{}, domain.DocumentError{Err: err}
	}
	var buf bytes.Buffer
	if err := r.Output(&buf); err != nil {
		return Document{}, domain.DocumentError{Err: err}
	}

	return Document{
		Filename: Filename(spec),
		Pages:    r.PageCount(),
		Content:  buf.Bytes(),
	}, nil
}

func validateSpec(spec DocumentSpec) error {
	if strings.TrimSpace(spec.Title) == "" {
		return domain.DocumentError{Field: "title"}
	}
	switch spec.Kind {
	case KindItinerary, KindAgentProfile:
		return nil
	case KindConfirmation:
		if strings.TrimSpace(spec.Reference) == "" {
			return domain.DocumentError{Field: "reference"}
		}
		return nil
	default:
		return domain.DocumentError{Err: fmt.Errorf("unknown document kind %q", spec.Kind)}
	}
}

// Filename derives the output name from the spec alone.
func Filename(spec DocumentSpec) string {
	switch spec.Kind {
	case KindAgentProfile:
		return utils.SafeFilenamePart(spec.Title) + "_Travel_Packages.pdf"
	case KindConfirmation:
		return "booking-confirmation-" + utils.SafeFilenamePart(spec.Reference) + ".pdf"
	default:
		agency := "Agent"
		if strings.TrimSpace(spec.AgencyName) != "" {
			agency = utils.SafeFilenamePart(spec.AgencyName)
		}
		return utils.SafeFilenamePart(spec.Title) + "_" + agency + "_Itinerary.pdf"
	}
}

func renderItinerary(r Renderer, c Cursor, spec DocumentSpec, now time.Time) Cursor {
	c = addHeader(r, c, utils.Safe(spec.HeaderTitle, "Travel Itinerary"))
	c = addTitleBlock(r, c, spec.Title, spec.Subtitle)
	c = addKeyFacts(r, c, spec.Facts)
	if spec.Contact != nil {
		c = addContactBox(r, c, *spec.Contact)
	}
	c = addDescription(r, c, "Package Description", spec.Description)
	c = addInclusions(r, c, orDefault(spec.Inclusions, defaultInclusions))
	c = addSchedule(r, c, ScheduleFor(spec))
	c = addTerms(r, c, orDefault(spec.Terms, defaultTerms))
	return addFooter(r, c, footerLeft(spec, now), footerRight(spec))
}

func renderAgentProfile(r Renderer, c Cursor, spec DocumentSpec, now time.Time) Cursor {
	c = addHeader(r, c, utils.Safe(spec.HeaderTitle, spec.Title+" - Travel Packages"))

	r.SetFont("B", 18)
	c = WrapText(r, c, spec.Title, c.Margin, contentWidth(r, c), 18)
	c = c.Advance(10)

	if spec.Contact != nil {
		c = addContactBox(r, c, *spec.Contact)
	}
	c = addDescription(r, c, "About Us", spec.Description)
	c = addPackages(r, c, spec.Packages)
	return addFooter(r, c, footerLeft(spec, now), footerRight(spec))
}

func renderConfirmation(r Renderer, c Cursor, spec DocumentSpec) Cursor {
	c = addCenteredBanner(r, c, utils.Safe(spec.HeaderTitle, "BOOKING CONFIRMATION"))
	for _, s := range spec.Sections {
		c = addSection(r, c, s)
	}
	if len(spec.Schedule) > 0 {
		c = addSchedule(r, c, spec.Schedule)
	}

	note := utils.Safe(spec.FooterNote, "Thank you for choosing TravelLink! Have a wonderful trip!")
	c = EnsureSpace(r, c, 25)
	w, h := r.PageSize()
	r.SetFont("", 10)
	r.SetTextColor(128, 128, 128)
	r.Text((w-r.StringWidth(note))/2, h-17, note)
	textColor(r, colorBlack)
	return c
}

// ScheduleFor returns the day entries to print: the spec's own schedule when given,
// otherwise DurationDays entries cycling through the standard template.
func ScheduleFor(spec DocumentSpec) []ScheduleEntry {
	if len(spec.Schedule) > 0 {
		return spec.Schedule
	}
	days := spec.DurationDays
	if days > maxScheduleDays {
		days = maxScheduleDays
	}
	out := make([]ScheduleEntry, 0, max(days, 0))
	for i := 0; i < days; i++ {
		out = append(out, ScheduleEntry{
			Label:    fmt.Sprintf("Day %d", i+1),
			Activity: scheduleTemplate[i%len(scheduleTemplate)],
		})
	}
	return out
}

func footerLeft(spec DocumentSpec, now time.Time) []string {
	first := "Generated by Travel Agent Marketplace"
	if spec.Contact != nil && spec.Contact.CompanyName != "" {
		first = "Provided by " + spec.Contact.CompanyName
	}
	return []string{first, "Generated on: " + now.Format("02 Jan 2006")}
}

func footerRight(spec DocumentSpec) []string {
	if spec.Contact == nil {
		return []string{"For bookings, contact the agent directly"}
	}
	out := []string{"For bookings and inquiries, contact us directly"}
	if spec.Contact.LicenseNumber != "" {
		out = append(out, "License: "+spec.Contact.LicenseNumber)
	}
	return out
}

func orDefault(items, def []string) []string {
	if items == nil {
		return def
	}
	return items
}
