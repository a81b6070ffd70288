package layout

type Kind string

const (
	KindItinerary    Kind = "itinerary"
	KindAgentProfile Kind = "agent_profile"
	KindConfirmation Kind = "confirmation"
)

type KeyFact struct {
	Label string
	Value string
}

// ContactBlock is the optional agency contact box.
type ContactBlock struct {
	CompanyName   string
	Phone         string
	Email         string
	Website       string
	Location      string
	LicenseNumber string
}

type ScheduleEntry struct {
	Label    string
	Activity string
}

type PackageSummary struct {
	Title    string
	Location string
	Duration string
	Price    string
	Rating   string
}

// Section is a headed group of "Label: Value" lines.
type Section struct {
	Heading string
	Lines   []KeyFact
}

// DocumentSpec describes one printable document. It is read-only to the engine.
type DocumentSpec struct {
	Kind        Kind
	HeaderTitle string
	Title       string
	Subtitle    string
	Reference   string
	AgencyName  string

	Facts       []KeyFact
	Contact     *ContactBlock
	Description string

	// Nil lists fall back to the standard inclusions and terms.
	Inclusions []string
	Terms      []string

	DurationDays int
	Schedule     []ScheduleEntry

	Packages []PackageSummary
	Sections []Section

	FooterNote string
}

// Document is a finished, paginated output.
type Document struct {
	Filename string
	Pages    int
	Content  []byte
}

var defaultInclusions = []string{
	"Accommodation in premium hotels/resorts",
	"Daily breakfast and dinner",
	"All transfers and transportation",
	"Professional tour guide services",
	"All entry fees and permits",
	"Travel insurance coverage",
	"24/7 customer support",
}

var defaultTerms = []string{
	"Booking confirmation required 48 hours in advance",
	"Cancellation charges apply as per our cancellation policy",
	"Travel insurance is mandatory for all participants",
	"Valid government-issued ID proof required for all travelers",
	"Package rates are subject to change without prior notice",
	"Weather conditions may affect the planned itinerary",
	"Additional charges may apply for extra services not mentioned",
	"Please read our complete terms and conditions before booking",
}

var scheduleTemplate = []string{
	"Arrival and check-in, welcome dinner, briefing session",
	"City tour, local sightseeing, cultural experiences",
	"Adventure activities, nature exploration, photography",
	"Free time for shopping, relaxation, optional activities",
	"Final sightseeing, departure preparations, check-out",
	"Extended exploration, special experiences",
	"Leisure day, final shopping, departure",
	"Departure and journey back home",
}

const maxScheduleDays = 60
