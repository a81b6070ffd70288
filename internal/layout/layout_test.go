package layout

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"travellink/internal/domain"

	"github.com/stretchr/testify/require"
)

type drawnText struct {
	page int
	y    float64
	s    string
}

// fakeRenderer wraps by character count: each character is fontSize*0.2 units wide.
type fakeRenderer struct {
	pages    int
	fontSize float64
	texts    []drawnText
	failWith error
}

func newFakeRenderer(string) Renderer { return &fakeRenderer{pages: 1, fontSize: 12} }

func (f *fakeRenderer) PageSize() (float64, float64)      { return 210, 297 }
func (f *fakeRenderer) AddPage()                          { f.pages++ }
func (f *fakeRenderer) PageCount() int                    { return f.pages }
func (f *fakeRenderer) SetFont(_ string, size float64)    { f.fontSize = size }
func (f *fakeRenderer) SetFontSize(size float64)          { f.fontSize = size }
func (f *fakeRenderer) SetFillColor(_, _, _ int)          {}
func (f *fakeRenderer) SetDrawColor(_, _, _ int)          {}
func (f *fakeRenderer) SetTextColor(_, _, _ int)          {}
func (f *fakeRenderer) Rect(_, _, _, _ float64, _ string) {}
func (f *fakeRenderer) Line(_, _, _, _ float64)           {}

func (f *fakeRenderer) Text(_, y float64, s string) {
	f.texts = append(f.texts, drawnText{page: f.pages, y: y, s: s})
}
func (f *fakeRenderer) StringWidth(s string) float64 { return float64(len(s)) * f.fontSize * 0.2 }
func (f *fakeRenderer) SplitText(s string, maxWidth float64) []string {
	perLine := int(maxWidth / (f.fontSize * 0.2))
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	cur := ""
	for _, w := range words {
		if cur != "" && len(cur)+1+len(w) > perLine {
			lines = append(lines, cur)
			cur = w
			continue
		}
		if cur == "" {
			cur = w
		} else {
			cur += " " + w
		}
	}
	return append(lines, cur)
}
func (f *fakeRenderer) Err() error { return f.failWith }

func (f *fakeRenderer) Output(w io.Writer) error {
	_, err := w.Write([]byte("%PDF-fake"))
	return err
}

func fixedNow() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

func longText(words int) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = "wander"
	}
	return strings.Join(parts, " ")
}

func TestWrapTextAdvancesPerLine(t *testing.T) {
	r := &fakeRenderer{pages: 1, fontSize: 10}
	c := NewCursor(297)
	c.Y = 50

	// 60 chars per line at width 120, font 10
	text := longText(40)
	lines := r.SplitText(text, 120)
	require.Greater(t, len(lines), 1)
	r.texts = nil

	out := WrapText(r, c, text, 20, 120, 10)

	require.InDelta(t, 50+float64(len(lines))*10*0.4, out.Y, 1e-9)
	require.Len(t, r.texts, len(lines))
	for i := 1; i < len(r.texts); i++ {
		require.Greater(t, r.texts[i].y, r.texts[i-1].y, "cursor must strictly increase per wrapped line")
	}
}

func TestWrapTextBreaksBeforeBottom(t *testing.T) {
	r := &fakeRenderer{pages: 1}
	c := NewCursor(297)
	c.Y = c.Bottom() - 5

	out := WrapText(r, c, longText(200), 20, 170, 12)

	require.Equal(t, 2, r.pages)
	require.Equal(t, 2, out.Page)
	for _, tx := range r.texts {
		require.LessOrEqual(t, tx.y, c.Bottom(), "line at %v written past bottom", tx.y)
	}
	require.Equal(t, 2, r.texts[len(r.texts)-1].page)
}

func TestEnsureSpace(t *testing.T) {
	r := &fakeRenderer{pages: 1}
	c := NewCursor(297)

	c.Y = 297 - 30
	same := EnsureSpace(r, c, 30)
	require.Equal(t, c, same, "exactly at the limit stays on the page")

	c.Y = 297 - 29
	next := EnsureSpace(r, c, 30)
	require.Equal(t, 2, next.Page)
	require.Equal(t, TopMargin, next.Y)
	require.Equal(t, 2, r.pages)

	zero := EnsureSpace(r, Cursor{Page: 1, Y: 270, PageHeight: 297, Top: TopMargin}, 0)
	require.Equal(t, 2, zero.Page, "zero required space uses the default")
}

func TestGenerateItinerary(t *testing.T) {
	e := Engine{NewRenderer: newFakeRenderer, Now: fixedNow}
	spec := DocumentSpec{
		Kind:         KindItinerary,
		Title:        "Manali Adventure Package",
		Subtitle:     "Manali, Himachal Pradesh",
		AgencyName:   "Mountain Explorers",
		Facts:        []KeyFact{{"Duration", "5 Days / 4 Nights"}, {"Price", "INR 15,999 per person"}, {"Category", "Adventure"}},
		Contact:      &ContactBlock{CompanyName: "Mountain Explorers", Phone: "+91 8438327763", LicenseNumber: "HP-123"},
		Description:  longText(30),
		DurationDays: 5,
	}

	doc, err := e.Generate(spec)
	require.NoError(t, err)
	require.Equal(t, "Manali_Adventure_Package_Mountain_Explorers_Itinerary.pdf", doc.Filename)
	require.GreaterOrEqual(t, doc.Pages, 1)
	require.NotEmpty(t, doc.Content)

	again, err := e.Generate(spec)
	require.NoError(t, err)
	require.Equal(t, doc.Filename, again.Filename)
	require.Equal(t, doc.Pages, again.Pages)
}

func TestGenerateLongDescriptionPaginates(t *testing.T) {
	e := Engine{NewRenderer: newFakeRenderer, Now: fixedNow}
	short, err := e.Generate(DocumentSpec{Kind: KindItinerary, Title: "Short", Description: "A short trip."})
	require.NoError(t, err)

	long, err := e.Generate(DocumentSpec{Kind: KindItinerary, Title: "Long", Description: longText(3000)})
	require.NoError(t, err)
	require.Greater(t, long.Pages, short.Pages)
}

func TestGenerateMissingTitle(t *testing.T) {
	e := Engine{NewRenderer: newFakeRenderer, Now: fixedNow}
	_, err := e.Generate(DocumentSpec{Kind: KindItinerary, Title: "  "})

	var docErr domain.DocumentError
	require.ErrorAs(t, err, &docErr)
	require.True(t, docErr.MissingField())
	require.Equal(t, "title", docErr.Field)

	_, err = e.Generate(DocumentSpec{Kind: KindConfirmation, Title: "Booking"})
	require.ErrorAs(t, err, &docErr)
	require.Equal(t, "reference", docErr.Field)
}

func TestGenerateRendererFailureIsFatal(t *testing.T) {
	boom := errors.New("encoding failed")
	e := Engine{
		NewRenderer: func(string) Renderer { return &fakeRenderer{pages: 1, failWith: boom} },
		Now:         fixedNow,
	}
	doc, err := e.Generate(DocumentSpec{Kind: KindItinerary, Title: "Trip"})
	require.ErrorIs(t, err, boom)
	require.True(t, domain.IsDocument(err))
	require.Empty(t, doc.Content)
}

func TestFilename(t *testing.T) {
	require.Equal(t, "Goa_Beach_Agent_Itinerary.pdf", Filename(DocumentSpec{Kind: KindItinerary, Title: "Goa Beach"}))
	require.Equal(t, "Mountain_Explorers_Travel_Packages.pdf", Filename(DocumentSpec{Kind: KindAgentProfile, Title: "Mountain Explorers"}))
	require.Equal(t, "booking-confirmation-TL2026123456.pdf", Filename(DocumentSpec{Kind: KindConfirmation, Title: "x", Reference: "TL2026123456"}))
}

func TestScheduleForRepeatsTemplate(t *testing.T) {
	entries := ScheduleFor(DocumentSpec{DurationDays: 10})
	require.Len(t, entries, 10)
	require.Equal(t, "Day 10", entries[9].Label)
	require.Equal(t, scheduleTemplate[1], entries[9].Activity)

	own := []ScheduleEntry{{Label: "Day 1", Activity: "Rafting"}}
	require.Equal(t, own, ScheduleFor(DocumentSpec{DurationDays: 5, Schedule: own}))
	require.Empty(t, ScheduleFor(DocumentSpec{}))
}

func TestPDFRendererProducesPDF(t *testing.T) {
	doc, err := NewEngine().Generate(DocumentSpec{
		Kind:        KindAgentProfile,
		Title:       "Mountain Explorers",
		Contact:     &ContactBlock{CompanyName: "Mountain Explorers", Email: "info@mountainexplorers.com", Location: "Manali"},
		Description: "Adventure specialists — 15 years in the Himalayas ✓",
		Packages: []PackageSummary{
			{Title: "Manali Adventure", Location: "Manali", Duration: "5D/4N", Price: "INR 15,999", Rating: "4.8/5.0"},
		},
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(doc.Content), "%PDF"))
	require.Equal(t, 1, doc.Pages)
}
