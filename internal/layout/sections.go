package layout

import (
	"fmt"
	"strings"
)

type rgb struct{ r, g, b int }

var (
	colorBrand   = rgb{59, 130, 246}
	colorBoxFill = rgb{248, 250, 252}
	colorContact = rgb{252, 248, 227}
	colorBorder  = rgb{200, 200, 200}
	colorMuted   = rgb{100, 100, 100}
	colorBlack   = rgb{0, 0, 0}
	colorWhite   = rgb{255, 255, 255}
)

func fill(r Renderer, c rgb)      { r.SetFillColor(c.r, c.g, c.b) }
func draw(r Renderer, c rgb)      { r.SetDrawColor(c.r, c.g, c.b) }
func textColor(r Renderer, c rgb) { r.SetTextColor(c.r, c.g, c.b) }

func contentWidth(r Renderer, c Cursor) float64 {
	w, _ := r.PageSize()
	return w - 2*c.Margin
}

func addHeader(r Renderer, c Cursor, title string) Cursor {
	w, _ := r.PageSize()
	fill(r, colorBrand)
	r.Rect(0, 0, w, 25, "F")

	textColor(r, colorWhite)
	r.SetFont("B", 20)
	r.Text(c.Margin, 18, title)

	textColor(r, colorBlack)
	c.Y = 40
	return c
}

// addCenteredBanner is the taller banner used on confirmations.
func addCenteredBanner(r Renderer, c Cursor, title string) Cursor {
	w, _ := r.PageSize()
	fill(r, colorBrand)
	r.Rect(0, 0, w, 40, "F")

	textColor(r, colorWhite)
	r.SetFont("B", 24)
	r.Text((w-r.StringWidth(title))/2, 25, title)

	textColor(r, colorBlack)
	c.Y = 60
	return c
}

func addTitleBlock(r Renderer, c Cursor, title, subtitle string) Cursor {
	width := contentWidth(r, c)

	r.SetFont("B", 18)
	c = WrapText(r, c, title, c.Margin, width, 18)
	c = c.Advance(10)

	if strings.TrimSpace(subtitle) != "" {
		r.SetFont("", 14)
		textColor(r, colorMuted)
		c = WrapText(r, c, subtitle, c.Margin, width, 14)
		textColor(r, colorBlack)
	}
	return c.Advance(15)
}

// addKeyFacts draws facts two per row inside a shaded box.
func addKeyFacts(r Renderer, c Cursor, facts []KeyFact) Cursor {
	if len(facts) == 0 {
		return c
	}
	rows := (len(facts) + 1) / 2
	boxHeight := 10 + float64(rows)*15
	c = EnsureSpace(r, c, boxHeight+15)

	draw(r, colorBorder)
	fill(r, colorBoxFill)
	r.Rect(c.Margin, c.Y, contentWidth(r, c), boxHeight, "FD")

	textColor(r, colorBlack)
	for i, f := range facts {
		x := c.Margin + 10
		if i%2 == 1 {
			x = c.Margin + 90
		}
		y := c.Y + 15 + float64(i/2)*15

		r.SetFont("B", 12)
		label := f.Label + ":"
		r.Text(x, y, label)
		r.SetFont("", 12)
		r.Text(x+r.StringWidth(label)+3, y, f.Value)
	}
	return c.Advance(boxHeight + 15)
}

func addContactBox(r Renderer, c Cursor, contact ContactBlock) Cursor {
	c = EnsureSpace(r, c, 50)

	draw(r, colorBorder)
	fill(r, colorContact)
	r.Rect(c.Margin, c.Y, contentWidth(r, c), 35, "FD")

	r.SetFont("B", 12)
	r.Text(c.Margin+10, c.Y+12, "Agent Contact Information")

	r.SetFont("", 10)
	r.Text(c.Margin+10, c.Y+22, "Phone: "+dash(contact.Phone))
	r.Text(c.Margin+10, c.Y+30, "Email: "+dash(contact.Email))
	if contact.Website != "" {
		r.Text(c.Margin+100, c.Y+22, "Web: "+contact.Website)
	}
	r.Text(c.Margin+100, c.Y+30, "Location: "+dash(contact.Location))

	return c.Advance(50)
}

func addDescription(r Renderer, c Cursor, heading, text string) Cursor {
	if strings.TrimSpace(text) == "" {
		return c
	}
	c = EnsureSpace(r, c, DefaultRequiredSpace)

	r.SetFont("B", 14)
	r.Text(c.Margin, c.Y, heading)
	c = c.Advance(10)

	r.SetFont("", 11)
	c = WrapText(r, c, text, c.Margin, contentWidth(r, c), 11)
	return c.Advance(15)
}

func addInclusions(r Renderer, c Cursor, items []string) Cursor {
	c = EnsureSpace(r, c, 100)

	r.SetFont("B", 14)
	r.Text(c.Margin, c.Y, "Package Inclusions")
	c = c.Advance(10)

	r.SetFont("", 11)
	for _, item := range items {
		c = EnsureSpace(r, c, DefaultRequiredSpace)
		r.Text(c.Margin, c.Y, "+ "+item)
		c = c.Advance(8)
	}
	return c.Advance(10)
}

func addSchedule(r Renderer, c Cursor, entries []ScheduleEntry) Cursor {
	if len(entries) == 0 {
		return c
	}
	c = EnsureSpace(r, c, 80)

	r.SetFont("B", 14)
	r.Text(c.Margin, c.Y, "Day-wise Itinerary")
	c = c.Advance(15)

	width := contentWidth(r, c) - 40
	for _, e := range entries {
		c = EnsureSpace(r, c, 25)

		r.SetFont("B", 12)
		r.Text(c.Margin, c.Y, e.Label)

		r.SetFont("", 12)
		c = WrapText(r, c, e.Activity, c.Margin+40, width, 12)
		c = c.Advance(8)
	}
	return c.Advance(15)
}

func addTerms(r Renderer, c Cursor, terms []string) Cursor {
	if len(terms) == 0 {
		return c
	}
	c = EnsureSpace(r, c, 100)

	r.SetFont("B", 14)
	r.Text(c.Margin, c.Y, "Terms & Conditions")
	c = c.Advance(10)

	r.SetFont("", 10)
	for _, t := range terms {
		c = EnsureSpace(r, c, 15)
		c = WrapText(r, c, "- "+t, c.Margin, contentWidth(r, c), 10)
		c = c.Advance(5)
	}
	return c
}

func addPackages(r Renderer, c Cursor, packages []PackageSummary) Cursor {
	if len(packages) == 0 {
		return c
	}
	c = EnsureSpace(r, c, DefaultRequiredSpace)
	r.SetFont("B", 16)
	r.Text(c.Margin, c.Y, "Available Travel Packages")
	c = c.Advance(15)

	w, _ := r.PageSize()
	for i, p := range packages {
		c = EnsureSpace(r, c, 60)

		draw(r, colorBorder)
		fill(r, colorBoxFill)
		r.Rect(c.Margin, c.Y, contentWidth(r, c), 45, "FD")

		r.SetFont("B", 14)
		r.Text(c.Margin+10, c.Y+15, fmt.Sprintf("%d. %s", i+1, p.Title))

		r.SetFont("", 11)
		r.Text(c.Margin+10, c.Y+25, dash(p.Location))
		r.Text(c.Margin+10, c.Y+35, p.Duration)
		if p.Price != "" {
			r.Text(c.Margin+100, c.Y+35, p.Price+"/person")
		}
		if p.Rating != "" {
			r.Text(w-c.Margin-40, c.Y+25, p.Rating)
		}
		c = c.Advance(55)
	}
	return c
}

// addSection draws a heading followed by "Label: Value" lines, kept together on one page.
func addSection(r Renderer, c Cursor, s Section) Cursor {
	c = EnsureSpace(r, c, 15+float64(len(s.Lines))*8+20)

	r.SetFont("B", 16)
	r.Text(c.Margin, c.Y, s.Heading)
	c = c.Advance(15)

	r.SetFont("", 12)
	width := contentWidth(r, c)
	for _, l := range s.Lines {
		c = WrapText(r, c, l.Label+": "+l.Value, c.Margin, width, 12)
		c = c.Advance(8 - LineHeight(12))
	}
	return c.Advance(12)
}

// addFooter draws the rule and footer lines near the bottom of the current page.
func addFooter(r Renderer, c Cursor, left, right []string) Cursor {
	c = EnsureSpace(r, c, 35)
	w, h := r.PageSize()
	footerY := h - 30

	draw(r, colorBorder)
	r.Line(c.Margin, footerY, w-c.Margin, footerY)

	r.SetFont("", 10)
	textColor(r, colorMuted)
	for i, s := range left {
		r.Text(c.Margin, footerY+10+float64(i)*10, s)
	}
	for i, s := range right {
		r.Text(w-c.Margin-r.StringWidth(s), footerY+10+float64(i)*10, s)
	}
	textColor(r, colorBlack)
	return c
}

func dash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}
