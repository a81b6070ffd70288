package layout

const (
	Margin               = 20.0
	TopMargin            = 30.0
	DefaultRequiredSpace = 30.0
	LineHeightFactor     = 0.4
)

// Cursor tracks the current page and baseline while a document is emitted.
// It only moves forward: pages are appended, never revisited.
type Cursor struct {
	Page       int
	Y          float64
	PageHeight float64
	Margin     float64
	Top        float64
}

func NewCursor(pageHeight float64) Cursor {
	return Cursor{
		Page:       1,
		Y:          TopMargin,
		PageHeight: pageHeight,
		Margin:     Margin,
		Top:        TopMargin,
	}
}

// NeedsBreak reports whether a block needing required units of room must move to a new page.
func (c Cursor) NeedsBreak(required float64) bool {
	return c.Y > c.PageHeight-required
}

// Bottom is the lowest baseline content may use.
func (c Cursor) Bottom() float64 {
	return c.PageHeight - c.Margin
}

func (c Cursor) Advance(dy float64) Cursor {
	c.Y += dy
	return c
}

// NextPage appends a page and moves to its top margin.
func NextPage(r Renderer, c Cursor) Cursor {
	r.AddPage()
	c.Page++
	c.Y = c.Top
	return c
}

// EnsureSpace starts a new page when fewer than required units remain below the cursor.
func EnsureSpace(r Renderer, c Cursor, required float64) Cursor {
	if required <= 0 {
		required = DefaultRequiredSpace
	}
	if c.NeedsBreak(required) {
		return NextPage(r, c)
	}
	return c
}

// LineHeight is the fixed line advance used for wrapped text at fontSize.
func LineHeight(fontSize float64) float64 {
	return fontSize * LineHeightFactor
}

// WrapText writes text at x, wrapped to maxWidth at fontSize, one line per LineHeight.
// A line whose baseline would pass Bottom is moved to a new page first.
// Without page breaks the returned cursor sits at c.Y + lines*fontSize*0.4.
func WrapText(r Renderer, c Cursor, text string, x, maxWidth, fontSize float64) Cursor {
	r.SetFontSize(fontSize)
	lh := LineHeight(fontSize)
	for _, line := range r.SplitText(text, maxWidth) {
		if c.Y > c.Bottom() {
			c = NextPage(r, c)
		}
		r.Text(x, c.Y, line)
		c.Y += lh
	}
	return c
}
