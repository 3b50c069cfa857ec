// Package report lays out headed sections of label/value lines onto
// fixed-size pages and renders them as PDF documents.
package report

import "fmt"

// Line is one label/value row. An empty Label renders Value alone.
type Line struct {
	Label string
	Value string
}

func (l Line) Text() string {
	if l.Label == "" {
		return l.Value
	}
	return l.Label + ": " + l.Value
}

// Section is a heading followed by its lines.
type Section struct {
	Heading string
	Lines   []Line
}

// Geometry is the page canvas in millimetres.
type Geometry struct {
	PageWidth    float64
	PageHeight   float64
	TopMargin    float64
	BottomMargin float64
	LeftMargin   float64
	LineHeight   float64
	SectionGap   float64
}

// A4 is portrait A4 with 20mm margins and 10mm lines.
func A4() Geometry {
	return Geometry{
		PageWidth:    210,
		PageHeight:   297,
		TopMargin:    20,
		BottomMargin: 20,
		LeftMargin:   20,
		LineHeight:   10,
		SectionGap:   10,
	}
}

// Limit is the y position at or beyond which a new page is started.
func (g Geometry) Limit() float64 {
	return g.PageHeight - g.BottomMargin
}

func (g Geometry) Validate() error {
	if g.LineHeight <= 0 {
		return fmt.Errorf("line height must be positive, got %v", g.LineHeight)
	}
	if g.SectionGap < 0 {
		return fmt.Errorf("section gap must not be negative, got %v", g.SectionGap)
	}
	if g.TopMargin < 0 || g.TopMargin >= g.Limit() {
		return fmt.Errorf("top margin %v leaves no printable area above %v", g.TopMargin, g.Limit())
	}
	if g.PageWidth <= 2*g.LeftMargin {
		return fmt.Errorf("page width %v too small for margin %v", g.PageWidth, g.LeftMargin)
	}
	return nil
}

// Kind distinguishes placed items.
type Kind int

const (
	KindHeading Kind = iota
	KindLine
)

// Placement is one item positioned on a page. Page is 1-based and Y is the
// baseline measured from the top edge.
type Placement struct {
	Page int
	Y    float64
	Kind Kind
	Text string
}

// Layout paginates sections greedily. The cursor starts at the top margin;
// before each heading or line, if the cursor has reached the bottom limit
// a new page begins at the top margin. Every placement therefore has
// Y < g.Limit() for a valid geometry. A heading may end up alone at the
// bottom of a page.
func Layout(sections []Section, g Geometry) []Placement {
	var out []Placement
	page := 1
	y := g.TopMargin

	place := func(kind Kind, text string) {
		if y >= g.Limit() {
			page++
			y = g.TopMargin
		}
		out = append(out, Placement{Page: page, Y: y, Kind: kind, Text: text})
		y += g.LineHeight
	}

	for i, s := range sections {
		if i > 0 {
			y += g.SectionGap
		}
		place(KindHeading, s.Heading)
		for _, l := range s.Lines {
			place(KindLine, l.Text())
		}
	}
	return out
}

// PageCount returns the number of pages spanned by placements.
func PageCount(placements []Placement) int {
	if len(placements) == 0 {
		return 0
	}
	return placements[len(placements)-1].Page
}
