package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	fontFamily  = "Helvetica"
	titleSize   = 16
	headingSize = 13
	lineSize    = 11
	footerSize  = 8
	ellipsis    = "..."
)

// ContentType is the MIME type of rendered documents.
const ContentType = "application/pdf"

// Render lays out sections under title and writes the finished PDF to w.
// The document is built in memory first; nothing is written to w unless
// rendering succeeds.
func Render(w io.Writer, title string, sections []Section, g Geometry) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("invalid page geometry: %w", err)
	}

	all := make([]Section, 0, len(sections)+1)
	all = append(all, Section{Heading: title})
	all = append(all, sections...)
	placements := Layout(all, g)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: g.PageWidth, Ht: g.PageHeight},
	})
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(g.PageHeight - g.BottomMargin/2)
		pdf.SetFont(fontFamily, "I", footerSize)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	maxWidth := g.PageWidth - 2*g.LeftMargin
	page := 0
	for i, p := range placements {
		for page < p.Page {
			pdf.AddPage()
			page++
		}
		switch {
		case i == 0:
			pdf.SetFont(fontFamily, "B", titleSize)
		case p.Kind == KindHeading:
			pdf.SetFont(fontFamily, "B", headingSize)
		default:
			pdf.SetFont(fontFamily, "", lineSize)
		}
		pdf.Text(g.LeftMargin, p.Y, fit(pdf, tr(p.Text), maxWidth))
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render %q: %w", title, err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("render %q: %w", title, err)
	}
	if _, err := io.Copy(w, &buf); err != nil {
		return fmt.Errorf("write %q: %w", title, err)
	}
	return nil
}

// RenderBytes is Render into a new byte slice.
func RenderBytes(title string, sections []Section, g Geometry) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, title, sections, g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fit truncates s so it does not run past the right margin. s is already
// translated to the single-byte font encoding, so it is cut bytewise.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+ellipsis) > width {
		s = s[:len(s)-1]
	}
	return s + ellipsis
}
