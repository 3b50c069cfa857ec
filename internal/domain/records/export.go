package records

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/ridi/hms/internal/domain/vitals"
	"github.com/ridi/hms/internal/platform/auth"
	"github.com/ridi/hms/internal/platform/report"
)

const dateLayout = "Jan 02, 2006"

func orNA(v *string) string {
	if v == nil || *v == "" {
		return "N/A"
	}
	return *v
}

// Sections lays the snapshot out as report sections: profile, vitals, lab
// tests and billing history, in that order.
func Sections(s *Snapshot) []report.Section {
	p := s.Patient
	birth := "N/A"
	if p.BirthDate.Valid {
		birth = p.BirthDate.Time.Format(dateLayout)
	}
	profile := report.Section{Heading: "Patient Information", Lines: []report.Line{
		{Label: "Name", Value: p.Name},
		{Label: "Gender", Value: orNA(p.Gender)},
		{Label: "Blood Group", Value: orNA(p.BloodGroup)},
		{Label: "Birth Date", Value: birth},
		{Label: "Contact", Value: orNA(p.Mobile)},
		{Label: "Email", Value: orNA(p.Email)},
		{Label: "Address", Value: orNA(p.Address)},
	}}

	labs := report.Section{Heading: "Lab Tests"}
	for _, o := range s.LabTests {
		date := "N/A"
		if o.TestDate.Valid {
			date = o.TestDate.Time.Format(dateLayout)
		}
		labs.Lines = append(labs.Lines,
			report.Line{Label: "Test", Value: o.TestName},
			report.Line{Label: "  Date", Value: date},
			report.Line{Label: "  Status", Value: o.Status},
		)
		if o.DoctorName != "" {
			labs.Lines = append(labs.Lines, report.Line{Label: "  Doctor", Value: o.DoctorName})
		}
		if o.Notes != nil && *o.Notes != "" {
			labs.Lines = append(labs.Lines, report.Line{Label: "  Notes", Value: *o.Notes})
		}
	}
	if len(s.LabTests) == 0 {
		labs.Lines = []report.Line{{Value: "No lab tests"}}
	}

	bills := report.Section{Heading: "Payment History"}
	for _, b := range s.Billing {
		date := "N/A"
		if b.PaymentDate.Valid {
			date = b.PaymentDate.Time.Format(dateLayout)
		}
		bills.Lines = append(bills.Lines,
			report.Line{Label: "Invoice", Value: orNA(b.InvoiceNumber)},
			report.Line{Label: "  Amount", Value: fmt.Sprintf("INR %.2f", b.Amount)},
			report.Line{Label: "  Date", Value: date},
			report.Line{Label: "  Method", Value: b.Method},
			report.Line{Label: "  Status", Value: b.Status},
		)
	}
	if len(s.Billing) == 0 {
		bills.Lines = []report.Line{{Value: "No payments"}}
	}

	sections := []report.Section{profile}
	sections = append(sections, vitals.HistorySections(s.Vitals)...)
	return append(sections, labs, bills)
}

// Export assembles the snapshot and renders it as a PDF into w. Nothing is
// written when either step fails.
func (a *Aggregator) Export(ctx context.Context, p auth.Principal, patientID uuid.UUID, w io.Writer) error {
	if err := p.Can(auth.ActionExportReports).Err(); err != nil {
		return err
	}
	snap, err := a.Snapshot(ctx, p, patientID)
	if err != nil {
		return err
	}
	return report.Render(w, "Patient Record - "+snap.Patient.Name, Sections(snap), report.A4())
}
