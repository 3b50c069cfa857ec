package billing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/ridi/hms/internal/platform/apperr"
	"github.com/ridi/hms/internal/platform/blobstore"
	"github.com/ridi/hms/internal/platform/events"
	"github.com/ridi/hms/internal/platform/report"
	"github.com/ridi/hms/internal/platform/sheet"
)

var validMethods = map[string]bool{MethodCash: true, MethodCard: true, MethodOnline: true}

var validStatuses = map[string]bool{StatusPending: true, StatusCompleted: true, StatusFailed: true}

type Service struct {
	payments PaymentRepository
	invoices InvoiceRepository
	store    blobstore.Store
	events   events.Publisher
	baseURL  string
	hospital Hospital
	geometry report.Geometry
	now      func() time.Time
}

func NewService(payments PaymentRepository, invoices InvoiceRepository, store blobstore.Store, pub events.Publisher, publicBaseURL string, hospital Hospital) *Service {
	return &Service{
		payments: payments,
		invoices: invoices,
		store:    store,
		events:   pub,
		baseURL:  publicBaseURL,
		hospital: hospital,
		geometry: report.A4(),
		now:      time.Now,
	}
}

// -- Payments --

func (s *Service) validatePayment(p *Payment) error {
	if p.PatientID == uuid.Nil {
		return apperr.Validation("patient_id is required")
	}
	if p.Amount <= 0 {
		return apperr.Validation("amount must be positive")
	}
	if p.Method == "" {
		p.Method = MethodCash
	}
	if !validMethods[p.Method] {
		return apperr.Validation("invalid payment method: %s", p.Method)
	}
	if p.Status == "" {
		p.Status = StatusPending
	}
	if !validStatuses[p.Status] {
		return apperr.Validation("invalid payment status: %s", p.Status)
	}
	if !p.PaymentDate.Valid {
		y, m, d := s.now().Date()
		p.PaymentDate = pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
	}
	return nil
}

func (s *Service) CreatePayment(ctx context.Context, p *Payment) error {
	if err := s.validatePayment(p); err != nil {
		return err
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return err
	}
	if p.Status == StatusCompleted {
		s.emitCompleted(ctx, p)
	}
	return nil
}

func (s *Service) GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error) {
	return s.payments.GetByID(ctx, id)
}

// UpdatePayment saves p and publishes payment.completed when this write
// moves the status to completed. Of several concurrent completions only the
// first emits.
func (s *Service) UpdatePayment(ctx context.Context, p *Payment) error {
	if err := s.validatePayment(p); err != nil {
		return err
	}
	prev, err := s.payments.Update(ctx, p)
	if err != nil {
		return err
	}
	if prev != StatusCompleted && p.Status == StatusCompleted {
		s.emitCompleted(ctx, p)
	}
	return nil
}

func (s *Service) DeletePayment(ctx context.Context, id uuid.UUID) error {
	return s.payments.Delete(ctx, id)
}

func (s *Service) ListPayments(ctx context.Context, f PaymentFilter, limit, offset int) ([]*Payment, int, error) {
	if f.Status != "" && !validStatuses[f.Status] {
		return nil, 0, apperr.Validation("invalid payment status: %s", f.Status)
	}
	if f.Method != "" && !validMethods[f.Method] {
		return nil, 0, apperr.Validation("invalid payment method: %s", f.Method)
	}
	return s.payments.List(ctx, f, limit, offset)
}

func (s *Service) PaymentStats(ctx context.Context) (*Stats, error) {
	return s.payments.Stats(ctx)
}

// History returns the patient's billing history, newest payment first.
func (s *Service) History(ctx context.Context, patientID uuid.UUID) ([]*HistoryEntry, error) {
	return s.payments.History(ctx, patientID)
}

func (s *Service) emitCompleted(ctx context.Context, p *Payment) {
	events.Emit(ctx, s.events, events.New(events.TypePaymentCompleted, p.ID.String(), map[string]interface{}{
		"payment_id": p.ID,
		"patient_id": p.PatientID,
		"amount":     p.Amount,
		"method":     p.Method,
	}))
}

// ExportPayments writes every payment as a single-sheet workbook.
func (s *Service) ExportPayments(ctx context.Context, w io.Writer) error {
	items, err := s.payments.All(ctx)
	if err != nil {
		return err
	}
	return sheet.Write(w, PaymentsTable(items))
}

// PaymentsTable lays payments out for the spreadsheet export.
func PaymentsTable(items []*Payment) sheet.Table {
	t := sheet.Table{
		Name:    "Payments",
		Columns: []string{"Date", "Patient", "Amount", "Method", "Status", "Reference", "Notes"},
	}
	for _, p := range items {
		var date interface{}
		if p.PaymentDate.Valid {
			date = p.PaymentDate.Time
		}
		t.AddRow(date, p.PatientName, p.Amount, p.Method, p.Status, p.Reference, p.Notes)
	}
	return t
}

// -- Invoices --

// InvoiceSections lays out the invoice body below the letterhead.
func InvoiceSections(h Hospital, p *Payment, number string) []report.Section {
	letterhead := report.Section{Heading: h.Name}
	for _, v := range []string{h.Address, h.Contact} {
		if v != "" {
			letterhead.Lines = append(letterhead.Lines, report.Line{Value: v})
		}
	}

	date := "N/A"
	if p.PaymentDate.Valid {
		date = p.PaymentDate.Time.Format("Jan 02, 2006")
	}
	billTo := p.PatientName
	if billTo == "" {
		billTo = "Patient Name Not Available"
	}
	amount := fmt.Sprintf("INR %.2f", p.Amount)

	details := report.Section{Heading: "INVOICE", Lines: []report.Line{
		{Label: "Invoice Number", Value: number},
		{Label: "Date", Value: date},
		{Label: "Bill To", Value: billTo},
	}}
	payment := report.Section{Heading: "Payment Details", Lines: []report.Line{
		{Label: "Medical Services", Value: amount},
		{Label: "Total Amount", Value: amount},
		{Label: "Payment Method", Value: upper(p.Method)},
		{Label: "Status", Value: upper(p.Status)},
	}}
	if p.Reference != nil && *p.Reference != "" {
		payment.Lines = append(payment.Lines, report.Line{Label: "Reference", Value: *p.Reference})
	}
	footer := report.Section{Heading: "Thank you for choosing " + h.Name}

	return []report.Section{letterhead, details, payment, footer}
}

// GenerateInvoice renders the payment's invoice, stores the PDF in the
// invoices bucket and records it.
func (s *Service) GenerateInvoice(ctx context.Context, paymentID uuid.UUID) (*Invoice, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	number := InvoiceNumberFor(p.ID)

	var buf bytes.Buffer
	if err := report.Render(&buf, "Invoice "+number, InvoiceSections(s.hospital, p, number), s.geometry); err != nil {
		return nil, apperr.Backend("render invoice", err)
	}

	name := fmt.Sprintf("invoice_%s_%d.pdf", p.ID, s.now().UnixMilli())
	if _, err := s.store.Put(ctx, blobstore.BucketInvoices, name, report.ContentType, &buf); err != nil {
		return nil, blobstore.Classify("store invoice", err)
	}

	inv := &Invoice{
		PaymentID:     p.ID,
		InvoiceNumber: number,
		PdfURL:        blobstore.PublicURL(s.baseURL, blobstore.BucketInvoices, name),
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate,
		Status:        p.Status,
		PatientID:     p.PatientID,
		PatientName:   p.PatientName,
	}
	if err := s.invoices.Create(ctx, inv); err != nil {
		if derr := s.store.Delete(ctx, blobstore.BucketInvoices, name); derr != nil {
			zerolog.Ctx(ctx).Warn().Err(derr).Str("object", name).Msg("remove orphaned invoice")
		}
		return nil, err
	}

	events.Emit(ctx, s.events, events.New(events.TypeInvoiceGenerated, inv.ID.String(), map[string]interface{}{
		"invoice_id":     inv.ID,
		"invoice_number": inv.InvoiceNumber,
		"payment_id":     p.ID,
		"pdf_url":        inv.PdfURL,
	}))
	return inv, nil
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.invoices.GetByID(ctx, id)
}

func (s *Service) ListInvoices(ctx context.Context, query string, limit, offset int) ([]*Invoice, int, error) {
	return s.invoices.List(ctx, strings.TrimSpace(query), limit, offset)
}
