package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Payment methods and statuses.
const (
	MethodCash   = "cash"
	MethodCard   = "card"
	MethodOnline = "online"

	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type Payment struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	PatientID   uuid.UUID   `db:"patient_id" json:"patient_id"`
	Amount      float64     `db:"amount" json:"amount"`
	Method      string      `db:"payment_method" json:"payment_method"`
	Status      string      `db:"status" json:"status"`
	Reference   *string     `db:"payment_reference" json:"payment_reference,omitempty"`
	Notes       *string     `db:"payment_notes" json:"payment_notes,omitempty"`
	PaymentDate pgtype.Date `db:"payment_date" json:"payment_date"`
	PatientName string      `json:"patient_name,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// HistoryEntry is a payment with the number of its most recent invoice, if
// one was generated.
type HistoryEntry struct {
	Payment
	InvoiceNumber *string `json:"invoice_number,omitempty"`
}

// PaymentFilter narrows a payment listing. Query matches patient name,
// reference, or status.
type PaymentFilter struct {
	PatientID uuid.UUID
	Status    string
	Method    string
	Query     string
}

// Stats are the payment totals shown above the payments list.
type Stats struct {
	TotalPayments   int     `json:"total_payments"`
	CompletedAmount float64 `json:"completed_amount"`
	PendingAmount   float64 `json:"pending_amount"`
	CashPayments    int     `json:"cash_payments"`
	OnlinePayments  int     `json:"online_payments"`
}

// Add counts p into the totals. Failed payments count toward the total only.
func (s *Stats) Add(p *Payment) {
	s.TotalPayments++
	switch p.Status {
	case StatusCompleted:
		s.CompletedAmount += p.Amount
	case StatusPending:
		s.PendingAmount += p.Amount
	}
	switch p.Method {
	case MethodCash:
		s.CashPayments++
	case MethodOnline:
		s.OnlinePayments++
	}
}

type Invoice struct {
	ID            uuid.UUID `db:"id" json:"id"`
	PaymentID     uuid.UUID `db:"payment_id" json:"payment_id"`
	InvoiceNumber string    `db:"invoice_number" json:"invoice_number"`
	PdfURL        string    `db:"pdf_url" json:"pdf_url"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`

	// Joined from the payment and patient.
	Amount      float64     `json:"amount,omitempty"`
	PaymentDate pgtype.Date `json:"payment_date"`
	Status      string      `json:"status,omitempty"`
	PatientID   uuid.UUID   `json:"patient_id"`
	PatientName string      `json:"patient_name,omitempty"`
}

// InvoiceNumberFor derives the human-facing invoice number from the payment id.
func InvoiceNumberFor(paymentID uuid.UUID) string {
	return "INV-" + paymentID.String()[:8]
}

// Hospital is the letterhead printed on invoices.
type Hospital struct {
	Name    string
	Address string
	Contact string
}

// upper renders an optional enum value for print.
func upper(v string) string {
	if v == "" {
		return "N/A"
	}
	return strings.ToUpper(v)
}
