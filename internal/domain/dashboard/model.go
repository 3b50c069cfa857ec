package dashboard

import (
	"time"

	"github.com/google/uuid"

	"github.com/ridi/hms/internal/domain/appointment"
	"github.com/ridi/hms/internal/domain/billing"
)

// Activity kinds.
const (
	KindAppointment = "appointment"
	KindPayment     = "payment"
)

// FeedSize bounds every list on the dashboard.
const FeedSize = 5

// Activity is one row of the combined feed: a recent appointment or a
// recent payment, tagged and dated for sorting.
type Activity struct {
	Kind        string                   `json:"type"`
	Date        time.Time                `json:"date"`
	Appointment *appointment.Appointment `json:"appointment,omitempty"`
	Payment     *billing.Payment         `json:"payment,omitempty"`
}

// ID returns the id of the underlying record.
func (a Activity) ID() uuid.UUID {
	if a.Payment != nil {
		return a.Payment.ID
	}
	if a.Appointment != nil {
		return a.Appointment.ID
	}
	return uuid.Nil
}

// Summary is the dashboard payload. Revenue is nil and RevenueLocked set
// when the caller may not view revenue.
type Summary struct {
	TotalPatients     int                        `json:"total_patients"`
	TotalDoctors      int                        `json:"total_doctors"`
	TodayAppointments int                        `json:"today_appointments"`
	Revenue           *float64                   `json:"monthly_revenue,omitempty"`
	RevenueLocked     bool                       `json:"monthly_revenue_locked"`
	RecentActivity    []Activity                 `json:"recent_activity"`
	Upcoming          []*appointment.Appointment `json:"upcoming_appointments"`
	GeneratedAt       time.Time                  `json:"generated_at"`
}
