package dashboard

import (
	"context"
	"time"

	"github.com/ridi/hms/internal/domain/appointment"
	"github.com/ridi/hms/internal/domain/billing"
)

// Store is the read side the summarizer fans out over.
type Store interface {
	CountPatients(ctx context.Context) (int, error)
	CountDoctors(ctx context.Context) (int, error)
	CountAppointmentsOn(ctx context.Context, day time.Time) (int, error)
	// CompletedRevenueSince sums completed payments dated on or after day.
	CompletedRevenueSince(ctx context.Context, day time.Time) (float64, error)
	RecentAppointments(ctx context.Context, limit int) ([]*appointment.Appointment, error)
	RecentPayments(ctx context.Context, limit int) ([]*billing.Payment, error)
	// UpcomingAppointments returns appointments dated on or after day,
	// ordered by date then time.
	UpcomingAppointments(ctx context.Context, day time.Time, limit int) ([]*appointment.Appointment, error)
}
