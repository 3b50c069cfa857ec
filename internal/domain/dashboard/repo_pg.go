package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ridi/hms/internal/domain/appointment"
	"github.com/ridi/hms/internal/domain/billing"
	"github.com/ridi/hms/internal/platform/db"
)

type storePG struct{ q db.Querier }

func NewStorePG(q db.Querier) Store { return &storePG{q: q} }

const apptCols = `a.id, a.patient_id, a.doctor_id, a.appointment_date, a.appointment_time,
	a.type, a.status, COALESCE(p.name, ''), COALESCE(d.name, ''), a.created_at`

const apptFrom = ` FROM appointments a
	LEFT JOIN patients p ON p.id = a.patient_id
	LEFT JOIN doctors d ON d.id = a.doctor_id`

func pgDate(t time.Time) pgtype.Date {
	y, m, d := t.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func (s *storePG) count(ctx context.Context, sql string, args ...interface{}) (int, error) {
	var n int
	err := s.q.QueryRow(ctx, sql, args...).Scan(&n)
	return n, db.Translate(err, "count", "dashboard")
}

func (s *storePG) CountPatients(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM patients`)
}

func (s *storePG) CountDoctors(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM doctors`)
}

func (s *storePG) CountAppointmentsOn(ctx context.Context, day time.Time) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM appointments WHERE appointment_date = $1`, pgDate(day))
}

func (s *storePG) CompletedRevenueSince(ctx context.Context, day time.Time) (float64, error) {
	var sum float64
	err := s.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)::float8 FROM payments
		WHERE status = 'completed' AND payment_date >= $1`, pgDate(day),
	).Scan(&sum)
	return sum, db.Translate(err, "revenue", "payment")
}

func scanAppointment(row pgx.Row) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.Time,
		&a.Type, &a.Status, &a.PatientName, &a.DoctorName, &a.CreatedAt)
	return &a, err
}

func (s *storePG) appointments(ctx context.Context, sql string, args ...interface{}) ([]*appointment.Appointment, error) {
	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.Translate(err, "list", "appointment")
	}
	defer rows.Close()
	var items []*appointment.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, db.Translate(err, "scan", "appointment")
		}
		items = append(items, a)
	}
	return items, db.Translate(rows.Err(), "list", "appointment")
}

func (s *storePG) RecentAppointments(ctx context.Context, limit int) ([]*appointment.Appointment, error) {
	return s.appointments(ctx, `SELECT `+apptCols+apptFrom+` ORDER BY a.created_at DESC LIMIT $1`, limit)
}

func (s *storePG) UpcomingAppointments(ctx context.Context, day time.Time, limit int) ([]*appointment.Appointment, error) {
	return s.appointments(ctx, `SELECT `+apptCols+apptFrom+`
		WHERE a.appointment_date >= $1
		ORDER BY a.appointment_date, a.appointment_time LIMIT $2`, pgDate(day), limit)
}

func (s *storePG) RecentPayments(ctx context.Context, limit int) ([]*billing.Payment, error) {
	rows, err := s.q.Query(ctx, `
		SELECT pm.id, pm.patient_id, pm.amount, pm.payment_method, pm.status, pm.payment_date,
			COALESCE(p.name, ''), pm.created_at
		FROM payments pm LEFT JOIN patients p ON p.id = pm.patient_id
		ORDER BY pm.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, db.Translate(err, "list", "payment")
	}
	defer rows.Close()
	var items []*billing.Payment
	for rows.Next() {
		var p billing.Payment
		if err := rows.Scan(&p.ID, &p.PatientID, &p.Amount, &p.Method, &p.Status, &p.PaymentDate,
			&p.PatientName, &p.CreatedAt); err != nil {
			return nil, db.Translate(err, "scan", "payment")
		}
		items = append(items, &p)
	}
	return items, db.Translate(rows.Err(), "list", "payment")
}
