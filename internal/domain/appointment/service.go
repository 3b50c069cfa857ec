package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ridi/hms/internal/platform/apperr"
)

// Defaults applied when the caller leaves type or status empty.
const (
	DefaultType   = "consultation"
	DefaultStatus = "scheduled"
)

var validTypes = map[string]bool{
	"consultation": true, "follow_up": true, "emergency": true,
}

var validStatuses = map[string]bool{
	"scheduled": true, "completed": true, "cancelled": true, "no_show": true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validate(a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return apperr.Validation("patient_id is required")
	}
	if a.DoctorID == uuid.Nil {
		return apperr.Validation("doctor_id is required")
	}
	if !a.Date.Valid {
		return apperr.Validation("appointment_date is required")
	}
	t, err := time.Parse("15:04", a.Time)
	if err != nil {
		return apperr.Validation("appointment_time must be HH:MM, got %q", a.Time)
	}
	a.Time = t.Format("15:04")
	if a.Type == "" {
		a.Type = DefaultType
	}
	if !validTypes[a.Type] {
		return apperr.Validation("invalid appointment type: %s", a.Type)
	}
	if a.Status == "" {
		a.Status = DefaultStatus
	}
	if !validStatuses[a.Status] {
		return apperr.Validation("invalid appointment status: %s", a.Status)
	}
	return nil
}

func (s *Service) CreateAppointment(ctx context.Context, a *Appointment) error {
	if err := validate(a); err != nil {
		return err
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateAppointment(ctx context.Context, a *Appointment) error {
	if err := validate(a); err != nil {
		return err
	}
	return s.repo.Update(ctx, a)
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error) {
	if f.Status != "" && !validStatuses[f.Status] {
		return nil, 0, apperr.Validation("invalid appointment status: %s", f.Status)
	}
	return s.repo.List(ctx, f, limit, offset)
}
