package prescription

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ridi/hms/internal/platform/apperr"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) validate(p *Prescription) error {
	if p.PatientID == uuid.Nil {
		return apperr.Validation("patient_id is required")
	}
	if p.DoctorID == uuid.Nil {
		return apperr.Validation("doctor_id is required")
	}
	if !p.PrescriptionDate.Valid {
		y, m, d := s.now().Date()
		p.PrescriptionDate = pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
	}
	if p.FollowUpDate.Valid && p.FollowUpDate.Time.Before(p.PrescriptionDate.Time) {
		return apperr.Validation("follow_up_date must not precede prescription_date")
	}
	if p.Medicines == nil {
		p.Medicines = []Medicine{}
	}
	for i := range p.Medicines {
		m := &p.Medicines[i]
		m.Name = strings.TrimSpace(m.Name)
		if m.Name == "" {
			return apperr.Validation("medicine %d: name is required", i+1)
		}
	}
	return nil
}

func (s *Service) CreatePrescription(ctx context.Context, p *Prescription) error {
	if err := s.validate(p); err != nil {
		return err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) GetPrescription(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdatePrescription(ctx context.Context, p *Prescription) error {
	if err := s.validate(p); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) DeletePrescription(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListPrescriptions(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	return s.repo.List(ctx, patientID, limit, offset)
}
