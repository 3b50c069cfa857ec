package patient

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ridi/hms/internal/platform/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var validGenders = map[string]bool{
	"male": true, "female": true, "other": true,
}

var validBloodGroups = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

func (s *Service) validate(ctx context.Context, p *Patient) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return apperr.Validation("name is required")
	}
	if p.Gender != nil && *p.Gender != "" && !validGenders[strings.ToLower(*p.Gender)] {
		return apperr.Validation("invalid gender: %s", *p.Gender)
	}
	if p.BloodGroup != nil && *p.BloodGroup != "" && !validBloodGroups[strings.ToUpper(*p.BloodGroup)] {
		return apperr.Validation("invalid blood group: %s", *p.BloodGroup)
	}
	p.Mobile = normalizeMobile(p.Mobile)
	if p.Mobile == nil {
		return nil
	}
	taken, err := s.repo.MobileTaken(ctx, *p.Mobile, p.ID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Validation("mobile number %s is already registered to another patient", *p.Mobile)
	}
	return nil
}

// normalizeMobile trims the number and maps blank to nil so that patients
// without a mobile never collide on uniqueness.
func normalizeMobile(m *string) *string {
	if m == nil {
		return nil
	}
	v := strings.TrimSpace(*m)
	if v == "" {
		return nil
	}
	return &v
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	p.ID = uuid.Nil
	if err := s.validate(ctx, p); err != nil {
		return err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if err := s.validate(ctx, p); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) SearchPatients(ctx context.Context, params SearchParams, limit, offset int) ([]*Patient, int, error) {
	return s.repo.Search(ctx, params, limit, offset)
}
