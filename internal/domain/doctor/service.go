package doctor

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

func validate(d *Doctor) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return apperr.Validation("name is required")
	}
	if d.Experience != nil && *d.Experience < 0 {
		return apperr.Validation("experience must not be negative")
	}
	if d.ConsultationFee != nil && *d.ConsultationFee < 0 {
		return apperr.Validation("consultation_fee must not be negative")
	}
	return nil
}

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	if err := validate(d); err != nil {
		return err
	}
	return s.repo.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateDoctor(ctx context.Context, d *Doctor) error {
	if err := validate(d); err != nil {
		return err
	}
	return s.repo.Update(ctx, d)
}

func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) SearchDoctors(ctx context.Context, query string, limit, offset int) ([]*Doctor, int, error) {
	return s.repo.Search(ctx, query, limit, offset)
}
