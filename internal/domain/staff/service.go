package staff

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

var validShifts = map[string]bool{
	ShiftMorning: true, ShiftEvening: true, ShiftNight: true,
}

func (s *Service) validate(m *Member) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return apperr.Validation("name is required")
	}
	if m.Shift == "" {
		m.Shift = ShiftMorning
	}
	if !validShifts[m.Shift] {
		return apperr.Validation("invalid shift: %s", m.Shift)
	}
	return nil
}

func (s *Service) CreateMember(ctx context.Context, m *Member) error {
	if err := s.validate(m); err != nil {
		return err
	}
	if !m.JoiningDate.Valid {
		y, mo, d := s.now().Date()
		m.JoiningDate = pgtype.Date{Time: time.Date(y, mo, d, 0, 0, 0, 0, time.UTC), Valid: true}
	}
	return s.repo.Create(ctx, m)
}

func (s *Service) GetMember(ctx context.Context, id uuid.UUID) (*Member, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateMember(ctx context.Context, m *Member) error {
	if err := s.validate(m); err != nil {
		return err
	}
	return s.repo.Update(ctx, m)
}

func (s *Service) DeleteMember(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListMembers(ctx context.Context, shift string, limit, offset int) ([]*Member, int, error) {
	if shift != "" && !validShifts[shift] {
		return nil, 0, apperr.Validation("invalid shift: %s", shift)
	}
	return s.repo.List(ctx, shift, limit, offset)
}
