package profile

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/ridi/hms/internal/platform/apperr"
	"github.com/ridi/hms/internal/platform/auth"
)

const (
	maxNameLen  = 255
	maxPhoneLen = 32
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetProfile returns the caller's own profile.
func (s *Service) GetProfile(ctx context.Context, p auth.Principal) (*Profile, error) {
	if err := owner(p, auth.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, p.UserID)
}

// SaveProfile upserts the caller's profile. The owner always comes from the
// principal, never from the request body.
func (s *Service) SaveProfile(ctx context.Context, p auth.Principal, prof *Profile) error {
	if err := owner(p, auth.ActionWrite); err != nil {
		return err
	}
	prof.UserID = p.UserID
	prof.FullName = blankToNil(prof.FullName)
	prof.Phone = blankToNil(prof.Phone)
	prof.Address = blankToNil(prof.Address)

	if prof.FullName != nil && utf8.RuneCountInString(*prof.FullName) > maxNameLen {
		return apperr.Validation("full_name must be at most %d characters", maxNameLen)
	}
	if prof.Phone != nil && utf8.RuneCountInString(*prof.Phone) > maxPhoneLen {
		return apperr.Validation("phone must be at most %d characters", maxPhoneLen)
	}
	return s.repo.Upsert(ctx, prof)
}

func owner(p auth.Principal, action auth.Action) error {
	if !p.Authenticated() {
		return apperr.Permission("authentication required")
	}
	return p.Can(action).Err()
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
