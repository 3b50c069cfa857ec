package patient

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ridi/hms/internal/platform/apperr"
)

type mockRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, apperr.NotFound("patient")
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return apperr.NotFound("patient")
	}
	p.UpdatedAt = time.Now()
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.patients[id]; !ok {
		return apperr.NotFound("patient")
	}
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) Search(_ context.Context, params SearchParams, limit, offset int) ([]*Patient, int, error) {
	var out []*Patient
	for _, p := range m.patients {
		if params.Query != "" && !strings.Contains(p.Name, params.Query) &&
			(p.Mobile == nil || !strings.Contains(*p.Mobile, params.Query)) {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *mockRepo) MobileTaken(_ context.Context, mobile string, excludeID uuid.UUID) (bool, error) {
	for _, p := range m.patients {
		if p.ID != excludeID && p.Mobile != nil && *p.Mobile == mobile {
			return true, nil
		}
	}
	return false, nil
}

func strPtr(s string) *string { return &s }

func newTestService() *Service {
	return NewService(newMockRepo())
}

func TestCreatePatient(t *testing.T) {
	svc := newTestService()
	p := &Patient{Name: " Asha Rao ", Mobile: strPtr("9876543210")}
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
	if p.Name != "Asha Rao" {
		t.Errorf("expected trimmed name, got %q", p.Name)
	}
}

func TestCreatePatient_NameRequired(t *testing.T) {
	svc := newTestService()
	err := svc.CreatePatient(context.Background(), &Patient{})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreatePatient_InvalidBloodGroup(t *testing.T) {
	svc := newTestService()
	err := svc.CreatePatient(context.Background(), &Patient{Name: "Ravi", BloodGroup: strPtr("Z+")})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreatePatient_DuplicateMobile(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	if err := svc.CreatePatient(ctx, &Patient{Name: "Asha", Mobile: strPtr("9876543210")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := svc.CreatePatient(ctx, &Patient{Name: "Ravi", Mobile: strPtr(" 9876543210 ")})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "already registered") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestCreatePatient_BlankMobilesDoNotCollide(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	for _, name := range []string{"Asha", "Ravi"} {
		p := &Patient{Name: name, Mobile: strPtr("  ")}
		if err := svc.CreatePatient(ctx, p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Mobile != nil {
			t.Errorf("expected blank mobile to be cleared, got %q", *p.Mobile)
		}
	}
}

func TestUpdatePatient_KeepsOwnMobile(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	p := &Patient{Name: "Asha", Mobile: strPtr("9876543210")}
	if err := svc.CreatePatient(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated := &Patient{ID: p.ID, Name: "Asha Rao", Mobile: strPtr("9876543210")}
	if err := svc.UpdatePatient(ctx, updated); err != nil {
		t.Fatalf("updating with own mobile should succeed: %v", err)
	}
}

func TestUpdatePatient_MobileOfAnotherPatient(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a := &Patient{Name: "Asha", Mobile: strPtr("111")}
	b := &Patient{Name: "Ravi", Mobile: strPtr("222")}
	svc.CreatePatient(ctx, a)
	svc.CreatePatient(ctx, b)

	err := svc.UpdatePatient(ctx, &Patient{ID: b.ID, Name: "Ravi", Mobile: strPtr("111")})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDeletePatient_NotFound(t *testing.T) {
	svc := newTestService()
	err := svc.DeletePatient(context.Background(), uuid.New())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
