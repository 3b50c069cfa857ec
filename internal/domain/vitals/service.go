package vitals

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/ridi/hms/internal/domain/patient"
	"github.com/ridi/hms/internal/platform/apperr"
	"github.com/ridi/hms/internal/platform/report"
)

// PatientSource looks up the patient a record belongs to.
type PatientSource interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

type Service struct {
	repo     Repository
	patients PatientSource
	geometry report.Geometry
	now      func() time.Time
}

func NewService(repo Repository, patients PatientSource) *Service {
	return &Service{repo: repo, patients: patients, geometry: report.A4(), now: time.Now}
}

func validate(r *Record) error {
	nonNegInt := map[string]*int{
		"heart_rate":               r.HeartRate,
		"blood_pressure_systolic":  r.BloodPressureSystolic,
		"blood_pressure_diastolic": r.BloodPressureDiastolic,
	}
	for field, v := range nonNegInt {
		if v != nil && *v < 0 {
			return apperr.Validation("%s must not be negative", field)
		}
	}
	if r.OxygenSaturation != nil && (*r.OxygenSaturation < 0 || *r.OxygenSaturation > 100) {
		return apperr.Validation("oxygen_saturation must be between 0 and 100")
	}
	if r.Weight != nil && *r.Weight < 0 {
		return apperr.Validation("weight must not be negative")
	}
	if r.Height != nil && *r.Height < 0 {
		return apperr.Validation("height must not be negative")
	}
	return nil
}

// RecordVitals stores a new measurement set for the patient and derives BMI
// from weight and height when both are given.
func (s *Service) RecordVitals(ctx context.Context, patientID uuid.UUID, r *Record) error {
	if _, err := s.patients.GetPatient(ctx, patientID); err != nil {
		return err
	}
	if err := validate(r); err != nil {
		return err
	}
	r.PatientID = patientID
	if r.RecordedAt.IsZero() {
		r.RecordedAt = s.now().UTC()
	}
	r.BMI = ComputeBMI(r.Weight, r.Height)
	return s.repo.Create(ctx, r)
}

func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListVitals(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Record, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// History returns all of the patient's records, newest first.
func (s *Service) History(ctx context.Context, patientID uuid.UUID) ([]*Record, error) {
	return s.repo.History(ctx, patientID)
}

// HistorySections turns records into report lines, one per record.
func HistorySections(records []*Record) []report.Section {
	sec := report.Section{Heading: "Vitals History"}
	if len(records) == 0 {
		sec.Lines = []report.Line{{Value: "No vitals recorded"}}
	}
	for _, r := range records {
		line := report.Line{Label: r.RecordedAt.Format("2006-01-02 15:04"), Value: r.Summary()}
		sec.Lines = append(sec.Lines, line)
		if r.Notes != nil && *r.Notes != "" {
			sec.Lines = append(sec.Lines, report.Line{Label: "  Notes", Value: *r.Notes})
		}
	}
	return []report.Section{sec}
}

// ExportHistory writes the patient's vitals history as a paginated PDF.
func (s *Service) ExportHistory(ctx context.Context, patientID uuid.UUID, w io.Writer) error {
	p, err := s.patients.GetPatient(ctx, patientID)
	if err != nil {
		return err
	}
	records, err := s.repo.History(ctx, patientID)
	if err != nil {
		return err
	}
	profile := report.Section{Heading: "Patient", Lines: []report.Line{{Label: "Name", Value: p.Name}}}
	if p.Mobile != nil {
		profile.Lines = append(profile.Lines, report.Line{Label: "Mobile", Value: *p.Mobile})
	}
	sections := append([]report.Section{profile}, HistorySections(records)...)
	return report.Render(w, "Vitals History - "+p.Name, sections, s.geometry)
}
