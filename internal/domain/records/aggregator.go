// Package records assembles the composite snapshot of one patient's
// clinical and billing history.
package records

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ridi/hms/internal/domain/billing"
	"github.com/ridi/hms/internal/domain/labtest"
	"github.com/ridi/hms/internal/domain/patient"
	"github.com/ridi/hms/internal/domain/vitals"
	"github.com/ridi/hms/internal/platform/auth"
)

type PatientSource interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

type VitalsSource interface {
	History(ctx context.Context, patientID uuid.UUID) ([]*vitals.Record, error)
}

type LabSource interface {
	History(ctx context.Context, patientID uuid.UUID) ([]*labtest.Order, error)
}

type BillingSource interface {
	History(ctx context.Context, patientID uuid.UUID) ([]*billing.HistoryEntry, error)
}

// Snapshot is the composite view of one patient. Each history is ordered
// newest first by its own date.
type Snapshot struct {
	Patient     *patient.Patient        `json:"patient"`
	Vitals      []*vitals.Record        `json:"vitals"`
	LabTests    []*labtest.Order        `json:"lab_tests"`
	Billing     []*billing.HistoryEntry `json:"billing"`
	GeneratedAt time.Time               `json:"generated_at"`
}

type Aggregator struct {
	patients PatientSource
	vitals   VitalsSource
	labs     LabSource
	billing  BillingSource
	now      func() time.Time
}

func NewAggregator(patients PatientSource, vitals VitalsSource, labs LabSource, billing BillingSource) *Aggregator {
	return &Aggregator{patients: patients, vitals: vitals, labs: labs, billing: billing, now: time.Now}
}

// Snapshot fetches the profile and the three histories concurrently. The
// first failure cancels the remaining fetches and is returned with a nil
// snapshot.
func (a *Aggregator) Snapshot(ctx context.Context, p auth.Principal, patientID uuid.UUID) (*Snapshot, error) {
	if err := p.Can(auth.ActionReadClinicalRecords).Err(); err != nil {
		return nil, err
	}

	var (
		profile *patient.Patient
		vr      []*vitals.Record
		labs    []*labtest.Order
		bills   []*billing.HistoryEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		profile, err = a.patients.GetPatient(gctx, patientID)
		return err
	})
	g.Go(func() (err error) {
		vr, err = a.vitals.History(gctx, patientID)
		return err
	})
	g.Go(func() (err error) {
		labs, err = a.labs.History(gctx, patientID)
		return err
	})
	g.Go(func() (err error) {
		bills, err = a.billing.History(gctx, patientID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Patient:     profile,
		Vitals:      vr,
		LabTests:    labs,
		Billing:     bills,
		GeneratedAt: a.now().UTC(),
	}
	if snap.Vitals == nil {
		snap.Vitals = []*vitals.Record{}
	}
	if snap.LabTests == nil {
		snap.LabTests = []*labtest.Order{}
	}
	if snap.Billing == nil {
		snap.Billing = []*billing.HistoryEntry{}
	}
	return snap, nil
}
