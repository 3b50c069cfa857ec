package records

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridi/hms/internal/domain/billing"
	"github.com/ridi/hms/internal/domain/labtest"
	"github.com/ridi/hms/internal/domain/patient"
	"github.com/ridi/hms/internal/domain/vitals"
	"github.com/ridi/hms/internal/platform/apperr"
	"github.com/ridi/hms/internal/platform/auth"
)

var (
	admin  = auth.Principal{UserID: "admin-1", Role: auth.RoleAdmin}
	viewer = auth.Principal{UserID: "user-1", Role: auth.RoleUser}
)

type fakeSources struct {
	patient *patient.Patient
	vitals  []*vitals.Record
	labs    []*labtest.Order
	bills   []*billing.HistoryEntry

	failVitals error
	failLabs   error
	failBills  error
	delay      time.Duration
	calls      atomic.Int32
}

func (f *fakeSources) GetPatient(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	f.calls.Add(1)
	if f.patient == nil || f.patient.ID != id {
		return nil, apperr.NotFound("patient")
	}
	return f.patient, nil
}

type vitalsFake struct{ *fakeSources }

func (f vitalsFake) History(ctx context.Context, _ uuid.UUID) ([]*vitals.Record, error) {
	f.calls.Add(1)
	if f.failVitals != nil {
		return nil, f.failVitals
	}
	return f.vitals, nil
}

type labsFake struct{ *fakeSources }

func (f labsFake) History(ctx context.Context, _ uuid.UUID) ([]*labtest.Order, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.failLabs != nil {
		return nil, f.failLabs
	}
	return f.labs, nil
}

type billsFake struct{ *fakeSources }

func (f billsFake) History(_ context.Context, _ uuid.UUID) ([]*billing.HistoryEntry, error) {
	f.calls.Add(1)
	if f.failBills != nil {
		return nil, f.failBills
	}
	return f.bills, nil
}

func (f *fakeSources) aggregator() *Aggregator {
	return NewAggregator(f, vitalsFake{f}, labsFake{f}, billsFake{f})
}

func date(d int) pgtype.Date {
	return pgtype.Date{Time: time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

// newFixture builds a patient with n vitals, m lab tests and k payments,
// each history already newest first as the repositories return it.
func newFixture(n, m, k int) *fakeSources {
	mobile := "9876543210"
	f := &fakeSources{patient: &patient.Patient{ID: uuid.New(), Name: "Asha Rao", Mobile: &mobile}}
	base := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		w, h := 70.0, 175.0
		f.vitals = append(f.vitals, &vitals.Record{
			ID: uuid.New(), PatientID: f.patient.ID, Weight: &w, Height: &h,
			BMI: vitals.ComputeBMI(&w, &h), RecordedAt: base.Add(-time.Duration(i) * time.Hour),
		})
	}
	for i := 0; i < m; i++ {
		f.labs = append(f.labs, &labtest.Order{
			ID: uuid.New(), PatientID: f.patient.ID, TestName: fmt.Sprintf("Test %d", i),
			DoctorName: "Dr. Mehta", TestDate: date(28 - i), Status: labtest.StatusCompleted,
		})
	}
	for i := 0; i < k; i++ {
		inv := fmt.Sprintf("INV-%08d", i)
		f.bills = append(f.bills, &billing.HistoryEntry{
			Payment: billing.Payment{
				ID: uuid.New(), PatientID: f.patient.ID, Amount: 100 * float64(i+1),
				Method: billing.MethodCash, Status: billing.StatusCompleted, PaymentDate: date(28 - i),
			},
			InvoiceNumber: &inv,
		})
	}
	return f
}

func TestSnapshot_CountsAndOrder(t *testing.T) {
	f := newFixture(4, 3, 5)
	snap, err := f.aggregator().Snapshot(context.Background(), admin, f.patient.ID)
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Equal(t, f.patient.ID, snap.Patient.ID)
	assert.Len(t, snap.Vitals, 4)
	assert.Len(t, snap.LabTests, 3)
	assert.Len(t, snap.Billing, 5)

	for i := 1; i < len(snap.Vitals); i++ {
		assert.True(t, snap.Vitals[i-1].RecordedAt.After(snap.Vitals[i].RecordedAt), "vitals newest first")
	}
	for i := 1; i < len(snap.LabTests); i++ {
		assert.True(t, snap.LabTests[i-1].TestDate.Time.After(snap.LabTests[i].TestDate.Time), "lab tests newest first")
	}
	for i := 1; i < len(snap.Billing); i++ {
		assert.True(t, snap.Billing[i-1].PaymentDate.Time.After(snap.Billing[i].PaymentDate.Time), "payments newest first")
	}
}

func TestSnapshot_EmptyHistories(t *testing.T) {
	f := newFixture(0, 0, 0)
	snap, err := f.aggregator().Snapshot(context.Background(), admin, f.patient.ID)
	require.NoError(t, err)
	assert.NotNil(t, snap.Vitals)
	assert.NotNil(t, snap.LabTests)
	assert.NotNil(t, snap.Billing)
	assert.Empty(t, snap.Vitals)
}

func TestSnapshot_AnyFailureYieldsNoSnapshot(t *testing.T) {
	boom := apperr.Backend("query", errors.New("connection reset"))
	tests := []struct {
		name  string
		setup func(f *fakeSources)
		want  error
	}{
		{"missing patient", func(f *fakeSources) { f.patient.ID = uuid.New() }, apperr.ErrNotFound},
		{"vitals", func(f *fakeSources) { f.failVitals = boom }, apperr.ErrBackend},
		{"lab tests", func(f *fakeSources) { f.failLabs = boom }, apperr.ErrBackend},
		{"billing", func(f *fakeSources) { f.failBills = boom }, apperr.ErrBackend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(2, 2, 2)
			id := f.patient.ID
			tt.setup(f)

			snap, err := f.aggregator().Snapshot(context.Background(), admin, id)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, snap)
		})
	}
}

func TestSnapshot_FailureCancelsSiblings(t *testing.T) {
	f := newFixture(1, 1, 1)
	f.delay = 5 * time.Second
	f.failBills = apperr.Backend("query", errors.New("timeout"))

	start := time.Now()
	snap, err := f.aggregator().Snapshot(context.Background(), admin, f.patient.ID)
	assert.Error(t, err)
	assert.Nil(t, snap)
	assert.Less(t, time.Since(start), time.Second, "slow fetch should be cancelled")
}

func TestSnapshot_PermissionCheckedFirst(t *testing.T) {
	f := newFixture(1, 1, 1)
	snap, err := f.aggregator().Snapshot(context.Background(), auth.Anonymous, f.patient.ID)
	assert.ErrorIs(t, err, apperr.ErrPermission)
	assert.Nil(t, snap)
	assert.Equal(t, int32(0), f.calls.Load(), "no fetch may be issued without permission")
}

func TestSnapshot_LimitedRoleMayRead(t *testing.T) {
	f := newFixture(1, 0, 0)
	_, err := f.aggregator().Snapshot(context.Background(), viewer, f.patient.ID)
	assert.NoError(t, err)
}

func TestSections_Order(t *testing.T) {
	f := newFixture(2, 1, 1)
	snap, err := f.aggregator().Snapshot(context.Background(), admin, f.patient.ID)
	require.NoError(t, err)

	sections := Sections(snap)
	require.Len(t, sections, 4)
	assert.Equal(t, "Patient Information", sections[0].Heading)
	assert.Equal(t, "Vitals History", sections[1].Heading)
	assert.Equal(t, "Lab Tests", sections[2].Heading)
	assert.Equal(t, "Payment History", sections[3].Heading)
	assert.Equal(t, "Contact: 9876543210", sections[0].Lines[4].Text())
	assert.Equal(t, "Gender: N/A", sections[0].Lines[1].Text())
	assert.Equal(t, "Invoice: INV-00000000", sections[3].Lines[0].Text())
}

func TestExport_WritesPDF(t *testing.T) {
	f := newFixture(30, 10, 10)
	var buf bytes.Buffer
	require.NoError(t, f.aggregator().Export(context.Background(), admin, f.patient.ID, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestExport_FailureWritesNothing(t *testing.T) {
	f := newFixture(3, 3, 3)
	f.failLabs = apperr.Backend("query", errors.New("down"))

	var buf bytes.Buffer
	err := f.aggregator().Export(context.Background(), admin, f.patient.ID, &buf)
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestHandler_GetSnapshot(t *testing.T) {
	f := newFixture(1, 1, 1)
	h := NewHandler(f.aggregator())
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), admin))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(f.patient.ID.String())

	require.NoError(t, h.GetSnapshot(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"lab_tests"`)
}

func TestHandler_GetSnapshot_NotFound(t *testing.T) {
	f := newFixture(0, 0, 0)
	h := NewHandler(f.aggregator())
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), admin))
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.GetSnapshot(c)
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestHandler_Export_Attachment(t *testing.T) {
	f := newFixture(2, 1, 1)
	h := NewHandler(f.aggregator())
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), viewer))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(f.patient.ID.String())

	require.NoError(t, h.Export(c))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "patient_complete_record_")
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
}
