package labtest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/ridi/hms/internal/platform/apperr"
	"github.com/ridi/hms/internal/platform/blobstore"
	"github.com/ridi/hms/internal/platform/events"
)

var validStatuses = map[string]bool{
	StatusPending: true, StatusInProgress: true, StatusCompleted: true, StatusCancelled: true,
}

var reportExtensions = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"application/pdf": ".pdf",
}

type Service struct {
	catalog CatalogRepository
	orders  OrderRepository
	store   blobstore.Store
	events  events.Publisher
	baseURL string
	now     func() time.Time
}

func NewService(catalog CatalogRepository, orders OrderRepository, store blobstore.Store, pub events.Publisher, publicBaseURL string) *Service {
	return &Service{
		catalog: catalog,
		orders:  orders,
		store:   store,
		events:  pub,
		baseURL: publicBaseURL,
		now:     time.Now,
	}
}

// -- Catalog --

func validateTest(t *Test) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return apperr.Validation("name is required")
	}
	if t.Price != nil && *t.Price < 0 {
		return apperr.Validation("price must not be negative")
	}
	return nil
}

func (s *Service) CreateTest(ctx context.Context, t *Test) error {
	if err := validateTest(t); err != nil {
		return err
	}
	return s.catalog.Create(ctx, t)
}

func (s *Service) GetTest(ctx context.Context, id uuid.UUID) (*Test, error) {
	return s.catalog.GetByID(ctx, id)
}

func (s *Service) UpdateTest(ctx context.Context, t *Test) error {
	if err := validateTest(t); err != nil {
		return err
	}
	return s.catalog.Update(ctx, t)
}

func (s *Service) DeleteTest(ctx context.Context, id uuid.UUID) error {
	return s.catalog.Delete(ctx, id)
}

func (s *Service) ListTests(ctx context.Context) ([]*Test, error) {
	return s.catalog.List(ctx)
}

// -- Orders --

func (s *Service) validateOrder(o *Order) error {
	if o.PatientID == uuid.Nil {
		return apperr.Validation("patient_id is required")
	}
	if o.TestID == uuid.Nil {
		return apperr.Validation("test_id is required")
	}
	if !o.TestDate.Valid {
		y, m, d := s.now().Date()
		o.TestDate = pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
	}
	if o.Status == "" {
		o.Status = StatusPending
	}
	if !validStatuses[o.Status] {
		return apperr.Validation("invalid lab test status: %s", o.Status)
	}
	return nil
}

func (s *Service) CreateOrder(ctx context.Context, o *Order) error {
	if err := s.validateOrder(o); err != nil {
		return err
	}
	o.ReportURL = nil
	return s.orders.Create(ctx, o)
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *Service) UpdateOrder(ctx context.Context, o *Order) error {
	if err := s.validateOrder(o); err != nil {
		return err
	}
	return s.orders.Update(ctx, o)
}

// UpdateStatus sets any valid status; there is no transition table.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !validStatuses[status] {
		return apperr.Validation("invalid lab test status: %s", status)
	}
	return s.orders.UpdateStatus(ctx, id, status)
}

// DeleteOrder removes the order and then its report object, if any.
func (s *Service) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	s.removeReport(ctx, o.ReportURL)
	return nil
}

func (s *Service) ListOrders(ctx context.Context, f OrderFilter, limit, offset int) ([]*Order, int, error) {
	if f.Status != "" && !validStatuses[f.Status] {
		return nil, 0, apperr.Validation("invalid lab test status: %s", f.Status)
	}
	return s.orders.List(ctx, f, limit, offset)
}

// History returns the patient's orders by test date, newest first.
func (s *Service) History(ctx context.Context, patientID uuid.UUID) ([]*Order, error) {
	return s.orders.History(ctx, patientID)
}

// UploadReport stores a report file for the order, replaces any previous
// report object, and marks the order completed.
func (s *Service) UploadReport(ctx context.Context, orderID uuid.UUID, contentType string, content io.Reader) (*Order, error) {
	if err := blobstore.ValidateContentType(contentType); err != nil {
		return nil, blobstore.Classify("upload lab report", err)
	}
	body, err := blobstore.CheckContent(contentType, content)
	if err != nil {
		return nil, blobstore.Classify("upload lab report", err)
	}
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	mt := blobstore.MediaType(contentType)
	name := fmt.Sprintf("%s-%d%s", orderID, s.now().UnixMilli(), reportExtensions[mt])
	if _, err := s.store.Put(ctx, blobstore.BucketLabReports, name, mt, body); err != nil {
		return nil, blobstore.Classify("upload lab report", err)
	}

	ref := blobstore.PublicURL(s.baseURL, blobstore.BucketLabReports, name)
	if err := s.orders.AttachReport(ctx, orderID, ref); err != nil {
		// Do not leave an unreferenced object behind.
		_ = s.store.Delete(ctx, blobstore.BucketLabReports, name)
		return nil, err
	}
	s.removeReport(ctx, o.ReportURL)

	o.ReportURL = &ref
	o.Status = StatusCompleted
	events.Emit(ctx, s.events, events.New(events.TypeLabReportUploaded, orderID.String(), map[string]interface{}{
		"order_id":   orderID,
		"patient_id": o.PatientID,
		"test_id":    o.TestID,
		"report_url": ref,
	}))
	return o, nil
}

func (s *Service) removeReport(ctx context.Context, ref *string) {
	if ref == nil {
		return
	}
	bucket, name, ok := blobstore.ParsePublicURL(*ref)
	if !ok || bucket != blobstore.BucketLabReports {
		return
	}
	if err := s.store.Delete(ctx, bucket, name); err != nil && !errors.Is(err, blobstore.ErrObjectNotFound) {
		zerolog.Ctx(ctx).Warn().Err(err).Str("object", path.Join(bucket, name)).Msg("remove old lab report")
	}
}
