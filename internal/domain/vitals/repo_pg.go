package vitals

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ridi/hms/internal/platform/apperr"
	"github.com/ridi/hms/internal/platform/db"
)

const entity = "vitals record"

type repoPG struct{ q db.Querier }

func NewRepoPG(q db.Querier) Repository { return &repoPG{q: q} }

const vitalsCols = `id, patient_id, recorded_at, heart_rate, blood_pressure_systolic,
	blood_pressure_diastolic, weight, height, temperature, oxygen_saturation, bmi, notes`

func scanRecord(row pgx.Row) (*Record, error) {
	var r Record
	err := row.Scan(&r.ID, &r.PatientID, &r.RecordedAt, &r.HeartRate, &r.BloodPressureSystolic,
		&r.BloodPressureDiastolic, &r.Weight, &r.Height, &r.Temperature, &r.OxygenSaturation, &r.BMI, &r.Notes)
	return &r, err
}

func (r *repoPG) Create(ctx context.Context, rec *Record) error {
	rec.ID = uuid.New()
	_, err := r.q.Exec(ctx, `
		INSERT INTO patient_health_records (id, patient_id, recorded_at, heart_rate, blood_pressure_systolic,
			blood_pressure_diastolic, weight, height, temperature, oxygen_saturation, bmi, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		rec.ID, rec.PatientID, rec.RecordedAt, rec.HeartRate, rec.BloodPressureSystolic,
		rec.BloodPressureDiastolic, rec.Weight, rec.Height, rec.Temperature, rec.OxygenSaturation, rec.BMI, rec.Notes)
	return db.Translate(err, "create", entity)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	rec, err := scanRecord(r.q.QueryRow(ctx, `SELECT `+vitalsCols+` FROM patient_health_records WHERE id = $1`, id))
	if err != nil {
		return nil, db.Translate(err, "get", entity)
	}
	return rec, nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM patient_health_records WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err, "delete", entity)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(entity)
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Record, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM patient_health_records WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, db.Translate(err, "count", entity)
	}
	items, err := r.query(ctx, `SELECT `+vitalsCols+` FROM patient_health_records
		WHERE patient_id = $1 ORDER BY recorded_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	return items, total, err
}

func (r *repoPG) History(ctx context.Context, patientID uuid.UUID) ([]*Record, error) {
	return r.query(ctx, `SELECT `+vitalsCols+` FROM patient_health_records
		WHERE patient_id = $1 ORDER BY recorded_at DESC`, patientID)
}

func (r *repoPG) query(ctx context.Context, sql string, args ...interface{}) ([]*Record, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.Translate(err, "list", entity)
	}
	defer rows.Close()
	var items []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, db.Translate(err, "scan", entity)
		}
		items = append(items, rec)
	}
	return items, db.Translate(rows.Err(), "list", entity)
}
