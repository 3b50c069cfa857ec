package prescription

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ridi/hms/internal/platform/apperr"
	"github.com/ridi/hms/internal/platform/db"
)

const entity = "prescription"

type repoPG struct{ q db.Querier }

func NewRepoPG(q db.Querier) Repository { return &repoPG{q: q} }

const rxCols = `r.id, r.patient_id, r.doctor_id, r.prescription_date, r.diagnosis, r.symptoms,
	r.medicines, r.notes, r.follow_up_date, COALESCE(p.name, ''), COALESCE(d.name, ''),
	r.created_at, r.updated_at`

const rxFrom = ` FROM prescriptions r
	LEFT JOIN patients p ON p.id = r.patient_id
	LEFT JOIN doctors d ON d.id = r.doctor_id`

func scanPrescription(row pgx.Row) (*Prescription, error) {
	var p Prescription
	err := row.Scan(&p.ID, &p.PatientID, &p.DoctorID, &p.PrescriptionDate, &p.Diagnosis, &p.Symptoms,
		&p.Medicines, &p.Notes, &p.FollowUpDate, &p.PatientName, &p.DoctorName,
		&p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	p.ID = uuid.New()
	err := r.q.QueryRow(ctx, `
		INSERT INTO prescriptions (id, patient_id, doctor_id, prescription_date, diagnosis, symptoms,
			medicines, notes, follow_up_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		p.ID, p.PatientID, p.DoctorID, p.PrescriptionDate, p.Diagnosis, p.Symptoms,
		p.Medicines, p.Notes, p.FollowUpDate,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return db.Translate(err, "create", entity)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	p, err := scanPrescription(r.q.QueryRow(ctx, `SELECT `+rxCols+rxFrom+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, db.Translate(err, "get", entity)
	}
	return p, nil
}

func (r *repoPG) Update(ctx context.Context, p *Prescription) error {
	err := r.q.QueryRow(ctx, `
		UPDATE prescriptions SET patient_id=$2, doctor_id=$3, prescription_date=$4, diagnosis=$5,
			symptoms=$6, medicines=$7, notes=$8, follow_up_date=$9, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		p.ID, p.PatientID, p.DoctorID, p.PrescriptionDate, p.Diagnosis,
		p.Symptoms, p.Medicines, p.Notes, p.FollowUpDate,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return db.Translate(err, "update", entity)
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM prescriptions WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err, "delete", entity)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(entity)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1
	if patientID != uuid.Nil {
		where += fmt.Sprintf(" AND r.patient_id = $%d", idx)
		args = append(args, patientID)
		idx++
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM prescriptions r`+where, args...).Scan(&total); err != nil {
		return nil, 0, db.Translate(err, "count", entity)
	}

	sql := `SELECT ` + rxCols + rxFrom + where +
		fmt.Sprintf(" ORDER BY r.created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, db.Translate(err, "list", entity)
	}
	defer rows.Close()
	var items []*Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, 0, db.Translate(err, "scan", entity)
		}
		items = append(items, p)
	}
	return items, total, db.Translate(rows.Err(), "list", entity)
}
