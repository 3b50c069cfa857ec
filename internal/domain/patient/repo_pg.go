package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ridi/hms/internal/platform/apperr"
	"github.com/ridi/hms/internal/platform/db"
)

const entity = "patient"

type repoPG struct{ q db.Querier }

func NewRepoPG(q db.Querier) Repository { return &repoPG{q: q} }

const patientCols = `id, name, email, mobile, gender, blood_group, birth_date,
	address, emergency_contact, medical_history, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Mobile, &p.Gender, &p.BloodGroup, &p.BirthDate,
		&p.Address, &p.EmergencyContact, &p.MedicalHistory, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	err := r.q.QueryRow(ctx, `
		INSERT INTO patients (id, name, email, mobile, gender, blood_group, birth_date,
			address, emergency_contact, medical_history)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Email, p.Mobile, p.Gender, p.BloodGroup, p.BirthDate,
		p.Address, p.EmergencyContact, p.MedicalHistory,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return db.Translate(err, "create", entity)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := scanPatient(r.q.QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
	if err != nil {
		return nil, db.Translate(err, "get", entity)
	}
	return p, nil
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	err := r.q.QueryRow(ctx, `
		UPDATE patients SET name=$2, email=$3, mobile=$4, gender=$5, blood_group=$6,
			birth_date=$7, address=$8, emergency_contact=$9, medical_history=$10, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Email, p.Mobile, p.Gender, p.BloodGroup,
		p.BirthDate, p.Address, p.EmergencyContact, p.MedicalHistory,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return db.Translate(err, "update", entity)
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err, "delete", entity)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(entity)
	}
	return nil
}

func (r *repoPG) Search(ctx context.Context, params SearchParams, limit, offset int) ([]*Patient, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if q := strings.TrimSpace(params.Query); q != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR mobile ILIKE $%d)", idx, idx)
		args = append(args, "%"+q+"%")
		idx++
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM patients`+where, args...).Scan(&total); err != nil {
		return nil, 0, db.Translate(err, "count", entity)
	}

	query := `SELECT ` + patientCols + ` FROM patients` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, db.Translate(err, "search", entity)
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, db.Translate(err, "scan", entity)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, db.Translate(err, "search", entity)
	}
	return items, total, nil
}

func (r *repoPG) MobileTaken(ctx context.Context, mobile string, excludeID uuid.UUID) (bool, error) {
	var taken bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patients WHERE mobile = $1 AND id <> $2)`,
		mobile, excludeID,
	).Scan(&taken)
	if err != nil {
		return false, db.Translate(err, "check mobile", entity)
	}
	return taken, nil
}
