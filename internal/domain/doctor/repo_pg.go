package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ridi/hms/internal/platform/apperr"
	"github.com/ridi/hms/internal/platform/db"
)

const entity = "doctor"

type repoPG struct{ q db.Querier }

func NewRepoPG(q db.Querier) Repository { return &repoPG{q: q} }

const doctorCols = `id, name, email, mobile, specialization, qualification, experience,
	consultation_fee, bio, available_days, created_at, updated_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.Name, &d.Email, &d.Mobile, &d.Specialization, &d.Qualification, &d.Experience,
		&d.ConsultationFee, &d.Bio, &d.AvailableDays, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	err := r.q.QueryRow(ctx, `
		INSERT INTO doctors (id, name, email, mobile, specialization, qualification, experience,
			consultation_fee, bio, available_days)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at`,
		d.ID, d.Name, d.Email, d.Mobile, d.Specialization, d.Qualification, d.Experience,
		d.ConsultationFee, d.Bio, d.AvailableDays,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	return db.Translate(err, "create", entity)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := scanDoctor(r.q.QueryRow(ctx, `SELECT `+doctorCols+` FROM doctors WHERE id = $1`, id))
	if err != nil {
		return nil, db.Translate(err, "get", entity)
	}
	return d, nil
}

func (r *repoPG) Update(ctx context.Context, d *Doctor) error {
	err := r.q.QueryRow(ctx, `
		UPDATE doctors SET name=$2, email=$3, mobile=$4, specialization=$5, qualification=$6,
			experience=$7, consultation_fee=$8, bio=$9, available_days=$10, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		d.ID, d.Name, d.Email, d.Mobile, d.Specialization, d.Qualification,
		d.Experience, d.ConsultationFee, d.Bio, d.AvailableDays,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	return db.Translate(err, "update", entity)
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err, "delete", entity)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(entity)
	}
	return nil
}

func (r *repoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Doctor, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1
	if q := strings.TrimSpace(query); q != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR specialization ILIKE $%d)", idx, idx)
		args = append(args, "%"+q+"%")
		idx++
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM doctors`+where, args...).Scan(&total); err != nil {
		return nil, 0, db.Translate(err, "count", entity)
	}

	sql := `SELECT ` + doctorCols + ` FROM doctors` + where +
		fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, db.Translate(err, "search", entity)
	}
	defer rows.Close()
	var items []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, db.Translate(err, "scan", entity)
		}
		items = append(items, d)
	}
	return items, total, db.Translate(rows.Err(), "search", entity)
}
