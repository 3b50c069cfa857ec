package staff

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ridi/hms/internal/platform/apperr"
	"github.com/ridi/hms/internal/platform/db"
)

const entity = "staff member"

type repoPG struct{ q db.Querier }

func NewRepoPG(q db.Querier) Repository { return &repoPG{q: q} }

const staffCols = `id, name, email, mobile, shift, joining_date, address, emergency_contact,
	created_at, updated_at`

func scanMember(row pgx.Row) (*Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Mobile, &m.Shift, &m.JoiningDate, &m.Address,
		&m.EmergencyContact, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Member) error {
	m.ID = uuid.New()
	err := r.q.QueryRow(ctx, `
		INSERT INTO staff (id, name, email, mobile, shift, joining_date, address, emergency_contact)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		m.ID, m.Name, m.Email, m.Mobile, m.Shift, m.JoiningDate, m.Address, m.EmergencyContact,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	return db.Translate(err, "create", entity)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	m, err := scanMember(r.q.QueryRow(ctx, `SELECT `+staffCols+` FROM staff WHERE id = $1`, id))
	if err != nil {
		return nil, db.Translate(err, "get", entity)
	}
	return m, nil
}

func (r *repoPG) Update(ctx context.Context, m *Member) error {
	err := r.q.QueryRow(ctx, `
		UPDATE staff SET name=$2, email=$3, mobile=$4, shift=$5, joining_date=$6,
			address=$7, emergency_contact=$8, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		m.ID, m.Name, m.Email, m.Mobile, m.Shift, m.JoiningDate, m.Address, m.EmergencyContact,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	return db.Translate(err, "update", entity)
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err, "delete", entity)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(entity)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, shift string, limit, offset int) ([]*Member, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1
	if shift != "" {
		where += fmt.Sprintf(" AND shift = $%d", idx)
		args = append(args, shift)
		idx++
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM staff`+where, args...).Scan(&total); err != nil {
		return nil, 0, db.Translate(err, "count", entity)
	}

	sql := `SELECT ` + staffCols + ` FROM staff` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, db.Translate(err, "list", entity)
	}
	defer rows.Close()
	var items []*Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, db.Translate(err, "scan", entity)
		}
		items = append(items, m)
	}
	return items, total, db.Translate(rows.Err(), "list", entity)
}
