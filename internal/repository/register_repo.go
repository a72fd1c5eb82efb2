package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/dfquintero/recreo/internal/model"
)

// RegisterRepo persists finalize registers. Registers are append-only:
// there is a CreateTx and read methods, nothing else. The returned and
// remaining element lists are stored as JSON columns, mirroring the
// legacy schema.
type RegisterRepo struct {
	db *sql.DB
}

// NewRegisterRepo returns a RegisterRepo bound to the given database.
func NewRegisterRepo(db *sql.DB) *RegisterRepo { return &RegisterRepo{db: db} }

// CreateTx inserts a register within tx and populates its generated
// ID. The reservation FK is protected in the schema (ON DELETE
// RESTRICT), so a registered reservation cannot be removed.
func (r *RegisterRepo) CreateTx(ctx context.Context, tx *sql.Tx, reg *model.Register) error {
	returned, err := marshalLines(reg.Returned)
	if err != nil {
		return err
	}
	remaining, err := marshalLines(reg.Remaining)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO registers (reservation_id, returned_elements, remaining_elements, admin_comment)
		 VALUES (?, ?, ?, ?)`,
		reg.ReservationID, returned, remaining, reg.AdminComment)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	reg.ID = uint64(id)
	return nil
}

// marshalLines encodes a register line list, normalizing nil to [] so
// the JSON column never holds null.
func marshalLines(lines []model.RegisterLine) ([]byte, error) {
	if lines == nil {
		lines = []model.RegisterLine{}
	}
	return json.Marshal(lines)
}

func scanRegister(row *sql.Row) (*model.Register, error) {
	var (
		reg                 model.Register
		returned, remaining []byte
		comment             sql.NullString
	)
	err := row.Scan(&reg.ID, &reg.ReservationID, &returned, &remaining, &comment, &reg.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(returned, &reg.Returned); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(remaining, &reg.Remaining); err != nil {
		return nil, err
	}
	reg.AdminComment = comment.String
	return &reg, nil
}

// GetByID fetches one register.
func (r *RegisterRepo) GetByID(ctx context.Context, id uint64) (*model.Register, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, reservation_id, returned_elements, remaining_elements, admin_comment, created_at
		 FROM registers WHERE id = ?`, id)
	return scanRegister(row)
}

// List returns all registers, newest first.
func (r *RegisterRepo) List(ctx context.Context) ([]*model.Register, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, reservation_id, returned_elements, remaining_elements, admin_comment, created_at
		 FROM registers ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Register, 0)
	for rows.Next() {
		var (
			reg                 model.Register
			returned, remaining []byte
			comment             sql.NullString
		)
		if err := rows.Scan(&reg.ID, &reg.ReservationID, &returned, &remaining, &comment, &reg.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(returned, &reg.Returned); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(remaining, &reg.Remaining); err != nil {
			return nil, err
		}
		reg.AdminComment = comment.String
		out = append(out, &reg)
	}
	return out, rows.Err()
}

// ExistsForReservationTx reports whether a register already references
// the reservation. Destroy uses this to honor the protected FK before
// attempting the delete.
func (r *RegisterRepo) ExistsForReservationTx(ctx context.Context, tx *sql.Tx, reservationID uint64) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registers WHERE reservation_id = ?`, reservationID).Scan(&n)
	return n > 0, err
}
