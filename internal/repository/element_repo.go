package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dfquintero/recreo/internal/model"
)

// ElementRepo provides CRUD access to the recreative element catalog.
// The catalog quantity is the institution-wide total and is never
// touched by room-level debits or credits.
type ElementRepo struct {
	db *sql.DB
}

// NewElementRepo returns an ElementRepo bound to the given database.
func NewElementRepo(db *sql.DB) *ElementRepo { return &ElementRepo{db: db} }

// Create inserts a catalog element and populates its generated ID.
func (r *ElementRepo) Create(ctx context.Context, el *model.Element) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO recreative_elements (name, quantity) VALUES (?, ?)`,
		el.Name, el.Quantity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	el.ID = uint64(id)
	return nil
}

// GetByID fetches one element. sql.ErrNoRows is returned untouched so
// callers can map it to a 404.
func (r *ElementRepo) GetByID(ctx context.Context, id uint64) (*model.Element, error) {
	var el model.Element
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, quantity, created_at, updated_at FROM recreative_elements WHERE id = ?`,
		id).Scan(&el.ID, &el.Name, &el.Quantity, &el.CreatedAt, &el.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &el, nil
}

// List returns the whole catalog ordered by name, matching the
// ordering the admin UI expects.
func (r *ElementRepo) List(ctx context.Context) ([]model.Element, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, quantity, created_at, updated_at FROM recreative_elements ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	elements := make([]model.Element, 0)
	for rows.Next() {
		var el model.Element
		if err := rows.Scan(&el.ID, &el.Name, &el.Quantity, &el.CreatedAt, &el.UpdatedAt); err != nil {
			return nil, err
		}
		elements = append(elements, el)
	}
	return elements, rows.Err()
}

// Update overwrites name and quantity of an existing element.
func (r *ElementRepo) Update(ctx context.Context, el *model.Element) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recreative_elements SET name = ?, quantity = ? WHERE id = ?`,
		el.Name, el.Quantity, el.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is 0 both for a missing row and for a no-change
		// update; distinguish with an existence probe.
		var one int
		if err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM recreative_elements WHERE id = ?`, el.ID).Scan(&one); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an element unless a room inventory row or a borrow
// line still references it, in which case ErrConflict is returned.
func (r *ElementRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	err := r.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM room_elements WHERE element_id = ?) +
		        (SELECT COUNT(*) FROM reservation_elements WHERE element_id = ?)`,
		id, id).Scan(&refs)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM recreative_elements WHERE id = ?`, id)
	if err != nil {
		// The count check races with concurrent inserts; the FK still
		// protects us, so translate the constraint error as well.
		if strings.Contains(err.Error(), "1451") {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetByIDsTx loads a set of elements inside a transaction, keyed by
// id. Finalize uses this for its catalog snapshot. Missing ids are
// simply absent from the map.
func (r *ElementRepo) GetByIDsTx(ctx context.Context, tx *sql.Tx, ids []uint64) (map[uint64]model.Element, error) {
	out := make(map[uint64]model.Element, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := `SELECT id, name, quantity, created_at, updated_at FROM recreative_elements WHERE id IN (`
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += ")"
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var el model.Element
		if err := rows.Scan(&el.ID, &el.Name, &el.Quantity, &el.CreatedAt, &el.UpdatedAt); err != nil {
			return nil, err
		}
		out[el.ID] = el
	}
	return out, rows.Err()
}

// errIsDup reports whether err is a MySQL duplicate-key violation.
// Shared by repositories that enforce unique columns.
func errIsDup(err error) bool {
	return err != nil && !errors.Is(err, sql.ErrNoRows) &&
		strings.Contains(strings.ToLower(err.Error()), "1062")
}
