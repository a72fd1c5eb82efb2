package repository

import (
	"context"
	"database/sql"

	"github.com/dfquintero/recreo/internal/model"
)

// ReservationRepo persists reservations and their borrow lines
// (reservation_elements, one row per (reservation, element) pair
// carrying the borrowed amount). All multi-row mutations are Tx
// methods; the booking handlers own the surrounding transaction.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given
// database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// CreateTx inserts a reservation and its borrow lines within tx and
// populates the generated ID.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (user_id, room_id, location, reserved_day, reserved_hour_block, state)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		res.UserID, res.RoomID, res.Location, res.ReservedDay, res.ReservedHourBlock, res.State)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return r.insertLinesTx(ctx, tx, res.ID, res.Lines)
}

func (r *ReservationRepo) insertLinesTx(ctx context.Context, tx *sql.Tx, reservationID uint64, lines []model.BorrowLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `INSERT INTO reservation_elements (reservation_id, element_id, amount) VALUES `
	args := make([]interface{}, 0, len(lines)*3)
	for i, line := range lines {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, reservationID, line.ElementID, line.Amount)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

func scanReservation(ctx context.Context, q rowQuerier, id uint64, lock bool) (*model.Reservation, error) {
	query := `SELECT id, user_id, room_id, location, reserved_day, reserved_hour_block, state,
	                 register_id, created_at, updated_at
	          FROM reservations WHERE id = ?`
	if lock {
		query += ` FOR UPDATE`
	}
	var (
		res        model.Reservation
		roomID     sql.NullInt64
		day, hour  sql.NullString
		registerID sql.NullInt64
	)
	err := q.QueryRowContext(ctx, query, id).Scan(
		&res.ID, &res.UserID, &roomID, &res.Location, &day, &hour, &res.State,
		&registerID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if roomID.Valid {
		v := uint64(roomID.Int64)
		res.RoomID = &v
	}
	if registerID.Valid {
		v := uint64(registerID.Int64)
		res.RegisterID = &v
	}
	res.ReservedDay = day.String
	res.ReservedHourBlock = hour.String

	rows, err := q.QueryContext(ctx,
		`SELECT element_id, amount FROM reservation_elements WHERE reservation_id = ? ORDER BY element_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var line model.BorrowLine
		if err := rows.Scan(&line.ElementID, &line.Amount); err != nil {
			return nil, err
		}
		res.Lines = append(res.Lines, line)
	}
	return &res, rows.Err()
}

// GetByID loads a reservation and its borrow lines.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	return scanReservation(ctx, r.db, id, false)
}

// GetForUpdateTx loads a reservation with a row lock inside tx, so
// two finalize/update/delete requests against the same reservation
// serialize.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	return scanReservation(ctx, tx, id, true)
}

// ListByUser returns a user's reservations, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Reservation, error) {
	return r.list(ctx, `SELECT id FROM reservations WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

// ListAll returns every reservation, newest first. Admin only.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]*model.Reservation, error) {
	return r.list(ctx, `SELECT id FROM reservations ORDER BY created_at DESC, id DESC`)
}

func (r *ReservationRepo) list(ctx context.Context, query string, args ...interface{}) ([]*model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	out := make([]*model.Reservation, 0, len(ids))
	for _, id := range ids {
		res, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

// SaveSlotTx persists room, slot keys, location and state after an
// update moved the reservation.
func (r *ReservationRepo) SaveSlotTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE reservations SET room_id = ?, location = ?, reserved_day = ?, reserved_hour_block = ?, state = ?
		 WHERE id = ?`,
		res.RoomID, res.Location, res.ReservedDay, res.ReservedHourBlock, res.State, res.ID)
	return err
}

// ReplaceLinesTx swaps the borrow lines of a reservation for a new
// set within tx.
func (r *ReservationRepo) ReplaceLinesTx(ctx context.Context, tx *sql.Tx, reservationID uint64, lines []model.BorrowLine) error {
	if err := r.DeleteLinesTx(ctx, tx, reservationID); err != nil {
		return err
	}
	return r.insertLinesTx(ctx, tx, reservationID, lines)
}

// DeleteLinesTx removes all borrow lines of a reservation. Finalize
// calls this when the loan closes.
func (r *ReservationRepo) DeleteLinesTx(ctx context.Context, tx *sql.Tx, reservationID uint64) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM reservation_elements WHERE reservation_id = ?`, reservationID)
	return err
}

// FinalizeTx marks the reservation terminal and links its register.
func (r *ReservationRepo) FinalizeTx(ctx context.Context, tx *sql.Tx, reservationID, registerID uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE reservations SET state = ?, register_id = ? WHERE id = ?`,
		model.StateFinalized, registerID, reservationID)
	return err
}

// DeleteTx removes the reservation record; borrow lines cascade. The
// caller must have credited inventory and released the grid cell
// first, inside the same transaction.
func (r *ReservationRepo) DeleteTx(ctx context.Context, tx *sql.Tx, reservationID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, reservationID)
	return err
}
