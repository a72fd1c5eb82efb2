package repository

import (
	"context"
	"database/sql"

	"github.com/dfquintero/recreo/internal/model"
)

// RoomRepo persists rooms, their availability grid (a JSON column
// holding the 8x6 matrix, exactly as the legacy system stored it) and
// their per-element inventory rows (room_elements, one row per
// (room, element) pair carrying the amount).
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// that span rooms, reservations and registers.
func (r *RoomRepo) DB() *sql.DB { return r.db }

// Create inserts a room and its initial inventory rows in one
// transaction. The room's grid must already be valid; its generated
// ID is populated on return.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	raw, err := room.Availability.MarshalJSONValue()
	if err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO rooms (location, capacity, description, availability) VALUES (?, ?, ?, ?)`,
		room.Location, room.Capacity, room.Description, raw)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)
	for elementID, amount := range room.Inventory {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO room_elements (room_id, element_id, amount) VALUES (?, ?, ?)`,
			room.ID, elementID, amount); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// scanRoom reads one room row plus its inventory using the given
// querier (either *sql.DB or *sql.Tx via the rowQuerier subset).
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func scanRoom(ctx context.Context, q rowQuerier, id uint64, lock bool) (*model.Room, error) {
	query := `SELECT id, location, capacity, description, availability, created_at, updated_at
	          FROM rooms WHERE id = ?`
	if lock {
		query += ` FOR UPDATE`
	}
	var (
		room model.Room
		raw  []byte
	)
	err := q.QueryRowContext(ctx, query, id).Scan(
		&room.ID, &room.Location, &room.Capacity, &room.Description, &raw,
		&room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return nil, err
	}
	room.Availability, err = model.ParseGrid(raw)
	if err != nil {
		return nil, err
	}
	invQuery := `SELECT element_id, amount FROM room_elements WHERE room_id = ?`
	if lock {
		invQuery += ` FOR UPDATE`
	}
	rows, err := q.QueryContext(ctx, invQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	room.Inventory = make(map[uint64]int64)
	for rows.Next() {
		var (
			elementID uint64
			amount    int64
		)
		if err := rows.Scan(&elementID, &amount); err != nil {
			return nil, err
		}
		room.Inventory[elementID] = amount
	}
	return &room, rows.Err()
}

// GetByID loads a room with its grid and inventory, without locking.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	return scanRoom(ctx, r.db, id, false)
}

// GetForUpdateTx loads a room inside tx with SELECT ... FOR UPDATE on
// both the room row and its inventory rows. Every mutating booking
// flow goes through here so concurrent requests against the same room
// serialize instead of interleaving a read-check-then-write race.
func (r *RoomRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Room, error) {
	return scanRoom(ctx, tx, id, true)
}

// List returns all rooms ordered by id. Inventories are loaded per
// room; the fleet is small so the N+1 shape is acceptable here.
func (r *RoomRepo) List(ctx context.Context) ([]*model.Room, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM rooms ORDER BY id ASC`)
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
	rooms := make([]*model.Room, 0, len(ids))
	for _, id := range ids {
		room, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// Update overwrites location, capacity and description. The grid and
// inventory move only through the booking flows.
func (r *RoomRepo) Update(ctx context.Context, room *model.Room) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE rooms SET location = ?, capacity = ?, description = ? WHERE id = ?`,
		room.Location, room.Capacity, room.Description, room.ID)
	return err
}

// SaveAvailabilityTx persists the grid of a previously locked room.
func (r *RoomRepo) SaveAvailabilityTx(ctx context.Context, tx *sql.Tx, room *model.Room) error {
	raw, err := room.Availability.MarshalJSONValue()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `UPDATE rooms SET availability = ? WHERE id = ?`, raw, room.ID)
	return err
}

// SaveInventoryTx upserts every inventory row of a previously locked
// room. Rows that reached zero are kept, not deleted.
func (r *RoomRepo) SaveInventoryTx(ctx context.Context, tx *sql.Tx, room *model.Room) error {
	for elementID, amount := range room.Inventory {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO room_elements (room_id, element_id, amount) VALUES (?, ?, ?)
			 ON DUPLICATE KEY UPDATE amount = VALUES(amount)`,
			room.ID, elementID, amount); err != nil {
			return err
		}
	}
	return nil
}

// UpsertElement sets the absolute inventory amount for one
// (room, element) pair. Used by the admin endpoint that stocks rooms.
func (r *RoomRepo) UpsertElement(ctx context.Context, roomID, elementID uint64, amount int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO room_elements (room_id, element_id, amount) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE amount = VALUES(amount)`,
		roomID, elementID, amount)
	return err
}

// Delete removes a room unless reservations still reference it
// (protected delete). Inventory rows cascade in the schema.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE room_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
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
