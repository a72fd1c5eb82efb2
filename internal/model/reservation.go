package model

import "time"

// Reservation states. State is free text for historical reasons; any
// value other than StateFinalized counts as active. StateActive is
// what Create defaults to when the request omits a state.
const (
	StateActive    = "ACTIVA"
	StateFinalized = "FINALIZADA"
)

// BorrowLine is one (element, amount) loan entry of a reservation.
// Lines are owned by the reservation and reference catalog elements
// by id.
type BorrowLine struct {
	ElementID uint64 `json:"element_id"`
	Amount    int64  `json:"amount"`
}

// Reservation binds a user, a room, a weekly slot and the elements
// borrowed for it. RoomID is nullable: the original system allowed a
// reservation to exist before a room was assigned, and a reservation
// without a room holds no grid cell and no inventory.
type Reservation struct {
	ID                uint64       `json:"id"`
	UserID            uint64       `json:"user_id"`
	RoomID            *uint64      `json:"room_id"`
	Location          string       `json:"location"`
	ReservedDay       string       `json:"reserved_day"`
	ReservedHourBlock string       `json:"reserved_hour_block"`
	State             string       `json:"state"`
	RegisterID        *uint64      `json:"register_id"`
	Lines             []BorrowLine `json:"borrowed_elements"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// Finalized reports whether the reservation reached its terminal
// state.
func (r *Reservation) Finalized() bool {
	return r.State == StateFinalized
}

// HasSlot reports whether the reservation currently occupies a grid
// cell, i.e. it has a room and both slot keys set.
func (r *Reservation) HasSlot() bool {
	return r.RoomID != nil && r.ReservedDay != "" && r.ReservedHourBlock != ""
}

// SameSlot reports whether (roomID, day, hour) matches the
// reservation's current slot. Updates use this to skip the grid
// release/reserve cycle, which would otherwise see the reservation's
// own cell as a conflict.
func (r *Reservation) SameSlot(roomID uint64, day, hour string) bool {
	return r.RoomID != nil && *r.RoomID == roomID &&
		r.ReservedDay == day && r.ReservedHourBlock == hour
}

// ValidateSlotKeys checks both slot keys against the fixed lookup
// tables without touching any grid.
func ValidateSlotKeys(day, hour string) error {
	_, _, err := slotIndex(day, hour)
	return err
}
