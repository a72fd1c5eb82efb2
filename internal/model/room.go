package model

import "time"

// Room is a reservable shared space holding recreational elements.
// Availability and Inventory are owned exclusively by the room: the
// grid cells flip on reserve/release and the inventory amounts move
// between the room and its reservations. Inventory maps element id to
// the amount currently held; rows stay at zero rather than being
// deleted so the association with the element survives a full loan.
type Room struct {
	ID           uint64           `json:"id"`
	Location     string           `json:"location"`
	Capacity     int              `json:"capacity"`
	Description  string           `json:"description"`
	Availability Grid             `json:"availability"`
	Inventory    map[uint64]int64 `json:"inventory"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// DebitElement removes amount units of an element from the room. It
// fails with ErrElementNotInRoom when the room holds no row for the
// element and with ErrInsufficientInventory when the row is short; an
// exact debit down to zero is allowed.
func (r *Room) DebitElement(elementID uint64, amount int64) error {
	current, ok := r.Inventory[elementID]
	if !ok {
		return ErrElementNotInRoom
	}
	if current < amount {
		return ErrInsufficientInventory
	}
	r.Inventory[elementID] = current - amount
	return nil
}

// CreditElement returns amount units of an element to the room,
// creating the inventory row when it does not exist. That covers
// returning an element whose row was removed by an admin while the
// loan was open.
func (r *Room) CreditElement(elementID uint64, amount int64) {
	if r.Inventory == nil {
		r.Inventory = make(map[uint64]int64)
	}
	r.Inventory[elementID] += amount
}

// ApplyBorrow validates every borrow line against the inventory before
// debiting any of them, so a failing line leaves the room untouched.
// Duplicate elements across lines are rejected.
func (r *Room) ApplyBorrow(lines []BorrowLine) error {
	seen := make(map[uint64]struct{}, len(lines))
	for _, line := range lines {
		if _, dup := seen[line.ElementID]; dup {
			return ErrDuplicateElement
		}
		seen[line.ElementID] = struct{}{}
		current, ok := r.Inventory[line.ElementID]
		if !ok {
			return ErrElementNotInRoom
		}
		if current < line.Amount {
			return ErrInsufficientInventory
		}
	}
	for _, line := range lines {
		r.Inventory[line.ElementID] -= line.Amount
	}
	return nil
}

// RevertBorrow credits every borrow line back to the room. It is the
// inverse of ApplyBorrow and cannot fail.
func (r *Room) RevertBorrow(lines []BorrowLine) {
	for _, line := range lines {
		r.CreditElement(line.ElementID, line.Amount)
	}
}
