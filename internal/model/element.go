package model

import (
	"strings"
	"time"
)

// Element is a catalog entry for a recreational item (a ball, a chess
// set, a board game). Quantity is the total the institution owns; it
// is intentionally independent from the per-room allocations tracked
// in Room.Inventory, which debit and credit on loan without ever
// writing back here.
type Element struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Quantity  int64     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate rejects blank names and negative quantities.
func (e *Element) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrInvalidElement
	}
	if e.Quantity < 0 {
		return ErrInvalidElement
	}
	return nil
}
