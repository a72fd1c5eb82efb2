// Package queue defines message payloads exchanged over the message broker.
package queue

// RegisterLine mirrors a register entry as carried on the wire.
type RegisterLine struct {
	Code   uint64 `json:"code"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Amount int64  `json:"amount"`
}

// ReservationFinalizedEvent is published when an admin finalizes a
// reservation and its register is written. It carries enough context
// for downstream consumers to log or notify without querying the
// primary database.
type ReservationFinalizedEvent struct {
	RegisterID    uint64         `json:"register_id"`
	ReservationID uint64         `json:"reservation_id"`
	UserID        uint64         `json:"user_id"`
	RoomID        uint64         `json:"room_id"`
	Location      string         `json:"location"`
	Day           string         `json:"day"`
	HourBlock     string         `json:"hour_block"`
	Returned      []RegisterLine `json:"returned_elements"`
	Remaining     []RegisterLine `json:"remaining_elements"`
	AdminComment  string         `json:"admin_comment,omitempty"`
	FinalizedAt   string         `json:"finalized_at"`
}
