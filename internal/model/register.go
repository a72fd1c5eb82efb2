package model

import "time"

// RegisterLine is one element entry of a register, snapshotted from
// the catalog at finalize time so later catalog edits do not rewrite
// history. Code is the element's catalog id.
type RegisterLine struct {
	Code   uint64 `json:"code"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Amount int64  `json:"amount"`
}

// Register is the append-only completion record written exactly once
// when a reservation is finalized. Returned holds the entries that
// came back (good or damaged); Remaining holds what was never
// returned. Registers are exposed read-only and never mutated.
type Register struct {
	ID            uint64         `json:"id"`
	ReservationID uint64         `json:"reservation_id"`
	Returned      []RegisterLine `json:"returned_elements"`
	Remaining     []RegisterLine `json:"remaining_elements"`
	AdminComment  string         `json:"admin_comment,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}
