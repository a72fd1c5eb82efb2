package model

import (
	"errors"
	"testing"
)

func TestReservationState(t *testing.T) {
	r := Reservation{State: StateActive}
	if r.Finalized() {
		t.Fatal("active reservation reported finalized")
	}
	// State is free text: anything other than FINALIZADA is active.
	r.State = "PENDIENTE"
	if r.Finalized() {
		t.Fatal("free-text state reported finalized")
	}
	r.State = StateFinalized
	if !r.Finalized() {
		t.Fatal("finalized reservation not reported finalized")
	}
}

func TestReservationSlot(t *testing.T) {
	roomID := uint64(3)
	r := Reservation{RoomID: &roomID, ReservedDay: "Lunes", ReservedHourBlock: "7:00-8:30"}
	if !r.HasSlot() {
		t.Fatal("expected HasSlot")
	}
	if !r.SameSlot(3, "Lunes", "7:00-8:30") {
		t.Fatal("expected SameSlot for identical triple")
	}
	if r.SameSlot(4, "Lunes", "7:00-8:30") {
		t.Fatal("different room must not be the same slot")
	}
	if r.SameSlot(3, "Lunes", "8:30-10:00") {
		t.Fatal("different hour must not be the same slot")
	}

	r.RoomID = nil
	if r.HasSlot() {
		t.Fatal("reservation without room reported a slot")
	}
	if r.SameSlot(3, "Lunes", "7:00-8:30") {
		t.Fatal("reservation without room cannot match a slot")
	}
}

func TestValidateSlotKeys(t *testing.T) {
	if err := ValidateSlotKeys("Miércoles", "14:30-16:00"); err != nil {
		t.Fatalf("valid keys rejected: %v", err)
	}
	if err := ValidateSlotKeys("Domingo", "14:30-16:00"); !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("expected ErrInvalidSlot, got %v", err)
	}
	if err := ValidateSlotKeys("Lunes", "19:00-20:30"); !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("expected ErrInvalidSlot, got %v", err)
	}
}

// Scenario from the update flow: a reservation moved onto its own slot
// skips the release/reserve cycle, so it never collides with its own
// cell while the borrow lines are still swapped out.
func TestSameSlotUpdateKeepsCell(t *testing.T) {
	roomID := uint64(1)
	room := testRoom(map[uint64]int64{10: 3})
	res := Reservation{
		RoomID:            &roomID,
		ReservedDay:       "Lunes",
		ReservedHourBlock: "7:00-8:30",
		Lines:             []BorrowLine{{ElementID: 10, Amount: 1}},
	}
	if err := room.Availability.Reserve(res.ReservedDay, res.ReservedHourBlock); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := room.ApplyBorrow(res.Lines); err != nil {
		t.Fatalf("borrow: %v", err)
	}

	if !res.SameSlot(roomID, "Lunes", "7:00-8:30") {
		t.Fatal("expected same-slot detection for unchanged triple")
	}
	// With the grid cycle skipped, only the lines move.
	newLines := []BorrowLine{{ElementID: 10, Amount: 3}}
	room.RevertBorrow(res.Lines)
	if err := room.ApplyBorrow(newLines); err != nil {
		t.Fatalf("swap lines: %v", err)
	}
	if room.Inventory[10] != 0 {
		t.Fatalf("expected inventory 0 after swap, got %d", room.Inventory[10])
	}
	if free, _ := room.Availability.IsAvailable("Lunes", "7:00-8:30"); free {
		t.Fatal("cell lost during same-slot update")
	}

	// A changed hour is a real move and must go through the cycle.
	if res.SameSlot(roomID, "Lunes", "8:30-10:00") {
		t.Fatal("different hour wrongly detected as same slot")
	}
}

// Scenario from the booking flow: reserve + borrow, then the inverse
// on destroy restores the room exactly.
func TestCreateDestroyRoundTrip(t *testing.T) {
	room := testRoom(map[uint64]int64{10: 2})
	lines := []BorrowLine{{ElementID: 10, Amount: 2}}

	if free, _ := room.Availability.IsAvailable("Lunes", "7:00-8:30"); !free {
		t.Fatal("slot not free before create")
	}
	if err := room.Availability.Reserve("Lunes", "7:00-8:30"); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := room.ApplyBorrow(lines); err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if room.Inventory[10] != 0 {
		t.Fatalf("expected inventory 0, got %d", room.Inventory[10])
	}
	if room.Availability[0][0] != 1 {
		t.Fatal("grid cell [0][0] not set")
	}

	// A second create against the same slot fails and changes nothing.
	if err := room.Availability.Reserve("Lunes", "7:00-8:30"); !errors.Is(err, ErrAlreadyReserved) {
		t.Fatalf("expected ErrAlreadyReserved, got %v", err)
	}
	if room.Inventory[10] != 0 {
		t.Fatal("conflicting create touched inventory")
	}

	// Destroy: credit back, release.
	room.RevertBorrow(lines)
	if err := room.Availability.Release("Lunes", "7:00-8:30"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if room.Inventory[10] != 2 {
		t.Fatalf("inventory not restored, got %d", room.Inventory[10])
	}
	if free, _ := room.Availability.IsAvailable("Lunes", "7:00-8:30"); !free {
		t.Fatal("slot not freed by destroy")
	}
}
