package model

import (
	"errors"
	"testing"
)

func testRoom(inv map[uint64]int64) *Room {
	return &Room{
		ID:           1,
		Location:     "Edificio A",
		Capacity:     10,
		Availability: NewGrid(),
		Inventory:    inv,
	}
}

func TestDebitElement(t *testing.T) {
	r := testRoom(map[uint64]int64{10: 2, 20: 5})

	if err := r.DebitElement(10, 2); err != nil {
		t.Fatalf("debit to exactly zero: %v", err)
	}
	if r.Inventory[10] != 0 {
		t.Fatalf("expected 0 left, got %d", r.Inventory[10])
	}
	// Row stays present at zero.
	if _, ok := r.Inventory[10]; !ok {
		t.Fatal("inventory row deleted at zero")
	}

	if err := r.DebitElement(10, 1); !errors.Is(err, ErrInsufficientInventory) {
		t.Fatalf("expected ErrInsufficientInventory, got %v", err)
	}
	if err := r.DebitElement(99, 1); !errors.Is(err, ErrElementNotInRoom) {
		t.Fatalf("expected ErrElementNotInRoom, got %v", err)
	}
}

func TestCreditElementCreatesRow(t *testing.T) {
	r := testRoom(map[uint64]int64{})
	r.CreditElement(7, 3)
	if r.Inventory[7] != 3 {
		t.Fatalf("expected 3, got %d", r.Inventory[7])
	}
	r.CreditElement(7, 2)
	if r.Inventory[7] != 5 {
		t.Fatalf("expected 5, got %d", r.Inventory[7])
	}

	var nilInv Room
	nilInv.CreditElement(1, 1) // must not panic on nil map
	if nilInv.Inventory[1] != 1 {
		t.Fatalf("expected 1, got %d", nilInv.Inventory[1])
	}
}

func TestApplyBorrowAtomicity(t *testing.T) {
	r := testRoom(map[uint64]int64{10: 2, 20: 5})

	// Second line fails: nothing may be debited.
	err := r.ApplyBorrow([]BorrowLine{
		{ElementID: 10, Amount: 1},
		{ElementID: 20, Amount: 6},
	})
	if !errors.Is(err, ErrInsufficientInventory) {
		t.Fatalf("expected ErrInsufficientInventory, got %v", err)
	}
	if r.Inventory[10] != 2 || r.Inventory[20] != 5 {
		t.Fatalf("failed borrow mutated inventory: %v", r.Inventory)
	}

	err = r.ApplyBorrow([]BorrowLine{
		{ElementID: 10, Amount: 1},
		{ElementID: 99, Amount: 1},
	})
	if !errors.Is(err, ErrElementNotInRoom) {
		t.Fatalf("expected ErrElementNotInRoom, got %v", err)
	}
	if r.Inventory[10] != 2 {
		t.Fatalf("failed borrow mutated inventory: %v", r.Inventory)
	}

	err = r.ApplyBorrow([]BorrowLine{
		{ElementID: 10, Amount: 1},
		{ElementID: 10, Amount: 1},
	})
	if !errors.Is(err, ErrDuplicateElement) {
		t.Fatalf("expected ErrDuplicateElement, got %v", err)
	}
}

func TestBorrowRoundTrip(t *testing.T) {
	r := testRoom(map[uint64]int64{10: 2, 20: 5})
	lines := []BorrowLine{{ElementID: 10, Amount: 2}, {ElementID: 20, Amount: 3}}

	if err := r.ApplyBorrow(lines); err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if r.Inventory[10] != 0 || r.Inventory[20] != 2 {
		t.Fatalf("unexpected inventory after borrow: %v", r.Inventory)
	}

	r.RevertBorrow(lines)
	if r.Inventory[10] != 2 || r.Inventory[20] != 5 {
		t.Fatalf("inventory not restored: %v", r.Inventory)
	}
}

func TestElementValidate(t *testing.T) {
	cases := []struct {
		name    string
		element Element
		wantErr bool
	}{
		{"ok", Element{Name: "Balón de fútbol", Quantity: 4}, false},
		{"zero quantity ok", Element{Name: "Ajedrez", Quantity: 0}, false},
		{"blank name", Element{Name: "   ", Quantity: 1}, true},
		{"negative quantity", Element{Name: "Ping pong", Quantity: -1}, true},
	}
	for _, tc := range cases {
		err := tc.element.Validate()
		if tc.wantErr && !errors.Is(err, ErrInvalidElement) {
			t.Errorf("%s: expected ErrInvalidElement, got %v", tc.name, err)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
	}
}
