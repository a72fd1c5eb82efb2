package model

import (
	"errors"
	"testing"
)

var finalizeCatalog = map[uint64]Element{
	10: {ID: 10, Name: "Balón de fútbol", Quantity: 8},
	20: {ID: 20, Name: "Ajedrez", Quantity: 3},
}

func TestPlanFinalizeAllReturnedGood(t *testing.T) {
	lines := []BorrowLine{{ElementID: 10, Amount: 2}, {ElementID: 20, Amount: 1}}
	plan, err := PlanFinalize(lines, finalizeCatalog, []ReturnEntry{
		{ElementID: 10, Amount: 2, Status: StatusReturnedGood},
		{ElementID: 20, Amount: 1, Status: StatusReturnedGood},
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(plan.Returned) != 2 || len(plan.Remaining) != 0 {
		t.Fatalf("unexpected classification: returned=%v remaining=%v", plan.Returned, plan.Remaining)
	}
	if len(plan.Credits) != 2 {
		t.Fatalf("expected credits for both elements, got %v", plan.Credits)
	}
	if plan.Returned[0].Name != "Balón de fútbol" || plan.Returned[0].Code != 10 {
		t.Fatalf("catalog snapshot missing: %+v", plan.Returned[0])
	}
}

func TestPlanFinalizeNotReturned(t *testing.T) {
	lines := []BorrowLine{{ElementID: 10, Amount: 2}, {ElementID: 20, Amount: 1}}
	plan, err := PlanFinalize(lines, finalizeCatalog, []ReturnEntry{
		{ElementID: 10, Amount: 2, Status: StatusReturnedDamaged},
		{ElementID: 20, Amount: 1, Status: StatusNotReturned},
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	// The lost element is not credited and lands in remaining.
	if len(plan.Credits) != 1 || plan.Credits[0].ElementID != 10 {
		t.Fatalf("unexpected credits: %v", plan.Credits)
	}
	if len(plan.Remaining) != 1 || plan.Remaining[0].Code != 20 {
		t.Fatalf("unexpected remaining: %v", plan.Remaining)
	}
	if len(plan.Returned) != 1 || plan.Returned[0].Code != 10 {
		t.Fatalf("unexpected returned: %v", plan.Returned)
	}
	if plan.Returned[0].Status != StatusReturnedDamaged {
		t.Fatalf("status not carried: %+v", plan.Returned[0])
	}
}

func TestPlanFinalizeRejections(t *testing.T) {
	lines := []BorrowLine{{ElementID: 10, Amount: 2}, {ElementID: 20, Amount: 1}}

	cases := []struct {
		name    string
		entries []ReturnEntry
		want    error
	}{
		{
			"duplicate element",
			[]ReturnEntry{
				{ElementID: 10, Amount: 1, Status: StatusReturnedGood},
				{ElementID: 10, Amount: 1, Status: StatusNotReturned},
				{ElementID: 20, Amount: 1, Status: StatusReturnedGood},
			},
			ErrDuplicateElement,
		},
		{
			"missing element",
			[]ReturnEntry{{ElementID: 10, Amount: 2, Status: StatusReturnedGood}},
			ErrMissingElement,
		},
		{
			"amount under borrowed",
			[]ReturnEntry{
				{ElementID: 10, Amount: 1, Status: StatusReturnedGood},
				{ElementID: 20, Amount: 1, Status: StatusReturnedGood},
			},
			ErrAmountMismatch,
		},
		{
			"amount over borrowed",
			[]ReturnEntry{
				{ElementID: 10, Amount: 3, Status: StatusReturnedGood},
				{ElementID: 20, Amount: 1, Status: StatusReturnedGood},
			},
			ErrAmountMismatch,
		},
		{
			"element never borrowed",
			[]ReturnEntry{
				{ElementID: 10, Amount: 2, Status: StatusReturnedGood},
				{ElementID: 20, Amount: 1, Status: StatusReturnedGood},
				{ElementID: 99, Amount: 1, Status: StatusReturnedGood},
			},
			ErrAmountMismatch,
		},
		{
			"unknown status",
			[]ReturnEntry{
				{ElementID: 10, Amount: 2, Status: "LOST"},
				{ElementID: 20, Amount: 1, Status: StatusReturnedGood},
			},
			ErrInvalidReturnStatus,
		},
	}
	for _, tc := range cases {
		if _, err := PlanFinalize(lines, finalizeCatalog, tc.entries); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestPlanFinalizeEmptyLoan(t *testing.T) {
	// A reservation without borrow lines finalizes with an empty return
	// list and produces an empty register.
	plan, err := PlanFinalize(nil, finalizeCatalog, nil)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(plan.Returned) != 0 || len(plan.Remaining) != 0 || len(plan.Credits) != 0 {
		t.Fatalf("expected empty plan, got %+v", plan)
	}
}
