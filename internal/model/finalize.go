package model

// Return statuses accepted by finalize. NOT_RETURNED marks the item
// as lost: its amount is excluded from the inventory credit and the
// entry lands in the register's remaining list.
const (
	StatusReturnedGood    = "RETURNED_GOOD"
	StatusReturnedDamaged = "RETURNED_DAMAGED"
	StatusNotReturned     = "NOT_RETURNED"
)

// ReturnEntry is one row of a finalize request: what happened to the
// borrowed units of a single element.
type ReturnEntry struct {
	ElementID uint64 `json:"element_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

// FinalizePlan is the outcome of validating a finalize request against
// a reservation's borrow lines. Credits lists the amounts to put back
// into the room inventory; Returned and Remaining are the register
// classification.
type FinalizePlan struct {
	Returned  []RegisterLine
	Remaining []RegisterLine
	Credits   []BorrowLine
}

// PlanFinalize validates a return list against the original borrow
// lines and builds the finalize plan. There is no partial finalize:
// every borrowed element must appear exactly once and its returned
// amount must equal the borrowed amount, otherwise the whole request
// is rejected before anything mutates. The elements map supplies the
// catalog snapshot for register lines and must cover every entry.
func PlanFinalize(lines []BorrowLine, elements map[uint64]Element, entries []ReturnEntry) (*FinalizePlan, error) {
	borrowed := make(map[uint64]int64, len(lines))
	for _, line := range lines {
		borrowed[line.ElementID] = line.Amount
	}

	// Shape first, amounts second: a request that both repeats an
	// element and gets an amount wrong is rejected for the repeat.
	seen := make(map[uint64]struct{}, len(entries))
	for _, entry := range entries {
		if _, dup := seen[entry.ElementID]; dup {
			return nil, ErrDuplicateElement
		}
		seen[entry.ElementID] = struct{}{}

		switch entry.Status {
		case StatusReturnedGood, StatusReturnedDamaged, StatusNotReturned:
		default:
			return nil, ErrInvalidReturnStatus
		}
	}
	for _, entry := range entries {
		want, ok := borrowed[entry.ElementID]
		if !ok || entry.Amount != want {
			// Entries for elements that were never borrowed count as an
			// amount mismatch (0 borrowed vs. >0 returned).
			return nil, ErrAmountMismatch
		}
	}
	for id := range borrowed {
		if _, ok := seen[id]; !ok {
			return nil, ErrMissingElement
		}
	}

	plan := &FinalizePlan{}
	for _, entry := range entries {
		el, ok := elements[entry.ElementID]
		if !ok {
			return nil, ErrMissingElement
		}
		line := RegisterLine{
			Code:   el.ID,
			Name:   el.Name,
			Status: entry.Status,
			Amount: entry.Amount,
		}
		if entry.Status == StatusNotReturned {
			plan.Remaining = append(plan.Remaining, line)
			continue
		}
		plan.Returned = append(plan.Returned, line)
		plan.Credits = append(plan.Credits, BorrowLine{ElementID: entry.ElementID, Amount: entry.Amount})
	}
	return plan, nil
}
