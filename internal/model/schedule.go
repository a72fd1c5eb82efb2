package model

import "encoding/json"

// The weekly schedule is a fixed matrix of GridRows hour blocks by
// GridCols days. Sunday is excluded by design. Cell values are 0
// (free) or 1 (reserved); the hour block selects the row and the day
// selects the column. That axis order matches the persisted JSON of
// the availability column and must never be flipped.
const (
	GridRows = 8 // hour blocks per day
	GridCols = 6 // days per week (Lunes..Sabado)
)

// HourBlocks maps each reservable hour block to its row index. The
// blocks are contiguous and fixed; they are not configurable.
var HourBlocks = map[string]int{
	"7:00-8:30":   0,
	"8:30-10:00":  1,
	"10:00-11:30": 2,
	"11:30-13:00": 3,
	"13:00-14:30": 4,
	"14:30-16:00": 5,
	"16:00-17:30": 6,
	"17:30-19:00": 7,
}

// Days maps each day name to its column index.
var Days = map[string]int{
	"Lunes":     0,
	"Martes":    1,
	"Miércoles": 2,
	"Jueves":    3,
	"Viernes":   4,
	"Sabado":    5,
}

// Grid is a room's weekly availability matrix. The zero-length Grid is
// not usable; construct one with NewGrid or ParseGrid.
type Grid [][]int

// NewGrid returns a fully free 8x6 grid.
func NewGrid() Grid {
	g := make(Grid, GridRows)
	for i := range g {
		g[i] = make([]int, GridCols)
	}
	return g
}

// ParseGrid decodes the persisted JSON form of a grid and validates
// its shape. Anything other than exactly 8 rows of 6 cells with values
// in {0,1} is rejected with ErrInvalidAvailability.
func ParseGrid(raw []byte) (Grid, error) {
	var g Grid
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, ErrInvalidAvailability
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// MarshalJSONValue encodes the grid for persistence. Validate is not
// re-run; grids produced by this package are well-formed by
// construction.
func (g Grid) MarshalJSONValue() ([]byte, error) {
	return json.Marshal([][]int(g))
}

// Validate checks the 8x6 shape and the {0,1} cell domain.
func (g Grid) Validate() error {
	if len(g) != GridRows {
		return ErrInvalidAvailability
	}
	for _, row := range g {
		if len(row) != GridCols {
			return ErrInvalidAvailability
		}
		for _, cell := range row {
			if cell != 0 && cell != 1 {
				return ErrInvalidAvailability
			}
		}
	}
	return nil
}

// slotIndex resolves day/hour keys to matrix coordinates.
func slotIndex(day, hour string) (row, col int, err error) {
	col, okDay := Days[day]
	row, okHour := HourBlocks[hour]
	if !okDay || !okHour {
		return 0, 0, ErrInvalidSlot
	}
	return row, col, nil
}

// IsAvailable reports whether the cell for (day, hour) is free. Bad
// keys fail with ErrInvalidSlot.
func (g Grid) IsAvailable(day, hour string) (bool, error) {
	row, col, err := slotIndex(day, hour)
	if err != nil {
		return false, err
	}
	return g[row][col] == 0, nil
}

// Reserve marks the cell for (day, hour) as occupied. Reserving an
// occupied cell always fails with ErrAlreadyReserved.
func (g Grid) Reserve(day, hour string) error {
	row, col, err := slotIndex(day, hour)
	if err != nil {
		return err
	}
	if g[row][col] == 1 {
		return ErrAlreadyReserved
	}
	g[row][col] = 1
	return nil
}

// Release frees the cell for (day, hour). Releasing a cell that is
// already free is a no-op, not an error.
func (g Grid) Release(day, hour string) error {
	row, col, err := slotIndex(day, hour)
	if err != nil {
		return err
	}
	g[row][col] = 0
	return nil
}

// IsFullyBooked reports whether all 48 slots are occupied.
func (g Grid) IsFullyBooked() bool {
	for _, row := range g {
		for _, cell := range row {
			if cell == 0 {
				return false
			}
		}
	}
	return true
}
