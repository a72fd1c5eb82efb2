package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestGridAxisOrder(t *testing.T) {
	// Cell [0][0] is pinned to (Lunes, 7:00-8:30): hour block selects
	// the row, day selects the column.
	g := NewGrid()
	if err := g.Reserve("Lunes", "7:00-8:30"); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if g[0][0] != 1 {
		t.Fatalf("expected cell [0][0] reserved, grid=%v", g)
	}

	g = NewGrid()
	if err := g.Reserve("Sabado", "17:30-19:00"); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if g[7][5] != 1 {
		t.Fatalf("expected cell [7][5] reserved, grid=%v", g)
	}
	// A day-major write would have landed on [5][x]; row 5 must be empty.
	for col, cell := range g[5] {
		if cell != 0 {
			t.Fatalf("day-major write detected at [5][%d]", col)
		}
	}
}

func TestGridReserveRelease(t *testing.T) {
	g := NewGrid()
	for day := range Days {
		for hour := range HourBlocks {
			free, err := g.IsAvailable(day, hour)
			if err != nil || !free {
				t.Fatalf("fresh grid not free at (%s,%s): %v", day, hour, err)
			}
			if err := g.Reserve(day, hour); err != nil {
				t.Fatalf("reserve (%s,%s): %v", day, hour, err)
			}
			free, err = g.IsAvailable(day, hour)
			if err != nil || free {
				t.Fatalf("cell still free after reserve (%s,%s)", day, hour)
			}
			if err := g.Release(day, hour); err != nil {
				t.Fatalf("release (%s,%s): %v", day, hour, err)
			}
			free, err = g.IsAvailable(day, hour)
			if err != nil || !free {
				t.Fatalf("cell not free after release (%s,%s)", day, hour)
			}
		}
	}
}

func TestGridReserveConflictAlwaysFails(t *testing.T) {
	g := NewGrid()
	if err := g.Reserve("Martes", "10:00-11:30"); err != nil {
		t.Fatalf("first reserve: %v", err)
	}
	if err := g.Reserve("Martes", "10:00-11:30"); !errors.Is(err, ErrAlreadyReserved) {
		t.Fatalf("expected ErrAlreadyReserved, got %v", err)
	}
	// The cell must remain reserved after the failed attempt.
	if free, _ := g.IsAvailable("Martes", "10:00-11:30"); free {
		t.Fatal("cell freed by failed reserve")
	}
}

func TestGridReleaseIdempotent(t *testing.T) {
	g := NewGrid()
	if err := g.Release("Viernes", "13:00-14:30"); err != nil {
		t.Fatalf("release of free cell must be a no-op, got %v", err)
	}
	if free, _ := g.IsAvailable("Viernes", "13:00-14:30"); !free {
		t.Fatal("cell not free after no-op release")
	}
}

func TestGridInvalidKeys(t *testing.T) {
	g := NewGrid()
	cases := []struct{ day, hour string }{
		{"Domingo", "7:00-8:30"},
		{"Lunes", "7:00-9:00"},
		{"lunes", "7:00-8:30"},
		{"", ""},
	}
	for _, tc := range cases {
		if _, err := g.IsAvailable(tc.day, tc.hour); !errors.Is(err, ErrInvalidSlot) {
			t.Errorf("IsAvailable(%q,%q): expected ErrInvalidSlot, got %v", tc.day, tc.hour, err)
		}
		if err := g.Reserve(tc.day, tc.hour); !errors.Is(err, ErrInvalidSlot) {
			t.Errorf("Reserve(%q,%q): expected ErrInvalidSlot, got %v", tc.day, tc.hour, err)
		}
		if err := g.Release(tc.day, tc.hour); !errors.Is(err, ErrInvalidSlot) {
			t.Errorf("Release(%q,%q): expected ErrInvalidSlot, got %v", tc.day, tc.hour, err)
		}
	}
}

func TestGridFullyBooked(t *testing.T) {
	g := NewGrid()
	if g.IsFullyBooked() {
		t.Fatal("fresh grid reported fully booked")
	}
	for day := range Days {
		for hour := range HourBlocks {
			if err := g.Reserve(day, hour); err != nil {
				t.Fatalf("reserve (%s,%s): %v", day, hour, err)
			}
		}
	}
	if !g.IsFullyBooked() {
		t.Fatal("full grid not reported fully booked")
	}
	if err := g.Release("Jueves", "11:30-13:00"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if g.IsFullyBooked() {
		t.Fatal("grid with one free cell reported fully booked")
	}
}

func TestParseGridShape(t *testing.T) {
	good, _ := json.Marshal(NewGrid())
	if _, err := ParseGrid(good); err != nil {
		t.Fatalf("valid grid rejected: %v", err)
	}

	bad := [][]byte{
		[]byte(`[[0,0,0,0,0],[0,0,0,0,0,0],[0,0,0,0,0,0],[0,0,0,0,0,0],[0,0,0,0,0,0],[0,0,0,0,0,0],[0,0,0,0,0,0],[0,0,0,0,0,0]]`), // one row of 5
		[]byte(`[[0,0,0,0,0,0]]`),    // wrong row count
		[]byte(`[[0,0,0,0,0,2],[0,0,0,0,0,0],[0,0,0,0,0,0],[0,0,0,0,0,0],[0,0,0,0,0,0],[0,0,0,0,0,0],[0,0,0,0,0,0],[0,0,0,0,0,0]]`), // cell out of domain
		[]byte(`{"not":"a grid"}`),
		[]byte(`null`),
	}
	for i, raw := range bad {
		if _, err := ParseGrid(raw); !errors.Is(err, ErrInvalidAvailability) {
			t.Errorf("case %d: expected ErrInvalidAvailability, got %v", i, err)
		}
	}
}
