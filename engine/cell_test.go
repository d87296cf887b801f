package engine

import (
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	valid := map[Status][]Status{
		Hidden:   {Marked, Revealed},
		Marked:   {Hidden, Revealed},
		Revealed: {},
	}
	all := []Status{Hidden, Marked, Revealed}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, v := range valid[from] {
				if v == to {
					want = true
				}
			}
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}

	if CanTransition(Status(7), Hidden) || CanTransition(Hidden, Status(7)) {
		t.Error("unknown status must not transition")
	}
}

func TestCellMarkUnmark(t *testing.T) {
	c := newCell(false)
	if !c.IsHidden() {
		t.Fatalf("new cell status = %s, want Hidden", c.Status())
	}
	if c.Unmark() {
		t.Error("Unmark on a hidden cell reported a change")
	}
	if !c.Mark() || !c.IsMarked() {
		t.Fatalf("Mark failed, status = %s", c.Status())
	}
	if c.Mark() {
		t.Error("second Mark reported a change")
	}
	if !c.Unmark() || !c.IsHidden() {
		t.Fatalf("Unmark failed, status = %s", c.Status())
	}
}

func TestCellRevealIsTerminal(t *testing.T) {
	c := newCell(true)
	c.Mark()
	if !c.Reveal() {
		t.Fatal("Reveal on a marked cell should be forced through")
	}
	if !c.IsRevealed() || !c.HasMine() {
		t.Fatalf("unexpected cell state %s mine=%v", c.Status(), c.HasMine())
	}
	if c.Mark() || c.Unmark() || c.Reveal() {
		t.Error("revealed cell must ignore every transition")
	}
	if !c.IsRevealed() {
		t.Fatalf("status changed to %s", c.Status())
	}
}

func TestSetAdjacentMines(t *testing.T) {
	c := newCell(false)
	for n := 0; n <= 8; n++ {
		if err := c.SetAdjacentMines(n); err != nil {
			t.Fatalf("SetAdjacentMines(%d): unexpected error: %v", n, err)
		}
		if c.AdjacentMines() != n {
			t.Fatalf("AdjacentMines() = %d, want %d", c.AdjacentMines(), n)
		}
	}

	for _, n := range []int{-1, 9, 100} {
		err := c.SetAdjacentMines(n)
		if !errors.Is(err, ErrAdjacentRange) {
			t.Errorf("SetAdjacentMines(%d) error = %v, want ErrAdjacentRange", n, err)
		}
	}
	if c.AdjacentMines() != 8 {
		t.Errorf("rejected value changed count to %d", c.AdjacentMines())
	}
}

func TestCellString(t *testing.T) {
	mine := newCell(true)
	safe := newCell(false)
	_ = safe.SetAdjacentMines(3)

	if got := mine.String(); got != "(* 0)" {
		t.Errorf("mine.String() = %q", got)
	}
	if got := safe.String(); got != "(+ 3)" {
		t.Errorf("safe.String() = %q", got)
	}
}
