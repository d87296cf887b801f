package engine

import (
	"errors"
	"fmt"
)

const (
	minAdjacentMines = 0
	maxAdjacentMines = 8
)

// ErrAdjacentRange reports an adjacency count outside [0,8]. It only ever
// signals a bug in board construction.
var ErrAdjacentRange = errors.New("adjacent mine count out of range")

// Status is the visibility state of a single cell.
type Status uint8

const (
	Hidden Status = iota
	Marked
	Revealed
)

func (s Status) String() string {
	switch s {
	case Hidden:
		return "Hidden"
	case Marked:
		return "Marked"
	case Revealed:
		return "Revealed"
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// transitions[from][to] is true when the move is legal. Revealed is terminal.
var transitions = [3][3]bool{
	Hidden:   {Marked: true, Revealed: true},
	Marked:   {Hidden: true, Revealed: true},
	Revealed: {},
}

// CanTransition reports whether a cell in state from may move to state to.
func CanTransition(from, to Status) bool {
	if from > Revealed || to > Revealed {
		return false
	}
	return transitions[from][to]
}

// Cell is one grid position. The mine flag is fixed when the cell is created.
type Cell struct {
	mine     bool
	adjacent int
	status   Status
}

func newCell(mine bool) Cell {
	return Cell{mine: mine, status: Hidden}
}

func (c Cell) HasMine() bool      { return c.mine }
func (c Cell) AdjacentMines() int { return c.adjacent }
func (c Cell) Status() Status     { return c.status }
func (c Cell) IsHidden() bool     { return c.status == Hidden }
func (c Cell) IsMarked() bool     { return c.status == Marked }
func (c Cell) IsRevealed() bool   { return c.status == Revealed }

// SetAdjacentMines records the number of neighbouring mines.
func (c *Cell) SetAdjacentMines(n int) error {
	if n < minAdjacentMines || n > maxAdjacentMines {
		return fmt.Errorf("%w: got %d, want between %d and %d", ErrAdjacentRange, n, minAdjacentMines, maxAdjacentMines)
	}
	c.adjacent = n
	return nil
}

func (c *Cell) transition(to Status) bool {
	if !CanTransition(c.status, to) {
		return false
	}
	c.status = to
	return true
}

// Mark flags a hidden cell. It reports whether the cell changed.
func (c *Cell) Mark() bool {
	return c.transition(Marked)
}

// Unmark clears a flag. It reports whether the cell changed.
func (c *Cell) Unmark() bool {
	return c.transition(Hidden)
}

// Reveal uncovers the cell whether or not it is marked. Ordinary play must
// refuse marked cells before calling it.
func (c *Cell) Reveal() bool {
	return c.transition(Revealed)
}

func (c Cell) String() string {
	sym := "+"
	if c.mine {
		sym = "*"
	}
	return fmt.Sprintf("(%s %d)", sym, c.adjacent)
}
