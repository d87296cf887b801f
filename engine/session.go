package engine

import (
	"errors"
	"fmt"

	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidSize        = errors.New("board size must be at least 1")
	ErrInvalidProbability = errors.New("mine probability must be within [0, 1]")
)

// State is the outcome of a session.
type State uint8

const (
	Playing State = iota
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case Playing:
		return "Playing"
	case Won:
		return "Won"
	case Lost:
		return "Lost"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Session drives one play-through. Every mutation of the board goes through
// its click methods; actions that make no sense in the current state are
// ignored.
type Session struct {
	board     *Board
	boardOpts []BoardOption

	size            int
	mineProbability float64
	totalMines      int
	flagsRemaining  int
	cellsRevealed   int
	nonMineCells    int
	started         bool
	state           State
	lostAt          Pos
}

func NewSession(size int, mineProbability float64, opts ...BoardOption) (*Session, error) {
	s := &Session{boardOpts: opts}
	if err := s.Configure(size, mineProbability); err != nil {
		return nil, err
	}
	return s, nil
}

// Configure sets the board dimensions and mine density and resets the
// session to its pre-start state. The grid is not generated until the
// first click.
func (s *Session) Configure(size int, mineProbability float64) error {
	if size < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	if !(mineProbability >= 0 && mineProbability <= 1) {
		return fmt.Errorf("%w: got %g", ErrInvalidProbability, mineProbability)
	}

	s.size = size
	s.mineProbability = mineProbability
	s.board = NewBoard(size, mineProbability, s.boardOpts...)
	s.totalMines = 0
	s.flagsRemaining = 0
	s.cellsRevealed = 0
	s.nonMineCells = size * size
	s.started = false
	s.state = Playing

	log.WithFields(logrus.Fields{
		"size":        size,
		"probability": mineProbability,
	}).Debug("session configured")
	return nil
}

// Restart begins a new play-through with the current settings.
func (s *Session) Restart() {
	_ = s.Configure(s.size, s.mineProbability)
}

// HandleFirstClick generates the minefield around (row, col). It does
// nothing once the session has started.
func (s *Session) HandleFirstClick(row, col int) {
	if s.started || !s.board.Valid(row, col) {
		return
	}
	s.started = true
	s.board.Build(row, col)
	s.totalMines = s.board.MineCount()
	s.flagsRemaining = s.totalMines
	s.nonMineCells = s.size*s.size - s.totalMines
}

// Click is the primary action for front ends: it starts the game on the
// first call and reveals the cell.
func (s *Session) Click(row, col int) {
	s.HandleFirstClick(row, col)
	s.PrimaryClick(row, col)
}

// PrimaryClick reveals (row, col). A mine loses the game; a cell with no
// neighbouring mines opens its whole empty region.
func (s *Session) PrimaryClick(row, col int) {
	if s.Over() || !s.started {
		return
	}
	c := s.board.cell(row, col)
	if c == nil || c.IsMarked() || c.IsRevealed() {
		return
	}

	c.Reveal()
	if c.HasMine() {
		s.lose(Pos{row, col})
		return
	}
	s.cellsRevealed++

	if c.AdjacentMines() == 0 {
		s.cascade(Pos{row, col})
	}
	if s.cellsRevealed == s.nonMineCells {
		s.win()
	}
}

// cascade opens every safe cell reachable from start through zero cells.
// A revealed cell is never queued twice, so the queue drains.
func (s *Session) cascade(start Pos) {
	var queue deque.Deque[Pos]
	queue.PushBack(start)
	opened := 0

	for queue.Len() != 0 {
		p := queue.PopFront()
		s.board.around(p.R, p.C, func(nr, nc int) {
			n := &s.board.grid[nr][nc]
			if n.IsRevealed() || n.HasMine() {
				return
			}
			if n.Unmark() {
				s.flagsRemaining++
			}
			n.Reveal()
			s.cellsRevealed++
			opened++
			if n.AdjacentMines() == 0 {
				queue.PushBack(Pos{nr, nc})
			}
		})
	}

	log.WithFields(logrus.Fields{
		"start":  start,
		"opened": opened,
	}).Debug("cascade finished")
}

// SecondaryClick toggles the flag on (row, col). Flags are limited to the
// number of mines on the board.
func (s *Session) SecondaryClick(row, col int) {
	if s.Over() {
		return
	}
	c := s.board.cell(row, col)
	if c == nil {
		return
	}

	switch c.Status() {
	case Hidden:
		if s.flagsRemaining > 0 && c.Mark() {
			s.flagsRemaining--
		}
	case Marked:
		if c.Unmark() {
			s.flagsRemaining++
		}
	}
}

func (s *Session) lose(at Pos) {
	s.state = Lost
	s.lostAt = at
	for r := range s.board.grid {
		for c := range s.board.grid[r] {
			if cell := &s.board.grid[r][c]; cell.HasMine() {
				cell.Reveal()
			}
		}
	}
	log.WithFields(logrus.Fields{
		"at":       at,
		"revealed": s.cellsRevealed,
	}).Info("game lost")
}

func (s *Session) win() {
	s.state = Won
	for r := range s.board.grid {
		for c := range s.board.grid[r] {
			s.board.grid[r][c].Reveal()
		}
	}
	log.WithFields(logrus.Fields{
		"size":  s.size,
		"mines": s.totalMines,
	}).Info("game won")
}

// SafeHint picks a random hidden cell without a mine, or false when the
// game has not started, is over, or no such cell is left.
func (s *Session) SafeHint() (Pos, bool) {
	if !s.started || s.Over() {
		return Pos{}, false
	}
	var options []Pos
	s.board.Grid().Each(func(p Pos, c Cell) {
		if c.IsHidden() && !c.HasMine() {
			options = append(options, p)
		}
	})
	if len(options) == 0 {
		return Pos{}, false
	}
	return options[s.board.rng.IntN(len(options))], true
}

func (s *Session) at(row, col int) Cell {
	c, _ := s.board.Grid().At(row, col)
	return c
}

func (s *Session) IsRevealed(row, col int) bool { return s.at(row, col).IsRevealed() }
func (s *Session) IsMarked(row, col int) bool   { return s.at(row, col).IsMarked() }
func (s *Session) HasMine(row, col int) bool    { return s.at(row, col).HasMine() }
func (s *Session) AdjacentMines(row, col int) int {
	return s.at(row, col).AdjacentMines()
}

func (s *Session) Size() int                { return s.size }
func (s *Session) MineProbability() float64 { return s.mineProbability }
func (s *Session) TotalMines() int          { return s.totalMines }
func (s *Session) FlagsRemaining() int      { return s.flagsRemaining }
func (s *Session) CellsRevealed() int       { return s.cellsRevealed }
func (s *Session) NonMineCells() int        { return s.nonMineCells }
func (s *Session) Started() bool            { return s.started }
func (s *Session) State() State             { return s.state }
func (s *Session) Over() bool               { return s.state != Playing }
func (s *Session) Won() bool                { return s.state == Won }
func (s *Session) Lost() bool               { return s.state == Lost }

// LostAt returns the mine that ended the game.
func (s *Session) LostAt() (Pos, bool) {
	return s.lostAt, s.state == Lost
}

// MarkedCount is the number of flagged cells on the board.
func (s *Session) MarkedCount() int {
	n := 0
	s.board.Grid().Each(func(_ Pos, c Cell) {
		if c.IsMarked() {
			n++
		}
	})
	return n
}

// Grid returns a read-only view for rendering. It is invalidated by the next
// Configure, Restart or first click.
func (s *Session) Grid() GridView {
	return s.board.Grid()
}
