package engine

import (
	"math/rand/v2"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
)

// Pos is a grid coordinate, row first.
type Pos struct {
	R, C int
}

// Moore neighbourhood offsets.
var neighbours = [8][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}

// BoardOption customises how a Board places its mines.
type BoardOption func(*Board)

// WithRand draws mines from r instead of a freshly seeded generator.
func WithRand(r *rand.Rand) BoardOption {
	return func(b *Board) {
		b.rng = r
	}
}

// WithMines replaces the random draw with a fixed layout. Positions inside
// the start cell's safe zone or off the grid are ignored.
func WithMines(mines ...Pos) BoardOption {
	return func(b *Board) {
		layout := mapset.New[Pos]()
		for _, p := range mines {
			layout.Put(p)
		}
		b.layout = &layout
	}
}

// Board owns the N×N grid. The grid stays empty until Build.
type Board struct {
	size            int
	mineProbability float64
	grid            [][]Cell
	rng             *rand.Rand
	layout          *mapset.Set[Pos]
}

func NewBoard(size int, mineProbability float64, opts ...BoardOption) *Board {
	b := &Board{
		size:            size,
		mineProbability: mineProbability,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.rng == nil {
		b.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return b
}

func (b *Board) Size() int                { return b.size }
func (b *Board) MineProbability() float64 { return b.mineProbability }
func (b *Board) Built() bool              { return b.grid != nil }

// Valid reports whether (r, c) lies on the board.
func (b *Board) Valid(r, c int) bool {
	return r >= 0 && c >= 0 && r < b.size && c < b.size
}

func (b *Board) around(r, c int, fn func(nr, nc int)) {
	for _, d := range neighbours {
		nr, nc := r+d[0], c+d[1]
		if b.Valid(nr, nc) {
			fn(nr, nc)
		}
	}
}

func safeZone(startRow, startCol int) mapset.Set[Pos] {
	zone := mapset.New[Pos]()
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			zone.Put(Pos{startRow + dr, startCol + dc})
		}
	}
	return zone
}

func (b *Board) drawMine(p Pos) bool {
	if b.layout != nil {
		return b.layout.Has(p)
	}
	return b.rng.Float64() < b.mineProbability
}

// Build creates the grid for a game whose first move is (startRow, startCol).
// No mine is placed in the 3×3 block around that cell. Calling Build again
// discards the previous grid.
func (b *Board) Build(startRow, startCol int) {
	safe := safeZone(startRow, startCol)

	grid := make([][]Cell, b.size)
	mines := 0
	for r := range grid {
		grid[r] = make([]Cell, b.size)
		for c := range grid[r] {
			p := Pos{r, c}
			mine := !safe.Has(p) && b.drawMine(p)
			if mine {
				mines++
			}
			grid[r][c] = newCell(mine)
		}
	}
	b.grid = grid

	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			count := 0
			b.around(r, c, func(nr, nc int) {
				if b.grid[nr][nc].HasMine() {
					count++
				}
			})
			if err := b.grid[r][c].SetAdjacentMines(count); err != nil {
				panic(err)
			}
		}
	}

	log.WithFields(logrus.Fields{
		"size":        b.size,
		"probability": b.mineProbability,
		"mines":       mines,
		"start":       Pos{startRow, startCol},
	}).Debug("board built")
}

// MineCount counts mine cells. It is zero before Build.
func (b *Board) MineCount() int {
	n := 0
	for _, row := range b.grid {
		for _, c := range row {
			if c.HasMine() {
				n++
			}
		}
	}
	return n
}

func (b *Board) cell(r, c int) *Cell {
	if !b.Built() || !b.Valid(r, c) {
		return nil
	}
	return &b.grid[r][c]
}

// Grid returns a read-only view of the current grid.
func (b *Board) Grid() GridView {
	return GridView{grid: b.grid}
}

func (b *Board) String() string {
	var sb strings.Builder
	for _, row := range b.grid {
		for _, c := range row {
			switch {
			case c.HasMine():
				sb.WriteByte('*')
			case c.AdjacentMines() == 0:
				sb.WriteByte('.')
			default:
				sb.WriteByte(byte('0' + c.AdjacentMines()))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// GridView exposes cells by value so callers cannot change the board. A view
// taken before a rebuild keeps showing the discarded grid.
type GridView struct {
	grid [][]Cell
}

func (v GridView) Size() int { return len(v.grid) }

// At returns a copy of the cell at (r, c) and false when off the grid.
func (v GridView) At(r, c int) (Cell, bool) {
	if r < 0 || r >= len(v.grid) || c < 0 || c >= len(v.grid[r]) {
		return Cell{}, false
	}
	return v.grid[r][c], true
}

// Each calls fn for every cell in row-major order.
func (v GridView) Each(fn func(p Pos, c Cell)) {
	for r, row := range v.grid {
		for c, cell := range row {
			fn(Pos{r, c}, cell)
		}
	}
}
