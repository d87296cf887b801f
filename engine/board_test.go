package engine

import (
	"math/rand/v2"
	"testing"
)

func seeded(seed uint64) BoardOption {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func inSafeZone(r, c, sr, sc int) bool {
	return r >= sr-1 && r <= sr+1 && c >= sc-1 && c <= sc+1
}

func TestBoardEmptyUntilBuilt(t *testing.T) {
	b := NewBoard(6, 0.5, seeded(1))
	if b.Built() {
		t.Fatal("new board reports built")
	}
	if b.Grid().Size() != 0 {
		t.Fatalf("grid size before build = %d, want 0", b.Grid().Size())
	}
	if b.MineCount() != 0 {
		t.Fatalf("mine count before build = %d", b.MineCount())
	}

	b.Build(2, 2)
	if !b.Built() || b.Grid().Size() != 6 {
		t.Fatalf("built=%v size=%d", b.Built(), b.Grid().Size())
	}
}

func TestBuildKeepsSafeZoneClear(t *testing.T) {
	for seed := uint64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewPCG(seed, 42))
		size := 1 + rng.IntN(12)
		sr, sc := rng.IntN(size), rng.IntN(size)

		b := NewBoard(size, 0.6, seeded(seed))
		b.Build(sr, sc)

		b.Grid().Each(func(p Pos, c Cell) {
			if inSafeZone(p.R, p.C, sr, sc) && c.HasMine() {
				t.Fatalf("seed %d: mine at %v inside safe zone of (%d,%d)", seed, p, sr, sc)
			}
		})
	}
}

func TestBuildCertainDensity(t *testing.T) {
	b := NewBoard(7, 1.0, seeded(3))
	b.Build(0, 6)

	b.Grid().Each(func(p Pos, c Cell) {
		want := !inSafeZone(p.R, p.C, 0, 6)
		if c.HasMine() != want {
			t.Fatalf("cell %v mine=%v, want %v", p, c.HasMine(), want)
		}
	})
	if got := b.MineCount(); got != 49-4 {
		t.Fatalf("MineCount() = %d, want 45", got)
	}

	empty := NewBoard(7, 0, seeded(3))
	empty.Build(3, 3)
	if empty.MineCount() != 0 {
		t.Fatalf("zero density placed %d mines", empty.MineCount())
	}
}

func TestAdjacencyFixedLayout(t *testing.T) {
	b := NewBoard(4, 0, WithMines(Pos{0, 0}, Pos{0, 1}, Pos{3, 3}))
	b.Build(2, 0)

	want := "" +
		"**1.\n" +
		"221.\n" +
		"..11\n" +
		"..1*\n"
	if got := b.String(); got != want {
		t.Fatalf("board mismatch\ngot:\n%swant:\n%s", got, want)
	}

	// counts under mines are computed too
	if c, _ := b.Grid().At(0, 0); c.AdjacentMines() != 1 {
		t.Errorf("mine at (0,0) adjacent = %d, want 1", c.AdjacentMines())
	}
	if c, _ := b.Grid().At(3, 3); c.AdjacentMines() != 0 {
		t.Errorf("mine at (3,3) adjacent = %d, want 0", c.AdjacentMines())
	}
}

func TestAdjacencyMatchesNeighbours(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		b := NewBoard(9, 0.3, seeded(seed))
		b.Build(4, 4)
		view := b.Grid()

		view.Each(func(p Pos, c Cell) {
			want := 0
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					if n, ok := view.At(p.R+dr, p.C+dc); ok && n.HasMine() {
						want++
					}
				}
			}
			if c.AdjacentMines() != want {
				t.Fatalf("seed %d: cell %v adjacent = %d, want %d", seed, p, c.AdjacentMines(), want)
			}
		})
	}
}

func TestLayoutIgnoresSafeZoneAndOffGrid(t *testing.T) {
	b := NewBoard(5, 0, WithMines(Pos{2, 2}, Pos{1, 3}, Pos{9, 9}, Pos{-1, 0}, Pos{4, 4}))
	b.Build(2, 2)

	if got := b.MineCount(); got != 1 {
		t.Fatalf("MineCount() = %d, want 1", got)
	}
	if c, _ := b.Grid().At(4, 4); !c.HasMine() {
		t.Fatal("expected mine at (4,4)")
	}
}

func TestGridViewIsACopy(t *testing.T) {
	b := NewBoard(3, 0, seeded(1))
	b.Build(1, 1)

	c, ok := b.Grid().At(1, 1)
	if !ok {
		t.Fatal("At(1,1) not found")
	}
	c.Reveal()
	c.Mark()

	if again, _ := b.Grid().At(1, 1); !again.IsHidden() {
		t.Fatalf("mutating a view copy changed the board: %s", again.Status())
	}
	if _, ok := b.Grid().At(3, 0); ok {
		t.Fatal("At(3,0) should be off the grid")
	}
	if _, ok := b.Grid().At(0, -1); ok {
		t.Fatal("At(0,-1) should be off the grid")
	}
}

func TestRebuildStalesOldView(t *testing.T) {
	b := NewBoard(4, 0, seeded(1))
	b.Build(0, 0)
	old := b.Grid()

	b.cell(0, 0).Reveal()
	b.Build(3, 3)

	if c, _ := b.Grid().At(0, 0); !c.IsHidden() {
		t.Fatal("rebuilt grid should start hidden")
	}
	if c, _ := old.At(0, 0); !c.IsRevealed() {
		t.Fatal("old view should keep the discarded grid")
	}
}

func TestValid(t *testing.T) {
	b := NewBoard(3, 0)
	cases := []struct {
		r, c int
		want bool
	}{
		{0, 0, true}, {2, 2, true}, {1, 2, true},
		{-1, 0, false}, {0, -1, false}, {3, 0, false}, {0, 3, false},
	}
	for _, tc := range cases {
		if got := b.Valid(tc.r, tc.c); got != tc.want {
			t.Errorf("Valid(%d,%d) = %v, want %v", tc.r, tc.c, got, tc.want)
		}
	}
}
