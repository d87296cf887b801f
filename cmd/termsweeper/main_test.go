package main

import (
	"io"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/04pril/minefield/config"
	"github.com/04pril/minefield/engine"
)

func newTestUI(t *testing.T, size int, p float64) *ui {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	screen.SetSize(80, 40)
	t.Cleanup(screen.Fini)

	s, err := engine.NewSession(size, p)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	engine.SetLogger(log)

	cfg := config.Default()
	return &ui{screen: screen, s: s, cfg: cfg, diff: cfg.Difficulties[0], log: log}
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestKeyboardPlay(t *testing.T) {
	u := newTestUI(t, 6, 0)
	u.cursorR, u.cursorC = 3, 3

	u.handle(key('l'))
	u.handle(key('j'))
	if u.cursorR != 4 || u.cursorC != 4 {
		t.Fatalf("cursor at (%d,%d), want (4,4)", u.cursorR, u.cursorC)
	}

	u.handle(key(' '))
	if !u.s.Won() {
		t.Fatalf("empty board should be won by one reveal, state %s", u.s.State())
	}

	u.handle(key('r'))
	if u.s.Started() {
		t.Fatal("restart should reset the session")
	}
	if u.handle(key('q')) {
		t.Fatal("q should quit")
	}
}

func TestCursorWraps(t *testing.T) {
	u := newTestUI(t, 4, 0)
	u.handle(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
	u.handle(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	if u.cursorR != 3 || u.cursorC != 3 {
		t.Fatalf("cursor at (%d,%d), want (3,3)", u.cursorR, u.cursorC)
	}
}

func TestMouseFlagsOnPressOnly(t *testing.T) {
	u := newTestUI(t, 8, 1)
	u.s.HandleFirstClick(0, 0)

	x, y := boardX+2*5, boardY+5
	u.handle(tcell.NewEventMouse(x, y, tcell.Button2, tcell.ModNone))
	u.handle(tcell.NewEventMouse(x, y, tcell.Button2, tcell.ModNone))
	if !u.s.IsMarked(5, 5) {
		t.Fatal("right press should flag the cell once")
	}
	u.handle(tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone))
	u.handle(tcell.NewEventMouse(x, y, tcell.Button2, tcell.ModNone))
	if u.s.IsMarked(5, 5) {
		t.Fatal("second press should unflag the cell")
	}
	if u.cursorR != 5 || u.cursorC != 5 {
		t.Fatalf("cursor at (%d,%d), want (5,5)", u.cursorR, u.cursorC)
	}
}

func TestCellAt(t *testing.T) {
	u := newTestUI(t, 5, 0)
	if r, c, ok := u.cellAt(boardX+2*3+1, boardY+4); !ok || r != 4 || c != 3 {
		t.Fatalf("cellAt = (%d,%d,%v)", r, c, ok)
	}
	if _, _, ok := u.cellAt(0, boardY); ok {
		t.Fatal("left margin is not a cell")
	}
	if _, _, ok := u.cellAt(boardX, boardY+5); ok {
		t.Fatal("row below the board is not a cell")
	}
}

func TestDrawShowsBoard(t *testing.T) {
	u := newTestUI(t, 3, 0)
	u.draw()
	if ch, _, _, _ := u.screen.GetContent(boardX, boardY); ch != '#' {
		t.Fatalf("hidden cell drawn as %q", ch)
	}

	u.s.Click(1, 1)
	u.draw()
	if ch, _, _, _ := u.screen.GetContent(boardX+2, boardY+1); ch != '.' {
		t.Fatalf("empty revealed cell drawn as %q", ch)
	}
}

func TestSetDifficulty(t *testing.T) {
	u := newTestUI(t, 5, 0)
	u.handle(key('3'))
	if u.s.Size() != 18 || u.diff.Name != "Hard" {
		t.Fatalf("size %d diff %s", u.s.Size(), u.diff.Name)
	}
	if u.cursorR != 9 || u.cursorC != 9 {
		t.Fatalf("cursor not centred: (%d,%d)", u.cursorR, u.cursorC)
	}
}
