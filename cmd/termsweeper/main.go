// termsweeper plays the minefield engine in a terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/04pril/minefield/config"
	"github.com/04pril/minefield/engine"
)

const (
	boardX = 2
	boardY = 2
)

var numberColors = []tcell.Color{
	tcell.ColorDefault,
	tcell.ColorBlue,
	tcell.ColorGreen,
	tcell.ColorRed,
	tcell.ColorNavy,
	tcell.ColorMaroon,
	tcell.ColorTeal,
	tcell.ColorBlack,
	tcell.ColorGray,
}

type ui struct {
	screen  tcell.Screen
	s       *engine.Session
	cfg     *config.Config
	diff    config.Difficulty
	log     *logrus.Logger
	cursorR int
	cursorC int
	buttons tcell.ButtonMask
}

func (u *ui) setDifficulty(i int) {
	if i >= len(u.cfg.Difficulties) {
		return
	}
	d := u.cfg.Difficulties[i]
	if err := u.s.Configure(d.Size, d.MineProbability); err != nil {
		u.log.WithError(err).Warn("difficulty rejected")
		return
	}
	u.diff = d
	u.cursorR, u.cursorC = d.Size/2, d.Size/2
	u.screen.Clear()
}

func (u *ui) move(dr, dc int) {
	n := u.s.Size()
	u.cursorR = (u.cursorR + dr + n) % n
	u.cursorC = (u.cursorC + dc + n) % n
}

// cell occupies two columns so the board looks square.
func (u *ui) cellAt(x, y int) (int, int, bool) {
	r, c := y-boardY, (x-boardX)/2
	if x < boardX || r < 0 || r >= u.s.Size() || c >= u.s.Size() {
		return 0, 0, false
	}
	return r, c, true
}

func (u *ui) drawText(x, y int, s string, style tcell.Style) {
	for i, ch := range s {
		u.screen.SetContent(x+i, y, ch, nil, style)
	}
}

func (u *ui) cellGlyph(c engine.Cell, r, col int) (rune, tcell.Style) {
	style := tcell.StyleDefault
	switch {
	case c.IsMarked():
		if u.s.Lost() && !c.HasMine() {
			return 'x', style.Foreground(tcell.ColorRed)
		}
		return 'F', style.Foreground(tcell.ColorRed).Bold(true)
	case !c.IsRevealed():
		return '#', style.Foreground(tcell.ColorGray)
	case c.HasMine():
		if at, lost := u.s.LostAt(); lost && at == (engine.Pos{R: r, C: col}) {
			return '*', style.Foreground(tcell.ColorWhite).Background(tcell.ColorRed)
		}
		return '*', style.Bold(true)
	case c.AdjacentMines() == 0:
		return '.', style.Foreground(tcell.ColorDarkGray)
	}
	n := c.AdjacentMines()
	return rune('0' + n), style.Foreground(numberColors[n])
}

func (u *ui) draw() {
	u.screen.Clear()

	status := "playing"
	switch u.s.State() {
	case engine.Won:
		status = "YOU WIN!"
	case engine.Lost:
		status = "BOOM!"
	}
	header := fmt.Sprintf("%s %dx%d  flags %d/%d  %s", u.diff.Name, u.s.Size(), u.s.Size(), u.s.FlagsRemaining(), u.s.TotalMines(), status)
	u.drawText(0, 0, header, tcell.StyleDefault.Bold(true))

	view := u.s.Grid()
	for r := 0; r < u.s.Size(); r++ {
		for c := 0; c < u.s.Size(); c++ {
			cell, _ := view.At(r, c)
			ch, style := u.cellGlyph(cell, r, c)
			if r == u.cursorR && c == u.cursorC && !u.s.Over() {
				style = style.Reverse(true)
			}
			u.screen.SetContent(boardX+c*2, boardY+r, ch, nil, style)
		}
	}

	help := "arrows/hjkl move  space reveal  f flag  r restart  1/2/3 difficulty  q quit"
	u.drawText(0, boardY+u.s.Size()+1, help, tcell.StyleDefault.Foreground(tcell.ColorGray))
	u.screen.Show()
}

// handle returns false when the player quits.
func (u *ui) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			u.move(-1, 0)
		case tcell.KeyDown:
			u.move(1, 0)
		case tcell.KeyLeft:
			u.move(0, -1)
		case tcell.KeyRight:
			u.move(0, 1)
		case tcell.KeyEnter:
			u.s.Click(u.cursorR, u.cursorC)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'k':
				u.move(-1, 0)
			case 'j':
				u.move(1, 0)
			case 'h':
				u.move(0, -1)
			case 'l':
				u.move(0, 1)
			case ' ':
				u.s.Click(u.cursorR, u.cursorC)
			case 'f':
				u.s.SecondaryClick(u.cursorR, u.cursorC)
			case 'r':
				u.s.Restart()
			case '1', '2', '3':
				u.setDifficulty(int(ev.Rune() - '1'))
			}
		}
	case *tcell.EventMouse:
		// act on presses only, not drags
		pressed := ev.Buttons() &^ u.buttons
		u.buttons = ev.Buttons()
		x, y := ev.Position()
		r, c, ok := u.cellAt(x, y)
		if !ok {
			break
		}
		u.cursorR, u.cursorC = r, c
		switch {
		case pressed&tcell.Button1 != 0:
			u.s.Click(r, c)
		case pressed&tcell.Button2 != 0:
			u.s.SecondaryClick(r, c)
		}
	case *tcell.EventResize:
		u.screen.Sync()
	}
	return true
}

func run(cfg *config.Config, diff config.Difficulty, log *logrus.Logger) error {
	s, err := engine.NewSession(diff.Size, diff.MineProbability)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	u := &ui{
		screen:  screen,
		s:       s,
		cfg:     cfg,
		diff:    diff,
		log:     log,
		cursorR: diff.Size / 2,
		cursorC: diff.Size / 2,
	}
	for {
		u.draw()
		if !u.handle(screen.PollEvent()) {
			return nil
		}
	}
}

func main() {
	configPath := flag.String("config", "", "path to a YAML settings file")
	difficulty := flag.String("difficulty", "", "difficulty preset to start with")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// the terminal is the screen, so logs only go to a file
	log, err := cfg.Logger(io.Discard)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	engine.SetLogger(log)

	name := cfg.Default
	if *difficulty != "" {
		name = *difficulty
	}
	diff, ok := cfg.Lookup(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown difficulty %q\n", name)
		os.Exit(1)
	}

	if err := run(cfg, diff, log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
