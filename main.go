package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/04pril/minefield/config"
	"github.com/04pril/minefield/engine"
)

const (
	cellSize          = 24
	outerPadding      = 12
	topPanelHeight    = 68
	touchMoveSlopPx   = 10
	touchLongPressDur = 360 * time.Millisecond
)

type touchStart struct {
	X, Y         int
	LastX, LastY int
	At           time.Time
}

type customConfig struct {
	Size    int
	Percent int
	field   int
}

type game struct {
	s           *engine.Session
	cfg         *config.Config
	diff        config.Difficulty
	log         *logrus.Logger
	themeIdx    int
	showHelp    bool
	showCustom  bool
	custom      customConfig
	hint        *engine.Pos
	faceRect    image.Rectangle
	fontMain    font.Face
	touchStarts map[ebiten.TouchID]touchStart
}

func newGame(cfg *config.Config, diff config.Difficulty, log *logrus.Logger) (*game, error) {
	s, err := engine.NewSession(diff.Size, diff.MineProbability)
	if err != nil {
		return nil, err
	}
	g := &game{
		s:           s,
		cfg:         cfg,
		diff:        diff,
		log:         log,
		themeIdx:    themeIndex(cfg.Theme),
		fontMain:    basicfont.Face7x13,
		touchStarts: map[ebiten.TouchID]touchStart{},
		custom:      customConfig{Size: 24, Percent: 20},
	}
	g.resizeWindow()
	return g, nil
}

func (g *game) reset() {
	g.s.Restart()
	g.hint = nil
}

func (g *game) resizeWindow() {
	w, h := g.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(fmt.Sprintf("Minefield - %s", g.diff.Name))
}

func (g *game) Layout(_, _ int) (int, int) {
	n := g.s.Size()
	return n*cellSize + outerPadding*2, topPanelHeight + n*cellSize + outerPadding*2
}

func (g *game) setDifficulty(d config.Difficulty) {
	if err := g.s.Configure(d.Size, d.MineProbability); err != nil {
		g.log.WithError(err).WithField("difficulty", d.Name).Warn("difficulty rejected")
		return
	}
	g.diff = d
	g.hint = nil
	g.resizeWindow()
	g.log.WithFields(logrus.Fields{
		"difficulty":  d.Name,
		"size":        d.Size,
		"probability": d.MineProbability,
	}).Info("difficulty changed")
}

func (g *game) presetByIndex(i int) {
	if i < len(g.cfg.Difficulties) {
		g.setDifficulty(g.cfg.Difficulties[i])
	}
}

func (g *game) boardPosFromCursor(mx, my int) (int, int, bool) {
	bx0, by0 := outerPadding, topPanelHeight
	if mx < bx0 || my < by0 {
		return 0, 0, false
	}
	col := (mx - bx0) / cellSize
	row := (my - by0) / cellSize
	if row >= g.s.Size() || col >= g.s.Size() {
		return 0, 0, false
	}
	return row, col, true
}

func (g *game) handleRevealAt(mx, my int) {
	if pointInRect(mx, my, g.faceRect) {
		g.reset()
		return
	}
	if g.showHelp {
		g.showHelp = false
		return
	}
	if g.s.Over() {
		return
	}

	row, col, ok := g.boardPosFromCursor(mx, my)
	if !ok {
		return
	}
	g.s.Click(row, col)
	g.hint = nil
}

func (g *game) handleMarkAt(mx, my int) {
	if g.s.Over() || g.showHelp {
		return
	}
	row, col, ok := g.boardPosFromCursor(mx, my)
	if !ok {
		return
	}
	g.s.SecondaryClick(row, col)
	g.hint = nil
}

func (g *game) handleTouchInput() {
	for _, id := range ebiten.TouchIDs() {
		x, y := ebiten.TouchPosition(id)
		st, ok := g.touchStarts[id]
		if !ok {
			g.touchStarts[id] = touchStart{X: x, Y: y, LastX: x, LastY: y, At: time.Now()}
			continue
		}
		st.LastX, st.LastY = x, y
		g.touchStarts[id] = st
	}

	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		g.touchStarts[id] = touchStart{X: x, Y: y, LastX: x, LastY: y, At: time.Now()}
	}

	for _, id := range inpututil.AppendJustReleasedTouchIDs(nil) {
		st, ok := g.touchStarts[id]
		if !ok {
			continue
		}
		delete(g.touchStarts, id)

		if absInt(st.LastX-st.X) > touchMoveSlopPx || absInt(st.LastY-st.Y) > touchMoveSlopPx {
			continue
		}
		if time.Since(st.At) >= touchLongPressDur {
			g.handleMarkAt(st.LastX, st.LastY)
			continue
		}
		g.handleRevealAt(st.LastX, st.LastY)
	}
}

func (g *game) handleGlobalKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.Key1) {
		g.presetByIndex(0)
	}
	if inpututil.IsKeyJustPressed(ebiten.Key2) {
		g.presetByIndex(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.Key3) {
		g.presetByIndex(2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.themeIdx = (g.themeIdx + 1) % len(themes)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.showHelp = !g.showHelp
		if g.showHelp {
			g.showCustom = false
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.showCustom = !g.showCustom
		if g.showCustom {
			g.showHelp = false
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		if p, ok := g.s.SafeHint(); ok {
			g.hint = &p
		}
	}
}

func (g *game) handleCustomDialog() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.showCustom = false
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) || inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		g.custom.field = 1 - g.custom.field
	}

	delta := 0
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		delta = 1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		delta = -1
	}
	if delta != 0 {
		switch g.custom.field {
		case 0:
			g.custom.Size = clamp(g.custom.Size+delta, 1, 40)
		case 1:
			g.custom.Percent = clamp(g.custom.Percent+delta, 0, 100)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.setDifficulty(config.Difficulty{
			Name:            "Custom",
			Size:            g.custom.Size,
			MineProbability: float64(g.custom.Percent) / 100,
		})
		g.showCustom = false
	}
}

func (g *game) Update() error {
	g.handleGlobalKeys()

	if g.showCustom {
		g.handleCustomDialog()
		return nil
	}

	mx, my := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.handleRevealAt(mx, my)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.handleMarkAt(mx, my)
	}

	g.handleTouchInput()
	return nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
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
	log, err := cfg.Logger(os.Stderr)
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
		log.WithField("difficulty", name).Fatal("unknown difficulty")
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	g, err := newGame(cfg, diff, log)
	if err != nil {
		log.WithError(err).Fatal("start game")
	}
	if err := ebiten.RunGame(g); err != nil {
		panic(err)
	}
}
