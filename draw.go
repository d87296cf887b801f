package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/04pril/minefield/engine"
)

type theme struct {
	Name           string
	BG             color.Color
	Panel          color.Color
	Light          color.Color
	Dark           color.Color
	CellHidden     color.Color
	CellRevealed   color.Color
	CellGrid       color.Color
	CellText       color.Color
	Mine           color.Color
	Flag           color.Color
	WrongFlag      color.Color
	Accent         color.Color
	Overlay        color.Color
	Digit          color.Color
	HeaderText     color.Color
	HeaderTextSoft color.Color
}

var themes = []theme{
	{
		Name:           "Classic",
		BG:             rgb(192, 192, 192),
		Panel:          rgb(192, 192, 192),
		Light:          rgb(255, 255, 255),
		Dark:           rgb(128, 128, 128),
		CellHidden:     rgb(192, 192, 192),
		CellRevealed:   rgb(214, 214, 214),
		CellGrid:       rgb(155, 155, 155),
		CellText:       rgb(15, 15, 15),
		Mine:           rgb(10, 10, 10),
		Flag:           rgb(210, 32, 32),
		WrongFlag:      rgb(180, 0, 0),
		Accent:         rgb(32, 128, 255),
		Overlay:        color.RGBA{0, 0, 0, 120},
		Digit:          rgb(215, 40, 40),
		HeaderText:     rgb(12, 12, 12),
		HeaderTextSoft: rgb(30, 30, 30),
	},
	{
		Name:           "Dark",
		BG:             rgb(34, 36, 42),
		Panel:          rgb(48, 51, 60),
		Light:          rgb(78, 82, 93),
		Dark:           rgb(18, 20, 26),
		CellHidden:     rgb(62, 66, 78),
		CellRevealed:   rgb(86, 90, 102),
		CellGrid:       rgb(30, 33, 41),
		CellText:       rgb(242, 242, 245),
		Mine:           rgb(245, 245, 245),
		Flag:           rgb(255, 88, 88),
		WrongFlag:      rgb(255, 25, 25),
		Accent:         rgb(107, 199, 255),
		Overlay:        color.RGBA{0, 0, 0, 140},
		Digit:          rgb(255, 98, 98),
		HeaderText:     rgb(245, 245, 245),
		HeaderTextSoft: rgb(215, 215, 225),
	},
}

var numberColors = []color.Color{
	color.RGBA{},
	rgb(25, 25, 220),
	rgb(0, 130, 0),
	rgb(210, 20, 20),
	rgb(0, 0, 135),
	rgb(130, 0, 0),
	rgb(0, 128, 128),
	rgb(0, 0, 0),
	rgb(110, 110, 110),
}

func themeIndex(name string) int {
	for i, th := range themes {
		if strings.EqualFold(th.Name, name) {
			return i
		}
	}
	return 0
}

func (g *game) Draw(screen *ebiten.Image) {
	th := themes[g.themeIdx]
	screen.Fill(th.BG)

	windowW, _ := g.Layout(0, 0)

	// top panel (3D frame)
	drawRaisedRect(screen, outerPadding-2, 10, windowW-(outerPadding-2)*2, topPanelHeight-18, th)
	ebitenutil.DrawRect(screen, float64(outerPadding+4), 16, float64(windowW-outerPadding*2-8), 40, th.Panel)

	drawDigital(screen, outerPadding+10, 20, g.s.FlagsRemaining(), 3, th.Digit)
	drawDigital(screen, windowW-outerPadding-10-58, 20, g.s.TotalMines(), 3, th.Digit)

	faceSize := 28
	faceX := windowW/2 - faceSize/2
	faceY := 20
	g.faceRect = image.Rect(faceX, faceY, faceX+faceSize, faceY+faceSize)
	drawRaisedRect(screen, faceX, faceY, faceSize, faceSize, th)
	face := ":)"
	switch g.s.State() {
	case engine.Lost:
		face = "X("
	case engine.Won:
		face = "B)"
	}
	drawTextCentered(screen, face, g.fontMain, faceX, faceY+6, faceSize, th.HeaderText)

	boardX, boardY := outerPadding, topPanelHeight
	n := g.s.Size()
	drawSunkenRect(screen, boardX-2, boardY-2, n*cellSize+4, n*cellSize+4, th)

	view := g.s.Grid()
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			c, _ := view.At(row, col)
			g.drawCell(screen, row, col, c, th)
		}
	}

	info := fmt.Sprintf("%s  [%dx%d/%.0f%%]  Theme:%s", g.diff.Name, n, n, g.s.MineProbability()*100, th.Name)
	text.Draw(screen, info, g.fontMain, outerPadding, 10, th.HeaderTextSoft)

	if g.showHelp {
		lines := []string{
			"N: New game | 1/2/3: Easy/Medium/Hard",
			"C: Custom board | Enter: Apply custom",
			"Left click: Reveal | Right click: Flag",
			"Touch: tap = reveal | long-press = flag",
			"H: Hint | T: Theme",
			"F1: Toggle Help | Click smiley to restart",
		}
		drawOverlayPanel(screen, "HELP", lines, th)
	}
	if g.showCustom {
		g.drawCustomDialog(screen, th)
	}

	switch g.s.State() {
	case engine.Won:
		drawBanner(screen, "YOU WIN!", th)
	case engine.Lost:
		drawBanner(screen, "BOOM!", th)
	}
}

func (g *game) drawCustomDialog(screen *ebiten.Image, th theme) {
	w, h := g.Layout(0, 0)
	pw, ph := min(440, w-40), 210
	px, py := (w-pw)/2, (h-ph)/2
	ebitenutil.DrawRect(screen, 0, 0, float64(w), float64(h), th.Overlay)
	drawSunkenRect(screen, px, py, pw, ph, th)
	ebitenutil.DrawRect(screen, float64(px+6), float64(py+6), float64(pw-12), float64(ph-12), th.Panel)

	text.Draw(screen, "CUSTOM BOARD", g.fontMain, px+16, py+24, th.HeaderText)
	text.Draw(screen, "Left/Right: field  Up/Down: value  Enter: start  Esc: cancel", g.fontMain, px+16, py+44, th.HeaderTextSoft)

	labels := []string{"Size", "Density %"}
	values := []int{g.custom.Size, g.custom.Percent}
	for i := range labels {
		x := px + 24 + i*160
		y := py + 96
		label := labels[i]
		if g.custom.field == i {
			label = "> " + label
		}
		text.Draw(screen, label, g.fontMain, x, y, th.HeaderText)
		text.Draw(screen, fmt.Sprintf("%d", values[i]), g.fontMain, x+18, y+28, th.Accent)
	}

	text.Draw(screen, "Mines are drawn per cell; the count varies per game.", g.fontMain, px+16, py+170, th.HeaderTextSoft)
}

func (g *game) drawCell(screen *ebiten.Image, row, col int, c engine.Cell, th theme) {
	px := outerPadding + col*cellSize
	py := topPanelHeight + row*cellSize

	if c.IsRevealed() {
		ebitenutil.DrawRect(screen, float64(px), float64(py), cellSize, cellSize, th.CellRevealed)
		vector.StrokeRect(screen, float32(px), float32(py), cellSize, cellSize, 1, th.CellGrid, false)

		if c.HasMine() {
			mineColor := th.Mine
			if at, lost := g.s.LostAt(); lost && at == (engine.Pos{R: row, C: col}) {
				ebitenutil.DrawRect(screen, float64(px), float64(py), cellSize, cellSize, color.RGBA{210, 40, 40, 255})
				mineColor = color.RGBA{0, 0, 0, 255}
			}
			vector.DrawFilledCircle(screen, float32(px+cellSize/2), float32(py+cellSize/2), 6, mineColor, false)
			return
		}

		if n := c.AdjacentMines(); n > 0 {
			clr := numberColors[n]
			if g.themeIdx == 1 && n == 1 {
				clr = rgb(120, 170, 255)
			}
			drawTextCentered(screen, fmt.Sprintf("%d", n), g.fontMain, px, py+5, cellSize, clr)
		}
		return
	}

	drawRaisedRect(screen, px, py, cellSize, cellSize, th)

	if c.IsMarked() {
		vector.DrawFilledRect(screen, float32(px+11), float32(py+6), 2, 12, th.CellText, false)
		vector.StrokeLine(screen, float32(px+11), float32(py+6), float32(px+5), float32(py+10), 1.5, th.Flag, false)
		vector.StrokeLine(screen, float32(px+5), float32(py+10), float32(px+11), float32(py+14), 1.5, th.Flag, false)
		vector.StrokeLine(screen, float32(px+11), float32(py+6), float32(px+11), float32(py+14), 1.5, th.Flag, false)
		vector.DrawFilledRect(screen, float32(px+8), float32(py+8), 3, 4, th.Flag, false)
		vector.DrawFilledRect(screen, float32(px+7), float32(py+17), 9, 2, th.CellText, false)

		// wrong flag
		if g.s.Lost() && !c.HasMine() {
			vector.StrokeLine(screen, float32(px+4), float32(py+4), float32(px+cellSize-4), float32(py+cellSize-4), 2, th.WrongFlag, false)
			vector.StrokeLine(screen, float32(px+cellSize-4), float32(py+4), float32(px+4), float32(py+cellSize-4), 2, th.WrongFlag, false)
		}
	}

	if g.hint != nil && g.hint.R == row && g.hint.C == col && !g.s.Over() {
		vector.StrokeRect(screen, float32(px+2), float32(py+2), cellSize-4, cellSize-4, 2, th.Accent, false)
	}
}

func drawOverlayPanel(screen *ebiten.Image, title string, lines []string, th theme) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	ebitenutil.DrawRect(screen, 0, 0, float64(w), float64(h), th.Overlay)
	pw := min(560, w-36)
	ph := min(280, h-36)
	px, py := (w-pw)/2, (h-ph)/2
	drawSunkenRect(screen, px, py, pw, ph, th)
	ebitenutil.DrawRect(screen, float64(px+6), float64(py+6), float64(pw-12), float64(ph-12), th.Panel)

	ff := basicfont.Face7x13
	text.Draw(screen, title, ff, px+16, py+24, th.HeaderText)
	y := py + 50
	for _, ln := range lines {
		text.Draw(screen, ln, ff, px+16, y, th.HeaderText)
		y += 20
		if y > py+ph-18 {
			break
		}
	}
}

func drawBanner(screen *ebiten.Image, label string, th theme) {
	w := screen.Bounds().Dx()
	ebitenutil.DrawRect(screen, float64((w-220)/2), 14, 220, 30, th.Overlay)
	drawTextCentered(screen, label, basicfont.Face7x13, (w-220)/2, 22, 220, th.Accent)
}

func drawRaisedRect(screen *ebiten.Image, x, y, w, h int, th theme) {
	ebitenutil.DrawRect(screen, float64(x), float64(y), float64(w), float64(h), th.CellHidden)
	vector.StrokeLine(screen, float32(x), float32(y), float32(x+w), float32(y), 2, th.Light, false)
	vector.StrokeLine(screen, float32(x), float32(y), float32(x), float32(y+h), 2, th.Light, false)
	vector.StrokeLine(screen, float32(x+w), float32(y), float32(x+w), float32(y+h), 2, th.Dark, false)
	vector.StrokeLine(screen, float32(x), float32(y+h), float32(x+w), float32(y+h), 2, th.Dark, false)
}

func drawSunkenRect(screen *ebiten.Image, x, y, w, h int, th theme) {
	ebitenutil.DrawRect(screen, float64(x), float64(y), float64(w), float64(h), th.Panel)
	vector.StrokeLine(screen, float32(x), float32(y), float32(x+w), float32(y), 2, th.Dark, false)
	vector.StrokeLine(screen, float32(x), float32(y), float32(x), float32(y+h), 2, th.Dark, false)
	vector.StrokeLine(screen, float32(x+w), float32(y), float32(x+w), float32(y+h), 2, th.Light, false)
	vector.StrokeLine(screen, float32(x), float32(y+h), float32(x+w), float32(y+h), 2, th.Light, false)
}

func drawTextCentered(screen *ebiten.Image, s string, f font.Face, x, y, w int, clr color.Color) {
	b := text.BoundString(f, s)
	text.Draw(screen, s, f, x+(w-b.Dx())/2, y+13, clr)
}

func drawDigital(screen *ebiten.Image, x, y, value, digits int, clr color.Color) {
	ebitenutil.DrawRect(screen, float64(x-3), float64(y-3), float64(digits*18+6), 28, color.RGBA{20, 20, 20, 255})

	n := value
	neg := n < 0
	if neg {
		n = -n
	}
	if n > int(math.Pow10(digits))-1 {
		n = int(math.Pow10(digits)) - 1
	}

	chars := make([]int, digits)
	for i := digits - 1; i >= 0; i-- {
		chars[i] = n % 10
		n /= 10
	}
	if neg {
		chars[0] = -1 // minus
	}
	for i := 0; i < digits; i++ {
		drawSevenSegDigit(screen, x+i*18, y, chars[i], clr)
	}
}

// segment masks for 0-9, bits a..g from high to low
var sevenSeg = []int{
	0b1111110,
	0b0110000,
	0b1101101,
	0b1111001,
	0b0110011,
	0b1011011,
	0b1011111,
	0b1110000,
	0b1111111,
	0b1111011,
}

func drawSevenSegDigit(screen *ebiten.Image, x, y, d int, clr color.Color) {
	mask := 0
	switch {
	case d >= 0 && d <= 9:
		mask = sevenSeg[d]
	case d == -1:
		mask = 0b0000001
	}

	off := color.RGBA{60, 20, 20, 255}
	seg := func(on bool, rx, ry, rw, rh float64) {
		if on {
			ebitenutil.DrawRect(screen, float64(x)+rx, float64(y)+ry, rw, rh, clr)
		} else {
			ebitenutil.DrawRect(screen, float64(x)+rx, float64(y)+ry, rw, rh, off)
		}
	}

	seg(mask&0b1000000 != 0, 3, 0, 10, 2)  // a
	seg(mask&0b0100000 != 0, 13, 2, 2, 9)  // b
	seg(mask&0b0010000 != 0, 13, 13, 2, 9) // c
	seg(mask&0b0001000 != 0, 3, 22, 10, 2) // d
	seg(mask&0b0000100 != 0, 1, 13, 2, 9)  // e
	seg(mask&0b0000010 != 0, 1, 2, 2, 9)   // f
	seg(mask&0b0000001 != 0, 3, 11, 10, 2) // g
}

func rgb(r, g, b uint8) color.Color {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func pointInRect(x, y int, r image.Rectangle) bool {
	return x >= r.Min.X && x <= r.Max.X && y >= r.Min.Y && y <= r.Max.Y
}
