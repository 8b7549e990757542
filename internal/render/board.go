package render

import (
	"fmt"

	"github.com/DoyleJ11/grid-duel/internal/engine"
	"github.com/DoyleJ11/grid-duel/internal/session"
	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"
)

const (
	cellWidth = 2 // terminal cells per board column, keeps tiles roughly square
	cells     = engine.MaxCoord + 1
	originX   = 1
	originY   = 1
)

var (
	tileLight = termbox.ColorWhite
	tileDark  = termbox.ColorGreen
	colorSelf = termbox.ColorBlue
	colorFoe  = termbox.ColorRed
)

// Canvas is the slice of termbox the board needs.
type Canvas interface {
	SetCell(x, y int, ch rune, fg, bg termbox.Attribute)
}

type termboxCanvas struct{}

func (termboxCanvas) SetCell(x, y int, ch rune, fg, bg termbox.Attribute) {
	termbox.SetCell(x, y, ch, fg, bg)
}

type Screen struct {
	canvas Canvas
}

func Open() (*Screen, error) {
	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc)
	return &Screen{canvas: termboxCanvas{}}, nil
}

func (s *Screen) Close() {
	termbox.Close()
}

func (s *Screen) Draw(v session.View) error {
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return err
	}
	DrawBoard(s.canvas, v)
	return termbox.Flush()
}

// DrawBoard paints the tiles, then the local token, then the opponent on top.
func DrawBoard(c Canvas, v session.View) {
	for row := 0; row < cells; row++ {
		for col := 0; col < cells; col++ {
			bg := tileLight
			if (row+col)%2 == 1 {
				bg = tileDark
			}
			fillTile(c, col, row, bg)
		}
	}

	fillTile(c, int(v.Player.Col), int(v.Player.Row), colorSelf)
	fillTile(c, int(v.Opponent.Col), int(v.Opponent.Row), colorFoe)

	printText(c, originX, originY+cells+1, StatusLine(v), termbox.ColorDefault, termbox.ColorDefault)
	printText(c, originX, originY+cells+2, "arrows/wasd move, q quits", termbox.ColorDefault, termbox.ColorDefault)
}

func StatusLine(v session.View) string {
	turn := "your turn"
	if v.Phase == engine.PhaseWaiting {
		turn = "waiting for opponent"
	}
	return fmt.Sprintf("%s | %s | you %v | opponent %v | moves %d", v.Role, turn, v.Player, v.Opponent, v.Moves)
}

func fillTile(c Canvas, col, row int, bg termbox.Attribute) {
	x := originX + col*cellWidth
	y := originY + row
	for i := 0; i < cellWidth; i++ {
		c.SetCell(x+i, y, ' ', termbox.ColorDefault, bg)
	}
}

func printText(c Canvas, x, y int, text string, fg, bg termbox.Attribute) {
	for _, r := range text {
		c.SetCell(x, y, r, fg, bg)
		x += runewidth.RuneWidth(r)
	}
}
