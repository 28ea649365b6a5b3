package view

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"
)

const esc = "\x1B["

//Painter writes coloured glyphs at absolute terminal positions
//rows and cols are zero based, (0, 0) is the top left corner
type Painter struct {
	w   io.Writer
	au  aurora.Aurora
	err error
}

//NewPainter creates the painter, colors can be disabled for dumb terminals and logs
func NewPainter(w io.Writer, colors bool) *Painter {
	return &Painter{w: w, au: aurora.NewAurora(colors)}
}

//Err returns the first write error
func (p *Painter) Err() error {
	return p.err
}

func (p *Painter) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *Painter) HideCursor() {
	p.write(esc + "?25l")
}

func (p *Painter) ShowCursor() {
	p.write(esc + "?25h")
}

//Clear erases the screen and moves the cursor home
func (p *Painter) Clear() {
	p.write(esc + "2J" + esc + "H")
}

func (p *Painter) ShiftCursor(row int, col int) {
	p.write(fmt.Sprintf("%s%d;%dH", esc, row+1, col+1))
}

//Paint writes the glyph in color at row, col
func (p *Painter) Paint(row int, col int, glyph string, color aurora.Color) {
	p.ShiftCursor(row, col)
	p.write(p.au.Colorize(glyph, color).String())
}

//PaintText writes the text starting at row, col
func (p *Painter) PaintText(row int, col int, text string, color aurora.Color) {
	p.Paint(row, col, text, color)
}
