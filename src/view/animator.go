package view

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/logrusorgru/aurora"
	"golang.org/x/time/rate"

	"gameoflife/src/universe"
)

const (
	aliveGlyph  = "█"
	marginGlyph = "█"
)

//Frame is the part of the universe shown on one animation step
type Frame struct {
	//universe coordinates of the top left cell of the frame
	TopRow  int
	LeftCol int
	Rows    int
	Cols    int
	//frame relative positions of the alive cells
	Cells []universe.Position
	//the frame side lies on the universe border
	AtTop    bool
	AtLeft   bool
	AtBottom bool
	AtRight  bool
}

//Framer chooses the frame for the current universe state
type Framer func(u universe.Universe) Frame

//Animator paints the universe generation after generation
type Animator struct {
	name      string
	framer    Framer
	painter   *Painter
	period    time.Duration
	allMargin bool
	logger    *slog.Logger
}

//NewFullViewAnimator shows the universe from its top left corner to the furthest alive cell
func NewFullViewAnimator(p *Painter, period time.Duration) *Animator {
	return newAnimator("full", FullView, p, period, false)
}

//NewAutoPanAnimator follows the bounding box of the alive cells
func NewAutoPanAnimator(p *Painter, period time.Duration) *Animator {
	return newAnimator("pan", AutoPan, p, period, false)
}

//NewCenterAutoPanAnimator keeps a fixed viewport centered on the mean alive position
func NewCenterAutoPanAnimator(p *Painter, period time.Duration, rows int, cols int) *Animator {
	return newAnimator("center", CenterAutoPan(rows, cols), p, period, true)
}

func newAnimator(name string, f Framer, p *Painter, period time.Duration, allMargin bool) *Animator {
	return &Animator{
		name:      name,
		framer:    f,
		painter:   p,
		period:    period,
		allMargin: allMargin,
		logger:    slog.With("component", "animator", "view", name),
	}
}

//Animate paints the frame and advances the universe, steps times or until ctx is done when steps is 0
//a frame is painted at most once per period, the context cancels the animation
func (a *Animator) Animate(ctx context.Context, u universe.Universe, steps int) error {
	limit := rate.Inf
	if a.period > 0 {
		limit = rate.Every(a.period)
	}
	limiter := rate.NewLimiter(limit, 1)

	a.painter.HideCursor()
	defer a.painter.ShowCursor()

	a.logger.Debug("animation started", "steps", steps, "period", a.period)
	var last Frame
	for i := 0; steps <= 0 || i < steps; i++ {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		last = a.framer(u)
		a.paint(last, i)
		if err := a.painter.Err(); err != nil {
			return fmt.Errorf("paint generation %d: %w", i, err)
		}
		u.Advance()
	}
	a.painter.ShiftCursor(last.Rows+3, 0)
	a.logger.Debug("animation finished", "alive", u.AliveCount())
	return a.painter.Err()
}

func marginColor(atBorder bool) aurora.Color {
	if atBorder {
		return aurora.RedFg
	}
	return aurora.BlueFg
}

func (a *Animator) paint(f Frame, generation int) {
	p := a.painter
	p.Clear()

	//margins are one cell wide around the frame
	for r := 0; r <= f.Rows+1; r++ {
		p.Paint(r, 0, marginGlyph, marginColor(f.AtLeft))
		if a.allMargin {
			p.Paint(r, f.Cols+1, marginGlyph, marginColor(f.AtRight))
		}
	}
	for c := 1; c <= f.Cols; c++ {
		p.Paint(0, c, marginGlyph, marginColor(f.AtTop))
		if a.allMargin {
			p.Paint(f.Rows+1, c, marginGlyph, marginColor(f.AtBottom))
		}
	}

	for _, pos := range f.Cells {
		p.Paint(pos.Row+1, pos.Col+1, aliveGlyph, aurora.GreenFg)
	}

	p.PaintText(f.Rows+2, 0,
		fmt.Sprintf("generation %d alive %d offset %d,%d", generation, len(f.Cells), f.TopRow, f.LeftCol),
		aurora.YellowFg)
}

//FullView frames from 0,0 to the furthest alive row and column
func FullView(u universe.Universe) Frame {
	cells := u.AliveCellsPos()
	f := Frame{AtTop: true, AtLeft: true, Cells: cells}
	for _, p := range cells {
		f.Rows = max(f.Rows, p.Row+1)
		f.Cols = max(f.Cols, p.Col+1)
	}
	f.AtBottom = f.Rows == u.RowCount()
	f.AtRight = f.Cols == u.ColCount()
	return f
}

//AutoPan frames the bounding box of the alive cells
func AutoPan(u universe.Universe) Frame {
	cells := u.AliveCellsPos()
	if len(cells) == 0 {
		return Frame{AtTop: true, AtLeft: true}
	}
	minRow, minCol := cells[0].Row, cells[0].Col
	maxRow, maxCol := minRow, minCol
	for _, p := range cells[1:] {
		minRow, maxRow = min(minRow, p.Row), max(maxRow, p.Row)
		minCol, maxCol = min(minCol, p.Col), max(maxCol, p.Col)
	}
	return Frame{
		TopRow:   minRow,
		LeftCol:  minCol,
		Rows:     maxRow - minRow + 1,
		Cols:     maxCol - minCol + 1,
		Cells:    shift(cells, minRow, minCol, maxRow, maxCol),
		AtTop:    minRow == 0,
		AtLeft:   minCol == 0,
		AtBottom: maxRow == u.RowCount()-1,
		AtRight:  maxCol == u.ColCount()-1,
	}
}

//CenterAutoPan frames a rows x cols viewport centered on the mean alive position
//the viewport is kept inside the universe and shrinks to the universe when it is smaller
func CenterAutoPan(rows int, cols int) Framer {
	return func(u universe.Universe) Frame {
		cells := u.AliveCellsPos()
		vr, vc := min(rows, u.RowCount()), min(cols, u.ColCount())
		var midRow, midCol int
		if len(cells) > 0 {
			var sumRow, sumCol int
			for _, p := range cells {
				sumRow += p.Row
				sumCol += p.Col
			}
			midRow, midCol = sumRow/len(cells), sumCol/len(cells)
		}
		top := clamp(midRow-vr/2, 0, u.RowCount()-vr)
		left := clamp(midCol-vc/2, 0, u.ColCount()-vc)
		bottom, right := top+vr-1, left+vc-1
		return Frame{
			TopRow:   top,
			LeftCol:  left,
			Rows:     vr,
			Cols:     vc,
			Cells:    shift(cells, top, left, bottom, right),
			AtTop:    top == 0,
			AtLeft:   left == 0,
			AtBottom: bottom == u.RowCount()-1,
			AtRight:  right == u.ColCount()-1,
		}
	}
}

//shift keeps the cells inside the box and makes them relative to its corner
func shift(cells []universe.Position, top int, left int, bottom int, right int) []universe.Position {
	res := make([]universe.Position, 0, len(cells))
	for _, p := range cells {
		if p.Row < top || p.Row > bottom || p.Col < left || p.Col > right {
			continue
		}
		res = append(res, universe.Position{Row: p.Row - top, Col: p.Col - left})
	}
	return res
}

func clamp(v int, lo int, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
