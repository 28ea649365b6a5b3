package view

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"gameoflife/src/simulation"
	"gameoflife/src/universe"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//ConsoleUI is the interactive terminal viewer
//the field view shows the universe window starting at offRow, offCol, the arrows pan it
type ConsoleUI struct {
	r          *simulation.Runner
	g          *gocui.Gui
	k          []keyBindings
	savePath   string
	template   string
	offRow     int
	offCol     int
	liveFiller string
	deadFiller string
	logger     *slog.Logger
}

var (
	runningStateDescr = map[simulation.RunningState]string{
		simulation.RunningStateManual:   aurora.Colorize("waiting", aurora.BlueFg).String(),
		simulation.RunningStateStep:     "do the step",
		simulation.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		simulation.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}
)

//NewViewTerminal creates the terminal UI
//savePath is used by the save key and may be empty, template is settled at the panned corner by the template key
func NewViewTerminal(savePath string, template string) (*ConsoleUI, error) {
	var err error
	t := ConsoleUI{
		savePath:   savePath,
		template:   template,
		liveFiller: aurora.Green("█").BgBrightGreen().String(),
		deadFiller: "░",
		logger:     slog.With("component", "console_ui"),
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, err
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'n', "N", "Next step", t.cmdNextRound, ""},
		{'r', "R", "Run", t.cmdRun, ""},
		{'s', "S", "Stop", t.cmdStop, ""},
		{'c', "C", "Clear", t.cmdClear, ""},
		{'w', "W", "Settle with random", t.cmdSettleWithRandom, ""},
		{'p', "P", "Save", t.cmdSave, ""},
		{'t', "T", "Settle the template", t.cmdSettleTemplate, ""},
		{gocui.KeyArrowUp, "↑", "Pan", t.pan(-1, 0), ""},
		{gocui.KeyArrowDown, "↓", "Pan", t.pan(1, 0), ""},
		{gocui.KeyArrowLeft, "←", "Pan", t.pan(0, -1), ""},
		{gocui.KeyArrowRight, "→", "Pan", t.pan(0, 1), ""},
		{gocui.MouseLeft, "MOUSE", "Settle the cell", t.cmdMouseClick, "battlefield"},
	}
	t.g.SetManagerFunc(t.layout)

	if err := t.initKeyBindings(t.k); err != nil {
		t.g.Close()
		return nil, err
	}
	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) error {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			return err
		}
	}
	return nil
}

func (t *ConsoleUI) Register(r *simulation.Runner) {
	t.r = r
}

func (t *ConsoleUI) Start() {
	defer t.g.Close()
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		t.logger.Error("UI main loop failed", "error", err)
	}
}

func (t *ConsoleUI) Refresh() {
	t.renderField()
	t.renderConfiguration()
	t.renderStatus()
}

//fieldLines renders the rows x cols window of the alive cells starting at offRow, offCol
//cells outside the universe are left blank
func fieldLines(alive []universe.Position, uRows int, uCols int, offRow int, offCol int, rows int, cols int, live string, dead string) []string {
	visible := make(map[universe.Position]struct{}, len(alive))
	for _, p := range alive {
		visible[p] = struct{}{}
	}
	lines := make([]string, 0, rows)
	for i := 0; i < rows && offRow+i < uRows; i++ {
		var b strings.Builder
		for j := 0; j < cols && offCol+j < uCols; j++ {
			if _, ok := visible[universe.Position{Row: offRow + i, Col: offCol + j}]; ok {
				b.WriteString(live)
			} else {
				b.WriteString(dead)
			}
		}
		lines = append(lines, b.String())
	}
	return lines
}

func (t *ConsoleUI) renderField() {
	alive := t.r.AliveCells()
	uRows, uCols := t.r.Dimensions()
	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View("battlefield")
		if e != nil {
			return e
		}
		//the entire field is redrawing at once
		v.Clear()
		maxW, maxH := v.Size()
		crop := uRows-t.offRow > maxH || uCols-t.offCol > maxW
		lines := fieldLines(alive, uRows, uCols, t.offRow, t.offCol, maxH, maxW, t.liveFiller, t.deadFiller)
		if crop && len(lines) == maxH && maxH > 0 {
			lines[maxH-1] = aurora.Red(fmt.Sprintf("The field size is larger than the viewing area, offset %d,%d", t.offRow, t.offCol)).BgBlack().String()
		}
		_, _ = fmt.Fprint(v, strings.Join(lines, "\n"))
		return nil
	})
}

func (t *ConsoleUI) renderStatus() {
	s := t.r.Status()
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := t.g.View("status"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Step", "%v", s.IterationNum))
			_, _ = fmt.Fprintln(v, t.renderProp("Live Cells", "%v", s.LiveCells))
			_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
			_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
		}
		return nil
	})
}

func (t *ConsoleUI) renderConfiguration() {
	//it needs to call Update when calls from goroutine
	c := t.r.Options()
	rows, cols := t.r.Dimensions()
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := g.View("configuration"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", rows, cols))
			_, _ = fmt.Fprintln(v, t.renderProp("Engine", "%v", c.Engine))
			_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", c.Interval))
			_, _ = fmt.Fprintln(v, t.renderProp("Iterations", "%v steps", c.MaxSteps))
		}
		return nil
	})
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("battlefield")
		return nil

	} else {
		if _, err := t.headerLayout(g, 3, "This is \"The Life\" game simulation"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration()
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus()
	}

	if v, err := g.SetView("battlefield", leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Battle Field"
		v.Frame = true
	}
	t.renderField()

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		if maxX < len(text) {
			return v, fmt.Errorf("terminal width is too small: %v", maxX)
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", (maxX-len(text))/2)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	t.r.Step()
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.r.Run()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.r.Stop()
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.r.Clear()
	return nil
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	t.r.SettleWithRandomData()
	return nil
}

//cmdSave runs aside the UI loop, Save blocks until the control loop writes the file
func (t *ConsoleUI) cmdSave(_ *gocui.View) error {
	if t.savePath == "" {
		t.logger.Warn("No save path configured")
		return nil
	}
	go func() { _ = t.r.Save(t.savePath) }()
	return nil
}

func (t *ConsoleUI) cmdSettleTemplate(_ *gocui.View) error {
	t.r.SettleTemplate(t.template, t.offRow, t.offCol)
	return nil
}

func (t *ConsoleUI) pan(dRow int, dCol int) func(*gocui.View) error {
	return func(_ *gocui.View) error {
		rows, cols := t.r.Dimensions()
		t.offRow = clamp(t.offRow+dRow, 0, rows-1)
		t.offCol = clamp(t.offCol+dCol, 0, cols-1)
		t.renderField()
		return nil
	}
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	t.r.InverseCell(t.offRow+cy, t.offCol+cx)
	return nil
}
