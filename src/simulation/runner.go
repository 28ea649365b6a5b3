package simulation

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"gameoflife/src/universe"

	"golang.org/x/time/rate"
)

//Options represents the Runner's configurable options
type Options struct {
	Engine          string
	Interval        time.Duration
	MaxSteps        int
	MaxSkippedTicks int
	RandomArea      int   //random seeding covers at most RandomArea x RandomArea cells from the origin
	Seed            int64 //random seeding seed
	Advanced        map[string]interface{}
}

//Status represents the status of the simulation at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the runner
type Viewer interface {
	Refresh()
	Register(r *Runner)
	Start()
}

//RunningState is the runner status at the concrete moment
type RunningState int

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
	DefMaxSkippedTicks    = 5
	DefRandomArea         = 64
)

const (
	RunningStateManual   RunningState = 0x0
	RunningStateStep     RunningState = 0x1
	RunningStateRun      RunningState = 0x2
	RunningStateFinished RunningState = 0x3
)

var DefaultOptions = Options{
	Interval:        DefSimulationInterval,
	MaxSteps:        DefMaxSteps,
	MaxSkippedTicks: DefMaxSkippedTicks,
	RandomArea:      DefRandomArea,
}

//Runner drives a Universe
//every universe access goes through the control loop or under the universe lock,
//so viewers and the run loop never touch the universe concurrently
type Runner struct {
	options Options
	state   struct {
		Status
		sync.Mutex
	}
	univ struct {
		u universe.Universe
		sync.Mutex
	}
	stateCh   chan Status
	views     []Viewer
	templates map[string]Template
	controlCh chan func()
	closeCh   chan bool
	ctx       context.Context //done when the control loop exits
	cancel    context.CancelFunc
	rng       *rand.Rand
	logger    *slog.Logger
	//runGen identifies the current run loop, a loop exits once it is not the current one
	runGen uint64
	//prev is the alive cells of the last generation, nil when the universe was changed outside step
	prev []universe.Position
}

//NewRunner creates the Runner instance for u and starts its control loop
//stateCh may be nil, otherwise it receives every status change
func NewRunner(u universe.Universe, o *Options, stateCh chan Status) *Runner {
	if o == nil {
		def := DefaultOptions
		o = &def
	}
	r := Runner{
		options:   *o,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan bool, 1),
		stateCh:   stateCh,
		templates: map[string]Template{},
		rng:       NewRand(o.Seed),
		logger:    slog.With("component", "runner", "engine", o.Engine),
	}
	r.options.Advanced = map[string]interface{}{
		"engine": o.Engine,
	}
	for k, v := range o.Advanced {
		r.options.Advanced[k] = v
	}
	r.ctx, r.cancel = context.WithCancel(context.Background())
	r.univ.u = u
	r.state.LiveCells = u.AliveCount()
	for _, tmpl := range Templates {
		r.templates[tmpl.Name] = tmpl
	}
	go r.mainLoop()
	return &r
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (r *Runner) AddTemplate(tmpl Template) {
	r.exec(func() {
		r.templates[tmpl.Name] = tmpl
	})
}

//Settle settles the universe with the cells, positions outside the universe are skipped
func (r *Runner) Settle(cells []universe.Position) {
	r.exec(func() {
		r.settle(cells, 0, 0)
		r.refreshView()
	})
}

//SettleTemplate populates the universe with the seeding template shifted by row, col
func (r *Runner) SettleTemplate(name string, row int, col int) {
	r.exec(func() {
		tmpl, ok := r.templates[name]
		if !ok {
			r.logger.Warn("Unknown template", "template", name)
			return
		}
		r.settle(tmpl.Cells, row, col)
		r.refreshView()
	})
}

//SettleWithRandomData clears the universe and populates it with random data
func (r *Runner) SettleWithRandomData() {
	r.exec(func() {
		mode := r.Status().RunningMode
		if mode != RunningStateManual && mode != RunningStateFinished {
			return
		}
		r.clear()
		rows, cols := r.Dimensions()
		r.settle(RandomCells(r.rng, rows, cols, r.options.RandomArea), 0, 0)
		r.refreshView()
	})
}

//InverseCell inverses the cell state at row, col
func (r *Runner) InverseCell(row int, col int) {
	r.exec(func() {
		r.univ.Lock()
		var err error
		if r.univ.u.IsCellAlive(row, col) {
			err = r.univ.u.MakeCellDead(row, col)
		} else {
			err = r.univ.u.MakeCellAlive(row, col)
		}
		live := r.univ.u.AliveCount()
		r.univ.Unlock()
		r.prev = nil
		if err != nil {
			r.logger.Debug("Cell not inversed", "row", row, "col", col, "error", err)
			return
		}
		r.setLiveCells(live)
		r.refreshView()
	})
}

//Save writes the universe snapshot, blocks until it is written
func (r *Runner) Save(path string) error {
	done := make(chan error, 1)
	r.exec(func() {
		r.univ.Lock()
		err := r.univ.u.Save(path)
		r.univ.Unlock()
		done <- err
	})
	var err error
	select {
	case err = <-done:
	case <-r.ctx.Done():
		err = context.Canceled
	}
	if err != nil {
		r.logger.Error("Failed to save universe", "path", path, "error", err)
	} else {
		r.logger.Info("Universe saved", "path", path)
	}
	return err
}

//RegisterViewer registers the viewer - the runner will call the viewer when the state is changed
func (r *Runner) RegisterViewer(v Viewer) {
	r.views = append(r.views, v)
	v.Register(r)
}

//StateCh returns the channel with the status updates
func (r *Runner) StateCh() chan Status {
	return r.stateCh
}

//Status returns current status represented by Status struct
func (r *Runner) Status() Status {
	r.state.Lock()
	defer r.state.Unlock()
	return r.state.Status
}

//Options returns current configuration represented by Options struct
func (r *Runner) Options() Options {
	return r.options
}

//Dimensions returns the universe rows and cols
func (r *Runner) Dimensions() (rows int, cols int) {
	return r.univ.u.RowCount(), r.univ.u.ColCount()
}

//AliveCells returns the alive positions of the current generation
func (r *Runner) AliveCells() []universe.Position {
	r.univ.Lock()
	defer r.univ.Unlock()
	return r.univ.u.AliveCellsPos()
}

//Run starts the simulation, returns immediately
func (r *Runner) Run() {
	r.exec(r.run)
}

//Stop stops the simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (r *Runner) Stop() {
	r.exec(r.stop)
}

//Step do one simulation step, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (r *Runner) Step() {
	r.exec(r.step)
}

//Clear clears the universe (kill all cells and reset all counters), returns immediately
//the Status struct will be written to the stateCh on finish
func (r *Runner) Clear() {
	r.exec(func() {
		r.clear()
		r.switchRunningState(RunningStateManual)
		r.refreshView()
	})
}

//Close stops the main loop, returns immediately
//commands issued after Close are dropped
func (r *Runner) Close() {
	select {
	case r.closeCh <- true:
	case <-r.ctx.Done():
	}
}

//exec queues the command for the control loop, dropped once the runner is closed
func (r *Runner) exec(cmd func()) {
	select {
	case r.controlCh <- cmd:
	case <-r.ctx.Done():
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (r *Runner) mainLoop() {
	var c = false
	for !c {
		select {
		case cmd := <-r.controlCh:
			cmd()
		case c = <-r.closeCh:
		}
	}
	r.cancel()
	r.logger.Debug("Runner closed", "iterations", r.Status().IterationNum)
}

//settle makes the cells alive shifted by row, col
func (r *Runner) settle(cells []universe.Position, row int, col int) {
	r.univ.Lock()
	skipped := SettleCells(r.univ.u, cells, row, col)
	live := r.univ.u.AliveCount()
	r.univ.Unlock()
	r.prev = nil
	if skipped > 0 {
		r.logger.Debug("Cells outside the universe skipped", "skipped", skipped)
	}
	r.setLiveCells(live)
}

func (r *Runner) setLiveCells(live int) {
	r.state.Lock()
	r.state.LiveCells = live
	r.state.Unlock()
}

//switchRunningState switch the state of the runner to RunningState
//also writes the new state to the stateCh to signal upper control software
func (r *Runner) switchRunningState(to RunningState) {
	r.state.Lock()
	r.state.RunningMode = to
	st := r.state.Status
	r.state.Unlock()
	if r.stateCh != nil {
		r.stateCh <- st
	}
}

//run starts the simulation loop
//simulation will stop on Stop() calling or when the boundary conditions are reached
//the ticks are paced by a limiter with the configured interval
func (r *Runner) run() {
	if r.Status().RunningMode == RunningStateRun {
		return
	}
	r.runGen++
	gen := r.runGen
	r.switchRunningState(RunningStateRun)
	r.logger.Info("Simulation started", "interval", r.options.Interval, "max_steps", r.options.MaxSteps)
	go func() {
		limit := rate.Inf
		if r.options.Interval > 0 {
			limit = rate.Every(r.options.Interval)
		}
		limiter := rate.NewLimiter(limit, 1)
		skipped := 0
		//done reports false when this loop is no longer the current run
		done := make(chan bool, 1)
		for {
			if err := limiter.Wait(r.ctx); err != nil {
				break
			}
			mode := r.Status().RunningMode
			if mode != RunningStateRun && mode != RunningStateStep {
				break
			}
			if skipped > r.options.MaxSkippedTicks {
				r.logger.Warn("Too many skipped ticks, simulation finished", "skipped", skipped)
				r.switchRunningState(RunningStateFinished)
				break
			}
			//skip the tick if the universe is still in the calculation mode
			if mode != RunningStateStep {
				skipped = 0
				r.exec(func() {
					current := r.runGen == gen && r.Status().RunningMode == RunningStateRun
					if current {
						r.step()
					}
					done <- current
				})
				select {
				case current := <-done:
					if !current {
						return
					}
				case <-r.ctx.Done():
					return
				}
			} else {
				skipped++
			}
		}
	}()
}

//stop stops the running cycle
func (r *Runner) stop() {
	if r.Status().RunningMode == RunningStateRun {
		r.switchRunningState(RunningStateManual)
		r.logger.Info("Simulation stopped", "iteration", r.Status().IterationNum)
	}
}

//step does one generation of the universe
//the simulation is finished when MaxSteps is reached, the population dies out or does not change
func (r *Runner) step() {
	finished := false
	rm := r.Status().RunningMode
	if rm == RunningStateFinished {
		rm = RunningStateManual
	}
	defer func() {
		if finished {
			r.switchRunningState(RunningStateFinished)
			r.logger.Info("Simulation finished", "iteration", r.Status().IterationNum, "live_cells", r.Status().LiveCells)
		} else {
			r.switchRunningState(rm)
		}
		r.refreshView()
	}()

	r.state.Lock()
	r.state.IterationNum++
	iter := r.state.IterationNum
	r.state.Unlock()
	maxIter := r.options.MaxSteps
	if maxIter != 0 && iter > maxIter {
		r.state.Lock()
		r.state.IterationNum--
		r.state.Unlock()
		finished = true
		return
	}
	r.switchRunningState(RunningStateStep)

	start := time.Now()
	r.univ.Lock()
	before := r.prev
	if before == nil {
		before = r.univ.u.AliveCellsPos()
	}
	r.univ.u.Advance()
	after := r.univ.u.AliveCellsPos()
	r.univ.Unlock()
	elapsed := time.Since(start)
	r.prev = after

	r.state.Lock()
	r.state.LiveCells = len(after)
	r.state.IterationTime = elapsed
	r.state.Unlock()

	if len(after) == 0 || samePositions(before, after) || (maxIter != 0 && iter == maxIter) {
		finished = true
	}
}

//clear kills all cells and resets all counters
func (r *Runner) clear() {
	r.univ.Lock()
	for _, p := range r.univ.u.AliveCellsPos() {
		_ = r.univ.u.MakeCellDead(p.Row, p.Col)
	}
	r.univ.Unlock()
	r.prev = nil

	r.state.Lock()
	r.state.IterationNum = 0
	r.state.LiveCells = 0
	r.state.IterationTime = 0
	r.state.Unlock()
}

//refreshView calls Refresh event for all registered views
func (r *Runner) refreshView() {
	for _, v := range r.views {
		v.Refresh()
	}
}

//samePositions compares the alive sets regardless of order
//the engines list an unchanged set in the same order except the hash one, so the map is the fallback
func samePositions(a []universe.Position, b []universe.Position) bool {
	if len(a) != len(b) {
		return false
	}
	if slices.Equal(a, b) {
		return true
	}
	set := make(map[universe.Position]struct{}, len(a))
	for _, p := range a {
		set[p] = struct{}{}
	}
	for _, p := range b {
		if _, ok := set[p]; !ok {
			return false
		}
	}
	return true
}
