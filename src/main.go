package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/integrii/flaggy"

	"gameoflife/src/config"
	"gameoflife/src/logger"
	"gameoflife/src/simulation"
	"gameoflife/src/universe"
	"gameoflife/src/view"
)

//EnvOptions are the command line options which are not part of the configuration
type EnvOptions struct {
	randomData   bool
	inFile       string
	outFile      string
	templateFile string
}

type commands struct {
	run   *flaggy.Subcommand
	bench *flaggy.Subcommand
	ui    *flaggy.Subcommand
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	eo, cmds := initOptions(cfg)
	logger.Init(cfg.Logging, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case cmds.run.Used:
		err = runCommand(ctx, cfg, eo, os.Stdout)
	case cmds.bench.Used:
		err = benchCommand(cfg, eo, os.Stdout)
	case cmds.ui.Used:
		err = uiCommand(cfg, eo)
	default:
		flaggy.ShowHelpAndExit("a command is required")
	}
	if err != nil {
		slog.Error("Command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func initOptions(cfg *config.Config) (*EnvOptions, commands) {
	eo := &EnvOptions{}
	sim := &cfg.Simulation

	flaggy.SetName("gameoflife")
	flaggy.SetDescription("\"The Life\" game simulation")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true

	flaggy.String(&sim.Engine, "e", "engine", "Engine to use ["+strings.Join(universe.EngineNames(), "|")+"]")
	flaggy.Int(&sim.Cols, "x", "width", "Width of a simulation field")
	flaggy.Int(&sim.Rows, "y", "height", "Height of a simulation field")
	flaggy.Duration(&sim.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&sim.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps, 0 runs until interrupted (bench requires a positive value)")
	flaggy.Bool(&eo.randomData, "r", "random", "Settle with random data")
	flaggy.Int64(&sim.Seed, "", "seed", "Seed of the random data")
	flaggy.String(&sim.Template, "t", "template", "Template to settle ["+strings.Join(simulation.TemplateNames(), "|")+"]")
	flaggy.String(&eo.templateFile, "", "templateFile", "Use the alive cells of the "+universe.FileExtension+" file as the template")
	flaggy.Int(&sim.TemplateRow, "", "templateRow", "Row of the template's top left corner")
	flaggy.Int(&sim.TemplateCol, "", "templateCol", "Column of the template's top left corner")
	flaggy.String(&eo.inFile, "f", "file", "Load the universe from the "+universe.FileExtension+" file, the dimensions are taken from the file")
	flaggy.String(&eo.outFile, "o", "out", "Save the last generation to the "+universe.FileExtension+" file")
	flaggy.String(&cfg.Logging.Level, "", "logLevel", "Log level [debug|info|warn|error]")

	cmds := commands{
		run:   flaggy.NewSubcommand("run"),
		bench: flaggy.NewSubcommand("bench"),
		ui:    flaggy.NewSubcommand("ui"),
	}
	cmds.run.Description = "Animate the simulation in the terminal"
	cmds.run.String(&cfg.View.Mode, "v", "view", "View ["+strings.Join(config.ViewModes, "|")+"]")
	cmds.run.Int(&cfg.View.Rows, "", "viewRows", "Viewport height of the center view")
	cmds.run.Int(&cfg.View.Cols, "", "viewCols", "Viewport width of the center view")
	cmds.run.Bool(&cfg.View.Colors, "", "colors", "Colored output")
	cmds.bench.Description = "Measure the generation speed without any output"
	cmds.ui.Description = "Start interactive mode"
	flaggy.AttachSubcommand(cmds.run, 1)
	flaggy.AttachSubcommand(cmds.bench, 1)
	flaggy.AttachSubcommand(cmds.ui, 1)

	flaggy.Parse()

	if _, ok := universe.Engines[sim.Engine]; !ok {
		flaggy.ShowHelpAndExit("unknown engine")
	}
	if _, ok := simulation.FindTemplate(sim.Template); !ok && !eo.randomData && eo.inFile == "" && eo.templateFile == "" {
		flaggy.ShowHelpAndExit("unknown template")
	}
	if err := cfg.Validate(); err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}
	return eo, cmds
}

//openUniverse creates the universe from the file or settles the new one
func openUniverse(cfg *config.Config, eo *EnvOptions) (universe.Universe, error) {
	sim := cfg.Simulation
	e := universe.Engines[sim.Engine]
	if eo.inFile != "" {
		u, err := e.Open(eo.inFile)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", eo.inFile, err)
		}
		slog.Info("Universe loaded", "path", eo.inFile, "rows", u.RowCount(), "cols", u.ColCount(), "alive", u.AliveCount())
		return u, nil
	}
	u, err := e.New(sim.Rows, sim.Cols)
	if err != nil {
		return nil, err
	}
	if eo.randomData {
		cells := simulation.RandomCells(simulation.NewRand(sim.Seed), u.RowCount(), u.ColCount(), sim.RandomArea)
		simulation.SettleCells(u, cells, 0, 0)
		return u, nil
	}
	tmpl, err := resolveTemplate(cfg, eo)
	if err != nil {
		return nil, err
	}
	if skipped := simulation.SettleCells(u, tmpl.Cells, sim.TemplateRow, sim.TemplateCol); skipped > 0 {
		slog.Warn("Template cells outside the universe skipped", "template", tmpl.Name, "skipped", skipped)
	}
	return u, nil
}

//resolveTemplate returns the template of the file when it is given, the built-in one otherwise
func resolveTemplate(cfg *config.Config, eo *EnvOptions) (simulation.Template, error) {
	if eo.templateFile != "" {
		tmpl, err := simulation.TemplateFromFile(eo.templateFile)
		if err != nil {
			return tmpl, fmt.Errorf("template %s: %w", eo.templateFile, err)
		}
		return tmpl, nil
	}
	tmpl, ok := simulation.FindTemplate(cfg.Simulation.Template)
	if !ok {
		return tmpl, fmt.Errorf("unknown template %q", cfg.Simulation.Template)
	}
	return tmpl, nil
}

func save(u universe.Universe, path string) error {
	if path == "" {
		return nil
	}
	if err := u.Save(path); err != nil {
		return err
	}
	slog.Info("Universe saved", "path", path, "alive", u.AliveCount())
	return nil
}

func runnerOptions(cfg *config.Config) *simulation.Options {
	o := simulation.DefaultOptions
	o.Engine = cfg.Simulation.Engine
	o.Interval = cfg.Simulation.Interval
	o.MaxSteps = cfg.Simulation.MaxSteps
	o.Seed = cfg.Simulation.Seed
	o.RandomArea = cfg.Simulation.RandomArea
	return &o
}

func newAnimator(cfg *config.Config, w io.Writer) *view.Animator {
	p := view.NewPainter(w, cfg.View.Colors)
	switch cfg.View.Mode {
	case config.ViewFull:
		return view.NewFullViewAnimator(p, cfg.Simulation.Interval)
	case config.ViewPan:
		return view.NewAutoPanAnimator(p, cfg.Simulation.Interval)
	default:
		return view.NewCenterAutoPanAnimator(p, cfg.Simulation.Interval, cfg.View.Rows, cfg.View.Cols)
	}
}

//runCommand animates the universe, or runs it headless with the progress printed when the view is none
func runCommand(ctx context.Context, cfg *config.Config, eo *EnvOptions, w io.Writer) error {
	u, err := openUniverse(cfg, eo)
	if err != nil {
		return err
	}
	if cfg.View.Mode == config.ViewNone {
		return runHeadless(ctx, cfg, eo, u, w)
	}
	//an interrupt ends the animation like the last step does
	if err := newAnimator(cfg, w).Animate(ctx, u, cfg.Simulation.MaxSteps); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return save(u, eo.outFile)
}

func runHeadless(ctx context.Context, cfg *config.Config, eo *EnvOptions, u universe.Universe, w io.Writer) error {
	//the buffered channel to getting the runner status
	stateCh := make(chan simulation.Status, 10)
	r := simulation.NewRunner(u, runnerOptions(cfg), stateCh)
	defer r.Close()
	out := view.NewConsoleOutTo(w, 10)
	r.RegisterViewer(out)
	out.Start()
	r.Run()
	//on interrupt the runner is stopped and the channel is read until it reports the manual mode
	interrupted := ctx.Done()
	for finished := false; !finished; {
		select {
		case st := <-stateCh:
			finished = st.RunningMode == simulation.RunningStateFinished ||
				(interrupted == nil && st.RunningMode == simulation.RunningStateManual)
		case <-interrupted:
			slog.Info("Interrupted")
			r.Stop()
			interrupted = nil
		}
	}
	if eo.outFile == "" {
		return nil
	}
	return r.Save(eo.outFile)
}

//benchCommand advances the universe MaxSteps times and reports the timing
func benchCommand(cfg *config.Config, eo *EnvOptions, w io.Writer) error {
	if cfg.Simulation.MaxSteps <= 0 {
		return fmt.Errorf("bench needs a positive number of steps, got %d", cfg.Simulation.MaxSteps)
	}
	u, err := openUniverse(cfg, eo)
	if err != nil {
		return err
	}
	steps := cfg.Simulation.MaxSteps
	start := time.Now()
	for i := 0; i < steps; i++ {
		u.Advance()
	}
	elapsed := time.Since(start)
	perStep := elapsed / time.Duration(steps)
	fmt.Fprintf(w, "engine: %s\n", cfg.Simulation.Engine)
	fmt.Fprintf(w, "dimension: %d x %d\n", u.RowCount(), u.ColCount())
	fmt.Fprintf(w, "generations: %d\n", steps)
	fmt.Fprintf(w, "total time: %v\n", elapsed.Round(time.Microsecond))
	fmt.Fprintf(w, "per generation: %v\n", perStep)
	fmt.Fprintf(w, "alive cells: %d\n", u.AliveCount())
	return save(u, eo.outFile)
}

func uiCommand(cfg *config.Config, eo *EnvOptions) error {
	u, err := openUniverse(cfg, eo)
	if err != nil {
		return err
	}
	tmpl, err := resolveTemplate(cfg, eo)
	if err != nil {
		return err
	}
	r := simulation.NewRunner(u, runnerOptions(cfg), nil)
	defer r.Close()
	//the template key settles the file template as well as the built-in ones
	r.AddTemplate(tmpl)
	v, err := view.NewViewTerminal(eo.outFile, tmpl.Name)
	if err != nil {
		return err
	}
	r.RegisterViewer(v)
	v.Start()
	return nil
}
