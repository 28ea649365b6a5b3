package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gameoflife/src/config"
	"gameoflife/src/universe"
)

func testConfig(engine string) *config.Config {
	return &config.Config{
		Simulation: config.SimulationConfig{
			Engine:      engine,
			Rows:        20,
			Cols:        20,
			MaxSteps:    4,
			RandomArea:  8,
			Seed:        7,
			Template:    "glider",
			TemplateRow: 1,
			TemplateCol: 1,
		},
		View: config.ViewConfig{Mode: config.ViewPan, Rows: 10, Cols: 10},
	}
}

func TestOpenUniverseTemplate(t *testing.T) {
	for _, e := range universe.EngineNames() {
		t.Run(e, func(t *testing.T) {
			u, err := openUniverse(testConfig(e), &EnvOptions{})
			if err != nil {
				t.Fatal(err)
			}
			if u.AliveCount() != 5 || !u.IsCellAlive(1, 2) {
				t.Fatalf("glider not settled, alive %v", u.AliveCellsPos())
			}
		})
	}
}

func TestOpenUniverseRandom(t *testing.T) {
	cfg := testConfig("hash")
	a, err := openUniverse(cfg, &EnvOptions{randomData: true})
	if err != nil {
		t.Fatal(err)
	}
	b, err := openUniverse(cfg, &EnvOptions{randomData: true})
	if err != nil {
		t.Fatal(err)
	}
	if a.AliveCount() == 0 || a.AliveCount() != b.AliveCount() {
		t.Fatalf("random settle is not reproducible: %d and %d cells", a.AliveCount(), b.AliveCount())
	}
	for _, p := range a.AliveCellsPos() {
		if p.Row >= 8 || p.Col >= 8 {
			t.Fatalf("cell %v outside the random area", p)
		}
	}
}

func TestBenchCommandSavesAndLoads(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "glider")
	var b bytes.Buffer
	if err := benchCommand(testConfig("dense"), &EnvOptions{outFile: out}, &b); err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"engine: dense", "generations: 4", "alive cells: 5"} {
		if !strings.Contains(b.String(), s) {
			t.Fatalf("%q not in report:\n%s", s, b.String())
		}
	}

	//the file dimensions win over the configured ones
	cfg := testConfig("sparse")
	cfg.Simulation.Rows, cfg.Simulation.Cols = 3, 3
	u, err := openUniverse(cfg, &EnvOptions{inFile: out + universe.FileExtension})
	if err != nil {
		t.Fatal(err)
	}
	if u.RowCount() != 20 || u.ColCount() != 20 || u.AliveCount() != 5 {
		t.Fatalf("loaded %dx%d with %d cells", u.RowCount(), u.ColCount(), u.AliveCount())
	}
	//the glider moved one cell down and right
	if !u.IsCellAlive(2, 3) {
		t.Fatalf("unexpected cells %v", u.AliveCellsPos())
	}
}

func TestOpenUniverseMissingFile(t *testing.T) {
	_, err := openUniverse(testConfig("dense"), &EnvOptions{inFile: filepath.Join(t.TempDir(), "none.univ")})
	if universe.GetType(err) != universe.ErrorTypeIO {
		t.Fatalf("error %v, expected io error", err)
	}
}

func TestRunCommandAnimates(t *testing.T) {
	for _, mode := range []string{config.ViewFull, config.ViewPan, config.ViewCenter} {
		t.Run(mode, func(t *testing.T) {
			cfg := testConfig("hash")
			cfg.View.Mode = mode
			var b bytes.Buffer
			if err := runCommand(context.Background(), cfg, &EnvOptions{}, &b); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(b.String(), "generation 3 alive 5") {
				t.Fatalf("last frame not painted:\n%q", b.String())
			}
		})
	}
}

func TestRunCommandHeadless(t *testing.T) {
	cfg := testConfig("sparse")
	cfg.View.Mode = config.ViewNone
	out := filepath.Join(t.TempDir(), "run.univ")
	var b bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- runCommand(context.Background(), cfg, &EnvOptions{outFile: out}, &b) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("headless run did not finish")
	}
	if !strings.Contains(b.String(), "Last iteration: 4") {
		t.Fatalf("no summary:\n%s", b.String())
	}
	u, err := universe.OpenHashSparseUniverse(out)
	if err != nil {
		t.Fatal(err)
	}
	if u.AliveCount() != 5 {
		t.Fatalf("saved %d cells", u.AliveCount())
	}
}

func TestRunCommandHeadlessInterrupt(t *testing.T) {
	cfg := testConfig("dense")
	cfg.View.Mode = config.ViewNone
	cfg.Simulation.MaxSteps = 0
	cfg.Simulation.Template = "gosper"
	cfg.Simulation.Rows, cfg.Simulation.Cols = 40, 60
	cfg.Simulation.Interval = time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	var b bytes.Buffer
	if err := runCommand(ctx, cfg, &EnvOptions{}, &b); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(b.String(), "Finished:") {
		t.Fatal("unlimited run reported finish")
	}
}

func TestBenchCommandNeedsSteps(t *testing.T) {
	cfg := testConfig("dense")
	cfg.Simulation.MaxSteps = 0
	var b bytes.Buffer
	if err := benchCommand(cfg, &EnvOptions{}, &b); err == nil {
		t.Fatal("expected error for zero steps")
	}
	if b.Len() != 0 {
		t.Fatalf("report written: %s", b.String())
	}
}

func TestRunCommandUnlimitedUntilInterrupt(t *testing.T) {
	cfg := testConfig("sparse")
	cfg.View.Mode = config.ViewFull
	cfg.Simulation.MaxSteps = 0
	cfg.Simulation.Interval = 5 * time.Millisecond
	out := filepath.Join(t.TempDir(), "last")
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()
	var b bytes.Buffer
	if err := runCommand(ctx, cfg, &EnvOptions{outFile: out}, &b); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "generation 3 ") {
		t.Fatal("zero steps did not keep animating")
	}
	if _, err := universe.OpenDenseUniverse(out + universe.FileExtension); err != nil {
		t.Fatalf("last generation not saved after interrupt: %v", err)
	}
}

func TestOpenUniverseTemplateFile(t *testing.T) {
	src, err := universe.NewDenseUniverse(3, 3)
	if err != nil {
		t.Fatal(err)
	}
	_ = src.MakeCellAlive(0, 0)
	_ = src.MakeCellAlive(2, 2)
	path := filepath.Join(t.TempDir(), "diagonal"+universe.FileExtension)
	if err := src.Save(path); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig("hash")
	cfg.Simulation.Template = "missing"
	u, err := openUniverse(cfg, &EnvOptions{templateFile: path})
	if err != nil {
		t.Fatal(err)
	}
	//shifted by the template row and col
	if u.AliveCount() != 2 || !u.IsCellAlive(1, 1) || !u.IsCellAlive(3, 3) {
		t.Fatalf("alive cells %v", u.AliveCellsPos())
	}

	if _, err := openUniverse(cfg, &EnvOptions{}); err == nil {
		t.Fatal("expected error for an unknown template")
	}
}
