package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "SIMLIFE_"

//view modes of the run command
const (
	ViewFull   = "full"
	ViewPan    = "pan"
	ViewCenter = "center"
	ViewNone   = "none"
)

var ViewModes = []string{ViewFull, ViewPan, ViewCenter, ViewNone}

type Config struct {
	Simulation SimulationConfig
	View       ViewConfig
	Logging    LoggingConfig
}

type SimulationConfig struct {
	Engine      string
	Rows        int
	Cols        int
	//MaxSteps limits the generations, 0 runs until interrupted
	MaxSteps    int
	Interval    time.Duration
	Seed        int64
	RandomArea  int
	Template    string
	TemplateRow int
	TemplateCol int
}

type ViewConfig struct {
	Mode   string
	Rows   int
	Cols   int
	Colors bool
}

type LoggingConfig struct {
	Level      string
	JSONFormat bool
}

//Load reads the configuration from the environment
//the env files (.env in the working directory by default) are applied first when present,
//they never override variables already set
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}
	return loadFromEnv()
}

func loadFromEnv() (*Config, error) {
	var errs []error
	intVar := func(key string, def int) int {
		v, err := getEnvInt(key, def)
		errs = append(errs, err)
		return v
	}
	sim := SimulationConfig{
		Engine:      getEnv("ENGINE", "dense"),
		Rows:        intVar("ROWS", 40),
		Cols:        intVar("COLS", 80),
		MaxSteps:    intVar("STEPS", 100),
		Seed:        int64(intVar("SEED", 0)),
		RandomArea:  intVar("RANDOM_AREA", 64),
		Template:    getEnv("TEMPLATE", "gosper"),
		TemplateRow: intVar("TEMPLATE_ROW", 1),
		TemplateCol: intVar("TEMPLATE_COL", 1),
	}
	interval, err := time.ParseDuration(getEnv("INTERVAL", "100ms"))
	if err != nil {
		errs = append(errs, fmt.Errorf("%sINTERVAL: %w", envPrefix, err))
	}
	sim.Interval = interval

	view := ViewConfig{
		Mode:   getEnv("VIEW", ViewCenter),
		Rows:   intVar("VIEW_ROWS", 30),
		Cols:   intVar("VIEW_COLS", 60),
		Colors: getEnv("COLORS", "true") == "true",
	}

	logging := LoggingConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		JSONFormat: getEnv("LOG_FORMAT", "text") == "json",
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &Config{Simulation: sim, View: view, Logging: logging}, nil
}

//Validate checks the values which can be changed by the command line as well
func (c *Config) Validate() error {
	if c.Simulation.Rows <= 0 || c.Simulation.Cols <= 0 {
		return fmt.Errorf("dimensions must be positive, got %dx%d", c.Simulation.Rows, c.Simulation.Cols)
	}
	if c.Simulation.MaxSteps < 0 {
		return fmt.Errorf("steps must not be negative, got %d", c.Simulation.MaxSteps)
	}
	if c.Simulation.Interval < 0 {
		return fmt.Errorf("interval must not be negative, got %v", c.Simulation.Interval)
	}
	if !slices.Contains(ViewModes, c.View.Mode) {
		return fmt.Errorf("unknown view %q, expected one of %v", c.View.Mode, ViewModes)
	}
	if c.View.Rows <= 0 || c.View.Cols <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.View.Rows, c.View.Cols)
	}
	return nil
}

func getEnv(key string, def string) string {
	if v, ok := os.LookupEnv(envPrefix + key); ok {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	s, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def, fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	return v, nil
}
