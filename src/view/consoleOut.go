package view

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gameoflife/src/simulation"
)

//ConsoleOut prints the running configuration and the progress as plain text
type ConsoleOut struct {
	r         *simulation.Runner
	w         io.Writer
	every     int
	startTime time.Time
}

func NewConsoleOut() *ConsoleOut {
	return NewConsoleOutTo(os.Stdout, 10)
}

//NewConsoleOutTo prints to w, the progress is reported each every iterations
func NewConsoleOutTo(w io.Writer, every int) *ConsoleOut {
	if every <= 0 {
		every = 1
	}
	return &ConsoleOut{w: w, every: every}
}

func (c *ConsoleOut) Refresh() {
	st := c.r.Status()
	if st.RunningMode == simulation.RunningStateFinished {
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last iteration": st.IterationNum,
			"Total time":     totalTime,
			"Live cells":     st.LiveCells,
		}
		fmt.Fprintln(c.w, "\nFinished:")
		c.printHashData(resultData)
	} else if st.RunningMode == simulation.RunningStateRun {
		if st.IterationNum%c.every == 0 {
			fmt.Fprintf(c.w, "  Iterations done: %v\n", st.IterationNum)
		}
	}
}

func (c *ConsoleOut) Register(r *simulation.Runner) {
	c.r = r
	o := r.Options()
	rows, cols := r.Dimensions()
	fmt.Fprintln(c.w, "Running configuration:")
	fmt.Fprintf(c.w, "  Dimension: %v x %v\n", rows, cols)
	fmt.Fprintf(c.w, "  Interval: %v\n", o.Interval)
	fmt.Fprintf(c.w, "  Max iterations: %v steps\n", o.MaxSteps)
	c.printHashData(o.Advanced)
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	fmt.Fprintln(c.w, "\nSimulation started...")
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
