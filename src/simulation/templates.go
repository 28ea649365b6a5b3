package simulation

import (
	"path/filepath"
	"strings"

	"gameoflife/src/universe"
)

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name  string              //template name
	Descr string              //template descr
	Cells []universe.Position //alive cells relative to the top-left corner
}

//Templates are the built-in patterns
var Templates = []Template{
	{"block", "2x2 still life", cells(0, 0, 0, 1, 1, 0, 1, 1)},
	{"beehive", "still life", cells(0, 1, 0, 2, 1, 0, 1, 3, 2, 1, 2, 2)},
	{"blinker", "period 2 oscillator", cells(0, 1, 1, 1, 2, 1)},
	{"toad", "period 2 oscillator", cells(1, 1, 1, 2, 1, 3, 2, 0, 2, 1, 2, 2)},
	{"glider", "moves one cell diagonally every 4 generations", cells(0, 1, 1, 2, 2, 0, 2, 1, 2, 2)},
	{"testSample", "the test sample with 3 stable patterns", cells(1, 1, 1, 2, 2, 1, 2, 2, 3, 3, 4, 2, 4, 3, 5, 3)},
	{"gosper", "Gosper glider gun, emits a glider every 30 generations", cells(
		0, 24, 1, 22, 1, 24, 2, 12, 2, 13, 2, 20, 2, 21, 2, 34, 2, 35,
		3, 11, 3, 15, 3, 20, 3, 21, 3, 34, 3, 35, 4, 0, 4, 1, 4, 10, 4, 16, 4, 20, 4, 21,
		5, 0, 5, 1, 5, 10, 5, 14, 5, 16, 5, 17, 5, 22, 5, 24, 6, 10, 6, 16, 6, 24,
		7, 11, 7, 15, 8, 12, 8, 13,
	)},
}

//TemplateNames returns the built-in template names in declaration order
func TemplateNames() []string {
	names := make([]string, 0, len(Templates))
	for _, t := range Templates {
		names = append(names, t.Name)
	}
	return names
}

//FindTemplate returns the built-in template by name
func FindTemplate(name string) (Template, bool) {
	for _, t := range Templates {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}

//TemplateFromFile reads the alive cells of the .univ file as the template named after the file
func TemplateFromFile(path string) (Template, error) {
	fd, err := universe.ReadFile(path)
	if err != nil {
		return Template{}, err
	}
	name := strings.TrimSuffix(filepath.Base(path), universe.FileExtension)
	return Template{Name: name, Descr: "loaded from " + path, Cells: fd.Cells}, nil
}

func cells(rc ...int) []universe.Position {
	c := make([]universe.Position, 0, len(rc)/2)
	for i := 0; i+1 < len(rc); i += 2 {
		c = append(c, universe.Position{Row: rc[i], Col: rc[i+1]})
	}
	return c
}
