package universe

import "sort"

//Universe is the capability set every grid representation implements
//an instance is not safe for concurrent use, callers serialize access
type Universe interface {
	//Advance computes and commits the next generation
	Advance()
	IsCellAlive(row int, col int) bool
	MakeCellAlive(row int, col int) error
	MakeCellDead(row int, col int) error
	//AliveCellsPos returns the alive positions in the representation's deterministic order
	AliveCellsPos() []Position
	AliveCount() int
	RowCount() int
	ColCount() int
	Save(path string) error
	Load(path string) error
}

//Position is a row, col pair
type Position struct {
	Row int
	Col int
}

const (
	//MaxDimension keeps row*cols+col inside uint64
	MaxDimension = 1 << 32
	//MaxDenseCells limits the grid area of the dense representation
	MaxDenseCells = 1 << 30
)

//bounds is the only state shared by all representations
type bounds struct {
	rows int
	cols int
}

func newBounds(rows int, cols int) (bounds, error) {
	if rows < 1 || cols < 1 || uint64(rows) > MaxDimension || uint64(cols) > MaxDimension {
		return bounds{}, tooLargef("universe dimensions %dx%d are outside [1, %d]", rows, cols, uint64(MaxDimension))
	}
	return bounds{rows: rows, cols: cols}, nil
}

func (b bounds) RowCount() int {
	return b.rows
}

func (b bounds) ColCount() int {
	return b.cols
}

func (b bounds) inBounds(row int, col int) bool {
	return row >= 0 && col >= 0 && row < b.rows && col < b.cols
}

func (b bounds) flatPos(row int, col int) uint64 {
	return uint64(row)*uint64(b.cols) + uint64(col)
}

func (b bounds) position(flatPos uint64) Position {
	return Position{Row: int(flatPos / uint64(b.cols)), Col: int(flatPos % uint64(b.cols))}
}

func (b bounds) cell(row int, col int) Cell {
	return NewCell(row, col, b.flatPos(row, col))
}

//neighbors writes the in-bounds 8-connected neighbors of row, col into nb
//and returns their count: 3 for a corner, 5 for an edge, 8 inside
func (b bounds) neighbors(row int, col int, nb *[8]Position) int {
	n := 0
	for dr := -1; dr < 2; dr++ {
		for dc := -1; dc < 2; dc++ {
			//skip my position
			if dr == 0 && dc == 0 {
				continue
			}
			nr := row + dr
			nc := col + dc
			//skip coordinates outside the area, no wraparound
			if nr < 0 || nc < 0 || nr >= b.rows || nc >= b.cols {
				continue
			}
			nb[n] = Position{Row: nr, Col: nc}
			n++
		}
	}
	return n
}

//nextState applies B3/S23
func nextState(alive bool, liveNeighbours int) bool {
	if liveNeighbours == 3 {
		return true
	}
	return alive && liveNeighbours == 2
}

//Engine builds a representation either empty or from a .univ file
type Engine struct {
	Descr string
	New   func(rows int, cols int) (Universe, error)
	Open  func(path string) (Universe, error)
}

//Engines is the registry of the available representations
var Engines = map[string]Engine{
	"dense": {
		Descr: "every cell stored, two buffers swapped each generation",
		New: func(rows int, cols int) (Universe, error) {
			return NewDenseUniverse(rows, cols)
		},
		Open: func(path string) (Universe, error) {
			return OpenDenseUniverse(path)
		},
	},
	"sparse": {
		Descr: "alive cells only, ordered by flat position",
		New: func(rows int, cols int) (Universe, error) {
			return NewOrderedSparseUniverse(rows, cols)
		},
		Open: func(path string) (Universe, error) {
			return OpenOrderedSparseUniverse(path)
		},
	},
	"hash": {
		Descr: "alive cells only, hashed by flat position",
		New: func(rows int, cols int) (Universe, error) {
			return NewHashSparseUniverse(rows, cols)
		},
		Open: func(path string) (Universe, error) {
			return OpenHashSparseUniverse(path)
		},
	},
}

//EngineNames returns the registered engine names sorted
func EngineNames() (engineNames []string) {
	engineNames = make([]string, 0, len(Engines))
	for k := range Engines {
		engineNames = append(engineNames, k)
	}
	sort.Strings(engineNames)
	return
}
