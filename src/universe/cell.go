package universe

//Cell is one addressable position of the universe and its liveness
//the position is fixed at construction, only the liveness flips
type Cell struct {
	row     int
	col     int
	flatPos uint64
	alive   bool
}

//NewCell creates the dead cell at row, col
//flatPos must be row*cols+col for the universe the cell belongs to
func NewCell(row int, col int, flatPos uint64) Cell {
	return Cell{row: row, col: col, flatPos: flatPos}
}

func (c Cell) Row() int {
	return c.row
}

func (c Cell) Col() int {
	return c.col
}

//FlatPos returns the row-major index used as the ordering and hash key
func (c Cell) FlatPos() uint64 {
	return c.flatPos
}

func (c Cell) IsAlive() bool {
	return c.alive
}

func (c *Cell) MakeAlive() {
	c.alive = true
}

func (c *Cell) MakeDead() {
	c.alive = false
}

//Position returns the cell coordinates
func (c Cell) Position() Position {
	return Position{Row: c.row, Col: c.col}
}
