package universe

/*
	Dense Universe implementation with two full buffers
	Advance reads the current buffer only and writes the next state of every cell to the other buffer,
	then the buffers switch roles by flipping the current index, nothing is copied
*/
type DenseUniverse struct {
	bounds
	buffers [2][]Cell
	current int
}

//NewDenseUniverse creates the universe with all cells dead
func NewDenseUniverse(rows int, cols int) (*DenseUniverse, error) {
	b, err := newBounds(rows, cols)
	if err != nil {
		return nil, err
	}
	if rows > MaxDenseCells/cols {
		return nil, tooLargef("dense universe %dx%d exceeds %d cells", rows, cols, MaxDenseCells)
	}
	u := DenseUniverse{bounds: b}
	u.buffers[0] = u.createBuffer()
	u.buffers[1] = u.createBuffer()
	return &u, nil
}

//OpenDenseUniverse creates the universe with the dimensions and alive cells of the .univ file
func OpenDenseUniverse(path string) (*DenseUniverse, error) {
	fd, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	u, err := NewDenseUniverse(fd.Rows, fd.Cols)
	if err != nil {
		return nil, err
	}
	u.seed(fd.Cells)
	return u, nil
}

//createBuffer allocates the row-major buffer, every cell knows its own position
func (u *DenseUniverse) createBuffer() []Cell {
	buf := make([]Cell, u.rows*u.cols)
	for row := 0; row < u.rows; row++ {
		for col := 0; col < u.cols; col++ {
			i := row*u.cols + col
			buf[i] = NewCell(row, col, uint64(i))
		}
	}
	return buf
}

//Advance does one generation, the current buffer is never written
func (u *DenseUniverse) Advance() {
	cur := u.buffers[u.current]
	next := u.buffers[1-u.current]
	var nb [8]Position
	for i := range cur {
		c := &cur[i]
		n := u.neighbors(c.Row(), c.Col(), &nb)
		liveNeighbours := 0
		for _, p := range nb[:n] {
			if cur[p.Row*u.cols+p.Col].IsAlive() {
				liveNeighbours++
			}
		}
		if nextState(c.IsAlive(), liveNeighbours) {
			next[i].MakeAlive()
		} else {
			next[i].MakeDead()
		}
	}
	u.current = 1 - u.current
}

func (u *DenseUniverse) IsCellAlive(row int, col int) bool {
	if !u.inBounds(row, col) {
		return false
	}
	return u.buffers[u.current][row*u.cols+col].IsAlive()
}

func (u *DenseUniverse) MakeCellAlive(row int, col int) error {
	if !u.inBounds(row, col) {
		return outOfBounds(row, col, u.bounds)
	}
	u.buffers[u.current][row*u.cols+col].MakeAlive()
	return nil
}

func (u *DenseUniverse) MakeCellDead(row int, col int) error {
	if !u.inBounds(row, col) {
		return outOfBounds(row, col, u.bounds)
	}
	u.buffers[u.current][row*u.cols+col].MakeDead()
	return nil
}

//AliveCellsPos returns the alive positions in row-major order
func (u *DenseUniverse) AliveCellsPos() []Position {
	pos := make([]Position, 0)
	for _, c := range u.buffers[u.current] {
		if c.IsAlive() {
			pos = append(pos, c.Position())
		}
	}
	return pos
}

func (u *DenseUniverse) AliveCount() int {
	liveCells := 0
	for _, c := range u.buffers[u.current] {
		if c.IsAlive() {
			liveCells++
		}
	}
	return liveCells
}

func (u *DenseUniverse) Save(path string) error {
	return writeFile(path, u.bounds, u.AliveCellsPos())
}

//Load replaces the alive cells with the file content
//the universe is untouched when the file is invalid or its dimensions differ
func (u *DenseUniverse) Load(path string) error {
	fd, err := ReadFile(path)
	if err != nil {
		return err
	}
	if err := fd.checkSize(u.bounds); err != nil {
		return err
	}
	cur := u.buffers[u.current]
	for i := range cur {
		cur[i].MakeDead()
	}
	u.seed(fd.Cells)
	return nil
}

//seed makes the positions alive, they are validated by the parser
func (u *DenseUniverse) seed(cells []Position) {
	cur := u.buffers[u.current]
	for _, p := range cells {
		cur[p.Row*u.cols+p.Col].MakeAlive()
	}
}
