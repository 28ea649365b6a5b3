package universe

/*
	Sparse Universe implementation
	only alive cells are stored, absence means dead.
	Advance scans the neighborhood of each alive cell only:
	alive neighbors are counted for the cell itself, dead neighbors are the frontier and collect hits,
	a frontier cell hit exactly 3 times is born.
	The storage is pluggable: ordered (btree) or hashed
*/
type SparseUniverse struct {
	bounds
	cur  cellStore
	next cellStore
}

//cellStore keeps alive cells keyed by flat position
type cellStore interface {
	get(flatPos uint64) (Cell, bool)
	put(c Cell)
	remove(flatPos uint64)
	len() int
	//each visits the cells in the store's deterministic order
	each(cb func(c Cell))
	clear()
}

//frontier counts the hits of dead cells adjacent to alive ones
//lives for one Advance call only
type frontier struct {
	hits  map[uint64]int
	order []uint64
}

func newFrontier(capacity int) frontier {
	return frontier{hits: make(map[uint64]int, capacity), order: make([]uint64, 0, capacity)}
}

func (f *frontier) hit(flatPos uint64) {
	n, ok := f.hits[flatPos]
	if !ok {
		f.order = append(f.order, flatPos)
	}
	f.hits[flatPos] = n + 1
}

//NewOrderedSparseUniverse creates the empty sparse universe with btree storage
//lookups are O(log n), AliveCellsPos is in ascending flat position order
func NewOrderedSparseUniverse(rows int, cols int) (*SparseUniverse, error) {
	return newSparseUniverse(rows, cols, func() cellStore { return newOrderedStore() })
}

//NewHashSparseUniverse creates the empty sparse universe with hashed storage
//lookups are O(1) on average, AliveCellsPos is in insertion order
func NewHashSparseUniverse(rows int, cols int) (*SparseUniverse, error) {
	return newSparseUniverse(rows, cols, func() cellStore { return newHashStore() })
}

//OpenOrderedSparseUniverse creates the ordered sparse universe from the .univ file
func OpenOrderedSparseUniverse(path string) (*SparseUniverse, error) {
	return openSparseUniverse(path, NewOrderedSparseUniverse)
}

//OpenHashSparseUniverse creates the hashed sparse universe from the .univ file
func OpenHashSparseUniverse(path string) (*SparseUniverse, error) {
	return openSparseUniverse(path, NewHashSparseUniverse)
}

func newSparseUniverse(rows int, cols int, newStore func() cellStore) (*SparseUniverse, error) {
	b, err := newBounds(rows, cols)
	if err != nil {
		return nil, err
	}
	return &SparseUniverse{bounds: b, cur: newStore(), next: newStore()}, nil
}

func openSparseUniverse(path string, create func(rows int, cols int) (*SparseUniverse, error)) (*SparseUniverse, error) {
	fd, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	u, err := create(fd.Rows, fd.Cols)
	if err != nil {
		return nil, err
	}
	u.seed(fd.Cells)
	return u, nil
}

//Advance does one generation from the current store into the next one and swaps them
func (u *SparseUniverse) Advance() {
	f := newFrontier(u.cur.len() * 2)
	var nb [8]Position
	u.cur.each(func(c Cell) {
		n := u.neighbors(c.Row(), c.Col(), &nb)
		liveNeighbours := 0
		for _, p := range nb[:n] {
			fp := u.flatPos(p.Row, p.Col)
			if _, ok := u.cur.get(fp); ok {
				liveNeighbours++
			} else {
				f.hit(fp)
			}
		}
		if nextState(true, liveNeighbours) {
			u.next.put(c)
		}
	})
	for _, fp := range f.order {
		if nextState(false, f.hits[fp]) {
			p := u.position(fp)
			c := NewCell(p.Row, p.Col, fp)
			c.MakeAlive()
			u.next.put(c)
		}
	}
	u.cur, u.next = u.next, u.cur
	u.next.clear()
}

func (u *SparseUniverse) IsCellAlive(row int, col int) bool {
	if !u.inBounds(row, col) {
		return false
	}
	_, ok := u.cur.get(u.flatPos(row, col))
	return ok
}

//MakeCellAlive stores the cell, making an alive cell alive again changes nothing
func (u *SparseUniverse) MakeCellAlive(row int, col int) error {
	if !u.inBounds(row, col) {
		return outOfBounds(row, col, u.bounds)
	}
	u.makeAlive(row, col)
	return nil
}

func (u *SparseUniverse) MakeCellDead(row int, col int) error {
	if !u.inBounds(row, col) {
		return outOfBounds(row, col, u.bounds)
	}
	u.cur.remove(u.flatPos(row, col))
	return nil
}

func (u *SparseUniverse) makeAlive(row int, col int) {
	c := u.cell(row, col)
	if _, ok := u.cur.get(c.FlatPos()); ok {
		return
	}
	c.MakeAlive()
	u.cur.put(c)
}

func (u *SparseUniverse) AliveCellsPos() []Position {
	pos := make([]Position, 0, u.cur.len())
	u.cur.each(func(c Cell) {
		pos = append(pos, c.Position())
	})
	return pos
}

func (u *SparseUniverse) AliveCount() int {
	return u.cur.len()
}

func (u *SparseUniverse) Save(path string) error {
	return writeFile(path, u.bounds, u.AliveCellsPos())
}

//Load replaces the alive cells with the file content
//the universe is untouched when the file is invalid or its dimensions differ
func (u *SparseUniverse) Load(path string) error {
	fd, err := ReadFile(path)
	if err != nil {
		return err
	}
	if err := fd.checkSize(u.bounds); err != nil {
		return err
	}
	u.cur.clear()
	u.seed(fd.Cells)
	return nil
}

func (u *SparseUniverse) seed(cells []Position) {
	for _, p := range cells {
		u.makeAlive(p.Row, p.Col)
	}
}
