package universe

//hashStore is a sparse set: the map indexes a dense slice of cells
//iteration walks the slice, so the order only depends on the put/remove history
type hashStore struct {
	index map[uint64]int
	cells []Cell
}

func newHashStore() *hashStore {
	return &hashStore{index: make(map[uint64]int)}
}

func (s *hashStore) get(flatPos uint64) (Cell, bool) {
	i, ok := s.index[flatPos]
	if !ok {
		return Cell{}, false
	}
	return s.cells[i], true
}

func (s *hashStore) put(c Cell) {
	if i, ok := s.index[c.flatPos]; ok {
		s.cells[i] = c
		return
	}
	s.index[c.flatPos] = len(s.cells)
	s.cells = append(s.cells, c)
}

//remove moves the last cell into the vacated slot
func (s *hashStore) remove(flatPos uint64) {
	i, ok := s.index[flatPos]
	if !ok {
		return
	}
	last := len(s.cells) - 1
	s.cells[i] = s.cells[last]
	s.index[s.cells[i].flatPos] = i
	s.cells = s.cells[:last]
	delete(s.index, flatPos)
}

func (s *hashStore) len() int {
	return len(s.cells)
}

func (s *hashStore) each(cb func(c Cell)) {
	for _, c := range s.cells {
		cb(c)
	}
}

func (s *hashStore) clear() {
	clear(s.index)
	s.cells = s.cells[:0]
}
