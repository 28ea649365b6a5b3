package universe

import "github.com/google/btree"

const btreeDegree = 32

//orderedStore keeps the cells in a btree ordered by flat position
type orderedStore struct {
	tree *btree.BTreeG[Cell]
}

func lessFlatPos(a Cell, b Cell) bool {
	return a.flatPos < b.flatPos
}

func newOrderedStore() *orderedStore {
	return &orderedStore{tree: btree.NewG[Cell](btreeDegree, lessFlatPos)}
}

func (s *orderedStore) get(flatPos uint64) (Cell, bool) {
	return s.tree.Get(Cell{flatPos: flatPos})
}

func (s *orderedStore) put(c Cell) {
	s.tree.ReplaceOrInsert(c)
}

func (s *orderedStore) remove(flatPos uint64) {
	s.tree.Delete(Cell{flatPos: flatPos})
}

func (s *orderedStore) len() int {
	return s.tree.Len()
}

func (s *orderedStore) each(cb func(c Cell)) {
	s.tree.Ascend(func(c Cell) bool {
		cb(c)
		return true
	})
}

//clear keeps the nodes on the freelist for the next generation
func (s *orderedStore) clear() {
	s.tree.Clear(true)
}
