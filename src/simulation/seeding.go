package simulation

import (
	"math/rand/v2"

	"gameoflife/src/universe"
)

//NewRand creates the random source for the seed, the same seed gives the same universe
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

//SettleCells makes the cells alive shifted by row, col
//returns the number of cells skipped because they are outside the universe
func SettleCells(u universe.Universe, cells []universe.Position, row int, col int) (skipped int) {
	for _, p := range cells {
		if err := u.MakeCellAlive(p.Row+row, p.Col+col); err != nil {
			skipped++
		}
	}
	return
}

//RandomCells picks every cell of the area x area square at the origin with probability 1/2
//the square is clipped to rows x cols, area <= 0 covers the whole universe
func RandomCells(rng *rand.Rand, rows int, cols int, area int) []universe.Position {
	if area > 0 {
		rows, cols = min(rows, area), min(cols, area)
	}
	var cells []universe.Position
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if rng.IntN(2) == 1 {
				cells = append(cells, universe.Position{Row: row, Col: col})
			}
		}
	}
	return cells
}
