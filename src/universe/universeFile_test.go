package universe

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var saveSample = pos(0, 1, 2, 2, 2, 0, 1, 3, 2, 3, 1, 1)

func TestSaveAndLoad(t *testing.T) {
	for _, e := range EngineNames() {
		t.Run(e, func(t *testing.T) {
			dir := t.TempDir()
			u := newTestUniverse(t, e, 3, 4)
			settle(t, u, saveSample)
			for _, savePath := range []string{"test_universe", "test_universe.univ"} {
				if err := u.Save(filepath.Join(dir, savePath)); err != nil {
					t.Fatalf("Save(%s): %v", savePath, err)
				}
				loaded := newTestUniverse(t, e, 3, 4)
				settle(t, loaded, pos(0, 0))
				if err := loaded.Load(filepath.Join(dir, "test_universe.univ")); err != nil {
					t.Fatalf("Load: %v", err)
				}
				if got := loaded.AliveCellsPos(); !sameCells(got, saveSample) {
					t.Fatalf("loaded %v, expected %v", got, saveSample)
				}
			}
		})
	}
}

func TestCreateUniverseFromFile(t *testing.T) {
	for _, e := range EngineNames() {
		t.Run(e, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "test_universe.univ")
			u := newTestUniverse(t, e, 3, 4)
			settle(t, u, saveSample)
			if err := u.Save(path); err != nil {
				t.Fatal(err)
			}
			for _, other := range EngineNames() {
				opened, err := Engines[other].Open(path)
				if err != nil {
					t.Fatalf("%s: Open: %v", other, err)
				}
				if opened.RowCount() != 3 || opened.ColCount() != 4 {
					t.Fatalf("%s: dimensions %dx%d, expected 3x4", other, opened.RowCount(), opened.ColCount())
				}
				if got := opened.AliveCellsPos(); !sameCells(got, saveSample) {
					t.Fatalf("%s: opened %v, expected %v", other, got, saveSample)
				}
			}
		})
	}
}

func TestSaveUsesAliveCellsOrder(t *testing.T) {
	u, err := NewOrderedSparseUniverse(3, 4)
	if err != nil {
		t.Fatal(err)
	}
	settle(t, u, pos(2, 3, 0, 1))
	path := filepath.Join(t.TempDir(), "ordered")
	if err := u.Save(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path + FileExtension)
	if err != nil {
		t.Fatal(err)
	}
	want := "GameOfLifeUniverse\n3\n4\n2\n0,1\n2,3\n"
	if string(data) != want {
		t.Fatalf("saved\n%q\nexpected\n%q", data, want)
	}
}

func TestLoadSizeMismatch(t *testing.T) {
	for _, e := range EngineNames() {
		t.Run(e, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "small.univ")
			small := newTestUniverse(t, e, 3, 4)
			settle(t, small, saveSample)
			if err := small.Save(path); err != nil {
				t.Fatal(err)
			}
			u := newTestUniverse(t, e, 4, 3)
			settle(t, u, pos(3, 2))
			if err := u.Load(path); GetType(err) != ErrorTypeSizeMismatch {
				t.Fatalf("Load error = %v, expected %s", err, ErrorTypeSizeMismatch)
			}
			if got := u.AliveCellsPos(); !sameCells(got, pos(3, 2)) {
				t.Fatalf("failed load changed the universe to %v", got)
			}
		})
	}
}

func TestLoadInvalidFile(t *testing.T) {
	cases := []struct {
		name    string
		file    string
		content string
		errType ErrorType
	}{
		{"extension", "u.txt", "GameOfLifeUniverse\n3\n3\n0\n", ErrorTypeFormat},
		{"header", "u.univ", "GameOfLife\n3\n3\n0\n", ErrorTypeFormat},
		{"empty", "u.univ", "", ErrorTypeFormat},
		{"rows", "u.univ", "GameOfLifeUniverse\nthree\n3\n0\n", ErrorTypeFormat},
		{"missing count", "u.univ", "GameOfLifeUniverse\n3\n3\n", ErrorTypeFormat},
		{"negative count", "u.univ", "GameOfLifeUniverse\n3\n3\n-1\n", ErrorTypeFormat},
		{"short", "u.univ", "GameOfLifeUniverse\n3\n3\n2\n0,0\n", ErrorTypeFormat},
		{"position", "u.univ", "GameOfLifeUniverse\n3\n3\n1\n0;0\n", ErrorTypeFormat},
		{"position spaces", "u.univ", "GameOfLifeUniverse\n3\n3\n1\n0, 0\n", ErrorTypeFormat},
		{"outside", "u.univ", "GameOfLifeUniverse\n3\n3\n1\n3,0\n", ErrorTypeFormat},
		{"trailing", "u.univ", "GameOfLifeUniverse\n3\n3\n1\n0,0\n1,1\n", ErrorTypeFormat},
		{"zero rows", "u.univ", "GameOfLifeUniverse\n0\n3\n0\n", ErrorTypeTooLarge},
		{"missing", "", "", ErrorTypeIO},
	}
	for _, e := range EngineNames() {
		for _, c := range cases {
			t.Run(e+"/"+c.name, func(t *testing.T) {
				dir := t.TempDir()
				path := filepath.Join(dir, "absent.univ")
				if c.file != "" {
					path = filepath.Join(dir, c.file)
					if err := os.WriteFile(path, []byte(c.content), 0o644); err != nil {
						t.Fatal(err)
					}
				}
				if _, err := Engines[e].Open(path); GetType(err) != c.errType {
					t.Fatalf("Open error = %v, expected %s", err, c.errType)
				}
				u := newTestUniverse(t, e, 3, 3)
				settle(t, u, pos(1, 1))
				if err := u.Load(path); GetType(err) != c.errType {
					t.Fatalf("Load error = %v, expected %s", err, c.errType)
				}
				if got := u.AliveCellsPos(); !sameCells(got, pos(1, 1)) {
					t.Fatalf("failed load changed the universe to %v", got)
				}
			})
		}
	}
}

func TestDecodeTolerance(t *testing.T) {
	in := "GameOfLifeUniverse\r\n2\r\n2\r\n1\r\n1,0\r\n\r\n"
	fd, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if fd.Rows != 2 || fd.Cols != 2 || len(fd.Cells) != 1 || fd.Cells[0] != (Position{1, 0}) {
		t.Fatalf("unexpected %+v", fd)
	}
}

func TestEncode(t *testing.T) {
	var b bytes.Buffer
	if err := Encode(&b, 5, 6, pos(4, 5, 0, 0)); err != nil {
		t.Fatal(err)
	}
	if got, want := b.String(), "GameOfLifeUniverse\n5\n6\n2\n4,5\n0,0\n"; got != want {
		t.Fatalf("Encode = %q, expected %q", got, want)
	}
	fd, err := Decode(&b)
	if err != nil {
		t.Fatal(err)
	}
	if fd.Rows != 5 || fd.Cols != 6 || !sameCells(fd.Cells, pos(4, 5, 0, 0)) {
		t.Fatalf("decoded %+v", fd)
	}
}
