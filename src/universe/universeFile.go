package universe

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

/*
	.univ text format:

	GameOfLifeUniverse
	<rows>
	<cols>
	<alive_count>
	<row>,<col>
	...
*/

const (
	FileHeader    = "GameOfLifeUniverse"
	FileExtension = ".univ"
)

//FileData is the parsed content of a .univ file
type FileData struct {
	Rows  int
	Cols  int
	Cells []Position
}

//checkSize fails when the file was saved from a universe of other dimensions
func (fd FileData) checkSize(b bounds) error {
	if fd.Rows != b.rows || fd.Cols != b.cols {
		return sizeMismatchf("file universe is %dx%d, expected %dx%d", fd.Rows, fd.Cols, b.rows, b.cols)
	}
	return nil
}

//Encode writes the universe snapshot, cells are written in the given order
func Encode(w io.Writer, rows int, cols int, cells []Position) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, FileHeader)
	fmt.Fprintln(bw, rows)
	fmt.Fprintln(bw, cols)
	fmt.Fprintln(bw, len(cells))
	for _, p := range cells {
		bw.WriteString(strconv.Itoa(p.Row))
		bw.WriteByte(',')
		bw.WriteString(strconv.Itoa(p.Col))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

//Decode parses the universe snapshot
//the dimensions and every position are validated
func Decode(r io.Reader) (FileData, error) {
	var fd FileData
	s := bufio.NewScanner(r)
	lineNum := 0
	nextLine := func(what string) (string, error) {
		if !s.Scan() {
			if err := s.Err(); err != nil {
				return "", wrapIO("failed to read universe", err)
			}
			return "", formatErrorf("line %d: missing %s", lineNum+1, what)
		}
		lineNum++
		return strings.TrimSpace(s.Text()), nil
	}

	header, err := nextLine("header")
	if err != nil {
		return fd, err
	}
	if header != FileHeader {
		return fd, formatErrorf("line 1: header %q, expected %q", header, FileHeader)
	}

	var count int
	for _, f := range []struct {
		name string
		dst  *int
	}{{"rows", &fd.Rows}, {"cols", &fd.Cols}, {"alive count", &count}} {
		line, err := nextLine(f.name)
		if err != nil {
			return fd, err
		}
		v, err := strconv.Atoi(line)
		if err != nil {
			return fd, wrapFormat(fmt.Sprintf("line %d: invalid %s", lineNum, f.name), err)
		}
		*f.dst = v
	}
	b, err := newBounds(fd.Rows, fd.Cols)
	if err != nil {
		return fd, err
	}
	if count < 0 {
		return fd, formatErrorf("line 4: negative alive count %d", count)
	}

	fd.Cells = make([]Position, 0, min(count, 1<<16))
	for i := 0; i < count; i++ {
		line, err := nextLine(fmt.Sprintf("position %d of %d", i+1, count))
		if err != nil {
			return fd, err
		}
		p, err := parsePosition(line)
		if err != nil {
			return fd, wrapFormat(fmt.Sprintf("line %d", lineNum), err)
		}
		if !b.inBounds(p.Row, p.Col) {
			return fd, formatErrorf("line %d: position %d,%d is outside the %dx%d universe", lineNum, p.Row, p.Col, fd.Rows, fd.Cols)
		}
		fd.Cells = append(fd.Cells, p)
	}

	for s.Scan() {
		lineNum++
		if strings.TrimSpace(s.Text()) != "" {
			return fd, formatErrorf("line %d: unexpected content after %d positions", lineNum, count)
		}
	}
	if err := s.Err(); err != nil {
		return fd, wrapIO("failed to read universe", err)
	}
	return fd, nil
}

func parsePosition(line string) (Position, error) {
	rs, cs, ok := strings.Cut(line, ",")
	if !ok {
		return Position{}, fmt.Errorf("position %q is not row,col", line)
	}
	row, err := strconv.Atoi(rs)
	if err != nil {
		return Position{}, fmt.Errorf("invalid row: %w", err)
	}
	col, err := strconv.Atoi(cs)
	if err != nil {
		return Position{}, fmt.Errorf("invalid col: %w", err)
	}
	return Position{Row: row, Col: col}, nil
}

//writeFile saves the snapshot, the .univ extension is appended when missing
func writeFile(path string, b bounds, cells []Position) (err error) {
	if !strings.HasSuffix(path, FileExtension) {
		path += FileExtension
	}
	f, err := os.Create(path)
	if err != nil {
		return wrapIO("failed to create universe file", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = wrapIO("failed to close universe file", cerr)
		}
	}()
	if err := Encode(f, b.rows, b.cols, cells); err != nil {
		return wrapIO("failed to write universe file", err)
	}
	return nil
}

//ReadFile parses the .univ file, the path must have the .univ extension
func ReadFile(path string) (FileData, error) {
	if !strings.HasSuffix(path, FileExtension) {
		return FileData{}, formatErrorf("%s: universe file must have the %s extension", path, FileExtension)
	}
	f, err := os.Open(path)
	if err != nil {
		return FileData{}, wrapIO("failed to open universe file", err)
	}
	defer f.Close()
	return Decode(f)
}
