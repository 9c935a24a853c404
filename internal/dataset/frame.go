package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Frame is an untyped CSV table. Missing cells are empty strings.
type Frame struct {
	Header []string
	Rows   [][]string
}

func (f *Frame) Len() int {
	return len(f.Rows)
}

// Index returns the position of column name, or -1.
func (f *Frame) Index(name string) int {
	for i, h := range f.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// ReadCSV parses a CSV document with a header row. Short rows are padded
// with empty cells; rows with more fields than the header are an error.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv has no header row")
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv rows: %w", err)
	}
	for i, row := range rows {
		switch {
		case len(row) > len(header):
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+2, len(row), len(header))
		case len(row) < len(header):
			padded := make([]string, len(header))
			copy(padded, row)
			rows[i] = padded
		}
	}

	return &Frame{Header: header, Rows: rows}, nil
}

// ReadCSVFile opens and parses path.
func ReadCSVFile(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	frame, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frame, nil
}

// LeftJoin keeps every row of left and appends the columns of each matching
// right row. Left rows without a match get empty cells; left rows with
// several matches are repeated. Non-key columns present on both sides are
// suffixed with _x and _y.
func LeftJoin(left, right *Frame, keys []string) (*Frame, error) {
	leftKeys, err := keyIndexes(left, keys)
	if err != nil {
		return nil, fmt.Errorf("left frame: %w", err)
	}
	rightKeys, err := keyIndexes(right, keys)
	if err != nil {
		return nil, fmt.Errorf("right frame: %w", err)
	}

	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}

	var rightCols []int
	for i, h := range right.Header {
		if !isKey[h] {
			rightCols = append(rightCols, i)
		}
	}

	header := make([]string, 0, len(left.Header)+len(rightCols))
	for _, h := range left.Header {
		if !isKey[h] && right.Index(h) >= 0 {
			h += "_x"
		}
		header = append(header, h)
	}
	for _, i := range rightCols {
		h := right.Header[i]
		if left.Index(h) >= 0 {
			h += "_y"
		}
		header = append(header, h)
	}

	index := make(map[string][]int, len(right.Rows))
	for i, row := range right.Rows {
		k := joinKey(row, rightKeys)
		index[k] = append(index[k], i)
	}

	rows := make([][]string, 0, len(left.Rows))
	for _, row := range left.Rows {
		matches := index[joinKey(row, leftKeys)]
		if len(matches) == 0 {
			out := make([]string, len(header))
			copy(out, row)
			rows = append(rows, out)
			continue
		}
		for _, m := range matches {
			out := make([]string, 0, len(header))
			out = append(out, row...)
			for _, i := range rightCols {
				out = append(out, cell(right.Rows[m], i))
			}
			rows = append(rows, out)
		}
	}

	return &Frame{Header: header, Rows: rows}, nil
}

func keyIndexes(f *Frame, keys []string) ([]int, error) {
	idx := make([]int, len(keys))
	for i, k := range keys {
		idx[i] = f.Index(k)
		if idx[i] < 0 {
			return nil, fmt.Errorf("missing join column %q", k)
		}
	}
	return idx, nil
}

func joinKey(row []string, idx []int) string {
	parts := make([]string, len(idx))
	for i, c := range idx {
		parts[i] = strings.TrimSpace(cell(row, c))
	}
	return strings.Join(parts, "\x00")
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
