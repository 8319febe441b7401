// Package market reads and writes matrices in the Matrix Market coordinate
// format: a header line, a "rows columns nonzeros" dimension line, then one
// "row column value" triple per line, 1-indexed in the file and 0-indexed in
// memory. Files with a .zst or .lz4 extension are transparently
// (de)compressed.
//
// The package only consumes the public matrix contract: it builds matrices
// from coordinate mappings and dumps them through the mode-gated getters, so
// either storage mode can be written without conversion.
package market

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	algebra "github.com/diantonioandrea/pacs-second"
)

// header is written at the top of every file this package produces.
const header = "%%MatrixMarket matrix coordinate real general"

// Options configures reading.
type Options struct {
	// Ordering selects the storage ordering of the loaded matrix. Under
	// ColumnMajor the coordinates are swapped at load time so columns become
	// the segment axis.
	Ordering algebra.Ordering

	// Matrix options (tolerance, workers, metrics) forwarded to the
	// constructor.
	Matrix []algebra.Option

	// Logger reports load statistics. Defaults to a no-op logger.
	Logger *algebra.Logger
}

// Read parses a matrix from r. The loaded matrix is in sparse mode.
func Read(r io.Reader, optFns ...func(*Options)) (*algebra.Matrix[float64], error) {
	opts := Options{Logger: algebra.NoopLogger()}
	for _, fn := range optFns {
		fn(&opts)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line, lineNo, err := nextLine(scanner, 0)
	if err != nil {
		return nil, fmt.Errorf("market: missing header: %w", err)
	}
	if !strings.HasPrefix(line, "%%MatrixMarket") {
		return nil, fmt.Errorf("market: line %d: not a MatrixMarket header: %q", lineNo, line)
	}

	line, lineNo, err = nextLine(scanner, lineNo)
	if err != nil {
		return nil, fmt.Errorf("market: missing dimension line: %w", err)
	}
	rows, cols, nnz, err := parseDimensions(line)
	if err != nil {
		return nil, fmt.Errorf("market: line %d: %w", lineNo, err)
	}

	elements := make(map[algebra.Coord]float64, nnz)
	for scanner.Scan() {
		lineNo++
		line = strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}

		row, col, value, err := parseTriple(line)
		if err != nil {
			return nil, fmt.Errorf("market: line %d: %w", lineNo, err)
		}
		// File coordinates are 1-indexed.
		row--
		col--
		if row < 0 || row >= rows || col < 0 || col >= cols {
			return nil, fmt.Errorf("market: line %d: entry (%d, %d) outside %d by %d", lineNo, row+1, col+1, rows, cols)
		}

		c := algebra.Coord{First: row, Second: col}
		if opts.Ordering == algebra.ColumnMajor {
			c = algebra.Coord{First: col, Second: row}
		}
		elements[c] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("market: read: %w", err)
	}

	first, second := rows, cols
	if opts.Ordering == algebra.ColumnMajor {
		first, second = cols, rows
	}

	m, err := algebra.NewFromCOO(opts.Ordering, first, second, elements, opts.Matrix...)
	if err != nil {
		return nil, fmt.Errorf("market: construct: %w", err)
	}

	opts.Logger.Info("loaded matrix", algebra.MatrixAttrs(m)...)
	return m, nil
}

// ReadFile loads a matrix from path, decompressing .zst and .lz4 files.
func ReadFile(path string, optFns ...func(*Options)) (*algebra.Matrix[float64], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("market: open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	switch filepath.Ext(path) {
	case ".zst":
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("market: zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	case ".lz4":
		r = lz4.NewReader(f)
	}

	return Read(r, optFns...)
}

// Write dumps m to w in coordinate format, 1-indexed, scientific notation
// with fixed precision. Entries are emitted in lexicographic (row, column)
// order regardless of the storage mode.
func Write(w io.Writer, m *algebra.Matrix[float64]) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%s\n%d %d %d\n", header, m.Rows(), m.Columns(), m.Size()); err != nil {
		return fmt.Errorf("market: write header: %w", err)
	}

	for _, e := range logicalEntries(m) {
		if _, err := fmt.Fprintf(bw, "%d %d %.6e\n", e.row+1, e.col+1, e.value); err != nil {
			return fmt.Errorf("market: write entry: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("market: flush: %w", err)
	}
	return nil
}

// WriteFile writes m to path, compressing .zst and .lz4 files.
func WriteFile(path string, m *algebra.Matrix[float64]) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("market: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("market: close %s: %w", path, cerr)
		}
	}()

	switch filepath.Ext(path) {
	case ".zst":
		enc, err := zstd.NewWriter(f)
		if err != nil {
			return fmt.Errorf("market: zstd writer: %w", err)
		}
		if err := Write(enc, m); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	case ".lz4":
		lw := lz4.NewWriter(f)
		if err := Write(lw, m); err != nil {
			lw.Close()
			return err
		}
		return lw.Close()
	default:
		return Write(f, m)
	}
}

type entry struct {
	row, col int
	value    float64
}

// logicalEntries collects the stored entries as logical (row, column) pairs
// in lexicographic order, from whichever representation is active.
func logicalEntries(m *algebra.Matrix[float64]) []entry {
	columnMajor := m.Ordering() == algebra.ColumnMajor
	out := make([]entry, 0, m.Size())

	if m.IsCompressed() {
		offsets, _ := m.SegmentOffsets()
		indices, _ := m.SegmentIndices()
		values, _ := m.SegmentValues()
		for j := 0; j+1 < len(offsets); j++ {
			for k := offsets[j]; k < offsets[j+1]; k++ {
				e := entry{row: j, col: indices[k], value: values[k]}
				if columnMajor {
					e.row, e.col = e.col, e.row
				}
				out = append(out, e)
			}
		}
	} else {
		elements, _ := m.Entries()
		for _, c := range slices.SortedFunc(maps.Keys(elements), func(a, b algebra.Coord) int {
			if a.First != b.First {
				return a.First - b.First
			}
			return a.Second - b.Second
		}) {
			e := entry{row: c.First, col: c.Second, value: elements[c]}
			if columnMajor {
				e.row, e.col = e.col, e.row
			}
			out = append(out, e)
		}
	}

	slices.SortFunc(out, func(a, b entry) int {
		if a.row != b.row {
			return a.row - b.row
		}
		return a.col - b.col
	})
	return out
}

// nextLine returns the next non-empty, non-comment line after the first.
// Comment lines start with a single '%'; the %% header is handled by the
// caller.
func nextLine(scanner *bufio.Scanner, lineNo int) (string, int, error) {
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if lineNo > 1 && strings.HasPrefix(line, "%") {
			continue
		}
		return line, lineNo, nil
	}
	if err := scanner.Err(); err != nil {
		return "", lineNo, err
	}
	return "", lineNo, io.ErrUnexpectedEOF
}

func parseDimensions(line string) (rows, cols, nnz int, err error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || len(fields) > 3 {
		return 0, 0, 0, fmt.Errorf("malformed dimension line: %q", line)
	}

	rows, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("rows: %w", err)
	}
	cols, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("columns: %w", err)
	}
	if len(fields) == 3 {
		nnz, err = strconv.Atoi(fields[2])
		if err != nil {
			return 0, 0, 0, fmt.Errorf("nonzero count: %w", err)
		}
	}
	return rows, cols, nnz, nil
}

func parseTriple(line string) (row, col int, value float64, err error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("malformed entry line: %q", line)
	}

	row, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("row index: %w", err)
	}
	col, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("column index: %w", err)
	}
	value, err = strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("value: %w", err)
	}
	return row, col, value, nil
}
