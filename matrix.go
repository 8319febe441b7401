// Package algebra implements a sparse matrix engine with two coexisting
// physical storage representations:
//
//   - Sparse mode: a coordinate (COO) mapping from physical (first, second)
//     index pairs to values. The only mode that accepts mutation.
//   - Compressed mode: three parallel sequences (segment offsets, secondary
//     indices, values) forming CSR storage under RowMajor ordering and CSC
//     storage under ColumnMajor ordering.
//
// The ordering is fixed at construction and decides which logical dimension
// is the primary (segment) axis. Arithmetic operators and norms pick a kernel
// per storage mode and ordering, so callers pay only for the representation
// they are in. A per-matrix zero tolerance bounds numerical noise: entries
// whose magnitude does not exceed it are treated as structurally absent
// during insertion, compression and matrix products.
//
// A Matrix is not safe for concurrent mutation (Set, Insert, Compress,
// Uncompress, Scale, Div) with any other access; read-only operations on an
// unchanging instance may run concurrently with each other.
package algebra

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/diantonioandrea/pacs-second/numeric"
)

// Ordering fixes which physical dimension of a matrix is the primary
// (segment) axis.
type Ordering int

const (
	// RowMajor interprets (first, second) as (rows, columns); compressed
	// storage is CSR.
	RowMajor Ordering = iota
	// ColumnMajor interprets (first, second) as (columns, rows); compressed
	// storage is CSC.
	ColumnMajor
)

func (o Ordering) String() string {
	switch o {
	case RowMajor:
		return "row-major"
	case ColumnMajor:
		return "column-major"
	default:
		return fmt.Sprintf("Unknown(%d)", int(o))
	}
}

// Coord addresses an entry by physical coordinates: First indexes the
// primary (segment) axis, Second the secondary axis. Under RowMajor ordering
// First is the row; under ColumnMajor it is the column.
type Coord struct {
	First, Second int
}

// Matrix is a sparse matrix with fixed physical extents and ordering.
// Exactly one storage representation is active at a time; the inactive one
// is nil. The zero value is not usable, construct through New, NewFromCOO or
// NewFromCompressed.
type Matrix[T numeric.Scalar] struct {
	first, second int
	ordering      Ordering

	opts options

	compressed bool

	// Sparse (COO) representation.
	elements map[Coord]T

	// Compressed (CSR/CSC) representation. offsets has length first+1 and is
	// non-decreasing with offsets[0] == 0; indices holds secondary indices,
	// strictly increasing within each segment; values runs parallel to
	// indices.
	offsets []int
	indices []int
	values  []T
}

// New returns an empty sparse-mode matrix with the given physical extents.
func New[T numeric.Scalar](ordering Ordering, first, second int, opts ...Option) (*Matrix[T], error) {
	if err := validateExtents(first, second); err != nil {
		return nil, err
	}

	m := &Matrix[T]{
		first:    first,
		second:   second,
		ordering: ordering,
		opts:     defaultOptions(),
		elements: make(map[Coord]T),
	}
	for _, fn := range opts {
		fn(&m.opts)
	}

	return m, nil
}

// NewFromCOO returns a sparse-mode matrix holding a copy of the given
// coordinate mapping. Every key must lie inside [0, first) x [0, second).
func NewFromCOO[T numeric.Scalar](ordering Ordering, first, second int, elements map[Coord]T, opts ...Option) (*Matrix[T], error) {
	m, err := New[T](ordering, first, second, opts...)
	if err != nil {
		return nil, err
	}

	for c := range elements {
		if c.First < 0 || c.First >= first || c.Second < 0 || c.Second >= second {
			return nil, &InvariantViolationError{
				Reason: fmt.Sprintf("coordinate (%d, %d) outside extents %d by %d", c.First, c.Second, first, second),
			}
		}
	}

	m.elements = maps.Clone(elements)
	if m.elements == nil {
		m.elements = make(map[Coord]T)
	}

	return m, nil
}

// NewFromCompressed returns a compressed-mode matrix holding copies of the
// given parallel sequences. The sequences must satisfy the compressed storage
// invariants: len(offsets) == first+1 with offsets[0] == 0 and non-decreasing
// entries, len(indices) == len(values) == offsets[first], and each segment's
// indices strictly increasing and below second.
func NewFromCompressed[T numeric.Scalar](ordering Ordering, first, second int, offsets, indices []int, values []T, opts ...Option) (*Matrix[T], error) {
	m, err := New[T](ordering, first, second, opts...)
	if err != nil {
		return nil, err
	}

	if len(offsets) != first+1 {
		return nil, &InvariantViolationError{
			Reason: fmt.Sprintf("segment offsets length %d, want %d", len(offsets), first+1),
		}
	}
	if offsets[0] != 0 {
		return nil, &InvariantViolationError{Reason: "segment offsets must start at 0"}
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return nil, &InvariantViolationError{
				Reason: fmt.Sprintf("segment offsets decrease at %d: %d < %d", i, offsets[i], offsets[i-1]),
			}
		}
	}
	if len(indices) != offsets[first] || len(values) != offsets[first] {
		return nil, &InvariantViolationError{
			Reason: fmt.Sprintf("indices/values lengths %d/%d, want %d", len(indices), len(values), offsets[first]),
		}
	}
	for j := 0; j < first; j++ {
		for k := offsets[j]; k < offsets[j+1]; k++ {
			if indices[k] < 0 || indices[k] >= second {
				return nil, &InvariantViolationError{
					Reason: fmt.Sprintf("index %d out of range in segment %d", indices[k], j),
				}
			}
			if k > offsets[j] && indices[k] <= indices[k-1] {
				return nil, &InvariantViolationError{
					Reason: fmt.Sprintf("indices not strictly increasing in segment %d", j),
				}
			}
		}
	}

	m.elements = nil
	m.compressed = true
	m.offsets = slices.Clone(offsets)
	m.indices = slices.Clone(indices)
	m.values = slices.Clone(values)

	return m, nil
}

func validateExtents(first, second int) error {
	if first <= 0 || second <= 0 {
		return &InvariantViolationError{
			Reason: fmt.Sprintf("extents must be positive, got %d by %d", first, second),
		}
	}
	return nil
}

// Ordering returns the matrix ordering.
func (m *Matrix[T]) Ordering() Ordering { return m.ordering }

// Tolerance returns the zero tolerance the matrix was configured with.
func (m *Matrix[T]) Tolerance() float64 { return m.opts.tolerance }

// Rows returns the logical row count.
func (m *Matrix[T]) Rows() int {
	if m.ordering == RowMajor {
		return m.first
	}
	return m.second
}

// Columns returns the logical column count.
func (m *Matrix[T]) Columns() int {
	if m.ordering == ColumnMajor {
		return m.first
	}
	return m.second
}

// Shape returns the logical (rows, columns) pair.
func (m *Matrix[T]) Shape() (rows, columns int) {
	return m.Rows(), m.Columns()
}

// Size returns the number of stored entries.
func (m *Matrix[T]) Size() int {
	if m.compressed {
		return len(m.values)
	}
	return len(m.elements)
}

// Sparsity returns the stored-entry count over the total extent product.
func (m *Matrix[T]) Sparsity() float64 {
	return float64(m.Size()) / (float64(m.first) * float64(m.second))
}

// Density returns 1 - Sparsity().
func (m *Matrix[T]) Density() float64 { return 1.0 - m.Sparsity() }

// IsCompressed reports whether the compressed representation is active.
func (m *Matrix[T]) IsCompressed() bool { return m.compressed }

// physical maps logical (row, col) to physical coordinates per the ordering.
func (m *Matrix[T]) physical(row, col int) Coord {
	if m.ordering == RowMajor {
		return Coord{First: row, Second: col}
	}
	return Coord{First: col, Second: row}
}

func (m *Matrix[T]) checkBounds(row, col int) error {
	if row < 0 || row >= m.Rows() || col < 0 || col >= m.Columns() {
		return &IndexError{Row: row, Col: col, Rows: m.Rows(), Cols: m.Columns()}
	}
	return nil
}

// At returns the entry at logical (row, col), or the additive identity when
// the entry is structurally absent. It works in both storage modes: sparse
// mode performs a keyed lookup, compressed mode scans the entry's segment.
func (m *Matrix[T]) At(row, col int) (T, error) {
	var zero T
	if err := m.checkBounds(row, col); err != nil {
		return zero, err
	}

	c := m.physical(row, col)
	if !m.compressed {
		return m.elements[c], nil
	}

	for k := m.offsets[c.First]; k < m.offsets[c.First+1]; k++ {
		if m.indices[k] == c.Second {
			return m.values[k], nil
		}
	}

	return zero, nil
}

// Set writes the entry at logical (row, col), creating it on first write.
// Only legal in sparse mode. Values within the zero tolerance are suppressed:
// the entry is removed rather than stored.
func (m *Matrix[T]) Set(row, col int, v T) error {
	if m.compressed {
		return &InvalidStateError{Op: "Set", Compressed: true}
	}
	if err := m.checkBounds(row, col); err != nil {
		return err
	}

	c := m.physical(row, col)
	if numeric.IsZero(v, m.opts.tolerance) {
		delete(m.elements, c)
		return nil
	}
	m.elements[c] = v

	return nil
}

// Insert writes a batch of entries addressed by physical coordinates. Only
// legal in sparse mode. Count mismatches and out-of-range coordinates are
// rejected before any write happens; values within the zero tolerance are
// suppressed entry by entry.
func (m *Matrix[T]) Insert(coords []Coord, values []T) error {
	if m.compressed {
		return &InvalidStateError{Op: "Insert", Compressed: true}
	}
	if len(coords) != len(values) {
		return &InvariantViolationError{
			Reason: fmt.Sprintf("coordinate/value count mismatch: %d vs %d", len(coords), len(values)),
		}
	}
	for _, c := range coords {
		if c.First < 0 || c.First >= m.first || c.Second < 0 || c.Second >= m.second {
			return &InvariantViolationError{
				Reason: fmt.Sprintf("coordinate (%d, %d) outside extents %d by %d", c.First, c.Second, m.first, m.second),
			}
		}
	}

	for i, c := range coords {
		if numeric.IsZero(values[i], m.opts.tolerance) {
			delete(m.elements, c)
			continue
		}
		m.elements[c] = values[i]
	}

	return nil
}

// Reshape returns a matrix with new physical extents over the same stored
// payload, in the same mode unless compress requests a transition.
// Compatibility of the payload with the new extents is the caller's
// responsibility and is not validated beyond extent positivity.
func (m *Matrix[T]) Reshape(first, second int, compress bool) (*Matrix[T], error) {
	if err := validateExtents(first, second); err != nil {
		return nil, err
	}

	out := &Matrix[T]{
		first:    first,
		second:   second,
		ordering: m.ordering,
		opts:     m.opts,
	}

	if !m.compressed {
		out.elements = maps.Clone(m.elements)
		if out.elements == nil {
			out.elements = make(map[Coord]T)
		}
		if compress {
			out.Compress()
		}
		return out, nil
	}

	out.compressed = true
	out.offsets = slices.Clone(m.offsets)
	out.indices = slices.Clone(m.indices)
	out.values = slices.Clone(m.values)
	if !compress {
		out.Uncompress()
	}

	return out, nil
}

// Clone returns a deep copy preserving the active mode and the full
// invariant set.
func (m *Matrix[T]) Clone() *Matrix[T] {
	out := &Matrix[T]{
		first:      m.first,
		second:     m.second,
		ordering:   m.ordering,
		opts:       m.opts,
		compressed: m.compressed,
	}

	if m.compressed {
		out.offsets = slices.Clone(m.offsets)
		out.indices = slices.Clone(m.indices)
		out.values = slices.Clone(m.values)
		return out
	}

	out.elements = maps.Clone(m.elements)
	if out.elements == nil {
		out.elements = make(map[Coord]T)
	}
	return out
}

// Row returns row i as a dense vector of length Columns(). Under RowMajor
// ordering the row is a single segment or key range; under ColumnMajor it
// takes a full pass across segments.
func (m *Matrix[T]) Row(i int) ([]T, error) {
	if i < 0 || i >= m.Rows() {
		return nil, &IndexError{Row: i, Col: 0, Rows: m.Rows(), Cols: m.Columns()}
	}
	if m.ordering == RowMajor {
		return m.segmentVector(i), nil
	}
	return m.crossVector(i), nil
}

// Column returns column k as a dense vector of length Rows(). The native and
// cross directions mirror Row.
func (m *Matrix[T]) Column(k int) ([]T, error) {
	if k < 0 || k >= m.Columns() {
		return nil, &IndexError{Row: 0, Col: k, Rows: m.Rows(), Cols: m.Columns()}
	}
	if m.ordering == ColumnMajor {
		return m.segmentVector(k), nil
	}
	return m.crossVector(k), nil
}

// segmentVector densifies physical segment j into a vector of length second.
func (m *Matrix[T]) segmentVector(j int) []T {
	out := make([]T, m.second)
	if m.compressed {
		for k := m.offsets[j]; k < m.offsets[j+1]; k++ {
			out[m.indices[k]] = m.values[k]
		}
		return out
	}
	for c, v := range m.elements {
		if c.First == j {
			out[c.Second] = v
		}
	}
	return out
}

// crossVector densifies secondary index k across all segments into a vector
// of length first.
func (m *Matrix[T]) crossVector(k int) []T {
	out := make([]T, m.first)
	if m.compressed {
		for j := 0; j < m.first; j++ {
			for h := m.offsets[j]; h < m.offsets[j+1]; h++ {
				if m.indices[h] == k {
					out[j] = m.values[h]
					break
				}
			}
		}
		return out
	}
	for c, v := range m.elements {
		if c.Second == k {
			out[c.First] = v
		}
	}
	return out
}

// segEntry is one sparse entry of a segment, used by the matrix product to
// densify segments without rescanning the whole mapping per segment.
type segEntry[T numeric.Scalar] struct {
	index int
	value T
}

// bucketBySegment groups the sparse mapping by primary index in one pass.
func (m *Matrix[T]) bucketBySegment() [][]segEntry[T] {
	buckets := make([][]segEntry[T], m.first)
	for c, v := range m.elements {
		buckets[c.First] = append(buckets[c.First], segEntry[T]{index: c.Second, value: v})
	}
	return buckets
}

// Entries returns a copy of the coordinate mapping. Only legal in sparse
// mode; it exists to support external writers such as the market package.
func (m *Matrix[T]) Entries() (map[Coord]T, error) {
	if m.compressed {
		return nil, &InvalidStateError{Op: "Entries", Compressed: true}
	}
	return maps.Clone(m.elements), nil
}

// SegmentOffsets returns a copy of the segment offset sequence. Only legal in
// compressed mode.
func (m *Matrix[T]) SegmentOffsets() ([]int, error) {
	if !m.compressed {
		return nil, &InvalidStateError{Op: "SegmentOffsets"}
	}
	return slices.Clone(m.offsets), nil
}

// SegmentIndices returns a copy of the secondary index sequence. Only legal
// in compressed mode.
func (m *Matrix[T]) SegmentIndices() ([]int, error) {
	if !m.compressed {
		return nil, &InvalidStateError{Op: "SegmentIndices"}
	}
	return slices.Clone(m.indices), nil
}

// SegmentValues returns a copy of the value sequence. Only legal in
// compressed mode.
func (m *Matrix[T]) SegmentValues() ([]T, error) {
	if !m.compressed {
		return nil, &InvalidStateError{Op: "SegmentValues"}
	}
	return slices.Clone(m.values), nil
}

// String renders the active representation: sorted coordinate entries in
// sparse mode, the three parallel sequences in compressed mode.
func (m *Matrix[T]) String() string {
	var b strings.Builder

	if !m.compressed {
		keys := slices.SortedFunc(maps.Keys(m.elements), compareCoords)
		for i, c := range keys {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "(%d, %d): %v", c.First, c.Second, m.elements[c])
		}
		return b.String()
	}

	fmt.Fprintf(&b, "Offsets: %v\n", m.offsets)
	fmt.Fprintf(&b, "Indices: %v\n", m.indices)
	fmt.Fprintf(&b, "Values: %v", m.values)
	return b.String()
}

// compareCoords orders coordinates lexicographically by (First, Second).
func compareCoords(a, b Coord) int {
	if a.First != b.First {
		return a.First - b.First
	}
	return a.Second - b.Second
}
