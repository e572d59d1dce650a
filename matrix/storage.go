package matrix

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	shypn "github.com/simao-eugenio/shypn-sub007"
)

// StorageKind selects how the input and output matrices are stored. The two
// strategies answer every query identically; the choice is a space/time
// trade-off for large sparse nets versus small dense ones.
type StorageKind int

const (
	// Sparse keeps per-transition arc lists. Memory scales with the number
	// of arcs.
	Sparse StorageKind = iota
	// Dense keeps full gonum matrices. Memory scales with places times
	// transitions.
	Dense
)

func (k StorageKind) String() string {
	switch k {
	case Sparse:
		return "sparse"
	case Dense:
		return "dense"
	default:
		return fmt.Sprintf("StorageKind(%d)", int(k))
	}
}

// ParseStorageKind converts a name as produced by StorageKind.String back to
// the enum value.
func ParseStorageKind(s string) (StorageKind, error) {
	switch s {
	case "sparse":
		return Sparse, nil
	case "dense":
		return Dense, nil
	default:
		return 0, fmt.Errorf("parse storage kind %q: %w", s, shypn.ErrInvalidParameter)
	}
}

// Entry is one cell of an incidence matrix: the weight a transition moves
// through a single place.
type Entry struct {
	Place  int
	Weight float64
}

type storage interface {
	addInput(t, p int, w float64)
	addOutput(t, p int, w float64)
	input(t, p int) float64
	output(t, p int) float64
	// inputs and outputs list the non-zero cells of row t in ascending
	// place order. Both strategies must produce identical lists.
	inputs(t int) []Entry
	outputs(t int) []Entry
}

func newStorage(kind StorageKind, nt, np int) storage {
	// gonum rejects zero-sized matrices, so degenerate nets always get the
	// sparse strategy.
	if kind == Dense && nt > 0 && np > 0 {
		return &denseStorage{
			np:  np,
			in:  mat.NewDense(nt, np, nil),
			out: mat.NewDense(nt, np, nil),
		}
	}
	return &sparseStorage{
		in:  make(map[int][]Entry),
		out: make(map[int][]Entry),
	}
}

type sparseStorage struct {
	in  map[int][]Entry
	out map[int][]Entry
}

func addEntry(row []Entry, p int, w float64) []Entry {
	i := sort.Search(len(row), func(i int) bool { return row[i].Place >= p })
	if i < len(row) && row[i].Place == p {
		row[i].Weight += w
		return row
	}
	row = append(row, Entry{})
	copy(row[i+1:], row[i:])
	row[i] = Entry{Place: p, Weight: w}
	return row
}

func rowWeight(row []Entry, p int) float64 {
	i := sort.Search(len(row), func(i int) bool { return row[i].Place >= p })
	if i < len(row) && row[i].Place == p {
		return row[i].Weight
	}
	return 0
}

func (s *sparseStorage) addInput(t, p int, w float64)  { s.in[t] = addEntry(s.in[t], p, w) }
func (s *sparseStorage) addOutput(t, p int, w float64) { s.out[t] = addEntry(s.out[t], p, w) }
func (s *sparseStorage) input(t, p int) float64        { return rowWeight(s.in[t], p) }
func (s *sparseStorage) output(t, p int) float64       { return rowWeight(s.out[t], p) }
func (s *sparseStorage) inputs(t int) []Entry          { return s.in[t] }
func (s *sparseStorage) outputs(t int) []Entry         { return s.out[t] }

type denseStorage struct {
	np      int
	in, out *mat.Dense
}

func denseRow(m *mat.Dense, t, np int) []Entry {
	var row []Entry
	for p := 0; p < np; p++ {
		if w := m.At(t, p); w != 0 {
			row = append(row, Entry{Place: p, Weight: w})
		}
	}
	return row
}

func (s *denseStorage) addInput(t, p int, w float64)  { s.in.Set(t, p, s.in.At(t, p)+w) }
func (s *denseStorage) addOutput(t, p int, w float64) { s.out.Set(t, p, s.out.At(t, p)+w) }
func (s *denseStorage) input(t, p int) float64        { return s.in.At(t, p) }
func (s *denseStorage) output(t, p int) float64       { return s.out.At(t, p) }
func (s *denseStorage) inputs(t int) []Entry          { return denseRow(s.in, t, s.np) }
func (s *denseStorage) outputs(t int) []Entry         { return denseRow(s.out, t, s.np) }
