/*
Copyright © 2026 the streamnet authors.
This file is part of streamnet.

streamnet is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

streamnet is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with streamnet.  If not, see <http://www.gnu.org/licenses/>.
*/

package streamnet

// Point is a single CRS-coordinate vertex of a segment polyline.
type Point struct {
	X, Y float64
}

// Segments is a stream-segment network built once by Extract and
// thereafter mutated only by Keep/Remove/Prune, per spec §3.3.
type Segments struct {
	flow *Raster

	polylines [][]Point
	ids       []int
	indices   [][]Index2D
	npixels   []int
	child     []int
	parents   [][]int

	basins *Raster
}

// Len returns the number of segments.
func (s *Segments) Len() int { return len(s.ids) }

// Flow returns the immutable flow field the network was extracted from.
func (s *Segments) Flow() *Raster { return s.flow }

// ID returns the stable 1-based identifier of segment i.
func (s *Segments) ID(i int) int { return s.ids[i] }

// Polyline returns the CRS-coordinate vertices of segment i,
// upstream-to-downstream.
func (s *Segments) Polyline(i int) []Point { return s.polylines[i] }

// Indices returns the raster pixel indices of segment i,
// upstream-to-downstream.
func (s *Segments) Indices(i int) []Index2D { return s.indices[i] }

// Npixels returns the number of upslope pixels whose flow drains through
// segment i's outlet, a cached accumulation of the stream mask.
func (s *Segments) Npixels(i int) int { return s.npixels[i] }

// Child returns the index of segment i's downstream neighbor, or -1 if
// i is terminal.
func (s *Segments) Child(i int) int { return s.child[i] }

// Parents returns the indices of segment i's upstream neighbors, in no
// particular order, with no -1 padding.
func (s *Segments) Parents(i int) []int {
	out := make([]int, 0, len(s.parents[i]))
	for _, p := range s.parents[i] {
		if p >= 0 {
			out = append(out, p)
		}
	}
	return out
}

// IsTerminal reports whether segment i has no downstream neighbor.
func (s *Segments) IsTerminal(i int) bool { return s.child[i] == -1 }

// Outlet returns the final raster pixel of segment i.
func (s *Segments) Outlet(i int) Index2D {
	idx := s.indices[i]
	return idx[len(idx)-1]
}

// Outlets returns the outlet pixel of every segment, or (if terminal is
// true) only of terminal segments.
func (s *Segments) Outlets(terminal bool) []Index2D {
	var out []Index2D
	for i := range s.ids {
		if terminal && !s.IsTerminal(i) {
			continue
		}
		out = append(out, s.Outlet(i))
	}
	return out
}

// Clone returns a deep copy of s, including an independent copy of any
// cached basin raster.
func (s *Segments) Clone() *Segments {
	out := &Segments{flow: s.flow}
	out.polylines = make([][]Point, len(s.polylines))
	for i, p := range s.polylines {
		out.polylines[i] = append([]Point(nil), p...)
	}
	out.ids = append([]int(nil), s.ids...)
	out.indices = make([][]Index2D, len(s.indices))
	for i, idx := range s.indices {
		out.indices[i] = append([]Index2D(nil), idx...)
	}
	out.npixels = append([]int(nil), s.npixels...)
	out.child = append([]int(nil), s.child...)
	out.parents = make([][]int, len(s.parents))
	for i, p := range s.parents {
		out.parents[i] = append([]int(nil), p...)
	}
	if s.basins != nil {
		out.basins = s.basins.Clone()
	}
	return out
}

// Catchment returns a boolean raster marking every pixel whose flow
// drains through segment i's outlet: the single-segment upslope mask,
// supplementing the basin labeller with a per-segment view (spec §5
// supplemented feature).
func (s *Segments) Catchment(i int) (*Raster, error) {
	rows, cols := s.flow.Shape()
	mask := newBoolRaster(rows, cols, s.flow.transform)

	outlet := s.Outlet(i)
	visited := make(map[Index2D]bool)
	stack := []Index2D{outlet}
	inbound := s.inboundNeighbors()

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[p] {
			continue
		}
		visited[p] = true
		mask.data.Set(1, p.Row, p.Col)
		for _, n := range inbound[p.Row*cols+p.Col] {
			if !visited[n] {
				stack = append(stack, n)
			}
		}
	}
	return mask, nil
}

// inboundNeighbors computes, for every raster pixel, the list of
// neighboring pixels whose D8 code flows into it.
func (s *Segments) inboundNeighbors() [][]Index2D {
	rows, cols := s.flow.Shape()
	out := make([][]Index2D, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			code := int(s.flow.Get(i, j))
			if code == NoDataCode {
				continue
			}
			dr, dc, ok := D8Offset(code)
			if !ok {
				continue
			}
			ni, nj := i+dr, j+dc
			if ni < 0 || ni >= rows || nj < 0 || nj >= cols {
				continue
			}
			out[ni*cols+nj] = append(out[ni*cols+nj], Index2D{Row: i, Col: j})
		}
	}
	return out
}

func newBoolRaster(rows, cols int, t *Transform) *Raster {
	r, _ := FromArray(zeros(rows, cols), WithDType(Bool))
	if t != nil {
		tc := *t
		r.transform = &tc
	}
	return r
}

func zeros(rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
	}
	return out
}
