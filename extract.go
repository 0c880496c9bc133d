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

// ExtractOptions configures Extract.
type ExtractOptions struct {
	// MaxLength, if greater than zero, is the maximum segment length in
	// Units before a split vertex is inserted.
	MaxLength float64
	Units     LengthUnit
}

// Extract builds a Segments network from a D8 flow field and a boolean
// stream mask, per spec §4.D. mask must share flow's shape.
func Extract(flow *Raster, mask *Raster, opts ExtractOptions) (*Segments, error) {
	rows, cols := flow.Shape()
	mr, mc := mask.Shape()
	if mr != rows || mc != cols {
		return nil, &RasterShapeError{A: []int{rows, cols}, B: []int{mr, mc}}
	}

	inMask := func(i, j int) bool {
		if mask.IsNoData(i, j) {
			return false
		}
		return mask.Get(i, j) != 0
	}

	down := func(i, j int) (int, int, bool) {
		code := int(flow.Get(i, j))
		if code == NoDataCode {
			return 0, 0, false
		}
		dr, dc, ok := D8Offset(code)
		if !ok {
			return 0, 0, false
		}
		ni, nj := i+dr, j+dc
		if ni < 0 || ni >= rows || nj < 0 || nj >= cols {
			return 0, 0, false
		}
		if !inMask(ni, nj) {
			return 0, 0, false
		}
		return ni, nj, true
	}

	inboundCount := make(map[Index2D]int)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if !inMask(i, j) {
				continue
			}
			if ni, nj, ok := down(i, j); ok {
				inboundCount[Index2D{Row: ni, Col: nj}]++
			}
		}
	}

	isConfluence := func(i, j int) bool {
		return inboundCount[Index2D{Row: i, Col: j}] >= 2
	}

	// grow walks downstream from start, one raster pixel at a time,
	// stopping when the walk runs off the mask entirely (the current
	// pixel stays the chain's terminal vertex) or when the next pixel
	// is itself a confluence: a confluence is never absorbed into the
	// chain feeding it, since it always heads a segment of its own.
	grow := func(start Index2D) []Index2D {
		chain := []Index2D{start}
		cr, cc := start.Row, start.Col
		for {
			nr, nc, ok := down(cr, cc)
			if !ok || isConfluence(nr, nc) {
				break
			}
			chain = append(chain, Index2D{Row: nr, Col: nc})
			cr, cc = nr, nc
		}
		return chain
	}

	var chains [][]Index2D
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if inMask(i, j) && inboundCount[Index2D{Row: i, Col: j}] == 0 {
				chains = append(chains, grow(Index2D{Row: i, Col: j}))
			}
		}
	}
	// Every confluence both terminates the arms feeding it (above) and
	// starts a new segment continuing to the next break.
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if inMask(i, j) && isConfluence(i, j) {
				chains = append(chains, grow(Index2D{Row: i, Col: j}))
			}
		}
	}

	res, err := resolveLengthUnit(flow, opts)
	if err != nil {
		return nil, err
	}

	s := &Segments{flow: flow}
	outletOf := make(map[Index2D]int)
	for _, chain := range chains {
		pieces, err := splitChain(chain, opts.MaxLength, res)
		if err != nil {
			return nil, err
		}
		for _, piece := range pieces {
			idx := len(s.ids)
			s.ids = append(s.ids, idx+1)
			s.indices = append(s.indices, piece.indices)
			s.polylines = append(s.polylines, piece.points)
			outletOf[piece.indices[len(piece.indices)-1]] = idx
		}
	}

	n := len(s.ids)
	s.child = make([]int, n)
	for i := range s.child {
		s.child[i] = -1
	}
	parentsOf := make([][]int, n)
	for i := 0; i < n; i++ {
		out := s.indices[i][len(s.indices[i])-1]
		nr, nc, ok := down(out.Row, out.Col)
		if !ok {
			continue
		}
		if j, ok := headAt(s, nr, nc); ok {
			s.child[i] = j
			parentsOf[j] = append(parentsOf[j], i)
		}
	}
	maxK := 0
	for _, p := range parentsOf {
		if len(p) > maxK {
			maxK = len(p)
		}
	}
	s.parents = make([][]int, n)
	for i, p := range parentsOf {
		row := make([]int, maxK)
		for k := range row {
			row[k] = -1
		}
		copy(row, p)
		s.parents[i] = row
	}

	npix, err := Accumulate(flow, AccumulateOptions{Mask: mask})
	if err != nil {
		return nil, err
	}
	s.npixels = make([]int, n)
	for i := 0; i < n; i++ {
		out := s.indices[i][len(s.indices[i])-1]
		s.npixels[i] = int(npix.Get(out.Row, out.Col))
	}

	return s, nil
}

func headAt(s *Segments, row, col int) (int, bool) {
	for i, idx := range s.indices {
		if idx[0].Row == row && idx[0].Col == col {
			return i, true
		}
	}
	return -1, false
}

type chainPiece struct {
	indices []Index2D
	points  []Point
}

type lengthResolution struct {
	maxLen    float64
	transform *Transform
}

func resolveLengthUnit(flow *Raster, opts ExtractOptions) (lengthResolution, error) {
	if opts.MaxLength <= 0 {
		return lengthResolution{}, nil
	}
	if flow.transform == nil {
		return lengthResolution{}, &MissingTransformError{Op: "Extract"}
	}
	diag := flow.transform.PixelDiagonal()
	var maxLen float64
	switch opts.Units {
	case Pixels:
		maxLen = opts.MaxLength * flow.transform.Dx
	default:
		var y float64
		_, y = flow.transform.Center(1, 1)
		m, err := ConvertLength(opts.MaxLength, opts.Units, Base, flow.transform.Dx, flow.transform.CRS, y)
		if err != nil {
			return lengthResolution{}, err
		}
		maxLen = m
	}
	if maxLen < diag {
		return lengthResolution{}, &ValueError{Detail: "max_length must be at least the pixel diagonal"}
	}
	return lengthResolution{maxLen: maxLen, transform: flow.transform}, nil
}

// splitChain converts a pixel-index chain into one or more pieces, each
// with parallel raster indices and CRS-coordinate polyline vertices, per
// spec §4.D.3-5.
func splitChain(chain []Index2D, maxLength float64, res lengthResolution) ([]chainPiece, error) {
	t := res.transform
	vertex := func(idx Index2D) Point {
		x, y := t.PixelCenter(idx.Row, idx.Col)
		return Point{X: x, Y: y}
	}
	if t == nil {
		return nil, &MissingTransformError{Op: "Extract"}
	}
	if maxLength <= 0 {
		pts := make([]Point, len(chain))
		for i, idx := range chain {
			pts[i] = vertex(idx)
		}
		return []chainPiece{{indices: chain, points: pts}}, nil
	}

	var pieces []chainPiece
	curIndices := []Index2D{chain[0]}
	curPoints := []Point{vertex(chain[0])}
	curLen := 0.0

	pixelSize := t.Dx
	stepBetween := func(a, b Index2D) float64 {
		if a.Row != b.Row && a.Col != b.Col {
			return pixelSize * sqrt2
		}
		return pixelSize
	}
	for k := 1; k < len(chain); k++ {
		prev, cur := chain[k-1], chain[k]
		stepLen := stepBetween(prev, cur)
		// A piece that takes in cur must still run on to the next split
		// vertex, half of the following step.
		reach := curLen + stepLen
		if k+1 < len(chain) {
			reach += stepBetween(cur, chain[k+1]) / 2
		}
		if reach > maxLength {
			a, b := vertex(prev), vertex(cur)
			mid := Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
			curPoints = append(curPoints, mid)
			pieces = append(pieces, chainPiece{indices: curIndices, points: curPoints})
			curIndices = []Index2D{cur}
			curPoints = []Point{mid, vertex(cur)}
			curLen = stepLen / 2
			continue
		}
		curIndices = append(curIndices, cur)
		curPoints = append(curPoints, vertex(cur))
		curLen += stepLen
	}
	pieces = append(pieces, chainPiece{indices: curIndices, points: curPoints})
	return pieces, nil
}
