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

import (
	"math"

	"github.com/ctessum/sparse"
)

// AccumulateOptions configures Accumulate.
type AccumulateOptions struct {
	// Weights, if non-nil, must share flow's shape; nil is equivalent to
	// all ones. NoData weights count as NaN.
	Weights *Raster
	// Mask, if non-nil, must share flow's shape; pixels where Mask is
	// false (or NoData) never contribute weight.
	Mask *Raster
	// OmitNaN controls NaN propagation: false means any NaN weight taints
	// every downstream pixel; true means NaNs are skipped additively.
	OmitNaN bool
}

// Accumulate computes, for every pixel p, the sum of weight(q) over all
// pixels q whose deterministic D8 path reaches p, restricted to pixels
// where mask(q) holds, per spec §4.C.
func Accumulate(flow *Raster, opts AccumulateOptions) (*Raster, error) {
	rows, cols := flow.Shape()
	if opts.Weights != nil {
		wr, wc := opts.Weights.Shape()
		if wr != rows || wc != cols {
			return nil, &RasterShapeError{A: []int{rows, cols}, B: []int{wr, wc}}
		}
	}
	if opts.Mask != nil {
		mr, mc := opts.Mask.Shape()
		if mr != rows || mc != cols {
			return nil, &RasterShapeError{A: []int{rows, cols}, B: []int{mr, mc}}
		}
	}

	// downTo[p] is the flat index of the pixel p drains directly into, or
	// -1 if p has no valid downstream neighbor (off-grid, NoData code, or
	// draining into a NoData pixel). indegree[p] counts p's direct
	// inbound neighbors; a pixel becomes eligible for processing only
	// once every inbound neighbor's contribution has been folded in.
	downTo := make([]int, rows*cols)
	indegree := make([]int, rows*cols)
	for idx := range downTo {
		downTo[idx] = -1
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			code := flow.Get(i, j)
			if !ValidD8Code(code) {
				return nil, &InvalidFlowFieldError{Reason: BadCode, Row: i, Col: j, Value: code}
			}
			c := int(code)
			if c == NoDataCode {
				continue
			}
			dr, dc, _ := D8Offset(c)
			ni, nj := i+dr, j+dc
			if ni < 0 || ni >= rows || nj < 0 || nj >= cols {
				continue
			}
			if int(flow.Get(ni, nj)) == NoDataCode {
				continue
			}
			from := i*cols + j
			to := ni*cols + nj
			downTo[from] = to
			indegree[to]++
		}
	}

	weightAt := func(i, j int) (float64, bool) {
		if opts.Mask != nil {
			mv := opts.Mask.Get(i, j)
			if opts.Mask.IsNoData(i, j) || mv == 0 {
				return 0, false
			}
		}
		if opts.Weights == nil {
			return 1, true
		}
		if opts.Weights.IsNoData(i, j) {
			return math.NaN(), true
		}
		return opts.Weights.Get(i, j), true
	}

	// Process in topological order (sources first) via Kahn's algorithm
	// over the downstream links, which form a forest once cycles are
	// excluded; a bounded visit count guards against the unspecified-but-
	// bounded cycle case called out in the accumulator contract.
	sum := make([]float64, rows*cols)
	isNaN := make([]bool, rows*cols)
	queue := make([]int, 0, rows*cols)
	visited := make([]int, rows*cols)

	for idx := 0; idx < rows*cols; idx++ {
		i, j := idx/cols, idx%cols
		w, ok := weightAt(i, j)
		if ok {
			if math.IsNaN(w) {
				if opts.OmitNaN {
					w = 0
				} else {
					isNaN[idx] = true
				}
			}
			sum[idx] += w
		}
	}

	for idx := range indegree {
		if indegree[idx] == 0 {
			queue = append(queue, idx)
		}
	}

	const maxVisits = 1
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		visited[idx]++
		if visited[idx] > maxVisits {
			continue
		}
		to := downTo[idx]
		if to == -1 {
			continue
		}
		sum[to] += sum[idx]
		isNaN[to] = isNaN[to] || isNaN[idx]
		indegree[to]--
		if indegree[to] == 0 {
			queue = append(queue, to)
		}
	}

	data := sparse.ZerosDense(rows, cols)
	for idx := 0; idx < rows*cols; idx++ {
		i, j := idx/cols, idx%cols
		if isNaN[idx] {
			data.Set(math.NaN(), i, j)
		} else {
			data.Set(sum[idx], i, j)
		}
	}

	out := &Raster{data: data, dtype: Float64, nodata: math.NaN(), hasNoData: true}
	if flow.transform != nil {
		t := *flow.transform
		out.transform = &t
	}
	return out, nil
}
