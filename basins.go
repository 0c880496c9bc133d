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
	"context"
	"fmt"
	"runtime"

	"github.com/ctessum/requestcache"
	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
)

// BasinOptions configures Basins.
type BasinOptions struct {
	Parallel   bool
	NProcesses int
}

// Basins returns an integer raster, the same shape as the flow field,
// labelling each pixel with the id of its terminal outlet segment (0 for
// pixels that do not drain to any retained terminus), per spec §4.F. The
// result is cached on s and invalidated by any filtering operation that
// changes a terminus.
func (s *Segments) Basins(opts BasinOptions) (*Raster, error) {
	if s.basins != nil {
		return s.basins, nil
	}

	inbound := s.inboundNeighbors()
	networks := s.localNetworks()

	nproc := opts.NProcesses
	if nproc <= 0 {
		nproc = runtime.NumCPU() - 1
		if nproc < 1 {
			nproc = 1
		}
	}
	if !opts.Parallel {
		nproc = 1
	}
	log.WithFields(logrus.Fields{
		"local_networks": len(networks),
		"workers":        nproc,
	}).Debug("labelling basins")

	processor := func(ctx context.Context, payload interface{}) (interface{}, error) {
		net := payload.([]int)
		return s.labelNetwork(net, inbound), nil
	}
	cache := requestcache.NewCache(processor, nproc, requestcache.Memory(len(networks)+1))

	// Networks are merged largest-basin-first so that a smaller, nested
	// network's labels overwrite the larger, outer network's claim on
	// their shared pixels: per spec §4.F, a nested terminus's own
	// upslope area stays labelled with its id, and the enclosing
	// terminus only keeps what's left. Network size is approximated by
	// the maximum npixels among its termini. This ordering, not worker
	// completion order, determines the result, so it stays deterministic
	// regardless of nproc.
	order := make([]int, len(networks))
	for k := range order {
		order[k] = k
	}
	size := make([]int, len(networks))
	for k, net := range networks {
		for _, i := range net {
			if s.IsTerminal(i) && s.npixels[i] > size[k] {
				size[k] = s.npixels[i]
			}
		}
	}
	for a := 0; a < len(order); a++ {
		for b := a + 1; b < len(order); b++ {
			if size[order[b]] > size[order[a]] {
				order[a], order[b] = order[b], order[a]
			}
		}
	}

	rows, cols := s.flow.Shape()
	merged := sparse.ZerosDense(rows, cols)

	reqs := make([]*requestcache.Request, len(networks))
	for k, net := range networks {
		reqs[k] = cache.NewRequest(context.Background(), net, fmt.Sprintf("network-%d", k))
	}
	for _, k := range order {
		result, err := reqs[k].Result()
		if err != nil {
			return nil, err
		}
		partial := result.(*sparse.DenseArray)
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				v := partial.Get(i, j)
				if v != 0 {
					merged.Set(v, i, j)
				}
			}
		}
	}

	out := &Raster{data: merged, dtype: Int64, nodata: 0, hasNoData: true}
	if s.flow.transform != nil {
		t := *s.flow.transform
		out.transform = &t
	}
	s.basins = out
	return out, nil
}

// labelNetwork computes the basin labels contributed by one local
// network by flood-filling upstream from each of its termini. A pixel
// keeps the label of the first terminus whose fill reaches it.
func (s *Segments) labelNetwork(net []int, inbound [][]Index2D) *sparse.DenseArray {
	rows, cols := s.flow.Shape()
	out := sparse.ZerosDense(rows, cols)

	var termini []int
	inNet := make(map[int]bool)
	for _, i := range net {
		inNet[i] = true
	}
	for _, i := range net {
		if s.IsTerminal(i) {
			termini = append(termini, i)
		}
	}
	// Sort termini by ancestor count, fewest first. Each local network
	// has a single terminus, so nesting between networks is resolved by
	// the merge order in Basins, not here.
	depth := make(map[int]int)
	for _, t := range termini {
		depth[t] = len(s.Ancestors(t))
	}
	for a := 0; a < len(termini); a++ {
		for b := a + 1; b < len(termini); b++ {
			if depth[termini[b]] < depth[termini[a]] {
				termini[a], termini[b] = termini[b], termini[a]
			}
		}
	}

	visited := make([]bool, rows*cols)
	for _, t := range termini {
		id := s.ID(t)
		outlet := s.Outlet(t)
		stack := []Index2D{outlet}
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			flat := p.Row*cols + p.Col
			if visited[flat] {
				continue
			}
			visited[flat] = true
			out.Set(float64(id), p.Row, p.Col)
			for _, n := range inbound[flat] {
				nf := n.Row*cols + n.Col
				if !visited[nf] {
					stack = append(stack, n)
				}
			}
		}
	}
	return out
}

// invalidateBasins clears the cached basin raster; called whenever a
// filtering operation changes the set of termini.
func (s *Segments) invalidateBasins() {
	s.basins = nil
}
