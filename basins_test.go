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

import "testing"

// TestBasinsNested reproduces spec §8 scenario 6: an unbroken westward
// flow field with a single-pixel gap in the stream mask splits Extract
// into two disjoint segment networks, even though their true upslope
// areas (traced along the unbroken flow field) nest: the downstream
// network's basin fully contains the upstream network's. The basin
// raster must let the nested (upstream) terminus keep its own pixels
// and give the enclosing (downstream) terminus only what is left.
func TestBasinsNested(t *testing.T) {
	flow := flowRaster(t, [][]float64{{5, 5, 5, 5, 5}})
	mask := maskRaster(t, [][]float64{{1, 1, 0, 1, 1}})

	s, err := Extract(flow, mask, ExtractOptions{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (the mask gap splits the chain in two)", s.Len())
	}
	if s.NLocal() != 2 {
		t.Fatalf("NLocal() = %d, want 2 (no segment bridges the gap)", s.NLocal())
	}

	inner, ok := headAt(s, 0, 4) // outlet (0,3): the upstream, nested terminus
	if !ok {
		t.Fatal("expected a segment headed at (0,4)")
	}
	outer, ok := headAt(s, 0, 1) // outlet (0,0): the downstream, enclosing terminus
	if !ok {
		t.Fatal("expected a segment headed at (0,1)")
	}
	if s.Npixels(inner) >= s.Npixels(outer) {
		t.Fatalf("Npixels(inner)=%d should be smaller than Npixels(outer)=%d: the enclosing basin must be larger", s.Npixels(inner), s.Npixels(outer))
	}

	basins, err := s.Basins(BasinOptions{})
	if err != nil {
		t.Fatalf("Basins: %v", err)
	}

	innerID := float64(s.ID(inner))
	outerID := float64(s.ID(outer))

	// The nested terminus's own two pixels stay labelled with its id...
	if basins.Get(0, 3) != innerID || basins.Get(0, 4) != innerID {
		t.Errorf("basins at (0,3),(0,4) = %v,%v, want both %v (nested terminus)", basins.Get(0, 3), basins.Get(0, 4), innerID)
	}
	// ...and the enclosing terminus only keeps what's left.
	if basins.Get(0, 0) != outerID || basins.Get(0, 1) != outerID || basins.Get(0, 2) != outerID {
		t.Errorf("basins at (0,0),(0,1),(0,2) = %v,%v,%v, want all %v (enclosing terminus)",
			basins.Get(0, 0), basins.Get(0, 1), basins.Get(0, 2), outerID)
	}
}

func TestBasinsCached(t *testing.T) {
	flow := flowRaster(t, [][]float64{{5, 5, 5}})
	mask := maskRaster(t, [][]float64{{1, 1, 1}})
	s, err := Extract(flow, mask, ExtractOptions{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	first, err := s.Basins(BasinOptions{})
	if err != nil {
		t.Fatalf("Basins: %v", err)
	}
	second, err := s.Basins(BasinOptions{})
	if err != nil {
		t.Fatalf("Basins: %v", err)
	}
	if !first.Equal(second) {
		t.Error("repeated Basins() calls should return identical, cached results")
	}
}

func TestBasinsSingleOutletLabelsWholeCatchment(t *testing.T) {
	flow := flowRaster(t, [][]float64{{5, 5, 5}})
	mask := maskRaster(t, [][]float64{{1, 1, 1}})
	s, err := Extract(flow, mask, ExtractOptions{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	basins, err := s.Basins(BasinOptions{})
	if err != nil {
		t.Fatalf("Basins: %v", err)
	}
	id := float64(s.ID(0))
	for j := 0; j < 3; j++ {
		if basins.Get(0, j) != id {
			t.Errorf("basins at (0,%d) = %v, want %v", j, basins.Get(0, j), id)
		}
	}
}
