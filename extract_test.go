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
	"testing"
)

// TestExtractSingleChain reproduces spec §8 scenario 1: a 1x5 westward
// flow entirely in the mask forms a single five-pixel segment.
func TestExtractSingleChain(t *testing.T) {
	flow := flowRaster(t, [][]float64{{5, 5, 5, 5, 5}})
	mask := maskRaster(t, [][]float64{{1, 1, 1, 1, 1}})

	s, err := Extract(flow, mask, ExtractOptions{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if s.ID(0) != 1 {
		t.Errorf("ID(0) = %d, want 1", s.ID(0))
	}
	want := []Index2D{{Row: 0, Col: 4}, {Row: 0, Col: 3}, {Row: 0, Col: 2}, {Row: 0, Col: 1}, {Row: 0, Col: 0}}
	got := s.Indices(0)
	if len(got) != len(want) {
		t.Fatalf("Indices(0) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Indices(0)[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if !s.IsTerminal(0) {
		t.Error("the only segment should be terminal")
	}
	if len(s.Parents(0)) != 0 {
		t.Errorf("Parents(0) = %v, want none", s.Parents(0))
	}
	if s.Npixels(0) != 5 {
		t.Errorf("Npixels(0) = %d, want 5", s.Npixels(0))
	}
	termini := s.Termini()
	if len(termini) != 1 || termini[0] != 0 {
		t.Errorf("Termini() = %v, want [0]", termini)
	}
}

// TestExtractConfluence reproduces spec §8 scenario 2: two headwater
// arms drain into a confluence pixel, which is itself the basin outlet
// (its downstream neighbor is outside the mask).
func TestExtractConfluence(t *testing.T) {
	// (0,0) flows SE into the center; (0,2) flows SW into the center;
	// the center (1,1) flows south into a pixel that is not in mask, so
	// the confluence is itself a terminal, single-pixel segment.
	flow := flowRaster(t, [][]float64{
		{2, 0, 4},
		{0, 3, 0},
		{0, 0, 0},
	})
	mask := maskRaster(t, [][]float64{
		{1, 0, 1},
		{0, 1, 0},
		{0, 0, 0},
	})

	s, err := Extract(flow, mask, ExtractOptions{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	arm1, ok1 := headAt(s, 0, 0)
	arm2, ok2 := headAt(s, 0, 2)
	confluence, ok3 := headAt(s, 1, 1)
	if !ok1 || !ok2 || !ok3 {
		t.Fatalf("expected segments headed at (0,0), (0,2) and (1,1); got arm1=%v arm2=%v confluence=%v", ok1, ok2, ok3)
	}

	if len(s.Indices(arm1)) != 1 || len(s.Indices(arm2)) != 1 {
		t.Errorf("arm segments should be single-pixel: indices(arm1)=%v indices(arm2)=%v", s.Indices(arm1), s.Indices(arm2))
	}
	if len(s.Indices(confluence)) != 1 || s.Indices(confluence)[0] != (Index2D{Row: 1, Col: 1}) {
		t.Errorf("confluence segment should be the single pixel (1,1), got %v", s.Indices(confluence))
	}

	if s.Child(arm1) != confluence || s.Child(arm2) != confluence {
		t.Errorf("child(arm1)=%d child(arm2)=%d, want both = %d", s.Child(arm1), s.Child(arm2), confluence)
	}
	if !s.IsTerminal(confluence) {
		t.Error("confluence segment should be terminal: its downstream neighbor is outside the mask")
	}

	parents := s.Parents(confluence)
	if len(parents) != 2 || !containsInt(parents, arm1) || !containsInt(parents, arm2) {
		t.Errorf("Parents(confluence) = %v, want {%d,%d}", parents, arm1, arm2)
	}

	if s.Npixels(arm1) != 1 || s.Npixels(arm2) != 1 {
		t.Errorf("Npixels(arm1)=%d Npixels(arm2)=%d, want 1,1", s.Npixels(arm1), s.Npixels(arm2))
	}
	if s.Npixels(confluence) != 3 {
		t.Errorf("Npixels(confluence) = %d, want 3", s.Npixels(confluence))
	}
}

// TestExtractSplitting reproduces spec §8 scenario 3: a 1x6 chain with
// max_length=3 on unit pixels splits into two three-pixel-long pieces
// joined at the midpoint.
func TestExtractSplitting(t *testing.T) {
	flow := flowRaster(t, [][]float64{{5, 5, 5, 5, 5, 5}})
	mask := maskRaster(t, [][]float64{{1, 1, 1, 1, 1, 1}})

	s, err := Extract(flow, mask, ExtractOptions{MaxLength: 3, Units: Base})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	head, ok := headAt(s, 0, 5)
	if !ok {
		t.Fatal("expected a segment headed at (0,5)")
	}
	tail := s.Child(head)
	if tail == -1 {
		t.Fatal("the head piece should have a downstream child")
	}
	if !s.IsTerminal(tail) {
		t.Error("the tail piece should be terminal")
	}
	if len(s.Parents(tail)) != 1 || s.Parents(tail)[0] != head {
		t.Errorf("Parents(tail) = %v, want [%d]", s.Parents(tail), head)
	}

	// Per spec §8 scenario 3's general invariant: every piece's polyline
	// length is at most max_length, and only the trailing piece of a
	// chain may fall short of it.
	headLen := polylineLength(s.Polyline(head))
	tailLen := polylineLength(s.Polyline(tail))
	if headLen > 3+1e-9 || tailLen > 3+1e-9 {
		t.Errorf("piece lengths = %v, %v, want both <= 3", headLen, tailLen)
	}

	// Every pixel partitions across exactly the two pieces.
	total := len(s.Indices(head)) + len(s.Indices(tail))
	if total != 6 {
		t.Errorf("combined pixel count = %d, want 6", total)
	}
}

func TestExtractShapeMismatch(t *testing.T) {
	flow := flowRaster(t, [][]float64{{1, 5}})
	mask := maskRaster(t, [][]float64{{1}})
	if _, err := Extract(flow, mask, ExtractOptions{}); err == nil {
		t.Fatal("Extract with mismatched mask shape should fail")
	}
}

func TestExtractMaxLengthBelowPixelDiagonal(t *testing.T) {
	flow := flowRaster(t, [][]float64{{5, 5}})
	mask := maskRaster(t, [][]float64{{1, 1}})
	if _, err := Extract(flow, mask, ExtractOptions{MaxLength: 0.1, Units: Base}); err == nil {
		t.Fatal("max_length below the pixel diagonal should fail")
	}
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func polylineLength(pts []Point) float64 {
	var total float64
	for i := 1; i < len(pts); i++ {
		dx := pts[i].X - pts[i-1].X
		dy := pts[i].Y - pts[i-1].Y
		total += math.Sqrt(dx*dx + dy*dy)
	}
	return total
}
