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

func TestReprojectRequiresTransform(t *testing.T) {
	r, err := FromArray([][]float64{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatalf("FromArray: %v", err)
	}
	if _, err := r.Reproject(nil, unitTransform(), Nearest, nil); err == nil {
		t.Fatal("Reproject on a raster with no transform should fail")
	}
}

func TestReprojectRequiresNoData(t *testing.T) {
	r, err := FromArray([][]float64{{1, 2}, {3, 4}}, WithTransform(unitTransform()))
	if err != nil {
		t.Fatalf("FromArray: %v", err)
	}
	if _, err := r.Reproject(nil, unitTransform(), Nearest, nil); err == nil {
		t.Fatal("Reproject on a raster without NoData and no override should fail")
	}
	fill := -9999.0
	if _, err := r.Reproject(nil, unitTransform(), Nearest, &fill); err != nil {
		t.Errorf("Reproject with an explicit nodata override should succeed: %v", err)
	}
}

// TestReprojectIdentityNearest reprojects onto an identical transform
// with no CRS change: every destination pixel should resolve to its
// corresponding source pixel under nearest-neighbor resampling.
func TestReprojectIdentityNearest(t *testing.T) {
	src := valueRaster(t, [][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})
	out, err := src.Reproject(nil, unitTransform(), Nearest, nil)
	if err != nil {
		t.Fatalf("Reproject: %v", err)
	}
	rows, cols := out.Shape()
	if rows != 3 || cols != 3 {
		t.Fatalf("Shape() = (%d,%d), want (3,3)", rows, cols)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if out.Get(i, j) != src.Get(i, j) {
				t.Errorf("out.Get(%d,%d) = %v, want %v", i, j, out.Get(i, j), src.Get(i, j))
			}
		}
	}
}

// TestReprojectCoarserAverage halves the resolution of a 4x4 raster
// into a 2x2 raster using Average resampling over each destination
// pixel's nearest-source 3x3 neighborhood.
func TestReprojectCoarserAverage(t *testing.T) {
	src := valueRaster(t, [][]float64{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
		{13, 14, 15, 16},
	})
	dst := Transform{Dx: 2, Dy: -2, Left: 0, Top: 0}
	out, err := src.Reproject(nil, dst, Average, nil)
	if err != nil {
		t.Fatalf("Reproject: %v", err)
	}
	rows, cols := out.Shape()
	if rows != 2 || cols != 2 {
		t.Fatalf("Shape() = (%d,%d), want (2,2)", rows, cols)
	}
	want := [2][2]float64{
		{6, 7.5},
		{12, 13.5},
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if out.Get(i, j) != want[i][j] {
				t.Errorf("out.Get(%d,%d) = %v, want %v", i, j, out.Get(i, j), want[i][j])
			}
		}
	}
}
