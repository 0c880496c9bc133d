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

import "math"

// unitTransform is a 1x1-pixel-per-unit transform with top-left origin
// at (0, 0), matching the pixel-center convention used throughout the
// literal test scenarios in spec §8.
func unitTransform() Transform {
	return Transform{Dx: 1, Dy: -1, Left: 0, Top: 0}
}

// flowRaster builds a D8 flow-direction raster from literal codes,
// row-major, with NoData 0 and a unit transform.
func flowRaster(t testingT, codes [][]float64) *Raster {
	t.Helper()
	r, err := FromArray(codes, WithTransform(unitTransform()), WithNoData(0), WithDType(Int64))
	if err != nil {
		t.Fatalf("flowRaster: %v", err)
	}
	return r
}

// maskRaster builds a boolean stream-pixel mask from literal 0/1 values.
func maskRaster(t testingT, vals [][]float64) *Raster {
	t.Helper()
	r, err := FromArray(vals, WithTransform(unitTransform()), WithDType(Bool))
	if err != nil {
		t.Fatalf("maskRaster: %v", err)
	}
	return r
}

// valueRaster builds a float raster with NaN NoData and a unit transform.
func valueRaster(t testingT, vals [][]float64) *Raster {
	t.Helper()
	r, err := FromArray(vals, WithTransform(unitTransform()), WithNoData(math.NaN()))
	if err != nil {
		t.Fatalf("valueRaster: %v", err)
	}
	return r
}

// testingT is the subset of *testing.T used by fixture helpers, so they
// can run from both _test.go files without importing "testing" here.
type testingT interface {
	Helper()
	Fatalf(format string, args ...interface{})
}
