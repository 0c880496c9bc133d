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

const testLCC = "+proj=lcc +lat_1=33.000000 +lat_2=45.000000 +lat_0=40.000000 " +
	"+lon_0=-97.000000 +x_0=0 +y_0=0 +a=6370997.000000 +b=6370997.000000 +to_meter=1"

func TestCRSEqual(t *testing.T) {
	a, err := ParseCRS(testLCC)
	if err != nil {
		t.Fatalf("ParseCRS: %v", err)
	}
	b, err := ParseCRS(testLCC)
	if err != nil {
		t.Fatalf("ParseCRS: %v", err)
	}
	if !a.Equal(b) {
		t.Error("two CRSs parsed from the same proj4 string should be equal")
	}

	geo, err := ParseCRS("+proj=longlat")
	if err != nil {
		t.Fatalf("ParseCRS(longlat): %v", err)
	}
	if a.Equal(geo) {
		t.Error("a projected and a geographic CRS should not be equal")
	}
}

func TestCRSIsGeographic(t *testing.T) {
	geo, err := ParseCRS("+proj=longlat")
	if err != nil {
		t.Fatalf("ParseCRS(longlat): %v", err)
	}
	if !geo.IsGeographic() {
		t.Error("longlat CRS should report IsGeographic() = true")
	}
	if geo.Units() != "degree" {
		t.Errorf("Units() = %q, want degree", geo.Units())
	}

	projected, err := ParseCRS(testLCC)
	if err != nil {
		t.Fatalf("ParseCRS(lcc): %v", err)
	}
	if projected.IsGeographic() {
		t.Error("an lcc CRS should report IsGeographic() = false")
	}
}

func TestCRSNilIsSafe(t *testing.T) {
	var c *CRS
	if c.IsGeographic() {
		t.Error("a nil CRS should not be geographic")
	}
	if c.Units() != "" {
		t.Errorf("Units() of a nil CRS = %q, want empty", c.Units())
	}
	var c2 *CRS
	if !c.Equal(c2) {
		t.Error("two nil CRSs should compare equal")
	}
	if c.Equal(projectedForTest(t)) {
		t.Error("a nil CRS should not equal a non-nil one")
	}
}

func projectedForTest(t *testing.T) *CRS {
	t.Helper()
	c, err := ParseCRS(testLCC)
	if err != nil {
		t.Fatalf("ParseCRS: %v", err)
	}
	return c
}

func TestReprojectRoundTrip(t *testing.T) {
	geo, err := ParseCRS("+proj=longlat")
	if err != nil {
		t.Fatalf("ParseCRS(longlat): %v", err)
	}
	lcc, err := ParseCRS(testLCC)
	if err != nil {
		t.Fatalf("ParseCRS(lcc): %v", err)
	}

	xs, ys := []float64{-97, -95}, []float64{40, 41}
	px, py, err := Reproject(geo, lcc, xs, ys)
	if err != nil {
		t.Fatalf("Reproject to lcc: %v", err)
	}
	bx, by, err := Reproject(lcc, geo, px, py)
	if err != nil {
		t.Fatalf("Reproject back to longlat: %v", err)
	}
	for i := range xs {
		if !almostEqual(bx[i], xs[i], 1e-6) || !almostEqual(by[i], ys[i], 1e-6) {
			t.Errorf("round trip[%d] = (%v,%v), want (%v,%v)", i, bx[i], by[i], xs[i], ys[i])
		}
	}
}

func TestReprojectRequiresBothCRS(t *testing.T) {
	lcc, _ := ParseCRS(testLCC)
	if _, _, err := Reproject(nil, lcc, []float64{0}, []float64{0}); err == nil {
		t.Fatal("Reproject with a nil source CRS should fail")
	}
	if _, _, err := Reproject(lcc, nil, []float64{0}, []float64{0}); err == nil {
		t.Fatal("Reproject with a nil destination CRS should fail")
	}
}

func almostEqual(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}
