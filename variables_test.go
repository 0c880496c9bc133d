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

func fiveColChainSegments(t *testing.T) *Segments {
	t.Helper()
	flow := flowRaster(t, [][]float64{{5, 5, 5, 5, 5}})
	mask := maskRaster(t, [][]float64{{1, 1, 1, 1, 1}})
	s, err := Extract(flow, mask, ExtractOptions{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return s
}

func TestAreaCountsCatchmentPixels(t *testing.T) {
	s := fiveColChainSegments(t)
	area, err := Area(s, nil, VariableOptions{})
	if err != nil {
		t.Fatalf("Area: %v", err)
	}
	if area[0] != 5 {
		t.Errorf("Area() = %v, want 5 (5 catchment pixels at unit pixel area)", area[0])
	}
}

func TestBurnRatioAndBurnedArea(t *testing.T) {
	s := fiveColChainSegments(t)
	burn := maskRaster(t, [][]float64{{1, 1, 0, 0, 0}})

	ratio, err := BurnRatio(s, burn, VariableOptions{})
	if err != nil {
		t.Fatalf("BurnRatio: %v", err)
	}
	if ratio[0] != 0.4 {
		t.Errorf("BurnRatio() = %v, want 0.4", ratio[0])
	}

	area, err := BurnedArea(s, burn, VariableOptions{})
	if err != nil {
		t.Fatalf("BurnedArea: %v", err)
	}
	if area[0] != 2 {
		t.Errorf("BurnedArea() = %v, want 2", area[0])
	}
}

func TestKfFactorRejectsNegative(t *testing.T) {
	s := fiveColChainSegments(t)
	values := valueRaster(t, [][]float64{{1, 2, -1, 4, 5}})
	if _, err := KfFactor(values, s, nil, VariableOptions{}); err == nil {
		t.Fatal("KfFactor with a negative sentinel value should fail")
	}
}

func TestScaledDNBRDividesBy1000(t *testing.T) {
	s := fiveColChainSegments(t)
	values := valueRaster(t, [][]float64{{2000, 2000, 2000, 2000, 2000}})
	out, err := ScaledDNBR(values, s, VariableOptions{})
	if err != nil {
		t.Fatalf("ScaledDNBR: %v", err)
	}
	if out[0] != 2 {
		t.Errorf("ScaledDNBR() = %v, want 2", out[0])
	}
}

func TestScaledThicknessDividesBy100AndRejectsNegative(t *testing.T) {
	s := fiveColChainSegments(t)
	values := valueRaster(t, [][]float64{{500, 500, 500, 500, 500}})
	out, err := ScaledThickness(values, s, VariableOptions{})
	if err != nil {
		t.Fatalf("ScaledThickness: %v", err)
	}
	if out[0] != 5 {
		t.Errorf("ScaledThickness() = %v, want 5", out[0])
	}

	negative := valueRaster(t, [][]float64{{1, 1, -5, 1, 1}})
	if _, err := ScaledThickness(negative, s, VariableOptions{}); err == nil {
		t.Fatal("ScaledThickness with a negative sentinel value should fail")
	}
}

func TestSineThetaValidatesRange(t *testing.T) {
	s := fiveColChainSegments(t)
	valid := valueRaster(t, [][]float64{{0.5, 0.5, 0.5, 0.5, 0.5}})
	out, err := SineTheta(valid, s, VariableOptions{})
	if err != nil {
		t.Fatalf("SineTheta: %v", err)
	}
	if out[0] != 0.5 {
		t.Errorf("SineTheta() = %v, want 0.5", out[0])
	}

	invalid := valueRaster(t, [][]float64{{0.5, 1.5, 0.5, 0.5, 0.5}})
	if _, err := SineTheta(invalid, s, VariableOptions{}); err == nil {
		t.Fatal("SineTheta with a value outside [0, 1] should fail")
	}
}

func TestSlopeAndRelief(t *testing.T) {
	s := fiveColChainSegments(t)
	values := valueRaster(t, [][]float64{{10, 20, 30, 40, 50}})

	slope, err := Slope(values, s, VariableOptions{})
	if err != nil {
		t.Fatalf("Slope: %v", err)
	}
	if slope[0] != 30 {
		t.Errorf("Slope() = %v, want 30 (mean of 10..50)", slope[0])
	}

	relief, err := Relief(values, s)
	if err != nil {
		t.Fatalf("Relief: %v", err)
	}
	if relief[0] != 10 {
		t.Errorf("Relief() = %v, want 10 (the outlet value at column 0)", relief[0])
	}
}

func TestRuggedness(t *testing.T) {
	s := fiveColChainSegments(t)
	values := valueRaster(t, [][]float64{{10, 20, 30, 40, 50}})
	out, err := Ruggedness(values, s, nil, VariableOptions{})
	if err != nil {
		t.Fatalf("Ruggedness: %v", err)
	}
	want := 10 / math.Sqrt(5)
	if math.Abs(out[0]-want) > 1e-9 {
		t.Errorf("Ruggedness() = %v, want %v", out[0], want)
	}
}

func TestUpslopeRatio(t *testing.T) {
	s := fiveColChainSegments(t)
	mask := maskRaster(t, [][]float64{{1, 0, 1, 0, 1}})
	out, err := UpslopeRatio(s, mask, VariableOptions{})
	if err != nil {
		t.Fatalf("UpslopeRatio: %v", err)
	}
	if out[0] != 0.6 {
		t.Errorf("UpslopeRatio() = %v, want 0.6", out[0])
	}
}

func TestLengthBaseUnits(t *testing.T) {
	s := fiveColChainSegments(t)
	out, err := Length(s, Base)
	if err != nil {
		t.Fatalf("Length: %v", err)
	}
	if math.Abs(out[0]-4) > 1e-9 {
		t.Errorf("Length() = %v, want 4 (4 unit steps across 5 pixel centers)", out[0])
	}
}

func TestInMaskAndInPerimeter(t *testing.T) {
	s := fiveColChainSegments(t)
	mask := maskRaster(t, [][]float64{{1, 1, 0, 0, 1}})

	inMask, err := InMask(s, mask)
	if err != nil {
		t.Fatalf("InMask: %v", err)
	}
	if inMask[0] != 0.6 {
		t.Errorf("InMask() = %v, want 0.6", inMask[0])
	}

	inPerimeter, err := InPerimeter(s, mask)
	if err != nil {
		t.Fatalf("InPerimeter: %v", err)
	}
	if inPerimeter[0] != inMask[0] {
		t.Errorf("InPerimeter() = %v, want it to match InMask() = %v", inPerimeter[0], inMask[0])
	}
}
