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

	"github.com/ctessum/unit"
)

// ConfinementOptions configures Confinement.
type ConfinementOptions struct {
	// Neighborhood is the number of DEM pixels to search along each
	// perpendicular direction.
	Neighborhood int
	// Factor scales DEM values to meters (default 1 when zero).
	Factor float64
	// Meters forces output in meters when the CRS is not linear.
	Meters bool
}

// Confinement computes each segment's confinement angle, per spec §4.H.
func Confinement(dem *Raster, s *Segments, opts ConfinementOptions) ([]float64, error) {
	if err := checkAligned(dem, s.flow); err != nil {
		return nil, err
	}
	n := opts.Neighborhood
	if n <= 0 {
		n = 4
	}
	factor := opts.Factor
	if factor == 0 {
		factor = 1
	}

	rows, cols := s.flow.Shape()
	t := s.flow.Transform()
	if t == nil {
		return nil, &MissingTransformError{Op: "Confinement"}
	}
	_, latY := t.Center(1, 1)

	out := make([]float64, s.Len())
	for i := 0; i < s.Len(); i++ {
		theta1s := make([]float64, 0, len(s.Indices(i)))
		theta2s := make([]float64, 0, len(s.Indices(i)))
		invalid := false

		for _, p := range s.Indices(i) {
			code := int(s.flow.Get(p.Row, p.Col))
			if code == NoDataCode {
				invalid = true
				break
			}
			if dem.IsNoData(p.Row, p.Col) {
				invalid = true
				break
			}
			cw, ccw := D8Perpendicular(code)

			s1, ok1 := perpendicularSlope(dem, p, cw, rows, cols, n, t, factor, latY)
			s2, ok2 := perpendicularSlope(dem, p, ccw, rows, cols, n, t, factor, latY)
			if !ok1 || !ok2 {
				invalid = true
				break
			}
			theta1s = append(theta1s, math.Atan(s1))
			theta2s = append(theta2s, math.Atan(s2))
		}

		if invalid || len(theta1s) == 0 {
			out[i] = math.NaN()
			continue
		}
		mean1 := meanOf(theta1s)
		mean2 := meanOf(theta2s)
		angle := 180 - radToDeg(mean1) - radToDeg(mean2)
		out[i] = angle
	}
	return out, nil
}

func radToDeg(r float64) float64 { return r * 180 / math.Pi }

func meanOf(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += v
	}
	return s / float64(len(vals))
}

// perpendicularSlope fetches up to n in-bounds DEM heights along
// direction code from pixel p, takes the maximum, subtracts p's DEM
// value, and divides by the perpendicular travel length in meters.
func perpendicularSlope(dem *Raster, p Index2D, code, rows, cols, n int, t *Transform, factor, latY float64) (float64, bool) {
	walk := D8Walk(p.Row, p.Col, rows, cols, code, n)
	if len(walk) == 0 {
		return 0, false
	}
	maxVal := math.Inf(-1)
	found := false
	for _, w := range walk {
		if dem.IsNoData(w.Row, w.Col) {
			return 0, false
		}
		v := dem.Get(w.Row, w.Col)
		if v > maxVal {
			maxVal = v
			found = true
		}
	}
	if !found {
		return 0, false
	}
	p0 := dem.Get(p.Row, p.Col)
	rise := (maxVal - p0) * factor

	stepLen := D8StepLength(code)
	baseLen := stepLen * t.Dx
	runMeters, err := baseToMeters(baseLen, t.CRS, latY)
	if err != nil {
		return 0, false
	}
	if runMeters == 0 {
		return 0, false
	}

	riseUnit := unit.New(rise, unit.Dimensions{unit.LengthDim: 1})
	runUnit := unit.New(runMeters, unit.Dimensions{unit.LengthDim: 1})
	slope := unit.Div(riseUnit, runUnit)
	if err := slope.Check(unit.Dimensions{}); err != nil {
		return 0, false
	}
	return slope.Value(), true
}
