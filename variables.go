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
)

// VariableOptions carries the switches shared by most variable helpers
// in spec §4.G.3.
type VariableOptions struct {
	Terminal bool
	OmitNaN  bool
}

// Area returns each segment's catchment area in the raster's base unit,
// squared, optionally restricted to mask.
func Area(s *Segments, mask *Raster, opts VariableOptions) ([]float64, error) {
	area, err := s.flow.PixelArea()
	if err != nil {
		return nil, err
	}
	st := StatSum
	counts, err := BasinSummary(st, onesRaster(s.flow), s, BasinSummaryOptions{Mask: mask, Terminal: opts.Terminal})
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(counts))
	for i, c := range counts {
		out[i] = c * area
	}
	return out, nil
}

func onesRaster(like *Raster) *Raster {
	rows, cols := like.Shape()
	vals := make([][]float64, rows)
	for i := range vals {
		vals[i] = make([]float64, cols)
		for j := range vals[i] {
			vals[i][j] = 1
		}
	}
	r, _ := FromArray(vals)
	if like.transform != nil {
		t := *like.transform
		r.transform = &t
	}
	return r
}

// BurnRatio returns the fraction of each segment's catchment that falls
// inside mask.
func BurnRatio(s *Segments, mask *Raster, opts VariableOptions) ([]float64, error) {
	return BasinSummary(StatMean, boolAsFloat(mask), s, BasinSummaryOptions{Terminal: opts.Terminal})
}

// BurnedArea returns the catchment area that falls inside mask.
func BurnedArea(s *Segments, mask *Raster, opts VariableOptions) ([]float64, error) {
	return Area(s, mask, opts)
}

// DevelopedArea returns the catchment area that falls inside a
// development mask; semantically identical to BurnedArea, kept as a
// distinct name for the development-footprint variable in spec §4.G.3.
func DevelopedArea(s *Segments, mask *Raster, opts VariableOptions) ([]float64, error) {
	return Area(s, mask, opts)
}

func boolAsFloat(r *Raster) *Raster {
	rows, cols := r.Shape()
	vals := make([][]float64, rows)
	for i := range vals {
		vals[i] = make([]float64, cols)
		for j := range vals[i] {
			if !r.IsNoData(i, j) && r.Get(i, j) != 0 {
				vals[i][j] = 1
			}
		}
	}
	out, _ := FromArray(vals)
	if r.transform != nil {
		t := *r.transform
		out.transform = &t
	}
	return out
}

// KfFactor returns the mean K-factor over each segment's catchment.
// Negative sentinel values fail with ValueError.
func KfFactor(values *Raster, s *Segments, mask *Raster, opts VariableOptions) ([]float64, error) {
	if err := rejectNegative(values); err != nil {
		return nil, err
	}
	st := StatMean
	if opts.OmitNaN {
		st = StatNanMean
	}
	return BasinSummary(st, values, s, BasinSummaryOptions{Mask: mask, Terminal: opts.Terminal})
}

func rejectNegative(r *Raster) error {
	rows, cols := r.Shape()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if r.IsNoData(i, j) {
				continue
			}
			if r.Get(i, j) < 0 {
				return &ValueError{Detail: "negative sentinel value is not a valid input"}
			}
		}
	}
	return nil
}

// ScaledDNBR returns each segment's mean dNBR, divided by 1000.
func ScaledDNBR(values *Raster, s *Segments, opts VariableOptions) ([]float64, error) {
	st := StatMean
	if opts.OmitNaN {
		st = StatNanMean
	}
	out, err := BasinSummary(st, values, s, BasinSummaryOptions{Terminal: opts.Terminal})
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i] /= 1000
	}
	return out, nil
}

// ScaledThickness returns each segment's mean soil thickness, divided by
// 100. Negative sentinel values fail with ValueError.
func ScaledThickness(values *Raster, s *Segments, opts VariableOptions) ([]float64, error) {
	if err := rejectNegative(values); err != nil {
		return nil, err
	}
	st := StatMean
	if opts.OmitNaN {
		st = StatNanMean
	}
	out, err := BasinSummary(st, values, s, BasinSummaryOptions{Terminal: opts.Terminal})
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i] /= 100
	}
	return out, nil
}

// SineTheta returns each segment's mean sin(theta). values must lie in
// [0, 1].
func SineTheta(values *Raster, s *Segments, opts VariableOptions) ([]float64, error) {
	rows, cols := values.Shape()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if values.IsNoData(i, j) {
				continue
			}
			v := values.Get(i, j)
			if v < 0 || v > 1 {
				return nil, &ValueError{Detail: "sine_theta values must lie in [0, 1]"}
			}
		}
	}
	st := StatMean
	if opts.OmitNaN {
		st = StatNanMean
	}
	return BasinSummary(st, values, s, BasinSummaryOptions{Terminal: opts.Terminal})
}

// Slope returns each segment's outlet-weighted mean slope: the mean of
// values over the segment's own pixels (outlet included).
func Slope(values *Raster, s *Segments, opts VariableOptions) ([]float64, error) {
	st := StatMean
	if opts.OmitNaN {
		st = StatNanMean
	}
	return Summary(st, values, s)
}

// Relief returns each segment's outlet value.
func Relief(values *Raster, s *Segments) ([]float64, error) {
	return Summary(StatOutlet, values, s)
}

// Ruggedness returns each segment's relief divided by the square root of
// its catchment area. reliefPerMeter, if non-nil, converts relief's unit
// to meters before dividing.
func Ruggedness(values *Raster, s *Segments, reliefPerMeter *float64, opts VariableOptions) ([]float64, error) {
	relief, err := Relief(values, s)
	if err != nil {
		return nil, err
	}
	area, err := Area(s, nil, opts)
	if err != nil {
		return nil, err
	}
	out := make([]float64, s.Len())
	for i := range out {
		r := relief[i]
		if reliefPerMeter != nil {
			r *= *reliefPerMeter
		}
		out[i] = r / math.Sqrt(area[i])
	}
	return out, nil
}

// UpslopeRatio returns each segment's catchment mean of a boolean mask.
func UpslopeRatio(s *Segments, mask *Raster, opts VariableOptions) ([]float64, error) {
	return BasinSummary(StatMean, boolAsFloat(mask), s, BasinSummaryOptions{Terminal: opts.Terminal})
}

// Length returns each segment's polyline length, converted to units.
func Length(s *Segments, units LengthUnit) ([]float64, error) {
	out := make([]float64, s.Len())
	t := s.flow.Transform()
	for i := 0; i < s.Len(); i++ {
		pts := s.Polyline(i)
		var base float64
		for k := 1; k < len(pts); k++ {
			dx, dy := pts[k].X-pts[k-1].X, pts[k].Y-pts[k-1].Y
			base += math.Hypot(dx, dy)
		}
		if units == Base || t == nil {
			out[i] = base
			continue
		}
		_, y := t.Center(1, 1)
		v, err := ConvertLength(base, Base, units, t.Dx, t.CRS, y)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// InMask returns, for each segment, the fraction of its own pixels that
// fall inside mask.
func InMask(s *Segments, mask *Raster) ([]float64, error) {
	return Summary(StatMean, boolAsFloat(mask), s)
}

// InPerimeter is an alias for InMask used when mask represents a fire
// perimeter, kept distinct to preserve the name used by the variable
// vocabulary in spec §4.G.3.
func InPerimeter(s *Segments, mask *Raster) ([]float64, error) {
	return InMask(s, mask)
}
