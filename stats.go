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
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stat names a reduction over a set of pixel values, per spec §4.G.
type Stat int

const (
	StatOutlet Stat = iota
	StatMin
	StatMax
	StatMean
	StatMedian
	StatSum
	StatStd
	StatVar
	StatNanMin
	StatNanMax
	StatNanMean
	StatNanMedian
	StatNanSum
	StatNanStd
	StatNanVar
)

// reduce applies stat to vals, per the vocabulary in spec §4.G. NaN in
// vals propagates through the non-nan variants; the nan* variants skip
// NaN and return NaN for an all-NaN (or empty) input.
func reduce(st Stat, vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	switch st {
	case StatMin:
		return floats.Min(vals)
	case StatMax:
		return floats.Max(vals)
	case StatMean:
		return stat.Mean(vals, nil)
	case StatMedian:
		return quantile(vals, 0.5)
	case StatSum:
		return floats.Sum(vals)
	case StatStd:
		return stat.StdDev(vals, nil)
	case StatVar:
		return stat.Variance(vals, nil)
	case StatNanMin, StatNanMax, StatNanMean, StatNanMedian, StatNanSum, StatNanStd, StatNanVar:
		clean := omitNaN(vals)
		if len(clean) == 0 {
			return math.NaN()
		}
		switch st {
		case StatNanMin:
			return floats.Min(clean)
		case StatNanMax:
			return floats.Max(clean)
		case StatNanMean:
			return stat.Mean(clean, nil)
		case StatNanMedian:
			return quantile(clean, 0.5)
		case StatNanSum:
			return floats.Sum(clean)
		case StatNanStd:
			if len(clean) < 2 {
				return 0
			}
			return stat.StdDev(clean, nil)
		case StatNanVar:
			if len(clean) < 2 {
				return 0
			}
			return stat.Variance(clean, nil)
		}
	}
	return math.NaN()
}

func omitNaN(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func quantile(vals []float64, p float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// segmentValues gathers the values of a raster at segment i's pixel
// indices, counting NoData as NaN, per spec §4.G.1.
func segmentValues(values *Raster, s *Segments, i int) []float64 {
	idx := s.Indices(i)
	out := make([]float64, len(idx))
	for k, p := range idx {
		if values.IsNoData(p.Row, p.Col) {
			out[k] = math.NaN()
		} else {
			out[k] = values.Get(p.Row, p.Col)
		}
	}
	return out
}

// Summary reduces stat over each retained segment's own pixels, per
// spec §4.G.1.
func Summary(st Stat, values *Raster, s *Segments) ([]float64, error) {
	if err := checkAligned(values, s.flow); err != nil {
		return nil, err
	}
	out := make([]float64, s.Len())
	for i := 0; i < s.Len(); i++ {
		if st == StatOutlet {
			out[i] = segmentValues(values, s, i)[len(s.Indices(i))-1]
			continue
		}
		out[i] = reduce(st, segmentValues(values, s, i))
	}
	return out, nil
}

// BasinSummaryOptions configures BasinSummary.
type BasinSummaryOptions struct {
	Mask     *Raster
	Terminal bool
}

// BasinSummary reduces stat over all pixels that drain into each
// segment's outlet (or its terminus if Terminal is set), per spec
// §4.G.2.
func BasinSummary(st Stat, values *Raster, s *Segments, opts BasinSummaryOptions) ([]float64, error) {
	if err := checkAligned(values, s.flow); err != nil {
		return nil, err
	}
	out := make([]float64, s.Len())
	for i := 0; i < s.Len(); i++ {
		target := i
		if opts.Terminal {
			target = s.Terminus(i)
		}

		if st == StatOutlet {
			o := s.Outlet(target)
			if values.IsNoData(o.Row, o.Col) {
				out[i] = math.NaN()
			} else {
				out[i] = values.Get(o.Row, o.Col)
			}
			continue
		}

		switch st {
		case StatSum, StatNanSum, StatMean, StatNanMean:
			accOpts := AccumulateOptions{Weights: values, Mask: opts.Mask, OmitNaN: st == StatNanSum || st == StatNanMean}
			acc, err := Accumulate(s.flow, accOpts)
			if err != nil {
				return nil, err
			}
			o := s.Outlet(target)
			sum := acc.Get(o.Row, o.Col)
			if st == StatSum || st == StatNanSum {
				out[i] = sum
				continue
			}
			countOpts := AccumulateOptions{Mask: opts.Mask, OmitNaN: true}
			if st == StatNanMean {
				// Count only the pixels whose value is neither NaN nor NoData.
				vr, vc := values.Shape()
				valid := make([][]float64, vr)
				for r := range valid {
					valid[r] = make([]float64, vc)
					for c := range valid[r] {
						if !values.IsNoData(r, c) && !math.IsNaN(values.Get(r, c)) {
							valid[r][c] = 1
						}
					}
				}
				if countOpts.Weights, err = FromArray(valid); err != nil {
					return nil, err
				}
			}
			count, err := Accumulate(s.flow, countOpts)
			if err != nil {
				return nil, err
			}
			n := count.Get(o.Row, o.Col)
			if n == 0 {
				out[i] = math.NaN()
			} else {
				out[i] = sum / n
			}
		default:
			catch, err := s.Catchment(target)
			if err != nil {
				return nil, err
			}
			out[i] = reduce(st, catchmentValues(values, catch, opts.Mask))
		}
	}
	return out, nil
}

func catchmentValues(values, catchment, mask *Raster) []float64 {
	rows, cols := values.Shape()
	var out []float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if catchment.Get(i, j) == 0 {
				continue
			}
			if mask != nil {
				if mask.IsNoData(i, j) || mask.Get(i, j) == 0 {
					continue
				}
			}
			if values.IsNoData(i, j) {
				out = append(out, math.NaN())
			} else {
				out = append(out, values.Get(i, j))
			}
		}
	}
	return out
}

func checkAligned(a, b *Raster) error {
	ar, ac := a.Shape()
	br, bc := b.Shape()
	if ar != br || ac != bc {
		return &RasterShapeError{A: []int{ar, ac}, B: []int{br, bc}}
	}
	return nil
}
