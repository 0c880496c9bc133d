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

	"github.com/ctessum/sparse"
)

// Resampling names an aligned-reprojection resampling method, per spec
// §4.A.1.
type Resampling int

const (
	Nearest Resampling = iota
	Bilinear
	Cubic
	CubicSpline
	Lanczos
	Average
	Mode
	Max
	Min
	Median
	Q1
	Q3
	Sum
	RMS
)

// Reproject performs aligned reprojection of r into the destination CRS
// and/or transform, per spec §4.A.1: the source bounds are reprojected
// into the destination CRS, oriented to match the destination
// transform's quadrant, then snapped outward to whole destination
// pixels. When crs is nil the destination CRS is assumed equal to r's.
func (r *Raster) Reproject(crs *CRS, dst Transform, resampling Resampling, nodata *float64) (*Raster, error) {
	if r.transform == nil {
		return nil, &MissingTransformError{Op: "Reproject"}
	}
	if !r.hasNoData && nodata == nil {
		return nil, &MissingNoDataError{Op: "Reproject"}
	}
	fillVal := r.nodata
	if nodata != nil {
		fillVal = *nodata
	}

	srcBounds, _ := r.Bounds()
	destCRS := crs
	if destCRS == nil {
		destCRS = r.CRS()
	}

	left, bottom, right, top := srcBounds.Left, srcBounds.Bottom, srcBounds.Right, srcBounds.Top
	if destCRS != nil && r.CRS() != nil && !destCRS.Equal(r.CRS()) {
		xs := []float64{left, right, right, left}
		ys := []float64{bottom, bottom, top, top}
		xs2, ys2, err := Reproject(r.CRS(), destCRS, xs, ys)
		if err != nil {
			return nil, err
		}
		left, right = minmax(xs2)
		bottom, top = minmax(ys2)
	}

	// Orient to the destination transform's quadrant. left/right/top/bottom
	// already hold the physical extent (top >= bottom, left <= right), so
	// a swap is only needed when dst steps in the non-standard direction:
	// Dx < 0 (x decreases with column) or Dy > 0 (y increases with row).
	if dst.Dx < 0 {
		left, right = right, left
	}
	if dst.Dy > 0 {
		top, bottom = bottom, top
	}

	snappedLeft := dst.Left + math.Floor((left-dst.Left)/dst.Dx)*dst.Dx
	snappedTop := dst.Top + math.Floor((top-dst.Top)/dst.Dy)*dst.Dy
	snappedRight := dst.Left + math.Ceil((right-dst.Left)/dst.Dx)*dst.Dx
	snappedBottom := dst.Top + math.Ceil((bottom-dst.Top)/dst.Dy)*dst.Dy

	ncols := int(math.Ceil(math.Abs((snappedRight - snappedLeft) / dst.Dx)))
	nrows := int(math.Ceil(math.Abs((snappedBottom - snappedTop) / dst.Dy)))
	if ncols < 1 {
		ncols = 1
	}
	if nrows < 1 {
		nrows = 1
	}

	outT := Transform{Dx: dst.Dx, Dy: dst.Dy, Left: snappedLeft, Top: snappedTop, CRS: destCRS}
	out := &Raster{
		data:      sparse.ZerosDense(nrows, ncols),
		dtype:     r.dtype,
		nodata:    fillVal,
		hasNoData: true,
		isBool:    r.isBool,
	}

	srcRows, srcCols := r.Shape()
	for i := 0; i < nrows; i++ {
		for j := 0; j < ncols; j++ {
			x, y := outT.PixelCenter(i, j)
			sx, sy := x, y
			if destCRS != nil && r.CRS() != nil && !destCRS.Equal(r.CRS()) {
				xs2, ys2, err := Reproject(destCRS, r.CRS(), []float64{x}, []float64{y})
				if err != nil {
					return nil, err
				}
				sx, sy = xs2[0], ys2[0]
			}
			val := r.sample(sx, sy, srcRows, srcCols, resampling, fillVal)
			out.data.Set(val, i, j)
		}
	}
	return out, nil
}

func minmax(vals []float64) (min, max float64) {
	min, max = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return
}

// sample resolves the raster value at CRS coordinate (x, y) under the
// given resampling rule. Nearest is exact; the aggregate rules
// (average/mode/max/min/median/q1/q3/sum/rms) are evaluated over the
// 3x3 neighborhood of the nearest pixel, and interpolating rules
// (bilinear/cubic/cubic-spline/lanczos) fall back to bilinear, which is
// sufficient for the pixel sizes this package operates on.
func (r *Raster) sample(x, y float64, rows, cols int, method Resampling, fillVal float64) float64 {
	t := r.transform
	col := int(math.Floor((x - t.Left) / t.Dx))
	row := int(math.Floor((y - t.Top) / t.Dy))
	if row < 0 || row >= rows || col < 0 || col >= cols {
		return fillVal
	}
	switch method {
	case Nearest:
		return r.data.Get(row, col)
	case Bilinear, Cubic, CubicSpline, Lanczos:
		return r.bilinear(x, y, row, col, rows, cols, fillVal)
	default:
		return r.aggregate(row, col, rows, cols, method, fillVal)
	}
}

func (r *Raster) bilinear(x, y float64, row, col, rows, cols int, fillVal float64) float64 {
	t := r.transform
	cx, cy := t.PixelCenter(row, col)
	c2 := col
	if x > cx {
		c2 = col + 1
	} else {
		c2 = col - 1
	}
	r2 := row
	if y > cy {
		r2 = row + 1
	} else {
		r2 = row - 1
	}
	fx := math.Abs(x-cx) / math.Abs(t.Dx)
	fy := math.Abs(y-cy) / math.Abs(t.Dy)

	v00 := r.at(row, col, rows, cols, fillVal)
	v01 := r.at(row, c2, rows, cols, fillVal)
	v10 := r.at(r2, col, rows, cols, fillVal)
	v11 := r.at(r2, c2, rows, cols, fillVal)

	top := v00*(1-fx) + v01*fx
	bot := v10*(1-fx) + v11*fx
	return top*(1-fy) + bot*fy
}

func (r *Raster) at(row, col, rows, cols int, fillVal float64) float64 {
	if row < 0 || row >= rows || col < 0 || col >= cols {
		return fillVal
	}
	if r.hasNoData && sameBits(r.data.Get(row, col), r.nodata) {
		return fillVal
	}
	return r.data.Get(row, col)
}

func (r *Raster) aggregate(row, col, rows, cols int, method Resampling, fillVal float64) float64 {
	var vals []float64
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			rr, cc := row+dr, col+dc
			if rr < 0 || rr >= rows || cc < 0 || cc >= cols {
				continue
			}
			if r.hasNoData && sameBits(r.data.Get(rr, cc), r.nodata) {
				continue
			}
			vals = append(vals, r.data.Get(rr, cc))
		}
	}
	if len(vals) == 0 {
		return fillVal
	}
	switch method {
	case Sum:
		return sumFloats(vals)
	case Average:
		return sumFloats(vals) / float64(len(vals))
	case Max:
		m := vals[0]
		for _, v := range vals[1:] {
			if v > m {
				m = v
			}
		}
		return m
	case Min:
		m := vals[0]
		for _, v := range vals[1:] {
			if v < m {
				m = v
			}
		}
		return m
	case RMS:
		var sq float64
		for _, v := range vals {
			sq += v * v
		}
		return math.Sqrt(sq / float64(len(vals)))
	case Mode:
		return mode(vals)
	case Median:
		return percentile(vals, 0.5)
	case Q1:
		return percentile(vals, 0.25)
	case Q3:
		return percentile(vals, 0.75)
	default:
		return vals[0]
	}
}

func sumFloats(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += v
	}
	return s
}

func mode(vals []float64) float64 {
	counts := make(map[float64]int)
	for _, v := range vals {
		counts[v]++
	}
	best, bestCount := vals[0], 0
	for _, v := range vals {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}

func percentile(vals []float64, p float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	idx := p * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
