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

	"github.com/ctessum/sparse"
)

// DType is the logical element type of a Raster. Values are always
// stored internally as float64 (matching the DenseArray backing store),
// but DType governs casting and NoData validation rules.
type DType int

const (
	Float64 DType = iota
	Int64
	Uint64
	Bool
)

func (d DType) String() string {
	switch d {
	case Float64:
		return "float64"
	case Int64:
		return "int64"
	case Uint64:
		return "uint64"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// CastingRule names the strictness with which a NoData sentinel must
// match a raster's DType, per spec §3.1.
type CastingRule int

const (
	CastNo CastingRule = iota
	CastEquiv
	CastSafe
	CastSameKind
	CastUnsafe
)

// Raster is an immutable 2-D numeric grid with optional spatial
// placement, CRS, and NoData sentinel. Its backing store is a
// *sparse.DenseArray, the same dense row-major array used throughout
// the upstream modeling stack this package's ancestry descends from.
type Raster struct {
	data      *sparse.DenseArray
	dtype     DType
	transform *Transform
	nodata    float64
	hasNoData bool
	isBool    bool
}

// RasterOption configures a Raster at construction time, following the
// functional-option style used for multi-field initializers elsewhere
// in this lineage of code.
type RasterOption func(*Raster) error

// WithCRS attaches a CRS to the raster's transform, replacing any CRS
// already set. A WithTransform applied after it replaces the whole
// transform, CRS included.
func WithCRS(c *CRS) RasterOption {
	return func(r *Raster) error {
		if r.transform == nil {
			r.transform = &Transform{CRS: c}
			return nil
		}
		r.transform.CRS = c
		return nil
	}
}

// WithTransform sets the raster's affine transform directly.
func WithTransform(t Transform) RasterOption {
	return func(r *Raster) error {
		if t.Dx == 0 || t.Dy == 0 {
			return &TransformError{Detail: "dx and dy must be nonzero"}
		}
		r.transform = &t
		return nil
	}
}

// WithBounds derives the raster's transform from a BoundingBox, given
// the raster's already-known shape.
func WithBounds(b BoundingBox) RasterOption {
	return func(r *Raster) error {
		if r.data == nil {
			return &ValueError{Detail: "WithBounds requires a shape to be set first"}
		}
		shape := r.data.Shape
		t := b.Transform(shape[0], shape[1])
		r.transform = &t
		return nil
	}
}

// WithNoData sets the raster's NoData sentinel.
func WithNoData(v float64) RasterOption {
	return func(r *Raster) error {
		r.nodata = v
		r.hasNoData = true
		return nil
	}
}

// WithDType sets the raster's logical element type.
func WithDType(d DType) RasterOption {
	return func(r *Raster) error {
		r.dtype = d
		r.isBool = d == Bool
		return nil
	}
}

// WithCasting is accepted for API symmetry with from_file/from_array but
// currently only affects NoData validation at construction time: under
// CastNo a NaN NoData value is rejected for any dtype other than Float64.
func WithCasting(rule CastingRule) RasterOption {
	return func(r *Raster) error {
		if rule == CastNo && r.hasNoData && r.dtype != Float64 && math.IsNaN(r.nodata) {
			return &TypeError{Detail: "NaN NoData is not castable to an integer dtype under CastNo"}
		}
		return nil
	}
}

// EnsureNoData assigns a default NoData sentinel (NaN for Float64,
// dtype-min for Int64/Uint64, false/0 for Bool) if none has been set by
// an earlier option.
func EnsureNoData() RasterOption {
	return func(r *Raster) error {
		if r.hasNoData {
			return nil
		}
		switch r.dtype {
		case Float64:
			r.nodata = math.NaN()
		case Int64:
			r.nodata = math.MinInt64
		case Uint64:
			r.nodata = 0
		case Bool:
			r.nodata = 0
		}
		r.hasNoData = true
		return nil
	}
}

// FromArray wraps an in-memory row-major array as a Raster, per spec
// §4.A. values[r][c] is pixel (r, c); all rows must share a length.
func FromArray(values [][]float64, opts ...RasterOption) (*Raster, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, &ShapeError{Name: "values", Want: []int{1, 1}, Got: []int{len(values), 0}}
	}
	ncols := len(values[0])
	for _, row := range values {
		if len(row) != ncols {
			return nil, &ShapeError{Name: "values", Want: []int{len(values), ncols}, Got: []int{len(values), len(row)}}
		}
	}
	nrows := len(values)
	data := sparse.ZerosDense(nrows, ncols)
	for i := 0; i < nrows; i++ {
		for j := 0; j < ncols; j++ {
			data.Set(values[i][j], i, j)
		}
	}
	r := &Raster{data: data, dtype: Float64}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if r.isBool {
		if err := validateBool(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func validateBool(r *Raster) error {
	nr, nc := r.Shape()
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			v := r.data.Get(i, j)
			if r.hasNoData && sameBits(v, r.nodata) {
				continue
			}
			if v != 0 && v != 1 {
				return &ValueError{Detail: "boolean raster contains a value other than 0, 1, or NoData"}
			}
		}
	}
	return nil
}

func sameBits(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}

// Shape returns (nrows, ncols).
func (r *Raster) Shape() (int, int) {
	s := r.data.Shape
	return s[0], s[1]
}

// DType returns the raster's logical element type.
func (r *Raster) DType() DType { return r.dtype }

// Get returns the value at pixel (row, col).
func (r *Raster) Get(row, col int) float64 {
	return r.data.Get(row, col)
}

// IsNoData reports whether the value at pixel (row, col) equals the
// raster's NoData sentinel.
func (r *Raster) IsNoData(row, col int) bool {
	if !r.hasNoData {
		return false
	}
	return sameBits(r.data.Get(row, col), r.nodata)
}

// HasNoData reports whether a NoData sentinel is set.
func (r *Raster) HasNoData() bool { return r.hasNoData }

// NoData returns the NoData sentinel and whether one is set.
func (r *Raster) NoData() (float64, bool) { return r.nodata, r.hasNoData }

// Transform returns the raster's affine transform, or nil if unset.
func (r *Raster) Transform() *Transform { return r.transform }

// CRS returns the raster's CRS, or nil if unset.
func (r *Raster) CRS() *CRS {
	if r.transform == nil {
		return nil
	}
	return r.transform.CRS
}

// Bounds returns the raster's spatial extent.
func (r *Raster) Bounds() (BoundingBox, error) {
	if r.transform == nil {
		return BoundingBox{}, &MissingTransformError{Op: "Bounds"}
	}
	nr, nc := r.Shape()
	return r.transform.Bounds(nr, nc), nil
}

// Resolution returns (|dx|, |dy|) in the transform's own units.
func (r *Raster) Resolution() (dx, dy float64, err error) {
	if r.transform == nil {
		return 0, 0, &MissingTransformError{Op: "Resolution"}
	}
	x, y := r.transform.Resolution()
	return x, y, nil
}

// PixelArea returns the area of one pixel in the raster's base unit.
func (r *Raster) PixelArea() (float64, error) {
	if r.transform == nil {
		return 0, &MissingTransformError{Op: "PixelArea"}
	}
	return r.transform.PixelArea(), nil
}

// PixelDiagonal returns the Euclidean length of a pixel's diagonal.
func (r *Raster) PixelDiagonal() (float64, error) {
	if r.transform == nil {
		return 0, &MissingTransformError{Op: "PixelDiagonal"}
	}
	return r.transform.PixelDiagonal(), nil
}

// Center returns the (x, y) centroid of the raster.
func (r *Raster) Center() (x, y float64, err error) {
	if r.transform == nil {
		return 0, 0, &MissingTransformError{Op: "Center"}
	}
	nr, nc := r.Shape()
	x, y = r.transform.Center(nr, nc)
	return x, y, nil
}

// Orientation returns the Cartesian quadrant (1-4) of the transform.
func (r *Raster) Orientation() (int, error) {
	if r.transform == nil {
		return 0, &MissingTransformError{Op: "Orientation"}
	}
	return r.transform.Orientation(), nil
}

// Clone returns a deep copy of r.
func (r *Raster) Clone() *Raster {
	out := &Raster{
		data:      r.data.Copy(),
		dtype:     r.dtype,
		nodata:    r.nodata,
		hasNoData: r.hasNoData,
		isBool:    r.isBool,
	}
	if r.transform != nil {
		t := *r.transform
		out.transform = &t
	}
	return out
}

// Equal reports whether r and other have identical shape, dtype,
// NoData, CRS, transform, and values, per spec §4.A.
func (r *Raster) Equal(other *Raster) bool {
	if other == nil {
		return false
	}
	nr, nc := r.Shape()
	nr2, nc2 := other.Shape()
	if nr != nr2 || nc != nc2 {
		return false
	}
	if r.dtype != other.dtype || r.hasNoData != other.hasNoData {
		return false
	}
	if r.hasNoData && !sameBits(r.nodata, other.nodata) {
		return false
	}
	if (r.transform == nil) != (other.transform == nil) {
		return false
	}
	if r.transform != nil && !r.transform.Equal(*other.transform) {
		return false
	}
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			if !sameBits(r.data.Get(i, j), other.data.Get(i, j)) {
				return false
			}
		}
	}
	return true
}

// Fill returns a copy of r with every NoData pixel replaced by value
// and the NoData sentinel cleared.
func (r *Raster) Fill(value float64) *Raster {
	out := r.Clone()
	nr, nc := out.Shape()
	if out.hasNoData {
		for i := 0; i < nr; i++ {
			for j := 0; j < nc; j++ {
				if sameBits(out.data.Get(i, j), out.nodata) {
					out.data.Set(value, i, j)
				}
			}
		}
	}
	out.hasNoData = false
	return out
}

// SetRange returns a copy of r in which values outside [min, max] are
// replaced by fill (or by NoData if fill is nil). If exclusive is true,
// the bounds themselves are also replaced.
func (r *Raster) SetRange(min, max, fill *float64, exclusive bool) (*Raster, error) {
	out := r.Clone()
	nr, nc := out.Shape()
	var replacement float64
	if fill != nil {
		replacement = *fill
	} else if out.hasNoData {
		replacement = out.nodata
	} else {
		return nil, &MissingNoDataError{Op: "SetRange"}
	}
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			if out.hasNoData && sameBits(out.data.Get(i, j), out.nodata) {
				continue
			}
			v := out.data.Get(i, j)
			outOfRange := false
			if min != nil {
				if exclusive && v <= *min {
					outOfRange = true
				} else if !exclusive && v < *min {
					outOfRange = true
				}
			}
			if max != nil {
				if exclusive && v >= *max {
					outOfRange = true
				} else if !exclusive && v > *max {
					outOfRange = true
				}
			}
			if outOfRange {
				out.data.Set(replacement, i, j)
			}
		}
	}
	return out, nil
}

// Clip extracts the window of r intersecting bounds, padding with
// NoData outside the source extent.
func (r *Raster) Clip(bounds BoundingBox) (*Raster, error) {
	if r.transform == nil {
		return nil, &MissingTransformError{Op: "Clip"}
	}
	if !r.hasNoData {
		return nil, &MissingNoDataError{Op: "Clip"}
	}
	t := *r.transform
	srcBounds, _ := r.Bounds()

	left := snapOutward(bounds.Left, t.Left, t.Dx)
	top := snapOutward(bounds.Top, t.Top, t.Dy)
	right := snapOutward(bounds.Right, t.Left, t.Dx)
	bottom := snapOutward(bounds.Bottom, t.Top, t.Dy)

	ncols := int(math.Ceil(math.Abs((right - left) / t.Dx)))
	nrows := int(math.Ceil(math.Abs((bottom - top) / t.Dy)))
	if ncols < 1 {
		ncols = 1
	}
	if nrows < 1 {
		nrows = 1
	}

	out := &Raster{
		data:      sparse.ZerosDense(nrows, ncols),
		dtype:     r.dtype,
		nodata:    r.nodata,
		hasNoData: true,
		isBool:    r.isBool,
	}
	outT := Transform{Dx: t.Dx, Dy: t.Dy, Left: left, Top: top, CRS: t.CRS}
	out.transform = &outT

	srcRows, srcCols := r.Shape()
	for i := 0; i < nrows; i++ {
		for j := 0; j < ncols; j++ {
			x, y := outT.PixelCenter(i, j)
			sc := int(math.Floor((x - srcBounds.Left) / t.Dx))
			sr := int(math.Floor((y - t.Top) / t.Dy))
			if sr < 0 || sr >= srcRows || sc < 0 || sc >= srcCols {
				out.data.Set(r.nodata, i, j)
				continue
			}
			out.data.Set(r.data.Get(sr, sc), i, j)
		}
	}
	return out, nil
}

func snapOutward(edge, origin, step float64) float64 {
	n := math.Floor((edge - origin) / step)
	return origin + n*step
}

// Buffer pads r on all sides by n pixels of NoData.
func (r *Raster) Buffer(n int) (*Raster, error) {
	return r.BufferEdges(n, n, n, n)
}

// BufferEdges pads r with per-edge pixel counts of NoData.
func (r *Raster) BufferEdges(top, bottom, left, right int) (*Raster, error) {
	if !r.hasNoData {
		return nil, &MissingNoDataError{Op: "Buffer"}
	}
	nr, nc := r.Shape()
	outRows, outCols := nr+top+bottom, nc+left+right
	data := sparse.ZerosDense(outRows, outCols)
	for i := 0; i < outRows; i++ {
		for j := 0; j < outCols; j++ {
			data.Set(r.nodata, i, j)
		}
	}
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			data.Set(r.data.Get(i, j), i+top, j+left)
		}
	}
	out := &Raster{data: data, dtype: r.dtype, nodata: r.nodata, hasNoData: true, isBool: r.isBool}
	if r.transform != nil {
		t := *r.transform
		t.Left = t.Left - float64(left)*t.Dx
		t.Top = t.Top - float64(top)*t.Dy
		out.transform = &t
	}
	return out, nil
}
