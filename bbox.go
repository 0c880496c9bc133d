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

// BoundingBox is an immutable axis-aligned spatial extent, per spec §3.2.
type BoundingBox struct {
	Left, Bottom, Right, Top float64
	CRS                      *CRS
}

// Transform derives the affine Transform that places an (nrows, ncols)
// raster over b.
func (b BoundingBox) Transform(nrows, ncols int) Transform {
	return Transform{
		Dx:   (b.Right - b.Left) / float64(ncols),
		Dy:   (b.Bottom - b.Top) / float64(nrows),
		Left: b.Left,
		Top:  b.Top,
		CRS:  b.CRS,
	}
}

// Equal reports whether b and b2 describe the same extent and CRS.
func (b BoundingBox) Equal(b2 BoundingBox) bool {
	return b.Left == b2.Left && b.Bottom == b2.Bottom &&
		b.Right == b2.Right && b.Top == b2.Top && b.CRS.Equal(b2.CRS)
}

// Transform is an immutable affine scale-and-translate: pixel (r, c)
// spans [Left+c·Dx, Left+(c+1)·Dx] × [Top+r·Dy, Top+(r+1)·Dy]. Dy is
// typically negative. Shear is disallowed by construction.
type Transform struct {
	Dx, Dy, Left, Top float64
	CRS               *CRS
}

// Bounds derives the BoundingBox spanned by an (nrows, ncols) raster
// placed at t.
func (t Transform) Bounds(nrows, ncols int) BoundingBox {
	right := t.Left + float64(ncols)*t.Dx
	bottom := t.Top + float64(nrows)*t.Dy
	left, r := t.Left, right
	if r < left {
		left, r = r, left
	}
	top, bot := t.Top, bottom
	if bot > top {
		top, bot = bot, top
	}
	return BoundingBox{Left: left, Bottom: bot, Right: r, Top: top, CRS: t.CRS}
}

// Resolution returns (|Dx|, |Dy|).
func (t Transform) Resolution() (dx, dy float64) {
	return math.Abs(t.Dx), math.Abs(t.Dy)
}

// PixelDiagonal returns the Euclidean length of a pixel's diagonal in
// the transform's base unit.
func (t Transform) PixelDiagonal() float64 {
	dx, dy := t.Resolution()
	return math.Hypot(dx, dy)
}

// PixelArea returns the area of one pixel in the transform's base unit,
// squared.
func (t Transform) PixelArea() float64 {
	dx, dy := t.Resolution()
	return dx * dy
}

// Orientation returns the Cartesian quadrant (1-4) implied by the signs
// of Dx and Dy: 1 is (+,+), 2 is (-,+), 3 is (-,-), 4 is (+,-).
func (t Transform) Orientation() int {
	switch {
	case t.Dx >= 0 && t.Dy >= 0:
		return 1
	case t.Dx < 0 && t.Dy >= 0:
		return 2
	case t.Dx < 0 && t.Dy < 0:
		return 3
	default:
		return 4
	}
}

// Equal reports whether t and t2 describe the same affine placement and
// CRS.
func (t Transform) Equal(t2 Transform) bool {
	return t.Dx == t2.Dx && t.Dy == t2.Dy && t.Left == t2.Left && t.Top == t2.Top &&
		t.CRS.Equal(t2.CRS)
}

// Center returns the (x, y) centroid of an (nrows, ncols) raster placed
// at t.
func (t Transform) Center(nrows, ncols int) (x, y float64) {
	b := t.Bounds(nrows, ncols)
	return (b.Left + b.Right) / 2, (b.Bottom + b.Top) / 2
}

// PixelCenter returns the CRS coordinates of the center of pixel (row,
// col), per spec §4.D.5.
func (t Transform) PixelCenter(row, col int) (x, y float64) {
	x = t.Left + (float64(col)+0.5)*t.Dx
	y = t.Top + (float64(row)+0.5)*t.Dy
	return
}
