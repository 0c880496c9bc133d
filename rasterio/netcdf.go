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

// Package rasterio adapts streamnet's raster reader/writer contract
// (spec §6) onto a concrete NetCDF backend.
package rasterio

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/dfha/streamnet"
)

// NetCDFConvention names the single-band grid layout this adapter
// expects: a 2-D variable with dimensions (y, x), plus global attributes
// x0, y0, dx, dy describing the affine transform and an optional nodata
// attribute on the variable.
const NetCDFConvention = "streamnet-grid-v1"

// OpenNetCDF opens a NetCDF file and reads variable name as a
// streamnet.Raster, using the file's x0/y0/dx/dy global attributes for
// the affine transform.
func OpenNetCDF(path, variable string) (*streamnet.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &streamnet.FileNotFoundError{Path: path}
	}
	defer f.Close()

	nf, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("rasterio: opening %q: %w", path, err)
	}

	dx := nf.Header.GetAttribute("", "dx").([]float64)[0]
	dy := nf.Header.GetAttribute("", "dy").([]float64)[0]
	x0 := nf.Header.GetAttribute("", "x0").([]float64)[0]
	y0 := nf.Header.GetAttribute("", "y0").([]float64)[0]

	dims := nf.Header.Lengths(variable)
	if len(dims) != 2 {
		return nil, &streamnet.DimensionError{Name: variable, Got: len(dims)}
	}
	data := sparse.ZerosDense(dims...)
	r := nf.Reader(variable, nil, nil)
	tmp := make([]float32, len(data.Elements))
	if _, err := r.Read(tmp); err != nil {
		return nil, fmt.Errorf("rasterio: reading %q: %w", variable, err)
	}
	for i, v := range tmp {
		data.Elements[i] = float64(v)
	}

	values := make([][]float64, dims[0])
	for i := range values {
		values[i] = make([]float64, dims[1])
		for j := range values[i] {
			values[i][j] = data.Get(i, j)
		}
	}

	opts := []streamnet.RasterOption{
		streamnet.WithTransform(streamnet.Transform{Dx: dx, Dy: dy, Left: x0, Top: y0}),
	}
	if nd := nodataAttribute(nf, variable); nd != nil {
		opts = append(opts, streamnet.WithNoData(*nd))
	}
	return streamnet.FromArray(values, opts...)
}

func nodataAttribute(f *cdf.File, variable string) *float64 {
	defer func() { recover() }()
	attr := f.Header.GetAttribute(variable, "nodata")
	if attr == nil {
		return nil
	}
	if vals, ok := attr.([]float64); ok && len(vals) > 0 {
		return &vals[0]
	}
	return nil
}

// SaveNetCDF writes r to a new NetCDF file at path under the given
// variable name, recording the affine transform as global attributes
// following NetCDFConvention. overwrite must be true to replace an
// existing file.
func SaveNetCDF(path, variable string, r *streamnet.Raster, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return &streamnet.FileExistsError{Path: path}
		}
	}
	t := r.Transform()
	if t == nil {
		return &streamnet.MissingTransformError{Op: "SaveNetCDF"}
	}
	rows, cols := r.Shape()

	h := cdf.NewHeader([]string{"y", "x"}, []int{rows, cols})
	h.AddAttribute("", "comment", NetCDFConvention)
	h.AddAttribute("", "x0", []float64{t.Left})
	h.AddAttribute("", "y0", []float64{t.Top})
	h.AddAttribute("", "dx", []float64{t.Dx})
	h.AddAttribute("", "dy", []float64{t.Dy})
	h.AddVariable(variable, []string{"y", "x"}, []float32{0})
	if nd, ok := r.NoData(); ok {
		h.AddAttribute(variable, "nodata", []float64{nd})
	}
	h.Define()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rasterio: creating %q: %w", path, err)
	}
	defer f.Close()

	nf, err := cdf.Create(f, h)
	if err != nil {
		return fmt.Errorf("rasterio: writing header to %q: %w", path, err)
	}

	data := sparse.ZerosDense(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data.Set(r.Get(i, j), i, j)
		}
	}
	if err := writeVariable(nf, variable, data); err != nil {
		return fmt.Errorf("rasterio: writing variable %s to %q: %w", variable, path, err)
	}
	return cdf.UpdateNumRecs(f)
}

func writeVariable(f *cdf.File, name string, data *sparse.DenseArray) error {
	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	_, err := w.Write(data32)
	return err
}
