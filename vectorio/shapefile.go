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

// Package vectorio adapts streamnet's vector feature export (spec §4.J,
// §6) onto a concrete Shapefile backend.
package vectorio

import (
	"fmt"
	"os"
	"sort"

	shp "github.com/jonas-p/go-shp"

	"github.com/dfha/streamnet"
)

// SaveLines writes a slice of polylines to a Shapefile at path, one
// record per polyline, with the given per-feature properties attached
// as DBF fields. overwrite must be true to replace an existing file.
func SaveLines(path string, lines [][]streamnet.Point, properties map[string][]interface{}, overwrite bool) error {
	if err := checkOverwrite(path, overwrite); err != nil {
		return err
	}
	fields, names := dbfFields(properties, len(lines))

	w, err := shp.Create(path, shp.POLYLINE)
	if err != nil {
		return fmt.Errorf("vectorio: creating %q: %w", path, err)
	}
	defer w.Close()
	w.SetFields(fields)

	for i, pts := range lines {
		pp := make([]shp.Point, len(pts))
		for k, p := range pts {
			pp[k] = shp.Point{X: p.X, Y: p.Y}
		}
		shape := &shp.PolyLine{
			Box:       boundsOf(pp),
			NumParts:  1,
			NumPoints: int32(len(pp)),
			Parts:     []int32{0},
			Points:    pp,
		}
		w.Write(shape)
		writeAttributes(w, i, names, properties)
	}
	return nil
}

// SavePoints writes a slice of points to a Shapefile at path.
func SavePoints(path string, pts []streamnet.Point, properties map[string][]interface{}, overwrite bool) error {
	if err := checkOverwrite(path, overwrite); err != nil {
		return err
	}
	fields, names := dbfFields(properties, len(pts))

	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return fmt.Errorf("vectorio: creating %q: %w", path, err)
	}
	defer w.Close()
	w.SetFields(fields)

	for i, p := range pts {
		w.Write(&shp.Point{X: p.X, Y: p.Y})
		writeAttributes(w, i, names, properties)
	}
	return nil
}

// SavePolygons writes a slice of polygons (each a single outer ring) to
// a Shapefile at path.
func SavePolygons(path string, polys [][]streamnet.Point, properties map[string][]interface{}, overwrite bool) error {
	if err := checkOverwrite(path, overwrite); err != nil {
		return err
	}
	fields, names := dbfFields(properties, len(polys))

	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return fmt.Errorf("vectorio: creating %q: %w", path, err)
	}
	defer w.Close()
	w.SetFields(fields)

	for i, ring := range polys {
		pp := make([]shp.Point, len(ring))
		for k, p := range ring {
			pp[k] = shp.Point{X: p.X, Y: p.Y}
		}
		shape := &shp.Polygon{
			Box:       boundsOf(pp),
			NumParts:  1,
			NumPoints: int32(len(pp)),
			Parts:     []int32{0},
			Points:    pp,
		}
		w.Write(shape)
		writeAttributes(w, i, names, properties)
	}
	return nil
}

func checkOverwrite(path string, overwrite bool) error {
	if overwrite {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return &streamnet.FileExistsError{Path: path}
	}
	return nil
}

func dbfFields(properties map[string][]interface{}, n int) ([]shp.Field, []string) {
	names := make([]string, 0, len(properties))
	for name, vals := range properties {
		if len(vals) != n {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	fields := make([]shp.Field, len(names))
	for i, name := range names {
		fields[i] = shp.StringField(name, 64)
	}
	return fields, names
}

func writeAttributes(w *shp.Writer, row int, names []string, properties map[string][]interface{}) {
	for i, name := range names {
		v := properties[name][row]
		w.WriteAttribute(row, i, fmt.Sprintf("%v", v))
	}
}

func boundsOf(pts []shp.Point) shp.Box {
	if len(pts) == 0 {
		return shp.Box{}
	}
	b := shp.Box{MinX: pts[0].X, MaxX: pts[0].X, MinY: pts[0].Y, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.X > b.MaxX {
			b.MaxX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.Y > b.MaxY {
			b.MaxY = p.Y
		}
	}
	return b
}
