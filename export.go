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
	"encoding/json"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
)

// FeatureType names the geometry produced by GeoJSON, per spec §4.J.
type FeatureType int

const (
	FeatureSegments FeatureType = iota
	FeatureOutlets
	FeatureSegmentOutlets
	FeatureBasins
)

// Feature is one entry of a FeatureCollection.
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   *geojson.Geometry      `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// FeatureCollection is the GeoJSON output shape produced by GeoJSON.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// GeoJSON renders s's features as a FeatureCollection, per spec §4.J.
// properties maps a name to a per-feature value vector whose length
// must match the number of emitted features.
func GeoJSON(ft FeatureType, s *Segments, properties map[string][]interface{}) (*FeatureCollection, error) {
	var geoms []geom.Geom
	switch ft {
	case FeatureSegments:
		for i := 0; i < s.Len(); i++ {
			geoms = append(geoms, toLineString(s.Polyline(i)))
		}
	case FeatureOutlets:
		for _, t := range s.Termini() {
			p := s.Outlet(t)
			x, y := s.flow.transform.PixelCenter(p.Row, p.Col)
			geoms = append(geoms, geom.NewPoint(x, y))
		}
	case FeatureSegmentOutlets:
		for i := 0; i < s.Len(); i++ {
			p := s.Outlet(i)
			x, y := s.flow.transform.PixelCenter(p.Row, p.Col)
			geoms = append(geoms, geom.NewPoint(x, y))
		}
	case FeatureBasins:
		basins, err := s.Basins(BasinOptions{})
		if err != nil {
			return nil, err
		}
		for _, t := range s.Termini() {
			poly, err := traceBasinPolygon(basins, s.ID(t), s.flow.transform)
			if err != nil {
				return nil, err
			}
			geoms = append(geoms, poly)
		}
	}

	for name, vals := range properties {
		if len(vals) != len(geoms) {
			return nil, &ValueError{Detail: "property " + name + " length does not match feature count"}
		}
	}

	fc := &FeatureCollection{Type: "FeatureCollection"}
	for i, g := range geoms {
		gj, err := geojson.ToGeoJSON(g)
		if err != nil {
			return nil, &GeometryError{Detail: err.Error()}
		}
		props := map[string]interface{}{}
		for name, vals := range properties {
			props[name] = vals[i]
		}
		fc.Features = append(fc.Features, Feature{Type: "Feature", Geometry: gj, Properties: props})
	}
	return fc, nil
}

func toLineString(pts []Point) geom.LineString {
	out := make(geom.LineString, len(pts))
	for i, p := range pts {
		out[i] = geom.Point{X: p.X, Y: p.Y}
	}
	return out
}

// Marshal serializes fc to GeoJSON bytes.
func (fc *FeatureCollection) Marshal() ([]byte, error) {
	return json.Marshal(fc)
}

// gridCorner indexes a vertex of the pixel grid: (rows+1) x (cols+1)
// corners surround an (rows, cols) pixel array.
type gridCorner struct{ row, col int }

// traceBasinPolygon contour-traces the 8-connected region of pixels
// labelled id in basins, returning a polygon whose outer ring follows
// the pixel-edge boundary of the whole region. Holes (nested basins
// fully enclosed by another label) are not separately traced, and if
// id's pixels form more than one disconnected component only the first
// component's boundary is walked; either case still yields a single
// ring, matching the single-ring Polygon use in spec §4.J.
func traceBasinPolygon(basins *Raster, id int, t *Transform) (geom.Polygon, error) {
	rows, cols := basins.Shape()
	inBasin := func(r, c int) bool {
		if r < 0 || r >= rows || c < 0 || c >= cols {
			return false
		}
		return int(basins.Get(r, c)) == id
	}

	// Every boundary edge of the region is recorded from the corner
	// where a clockwise walk (in row/col space) around the region's
	// pixels would enter it to the corner where it would leave, so
	// following edges tail-to-head traces the region's outline.
	edges := make(map[gridCorner]gridCorner)
	found := false
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if !inBasin(r, c) {
				continue
			}
			found = true
			if !inBasin(r-1, c) {
				edges[gridCorner{r, c}] = gridCorner{r, c + 1}
			}
			if !inBasin(r, c+1) {
				edges[gridCorner{r, c + 1}] = gridCorner{r + 1, c + 1}
			}
			if !inBasin(r+1, c) {
				edges[gridCorner{r + 1, c + 1}] = gridCorner{r + 1, c}
			}
			if !inBasin(r, c-1) {
				edges[gridCorner{r + 1, c}] = gridCorner{r, c}
			}
		}
	}
	if !found {
		return nil, &NoFeaturesError{Path: "basins"}
	}

	start := gridCorner{rows + 1, cols + 1}
	for from := range edges {
		if from.row < start.row || (from.row == start.row && from.col < start.col) {
			start = from
		}
	}

	corner := func(g gridCorner) geom.Point {
		x := t.Left + float64(g.col)*t.Dx
		y := t.Top + float64(g.row)*t.Dy
		return geom.Point{X: x, Y: y}
	}

	ring := []geom.Point{corner(start)}
	cur := start
	for {
		next, ok := edges[cur]
		if !ok {
			return nil, &GeometryError{Detail: "basin boundary did not close into a ring"}
		}
		ring = append(ring, corner(next))
		cur = next
		if cur == start {
			break
		}
	}

	return geom.Polygon{ring}, nil
}
