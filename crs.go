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

import "github.com/ctessum/geom/proj"

// CRS is an opaque coordinate reference system handle, backed by the
// proj4-derived spatial reference used throughout the geom library.
type CRS struct {
	sr *proj.SR
}

// ParseCRS parses a proj4-format coordinate system definition.
func ParseCRS(proj4 string) (*CRS, error) {
	sr, err := proj.Parse(proj4)
	if err != nil {
		return nil, &CRSError{Detail: err.Error()}
	}
	return &CRS{sr: sr}, nil
}

// Equal reports whether c and c2 describe the same coordinate system.
func (c *CRS) Equal(c2 *CRS) bool {
	if c == nil || c2 == nil {
		return c == c2
	}
	return c.sr.Equal(c2.sr, 4)
}

// IsGeographic reports whether c is an angular (longitude/latitude)
// coordinate system, as opposed to a projected, linear one.
func (c *CRS) IsGeographic() bool {
	return c != nil && c.sr.Name == "longlat"
}

// Units returns the linear unit of c ("degree" for geographic systems,
// otherwise the projection's native unit, usually "m").
func (c *CRS) Units() string {
	if c == nil {
		return ""
	}
	if c.IsGeographic() {
		return "degree"
	}
	if c.sr.Units != "" {
		return c.sr.Units
	}
	return "m"
}

// Reproject transforms the points (xs[i], ys[i]) from CRS `from` to CRS
// `to`, returning new slices. It is the CRS-library collaborator
// referenced in spec §6.
func Reproject(from, to *CRS, xs, ys []float64) (xs2, ys2 []float64, err error) {
	if from == nil || to == nil {
		return nil, nil, &MissingCRSError{Op: "Reproject"}
	}
	_, fromInverse, err := from.sr.Transformers()
	if err != nil {
		return nil, nil, &CRSError{Detail: err.Error()}
	}
	toForward, _, err := to.sr.Transformers()
	if err != nil {
		return nil, nil, &CRSError{Detail: err.Error()}
	}
	xs2 = make([]float64, len(xs))
	ys2 = make([]float64, len(ys))
	for i := range xs {
		lon, lat, err := fromInverse(xs[i], ys[i])
		if err != nil {
			return nil, nil, &CRSError{Detail: err.Error()}
		}
		x, y, err := toForward(lon, lat)
		if err != nil {
			return nil, nil, &CRSError{Detail: err.Error()}
		}
		xs2[i], ys2[i] = x, y
	}
	return xs2, ys2, nil
}
