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

// LengthUnit enumerates the length units that streamnet operations
// accept, per spec §3.2.
type LengthUnit int

const (
	// Base is the raster's native CRS unit (degrees for a geographic CRS,
	// otherwise the CRS's linear unit, usually meters).
	Base LengthUnit = iota
	Meters
	Kilometers
	Feet
	// Pixels counts whole pixels along the raster's resolution; it is
	// only meaningful together with a pixel size.
	Pixels
)

func (u LengthUnit) String() string {
	switch u {
	case Base:
		return "base"
	case Meters:
		return "meters"
	case Kilometers:
		return "kilometers"
	case Feet:
		return "feet"
	case Pixels:
		return "pixels"
	default:
		return "unknown"
	}
}

const metersPerFoot = 0.3048
const metersPerKilometer = 1000

const earthRadiusMeters = 6371008.8

// haversineMeters returns the great-circle distance, in meters, spanned
// by a step of dLon degrees of longitude and dLat degrees of latitude
// centered at latitude y (in degrees).
func haversineMeters(dLon, dLat, y float64) float64 {
	toRad := math.Pi / 180
	lat := y * toRad
	a := math.Pow(math.Sin(dLat*toRad/2), 2) +
		math.Cos(lat)*math.Cos(lat+dLat*toRad)*math.Pow(math.Sin(dLon*toRad/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// baseToMeters converts a length of dBase units of CRS c's base unit,
// measured along longitude if the CRS is angular, into meters. y is the
// latitude (in degrees) at which the conversion is evaluated and is
// required whenever c is geographic.
func baseToMeters(dBase float64, c *CRS, y float64) (float64, error) {
	if c == nil || !c.IsGeographic() {
		return dBase, nil
	}
	return haversineMeters(dBase, 0, y), nil
}

// ConvertLength converts value from one LengthUnit to another. pixelSize
// is the raster resolution in base (CRS) units per pixel, used when
// Pixels is one of the endpoints; c and y support geographic (haversine)
// base/meters conversions and may be nil/0 otherwise.
func ConvertLength(value float64, from, to LengthUnit, pixelSize float64, c *CRS, y float64) (float64, error) {
	if from == to {
		return value, nil
	}

	// Normalize to meters first.
	var meters float64
	switch from {
	case Base:
		m, err := baseToMeters(value, c, y)
		if err != nil {
			return 0, err
		}
		meters = m
	case Meters:
		meters = value
	case Kilometers:
		meters = value * metersPerKilometer
	case Feet:
		meters = value * metersPerFoot
	case Pixels:
		pixelLen := unit.New(value, unit.Dimensions{})
		perPixel := unit.New(pixelSize, unit.Dimensions{unit.LengthDim: 1})
		baseUnit := unit.Mul(pixelLen, perPixel)
		if err := baseUnit.Check(unit.Dimensions{unit.LengthDim: 1}); err != nil {
			return 0, &TypeError{Detail: "pixel length conversion: " + err.Error()}
		}
		m, err := baseToMeters(baseUnit.Value(), c, y)
		if err != nil {
			return 0, err
		}
		meters = m
	default:
		return 0, &ValueError{Detail: "unrecognized source length unit"}
	}

	switch to {
	case Meters:
		return meters, nil
	case Kilometers:
		return meters / metersPerKilometer, nil
	case Feet:
		return meters / metersPerFoot, nil
	case Base:
		if c == nil || !c.IsGeographic() {
			return meters, nil
		}
		// Invert the haversine step at the same latitude.
		toRad := math.Pi / 180
		lat := y * toRad
		s := math.Sin(meters/(2*earthRadiusMeters)) / math.Cos(lat)
		dLon := 2 * math.Asin(s) / toRad
		return dLon, nil
	case Pixels:
		if pixelSize == 0 {
			return 0, &ValueError{Detail: "pixel size is required to convert to Pixels"}
		}
		baseLen := meters
		if c != nil && c.IsGeographic() {
			toRad := math.Pi / 180
			s := math.Sin(meters/(2*earthRadiusMeters)) / math.Cos(y*toRad)
			baseLen = 2 * math.Asin(s) / toRad
		}
		baseUnit := unit.New(baseLen, unit.Dimensions{unit.LengthDim: 1})
		perPixel := unit.New(pixelSize, unit.Dimensions{unit.LengthDim: 1})
		pixels := unit.Div(baseUnit, perPixel)
		if err := pixels.Check(unit.Dimensions{}); err != nil {
			return 0, &TypeError{Detail: "pixel length conversion: " + err.Error()}
		}
		return pixels.Value(), nil
	default:
		return 0, &ValueError{Detail: "unrecognized destination length unit"}
	}
}
