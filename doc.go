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

// Package streamnet builds directed networks of stream segments from a
// pitfilled DEM, a D8 flow-direction raster, and a stream-pixel mask, and
// evaluates catchment statistics and confinement angles over the
// resulting segments and their upslope basins.
//
// Raster and vector file I/O, CRS reprojection libraries, and hazard-model
// coefficients are external collaborators; streamnet does not import the
// rasterio and vectorio subpackages, which build on its types instead.
package streamnet

import "github.com/sirupsen/logrus"

// log is the package-level logger. Override it with SetLogger to route
// streamnet's progress and diagnostic output elsewhere.
var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the package-level logger used for progress and
// diagnostic messages (the basin labeller's local-network and worker
// counts, at Debug level). Passing nil restores the standard logger.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		log = logrus.StandardLogger()
		return
	}
	log = l
}
