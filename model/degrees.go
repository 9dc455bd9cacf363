// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"fmt"
	"math"
	"strconv"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Degrees is the decimal degree representation of a longitude or latitude.
type Degrees float64

// Degrees units.
const (
	MinutesPerDegree = 60
	SecondsPerDegree = 3600

	// EarthRadius is the mean radius of the earth in meters.
	EarthRadius = 6_371_008.8
)

// Angle returns the equivalent s1.Angle.
func (d Degrees) Angle() s1.Angle { return s1.Angle(float64(d)) * s1.Degree }

// Text renders the degrees the way the OSM API expects them: plain decimal
// notation, never an exponent, with the full precision of the float.
func (d Degrees) Text() string {
	return strconv.FormatFloat(float64(d), 'f', -1, 64)
}

func (d Degrees) String() string {
	var sign string
	if d < 0 {
		sign = "-"
	}

	val := math.Abs(float64(d))
	degrees := int(math.Floor(val))
	minutes := int(math.Floor(MinutesPerDegree * (val - float64(degrees))))
	seconds := SecondsPerDegree * (val - float64(degrees) - (float64(minutes) / MinutesPerDegree))

	return fmt.Sprintf("%s%d° %d' %s\"", sign, degrees, minutes, strconv.FormatFloat(seconds, 'f', 2, 64))
}

func (d Degrees) MarshalJSON() ([]byte, error) {
	return []byte(d.Text()), nil
}

// LatLon is a point on the earth's surface.
type LatLon struct {
	Lat Degrees `json:"lat"`
	Lon Degrees `json:"lon"`
}

// Valid reports whether the point lies within the WGS84 coordinate range.
func (p LatLon) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Distance returns the great circle distance to o in meters.
func (p LatLon) Distance(o LatLon) float64 {
	a := s2.LatLng{Lat: p.Lat.Angle(), Lng: p.Lon.Angle()}
	b := s2.LatLng{Lat: o.Lat.Angle(), Lng: o.Lon.Angle()}

	return a.Distance(b).Radians() * EarthRadius
}

// DMS renders the point in degrees, minutes and seconds.
func (p LatLon) DMS() string {
	return fmt.Sprintf("%s, %s", p.Lat, p.Lon)
}

func (p LatLon) String() string {
	return fmt.Sprintf("(%s, %s)", p.Lat.Text(), p.Lon.Text())
}
