// Package geo provides haversine distance and initial bearing between two
// points, treated as a pure library dependency elsewhere in this module.
package geo

import "math"

const earthRadiusMeters = 6371000.0

// Point is a (longitude, latitude) pair in decimal degrees.
type Point struct {
	Lon float64
	Lat float64
}

// HaversineMeters returns the great-circle distance between a and b in
// meters.
func HaversineMeters(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMeters * c
}

// BearingDegrees returns the initial compass bearing from a to b, in
// [0, 360) degrees measured clockwise from true north.
func BearingDegrees(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	theta := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(theta+360, 360)
}

// NormalizeSignedAngle folds an angle difference (post - pre, in degrees)
// into [-180, 180): ((post-pre+540) mod 360) - 180.
func NormalizeSignedAngle(post, pre float64) float64 {
	diff := post - pre
	m := math.Mod(diff+540, 360)
	if m < 0 {
		m += 360
	}
	return m - 180
}

// LineStringLengthMeters sums the haversine distance between consecutive
// points, the arc-length primitive build steps measure distance from.
func LineStringLengthMeters(points []Point) float64 {
	total := 0.0
	for i := 0; i+1 < len(points); i++ {
		total += HaversineMeters(points[i], points[i+1])
	}
	return total
}
