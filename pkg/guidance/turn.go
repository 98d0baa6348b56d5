package guidance

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/lintang-b-s/navigatorx-turncost/pkg"
)

// TurnAngle returns the signed turn angle in degrees at (lat, lon) when arriving from prev and leaving to next.
// positive is a left turn (counterclockwise), negative a right turn.
func TurnAngle(prevLat, prevLon, lat, lon, nextLat, nextLon float64) float64 {
	a := s2.PointFromLatLng(s2.LatLngFromDegrees(prevLat, prevLon))
	b := s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lon))
	c := s2.PointFromLatLng(s2.LatLngFromDegrees(nextLat, nextLon))
	if a.ApproxEqual(b) || b.ApproxEqual(c) {
		return 0
	}
	return s2.TurnAngle(a, b, c).Degrees()
}

func GetTurnType(prevLat, prevLon, lat, lon, nextLat, nextLon float64) pkg.TurnType {
	angle := TurnAngle(prevLat, prevLon, lat, lon, nextLat, nextLon)
	absAngle := math.Abs(angle)
	switch {
	case math.IsNaN(angle) || absAngle < pkg.SLIGHT_TURN_ANGLE_DEGREE:
		return pkg.STRAIGHT_ON
	case absAngle >= pkg.U_TURN_ANGLE_DEGREE:
		return pkg.U_TURN
	case absAngle >= pkg.SHARP_TURN_ANGLE_DEGREE:
		return pkg.SHARP_TURN
	case angle > 0:
		return pkg.LEFT_TURN
	default:
		return pkg.RIGHT_TURN
	}
}
