// Package geo holds the scoring math: great-circle distance between two
// points and the distance-to-score mapping.
package geo

import "math"

// earthRadiusKm matches the constant the scoring tables were calibrated with.
const earthRadiusKm = 6371.071

// DistanceKm returns the haversine great-circle distance between the question
// point and the answer point, in whole kilometers rounded half away from zero.
// Inputs are degrees.
func DistanceKm(questionLat, questionLon, answerLat, answerLon float64) int {
	rlat1 := questionLat * math.Pi / 180
	rlat2 := answerLat * math.Pi / 180
	dlat := rlat2 - rlat1
	dlon := (answerLon - questionLon) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	d := 2 * earthRadiusKm * math.Asin(math.Sqrt(a))

	return int(math.Round(d))
}

// TurnScore maps a distance to a turn score: 5000 minus half a point per
// kilometer, never negative. An exact hit scores 5000.
func TurnScore(distanceKm int) int {
	score := 5000 - float64(distanceKm)*0.5
	if score < 0 {
		return 0
	}
	return int(math.Round(score))
}
