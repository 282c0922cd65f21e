package bitterness

import "math"

// Tinseth returns boil utilization from the closed-form Tinseth curve.
// It ignores anything that isomerizes after flameout.
func Tinseth(averageGravity, minutes float64) float64 {
	boilTimeFactor := (1 - math.Exp(-boilTimeRate*minutes)) / boilTimeScale
	return bignessFactor(averageGravity) * boilTimeFactor
}
