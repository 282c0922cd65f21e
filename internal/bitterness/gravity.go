package bitterness

import (
	"math"

	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/domain"
)

// GravityModel gives the wort gravity while water boils off.
// The extract mass stays constant, so gravity rises as volume shrinks.
type GravityModel struct {
	boilMinutes     float64
	postBoilGravity float64
	extract         float64
	preBoilLitres   float64
	boilOffRate     float64
}

// NewGravityModel derives the extract balance once for a boil
func NewGravityModel(boil domain.BoilContext) GravityModel {
	return GravityModel{
		boilMinutes:     boil.BoilMinutes,
		postBoilGravity: boil.PostBoilGravity,
		extract:         boil.ExtractMass(),
		preBoilLitres:   boil.PreBoilLitres(),
		boilOffRate:     boil.BoilOffRate(),
	}
}

// At returns the gravity tau minutes after the boil started.
// After flameout it is frozen at the post-boil gravity.
func (g GravityModel) At(tau float64) float64 {
	if tau >= g.boilMinutes {
		return g.postBoilGravity
	}
	return 1 + g.extract/(g.preBoilLitres*math.Pow(1-g.boilOffRate, tau))
}
