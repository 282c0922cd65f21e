package domain

import "math"

// BoilContext describes the wort going through the boil
type BoilContext struct {
	PreBoilGravity  float64
	PostBoilGravity float64
	BoilMinutes     float64
	PostBoilLitres  float64
}

// NewBoilContext creates a boil context with validation.
// Both gravities must be above 1.0, the extract balance takes logs and powers of (SG - 1).
func NewBoilContext(preBoilGravity, postBoilGravity, boilMinutes, postBoilLitres float64) (BoilContext, error) {
	b := BoilContext{
		PreBoilGravity:  preBoilGravity,
		PostBoilGravity: postBoilGravity,
		BoilMinutes:     boilMinutes,
		PostBoilLitres:  postBoilLitres,
	}
	if err := b.Validate(); err != nil {
		return BoilContext{}, err
	}
	return b, nil
}

// Validate checks the boil invariants
func (b BoilContext) Validate() error {
	if !(b.PreBoilGravity > 1) {
		return invalid("pre_boil_gravity", "must be greater than 1.0, got %v", b.PreBoilGravity)
	}
	if !(b.PostBoilGravity > 1) {
		return invalid("post_boil_gravity", "must be greater than 1.0, got %v", b.PostBoilGravity)
	}
	if !(b.BoilMinutes > 0) {
		return invalid("boil_minutes", "must be positive, got %v", b.BoilMinutes)
	}
	if !(b.PostBoilLitres > 0) {
		return invalid("post_boil_litres", "must be positive, got %v", b.PostBoilLitres)
	}
	return nil
}

// AverageGravity is the mean of pre- and post-boil gravity
func (b BoilContext) AverageGravity() float64 {
	return (b.PreBoilGravity + b.PostBoilGravity) / 2
}

// ExtractMass is (SG - 1) * volume, which evaporation leaves unchanged
func (b BoilContext) ExtractMass() float64 {
	return (b.PostBoilGravity - 1) * b.PostBoilLitres
}

// PreBoilLitres derives the volume at the start of the boil from the extract balance
func (b BoilContext) PreBoilLitres() float64 {
	return b.ExtractMass() / (b.PreBoilGravity - 1)
}

// BoilOffRate is the fraction of volume lost per minute
func (b BoilContext) BoilOffRate() float64 {
	return 1 - math.Pow(b.PostBoilLitres/b.PreBoilLitres(), 1/b.BoilMinutes)
}

// BoilOffRatePerHour is the fraction of volume lost per hour (0.15 = 15%)
func (b BoilContext) BoilOffRatePerHour() float64 {
	return 1 - math.Pow(b.PostBoilLitres/b.PreBoilLitres(), 60/b.BoilMinutes)
}
