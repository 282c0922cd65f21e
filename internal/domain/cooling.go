package domain

import "math"

// DefaultKettleArea is used for kettle surface and opening area when none is given
const DefaultKettleArea = 900.0

// BoilingC is the wort temperature during an active boil
const BoilingC = 100.0

const kelvinOffset = 273.15

// CelsiusToKelvin converts degrees Celsius to Kelvin
func CelsiusToKelvin(c float64) float64 {
	return c + kelvinOffset
}

// KelvinToCelsius converts Kelvin to degrees Celsius
func KelvinToCelsius(k float64) float64 {
	return k - kelvinOffset
}

// CoolingContext describes what happens to the wort after flameout:
// an optional whirlpool stand followed by forced cooling towards ApproachC.
type CoolingContext struct {
	ApproachC         float64 // coolant or ambient temperature
	TargetC           float64 // pitching temperature, always above ApproachC
	Coefficient       float64 // Newtonian cooling constant, per minute
	WhirlpoolMinutes  float64
	KettleSurfaceArea float64
	KettleOpeningArea float64
}

// CoolingOption tweaks optional CoolingContext fields
type CoolingOption func(*CoolingContext)

// WithWhirlpool adds a whirlpool stand before forced cooling
func WithWhirlpool(minutes float64) CoolingOption {
	return func(c *CoolingContext) {
		c.WhirlpoolMinutes = minutes
	}
}

// WithKettleGeometry overrides the default kettle surface and opening area
func WithKettleGeometry(surfaceArea, openingArea float64) CoolingOption {
	return func(c *CoolingContext) {
		c.KettleSurfaceArea = surfaceArea
		c.KettleOpeningArea = openingArea
	}
}

// NewCoolingContext creates a cooling context with validation
func NewCoolingContext(approachC, targetC, coefficient float64, opts ...CoolingOption) (CoolingContext, error) {
	c := CoolingContext{
		ApproachC:         approachC,
		TargetC:           targetC,
		Coefficient:       coefficient,
		KettleSurfaceArea: DefaultKettleArea,
		KettleOpeningArea: DefaultKettleArea,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if err := c.Validate(); err != nil {
		return CoolingContext{}, err
	}
	return c, nil
}

// Validate checks the cooling invariants
func (c CoolingContext) Validate() error {
	if !(c.TargetC > c.ApproachC) {
		return invalid("target_c", "must be greater than approach temperature %v, got %v", c.ApproachC, c.TargetC)
	}
	if !(c.Coefficient > 0) {
		return invalid("cooling_coefficient", "must be positive, got %v", c.Coefficient)
	}
	if c.WhirlpoolMinutes < 0 {
		return invalid("whirlpool_minutes", "cannot be negative, got %v", c.WhirlpoolMinutes)
	}
	if !(c.KettleSurfaceArea > 0) {
		return invalid("kettle_surface_area", "must be positive, got %v", c.KettleSurfaceArea)
	}
	if !(c.KettleOpeningArea > 0) {
		return invalid("kettle_opening_area", "must be positive, got %v", c.KettleOpeningArea)
	}
	return nil
}

// CoolTime returns the minutes needed to cool from initialC down to TargetC
func (c CoolingContext) CoolTime(initialC float64) float64 {
	if initialC <= c.TargetC {
		return 0
	}
	return -math.Log((c.TargetC-c.ApproachC)/(initialC-c.ApproachC)) / c.Coefficient
}

// CoolingCoefficient derives the Newtonian cooling constant k from a measured run:
//
//	T(t) = Ts + (T0 - Ts) * e^(-k*t)
//
// where wort went from initialC to targetC in minutes with coolant at approachC.
func CoolingCoefficient(approachC, targetC, minutes, initialC float64) (float64, error) {
	if targetC <= approachC {
		return 0, invalid("target_c", "must be greater than approach temperature %v, got %v", approachC, targetC)
	}
	if initialC <= targetC {
		return 0, invalid("initial_c", "must be greater than target temperature %v, got %v", targetC, initialC)
	}
	if minutes <= 0 {
		return 0, invalid("cooling_minutes", "must be positive, got %v", minutes)
	}
	return -math.Log((targetC-approachC)/(initialC-approachC)) / minutes, nil
}
