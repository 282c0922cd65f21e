package bitterness

import (
	"fmt"
	"math"

	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/domain"
)

// DefaultStepMinutes is one second of simulated time
const DefaultStepMinutes = 1.0 / 60.0

// Tinseth curve constants
const (
	bignessScale   = 1.65
	bignessBase    = 0.000125
	boilTimeRate   = 0.04
	boilTimeScale  = 4.15
	arrheniusScale = 2.39e11
	arrheniusTemp  = 9773.0

	// non-isomerized components count fully this close to the addition
	fullContributionMinutes = 5.0

	// upper bound on integration steps per addition
	maxIntegrationSteps = 10_000_000
)

// IntegrationConfig controls one integration run
type IntegrationConfig struct {
	StepMinutes float64
	Diagnostics bool
}

// DefaultIntegrationConfig integrates in one second steps without a trace
func DefaultIntegrationConfig() IntegrationConfig {
	return IntegrationConfig{StepMinutes: DefaultStepMinutes}
}

func (c IntegrationConfig) validate() error {
	if !(c.StepMinutes > 0) || math.IsInf(c.StepMinutes, 0) {
		return &domain.ValidationError{Field: "step_minutes", Reason: "must be a positive finite number"}
	}
	return nil
}

// Sample is one recorded integration step
type Sample struct {
	Minutes   float64
	Celsius   float64
	Increment float64
	Phase     Phase
}

// Trace is the ordered list of samples of a diagnostic run
type Trace []Sample

// Utilization is the outcome of an integration run.
// Trace is nil unless diagnostics were requested.
type Utilization struct {
	Value float64
	Trace Trace
}

// DegreeOfUtilization is the relative isomerization rate at a temperature, capped at 1
func DegreeOfUtilization(kelvin float64) float64 {
	return math.Min(1, arrheniusScale*math.Exp(-arrheniusTemp/kelvin))
}

// isomerizationRate is the derivative of the Tinseth boil time curve at minute t
func isomerizationRate(gravity, t float64) float64 {
	return bignessFactor(gravity) * boilTimeRate * math.Exp(-boilTimeRate*t) / boilTimeScale
}

func bignessFactor(gravity float64) float64 {
	return bignessScale * math.Pow(bignessBase, gravity-1)
}

// Integrate accumulates alpha acid utilization for a hop addition from the moment it
// enters the boil until the wort reaches the target temperature (mIBU).
func Integrate(hop domain.HopAddition, boil domain.BoilContext, cooling domain.CoolingContext, cfg IntegrationConfig) (Utilization, error) {
	if err := cfg.validate(); err != nil {
		return Utilization{}, err
	}
	if err := validateBoilInputs(hop, boil); err != nil {
		return Utilization{}, err
	}
	if err := cooling.Validate(); err != nil {
		return Utilization{}, err
	}

	if err := checkStepCount(hop, cooling, cfg); err != nil {
		return Utilization{}, err
	}

	gravity := NewGravityModel(boil)
	temps := NewTemperatureModel(cooling, boil.PostBoilLitres, hop.Minutes)
	boilOffset := boil.BoilMinutes - hop.Minutes

	var result Utilization

	// t is never reset between phases, the rate term keeps decaying after flameout
	for t := 0.0; ; t += cfg.StepMinutes {
		kelvin, phase := temps.Kelvin(t)
		if phase == PhaseDone {
			break
		}

		dU := isomerizationRate(gravity.At(boilOffset+t), t)
		degree := DegreeOfUtilization(kelvin)
		if t < fullContributionMinutes {
			degree = 1
		}

		increment := dU * degree
		result.Value += increment * cfg.StepMinutes

		if cfg.Diagnostics {
			result.Trace = append(result.Trace, Sample{
				Minutes:   t,
				Celsius:   domain.KelvinToCelsius(kelvin),
				Increment: increment,
				Phase:     phase,
			})
		}
	}

	return result, nil
}

// checkStepCount bounds the run before it starts. Forced cooling never begins above
// boiling, so cooling from 100 °C is the longest possible tail.
func checkStepCount(hop domain.HopAddition, cooling domain.CoolingContext, cfg IntegrationConfig) error {
	longest := hop.Minutes + cooling.WhirlpoolMinutes + cooling.CoolTime(domain.BoilingC)
	if steps := longest / cfg.StepMinutes; !(steps <= maxIntegrationSteps) {
		return &domain.ValidationError{
			Field:  "step_minutes",
			Reason: fmt.Sprintf("needs more than %d steps to cover %.1f minutes", maxIntegrationSteps, longest),
		}
	}
	return nil
}
