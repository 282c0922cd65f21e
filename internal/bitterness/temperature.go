package bitterness

import (
	"fmt"
	"math"

	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/domain"
)

// Phase is where an addition sits in the post-addition schedule.
// Phases only move forward: Boil -> Whirlpool -> ForcedCooling -> Done.
type Phase int

const (
	PhaseBoil Phase = iota
	PhaseWhirlpool
	PhaseForcedCooling
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseBoil:
		return "boil"
	case PhaseWhirlpool:
		return "whirlpool"
	case PhaseForcedCooling:
		return "forced_cooling"
	case PhaseDone:
		return "done"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Natural convective cooling fit, anchored at flameout:
// T(t) = 53.6 * e^(-b*t) + 319.55 Kelvin.
const (
	whirlpoolSpanK      = 53.6
	whirlpoolAsymptoteK = 319.55
	whirlpoolAreaCoeff  = 0.0002925
	whirlpoolBaseDecay  = 0.00538
)

// WhirlpoolDecay is the per-minute decay constant of an uncovered kettle
func WhirlpoolDecay(surfaceArea, openingArea, litres float64) float64 {
	return whirlpoolAreaCoeff*math.Sqrt(surfaceArea*openingArea)/litres + whirlpoolBaseDecay
}

// TemperatureModel tracks wort temperature for one addition.
// Time is measured in minutes since the addition went into the boil.
type TemperatureModel struct {
	cooling        domain.CoolingContext
	boilRemaining  float64
	whirlpoolDecay float64

	phase    Phase
	lastK    float64
	anchorC  float64
	duration float64
}

// NewTemperatureModel creates a model for an addition with boilRemaining minutes left in the boil
func NewTemperatureModel(cooling domain.CoolingContext, postBoilLitres, boilRemaining float64) *TemperatureModel {
	return &TemperatureModel{
		cooling:        cooling,
		boilRemaining:  boilRemaining,
		whirlpoolDecay: WhirlpoolDecay(cooling.KettleSurfaceArea, cooling.KettleOpeningArea, postBoilLitres),
		phase:          PhaseBoil,
		lastK:          domain.CelsiusToKelvin(domain.BoilingC),
		duration:       boilRemaining + cooling.WhirlpoolMinutes,
	}
}

// Phase returns the current phase
func (m *TemperatureModel) Phase() Phase {
	return m.phase
}

// Duration is the total minutes the addition spends above the target temperature.
// It is only final once forced cooling has started.
func (m *TemperatureModel) Duration() float64 {
	return m.duration
}

func (m *TemperatureModel) whirlpoolEnd() float64 {
	return m.boilRemaining + m.cooling.WhirlpoolMinutes
}

// advance moves the phase forward for elapsed time t.
// The duration is extended exactly once, when forced cooling starts.
func (m *TemperatureModel) advance(t float64) {
	if m.phase == PhaseBoil && t >= m.boilRemaining {
		m.phase = PhaseWhirlpool
	}
	if m.phase == PhaseWhirlpool && t >= m.whirlpoolEnd() {
		m.phase = PhaseForcedCooling
		m.anchorC = domain.KelvinToCelsius(m.lastK)
		m.duration = m.whirlpoolEnd() + m.cooling.CoolTime(m.anchorC)
	}
	if m.phase == PhaseForcedCooling && t >= m.duration {
		m.phase = PhaseDone
	}
}

// Kelvin returns the wort temperature at elapsed time t and the phase it falls in.
// Calls must use non-decreasing t.
func (m *TemperatureModel) Kelvin(t float64) (float64, Phase) {
	m.advance(t)

	switch m.phase {
	case PhaseBoil:
		m.lastK = domain.CelsiusToKelvin(domain.BoilingC)
	case PhaseWhirlpool:
		m.lastK = whirlpoolSpanK*math.Exp(-m.whirlpoolDecay*(t-m.boilRemaining)) + whirlpoolAsymptoteK
	case PhaseForcedCooling:
		approach := m.cooling.ApproachC
		c := (m.anchorC-approach)*math.Exp(-m.cooling.Coefficient*(t-m.whirlpoolEnd())) + approach
		m.lastK = domain.CelsiusToKelvin(c)
	}

	return m.lastK, m.phase
}
