package bitterness

import (
	"fmt"
	"strings"

	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/domain"
)

// Method selects how utilization is estimated
type Method int

const (
	// MethodMIBU integrates isomerization through boil, whirlpool and cooling
	MethodMIBU Method = iota
	// MethodTinseth uses the closed-form boil-only curve
	MethodTinseth
)

func (m Method) String() string {
	switch m {
	case MethodMIBU:
		return "mibu"
	case MethodTinseth:
		return "tinseth"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod maps a method name to a Method; empty means mIBU
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(name) {
	case "", "mibu":
		return MethodMIBU, nil
	case "tinseth":
		return MethodTinseth, nil
	}
	return 0, &domain.ValidationError{Field: "method", Reason: fmt.Sprintf("unknown method %q", name)}
}

// Estimate is the bitterness one hop addition contributes
type Estimate struct {
	Hop         domain.HopAddition
	Utilization float64
	IBU         float64
	Trace       Trace
}

// IBU converts utilization into bitterness units (mg/l of isomerized alpha acid)
func IBU(utilization float64, hop domain.HopAddition, postBoilLitres float64) float64 {
	return utilization * hop.AlphaAcid * 1000 * hop.Grams / postBoilLitres
}

// TinsethUtilization is the closed-form estimate using the mean boil gravity
func TinsethUtilization(hop domain.HopAddition, boil domain.BoilContext) (float64, error) {
	if err := validateBoilInputs(hop, boil); err != nil {
		return 0, err
	}
	return Tinseth(boil.AverageGravity(), hop.Minutes), nil
}

func validateBoilInputs(hop domain.HopAddition, boil domain.BoilContext) error {
	if err := hop.Validate(); err != nil {
		return err
	}
	if err := boil.Validate(); err != nil {
		return err
	}
	if hop.Minutes > boil.BoilMinutes {
		return &domain.ValidationError{
			Field:  "minutes",
			Reason: fmt.Sprintf("addition time %v exceeds boil time %v", hop.Minutes, boil.BoilMinutes),
		}
	}
	return nil
}

// Estimator evaluates hop additions against one boil and cooling setup.
// Cooling is only consulted by MethodMIBU.
type Estimator struct {
	Boil    domain.BoilContext
	Cooling domain.CoolingContext
	Config  IntegrationConfig
	Method  Method
}

// Estimate returns the bitterness of a single addition.
// Anything not added to the boil contributes nothing and is not evaluated.
func (e Estimator) Estimate(hop domain.HopAddition) (Estimate, error) {
	if !hop.ContributesBitterness() {
		return Estimate{Hop: hop}, nil
	}

	var (
		utilization float64
		trace       Trace
	)
	switch e.Method {
	case MethodMIBU:
		u, err := Integrate(hop, e.Boil, e.Cooling, e.Config)
		if err != nil {
			return Estimate{}, err
		}
		utilization, trace = u.Value, u.Trace
	case MethodTinseth:
		u, err := TinsethUtilization(hop, e.Boil)
		if err != nil {
			return Estimate{}, err
		}
		utilization = u
	default:
		return Estimate{}, &domain.ValidationError{Field: "method", Reason: fmt.Sprintf("unsupported method %v", e.Method)}
	}

	return Estimate{
		Hop:         hop,
		Utilization: utilization,
		IBU:         IBU(utilization, hop, e.Boil.PostBoilLitres),
		Trace:       trace,
	}, nil
}
