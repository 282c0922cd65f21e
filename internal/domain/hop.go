package domain

import (
	"fmt"
	"strings"
)

// Stage is the point in the brew when an ingredient is added
type Stage int

const (
	StageMash Stage = iota + 1
	StageBoil
	StageFerment
	StageCondition
)

var stageNames = map[Stage]string{
	StageMash:      "MASH",
	StageBoil:      "BOIL",
	StageFerment:   "FERMENT",
	StageCondition: "CONDITION",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// ParseStage accepts the stage name in any case
func ParseStage(name string) (Stage, error) {
	for stage, n := range stageNames {
		if strings.EqualFold(n, name) {
			return stage, nil
		}
	}
	return 0, invalid("stage", "unknown stage %q", name)
}

// HopAddition is a single hop charge.
// Minutes is how long the hops steep in the boil before flameout.
type HopAddition struct {
	Name      string
	Stage     Stage
	Grams     float64
	AlphaAcid float64 // decimal fraction, 0.14 = 14%
	Minutes   float64
}

// NewHopAddition creates a hop addition with validation
func NewHopAddition(name string, stage Stage, grams, alphaAcid, minutes float64) (HopAddition, error) {
	h := HopAddition{
		Name:      name,
		Stage:     stage,
		Grams:     grams,
		AlphaAcid: alphaAcid,
		Minutes:   minutes,
	}
	if err := h.Validate(); err != nil {
		return HopAddition{}, err
	}
	return h, nil
}

// Validate checks the addition on its own; the boil length check needs a BoilContext
func (h HopAddition) Validate() error {
	if _, ok := stageNames[h.Stage]; !ok {
		return invalid("stage", "unknown stage %d", int(h.Stage))
	}
	if !(h.Grams > 0) {
		return invalid("grams", "must be positive, got %v", h.Grams)
	}
	if !(h.AlphaAcid >= 0 && h.AlphaAcid <= 1) {
		return invalid("alpha_acid", "must be within [0, 1], got %v", h.AlphaAcid)
	}
	if !(h.Minutes >= 0) {
		return invalid("minutes", "cannot be negative, got %v", h.Minutes)
	}
	return nil
}

// ContributesBitterness reports whether the addition goes through the boil.
// Mash and dry hops add essentially no bitterness, at least not in a predictable way.
func (h HopAddition) ContributesBitterness() bool {
	return h.Stage == StageBoil
}
