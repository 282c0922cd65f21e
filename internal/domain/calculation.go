package domain

import (
	"time"

	"github.com/google/uuid"
)

// HopResult is the bitterness one addition contributed to a calculation
type HopResult struct {
	Name        string
	Stage       Stage
	Grams       float64
	AlphaAcid   float64
	Minutes     float64
	Utilization float64
	IBU         float64
}

// Calculation is a recorded bitterness estimate for a whole hop schedule
type Calculation struct {
	ID        string
	Method    string
	Boil      BoilContext
	Cooling   CoolingContext
	Hops      []HopResult
	TotalIBU  float64
	CreatedAt time.Time
}

// NewCalculation stamps a calculation with a fresh ID and the current time
func NewCalculation(method string, boil BoilContext, cooling CoolingContext, hops []HopResult) *Calculation {
	var total float64
	for _, h := range hops {
		total += h.IBU
	}

	return &Calculation{
		ID:        uuid.New().String(),
		Method:    method,
		Boil:      boil,
		Cooling:   cooling,
		Hops:      hops,
		TotalIBU:  total,
		CreatedAt: time.Now(),
	}
}
