package domain

import (
	"errors"
	"math"
	"testing"
)

func TestNewHopAddition(t *testing.T) {
	tests := []struct {
		name    string
		stage   Stage
		grams   float64
		alpha   float64
		minutes float64
		wantErr bool
	}{
		{name: "valid boil addition", stage: StageBoil, grams: 20, alpha: 0.1, minutes: 60},
		{name: "flameout addition", stage: StageBoil, grams: 20, alpha: 0.1, minutes: 0},
		{name: "zero grams", stage: StageBoil, grams: 0, alpha: 0.1, minutes: 60, wantErr: true},
		{name: "alpha above one", stage: StageBoil, grams: 20, alpha: 1.2, minutes: 60, wantErr: true},
		{name: "negative minutes", stage: StageBoil, grams: 20, alpha: 0.1, minutes: -1, wantErr: true},
		{name: "unknown stage", stage: Stage(42), grams: 20, alpha: 0.1, minutes: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHopAddition("Cascade", tt.stage, tt.grams, tt.alpha, tt.minutes)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseStage(t *testing.T) {
	stage, err := ParseStage("ferment")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stage != StageFerment {
		t.Errorf("expected FERMENT, got %v", stage)
	}

	if _, err := ParseStage("lauter"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNewBoilContext_Validation(t *testing.T) {
	tests := []struct {
		name      string
		pre, post float64
		minutes   float64
		litres    float64
		field     string
	}{
		{name: "pre-boil gravity at 1.0", pre: 1.0, post: 1.065, minutes: 60, litres: 20, field: "pre_boil_gravity"},
		{name: "post-boil gravity below 1.0", pre: 1.055, post: 0.99, minutes: 60, litres: 20, field: "post_boil_gravity"},
		{name: "zero boil time", pre: 1.055, post: 1.065, minutes: 0, litres: 20, field: "boil_minutes"},
		{name: "zero volume", pre: 1.055, post: 1.065, minutes: 60, litres: 0, field: "post_boil_litres"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBoilContext(tt.pre, tt.post, tt.minutes, tt.litres)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}

func TestBoilContext_ExtractBalance(t *testing.T) {
	boil, err := NewBoilContext(1.055, 1.065, 60, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 0.065 * 20 / 0.055
	if got, want := boil.PreBoilLitres(), 23.636363636; math.Abs(got-want) > 1e-6 {
		t.Errorf("PreBoilLitres() = %v, want %v", got, want)
	}

	// Compounding the per-minute rate over the boil must land on the post-boil volume
	remaining := boil.PreBoilLitres() * math.Pow(1-boil.BoilOffRate(), boil.BoilMinutes)
	if math.Abs(remaining-boil.PostBoilLitres) > 1e-9 {
		t.Errorf("expected %v litres after boil, got %v", boil.PostBoilLitres, remaining)
	}

	// A 60 minute boil loses the same share per hour as over the whole boil
	wantHourly := 1 - boil.PostBoilLitres/boil.PreBoilLitres()
	if math.Abs(boil.BoilOffRatePerHour()-wantHourly) > 1e-12 {
		t.Errorf("BoilOffRatePerHour() = %v, want %v", boil.BoilOffRatePerHour(), wantHourly)
	}
}

func TestNewCoolingContext_TargetMustExceedApproach(t *testing.T) {
	for _, target := range []float64{7, 5} {
		_, err := NewCoolingContext(7, target, 0.05)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("target %v: expected ErrInvalidInput, got %v", target, err)
		}
	}
}

func TestNewCoolingContext_Defaults(t *testing.T) {
	c, err := NewCoolingContext(7, 20, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.KettleSurfaceArea != DefaultKettleArea || c.KettleOpeningArea != DefaultKettleArea {
		t.Errorf("expected default kettle geometry, got %v/%v", c.KettleSurfaceArea, c.KettleOpeningArea)
	}
	if c.WhirlpoolMinutes != 0 {
		t.Errorf("expected no whirlpool, got %v", c.WhirlpoolMinutes)
	}

	c, err = NewCoolingContext(7, 20, 0.05, WithWhirlpool(15), WithKettleGeometry(500, 300))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.WhirlpoolMinutes != 15 || c.KettleSurfaceArea != 500 || c.KettleOpeningArea != 300 {
		t.Errorf("options not applied: %+v", c)
	}

	if _, err := NewCoolingContext(7, 20, 0.05, WithWhirlpool(-1)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for negative whirlpool, got %v", err)
	}
}

func TestCoolingCoefficientRoundTrip(t *testing.T) {
	k, err := CoolingCoefficient(7, 20, 40, BoilingC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(k-0.0491912534) > 1e-9 {
		t.Errorf("CoolingCoefficient() = %v", k)
	}

	c, err := NewCoolingContext(7, 20, k)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.CoolTime(BoilingC); math.Abs(got-40) > 1e-9 {
		t.Errorf("CoolTime() = %v, want 40", got)
	}
	if got := c.CoolTime(18); got != 0 {
		t.Errorf("CoolTime() below target = %v, want 0", got)
	}

	if _, err := CoolingCoefficient(20, 20, 40, BoilingC); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNewCalculation_TotalsHops(t *testing.T) {
	calc := NewCalculation("mibu", BoilContext{}, CoolingContext{}, []HopResult{
		{Name: "Magnum", IBU: 30},
		{Name: "Citra", IBU: 12.5},
	})
	if calc.TotalIBU != 42.5 {
		t.Errorf("expected total 42.5, got %v", calc.TotalIBU)
	}
	if calc.ID == "" {
		t.Error("expected ID to be set")
	}
}
