package grpc

import (
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/bitterness"
	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/domain"
	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/ports"
)

// decoder reads typed fields out of a Struct and keeps the first error
type decoder struct {
	fields map[string]*structpb.Value
	err    error
}

func newDecoder(s *structpb.Struct) *decoder {
	return &decoder{fields: s.GetFields()}
}

func (d *decoder) fail(field, reason string) {
	if d.err == nil {
		d.err = &domain.ValidationError{Field: field, Reason: reason}
	}
}

func (d *decoder) has(key string) bool {
	v, ok := d.fields[key]
	if !ok {
		return false
	}
	_, isNull := v.GetKind().(*structpb.Value_NullValue)
	return !isNull
}

func (d *decoder) number(key string, def float64) float64 {
	if !d.has(key) {
		return def
	}
	n, ok := d.fields[key].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		d.fail(key, "must be a number")
		return def
	}
	return n.NumberValue
}

func (d *decoder) required(key string) float64 {
	if !d.has(key) {
		d.fail(key, "is required")
		return 0
	}
	return d.number(key, 0)
}

func (d *decoder) str(key, def string) string {
	if !d.has(key) {
		return def
	}
	s, ok := d.fields[key].GetKind().(*structpb.Value_StringValue)
	if !ok {
		d.fail(key, "must be a string")
		return def
	}
	return s.StringValue
}

func (d *decoder) boolean(key string) bool {
	if !d.has(key) {
		return false
	}
	b, ok := d.fields[key].GetKind().(*structpb.Value_BoolValue)
	if !ok {
		d.fail(key, "must be a boolean")
		return false
	}
	return b.BoolValue
}

func (d *decoder) list(key string) []*structpb.Value {
	if !d.has(key) {
		return nil
	}
	l, ok := d.fields[key].GetKind().(*structpb.Value_ListValue)
	if !ok {
		d.fail(key, "must be a list")
		return nil
	}
	return l.ListValue.GetValues()
}

// requestFromProto builds a calculation request, filling engine settings from defaults
func requestFromProto(s *structpb.Struct, defaults bitterness.IntegrationConfig) (ports.CalculationRequest, bool, error) {
	d := newDecoder(s)

	pre := d.required("pre_boil_gravity")
	post := d.required("post_boil_gravity")
	boilMinutes := d.required("boil_minutes")
	litres := d.required("post_boil_litres")
	method := d.str("method", "")
	cfg := bitterness.IntegrationConfig{
		StepMinutes: d.number("step_minutes", defaults.StepMinutes),
		Diagnostics: d.boolean("diagnostics"),
	}
	additions := d.list("additions")
	if d.err != nil {
		return ports.CalculationRequest{}, false, d.err
	}

	boil, err := domain.NewBoilContext(pre, post, boilMinutes, litres)
	if err != nil {
		return ports.CalculationRequest{}, false, err
	}

	m, err := bitterness.ParseMethod(method)
	if err != nil {
		return ports.CalculationRequest{}, false, err
	}

	var cooling domain.CoolingContext
	if m == bitterness.MethodMIBU {
		if cooling, err = coolingFromProto(d); err != nil {
			return ports.CalculationRequest{}, false, err
		}
	}

	hops := make([]domain.HopAddition, 0, len(additions))
	for i, v := range additions {
		hop, err := hopFromProto(v.GetStructValue())
		if err != nil {
			return ports.CalculationRequest{}, false, fmt.Errorf("addition %d: %w", i, err)
		}
		hops = append(hops, hop)
	}

	return ports.CalculationRequest{
		Boil:    boil,
		Cooling: cooling,
		Method:  m,
		Config:  cfg,
		Hops:    hops,
	}, cfg.Diagnostics, nil
}

func coolingFromProto(d *decoder) (domain.CoolingContext, error) {
	approach := d.required("approach_c")
	target := d.required("target_c")
	if d.err != nil {
		return domain.CoolingContext{}, d.err
	}

	var coefficient float64
	switch {
	case d.has("cooling_coefficient"):
		coefficient = d.number("cooling_coefficient", 0)
	case d.has("cooling_minutes"):
		k, err := domain.CoolingCoefficient(approach, target, d.number("cooling_minutes", 0), domain.BoilingC)
		if err != nil {
			return domain.CoolingContext{}, err
		}
		coefficient = k
	default:
		d.fail("cooling_coefficient", "cooling_coefficient or cooling_minutes is required")
	}

	opts := []domain.CoolingOption{domain.WithWhirlpool(d.number("whirlpool_minutes", 0))}
	if d.has("kettle_surface_area") || d.has("kettle_opening_area") {
		opts = append(opts, domain.WithKettleGeometry(
			d.number("kettle_surface_area", domain.DefaultKettleArea),
			d.number("kettle_opening_area", domain.DefaultKettleArea),
		))
	}
	if d.err != nil {
		return domain.CoolingContext{}, d.err
	}

	return domain.NewCoolingContext(approach, target, coefficient, opts...)
}

func hopFromProto(s *structpb.Struct) (domain.HopAddition, error) {
	if s == nil {
		return domain.HopAddition{}, &domain.ValidationError{Field: "additions", Reason: "each addition must be an object"}
	}
	d := newDecoder(s)

	name := d.str("name", "")
	stageName := d.str("stage", domain.StageBoil.String())
	grams := d.required("grams")
	alpha := d.required("alpha_acid")
	minutes := d.number("minutes", 0)
	if d.err != nil {
		return domain.HopAddition{}, d.err
	}

	stage, err := domain.ParseStage(stageName)
	if err != nil {
		return domain.HopAddition{}, err
	}
	return domain.NewHopAddition(name, stage, grams, alpha, minutes)
}

// calculationToMap converts domain model to a Struct-compatible map
func calculationToMap(c *domain.Calculation) map[string]any {
	hops := make([]any, len(c.Hops))
	for i, h := range c.Hops {
		hops[i] = map[string]any{
			"name":        h.Name,
			"stage":       h.Stage.String(),
			"grams":       h.Grams,
			"alpha_acid":  h.AlphaAcid,
			"minutes":     h.Minutes,
			"utilization": h.Utilization,
			"ibu":         h.IBU,
		}
	}

	return map[string]any{
		"id":         c.ID,
		"method":     c.Method,
		"total_ibu":  c.TotalIBU,
		"created_at": c.CreatedAt.Unix(),
		"boil": map[string]any{
			"pre_boil_gravity":  c.Boil.PreBoilGravity,
			"post_boil_gravity": c.Boil.PostBoilGravity,
			"boil_minutes":      c.Boil.BoilMinutes,
			"post_boil_litres":  c.Boil.PostBoilLitres,
		},
		"additions": hops,
	}
}

func traceToList(trace bitterness.Trace) []any {
	samples := make([]any, len(trace))
	for i, s := range trace {
		samples[i] = map[string]any{
			"minutes":   s.Minutes,
			"celsius":   s.Celsius,
			"increment": s.Increment,
			"phase":     s.Phase.String(),
		}
	}
	return samples
}

// largest unix second whose UnixNano fits in an int64
const maxUnixSeconds = 9_223_372_036

func timeFromUnix(d *decoder, key string) time.Time {
	sec := d.required(key)
	if d.err != nil {
		return time.Time{}
	}
	if math.IsNaN(sec) || math.Abs(sec) > maxUnixSeconds {
		d.fail(key, fmt.Sprintf("must be unix seconds within ±%d", maxUnixSeconds))
		return time.Time{}
	}
	return time.Unix(int64(sec), 0)
}
