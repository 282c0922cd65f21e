package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/bitterness"
	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/domain"
	"github.com/quentinrf/brewhouse/services/bitterness-service/internal/ports"
)

// BitternessServiceHandler implements the gRPC BitternessService
type BitternessServiceHandler struct {
	calculator *ports.Calculator
	repo       domain.CalculationRepository
	defaults   bitterness.IntegrationConfig
}

// NewBitternessServiceHandler creates a new gRPC handler.
// defaults supplies the integration step when a request does not set one.
func NewBitternessServiceHandler(calculator *ports.Calculator, repo domain.CalculationRepository, defaults bitterness.IntegrationConfig) *BitternessServiceHandler {
	return &BitternessServiceHandler{
		calculator: calculator,
		repo:       repo,
		defaults:   defaults,
	}
}

// Estimate evaluates a hop schedule and records it
func (h *BitternessServiceHandler) Estimate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log.Info().Msg("Estimate called")

	calcReq, diagnostics, err := requestFromProto(req, h.defaults)
	if err != nil {
		return nil, toStatus(err, "invalid estimate request")
	}

	calc, schedule, err := h.calculator.Calculate(ctx, calcReq)
	if err != nil {
		return nil, toStatus(err, "failed to calculate bitterness")
	}

	resp := calculationToMap(calc)
	if diagnostics {
		additions := resp["additions"].([]any)
		for i, est := range schedule.Estimates {
			additions[i].(map[string]any)["trace"] = traceToList(est.Trace)
		}
	}

	return newStruct(resp)
}

// GetCalculation returns a recorded calculation by ID
func (h *BitternessServiceHandler) GetCalculation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	d := newDecoder(req)
	id := d.str("id", "")
	if id == "" {
		d.fail("id", "is required")
	}
	if d.err != nil {
		return nil, toStatus(d.err, "invalid request")
	}

	log.Info().Str("id", id).Msg("GetCalculation called")

	calc, err := h.repo.GetCalculation(ctx, id)
	if err != nil {
		return nil, toStatus(err, "failed to get calculation")
	}
	return newStruct(calculationToMap(calc))
}

// GetLatest returns the most recent calculation
func (h *BitternessServiceHandler) GetLatest(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log.Info().Msg("GetLatest called")

	calc, err := h.repo.GetLatestCalculation(ctx)
	if err != nil {
		return nil, toStatus(err, "failed to get latest calculation")
	}
	return newStruct(calculationToMap(calc))
}

// GetHistory returns calculations within time range with statistics
func (h *BitternessServiceHandler) GetHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	d := newDecoder(req)
	start := timeFromUnix(d, "start_time")
	end := timeFromUnix(d, "end_time")
	if d.err != nil {
		return nil, toStatus(d.err, "invalid request")
	}

	log.Info().
		Int64("start", start.Unix()).
		Int64("end", end.Unix()).
		Msg("GetHistory called")

	calcs, err := h.repo.GetCalculationsInRange(ctx, start, end)
	if err != nil {
		return nil, toStatus(err, "failed to get calculations")
	}

	items := make([]any, len(calcs))
	for i, c := range calcs {
		items[i] = calculationToMap(c)
	}

	stats := calculateStatistics(calcs)

	return newStruct(map[string]any{
		"calculations": items,
		"count":        len(calcs),
		"average_ibu":  stats.average,
		"min_ibu":      stats.min,
		"max_ibu":      stats.max,
	})
}

// LoggingInterceptor logs every unary call with its status and duration
func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		log.Debug().
			Str("method", info.FullMethod).
			Str("code", status.Code(err).String()).
			Dur("duration", time.Since(start)).
			Msg("handled request")

		return resp, err
	}
}

// toStatus maps domain errors to gRPC codes; anything unexpected is logged and hidden
func toStatus(err error, msg string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		log.Warn().Err(err).Msg(msg)
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrCalculationNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	}
	log.Error().Err(err).Msg(msg)
	return status.Error(codes.Internal, msg)
}

func newStruct(m map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode response")
		return nil, status.Error(codes.Internal, "failed to encode response")
	}
	return s, nil
}

// statistics holds calculated statistics
type statistics struct {
	average float64
	min     float64
	max     float64
}

// calculateStatistics computes total IBU stats for a set of calculations
func calculateStatistics(calcs []*domain.Calculation) statistics {
	if len(calcs) == 0 {
		return statistics{}
	}

	var sum float64
	min := calcs[0].TotalIBU
	max := calcs[0].TotalIBU

	for _, c := range calcs {
		sum += c.TotalIBU
		if c.TotalIBU < min {
			min = c.TotalIBU
		}
		if c.TotalIBU > max {
			max = c.TotalIBU
		}
	}

	return statistics{
		average: sum / float64(len(calcs)),
		min:     min,
		max:     max,
	}
}
