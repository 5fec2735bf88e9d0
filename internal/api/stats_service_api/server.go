package stats_service_api

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Domenick1991/flightroutes/internal/domain"
	"github.com/Domenick1991/flightroutes/internal/presentation"
	"github.com/Domenick1991/flightroutes/internal/service/analytics"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Server implements StatsServiceServer on top of the dashboard builder.
type Server struct {
	builder *presentation.Builder
}

func NewServer(builder *presentation.Builder) *Server {
	return &Server{builder: builder}
}

func (s *Server) Summary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	view, err := s.builder.SelectWith(ctx, selectionFrom(req))
	if err != nil {
		return nil, toStatus(err)
	}

	sum := view.Summary()
	return structpb.NewStruct(map[string]interface{}{
		"source":             string(view.Dataset.Source),
		"total_passengers":   sum.TotalPassengers,
		"total_routes":       sum.TotalRoutes,
		"top_origin_country": sum.TopOriginCountry,
	})
}

func (s *Server) TopRoutes(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	n := s.builder.TopRoutes()
	if v, ok := req.GetFields()["n"]; ok {
		f := v.GetNumberValue()
		if _, isNum := v.GetKind().(*structpb.Value_NumberValue); !isNum || f <= 0 || f != math.Trunc(f) {
			return nil, status.Error(codes.InvalidArgument, "n must be a positive integer")
		}
		n = int(f)
	}

	view, err := s.builder.SelectWith(ctx, selectionFrom(req))
	if err != nil {
		return nil, toStatus(err)
	}

	top := analytics.TopRoutes(view.Rows, n)
	routes := make([]interface{}, 0, len(top))
	for _, r := range top {
		routes = append(routes, map[string]interface{}{
			"route":       r.Route,
			"from":        r.From,
			"to":          r.To,
			"passengers":  r.Passengers,
			"distance_km": r.DistanceKm(),
		})
	}
	return structpb.NewStruct(map[string]interface{}{"routes": routes})
}

func selectionFrom(req *structpb.Struct) presentation.SelectFunc {
	return func(opts analytics.Options) (domain.Selection, error) {
		fields := req.GetFields()

		years := opts.Years
		if v, ok := fields["years"]; ok {
			years = make([]int, 0)
			for _, item := range v.GetListValue().GetValues() {
				num, isNum := item.GetKind().(*structpb.Value_NumberValue)
				if !isNum || num.NumberValue != math.Trunc(num.NumberValue) {
					return domain.Selection{}, fmt.Errorf("%w: years must be integers", domain.ErrInvalidSelection)
				}
				years = append(years, int(num.NumberValue))
			}
		}

		types := opts.Types
		if v, ok := fields["types"]; ok {
			types = make([]string, 0)
			for _, item := range v.GetListValue().GetValues() {
				str, isStr := item.GetKind().(*structpb.Value_StringValue)
				if !isStr {
					return domain.Selection{}, fmt.Errorf("%w: types must be strings", domain.ErrInvalidSelection)
				}
				types = append(types, str.StringValue)
			}
		}

		return domain.NewSelection(years, types), nil
	}
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrDataUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, domain.ErrInvalidSelection):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

var _ StatsServiceServer = (*Server)(nil)
