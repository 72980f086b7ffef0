// Package service exposes coil derivation over connect-rpc. Messages travel as
// google.protobuf.Struct, so any Connect, gRPC or gRPC-Web client can call it
// without generated stubs:
//
//	curl -H 'Content-Type: application/json' \
//	    -d '{"turns": 6}' http://127.0.0.1:8099/vortex.v1.CoilService/Derive
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/vortex/coil"
	"github.com/tailored-agentic-units/vortex/config"
	"github.com/tailored-agentic-units/vortex/observability"
)

const (
	ServiceName = "vortex.v1.CoilService"

	DeriveProcedure    = "/" + ServiceName + "/Derive"
	ResonanceProcedure = "/" + ServiceName + "/Resonance"
	FieldProcedure     = "/" + ServiceName + "/Field"
)

// EventRequest is emitted once per handled request.
const EventRequest observability.EventType = "service.request"

// Service derives coils on request. It holds no coil state between calls.
type Service struct {
	maxTurns int
	observer observability.Observer
	coilOpts []coil.Option
}

// Option customises a Service.
type Option func(*Service)

// WithCoilOptions passes options to every coil the service builds.
func WithCoilOptions(opts ...coil.Option) Option {
	return func(s *Service) { s.coilOpts = append(s.coilOpts, opts...) }
}

// WithObserver overrides the observer named in the configuration.
func WithObserver(obs observability.Observer) Option {
	return func(s *Service) {
		if obs != nil {
			s.observer = obs
		}
	}
}

// New validates cfg and resolves its observer.
func New(cfg config.ServiceConfig, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Service{maxTurns: cfg.MaxTurns}
	for _, opt := range opts {
		opt(s)
	}
	if s.observer == nil {
		obs, err := observability.GetObserver(cfg.Observer)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve observer: %w", err)
		}
		s.observer = obs
	}
	return s, nil
}

// Handler returns an http.Handler serving every procedure.
func (s *Service) Handler(opts ...connect.HandlerOption) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(DeriveProcedure, connect.NewUnaryHandler(DeriveProcedure, s.derive, opts...))
	mux.Handle(ResonanceProcedure, connect.NewUnaryHandler(ResonanceProcedure, s.resonance, opts...))
	mux.Handle(FieldProcedure, connect.NewUnaryHandler(FieldProcedure, s.field, opts...))
	return mux
}

func (s *Service) build(ctx context.Context, source *config.CoilConfig) (*coil.Coil, error) {
	cfg, err := source.Resolve()
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if cfg.Turns > s.maxTurns {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("%w: turns %d exceeds limit %d", config.ErrInvalidConfig, cfg.Turns, s.maxTurns))
	}
	c, err := coil.New(cfg, s.coilOpts...)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return c, nil
}

func (s *Service) derive(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in DeriveRequest
	if err := Decode(req.Msg, &in); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	c, err := s.build(ctx, &in)
	if err != nil {
		return nil, s.fail(ctx, DeriveProcedure, err)
	}

	s.record(ctx, DeriveProcedure, map[string]any{"turns": c.Len()})
	return respond(DeriveResponse{
		Nodes:          c.Nodes(),
		Consciousness:  c.Consciousness(),
		FieldResonance: c.FieldResonance(),
	})
}

func (s *Service) resonance(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in ResonanceRequest
	if err := Decode(req.Msg, &in); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	a, err := s.build(ctx, &in.A)
	if err != nil {
		return nil, s.fail(ctx, ResonanceProcedure, err)
	}
	b, err := s.build(ctx, &in.B)
	if err != nil {
		return nil, s.fail(ctx, ResonanceProcedure, err)
	}

	out := ResonanceResponse{Resonance: coil.Resonance(a.Nodes(), b.Nodes())}
	if in.Cyclic {
		out.Resonance = coil.CyclicResonance(a.Nodes(), b.Nodes())
	}

	s.record(ctx, ResonanceProcedure, map[string]any{"resonance": out.Resonance, "cyclic": in.Cyclic})
	return respond(out)
}

func (s *Service) field(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in FieldRequest
	if err := Decode(req.Msg, &in); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	c, err := s.build(ctx, &in.Coil)
	if err != nil {
		return nil, s.fail(ctx, FieldProcedure, err)
	}

	out := FieldResponse{Field: c.FieldAt(in.Point.X, in.Point.Y, in.Point.Z)}
	s.record(ctx, FieldProcedure, map[string]any{"field": out.Field})
	return respond(out)
}

func respond(v any) (*connect.Response[structpb.Struct], error) {
	msg, err := Encode(v)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(msg), nil
}

func (s *Service) record(ctx context.Context, procedure string, data map[string]any) {
	data["procedure"] = procedure
	observability.Emit(ctx, s.observer, EventRequest, observability.LevelInfo, "service", data)
}

func (s *Service) fail(ctx context.Context, procedure string, err error) error {
	observability.Emit(ctx, s.observer, EventRequest, observability.LevelWarning, "service", map[string]any{
		"procedure": procedure,
		"error":     err.Error(),
	})
	var cerr *connect.Error
	if errors.As(err, &cerr) {
		return cerr
	}
	return connect.NewError(connect.CodeInternal, err)
}
