package service

import (
	"context"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls a remote Service.
type Client struct {
	derive    *connect.Client[structpb.Struct, structpb.Struct]
	resonance *connect.Client[structpb.Struct, structpb.Struct]
	field     *connect.Client[structpb.Struct, structpb.Struct]
}

// NewClient returns a Client for the service rooted at baseURL.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		derive:    connect.NewClient[structpb.Struct, structpb.Struct](httpClient, baseURL+DeriveProcedure, opts...),
		resonance: connect.NewClient[structpb.Struct, structpb.Struct](httpClient, baseURL+ResonanceProcedure, opts...),
		field:     connect.NewClient[structpb.Struct, structpb.Struct](httpClient, baseURL+FieldProcedure, opts...),
	}
}

// Derive derives a coil remotely. Zero fields of req take their defaults.
func (c *Client) Derive(ctx context.Context, req DeriveRequest) (*DeriveResponse, error) {
	var out DeriveResponse
	if err := call(ctx, c.derive, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Resonance measures the resonance between the two coils of req.
func (c *Client) Resonance(ctx context.Context, req ResonanceRequest) (float64, error) {
	var out ResonanceResponse
	if err := call(ctx, c.resonance, req, &out); err != nil {
		return 0, err
	}
	return out.Resonance, nil
}

// Field returns the field strength of req.Coil at req.Point.
func (c *Client) Field(ctx context.Context, req FieldRequest) (float64, error) {
	var out FieldResponse
	if err := call(ctx, c.field, req, &out); err != nil {
		return 0, err
	}
	return out.Field, nil
}

func call(ctx context.Context, client *connect.Client[structpb.Struct, structpb.Struct], in, out any) error {
	msg, err := Encode(in)
	if err != nil {
		return err
	}
	res, err := client.CallUnary(ctx, connect.NewRequest(msg))
	if err != nil {
		return err
	}
	return Decode(res.Msg, out)
}
