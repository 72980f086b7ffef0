package service

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/vortex/coil"
	"github.com/tailored-agentic-units/vortex/config"
)

// DeriveRequest is a coil configuration; zero fields take their defaults.
type DeriveRequest = config.CoilConfig

type DeriveResponse struct {
	Nodes          []coil.Node `json:"nodes"`
	Consciousness  float64     `json:"consciousness"`
	FieldResonance float64     `json:"field_resonance"`
}

type ResonanceRequest struct {
	A config.CoilConfig `json:"a"`
	B config.CoilConfig `json:"b"`

	// Cyclic selects the rotation-invariant comparison.
	Cyclic bool `json:"cyclic,omitempty"`
}

type ResonanceResponse struct {
	Resonance float64 `json:"resonance"`
}

type FieldRequest struct {
	Coil  config.CoilConfig `json:"coil"`
	Point coil.Position     `json:"point"`
}

type FieldResponse struct {
	Field float64 `json:"field"`
}

// Encode encodes v as a protobuf Struct through its JSON form.
func Encode(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return s, nil
}

// Decode decodes a protobuf Struct into v through its JSON form.
func Decode(s *structpb.Struct, v any) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to decode message: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode message: %w", err)
	}
	return nil
}
