package mixin

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when composing a nil value.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidEvent is returned when a coil interaction carries no coil.
	ErrInvalidEvent = errors.New("invalid event")
)

// DeliveryError reports the subscriber whose handler failed during Notify.
// Delivery to the subscribers after it was abandoned.
type DeliveryError struct {
	SubscriberID string
	EventType    EventType
	Err          error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivering %s to %s: %v", e.EventType, e.SubscriberID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
