package network

import "errors"

var (
	ErrUnknownNode = errors.New("unknown node")
	ErrNilSubject  = errors.New("nil subject")
)
