// Package rpc decodes JSON-RPC style requests and serves them from a VRF
// engine and its epoch store.
package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Supported methods.
const (
	MethodGetPublicEpoch = "orand_getPublicEpoch"
	MethodNewEpoch       = "orand_newEpoch"
)

var (
	// ErrUnknownMethod is returned for methods other than the supported ones.
	ErrUnknownMethod = errors.New("unsupported method")
	// ErrInvalidParams is returned when params do not match the method.
	ErrInvalidParams = errors.New("invalid params")
)

// Payload is the wire form of a request.
type Payload struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
}

// Request is one of GetPublicEpoch or NewEpoch.
type Request interface {
	Method() string
}

// GetPublicEpoch asks for the stored randomness of a network at an epoch.
type GetPublicEpoch struct {
	Network int64
	Epoch   int64
}

// Method implements Request.
func (GetPublicEpoch) Method() string { return MethodGetPublicEpoch }

// NewEpoch advances a network to its next epoch.
type NewEpoch struct {
	Network int64
}

// Method implements Request.
func (NewEpoch) Method() string { return MethodNewEpoch }

// Decode parses a JSON payload into a typed request.
func Decode(data []byte) (Request, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return p.Request()
}

// Request converts the payload into a typed request.
func (p *Payload) Request() (Request, error) {
	switch p.Method {
	case MethodGetPublicEpoch:
		ints, err := parseParams(p.Params, 2)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", p.Method, err)
		}
		return GetPublicEpoch{Network: ints[0], Epoch: ints[1]}, nil
	case MethodNewEpoch:
		ints, err := parseParams(p.Params, 1)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", p.Method, err)
		}
		return NewEpoch{Network: ints[0]}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, p.Method)
	}
}

func parseParams(params []string, n int) ([]int64, error) {
	if len(params) != n {
		return nil, fmt.Errorf("%w: want %d params, got %d", ErrInvalidParams, n, len(params))
	}
	out := make([]int64, n)
	for i, s := range params {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: param %d: %v", ErrInvalidParams, i, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("%w: param %d is negative", ErrInvalidParams, i)
		}
		out[i] = v
	}
	return out, nil
}
