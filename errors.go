package ecvrf

import "errors"

var (
	// ErrInvalidPoint is returned for points that are off the curve, have
	// non-canonical coordinates or are the point at infinity.
	ErrInvalidPoint = errors.New("invalid point")
	// ErrInvalidScalarEncoding is returned for bytes that are not a canonical scalar.
	ErrInvalidScalarEncoding = errors.New("invalid scalar encoding")
	// ErrRandomSource is returned when no nonce could be drawn.
	ErrRandomSource = errors.New("random source failure")
	// ErrDecode is returned when serialized data does not match the fixed layout.
	ErrDecode = errors.New("decode error")
	// ErrInvalidProof is returned when a well-formed proof does not verify.
	ErrInvalidProof = errors.New("invalid proof")
)
