package ecvrf

import (
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// ScalarSize is the length of an encoded scalar.
const ScalarSize = 32

// maxNonceDraws bounds rejection sampling so that a broken reader (e.g. one
// that only yields zeros) fails instead of spinning.
const maxNonceDraws = 64

// reduceScalar interprets a 32-byte big-endian value as a scalar, reducing
// it modulo the group order.
func reduceScalar(b []byte) (*secp256k1.ModNScalar, error) {
	if len(b) != ScalarSize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidScalarEncoding, ScalarSize, len(b))
	}
	var s secp256k1.ModNScalar
	s.SetByteSlice(b)
	return &s, nil
}

// parseScalar decodes a canonical scalar, rejecting values >= n.
func parseScalar(b []byte) (*secp256k1.ModNScalar, error) {
	if len(b) != ScalarSize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidScalarEncoding, ScalarSize, len(b))
	}
	var s secp256k1.ModNScalar
	if overflow := s.SetByteSlice(b); overflow {
		return nil, fmt.Errorf("%w: value out of range (>= curve order)", ErrInvalidScalarEncoding)
	}
	return &s, nil
}

// randomScalar draws k uniformly from [1, n-1].
func randomScalar(r io.Reader) (*secp256k1.ModNScalar, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: no random source configured", ErrRandomSource)
	}
	var buf [ScalarSize]byte
	defer zeroBytes(buf[:])

	for i := 0; i < maxNonceDraws; i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRandomSource, err)
		}
		var k secp256k1.ModNScalar
		overflow := k.SetBytes(&buf)
		if overflow == 0 && !k.IsZero() {
			return &k, nil
		}
		k.Zero()
	}
	return nil, fmt.Errorf("%w: no usable scalar after %d draws", ErrRandomSource, maxNonceDraws)
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
