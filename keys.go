package ecvrf

import (
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcec"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// SecretKeySize is the length of an encoded secret key.
const SecretKeySize = 32

// ParseSecretKey decodes a 32-byte big-endian secret key, which must lie in
// [1, n-1].
func ParseSecretKey(b []byte) (*secp256k1.PrivateKey, error) {
	if len(b) != SecretKeySize {
		return nil, fmt.Errorf("%w: secret key must be %d bytes, got %d", ErrDecode, SecretKeySize, len(b))
	}
	k, err := parseScalar(b)
	if err != nil {
		return nil, err
	}
	defer k.Zero()
	if k.IsZero() {
		return nil, fmt.Errorf("%w: secret key is zero", ErrInvalidScalarEncoding)
	}
	return secp256k1.NewPrivateKey(k), nil
}

// GenerateKey draws a secret key from r.
func GenerateKey(r io.Reader) (*secp256k1.PrivateKey, error) {
	k, err := randomScalar(r)
	if err != nil {
		return nil, err
	}
	defer k.Zero()
	return secp256k1.NewPrivateKey(k), nil
}

// ParsePublicKey accepts the raw 64-byte x || y form used in proofs, as well
// as 33-byte compressed and 65-byte uncompressed SEC1 encodings.
func ParsePublicKey(b []byte) (*Point, error) {
	switch len(b) {
	case PointSize:
		return NewPoint(b[:32], b[32:])
	case btcec.PubKeyBytesLenCompressed, btcec.PubKeyBytesLenUncompressed:
		pk, err := btcec.ParsePubKey(b, btcec.S256())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
		}
		var x, y [32]byte
		pk.X.FillBytes(x[:])
		pk.Y.FillBytes(y[:])
		return NewPoint(x[:], y[:])
	default:
		return nil, fmt.Errorf("%w: unrecognized public key length %d", ErrDecode, len(b))
	}
}
