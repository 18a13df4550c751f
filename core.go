package ecvrf

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

type core struct {
	*Config
}

func (c *core) ScalarMult(pt *Point, k *secp256k1.ModNScalar) *secp256k1.JacobianPoint {
	var in, out secp256k1.JacobianPoint
	pt.jacobian(&in)
	secp256k1.ScalarMultNonConst(k, &in, &out)
	return &out
}

func (c *core) ScalarBaseMult(k *secp256k1.ModNScalar) *secp256k1.JacobianPoint {
	var out secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(k, &out)
	return &out
}

func (c *core) Add(p1, p2 *secp256k1.JacobianPoint) *secp256k1.JacobianPoint {
	var out secp256k1.JacobianPoint
	secp256k1.AddNonConst(p1, p2, &out)
	return &out
}

func (c *core) Hash(data ...[]byte) []byte {
	h := c.Hasher()
	for _, e := range data {
		h.Write(e)
	}
	return h.Sum(nil)
}

// HashToCurve maps alpha to alpha*G, offset by pk when given. There is no
// domain separation and no try-and-increment: on-chain verifiers compute
// exactly this point.
func (c *core) HashToCurve(alpha *secp256k1.ModNScalar, pk *Point) (*Point, error) {
	h := c.ScalarBaseMult(alpha)
	if pk != nil {
		var y secp256k1.JacobianPoint
		pk.jacobian(&y)
		h = c.Add(h, &y)
	}
	return affine(h)
}

// HashPoints is the Fiat-Shamir challenge: the hash of x || y of every point,
// in order, reduced modulo the group order.
func (c *core) HashPoints(points ...*Point) *secp256k1.ModNScalar {
	data := make([][]byte, 0, len(points))
	for _, pt := range points {
		b := pt.Bytes()
		data = append(data, b[:])
	}

	// SetByteSlice subtracts n once on overflow, which is what the deployed
	// verifiers do with a 256-bit digest.
	var s secp256k1.ModNScalar
	s.SetByteSlice(c.Hash(data...))
	return &s
}

// GammaToHash derives the VRF output (beta) from gamma.
func (c *core) GammaToHash(gamma *Point) [OutputSize]byte {
	b := gamma.Bytes()
	var out [OutputSize]byte
	copy(out[:], c.Hash(b[:]))
	return out
}
