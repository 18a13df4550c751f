package ecvrf

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/btcsuite/btcd/btcec"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// PointSize is the length of an encoded affine point (x || y).
const PointSize = 64

// Point is an affine secp256k1 point with normalized coordinates. The point
// at infinity has no Point representation.
type Point struct {
	x, y secp256k1.FieldVal
}

var (
	generatorOnce sync.Once
	generator     Point
)

// Generator returns the base point G.
func Generator() Point {
	generatorOnce.Do(func() {
		var one secp256k1.ModNScalar
		one.SetInt(1)

		var g secp256k1.JacobianPoint
		secp256k1.ScalarBaseMultNonConst(&one, &g)
		pt, err := affine(&g)
		if err != nil {
			panic(err)
		}
		generator = *pt
	})
	return generator
}

// NewPoint builds a point from 32-byte big-endian coordinates and checks
// that it is on the curve.
func NewPoint(x, y []byte) (*Point, error) {
	if len(x) != 32 || len(y) != 32 {
		return nil, fmt.Errorf("%w: coordinates must be 32 bytes", ErrDecode)
	}
	var pt Point
	if overflow := pt.x.SetByteSlice(x); overflow {
		return nil, fmt.Errorf("%w: x coordinate not canonical", ErrInvalidPoint)
	}
	if overflow := pt.y.SetByteSlice(y); overflow {
		return nil, fmt.Errorf("%w: y coordinate not canonical", ErrInvalidPoint)
	}
	pt.x.Normalize()
	pt.y.Normalize()
	if !pt.IsValid() {
		return nil, fmt.Errorf("%w: not on curve", ErrInvalidPoint)
	}
	return &pt, nil
}

// affine converts a jacobian point into normalized affine form.
func affine(j *secp256k1.JacobianPoint) (*Point, error) {
	var p secp256k1.JacobianPoint
	p.Set(j)
	p.X.Normalize()
	p.Y.Normalize()
	p.Z.Normalize()
	if p.Z.IsZero() || (p.X.IsZero() && p.Y.IsZero()) {
		return nil, fmt.Errorf("%w: point at infinity", ErrInvalidPoint)
	}
	p.ToAffine()

	var pt Point
	pt.x.Set(&p.X)
	pt.y.Set(&p.Y)
	pt.x.Normalize()
	pt.y.Normalize()
	return &pt, nil
}

func (p *Point) jacobian(out *secp256k1.JacobianPoint) {
	out.X.Set(&p.x)
	out.Y.Set(&p.y)
	out.Z.SetInt(1)
}

// IsValid reports whether p satisfies y² = x³ + 7. secp256k1 has cofactor 1,
// so every such point is in the prime-order subgroup.
func (p *Point) IsValid() bool {
	if p == nil {
		return false
	}
	return secp256k1.NewPublicKey(&p.x, &p.y).IsOnCurve()
}

// Equal reports whether p and o are the same point.
func (p *Point) Equal(o *Point) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.x.Equals(&o.x) && p.y.Equals(&o.y)
}

// Bytes returns x || y, each 32 bytes big-endian.
func (p *Point) Bytes() [PointSize]byte {
	var out [PointSize]byte
	var x, y [32]byte
	p.x.PutBytes(&x)
	p.y.PutBytes(&y)
	copy(out[:32], x[:])
	copy(out[32:], y[:])
	return out
}

func (p *Point) ecPublicKey() *btcec.PublicKey {
	b := p.Bytes()
	return &btcec.PublicKey{
		Curve: btcec.S256(),
		X:     new(big.Int).SetBytes(b[:32]),
		Y:     new(big.Int).SetBytes(b[32:]),
	}
}

// SerializeCompressed returns the 33-byte SEC1 compressed encoding.
func (p *Point) SerializeCompressed() []byte {
	return p.ecPublicKey().SerializeCompressed()
}

// SerializeUncompressed returns the 65-byte SEC1 uncompressed encoding.
func (p *Point) SerializeUncompressed() []byte {
	return p.ecPublicKey().SerializeUncompressed()
}

func (p *Point) String() string {
	b := p.Bytes()
	return fmt.Sprintf("%x", b[:])
}
