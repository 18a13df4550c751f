package ecvrf

import (
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	// OutputSize is the length of the VRF output (beta).
	OutputSize = 32
	// ProofSize is the length of an encoded proof:
	// gamma(64) || c(32) || s(32) || output(32) || publicKey(64).
	ProofSize = PointSize + ScalarSize + ScalarSize + OutputSize + PointSize
)

// Proof is the result of a single Prove call. It is not modified after
// creation.
type Proof struct {
	Gamma     Point
	C, S      secp256k1.ModNScalar
	Output    [OutputSize]byte
	PublicKey Point
}

// Bytes encodes the proof in its fixed 224-byte layout.
func (p *Proof) Bytes() []byte {
	var (
		out       = make([]byte, 0, ProofSize)
		gamma     = p.Gamma.Bytes()
		c         = p.C.Bytes()
		s         = p.S.Bytes()
		publicKey = p.PublicKey.Bytes()
	)
	out = append(out, gamma[:]...)
	out = append(out, c[:]...)
	out = append(out, s[:]...)
	out = append(out, p.Output[:]...)
	return append(out, publicKey[:]...)
}

// Fields returns the hex forms of the stored proof fields: gamma, c, s and
// the output.
func (p *Proof) Fields() (gamma, c, s, output string) {
	g := p.Gamma.Bytes()
	cb := p.C.Bytes()
	sb := p.S.Bytes()
	return hex.EncodeToString(g[:]), hex.EncodeToString(cb[:]), hex.EncodeToString(sb[:]), hex.EncodeToString(p.Output[:])
}

// DecodeProof parses a proof produced by Bytes. Every field is validated, so
// arbitrary input yields an error rather than a panic.
func DecodeProof(data []byte) (*Proof, error) {
	if len(data) != ProofSize {
		return nil, fmt.Errorf("%w: invalid proof length %d, want %d", ErrDecode, len(data), ProofSize)
	}
	var (
		off = 0
		ret Proof
	)
	next := func(n int) []byte {
		b := data[off : off+n]
		off += n
		return b
	}

	gammaBytes := next(PointSize)
	gamma, err := NewPoint(gammaBytes[:32], gammaBytes[32:])
	if err != nil {
		return nil, fmt.Errorf("invalid proof: gamma: %w", err)
	}
	ret.Gamma = *gamma

	c, err := parseScalar(next(ScalarSize))
	if err != nil {
		return nil, fmt.Errorf("invalid proof: c: %w", err)
	}
	if c.IsZero() {
		return nil, fmt.Errorf("%w: invalid proof: value c is zero", ErrInvalidScalarEncoding)
	}
	ret.C = *c

	s, err := parseScalar(next(ScalarSize))
	if err != nil {
		return nil, fmt.Errorf("invalid proof: s: %w", err)
	}
	if s.IsZero() {
		return nil, fmt.Errorf("%w: invalid proof: value s is zero", ErrInvalidScalarEncoding)
	}
	ret.S = *s

	copy(ret.Output[:], next(OutputSize))

	pkBytes := next(PointSize)
	pk, err := NewPoint(pkBytes[:32], pkBytes[32:])
	if err != nil {
		return nil, fmt.Errorf("invalid proof: public key: %w", err)
	}
	ret.PublicKey = *pk
	return &ret, nil
}
