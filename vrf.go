package ecvrf

import (
	"crypto/subtle"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// VRF is implemented by engines holding a secret key.
type VRF interface {
	Prove(alpha []byte) (*Proof, error)
	Verify(alpha []byte, proof *Proof) bool
}

// Verifier checks proofs against a single public key. It holds no secrets
// and is safe for concurrent use.
type Verifier struct {
	core core
	pk   Point
}

// ECVRF proves and verifies under one key pair. Prove and Verify never
// mutate the engine, so one instance may serve concurrent callers.
type ECVRF struct {
	Verifier
	sk secp256k1.ModNScalar
}

var _ VRF = (*ECVRF)(nil)

func newConfig(opts []Option) *Config {
	cfg := Secp256k1Keccak256
	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// NewVerifier returns a verifier bound to pk.
func NewVerifier(pk *Point, opts ...Option) (*Verifier, error) {
	if !pk.IsValid() {
		return nil, fmt.Errorf("%w: public key not on curve", ErrInvalidPoint)
	}
	return &Verifier{
		core: core{newConfig(opts)},
		pk:   *pk,
	}, nil
}

// New returns an engine bound to sk. The key is copied; callers may zero
// their own copy afterwards.
func New(sk *secp256k1.PrivateKey, opts ...Option) (*ECVRF, error) {
	if sk == nil || sk.Key.IsZero() {
		return nil, fmt.Errorf("%w: secret key is zero", ErrInvalidScalarEncoding)
	}
	v := &ECVRF{
		Verifier: Verifier{core: core{newConfig(opts)}},
	}
	v.sk.Set(&sk.Key)

	pk, err := affine(v.core.ScalarBaseMult(&v.sk))
	if err != nil {
		return nil, err
	}
	v.pk = *pk
	return v, nil
}

// NewFromBytes parses a 32-byte secret key and returns an engine bound to it.
func NewFromBytes(sk []byte, opts ...Option) (*ECVRF, error) {
	key, err := ParseSecretKey(sk)
	if err != nil {
		return nil, err
	}
	defer key.Zero()
	return New(key, opts...)
}

// PublicKey returns the key proofs are verified against.
func (v *Verifier) PublicKey() Point {
	return v.pk
}

// Prove computes the VRF output for alpha, a 32-byte big-endian scalar, along
// with a proof of its correctness. gamma and the output depend only on the
// key and alpha; c and s change on every call because the nonce is fresh.
func (v *ECVRF) Prove(alpha []byte) (*Proof, error) {
	a, err := reduceScalar(alpha)
	if err != nil {
		return nil, err
	}

	var sk secp256k1.ModNScalar
	sk.Set(&v.sk)
	defer sk.Zero()

	// step 1: H = hash_to_curve(alpha, pk)
	pk := v.pk
	h, err := v.core.HashToCurve(a, &pk)
	if err != nil {
		return nil, err
	}

	// step 2: gamma = sk * H
	gamma, err := affine(v.core.ScalarMult(h, &sk))
	if err != nil {
		return nil, err
	}

	// step 3: nonce
	k, err := randomScalar(v.core.Rand)
	if err != nil {
		return nil, err
	}
	defer k.Zero()

	// step 4: c = hash_points(G, H, pk, gamma, k*G, k*H)
	kg, err := affine(v.core.ScalarBaseMult(k))
	if err != nil {
		return nil, err
	}
	kh, err := affine(v.core.ScalarMult(h, k))
	if err != nil {
		return nil, err
	}
	g := Generator()
	c := v.core.HashPoints(&g, h, &pk, gamma, kg, kh)

	// step 5: s = (k - c*sk) mod q
	var s secp256k1.ModNScalar
	s.Mul2(c, &sk).Negate().Add(k)

	return &Proof{
		Gamma:     *gamma,
		C:         *c,
		S:         s,
		Output:    v.core.GammaToHash(gamma),
		PublicKey: pk,
	}, nil
}

// Verify reports whether proof is a valid proof for alpha under the
// verifier's key. Malformed input yields false.
func (v *Verifier) Verify(alpha []byte, proof *Proof) bool {
	_, err := v.verify(alpha, proof)
	return err == nil
}

// VerifyBytes decodes a serialized proof, verifies it and returns the VRF
// output.
func (v *Verifier) VerifyBytes(alpha, pi []byte) ([]byte, error) {
	proof, err := DecodeProof(pi)
	if err != nil {
		return nil, err
	}
	out, err := v.verify(alpha, proof)
	if err != nil {
		return nil, err
	}
	return out[:], nil
}

func (v *Verifier) verify(alpha []byte, proof *Proof) (out [OutputSize]byte, err error) {
	if proof == nil {
		return out, fmt.Errorf("%w: nil proof", ErrDecode)
	}
	a, err := reduceScalar(alpha)
	if err != nil {
		return out, err
	}
	pk := v.pk
	if !pk.IsValid() || !proof.Gamma.IsValid() || !proof.PublicKey.IsValid() {
		return out, fmt.Errorf("%w: proof point not on curve", ErrInvalidPoint)
	}
	if !proof.PublicKey.Equal(&pk) {
		return out, fmt.Errorf("%w: proof was made for a different public key", ErrInvalidProof)
	}

	// H = hash_to_curve(alpha, pk)
	h, err := v.core.HashToCurve(a, &pk)
	if err != nil {
		return out, err
	}

	// U = c*pk + s*G
	u, err := affine(v.core.Add(v.core.ScalarMult(&pk, &proof.C), v.core.ScalarBaseMult(&proof.S)))
	if err != nil {
		return out, err
	}

	// V = s*H + c*gamma
	vv, err := affine(v.core.Add(v.core.ScalarMult(h, &proof.S), v.core.ScalarMult(&proof.Gamma, &proof.C)))
	if err != nil {
		return out, err
	}

	g := Generator()
	c := v.core.HashPoints(&g, h, &pk, &proof.Gamma, u, vv)
	out = v.core.GammaToHash(&proof.Gamma)

	if !c.Equals(&proof.C) || subtle.ConstantTimeCompare(out[:], proof.Output[:]) != 1 {
		return [OutputSize]byte{}, ErrInvalidProof
	}
	return out, nil
}

// Zero wipes the secret key. The engine must not be used afterwards.
func (v *ECVRF) Zero() {
	v.sk.Zero()
}
