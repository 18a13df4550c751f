// Copyright (c) 2022 vechain.org.
// Licensed under the MIT license.

package ecvrf

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	mrand "math/rand"
	"reflect"
	"sync"
	"testing"
	"testing/iotest"
	"testing/quick"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

var (
	katSecretKey = bytes.Repeat([]byte{0x01}, 32)
	katAlpha     = bytes.Repeat([]byte{0x02}, 32)
	katNonce     = bytes.Repeat([]byte{0x03}, 32)
)

func newTestVRF(t testing.TB, opts ...Option) *ECVRF {
	t.Helper()
	sk, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	v, err := New(sk, opts...)
	require.NoError(t, err)
	return v
}

func randomAlpha(t testing.TB) []byte {
	t.Helper()
	alpha := make([]byte, 32)
	_, err := rand.Read(alpha)
	require.NoError(t, err)
	return alpha
}

func TestKnownAnswer(t *testing.T) {
	v, err := NewFromBytes(katSecretKey, WithRand(bytes.NewReader(katNonce)))
	require.NoError(t, err)

	pk := v.PublicKey()
	assert.Equal(t, katPublicKey, pk.String())

	proof, err := v.Prove(katAlpha)
	require.NoError(t, err)

	want := katGamma + katC + katS + katOutput + katPublicKey
	assert.Equal(t, want, hex.EncodeToString(proof.Bytes()))
	assert.True(t, v.Verify(katAlpha, proof))

	// the reader is drained, the next proof has no nonce
	_, err = v.Prove(katAlpha)
	assert.True(t, errors.Is(err, ErrRandomSource))
}

func TestConcreteVector(t *testing.T) {
	v, err := NewFromBytes(katSecretKey)
	require.NoError(t, err)

	proof, err := v.Prove(katAlpha)
	require.NoError(t, err)
	assert.True(t, v.Verify(katAlpha, proof))

	gamma := proof.Gamma.Bytes()
	h := sha3.NewLegacyKeccak256()
	h.Write(gamma[:])
	assert.Equal(t, h.Sum(nil), proof.Output[:])
	assert.Equal(t, katOutput, hex.EncodeToString(proof.Output[:]))
}

func TestProveVerify(t *testing.T) {
	v := newTestVRF(t)
	alpha := randomAlpha(t)

	p1, err := v.Prove(alpha)
	require.NoError(t, err)
	p2, err := v.Prove(alpha)
	require.NoError(t, err)

	assert.True(t, v.Verify(alpha, p1))
	assert.True(t, v.Verify(alpha, p2))

	// same output, different proofs
	assert.Equal(t, p1.Output, p2.Output)
	assert.True(t, p1.Gamma.Equal(&p2.Gamma))
	assert.False(t, p1.C.Equals(&p2.C))
	assert.False(t, p1.S.Equals(&p2.S))

	// the proof does not verify for another input
	other := randomAlpha(t)
	assert.False(t, v.Verify(other, p1))

	out, err := v.VerifyBytes(alpha, p1.Bytes())
	require.NoError(t, err)
	assert.Equal(t, p1.Output[:], out)
}

func TestVerifyForgedGamma(t *testing.T) {
	v := newTestVRF(t)
	alpha := randomAlpha(t)

	proof, err := v.Prove(alpha)
	require.NoError(t, err)

	forged := *proof
	forged.Gamma = Generator()
	assert.False(t, v.Verify(alpha, &forged))

	// also with an output consistent with the forged gamma
	forged.Output = v.core.GammaToHash(&forged.Gamma)
	assert.False(t, v.Verify(alpha, &forged))
}

func TestVerifyTampered(t *testing.T) {
	v := newTestVRF(t)
	alpha := randomAlpha(t)

	proof, err := v.Prove(alpha)
	require.NoError(t, err)
	pi := proof.Bytes()

	// gamma, c, s and output
	for i := 0; i < ProofSize-PointSize; i++ {
		mutated := append([]byte(nil), pi...)
		mutated[i] ^= 0x01
		if _, err := v.VerifyBytes(alpha, mutated); err == nil {
			t.Fatalf("proof with byte %d flipped verified", i)
		}
		if p, err := DecodeProof(mutated); err == nil && v.Verify(alpha, p) {
			t.Fatalf("decoded proof with byte %d flipped verified", i)
		}
	}
}

func TestVerifyOtherKey(t *testing.T) {
	v1 := newTestVRF(t)
	v2 := newTestVRF(t)
	alpha := randomAlpha(t)

	proof, err := v1.Prove(alpha)
	require.NoError(t, err)

	assert.False(t, v2.Verify(alpha, proof))

	// even with the embedded key swapped in
	swapped := *proof
	swapped.PublicKey = v2.PublicKey()
	assert.False(t, v2.Verify(alpha, &swapped))

	pk := v1.PublicKey()
	verifier, err := NewVerifier(&pk)
	require.NoError(t, err)
	assert.True(t, verifier.Verify(alpha, proof))
}

func TestVerifyInvalidPoint(t *testing.T) {
	v := newTestVRF(t)
	alpha := randomAlpha(t)

	proof, err := v.Prove(alpha)
	require.NoError(t, err)

	bad := *proof
	bad.Gamma = Point{}
	bad.Gamma.x.SetInt(1)
	bad.Gamma.y.SetInt(1)

	assert.NotPanics(t, func() {
		assert.False(t, v.Verify(alpha, &bad))
	})
	_, err = v.verify(alpha, &bad)
	assert.True(t, errors.Is(err, ErrInvalidPoint))

	pi := bad.Bytes()
	_, err = v.VerifyBytes(alpha, pi)
	assert.True(t, errors.Is(err, ErrInvalidPoint))
}

func TestVerifyMalformed(t *testing.T) {
	v := newTestVRF(t)
	alpha := randomAlpha(t)
	proof, err := v.Prove(alpha)
	require.NoError(t, err)

	tests := []struct {
		name    string
		alpha   []byte
		proof   *Proof
		wantErr error
	}{
		{"nil proof", alpha, nil, ErrDecode},
		{"short alpha", alpha[:31], proof, ErrInvalidScalarEncoding},
		{"empty proof", alpha, &Proof{}, ErrInvalidPoint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, v.Verify(tt.alpha, tt.proof))
			_, err := v.verify(tt.alpha, tt.proof)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	_, err = v.VerifyBytes(alpha, []byte{0x02, 0x01})
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestProveErrors(t *testing.T) {
	t.Run("random source", func(t *testing.T) {
		v := newTestVRF(t, WithRand(iotest.ErrReader(errors.New("no entropy"))))
		_, err := v.Prove(randomAlpha(t))
		assert.True(t, errors.Is(err, ErrRandomSource))
	})
	t.Run("alpha length", func(t *testing.T) {
		v := newTestVRF(t)
		_, err := v.Prove([]byte("hello"))
		assert.True(t, errors.Is(err, ErrInvalidScalarEncoding))
	})
	t.Run("hash to infinity", func(t *testing.T) {
		one := make([]byte, 32)
		one[31] = 1
		v, err := NewFromBytes(one)
		require.NoError(t, err)
		// (n-1)*G + pk where pk = G
		_, err = v.Prove(mustHex(t, "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364140"))
		assert.True(t, errors.Is(err, ErrInvalidPoint))
	})
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.True(t, errors.Is(err, ErrInvalidScalarEncoding))
	_, err = New(new(secp256k1.PrivateKey))
	assert.True(t, errors.Is(err, ErrInvalidScalarEncoding))
	_, err = NewFromBytes(make([]byte, 32))
	assert.True(t, errors.Is(err, ErrInvalidScalarEncoding))

	_, err = NewVerifier(&Point{})
	assert.True(t, errors.Is(err, ErrInvalidPoint))

	sk, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	v, err := New(sk)
	require.NoError(t, err)

	want := sk.PubKey().SerializeUncompressed()
	pk := v.PublicKey()
	assert.Equal(t, want, pk.SerializeUncompressed())

	// the engine keeps its own copy
	sk.Zero()
	alpha := randomAlpha(t)
	proof, err := v.Prove(alpha)
	require.NoError(t, err)
	assert.True(t, v.Verify(alpha, proof))

	v.Zero()
	assert.True(t, v.sk.IsZero())
}

func TestConcurrentUse(t *testing.T) {
	v := newTestVRF(t)
	alpha := randomAlpha(t)
	want, err := v.Prove(alpha)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := v.Prove(alpha)
			if err != nil {
				errs <- err
				return
			}
			if p.Output != want.Output || !v.Verify(alpha, p) {
				errs <- errors.New("unexpected proof")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

type secp256k1gen struct {
	sk    *secp256k1.PrivateKey
	alpha []byte
}

func (secp256k1gen) Generate(rand *mrand.Rand, size int) reflect.Value {
	for {
		sk, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			continue
		}
		alpha := make([]byte, 32)
		rand.Read(alpha)
		return reflect.ValueOf(secp256k1gen{sk, alpha})
	}
}

func TestRandSkAndAlpha(t *testing.T) {
	if err := quick.Check(func(gen secp256k1gen) bool {
		v, err := New(gen.sk)
		if err != nil {
			return false
		}
		proof, err := v.Prove(gen.alpha)
		if err != nil {
			return false
		}
		decoded, err := DecodeProof(proof.Bytes())
		if err != nil {
			return false
		}
		out, err := v.VerifyBytes(gen.alpha, proof.Bytes())
		if err != nil {
			return false
		}
		return v.Verify(gen.alpha, decoded) && bytes.Equal(out, proof.Output[:])
	}, nil); err != nil {
		t.Fatal(err)
	}
}

func BenchmarkVRF(b *testing.B) {
	alpha := bytes.Repeat([]byte{0x02}, 32)
	b.Run("secp256k1keccak256-proving", func(b *testing.B) {
		v := newTestVRF(b)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := v.Prove(alpha); err != nil {
				b.Fatal(err)
			}
		}
	})
	b.Run("secp256k1keccak256-verifying", func(b *testing.B) {
		v := newTestVRF(b)
		proof, err := v.Prove(alpha)
		if err != nil {
			b.Fatal(err)
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if !v.Verify(alpha, proof) {
				b.Fatal("verification failed")
			}
		}
	})
}
