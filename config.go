// Copyright (c) 2020 vechain.org.
// Licensed under the MIT license.

package ecvrf

import (
	"crypto/rand"
	"hash"
	"io"

	"golang.org/x/crypto/sha3"
)

// Config holds the primitives a VRF instance is parameterized by.
type Config struct {
	// Hasher builds the hash used for both the challenge and the output.
	Hasher func() hash.Hash
	// Rand is the entropy source nonces are drawn from.
	Rand io.Reader
}

// Secp256k1Keccak256 is the suite deployed on-chain verifiers expect:
// secp256k1 points hashed with legacy (pre-FIPS) Keccak-256.
var Secp256k1Keccak256 = Config{
	Hasher: sha3.NewLegacyKeccak256,
	Rand:   rand.Reader,
}

// Option overrides a field of the Config an engine is built with.
type Option func(*Config)

// WithRand sets the source nonces are drawn from.
func WithRand(r io.Reader) Option {
	return func(c *Config) {
		c.Rand = r
	}
}

// WithHasher replaces the hash constructor.
func WithHasher(h func() hash.Hash) Option {
	return func(c *Config) {
		c.Hasher = h
	}
}
