package rpc

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/sha3"

	"github.com/orand-network/ecvrf"
	"github.com/orand-network/ecvrf/internal/storage"
)

// EpochResult is the JSON form of a stored epoch.
type EpochResult struct {
	Network     int64     `json:"network"`
	Epoch       int64     `json:"epoch"`
	Alpha       string    `json:"alpha"`
	Gamma       string    `json:"gamma"`
	C           string    `json:"c"`
	S           string    `json:"s"`
	Y           string    `json:"y"`
	PublicKey   string    `json:"public_key"`
	Verified    bool      `json:"verified"`
	CreatedDate time.Time `json:"created_date"`
}

type metrics struct {
	requests      *prometheus.CounterVec
	epochsCreated prometheus.Counter
	verifyFailed  prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orand_rpc_requests_total",
			Help: "Number of requests handled, by method.",
		}, []string{"method"}),
		epochsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orand_epochs_created_total",
			Help: "Number of epochs proved and stored.",
		}),
		verifyFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orand_verify_failures_total",
			Help: "Number of stored epochs whose proof did not verify.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.epochsCreated, m.verifyFailed)
	}
	return m
}

// Service answers requests from the store, proving new epochs with the most
// recent keyring entry.
type Service struct {
	store   *storage.Store
	vrf     *ecvrf.ECVRF
	key     *storage.Key
	metrics *metrics

	// serializes epoch creation
	mu sync.Mutex
}

// NewService loads the latest key from store. Metrics are registered with reg
// when it is not nil.
func NewService(ctx context.Context, store *storage.Store, reg prometheus.Registerer, opts ...ecvrf.Option) (*Service, error) {
	key, err := store.LatestKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("load signing key: %w", err)
	}
	sk, err := hex.DecodeString(key.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("key %d: %v", key.ID, err)
	}
	vrf, err := ecvrf.NewFromBytes(sk, opts...)
	if err != nil {
		return nil, fmt.Errorf("key %d: %w", key.ID, err)
	}
	glog.Infof("rpc: serving with key %d (%v)", key.ID, key.PublicKey)
	return &Service{
		store:   store,
		vrf:     vrf,
		key:     key,
		metrics: newMetrics(reg),
	}, nil
}

// Close wipes the secret key held by the service.
func (s *Service) Close() {
	s.vrf.Zero()
}

// HandleJSON decodes a payload, handles it and encodes the result.
func (s *Service) HandleJSON(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := Decode(payload)
	if err != nil {
		return nil, err
	}
	res, err := s.Handle(ctx, req)
	if err != nil {
		return nil, err
	}
	return json.Marshal(res)
}

// Handle dispatches a decoded request.
func (s *Service) Handle(ctx context.Context, req Request) (*EpochResult, error) {
	switch r := req.(type) {
	case GetPublicEpoch:
		s.metrics.requests.WithLabelValues(r.Method()).Inc()
		return s.getPublicEpoch(ctx, r)
	case NewEpoch:
		s.metrics.requests.WithLabelValues(r.Method()).Inc()
		return s.newEpoch(ctx, r)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownMethod, req)
	}
}

func (s *Service) getPublicEpoch(ctx context.Context, r GetPublicEpoch) (*EpochResult, error) {
	e, err := s.store.Epoch(ctx, r.Network, r.Epoch)
	if err != nil {
		return nil, err
	}
	key, err := s.store.KeyByID(ctx, e.KeyringID)
	if err != nil {
		return nil, err
	}
	res := newEpochResult(e, key)
	if err := verifyEpoch(e, key); err != nil {
		s.metrics.verifyFailed.Inc()
		glog.Warningf("rpc: epoch %d of network %d does not verify: %v", e.Epoch, e.Network, err)
		return res, nil
	}
	res.Verified = true
	return res, nil
}

func (s *Service) newEpoch(ctx context.Context, r NewEpoch) (*EpochResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		epoch int64
		alpha []byte
	)
	prev, err := s.store.LatestEpoch(ctx, r.Network)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		alpha = GenesisAlpha(r.Network)
	case err != nil:
		return nil, err
	default:
		epoch = prev.Epoch + 1
		if alpha, err = decodeHex(prev.Y, ecvrf.OutputSize); err != nil {
			return nil, fmt.Errorf("epoch %d of network %d: y: %v", prev.Epoch, prev.Network, err)
		}
	}

	proof, err := s.vrf.Prove(alpha)
	if err != nil {
		return nil, fmt.Errorf("prove epoch %d of network %d: %w", epoch, r.Network, err)
	}
	gamma, c, sv, y := proof.Fields()
	e := &storage.Epoch{
		Network:     r.Network,
		KeyringID:   s.key.ID,
		Epoch:       epoch,
		Alpha:       hex.EncodeToString(alpha),
		Gamma:       gamma,
		C:           c,
		S:           sv,
		Y:           y,
		CreatedDate: time.Now().UTC(),
	}
	if e.ID, err = s.store.InsertEpoch(ctx, e); err != nil {
		return nil, err
	}
	s.metrics.epochsCreated.Inc()
	glog.V(1).Infof("rpc: network %d epoch %d y=%v", e.Network, e.Epoch, e.Y)

	res := newEpochResult(e, s.key)
	res.Verified = true
	return res, nil
}

// GenesisAlpha is the input of epoch 0: the Keccak-256 hash of the network id
// as a 32-byte big-endian integer.
func GenesisAlpha(network int64) []byte {
	var buf [32]byte
	for i := 0; i < 8; i++ {
		buf[31-i] = byte(uint64(network) >> (8 * i))
	}
	h := sha3.NewLegacyKeccak256()
	h.Write(buf[:])
	return h.Sum(nil)
}

func newEpochResult(e *storage.Epoch, key *storage.Key) *EpochResult {
	return &EpochResult{
		Network:     e.Network,
		Epoch:       e.Epoch,
		Alpha:       e.Alpha,
		Gamma:       e.Gamma,
		C:           e.C,
		S:           e.S,
		Y:           e.Y,
		PublicKey:   key.PublicKey,
		CreatedDate: e.CreatedDate,
	}
}

// verifyEpoch rebuilds the proof of a stored epoch and checks it against the
// key that produced it.
func verifyEpoch(e *storage.Epoch, key *storage.Key) error {
	pkBytes, err := decodeHex(key.PublicKey, ecvrf.PointSize)
	if err != nil {
		return fmt.Errorf("public key: %v", err)
	}
	pk, err := ecvrf.ParsePublicKey(pkBytes)
	if err != nil {
		return err
	}
	verifier, err := ecvrf.NewVerifier(pk)
	if err != nil {
		return err
	}

	pi := make([]byte, 0, ecvrf.ProofSize)
	for _, f := range []struct {
		name string
		hex  string
		size int
	}{
		{"gamma", e.Gamma, ecvrf.PointSize},
		{"c", e.C, ecvrf.ScalarSize},
		{"s", e.S, ecvrf.ScalarSize},
		{"y", e.Y, ecvrf.OutputSize},
	} {
		b, err := decodeHex(f.hex, f.size)
		if err != nil {
			return fmt.Errorf("%v: %v", f.name, err)
		}
		pi = append(pi, b...)
	}
	pi = append(pi, pkBytes...)

	alpha, err := decodeHex(e.Alpha, ecvrf.ScalarSize)
	if err != nil {
		return fmt.Errorf("alpha: %v", err)
	}
	_, err = verifier.VerifyBytes(alpha, pi)
	return err
}

func decodeHex(s string, size int) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(b) != size {
		return nil, fmt.Errorf("got %d bytes, want %d", len(b), size)
	}
	return b, nil
}
