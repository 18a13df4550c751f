package rpc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Request
		wantErr error
	}{
		{"get public epoch", `{"method":"orand_getPublicEpoch","params":["56","3"]}`, GetPublicEpoch{Network: 56, Epoch: 3}, nil},
		{"new epoch", `{"method":"orand_newEpoch","params":["1"]}`, NewEpoch{Network: 1}, nil},
		{"unknown method", `{"method":"orand_deleteEpoch","params":["1"]}`, nil, ErrUnknownMethod},
		{"missing param", `{"method":"orand_getPublicEpoch","params":["56"]}`, nil, ErrInvalidParams},
		{"extra param", `{"method":"orand_newEpoch","params":["1","2"]}`, nil, ErrInvalidParams},
		{"not a number", `{"method":"orand_newEpoch","params":["one"]}`, nil, ErrInvalidParams},
		{"negative", `{"method":"orand_newEpoch","params":["-1"]}`, nil, ErrInvalidParams},
		{"params not strings", `{"method":"orand_newEpoch","params":[1]}`, nil, ErrInvalidParams},
		{"not json", `orand_newEpoch 1`, nil, ErrInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.in))
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Method(), got.Method())
		})
	}
}
