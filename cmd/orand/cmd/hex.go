package cmd

import (
	"encoding/hex"
	"strings"
)

// decodeHex accepts an optional 0x prefix.
func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return hex.DecodeString(s)
}
