// Command orand manages VRF keys and proves, verifies and serves epoch
// randomness.
package main

import "github.com/orand-network/ecvrf/cmd/orand/cmd"

func main() {
	cmd.Execute()
}
