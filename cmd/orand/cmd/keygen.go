package cmd

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orand-network/ecvrf"
	"github.com/orand-network/ecvrf/internal/storage"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a VRF key and add it to the keyring",
	Long: `Generates a secp256k1 secret key, stores it in the keyring and prints
the public key. The newest keyring entry is the one used to prove epochs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := context.Background()
		store, _, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		sk, err := ecvrf.GenerateKey(rand.Reader)
		if err != nil {
			return err
		}
		vrf, err := ecvrf.New(sk)
		if err != nil {
			return err
		}
		defer vrf.Zero()

		defer sk.Zero()

		skBytes := sk.Serialize()
		pk := vrf.PublicKey()
		key := &storage.Key{
			PublicKey: pk.String(),
			SecretKey: hex.EncodeToString(skBytes),
		}
		for i := range skBytes {
			skBytes[i] = 0
		}
		id, err := store.InsertKey(ctx, key)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "key %d\npublic key: %v\ncompressed: %x\n", id, pk.String(), pk.SerializeCompressed())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(keygenCmd)
}
