package cmd

import (
	"context"
	"fmt"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/orand-network/ecvrf"
)

var proveAlpha string

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "Prove a 32-byte input with the newest keyring key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		alpha, err := decodeHexFlag("alpha", proveAlpha)
		if err != nil {
			return err
		}

		ctx := context.Background()
		store, _, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		key, err := store.LatestKey(ctx)
		if err != nil {
			return err
		}
		sk, err := decodeHex(key.SecretKey)
		if err != nil {
			return fmt.Errorf("key %d: %v", key.ID, err)
		}
		vrf, err := ecvrf.NewFromBytes(sk)
		for i := range sk {
			sk[i] = 0
		}
		if err != nil {
			return err
		}
		defer vrf.Zero()

		proof, err := vrf.Prove(alpha)
		if err != nil {
			return err
		}
		gamma, c, s, y := proof.Fields()
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "public key: %v\n", key.PublicKey)
		fmt.Fprintf(w, "gamma: %v\nc: %v\ns: %v\ny: %v\n", gamma, c, s, y)
		fmt.Fprintf(w, "proof: %x\n", proof.Bytes())
		return nil
	},
}

func init() {
	proveCmd.Flags().StringVar(&proveAlpha, "alpha", "", "32-byte input, hex")
	if err := proveCmd.MarkFlagRequired("alpha"); err != nil {
		glog.Exitf("%v", err)
	}
	RootCmd.AddCommand(proveCmd)
}
