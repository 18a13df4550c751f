package cmd

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/orand-network/ecvrf"
)

var (
	verifyPublicKey string
	verifyAlpha     string
	verifyProof     string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a serialized proof and print its output",
	Long: `Verifies a 224-byte proof for alpha under a public key. The key may be
given as raw x || y (64 bytes) or SEC1 compressed or uncompressed. No
database is used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		pkBytes, err := decodeHexFlag("public-key", verifyPublicKey)
		if err != nil {
			return err
		}
		alpha, err := decodeHexFlag("alpha", verifyAlpha)
		if err != nil {
			return err
		}
		pi, err := decodeHexFlag("proof", verifyProof)
		if err != nil {
			return err
		}

		pk, err := ecvrf.ParsePublicKey(pkBytes)
		if err != nil {
			return err
		}
		verifier, err := ecvrf.NewVerifier(pk)
		if err != nil {
			return err
		}
		out, err := verifier.VerifyBytes(alpha, pi)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "y: %x\n", out)
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyPublicKey, "public-key", "", "public key, hex")
	verifyCmd.Flags().StringVar(&verifyAlpha, "alpha", "", "32-byte input, hex")
	verifyCmd.Flags().StringVar(&verifyProof, "proof", "", "224-byte proof, hex")
	for _, f := range []string{"public-key", "alpha", "proof"} {
		if err := verifyCmd.MarkFlagRequired(f); err != nil {
			glog.Exitf("%v", err)
		}
	}
	RootCmd.AddCommand(verifyCmd)
}
