package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clausegrade/internal/assessment"
)

var keygenFlags struct {
	jwksPath string
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an Ed25519 signing key for the server",
	Long:  "Prints SIGNING_KEY and SIGNING_KEY_ID lines suitable for a .env file.\nThe public key set can be written with --jwks for offline verifiers.",
	Args:  cobra.NoArgs,
	RunE:  runKeygen,
}

func init() {
	keygenCmd.Flags().StringVar(&keygenFlags.jwksPath, "jwks", "", "Also write the public JWKS to this file")
}

func runKeygen(cmd *cobra.Command, _ []string) error {
	key, err := assessment.GenerateKey()
	if err != nil {
		return err
	}
	signer, err := assessment.NewSigner(key, "", "")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "SIGNING_KEY=%s\n", assessment.EncodeSeed(key))
	fmt.Fprintf(out, "SIGNING_KEY_ID=%s\n", signer.KeyID())

	if keygenFlags.jwksPath == "" {
		return nil
	}
	f, err := os.Create(keygenFlags.jwksPath)
	if err != nil {
		return fmt.Errorf("write jwks: %w", err)
	}
	defer f.Close()
	return printJSON(f, signer.KeySet().JWKS())
}
