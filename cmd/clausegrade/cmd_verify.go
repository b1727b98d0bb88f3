package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clausegrade/internal/assessment"
	"clausegrade/internal/domain"
)

var verifyFlags struct {
	envelope string
	jwks     string
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a signed assessment offline",
	Long:  "Verifies an assessment envelope (the body returned by POST /v1/assessments)\nagainst a JWKS file or URL. Exits non-zero when the assessment is not valid.",
	Example: `  clausegrade verify -f envelope.json --jwks https://grade.example.com/.well-known/jwks.json`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	f := verifyCmd.Flags()
	f.StringVarP(&verifyFlags.envelope, "file", "f", "", "Envelope JSON file (\"-\" for stdin)")
	f.StringVar(&verifyFlags.jwks, "jwks", "", "JWKS file path or http(s) URL (required)")
	_ = verifyCmd.MarkFlagRequired("jwks")
}

func runVerify(cmd *cobra.Command, _ []string) error {
	raw, err := readInput(cmd, verifyFlags.envelope)
	if err != nil {
		return err
	}
	var env domain.Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return fmt.Errorf("parse envelope: %w", err)
	}
	jwks, err := loadJWKS(cmd, verifyFlags.jwks)
	if err != nil {
		return err
	}
	keys, err := assessment.ParseJWKS(jwks)
	if err != nil {
		return err
	}
	v := assessment.Verify(env.SignedAssessment, env.Signature, env.SignedPayloadHash, keys, time.Now())
	if err := printJSON(cmd.OutOrStdout(), v); err != nil {
		return err
	}
	if !v.Valid {
		return fmt.Errorf("assessment is not valid: %s", v.Reason)
	}
	return nil
}

func loadJWKS(cmd *cobra.Command, src string) ([]byte, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return os.ReadFile(src)
	}
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch jwks: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}
