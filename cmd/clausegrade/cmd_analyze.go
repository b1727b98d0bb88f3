package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"clausegrade/internal/clauses"
	"clausegrade/internal/extract"
	"clausegrade/internal/fetch"
	"clausegrade/internal/ports"
	"clausegrade/internal/services/analyzer"
)

var analyzeFlags struct {
	file    string
	url     string
	timeout time.Duration
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze policy text from a file, stdin or a URL",
	Example: `  clausegrade analyze -f returns.txt
  cat terms.txt | clausegrade analyze
  clausegrade analyze --url https://shop.example.com`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeFlags.file, "file", "f", "", "Policy text file (\"-\" or empty for stdin)")
	f.StringVar(&analyzeFlags.url, "url", "", "Fetch and analyze the seller's policy pages")
	f.DurationVar(&analyzeFlags.timeout, "timeout", 10*time.Second, "Per-category fetch timeout")
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ex, err := extract.New(clauses.Default())
	if err != nil {
		return err
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	svc := analyzer.New(ex, log, analyzer.WithFetcher(fetch.New(analyzeFlags.timeout, log)))

	req := ports.AnalysisRequest{URL: analyzeFlags.url}
	if analyzeFlags.url == "" || analyzeFlags.file != "" {
		text, err := readInput(cmd, analyzeFlags.file)
		if err != nil {
			return err
		}
		req.PolicyText = text
	}
	a, err := svc.Analyze(cmd.Context(), req)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), a.Result)
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
