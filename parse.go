package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/muhammadolammi/pragatiworker/internal/autofill"
	"github.com/muhammadolammi/pragatiworker/internal/config"
	"github.com/muhammadolammi/pragatiworker/internal/extract"
	"github.com/muhammadolammi/pragatiworker/internal/inference"
	"github.com/muhammadolammi/pragatiworker/internal/intake"
	"github.com/muhammadolammi/pragatiworker/internal/session"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a resume file into profile JSON",
	Long: `Extract text from a resume file and print the profile fields found in it.
With --form, the saved form values in the given JSON file are auto-filled and printed too.`,
	RunE: runParse,
}

var (
	parseInputFile string
	parseMediaType string
	parseFormFile  string
	parseNoEnrich  bool
)

func init() {
	parseCmd.Flags().StringVarP(&parseInputFile, "in", "i", "", "Path to the resume (.pdf, .docx or .txt)")
	parseCmd.Flags().StringVar(&parseMediaType, "mime", "", "Media type of the resume (default: from extension)")
	parseCmd.Flags().StringVar(&parseFormFile, "form", "", "Path to a JSON object of saved form values to auto-fill")
	parseCmd.Flags().BoolVar(&parseNoEnrich, "no-enrich", false, "Skip model enrichment even when GOOGLE_API_KEY is set")
	_ = parseCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(parseCmd)
}

type parseOutput struct {
	*intake.Outcome
	Form         map[string]string `json:"form,omitempty"`
	CustomSkills []string          `json:"customSkills,omitempty"`
}

func runParse(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := os.ReadFile(parseInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	doc := extract.Document{
		Name:      filepath.Base(parseInputFile),
		MediaType: parseMediaType,
		Size:      int64(len(data)),
		Data:      data,
	}

	var enricher inference.Enricher
	if !parseNoEnrich {
		enricher = newEnricher(ctx, cfg)
	}
	pipeline := intake.New(enricher, autofill.New(autofill.NoHighlight{}, nil))
	pipeline.Limits.MaxBytes = cfg.MaxUploadBytes

	var out parseOutput
	if parseFormFile == "" {
		out.Outcome, err = pipeline.Analyze(ctx, doc)
		if err != nil {
			return err
		}
		return printJSON(cmd, out)
	}

	saved, err := readFormValues(parseFormFile)
	if err != nil {
		return err
	}
	state := session.New(uuid.New())
	state.Restore(session.Progress{StudentData: saved})

	out.Outcome, err = pipeline.Run(ctx, doc, state.Form())
	if err != nil {
		return err
	}
	out.Form = state.Form().Values()
	out.CustomSkills = state.Form().CustomSkills.List()
	return printJSON(cmd, out)
}

func readFormValues(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read form file: %w", err)
	}
	values := map[string]string{}
	if len(raw) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("form file must be a JSON object of strings: %w", err)
	}
	return values, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
