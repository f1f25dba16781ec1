package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"dispochart/internal/files"
	"dispochart/internal/services"
)

// maxParallelValidations bounds concurrent workbook loads in --dir mode.
const maxParallelValidations = 4

func newValidateCmd(root *rootOptions) *cobra.Command {
	var (
		file    string
		dir     string
		yMetric string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that spreadsheets have the columns a chart needs",
		Example: `  dispoctl validate --file accounts.xlsx
  dispoctl validate --dir exports --y-metric TwFollowers`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, root)
			if err != nil {
				return err
			}
			if dir != "" {
				return validateDir(cmd, rt, dir, yMetric)
			}

			report, err := validateOne(cmd, rt, file, yMetric)
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !report.Valid {
				return fmt.Errorf("missing required columns: %s", strings.Join(report.Missing, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Spreadsheet to check")
	cmd.Flags().StringVar(&dir, "dir", "", "Check every spreadsheet in this directory")
	cmd.Flags().StringVar(&yMetric, "y-metric", "", "Y axis whose source columns are required (default from config)")
	cmd.MarkFlagsOneRequired("file", "dir")
	cmd.MarkFlagsMutuallyExclusive("file", "dir")
	return cmd
}

func validateOne(cmd *cobra.Command, rt *runtime, path, yMetric string) (*services.ValidationReport, error) {
	upload, closeFn, err := rt.openUpload(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return rt.service.Validate(cmd.Context(), upload, yMetric)
}

// dirResult is one line of the --dir report.
type dirResult struct {
	Path   string                     `json:"path"`
	Report *services.ValidationReport `json:"report,omitempty"`
	Error  string                     `json:"error,omitempty"`
}

// validateDir checks every spreadsheet concurrently. A file that cannot be
// read is reported alongside the others rather than aborting the batch.
func validateDir(cmd *cobra.Command, rt *runtime, dir, yMetric string) error {
	sheets, err := files.NewDiscovery("").FindSpreadsheets(dir)
	if err != nil {
		return err
	}
	if len(sheets) == 0 {
		return fmt.Errorf("no spreadsheets found in %s", dir)
	}

	results := make([]dirResult, len(sheets))
	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxParallelValidations)
	for i, sheet := range sheets {
		g.Go(func() error {
			results[i].Path = sheet.Path
			report, err := validateOne(cmd, rt, sheet.Path, yMetric)
			if err != nil {
				if errors.Is(err, services.ErrInvalidRequest) {
					return err
				}
				results[i].Error = err.Error()
				return nil
			}
			results[i].Report = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := writeJSON(cmd.OutOrStdout(), results); err != nil {
		return err
	}
	failed := 0
	for _, r := range results {
		if r.Error != "" || !r.Report.Valid {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d spreadsheets failed validation", failed, len(results))
	}
	return nil
}

func newSchemaCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the columns and options an upload supports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, root)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rt.service.Schema())
		},
	}
}
