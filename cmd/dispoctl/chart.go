package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"dispochart/internal/exporter"
	"dispochart/internal/files"
	"dispochart/internal/services"
	"dispochart/pkg/contracts/domain"
)

type chartOptions struct {
	file        string
	factions    []string
	tags        []string
	tagMode     string
	emptyTags   string
	images      bool
	yMetric     string
	title       string
	previewRows int
	out         string
	rowsCSV     string
	full        bool
}

func newChartCmd(root *rootOptions) *cobra.Command {
	var opts chartOptions

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Build the Vega-Lite scatter spec for a spreadsheet",
		Long: `Load a spreadsheet, drop rows that cannot be plotted, apply the faction
and tag selections and print the resulting Vega-Lite spec as JSON.

--faction and --tag may be repeated. Leaving a flag out selects everything;
passing it with an empty value (--tag "") selects nothing. When --file names
a directory the most recently modified spreadsheet in it is used.`,
		Example: `  dispoctl chart --file accounts.xlsx --faction Blue --tag news --tag sports
  dispoctl chart --file accounts.csv --y-metric TwFollowers --images --out chart.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, root)
			if err != nil {
				return err
			}
			return runChart(cmd, rt, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "Spreadsheet to chart (.xlsx, .xlsm or .csv), or a directory of them")
	f.StringArrayVar(&opts.factions, "faction", nil, "Faction to keep (repeatable)")
	f.StringArrayVar(&opts.tags, "tag", nil, "Tag to keep (repeatable)")
	f.StringVar(&opts.tagMode, "tag-mode", "", "Tag matching: any or exact (default from config)")
	f.StringVar(&opts.emptyTags, "empty-tags", "", "With an empty tag selection show all or none (default from config)")
	f.BoolVar(&opts.images, "images", false, "Draw each point with the row's Image URL")
	f.StringVar(&opts.yMetric, "y-metric", "", "Y axis: TwFollowers, WebsiteViews or Reach (default from config)")
	f.StringVar(&opts.title, "title", "", "Chart title")
	f.IntVar(&opts.previewRows, "preview-rows", 0, "Rows in the preview (default from config)")
	f.StringVarP(&opts.out, "out", "o", "-", "Output file, - for stdout")
	f.StringVar(&opts.rowsCSV, "rows-csv", "", "Also write every selected row to this CSV file")
	f.BoolVar(&opts.full, "full", false, "Print the full result (preview, options, stats) instead of the chart only")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runChart(cmd *cobra.Command, rt *runtime, opts chartOptions) error {
	for _, path := range []string{opts.out, opts.rowsCSV} {
		if path == "-" || path == "" {
			continue
		}
		if err := rt.files.ValidateOutputDirectory(filepath.Dir(path)); err != nil {
			return err
		}
	}

	input, err := resolveInput(opts.file)
	if err != nil {
		return err
	}
	opts.file = input

	upload, closeFn, err := rt.openUpload(opts.file)
	if err != nil {
		return err
	}
	defer closeFn()

	marker := domain.MarkerCircle
	if opts.images {
		marker = domain.MarkerImage
	}
	req := services.ChartRequest{
		Filter: domain.FilterState{
			Factions:  selection(cmd, "faction", opts.factions),
			Tags:      selection(cmd, "tag", opts.tags),
			TagMode:   domain.TagMode(opts.tagMode),
			EmptyTags: domain.EmptyTagPolicy(opts.emptyTags),
		},
		YMetric:     opts.yMetric,
		Marker:      marker,
		PreviewRows: opts.previewRows,
		Title:       opts.title,
	}

	result, err := rt.service.Generate(cmd.Context(), upload, req)
	if err != nil {
		return err
	}
	if opts.rowsCSV != "" {
		if err := exportRows(cmd, rt, opts, req); err != nil {
			return err
		}
	}
	if result.Warning != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", result.Warning)
	}

	if opts.full {
		return writeOutput(cmd.OutOrStdout(), opts.out, result)
	}
	if result.Chart == nil {
		return nil
	}
	return writeOutput(cmd.OutOrStdout(), opts.out, result.Chart)
}

func resolveInput(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return path, nil
	}
	latest, err := files.NewDiscovery("").FindLatestSpreadsheet(path)
	if err != nil {
		return "", err
	}
	return latest.Path, nil
}

// exportRows re-reads the spreadsheet and writes the full selection, which
// the chart result only carries a preview of.
func exportRows(cmd *cobra.Command, rt *runtime, opts chartOptions, req services.ChartRequest) error {
	upload, closeFn, err := rt.openUpload(opts.file)
	if err != nil {
		return err
	}
	defer closeFn()

	rows, err := rt.service.Export(cmd.Context(), upload, req)
	if err != nil {
		return err
	}
	writeOpts := exporter.DefaultWriteOptions()
	writeOpts.Logger = rt.logger
	return exporter.WriteFile(opts.rowsCSV, rows, writeOpts)
}

// selection maps a repeatable flag onto widget state: an unset flag is an
// untouched widget (nil), and a flag whose values are all empty is an
// explicit empty selection.
func selection(cmd *cobra.Command, name string, values []string) []string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
