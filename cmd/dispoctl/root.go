package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"dispochart/internal/config"
	"dispochart/internal/infrastructure"
	"dispochart/internal/services"
	"dispochart/internal/validation"
	"dispochart/pkg/contracts"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

// runtime is what every subcommand needs once flags are parsed.
type runtime struct {
	cfg     *config.Config
	logger  *slog.Logger
	service *services.ChartService
	files   *validation.FileValidator
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "dispoctl",
		Short:         "Chart account disposition against reach from a spreadsheet",
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (DISPO_* variables still apply)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	cmd.AddCommand(
		newChartCmd(&opts),
		newValidateCmd(&opts),
		newSchemaCmd(&opts),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString())
		},
	}
}

// setup loads config and builds the chart service with no-op telemetry.
// Logs go to stderr so stdout stays parseable, and every line of one
// invocation carries the same trace_id.
func setup(cmd *cobra.Command, opts *rootOptions) (*runtime, error) {
	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return nil, err
	}
	cmd.SetContext(infrastructure.EnsureTraceID(cmd.Context()))
	logger := infrastructure.WithComponent(infrastructure.NewLogger(cmd.ErrOrStderr(), opts.logLevel), cmd.Name())

	metrics, err := infrastructure.CreateBusinessMetrics(metricnoop.NewMeterProvider().Meter(infrastructure.InstrumentationName))
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	files := validation.NewFileValidator(logger, cfg.Server.MaxUploadBytes)
	svc := services.NewChartService(cfg.Chart, files,
		tracenoop.NewTracerProvider().Tracer(infrastructure.InstrumentationName), metrics, logger)

	return &runtime{cfg: cfg, logger: logger, service: svc, files: files}, nil
}

// openUpload opens a spreadsheet from disk as a service upload.
func (rt *runtime) openUpload(path string) (services.Upload, func(), error) {
	if err := rt.files.ValidateFile(path); err != nil {
		return services.Upload{}, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return services.Upload{}, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return services.Upload{}, nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return services.Upload{Reader: f, Filename: info.Name(), Size: info.Size()},
		func() { f.Close() }, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeOutput writes v as JSON to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, v any) error {
	if path == "" || path == "-" {
		return writeJSON(w, v)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := writeJSON(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
