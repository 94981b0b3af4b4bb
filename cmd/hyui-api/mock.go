package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hylode/hyui/internal/config"
	"github.com/hylode/hyui/internal/mock"
	"github.com/hylode/hyui/internal/platform/db"
	"github.com/hylode/hyui/internal/platform/logging"
	"github.com/hylode/hyui/internal/schema"
)

const defaultMockDB = "sqlite:///mock.db"

func mockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Build and inspect the development mock database",
	}

	buildCmd := &cobra.Command{
		Use:   "build [routes...]",
		Short: "Load recorded route datasets into the mock store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadCLI()
			if err != nil {
				return err
			}
			opts := buildOptions{Routes: args, Fixtures: fixtures(cfg)}
			opts.DB, _ = cmd.Flags().GetString("db")
			opts.Root, _ = cmd.Flags().GetString("root")
			opts.Strict, _ = cmd.Flags().GetBool("strict")
			if opts.Root == "" {
				opts.Root = cfg.MockRoutesRoot
			}
			_, err = runBuild(cmd.Context(), opts, cmd.OutOrStdout(), logger)
			return err
		},
	}
	buildCmd.Flags().String("db", defaultMockDB, "Destination store URL (sqlite:// for in-memory)")
	buildCmd.Flags().String("root", "", "Directory holding one dataset directory per route (default MOCK_ROUTES_ROOT)")
	buildCmd.Flags().Bool("strict", false, "Exit non-zero when any route fails to load")
	cmd.AddCommand(buildCmd)

	routesCmd := &cobra.Command{
		Use:   "routes",
		Short: "List registered routes and the dataset each would load",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadCLI()
			if err != nil {
				return err
			}
			root, _ := cmd.Flags().GetString("root")
			if root == "" {
				root = cfg.MockRoutesRoot
			}
			b := mock.NewBuilder(mock.Config{Root: root, Fixtures: fixtures(cfg)}, schema.Default(), logger)
			return printRoutes(cmd.OutOrStdout(), b)
		},
	}
	routesCmd.Flags().String("root", "", "Directory holding one dataset directory per route (default MOCK_ROUTES_ROOT)")
	cmd.AddCommand(routesCmd)

	synthCmd := &cobra.Command{
		Use:   "synth [routes...]",
		Short: "Write deterministic synthetic archives for routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadCLI()
			if err != nil {
				return err
			}
			root, _ := cmd.Flags().GetString("root")
			if root == "" {
				root = cfg.MockRoutesRoot
			}
			synth := mock.DefaultSynthConfig()
			synth.Rows, _ = cmd.Flags().GetInt("rows")
			synth.Seed, _ = cmd.Flags().GetInt64("seed")
			return runSynth(cmd.OutOrStdout(), root, args, synth)
		},
	}
	synthCmd.Flags().String("root", "", "Output directory (default MOCK_ROUTES_ROOT)")
	synthCmd.Flags().Int("rows", mock.DefaultSynthConfig().Rows, "Rows per route")
	synthCmd.Flags().Int64("seed", mock.DefaultSynthConfig().Seed, "PRNG seed")
	cmd.AddCommand(synthCmd)

	return cmd
}

func loadCLI() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(logging.Options{
		App:    "hyui-api",
		Env:    cfg.Env,
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger, nil
}

func fixtures(cfg *config.Config) map[string]mock.Fixture {
	return map[string]mock.Fixture{
		schema.RouteIcuDischarge: {Path: cfg.IcuDischargeFixture, DataPath: "data"},
	}
}

type buildOptions struct {
	DB       string
	Root     string
	Routes   []string
	Fixtures map[string]mock.Fixture
	Strict   bool
}

// runBuild loads routes into the store named by opts.DB and prints the
// report. Unknown routes and an unusable store are errors; route failures
// are only an error with Strict.
func runBuild(ctx context.Context, opts buildOptions, out io.Writer, logger zerolog.Logger) (*mock.Report, error) {
	registry := schema.Default()
	routes := opts.Routes
	if len(routes) == 0 {
		routes = registry.Routes()
	}
	if err := registry.Validate(routes); err != nil {
		return nil, err
	}

	store, err := db.OpenSQLite(opts.DB)
	if err != nil {
		return nil, fmt.Errorf("open mock store: %w", err)
	}
	defer store.Close()

	b := mock.NewBuilder(mock.Config{Root: opts.Root, Routes: routes, Fixtures: opts.Fixtures}, registry, logger)
	report := b.Build(ctx, store, routes)
	printReport(out, report)

	if opts.Strict && !report.OK() {
		return report, fmt.Errorf("%d of %d routes failed to load", len(report.Failed), len(routes))
	}
	return report, nil
}

func printReport(out io.Writer, report *mock.Report) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ROUTE\tRESULT\tROWS\tDETAIL")
	for _, l := range report.Loaded {
		fmt.Fprintf(w, "%s\tloaded\t%d\t%s %s\n", l.Route, l.Rows, l.Source, l.Path)
	}
	for _, f := range report.Failed {
		fmt.Fprintf(w, "%s\t%s\t-\t%s\n", f.Route, f.Kind, f.Message)
	}
	w.Flush()
}

func printRoutes(out io.Writer, b *mock.Builder) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ROUTE\tSOURCE\tPATH")
	for _, route := range b.Registry().Routes() {
		src, err := b.Locate(route)
		if err != nil {
			fmt.Fprintf(w, "%s\t%s\t%s\n", route, mock.KindOf(err), err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", route, src.Kind, src.Path)
	}
	return w.Flush()
}

func runSynth(out io.Writer, root string, routes []string, cfg mock.SynthConfig) error {
	registry := schema.Default()
	if len(routes) == 0 {
		routes = registry.Routes()
	}
	tables := make([]schema.Table, 0, len(routes))
	for _, route := range routes {
		t, err := registry.Lookup(route)
		if err != nil {
			return err
		}
		tables = append(tables, t)
	}

	paths, err := mock.Synthesize(root, tables, cfg)
	for _, p := range paths {
		fmt.Fprintln(out, p)
	}
	return err
}
