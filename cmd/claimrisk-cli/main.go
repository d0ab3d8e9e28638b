package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/baditaflorin/l"
	"github.com/spf13/cobra"

	"yashubustudio/claimrisk/claimrisk"
	"yashubustudio/claimrisk/internal/logging"
	"yashubustudio/claimrisk/internal/server"
)

type cliOptions struct {
	configPath string
	jsonOut    bool
	quiet      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:          "claimrisk-cli",
		Short:        "Score insurance policies for claim risk",
		Long:         `Loads the claim dataset and the trained classifier described by config.json and scores policy parameters from the command line or over HTTP.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config.json (default: ./config.json)")
	root.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "Print machine readable JSON")
	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress log output on stderr")

	root.AddCommand(
		newInitCmd(opts),
		newPredictCmd(opts),
		newOptionsCmd(opts),
		newStatsCmd(opts),
		newDocsCmd(),
		newSchemaCmd(opts),
		newServeCmd(opts),
	)
	return root
}

func newInitCmd(opts *cliOptions) *cobra.Command {
	var (
		force                           bool
		dataPath, schemaPath, modelPath string
		modelKind                       string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config.json with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := opts.configPath
			if path == "" {
				path = claimrisk.DefaultConfigFile
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			cfg := claimrisk.Config{
				DataPath:   dataPath,
				SchemaPath: schemaPath,
				Model:      claimrisk.ModelConfig{Kind: claimrisk.ModelKind(modelKind), Path: modelPath},
			}
			if err := claimrisk.SaveConfig(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVar(&force, "force", false, "Overwrite an existing config file")
	f.StringVar(&dataPath, "data", "", "Dataset path (.csv or .tsv)")
	f.StringVar(&schemaPath, "schema", "", "Schema YAML path; empty infers the schema at startup")
	f.StringVar(&modelPath, "model", "", "Classifier artifact path")
	f.StringVar(&modelKind, "model-kind", "", "Classifier kind: onnx or logistic")
	return cmd
}

func newPredictCmd(opts *cliOptions) *cobra.Command {
	var (
		tenure, vehicleAge, holderAge float64
		areaCluster, fuelType         string
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score one policy; unset parameters take their form defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, opts, func(svc *claimrisk.Service) error {
				sub := svc.Defaults()
				flags := cmd.Flags()
				if flags.Changed("tenure") {
					sub.Tenure = &tenure
				}
				if flags.Changed("vehicle-age") {
					sub.VehicleAge = &vehicleAge
				}
				if flags.Changed("holder-age") {
					sub.HolderAge = &holderAge
				}
				if flags.Changed("area-cluster") {
					sub.AreaCluster = &areaCluster
				}
				if flags.Changed("fuel-type") {
					sub.FuelType = &fuelType
				}
				res, err := svc.Predict(cmd.Context(), sub)
				if err != nil {
					return err
				}
				view := claimrisk.Present(res)
				if opts.jsonOut {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"result": res, "view": view})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, view.Headline)
				fmt.Fprintln(out, view.Detail)
				fmt.Fprintln(out, view.Info)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.Float64Var(&tenure, "tenure", 0, "Policy tenure in years [0, 2]")
	f.Float64Var(&vehicleAge, "vehicle-age", 0, "Normalised car age [0, 1]")
	f.Float64Var(&holderAge, "holder-age", 0, "Policyholder age in years [18, 100]")
	f.StringVar(&areaCluster, "area-cluster", "", "Area cluster, one of the dataset's values")
	f.StringVar(&fuelType, "fuel-type", "", "Fuel type, one of the dataset's values")
	return cmd
}

func newOptionsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the parameter domains and choices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, opts, func(svc *claimrisk.Service) error {
				form := svc.Options()
				if opts.jsonOut {
					return writeJSON(cmd.OutOrStdout(), form)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "PARAMETER\tDOMAIN\tDEFAULT")
				fmt.Fprintf(tw, "tenure\t[%g, %g]\t%g\n", form.Tenure.Min, form.Tenure.Max, form.Tenure.Default)
				fmt.Fprintf(tw, "vehicle-age\t[%g, %g]\t%g\n", form.VehicleAge.Min, form.VehicleAge.Max, form.VehicleAge.Default)
				fmt.Fprintf(tw, "holder-age\t[%g, %g]\t%g\n", form.HolderAge.Min, form.HolderAge.Max, form.HolderAge.Default)
				fmt.Fprintf(tw, "area-cluster\t%v\t%s\n", form.AreaCluster.Options, form.AreaCluster.Default)
				fmt.Fprintf(tw, "fuel-type\t%v\t%s\n", form.FuelType.Options, form.FuelType.Default)
				return tw.Flush()
			})
		},
	}
}

func newStatsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the dataset summary and exploratory aggregates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, opts, func(svc *claimrisk.Service) error {
				sum, stats := svc.Summary(), svc.Stats()
				if opts.jsonOut {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"summary": sum, "stats": stats})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Dataset size: %s\nHistorical claim rate: %s\nModel: %s\n\n", sum.RowsText, sum.RateText, sum.Model)
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "CLUSTER\tCLAIMS\tNO CLAIMS")
				for _, c := range stats.ClaimsByCluster {
					fmt.Fprintf(tw, "%s\t%d\t%d\n", c.Cluster, c.Claims, c.NoClaims)
				}
				fmt.Fprintln(tw)
				fmt.Fprintln(tw, "TENURE\tCOUNT\tMIN\tQ1\tMEDIAN\tQ3\tMAX")
				for _, row := range []struct {
					name string
					b    claimrisk.BoxStats
				}{{"no claim", stats.Tenure.NoClaim}, {"claim", stats.Tenure.Claim}} {
					fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n",
						row.name, row.b.Count, row.b.Min, row.b.Q1, row.b.Median, row.b.Q3, row.b.Max)
				}
				return tw.Flush()
			})
		},
	}
}

func newDocsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "docs",
		Short: "Print the project documentation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), claimrisk.Documentation())
			return err
		},
	}
}

func newSchemaCmd(opts *cliOptions) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Infer a schema file from the configured dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := claimrisk.LoadConfig(opts.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			ds, err := claimrisk.ReadDataset(cfg.DataPath, cfg.Columns.Label)
			if err != nil {
				return err
			}
			schema, err := claimrisk.InferSchema(ds)
			if err != nil {
				return err
			}
			if outPath == "" {
				return claimrisk.WriteSchema(cmd.OutOrStdout(), schema)
			}
			if err := claimrisk.SaveSchema(outPath, schema); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d columns to %s\n", schema.Len(), outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the schema to this file instead of stdout")
	return cmd
}

func newServeCmd(opts *cliOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the predictor over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLogger(opts, func(cfg claimrisk.Config, logger l.Logger) error {
				if addr != "" {
					cfg.Server.Addr = addr
				}
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				svc, err := claimrisk.OpenService(ctx, cfg, logger)
				if err != nil {
					logger.Error("Startup failed", "error", err)
					return err
				}
				defer svc.Close()
				return server.New(svc, cfg.Server, logger).Run(ctx)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func withLogger(opts *cliOptions, fn func(claimrisk.Config, l.Logger) error) error {
	cfg, err := claimrisk.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, closeLog, err := logging.New(logging.Options{File: cfg.Log.File, JSON: cfg.Log.JSON, Quiet: opts.quiet, Async: true})
	if err != nil {
		return err
	}
	defer closeLog()
	return fn(cfg, logger)
}

func withService(cmd *cobra.Command, opts *cliOptions, fn func(*claimrisk.Service) error) error {
	return withLogger(opts, func(cfg claimrisk.Config, logger l.Logger) error {
		svc, err := claimrisk.OpenService(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer svc.Close()
		return fn(svc)
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
